package main

import "github.com/aleph-zero/mineescape/cmd"

func main() {
	cmd.Execute()
}
