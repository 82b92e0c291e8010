package cmd

import (
	"github.com/aleph-zero/mineescape/client"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Solve a batch of maps",
	Long:  "Submit every map file listed in a batch file, one path per line, to a mineescape server",
	Run: func(cmd *cobra.Command, args []string) {
		config := client.NewBatchConfig(
			client.WithClientConfig(clientConfig()),
			client.WithFilename(viper.GetString("client.batch.file")))
		client.BootstrapBatch(config)
	},
}

func init() {
	clientCmd.AddCommand(batchCmd)
	batchCmd.Flags().String("client.batch.file", "", "File listing the maps to solve")

	viper.BindPFlag("client.batch.file", batchCmd.Flags().Lookup("client.batch.file"))
}
