package token

import "text/scanner"

type Token struct {
	TokenType
	Lexeme string
	scanner.Position
}

type TokenType int

const (
	INTEGER TokenType = iota
	NEWLINE
	START
	EXIT
	FLOOR
	WALL
	GOLD
	LAVA
	RED_KEY
	GREEN_KEY
	BLUE_KEY
	RED_LOCK
	GREEN_LOCK
	BLUE_LOCK
	EOF
)

func (t TokenType) String() string {
	return [...]string{
		"INTEGER",
		"NEWLINE",
		"START",
		"EXIT",
		"FLOOR",
		"WALL",
		"GOLD",
		"LAVA",
		"RED_KEY",
		"GREEN_KEY",
		"BLUE_KEY",
		"RED_LOCK",
		"GREEN_LOCK",
		"BLUE_LOCK",
		"EOF"}[t]
}

// IsSymbol reports whether t is one of the single-character map symbols.
func (t TokenType) IsSymbol() bool {
	return t >= START && t <= BLUE_LOCK
}
