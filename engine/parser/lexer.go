package parser

import (
	"fmt"
	"regexp"
	"strings"
	"text/scanner"

	"github.com/aleph-zero/mineescape/engine/token"
)

type TokenPattern struct {
	regex *regexp.Regexp
	token.TokenType
}

var patterns = []TokenPattern{
	{regex: regexp.MustCompile(`^\d+$`), TokenType: token.INTEGER},
	{regex: regexp.MustCompile(`^\n$`), TokenType: token.NEWLINE},
	{regex: regexp.MustCompile(`^S$`), TokenType: token.START},
	{regex: regexp.MustCompile(`^E$`), TokenType: token.EXIT},
	{regex: regexp.MustCompile(`^\.$`), TokenType: token.FLOOR},
	{regex: regexp.MustCompile(`^#$`), TokenType: token.WALL},
	{regex: regexp.MustCompile(`^\$$`), TokenType: token.GOLD},
	{regex: regexp.MustCompile(`^~$`), TokenType: token.LAVA},
	{regex: regexp.MustCompile(`^r$`), TokenType: token.RED_KEY},
	{regex: regexp.MustCompile(`^g$`), TokenType: token.GREEN_KEY},
	{regex: regexp.MustCompile(`^b$`), TokenType: token.BLUE_KEY},
	{regex: regexp.MustCompile(`^R$`), TokenType: token.RED_LOCK},
	{regex: regexp.MustCompile(`^G$`), TokenType: token.GREEN_LOCK},
	{regex: regexp.MustCompile(`^B$`), TokenType: token.BLUE_LOCK},
}

const commentRune = ';'

// LexicalScan splits a map description into tokens. Newlines are significant; other
// whitespace is skipped and everything after a ';' up to the end of the line is a comment.
func LexicalScan(src string) ([]token.Token, error) {
	tokens := make([]token.Token, 0, len(src))
	var s scanner.Scanner
	s.Init(strings.NewReader(src))
	s.Mode = scanner.ScanInts
	s.Whitespace = 1<<'\t' | 1<<'\r' | 1<<' '

	var scanErr error
	s.Error = func(s *scanner.Scanner, msg string) {
		if scanErr == nil {
			scanErr = fmt.Errorf("%s at position: %s", msg, s.Position)
		}
	}

	for tok := s.Scan(); tok != scanner.EOF; tok = s.Scan() {
		if tok == commentRune {
			for ch := s.Peek(); ch != '\n' && ch != scanner.EOF; ch = s.Peek() {
				s.Next()
			}
			continue
		}

		matched := false
		text := s.TokenText()
		position := s.Position

		for _, pattern := range patterns {
			if pattern.regex.MatchString(text) {
				matched = true
				tokens = append(tokens, token.Token{
					TokenType: pattern.TokenType,
					Lexeme:    text,
					Position:  position,
				})
				break
			}
		}

		if !matched {
			return nil, fmt.Errorf("unrecognized map symbol %q at position: %s", text, position)
		}
	}

	if scanErr != nil {
		return nil, scanErr
	}

	tokens = append(tokens, token.Token{TokenType: token.EOF, Position: s.Pos()})
	return tokens, nil
}
