package parser

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"text/scanner"

	"github.com/aleph-zero/mineescape/engine/mine"
	"github.com/aleph-zero/mineescape/engine/token"
	"github.com/pkg/errors"
)

/*
   map      -> NEWLINE* header NEWLINE+ row (NEWLINE+ row)* NEWLINE* EOF
   header   -> INTEGER INTEGER
   row      -> symbol{cols}
   symbol   -> 'S' | 'E' | '.' | '#' | '$' | '~' | 'r' | 'g' | 'b' | 'R' | 'G' | 'B'
*/

type cellDef struct {
	kind  mine.CellType
	color mine.Color
}

var symbols = map[token.TokenType]cellDef{
	token.START:      {mine.START, mine.NONE},
	token.EXIT:       {mine.EXIT, mine.NONE},
	token.FLOOR:      {mine.FLOOR, mine.NONE},
	token.GOLD:       {mine.GOLD, mine.NONE},
	token.LAVA:       {mine.LAVA, mine.NONE},
	token.RED_KEY:    {mine.KEY, mine.RED},
	token.GREEN_KEY:  {mine.KEY, mine.GREEN},
	token.BLUE_KEY:   {mine.KEY, mine.BLUE},
	token.RED_LOCK:   {mine.LOCK, mine.RED},
	token.GREEN_LOCK: {mine.LOCK, mine.GREEN},
	token.BLUE_LOCK:  {mine.LOCK, mine.BLUE},
}

type Parser struct {
	tokens []token.Token
	index  int
}

func New(tokens []token.Token) *Parser {
	return &Parser{
		tokens: tokens,
		index:  0,
	}
}

// Parse builds a linked mine from the scanned tokens.
func (p *Parser) Parse() (*mine.Mine, error) {
	p.skipNewlines()
	rows, err := p.integer()
	if err != nil {
		return nil, err
	}
	cols, err := p.integer()
	if err != nil {
		return nil, err
	}
	if !p.check(token.NEWLINE) {
		return nil, ParseError{Expected: []token.TokenType{token.NEWLINE}, Received: p.peek()}
	}

	if rows > 0 && cols > 0 {
		if err := p.checkRows(rows, cols); err != nil {
			return nil, err
		}
	}

	m, err := mine.New(rows, cols)
	if err != nil {
		return nil, err
	}

	for row := 0; row < rows; row++ {
		p.skipNewlines()
		if err := p.row(m, row); err != nil {
			return nil, err
		}
	}

	p.skipNewlines()
	if !p.eof() {
		return nil, ParseError{Expected: []token.TokenType{token.EOF}, Received: p.peek()}
	}

	if err := m.Link(); err != nil {
		return nil, err
	}
	return m, nil
}

// checkRows looks ahead for rows lines of exactly cols tokens each, so the header can never
// size a grid larger than the input that follows it.
func (p *Parser) checkRows(rows, cols int) error {
	i := p.index
	for row := 0; row < rows; row++ {
		for i < len(p.tokens) && p.tokens[i].TokenType == token.NEWLINE {
			i++
		}
		first := p.tokens[min(i, len(p.tokens)-1)]
		width := 0
		for i < len(p.tokens) && p.tokens[i].TokenType != token.NEWLINE && p.tokens[i].TokenType != token.EOF {
			width++
			i++
		}
		if width != cols {
			return RowError{Row: row, Expected: cols, Received: width, Position: first.Position}
		}
	}
	return nil
}

func (p *Parser) row(m *mine.Mine, row int) error {
	for col := 0; !p.eof() && !p.check(token.NEWLINE); col++ {
		tok := p.advance()
		if !tok.TokenType.IsSymbol() {
			return ParseError{Expected: []token.TokenType{token.FLOOR, token.WALL}, Received: tok}
		}
		if def, ok := symbols[tok.TokenType]; ok {
			if _, err := m.Place(row, col, def.kind, def.color); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *Parser) integer() (int, error) {
	if !p.match(token.INTEGER) {
		return 0, ParseError{Expected: []token.TokenType{token.INTEGER}, Received: p.peek()}
	}
	tok := p.previous()
	value, err := strconv.Atoi(tok.Lexeme)
	if err != nil {
		return 0, ConversionError{Value: tok, err: err}
	}
	return value, nil
}

func (p *Parser) skipNewlines() {
	for p.match(token.NEWLINE) {
	}
}

func (p *Parser) match(tokenTypes ...token.TokenType) bool {
	for _, tokenType := range tokenTypes {
		if p.check(tokenType) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) check(tokenType token.TokenType) bool {
	if p.eof() {
		return false
	}
	return p.peek().TokenType == tokenType
}

func (p *Parser) advance() token.Token {
	if !p.eof() {
		p.index++
	}
	return p.previous()
}

func (p *Parser) previous() token.Token {
	return p.tokens[p.index-1]
}

func (p *Parser) peek() token.Token {
	return p.tokens[p.index]
}

func (p *Parser) eof() bool {
	return p.index >= len(p.tokens) || p.peek().TokenType == token.EOF
}

/** Loading **/

// Load reads a complete map description from r.
func Load(r io.Reader) (*mine.Mine, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "reading map")
	}

	tokens, err := LexicalScan(string(data))
	if err != nil {
		return nil, errors.Wrap(err, "scanning map")
	}

	m, err := New(tokens).Parse()
	if err != nil {
		return nil, errors.Wrap(err, "parsing map")
	}
	return m, nil
}

func LoadFile(path string) (*mine.Mine, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening map file %s", path)
	}
	defer f.Close()

	m, err := Load(f)
	if err != nil {
		return nil, errors.Wrapf(err, "loading map file %s", path)
	}
	return m, nil
}

/** Error Handling **/

type ParseError struct {
	Expected []token.TokenType
	Received token.Token
}

func (e ParseError) Error() string {
	return fmt.Sprintf("parser expected one of '%s' received %s %q at line: %d, column: %d",
		e.Expected, e.Received.TokenType, e.Received.Lexeme, e.Received.Position.Line, e.Received.Position.Column)
}

type RowError struct {
	Row      int
	Expected int
	Received int
	Position scanner.Position
}

func (e RowError) Error() string {
	return fmt.Sprintf("map row %d has %d cells, expected %d at line: %d",
		e.Row, e.Received, e.Expected, e.Position.Line)
}

type ConversionError struct {
	Value token.Token
	err   error
}

func (e ConversionError) Error() string {
	return fmt.Sprintf("parser cannot convert token '%s' to an integer: %s",
		e.Value.Lexeme, e.err)
}

func (e ConversionError) Unwrap() error {
	return e.err
}
