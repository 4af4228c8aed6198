package ifc

import (
	"bufio"
	"fmt"
	"io"
)

// TokenType represents the type of a token in an ISO 10303-21 exchange file
type TokenType int

const (
	TokenEOF       TokenType = iota
	TokenKeyword             // IFCPIPESEGMENT, HEADER, ISO-10303-21
	TokenRef                 // #12
	TokenString              // 'Putki'
	TokenEnum                // .BEND.
	TokenInteger             // 42
	TokenReal                // 2500.
	TokenBinary              // "0FF"
	TokenNull                // $
	TokenDerived             // *
	TokenOpen                // (
	TokenClose               // )
	TokenComma               // ,
	TokenEquals              // =
	TokenSemicolon           // ;
)

var tokenNames = map[TokenType]string{
	TokenEOF:       "end of file",
	TokenKeyword:   "keyword",
	TokenRef:       "entity reference",
	TokenString:    "string",
	TokenEnum:      "enumeration",
	TokenInteger:   "integer",
	TokenReal:      "real",
	TokenBinary:    "binary",
	TokenNull:      "$",
	TokenDerived:   "*",
	TokenOpen:      "(",
	TokenClose:     ")",
	TokenComma:     ",",
	TokenEquals:    "=",
	TokenSemicolon: ";",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("token(%d)", int(t))
}

// Token represents a lexical token
type Token struct {
	Type  TokenType
	Value []byte
	Pos   int64 // Byte offset in the input
}

// Lexer splits a STEP physical file into tokens
type Lexer struct {
	reader *bufio.Reader
	pos    int64
}

// NewLexer creates a new lexer
func NewLexer(r io.Reader) *Lexer {
	return &Lexer{reader: bufio.NewReader(r)}
}

// NextToken returns the next token from the input.
// String tokens have their quote escapes resolved but keep control
// directives (\X2\ and friends) in place; see decodeString.
func (l *Lexer) NextToken() (Token, error) {
	if err := l.skipSpaceAndComments(); err != nil {
		return Token{}, err
	}

	start := l.pos
	b, err := l.readByte()
	if err == io.EOF {
		return Token{Type: TokenEOF, Pos: start}, nil
	}
	if err != nil {
		return Token{}, err
	}

	switch {
	case b == '(':
		return Token{Type: TokenOpen, Pos: start}, nil
	case b == ')':
		return Token{Type: TokenClose, Pos: start}, nil
	case b == ',':
		return Token{Type: TokenComma, Pos: start}, nil
	case b == '=':
		return Token{Type: TokenEquals, Pos: start}, nil
	case b == ';':
		return Token{Type: TokenSemicolon, Pos: start}, nil
	case b == '$':
		return Token{Type: TokenNull, Pos: start}, nil
	case b == '*':
		return Token{Type: TokenDerived, Pos: start}, nil
	case b == '\'':
		return l.readString(start)
	case b == '"':
		return l.readDelimited(start, '"', TokenBinary)
	case b == '.':
		return l.readDelimited(start, '.', TokenEnum)
	case b == '#':
		return l.readRef(start)
	case b == '-' || b == '+' || isDigit(b):
		return l.readNumber(start, b)
	case isLetter(b) || b == '_' || b == '!':
		return l.readKeyword(start, b)
	}

	return Token{}, fmt.Errorf("unexpected character %q at offset %d", b, start)
}

func (l *Lexer) readByte() (byte, error) {
	b, err := l.reader.ReadByte()
	if err == nil {
		l.pos++
	}
	return b, err
}

func (l *Lexer) unreadByte() {
	if err := l.reader.UnreadByte(); err == nil {
		l.pos--
	}
}

func (l *Lexer) skipSpaceAndComments() error {
	for {
		next, err := l.reader.Peek(1)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		switch next[0] {
		case ' ', '\t', '\r', '\n':
			l.readByte()
			continue
		case '/':
			pair, err := l.reader.Peek(2)
			if err != nil || pair[1] != '*' {
				return nil
			}
			if err := l.skipComment(); err != nil {
				return err
			}
			continue
		}

		return nil
	}
}

func (l *Lexer) skipComment() error {
	start := l.pos
	l.readByte()
	l.readByte()

	var prev byte
	for {
		b, err := l.readByte()
		if err == io.EOF {
			return fmt.Errorf("unterminated comment at offset %d", start)
		}
		if err != nil {
			return err
		}
		if prev == '*' && b == '/' {
			return nil
		}
		prev = b
	}
}

// readString reads a quoted string; a doubled quote stands for one quote.
func (l *Lexer) readString(start int64) (Token, error) {
	var value []byte
	for {
		b, err := l.readByte()
		if err == io.EOF {
			return Token{}, fmt.Errorf("unterminated string at offset %d", start)
		}
		if err != nil {
			return Token{}, err
		}

		if b != '\'' {
			value = append(value, b)
			continue
		}

		next, err := l.reader.Peek(1)
		if err == nil && next[0] == '\'' {
			l.readByte()
			value = append(value, '\'')
			continue
		}

		return Token{Type: TokenString, Value: value, Pos: start}, nil
	}
}

func (l *Lexer) readDelimited(start int64, delim byte, tt TokenType) (Token, error) {
	var value []byte
	for {
		b, err := l.readByte()
		if err == io.EOF {
			return Token{}, fmt.Errorf("unterminated %s at offset %d", tt, start)
		}
		if err != nil {
			return Token{}, err
		}
		if b == delim {
			return Token{Type: tt, Value: value, Pos: start}, nil
		}
		value = append(value, b)
	}
}

func (l *Lexer) readRef(start int64) (Token, error) {
	var value []byte
	for {
		b, err := l.readByte()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Token{}, err
		}
		if !isDigit(b) {
			l.unreadByte()
			break
		}
		value = append(value, b)
	}

	if len(value) == 0 {
		return Token{}, fmt.Errorf("entity reference without id at offset %d", start)
	}
	return Token{Type: TokenRef, Value: value, Pos: start}, nil
}

func (l *Lexer) readNumber(start int64, first byte) (Token, error) {
	value := []byte{first}
	tt := TokenInteger
	for {
		b, err := l.readByte()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Token{}, err
		}

		switch {
		case isDigit(b):
		case b == '.' || b == 'E' || b == 'e':
			tt = TokenReal
		case (b == '-' || b == '+') && (value[len(value)-1] == 'E' || value[len(value)-1] == 'e'):
		default:
			l.unreadByte()
			return Token{Type: tt, Value: value, Pos: start}, nil
		}
		value = append(value, b)
	}
	return Token{Type: tt, Value: value, Pos: start}, nil
}

func (l *Lexer) readKeyword(start int64, first byte) (Token, error) {
	value := []byte{first}
	for {
		b, err := l.readByte()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Token{}, err
		}
		if !isLetter(b) && !isDigit(b) && b != '_' && b != '-' {
			l.unreadByte()
			break
		}
		value = append(value, b)
	}
	return Token{Type: TokenKeyword, Value: value, Pos: start}, nil
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isLetter(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}
