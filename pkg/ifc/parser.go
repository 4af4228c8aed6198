package ifc

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ErrNotIFC is returned for input that is not an ISO 10303-21 exchange file
var ErrNotIFC = errors.New("not an ISO 10303-21 (IFC) file")

const (
	magic      = "ISO-10303-21"
	endMagic   = "END-ISO-10303-21"
	sectionEnd = "ENDSEC"
)

// Parse reads an IFC file and returns a Model
func Parse(filename string) (*Model, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return Read(file)
}

// Read parses an IFC exchange structure from r
func Read(r io.Reader) (*Model, error) {
	p := &parser{
		lex:   NewLexer(r),
		model: NewModel(),
	}

	if err := p.parse(); err != nil {
		return nil, err
	}

	p.model.index()
	return p.model, nil
}

type parser struct {
	lex   *Lexer
	tok   Token
	model *Model
}

func (p *parser) next() error {
	tok, err := p.lex.NextToken()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *parser) expect(tt TokenType) (Token, error) {
	tok := p.tok
	if tok.Type != tt {
		return tok, fmt.Errorf("expected %s, found %s at offset %d", tt, tok.Type, tok.Pos)
	}
	return tok, p.next()
}

func (p *parser) isKeyword(name string) bool {
	return p.tok.Type == TokenKeyword && string(p.tok.Value) == name
}

func (p *parser) parse() error {
	if err := p.next(); err != nil {
		return fmt.Errorf("%w: %v", ErrNotIFC, err)
	}
	if !p.isKeyword(magic) {
		return ErrNotIFC
	}
	if err := p.next(); err != nil {
		return err
	}
	if _, err := p.expect(TokenSemicolon); err != nil {
		return err
	}

	for {
		switch {
		case p.isKeyword("HEADER"):
			if err := p.parseHeader(); err != nil {
				return fmt.Errorf("header section: %w", err)
			}
		case p.isKeyword("DATA"):
			if err := p.parseData(); err != nil {
				return fmt.Errorf("data section: %w", err)
			}
		case p.isKeyword(endMagic):
			return nil
		case p.tok.Type == TokenEOF:
			return fmt.Errorf("unexpected end of file, missing %s", endMagic)
		default:
			return fmt.Errorf("unexpected %s at offset %d", p.tok.Type, p.tok.Pos)
		}
	}
}

func (p *parser) parseHeader() error {
	if err := p.next(); err != nil {
		return err
	}
	if _, err := p.expect(TokenSemicolon); err != nil {
		return err
	}

	for !p.isKeyword(sectionEnd) {
		tok, err := p.expect(TokenKeyword)
		if err != nil {
			return err
		}
		params, err := p.parseParams()
		if err != nil {
			return err
		}
		if _, err := p.expect(TokenSemicolon); err != nil {
			return err
		}

		switch string(tok.Value) {
		case "FILE_SCHEMA":
			if len(params) > 0 && params[0].Kind == ParamList && len(params[0].List) > 0 {
				p.model.Schema = params[0].List[0].Str
			}
		case "FILE_NAME":
			if len(params) > 0 {
				p.model.Name = params[0].Str
			}
		}
	}

	return p.endSection()
}

func (p *parser) parseData() error {
	if err := p.next(); err != nil {
		return err
	}
	// Edition 3 allows DATA('name',('SCHEMA'));
	if p.tok.Type == TokenOpen {
		if _, err := p.parseParams(); err != nil {
			return err
		}
	}
	if _, err := p.expect(TokenSemicolon); err != nil {
		return err
	}

	for !p.isKeyword(sectionEnd) {
		entity, err := p.parseInstance()
		if err != nil {
			return err
		}
		if !p.model.addEntity(entity) {
			return fmt.Errorf("duplicate entity #%d", entity.ID)
		}
	}

	return p.endSection()
}

func (p *parser) endSection() error {
	if err := p.next(); err != nil {
		return err
	}
	_, err := p.expect(TokenSemicolon)
	return err
}

func (p *parser) parseInstance() (*Entity, error) {
	ref, err := p.expect(TokenRef)
	if err != nil {
		return nil, err
	}
	id, err := strconv.Atoi(string(ref.Value))
	if err != nil {
		return nil, fmt.Errorf("invalid entity id #%s: %w", ref.Value, err)
	}
	if _, err := p.expect(TokenEquals); err != nil {
		return nil, err
	}

	entity := &Entity{ID: id}

	if p.tok.Type == TokenOpen {
		// Complex instance #1=(A(...)B(...)); the partial records are
		// concatenated under the first record's type.
		if err := p.next(); err != nil {
			return nil, err
		}
		for p.tok.Type != TokenClose {
			tok, err := p.expect(TokenKeyword)
			if err != nil {
				return nil, err
			}
			params, err := p.parseParams()
			if err != nil {
				return nil, err
			}
			if entity.Type == "" {
				entity.Type = strings.ToUpper(string(tok.Value))
			}
			entity.Attrs = append(entity.Attrs, params...)
		}
		if err := p.next(); err != nil {
			return nil, err
		}
	} else {
		tok, err := p.expect(TokenKeyword)
		if err != nil {
			return nil, fmt.Errorf("entity #%d: %w", id, err)
		}
		entity.Type = strings.ToUpper(string(tok.Value))
		if entity.Attrs, err = p.parseParams(); err != nil {
			return nil, fmt.Errorf("entity #%d: %w", id, err)
		}
	}

	if _, err := p.expect(TokenSemicolon); err != nil {
		return nil, fmt.Errorf("entity #%d: %w", id, err)
	}
	return entity, nil
}

// parseParams parses a parenthesised, comma separated attribute list
func (p *parser) parseParams() ([]Param, error) {
	if _, err := p.expect(TokenOpen); err != nil {
		return nil, err
	}

	params := []Param{}
	for p.tok.Type != TokenClose {
		param, err := p.parseParam()
		if err != nil {
			return nil, err
		}
		params = append(params, param)

		if p.tok.Type == TokenComma {
			if err := p.next(); err != nil {
				return nil, err
			}
		} else if p.tok.Type != TokenClose {
			return nil, fmt.Errorf("expected , or ) but found %s at offset %d", p.tok.Type, p.tok.Pos)
		}
	}

	return params, p.next()
}

func (p *parser) parseParam() (Param, error) {
	tok := p.tok

	switch tok.Type {
	case TokenOpen:
		list, err := p.parseParams()
		if err != nil {
			return Param{}, err
		}
		return Param{Kind: ParamList, List: list}, nil

	case TokenKeyword:
		if err := p.next(); err != nil {
			return Param{}, err
		}
		inner, err := p.parseParams()
		if err != nil {
			return Param{}, fmt.Errorf("typed value %s: %w", tok.Value, err)
		}
		return Param{Kind: ParamTyped, Str: strings.ToUpper(string(tok.Value)), List: inner}, nil
	}

	var param Param
	switch tok.Type {
	case TokenNull:
		param = Param{Kind: ParamNull}
	case TokenDerived:
		param = Param{Kind: ParamDerived}
	case TokenRef:
		id, err := strconv.Atoi(string(tok.Value))
		if err != nil {
			return Param{}, fmt.Errorf("invalid reference #%s: %w", tok.Value, err)
		}
		param = Param{Kind: ParamRef, Ref: id}
	case TokenString:
		s, err := decodeString(tok.Value)
		if err != nil {
			return Param{}, fmt.Errorf("string at offset %d: %w", tok.Pos, err)
		}
		param = Param{Kind: ParamString, Str: s}
	case TokenEnum:
		param = Param{Kind: ParamEnum, Str: strings.ToUpper(string(tok.Value))}
	case TokenBinary:
		param = Param{Kind: ParamBinary, Str: string(tok.Value)}
	case TokenInteger:
		n, err := strconv.ParseInt(string(tok.Value), 10, 64)
		if err != nil {
			return Param{}, fmt.Errorf("invalid integer %q at offset %d", tok.Value, tok.Pos)
		}
		param = Param{Kind: ParamInteger, Int: n}
	case TokenReal:
		f, err := strconv.ParseFloat(string(tok.Value), 64)
		if err != nil {
			return Param{}, fmt.Errorf("invalid real %q at offset %d", tok.Value, tok.Pos)
		}
		param = Param{Kind: ParamReal, Real: f}
	default:
		return Param{}, fmt.Errorf("unexpected %s at offset %d", tok.Type, tok.Pos)
	}

	return param, p.next()
}
