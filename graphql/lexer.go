package graphql

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenName
	tokenInt
	tokenFloat
	tokenString
	tokenPunctuator
	tokenDollar
)

type token struct {
	kind  tokenKind
	value string
	line  int
	col   int
}

// lexer turns a GraphQL query document into a stream of tokens. It is a
// small hand-rolled scanner, not a full SDL lexer: schemas in this module are
// built programmatically through schemabuilder, never parsed from text, so
// only the executable-document grammar (operations, fragments, selection
// sets, values) needs to be recognized here.
type lexer struct {
	src  string
	pos  int
	line int
	col  int
}

func newLexer(src string) *lexer {
	return &lexer{src: src, line: 1, col: 1}
}

func (l *lexer) peekRune() (rune, int) {
	if l.pos >= len(l.src) {
		return 0, 0
	}
	r, size := utf8.DecodeRuneInString(l.src[l.pos:])
	return r, size
}

func (l *lexer) advance(size int, newlines int) {
	l.pos += size
	if newlines > 0 {
		l.line += newlines
		l.col = 1
	}
}

func isNameStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isNameCont(r rune) bool {
	return isNameStart(r) || (r >= '0' && r <= '9')
}

func (l *lexer) skipIgnored() {
	for {
		r, size := l.peekRune()
		switch {
		case r == 0:
			return
		case r == '\n':
			l.advance(size, 1)
		case r == ' ' || r == '\t' || r == '\r' || r == ',' || r == '﻿':
			l.advance(size, 0)
			l.col++
		case r == '#':
			for {
				r, size := l.peekRune()
				if r == 0 || r == '\n' {
					break
				}
				l.advance(size, 0)
			}
		default:
			return
		}
	}
}

func (l *lexer) next() (token, error) {
	l.skipIgnored()
	startLine, startCol := l.line, l.col
	r, size := l.peekRune()
	if r == 0 {
		return token{kind: tokenEOF, line: startLine, col: startCol}, nil
	}

	switch {
	case isNameStart(r):
		start := l.pos
		for {
			r, size := l.peekRune()
			if !isNameCont(r) {
				break
			}
			l.advance(size, 0)
			l.col++
		}
		return token{kind: tokenName, value: l.src[start:l.pos], line: startLine, col: startCol}, nil

	case r == '-' || (r >= '0' && r <= '9'):
		return l.lexNumber(startLine, startCol)

	case r == '"':
		return l.lexString(startLine, startCol)

	case r == '$':
		l.advance(size, 0)
		l.col++
		return token{kind: tokenDollar, value: "$", line: startLine, col: startCol}, nil

	case r == '.':
		// spread "..."
		if strings.HasPrefix(l.src[l.pos:], "...") {
			l.pos += 3
			l.col += 3
			return token{kind: tokenPunctuator, value: "...", line: startLine, col: startCol}, nil
		}
		return token{}, fmt.Errorf("syntax error: unexpected '.' at line %d", startLine)

	case strings.ContainsRune("!(){}[]:=@|&", r):
		l.advance(size, 0)
		l.col++
		return token{kind: tokenPunctuator, value: string(r), line: startLine, col: startCol}, nil

	default:
		return token{}, fmt.Errorf("syntax error: unexpected character %q at line %d", r, startLine)
	}
}

func (l *lexer) lexNumber(line, col int) (token, error) {
	start := l.pos
	isFloat := false

	if r, size := l.peekRune(); r == '-' {
		l.advance(size, 0)
		l.col++
	}
	for {
		r, size := l.peekRune()
		if r < '0' || r > '9' {
			break
		}
		l.advance(size, 0)
		l.col++
	}
	if r, size := l.peekRune(); r == '.' {
		isFloat = true
		l.advance(size, 0)
		l.col++
		for {
			r, size := l.peekRune()
			if r < '0' || r > '9' {
				break
			}
			l.advance(size, 0)
			l.col++
		}
	}
	if r, size := l.peekRune(); r == 'e' || r == 'E' {
		isFloat = true
		l.advance(size, 0)
		l.col++
		if r, size := l.peekRune(); r == '+' || r == '-' {
			l.advance(size, 0)
			l.col++
		}
		for {
			r, size := l.peekRune()
			if r < '0' || r > '9' {
				break
			}
			l.advance(size, 0)
			l.col++
		}
	}

	kind := tokenInt
	if isFloat {
		kind = tokenFloat
	}
	return token{kind: kind, value: l.src[start:l.pos], line: line, col: col}, nil
}

func (l *lexer) lexString(line, col int) (token, error) {
	// opening quote
	l.advance(1, 0)
	l.col++

	// block string """
	if strings.HasPrefix(l.src[l.pos:], `""`) {
		l.pos += 2
		l.col += 2
		start := l.pos
		end := strings.Index(l.src[l.pos:], `"""`)
		if end < 0 {
			return token{}, fmt.Errorf("syntax error: unterminated block string at line %d", line)
		}
		value := l.src[start : start+end]
		l.pos = start + end + 3
		l.col += end + 3
		return token{kind: tokenString, value: strings.TrimSpace(value), line: line, col: col}, nil
	}

	var b strings.Builder
	for {
		r, size := l.peekRune()
		if r == 0 {
			return token{}, fmt.Errorf("syntax error: unterminated string at line %d", line)
		}
		if r == '"' {
			l.advance(size, 0)
			l.col++
			break
		}
		if r == '\\' {
			l.advance(size, 0)
			l.col++
			esc, esize := l.peekRune()
			switch esc {
			case '"':
				b.WriteRune('"')
			case '\\':
				b.WriteRune('\\')
			case '/':
				b.WriteRune('/')
			case 'n':
				b.WriteRune('\n')
			case 't':
				b.WriteRune('\t')
			case 'r':
				b.WriteRune('\r')
			case 'b':
				b.WriteRune('\b')
			case 'f':
				b.WriteRune('\f')
			case 'u':
				if l.pos+esize+4 > len(l.src) {
					return token{}, fmt.Errorf("syntax error: bad unicode escape at line %d", line)
				}
				hex := l.src[l.pos+esize : l.pos+esize+4]
				code, err := strconv.ParseInt(hex, 16, 32)
				if err != nil {
					return token{}, fmt.Errorf("syntax error: bad unicode escape at line %d", line)
				}
				b.WriteRune(rune(code))
				l.advance(4, 0)
				l.col += 4
			default:
				return token{}, fmt.Errorf("syntax error: bad escape \\%c at line %d", esc, line)
			}
			l.advance(esize, 0)
			l.col++
			continue
		}
		if r == '\n' {
			return token{}, fmt.Errorf("syntax error: unterminated string at line %d", line)
		}
		b.WriteRune(r)
		l.advance(size, 0)
		l.col++
	}

	return token{kind: tokenString, value: b.String(), line: line, col: col}, nil
}
