package graphql

import (
	"fmt"
	"strconv"

	"github.com/northfield/graphweave/jerrors"
)

// Query is a single parsed and variable-substituted GraphQL operation, ready
// to be validated against a root Type and executed.
type Query struct {
	Name         string
	Kind         string // "query", "mutation", or "subscription"
	SelectionSet *SelectionSet
}

// Parse lexes and parses a GraphQL request document, substituting the
// supplied variables into any `$name` value references it finds, and
// returns the single operation it defines. Per this module's scope,
// documents with more than one operation are rejected rather than
// disambiguated by operation name, since picking an operation by name is a
// transport-layer concern (which this module does not own).
func Parse(source string, variables map[string]interface{}) (*Query, error) {
	p := &parser{lex: newLexer(source), variables: variables, fragments: map[string]*FragmentDefinition{}}
	if err := p.advance(); err != nil {
		return nil, jerrors.Wrap(jerrors.SchemaBuild, err)
	}

	var operations []*Query
	for p.tok.kind != tokenEOF {
		if p.tok.kind == tokenName && p.tok.value == "fragment" {
			if err := p.parseFragmentDefinition(); err != nil {
				return nil, jerrors.Wrap(jerrors.SchemaBuild, err)
			}
			continue
		}
		q, err := p.parseOperationDefinition()
		if err != nil {
			return nil, jerrors.Wrap(jerrors.SchemaBuild, err)
		}
		operations = append(operations, q)
	}

	if len(operations) == 0 {
		return nil, jerrors.New(jerrors.SchemaBuild, "no operation found in query document")
	}
	if len(operations) > 1 {
		return nil, jerrors.New(jerrors.SchemaBuild, "multiple operations in a single request are not supported")
	}

	if err := p.resolveFragmentSpreads(operations[0].SelectionSet, map[string]bool{}); err != nil {
		return nil, jerrors.Wrap(jerrors.SchemaBuild, err)
	}

	return operations[0], nil
}

type parser struct {
	lex       *lexer
	tok       token
	variables map[string]interface{}
	fragments map[string]*FragmentDefinition
}

func (p *parser) advance() error {
	tok, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *parser) expectPunctuator(val string) error {
	if p.tok.kind != tokenPunctuator || p.tok.value != val {
		return fmt.Errorf("syntax error: expected %q, found %q at line %d", val, p.tok.value, p.tok.line)
	}
	return p.advance()
}

func (p *parser) expectName() (string, error) {
	if p.tok.kind != tokenName {
		return "", fmt.Errorf("syntax error: expected a name, found %q at line %d", p.tok.value, p.tok.line)
	}
	name := p.tok.value
	return name, p.advance()
}

func (p *parser) parseOperationDefinition() (*Query, error) {
	kind := "query"
	name := ""

	if p.tok.kind == tokenName && (p.tok.value == "query" || p.tok.value == "mutation" || p.tok.value == "subscription") {
		kind = p.tok.value
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.tok.kind == tokenName {
			name = p.tok.value
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
		if p.tok.kind == tokenPunctuator && p.tok.value == "(" {
			if err := p.skipVariableDefinitions(); err != nil {
				return nil, err
			}
		}
		if err := p.parseDirectives(); err != nil {
			return nil, err
		}
	}

	ss, err := p.parseSelectionSet()
	if err != nil {
		return nil, err
	}

	return &Query{Name: name, Kind: kind, SelectionSet: ss}, nil
}

// skipVariableDefinitions consumes "($x: Int = 1, ...)"; variable *types* are
// the engine the query document is executed against and are not
// re-validated here (ValidateQuery checks field/argument shape against the
// schema, not declared variable types against usage).
func (p *parser) skipVariableDefinitions() error {
	if err := p.expectPunctuator("("); err != nil {
		return err
	}
	depth := 1
	for depth > 0 {
		if p.tok.kind == tokenEOF {
			return fmt.Errorf("syntax error: unterminated variable definitions")
		}
		if p.tok.kind == tokenPunctuator {
			switch p.tok.value {
			case "(":
				depth++
			case ")":
				depth--
			}
		}
		if err := p.advance(); err != nil {
			return err
		}
	}
	return nil
}

func (p *parser) parseFragmentDefinition() error {
	if err := p.advance(); err != nil { // consume "fragment"
		return err
	}
	name, err := p.expectName()
	if err != nil {
		return err
	}
	if p.tok.kind != tokenName || p.tok.value != "on" {
		return fmt.Errorf("syntax error: expected 'on' in fragment definition at line %d", p.tok.line)
	}
	if err := p.advance(); err != nil {
		return err
	}
	on, err := p.expectName()
	if err != nil {
		return err
	}
	if err := p.parseDirectives(); err != nil {
		return err
	}
	ss, err := p.parseSelectionSet()
	if err != nil {
		return err
	}
	p.fragments[name] = &FragmentDefinition{Name: name, On: on, SelectionSet: ss}
	return nil
}

func (p *parser) parseSelectionSet() (*SelectionSet, error) {
	if err := p.expectPunctuator("{"); err != nil {
		return nil, err
	}

	ss := &SelectionSet{}
	for {
		if p.tok.kind == tokenPunctuator && p.tok.value == "}" {
			return ss, p.advance()
		}
		if p.tok.kind == tokenPunctuator && p.tok.value == "..." {
			if err := p.advance(); err != nil {
				return nil, err
			}
			// named fragment spread
			if p.tok.kind == tokenName && p.tok.value != "on" {
				name, err := p.expectName()
				if err != nil {
					return nil, err
				}
				directives, err := p.parseDirectivesList()
				if err != nil {
					return nil, err
				}
				ss.Fragments = append(ss.Fragments, &FragmentSpread{
					Fragment:   &FragmentDefinition{Name: name}, // resolved in resolveFragmentSpreads
					Directives: directives,
				})
				continue
			}
			// inline fragment, with or without a type condition
			onType := ""
			if p.tok.kind == tokenName && p.tok.value == "on" {
				if err := p.advance(); err != nil {
					return nil, err
				}
				name, err := p.expectName()
				if err != nil {
					return nil, err
				}
				onType = name
			}
			directives, err := p.parseDirectivesList()
			if err != nil {
				return nil, err
			}
			inline, err := p.parseSelectionSet()
			if err != nil {
				return nil, err
			}
			ss.Fragments = append(ss.Fragments, &FragmentSpread{
				Fragment:   &FragmentDefinition{On: onType, SelectionSet: inline},
				Directives: directives,
			})
			continue
		}

		sel, err := p.parseSelection()
		if err != nil {
			return nil, err
		}
		ss.Selections = append(ss.Selections, sel)
	}
}

func (p *parser) parseSelection() (*Selection, error) {
	name, err := p.expectName()
	if err != nil {
		return nil, err
	}
	alias := name
	if p.tok.kind == tokenPunctuator && p.tok.value == ":" {
		if err := p.advance(); err != nil {
			return nil, err
		}
		name, err = p.expectName()
		if err != nil {
			return nil, err
		}
	}

	var args interface{}
	if p.tok.kind == tokenPunctuator && p.tok.value == "(" {
		args, err = p.parseArguments()
		if err != nil {
			return nil, err
		}
	}

	directives, err := p.parseDirectivesList()
	if err != nil {
		return nil, err
	}

	var sub *SelectionSet
	if p.tok.kind == tokenPunctuator && p.tok.value == "{" {
		sub, err = p.parseSelectionSet()
		if err != nil {
			return nil, err
		}
	}

	return &Selection{Name: name, Alias: alias, Args: args, SelectionSet: sub, Directives: directives}, nil
}

func (p *parser) parseArguments() (map[string]interface{}, error) {
	if err := p.expectPunctuator("("); err != nil {
		return nil, err
	}
	args := map[string]interface{}{}
	for {
		if p.tok.kind == tokenPunctuator && p.tok.value == ")" {
			return args, p.advance()
		}
		name, err := p.expectName()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunctuator(":"); err != nil {
			return nil, err
		}
		val, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		args[name] = val
	}
}

func (p *parser) parseDirectives() error {
	_, err := p.parseDirectivesList()
	return err
}

func (p *parser) parseDirectivesList() ([]*Directive, error) {
	var directives []*Directive
	for p.tok.kind == tokenPunctuator && p.tok.value == "@" {
		if err := p.advance(); err != nil {
			return nil, err
		}
		name, err := p.expectName()
		if err != nil {
			return nil, err
		}
		var args interface{}
		if p.tok.kind == tokenPunctuator && p.tok.value == "(" {
			args, err = p.parseArguments()
			if err != nil {
				return nil, err
			}
		}
		directives = append(directives, &Directive{Name: name, Args: args})
	}
	return directives, nil
}

func (p *parser) parseValue() (interface{}, error) {
	switch p.tok.kind {
	case tokenDollar:
		if err := p.advance(); err != nil {
			return nil, err
		}
		name, err := p.expectName()
		if err != nil {
			return nil, err
		}
		return p.variables[name], nil
	case tokenInt:
		v, err := strconv.ParseInt(p.tok.value, 10, 64)
		if err != nil {
			return nil, err
		}
		return v, p.advance()
	case tokenFloat:
		v, err := strconv.ParseFloat(p.tok.value, 64)
		if err != nil {
			return nil, err
		}
		return v, p.advance()
	case tokenString:
		v := p.tok.value
		return v, p.advance()
	case tokenName:
		switch p.tok.value {
		case "true":
			return true, p.advance()
		case "false":
			return false, p.advance()
		case "null":
			return nil, p.advance()
		default:
			v := p.tok.value // bare enum value, passed through as a string
			return v, p.advance()
		}
	case tokenPunctuator:
		switch p.tok.value {
		case "[":
			return p.parseListValue()
		case "{":
			return p.parseObjectValue()
		}
	}
	return nil, fmt.Errorf("syntax error: unexpected value %q at line %d", p.tok.value, p.tok.line)
}

func (p *parser) parseListValue() (interface{}, error) {
	if err := p.expectPunctuator("["); err != nil {
		return nil, err
	}
	var list []interface{}
	for {
		if p.tok.kind == tokenPunctuator && p.tok.value == "]" {
			return list, p.advance()
		}
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		list = append(list, v)
	}
}

func (p *parser) parseObjectValue() (interface{}, error) {
	if err := p.expectPunctuator("{"); err != nil {
		return nil, err
	}
	obj := map[string]interface{}{}
	for {
		if p.tok.kind == tokenPunctuator && p.tok.value == "}" {
			return obj, p.advance()
		}
		name, err := p.expectName()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunctuator(":"); err != nil {
			return nil, err
		}
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		obj[name] = v
	}
}

// resolveFragmentSpreads rewrites named FragmentSpread placeholders (which
// only carry a fragment name after parseSelectionSet) into fully-linked
// FragmentDefinition pointers, detecting spread cycles along the way. Inline
// fragments (empty Name) keep their own definition and are only descended.
func (p *parser) resolveFragmentSpreads(ss *SelectionSet, seen map[string]bool) error {
	if ss == nil {
		return nil
	}
	for _, sel := range ss.Selections {
		if err := p.resolveFragmentSpreads(sel.SelectionSet, seen); err != nil {
			return err
		}
	}
	for _, spread := range ss.Fragments {
		if spread.Fragment.Name == "" {
			if err := p.resolveFragmentSpreads(spread.Fragment.SelectionSet, seen); err != nil {
				return err
			}
			continue
		}
		name := spread.Fragment.Name
		if seen[name] {
			return fmt.Errorf("validation error: fragment %q forms a cycle", name)
		}
		def, ok := p.fragments[name]
		if !ok {
			return fmt.Errorf("validation error: undefined fragment %q", name)
		}
		spread.Fragment = def
		seen[name] = true
		if err := p.resolveFragmentSpreads(def.SelectionSet, seen); err != nil {
			return err
		}
		delete(seen, name)
	}
	return nil
}
