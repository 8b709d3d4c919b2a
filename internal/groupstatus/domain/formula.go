package groupstatus

import (
	"errors"
	"strconv"
	"strings"
)

// FormulaDependencies extracts the bracketed column names a formula
// references, in occurrence order. Duplicates are kept once.
func FormulaDependencies(formula string) []string {
	var deps []string
	seen := make(map[string]struct{})
	rest := formula
	for {
		open := strings.Index(rest, "[")
		if open < 0 {
			break
		}
		close := strings.Index(rest[open:], "]")
		if close < 0 {
			break
		}
		name := rest[open+1 : open+close]
		if name != "" {
			if _, ok := seen[name]; !ok {
				seen[name] = struct{}{}
				deps = append(deps, name)
			}
		}
		rest = rest[open+close+1:]
	}
	return deps
}

// EvaluateFormula computes a formula value after substituting bracketed
// column references from resolve. Supports + - * / and parentheses.
func EvaluateFormula(formula string, resolve func(name string) (float64, bool)) (float64, error) {
	for _, name := range FormulaDependencies(formula) {
		value, ok := resolve(name)
		if !ok {
			return 0, errors.New("formula: unresolved reference " + name)
		}
		formula = strings.ReplaceAll(formula, "["+name+"]", strconv.FormatFloat(value, 'f', -1, 64))
	}
	p := &formulaParser{input: formula}
	result, err := p.expr()
	if err != nil {
		return 0, err
	}
	p.skipSpace()
	if p.pos != len(p.input) {
		return 0, errors.New("formula: trailing input at " + strconv.Itoa(p.pos))
	}
	return result, nil
}

type formulaParser struct {
	input string
	pos   int
}

func (p *formulaParser) skipSpace() {
	for p.pos < len(p.input) && p.input[p.pos] == ' ' {
		p.pos++
	}
}

func (p *formulaParser) peek() byte {
	p.skipSpace()
	if p.pos >= len(p.input) {
		return 0
	}
	return p.input[p.pos]
}

func (p *formulaParser) expr() (float64, error) {
	left, err := p.term()
	if err != nil {
		return 0, err
	}
	for {
		switch p.peek() {
		case '+':
			p.pos++
			right, err := p.term()
			if err != nil {
				return 0, err
			}
			left += right
		case '-':
			p.pos++
			right, err := p.term()
			if err != nil {
				return 0, err
			}
			left -= right
		default:
			return left, nil
		}
	}
}

func (p *formulaParser) term() (float64, error) {
	left, err := p.factor()
	if err != nil {
		return 0, err
	}
	for {
		switch p.peek() {
		case '*':
			p.pos++
			right, err := p.factor()
			if err != nil {
				return 0, err
			}
			left *= right
		case '/':
			p.pos++
			right, err := p.factor()
			if err != nil {
				return 0, err
			}
			if right == 0 {
				return 0, errors.New("formula: division by zero")
			}
			left /= right
		default:
			return left, nil
		}
	}
}

func (p *formulaParser) factor() (float64, error) {
	switch p.peek() {
	case '(':
		p.pos++
		inner, err := p.expr()
		if err != nil {
			return 0, err
		}
		if p.peek() != ')' {
			return 0, errors.New("formula: missing closing parenthesis")
		}
		p.pos++
		return inner, nil
	case '-':
		p.pos++
		inner, err := p.factor()
		if err != nil {
			return 0, err
		}
		return -inner, nil
	}
	return p.number()
}

func (p *formulaParser) number() (float64, error) {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if (c >= '0' && c <= '9') || c == '.' {
			p.pos++
			continue
		}
		break
	}
	if start == p.pos {
		return 0, errors.New("formula: expected number at " + strconv.Itoa(start))
	}
	return strconv.ParseFloat(p.input[start:p.pos], 64)
}
