package bench

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/XiaoConstantine/cocobench/pkg/errors"
	"github.com/XiaoConstantine/cocobench/pkg/solvers"
)

// Stoppings is the run outcome record: problem index to the ordered
// termination-condition sets of its restart attempts. Append-only during a
// run; rewritten to disk after every finished problem.
type Stoppings map[int][]solvers.StopSet

// RenderStoppings produces the literal text representation persisted in the
// *_stopping_conditions.pydict file. The output is deterministic (sorted
// keys) and re-parseable both by ParseStoppings and by Python's
// ast.literal_eval.
func RenderStoppings(s Stoppings) string {
	keys := make([]int, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	var b strings.Builder
	b.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%d: [", k)
		for j, set := range s[k] {
			if j > 0 {
				b.WriteString(", ")
			}
			b.WriteString(renderStopSet(set))
		}
		b.WriteByte(']')
	}
	b.WriteByte('}')
	return b.String()
}

func renderStopSet(set solvers.StopSet) string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "'%s': %s", k, renderValue(set[k]))
	}
	b.WriteByte('}')
	return b.String()
}

func renderValue(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return "None"
	case bool:
		if t {
			return "True"
		}
		return "False"
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		s := strconv.FormatFloat(t, 'g', -1, 64)
		// Keep floats recognizable as floats when round
		if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
		return s
	case string:
		escaped := strings.ReplaceAll(t, `\`, `\\`)
		escaped = strings.ReplaceAll(escaped, "'", `\'`)
		return "'" + escaped + "'"
	default:
		return fmt.Sprintf("'%v'", t)
	}
}

// ParseStoppings reads a stoppings literal back, ignoring leading comment
// lines. The inverse of RenderStoppings.
func ParseStoppings(text string) (Stoppings, error) {
	p := &literalParser{input: stripComments(text)}
	v, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.input) {
		return nil, errors.New(errors.ParseFailed, "trailing data after literal")
	}

	dict, ok := v.(map[interface{}]interface{})
	if !ok {
		return nil, errors.New(errors.ParseFailed, "top-level literal is not a dict")
	}

	out := make(Stoppings, len(dict))
	for key, value := range dict {
		index, ok := key.(int)
		if !ok {
			return nil, errors.WithFields(
				errors.New(errors.ParseFailed, "dict key is not a problem index"),
				errors.Fields{"key": key},
			)
		}
		list, ok := value.([]interface{})
		if !ok {
			return nil, errors.New(errors.ParseFailed, "dict value is not a list")
		}
		sets := make([]solvers.StopSet, 0, len(list))
		for _, item := range list {
			inner, ok := item.(map[interface{}]interface{})
			if !ok {
				return nil, errors.New(errors.ParseFailed, "restart record is not a dict")
			}
			set := make(solvers.StopSet, len(inner))
			for ik, iv := range inner {
				name, ok := ik.(string)
				if !ok {
					return nil, errors.New(errors.ParseFailed, "condition name is not a string")
				}
				set[name] = iv
			}
			sets = append(sets, set)
		}
		out[index] = sets
	}
	return out, nil
}

func stripComments(text string) string {
	var b strings.Builder
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return strings.TrimSpace(b.String())
}

// literalParser is a recursive-descent parser for the literal subset the
// harness emits: dicts, lists, tuples, quoted strings, numbers, booleans
// and None.
type literalParser struct {
	input string
	pos   int
}

func (p *literalParser) parseValue() (interface{}, error) {
	p.skipSpace()
	if p.pos >= len(p.input) {
		return nil, errors.New(errors.ParseFailed, "unexpected end of input")
	}

	switch c := p.input[p.pos]; {
	case c == '{':
		return p.parseDict()
	case c == '[':
		return p.parseSeq(']')
	case c == '(':
		return p.parseSeq(')')
	case c == '\'' || c == '"':
		return p.parseString(c)
	case c == '-' || c == '+' || unicode.IsDigit(rune(c)):
		return p.parseNumber()
	default:
		return p.parseWord()
	}
}

func (p *literalParser) parseDict() (interface{}, error) {
	p.pos++ // consume '{'
	dict := map[interface{}]interface{}{}
	p.skipSpace()
	if p.pos < len(p.input) && p.input[p.pos] == '}' {
		p.pos++
		return dict, nil
	}
	for {
		key, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		switch key.(type) {
		case int, float64, string, bool, nil:
		default:
			return nil, errors.New(errors.ParseFailed, "unhashable dict key")
		}
		if err := p.expect(':'); err != nil {
			return nil, err
		}
		value, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		dict[key] = value

		p.skipSpace()
		if p.pos >= len(p.input) {
			return nil, errors.New(errors.ParseFailed, "unterminated dict")
		}
		if p.input[p.pos] == ',' {
			p.pos++
			continue
		}
		if p.input[p.pos] == '}' {
			p.pos++
			return dict, nil
		}
		return nil, errors.New(errors.ParseFailed, "expected ',' or '}' in dict")
	}
}

func (p *literalParser) parseSeq(closing byte) (interface{}, error) {
	p.pos++ // consume opening bracket
	var seq []interface{}
	p.skipSpace()
	if p.pos < len(p.input) && p.input[p.pos] == closing {
		p.pos++
		return seq, nil
	}
	for {
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		seq = append(seq, v)

		p.skipSpace()
		if p.pos >= len(p.input) {
			return nil, errors.New(errors.ParseFailed, "unterminated sequence")
		}
		if p.input[p.pos] == ',' {
			p.pos++
			p.skipSpace()
			// Tolerate trailing comma, Python emits one for 1-tuples
			if p.pos < len(p.input) && p.input[p.pos] == closing {
				p.pos++
				return seq, nil
			}
			continue
		}
		if p.input[p.pos] == closing {
			p.pos++
			return seq, nil
		}
		return nil, errors.New(errors.ParseFailed, "expected ',' or closing bracket")
	}
}

func (p *literalParser) parseString(quote byte) (interface{}, error) {
	p.pos++ // consume opening quote
	var b strings.Builder
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if c == '\\' && p.pos+1 < len(p.input) {
			next := p.input[p.pos+1]
			switch next {
			case '\\', '\'', '"':
				b.WriteByte(next)
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			default:
				b.WriteByte(c)
				b.WriteByte(next)
			}
			p.pos += 2
			continue
		}
		if c == quote {
			p.pos++
			return b.String(), nil
		}
		b.WriteByte(c)
		p.pos++
	}
	return nil, errors.New(errors.ParseFailed, "unterminated string")
}

func (p *literalParser) parseNumber() (interface{}, error) {
	start := p.pos
	if p.input[p.pos] == '-' || p.input[p.pos] == '+' {
		p.pos++
	}
	isFloat := false
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if unicode.IsDigit(rune(c)) {
			p.pos++
			continue
		}
		if c == '.' || c == 'e' || c == 'E' {
			isFloat = true
			p.pos++
			continue
		}
		if (c == '-' || c == '+') && (p.input[p.pos-1] == 'e' || p.input[p.pos-1] == 'E') {
			p.pos++
			continue
		}
		break
	}
	token := p.input[start:p.pos]
	if !isFloat {
		if v, err := strconv.Atoi(token); err == nil {
			return v, nil
		}
	}
	v, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return nil, errors.WithFields(
			errors.Wrap(err, errors.ParseFailed, "bad number literal"),
			errors.Fields{"token": token},
		)
	}
	return v, nil
}

func (p *literalParser) parseWord() (interface{}, error) {
	start := p.pos
	for p.pos < len(p.input) && (unicode.IsLetter(rune(p.input[p.pos])) || p.input[p.pos] == '_') {
		p.pos++
	}
	switch word := p.input[start:p.pos]; word {
	case "True":
		return true, nil
	case "False":
		return false, nil
	case "None":
		return nil, nil
	default:
		return nil, errors.WithFields(
			errors.New(errors.ParseFailed, "unknown literal word"),
			errors.Fields{"word": word},
		)
	}
}

func (p *literalParser) expect(c byte) error {
	p.skipSpace()
	if p.pos >= len(p.input) || p.input[p.pos] != c {
		return errors.New(errors.ParseFailed, fmt.Sprintf("expected %q", string(c)))
	}
	p.pos++
	return nil
}

func (p *literalParser) skipSpace() {
	for p.pos < len(p.input) && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t' || p.input[p.pos] == '\n' || p.input[p.pos] == '\r') {
		p.pos++
	}
}
