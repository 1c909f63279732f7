package settings

import (
	"fmt"
	"strconv"
	"strings"
)

// The gsettings tool prints and accepts values in GVariant text format.
// Only the four shapes used by the proxy schemas are handled here:
// strings ('x'), int32 (8080), booleans and string arrays (['a', 'b']).

func formatGVariant(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return quoteGVariant(t), nil
	case int32:
		return strconv.FormatInt(int64(t), 10), nil
	case bool:
		return strconv.FormatBool(t), nil
	case []string:
		quoted := make([]string, len(t))
		for i, s := range t {
			quoted[i] = quoteGVariant(s)
		}
		return "[" + strings.Join(quoted, ", ") + "]", nil
	}
	return "", fmt.Errorf("%w: cannot encode %T", ErrTypeMismatch, v)
}

func parseGVariant(kind Kind, text string) (any, error) {
	text = strings.TrimSpace(text)
	switch kind {
	case KindString:
		s, rest, err := unquoteGVariant(text)
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(rest) != "" {
			return nil, fmt.Errorf("trailing data after string: %q", rest)
		}
		return s, nil
	case KindInt:
		text = strings.TrimPrefix(text, "int32 ")
		n, err := strconv.ParseInt(text, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("parsing int32 %q: %w", text, err)
		}
		return int32(n), nil
	case KindBool:
		b, err := strconv.ParseBool(text)
		if err != nil {
			return nil, fmt.Errorf("parsing boolean %q: %w", text, err)
		}
		return b, nil
	case KindStrings:
		return parseStringArray(text)
	}
	return nil, fmt.Errorf("%w: kind %s", ErrTypeMismatch, kind)
}

func parseStringArray(text string) ([]string, error) {
	text = strings.TrimSpace(strings.TrimPrefix(text, "@as"))
	if !strings.HasPrefix(text, "[") || !strings.HasSuffix(text, "]") {
		return nil, fmt.Errorf("parsing string array %q: missing brackets", text)
	}
	body := strings.TrimSpace(text[1 : len(text)-1])
	out := []string{}
	for body != "" {
		s, rest, err := unquoteGVariant(body)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
		rest = strings.TrimSpace(rest)
		if rest == "" {
			break
		}
		if rest[0] != ',' {
			return nil, fmt.Errorf("parsing string array: expected ',' before %q", rest)
		}
		body = strings.TrimSpace(rest[1:])
	}
	return out, nil
}

func quoteGVariant(s string) string {
	var b strings.Builder
	b.WriteByte('\'')
	for _, r := range s {
		switch r {
		case '\'', '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('\'')
	return b.String()
}

// unquoteGVariant reads one single- or double-quoted string from the start
// of text and returns it with the remaining input.
func unquoteGVariant(text string) (string, string, error) {
	if text == "" || (text[0] != '\'' && text[0] != '"') {
		return "", "", fmt.Errorf("parsing string %q: missing quote", text)
	}
	quote := text[0]
	var b strings.Builder
	for i := 1; i < len(text); i++ {
		c := text[i]
		switch {
		case c == '\\' && i+1 < len(text):
			i++
			switch text[i] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			default:
				b.WriteByte(text[i])
			}
		case c == quote:
			return b.String(), text[i+1:], nil
		default:
			b.WriteByte(c)
		}
	}
	return "", "", fmt.Errorf("parsing string %q: unterminated", text)
}
