package store

import (
	"strconv"
	"strings"
)

// ParseNumber parses a numeric literal token into a Number — the
// "parse_number" leg of spec §6's data-store factory interface.
func ParseNumber(text string) (Number, error) {
	if !strings.ContainsAny(text, ".eE") {
		if i, err := strconv.ParseInt(text, 10, 32); err == nil {
			return Int32(int32(i)), nil
		}
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return Number{}, NewErrorf(CategoryBuildError, "invalid number literal %q: %v", text, err)
	}
	return Float64(f), nil
}

// ParseCharList strips a char-list literal's surrounding quotes and resolves
// backslash escapes — the "parse_char_list" leg of spec §6's data-store
// factory interface.
func ParseCharList(text string) (string, error) {
	if len(text) >= 2 && text[0] == '"' && text[len(text)-1] == '"' {
		text = text[1 : len(text)-1]
	}
	var b strings.Builder
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c == '\\' && i+1 < len(text) {
			i++
			switch text[i] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case '"':
				b.WriteByte('"')
			case '\\':
				b.WriteByte('\\')
			default:
				b.WriteByte(text[i])
			}
			continue
		}
		b.WriteByte(c)
	}
	return b.String(), nil
}
