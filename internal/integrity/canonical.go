package integrity

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf16"
)

// Canonicalize re-serializes a JSON document in the form clients hash:
// object keys in received order, ", " and ": " separators, ASCII-only
// string escapes, integers as sent and floats in shortest round-trip form.
func Canonicalize(raw []byte) (string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var sb strings.Builder
	if err := writeValue(dec, &sb); err != nil {
		return "", fmt.Errorf("canonicalize: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return "", errors.New("canonicalize: trailing data after JSON value")
	}

	return sb.String(), nil
}

func writeValue(dec *json.Decoder, sb *strings.Builder) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}

	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '[':
			sb.WriteByte('[')
			for first := true; dec.More(); first = false {
				if !first {
					sb.WriteString(", ")
				}
				if err := writeValue(dec, sb); err != nil {
					return err
				}
			}
			if _, err := dec.Token(); err != nil {
				return err
			}
			sb.WriteByte(']')
		case '{':
			sb.WriteByte('{')
			for first := true; dec.More(); first = false {
				if !first {
					sb.WriteString(", ")
				}
				keyTok, err := dec.Token()
				if err != nil {
					return err
				}
				key, ok := keyTok.(string)
				if !ok {
					return fmt.Errorf("unexpected object key %v", keyTok)
				}
				writeString(sb, key)
				sb.WriteString(": ")
				if err := writeValue(dec, sb); err != nil {
					return err
				}
			}
			if _, err := dec.Token(); err != nil {
				return err
			}
			sb.WriteByte('}')
		default:
			return fmt.Errorf("unexpected delimiter %q", v)
		}
	case string:
		writeString(sb, v)
	case json.Number:
		s, err := formatNumber(v)
		if err != nil {
			return err
		}
		sb.WriteString(s)
	case bool:
		sb.WriteString(strconv.FormatBool(v))
	case nil:
		sb.WriteString("null")
	default:
		return fmt.Errorf("unexpected token %T", tok)
	}

	return nil
}

// formatNumber keeps integer literals and renders floats the way a
// shortest-repr serializer does: fixed notation for decimal exponents in
// [-4, 16), scientific otherwise, and always a fractional part.
func formatNumber(n json.Number) (string, error) {
	lit := n.String()
	if !strings.ContainsAny(lit, ".eE") {
		if lit == "-0" {
			return "0", nil
		}
		return lit, nil
	}

	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return "", fmt.Errorf("number %q: %w", lit, err)
	}

	sci := strconv.FormatFloat(f, 'e', -1, 64)
	exp, err := strconv.Atoi(sci[strings.IndexByte(sci, 'e')+1:])
	if err != nil {
		return "", fmt.Errorf("number %q: %w", lit, err)
	}
	if exp < -4 || exp >= 16 {
		return sci, nil
	}

	fixed := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(fixed, ".") {
		fixed += ".0"
	}
	return fixed, nil
}

const hexDigits = "0123456789abcdef"

func writeString(sb *strings.Builder, s string) {
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case '\b':
			sb.WriteString(`\b`)
		case '\f':
			sb.WriteString(`\f`)
		default:
			switch {
			case r >= 0x20 && r <= 0x7e:
				sb.WriteRune(r)
			case r > 0xffff:
				hi, lo := utf16.EncodeRune(r)
				writeUnicodeEscape(sb, hi)
				writeUnicodeEscape(sb, lo)
			default:
				writeUnicodeEscape(sb, r)
			}
		}
	}
	sb.WriteByte('"')
}

func writeUnicodeEscape(sb *strings.Builder, r rune) {
	sb.WriteString(`\u`)
	sb.WriteByte(hexDigits[(r>>12)&0xf])
	sb.WriteByte(hexDigits[(r>>8)&0xf])
	sb.WriteByte(hexDigits[(r>>4)&0xf])
	sb.WriteByte(hexDigits[r&0xf])
}
