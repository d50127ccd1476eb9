package pdf

import (
	"bytes"
	"encoding/hex"
	"strconv"
	"strings"
)

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokName
	tokString
	tokHexString
	tokArrayStart
	tokArrayEnd
	tokDictStart
	tokDictEnd
	tokKeyword
)

// token keeps the raw source bytes so operations can be written back unchanged
type token struct {
	kind tokenKind
	raw  string
}

func (t token) isString() bool {
	return t.kind == tokString || t.kind == tokHexString
}

// operation is one content stream operator with its operands
type operation struct {
	Operator string
	Operands []token

	// raw bytes of an inline image (BI ... ID ... EI)
	inline []byte
}

// writeTo serializes the operation in content stream syntax
func (op operation) writeTo(buf *bytes.Buffer) {
	if op.inline != nil {
		buf.Write(op.inline)
		buf.WriteByte('\n')
		return
	}
	for _, t := range op.Operands {
		buf.WriteString(t.raw)
		buf.WriteByte(' ')
	}
	buf.WriteString(op.Operator)
	buf.WriteByte('\n')
}

// lexOperations splits a content stream into operations
func lexOperations(content []byte) []operation {
	reader := bytes.NewReader(content)
	var ops []operation
	var operands []token

	for reader.Len() > 0 {
		start := int(reader.Size()) - reader.Len()
		b, err := reader.ReadByte()
		if err != nil {
			break
		}

		if isWhitespace(b) {
			continue
		}

		switch b {
		case '(':
			operands = append(operands, token{kind: tokString, raw: "(" + readStringLiteral(reader) + ")"})

		case '<':
			next, err := reader.ReadByte()
			if err == nil && next == '<' {
				operands = append(operands, token{kind: tokDictStart, raw: "<<"})
			} else {
				if err == nil {
					reader.UnreadByte()
				}
				operands = append(operands, token{kind: tokHexString, raw: "<" + readHexString(reader) + ">"})
			}

		case '>':
			next, err := reader.ReadByte()
			if err == nil && next == '>' {
				operands = append(operands, token{kind: tokDictEnd, raw: ">>"})
			} else if err == nil {
				reader.UnreadByte()
			}

		case '[':
			operands = append(operands, token{kind: tokArrayStart, raw: "["})

		case ']':
			operands = append(operands, token{kind: tokArrayEnd, raw: "]"})

		case '/':
			operands = append(operands, token{kind: tokName, raw: "/" + readRegular(reader)})

		case '%':
			skipComment(reader)

		case ')', '{', '}':
			// stray delimiters carry no meaning in a content stream

		default:
			reader.UnreadByte()
			word := readRegular(reader)
			if word == "" {
				reader.ReadByte()
				continue
			}
			if isNumber(word) {
				operands = append(operands, token{kind: tokNumber, raw: word})
				continue
			}
			switch word {
			case "true", "false", "null":
				operands = append(operands, token{kind: tokKeyword, raw: word})
			case "BI":
				end := skipInlineImage(reader)
				ops = append(ops, operation{Operator: "BI", inline: content[start:end]})
				operands = nil
			default:
				ops = append(ops, operation{Operator: word, Operands: operands})
				operands = nil
			}
		}
	}

	return ops
}

// readStringLiteral reads a string literal, keeping escape sequences as written
func readStringLiteral(reader *bytes.Reader) string {
	var result []byte
	depth := 1

	for reader.Len() > 0 {
		b, err := reader.ReadByte()
		if err != nil {
			break
		}

		if b == '\\' {
			next, err := reader.ReadByte()
			if err != nil {
				break
			}
			result = append(result, '\\', next)
		} else if b == '(' {
			depth++
			result = append(result, b)
		} else if b == ')' {
			depth--
			if depth == 0 {
				break
			}
			result = append(result, b)
		} else {
			result = append(result, b)
		}
	}

	return string(result)
}

// readHexString reads a hex string from the reader
func readHexString(reader *bytes.Reader) string {
	var result []byte

	for reader.Len() > 0 {
		b, err := reader.ReadByte()
		if err != nil {
			break
		}

		if b == '>' {
			break
		}

		if !isWhitespace(b) {
			result = append(result, b)
		}
	}

	return string(result)
}

// readRegular reads a run of regular characters
func readRegular(reader *bytes.Reader) string {
	var result []byte

	for reader.Len() > 0 {
		b, err := reader.ReadByte()
		if err != nil {
			break
		}

		if isDelimiter(b) || isWhitespace(b) {
			reader.UnreadByte()
			break
		}

		result = append(result, b)
	}

	return string(result)
}

// skipComment skips a comment line
func skipComment(reader *bytes.Reader) {
	for reader.Len() > 0 {
		b, _ := reader.ReadByte()
		if b == '\n' || b == '\r' {
			break
		}
	}
}

// skipInlineImage advances past the image data of an inline image and
// returns the offset just after its EI operator.
func skipInlineImage(reader *bytes.Reader) int {
	size := int(reader.Size())

	// the image dictionary runs until the ID keyword
	var prev byte = ' '
	for reader.Len() > 0 {
		b, _ := reader.ReadByte()
		if b != 'I' || !(isWhitespace(prev) || isDelimiter(prev)) {
			prev = b
			continue
		}
		next, err := reader.ReadByte()
		if err != nil {
			return size
		}
		if next == 'D' {
			after, err := reader.ReadByte()
			if err != nil {
				return size
			}
			if isWhitespace(after) {
				// a single whitespace byte separates ID from the data
				break
			}
			reader.UnreadByte()
		} else {
			reader.UnreadByte()
		}
		prev = b
	}

	// the data ends at whitespace EI followed by whitespace or end of stream
	prev = ' '
	for reader.Len() > 0 {
		b, _ := reader.ReadByte()
		if b == 'E' && isWhitespace(prev) {
			next, err := reader.ReadByte()
			if err != nil {
				return size
			}
			if next == 'I' {
				after, err := reader.ReadByte()
				if err != nil {
					return size
				}
				if isWhitespace(after) || isDelimiter(after) {
					reader.UnreadByte()
					return size - reader.Len()
				}
			}
			reader.UnreadByte()
		}
		prev = b
	}
	return size
}

// isWhitespace checks if a byte is whitespace
func isWhitespace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f' || b == 0
}

// isDelimiter checks if a byte is a delimiter
func isDelimiter(b byte) bool {
	return b == '(' || b == ')' || b == '<' || b == '>' || b == '[' || b == ']' ||
		b == '{' || b == '}' || b == '/' || b == '%'
}

func isNumber(word string) bool {
	if word == "" {
		return false
	}
	c := word[0]
	if !(c >= '0' && c <= '9') && c != '-' && c != '+' && c != '.' {
		return false
	}
	_, err := strconv.ParseFloat(word, 64)
	return err == nil
}

// stringBytes decodes a literal or hex string token into its raw bytes
func stringBytes(t token) []byte {
	switch t.kind {
	case tokString:
		return unescapeLiteral(strings.TrimSuffix(strings.TrimPrefix(t.raw, "("), ")"))
	case tokHexString:
		return decodeHex(strings.TrimSuffix(strings.TrimPrefix(t.raw, "<"), ">"))
	}
	return nil
}

// unescapeLiteral handles PDF escape sequences
func unescapeLiteral(s string) []byte {
	result := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			result = append(result, c)
			continue
		}
		i++
		switch s[i] {
		case 'n':
			result = append(result, '\n')
		case 'r':
			result = append(result, '\r')
		case 't':
			result = append(result, '\t')
		case 'b':
			result = append(result, '\b')
		case 'f':
			result = append(result, '\f')
		case '\r':
			// line continuation
			if i+1 < len(s) && s[i+1] == '\n' {
				i++
			}
		case '\n':
		case '0', '1', '2', '3', '4', '5', '6', '7':
			v := 0
			n := 0
			for n < 3 && i < len(s) && s[i] >= '0' && s[i] <= '7' {
				v = v*8 + int(s[i]-'0')
				i++
				n++
			}
			i--
			result = append(result, byte(v))
		default:
			result = append(result, s[i])
		}
	}
	return result
}

// decodeHex converts hex digits to bytes, padding an odd final digit with 0
func decodeHex(s string) []byte {
	var digits strings.Builder
	for i := 0; i < len(s); i++ {
		if !isWhitespace(s[i]) {
			digits.WriteByte(s[i])
		}
	}
	h := digits.String()
	if len(h)%2 == 1 {
		h += "0"
	}
	data, err := hex.DecodeString(h)
	if err != nil {
		return nil
	}
	return data
}

// arrayElements returns the tokens between the first [ and its matching ]
func arrayElements(tokens []token) []token {
	var elems []token
	depth := 0
	for _, t := range tokens {
		switch t.kind {
		case tokArrayStart:
			depth++
			if depth == 1 {
				continue
			}
		case tokArrayEnd:
			depth--
			if depth == 0 {
				return elems
			}
		}
		if depth >= 1 {
			elems = append(elems, t)
		}
	}
	return elems
}

// numbers returns the numeric operands in order
func numbers(tokens []token) []float64 {
	var nums []float64
	for _, t := range tokens {
		if t.kind == tokNumber {
			nums = append(nums, parseFloat(t.raw))
		}
	}
	return nums
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

// formatNumber writes a number the way content streams expect it
func formatNumber(f float64) string {
	s := strconv.FormatFloat(f, 'f', 4, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" || s == "" {
		return "0"
	}
	return s
}
