package pdf

import (
	"strings"
	"unicode/utf16"
)

// ToUnicodeCMap represents a PDF ToUnicode CMap that maps character codes to Unicode values
type ToUnicodeCMap struct {
	// Direct character mappings (from beginbfchar sections)
	cidToUnicode map[uint16]string

	// Range mappings (from beginbfrange sections)
	ranges []cmapRange

	// byte length of codes declared by begincodespacerange, 0 when absent
	codeLength int
}

// cmapRange represents a contiguous range mapping from beginbfrange
type cmapRange struct {
	startCID     uint16
	endCID       uint16
	startUnicode []uint16
	unicodeArray []string // For non-contiguous mappings
}

// NewToUnicodeCMap creates a new ToUnicode CMap parser
func NewToUnicodeCMap() *ToUnicodeCMap {
	return &ToUnicodeCMap{
		cidToUnicode: make(map[uint16]string),
		ranges:       []cmapRange{},
	}
}

// Parse parses a ToUnicode CMap stream
func (cmap *ToUnicodeCMap) Parse(data []byte) error {
	for _, op := range lexOperations(data) {
		switch op.Operator {
		case "endcodespacerange":
			cmap.parseCodespace(op.Operands)
		case "endbfchar":
			cmap.parseBFChar(op.Operands)
		case "endbfrange":
			cmap.parseBFRange(op.Operands)
		}
	}
	return nil
}

func (cmap *ToUnicodeCMap) parseCodespace(operands []token) {
	for _, t := range operands {
		if t.kind != tokHexString {
			continue
		}
		if n := len(stringBytes(t)); n > cmap.codeLength {
			cmap.codeLength = n
		}
	}
}

// parseBFChar reads <src> <dst> pairs
func (cmap *ToUnicodeCMap) parseBFChar(operands []token) {
	for i := 0; i+1 < len(operands); i += 2 {
		src, dst := operands[i], operands[i+1]
		if src.kind != tokHexString || dst.kind != tokHexString {
			continue
		}
		cmap.cidToUnicode[codeValue(stringBytes(src))] = bytesToUnicode(stringBytes(dst))
	}
}

// parseBFRange reads <start> <end> <dst> or <start> <end> [<dst>...] triples
func (cmap *ToUnicodeCMap) parseBFRange(operands []token) {
	for i := 0; i+2 < len(operands); {
		start, end := operands[i], operands[i+1]
		if start.kind != tokHexString || end.kind != tokHexString {
			i++
			continue
		}
		r := cmapRange{
			startCID: codeValue(stringBytes(start)),
			endCID:   codeValue(stringBytes(end)),
		}
		dst := operands[i+2]
		switch dst.kind {
		case tokHexString:
			r.startUnicode = utf16Units(stringBytes(dst))
			i += 3
		case tokArrayStart:
			elems := arrayElements(operands[i+2:])
			for _, e := range elems {
				r.unicodeArray = append(r.unicodeArray, bytesToUnicode(stringBytes(e)))
			}
			i += 2 + len(elems) + 2
		default:
			i += 3
			continue
		}
		if r.endCID >= r.startCID {
			cmap.ranges = append(cmap.ranges, r)
		}
	}
}

func codeValue(b []byte) uint16 {
	var v uint16
	for _, c := range b {
		v = v<<8 | uint16(c)
	}
	return v
}

func utf16Units(b []byte) []uint16 {
	if len(b) == 1 {
		return []uint16{uint16(b[0])}
	}
	units := make([]uint16, 0, len(b)/2)
	for i := 0; i+1 < len(b); i += 2 {
		units = append(units, uint16(b[i])<<8|uint16(b[i+1]))
	}
	return units
}

// bytesToUnicode decodes a UTF-16BE destination string
func bytesToUnicode(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	units := utf16Units(data)
	if len(units) > 0 && units[0] == 0xFEFF {
		units = units[1:]
	}
	return string(utf16.Decode(units))
}

// MapCIDToUnicode maps a character code to its Unicode string
func (cmap *ToUnicodeCMap) MapCIDToUnicode(cid uint16) (string, bool) {
	if unicode, ok := cmap.cidToUnicode[cid]; ok {
		return unicode, true
	}

	for _, r := range cmap.ranges {
		if cid < r.startCID || cid > r.endCID {
			continue
		}
		offset := int(cid - r.startCID)
		if len(r.unicodeArray) > 0 {
			if offset < len(r.unicodeArray) {
				return r.unicodeArray[offset], true
			}
			continue
		}
		if len(r.startUnicode) == 0 {
			continue
		}
		// the last UTF-16 unit is incremented across the range
		units := append([]uint16(nil), r.startUnicode...)
		units[len(units)-1] += uint16(offset)
		return string(utf16.Decode(units)), true
	}

	return "", false
}

// CodeLength returns the number of bytes per character code, or 0 when the
// CMap does not declare a codespace
func (cmap *ToUnicodeCMap) CodeLength() int {
	return cmap.codeLength
}

// Decode maps a byte string through the CMap. Unmapped bytes are kept as Latin-1.
func (cmap *ToUnicodeCMap) Decode(data []byte) string {
	n := cmap.codeLength
	if n == 0 {
		n = 2
	}
	var result strings.Builder
	for i := 0; i < len(data); i += n {
		end := i + n
		if end > len(data) {
			end = len(data)
		}
		if unicode, ok := cmap.MapCIDToUnicode(codeValue(data[i:end])); ok {
			result.WriteString(unicode)
			continue
		}
		for _, b := range data[i:end] {
			result.WriteRune(rune(b))
		}
	}
	return result.String()
}

// GetMappingCount returns the total number of mappings in this CMap
func (cmap *ToUnicodeCMap) GetMappingCount() int {
	count := len(cmap.cidToUnicode)

	for _, r := range cmap.ranges {
		if len(r.unicodeArray) > 0 {
			count += len(r.unicodeArray)
		} else {
			count += int(r.endCID-r.startCID) + 1
		}
	}

	return count
}
