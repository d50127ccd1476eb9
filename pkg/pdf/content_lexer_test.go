package pdf

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLexOperations(t *testing.T) {
	content := []byte("BT /F1 12 Tf 72 712 Td (Hi \\(x\\)) Tj [(A) -120 <4243>] TJ ET % trailing comment\n")

	ops := lexOperations(content)
	var operators []string
	for _, op := range ops {
		operators = append(operators, op.Operator)
	}

	want := []string{"BT", "Tf", "Td", "Tj", "TJ", "ET"}
	if diff := cmp.Diff(want, operators); diff != "" {
		t.Fatalf("operators mismatch (-want +got):\n%s", diff)
	}

	if got := ops[3].Operands[0].raw; got != `(Hi \(x\))` {
		t.Errorf("Tj operand = %q, want escaped literal kept as is", got)
	}
	if got := string(stringBytes(ops[3].Operands[0])); got != "Hi (x)" {
		t.Errorf("stringBytes = %q, want %q", got, "Hi (x)")
	}

	elems := arrayElements(ops[4].Operands)
	if len(elems) != 3 {
		t.Fatalf("TJ elements = %d, want 3", len(elems))
	}
	if got := string(stringBytes(elems[2])); got != "BC" {
		t.Errorf("hex element = %q, want %q", got, "BC")
	}
}

func TestLexInlineImage(t *testing.T) {
	content := []byte("q BI /W 1 /H 1 /BPC 8 /CS /G ID \x00 EI Q")

	ops := lexOperations(content)
	var operators []string
	for _, op := range ops {
		operators = append(operators, op.Operator)
	}
	if diff := cmp.Diff([]string{"q", "BI", "Q"}, operators); diff != "" {
		t.Fatalf("operators mismatch (-want +got):\n%s", diff)
	}
}

func TestStringBytes(t *testing.T) {
	tests := []struct {
		name string
		tok  token
		want string
	}{
		{"octal escape", token{kind: tokString, raw: `(a\101)`}, "aA"},
		{"newline escape", token{kind: tokString, raw: `(a\nb)`}, "a\nb"},
		{"hex", token{kind: tokHexString, raw: "<4142>"}, "AB"},
		{"odd hex", token{kind: tokHexString, raw: "<414>"}, "A@"},
		{"hex with spaces", token{kind: tokHexString, raw: "<41 42>"}, "AB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := string(stringBytes(tt.tok)); got != tt.want {
				t.Errorf("stringBytes(%s) = %q, want %q", tt.tok.raw, got, tt.want)
			}
		})
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{1, "1"},
		{0.5, "0.5"},
		{612, "612"},
		{-0.00001, "0"},
		{1.23456, "1.2346"},
		{-2600, "-2600"},
		{0.9412, "0.9412"},
	}

	for _, tt := range tests {
		if got := formatNumber(tt.in); got != tt.want {
			t.Errorf("formatNumber(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
