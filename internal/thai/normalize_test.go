package thai

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeWhitespace(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain", "คลองโคน", "คลองโคน"},
		{"surrounding whitespace", "  ต.คลองโคน \n", "ต.คลองโคน"},
		{"internal runs collapse", "ต.คลองโคน   อ.เมือง\tจ.สมุทรสงคราม", "ต.คลองโคน อ.เมือง จ.สมุทรสงคราม"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeWhitespace(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, NormalizeWhitespace(got), "must be idempotent")
		})
	}
}

func TestNormalizePlace(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"abbreviated prefixes", "ต.คลองโคน อ.เมือง จ.สมุทรสงคราม", "คลองโคนเมืองสมุทรสงคราม"},
		{"full prefixes", "ตำบลคลองโคน อำเภอเมือง จังหวัดสมุทรสงคราม", "คลองโคนเมืองสมุทรสงคราม"},
		{"bangkok prefixes", "แขวงบางซื่อ เขตบางซื่อ", "บางซื่อบางซื่อ"},
		{"no prefixes", "คลองโคน", "คลองโคน"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizePlace(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, NormalizePlace(got), "must be idempotent")
		})
	}
}

func TestExtractTambon(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"abbreviated marker", "ต.คลองโคน อ.เมือง จ.สมุทรสงคราม", "คลองโคน"},
		{"full marker", "ตำบลบางพูด อำเภอปากเกร็ด จังหวัดนนทบุรี", "บางพูด"},
		{"first marker wins", "ต.หนึ่ง ต.สอง", "หนึ่ง"},
		{"messy whitespace", "  ต.คลองโคน\n อ.เมือง ", "คลองโคน"},
		{"no marker", "อ.เมือง จ.สมุทรสงคราม", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractTambon(tt.in))
		})
	}
}
