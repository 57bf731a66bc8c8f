package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerate(t *testing.T) {
	t.Run("Uses first 8 hex chars uppercased", func(t *testing.T) {
		tok := Generate("9f86d081-884c-7d65-9a2f-eaa0c55ad015")
		assert.Equal(t, "9F86D081", tok)
		assert.Len(t, tok, Length)
	})

	t.Run("Dashes do not count toward length", func(t *testing.T) {
		tok := Generate("ab-cd-ef-12-34")
		assert.Equal(t, "ABCDEF12", tok)
	})

	t.Run("Short id is returned whole", func(t *testing.T) {
		assert.Equal(t, "ABC", Generate("abc"))
	})
}

func TestExtract(t *testing.T) {
	p := NewParser("PAY")

	tests := []struct {
		name        string
		description string
		want        string
		found       bool
	}{
		{"Exact content", "PAY9F86D081", "9F86D081", true},
		{"Lowercase description", "pay9f86d081", "9F86D081", true},
		{"Bank noise around token", "MBVCB.12345.PAY9F86D081.CT tu 0123 toi 0456", "9F86D081", true},
		{"Prefix separated from token", "PAY 9F86D081", "", false},
		{"Token too short", "PAY9F86D0", "", false},
		{"No prefix", "9F86D081 thanks", "", false},
		{"Empty description", "", "", false},
		{"First match wins", "PAYAAAA1111 then PAYBBBB2222", "AAAA1111", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := p.Extract(tt.description)
			assert.Equal(t, tt.found, found)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestContent(t *testing.T) {
	p := NewParser("pay")

	content := p.Content(Generate("9f86d081-884c-7d65-9a2f-eaa0c55ad015"))
	assert.Equal(t, "PAY9F86D081", content)

	// Round trip: generated content must always be extractable.
	tok, found := p.Extract("ref: " + content + " /end")
	assert.True(t, found)
	assert.Equal(t, "9F86D081", tok)
}
