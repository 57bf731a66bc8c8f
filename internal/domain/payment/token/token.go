// Package token implements the match-token contract that correlates
// unstructured bank-transfer descriptions to payments.
//
// A token is the first 8 hex characters of the payment id, uppercased. The
// expected transfer description is the configured prefix immediately followed
// by the token; anything may surround it, banks routinely prepend and append
// their own text.
package token

import (
	"regexp"
	"strings"
)

// Length of a match token in characters.
const Length = 8

// Generate derives the match token from a payment id.
func Generate(paymentID string) string {
	id := strings.ReplaceAll(paymentID, "-", "")
	if len(id) < Length {
		return strings.ToUpper(id)
	}
	return strings.ToUpper(id[:Length])
}

// Parser extracts match tokens from free-text transfer descriptions.
type Parser struct {
	prefix string
	re     *regexp.Regexp
}

// NewParser builds a parser for the given transfer prefix. The prefix is
// matched case-insensitively by uppercasing the input first.
func NewParser(prefix string) *Parser {
	p := strings.ToUpper(prefix)
	return &Parser{
		prefix: p,
		re:     regexp.MustCompile(regexp.QuoteMeta(p) + `([A-Z0-9]{8})`),
	}
}

// Content returns the expected transfer description for a token.
func (p *Parser) Content(tok string) string {
	return p.prefix + strings.ToUpper(tok)
}

// Extract scans a transfer description for a token. Returns the uppercase
// token and whether one was found.
func (p *Parser) Extract(description string) (string, bool) {
	m := p.re.FindStringSubmatch(strings.ToUpper(description))
	if m == nil {
		return "", false
	}
	return m[1], true
}
