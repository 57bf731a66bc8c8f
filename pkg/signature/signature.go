// Package signature implements the HMAC-SHA256 schemes used by the payment
// aggregator: webhook verification over raw body bytes, and request signing
// over a canonical key=value string.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// Sign returns the lowercase hex HMAC-SHA256 of data under key.
func Sign(data []byte, key string) string {
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write(data)
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether signature matches the HMAC-SHA256 of the raw payload
// under secret. Comparison is constant time; hex case is ignored.
func Verify(payload []byte, signature, secret string) bool {
	if signature == "" || secret == "" {
		return false
	}
	expected := Sign(payload, secret)
	return hmac.Equal([]byte(strings.ToLower(signature)), []byte(expected))
}

// SignFields builds the aggregator's canonical string ("k1=v1&k2=v2" with keys
// sorted alphabetically) and signs it. Used when creating hosted-checkout
// payment requests.
func SignFields(fields map[string]string, key string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%s", k, fields[k]))
	}
	return Sign([]byte(strings.Join(parts, "&")), key)
}
