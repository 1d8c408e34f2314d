package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode"
)

// Calculator is an interface for computing content checksums.
// This abstraction allows for different checksum strategies and algorithms.
type Calculator interface {
	// CalculateRaw computes a checksum of the raw, unmodified content.
	CalculateRaw(content []byte) string

	// CalculateNormalized computes a checksum of normalized content.
	// Normalization makes checksums resilient to formatting changes.
	CalculateNormalized(content []byte) string
}

// SHA256 implements checksum calculation using SHA-256 with XML-aware
// normalization:
//  1. Remove XML comments (<!-- -->)
//  2. Collapse whitespace sequences to single spaces
//  3. Trim leading/trailing whitespace
//
// Case is preserved: manifest attribute values are case-sensitive.
//
// SHA256 is a zero-size type and is safe for concurrent use by multiple
// goroutines.
type SHA256 struct{}

// New creates a new SHA-256 based calculator.
func New() SHA256 {
	return SHA256{}
}

// CalculateRaw computes SHA-256 of raw content.
func (c SHA256) CalculateRaw(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

// CalculateNormalized computes SHA-256 of normalized content.
func (c SHA256) CalculateNormalized(content []byte) string {
	normalized := c.normalize(string(content))
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:])
}

func (c SHA256) normalize(content string) string {
	cleaned := removeComments(content)

	var b strings.Builder
	b.Grow(len(cleaned))

	lastWasSpace := false
	for _, r := range cleaned {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				b.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			b.WriteRune(r)
			lastWasSpace = false
		}
	}

	return strings.TrimSpace(b.String())
}

// removeComments strips <!-- --> sections. XML comments do not nest, and
// quoted attribute values cannot contain the comment delimiters unescaped,
// so a single scan suffices.
func removeComments(content string) string {
	var b strings.Builder
	b.Grow(len(content))

	for {
		start := strings.Index(content, "<!--")
		if start < 0 {
			b.WriteString(content)
			break
		}
		b.WriteString(content[:start])
		b.WriteByte(' ')
		end := strings.Index(content[start+4:], "-->")
		if end < 0 {
			break
		}
		content = content[start+4+end+3:]
	}

	return b.String()
}
