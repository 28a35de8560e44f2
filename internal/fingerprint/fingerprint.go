// Package fingerprint derives duplicate-detection keys for memory items.
package fingerprint

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/conorfennell/recall/internal/domain"
)

// Normalize lowercases the front text and collapses every run of
// whitespace (spaces, tabs, newlines) into a single space, so that
// cosmetic differences do not defeat duplicate detection.
func Normalize(front string) string {
	return strings.Join(strings.Fields(strings.ToLower(front)), " ")
}

// Key returns the fingerprint for a card: the SHA-256 hex digest of the
// kind joined with the normalized front text. Two cards with the same
// kind and equivalent front text always collide here.
func Key(kind domain.Kind, front string) string {
	material := string(kind) + "\n" + Normalize(front)
	sum := sha256.Sum256([]byte(material))
	return fmt.Sprintf("%x", sum)
}
