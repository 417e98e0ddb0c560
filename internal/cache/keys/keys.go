// Package keys builds cache keys for resolved tile URLs.
package keys

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/cespare/xxhash/v2"
)

// ForRequest builds the key for one resolution request. The asset id is kept
// readable in the key so invalidation can purge by prefix; the remaining
// parameters are folded into a hash.
func ForRequest(assetID, start, end string, bbox []float64, vis string) string {
	payload := strings.Join([]string{assetID, start, end, formatBBox(bbox), vis}, "|")
	sum := xxhash.Sum64String(payload)
	return fmt.Sprintf("%s%016x", Prefix(assetID), sum)
}

// Prefix returns the key prefix shared by every entry for an asset.
func Prefix(assetID string) string {
	return "tile:" + sanitize(assetID) + ":"
}

func formatBBox(bbox []float64) string {
	if bbox == nil {
		return ""
	}
	parts := make([]string, len(bbox))
	for i, f := range bbox {
		parts[i] = strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strings.Join(parts, ",")
}

// sanitize keeps asset ids key-safe: whitespace becomes '_', anything outside
// [alnum / : _ -] becomes '-', runs collapse to one.
func sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	var prev rune
	for _, r := range s {
		var out rune
		switch {
		case r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\v' || r == '\f':
			out = '_'
		case isAlphaNum(r) || r == ':' || r == '_' || r == '-' || r == '/':
			out = r
		default:
			out = '-'
		}
		if (out == '_' || out == '-') && out == prev {
			continue
		}
		b.WriteRune(out)
		prev = out
	}
	return b.String()
}

func isAlphaNum(r rune) bool {
	return (r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		unicode.IsDigit(r)
}
