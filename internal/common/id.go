package common

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/google/uuid"
)

// NewSiteID generates a unique site ID
func NewSiteID() string {
	return uuid.New().String()
}

// NewTaskID generates a unique crawl task ID
func NewTaskID() string {
	return uuid.New().String()
}

// DocumentID derives the index document ID for a URL: the first 24 hex
// characters of the SHA-256 of the normalized URL. Fragment-only and
// trailing-slash variants of the same page collapse to one ID.
func DocumentID(rawURL string) string {
	normalized := rawURL
	if n, err := NormalizeURL(rawURL); err == nil {
		normalized = n
	}
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:12])
}
