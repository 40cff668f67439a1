package search

import (
	"strings"
	"testing"
)

func TestBuildDomainFilter(t *testing.T) {
	tests := []struct {
		name   string
		domain string
		want   string
	}{
		{name: "plain", domain: "example.com", want: `domain = "example.com"`},
		{name: "subdomain", domain: "docs.example.com", want: `domain = "docs.example.com"`},
		{name: "embedded quote escaped", domain: `exa"mple.com`, want: `domain = "exa\"mple.com"`},
		{name: "backslash escaped", domain: `exa\mple.com`, want: `domain = "exa\\mple.com"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := buildDomainFilter(tt.domain); got != tt.want {
				t.Errorf("buildDomainFilter(%q) = %s, want %s", tt.domain, got, tt.want)
			}
		})
	}
}

func TestTruncateSnippet(t *testing.T) {
	short := "a short snippet"
	if got := truncateSnippet(short); got != short {
		t.Errorf("truncateSnippet(%q) = %q, want unchanged", short, got)
	}

	long := strings.Repeat("x", maxSnippetChars*2)
	if got := truncateSnippet(long); len(got) != maxSnippetChars {
		t.Errorf("truncated length = %d, want %d", len(got), maxSnippetChars)
	}

	// Multi-byte text is clipped on rune boundaries.
	multibyte := strings.Repeat("é", maxSnippetChars+50)
	got := truncateSnippet(multibyte)
	runes := []rune(got)
	if len(runes) != maxSnippetChars {
		t.Errorf("truncated rune count = %d, want %d", len(runes), maxSnippetChars)
	}
	if runes[len(runes)-1] != 'é' {
		t.Errorf("last rune = %q, want unbroken character", runes[len(runes)-1])
	}
}

func TestDecodeHit(t *testing.T) {
	raw := map[string]interface{}{
		"id":         "abc123def456abc123def456",
		"url":        "https://example.com/docs",
		"title":      "Docs",
		"content":    "full page content here",
		"domain":     "example.com",
		"crawled_at": "2026-08-18T09:30:00Z",
		"_formatted": map[string]interface{}{
			"content": "…cropped content around the match…",
		},
		"_rankingScore": 0.87,
	}

	hit, err := decodeHit(raw)
	if err != nil {
		t.Fatalf("decodeHit: %v", err)
	}
	if hit.ID != "abc123def456abc123def456" {
		t.Errorf("ID = %q", hit.ID)
	}
	if hit.Snippet != "…cropped content around the match…" {
		t.Errorf("Snippet = %q, want the formatted crop", hit.Snippet)
	}
	if hit.Score != 0.87 {
		t.Errorf("Score = %v, want 0.87", hit.Score)
	}
	if hit.Domain != "example.com" || hit.CrawledAt != "2026-08-18T09:30:00Z" {
		t.Errorf("hit = %+v", hit)
	}
}

func TestDecodeHitWithoutFormatted(t *testing.T) {
	raw := map[string]interface{}{
		"id":      "abc",
		"url":     "https://example.com/",
		"title":   "Home",
		"content": "plain content",
		"domain":  "example.com",
	}

	hit, err := decodeHit(raw)
	if err != nil {
		t.Fatalf("decodeHit: %v", err)
	}
	if hit.Snippet != "plain content" {
		t.Errorf("Snippet = %q, want fallback to raw content", hit.Snippet)
	}
	if hit.Score != 0 {
		t.Errorf("Score = %v, want 0 when the backend sent none", hit.Score)
	}
}
