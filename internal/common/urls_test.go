package common

import "testing"

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "strips fragment", input: "https://example.com/page#section", want: "https://example.com/page"},
		{name: "strips trailing slash", input: "https://example.com/docs/", want: "https://example.com/docs"},
		{name: "keeps root slash", input: "https://example.com/", want: "https://example.com/"},
		{name: "no path unchanged", input: "https://example.com", want: "https://example.com"},
		{name: "lowercases host", input: "https://EXAMPLE.com/Page", want: "https://example.com/Page"},
		{name: "lowercases scheme and host", input: "HTTPS://Example.COM/", want: "https://example.com/"},
		{name: "preserves query", input: "https://example.com/search?q=Go&page=2", want: "https://example.com/search?q=Go&page=2"},
		{name: "preserves http scheme", input: "http://example.com/a", want: "http://example.com/a"},
		{name: "strips repeated trailing slashes", input: "https://example.com/a//", want: "https://example.com/a"},
		{name: "strips many trailing slashes", input: "https://example.com/a////", want: "https://example.com/a"},
		{name: "fragment and trailing slash", input: "https://example.com/path/#frag", want: "https://example.com/path"},
		{name: "trims whitespace", input: "  https://example.com/a  ", want: "https://example.com/a"},
		{name: "empty", input: "", wantErr: true},
		{name: "whitespace only", input: "   ", wantErr: true},
		{name: "space in host", input: "http://exa mple.com/", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeURL(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("NormalizeURL(%q) = %q, want error", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeURL(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("NormalizeURL(%q) = %q, want %q", tt.input, got, tt.want)
			}

			// Applying normalization to its own output must be a no-op.
			again, err := NormalizeURL(got)
			if err != nil {
				t.Fatalf("NormalizeURL(%q) second pass error: %v", got, err)
			}
			if again != got {
				t.Errorf("NormalizeURL not idempotent: first %q, second %q", got, again)
			}
		})
	}
}

func TestNormalizeDomain(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "lowercases", input: "Example.COM", want: "example.com"},
		{name: "trims whitespace", input: "  example.com  ", want: "example.com"},
		{name: "drops port", input: "example.com:8080", want: "example.com"},
		{name: "subdomain unchanged", input: "docs.example.com", want: "docs.example.com"},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeDomain(tt.input); got != tt.want {
				t.Errorf("NormalizeDomain(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestURLHost(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain", input: "https://example.com/x", want: "example.com"},
		{name: "drops port and lowercases", input: "https://Example.com:8443/path", want: "example.com"},
		{name: "relative has no host", input: "/just/path", want: ""},
		{name: "unparseable", input: "http://exa mple.com/", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := URLHost(tt.input); got != tt.want {
				t.Errorf("URLHost(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSameDomain(t *testing.T) {
	tests := []struct {
		name   string
		host   string
		domain string
		want   bool
	}{
		{name: "exact match", host: "example.com", domain: "example.com", want: true},
		{name: "subdomain", host: "docs.example.com", domain: "example.com", want: true},
		{name: "deep subdomain", host: "a.b.example.com", domain: "example.com", want: true},
		{name: "suffix without dot", host: "notexample.com", domain: "example.com", want: false},
		{name: "domain embedded in other host", host: "example.com.evil.com", domain: "example.com", want: false},
		{name: "parent of base", host: "example.com", domain: "docs.example.com", want: false},
		{name: "case insensitive", host: "EXAMPLE.com", domain: "example.com", want: true},
		{name: "host port ignored", host: "example.com:8080", domain: "example.com", want: true},
		{name: "empty host", host: "", domain: "example.com", want: false},
		{name: "empty domain", host: "example.com", domain: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SameDomain(tt.host, tt.domain); got != tt.want {
				t.Errorf("SameDomain(%q, %q) = %v, want %v", tt.host, tt.domain, got, tt.want)
			}
		})
	}
}

func TestResolveLink(t *testing.T) {
	tests := []struct {
		name    string
		pageURL string
		href    string
		want    string
	}{
		{name: "same dir relative", pageURL: "https://example.com/docs/intro", href: "setup", want: "https://example.com/docs/setup"},
		{name: "parent relative", pageURL: "https://example.com/docs/intro", href: "../guide/", want: "https://example.com/guide"},
		{name: "rooted relative", pageURL: "https://example.com/docs/intro", href: "/about", want: "https://example.com/about"},
		{name: "absolute", pageURL: "https://example.com/x", href: "https://other.org/path#frag", want: "https://other.org/path"},
		{name: "protocol relative", pageURL: "https://example.com/x", href: "//cdn.example.com/lib", want: "https://cdn.example.com/lib"},
		{name: "fragment collapses to page", pageURL: "https://example.com/x", href: "#top", want: "https://example.com/x"},
		{name: "mailto rejected", pageURL: "https://example.com/x", href: "mailto:bob@example.com", want: ""},
		{name: "javascript rejected", pageURL: "https://example.com/x", href: "javascript:void(0)", want: ""},
		{name: "empty href", pageURL: "https://example.com/x", href: "", want: ""},
		{name: "invalid href", pageURL: "https://example.com/x", href: "http://bad host/", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveLink(tt.pageURL, tt.href); got != tt.want {
				t.Errorf("ResolveLink(%q, %q) = %q, want %q", tt.pageURL, tt.href, got, tt.want)
			}
		})
	}
}
