package dedupe

import "testing"

func TestFingerprintStableAcrossVariants(t *testing.T) {
	base := Fingerprint("Markets Rally After Rate Cut", "https://example.com/news/markets-rally")

	tests := []struct {
		name  string
		title string
		url   string
	}{
		{
			name:  "identical input",
			title: "Markets Rally After Rate Cut",
			url:   "https://example.com/news/markets-rally",
		},
		{
			name:  "title case and whitespace",
			title: "  markets   RALLY after\trate cut ",
			url:   "https://example.com/news/markets-rally",
		},
		{
			name:  "utm tracking params",
			title: "Markets Rally After Rate Cut",
			url:   "https://example.com/news/markets-rally?utm_source=feed&utm_medium=rss",
		},
		{
			name:  "social tracking params",
			title: "Markets Rally After Rate Cut",
			url:   "https://example.com/news/markets-rally?fbclid=abc123&ref=homepage",
		},
		{
			name:  "trailing slash",
			title: "Markets Rally After Rate Cut",
			url:   "https://example.com/news/markets-rally/",
		},
		{
			name:  "fragment",
			title: "Markets Rally After Rate Cut",
			url:   "https://example.com/news/markets-rally#comments",
		},
		{
			name:  "host case and default port",
			title: "Markets Rally After Rate Cut",
			url:   "HTTPS://Example.COM:443/news/markets-rally",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Fingerprint(tt.title, tt.url)
			if got != base {
				t.Errorf("Fingerprint(%q, %q) = %s, want %s", tt.title, tt.url, got, base)
			}
		})
	}
}

func TestFingerprintDistinguishesArticles(t *testing.T) {
	a := Fingerprint("Markets Rally After Rate Cut", "https://example.com/news/markets-rally")

	tests := []struct {
		name  string
		title string
		url   string
	}{
		{
			name:  "different title",
			title: "Markets Slide After Rate Cut",
			url:   "https://example.com/news/markets-rally",
		},
		{
			name:  "different path",
			title: "Markets Rally After Rate Cut",
			url:   "https://example.com/news/markets-rally-2",
		},
		{
			name:  "meaningful query param",
			title: "Markets Rally After Rate Cut",
			url:   "https://example.com/news/markets-rally?page=2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Fingerprint(tt.title, tt.url)
			if got == a {
				t.Errorf("Fingerprint(%q, %q) collides with baseline", tt.title, tt.url)
			}
		})
	}
}

func TestCanonicalURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "sorts surviving query params",
			in:   "https://example.com/a?z=1&a=2",
			want: "https://example.com/a?a=2&z=1",
		},
		{
			name: "strips all tracking params leaving no query",
			in:   "https://example.com/a?utm_campaign=x&gclid=y",
			want: "https://example.com/a",
		},
		{
			name: "keeps non-default port",
			in:   "https://example.com:8443/a",
			want: "https://example.com:8443/a",
		},
		{
			name: "unparseable falls back to trimmed lowercase",
			in:   "Not A URL/",
			want: "not a url",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanonicalURL(tt.in); got != tt.want {
				t.Errorf("CanonicalURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeTitle(t *testing.T) {
	got := NormalizeTitle("  Breaking:\n\tBig   NEWS ")
	want := "breaking: big news"
	if got != want {
		t.Errorf("NormalizeTitle = %q, want %q", got, want)
	}
}
