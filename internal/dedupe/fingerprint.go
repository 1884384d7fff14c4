package dedupe

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"regexp"
	"sort"
	"strings"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// trackingParams are query parameters that vary across syndication channels
// without changing the identity of the article.
var trackingParams = map[string]bool{
	"fbclid":  true,
	"gclid":   true,
	"igshid":  true,
	"mc_cid":  true,
	"mc_eid":  true,
	"ref":     true,
	"source":  true,
	"cmpid":   true,
	"ncid":    true,
	"ocid":    true,
	"smid":    true,
	"partner": true,
}

// Fingerprint derives the stable identity hash for an article from its title
// and source URL. Two URLs differing only in tracking parameters or trailing
// slashes, or titles differing only in case/whitespace, fingerprint the same.
func Fingerprint(title, rawURL string) string {
	data := NormalizeTitle(title) + "|" + CanonicalURL(rawURL)
	sum := sha256.Sum256([]byte(data))
	return hex.EncodeToString(sum[:])
}

// NormalizeTitle lower-cases a title and collapses all whitespace runs.
func NormalizeTitle(title string) string {
	normalized := strings.ToLower(title)
	normalized = whitespaceRe.ReplaceAllString(normalized, " ")
	return strings.TrimSpace(normalized)
}

// CanonicalURL reduces a URL to its deduplication-relevant form: lower-cased
// scheme and host, default port and fragment removed, trailing slash trimmed,
// tracking query parameters dropped and the rest sorted.
func CanonicalURL(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" {
		return strings.TrimRight(strings.ToLower(strings.TrimSpace(rawURL)), "/")
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	switch {
	case u.Scheme == "http" && strings.HasSuffix(u.Host, ":80"):
		u.Host = strings.TrimSuffix(u.Host, ":80")
	case u.Scheme == "https" && strings.HasSuffix(u.Host, ":443"):
		u.Host = strings.TrimSuffix(u.Host, ":443")
	}

	u.Path = strings.TrimRight(u.Path, "/")
	u.RawQuery = canonicalQuery(u.Query())

	return u.String()
}

func canonicalQuery(values url.Values) string {
	keep := make([]string, 0, len(values))
	for key := range values {
		if trackingParams[key] || strings.HasPrefix(key, "utm_") {
			continue
		}
		keep = append(keep, key)
	}
	sort.Strings(keep)

	var sb strings.Builder
	for _, key := range keep {
		for _, value := range values[key] {
			if sb.Len() > 0 {
				sb.WriteByte('&')
			}
			sb.WriteString(url.QueryEscape(key))
			sb.WriteByte('=')
			sb.WriteString(url.QueryEscape(value))
		}
	}
	return sb.String()
}
