// Package webfetch pulls plain-text content from external conference
// websites for the in-app content pages. Results are memoized for a
// configurable window so repeated page opens do not hammer the source site.
package webfetch

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/zeebo/xxh3"
)

const (
	userAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	requestTimeout = 10 * time.Second
	maxTextRunes   = 5000
)

// Result is a fetched page reduced to text plus any image URLs found.
type Result struct {
	URL             string    `json:"url"`
	Content         string    `json:"content"`
	Images          []string  `json:"images,omitempty"`
	FetchedAt       time.Time `json:"fetchedAt"`
	SSLFallbackUsed bool      `json:"sslFallbackUsed"`
	FromCache       bool      `json:"fromCache"`
}

type Fetcher struct {
	cache    *gocache.Cache
	client   *http.Client
	insecure *http.Client
}

// New builds a fetcher whose memo entries expire after cacheMinutes.
func New(cacheMinutes int) *Fetcher {
	if cacheMinutes <= 0 {
		cacheMinutes = 30
	}
	ttl := time.Duration(cacheMinutes) * time.Minute
	insecureTransport := http.DefaultTransport.(*http.Transport).Clone()
	insecureTransport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	return &Fetcher{
		cache:    gocache.New(ttl, 2*ttl),
		client:   &http.Client{Timeout: requestTimeout},
		insecure: &http.Client{Timeout: requestTimeout, Transport: insecureTransport},
	}
}

// Fetch returns the page text for target, from the memo when fresh. A
// certificate failure falls back to an unverified fetch and flags the
// result rather than failing the request.
func (f *Fetcher) Fetch(target string) (Result, error) {
	key := cacheKey(target)
	if cached, ok := f.cache.Get(key); ok {
		result := cached.(Result)
		result.FromCache = true
		return result, nil
	}

	body, fallback, err := f.get(target)
	if err != nil {
		return Result{}, err
	}

	result := Result{
		URL:             target,
		Content:         htmlToText(body),
		Images:          imageURLs(target, body),
		FetchedAt:       time.Now().UTC(),
		SSLFallbackUsed: fallback,
	}
	f.cache.Set(key, result, gocache.DefaultExpiration)
	return result, nil
}

// Invalidate drops the memo entry for target so the next Fetch refreshes.
func (f *Fetcher) Invalidate(target string) {
	f.cache.Delete(cacheKey(target))
}

func (f *Fetcher) get(target string) (string, bool, error) {
	body, err := doRequest(f.client, target)
	if err == nil {
		return body, false, nil
	}
	if !isCertificateError(err) {
		return "", false, err
	}
	body, insecureErr := doRequest(f.insecure, target)
	if insecureErr != nil {
		return "", false, insecureErr
	}
	return body, true, nil
}

func doRequest(client *http.Client, target string) (string, error) {
	req, err := http.NewRequest(http.MethodGet, target, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("fetch %s: status %d", target, resp.StatusCode)
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func isCertificateError(err error) bool {
	var certErr *tls.CertificateVerificationError
	if errors.As(err, &certErr) {
		return true
	}
	var unknownAuthority x509.UnknownAuthorityError
	if errors.As(err, &unknownAuthority) {
		return true
	}
	var hostname x509.HostnameError
	if errors.As(err, &hostname) {
		return true
	}
	var invalid x509.CertificateInvalidError
	return errors.As(err, &invalid)
}

func cacheKey(target string) string {
	return "web_text_" + strconv.FormatUint(xxh3.HashString(target), 16)
}

var (
	scriptPattern = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	stylePattern  = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	tagPattern    = regexp.MustCompile(`<[^>]+>`)
	imgPattern    = regexp.MustCompile(`(?i)<img[^>]+src=["']([^"']+)["']`)
)

func htmlToText(body string) string {
	text := scriptPattern.ReplaceAllString(body, "")
	text = stylePattern.ReplaceAllString(text, "")
	text = tagPattern.ReplaceAllString(text, " ")
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) > maxTextRunes {
		return string(runes[:maxTextRunes]) + "..."
	}
	return text
}

func imageURLs(pageURL, body string) []string {
	base, err := url.Parse(pageURL)
	if err != nil {
		base = nil
	}
	matches := imgPattern.FindAllStringSubmatch(body, -1)
	images := make([]string, 0, len(matches))
	for _, match := range matches {
		src := match[1]
		if strings.HasPrefix(src, "//") {
			images = append(images, "https:"+src)
			continue
		}
		if base != nil {
			if ref, err := url.Parse(src); err == nil {
				images = append(images, base.ResolveReference(ref).String())
				continue
			}
		}
		images = append(images, src)
	}
	return images
}
