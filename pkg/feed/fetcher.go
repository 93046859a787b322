package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/mmcdole/gofeed"

	"github.com/feedrelay/feedrelay/pkg/domain"
)

// maxBodySize caps feed downloads, some misconfigured endpoints serve huge pages
const maxBodySize = 10 * 1024 * 1024

// FetchError reports a failed fetch of a source. Always recoverable;
// the source is retried on the next cycle.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string { return fmt.Sprintf("fetch %s: %v", e.URL, e.Err) }
func (e *FetchError) Unwrap() error { return e.Err }

// ErrEmptyFeed indicates a feed parsed fine but carried no items
var ErrEmptyFeed = errors.New("feed has no items")

// Fetcher retrieves and parses one feed, trying several retrieval
// strategies until one yields a non-empty, well-formed item list
type Fetcher struct {
	client    *http.Client
	userAgent string
	timeout   time.Duration
	now       func() time.Time
}

// NewFetcher creates a fetcher with the given per-request timeout and
// default User-Agent
func NewFetcher(timeout time.Duration, userAgent string) *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		userAgent: userAgent,
		timeout:   timeout,
		now:       time.Now,
	}
}

// Fetch tries each retrieval strategy in order and returns the first
// non-empty parsed item list. All strategy failures are joined into the
// returned FetchError. No state is written anywhere on any path.
func (f *Fetcher) Fetch(ctx context.Context, src domain.Source) ([]domain.Item, error) {
	strategies := []struct {
		name string
		fn   func(ctx context.Context, src domain.Source) ([]domain.Item, error)
	}{
		{"default", f.fetchDefault},
		{"browser", f.fetchBrowser},
		{"session", f.fetchSession},
		{"encoding", f.fetchEncodings},
	}

	var errs []error
	for _, s := range strategies {
		items, err := s.fn(ctx, src)
		if err != nil {
			lgr.Printf("[DEBUG] strategy %s failed for %s: %v", s.name, src.URL, err)
			errs = append(errs, fmt.Errorf("%s: %w", s.name, err))
			continue
		}
		if s.name != "default" {
			lgr.Printf("[DEBUG] strategy %s succeeded for %s", s.name, src.URL)
		}
		return items, nil
	}

	return nil, &FetchError{URL: src.URL, Err: errors.Join(errs...)}
}

// fetchDefault requests the feed with the service User-Agent and a feed
// Accept header
func (f *Fetcher) fetchDefault(ctx context.Context, src domain.Source) ([]domain.Item, error) {
	body, err := f.download(ctx, f.client, src, func(req *http.Request) {
		req.Header.Set("User-Agent", f.userAgent)
		req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml, text/xml")
	})
	if err != nil {
		return nil, err
	}
	return f.parse(body)
}

// fetchBrowser retries with a rotated browser User-Agent and browser-like
// headers, some endpoints reject anything that doesn't look like a browser
func (f *Fetcher) fetchBrowser(ctx context.Context, src domain.Source) ([]domain.Item, error) {
	body, err := f.download(ctx, f.client, src, func(req *http.Request) {
		req.Header.Set("User-Agent", randomUserAgent())
		addBrowserHeaders(req)
	})
	if err != nil {
		return nil, err
	}
	return f.parse(body)
}

// fetchSession warms up a cookie-jar session against the site root before
// requesting the feed, for endpoints that gate feeds behind session cookies
func (f *Fetcher) fetchSession(ctx context.Context, src domain.Source) ([]domain.Item, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	client := &http.Client{Timeout: f.timeout, Jar: jar, Transport: f.client.Transport}

	u, err := url.Parse(src.URL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	rootURL := u.Scheme + "://" + u.Host + "/"

	ua := randomUserAgent()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rootURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create warmup request: %w", err)
	}
	req.Header.Set("User-Agent", ua)
	addBrowserHeaders(req)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("warmup request: %w", err)
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64*1024))
	_ = resp.Body.Close()

	body, err := f.download(ctx, client, src, func(req *http.Request) {
		req.Header.Set("User-Agent", ua)
		addBrowserHeaders(req)
	})
	if err != nil {
		return nil, err
	}
	return f.parse(body)
}

// fetchEncodings trial-decodes the raw bytes under each regional encoding
// and keeps the decoding that yields the most parseable items
func (f *Fetcher) fetchEncodings(ctx context.Context, src domain.Source) ([]domain.Item, error) {
	body, err := f.download(ctx, f.client, src, func(req *http.Request) {
		req.Header.Set("User-Agent", f.userAgent)
		req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml, text/xml")
	})
	if err != nil {
		return nil, err
	}

	best, encoding, err := decodeBest(body)
	if err != nil {
		return nil, err
	}
	if encoding != "utf-8" {
		lgr.Printf("[DEBUG] used encoding %s for %s", encoding, src.URL)
	}
	return f.convert(best), nil
}

// download performs a single GET and returns the limited body bytes
func (f *Fetcher) download(ctx context.Context, client *http.Client, src domain.Source, decorate func(*http.Request)) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	decorate(req)
	for k, v := range src.Headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

// parse runs gofeed over the bytes and converts to domain items
func (f *Fetcher) parse(body []byte) ([]domain.Item, error) {
	parsed, err := gofeed.NewParser().ParseString(string(body))
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}
	if len(parsed.Items) == 0 {
		return nil, ErrEmptyFeed
	}
	return f.convert(parsed), nil
}

// convert maps gofeed items to domain items
func (f *Fetcher) convert(parsed *gofeed.Feed) []domain.Item {
	items := make([]domain.Item, 0, len(parsed.Items))
	for _, it := range parsed.Items {
		item := domain.Item{
			Title:       it.Title,
			Link:        it.Link,
			Description: it.Description,
			ImageURL:    itemImage(it),
		}

		// identity fallback chain: guid, link, feed title + item title
		switch {
		case it.GUID != "":
			item.GUID = it.GUID
		case it.Link != "":
			item.GUID = it.Link
		default:
			item.GUID = fmt.Sprintf("%s-%s", parsed.Title, it.Title)
		}

		if it.Author != nil {
			item.Author = it.Author.Name
		}

		switch {
		case it.PublishedParsed != nil:
			item.Published = *it.PublishedParsed
		case it.UpdatedParsed != nil:
			item.Published = *it.UpdatedParsed
		default:
			// no structured date, approximate with observation time
			item.Published = f.now()
			item.NoPubTime = true
		}

		items = append(items, item)
	}
	return items
}

// itemImage extracts an image URL from enclosures or media extensions
func itemImage(it *gofeed.Item) string {
	for _, enc := range it.Enclosures {
		if enc == nil || enc.URL == "" {
			continue
		}
		if enc.Type == "" || len(enc.Type) >= 6 && enc.Type[:6] == "image/" {
			return enc.URL
		}
	}

	if media, ok := it.Extensions["media"]; ok {
		for _, name := range []string{"content", "thumbnail"} {
			for _, ext := range media[name] {
				if u := ext.Attrs["url"]; u != "" {
					return u
				}
			}
		}
	}

	if it.Image != nil && it.Image.URL != "" {
		return it.Image.URL
	}
	return ""
}
