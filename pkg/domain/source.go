package domain

// Source represents one configured feed endpoint. Identity is the URL;
// the rest is static metadata loaded from the sources file at startup.
type Source struct {
	URL     string
	Tag     string            // hashtag attached to dispatched items
	Headers map[string]string // optional extra request headers
}

// ID returns the source identity used for cursor and quarantine records.
func (s Source) ID() string { return s.URL }
