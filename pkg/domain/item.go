package domain

import "time"

// Item represents a single feed entry
type Item struct {
	GUID        string
	Link        string
	Title       string
	Description string
	Author      string
	ImageURL    string
	Published   time.Time
	// NoPubTime marks items whose feed carried no parseable date;
	// Published then holds the observation time and is used for
	// ordering only, never to regress a cursor
	NoPubTime bool
}

// Identity returns the canonical item identity: the absolute link when
// present, otherwise a composite of title and the feed-provided GUID
func (i Item) Identity() string {
	if i.Link != "" {
		return i.Link
	}
	return i.Title + "-" + i.GUID
}
