package feed

import (
	"encoding/xml"
	"fmt"
)

// Entry is one raw item from the syndication source, pre-normalization. It is
// the explicit contract the normalizer depends on: named optional fields, not
// whatever incidental structure the wire format happens to carry.
type Entry struct {
	Title       string
	Description string
	Link        string
	GUID        string
	Categories  []string
	Published   string
}

// FormatError indicates the feed container itself could not be decoded.
type FormatError struct {
	Err error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("unparseable feed: %v", e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// rssDocument mirrors the subset of the RSS 2.0 container this system
// consumes.
type rssDocument struct {
	XMLName xml.Name `xml:"rss"`
	Channel []struct {
		Title string `xml:"title"`
		Items []struct {
			Title       string   `xml:"title"`
			Link        string   `xml:"link"`
			GUID        string   `xml:"guid"`
			Description string   `xml:"description"`
			Categories  []string `xml:"category"`
			PubDate     string   `xml:"pubDate"`
		} `xml:"item"`
	} `xml:"channel"`
}

// Parse decodes a raw RSS payload into the ordered sequence of raw entries.
// A payload that is not an RSS document yields a *FormatError; individual
// items are passed through as-is, however sparse.
func Parse(raw []byte) ([]Entry, error) {
	var doc rssDocument
	if err := xml.Unmarshal(raw, &doc); err != nil {
		return nil, &FormatError{Err: err}
	}

	var entries []Entry
	for _, channel := range doc.Channel {
		for _, item := range channel.Items {
			entries = append(entries, Entry{
				Title:       item.Title,
				Description: item.Description,
				Link:        item.Link,
				GUID:        item.GUID,
				Categories:  item.Categories,
				Published:   item.PubDate,
			})
		}
	}

	return entries, nil
}
