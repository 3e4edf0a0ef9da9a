package feed

import (
	"bytes"
	"cmp"
	"fmt"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

type Parser struct {
	gofeedParser *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{
		gofeedParser: gofeed.NewParser(),
	}
}

func (p *Parser) Run(data []byte) (*Metadata, []RawEntry, error) {
	feed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	metadata := &Metadata{
		Title:       feed.Title,
		Link:        feed.Link,
		Description: feed.Description,
		Language:    feed.Language,
	}

	entries := make([]RawEntry, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		entries = append(entries, p.convertItem(item))
	}

	return metadata, entries, nil
}

func (p *Parser) convertItem(item *gofeed.Item) RawEntry {
	entry := RawEntry{
		Title:     strings.TrimSpace(item.Title),
		Link:      strings.TrimSpace(item.Link),
		Summary:   cmp.Or(item.Description, item.Content),
		Published: p.timestamp(item.Published, item.PublishedParsed),
		Updated:   p.timestamp(item.Updated, item.UpdatedParsed),
		Author:    p.extractAuthor(item),
	}

	for _, category := range item.Categories {
		if category = strings.TrimSpace(category); category != "" {
			entry.Tags = append(entry.Tags, category)
		}
	}

	return entry
}

func (p *Parser) timestamp(raw string, parsed *time.Time) *RawTimestamp {
	raw = strings.TrimSpace(raw)
	if raw == "" && parsed == nil {
		return nil
	}
	return &RawTimestamp{Raw: raw, Parsed: parsed}
}

func (p *Parser) extractAuthor(item *gofeed.Item) *string {
	var names []string

	if len(item.Authors) > 0 {
		for _, author := range item.Authors {
			if author != nil {
				if name := p.formatAuthor(author.Name, author.Email); name != "" {
					names = append(names, name)
				}
			}
		}
	} else if item.Author != nil {
		if name := p.formatAuthor(item.Author.Name, item.Author.Email); name != "" {
			names = append(names, name)
		}
	}

	if len(names) == 0 {
		return nil
	}
	author := strings.Join(names, ", ")
	return &author
}

func (p *Parser) formatAuthor(name, email string) string {
	return cmp.Or(strings.TrimSpace(name), strings.TrimSpace(email))
}
