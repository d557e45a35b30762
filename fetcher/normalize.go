package fetcher

import (
	"html"
	"regexp"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"newsroom/models"
)

const (
	// maxSummaryChars bounds the plain-text summary of an article.
	maxSummaryChars = 220
	// maxIDChars bounds the derived article id.
	maxIDChars = 250
)

// imgSrcPattern matches the src attribute of the first img tag in an HTML
// fragment. A single regex match, not an HTML parse.
var imgSrcPattern = regexp.MustCompile(`(?i)<img[^>]+src=["']([^"']+)["']`)

// tagPattern strips markup when deriving plain text.
var tagPattern = regexp.MustCompile(`<[^>]*>`)

// rawDateLayouts are tried in order when the feed parser could not interpret
// the publish date itself.
var rawDateLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	time.RFC3339,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// normalizeItem maps one raw feed item onto the strict Article shape. All
// optional upstream fields may be absent; each one degrades to an empty
// string instead of failing.
func normalizeItem(item *gofeed.Item, source models.FeedSource) models.Article {
	title := safeText(item.Title)
	link := safeText(item.Link)
	if link == "" {
		link = safeText(item.GUID)
	}

	date, published := itemDate(item)

	key := link
	if key == "" {
		key = title
	}
	id := truncateChars(source.ID+":"+key, maxIDChars)

	return models.Article{
		ID:         id,
		Title:      title,
		Link:       link,
		Source:     source.Name,
		FeedID:     source.ID,
		Categories: source.Categories,
		Date:       date,
		Summary:    itemSummary(item),
		Image:      itemImage(item),
		Published:  published,
	}
}

// itemDate returns the article's display date and its parsed form. The
// parsed timestamp is preferred; otherwise the raw publish string is parsed
// with a few common layouts. An unparsable raw string is kept for display
// but ranks the article as undated. Nothing is ever fabricated from "now".
func itemDate(item *gofeed.Item) (string, time.Time) {
	if item.PublishedParsed != nil {
		return item.PublishedParsed.Format(time.RFC3339), *item.PublishedParsed
	}

	raw := safeText(item.Published)
	if raw == "" {
		return "", time.Time{}
	}
	for _, layout := range rawDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(time.RFC3339), t
		}
	}
	return raw, time.Time{}
}

// itemSummary picks the first non-empty of the item's description and its
// full content, reduced to plain text and capped at maxSummaryChars.
func itemSummary(item *gofeed.Item) string {
	for _, candidate := range []string{item.Description, item.Content} {
		if text := plainText(candidate); text != "" {
			return truncateChars(text, maxSummaryChars)
		}
	}
	return ""
}

// itemImage picks an image url for the article: the first enclosure, then a
// media:content extension, then the first img tag in the rendered and the
// encoded content. The url is never fetched to validate it.
func itemImage(item *gofeed.Item) string {
	for _, enclosure := range item.Enclosures {
		if enclosure == nil {
			continue
		}
		if url := safeText(enclosure.URL); url != "" {
			return url
		}
	}

	for _, extension := range item.Extensions["media"]["content"] {
		if url := safeText(extension.Attrs["url"]); url != "" {
			return url
		}
	}

	for _, fragment := range []string{item.Description, item.Content} {
		if match := imgSrcPattern.FindStringSubmatch(fragment); match != nil {
			return safeText(match[1])
		}
	}
	return ""
}

// safeText coerces a possibly missing value to a trimmed string.
func safeText(value string) string {
	return strings.TrimSpace(value)
}

// plainText strips markup and collapses whitespace.
func plainText(fragment string) string {
	text := tagPattern.ReplaceAllString(fragment, " ")
	text = html.UnescapeString(text)
	return strings.Join(strings.Fields(text), " ")
}

// truncateChars caps a string at max characters, not bytes, so multi-byte
// runes are never split.
func truncateChars(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max])
}
