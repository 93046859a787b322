package telegram

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/feedrelay/feedrelay/pkg/domain"
)

// maxDescriptionRunes caps the item description in the rendered message
const maxDescriptionRunes = 300

// stripPolicy removes all markup from feed-provided descriptions
var stripPolicy = bluemonday.StrictPolicy()

// formatMessage renders one item as Telegram HTML: a linked title, a
// trimmed plain-text description, and a footer with the source tag and
// author hashtag
func formatMessage(item domain.Item, tag string) string {
	var b strings.Builder

	title := item.Title
	if title == "" {
		title = item.Link
	}
	b.WriteString(`<a href="` + html.EscapeString(item.Link) + `">` + html.EscapeString(title) + `</a>`)

	if desc := cleanDescription(item.Description); desc != "" {
		b.WriteString("\n\n<i>" + html.EscapeString(desc) + "</i>")
	}

	footer := tag
	if author := strings.ReplaceAll(strings.TrimSpace(item.Author), " ", ""); author != "" {
		footer += " #" + author
	}
	if footer != "" {
		b.WriteString("\n\n" + footer)
	}

	return b.String()
}

// cleanDescription strips markup and truncates to a readable length
func cleanDescription(desc string) string {
	clean := stripPolicy.Sanitize(desc)
	clean = strings.TrimSpace(html.UnescapeString(clean))

	runes := []rune(clean)
	if len(runes) > maxDescriptionRunes {
		clean = string(runes[:maxDescriptionRunes]) + "..."
	}
	return clean
}
