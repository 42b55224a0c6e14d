package client

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// htmlText reduces an HTML error page to its title and visible body text
func htmlText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())

	doc.Find("script, style, head").Remove()
	text := strings.Join(strings.Fields(doc.Find("body").Text()), " ")

	switch {
	case title == "":
		return text, nil
	case text == "":
		return title, nil
	case strings.HasPrefix(text, title):
		return text, nil
	default:
		return title + ": " + text, nil
	}
}
