package server

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"

	"counterfactual_press/timeline"
)

// articleMarkdown lays out an article as a markdown document: headline,
// dateline, lede, body paragraphs, pull quote, and sidebar list.
func articleMarkdown(art timeline.Article) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", art.Headline)
	if art.Dateline != "" {
		fmt.Fprintf(&sb, "*%s* —\n\n", art.Dateline)
	}
	fmt.Fprintf(&sb, "**%s**\n\n", art.Lede)
	for _, para := range art.Body {
		sb.WriteString(para)
		sb.WriteString("\n\n")
	}
	if art.PullQuote != "" {
		fmt.Fprintf(&sb, "> %s\n\n", art.PullQuote)
	}
	if art.Sidebar != nil {
		fmt.Fprintf(&sb, "## %s\n\n", art.Sidebar.Title)
		for _, item := range art.Sidebar.Items {
			fmt.Fprintf(&sb, "- %s\n", item)
		}
	}
	return sb.String()
}

// renderArticleHTML converts the article's markdown layout to HTML.
func renderArticleHTML(art timeline.Article) ([]byte, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(articleMarkdown(art)), &buf); err != nil {
		return nil, fmt.Errorf("render article: %w", err)
	}
	return buf.Bytes(), nil
}
