package parse

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	mdtable "github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"

	"github.com/leofalp/tabex/core/table"
)

// HTMLStrategy handles models that answer with <table> markup. The HTML is
// converted to Markdown and the resulting pipe tables are parsed like
// [MarkdownStrategy] output, so headings before a table still name it.
type HTMLStrategy struct{}

// Name implements Strategy.
func (HTMLStrategy) Name() string { return "html" }

// Extract implements Strategy.
func (HTMLStrategy) Extract(text string) ([]table.RawTable, bool) {
	cleaned := StripFences(text)
	if !strings.Contains(strings.ToLower(cleaned), "<table") {
		return nil, false
	}

	markdown, err := htmlToMarkdown(cleaned)
	if err != nil {
		return nil, false
	}

	tables := ParseMarkdownTables(markdown)
	return tables, len(tables) > 0
}

// htmlToMarkdown builds a converter per call; converters keep per-instance
// state and Extract must stay safe for concurrent use.
func htmlToMarkdown(html string) (string, error) {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			mdtable.NewTablePlugin(),
		),
	)
	return conv.ConvertString(html)
}
