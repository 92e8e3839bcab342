package extract

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// fromMarkup locates table rows structurally in an HTML statement and
// returns them as a row grid. Cell text has tags stripped and whitespace
// collapsed.
func fromMarkup(data []byte) (Content, error) {
	doc, err := html.Parse(strings.NewReader(DecodeBest(data)))
	if err != nil {
		return Content{}, fmt.Errorf("markup: parsing document: %w", err)
	}

	var rows [][]string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "tr" {
			var row []string
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
					row = append(row, collapseWhitespace(textContent(c)))
				}
			}
			if !emptyRow(row) {
				rows = append(rows, row)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return Content{Kind: KindRows, Format: "markup", Rows: rows}, nil
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
