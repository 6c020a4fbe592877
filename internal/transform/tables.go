package transform

import (
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// NormalizeTables prepares tables for pipe-table output: a table without a
// header gets its first row promoted, and block content inside cells is
// flattened onto one line.
func NormalizeTables(content *goquery.Selection) {
	content.Find("table").Each(func(_ int, table *goquery.Selection) {
		if table.Find("thead").Length() == 0 {
			promoteHeaderRow(table)
		}
		table.Find("td br, th br").ReplaceWithHtml(" ")
		table.Find("td p, th p").Each(func(_ int, p *goquery.Selection) {
			p.AppendHtml(" ")
			p.ReplaceWithSelection(p.Contents())
		})
	})
}

func promoteHeaderRow(table *goquery.Selection) {
	row := table.Find("tr").First()
	if row.Length() == 0 {
		return
	}
	tableNode, rowNode := table.Get(0), row.Get(0)

	thead := &html.Node{Type: html.ElementNode, Data: "thead", DataAtom: atom.Thead}
	rowNode.Parent.RemoveChild(rowNode)
	thead.AppendChild(rowNode)
	tableNode.InsertBefore(thead, tableNode.FirstChild)

	for c := rowNode.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == atom.Td {
			c.Data, c.DataAtom = "th", atom.Th
		}
	}
}
