package ingest

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dash-tools/report-atlas/pkg/models/domain"
)

// HTMLSource reads raw rows from a saved report page snapshot. It handles
// regular <table> markup as well as the div-based grid some dashboards
// render (div.row containing div.cell, with the text in span.cell-value).
type HTMLSource struct {
	path string
}

func NewHTMLSource(path string) *HTMLSource {
	return &HTMLSource{path: path}
}

func (s *HTMLSource) Rows(ctx context.Context) ([]domain.RawRow, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open html snapshot: %w", err)
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse html snapshot %s: %w", s.path, err)
	}

	rows := tableRows(doc)
	rows = append(rows, gridRows(doc)...)
	return rows, nil
}

func tableRows(doc *goquery.Document) []domain.RawRow {
	var rows []domain.RawRow
	doc.Find("table tr").Each(func(_ int, tr *goquery.Selection) {
		var cells []string
		tr.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
			cells = append(cells, strings.TrimSpace(cell.Text()))
		})
		if len(cells) > 0 {
			rows = append(rows, domain.RawRow{Cells: cells})
		}
	})
	return rows
}

func gridRows(doc *goquery.Document) []domain.RawRow {
	var rows []domain.RawRow
	doc.Find("div.row").Each(func(_ int, div *goquery.Selection) {
		var cells []string
		div.Find("div.cell").Each(func(_ int, cell *goquery.Selection) {
			value := cell.Find("span.cell-value")
			if value.Length() > 0 {
				cells = append(cells, strings.TrimSpace(value.First().Text()))
				return
			}
			cells = append(cells, strings.TrimSpace(cell.Text()))
		})
		if len(cells) > 0 {
			rows = append(rows, domain.RawRow{Cells: cells})
		}
	})
	return rows
}
