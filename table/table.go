// Package table provides the scrolling results panel.
package table

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/pkg/errors"

	nt "sifter/entity"
	"sifter/style"
)

// Todo: horizontal scroll when columns overflow the panel

const (
	headerHeight = 2
	maxColWidth  = 30
	minColWidth  = 3
)

// ResultPanel shows filtered records and tracks navigation state
type ResultPanel struct {
	selected int // Absolute position of selected record
	offset   int // Offset of page shown

	width  int
	height int

	columns []string
	records []nt.Record
	table   *table.Table

	ctx    context.Context
	logger nt.Logger
}

func NewResultPanel(ctx context.Context, lgr nt.Logger) ResultPanel {

	lgt := table.New()
	style.StyleTable(lgt)

	return ResultPanel{
		table:  lgt,
		ctx:    ctx,
		logger: lgr,
	}
}

// SetSize sets the space available to Render
func (pnl ResultPanel) SetSize(width, height int) ResultPanel {
	pnl.width = width
	pnl.height = height
	return pnl.scroll()
}

// SetResults replaces the records shown, keeping selection where possible
func (pnl ResultPanel) SetResults(columns []string, records []nt.Record) ResultPanel {
	pnl.columns = columns
	pnl.records = records

	if pnl.selected >= len(records) {
		pnl.selected = len(records) - 1
	}
	if pnl.selected < 0 {
		pnl.selected = 0
	}
	return pnl.scroll()
}

func (pnl ResultPanel) Update(msg tea.KeyPressMsg) ResultPanel {
	pageSize := pnl.PageSize()
	total := len(pnl.records)

	switch msg.String() {
	case "up", "k":
		if pnl.selected > 0 {
			pnl.selected--
		}

	case "down", "j":
		if pnl.selected < total-1 {
			pnl.selected++
		}

	case "pgup", "ctrl+u":
		pnl.selected -= pageSize
		if pnl.selected < 0 {
			pnl.selected = 0
		}

	case "pgdown", "ctrl+d":
		pnl.selected += pageSize
		if pnl.selected >= total {
			pnl.selected = total - 1
		}

	case "g", "home":
		pnl.selected = 0

	case "G", "end":
		pnl.selected = total - 1
	}

	if pnl.selected < 0 {
		pnl.selected = 0
	}
	return pnl.scroll()
}

// Render renders the visible page of records
func (pnl ResultPanel) Render(focused bool) string {

	if len(pnl.columns) == 0 {
		return style.MutedStyle.Render("No data loaded")
	}

	page := pnl.page()
	widths := pnl.widths(page)

	headers := make([]string, len(pnl.columns))
	for i, col := range pnl.columns {
		headers[i] = fmt.Sprintf("%-*s", widths[i]+1, truncate(col, widths[i]))
	}

	selectedRow := -1
	if focused {
		selectedRow = pnl.selected - pnl.offset
	}

	pnl.table.Headers(headers...)
	pnl.table.StyleFunc(style.RowStyler(selectedRow))
	pnl.table.ClearRows()
	for _, rec := range page {
		pnl.table.Row(pnl.row(rec, widths)...)
	}
	if pnl.width > 0 {
		pnl.table.Width(pnl.width)
	}

	return pnl.table.Render()
}

// Selected returns the selected record
func (pnl ResultPanel) Selected() (rec nt.Record, err error) {

	if pnl.selected >= len(pnl.records) {
		err = errors.Errorf("index %d is out of bounds of %d records", pnl.selected, len(pnl.records))
		return
	}

	rec = pnl.records[pnl.selected]
	return
}

// Row returns the 1-indexed position of the selection for display
func (pnl ResultPanel) Row() int {
	if len(pnl.records) == 0 {
		return 0
	}
	return pnl.selected + 1
}

// PageSize returns the number of rows that fit on panel
func (pnl ResultPanel) PageSize() int {
	return pnl.height - headerHeight
}

// unexported

// scroll adjusts offset to keep selected visible
func (pnl ResultPanel) scroll() ResultPanel {
	pageSize := pnl.PageSize()
	if pageSize < 1 {
		pnl.offset = pnl.selected
		return pnl
	}

	if pnl.selected < pnl.offset {
		pnl.offset = pnl.selected
	} else if pnl.selected >= pnl.offset+pageSize {
		pnl.offset = pnl.selected - pageSize + 1
	}
	return pnl
}

func (pnl ResultPanel) page() []nt.Record {
	start := min(pnl.offset, len(pnl.records))
	end := min(start+max(pnl.PageSize(), 0), len(pnl.records))
	return pnl.records[start:end]
}

// widths sizes each column to its widest visible cell
func (pnl ResultPanel) widths(page []nt.Record) []int {
	widths := make([]int, len(pnl.columns))
	for i, col := range pnl.columns {
		widths[i] = max(len([]rune(col)), minColWidth)
		for _, rec := range page {
			widths[i] = max(widths[i], len([]rune(cell(rec, col))))
		}
		widths[i] = min(widths[i], maxColWidth)
	}
	return widths
}

func (pnl ResultPanel) row(rec nt.Record, widths []int) []string {
	row := make([]string, len(pnl.columns))
	for i, col := range pnl.columns {
		row[i] = truncate(cell(rec, col), widths[i])
	}
	return row
}

// help

func cell(rec nt.Record, col string) string {
	return nt.Value{Raw: rec[col]}.String()
}

func truncate(in string, width int) string {

	runes := []rune(in)
	if len(runes) <= width {
		return in
	}

	truncated := string(runes[:width-1])
	ellipsis := style.MutedStyle.Render("…")
	return truncated + ellipsis
}
