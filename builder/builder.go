// Package builder provides the criteria editing panel.
package builder

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"sifter/criteria"
	nt "sifter/entity"
	"sifter/message"
	"sifter/piece"
	"sifter/style"
)

const maxValueLength = 200

type fieldType int

const (
	fieldLeft fieldType = iota
	fieldOperator
	fieldValue
)

// position locates a filter row within the group
type position struct {
	list  int
	index int
}

// CriteriaPanel edits a criteria group: one block per OR-group, the blocks
// joined by AND, one row per filter.
type CriteriaPanel struct {
	editor   *criteria.Editor
	selected int       // Which row across all lists is selected
	field    fieldType // Which field within row is selected
	input    piece.TextInput

	width  int
	height int

	ctx    context.Context
	logger nt.Logger
}

func NewCriteriaPanel(ctx context.Context, group *criteria.Group, columns []string, lgr nt.Logger) CriteriaPanel {
	pnl := CriteriaPanel{
		editor: criteria.NewEditor(group, columns),
		ctx:    ctx,
		logger: lgr,
	}
	return pnl.syncInput()
}

// Group returns the group being edited.
func (pnl CriteriaPanel) Group() *criteria.Group {
	return pnl.editor.Group
}

// SetColumns replaces the columns offered for new and edited filters.
func (pnl CriteriaPanel) SetColumns(columns []string) CriteriaPanel {
	pnl.editor.Columns = columns
	return pnl
}

// SetSize sets the space available to Render.
func (pnl CriteriaPanel) SetSize(width, height int) CriteriaPanel {
	pnl.width = width
	pnl.height = height
	return pnl
}

// Height returns the lines Render needs.
func (pnl CriteriaPanel) Height() int {
	rows := len(pnl.positions())
	if rows == 0 {
		return 1
	}
	// one line per row plus one AND separator between lists
	return rows + pnl.editor.Group.Size() - 1
}

func (pnl CriteriaPanel) Update(msg tea.KeyPressMsg) (CriteriaPanel, tea.Cmd) {

	switch msg.String() {
	case "up":
		return pnl.moveTo(pnl.selected - 1), nil

	case "down":
		return pnl.moveTo(pnl.selected + 1), nil

	case "tab":
		pnl.field = (pnl.field + 1) % 3
		return pnl, nil

	case "shift+tab":
		pnl.field = (pnl.field + 2) % 3
		return pnl, nil

	case "enter":
		return pnl.AddCriteria()

	case "ctrl+d":
		return pnl.RemoveCriteria()

	case "ctrl+g":
		return pnl.AddGroup()
	}

	switch pnl.field {
	case fieldLeft:
		return pnl.cycleField(msg.String())
	case fieldOperator:
		return pnl.cycleOperator(msg.String())
	default:
		return pnl.editValue(msg)
	}
}

// AddGroup appends an AND-group and selects its row.
func (pnl CriteriaPanel) AddGroup() (CriteriaPanel, tea.Cmd) {

	pnl.editor.AddGroup()
	pnl = pnl.moveTo(len(pnl.positions()) - 1)
	pnl.field = fieldValue

	return pnl, message.CriteriaChangedCmd()
}

// AddCriteria adds an OR row after the selected one.
func (pnl CriteriaPanel) AddCriteria() (CriteriaPanel, tea.Cmd) {

	pos, ok := pnl.current()
	if !ok {
		return pnl.AddGroup()
	}

	err := pnl.editor.AddCriteria(pos.list, pos.index)
	if err != nil {
		return pnl, message.ErrorCmd(err)
	}

	pnl = pnl.moveTo(pnl.selected + 1)
	pnl.field = fieldValue

	return pnl, message.CriteriaChangedCmd()
}

// RemoveCriteria removes the selected row.
func (pnl CriteriaPanel) RemoveCriteria() (CriteriaPanel, tea.Cmd) {

	pos, ok := pnl.current()
	if !ok {
		return pnl, nil
	}

	err := pnl.editor.RemoveCriteria(pos.list, pos.index)
	if err != nil {
		return pnl, message.ErrorCmd(err)
	}

	return pnl.moveTo(pnl.selected), message.CriteriaChangedCmd()
}

// Render renders the criteria rows
func (pnl CriteriaPanel) Render(focused bool) string {

	lists := pnl.editor.Group.All()
	if len(pnl.positions()) == 0 {
		return style.MutedStyle.Render("No criteria, ctrl+g adds a group")
	}

	var content strings.Builder
	row := 0
	for li, list := range lists {
		if li > 0 {
			content.WriteString(style.AndStyle.Render("AND") + "\n")
		}
		if list == nil {
			continue
		}

		for _, flt := range list.All() {
			content.WriteString(pnl.renderRow(row, flt, focused))
			content.WriteString("\n")
			row++
		}
	}

	return strings.TrimSuffix(content.String(), "\n")
}

// unexported

func (pnl CriteriaPanel) renderRow(row int, flt nt.Filter, focused bool) string {

	isSelected := focused && row == pnl.selected

	field := flt.LeftCondition
	if field == "" {
		field = "?"
	}
	field = style.Highlight(fmt.Sprintf("%-15s", field), isSelected && pnl.field == fieldLeft)

	op := style.Highlight(fmt.Sprintf("%-12s", flt.Operator.Label()), isSelected && pnl.field == fieldOperator)

	value := flt.Value
	if isSelected && pnl.field == fieldValue {
		value = pnl.input.Render(true)
	}

	prefix := "  "
	if isSelected {
		prefix = "> "
	}

	or := "   "
	if pos, ok := pnl.at(row); ok && pos.index > 0 {
		or = "or "
	}

	line := fmt.Sprintf("%s%s%s %s %s", prefix, style.MutedStyle.Render(or), field, op, value)

	if err := criteria.CheckValue(flt.Operator, flt.Value); err != nil {
		line += "  " + style.WarnStyle.Render(err.Error())
	}
	return line
}

func (pnl CriteriaPanel) cycleField(key string) (CriteriaPanel, tea.Cmd) {

	pos, flt, ok := pnl.currentFilter()
	if !ok {
		return pnl, nil
	}

	sel := piece.NewSelector(pnl.editor.Columns, flt.LeftCondition)
	switch key {
	case "left":
		sel = sel.Prev()
	case "right":
		sel = sel.Next()
	default:
		return pnl, nil
	}

	field, ok := sel.Selected()
	if !ok {
		return pnl, nil
	}

	return pnl.apply(pnl.editor.ChangeLeftCondition(pos.list, pos.index, field))
}

func (pnl CriteriaPanel) cycleOperator(key string) (CriteriaPanel, tea.Cmd) {

	pos, flt, ok := pnl.currentFilter()
	if !ok {
		return pnl, nil
	}

	var keys []string
	for _, op := range nt.Operators {
		keys = append(keys, op.String())
	}

	sel := piece.NewSelector(keys, flt.Operator.String())
	switch key {
	case "left":
		sel = sel.Prev()
	case "right":
		sel = sel.Next()
	default:
		return pnl, nil
	}

	op := nt.Operators[sel.SelectedIndex()]
	return pnl.apply(pnl.editor.ChangeOperator(pos.list, pos.index, op))
}

func (pnl CriteriaPanel) editValue(msg tea.KeyPressMsg) (CriteriaPanel, tea.Cmd) {

	pos, ok := pnl.current()
	if !ok {
		return pnl, nil
	}

	input, changed := pnl.input.Update(msg)
	pnl.input = input
	if !changed {
		return pnl, nil
	}

	return pnl.apply(pnl.editor.ChangeValue(pos.list, pos.index, input.Value()))
}

func (pnl CriteriaPanel) apply(err error) (CriteriaPanel, tea.Cmd) {
	if err != nil {
		pnl.logger.Error(pnl.ctx, "failed to edit criteria", err)
		return pnl, message.ErrorCmd(err)
	}
	return pnl, message.CriteriaChangedCmd()
}

// positions flattens the group into selectable rows
func (pnl CriteriaPanel) positions() (rows []position) {
	for li, list := range pnl.editor.Group.All() {
		if list == nil {
			continue
		}
		for fi := 0; fi < list.Size(); fi++ {
			rows = append(rows, position{list: li, index: fi})
		}
	}
	return
}

func (pnl CriteriaPanel) at(row int) (pos position, ok bool) {
	rows := pnl.positions()
	if row < 0 || row >= len(rows) {
		return
	}
	return rows[row], true
}

func (pnl CriteriaPanel) current() (position, bool) {
	return pnl.at(pnl.selected)
}

func (pnl CriteriaPanel) currentFilter() (pos position, flt nt.Filter, ok bool) {

	pos, ok = pnl.current()
	if !ok {
		return
	}

	flt, err := pnl.editor.Filter(pos.list, pos.index)
	ok = err == nil
	return
}

// moveTo selects row, clamped to the rows present
func (pnl CriteriaPanel) moveTo(row int) CriteriaPanel {

	count := len(pnl.positions())
	if row >= count {
		row = count - 1
	}
	if row < 0 {
		row = 0
	}

	pnl.selected = row
	return pnl.syncInput()
}

// syncInput loads the selected filter's value into the input
func (pnl CriteriaPanel) syncInput() CriteriaPanel {
	_, flt, _ := pnl.currentFilter()
	pnl.input = piece.NewTextInput(flt.Value, maxValueLength)
	return pnl
}
