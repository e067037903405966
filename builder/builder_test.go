package builder

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"sifter/criteria"
	nt "sifter/entity"
	"sifter/message"
)

type nopLogger struct{}

func (nopLogger) Info(ctx context.Context, msg string, kv ...any)              {}
func (nopLogger) Error(ctx context.Context, msg string, err error, kv ...any) {}

func key(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func ctrl(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code, Mod: tea.ModCtrl}
}

func typed(text string) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: []rune(text)[0], Text: text}
}

func newPanel(t *testing.T, group *criteria.Group) CriteriaPanel {
	t.Helper()
	pnl := NewCriteriaPanel(context.Background(), group, []string{"name", "age"}, nopLogger{})
	count := 0
	pnl.editor.NewId = func() string {
		count++
		return "id-" + string(rune('0'+count))
	}
	return pnl
}

func isChanged(t *testing.T, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	if _, ok := cmd().(message.CriteriaChangedMsg); !ok {
		t.Fatalf("expected criteria changed, got %#v", cmd())
	}
}

func TestAddGroup(t *testing.T) {
	pnl := newPanel(t, nil)
	if pnl.Height() != 1 || !strings.Contains(pnl.Render(true), "ctrl+g") {
		t.Errorf("expected empty hint, got %q", pnl.Render(true))
	}

	pnl, cmd := pnl.Update(ctrl('g'))
	isChanged(t, cmd)

	pnl, cmd = pnl.Update(ctrl('g'))
	isChanged(t, cmd)

	filters := pnl.Group().Filters()
	if len(filters) != 2 || filters[1][0].LeftCondition != "name" {
		t.Fatalf("unexpected filters %v", filters)
	}
	if pnl.selected != 1 || pnl.field != fieldValue {
		t.Errorf("expected new row selected for value entry, got row %d field %d", pnl.selected, pnl.field)
	}
	if pnl.Height() != 3 {
		t.Errorf("expected two rows and a separator, got height %d", pnl.Height())
	}
	if !strings.Contains(pnl.Render(false), "AND") {
		t.Error("expected AND separator")
	}
}

func TestAddAndRemoveCriteria(t *testing.T) {
	group := criteria.FromFilters([][]nt.Filter{
		{{Id: "a", LeftCondition: "age", Operator: nt.Gt, Value: "26"}},
	})
	pnl := newPanel(t, group)

	pnl, cmd := pnl.Update(key(tea.KeyEnter))
	isChanged(t, cmd)

	filters := pnl.Group().Filters()
	if len(filters) != 1 || len(filters[0]) != 2 {
		t.Fatalf("expected OR row in same list, got %v", filters)
	}
	if filters[0][1].Id != "id-1" || pnl.selected != 1 {
		t.Errorf("expected new row after current, got %v selected %d", filters[0], pnl.selected)
	}

	pnl, cmd = pnl.Update(ctrl('d'))
	isChanged(t, cmd)
	pnl, cmd = pnl.Update(ctrl('d'))
	isChanged(t, cmd)

	if pnl.Group().Size() != 0 {
		t.Errorf("expected emptied list to be dropped, got %v", pnl.Group().Filters())
	}

	pnl, cmd = pnl.Update(ctrl('d'))
	if cmd != nil {
		t.Error("expected no command removing from nothing")
	}
}

func TestAddCriteriaNoColumns(t *testing.T) {
	group := criteria.FromFilters([][]nt.Filter{{{LeftCondition: "age"}}})
	pnl := newPanel(t, group).SetColumns(nil)

	_, cmd := pnl.Update(key(tea.KeyEnter))
	msg, ok := cmd().(message.ErrorMsg)
	if !ok || msg.Err != criteria.ErrNoColumns {
		t.Errorf("expected no columns error, got %#v", cmd())
	}
}

func TestEditRow(t *testing.T) {
	group := criteria.FromFilters([][]nt.Filter{
		{{LeftCondition: "name", Operator: nt.Eq, Value: "Al"}},
	})
	pnl := newPanel(t, group)

	// field
	pnl, cmd := pnl.Update(key(tea.KeyRight))
	isChanged(t, cmd)

	// operator
	pnl, _ = pnl.Update(key(tea.KeyTab))
	pnl, cmd = pnl.Update(key(tea.KeyRight))
	isChanged(t, cmd)
	pnl, _ = pnl.Update(key(tea.KeyLeft))
	pnl, _ = pnl.Update(key(tea.KeyLeft))

	// value
	pnl, _ = pnl.Update(key(tea.KeyTab))
	pnl, cmd = pnl.Update(typed("x"))
	isChanged(t, cmd)

	flt, err := pnl.editor.Filter(0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := nt.Filter{LeftCondition: "age", Operator: nt.Regex, Value: "Alx"}
	if flt != expected {
		t.Errorf("expected %+v, got %+v", expected, flt)
	}

	pnl, _ = pnl.Update(tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift})
	if pnl.field != fieldOperator {
		t.Errorf("expected shift+tab to step back, got field %d", pnl.field)
	}
	if _, cmd = pnl.Update(typed("q")); cmd != nil {
		t.Error("expected typing on operator to be ignored")
	}
}

func TestNumericWarning(t *testing.T) {
	group := criteria.FromFilters([][]nt.Filter{
		{{LeftCondition: "age", Operator: nt.Gt, Value: "abc"}},
	})
	pnl := newPanel(t, group)

	if !strings.Contains(pnl.Render(true), criteria.ErrNotNumeric.Error()) {
		t.Error("expected numeric warning")
	}
}

func TestMoveClamps(t *testing.T) {
	group := criteria.FromFilters([][]nt.Filter{
		{{LeftCondition: "age", Value: "1"}},
		{{LeftCondition: "name", Value: "2"}},
	})
	pnl := newPanel(t, group)

	pnl, _ = pnl.Update(key(tea.KeyUp))
	if pnl.selected != 0 {
		t.Errorf("expected clamp at top, got %d", pnl.selected)
	}

	pnl, _ = pnl.Update(key(tea.KeyDown))
	pnl, _ = pnl.Update(key(tea.KeyDown))
	if pnl.selected != 1 || pnl.input.Value() != "2" {
		t.Errorf("expected clamp at bottom with value loaded, got %d %q", pnl.selected, pnl.input.Value())
	}
}
