package criteria

import (
	"regexp"

	"github.com/pkg/errors"
	uuid "github.com/satori/go.uuid"

	nt "sifter/entity"
)

var (
	// ErrNotFound is returned when a list or filter index does not exist.
	ErrNotFound = errors.New("not found")
	// ErrNoColumns is returned when a filter cannot be seeded with a column.
	ErrNoColumns = errors.New("no columns available to create new filter")
	// ErrNotNumeric flags a comparison value that will never match numerically.
	ErrNotNumeric = errors.New("value must be numeric")
)

var numericLike = regexp.MustCompile(`^-?\d*\.?\d*$`)

// NewId returns a fresh filter id.
func NewId() string {
	return uuid.NewV4().String()
}

// CheckValue warns when a GT or LT value does not look like a number.
func CheckValue(op nt.Operator, value string) error {
	if (op == nt.Gt || op == nt.Lt) && !numericLike.MatchString(value) {
		return ErrNotNumeric
	}
	return nil
}

// Editor performs the structural edits a criteria builder offers.
// New filters are seeded with the first column and Eq.
type Editor struct {
	Group   *Group
	Columns []string
	NewId   func() string
}

// NewEditor creates an editor over group.
func NewEditor(group *Group, columns []string) *Editor {
	if group == nil {
		group = &Group{}
	}
	return &Editor{
		Group:   group,
		Columns: columns,
		NewId:   NewId,
	}
}

// AddGroup appends a new OR-group holding one blank filter.
func (ed *Editor) AddGroup() {

	field := ""
	if len(ed.Columns) > 0 {
		field = ed.Columns[0]
	}

	ed.Group.Add(NewList(ed.blank(field)))
}

// AddCriteria inserts a blank filter right after index in list listIdx.
func (ed *Editor) AddCriteria(listIdx, index int) (err error) {

	if len(ed.Columns) == 0 {
		err = ErrNoColumns
		return
	}

	list, err := ed.list(listIdx)
	if err != nil {
		return
	}

	list.Insert(index, ed.blank(ed.Columns[0]))
	ed.Group.Set(listIdx, list)
	return
}

// RemoveCriteria deletes a filter, dropping its list once empty.
func (ed *Editor) RemoveCriteria(listIdx, index int) (err error) {

	list, err := ed.list(listIdx)
	if err != nil {
		return
	}

	list.Remove(index)
	ed.Group.Set(listIdx, list)

	if list.Size() == 0 {
		ed.Group.Remove(listIdx)
	}
	return
}

// ChangeLeftCondition sets the field of a filter.
func (ed *Editor) ChangeLeftCondition(listIdx, index int, field string) error {
	return ed.update(listIdx, index, func(flt *nt.Filter) {
		flt.LeftCondition = field
	})
}

// ChangeOperator sets the operator of a filter.
func (ed *Editor) ChangeOperator(listIdx, index int, op nt.Operator) error {
	return ed.update(listIdx, index, func(flt *nt.Filter) {
		flt.Operator = op
	})
}

// ChangeValue sets the comparison value of a filter.
func (ed *Editor) ChangeValue(listIdx, index int, value string) error {
	return ed.update(listIdx, index, func(flt *nt.Filter) {
		flt.Value = value
	})
}

// Filter returns the filter at listIdx, index.
func (ed *Editor) Filter(listIdx, index int) (flt nt.Filter, err error) {

	list, err := ed.list(listIdx)
	if err != nil {
		return
	}

	flt, ok := list.Get(index)
	if !ok {
		err = errors.Wrapf(ErrNotFound, "filter at index %d", index)
	}
	return
}

// unexported

func (ed *Editor) blank(field string) nt.Filter {
	return nt.Filter{
		Id:            ed.NewId(),
		LeftCondition: field,
		Operator:      nt.Eq,
	}
}

func (ed *Editor) list(listIdx int) (list *List, err error) {

	list, ok := ed.Group.Get(listIdx)
	if !ok || list == nil {
		err = errors.Wrapf(ErrNotFound, "criteria list at index %d", listIdx)
	}
	return
}

func (ed *Editor) update(listIdx, index int, change func(*nt.Filter)) (err error) {

	flt, err := ed.Filter(listIdx, index)
	if err != nil {
		return
	}

	change(&flt)

	list, _ := ed.list(listIdx)
	list.Set(index, flt)
	ed.Group.Set(listIdx, list)
	return
}
