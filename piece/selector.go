package piece

// Selector cycles through a list of options
type Selector struct {
	options  []string
	selected int
}

// NewSelector selects current among options, or nothing when absent
func NewSelector(options []string, current string) Selector {
	sel := Selector{options: options, selected: -1}
	for i, opt := range options {
		if opt == current {
			sel.selected = i
			break
		}
	}
	return sel
}

// Next moves to the following option, wrapping around
func (s Selector) Next() Selector {
	if len(s.options) == 0 {
		return s
	}
	s.selected = (s.selected + 1) % len(s.options)
	return s
}

// Prev moves to the preceding option, wrapping around
func (s Selector) Prev() Selector {
	if len(s.options) == 0 {
		return s
	}
	if s.selected <= 0 {
		s.selected = len(s.options)
	}
	s.selected--
	return s
}

func (s Selector) Selected() (string, bool) {
	if s.selected < 0 || s.selected >= len(s.options) {
		return "", false
	}
	return s.options[s.selected], true
}

func (s Selector) SelectedIndex() int {
	return s.selected
}
