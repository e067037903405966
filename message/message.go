package message

import (
	tea "charm.land/bubbletea/v2"

	nt "sifter/entity"
)

// ErrorMsg contains an error, with the location when a load failed
type ErrorMsg struct {
	Err      error
	Location string
}

// LoadedMsg contains a freshly loaded dataset
type LoadedMsg struct {
	Location string
	Result   nt.Result
}

// CriteriaChangedMsg signals the criteria were edited and results are stale
type CriteriaChangedMsg struct{}

// ErrorCmd returns a command reporting err
func ErrorCmd(err error) tea.Cmd {
	return func() tea.Msg {
		return ErrorMsg{Err: err}
	}
}

// CriteriaChangedCmd returns a command signalling a criteria edit
func CriteriaChangedCmd() tea.Cmd {
	return func() tea.Msg {
		return CriteriaChangedMsg{}
	}
}
