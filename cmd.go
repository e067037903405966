package sifter

import (
	tea "charm.land/bubbletea/v2"

	"sifter/message"
)

// load fetches location from the source
func (m Model) load(location string) tea.Cmd {

	source, ctx := m.source, m.ctx

	return func() tea.Msg {
		result, err := source.Fetch(ctx, location)
		if err != nil {
			return message.ErrorMsg{
				Err:      err,
				Location: location,
			}
		}

		return message.LoadedMsg{
			Location: location,
			Result:   result,
		}
	}
}

// refilter runs the current criteria over the loaded records
func (m Model) refilter() Model {

	srch := m.searchCfg.New(m.result.Data, m.criteria.Group().Clone(), m.logger)
	m.filtered = srch.Search()
	m.results = m.results.SetResults(m.result.Columns, m.filtered)

	return m
}
