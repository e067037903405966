// Package detail provides the full record view.
package detail

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	json "github.com/goccy/go-json"

	nt "sifter/entity"
	"sifter/style"
)

// DetailPanel shows one record as indented json
type DetailPanel struct {
	record       nt.Record
	contentLines []string // Rendered content split into lines

	width  int
	height int
	offset int // Line offset for scrolling content
}

// SetRecord replaces the record shown and scrolls to the top
func (pnl DetailPanel) SetRecord(rec nt.Record) DetailPanel {
	pnl.record = rec
	pnl.contentLines = contentLines(rec)
	pnl.offset = 0
	return pnl
}

// SetSize sets the space available to Render
func (pnl DetailPanel) SetSize(width, height int) DetailPanel {
	pnl.width = width
	pnl.height = height
	pnl.offset = min(pnl.offset, pnl.maxOffset())
	return pnl
}

func (pnl DetailPanel) Update(msg tea.KeyPressMsg) DetailPanel {

	switch msg.String() {
	case "up", "k":
		if pnl.offset > 0 {
			pnl.offset--
		}

	case "down", "j":
		if pnl.offset < pnl.maxOffset() {
			pnl.offset++
		}

	case "pgup", "ctrl+u":
		pnl.offset = max(pnl.offset-pnl.height, 0)

	case "pgdown", "ctrl+d":
		pnl.offset = min(pnl.offset+pnl.height, pnl.maxOffset())
	}

	return pnl
}

// Render renders the visible portion of the record
func (pnl DetailPanel) Render() string {
	if pnl.contentLines == nil {
		return style.MutedStyle.Render("No record selected")
	}

	visibleLines := pnl.contentLines[pnl.offset:]
	if pnl.height > 0 && len(visibleLines) > pnl.height {
		visibleLines = visibleLines[:pnl.height]
	}

	return strings.Join(visibleLines, "\n")
}

// unexported

func (pnl DetailPanel) maxOffset() int {
	if pnl.height <= 0 {
		return 0
	}
	return max(len(pnl.contentLines)-pnl.height, 0)
}

func contentLines(rec nt.Record) []string {

	if rec == nil {
		return nil
	}

	data, err := json.MarshalIndentWithOption(expandJson(rec), "", "  ", json.DisableHTMLEscape())
	if err != nil {
		return []string{"Error pretty-printing record: " + err.Error()}
	}

	return strings.Split(string(data), "\n")
}

// expandJson copies rec, decoding string values that hold a json object or array
func expandJson(rec nt.Record) nt.Record {

	expanded := make(nt.Record, len(rec))
	for key, val := range rec {
		expanded[key] = val

		str, ok := val.(string)
		if !ok {
			continue
		}

		trimmed := strings.TrimSpace(str)
		if !strings.HasPrefix(trimmed, "{") && !strings.HasPrefix(trimmed, "[") {
			continue
		}

		var parsed any
		if json.Unmarshal([]byte(trimmed), &parsed) == nil {
			expanded[key] = parsed
		}
		// If parsing fails, keep original string value
	}

	return expanded
}
