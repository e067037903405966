package piece

import (
	tea "charm.land/bubbletea/v2"

	"sifter/style"
)

// TextInput is an editable text field
type TextInput struct {
	value     []rune
	cursor    int
	maxLength int
}

func NewTextInput(value string, maxLength int) TextInput {
	if maxLength <= 0 {
		maxLength = 100 // Default max length
	}
	runes := []rune(value)
	return TextInput{
		value:     runes,
		cursor:    len(runes),
		maxLength: maxLength,
	}
}

// Update applies a key press, reporting whether the value changed
func (t TextInput) Update(msg tea.KeyPressMsg) (TextInput, bool) {
	old := string(t.value)

	switch msg.String() {
	case "backspace":
		if t.cursor > 0 {
			t.value = append(t.value[:t.cursor-1:t.cursor-1], t.value[t.cursor:]...)
			t.cursor--
		}
	case "delete":
		if t.cursor < len(t.value) {
			t.value = append(t.value[:t.cursor:t.cursor], t.value[t.cursor+1:]...)
		}
	case "left":
		if t.cursor > 0 {
			t.cursor--
		}
	case "right":
		if t.cursor < len(t.value) {
			t.cursor++
		}
	case "home", "ctrl+a":
		t.cursor = 0
	case "end", "ctrl+e":
		t.cursor = len(t.value)
	default:
		text := []rune(msg.Text)
		if len(text) > 0 && len(t.value)+len(text) <= t.maxLength {
			grown := make([]rune, 0, len(t.value)+len(text))
			grown = append(grown, t.value[:t.cursor]...)
			grown = append(grown, text...)
			t.value = append(grown, t.value[t.cursor:]...)
			t.cursor += len(text)
		}
	}

	return t, string(t.value) != old
}

func (t TextInput) Value() string {
	return string(t.value)
}

func (t TextInput) Cursor() int {
	return t.cursor
}

// Render shows the value, with the cursor when focused
func (t TextInput) Render(focused bool) string {
	if !focused {
		return string(t.value)
	}

	if t.cursor >= len(t.value) {
		return string(t.value) + style.CursorStyle.Render(" ")
	}
	return string(t.value[:t.cursor]) +
		style.CursorStyle.Render(string(t.value[t.cursor])) +
		string(t.value[t.cursor+1:])
}
