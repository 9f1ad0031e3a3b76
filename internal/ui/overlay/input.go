package overlay

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// AddCardMsg is emitted when the AddCard form is submitted
type AddCardMsg struct {
	StageID string
	Title   string
}

// AddColumnMsg is emitted when the AddColumn form is submitted
type AddColumnMsg struct {
	Name string
}

// InputOverlay is a single-field form
type InputOverlay struct {
	title  string
	label  string
	input  textinput.Model
	submit func(value string) tea.Msg
	err    string
	styles *Styles
}

func newInputOverlay(title, label, placeholder string, submit func(string) tea.Msg) *InputOverlay {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Focus()
	ti.CharLimit = 200
	ti.Width = 48

	return &InputOverlay{
		title:  title,
		label:  label,
		input:  ti,
		submit: submit,
		styles: New(),
	}
}

// NewAddCardOverlay asks for the title of a card appended to stageID
func NewAddCardOverlay(stageID, stageName string) *InputOverlay {
	return newInputOverlay("Add card to "+stageName, "Title:", "Work item title...", func(v string) tea.Msg {
		return AddCardMsg{StageID: stageID, Title: v}
	})
}

// NewAddColumnOverlay asks for the name of a new stage
func NewAddColumnOverlay() *InputOverlay {
	return newInputOverlay("Add column", "Name:", "Stage name...", func(v string) tea.Msg {
		return AddColumnMsg{Name: v}
	})
}

// Init initializes the overlay
func (o *InputOverlay) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (o *InputOverlay) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			return o, closeOverlay
		case "enter":
			value := strings.TrimSpace(o.input.Value())
			if value == "" {
				o.err = "cannot be empty"
				return o, nil
			}
			submitted := o.submit(value)
			return o, tea.Batch(closeOverlay, func() tea.Msg { return submitted })
		}
	}

	o.err = ""
	var cmd tea.Cmd
	o.input, cmd = o.input.Update(msg)
	return o, cmd
}

// View renders the form
func (o *InputOverlay) View() string {
	var b strings.Builder
	b.WriteString(o.styles.Label.Render(o.label))
	b.WriteString(" ")
	b.WriteString(o.input.View())
	if o.err != "" {
		b.WriteString("\n")
		b.WriteString(o.styles.Error.Render(o.err))
	}
	b.WriteString("\n")
	b.WriteString(o.styles.Footer.Render(
		o.styles.MenuKey.Render("Enter") + " create • " + o.styles.MenuKey.Render("Esc") + " cancel"))
	return b.String()
}

// Title returns the overlay title
func (o *InputOverlay) Title() string {
	return o.title
}

// Size returns the overlay dimensions
func (o *InputOverlay) Size() (width, height int) {
	return 64, 8
}
