package styles

import "github.com/charmbracelet/lipgloss"

// Styles holds all the UI styles
type Styles struct {
	// Board
	Column             lipgloss.Style
	ColumnHeader       lipgloss.Style
	ColumnHeaderActive lipgloss.Style
	ColumnDropTarget   lipgloss.Style
	ColumnDragging     lipgloss.Style
	EmptyColumn        lipgloss.Style

	// Cards
	Card           lipgloss.Style
	CardActive     lipgloss.Style
	CardDragging   lipgloss.Style
	CardDropTarget lipgloss.Style
	CardPending    lipgloss.Style
	TaskID         lipgloss.Style
	TaskTitle      lipgloss.Style
	OrderBadge     lipgloss.Style

	// Status bar
	StatusBar  lipgloss.Style
	StatusMode lipgloss.Style
	StatusDrag lipgloss.Style
	StatusHint lipgloss.Style
	StatusInfo lipgloss.Style

	Separator lipgloss.Style

	// Toasts
	ToastInfo    lipgloss.Style
	ToastSuccess lipgloss.Style
	ToastWarning lipgloss.Style
	ToastError   lipgloss.Style

	// Full-screen states
	Loading    lipgloss.Style
	ErrorTitle lipgloss.Style
	ErrorText  lipgloss.Style
}

func cardBorder(color lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Padding(0, 1)
}

// New creates a new Styles instance with Catppuccin Macchiato theme
func New() *Styles {
	return &Styles{
		Column: lipgloss.NewStyle().
			Padding(0, 1),

		ColumnHeader: lipgloss.NewStyle().
			Foreground(Subtext0).
			Bold(true),

		ColumnHeaderActive: lipgloss.NewStyle().
			Foreground(Blue).
			Bold(true),

		ColumnDropTarget: lipgloss.NewStyle().
			Foreground(Base).
			Background(Green).
			Bold(true),

		ColumnDragging: lipgloss.NewStyle().
			Foreground(Base).
			Background(Mauve).
			Bold(true),

		EmptyColumn: lipgloss.NewStyle().
			Foreground(Overlay0).
			Italic(true),

		Card:           cardBorder(Surface1),
		CardActive:     cardBorder(Lavender),
		CardDragging:   cardBorder(Mauve).BorderStyle(lipgloss.DoubleBorder()),
		CardDropTarget: cardBorder(Green).BorderStyle(lipgloss.ThickBorder()),
		CardPending:    cardBorder(Overlay0).Foreground(Overlay1).Italic(true),

		TaskID: lipgloss.NewStyle().
			Foreground(Overlay1).
			Bold(true),

		TaskTitle: lipgloss.NewStyle().
			Foreground(Text),

		OrderBadge: lipgloss.NewStyle().
			Foreground(Subtext0).
			Background(Surface1).
			Padding(0, 1),

		StatusBar: lipgloss.NewStyle().
			Background(Surface0).
			Foreground(Subtext0).
			Padding(0, 1),

		StatusMode: lipgloss.NewStyle().
			Background(Blue).
			Foreground(Base).
			Bold(true).
			Padding(0, 1),

		StatusDrag: lipgloss.NewStyle().
			Background(Mauve).
			Foreground(Base).
			Bold(true).
			Padding(0, 1),

		StatusHint: lipgloss.NewStyle().
			Foreground(Overlay1),

		StatusInfo: lipgloss.NewStyle().
			Foreground(Subtext0),

		Separator: lipgloss.NewStyle().
			Foreground(Surface1),

		ToastInfo: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Blue).
			Foreground(Blue).
			Padding(0, 1),

		ToastSuccess: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Green).
			Foreground(Green).
			Padding(0, 1),

		ToastWarning: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Yellow).
			Foreground(Yellow).
			Padding(0, 1),

		ToastError: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Red).
			Foreground(Red).
			Padding(0, 1),

		Loading: lipgloss.NewStyle().
			Foreground(Blue).
			Padding(1, 2),

		ErrorTitle: lipgloss.NewStyle().
			Foreground(Red).
			Bold(true),

		ErrorText: lipgloss.NewStyle().
			Foreground(Subtext0),
	}
}

// Header returns the column header style, tinted with the column color
func (s *Styles) Header(color lipgloss.Color, active bool) lipgloss.Style {
	if active {
		return s.ColumnHeaderActive.Underline(true)
	}
	return s.ColumnHeader.Foreground(color)
}
