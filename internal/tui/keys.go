package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up, Down, Left, Right key.Binding

	NextHandle                            key.Binding
	DragLeft, DragDown, DragUp, DragRight key.Binding
	RotateCW, RotateCCW                   key.Binding

	CycleKind    key.Binding
	InsertVertex key.Binding
	RemoveVertex key.Binding
	Restore      key.Binding
	Frame        key.Binding
	Interp       key.Binding

	Help key.Binding
	Quit key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up:    key.NewBinding(key.WithKeys("up"), key.WithHelp("↑↓←→", "move")),
		Down:  key.NewBinding(key.WithKeys("down")),
		Left:  key.NewBinding(key.WithKeys("left")),
		Right: key.NewBinding(key.WithKeys("right")),

		NextHandle: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next handle")),
		DragLeft:   key.NewBinding(key.WithKeys("h"), key.WithHelp("hjkl", "drag handle")),
		DragDown:   key.NewBinding(key.WithKeys("j")),
		DragUp:     key.NewBinding(key.WithKeys("k")),
		DragRight:  key.NewBinding(key.WithKeys("l")),
		RotateCW:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r/R", "rotate")),
		RotateCCW:  key.NewBinding(key.WithKeys("R")),

		CycleKind:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "shape")),
		InsertVertex: key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "insert vertex")),
		RemoveVertex: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "remove vertex")),
		Restore:      key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "restore")),
		Frame:        key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "frame")),
		Interp:       key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "interpolation")),

		Help: key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.NextHandle, k.DragLeft, k.RotateCW, k.CycleKind, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.NextHandle, k.DragLeft, k.RotateCW},
		{k.CycleKind, k.InsertVertex, k.RemoveVertex, k.Restore},
		{k.Frame, k.Interp, k.Help, k.Quit},
	}
}
