package editor

// Point is a position in viewport coordinates.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Size is a width/height pair in viewport coordinates.
type Size struct {
	W int `json:"w"`
	H int `json:"h"`
}

// Surface is the injected text-editing capability a Controller drives.
// The surface's text is the source of truth for block content; non-interactive
// (e.g. test) surfaces can substitute for a real UI widget.
type Surface interface {
	GetText() string
	SetText(text string)
	CaretScreenPosition() Point
}

// Navigator receives imperative focus commands from a Controller.
type Navigator interface {
	FocusBlock(blockID string)
}

// KeyEvent is a key press as reported by the surface.
type KeyEvent struct {
	Key   string // "Enter", "Backspace", "Escape", "Tab", "ArrowDown", ... or a literal character
	Shift bool
	Ctrl  bool
	Alt   bool
	Meta  bool
}

func (k KeyEvent) modified() bool { return k.Shift || k.Ctrl || k.Alt || k.Meta }
