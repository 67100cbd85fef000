package pullview

import "github.com/gdamore/tcell/v3"

// Primitive is anything the Application can lay out, draw and send events to.
// Handlers do not touch the application directly; they return a Command.
type Primitive interface {
	// Draw renders the primitive inside its rect.
	Draw(screen tcell.Screen)

	GetRect() (int, int, int, int)
	SetRect(x, y, width, height int)

	// InputHandler receives key events while the primitive has focus.
	InputHandler(event *tcell.EventKey) Command
	// MouseHandler receives mouse actions. A non-nil capture primitive gets
	// every following action until a handler returns nil again, so a drag
	// keeps reaching the PullList after the pointer leaves it.
	MouseHandler(action MouseAction, event *tcell.EventMouse) (capture Primitive, cmd Command)
	// PasteHandler receives bracketed paste text while the primitive has focus.
	PasteHandler(text string) Command

	// HasFocus also reports true when a child has focus.
	HasFocus() bool
	// Focus is called when the primitive gains focus. It may hand the focus
	// on to a child through delegate.
	Focus(delegate func(p Primitive))
	Blur()

	// IsDirty reports whether the primitive changed since it was last drawn.
	IsDirty() bool
	MarkClean()
}
