package mode

// ViewDimensions describes the host viewport and the render window within
// it.
type ViewDimensions struct {
	// Width and Height are the full view size.
	Width, Height float32

	// WindowX, WindowY, WindowWidth and WindowHeight locate the render
	// window inside the view.
	WindowX, WindowY          float32
	WindowWidth, WindowHeight float32
}

// Contains reports whether a window-relative point lies inside the render
// window.
func (v ViewDimensions) Contains(x, y float32) bool {
	return x >= 0 && y >= 0 && x < v.WindowWidth && y < v.WindowHeight
}

// Interaction is the per-frame input snapshot handed to minor modes.
type Interaction struct {
	View ViewDimensions

	// X and Y are the pointer position relative to the render window.
	X, Y float32

	// DT is the elapsed time since the previous frame, in seconds.
	DT float32

	// Start and End flag the first and last frame of a drag gesture.
	Start, End bool
}
