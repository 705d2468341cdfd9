package mode

// NoBid is the bid of a mode that does not want a gesture.
const NoBid = -1

// Mode is the capability shared by minor and major modes.
//
// Implementations embed Base (through MinorBase or MajorBase), which
// supplies the active flag and no-op hooks.
type Mode interface {
	// Name returns the mode's unique name.
	Name() string

	// IsActive reports the active flag.
	IsActive() bool

	// OnActivate runs after the flag is set by Activate.
	OnActivate()

	// OnDeactivate runs after the flag is cleared by Deactivate.
	OnDeactivate()

	// Update is called once per cycle for every instantiated mode,
	// active or not.
	Update()

	setActive(bool)
}

// Activate sets m active and runs its activation hook.
func Activate(m Mode) {
	m.setActive(true)
	m.OnActivate()
}

// Deactivate clears m's active flag and runs its deactivation hook.
func Deactivate(m Mode) {
	m.setActive(false)
	m.OnDeactivate()
}

// Base holds the active flag. Embed it (or MinorBase/MajorBase) in every
// mode.
type Base struct {
	active bool
}

// IsActive reports whether the mode is active.
func (b *Base) IsActive() bool { return b.active }

func (b *Base) setActive(v bool) { b.active = v }

// OnActivate does nothing.
func (b *Base) OnActivate() {}

// OnDeactivate does nothing.
func (b *Base) OnDeactivate() {}

// Update does nothing.
func (b *Base) Update() {}

// MinorMode is a composable behavior that renders, draws UI, and bids for
// viewport gestures.
type MinorMode interface {
	Mode

	Render(vi Interaction)
	RunUI(vi Interaction)
	Menu()
	ToolBar()

	// ViewportHoverBid returns the mode's claim on the hover gesture, or
	// NoBid.
	ViewportHoverBid(vi Interaction) int
	ViewportHovering(vi Interaction)

	// ViewportDragBid returns the mode's claim on the drag gesture, or
	// NoBid.
	ViewportDragBid(vi Interaction) int
	ViewportDragging(vi Interaction)
}

// MinorBase provides default minor-mode hooks: nothing is drawn and every
// bid is NoBid.
type MinorBase struct {
	Base
}

// Default minor-mode hooks.
func (MinorBase) Render(Interaction)               {}
func (MinorBase) RunUI(Interaction)                {}
func (MinorBase) Menu()                            {}
func (MinorBase) ToolBar()                         {}
func (MinorBase) ViewportHoverBid(Interaction) int { return NoBid }
func (MinorBase) ViewportHovering(Interaction)     {}
func (MinorBase) ViewportDragBid(Interaction) int  { return NoBid }
func (MinorBase) ViewportDragging(Interaction)     {}

// MajorMode is a workspace configuration.
type MajorMode interface {
	Mode

	// RequiredModes names the minor modes that must be active while this
	// major mode is current.
	RequiredModes() []string

	// Exclusive reports whether activating this major mode deactivates
	// active minor modes it does not require.
	Exclusive() bool
}

// MajorBase provides default major-mode behavior: no required modes and
// exclusive activation.
type MajorBase struct {
	Base
}

// Default major-mode behavior.
func (MajorBase) RequiredModes() []string { return nil }
func (MajorBase) Exclusive() bool         { return true }

// Kind distinguishes minor from major modes.
type Kind uint8

const (
	// KindMinor tags a MinorMode.
	KindMinor Kind = iota + 1
	// KindMajor tags a MajorMode.
	KindMajor
)

// String returns "minor" or "major".
func (k Kind) String() string {
	switch k {
	case KindMinor:
		return "minor"
	case KindMajor:
		return "major"
	default:
		return "unknown"
	}
}

// Ref is a resolved mode: exactly one of minor or major is set, as
// recorded by kind.
type Ref struct {
	kind  Kind
	minor MinorMode
	major MajorMode
}

func minorRef(m MinorMode) Ref { return Ref{kind: KindMinor, minor: m} }
func majorRef(m MajorMode) Ref { return Ref{kind: KindMajor, major: m} }

// Kind returns the variant tag.
func (r Ref) Kind() Kind { return r.kind }

// Mode returns the mode as its shared capability.
func (r Ref) Mode() Mode {
	switch r.kind {
	case KindMinor:
		return r.minor
	case KindMajor:
		return r.major
	default:
		return nil
	}
}

// Minor returns the minor mode, if r is one.
func (r Ref) Minor() (MinorMode, bool) { return r.minor, r.kind == KindMinor }

// Major returns the major mode, if r is one.
func (r Ref) Major() (MajorMode, bool) { return r.major, r.kind == KindMajor }
