// Package mode provides the mode activation engine for stagecraft.
//
// # Minor and major modes
//
// A minor mode is a composable behavior: it can render into the viewport,
// draw UI and menus, and bid for ownership of hover and drag gestures. A
// major mode is a named workspace configuration that declares which minor
// modes must be active while it is current.
//
// Concrete modes embed MinorBase or MajorBase and override what they need:
//
//	type Grid struct{ mode.MinorBase }
//
//	func (g *Grid) Name() string { return "Grid" }
//	func (g *Grid) Render(vi mode.Interaction) { ... }
//
// # Lifecycle
//
// Activate and Deactivate always set the active flag and then run the
// mode's OnActivate/OnDeactivate hook, even when the mode is already in
// that state. Callers that want idempotence check IsActive first.
//
// # Manager
//
// The Manager owns the journal, the transaction queue and every mode
// instance. Modes are registered by name with a factory and instantiated
// lazily the first time they are looked up; after that the same instance
// is shared by every caller.
//
// Major-mode switches requested with ActivateMajorMode are deferred to the
// next Update so that menu handlers and other arbitrary call sites never
// reconfigure modes mid-frame:
//
//	┌──────────────┐  Enqueue   ┌───────┐  Update  ┌─────────┐
//	│ any goroutine│ ─────────▶ │ queue │ ───────▶ │ journal │
//	└──────────────┘            └───────┘          └─────────┘
//	                 ActivateMajorMode ──▶ pending ──▶ switch on Update
//
// Everything except Enqueue must be called from the update goroutine.
//
// # Arbitration
//
// Each frame the host asks the manager to resolve hovering or dragging.
// Every active minor mode bids; the strictly highest bid above -1 wins and
// alone receives the gesture. Ties go to the mode registered first.
package mode
