package mode

import "sync/atomic"

var canonical atomic.Pointer[Manager]

// SetCanonical installs m as the process-wide manager. The host that
// creates the manager calls this once at startup and SetCanonical(nil) at
// shutdown; nothing else should.
func SetCanonical(m *Manager) {
	canonical.Store(m)
}

// Canonical returns the process-wide manager, or nil if none is installed.
// Prefer passing the manager explicitly.
func Canonical() *Manager {
	return canonical.Load()
}
