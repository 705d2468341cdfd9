package mode

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/dshills/stagecraft/internal/event"
)

// ActivateMajorMode schedules a switch to the named major mode on the next
// Update. The name must resolve to a registered mode.
func (m *Manager) ActivateMajorMode(name string) error {
	if _, ok := m.FindMode(name); !ok {
		return fmt.Errorf("%q: %w", name, ErrUnknownMode)
	}
	m.pending = name
	return nil
}

func (m *Manager) activateMinor(name string, mm MinorMode) {
	m.logger.Debug("activating minor mode", zap.String("mode", name))
	Activate(mm)
	m.events.Publish(event.TopicMinorActivated, eventSource, name)
}

func (m *Manager) deactivateMinor(name string, mm MinorMode) {
	m.logger.Debug("deactivating minor mode", zap.String("mode", name))
	Deactivate(mm)
	m.events.Publish(event.TopicMinorDeactivated, eventSource, name)
}

// requiredSet de-duplicates names into sorted order.
func requiredSet(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out
}

func (m *Manager) activateMajor(name string) {
	ref, ok := m.FindMode(name)
	if !ok {
		m.logger.Error("could not find major mode", zap.String("mode", name))
		return
	}
	major, ok := ref.Major()
	if !ok {
		m.logger.Warn("ignoring activation of non-major mode", zap.String("mode", name))
		return
	}

	if m.current != nil {
		if m.current == major {
			return
		}
		m.deactivateMajor(m.currentName)
	}

	m.current = major
	m.currentName = name

	required := requiredSet(major.RequiredModes())
	if major.Exclusive() {
		keep := make(map[string]bool, len(required))
		for _, n := range required {
			keep[n] = true
		}
		for _, n := range m.minorNames {
			mm, ok := m.minors[n]
			if ok && mm.IsActive() && !keep[n] {
				m.deactivateMinor(n, mm)
			}
		}
	}

	for _, n := range required {
		m.activateRequired(name, n)
	}

	m.logger.Info("activated major mode", zap.String("mode", name))
	Activate(major)
	m.events.Publish(event.TopicMajorActivated, eventSource, name)
}

// activateRequired activates one required minor mode of a major mode. An
// unresolvable name is logged and skipped.
func (m *Manager) activateRequired(major, name string) {
	ref, ok := m.FindMode(name)
	if !ok {
		m.logger.Error("could not find minor mode",
			zap.String("mode", name),
			zap.String("major", major))
		return
	}
	mm, ok := ref.Minor()
	if !ok {
		m.logger.Error("required mode is not a minor mode",
			zap.String("mode", name),
			zap.String("major", major))
		return
	}
	m.activateMinor(name, mm)
}

func (m *Manager) deactivateMajor(name string) {
	ref, ok := m.FindMode(name)
	if !ok {
		return
	}
	major, ok := ref.Major()
	if !ok {
		return
	}

	if m.current == major {
		m.current = nil
		m.currentName = ""
	}

	// NOTE: the required minor modes are activated here, not deactivated.
	// Exclusive majors clean up on their own activation; non-exclusive
	// switches inherit the previous set.
	for _, n := range major.RequiredModes() {
		m.activateRequired(name, n)
	}

	m.logger.Info("deactivated major mode", zap.String("mode", name))
	Deactivate(major)
	m.events.Publish(event.TopicMajorDeactivated, eventSource, name)
}
