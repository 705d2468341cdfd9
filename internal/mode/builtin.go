package mode

import (
	"fmt"
	"slices"
)

// EmptyMajor is the fallback major mode. It requires nothing.
type EmptyMajor struct {
	MajorBase
}

// Name returns EmptyModeName.
func (*EmptyMajor) Name() string { return EmptyModeName }

// Spec describes a major mode as data.
type Spec struct {
	Name      string
	Requires  []string
	Exclusive bool
}

// DeclaredMajor is a major mode defined by a Spec, typically loaded from
// configuration.
type DeclaredMajor struct {
	MajorBase
	spec Spec
}

// NewDeclaredMajor creates a major mode from spec.
func NewDeclaredMajor(spec Spec) *DeclaredMajor {
	spec.Requires = slices.Clone(spec.Requires)
	return &DeclaredMajor{spec: spec}
}

// Name returns the spec's name.
func (d *DeclaredMajor) Name() string { return d.spec.Name }

// RequiredModes returns the spec's required minor modes.
func (d *DeclaredMajor) RequiredModes() []string { return slices.Clone(d.spec.Requires) }

// Exclusive returns the spec's exclusive flag.
func (d *DeclaredMajor) Exclusive() bool { return d.spec.Exclusive }

// Reconfigure replaces the spec. The name cannot change. A change to the
// current major mode takes effect the next time it is activated.
func (d *DeclaredMajor) Reconfigure(spec Spec) error {
	if spec.Name != d.spec.Name {
		return fmt.Errorf("cannot rename declared mode %q to %q", d.spec.Name, spec.Name)
	}
	d.spec.Requires = slices.Clone(spec.Requires)
	d.spec.Exclusive = spec.Exclusive
	return nil
}

// Declare registers a major mode described by spec. Declaring a name that
// was declared before updates it, including a live instance.
func (m *Manager) Declare(spec Spec) error {
	if spec.Name == "" {
		return ErrEmptyName
	}
	factory := func() MajorMode { return NewDeclaredMajor(spec) }

	if !m.declared[spec.Name] {
		if err := m.RegisterMajorMode(spec.Name, factory); err != nil {
			return err
		}
		m.declared[spec.Name] = true
		return nil
	}

	m.majorFactories[spec.Name] = factory
	if live, ok := m.majors[spec.Name].(*DeclaredMajor); ok {
		return live.Reconfigure(spec)
	}
	return nil
}
