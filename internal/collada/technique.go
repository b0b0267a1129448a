// Package collada writes COLLADA-specific constructs on top of a
// stream.StreamWriter.
package collada

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Faultbox/midgard-dae/internal/stream"
	"github.com/Faultbox/midgard-dae/pkg/math"
)

var (
	ErrTechniqueOpen   = errors.New("technique already open")
	ErrTechniqueClosed = errors.New("technique not open")
	ErrChildOpen       = errors.New("child element already open")
)

// Technique writes one <technique> element holding profile specific
// parameters. Open and Close bracket the session; child elements opened
// inside it are closed by Close if the caller did not close them.
type Technique struct {
	sw       *stream.StreamWriter
	closer   *stream.TagCloser
	children []childElement
}

type childElement struct {
	name   string
	closer *stream.TagCloser
}

// NewTechnique creates a closed technique writing to sw.
func NewTechnique(sw *stream.StreamWriter) *Technique {
	return &Technique{sw: sw}
}

// Open writes <technique profile="..."> and, when xmlns is not empty, the
// namespace of the profile.
func (t *Technique) Open(profile, xmlns string) error {
	if t.closer != nil {
		return fmt.Errorf("%w: profile %s", ErrTechniqueOpen, profile)
	}
	t.closer = t.sw.OpenElement("technique")
	t.sw.WriteAttribute("profile", profile)
	if xmlns != "" {
		t.sw.WriteAttribute("xmlns", xmlns)
	}
	return nil
}

// IsOpen reports whether the technique element is open.
func (t *Technique) IsOpen() bool {
	return t.closer != nil
}

// AddParameter writes <name>value</name> into the innermost open child
// element, or into the technique itself.
func (t *Technique) AddParameter(name, value string) error {
	if t.closer == nil {
		return fmt.Errorf("%w: parameter %s", ErrTechniqueClosed, name)
	}
	c := t.sw.OpenElement(name)
	t.sw.WriteText(value)
	c.Close()
	return nil
}

func (t *Technique) AddIntParameter(name string, value int) error {
	return t.AddParameter(name, stream.FormatInt(value))
}

func (t *Technique) AddFloatParameter(name string, value float64) error {
	return t.AddParameter(name, stream.FormatFloat(value))
}

func (t *Technique) AddBoolParameter(name string, value bool) error {
	return t.AddParameter(name, stream.FormatBool(value))
}

// AddMatrixParameter writes the 16 matrix values in row-major order.
func (t *Technique) AddMatrixParameter(name string, m math.Mat4) error {
	parts := make([]string, len(m))
	for i, v := range m {
		parts[i] = stream.FormatFloat(v)
	}
	return t.AddParameter(name, strings.Join(parts, " "))
}

// AddChildElement opens a nested element that later parameters go into.
func (t *Technique) AddChildElement(name string) error {
	if t.closer == nil {
		return fmt.Errorf("%w: child %s", ErrTechniqueClosed, name)
	}
	if t.childIndex(name) >= 0 {
		return fmt.Errorf("%w: %s", ErrChildOpen, name)
	}
	t.children = append(t.children, childElement{name: name, closer: t.sw.OpenElement(name)})
	return nil
}

// CloseChildElement closes the named child. Children opened after it are
// nested inside it and are closed too. Unknown names are ignored.
func (t *Technique) CloseChildElement(name string) {
	i := t.childIndex(name)
	if i < 0 {
		return
	}
	t.children[i].closer.Close()
	t.children = t.children[:i]
}

// Close closes open children, innermost first, then the technique.
// Closing a closed technique does nothing.
func (t *Technique) Close() {
	if t.closer == nil {
		return
	}
	for i := len(t.children) - 1; i >= 0; i-- {
		t.children[i].closer.Close()
	}
	t.children = nil

	t.closer.Close()
	t.closer = nil
}

func (t *Technique) childIndex(name string) int {
	for i, c := range t.children {
		if c.name == name {
			return i
		}
	}
	return -1
}
