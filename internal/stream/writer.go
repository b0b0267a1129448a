// Package stream writes XML documents element by element.
//
// Elements are opened and closed explicitly, attributes are attached to
// the most recently opened start tag until content is written, and every
// I/O error is kept so callers can check once at the end.
package stream

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	ErrAttributeAfterContent = errors.New("attribute written after element content")
	ErrNoOpenElement         = errors.New("no open element")
)

// StreamWriter emits an XML document in call order.
// It is not safe for concurrent use.
type StreamWriter struct {
	enc     *xml.Encoder
	pending *xml.StartElement
	stack   []openElement
	serial  uint64
	err     error
}

type openElement struct {
	name   string
	serial uint64
}

// Option configures a StreamWriter.
type Option func(*StreamWriter)

// WithIndent indents nested elements the way xml.Encoder.Indent does.
func WithIndent(prefix, indent string) Option {
	return func(s *StreamWriter) {
		s.enc.Indent(prefix, indent)
	}
}

// NewStreamWriter creates a writer that writes to w.
func NewStreamWriter(w io.Writer, opts ...Option) *StreamWriter {
	s := &StreamWriter{enc: xml.NewEncoder(w)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StartDocument writes the XML declaration. It must precede every element.
func (s *StreamWriter) StartDocument() {
	s.encode(xml.ProcInst{Target: "xml", Inst: []byte(`version="1.0" encoding="utf-8"`)})
}

// EndDocument closes every open element and flushes the output.
func (s *StreamWriter) EndDocument() error {
	for len(s.stack) > 0 {
		s.CloseElement()
	}
	return s.Flush()
}

// OpenElement starts a new element nested in the current one. The start
// tag is written once content follows, so attributes may still be added.
func (s *StreamWriter) OpenElement(name string) *TagCloser {
	s.flushPending()

	s.serial++
	s.pending = &xml.StartElement{Name: xml.Name{Local: name}}
	s.stack = append(s.stack, openElement{name: name, serial: s.serial})

	return &TagCloser{w: s, depth: len(s.stack), serial: s.serial}
}

// WriteAttribute adds an attribute to the start tag opened last.
func (s *StreamWriter) WriteAttribute(name, value string) {
	if s.err != nil {
		return
	}
	if s.pending == nil {
		s.err = fmt.Errorf("%w: %s", ErrAttributeAfterContent, name)
		return
	}
	s.pending.Attr = append(s.pending.Attr, xml.Attr{Name: xml.Name{Local: name}, Value: value})
}

// WriteText writes escaped character data into the current element.
func (s *StreamWriter) WriteText(text string) {
	if s.err == nil && len(s.stack) == 0 {
		s.err = ErrNoOpenElement
		return
	}
	s.flushPending()
	s.encode(xml.CharData(text))
}

// WriteValues writes a space separated list of numbers.
func (s *StreamWriter) WriteValues(values ...float64) {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = FormatFloat(v)
	}
	s.WriteText(strings.Join(parts, " "))
}

// WriteInts writes a space separated list of integers.
func (s *StreamWriter) WriteInts(values ...int) {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = FormatInt(v)
	}
	s.WriteText(strings.Join(parts, " "))
}

// CloseElement closes the innermost open element. It does nothing when
// no element is open.
func (s *StreamWriter) CloseElement() {
	if len(s.stack) == 0 {
		return
	}
	s.flushPending()

	top := s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	s.encode(xml.EndElement{Name: xml.Name{Local: top.name}})
}

// Depth returns the number of open elements.
func (s *StreamWriter) Depth() int {
	return len(s.stack)
}

// Flush writes buffered output and returns the first error seen.
func (s *StreamWriter) Flush() error {
	s.flushPending()
	if s.err == nil {
		s.err = s.enc.Flush()
	}
	return s.err
}

// Err returns the first error seen by the writer.
func (s *StreamWriter) Err() error {
	return s.err
}

func (s *StreamWriter) flushPending() {
	if s.pending == nil {
		return
	}
	start := *s.pending
	s.pending = nil
	s.encode(start)
}

func (s *StreamWriter) encode(tok xml.Token) {
	if s.err != nil {
		return
	}
	if err := s.enc.EncodeToken(tok); err != nil {
		s.err = err
	}
}

// TagCloser closes one element opened by OpenElement.
type TagCloser struct {
	w      *StreamWriter
	depth  int
	serial uint64
}

// Close closes the element and every element opened inside it that is
// still open. Calls after the first, or after the element was closed
// some other way, do nothing.
func (c *TagCloser) Close() {
	if c == nil || c.w == nil {
		return
	}
	w := c.w
	c.w = nil

	if len(w.stack) < c.depth || w.stack[c.depth-1].serial != c.serial {
		return
	}
	for len(w.stack) >= c.depth {
		w.CloseElement()
	}
}
