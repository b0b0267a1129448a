// Package idlist issues document-unique element identifiers.
package idlist

import (
	"strconv"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Registry remembers every identifier issued for one document.
// It is not safe for concurrent use.
type Registry struct {
	issued map[string]struct{}
	next   map[string]int
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		issued: make(map[string]struct{}),
		next:   make(map[string]int),
	}
}

// Register returns a valid identifier derived from candidate that has not
// been issued before, and records it.
func (r *Registry) Register(candidate string) string {
	base := Sanitize(candidate)
	if base == "" {
		base = "_" + uuid.NewString()
	}

	id := base
	if _, taken := r.issued[id]; taken {
		n := r.next[base]
		for {
			n++
			id = base + "_" + strconv.Itoa(n)
			if _, taken := r.issued[id]; !taken {
				break
			}
		}
		r.next[base] = n
	}

	r.issued[id] = struct{}{}
	return id
}

// Contains reports whether id was issued.
func (r *Registry) Contains(id string) bool {
	_, ok := r.issued[id]
	return ok
}

// Len returns the number of issued identifiers.
func (r *Registry) Len() int {
	return len(r.issued)
}

// Reset forgets every issued identifier.
func (r *Registry) Reset() {
	clear(r.issued)
	clear(r.next)
}

// Sanitize maps candidate onto the identifier grammar: accents are
// stripped, characters that are not XML name characters become '_', and
// a leading character that cannot start a name is prefixed with '_'.
func Sanitize(candidate string) string {
	if candidate == "" {
		return ""
	}

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	s, _, err := transform.String(t, candidate)
	if err != nil {
		s = candidate
	}

	out := make([]rune, 0, len(s)+1)
	for i, c := range []rune(s) {
		if !isNameRune(c) {
			c = '_'
		}
		if i == 0 && !isStartRune(c) {
			out = append(out, '_')
		}
		out = append(out, c)
	}
	return string(out)
}

// IsValid reports whether id already satisfies the identifier grammar.
func IsValid(id string) bool {
	if id == "" {
		return false
	}
	for i, c := range id {
		if i == 0 && !isStartRune(c) {
			return false
		}
		if !isNameRune(c) {
			return false
		}
	}
	return true
}
