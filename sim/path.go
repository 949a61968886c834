package sim

import (
	"fmt"
	"strconv"
	"strings"
)

// Segment is one level of a hierarchical address.
// The set of addressing dimensions is small and fixed: an instance kind, an integer ID
// (e.g. the broadcasting node), a round, a step and a named sub-channel.
// Segment is comparable; equality is structural.
type Segment struct {
	Kind    string
	ID      int
	Round   int
	Step    int
	Channel string
}

// InstanceID is a Segment used to extend a Protocol's address.
type InstanceID = Segment

// SegmentOption overrides one field of a Segment.
type SegmentOption func(*Segment)

// WithKind sets the Kind field.
func WithKind(kind string) SegmentOption {
	return func(s *Segment) { s.Kind = kind }
}

// WithID sets the ID field.
func WithID(id int) SegmentOption {
	return func(s *Segment) { s.ID = id }
}

// WithRound sets the Round field.
func WithRound(round int) SegmentOption {
	return func(s *Segment) { s.Round = round }
}

// WithStep sets the Step field.
func WithStep(step int) SegmentOption {
	return func(s *Segment) { s.Step = step }
}

// WithChannel sets the Channel field.
func WithChannel(channel string) SegmentOption {
	return func(s *Segment) { s.Channel = channel }
}

// NewSegment builds a Segment from options alone.
func NewSegment(opts ...SegmentOption) Segment {
	return Segment{}.With(opts...)
}

// With returns a copy of s with opts applied. s is untouched.
func (s Segment) With(opts ...SegmentOption) Segment {
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// IsZero reports whether every field holds its zero value.
func (s Segment) IsZero() bool {
	return s == Segment{}
}

func (s Segment) String() string {
	if s.Kind == "" && s.ID == 0 && s.Round == 0 && s.Step == 0 {
		return s.Channel
	}
	var b strings.Builder
	b.WriteString(s.Kind)
	var attrs []string
	if s.ID != 0 {
		attrs = append(attrs, "id="+strconv.Itoa(s.ID))
	}
	if s.Round != 0 {
		attrs = append(attrs, "round="+strconv.Itoa(s.Round))
	}
	if s.Step != 0 {
		attrs = append(attrs, "step="+strconv.Itoa(s.Step))
	}
	if s.Channel != "" {
		attrs = append(attrs, "channel="+s.Channel)
	}
	if len(attrs) > 0 {
		b.WriteString("[" + strings.Join(attrs, ",") + "]")
	}
	return b.String()
}

// key appends the canonical encoding of s. Strings are quoted so the encoding
// of a sequence of segments is unambiguous.
func (s Segment) key(b *strings.Builder) {
	b.WriteString(strconv.Quote(s.Kind))
	fmt.Fprintf(b, ":%d:%d:%d:", s.ID, s.Round, s.Step)
	b.WriteString(strconv.Quote(s.Channel))
}

// PathKey is the canonical, comparable form of a Path.
// Two Paths have the same key if and only if they hold equal Segments in the same order.
type PathKey string

// Path is an ordered, immutable sequence of Segments.
// The zero Path is the empty path, the address above a root Protocol.
type Path struct {
	segments []Segment
}

// NewPath builds a Path from segments. The slice is copied.
func NewPath(segments ...Segment) Path {
	if len(segments) == 0 {
		return Path{}
	}
	cp := make([]Segment, len(segments))
	copy(cp, segments)
	return Path{segments: cp}
}

// Append returns a new Path with one more Segment at the end. The new Segment
// is base with opts applied; pass the zero Segment to build it from opts alone.
// The receiver is never modified.
func (p Path) Append(base Segment, opts ...SegmentOption) Path {
	segs := make([]Segment, len(p.segments)+1)
	copy(segs, p.segments)
	segs[len(p.segments)] = base.With(opts...)
	return Path{segments: segs}
}

// Channel is shorthand for appending a sub-channel Segment.
func (p Path) Channel(name string) Path {
	return p.Append(Segment{}, WithChannel(name))
}

// Len returns the number of segments.
func (p Path) Len() int {
	return len(p.segments)
}

// Segment returns the i-th segment.
func (p Path) Segment(i int) Segment {
	return p.segments[i]
}

// Segments returns a copy of the segments.
func (p Path) Segments() []Segment {
	cp := make([]Segment, len(p.segments))
	copy(cp, p.segments)
	return cp
}

// Last returns the final segment, or the zero Segment for the empty path.
func (p Path) Last() Segment {
	if len(p.segments) == 0 {
		return Segment{}
	}
	return p.segments[len(p.segments)-1]
}

// HasPrefix reports whether prefix addresses p or one of its ancestors.
func (p Path) HasPrefix(prefix Path) bool {
	if len(prefix.segments) > len(p.segments) {
		return false
	}
	for i, s := range prefix.segments {
		if p.segments[i] != s {
			return false
		}
	}
	return true
}

// Equal reports structural equality.
func (p Path) Equal(other Path) bool {
	return len(p.segments) == len(other.segments) && p.HasPrefix(other)
}

// Key returns the canonical map key of p.
func (p Path) Key() PathKey {
	var b strings.Builder
	for i, s := range p.segments {
		if i > 0 {
			b.WriteByte('/')
		}
		s.key(&b)
	}
	return PathKey(b.String())
}

func (p Path) String() string {
	if len(p.segments) == 0 {
		return "/"
	}
	var b strings.Builder
	for _, s := range p.segments {
		b.WriteByte('/')
		b.WriteString(s.String())
	}
	return b.String()
}
