package id

// Generator hands out IDs in two forms, the string form is the decimal
// (or encoded) rendering of the same sequence.
type Generator interface {
	Number() uint64
	Str() string
}

var (
	_ Generator = (*defaultID)(nil)
)

type defaultID struct {
	number func() uint64
	str    func() string
}

func (id *defaultID) Number() uint64 { return id.number() }
func (id *defaultID) Str() string    { return id.str() }

// NanoIDGen returns a new random URL-safe ID on each call.
type NanoIDGen func() string
