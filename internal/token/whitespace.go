package token

// Behaviour is the whitespace directive for one side of a block tag.
type Behaviour uint8

const (
	// Unspecified leaves the decision to the renderer.
	Unspecified Behaviour = iota
	// Trim removes whitespace on that side of the tag ("-").
	Trim
	// Keep preserves whitespace on that side of the tag ("+").
	Keep
)

func (b Behaviour) String() string {
	switch b {
	case Trim:
		return "trim"
	case Keep:
		return "keep"
	default:
		return "unspecified"
	}
}

// BehaviourFor maps a trim marker rune to its behaviour.
func BehaviourFor(r rune) Behaviour {
	switch r {
	case '+':
		return Keep
	case '-':
		return Trim
	default:
		return Unspecified
	}
}

// WhitespaceBehaviour holds the leading and trailing directives of a block tag.
// The zero value is unspecified on both sides.
type WhitespaceBehaviour struct {
	Leading  Behaviour
	Trailing Behaviour
}

// IsUnspecified reports whether neither side carries a marker.
func (w WhitespaceBehaviour) IsUnspecified() bool {
	return w.Leading == Unspecified && w.Trailing == Unspecified
}

func (w WhitespaceBehaviour) String() string {
	return w.Leading.String() + "," + w.Trailing.String()
}
