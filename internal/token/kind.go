package token

// Kind represents the category of a template token.
type Kind uint8

const (
	// Text is literal template text outside of any tag.
	Text Kind = iota
	// Variable is a {{ ... }} interpolation.
	Variable
	// Block is a {% ... %} tag.
	Block
	// Comment is a {# ... #} comment.
	Comment
)

func (k Kind) String() string {
	switch k {
	case Text:
		return "Text"
	case Variable:
		return "Variable"
	case Block:
		return "Block"
	case Comment:
		return "Comment"
	default:
		return "Unknown"
	}
}

// IsTag reports whether the kind is delimited by braces in the source.
func (k Kind) IsTag() bool {
	return k == Variable || k == Block || k == Comment
}
