package testkit

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"templ/internal/source"
	"templ/internal/token"
)

// CheckTokenInvariants runs the structural checks every token stream of file
// must pass:
// 1) spans belong to file and tile its content in order, without gaps
// 2) text tokens carry exactly the text their span covers, or nothing for an
// unterminated tag
// 3) tag tokens start with an opening brace in the source
func CheckTokenInvariants(file *source.File, tokens []*token.Token) error {
	if file == nil {
		return fmt.Errorf("nil file")
	}
	lenContent, err := safecast.Conv[uint32](len(file.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}

	var prev uint32
	for i, tok := range tokens {
		if tok == nil {
			return fmt.Errorf("token %d is nil", i)
		}
		sp := tok.Span
		if sp.File != file.ID {
			return fmt.Errorf("token %d span points to different file id: got=%d want=%d", i, sp.File, file.ID)
		}
		if sp.Start != prev {
			return fmt.Errorf("token %d span %v does not start at %d", i, sp, prev)
		}
		if sp.End <= sp.Start {
			return fmt.Errorf("token %d has an empty span %v", i, sp)
		}
		if sp.End > lenContent {
			return fmt.Errorf("token %d span end beyond content: %d > %d", i, sp.End, lenContent)
		}

		raw := file.Text(sp)
		switch {
		case tok.Kind == token.Text && tok.Contents == "":
			if !strings.HasPrefix(raw, "{") {
				return fmt.Errorf("token %d: empty text token over %q", i, raw)
			}
		case tok.Kind == token.Text:
			if tok.Contents != raw {
				return fmt.Errorf("token %d: text %q differs from source %q", i, tok.Contents, raw)
			}
		case tok.Kind.IsTag():
			if !strings.HasPrefix(raw, "{") {
				return fmt.Errorf("token %d: %s tag over %q", i, tok.Kind, raw)
			}
		default:
			return fmt.Errorf("token %d has unknown kind %v", i, tok.Kind)
		}
		prev = sp.End
	}

	if prev != lenContent {
		return fmt.Errorf("tokens cover %d of %d bytes", prev, lenContent)
	}
	return nil
}
