// Package token defines the lexical tokens of the template language.
// Invariants:
//   - Text tokens carry their source slice verbatim; Variable, Block and
//     Comment tokens carry the inner text without delimiters or trim markers.
//   - Only Block tokens carry a WhitespaceBehaviour other than the zero value.
//   - A Token is immutable after construction. Components are derived from
//     Contents on first use and cached; the cache is safe for concurrent use.
package token
