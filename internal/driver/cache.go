package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"templ/internal/diag"
	"templ/internal/source"
	"templ/internal/token"
)

// Current schema version - increment when tokenPayload format changes
const tokenCacheSchemaVersion uint16 = 1

// Digest identifies a template by name and content.
type Digest [32]byte

// CacheKey hashes name and content. A renamed template is a different entry
// because token source maps carry the name.
func CacheKey(name, content string) Digest {
	h := sha256.New()
	h.Write([]byte(name))
	h.Write([]byte{0})
	h.Write([]byte(content))
	var d Digest
	copy(d[:], h.Sum(nil))
	return d
}

// TokenCache keeps token streams on disk between runs.
// Thread-safe for concurrent access.
type TokenCache struct {
	mu  sync.RWMutex
	dir string
}

// CachedToken is the on-disk form of a token.
type CachedToken struct {
	Kind        uint8
	Contents    string
	LineContent string
	LineNumber  uint32
	Column      int
	Leading     uint8
	Trailing    uint8
	Start       uint32
	End         uint32
}

// CachedDiagnostic is the on-disk form of a lexer diagnostic. Notes are not kept.
type CachedDiagnostic struct {
	Severity uint8
	Code     uint16
	Message  string
	Start    uint32
	End      uint32
}

type tokenPayload struct {
	Schema      uint16
	Name        string
	Tokens      []CachedToken
	Diagnostics []CachedDiagnostic
}

// DefaultCacheDir returns $XDG_CACHE_HOME/app, falling back to ~/.cache/app.
func DefaultCacheDir(app string) (string, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".cache")
	}
	return filepath.Join(base, app), nil
}

// OpenTokenCache opens (creating if needed) a cache rooted at dir. An empty
// dir selects DefaultCacheDir("templ").
func OpenTokenCache(dir string) (*TokenCache, error) {
	if dir == "" {
		var err error
		if dir, err = DefaultCacheDir("templ"); err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &TokenCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *TokenCache) Dir() string {
	return c.dir
}

func (c *TokenCache) pathFor(key Digest) string {
	// подкаталог "tokens", чтобы кэш было легко чистить
	return filepath.Join(c.dir, "tokens", hex.EncodeToString(key[:])+".mp")
}

// Put stores the tokens and diagnostics of file.
func (c *TokenCache) Put(file *source.File, tokens []*token.Token, diags []diag.Diagnostic) error {
	if c == nil {
		return nil
	}
	payload := encodePayload(file.Name, tokens, diags)

	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(CacheKey(file.Name, file.Content))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("encode %s: %w", file.Name, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	// Атомарная замена
	if err := os.Rename(tmp, p); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

// Get returns the cached tokens of file. A payload written by another schema
// version or for another name is a miss.
func (c *TokenCache) Get(file *source.File) ([]*token.Token, []diag.Diagnostic, bool, error) {
	if c == nil {
		return nil, nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(CacheKey(file.Name, file.Content)))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, false, nil
		}
		return nil, nil, false, err
	}
	defer f.Close()

	var payload tokenPayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return nil, nil, false, fmt.Errorf("decode %s: %w", file.Name, err)
	}
	if payload.Schema != tokenCacheSchemaVersion || payload.Name != file.Name {
		return nil, nil, false, nil
	}
	tokens, diags, err := decodePayload(file, &payload)
	if err != nil {
		return nil, nil, false, fmt.Errorf("decode %s: %w", file.Name, err)
	}
	return tokens, diags, true, nil
}

// DropAll removes every cached entry.
func (c *TokenCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	dir := filepath.Join(c.dir, "tokens")
	old := dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return os.RemoveAll(old)
}

func encodePayload(name string, tokens []*token.Token, diags []diag.Diagnostic) *tokenPayload {
	payload := &tokenPayload{
		Schema:      tokenCacheSchemaVersion,
		Name:        name,
		Tokens:      make([]CachedToken, len(tokens)),
		Diagnostics: make([]CachedDiagnostic, len(diags)),
	}
	for i, tok := range tokens {
		loc := tok.SourceMap.Location
		payload.Tokens[i] = CachedToken{
			Kind:        uint8(tok.Kind),
			Contents:    tok.Contents,
			LineContent: loc.LineContent,
			LineNumber:  loc.LineNumber,
			Column:      loc.ColumnOffset,
			Leading:     uint8(tok.Whitespace.Leading),
			Trailing:    uint8(tok.Whitespace.Trailing),
			Start:       tok.Span.Start,
			End:         tok.Span.End,
		}
	}
	for i, d := range diags {
		payload.Diagnostics[i] = CachedDiagnostic{
			Severity: uint8(d.Severity),
			Code:     uint16(d.Code),
			Message:  d.Message,
			Start:    d.Primary.Start,
			End:      d.Primary.End,
		}
	}
	return payload
}

// decodePayload rebuilds tokens bound to file. Spans outside file or unknown
// severities mean the entry is corrupt.
func decodePayload(file *source.File, payload *tokenPayload) ([]*token.Token, []diag.Diagnostic, error) {
	size := file.Len()
	tokens := make([]*token.Token, len(payload.Tokens))
	for i, ct := range payload.Tokens {
		if ct.Start > ct.End || ct.End > size {
			return nil, nil, fmt.Errorf("token %d span %d-%d outside %d bytes", i, ct.Start, ct.End, size)
		}
		sm := source.SourceMap{
			Filename: file.Name,
			Location: source.Location{
				LineContent:  ct.LineContent,
				LineNumber:   ct.LineNumber,
				ColumnOffset: ct.Column,
			},
		}
		ws := token.WhitespaceBehaviour{
			Leading:  token.Behaviour(ct.Leading),
			Trailing: token.Behaviour(ct.Trailing),
		}
		sp := source.Span{File: file.ID, Start: ct.Start, End: ct.End}
		tokens[i] = token.New(token.Kind(ct.Kind), ct.Contents, sm, ws, sp)
	}

	diags := make([]diag.Diagnostic, len(payload.Diagnostics))
	for i, cd := range payload.Diagnostics {
		sev := diag.Severity(cd.Severity)
		if !sev.Valid() || cd.Start > cd.End || cd.End > size {
			return nil, nil, fmt.Errorf("diagnostic %d is corrupt", i)
		}
		sp := source.Span{File: file.ID, Start: cd.Start, End: cd.End}
		diags[i] = diag.New(sev, diag.Code(cd.Code), sp, cd.Message)
	}
	return tokens, diags, nil
}
