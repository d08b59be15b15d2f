// Package config reads the templ.toml project manifest.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"templ/internal/loader"
)

// Config mirrors templ.toml.
type Config struct {
	Loader LoaderConfig `toml:"loader"`
	Lexer  LexerConfig  `toml:"lexer"`
	Cache  CacheConfig  `toml:"cache"`
}

type LoaderConfig struct {
	// Paths are template directories, relative to the manifest directory.
	Paths             []string `toml:"paths"`
	NormalizeNewlines bool     `toml:"normalize_newlines"`
	// Extensions select the files tokenize-dir picks up.
	Extensions []string `toml:"extensions"`
}

type LexerConfig struct {
	MaxDiagnostics int `toml:"max_diagnostics"`
}

type CacheConfig struct {
	Enabled bool `toml:"enabled"`
	// Dir overrides the cache location; empty means the user cache dir.
	Dir string `toml:"dir"`
}

// Default returns the configuration used when templ.toml is absent or a key
// is omitted.
func Default() Config {
	return Config{
		Loader: LoaderConfig{
			Paths:      []string{"templates"},
			Extensions: []string{".html", ".txt", ".tmpl"},
		},
		Lexer: LexerConfig{MaxDiagnostics: 100},
	}
}

// Manifest is a loaded templ.toml.
type Manifest struct {
	Path   string
	Root   string
	Config Config
	// Undecoded lists keys present in the file that templ does not know.
	Undecoded []string
}

// Load decodes the manifest at path on top of Default.
func Load(path string) (*Manifest, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if meta.IsDefined("loader", "paths") && len(cfg.Loader.Paths) == 0 {
		return nil, fmt.Errorf("%s: [loader].paths must not be empty", path)
	}
	for _, p := range cfg.Loader.Paths {
		if strings.TrimSpace(p) == "" {
			return nil, fmt.Errorf("%s: [loader].paths contains an empty path", path)
		}
	}
	if cfg.Lexer.MaxDiagnostics < 0 {
		return nil, fmt.Errorf("%s: [lexer].max_diagnostics must be >= 0, got %d", path, cfg.Lexer.MaxDiagnostics)
	}
	cfg.Loader.Extensions = normalizeExtensions(cfg.Loader.Extensions)

	m := &Manifest{
		Path:   path,
		Root:   filepath.Dir(path),
		Config: cfg,
	}
	for _, key := range meta.Undecoded() {
		m.Undecoded = append(m.Undecoded, key.String())
	}
	return m, nil
}

// TemplatePaths returns the loader paths resolved against the manifest directory.
func (m *Manifest) TemplatePaths() []string {
	out := make([]string, 0, len(m.Config.Loader.Paths))
	for _, p := range m.Config.Loader.Paths {
		p = filepath.FromSlash(p)
		if !filepath.IsAbs(p) {
			p = filepath.Join(m.Root, p)
		}
		out = append(out, p)
	}
	return out
}

// Loader builds the file system loader described by [loader].
func (m *Manifest) Loader() *loader.FileSystemLoader {
	return &loader.FileSystemLoader{
		Paths:             m.TemplatePaths(),
		NormalizeNewlines: m.Config.Loader.NormalizeNewlines,
	}
}

// CacheDir returns [cache].dir resolved against the manifest directory, or
// "" when unset.
func (m *Manifest) CacheDir() string {
	dir := strings.TrimSpace(m.Config.Cache.Dir)
	if dir == "" || filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(m.Root, filepath.FromSlash(dir))
}

// Write encodes cfg to path with a leading comment, refusing to overwrite.
func Write(path string, cfg Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	var buf bytes.Buffer
	buf.WriteString("# templ project manifest\n\n")
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("%s: failed to encode TOML: %w", path, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		out = append(out, strings.ToLower(ext))
	}
	return out
}
