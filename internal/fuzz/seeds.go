package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB, ограничение для тестового корпуса
)

// inlineSeeds cover every delimiter, trim markers and degraded input.
var inlineSeeds = []string{
	"",
	"plain text",
	"{{ name }}",
	"{% if user.is_admin -%}\n  hi\n{%- endif %}",
	"{# note #}",
	"{%}",
	"{{}}",
	"hi {% if x",
	"{{ '{' }}",
	"{{{ x }}}",
	"a\r\nb\u2028{{ c }}",
	"{% for x in xs|slice:\":2\" %}{{ x }}{% endfor %}",
	"{% include \"a b.html\" with x=(1, 2) %}",
}

func addCorpusSeeds(f *testing.F) {
	for _, seed := range inlineSeeds {
		f.Add([]byte(seed))
	}
	addTestdataSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata", "templates")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем все шаблоны
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() {
			return nil
		}
		switch filepath.Ext(path) {
		case ".html", ".txt", ".tmpl":
		default:
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) > maxSeedBytes {
		src = src[:maxSeedBytes]
	}
	return append([]byte(nil), src...)
}
