package driver

import (
	"templ/internal/observ"
)

// DefaultMaxDiagnostics caps each template's bag when Options leave it unset.
const DefaultMaxDiagnostics = 100

// DefaultExtensions select the files TokenizeDir picks up.
var DefaultExtensions = []string{".html", ".txt", ".tmpl"}

// Options configure a tokenize run.
type Options struct {
	MaxDiagnostics int
	// Jobs bounds TokenizeDir parallelism; <= 0 means GOMAXPROCS.
	Jobs int
	// Extensions filter TokenizeDir, matched case-insensitively.
	Extensions        []string
	NormalizeNewlines bool

	Cache    *TokenCache   // nil disables caching
	Progress ProgressSink  // nil disables progress events
	Timer    *observ.Timer // nil disables phase timing
}

func (o Options) maxDiagnostics() int {
	if o.MaxDiagnostics <= 0 {
		return DefaultMaxDiagnostics
	}
	return o.MaxDiagnostics
}

func (o Options) extensions() []string {
	if len(o.Extensions) == 0 {
		return DefaultExtensions
	}
	return o.Extensions
}

func (o Options) track(name string) func(note string) {
	if o.Timer == nil {
		return func(string) {}
	}
	return o.Timer.Track(name)
}

func (o Options) emit(ev Event) {
	if o.Progress != nil {
		o.Progress.OnEvent(ev)
	}
}
