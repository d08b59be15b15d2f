package driver

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"templ/internal/diag"
	"templ/internal/lexer"
	"templ/internal/loader"
	"templ/internal/source"
	"templ/internal/token"
	"templ/internal/trace"
)

// TokenizeResult holds the tokens of one template.
type TokenizeResult struct {
	Name    string
	FileSet *source.FileSet
	File    *source.File // nil when the template could not be loaded
	Tokens  []*token.Token
	Bag     *diag.Bag
	Cached  bool
	// Elapsed covers loading and lexing.
	Elapsed time.Duration
}

// Tokenize resolves the first existing template among names through l and
// lexes it.
func Tokenize(ctx context.Context, l loader.Loader, names []string, opts Options) (*TokenizeResult, error) {
	start := time.Now()
	tr := trace.FromContext(ctx)
	parent := trace.CurrentSpan(ctx)

	loadSpan := trace.Begin(tr, trace.ScopePass, "load", parent)
	done := opts.track("load")
	name, content, err := loader.LoadFirst(l, names)
	done(name)
	loadSpan.End(name)
	if err != nil {
		return nil, fmt.Errorf("tokenize: %w", err)
	}

	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual(name, content))
	res := lexFile(ctx, file, opts)
	res.FileSet = fs
	res.Elapsed = time.Since(start)
	return res, nil
}

// TokenizeFile lexes the file at path. The template is named after path.
func TokenizeFile(ctx context.Context, path string, opts Options) (*TokenizeResult, error) {
	start := time.Now()
	fs := source.NewFileSet()

	done := opts.track("load")
	id, err := fs.Load(path, path, opts.NormalizeNewlines)
	done(path)
	if err != nil {
		return nil, fmt.Errorf("tokenize %s: %w", path, err)
	}

	res := lexFile(ctx, fs.Get(id), opts)
	res.FileSet = fs
	res.Elapsed = time.Since(start)
	return res, nil
}

// lexFile runs the lexer over file, going through the cache when one is set.
func lexFile(ctx context.Context, file *source.File, opts Options) *TokenizeResult {
	tr := trace.FromContext(ctx)
	span := trace.Begin(tr, trace.ScopeFile, "file:"+file.Name, trace.CurrentSpan(ctx))
	bag := diag.NewBag(opts.maxDiagnostics())
	res := &TokenizeResult{Name: file.Name, File: file, Bag: bag}

	if opts.Cache != nil {
		tokens, diags, ok, err := opts.Cache.Get(file)
		switch {
		case err != nil:
			trace.Point(tr, trace.ScopeFile, "cache-error", err.Error(), span.ID())
		case ok:
			for _, d := range diags {
				bag.Add(d)
			}
			res.Tokens = tokens
			res.Cached = true
			span.WithExtra("cached", "true").WithExtra("tokens", strconv.Itoa(len(tokens))).End("")
			return res
		}
	}

	done := opts.track("lex")
	reporter := (&lexer.ReporterAdapter{Bag: bag}).Reporter()
	res.Tokens = lexer.New(file, lexer.Options{Reporter: reporter}).Tokenize()
	done(file.Name)

	if tr.Level().ShouldEmit(trace.ScopeToken) {
		for _, tok := range res.Tokens {
			trace.Point(tr, trace.ScopeToken, tok.Kind.String(), tok.Contents, span.ID())
		}
	}

	if opts.Cache != nil {
		if err := opts.Cache.Put(file, res.Tokens, bag.Items()); err != nil {
			trace.Point(tr, trace.ScopeFile, "cache-error", err.Error(), span.ID())
		}
	}

	span.WithExtra("tokens", strconv.Itoa(len(res.Tokens))).End("")
	return res
}
