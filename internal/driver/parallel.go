package driver

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"templ/internal/diag"
	"templ/internal/loader"
	"templ/internal/source"
	"templ/internal/trace"
)

// listTemplateFiles returns the slash-separated names, relative to dir, of
// every file under dir with one of exts. The list is sorted.
func listTemplateFiles(dir string, exts []string) ([]string, error) {
	var names []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !hasExtension(path, exts) {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		names = append(names, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}

	// детерминированный порядок для вывода и кэша
	sort.Strings(names)
	return names, nil
}

// ListTemplates returns the names TokenizeDir would process for dir, in order.
func ListTemplates(dir string, opts Options) ([]string, error) {
	return listTemplateFiles(dir, opts.extensions())
}

func hasExtension(path string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, want := range exts {
		if ext == strings.ToLower(want) {
			return true
		}
	}
	return false
}

// TokenizeDir tokenizes every template under dir in parallel. Templates are
// read through a FileSystemLoader rooted at dir and named relative to it.
// Results keep the sorted file order. A template that cannot be read gets an
// error diagnostic instead of tokens; only cancellation fails the whole run.
func TokenizeDir(ctx context.Context, dir string, opts Options) (*source.FileSet, []*TokenizeResult, error) {
	tr := trace.FromContext(ctx)
	span := trace.Begin(tr, trace.ScopePass, "tokenize-dir", trace.CurrentSpan(ctx))
	defer span.End("")
	ctx = trace.WithSpan(ctx, span)

	names, err := listTemplateFiles(dir, opts.extensions())
	if err != nil {
		return nil, nil, fmt.Errorf("list %s: %w", dir, err)
	}
	span.WithExtra("files", strconv.Itoa(len(names)))

	fileSet := source.NewFileSetWithBase(dir)
	if len(names) == 0 {
		return fileSet, nil, nil
	}
	for _, name := range names {
		opts.emit(Event{File: name, Status: StatusQueued})
	}

	// Загружаем последовательно: FileSet не потокобезопасен
	l := &loader.FileSystemLoader{Paths: []string{dir}, NormalizeNewlines: opts.NormalizeNewlines}
	files := make([]*source.File, len(names))
	loadErrors := make([]error, len(names))
	placeholders := make([]source.FileID, len(names))
	done := opts.track("load")
	for i, name := range names {
		content, err := l.Load(name)
		if err != nil {
			// пустой файл-заглушка, чтобы диагностика указывала на имя шаблона
			loadErrors[i] = err
			placeholders[i] = fileSet.AddVirtual(name, "")
			continue
		}
		files[i] = fileSet.Get(fileSet.AddVirtual(name, content))
	}
	done(strconv.Itoa(len(names)) + " files")

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// индексы уникальны для каждой горутины, мьютекс не нужен
	results := make([]*TokenizeResult, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(names)))

	for i, name := range names {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			start := time.Now()
			opts.emit(Event{File: name, Status: StatusWorking})

			if loadErr := loadErrors[i]; loadErr != nil {
				bag := diag.NewBag(opts.maxDiagnostics())
				reportLoadError(diag.BagReporter{Bag: bag}, placeholders[i], name, loadErr)
				results[i] = &TokenizeResult{Name: name, FileSet: fileSet, Bag: bag, Elapsed: time.Since(start)}
				opts.emit(Event{File: name, Status: StatusError, Err: loadErr, Elapsed: time.Since(start)})
				return nil
			}

			res := lexFile(gctx, files[i], opts)
			res.FileSet = fileSet
			res.Elapsed = time.Since(start)
			results[i] = res

			status := StatusDone
			if res.Cached {
				status = StatusCached
			}
			opts.emit(Event{File: name, Status: status, Tokens: len(res.Tokens), Elapsed: res.Elapsed})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fileSet, results, err
	}
	return fileSet, results, nil
}

// reportLoadError classifies a loader error and reports it against the
// placeholder file id.
func reportLoadError(r diag.Reporter, id source.FileID, name string, err error) {
	sp := source.Span{File: id}
	code := diag.LoadIOError
	switch {
	case errors.Is(err, loader.ErrTemplateNotFound):
		code = diag.LoadTemplateNotFound
	case errors.Is(err, loader.ErrSuspiciousPath):
		code = diag.LoadSuspiciousPath
	}
	b := diag.ReportError(r, code, sp, fmt.Sprintf("failed to load %s: %v", name, err))
	if code == diag.LoadSuspiciousPath {
		b.WithNote(sp, "template names must stay inside the loader directories")
	}
	b.Emit()
}
