package driver

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"slices"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"ember/internal/ast"
	"ember/internal/diag"
	"ember/internal/source"
	"ember/internal/token"
	"ember/internal/trace"
)

// TokenizeDirResult содержит результат токенизации одного файла
type TokenizeDirResult struct {
	Path   string
	FileID source.FileID
	Tokens []token.Token // nil, если файл не загрузился
	Bag    *diag.Bag
	Cached bool
}

// ParseDirResult содержит результат парсинга одного файла
type ParseDirResult struct {
	Path     string
	FileID   source.FileID
	Program  *ast.Program // nil, если файл не загрузился
	Stop     source.Location
	Complete bool
	Bag      *diag.Bag
	Err      error
}

// ListSourceFiles returns the sorted paths under dir whose extension is in
// exts (case-insensitive); no exts means ".em". Hidden directories are skipped.
func ListSourceFiles(dir string, exts []string) ([]string, error) {
	if len(exts) == 0 {
		exts = []string{".em"}
	}
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			// скрытые каталоги (.git, кэш) пропускаем
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		ext := filepath.Ext(path)
		if slices.ContainsFunc(exts, func(e string) bool { return strings.EqualFold(e, ext) }) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(files)
	return files, nil
}

// loadDir lists and loads every source file of dir. Files that fail to load
// keep their slot; their error is returned by index.
func loadDir(dir string, opts Options) (*source.FileSet, []string, []source.FileID, map[int]error, error) {
	files, err := ListSourceFiles(dir, opts.Extensions)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	phase := opts.Timer.Begin("load " + dir)
	fileSet := source.NewFileSetWithBase(dir)
	ids := make([]source.FileID, len(files))
	loadErrors := make(map[int]error)
	for i, path := range files {
		id, err := fileSet.Load(path)
		if err != nil {
			loadErrors[i] = err
			continue
		}
		ids[i] = id
	}
	opts.Timer.End(phase, strconv.Itoa(len(files)-len(loadErrors))+" files")
	return fileSet, files, ids, loadErrors, nil
}

// runDir fans work out over the files with a bounded errgroup. Each worker
// owns results[i], so no locking is needed. Only cancellation aborts the run.
func runDir(ctx context.Context, files []string, opts Options, work func(ctx context.Context, i int) error) error {
	if len(files) == 0 {
		return nil
	}
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	for _, path := range files {
		emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusQueued})
	}
	ctx, span := trace.Start(ctx, trace.ScopeDriver, "dir")
	defer span.WithExtra("files", strconv.Itoa(len(files))).WithExtra("jobs", strconv.Itoa(jobs)).End("")

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fctx, span := trace.Start(gctx, trace.ScopeFile, filepath.Base(files[i]))
			defer span.End("")
			return work(fctx, i)
		})
	}
	return g.Wait()
}

func loadFailure(opts Options, path string, err error) *diag.Bag {
	bag := diag.NewBag(opts.maxDiagnostics())
	bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{}, "failed to load file: "+err.Error()))
	emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusError, Err: err})
	return bag
}

func finish(opts Options, path string, stage Stage, start time.Time, bag *diag.Bag) {
	status := StatusDone
	if bag.HasErrors() {
		status = StatusError
	}
	emit(opts.Progress, Event{File: path, Stage: stage, Status: status, Elapsed: time.Since(start)})
}

// TokenizeDir tokenizes every source file under dir in parallel. Results are
// in path order.
func TokenizeDir(ctx context.Context, dir string, opts Options) (*source.FileSet, []TokenizeDirResult, error) {
	fileSet, files, ids, loadErrors, err := loadDir(dir, opts)
	if err != nil {
		return nil, nil, err
	}
	results := make([]TokenizeDirResult, len(files))
	err = runDir(ctx, files, opts, func(ctx context.Context, i int) error {
		path := files[i]
		if loadErr, failed := loadErrors[i]; failed {
			results[i] = TokenizeDirResult{Path: path, Bag: loadFailure(opts, path, loadErr)}
			return nil
		}
		start := time.Now()
		emit(opts.Progress, Event{File: path, Stage: StageTokenize, Status: StatusWorking})

		bag := diag.NewBag(opts.maxDiagnostics())
		toks, cached := tokenizeFile(ctx, fileSet.Get(ids[i]), opts, diag.BagReporter{Bag: bag})
		results[i] = TokenizeDirResult{Path: path, FileID: ids[i], Tokens: toks, Bag: bag, Cached: cached}
		finish(opts, path, StageTokenize, start, bag)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return fileSet, results, nil
}

// ParseDir parses every source file under dir in parallel. Results are in
// path order.
func ParseDir(ctx context.Context, dir string, opts Options) (*source.FileSet, []ParseDirResult, error) {
	fileSet, files, ids, loadErrors, err := loadDir(dir, opts)
	if err != nil {
		return nil, nil, err
	}
	results := make([]ParseDirResult, len(files))
	err = runDir(ctx, files, opts, func(ctx context.Context, i int) error {
		path := files[i]
		if loadErr, failed := loadErrors[i]; failed {
			results[i] = ParseDirResult{Path: path, Bag: loadFailure(opts, path, loadErr)}
			return nil
		}
		start := time.Now()
		emit(opts.Progress, Event{File: path, Stage: StageParse, Status: StatusWorking})

		bag := diag.NewBag(opts.maxDiagnostics())
		res := parseFile(ctx, fileSet.Get(ids[i]), opts, diag.BagReporter{Bag: bag})
		if res.Err != nil && ctx.Err() != nil {
			return ctx.Err()
		}
		results[i] = ParseDirResult{
			Path:     path,
			FileID:   ids[i],
			Program:  res.Program,
			Stop:     res.Stop,
			Complete: res.Complete,
			Bag:      bag,
			Err:      res.Err,
		}
		finish(opts, path, StageParse, start, bag)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return fileSet, results, nil
}
