package driver

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"avlint/internal/analysis"
	"avlint/internal/diagfmt"
	"avlint/internal/snapshot"
)

// listUnitFiles returns the sorted list of unit snapshots under dir.
func listUnitFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, snapshot.Ext) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// ListUnits returns the sorted unit snapshot paths AnalyzeDir would process,
// so hosts can size progress displays up front.
func ListUnits(dir string) ([]string, error) {
	return listUnitFiles(dir)
}

// AnalyzeDir analyzes every unit snapshot under dir in parallel. Results come
// back in sorted path order regardless of worker scheduling, so the merged
// report is deterministic. jobs<=0 means one worker per CPU.
func AnalyzeDir(ctx context.Context, dir string, set *analysis.RuleSet, opts Options, jobs int) ([]UnitResult, error) {
	files, err := listUnitFiles(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, nil
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	for _, path := range files {
		emit(opts.Events, Event{Unit: path, Stage: StageLoad, Status: StatusQueued})
	}

	// One dispatcher serves all workers; it is immutable after construction.
	dispatcher := analysis.NewDispatcher(set, opts.Rules)

	// Each worker writes only its own index, so no mutex is needed.
	results := make([]UnitResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			started := time.Now()
			emit(opts.Events, Event{Unit: path, Stage: StageLoad, Status: StatusWorking})
			unit, err := snapshot.LoadFile(path)
			if err != nil {
				results[i] = UnitResult{Path: path, Err: err}
				emit(opts.Events, Event{Unit: path, Stage: StageLoad, Status: StatusError, Err: err, Elapsed: time.Since(started)})
				return nil
			}

			emit(opts.Events, Event{Unit: path, Stage: StageAnalyze, Status: StatusWorking})
			results[i] = analyzeWith(gctx, dispatcher, unit, path, opts, nil)
			emit(opts.Events, Event{
				Unit:        path,
				Stage:       StageAnalyze,
				Status:      StatusDone,
				Elapsed:     time.Since(started),
				Diagnostics: len(results[i].Records),
			})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// MergeRecords flattens per-unit records into one sorted report.
func MergeRecords(results []UnitResult) []diagfmt.Record {
	var out []diagfmt.Record
	for _, r := range results {
		out = append(out, r.Records...)
	}
	diagfmt.Sort(out)
	return out
}
