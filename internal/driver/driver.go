// Package driver orchestrates analysis sessions: loading unit snapshots,
// running the dispatcher, and shaping diagnostics for rendering.
package driver

import (
	"context"

	"avlint/internal/analysis"
	"avlint/internal/diag"
	"avlint/internal/diagfmt"
	"avlint/internal/observ"
	"avlint/internal/snapshot"
)

// Options adjusts one analysis session.
type Options struct {
	// Rules carries severity overrides and disabled rules, usually produced
	// by config.Apply.
	Rules analysis.Options
	// IgnoreWarnings drops warning and info diagnostics from results.
	IgnoreWarnings bool
	// WarningsAsErrors promotes warnings to errors.
	WarningsAsErrors bool
	// FullPath renders absolute file paths in records.
	FullPath bool
	// EnableTimings attaches a per-unit phase report to results.
	EnableTimings bool
	// Events receives progress notifications; nil disables them.
	Events ProgressSink
}

// UnitResult is the outcome of analyzing one unit.
type UnitResult struct {
	// Path is the snapshot path, or the unit name for in-memory units.
	Path string
	// Records are the rendered diagnostics, sorted.
	Records []diagfmt.Record
	// Run summarizes the dispatcher pass.
	Run analysis.Result
	// Timing is set when Options.EnableTimings is on.
	Timing *observ.Report
	// Err reports a load or decode failure; Records and Run are empty then.
	Err error
}

// HasErrors reports whether any record carries error severity.
func (r *UnitResult) HasErrors() bool {
	for _, rec := range r.Records {
		if rec.Severity == diag.SevError {
			return true
		}
	}
	return false
}

// AnalyzeUnit runs the frozen rule set over one unit and returns sorted
// records. The dispatcher is rebuilt from set and opts.Rules on every call;
// directory analysis shares one dispatcher across workers instead.
func AnalyzeUnit(ctx context.Context, unit *analysis.Unit, set *analysis.RuleSet, opts Options) UnitResult {
	d := analysis.NewDispatcher(set, opts.Rules)
	return analyzeWith(ctx, d, unit, unit.Name, opts, nil)
}

// AnalyzeFile loads a unit snapshot from path and analyzes it.
func AnalyzeFile(ctx context.Context, path string, set *analysis.RuleSet, opts Options) UnitResult {
	var timer *observ.Timer
	if opts.EnableTimings {
		timer = observ.NewTimer()
	}

	var loadIdx int
	if timer != nil {
		loadIdx = timer.Begin("load_unit")
	}
	unit, err := snapshot.LoadFile(path)
	if timer != nil {
		timer.End(loadIdx, "")
	}
	if err != nil {
		res := UnitResult{Path: path, Err: err}
		if timer != nil {
			report := timer.Report()
			res.Timing = &report
		}
		return res
	}

	d := analysis.NewDispatcher(set, opts.Rules)
	return analyzeWith(ctx, d, unit, path, opts, timer)
}

// analyzeWith runs one already-built dispatcher over a loaded unit. The timer
// may carry earlier phases (snapshot loading) and is extended here.
func analyzeWith(ctx context.Context, d *analysis.Dispatcher, unit *analysis.Unit, path string, opts Options, timer *observ.Timer) UnitResult {
	if timer == nil && opts.EnableTimings {
		timer = observ.NewTimer()
	}

	var dispatchIdx int
	if timer != nil {
		dispatchIdx = timer.Begin("dispatch")
	}
	sink := diag.NewSink()
	run := d.Run(ctx, unit, sink)
	diags := applySeverityPolicy(sink.Drain(), opts)
	if timer != nil {
		timer.End(dispatchIdx, "")
	}

	var renderIdx int
	if timer != nil {
		renderIdx = timer.Begin("render")
	}
	records := diagfmt.FromDiagnostics(diags, unit.Files, opts.FullPath)
	diagfmt.Sort(records)
	if timer != nil {
		timer.End(renderIdx, "")
	}

	res := UnitResult{Path: path, Records: records, Run: run}
	if timer != nil {
		report := timer.Report()
		res.Timing = &report
	}
	return res
}

// applySeverityPolicy filters or promotes diagnostics per session options.
// Fault diagnostics are never dropped.
func applySeverityPolicy(diags []diag.Diagnostic, opts Options) []diag.Diagnostic {
	if !opts.IgnoreWarnings && !opts.WarningsAsErrors {
		return diags
	}
	out := diags[:0]
	for _, d := range diags {
		if opts.IgnoreWarnings && !d.Fault && d.Severity != diag.SevError {
			continue
		}
		if opts.WarningsAsErrors && d.Severity == diag.SevWarning {
			d.Severity = diag.SevError
		}
		out = append(out, d)
	}
	return out
}
