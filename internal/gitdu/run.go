package gitdu

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Stage names passed to the progress hook.
const (
	StageVerifyPack = "verify-pack"
	StageRevList    = "rev-list"
	StageAggregate  = "aggregate"
)

// Source produces the raw git reports.
type Source interface {
	// VerifyPack returns the output of `git verify-pack -v` over every pack.
	VerifyPack(ctx context.Context) ([]byte, error)
	// RevList returns the output of `git rev-list --all --objects`.
	RevList(ctx context.Context) ([]byte, error)
}

// Options configures a report.
type Options struct {
	// Filter selects the reported entries. Filter.Scope also scopes
	// extension aggregation.
	Filter Filter
	// Extensions groups blobs by extension instead of by directory.
	Extensions bool
	// Ignored paths are excluded from aggregation.
	Ignored IgnoreSet
}

// Report is the outcome of Run.
type Report struct {
	// Extensions is true when Exts holds the result instead of Dirs.
	Extensions bool `json:"extensions"`
	// Dirs are the reported directory nodes, ordered by path.
	Dirs []*DirNode `json:"dirs,omitempty"`
	// Exts are the reported extension buckets, ordered by stored size.
	Exts []*ExtBucket `json:"exts,omitempty"`
	// Objects is the number of packed objects parsed.
	Objects int `json:"objects"`
	// Unresolved is the number of packed objects rev-list never reported.
	Unresolved int `json:"unresolved"`
	// Loose is the number of rev-list objects missing from every pack.
	Loose int `json:"loose"`
	// Elapsed is the total time taken.
	Elapsed time.Duration `json:"elapsed"`
}

// Run fetches both reports from src, correlates them and aggregates the
// records as requested by opt. progress, when not nil, is called before each
// stage starts.
func Run(ctx context.Context, opt Options, src Source, log *zap.Logger, progress func(stage string)) (*Report, error) {
	if progress == nil {
		progress = func(string) {}
	}

	start := time.Now()

	progress(StageVerifyPack)
	log.Debug("running verify-pack")

	verifyPack, err := src.VerifyPack(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting verify-pack output: %w", err)
	}

	log.Debug("parsing verify-pack output", zap.Int("bytes", len(verifyPack)))

	records, err := ParseVerifyPack(bytes.NewReader(verifyPack), log)
	if err != nil {
		return nil, err
	}

	progress(StageRevList)
	log.Debug("running rev-list")

	revList, err := src.RevList(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting rev-list output: %w", err)
	}

	log.Debug("parsing rev-list output", zap.Int("bytes", len(revList)))

	loose, err := records.ResolvePaths(bytes.NewReader(revList), log)
	if err != nil {
		return nil, err
	}

	progress(StageAggregate)

	report := &Report{
		Extensions: opt.Extensions,
		Objects:    len(records),
		Unresolved: len(records.Unresolved()),
		Loose:      loose,
	}

	if opt.Extensions {
		for _, r := range records.Unresolved() {
			if r.Kind == KindBlob {
				log.Info("not in rev-list", zap.Stringer("object", r))
			}
		}

		buckets := AggregateExtensions(records, opt.Filter.Scope, opt.Ignored)
		report.Exts = opt.Filter.Exts(buckets)
	} else {
		nodes := AggregateDirs(records, opt.Ignored, log)
		report.Dirs = opt.Filter.Dirs(nodes)
	}

	report.Elapsed = time.Since(start)

	log.Debug("report ready",
		zap.Int("objects", report.Objects),
		zap.Int("unresolved", report.Unresolved),
		zap.Int("loose", report.Loose),
		zap.Duration("elapsed", report.Elapsed))

	return report, nil
}
