// This file wires the pipeline end-to-end. The core steps (load, clean,
// aggregate, write) run as a single synchronous pass of table transforms;
// only the chart collaborators render concurrently.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"brca/internal/chart"
	"brca/internal/cleaner"
	"brca/internal/cluster"
	"brca/internal/config"
	"brca/internal/datasource"
	"brca/internal/datasource/file"
	"brca/internal/metrics"
	csvparser "brca/internal/parser/csv"
	"brca/internal/stats"
	"brca/internal/storage"
	"brca/pkg/table"
)

// run executes a full pipeline for the decoded config.
func run(ctx context.Context, p config.Pipeline, verbose bool) error {
	job := p.Job

	// 1) Load.
	start := time.Now()
	raw, skipped, err := load(ctx, p)
	metrics.RecordStep(job, "load", err, time.Since(start))
	if err != nil {
		return err
	}
	metrics.RecordRows(job, "loaded", int64(raw.Len()))
	metrics.RecordRows(job, "parse_errors", int64(skipped))
	log.Printf("loaded %s: %d rows, %d columns", p.Source.File.Path, raw.Len(), len(raw.Columns()))

	// 2) Clean.
	start = time.Now()
	cleaned, violations, err := buildCleaner(p.Clean, verbose).Clean(raw)
	metrics.RecordStep(job, "clean", err, time.Since(start))
	if err != nil {
		return err
	}
	metrics.RecordRows(job, "dropped", int64(raw.Len()-cleaned.Len()))
	metrics.RecordRows(job, "domain_violations", int64(len(violations)))
	for _, v := range violations {
		log.Printf("warning: %s", v)
	}
	log.Printf("cleaning complete: %d rows, %d columns", cleaned.Len(), len(cleaned.Columns()))

	// 3) Write the cleaned dataset.
	cleanedPath := p.Output.CleanedPath
	if cleanedPath == "" {
		cleanedPath = "data_full.csv"
	}
	start = time.Now()
	err = writeCSV(cleanedPath, cleaned)
	metrics.RecordStep(job, "write_cleaned", err, time.Since(start))
	if err != nil {
		return err
	}
	metrics.RecordRows(job, "written", int64(cleaned.Len()))
	log.Printf("saved %s: %d rows, %d columns", cleanedPath, cleaned.Len(), len(cleaned.Columns()))

	// 4) Grouped statistics.
	start = time.Now()
	grouped, err := stats.Aggregate(cleaned, p.Analyze.GroupColumn)
	metrics.RecordStep(job, "aggregate", err, time.Since(start))
	if err != nil {
		return err
	}
	if p.Output.StatsPath != "" {
		if err := writeCSV(p.Output.StatsPath, grouped); err != nil {
			return err
		}
		log.Printf("saved %s: %d groups", p.Output.StatsPath, grouped.Len())
	}

	// 5) Optional database sink.
	if p.Storage != nil {
		start = time.Now()
		err = store(ctx, p.Storage, cleaned, grouped)
		metrics.RecordStep(job, "store", err, time.Since(start))
		if err != nil {
			return err
		}
	}

	// 6) Optional charts (collaborator, rendered concurrently).
	if p.Charts != nil {
		start = time.Now()
		err = renderCharts(ctx, p.Charts, cleaned)
		metrics.RecordStep(job, "charts", err, time.Since(start))
		if err != nil {
			return err
		}
	}

	// 7) Optional clustering (collaborator).
	if p.Cluster != nil {
		start = time.Now()
		err = runCluster(p, cleaned)
		metrics.RecordStep(job, "cluster", err, time.Since(start))
		if err != nil {
			return err
		}
	}

	return nil
}

// load opens the configured source and parses it into a table.
func load(ctx context.Context, p config.Pipeline) (*table.Table, int, error) {
	var src datasource.Source
	switch p.Source.Kind {
	case "", "file":
		src = file.NewLocal(p.Source.File.Path)
	default:
		return nil, 0, fmt.Errorf("unknown source kind %q", p.Source.Kind)
	}
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, 0, err
	}
	defer rc.Close()

	opt := p.Parser.Options
	parser := csvparser.NewParser(csvparser.Options{
		Comma:         opt.Rune("comma", ','),
		TrimSpace:     opt.Bool("trim_space", true),
		HeaderMap:     opt.StringMap("header_map"),
		MissingTokens: opt.StringSlice("missing_tokens"),
	})
	return parser.Parse(rc)
}

// buildCleaner translates the clean config into a Cleaner.
func buildCleaner(c config.Clean, verbose bool) *cleaner.Cleaner {
	cl := &cleaner.Cleaner{
		IDColumn:        c.IDColumn,
		TargetColumn:    c.TargetColumn,
		UntouchedColumn: c.UntouchedColumn,
		StageColumn:     c.StageColumn,
		AllowedStages:   c.AllowedStages,
	}
	if c.DomainPolicy == "fatal" {
		cl.DomainPolicy = cleaner.PolicyFatal
	}
	if verbose {
		cl.Report = func(v cleaner.Violation) { log.Printf("domain check: %s", v) }
	}
	if c.Dedup != nil {
		cl.DeDup = &cleaner.DeDup{Keys: c.Dedup.Keys, Policy: c.Dedup.Policy}
	}
	return cl
}

// store persists the cleaned table and the statistics table into the
// configured sink; the stats table name derives from the main one.
func store(ctx context.Context, s *config.Storage, cleaned, grouped *table.Table) error {
	repo, err := storage.New(ctx, storage.Config{Kind: s.Kind, DSN: s.DB.DSN})
	if err != nil {
		return err
	}
	defer repo.Close()

	if _, err := storage.SaveTable(ctx, repo, s.DB.Table, cleaned); err != nil {
		return err
	}
	if _, err := storage.SaveTable(ctx, repo, s.DB.Table+"_stats", grouped); err != nil {
		return err
	}
	return nil
}

// renderCharts draws every configured figure concurrently. Each chart is
// independent and only reads the cleaned table.
func renderCharts(ctx context.Context, c *config.Charts, cleaned *table.Table) error {
	if err := os.MkdirAll(c.OutDir, 0o755); err != nil {
		return fmt.Errorf("charts: %w", err)
	}
	cats := c.CategoryColumns
	if len(cats) == 0 {
		cats = []string{cleaner.DefaultStageColumn}
	}

	g, _ := errgroup.WithContext(ctx)
	for _, cat := range cats {
		g.Go(func() error {
			out := filepath.Join(c.OutDir, "survival_by_"+cat+".png")
			return chart.SurvivalByCategory(cleaned, cat, "", out)
		})
	}
	g.Go(func() error {
		out := filepath.Join(c.OutDir, "protein_expression.png")
		return chart.ProteinBox(cleaned, cluster.DefaultFeatures, "", out)
	})
	g.Go(func() error {
		out := filepath.Join(c.OutDir, "age_distribution.png")
		return chart.AgeHistogram(cleaned, "age", "", out)
	})
	return g.Wait()
}

// runCluster scales the configured features, fits k-means, and optionally
// writes the per-row assignment.
func runCluster(p config.Pipeline, cleaned *table.Table) error {
	cc := p.Cluster
	X, rows, err := cluster.Scale(cleaned, cc.Features)
	if err != nil {
		return err
	}
	km := &cluster.KMeans{K: cc.K, MaxIter: cc.MaxIter, Seed: cc.Seed}
	labels, err := km.Fit(X)
	if err != nil {
		return err
	}
	log.Printf("kmeans: k=%d rows=%d inertia=%.4f", cc.K, len(labels), km.Inertia())

	if cc.LabelsPath == "" {
		return nil
	}

	idCol := p.Clean.IDColumn
	if idCol == "" {
		idCol = cleaner.DefaultIDColumn
	}
	out := table.New()
	ids := make([]any, len(rows))
	assigned := make([]any, len(rows))
	for i, r := range rows {
		ids[i] = cleaned.Cell(idCol, r)
		assigned[i] = float64(labels[i])
	}
	if err := out.AddColumn(idCol, ids); err != nil {
		return err
	}
	if err := out.AddColumn("cluster", assigned); err != nil {
		return err
	}
	return writeCSV(cc.LabelsPath, out)
}

// writeCSV writes t to path, creating parent directories as needed.
func writeCSV(path string, t *table.Table) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := csvparser.Write(f, t); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
