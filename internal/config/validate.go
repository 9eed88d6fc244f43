// This file adds a lightweight linter/validator for Pipeline values. It
// performs static checks over a decoded Pipeline and returns a list of issues
// (errors and warnings) that callers can surface in a CLI or tests.
package config

import (
	"fmt"
	"strings"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a configuration warning that should be surfaced
	// to users but may not necessarily block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation/lint finding for a Pipeline.
//
// Path is a dotted path into the config (e.g. "storage.kind",
// "cluster.k"). Message is human-readable.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a single
// error in contexts that expect error.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// ValidatePipeline performs static validation / linting of a Pipeline.
//
// It does not mutate the pipeline. Instead it returns a slice of Issue values;
// callers decide whether to treat warnings as fatal.
func ValidatePipeline(p Pipeline) []Issue {
	var issues []Issue

	if strings.TrimSpace(p.Job) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "job",
			Message:  "job must not be empty; it is used for metrics labeling and identifying runs",
		})
	}
	issues = append(issues, validateSource(p.Source)...)
	issues = append(issues, validateParser(p.Parser)...)
	issues = append(issues, validateClean(p.Clean)...)
	issues = append(issues, validateCluster(p.Cluster)...)
	issues = append(issues, validateCharts(p.Charts)...)
	issues = append(issues, validateStorage(p.Storage)...)

	return issues
}

func validateSource(s Source) []Issue {
	var issues []Issue
	if strings.TrimSpace(s.Kind) == "" {
		return append(issues, Issue{
			Severity: SeverityError,
			Path:     "source.kind",
			Message:  "source.kind must not be empty",
		})
	}
	switch s.Kind {
	case "file":
		if strings.TrimSpace(s.File.Path) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "source.file.path",
				Message:  "file source requires a path",
			})
		}
	default:
		// Unknown kinds are warnings for forward compatibility.
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "source.kind",
			Message:  fmt.Sprintf("unknown source kind %q", s.Kind),
		})
	}
	return issues
}

func validateParser(p Parser) []Issue {
	var issues []Issue
	if p.Kind == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "parser.kind",
			Message:  "parser.kind must not be empty",
		})
	} else if p.Kind != "csv" {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "parser.kind",
			Message:  fmt.Sprintf("unknown parser kind %q", p.Kind),
		})
	}
	if comma := p.Options.String("comma", ","); len([]rune(comma)) != 1 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "parser.options.comma",
			Message:  "comma must be a single character",
		})
	}
	return issues
}

func validateClean(c Clean) []Issue {
	var issues []Issue
	switch c.DomainPolicy {
	case "", "warn", "fatal":
	default:
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "clean.domain_policy",
			Message:  fmt.Sprintf("domain_policy must be \"warn\" or \"fatal\", got %q", c.DomainPolicy),
		})
	}
	if c.Dedup != nil {
		switch c.Dedup.Policy {
		case "", "keep-first", "keep-last":
		default:
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "clean.dedup.policy",
				Message:  fmt.Sprintf("dedup policy must be \"keep-first\" or \"keep-last\", got %q", c.Dedup.Policy),
			})
		}
	}
	return issues
}

func validateCluster(c *Cluster) []Issue {
	if c == nil {
		return nil
	}
	var issues []Issue
	if c.K < 1 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "cluster.k",
			Message:  "k must be >= 1",
		})
	}
	if c.MaxIter < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "cluster.max_iter",
			Message:  "max_iter must not be negative",
		})
	}
	return issues
}

func validateCharts(c *Charts) []Issue {
	if c == nil {
		return nil
	}
	if strings.TrimSpace(c.OutDir) == "" {
		return []Issue{{
			Severity: SeverityError,
			Path:     "charts.out_dir",
			Message:  "charts require an output directory",
		}}
	}
	return nil
}

func validateStorage(s *Storage) []Issue {
	if s == nil {
		return nil
	}
	var issues []Issue
	switch s.Kind {
	case "sqlite", "postgres":
	case "":
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.kind",
			Message:  "storage.kind must not be empty",
		})
	default:
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.kind",
			Message:  fmt.Sprintf("unknown storage kind %q", s.Kind),
		})
	}
	if strings.TrimSpace(s.DB.DSN) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.db.dsn",
			Message:  "storage requires a DSN",
		})
	}
	if strings.TrimSpace(s.DB.Table) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.db.table",
			Message:  "storage requires a table name",
		})
	}
	return issues
}
