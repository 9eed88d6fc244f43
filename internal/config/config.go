// Package config defines the canonical, JSON-serializable configuration model
// for the analysis pipeline. It is intentionally small and explicit so that
// runs can be loaded from disk and passed through the program without
// additional glue code; decoding is performed by the standard library, with a
// light Options helper for typed access to parser settings.
//
// Example (trimmed):
//
//	{
//	  "job":     "brca",
//	  "source":  { "kind": "file", "file": { "path": "raw_data/BRCA.csv" } },
//	  "parser":  { "kind": "csv", "options": { "trim_space": true } },
//	  "clean":   { "domain_policy": "warn" },
//	  "analyze": { "group_column": "patient_status" },
//	  "output":  { "cleaned_path": "data_full.csv", "stats_path": "stats.csv" }
//	}
package config

import "encoding/json"

// Pipeline describes one full analysis run in JSON. It is the top-level
// object decoded from a pipeline file.
type Pipeline struct {
	// Job identifies the run for logging and metrics labeling.
	Job string `json:"job"`

	// Source describes where the raw CSV comes from.
	Source Source `json:"source"`

	// Parser configures how raw bytes are turned into a table.
	Parser Parser `json:"parser"`

	// Clean configures the cleaning pipeline.
	Clean Clean `json:"clean"`

	// Analyze configures the grouped-statistics aggregation.
	Analyze Analyze `json:"analyze"`

	// Cluster optionally configures k-means over scaled numeric features.
	Cluster *Cluster `json:"cluster,omitempty"`

	// Charts optionally configures comparative chart rendering.
	Charts *Charts `json:"charts,omitempty"`

	// Output names the CSV files written after cleaning completes.
	Output Output `json:"output"`

	// Storage optionally configures a database sink for the cleaned and
	// aggregated tables.
	Storage *Storage `json:"storage,omitempty"`
}

// Source identifies the data source. Additional kinds can be added over time.
type Source struct {
	// Kind selects the source implementation. Current value: "file".
	Kind string `json:"kind"`

	// File carries options for the "file" source kind.
	File SourceFile `json:"file"`
}

// SourceFile holds configuration for the "file" source kind.
type SourceFile struct {
	// Path is the local filesystem path to the input CSV.
	Path string `json:"path"`
}

// Parser selects how to parse the raw source into a table.
type Parser struct {
	// Kind selects the parser implementation. Current value: "csv".
	Kind string `json:"kind"`

	// Options is a free-form map interpreted by the parser implementation.
	// For CSV, typical keys: comma (string), trim_space (bool),
	// header_map (object), missing_tokens (array of strings).
	Options Options `json:"options"`
}

// Clean configures the cleaning pipeline. Zero values select the documented
// defaults (patient_id / patient_status / date_of_last_visit / tumour_stage
// with stages I-III and the advisory domain policy).
type Clean struct {
	IDColumn        string   `json:"id_column,omitempty"`
	TargetColumn    string   `json:"target_column,omitempty"`
	UntouchedColumn string   `json:"untouched_column,omitempty"`
	StageColumn     string   `json:"stage_column,omitempty"`
	AllowedStages   []string `json:"allowed_stages,omitempty"`

	// DomainPolicy is "warn" (advisory, default) or "fatal".
	DomainPolicy string `json:"domain_policy,omitempty"`

	// Dedup optionally collapses duplicate identifiers after the standard
	// rules.
	Dedup *Dedup `json:"dedup,omitempty"`
}

// Dedup configures the optional duplicate-identifier collapse.
type Dedup struct {
	Keys   []string `json:"keys,omitempty"`   // default: [id_column]
	Policy string   `json:"policy,omitempty"` // "keep-first" (default) | "keep-last"
}

// Analyze configures the grouped-statistics step.
type Analyze struct {
	// GroupColumn is the categorical column to group by.
	// Default: "patient_status".
	GroupColumn string `json:"group_column,omitempty"`
}

// Cluster configures the optional k-means step over scaled features.
type Cluster struct {
	// K is the number of clusters; must be >= 1.
	K int `json:"k"`

	// Seed makes runs reproducible. Default: 42.
	Seed int64 `json:"seed,omitempty"`

	// MaxIter bounds the Lloyd iterations. Default: 100.
	MaxIter int `json:"max_iter,omitempty"`

	// Features lists the numeric columns to scale and cluster on.
	// Default: protein1..protein4.
	Features []string `json:"features,omitempty"`

	// LabelsPath, when set, writes the per-row cluster assignment CSV here.
	LabelsPath string `json:"labels_path,omitempty"`
}

// Charts configures comparative chart rendering.
type Charts struct {
	// OutDir receives the rendered PNG files.
	OutDir string `json:"out_dir"`

	// CategoryColumns lists categorical columns for survival-proportion
	// charts. Default: ["tumour_stage"].
	CategoryColumns []string `json:"category_columns,omitempty"`
}

// Output names the CSV files written by the run.
type Output struct {
	// CleanedPath receives the cleaned table. Default: "data_full.csv".
	CleanedPath string `json:"cleaned_path,omitempty"`

	// StatsPath receives the grouped statistics table, when set.
	StatsPath string `json:"stats_path,omitempty"`
}

// Storage selects the sink used to persist the cleaned and aggregated tables.
type Storage struct {
	// Kind selects the storage implementation: "sqlite" or "postgres".
	Kind string `json:"kind"`

	// DB configures the selected sink.
	DB DBConfig `json:"db"`
}

// DBConfig configures a database sink.
type DBConfig struct {
	// DSN is the connection string (a file path for sqlite, a pgx URL for
	// postgres).
	DSN string `json:"dsn"`

	// Table is the destination table for the cleaned data; the statistics
	// table name is derived by appending "_stats".
	Table string `json:"table"`
}

// Options is a small helper to fetch typed values from arbitrary JSON maps
// without introducing third-party configuration libraries. It performs only
// minimal type coercion and returns provided defaults when a key is absent or
// of an unexpected type.
type Options map[string]any

// String returns the string value for key or def if key is missing or not a string.
func (o Options) String(key, def string) string {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// Bool returns the bool value for key or def if key is missing or not a bool.
func (o Options) Bool(key string, def bool) bool {
	if v, ok := o[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// Rune returns the first rune of a string value for key, or def if key is
// missing or empty. Useful for single-character parser settings such as a CSV
// delimiter.
func (o Options) Rune(key string, def rune) rune {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok && len(s) > 0 {
			return []rune(s)[0]
		}
	}
	return def
}

// StringMap returns a map[string]string for key when the value is an object
// whose values are strings. Non-string values are ignored. Returns an empty
// map when the key is missing or the value is not an object.
func (o Options) StringMap(key string) map[string]string {
	res := map[string]string{}
	if v, ok := o[key]; ok {
		if m, ok := v.(map[string]any); ok {
			for k, vv := range m {
				if s, ok := vv.(string); ok {
					res[k] = s
				}
			}
		}
	}
	return res
}

// StringSlice returns a []string for key when the value is an array of
// strings (or an array of interface values containing strings). Returns nil
// when the key is missing or the value is not an array.
func (o Options) StringSlice(key string) []string {
	if v, ok := o[key]; ok {
		switch vv := v.(type) {
		case []any:
			out := make([]string, 0, len(vv))
			for _, x := range vv {
				if s, ok := x.(string); ok {
					out = append(out, s)
				}
			}
			return out
		case []string:
			return vv
		}
	}
	return nil
}

// UnmarshalJSON implements json.Unmarshaler so that a missing or null
// "options" object in JSON decodes to a non-nil, empty Options map. This
// removes the need to nil-check Options values at call sites.
func (o *Options) UnmarshalJSON(b []byte) error {
	var tmp map[string]any
	if len(b) == 0 || string(b) == "null" {
		*o = Options{}
		return nil
	}
	if err := json.Unmarshal(b, &tmp); err != nil {
		return err
	}
	*o = Options(tmp)
	return nil
}
