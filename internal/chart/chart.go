// Package chart renders the comparative figures of the analysis from a
// cleaned table: survival proportions per category, protein-expression box
// plots, and age distributions. Rendering is a fire-and-forget side effect;
// nothing here feeds back into the pipeline. Every chart validates its
// required columns through the shared schema contract before touching data.
package chart

import (
	"fmt"
	"image/color"
	"sort"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"brca/internal/schema"
	"brca/pkg/table"
)

// DefaultTargetColumn is the survival column charts split on.
const DefaultTargetColumn = "patient_status"

// palette cycles fill colors across series.
var palette = []color.Color{
	color.NRGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xc0},
	color.NRGBA{R: 0xff, G: 0x7f, B: 0x0e, A: 0xc0},
	color.NRGBA{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xc0},
	color.NRGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xc0},
}

// SurvivalByCategory writes a stacked percentage bar chart showing survival
// proportions for each distinct value of categoryCol.
func SurvivalByCategory(t *table.Table, categoryCol, targetCol, path string) error {
	if targetCol == "" {
		targetCol = DefaultTargetColumn
	}
	if err := schema.Validate(t, categoryCol, targetCol); err != nil {
		return err
	}

	cats, statuses, counts := crossCounts(t, categoryCol, targetCol)
	if len(cats) == 0 {
		return fmt.Errorf("chart: no data for %s by %s", targetCol, categoryCol)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Survival Proportion by %s", titleize(categoryCol))
	p.X.Label.Text = titleize(categoryCol)
	p.Y.Label.Text = "Percentage (%)"

	// Percentages per category so each stack sums to 100.
	totals := make([]float64, len(cats))
	for ci := range cats {
		for si := range statuses {
			totals[ci] += counts[ci][si]
		}
	}

	var prev *plotter.BarChart
	w := vg.Points(30)
	for si, status := range statuses {
		vals := make(plotter.Values, len(cats))
		for ci := range cats {
			if totals[ci] > 0 {
				vals[ci] = counts[ci][si] / totals[ci] * 100
			}
		}
		bar, err := plotter.NewBarChart(vals, w)
		if err != nil {
			return fmt.Errorf("chart: bars for %s: %w", status, err)
		}
		bar.Color = palette[si%len(palette)]
		bar.LineStyle.Width = 0
		if prev != nil {
			bar.StackOn(prev)
		}
		p.Add(bar)
		p.Legend.Add(status, bar)
		prev = bar
	}
	p.Legend.Top = true
	p.NominalX(cats...)

	if err := p.Save(8*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("chart: save %s: %w", path, err)
	}
	return nil
}

// ProteinBox writes side-by-side box plots comparing the expression levels of
// the given protein columns, one box per (protein, status) pair.
func ProteinBox(t *table.Table, proteinCols []string, targetCol, path string) error {
	if targetCol == "" {
		targetCol = DefaultTargetColumn
	}
	required := append(append([]string{}, proteinCols...), targetCol)
	if err := schema.Validate(t, required...); err != nil {
		return err
	}

	statuses := distinct(t, targetCol)
	if len(statuses) == 0 {
		return fmt.Errorf("chart: no %s values to compare", targetCol)
	}

	p := plot.New()
	p.Title.Text = "Protein Expression Levels by Patient Status"
	p.X.Label.Text = "Protein"
	p.Y.Label.Text = "Expression Level"

	w := vg.Points(18)
	span := 0.8 / float64(len(statuses))
	legendDone := map[string]bool{}
	for pi, col := range proteinCols {
		byStatus := groupFloats(t, col, targetCol)
		for si, status := range statuses {
			vals := byStatus[status]
			if len(vals) == 0 {
				continue
			}
			loc := float64(pi) - 0.4 + span*(float64(si)+0.5)
			box, err := plotter.NewBoxPlot(w, loc, plotter.Values(vals))
			if err != nil {
				return fmt.Errorf("chart: box for %s/%s: %w", col, status, err)
			}
			box.FillColor = palette[si%len(palette)]
			p.Add(box)
			if !legendDone[status] {
				// *plotter.BoxPlot does not implement plot.Thumbnailer, so
				// use an empty BarChart with the same fill color as the
				// legend swatch.
				swatch, err := plotter.NewBarChart(plotter.Values{0}, w)
				if err != nil {
					return fmt.Errorf("chart: legend swatch for %s: %w", status, err)
				}
				swatch.Color = palette[si%len(palette)]
				p.Legend.Add(status, swatch)
				legendDone[status] = true
			}
		}
	}
	p.Legend.Top = true
	p.NominalX(proteinCols...)

	if err := p.Save(10*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("chart: save %s: %w", path, err)
	}
	return nil
}

// AgeHistogram writes overlapping, density-normalized histograms of ageCol
// split by survival status. Normalizing puts both groups on the same scale;
// otherwise the larger group dwarfs the smaller one and the shapes cannot be
// compared.
func AgeHistogram(t *table.Table, ageCol, targetCol, path string) error {
	if ageCol == "" {
		ageCol = "age"
	}
	if targetCol == "" {
		targetCol = DefaultTargetColumn
	}
	if err := schema.Validate(t, ageCol, targetCol); err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = "Age Distribution by Patient Status"
	p.X.Label.Text = titleize(ageCol)
	p.Y.Label.Text = "Density"

	byStatus := groupFloats(t, ageCol, targetCol)
	for si, status := range distinct(t, targetCol) {
		vals := byStatus[status]
		if len(vals) == 0 {
			continue
		}
		h, err := plotter.NewHist(plotter.Values(vals), 15)
		if err != nil {
			return fmt.Errorf("chart: histogram for %s: %w", status, err)
		}
		h.Normalize(1)
		h.FillColor = palette[si%len(palette)]
		h.LineStyle.Width = 0
		p.Add(h)
		p.Legend.Add(status, h)
	}
	p.Legend.Top = true

	if err := p.Save(8*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("chart: save %s: %w", path, err)
	}
	return nil
}

// crossCounts tallies rows per (category value, status value), both axes
// sorted for stable rendering. Rows missing either cell are excluded.
func crossCounts(t *table.Table, categoryCol, targetCol string) (cats, statuses []string, counts [][]float64) {
	cats = distinct(t, categoryCol)
	statuses = distinct(t, targetCol)
	catIdx := index(cats)
	statusIdx := index(statuses)

	counts = make([][]float64, len(cats))
	for i := range counts {
		counts[i] = make([]float64, len(statuses))
	}
	catVals := t.Column(categoryCol)
	statusVals := t.Column(targetCol)
	for i := 0; i < t.Len(); i++ {
		if table.IsMissing(catVals[i]) || table.IsMissing(statusVals[i]) {
			continue
		}
		counts[catIdx[table.AsString(catVals[i])]][statusIdx[table.AsString(statusVals[i])]]++
	}
	return cats, statuses, counts
}

// groupFloats collects the non-missing numeric values of col keyed by the
// group cell's string form.
func groupFloats(t *table.Table, col, groupCol string) map[string][]float64 {
	out := map[string][]float64{}
	vals := t.Column(col)
	keys := t.Column(groupCol)
	for i := 0; i < t.Len(); i++ {
		if table.IsMissing(keys[i]) {
			continue
		}
		f, ok := table.AsFloat(vals[i])
		if !ok {
			continue
		}
		k := table.AsString(keys[i])
		out[k] = append(out[k], f)
	}
	return out
}

// distinct returns the sorted distinct non-missing values of a column.
func distinct(t *table.Table, col string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, v := range t.Column(col) {
		if table.IsMissing(v) {
			continue
		}
		s := table.AsString(v)
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func index(ss []string) map[string]int {
	m := make(map[string]int, len(ss))
	for i, s := range ss {
		m[s] = i
	}
	return m
}

// titleize turns a snake_case column name into a chart label
// ("tumour_stage" -> "Tumour Stage").
func titleize(col string) string {
	words := strings.Split(strings.ReplaceAll(col, "_", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
