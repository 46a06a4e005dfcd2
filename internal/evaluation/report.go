package evaluation

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// formatMetric renders a metric value, showing NaN as a dash.
func formatMetric(v float64) string {
	if isNaN(v) {
		return "-"
	}
	return strconv.FormatFloat(v, 'f', 4, 64)
}

// WriteRunTable writes the fold rows of a run as an aligned text table.
func WriteRunTable(w io.Writer, run *RunMetrics) error {
	if _, err := fmt.Fprintf(w, "Model %s\n\n", run.Model); err != nil {
		return fmt.Errorf("writing run header: %w", err)
	}
	if _, err := fmt.Fprintf(w, "%-10s %8s %8s %8s %8s %8s %8s %8s %8s %6s %6s %8s\n",
		"note", "loss", "acc",
		"prec0", "prec1", "rec0", "rec1", "f1sc0", "f1sc1",
		"sup0", "sup1", "mcc"); err != nil {
		return fmt.Errorf("writing run header: %w", err)
	}

	for i := range run.Rows {
		r := &run.Rows[i]
		if _, err := fmt.Fprintf(w, "%-10s %8s %8s %8s %8s %8s %8s %8s %8s %6d %6d %8s\n",
			r.Note,
			formatMetric(r.Loss), formatMetric(r.Accuracy),
			formatMetric(r.Control.Precision), formatMetric(r.Condition.Precision),
			formatMetric(r.Control.Recall), formatMetric(r.Condition.Recall),
			formatMetric(r.Control.F1), formatMetric(r.Condition.F1),
			r.Control.Support, r.Condition.Support,
			formatMetric(r.MCC)); err != nil {
			return fmt.Errorf("writing run row: %w", err)
		}
	}

	return nil
}

// WriteRunCsv writes the fold rows of a run as CSV.
func WriteRunCsv(w io.Writer, run *RunMetrics) error {
	cw := csv.NewWriter(w)

	header := []string{"model_name", "note", "loss", "acc",
		"prec0", "prec1", "rec0", "rec1", "f1sc0", "f1sc1", "sup0", "sup1", "mcc"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing run csv header: %w", err)
	}

	for i := range run.Rows {
		r := &run.Rows[i]
		row := []string{
			r.Model, r.Note,
			formatMetric(r.Loss), formatMetric(r.Accuracy),
			formatMetric(r.Control.Precision), formatMetric(r.Condition.Precision),
			formatMetric(r.Control.Recall), formatMetric(r.Condition.Recall),
			formatMetric(r.Control.F1), formatMetric(r.Condition.F1),
			strconv.Itoa(r.Control.Support), strconv.Itoa(r.Condition.Support),
			formatMetric(r.MCC),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing run csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteSummaryTable writes the cross-model comparison table.
func WriteSummaryTable(w io.Writer, summaries []ModelSummary) error {
	if _, err := fmt.Fprintf(w, "%-24s %8s %8s %8s %8s %8s\n",
		"model", "loss", "acc", "prec", "rec", "f1sc"); err != nil {
		return fmt.Errorf("writing summary header: %w", err)
	}

	for i := range summaries {
		s := &summaries[i]
		if _, err := fmt.Fprintf(w, "%-24s %8s %8s %8s %8s %8s\n",
			s.Model,
			formatMetric(s.Loss), formatMetric(s.Accuracy),
			formatMetric(s.Precision), formatMetric(s.Recall), formatMetric(s.F1)); err != nil {
			return fmt.Errorf("writing summary row: %w", err)
		}
	}

	return nil
}

// WriteClassBreakdown writes a per-class metric breakdown as text.
func WriteClassBreakdown(w io.Writer, rows []ClassRow) error {
	if _, err := fmt.Fprintf(w, "%-12s %8s %8s %8s %8s\n",
		"class", "prec", "rec", "f1sc", "sup"); err != nil {
		return fmt.Errorf("writing breakdown header: %w", err)
	}

	for i := range rows {
		r := &rows[i]
		if _, err := fmt.Fprintf(w, "%-12s %8s %8s %8s %8.1f\n",
			r.Note,
			formatMetric(r.Precision), formatMetric(r.Recall), formatMetric(r.F1),
			r.Support); err != nil {
			return fmt.Errorf("writing breakdown row: %w", err)
		}
	}

	return nil
}
