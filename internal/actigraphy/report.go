package actigraphy

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// WriteFeaturesTable writes per-day features as an aligned text table.
func WriteFeaturesTable(w io.Writer, subjectID string, features []DayFeatures) error {
	if _, err := fmt.Fprintf(w, "Subject %s, %d days\n\n", subjectID, len(features)); err != nil {
		return fmt.Errorf("writing table header: %w", err)
	}
	if _, err := fmt.Fprintf(w, "%-12s %7s %10s %10s %7s %7s\n",
		"Date", "Count", "Mean", "StdDev", "Zero%", "Peak"); err != nil {
		return fmt.Errorf("writing table header: %w", err)
	}

	for i := range features {
		f := &features[i]
		if _, err := fmt.Fprintf(w, "%-12s %7d %10.2f %10.2f %6.1f%% %7d\n",
			f.Date, f.Count, f.Mean, f.StdDev, f.ZeroProportion*100, f.Peak); err != nil {
			return fmt.Errorf("writing table row: %w", err)
		}
	}

	return nil
}

// WriteFeaturesCsv writes per-day features as CSV.
func WriteFeaturesCsv(w io.Writer, subjectID string, features []DayFeatures) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"subject", "date", "count", "mean", "stddev", "zero_proportion", "peak"}); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	for i := range features {
		f := &features[i]
		row := []string{
			subjectID,
			f.Date,
			strconv.Itoa(f.Count),
			strconv.FormatFloat(f.Mean, 'f', 4, 64),
			strconv.FormatFloat(f.StdDev, 'f', 4, 64),
			strconv.FormatFloat(f.ZeroProportion, 'f', 4, 64),
			strconv.Itoa(f.Peak),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
