package scores

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// formatOptional renders a coded field, leaving unknown values blank.
func formatOptional(value fmt.Stringer, unknown string) string {
	s := value.String()
	if s == "unknown" {
		return unknown
	}
	return s
}

// WriteRecordsTable writes records as an aligned text table.
func WriteRecordsTable(w io.Writer, records []Record) error {
	if _, err := fmt.Fprintf(w, "%-14s %5s  %-8s %-6s %-20s %-14s %-10s\n",
		"Number", "Days", "Gender", "Age", "Afftype", "Melancholia", "Setting"); err != nil {
		return fmt.Errorf("writing table header: %w", err)
	}

	for i := range records {
		r := &records[i]
		if _, err := fmt.Fprintf(w, "%-14s %5d  %-8s %-6s %-20s %-14s %-10s\n",
			r.Number, r.Days,
			formatOptional(r.Gender, "-"),
			r.Age,
			formatOptional(r.AffType, "-"),
			formatOptional(r.Melancholia, "-"),
			formatOptional(r.CareSetting, "-")); err != nil {
			return fmt.Errorf("writing table row: %w", err)
		}
	}

	return nil
}

// WriteRecordsCsv writes records in the published column layout.
func WriteRecordsCsv(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	for i := range records {
		r := &records[i]
		row := []string{
			r.Number,
			strconv.Itoa(r.Days),
			formatCode(int(r.Gender)),
			r.Age,
			formatCode(int(r.AffType)),
			formatCode(int(r.Melancholia)),
			formatCode(int(r.CareSetting)),
			r.Education,
			formatCode(int(r.Marriage)),
			formatCode(int(r.Work)),
			formatScore(r.MADRS1),
			formatScore(r.MADRS2),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteSummaryTable writes a cohort summary as human-readable text.
func WriteSummaryTable(w io.Writer, s *Summary) error {
	lines := []string{
		fmt.Sprintf("Subjects:          %d (%d condition, %d control)", s.Total, s.Conditions, s.Controls),
		fmt.Sprintf("Measured days:     %d", s.TotalDays),
		fmt.Sprintf("Gender:            %d female, %d male", s.Female, s.Male),
		fmt.Sprintf("Afftype:           %d bipolar II, %d unipolar, %d bipolar I", s.BipolarII, s.Unipolar, s.BipolarI),
		fmt.Sprintf("Melancholia:       %d", s.Melancholic),
		fmt.Sprintf("Care setting:      %d inpatient, %d outpatient", s.Inpatients, s.Outpatients),
	}

	if s.Scored > 0 {
		lines = append(lines,
			fmt.Sprintf("MADRS (n=%d):      start %.1f, end %.1f, delta %+.1f",
				s.Scored, s.MADRSStartMean, s.MADRSEndMean, s.MADRSDeltaMean))
	}

	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("writing summary: %w", err)
		}
	}
	return nil
}

// WriteSummaryCsv writes a cohort summary as a two-column CSV of metric,value.
func WriteSummaryCsv(w io.Writer, s *Summary) error {
	cw := csv.NewWriter(w)

	rows := [][]string{
		{"metric", "value"},
		{"subjects", strconv.Itoa(s.Total)},
		{"condition", strconv.Itoa(s.Conditions)},
		{"control", strconv.Itoa(s.Controls)},
		{"measured_days", strconv.Itoa(s.TotalDays)},
		{"female", strconv.Itoa(s.Female)},
		{"male", strconv.Itoa(s.Male)},
		{"bipolar_ii", strconv.Itoa(s.BipolarII)},
		{"unipolar", strconv.Itoa(s.Unipolar)},
		{"bipolar_i", strconv.Itoa(s.BipolarI)},
		{"melancholia", strconv.Itoa(s.Melancholic)},
		{"inpatient", strconv.Itoa(s.Inpatients)},
		{"outpatient", strconv.Itoa(s.Outpatients)},
		{"madrs_scored", strconv.Itoa(s.Scored)},
		{"madrs_start_mean", strconv.FormatFloat(s.MADRSStartMean, 'f', 2, 64)},
		{"madrs_end_mean", strconv.FormatFloat(s.MADRSEndMean, 'f', 2, 64)},
		{"madrs_delta_mean", strconv.FormatFloat(s.MADRSDeltaMean, 'f', 2, 64)},
	}

	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing summary csv: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatCode(code int) string {
	if code == 0 {
		return ""
	}
	return strconv.Itoa(code)
}

func formatScore(score *float64) string {
	if score == nil {
		return ""
	}
	return strconv.FormatFloat(*score, 'f', -1, 64)
}
