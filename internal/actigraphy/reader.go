package actigraphy

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ng-daniel/depresjon-go/internal/errors"
)

// ReadFile parses an actigraphy file from disk. The subject ID is taken from
// the file name, e.g. condition/condition_12.csv yields condition_12.
func ReadFile(path string) (*Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryFileIO).
			Component("actigraphy").
			FileContext(path, 0).
			Build()
	}
	defer f.Close()

	subjectID := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	series, err := Read(f, subjectID)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return series, nil
}

// Read parses timestamp,date,activity CSV data into a series.
func Read(r io.Reader, subjectID string) (*Series, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryFileParsing).
			Component("actigraphy").
			Context("operation", "read-header").
			Build()
	}
	if err := checkHeader(header); err != nil {
		return nil, err
	}

	series := &Series{SubjectID: subjectID}

	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.New(err).
				Category(errors.CategoryFileParsing).
				Component("actigraphy").
				Context("line", line).
				Build()
		}

		sample, err := parseSample(row)
		if err != nil {
			return nil, errors.Newf("line %d: %w", line, err).
				Category(errors.CategoryActigraphy).
				Component("actigraphy").
				Build()
		}

		series.Samples = append(series.Samples, sample)
	}

	return series, nil
}

func checkHeader(header []string) error {
	expected := []string{"timestamp", "date", "activity"}
	if len(header) != len(expected) {
		return errors.Newf("actigraphy header has %d columns, want %d", len(header), len(expected)).
			Category(errors.CategoryFileParsing).
			Component("actigraphy").
			Build()
	}
	for i, name := range expected {
		if strings.ToLower(strings.TrimSpace(header[i])) != name {
			return errors.Newf("actigraphy header column %d is %q, want %q", i, header[i], name).
				Category(errors.CategoryFileParsing).
				Component("actigraphy").
				Build()
		}
	}
	return nil
}

func parseSample(row []string) (Sample, error) {
	if len(row) != 3 {
		return Sample{}, fmt.Errorf("row has %d fields, want 3", len(row))
	}

	timestamp, err := parseTimestamp(strings.TrimSpace(row[0]))
	if err != nil {
		return Sample{}, err
	}

	date := strings.TrimSpace(row[1])
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return Sample{}, fmt.Errorf("invalid date %q", date)
	}

	// Activity counts are non-negative integers, some exports store them as
	// floats ("0.0")
	activityField := strings.TrimSpace(row[2])
	activityFloat, err := strconv.ParseFloat(activityField, 64)
	if err != nil {
		return Sample{}, fmt.Errorf("invalid activity value %q", activityField)
	}
	activity := int(activityFloat)
	if float64(activity) != activityFloat {
		return Sample{}, fmt.Errorf("fractional activity value %q", activityField)
	}
	if activity < 0 {
		return Sample{}, fmt.Errorf("negative activity value %d", activity)
	}

	return Sample{Timestamp: timestamp, Date: date, Activity: activity}, nil
}

func parseTimestamp(value string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", value)
}
