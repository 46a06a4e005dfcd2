package evaluation

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ng-daniel/depresjon-go/internal/errors"
)

// predictionColumns is the expected header of an external predictions file.
var predictionColumns = []string{"subject", "fold", "actual", "predicted", "score"}

// ReadPredictionsFile parses a predictions CSV from disk.
func ReadPredictionsFile(path string) ([]Prediction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryFileIO).
			Component("evaluation").
			FileContext(path, 0).
			Build()
	}
	defer f.Close()

	preds, err := ReadPredictions(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return preds, nil
}

// ReadPredictions parses subject,fold,actual,predicted,score CSV data.
func ReadPredictions(r io.Reader) ([]Prediction, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryFileParsing).
			Component("evaluation").
			Context("operation", "read-header").
			Build()
	}
	for i, name := range predictionColumns {
		if i >= len(header) || strings.ToLower(strings.TrimSpace(header[i])) != name {
			return nil, errors.Newf("predictions header column %d should be %q", i, name).
				Category(errors.CategoryFileParsing).
				Component("evaluation").
				Build()
		}
	}

	var preds []Prediction
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.New(err).
				Category(errors.CategoryFileParsing).
				Component("evaluation").
				Context("line", line).
				Build()
		}

		pred, err := parsePrediction(row)
		if err != nil {
			return nil, errors.Newf("line %d: %w", line, err).
				Category(errors.CategoryEvaluation).
				Component("evaluation").
				Build()
		}
		preds = append(preds, pred)
	}

	if len(preds) == 0 {
		return nil, errors.Newf("predictions file contains no rows").
			Category(errors.CategoryEvaluation).
			Component("evaluation").
			Build()
	}

	return preds, nil
}

func parsePrediction(row []string) (Prediction, error) {
	if len(row) != len(predictionColumns) {
		return Prediction{}, fmt.Errorf("row has %d fields, want %d", len(row), len(predictionColumns))
	}

	subject := strings.TrimSpace(row[0])
	if subject == "" {
		return Prediction{}, fmt.Errorf("empty subject")
	}

	fold, err := strconv.Atoi(strings.TrimSpace(row[1]))
	if err != nil || fold < 0 {
		return Prediction{}, fmt.Errorf("invalid fold %q", row[1])
	}

	actual, err := parseClass(row[2], "actual")
	if err != nil {
		return Prediction{}, err
	}
	predicted, err := parseClass(row[3], "predicted")
	if err != nil {
		return Prediction{}, err
	}

	score, err := strconv.ParseFloat(strings.TrimSpace(row[4]), 64)
	if err != nil || score < 0 || score > 1 {
		return Prediction{}, fmt.Errorf("invalid score %q, want a probability in [0,1]", row[4])
	}

	return Prediction{
		Subject:   subject,
		Fold:      fold,
		Actual:    actual,
		Predicted: predicted,
		Score:     score,
	}, nil
}

func parseClass(value, name string) (Class, error) {
	code, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("invalid %s class %q", name, value)
	}
	class := Class(code)
	if !class.Valid() {
		return 0, fmt.Errorf("%s class %d is neither control (0) nor condition (1)", name, code)
	}
	return class, nil
}
