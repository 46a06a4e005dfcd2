// conf/validate.go

package conf

import (
	"fmt"
	"strconv"
	"strings"
)

// ValidationError represents a collection of validation errors
type ValidationError struct {
	Errors []string
}

// Error returns a string representation of the validation errors
func (ve ValidationError) Error() string {
	return fmt.Sprintf("Validation errors: %v", ve.Errors)
}

// ValidateSettings validates the entire Settings struct
func ValidateSettings(settings *Settings) error {
	ve := ValidationError{}

	// Validate Dataset settings
	if err := validateDatasetSettings(&settings.Dataset); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	// Validate Analysis settings
	if err := validateAnalysisSettings(&settings.Analysis); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	// Validate Evaluation settings
	if err := validateEvaluationSettings(&settings.Evaluation); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	// Validate WebServer settings
	if err := validateWebServerSettings(settings); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	// If there are any errors, return the ValidationError
	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

// validateDatasetSettings validates the dataset location settings
func validateDatasetSettings(settings *DatasetSettings) error {
	var errs []string

	if strings.TrimSpace(settings.Dir) == "" {
		errs = append(errs, "dataset directory must not be empty")
	}

	if strings.TrimSpace(settings.ScoresFile) == "" {
		errs = append(errs, "dataset scores file must not be empty")
	}

	if settings.ArchiveURL != "" &&
		!strings.HasPrefix(settings.ArchiveURL, "http://") &&
		!strings.HasPrefix(settings.ArchiveURL, "https://") {
		errs = append(errs, fmt.Sprintf("dataset archive URL must be http or https, got %s", settings.ArchiveURL))
	}

	if len(errs) > 0 {
		return fmt.Errorf("dataset settings errors: %s", strings.Join(errs, "; "))
	}
	return nil
}

// validateAnalysisSettings validates the analysis and baseline settings
func validateAnalysisSettings(settings *AnalysisSettings) error {
	var errs []string

	if settings.MinSamples < 0 {
		errs = append(errs, fmt.Sprintf("minimum samples per day must not be negative, got %d", settings.MinSamples))
	}

	if settings.Workers < 0 {
		errs = append(errs, fmt.Sprintf("loader workers must not be negative, got %d", settings.Workers))
	}

	if settings.Baseline.Threshold < 0 {
		errs = append(errs, fmt.Sprintf("baseline threshold must not be negative, got %f", settings.Baseline.Threshold))
	}

	if settings.Baseline.Sensitivity <= 0 {
		errs = append(errs, fmt.Sprintf("baseline sensitivity must be positive, got %f", settings.Baseline.Sensitivity))
	}

	if settings.Baseline.Scale <= 0 {
		errs = append(errs, fmt.Sprintf("baseline scale must be positive, got %f", settings.Baseline.Scale))
	}

	if len(errs) > 0 {
		return fmt.Errorf("analysis settings errors: %s", strings.Join(errs, "; "))
	}
	return nil
}

// validateEvaluationSettings validates the classifier evaluation settings
func validateEvaluationSettings(settings *EvaluationSettings) error {
	var errs []string

	if settings.Folds < 2 {
		errs = append(errs, fmt.Sprintf("evaluation folds must be at least 2, got %d", settings.Folds))
	}

	if settings.Epsilon <= 0 || settings.Epsilon >= 0.5 {
		errs = append(errs, fmt.Sprintf("evaluation epsilon must be in (0, 0.5), got %g", settings.Epsilon))
	}

	if len(errs) > 0 {
		return fmt.Errorf("evaluation settings errors: %s", strings.Join(errs, "; "))
	}
	return nil
}

// validateWebServerSettings validates the web server settings
func validateWebServerSettings(settings *Settings) error {
	if !settings.WebServer.Enabled {
		return nil
	}

	port, err := strconv.Atoi(settings.WebServer.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("web server port must be a number between 1 and 65535, got %s", settings.WebServer.Port)
	}

	return nil
}
