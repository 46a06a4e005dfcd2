package conf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validSettings returns settings that pass validation.
func validSettings() *Settings {
	settings := &Settings{}
	settings.Dataset.Dir = "data/"
	settings.Dataset.ScoresFile = "scores.csv"
	settings.Dataset.ArchiveURL = "https://datasets.simula.no/downloads/depresjon/depresjon.zip"
	settings.Analysis.Baseline.Threshold = 175
	settings.Analysis.Baseline.Sensitivity = 1
	settings.Analysis.Baseline.Scale = 50
	settings.Evaluation.Folds = 5
	settings.Evaluation.Epsilon = 1e-7
	settings.WebServer.Enabled = true
	settings.WebServer.Port = "8080"
	return settings
}

func TestValidateSettings(t *testing.T) {
	t.Parallel()

	require.NoError(t, ValidateSettings(validSettings()))
}

func TestValidateDatasetSettings(t *testing.T) {
	t.Parallel()

	settings := validSettings()
	settings.Dataset.Dir = " "
	err := ValidateSettings(settings)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dataset directory")

	settings = validSettings()
	settings.Dataset.ArchiveURL = "ftp://example.org/depresjon.zip"
	err = ValidateSettings(settings)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http or https")

	// An empty archive URL disables fetching and is fine
	settings = validSettings()
	settings.Dataset.ArchiveURL = ""
	assert.NoError(t, ValidateSettings(settings))
}

func TestValidateAnalysisSettings(t *testing.T) {
	t.Parallel()

	settings := validSettings()
	settings.Analysis.MinSamples = -1
	err := ValidateSettings(settings)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "minimum samples")

	settings = validSettings()
	settings.Analysis.Baseline.Scale = 0
	err = ValidateSettings(settings)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scale must be positive")
}

func TestValidateEvaluationSettings(t *testing.T) {
	t.Parallel()

	settings := validSettings()
	settings.Evaluation.Folds = 1
	err := ValidateSettings(settings)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "folds must be at least 2")

	settings = validSettings()
	settings.Evaluation.Epsilon = 0.5
	err = ValidateSettings(settings)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "epsilon")
}

func TestValidateWebServerSettings(t *testing.T) {
	t.Parallel()

	settings := validSettings()
	settings.WebServer.Port = "70000"
	err := ValidateSettings(settings)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "port")

	// A disabled web server skips port validation
	settings = validSettings()
	settings.WebServer.Enabled = false
	settings.WebServer.Port = "not-a-port"
	assert.NoError(t, ValidateSettings(settings))
}

func TestValidationErrorCollectsAll(t *testing.T) {
	t.Parallel()

	settings := validSettings()
	settings.Dataset.Dir = ""
	settings.Evaluation.Folds = 0

	err := ValidateSettings(settings)
	require.Error(t, err)

	var ve ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Len(t, ve.Errors, 2)
}
