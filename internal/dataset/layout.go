// Package dataset ties the pieces of the study archive together: the scores
// file plus one actigraphy file per subject, loaded in bulk.
package dataset

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/ng-daniel/depresjon-go/internal/conf"
	"github.com/ng-daniel/depresjon-go/internal/errors"
	"github.com/ng-daniel/depresjon-go/internal/scores"
)

// Layout describes the on-disk shape of an extracted dataset directory:
// scores.csv next to condition/ and control/ subdirectories.
type Layout struct {
	Dir        string // dataset root directory
	ScoresFile string // scores file name inside Dir
}

// NewLayout builds a layout from the configured dataset settings.
func NewLayout(settings *conf.DatasetSettings) Layout {
	return Layout{
		Dir:        settings.Dir,
		ScoresFile: settings.ScoresFile,
	}
}

// ScoresPath returns the path of the clinical metadata file.
func (l *Layout) ScoresPath() string {
	return filepath.Join(l.Dir, l.ScoresFile)
}

// SeriesPath returns the actigraphy file path for a subject,
// e.g. condition_12 maps to condition/condition_12.csv.
func (l *Layout) SeriesPath(record *scores.Record) string {
	return filepath.Join(l.Dir, string(record.Group), record.Number+".csv")
}

// Check verifies that the layout exists on disk.
func (l *Layout) Check() error {
	if _, err := os.Stat(l.ScoresPath()); err != nil {
		return errors.Newf("scores file not found at %s", l.ScoresPath()).
			Category(errors.CategoryDataset).
			Component("dataset").
			Build()
	}

	for _, group := range []scores.Group{scores.GroupCondition, scores.GroupControl} {
		dir := filepath.Join(l.Dir, string(group))
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			return errors.Newf("%s directory not found at %s", group, dir).
				Category(errors.CategoryDataset).
				Component("dataset").
				Build()
		}
	}

	return nil
}

// seriesFiles lists the subject identifiers that have an actigraphy file on
// disk, by scanning both group directories for CSV files.
func (l *Layout) seriesFiles() (map[string]bool, error) {
	found := make(map[string]bool)

	for _, group := range []scores.Group{scores.GroupCondition, scores.GroupControl} {
		dir := filepath.Join(l.Dir, string(group))
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, errors.New(err).
				Category(errors.CategoryDataset).
				Component("dataset").
				Context("directory", dir).
				Build()
		}

		for _, entry := range entries {
			name := entry.Name()
			if entry.IsDir() || !strings.HasSuffix(name, ".csv") {
				continue
			}
			found[strings.TrimSuffix(name, ".csv")] = true
		}
	}

	return found, nil
}
