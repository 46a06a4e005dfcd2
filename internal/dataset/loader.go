package dataset

import (
	"context"
	"log/slog"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/ng-daniel/depresjon-go/internal/actigraphy"
	"github.com/ng-daniel/depresjon-go/internal/conf"
	"github.com/ng-daniel/depresjon-go/internal/errors"
	"github.com/ng-daniel/depresjon-go/internal/logging"
	"github.com/ng-daniel/depresjon-go/internal/observability/metrics"
	"github.com/ng-daniel/depresjon-go/internal/scores"
)

// Subject pairs one clinical record with its computed per-day features.
type Subject struct {
	Record   scores.Record
	Features []actigraphy.DayFeatures
}

// MeanDailyActivity averages the per-day mean activity of the subject.
func (s *Subject) MeanDailyActivity() (float64, bool) {
	return actigraphy.MeanDailyActivity(s.Features)
}

// Loader walks a dataset layout, pairs each scores record with its actigraphy
// file and computes per-day features using a fixed worker pool.
type Loader struct {
	Layout      Layout
	MinSamples  int  // minimum samples per day, 0 keeps partial days
	Workers     int  // worker count, 0 for automatic
	SkipMissing bool // skip scores rows without a series file instead of failing

	Metrics *metrics.DatasetMetrics // optional
	log     *slog.Logger
}

// NewLoader builds a loader from the configured settings.
func NewLoader(settings *conf.Settings) *Loader {
	return &Loader{
		Layout:      NewLayout(&settings.Dataset),
		MinSamples:  settings.Analysis.MinSamples,
		Workers:     settings.Analysis.Workers,
		SkipMissing: settings.Dataset.SkipMissing,
		log:         logging.ForService("dataset"),
	}
}

// Load reads the whole dataset and returns subjects ordered by group and
// index. A series file without a scores row is always an error, a scores row
// without a series file is an error unless SkipMissing is set.
func (l *Loader) Load(ctx context.Context) ([]Subject, error) {
	if err := l.Layout.Check(); err != nil {
		return nil, err
	}

	records, err := scores.ReadFile(l.Layout.ScoresPath())
	if err != nil {
		return nil, err
	}

	known := make(map[string]bool, len(records))
	for i := range records {
		known[records[i].Number] = true
	}

	// Every series file on disk must belong to a scores row
	onDisk, err := l.Layout.seriesFiles()
	if err != nil {
		return nil, err
	}
	for number := range onDisk {
		if !known[number] {
			return nil, errors.Newf("actigraphy file %s.csv has no scores row", number).
				Category(errors.CategoryDataset).
				Component("dataset").
				Build()
		}
	}

	pending, err := l.filterMissing(records, onDisk)
	if err != nil {
		return nil, err
	}

	subjects, err := l.loadAll(ctx, pending)
	if err != nil {
		return nil, err
	}

	sort.Slice(subjects, func(i, j int) bool {
		a, b := &subjects[i].Record, &subjects[j].Record
		if a.Group != b.Group {
			return a.Group < b.Group
		}
		return a.Index < b.Index
	})

	return subjects, nil
}

// filterMissing applies the mismatch policy for scores rows without files.
func (l *Loader) filterMissing(records []scores.Record, onDisk map[string]bool) ([]scores.Record, error) {
	pending := make([]scores.Record, 0, len(records))
	for i := range records {
		if onDisk[records[i].Number] {
			pending = append(pending, records[i])
			continue
		}

		if !l.SkipMissing {
			return nil, errors.Newf("subject %s has no actigraphy file", records[i].Number).
				Category(errors.CategoryDataset).
				Component("dataset").
				Build()
		}

		if l.log != nil {
			l.log.Warn("Skipping subject without actigraphy file", "subject", records[i].Number)
		}
		if l.Metrics != nil {
			l.Metrics.RecordLoadError("missing-series")
		}
	}
	return pending, nil
}

// loadAll fans the records out to a fixed worker pool and collects results.
func (l *Loader) loadAll(ctx context.Context, records []scores.Record) ([]Subject, error) {
	numWorkers := l.Workers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	numWorkers = clampInt(numWorkers, 1, 8) // Ensure between 1 and 8 workers

	recordChan := make(chan scores.Record, 4)
	resultChan := make(chan Subject, 4)
	errorChan := make(chan error, 1)

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for record := range recordChan {
				subject, err := l.loadSubject(&record)
				if err != nil {
					select {
					case errorChan <- err:
					default:
					}
					// Keep receiving so the feeder can finish and close
					// the channel instead of blocking on a full buffer
					for range recordChan {
					}
					return
				}
				select {
				case resultChan <- subject:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	// Feed records to the workers
	go func() {
		defer close(recordChan)
		for i := range records {
			select {
			case recordChan <- records[i]:
			case <-ctx.Done():
				return
			}
		}
	}()

	// Close the result channel once all workers are done
	go func() {
		wg.Wait()
		close(resultChan)
	}()

	var subjects []Subject
	for subject := range resultChan {
		subjects = append(subjects, subject)
	}

	select {
	case err := <-errorChan:
		return nil, err
	default:
	}

	if err := ctx.Err(); err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryWorker).
			Component("dataset").
			Context("operation", "load-all").
			Build()
	}

	return subjects, nil
}

// loadSubject reads one actigraphy file and computes its day features.
func (l *Loader) loadSubject(record *scores.Record) (Subject, error) {
	start := time.Now()

	series, err := actigraphy.ReadFile(l.Layout.SeriesPath(record))
	if err != nil {
		if l.Metrics != nil {
			l.Metrics.RecordLoadError("read-series")
		}
		return Subject{}, err
	}

	features, err := actigraphy.SeriesFeatures(series, l.MinSamples)
	if err != nil {
		if l.Metrics != nil {
			l.Metrics.RecordLoadError("features")
		}
		return Subject{}, err
	}

	if l.log != nil {
		l.log.Debug("Loaded subject",
			"subject", record.Number,
			"days", len(features),
			"duration_ms", time.Since(start).Milliseconds())
	}
	if l.Metrics != nil {
		l.Metrics.RecordSubjectLoaded(string(record.Group), len(features), time.Since(start).Seconds())
	}

	return Subject{Record: *record, Features: features}, nil
}

// clampInt constrains a value to the inclusive range [minVal, maxVal].
func clampInt(value, minVal, maxVal int) int {
	if value < minVal {
		return minVal
	}
	if value > maxVal {
		return maxVal
	}
	return value
}
