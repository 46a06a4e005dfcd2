// interfaces.go: this code defines the interface for the database operations
package datastore

import (
	"fmt"
	"time"

	"github.com/ng-daniel/depresjon-go/internal/conf"
	"gorm.io/gorm"
)

// Interface abstracts the underlying database implementation and defines the
// operations the rest of the application may perform.
type Interface interface {
	Open() error
	Close() error
	SetMetrics(m *Metrics)
	SaveSubject(subject *Subject, days []ActivityDay) error
	GetSubject(number string) (Subject, error)
	ListSubjects(group string) ([]Subject, error)
	CountSubjects() (int64, error)
	DailyFeatures(number string) ([]ActivityDay, error)
	// analytics
	ActivityByDate(startDate, endDate string) ([]DailyActivity, error)
	GroupActivitySummary() ([]GroupActivity, error)
	// evaluation runs
	SaveEvaluation(run *EvaluationRun, folds []FoldScore) error
	ListEvaluations() ([]EvaluationRun, error)
	GetEvaluation(runID string) (EvaluationRun, error)
}

// DataStore implements Interface using a GORM database.
type DataStore struct {
	DB      *gorm.DB // GORM database instance
	metrics *Metrics // optional, set via SetMetrics
}

// New creates a new datastore instance based on the provided configuration.
func New(settings *conf.Settings) Interface {
	switch {
	case settings.Output.SQLite.Enabled:
		return &SQLiteStore{
			Settings: settings,
		}
	case settings.Output.MySQL.Enabled:
		return &MySQLStore{
			Settings: settings,
		}
	default:
		return nil
	}
}

// Close closes the underlying database connection.
func (ds *DataStore) Close() error {
	if ds.DB == nil {
		return nil
	}
	sqlDB, err := ds.DB.DB()
	if err != nil {
		return fmt.Errorf("getting database handle: %w", err)
	}
	return sqlDB.Close()
}

// SaveSubject stores a subject and its activity days as a single transaction.
// An existing subject with the same number is replaced together with its days.
func (ds *DataStore) SaveSubject(subject *Subject, days []ActivityDay) (err error) {
	start := time.Now()
	defer func() { ds.recordOperation("save_subject", start, err) }()

	return ds.DB.Transaction(func(tx *gorm.DB) error {
		var existing Subject
		err := tx.Where("number = ?", subject.Number).First(&existing).Error
		switch {
		case err == nil:
			if err := tx.Where("subject_id = ?", existing.ID).Delete(&ActivityDay{}).Error; err != nil {
				return fmt.Errorf("deleting stale activity days for %s: %w", subject.Number, err)
			}
			if err := tx.Delete(&existing).Error; err != nil {
				return fmt.Errorf("deleting stale subject %s: %w", subject.Number, err)
			}
		case err != gorm.ErrRecordNotFound:
			return fmt.Errorf("checking for existing subject %s: %w", subject.Number, err)
		}

		if err := tx.Create(subject).Error; err != nil {
			return fmt.Errorf("saving subject %s: %w", subject.Number, err)
		}

		for i := range days {
			days[i].SubjectID = subject.ID
			if err := tx.Create(&days[i]).Error; err != nil {
				return fmt.Errorf("saving activity day %s for %s: %w", days[i].Date, subject.Number, err)
			}
		}

		return nil
	})
}

// GetSubject retrieves a subject by its published identifier.
func (ds *DataStore) GetSubject(number string) (Subject, error) {
	var subject Subject
	if err := ds.DB.Where("number = ?", number).First(&subject).Error; err != nil {
		return Subject{}, fmt.Errorf("getting subject %s: %w", number, err)
	}
	return subject, nil
}

// ListSubjects retrieves subjects, optionally filtered by study group, ordered
// by group and numeric index.
func (ds *DataStore) ListSubjects(group string) ([]Subject, error) {
	var subjects []Subject

	query := ds.DB.Order("study_group, subject_index")
	if group != "" {
		query = query.Where("study_group = ?", group)
	}

	if err := query.Find(&subjects).Error; err != nil {
		return nil, fmt.Errorf("listing subjects: %w", err)
	}
	return subjects, nil
}

// CountSubjects returns the number of stored subjects.
func (ds *DataStore) CountSubjects() (int64, error) {
	var count int64
	if err := ds.DB.Model(&Subject{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("counting subjects: %w", err)
	}
	return count, nil
}

// DailyFeatures retrieves a subject's activity days in date order.
func (ds *DataStore) DailyFeatures(number string) ([]ActivityDay, error) {
	subject, err := ds.GetSubject(number)
	if err != nil {
		return nil, err
	}

	var days []ActivityDay
	if err := ds.DB.Where("subject_id = ?", subject.ID).Order("date").Find(&days).Error; err != nil {
		return nil, fmt.Errorf("getting activity days for %s: %w", number, err)
	}
	return days, nil
}

// SaveEvaluation stores an evaluation run and its fold rows as a single
// transaction.
func (ds *DataStore) SaveEvaluation(run *EvaluationRun, folds []FoldScore) (err error) {
	start := time.Now()
	defer func() { ds.recordOperation("save_evaluation", start, err) }()

	return ds.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(run).Error; err != nil {
			return fmt.Errorf("saving evaluation run %s: %w", run.RunID, err)
		}

		for i := range folds {
			folds[i].EvaluationRunID = run.ID
			if err := tx.Create(&folds[i]).Error; err != nil {
				return fmt.Errorf("saving fold row %s for run %s: %w", folds[i].Note, run.RunID, err)
			}
		}

		return nil
	})
}

// ListEvaluations retrieves all stored runs, newest first, without fold rows.
func (ds *DataStore) ListEvaluations() ([]EvaluationRun, error) {
	var runs []EvaluationRun
	if err := ds.DB.Order("created_at desc").Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("listing evaluation runs: %w", err)
	}
	return runs, nil
}

// GetEvaluation retrieves a run by its UUID including fold rows.
func (ds *DataStore) GetEvaluation(runID string) (EvaluationRun, error) {
	var run EvaluationRun
	if err := ds.DB.Preload("Folds").Where("run_id = ?", runID).First(&run).Error; err != nil {
		return EvaluationRun{}, fmt.Errorf("getting evaluation run %s: %w", runID, err)
	}
	return run, nil
}
