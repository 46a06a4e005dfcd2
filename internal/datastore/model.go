// model.go this code defines the data model for the application
package datastore

import (
	"time"

	"github.com/ng-daniel/depresjon-go/internal/scores"
)

// Subject is one study participant: the clinical metadata row plus its
// per-day activity features.
type Subject struct {
	ID           uint   `gorm:"primaryKey"`
	Number       string `gorm:"uniqueIndex;not null"` // published identifier, e.g. "condition_12"
	StudyGroup   string `gorm:"index:idx_subjects_group"`
	SubjectIndex int
	Days         int
	Gender       int
	Age          string
	AffType      int
	Melancholia  int
	CareSetting  int
	Education    string
	Marriage     int
	Work         int
	MADRS1       *float64
	MADRS2       *float64

	ActivityDays []ActivityDay `gorm:"foreignKey:SubjectID;constraint:OnDelete:CASCADE"`
}

// ToRecord converts a stored subject back to a scores record.
func (s *Subject) ToRecord() scores.Record {
	return scores.Record{
		Number:      s.Number,
		Group:       scores.Group(s.StudyGroup),
		Index:       s.SubjectIndex,
		Days:        s.Days,
		Gender:      scores.Gender(s.Gender),
		Age:         s.Age,
		AffType:     scores.AffType(s.AffType),
		Melancholia: scores.Melancholia(s.Melancholia),
		CareSetting: scores.CareSetting(s.CareSetting),
		Education:   s.Education,
		Marriage:    scores.MaritalStatus(s.Marriage),
		Work:        scores.WorkStatus(s.Work),
		MADRS1:      s.MADRS1,
		MADRS2:      s.MADRS2,
	}
}

// SubjectFromRecord converts a scores record to its storage form.
func SubjectFromRecord(r *scores.Record) Subject {
	return Subject{
		Number:       r.Number,
		StudyGroup:   string(r.Group),
		SubjectIndex: r.Index,
		Days:         r.Days,
		Gender:       int(r.Gender),
		Age:          r.Age,
		AffType:      int(r.AffType),
		Melancholia:  int(r.Melancholia),
		CareSetting:  int(r.CareSetting),
		Education:    r.Education,
		Marriage:     int(r.Marriage),
		Work:         int(r.Work),
		MADRS1:       r.MADRS1,
		MADRS2:       r.MADRS2,
	}
}

// ActivityDay is one day of computed actigraphy features for a subject.
type ActivityDay struct {
	ID             uint   `gorm:"primaryKey"`
	SubjectID      uint   `gorm:"index;not null;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;foreignKey:SubjectID;references:ID"`
	Date           string `gorm:"index:idx_activity_days_date"`
	SampleCount    int
	MeanActivity   float64
	StdDev         float64
	ZeroProportion float64
	PeakActivity   int
}

// EvaluationRun is one stored classifier evaluation.
type EvaluationRun struct {
	ID         uint      `gorm:"primaryKey"`
	RunID      string    `gorm:"uniqueIndex;size:36;not null"` // UUID
	Model      string    `gorm:"index:idx_evaluation_runs_model"`
	Note       string
	SourceNode string
	CreatedAt  time.Time `gorm:"index"`

	Folds []FoldScore `gorm:"foreignKey:EvaluationRunID;constraint:OnDelete:CASCADE"`
}

// FoldScore is one flattened evaluation row of a run. The 0 suffix is the
// control class, the 1 suffix the condition class. Per-class metrics are
// pointers because a fold without a class has no defined precision, recall or
// F1; those rows store NULL.
type FoldScore struct {
	ID              uint   `gorm:"primaryKey"`
	EvaluationRunID uint   `gorm:"index;not null;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;foreignKey:EvaluationRunID;references:ID"`
	Note            string // "fold_N" or "wt_avg"
	Loss            float64
	Accuracy        float64
	Precision0      *float64
	Precision1      *float64
	Recall0         *float64
	Recall1         *float64
	F1Score0        *float64
	F1Score1        *float64
	Support0        int
	Support1        int
	MCC             float64
}
