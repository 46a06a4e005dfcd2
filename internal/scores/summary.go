package scores

// Summary aggregates the cohort-level statistics of a scores file.
type Summary struct {
	Total      int // number of subjects
	Conditions int // subjects in the condition group
	Controls   int // subjects in the control group
	TotalDays  int // measurement days across all subjects

	Female int
	Male   int

	BipolarII   int
	Unipolar    int
	BipolarI    int
	Melancholic int
	Inpatients  int
	Outpatients int

	// MADRS statistics, condition group only
	Scored         int     // condition subjects with both scores present
	MADRSStartMean float64 // mean score when measurement started
	MADRSEndMean   float64 // mean score when measurement ended
	MADRSDeltaMean float64 // mean change over the measurement period
}

// Summarize computes cohort statistics over a set of records.
func Summarize(records []Record) Summary {
	var s Summary
	var startSum, endSum float64

	for i := range records {
		r := &records[i]
		s.Total++
		s.TotalDays += r.Days

		switch r.Group {
		case GroupCondition:
			s.Conditions++
		case GroupControl:
			s.Controls++
		}

		switch r.Gender {
		case GenderFemale:
			s.Female++
		case GenderMale:
			s.Male++
		}

		switch r.AffType {
		case AffTypeBipolarII:
			s.BipolarII++
		case AffTypeUnipolar:
			s.Unipolar++
		case AffTypeBipolarI:
			s.BipolarI++
		}

		if r.Melancholia == MelancholiaPresent {
			s.Melancholic++
		}

		switch r.CareSetting {
		case CareInpatient:
			s.Inpatients++
		case CareOutpatient:
			s.Outpatients++
		}

		if r.Group == GroupCondition && r.HasMADRS() {
			s.Scored++
			startSum += *r.MADRS1
			endSum += *r.MADRS2
		}
	}

	if s.Scored > 0 {
		s.MADRSStartMean = startSum / float64(s.Scored)
		s.MADRSEndMean = endSum / float64(s.Scored)
		s.MADRSDeltaMean = s.MADRSEndMean - s.MADRSStartMean
	}

	return s
}
