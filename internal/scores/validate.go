package scores

import (
	"fmt"
	"regexp"
	"strings"
)

// bracketPattern matches the grouped ranges used by the age and education
// columns, e.g. "20-24" or "6-10".
var bracketPattern = regexp.MustCompile(`^\d{1,2}-\d{1,2}$`)

// Validate checks a record against the documented column domains. The reader
// already rejects structural problems, Validate covers records built in code
// or loaded from storage.
func Validate(r *Record) error {
	var errs []string

	if strings.TrimSpace(r.Number) == "" {
		errs = append(errs, "patient identifier is empty")
	}

	switch r.Group {
	case GroupCondition, GroupControl:
	default:
		errs = append(errs, fmt.Sprintf("unknown group %q", r.Group))
	}

	if r.Days < 0 {
		errs = append(errs, fmt.Sprintf("negative days %d", r.Days))
	}

	if !r.Gender.Valid() {
		errs = append(errs, fmt.Sprintf("gender code %d outside documented values", r.Gender))
	}
	if !r.AffType.Valid() {
		errs = append(errs, fmt.Sprintf("afftype code %d outside documented values", r.AffType))
	}
	if !r.Melancholia.Valid() {
		errs = append(errs, fmt.Sprintf("melanch code %d outside documented values", r.Melancholia))
	}
	if !r.CareSetting.Valid() {
		errs = append(errs, fmt.Sprintf("inpatient code %d outside documented values", r.CareSetting))
	}
	if !r.Marriage.Valid() {
		errs = append(errs, fmt.Sprintf("marriage code %d outside documented values", r.Marriage))
	}
	if !r.Work.Valid() {
		errs = append(errs, fmt.Sprintf("work code %d outside documented values", r.Work))
	}

	if r.Age != "" && !bracketPattern.MatchString(r.Age) {
		errs = append(errs, fmt.Sprintf("age bracket %q is not a grouped range", r.Age))
	}
	if r.Education != "" && !bracketPattern.MatchString(r.Education) {
		errs = append(errs, fmt.Sprintf("education bracket %q is not a grouped range", r.Education))
	}

	for name, score := range map[string]*float64{"madrs1": r.MADRS1, "madrs2": r.MADRS2} {
		if score != nil && (*score < MADRSMin || *score > MADRSMax) {
			errs = append(errs, fmt.Sprintf("%s score %g outside instrument range %d..%d", name, *score, MADRSMin, MADRSMax))
		}
	}

	if r.Group == GroupControl && (r.AffType != AffTypeUnknown || r.MADRS1 != nil || r.MADRS2 != nil) {
		errs = append(errs, "control subject carries clinical values")
	}

	if len(errs) > 0 {
		return fmt.Errorf("record %s: %s", r.Number, strings.Join(errs, "; "))
	}
	return nil
}
