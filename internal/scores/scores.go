// Package scores models the clinical metadata file of the depression-monitoring
// study: one row per subject with demographic codes and MADRS severity scores.
package scores

import (
	"fmt"
	"strconv"
	"strings"
)

// Group identifies which arm of the study a subject belongs to.
type Group string

const (
	GroupCondition Group = "condition" // depressed subjects
	GroupControl   Group = "control"   // non-depressed controls
)

// Valid reports whether the group is one of the two study arms.
func (g Group) Valid() bool {
	return g == GroupCondition || g == GroupControl
}

// Gender is the sex code from the scores file.
type Gender int

const (
	GenderUnknown Gender = 0
	GenderFemale  Gender = 1
	GenderMale    Gender = 2
)

func (g Gender) String() string {
	switch g {
	case GenderFemale:
		return "female"
	case GenderMale:
		return "male"
	default:
		return "unknown"
	}
}

// Valid reports whether the code is documented or explicitly unknown.
func (g Gender) Valid() bool {
	return g >= GenderUnknown && g <= GenderMale
}

// AffType is the affective disorder subtype code.
type AffType int

const (
	AffTypeUnknown   AffType = 0
	AffTypeBipolarII AffType = 1
	AffTypeUnipolar  AffType = 2
	AffTypeBipolarI  AffType = 3
)

func (a AffType) String() string {
	switch a {
	case AffTypeBipolarII:
		return "bipolar II"
	case AffTypeUnipolar:
		return "unipolar depressive"
	case AffTypeBipolarI:
		return "bipolar I"
	default:
		return "unknown"
	}
}

func (a AffType) Valid() bool {
	return a >= AffTypeUnknown && a <= AffTypeBipolarI
}

// Melancholia is the melancholia status code.
type Melancholia int

const (
	MelancholiaUnknown Melancholia = 0
	MelancholiaPresent Melancholia = 1
	MelancholiaAbsent  Melancholia = 2
)

func (m Melancholia) String() string {
	switch m {
	case MelancholiaPresent:
		return "melancholia"
	case MelancholiaAbsent:
		return "no melancholia"
	default:
		return "unknown"
	}
}

func (m Melancholia) Valid() bool {
	return m >= MelancholiaUnknown && m <= MelancholiaAbsent
}

// CareSetting is the inpatient/outpatient code.
type CareSetting int

const (
	CareSettingUnknown CareSetting = 0
	CareInpatient      CareSetting = 1
	CareOutpatient     CareSetting = 2
)

func (c CareSetting) String() string {
	switch c {
	case CareInpatient:
		return "inpatient"
	case CareOutpatient:
		return "outpatient"
	default:
		return "unknown"
	}
}

func (c CareSetting) Valid() bool {
	return c >= CareSettingUnknown && c <= CareOutpatient
}

// MaritalStatus is the marital status code.
type MaritalStatus int

const (
	MaritalUnknown MaritalStatus = 0
	MaritalMarried MaritalStatus = 1 // married or cohabiting
	MaritalSingle  MaritalStatus = 2
)

func (m MaritalStatus) String() string {
	switch m {
	case MaritalMarried:
		return "married or cohabiting"
	case MaritalSingle:
		return "single"
	default:
		return "unknown"
	}
}

func (m MaritalStatus) Valid() bool {
	return m >= MaritalUnknown && m <= MaritalSingle
}

// WorkStatus is the employment status code.
type WorkStatus int

const (
	WorkUnknown    WorkStatus = 0
	WorkWorking    WorkStatus = 1 // working or studying
	WorkNotWorking WorkStatus = 2 // unemployed, sick leave or pension
)

func (w WorkStatus) String() string {
	switch w {
	case WorkWorking:
		return "working or studying"
	case WorkNotWorking:
		return "unemployed/sick leave/pension"
	default:
		return "unknown"
	}
}

func (w WorkStatus) Valid() bool {
	return w >= WorkUnknown && w <= WorkNotWorking
}

// MADRS score bounds of the instrument.
const (
	MADRSMin = 0
	MADRSMax = 60
)

// Record is one row of the scores file. Control subjects carry no clinical
// codes or MADRS scores, those fields stay at their unknown zero value.
type Record struct {
	Number      string        // patient identifier as published, e.g. "condition_12"
	Group       Group         // study arm derived from Number
	Index       int           // numeric suffix derived from Number
	Days        int           // count of measurement days
	Gender      Gender        // sex code
	Age         string        // age bracket, e.g. "35-39"
	AffType     AffType       // affective disorder subtype
	Melancholia Melancholia   // melancholia status
	CareSetting CareSetting   // inpatient or outpatient
	Education   string        // education bracket in grouped years, e.g. "11-15"
	Marriage    MaritalStatus // marital status
	Work        WorkStatus    // employment status
	MADRS1      *float64      // MADRS score when measurement started
	MADRS2      *float64      // MADRS score when measurement ended
}

// HasMADRS reports whether both severity scores are present.
func (r *Record) HasMADRS() bool {
	return r.MADRS1 != nil && r.MADRS2 != nil
}

// MADRSDelta returns the change in MADRS score over the measurement period.
// It returns false when either score is missing.
func (r *Record) MADRSDelta() (float64, bool) {
	if !r.HasMADRS() {
		return 0, false
	}
	return *r.MADRS2 - *r.MADRS1, true
}

// ParseNumber splits a published patient identifier into its study group and
// numeric index, e.g. "control_5" into (GroupControl, 5).
func ParseNumber(number string) (Group, int, error) {
	group, suffix, found := strings.Cut(number, "_")
	if !found {
		return "", 0, fmt.Errorf("patient identifier %q has no group prefix", number)
	}

	switch Group(group) {
	case GroupCondition, GroupControl:
	default:
		return "", 0, fmt.Errorf("patient identifier %q has unknown group %q", number, group)
	}

	index, err := strconv.Atoi(suffix)
	if err != nil || index < 1 {
		return "", 0, fmt.Errorf("patient identifier %q has invalid index %q", number, suffix)
	}

	return Group(group), index, nil
}
