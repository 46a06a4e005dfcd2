package scores

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleHeader = "number,days,gender,age,afftype,melanch,inpatient,edu,marriage,work,madrs1,madrs2\n"

func TestParseNumber(t *testing.T) {
	t.Parallel()

	group, index, err := ParseNumber("condition_12")
	require.NoError(t, err)
	assert.Equal(t, GroupCondition, group)
	assert.Equal(t, 12, index)

	group, index, err = ParseNumber("control_5")
	require.NoError(t, err)
	assert.Equal(t, GroupControl, group)
	assert.Equal(t, 5, index)

	for _, bad := range []string{"", "condition", "patient_3", "control_zero", "control_0", "control_-1"} {
		_, _, err := ParseNumber(bad)
		assert.Error(t, err, "identifier %q should be rejected", bad)
	}
}

func TestReadConditionAndControl(t *testing.T) {
	t.Parallel()

	data := sampleHeader +
		"condition_1,11,2,35-39,2.0,2.0,2.0,6-10,1.0,2.0,19.0,19.0\n" +
		"control_1,32,1,50-54,,,,,,,,\n"

	records, err := Read(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, records, 2)

	cond := records[0]
	assert.Equal(t, "condition_1", cond.Number)
	assert.Equal(t, GroupCondition, cond.Group)
	assert.Equal(t, 1, cond.Index)
	assert.Equal(t, 11, cond.Days)
	assert.Equal(t, GenderMale, cond.Gender)
	assert.Equal(t, "35-39", cond.Age)
	assert.Equal(t, AffTypeUnipolar, cond.AffType)
	assert.Equal(t, MelancholiaAbsent, cond.Melancholia)
	assert.Equal(t, CareOutpatient, cond.CareSetting)
	assert.Equal(t, "6-10", cond.Education)
	assert.Equal(t, MaritalMarried, cond.Marriage)
	assert.Equal(t, WorkNotWorking, cond.Work)
	require.True(t, cond.HasMADRS())
	assert.InDelta(t, 19.0, *cond.MADRS1, 0.001)
	assert.InDelta(t, 19.0, *cond.MADRS2, 0.001)

	delta, ok := cond.MADRSDelta()
	require.True(t, ok)
	assert.InDelta(t, 0.0, delta, 0.001)

	ctrl := records[1]
	assert.Equal(t, GroupControl, ctrl.Group)
	assert.Equal(t, GenderFemale, ctrl.Gender)
	assert.Equal(t, AffTypeUnknown, ctrl.AffType)
	assert.Nil(t, ctrl.MADRS1)
	assert.Nil(t, ctrl.MADRS2)
	assert.False(t, ctrl.HasMADRS())
}

func TestReadShortControlRow(t *testing.T) {
	t.Parallel()

	// The published file pads control rows with fewer columns in some exports
	data := sampleHeader + "control_3,13,1,45-49\n"

	records, err := Read(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 13, records[0].Days)
	assert.Equal(t, AffTypeUnknown, records[0].AffType)
}

func TestReadFloatFormDays(t *testing.T) {
	t.Parallel()

	// Some exports store the day count in float form, like the coded fields
	data := sampleHeader + "condition_1,11.0,2.0,35-39,2.0,2.0,2.0,6-10,1.0,2.0,19,19\n"

	records, err := Read(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 11, records[0].Days)
	assert.Equal(t, GenderFemale, records[0].Gender)
}

func TestReadReorderedColumns(t *testing.T) {
	t.Parallel()

	data := "days,number,gender,age,afftype,melanch,inpatient,edu,marriage,work,madrs1,madrs2\n" +
		"18,condition_2,1,40-44,1,1,1,11-15,2,1,24,11\n"

	records, err := Read(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "condition_2", records[0].Number)
	assert.Equal(t, 18, records[0].Days)
	assert.Equal(t, AffTypeBipolarII, records[0].AffType)
	assert.Equal(t, MelancholiaPresent, records[0].Melancholia)
	assert.Equal(t, CareInpatient, records[0].CareSetting)
}

func TestReadRejections(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		data string
		want string
	}{
		{
			name: "missing column",
			data: "number,days,gender\ncontrol_1,5,1\n",
			want: "missing column",
		},
		{
			name: "duplicate identifier",
			data: sampleHeader + "control_1,5,1,20-24,,,,,,,,\ncontrol_1,6,2,25-29,,,,,,,,\n",
			want: "duplicate patient identifier",
		},
		{
			name: "control with clinical values",
			data: sampleHeader + "control_2,5,1,20-24,1,1,1,6-10,1,1,20,18\n",
			want: "carries clinical values",
		},
		{
			name: "afftype code out of range",
			data: sampleHeader + "condition_1,5,1,20-24,4,1,1,6-10,1,1,20,18\n",
			want: "outside documented values",
		},
		{
			name: "fractional code",
			data: sampleHeader + "condition_1,5,1,20-24,1.5,1,1,6-10,1,1,20,18\n",
			want: "outside documented values",
		},
		{
			name: "madrs above instrument range",
			data: sampleHeader + "condition_1,5,1,20-24,1,1,1,6-10,1,1,61,18\n",
			want: "outside instrument range",
		},
		{
			name: "negative days",
			data: sampleHeader + "condition_1,-5,1,20-24,1,1,1,6-10,1,1,20,18\n",
			want: "negative days",
		},
		{
			name: "fractional days",
			data: sampleHeader + "condition_1,11.5,1,20-24,1,1,1,6-10,1,1,20,18\n",
			want: "fractional days",
		},
		{
			name: "unknown group prefix",
			data: sampleHeader + "patient_1,5,1,20-24,1,1,1,6-10,1,1,20,18\n",
			want: "unknown group",
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := Read(strings.NewReader(tc.data))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	madrs := func(v float64) *float64 { return &v }

	valid := Record{
		Number: "condition_7", Group: GroupCondition, Index: 7, Days: 14,
		Gender: GenderFemale, Age: "30-34", AffType: AffTypeBipolarII,
		Melancholia: MelancholiaAbsent, CareSetting: CareOutpatient,
		Education: "11-15", Marriage: MaritalMarried, Work: WorkWorking,
		MADRS1: madrs(22), MADRS2: madrs(15),
	}
	require.NoError(t, Validate(&valid))

	badAge := valid
	badAge.Age = "thirty"
	assert.ErrorContains(t, Validate(&badAge), "age bracket")

	badScore := valid
	badScore.MADRS1 = madrs(-1)
	assert.ErrorContains(t, Validate(&badScore), "instrument range")

	control := Record{Number: "control_2", Group: GroupControl, Index: 2, Days: 20, Gender: GenderMale, Age: "45-49"}
	require.NoError(t, Validate(&control))

	control.MADRS1 = madrs(10)
	assert.ErrorContains(t, Validate(&control), "clinical values")
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	madrs := func(v float64) *float64 { return &v }

	records := []Record{
		{
			Number: "condition_1", Group: GroupCondition, Days: 11, Gender: GenderMale,
			AffType: AffTypeUnipolar, Melancholia: MelancholiaPresent, CareSetting: CareInpatient,
			MADRS1: madrs(24), MADRS2: madrs(20),
		},
		{
			Number: "condition_2", Group: GroupCondition, Days: 18, Gender: GenderFemale,
			AffType: AffTypeBipolarII, CareSetting: CareOutpatient,
			MADRS1: madrs(18), MADRS2: madrs(16),
		},
		{Number: "control_1", Group: GroupControl, Days: 32, Gender: GenderFemale},
	}

	s := Summarize(records)
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 2, s.Conditions)
	assert.Equal(t, 1, s.Controls)
	assert.Equal(t, 61, s.TotalDays)
	assert.Equal(t, 2, s.Female)
	assert.Equal(t, 1, s.Male)
	assert.Equal(t, 1, s.Unipolar)
	assert.Equal(t, 1, s.BipolarII)
	assert.Equal(t, 1, s.Melancholic)
	assert.Equal(t, 1, s.Inpatients)
	assert.Equal(t, 1, s.Outpatients)
	assert.Equal(t, 2, s.Scored)
	assert.InDelta(t, 21.0, s.MADRSStartMean, 0.001)
	assert.InDelta(t, 18.0, s.MADRSEndMean, 0.001)
	assert.InDelta(t, -3.0, s.MADRSDeltaMean, 0.001)
}
