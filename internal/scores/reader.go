package scores

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ng-daniel/depresjon-go/internal/errors"
)

// Column names of the scores file, in published order.
var columns = []string{
	"number", "days", "gender", "age", "afftype", "melanch",
	"inpatient", "edu", "marriage", "work", "madrs1", "madrs2",
}

// ReadFile parses a scores file from disk.
func ReadFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryFileIO).
			Component("scores").
			FileContext(path, 0).
			Build()
	}
	defer f.Close()

	records, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return records, nil
}

// Read parses scores CSV data. Columns are mapped by header name so column
// order does not matter. Blank optional fields are tolerated, malformed codes
// and duplicate identifiers are not.
func Read(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	// The published file pads control rows with blank trailing columns
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryFileParsing).
			Component("scores").
			Context("operation", "read-header").
			Build()
	}

	index, err := mapHeader(header)
	if err != nil {
		return nil, err
	}

	var records []Record
	seen := make(map[string]int)

	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.New(err).
				Category(errors.CategoryFileParsing).
				Component("scores").
				Context("line", line).
				Build()
		}

		record, err := parseRow(row, index)
		if err != nil {
			return nil, errors.Newf("line %d: %w", line, err).
				Category(errors.CategoryScores).
				Component("scores").
				Build()
		}

		if prev, dup := seen[record.Number]; dup {
			return nil, errors.Newf("line %d: duplicate patient identifier %q, first seen on line %d", line, record.Number, prev).
				Category(errors.CategoryScores).
				Component("scores").
				Build()
		}
		seen[record.Number] = line

		records = append(records, record)
	}

	return records, nil
}

// mapHeader resolves each documented column name to its position in the file.
func mapHeader(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}

	for _, name := range columns {
		if _, ok := index[name]; !ok {
			return nil, errors.Newf("scores header is missing column %q", name).
				Category(errors.CategoryFileParsing).
				Component("scores").
				Build()
		}
	}

	return index, nil
}

// field returns the trimmed cell for a column, empty when the row is short.
func field(row []string, index map[string]int, name string) string {
	i := index[name]
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func parseRow(row []string, index map[string]int) (Record, error) {
	var record Record

	record.Number = field(row, index, "number")
	if record.Number == "" {
		return Record{}, fmt.Errorf("empty patient identifier")
	}

	group, idx, err := ParseNumber(record.Number)
	if err != nil {
		return Record{}, err
	}
	record.Group = group
	record.Index = idx

	record.Days, err = parseDays(field(row, index, "days"))
	if err != nil {
		return Record{}, err
	}

	if err := parseCodes(&record, row, index); err != nil {
		return Record{}, err
	}

	record.Age = field(row, index, "age")
	record.Education = field(row, index, "edu")

	record.MADRS1, err = parseMADRS(field(row, index, "madrs1"), "madrs1")
	if err != nil {
		return Record{}, err
	}
	record.MADRS2, err = parseMADRS(field(row, index, "madrs2"), "madrs2")
	if err != nil {
		return Record{}, err
	}

	// Controls are not scored on the clinical instruments, a control row
	// carrying clinical values indicates a corrupted file
	if record.Group == GroupControl {
		if record.AffType != AffTypeUnknown || record.Melancholia != MelancholiaUnknown ||
			record.CareSetting != CareSettingUnknown || record.MADRS1 != nil || record.MADRS2 != nil {
			return Record{}, fmt.Errorf("control subject %s carries clinical values", record.Number)
		}
	}

	return record, nil
}

// parseCodes parses the coded categorical fields, treating blanks as unknown.
func parseCodes(record *Record, row []string, index map[string]int) error {
	gender, err := parseCode(field(row, index, "gender"), "gender", int(GenderMale))
	if err != nil {
		return err
	}
	record.Gender = Gender(gender)

	afftype, err := parseCode(field(row, index, "afftype"), "afftype", int(AffTypeBipolarI))
	if err != nil {
		return err
	}
	record.AffType = AffType(afftype)

	melanch, err := parseCode(field(row, index, "melanch"), "melanch", int(MelancholiaAbsent))
	if err != nil {
		return err
	}
	record.Melancholia = Melancholia(melanch)

	inpatient, err := parseCode(field(row, index, "inpatient"), "inpatient", int(CareOutpatient))
	if err != nil {
		return err
	}
	record.CareSetting = CareSetting(inpatient)

	marriage, err := parseCode(field(row, index, "marriage"), "marriage", int(MaritalSingle))
	if err != nil {
		return err
	}
	record.Marriage = MaritalStatus(marriage)

	work, err := parseCode(field(row, index, "work"), "work", int(WorkNotWorking))
	if err != nil {
		return err
	}
	record.Work = WorkStatus(work)

	return nil
}

// parseCode parses a coded field, blank means unknown. The published file
// stores codes as floats ("2.0") in some exports, so a float form is accepted.
func parseCode(value, name string, maxCode int) (int, error) {
	if value == "" {
		return 0, nil
	}

	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s code %q", name, value)
	}

	code := int(f)
	if float64(code) != f || code < 1 || code > maxCode {
		return 0, fmt.Errorf("%s code %q outside documented values 1..%d", name, value, maxCode)
	}

	return code, nil
}

// parseDays parses the measured-days count. Like the coded fields, some
// exports store it in float form ("11.0"), which is accepted as long as the
// value is a whole number.
func parseDays(value string) (int, error) {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid days value %q", value)
	}

	days := int(f)
	if float64(days) != f {
		return 0, fmt.Errorf("fractional days value %q", value)
	}
	if days < 0 {
		return 0, fmt.Errorf("negative days value %d", days)
	}

	return days, nil
}

// parseMADRS parses an optional MADRS score field.
func parseMADRS(value, name string) (*float64, error) {
	if value == "" {
		return nil, nil
	}

	score, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s score %q", name, value)
	}
	if score < MADRSMin || score > MADRSMax {
		return nil, fmt.Errorf("%s score %g outside instrument range %d..%d", name, score, MADRSMin, MADRSMax)
	}

	return &score, nil
}
