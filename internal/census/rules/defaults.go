package rules

import "fmt"

// Field names used across the rule table and the editor.
const (
	FieldLanguageOther      = "LanguageOther"
	FieldNationalityNumeric = "NationalityNumeric"
	FieldMovedFromAbroad    = "MovedFromAbroad"
)

// LogicalPKFields is the ordered logical primary key of the edited table.
var LogicalPKFields = []string{
	"EA_Code_15",
	"Building_No",
	"Household_No",
	"Population_No",
}

// NonEditableFields are displayed but never editable.
var NonEditableFields = []string{"FirstName", "LastName", "HouseholdMemberNumber"}

// provinceCodes is the irregular set of valid Thai province codes.
func provinceCodes() map[string]struct{} {
	set := AllowedSet("10", "99")
	for _, span := range [][2]int{{11, 19}, {70, 77}, {80, 86}, {90, 96}, {20, 27}, {30, 49}, {50, 58}, {60, 67}} {
		for i := span[0]; i <= span[1]; i++ {
			set[fmt.Sprintf("%d", i)] = struct{}{}
		}
	}
	return set
}

// Defaults returns the built-in rule table for the census record fields.
// The LanguageOther / NationalityNumeric / MovedFromAbroad entries are
// installed later from the externally loaded code lists.
func Defaults() map[string]Rule {
	return map[string]Rule{
		"BuildingType": {
			Kind:        KindRange,
			Allowed:     PaddedRange(1, 19, 2),
			AllowBlank:  false,
			Description: "ต้องเป็น 01-19",
		},
		"BuildingTypeOther": {
			Kind:        KindText,
			MaxLength:   50,
			AllowBlank:  true,
			Description: "ข้อความได้สูงสุด 50 ตัวอักษร",
		},
		"Residing": {
			Kind:        KindOptions,
			Allowed:     AllowedSet("1", "2"),
			AllowBlank:  false,
			Description: "ต้องเป็น 1 หรือ 2",
		},
		"HouseholdEnumeration": {
			Kind:        KindCustom,
			Allowed:     AllowedSet("11", "12", "13", "20", "21", "22", "23"),
			AllowBlank:  true,
			Description: "ต้องเป็น 11-13 หรือ 20-23",
		},
		"HouseholdEnumerationOther": {
			Kind:        KindText,
			MaxLength:   255,
			AllowBlank:  true,
			Description: "ข้อความได้สูงสุด 255 ตัวอักษร",
		},
		"HouseholdType": {
			Kind:        KindRange,
			Allowed:     AllowedSet("1", "2", "3"),
			AllowBlank:  true,
			Description: "ต้องเป็น 1-3",
		},
		"NumberOfHousehold": {
			Kind:        KindIntRange,
			Min:         1,
			Max:         99,
			AllowBlank:  true,
			Description: "ต้องเป็นตัวเลข 1-99",
		},
		"TotalRoom": {
			Kind:        KindPaddedNumber,
			Length:      4,
			Min:         1,
			Max:         9999,
			AllowBlank:  true,
			Description: "ต้องเป็น 0001-9999",
		},
		"RoomVacant": {
			Kind:        KindPaddedNumber,
			Length:      4,
			Min:         1,
			Max:         9999,
			AllowBlank:  true,
			Description: "ต้องเป็น 0001-9999",
		},
		"RoomResidence": {
			Kind:        KindPaddedNumber,
			Length:      4,
			Min:         1,
			Max:         9999,
			AllowBlank:  true,
			Description: "ต้องเป็น 0001-9999",
		},
		"Language": {
			Kind:        KindCustom,
			Allowed:     AllowedSet("1", "2", "3", "9"),
			AllowBlank:  true,
			Description: "ต้องเป็น 1-3 หรือ 9",
		},
		"HouseholdNumber": {
			Kind:        KindPaddedNumber,
			Length:      4,
			Min:         1,
			Max:         9999,
			AllowBlank:  true,
			Description: "ต้องเป็น 0001-9999",
		},
		"ConstructionMaterial": {
			Kind:        KindRange,
			Allowed:     AllowedSet("1", "2", "3", "4", "5", "6"),
			AllowBlank:  true,
			Description: "ต้องเป็น 1-6",
		},
		"ConstructionMaterialOther": {
			Kind:        KindText,
			MaxLength:   50,
			AllowBlank:  true,
			Description: "ข้อความได้สูงสุด 50 ตัวอักษร",
		},
		"TenureResidence": {
			Kind:        KindRange,
			Allowed:     AllowedSet("1", "2", "3", "4", "5", "6", "7"),
			AllowBlank:  true,
			Description: "ต้องเป็น 1-7",
		},
		"TenureResidenceOther": {
			Kind:        KindText,
			MaxLength:   30,
			AllowBlank:  true,
			Description: "ข้อความได้สูงสุด 30 ตัวอักษร",
		},
		"TenureLand": {
			Kind:        KindRange,
			Allowed:     AllowedSet("1", "2", "3", "4", "5"),
			AllowBlank:  true,
			Description: "ต้องเป็น 1-5",
		},
		"TenureLandOther": {
			Kind:        KindText,
			MaxLength:   255,
			AllowBlank:  true,
			Description: "ข้อความได้สูงสุด 255 ตัวอักษร",
		},
		"NumberOfHousueholdMember": {
			Kind:        KindIntRange,
			Min:         1,
			Max:         9999,
			AllowBlank:  true,
			Description: "ต้องเป็นตัวเลข 1-9999",
		},
		"HouseholdMemberNumber": {
			Kind:        KindPaddedNumber,
			Length:      5,
			Min:         1,
			Max:         99998,
			AllowBlank:  true,
			Description: "ต้องเป็น 00001-99998",
		},
		"Title": {
			Kind:        KindCustom,
			Allowed:     AllowedSet("01", "02", "03", "04", "05", "09"),
			AllowBlank:  true,
			Description: "ต้องเป็น 01-05 หรือ 09",
		},
		"TitleOther": {
			Kind:        KindText,
			MaxLength:   50,
			AllowBlank:  true,
			Description: "ข้อความได้สูงสุด 50 ตัวอักษร",
		},
		"Relationship": {
			Kind:        KindRange,
			Allowed:     PaddedRange(0, 16, 2),
			AllowBlank:  true,
			Description: "ต้องเป็น 00-16",
		},
		"Sex": {
			Kind:        KindOptions,
			Allowed:     AllowedSet("1", "2"),
			AllowBlank:  true,
			Description: "ต้องเป็น 1 หรือ 2",
		},
		"MonthOfBirth": {
			Kind:        KindCustom,
			Allowed:     mergeSets(PaddedRange(1, 12, 2), AllowedSet("99")),
			AllowBlank:  true,
			Description: "ต้องเป็น 01-12 หรือ 99",
		},
		"YearOfBirth": {
			Kind:        KindCustom,
			Allowed:     mergeSets(PaddedRange(2419, 2568, 4), AllowedSet("9999")),
			AllowBlank:  true,
			Description: "ต้องเป็น 2419-2568 หรือ 9999",
		},
		"Age_01": {
			Kind:        KindPaddedNumber,
			Length:      3,
			Min:         0,
			Max:         150,
			AllowBlank:  true,
			Description: "ต้องเป็น 000-150",
		},
		"Religion": {
			Kind:        KindRange,
			Allowed:     AllowedSet("1", "2", "3", "4", "5", "6", "7", "8", "9"),
			AllowBlank:  true,
			Description: "ต้องเป็น 1-9",
		},
		"ReligionOther": {
			Kind:        KindText,
			MaxLength:   50,
			AllowBlank:  true,
			Description: "ข้อความได้สูงสุด 50 ตัวอักษร",
		},
		"MaritalStatus": {
			Kind:        KindCustom,
			Allowed:     AllowedSet("1", "2", "3", "4", "5", "6", "7", "9"),
			AllowBlank:  true,
			Description: "ต้องเป็น 1-7 หรือ 9",
		},
		"EducationalAttainment": {
			Kind:        KindCustom,
			Allowed:     mergeSets(PaddedRange(1, 12, 2), AllowedSet("98", "99")),
			AllowBlank:  true,
			Description: "ต้องเป็น 01-12 หรือ 98-99",
		},
		"EmploymentStatus": {
			Kind:        KindRange,
			Allowed:     AllowedSet("1", "2", "3", "4", "5", "6", "7", "8", "9"),
			AllowBlank:  true,
			Description: "ต้องเป็น 1-9",
		},
		"NameInHouseholdRegister": {
			Kind:        KindCustom,
			Allowed:     AllowedSet("1", "2", "3", "4", "5", "9"),
			AllowBlank:  true,
			Description: "ต้องเป็น 1-5 หรือ 9",
		},
		"NameInHouseholdRegisterOther": {
			Kind:        KindCustom,
			Allowed:     provinceCodes(),
			AllowBlank:  true,
			Description: "ต้องเป็นรหัสจังหวัดที่กำหนด",
		},
		"DurationOfResidence": {
			Kind:        KindCustom,
			Allowed:     AllowedSet("0", "1", "2", "3", "4", "5", "6", "9"),
			AllowBlank:  true,
			Description: "ต้องเป็น 0-6 หรือ 9",
		},
		"MigrationCharecteristics": {
			Kind:        KindCustom,
			Allowed:     AllowedSet("1", "2", "3", "9"),
			AllowBlank:  true,
			Description: "ต้องเป็น 1-3 หรือ 9",
		},
		"MovedFromProvince": {
			Kind:        KindCustom,
			Allowed:     provinceCodes(),
			AllowBlank:  true,
			Description: "ต้องเป็นรหัสจังหวัดที่กำหนด",
		},
		"MigrationReason": {
			Kind:        KindCustom,
			Allowed:     AllowedSet("1", "2", "3", "4", "5", "6", "7", "8", "9"),
			AllowBlank:  true,
			Description: "ต้องเป็น 1-8 หรือ 9",
		},
		"MigrationReasonOther": {
			Kind:        KindText,
			MaxLength:   255,
			AllowBlank:  true,
			Description: "ข้อความได้สูงสุด 255 ตัวอักษร",
		},
		"Gender": {
			Kind:        KindRange,
			Allowed:     AllowedSet("1", "2", "3", "4", "5"),
			AllowBlank:  true,
			Description: "ต้องเป็น 1-5",
		},
		"TotalPopulation": {
			Kind:        KindPaddedNumber,
			Length:      4,
			Min:         1,
			Max:         9999,
			AllowBlank:  true,
			Description: "ต้องเป็น 0001-9999",
		},
		"TotalMale": {
			Kind:        KindPaddedNumber,
			Length:      4,
			Min:         0,
			Max:         9999,
			AllowBlank:  true,
			Description: "ต้องเป็น 0000-9999",
		},
		"TotalFemale": {
			Kind:        KindPaddedNumber,
			Length:      4,
			Min:         0,
			Max:         9999,
			AllowBlank:  true,
			Description: "ต้องเป็น 0000-9999",
		},
	}
}

// NewDefault builds a Set with the built-in rule table and field
// configuration.
func NewDefault(displayName DisplayNameFunc) *Set {
	return New(Defaults(), LogicalPKFields, NonEditableFields, displayName)
}

// ApplyCodeLists installs the externally loaded code lists for the three
// spreadsheet-backed fields.
func (s *Set) ApplyCodeLists(languageOther, nationality, country []string) {
	if len(languageOther) > 0 {
		s.Replace(FieldLanguageOther, Rule{
			Kind:        KindCustom,
			Allowed:     AllowedFromSlice(languageOther),
			AllowBlank:  true,
			Description: "ต้องเป็นรหัสภาษาอื่นที่กำหนด",
		})
	}
	if len(nationality) > 0 {
		s.Replace(FieldNationalityNumeric, Rule{
			Kind:        KindCustom,
			Allowed:     AllowedFromSlice(nationality),
			AllowBlank:  true,
			Description: "ต้องเป็นรหัสสัญชาติที่กำหนด",
		})
	}
	if len(country) > 0 {
		s.Replace(FieldMovedFromAbroad, Rule{
			Kind:        KindListPaddedNumber,
			Length:      3,
			Allowed:     AllowedFromSlice(country),
			AllowBlank:  true,
			Description: "ต้องเป็นรหัสประเทศที่กำหนด",
		})
	}
}
