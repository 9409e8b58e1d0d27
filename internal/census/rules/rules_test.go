package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSet(t *testing.T, table map[string]Rule) *Set {
	t.Helper()
	return New(table, LogicalPKFields, NonEditableFields, nil)
}

func TestValidateField_Options(t *testing.T) {
	set := newTestSet(t, map[string]Rule{
		"Sex": {
			Kind:        KindOptions,
			Allowed:     AllowedSet("1", "2"),
			AllowBlank:  false,
			Description: "ต้องเป็น 1 หรือ 2",
		},
	})

	err := set.ValidateField("Sex", "3", 4)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "แถว 4")
	assert.Contains(t, err.Error(), "ต้องเป็น 1 หรือ 2")

	assert.NoError(t, set.ValidateField("Sex", "1", 4))
	assert.NoError(t, set.ValidateField("Sex", " 2 ", 4), "values are compared trimmed")

	err = set.ValidateField("Sex", "", 4)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ไม่สามารถเป็นค่าว่างได้")
}

func TestValidateField_PaddedNumber(t *testing.T) {
	set := newTestSet(t, map[string]Rule{
		"TotalRoom": {
			Kind:        KindPaddedNumber,
			Length:      4,
			Min:         1,
			Max:         9999,
			AllowBlank:  true,
			Description: "ต้องเป็น 0001-9999",
		},
	})

	tests := []struct {
		name    string
		value   string
		wantErr string
	}{
		{name: "valid padded", value: "0001"},
		{name: "valid max", value: "9999"},
		{name: "too short", value: "1", wantErr: "ต้องมีความยาว 4 หลัก"},
		{name: "too long", value: "10000", wantErr: "ต้องมีความยาว 4 หลัก"},
		{name: "below min", value: "0000", wantErr: "ต้องเป็น 0001-9999"},
		{name: "non digit", value: "00a1", wantErr: "ต้องเป็นตัวเลขเท่านั้น"},
		{name: "blank allowed", value: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := set.ValidateField("TotalRoom", tt.value, 1)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateField_IntRange(t *testing.T) {
	set := NewDefault(nil)

	assert.NoError(t, set.ValidateField("NumberOfHousehold", "42", 1))

	err := set.ValidateField("NumberOfHousehold", "100", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ต้องเป็นตัวเลข 1-99")

	err = set.ValidateField("NumberOfHousehold", "abc", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ต้องเป็นตัวเลข")
}

func TestValidateField_Text(t *testing.T) {
	set := NewDefault(nil)

	assert.NoError(t, set.ValidateField("TenureResidenceOther", "บ้านเช่า", 1))

	long := make([]rune, 31)
	for i := range long {
		long[i] = 'ก'
	}
	err := set.ValidateField("TenureResidenceOther", string(long), 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ความยาวเกิน 30 ตัวอักษร")
	assert.Contains(t, err.Error(), "(ปัจจุบัน: 31)")
}

func TestValidateField_BlankPolicy(t *testing.T) {
	set := NewDefault(nil)

	// BuildingType is the only mandatory building attribute.
	err := set.ValidateField("BuildingType", "", 7)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "แถว 7")

	// Blank passes every other constraint when allowed.
	assert.NoError(t, set.ValidateField("TotalRoom", "", 7))
	assert.NoError(t, set.ValidateField("YearOfBirth", "  ", 7))
}

func TestValidateField_UnknownFieldPasses(t *testing.T) {
	set := NewDefault(nil)
	assert.NoError(t, set.ValidateField("NoSuchField", "anything", 1))
}

func TestValidateField_DisplayNameInMessage(t *testing.T) {
	set := New(Defaults(), LogicalPKFields, NonEditableFields, func(field string) string {
		if field == "Sex" {
			return "เพศ"
		}
		return field
	})

	err := set.ValidateField("Sex", "9", 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "คอลัมน์ 'เพศ'")
}

func TestApplyCodeLists(t *testing.T) {
	set := NewDefault(nil)

	// No rule before the lists are installed.
	_, ok := set.Rule(FieldMovedFromAbroad)
	assert.False(t, ok)

	set.ApplyCodeLists(
		[]string{"02", "03", "99"},
		[]string{"004", "999"},
		[]string{"036", "104"},
	)

	assert.NoError(t, set.ValidateField(FieldLanguageOther, "03", 1))
	assert.Error(t, set.ValidateField(FieldLanguageOther, "04", 1))

	assert.NoError(t, set.ValidateField(FieldMovedFromAbroad, "036", 1))

	err := set.ValidateField(FieldMovedFromAbroad, "37", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ต้องมีความยาว 3 หลัก")

	err = set.ValidateField(FieldMovedFromAbroad, "999", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ต้องเป็นรหัสประเทศที่กำหนด")
}

func TestEditability(t *testing.T) {
	set := NewDefault(nil)

	for _, pk := range LogicalPKFields {
		assert.False(t, set.IsEditable(pk), pk)
		assert.True(t, set.IsPKField(pk), pk)
	}
	assert.False(t, set.IsEditable("FirstName"))
	assert.False(t, set.IsEditable("LastName"))
	assert.True(t, set.IsEditable("Sex"))
}

func TestYearOfBirthRange(t *testing.T) {
	set := NewDefault(nil)

	assert.NoError(t, set.ValidateField("YearOfBirth", "2419", 1))
	assert.NoError(t, set.ValidateField("YearOfBirth", "2568", 1))
	assert.NoError(t, set.ValidateField("YearOfBirth", "9999", 1))
	assert.Error(t, set.ValidateField("YearOfBirth", "2418", 1))
	assert.Error(t, set.ValidateField("YearOfBirth", "2569", 1))
}
