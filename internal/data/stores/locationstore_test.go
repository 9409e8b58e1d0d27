package stores

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func testLocationRows() []locationRow {
	return []locationRow{
		{RegCode: "1", RegName: "กลาง", ProvCode: "10", ProvName: "กรุงเทพมหานคร", DistCode: "1001", DistName: "พระนคร", SubDistCode: "100101", SubDistName: "พระบรมมหาราชวัง"},
		{RegCode: "1", RegName: "กลาง", ProvCode: "10", ProvName: "กรุงเทพมหานคร", DistCode: "1002", DistName: "ดุสิต", SubDistCode: "100201", SubDistName: "ดุสิต"},
		{RegCode: "1", RegName: "กลาง", ProvCode: "12", ProvName: "นนทบุรี", DistCode: "1201", DistName: "เมืองนนทบุรี", SubDistCode: "120101", SubDistName: "สวนใหญ่"},
		{RegCode: "5", RegName: "เหนือ", ProvCode: "50", ProvName: "เชียงใหม่", DistCode: "5001", DistName: "เมืองเชียงใหม่", SubDistCode: "500101", SubDistName: "ศรีภูมิ"},
	}
}

func TestLocationCascade(t *testing.T) {
	s := newLocationStoreFromRows(testLocationRows())

	assert.Equal(t, []string{"กลาง", "เหนือ"}, s.Regions())
	assert.Equal(t, []string{"กรุงเทพมหานคร", "นนทบุรี"}, s.Provinces("กลาง"))
	assert.Equal(t, []string{"เชียงใหม่"}, s.Provinces("เหนือ"))
	assert.Equal(t, []string{"ดุสิต", "พระนคร"}, s.Districts("กลาง", "กรุงเทพมหานคร"))
	assert.Equal(t, []string{"ดุสิต"}, s.Subdistricts("กลาง", "กรุงเทพมหานคร", "ดุสิต"))
}

func TestLocationCodes(t *testing.T) {
	s := newLocationStoreFromRows(testLocationRows())

	t.Run("full selection", func(t *testing.T) {
		codes := s.Codes(Selection{Region: "กลาง", Province: "กรุงเทพมหานคร", District: "ดุสิต", Subdistrict: "ดุสิต"})
		assert.Equal(t, map[string]string{
			"RegCode":     "1",
			"ProvCode":    "10",
			"DistCode":    "1002",
			"SubDistCode": "100201",
		}, codes)
	})

	t.Run("region only", func(t *testing.T) {
		codes := s.Codes(Selection{Region: "เหนือ"})
		assert.Equal(t, map[string]string{"RegCode": "5"}, codes)
	})

	t.Run("nothing selected", func(t *testing.T) {
		assert.Empty(t, s.Codes(Selection{}))
	})

	t.Run("province not under region", func(t *testing.T) {
		codes := s.Codes(Selection{Region: "เหนือ", Province: "นนทบุรี"})
		assert.Equal(t, map[string]string{"RegCode": "5"}, codes)
	})
}

func TestNewLocationStore_FromWorkbook(t *testing.T) {
	dir := t.TempDir()

	f := excelize.NewFile()
	const sheet = "Area_code"
	idx, err := f.NewSheet(sheet)
	require.NoError(t, err)
	f.SetActiveSheet(idx)

	headers := []string{"RegCode", "RegName", "ProvCode", "ProvName", "DistCode", "DistName", "SubDistCode", "SubDistName"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		require.NoError(t, err)
		require.NoError(t, f.SetCellValue(sheet, cell, h))
	}
	values := []string{"1", "กลาง", "10", "กรุงเทพมหานคร", "1001", "พระนคร", "100101", "พระบรมมหาราชวัง"}
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, 2)
		require.NoError(t, err)
		require.NoError(t, f.SetCellValue(sheet, cell, v))
	}
	require.NoError(t, f.SaveAs(filepath.Join(dir, "reg_prov_dist_subdist.xlsx")))

	s, err := NewLocationStore(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"กลาง"}, s.Regions())
}

func TestNewLocationStore_Missing(t *testing.T) {
	_, err := NewLocationStore(t.TempDir())
	assert.Error(t, err)
}
