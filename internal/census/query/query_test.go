package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_ExactConditions(t *testing.T) {
	conds := Conditions{
		"RegCode":  Exact(5),
		"ProvCode": Exact(50),
	}

	where, args, err := conds.Build()
	require.NoError(t, err)
	assert.Equal(t, "[ProvCode] = @p1 AND [RegCode] = @p2", where)
	assert.Equal(t, []any{50, 5}, args)
}

func TestBuild_MatchBlank(t *testing.T) {
	conds := Conditions{"VilName": MatchBlank()}

	where, args, err := conds.Build()
	require.NoError(t, err)
	assert.Empty(t, args)
	assert.Contains(t, where, "[VilName] IS NULL")
	assert.Contains(t, where, "LTRIM(RTRIM(CAST([VilName] AS NVARCHAR(255)))) = ''")
}

func TestBuild_HeaderFilter(t *testing.T) {
	conds := Conditions{
		"RegCode":   Exact(5),
		"FirstName": HeaderFilter("Som", false),
	}

	where, args, err := conds.Build()
	require.NoError(t, err)
	assert.Equal(t, "LOWER(CAST([FirstName] AS NVARCHAR(255))) LIKE @p1 AND [RegCode] = @p2", where)
	assert.Equal(t, []any{"%som%", 5}, args)
}

func TestBuild_HeaderFilterBlankOnly(t *testing.T) {
	// show_blank wins over text: blank-check only, no LIKE.
	conds := Conditions{"Sex": HeaderFilter("1", true)}

	where, args, err := conds.Build()
	require.NoError(t, err)
	assert.Empty(t, args)
	assert.NotContains(t, where, "LIKE")
	assert.Contains(t, where, "[Sex] IS NULL")
}

func TestBuild_InertFilterIgnored(t *testing.T) {
	conds := Conditions{
		"RegCode": Exact(5),
		"Sex":     HeaderFilter("", false),
	}

	where, args, err := conds.Build()
	require.NoError(t, err)
	assert.Equal(t, "[RegCode] = @p1", where)
	assert.Equal(t, []any{5}, args)
}

func TestBuild_NoCriteria(t *testing.T) {
	_, _, err := Conditions{}.Build()
	assert.ErrorIs(t, err, ErrNoCriteria)

	_, _, err = Conditions{"Sex": HeaderFilter("", false)}.Build()
	assert.ErrorIs(t, err, ErrNoCriteria, "only inert filters is still no criteria")
}

func TestOrderBy(t *testing.T) {
	pk := []string{"EA_Code_15", "Building_No", "Household_No", "Population_No"}

	t.Run("pk fields displayed", func(t *testing.T) {
		displayed := []string{"Sex", "EA_Code_15", "Building_No", "Household_No", "Population_No"}
		assert.Equal(t, "[EA_Code_15], [Building_No], [Household_No], [Population_No]", OrderBy(displayed, pk))
	})

	t.Run("partial pk displayed", func(t *testing.T) {
		displayed := []string{"EA_Code_15", "Sex"}
		assert.Equal(t, "[EA_Code_15]", OrderBy(displayed, pk))
	})

	t.Run("no pk displayed falls back to first column", func(t *testing.T) {
		displayed := []string{"Sex", "Religion"}
		assert.Equal(t, "[Sex]", OrderBy(displayed, pk))
	})

	t.Run("empty display set falls back to pk", func(t *testing.T) {
		assert.Equal(t, "[EA_Code_15], [Building_No], [Household_No], [Population_No]", OrderBy(nil, pk))
	})
}

func TestPageClause(t *testing.T) {
	assert.Equal(t, "OFFSET 0 ROWS FETCH NEXT 500 ROWS ONLY", PageClause(1))
	assert.Equal(t, "OFFSET 500 ROWS FETCH NEXT 500 ROWS ONLY", PageClause(2))
	assert.Equal(t, "OFFSET 0 ROWS FETCH NEXT 500 ROWS ONLY", PageClause(0), "page clamps to 1")
}

func TestSelectColumns(t *testing.T) {
	assert.Equal(t, "[EA_Code_15], [Sex]", SelectColumns([]string{"EA_Code_15", "Sex"}))
}
