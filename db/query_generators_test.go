package db

import (
	"fmt"
	"strings"
	"testing"

	"github.com/jobly/jobly-api/types"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertStatement(t *testing.T, expected string, actual string) {
	t.Helper()
	if expected != actual {
		dmp := diffmatchpatch.New()
		diffs := dmp.DiffMain(expected, actual, false)
		t.Errorf("statement mismatch:\n%s", dmp.DiffPrettyText(diffs))
	}
}

func TestPartialUpdateGeneration(t *testing.T) {
	items := []struct {
		patch   types.Patch
		mapping map[string]string
		clause  string
		values  []interface{}
	}{
		{
			types.Patch{{"firstName", "Aliya"}, {"age", 32}},
			map[string]string{"firstName": "first_name"},
			`"first_name"=$1, "age"=$2`,
			[]interface{}{"Aliya", 32},
		},
		{
			types.Patch{{"title", "New"}, {"salary", 10}, {"equity", 0.11}},
			map[string]string{},
			`"title"=$1, "salary"=$2, "equity"=$3`,
			[]interface{}{"New", 10, 0.11},
		},
		{
			types.Patch{{"equity", nil}},
			nil,
			`"equity"=$1`,
			[]interface{}{nil},
		},
		{
			types.Patch{{"logoUrl", "http://a.io/logo.png"}, {"name", "A"}, {"numEmployees", nil}},
			CompanyColumns,
			`"logo_url"=$1, "name"=$2, "num_employees"=$3`,
			[]interface{}{"http://a.io/logo.png", "A", nil},
		},
		{
			types.Patch{{"isAdmin", true}, {"lastName", "L"}, {"email", "x@y.z"}},
			UserColumns,
			`"is_admin"=$1, "last_name"=$2, "email"=$3`,
			[]interface{}{true, "L", "x@y.z"},
		},
	}

	for _, item := range items {
		clause, values, err := PartialUpdate(item.patch, item.mapping)
		require.NoError(t, err)
		assertStatement(t, item.clause, clause)
		assert.Equal(t, item.values, values)
		assert.Len(t, values, len(item.patch))
	}
}

func TestPartialUpdateCallerAppendsKey(t *testing.T) {
	patch := types.Patch{{"title", "New"}, {"salary", 10}, {"equity", 0.11}}
	clause, values, err := PartialUpdate(patch, JobColumns)
	require.NoError(t, err)

	query := updateStatement("jobs", clause, "id", len(values)+1, jobColumns)
	assertStatement(t,
		`UPDATE jobs SET "title"=$1, "salary"=$2, "equity"=$3 WHERE id = $4 RETURNING id, title, salary, equity, company_handle`,
		query)
}

func TestPartialUpdateLargePatch(t *testing.T) {
	const size = 12
	patch := make(types.Patch, 0, size)
	mapping := map[string]string{}
	var expected []string
	for i := 1; i <= size; i++ {
		field := fmt.Sprintf("field%d", i)
		column := fmt.Sprintf("column_%d", i)
		if i%2 == 0 {
			mapping[field] = column
		} else {
			column = field
		}
		var value interface{} = i
		if i == size {
			value = nil
		}
		patch = append(patch, types.FieldValue{Field: field, Value: value})
		expected = append(expected, fmt.Sprintf(`"%s"=$%d`, column, i))
	}

	clause, values, err := PartialUpdate(patch, mapping)
	require.NoError(t, err)
	assertStatement(t, strings.Join(expected, ", "), clause)
	assert.Contains(t, clause, `"field9"=$9, "column_10"=$10, "field11"=$11, "column_12"=$12`)
	require.Len(t, values, size)
	for i := 0; i < size-1; i++ {
		assert.Equal(t, i+1, values[i])
	}
	assert.Nil(t, values[size-1])

	query := updateStatement("t", clause, "key", len(values)+1, "key")
	assertStatement(t, "UPDATE t SET "+strings.Join(expected, ", ")+" WHERE key = $13 RETURNING key", query)
}

func TestPartialUpdateEmptyPatch(t *testing.T) {
	for _, patch := range []types.Patch{nil, {}} {
		for _, mapping := range []map[string]string{nil, {}, CompanyColumns} {
			clause, values, err := PartialUpdate(patch, mapping)
			require.Error(t, err)
			assertErrorKind(t, ErrInvalidInput, err)
			assert.Equal(t, "No data", err.Error())
			assert.Empty(t, clause)
			assert.Nil(t, values)
		}
	}
}

func TestPartialUpdateFromJSON(t *testing.T) {
	var patch types.Patch
	require.NoError(t, patch.UnmarshalJSON([]byte(`{"numEmployees": 12, "logoUrl": null, "name": "Acme"}`)))

	clause, values, err := PartialUpdate(patch, CompanyColumns)
	require.NoError(t, err)
	assertStatement(t, `"num_employees"=$1, "logo_url"=$2, "name"=$3`, clause)
	require.Len(t, values, 3)
	assert.Nil(t, values[1])
	assert.Equal(t, "Acme", values[2])
}

func TestConditions(t *testing.T) {
	var where conditions
	assert.Equal(t, "", where.String())

	where.add("LOWER(name) LIKE LOWER($%d)", "%net%")
	where.addLiteral("equity > 0")
	where.add("num_employees >= $%d", int64(10))

	assertStatement(t, " WHERE LOWER(name) LIKE LOWER($1) AND equity > 0 AND num_employees >= $2", where.String())
	assert.Equal(t, []interface{}{"%net%", int64(10)}, where.values)
}

func TestContainsPattern(t *testing.T) {
	assert.Equal(t, "%net%", containsPattern("net"))
	assert.Equal(t, `%100\%%`, containsPattern("100%"))
	assert.Equal(t, `%a\_b%`, containsPattern("a_b"))
	assert.Equal(t, `%a\\b%`, containsPattern(`a\b`))
}
