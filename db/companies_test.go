package db

import (
	"context"
	"testing"

	"github.com/jobly/jobly-api/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCompany(t *testing.T) {
	db := newTestDb(t)
	ctx := context.Background()

	company := types.Company{Handle: "new", Name: "New", Description: "New Description", NumEmployees: int64Ptr(1),
		LogoURL: stringPtr("http://new.img")}
	created, err := db.CreateCompany(ctx, company)
	require.NoError(t, err)
	assert.Equal(t, &company, created)

	_, err = db.CreateCompany(ctx, company)
	require.Error(t, err)
	assertErrorKind(t, ErrInvalidInput, err)
	assert.Equal(t, "Duplicate company: new", err.Error())
}

func TestFindCompanies(t *testing.T) {
	db := newTestDb(t)
	seed(t, db)
	ctx := context.Background()

	handles := func(companies []types.Company) []string {
		result := make([]string, len(companies))
		for i, c := range companies {
			result[i] = c.Handle
		}
		return result
	}

	items := []struct {
		filter   types.CompanyFilter
		expected []string
	}{
		{types.CompanyFilter{}, []string{"c1", "c2", "c3"}},
		{types.CompanyFilter{Name: stringPtr("c2")}, []string{"c2"}},
		{types.CompanyFilter{Name: stringPtr("C")}, []string{"c1", "c2", "c3"}},
		{types.CompanyFilter{MinEmployees: int64Ptr(2)}, []string{"c2", "c3"}},
		{types.CompanyFilter{MaxEmployees: int64Ptr(2)}, []string{"c1", "c2"}},
		{types.CompanyFilter{MinEmployees: int64Ptr(2), MaxEmployees: int64Ptr(2)}, []string{"c2"}},
		{types.CompanyFilter{Name: stringPtr("nope")}, []string{}},
		{types.CompanyFilter{Name: stringPtr("_")}, []string{}},
		{types.CompanyFilter{Name: stringPtr("%")}, []string{}},
	}

	for _, item := range items {
		companies, err := db.FindCompanies(ctx, item.filter)
		require.NoError(t, err)
		assert.Equal(t, item.expected, handles(companies))
	}

	_, err := db.FindCompanies(ctx, types.CompanyFilter{MinEmployees: int64Ptr(3), MaxEmployees: int64Ptr(1)})
	assertErrorKind(t, ErrInvalidInput, err)
}

func TestFindCompaniesMatchesWildcardsLiterally(t *testing.T) {
	db := newTestDb(t)
	ctx := context.Background()

	for _, c := range []types.Company{
		{Handle: "under", Name: "Alpha_One 100%", Description: "d"},
		{Handle: "plain", Name: "Beta One 1000", Description: "d"},
		{Handle: "slash", Name: `Back\Slash`, Description: "d"},
	} {
		_, err := db.CreateCompany(ctx, c)
		require.NoError(t, err)
	}

	items := []struct {
		name     string
		expected []string
	}{
		{"a_o", []string{"under"}},
		{"100%", []string{"under"}},
		{"100", []string{"under", "plain"}},
		{`k\s`, []string{"slash"}},
	}
	for _, item := range items {
		companies, err := db.FindCompanies(ctx, types.CompanyFilter{Name: stringPtr(item.name)})
		require.NoError(t, err)
		handles := make([]string, len(companies))
		for i, c := range companies {
			handles[i] = c.Handle
		}
		assert.Equal(t, item.expected, handles, item.name)
	}
}

func TestGetCompany(t *testing.T) {
	db := newTestDb(t)
	jobs := seed(t, db)
	ctx := context.Background()

	company, err := db.GetCompany(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "C1", company.Name)
	require.Len(t, company.Jobs, 3)
	assert.Equal(t, jobs[0].ID, company.Jobs[0].ID)
	assert.Equal(t, "Job1", company.Jobs[0].Title)
	assert.Equal(t, int64(100), *company.Jobs[0].Salary)
	assertDecimal(t, "0.1", company.Jobs[0].Equity)

	company, err = db.GetCompany(ctx, "c3")
	require.NoError(t, err)
	assert.Nil(t, company.LogoURL)
	assert.Empty(t, company.Jobs)
	assert.NotNil(t, company.Jobs)

	_, err = db.GetCompany(ctx, "nope")
	assertErrorKind(t, ErrNotFound, err)
	assert.Equal(t, "No company: nope", err.Error())
}

func TestUpdateCompany(t *testing.T) {
	db := newTestDb(t)
	seed(t, db)
	ctx := context.Background()

	company, err := db.UpdateCompany(ctx, "c1", types.Patch{
		{Field: "name", Value: "New"},
		{Field: "numEmployees", Value: nil},
		{Field: "logoUrl", Value: "http://new.img"},
	})
	require.NoError(t, err)
	assert.Equal(t, &types.Company{Handle: "c1", Name: "New", Description: "Desc1", LogoURL: stringPtr("http://new.img")},
		company)

	stored, err := db.GetCompany(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, *company, stored.Company)

	_, err = db.UpdateCompany(ctx, "nope", types.Patch{{Field: "name", Value: "x"}})
	assertErrorKind(t, ErrNotFound, err)

	_, err = db.UpdateCompany(ctx, "c1", types.Patch{})
	assertErrorKind(t, ErrInvalidInput, err)

	_, err = db.UpdateCompany(ctx, "c1", types.Patch{{Field: "name", Value: "C2"}})
	assert.True(t, IsDuplicateKey(err))
}

func TestRemoveCompany(t *testing.T) {
	db := newTestDb(t)
	seed(t, db)
	ctx := context.Background()

	require.NoError(t, db.RemoveCompany(ctx, "c1"))
	_, err := db.GetCompany(ctx, "c1")
	assertErrorKind(t, ErrNotFound, err)

	jobs, err := db.FindJobs(ctx, types.JobFilter{})
	require.NoError(t, err)
	assert.Empty(t, jobs, "jobs are removed with their company")

	err = db.RemoveCompany(ctx, "c1")
	assertErrorKind(t, ErrNotFound, err)
}
