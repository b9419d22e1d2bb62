package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNamingConventionToGraphQLField(t *testing.T) {
	nc := NewDefaultNaming()
	assert.Equal(t, "handle", nc.ToGraphQLField("handle"))
	assert.Equal(t, "numEmployees", nc.ToGraphQLField("num_employees"))
	assert.Equal(t, "logoUrl", nc.ToGraphQLField("logo_url"))
	assert.Equal(t, "companyHandle", nc.ToGraphQLField("company_handle"))
	assert.Equal(t, "isAdmin", nc.ToGraphQLField("is_admin"))
}

func TestNamingConventionToGraphQLType(t *testing.T) {
	nc := NewDefaultNaming()
	assert.Equal(t, "Company", nc.ToGraphQLType("company"))
	assert.Equal(t, "CompanyJob", nc.ToGraphQLType("company_job"))
	assert.Equal(t, "jobsFilter", nc.ToGraphQLFieldPrefix("jobs", "filter"))
}
