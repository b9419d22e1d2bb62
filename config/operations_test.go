package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOperationsSetAndClear(t *testing.T) {
	var op Operations

	assert.Equal(t, op, Operations(0))
	assert.False(t, op.IsSupported(CompanyQueries))

	op.Set(CompanyQueries | JobQueries)
	assert.True(t, op.IsSupported(CompanyQueries))
	assert.True(t, op.IsSupported(JobQueries))
	assert.False(t, op.IsSupported(UserQueries))

	op.Clear(CompanyQueries)
	assert.False(t, op.IsSupported(CompanyQueries))
	assert.True(t, op.IsSupported(JobQueries))
}

func TestOperationsAdd(t *testing.T) {
	op, err := Ops("CompanyQueries", "JobQueries", "UserQueries")
	require.NoError(t, err)
	assert.Equal(t, AllOperations, op)

	_, err = Ops("CompanyQueries", "TableDrop")
	assert.EqualError(t, err, "invalid operation: TableDrop")
}
