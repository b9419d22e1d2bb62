package db

import (
	"context"

	"github.com/jobly/jobly-api/types"
)

// Store is the storage surface used by the REST and GraphQL endpoints.
//
// Not found conditions and input the database rejects are reported as *Error,
// whose Kind is one of ErrNotFound, ErrInvalidInput, ErrInvalidCredentials or ErrDuplicateKey.
type Store interface {
	Ping(ctx context.Context) error

	CreateCompany(ctx context.Context, company types.Company) (*types.Company, error)
	FindCompanies(ctx context.Context, filter types.CompanyFilter) ([]types.Company, error)
	GetCompany(ctx context.Context, handle string) (*types.CompanyDetail, error)
	UpdateCompany(ctx context.Context, handle string, patch types.Patch) (*types.Company, error)
	RemoveCompany(ctx context.Context, handle string) error

	CreateJob(ctx context.Context, job types.NewJob) (*types.Job, error)
	FindJobs(ctx context.Context, filter types.JobFilter) ([]types.Job, error)
	GetJob(ctx context.Context, id int64) (*types.Job, error)
	UpdateJob(ctx context.Context, id int64, patch types.Patch) (*types.Job, error)
	RemoveJob(ctx context.Context, id int64) error

	Authenticate(ctx context.Context, username string, password string) (*types.User, error)
	CreateUser(ctx context.Context, user types.NewUser) (*types.User, error)
	FindUsers(ctx context.Context) ([]types.User, error)
	GetUser(ctx context.Context, username string) (*types.UserDetail, error)
	UpdateUser(ctx context.Context, username string, patch types.Patch) (*types.User, error)
	RemoveUser(ctx context.Context, username string) error
	ApplyToJob(ctx context.Context, username string, jobID int64) error
}

var _ Store = (*Db)(nil)
var _ Querier = (*Db)(nil)
