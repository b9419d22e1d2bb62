package db

import (
	"context"

	"github.com/jobly/jobly-api/types"
	"github.com/stretchr/testify/mock"
)

type StoreMock struct {
	mock.Mock
}

func (o *StoreMock) Ping(ctx context.Context) error {
	return o.Called(ctx).Error(0)
}

func (o *StoreMock) CreateCompany(ctx context.Context, company types.Company) (*types.Company, error) {
	args := o.Called(ctx, company)
	return companyArg(args, 0), args.Error(1)
}

func (o *StoreMock) FindCompanies(ctx context.Context, filter types.CompanyFilter) ([]types.Company, error) {
	args := o.Called(ctx, filter)
	companies, _ := args.Get(0).([]types.Company)
	return companies, args.Error(1)
}

func (o *StoreMock) GetCompany(ctx context.Context, handle string) (*types.CompanyDetail, error) {
	args := o.Called(ctx, handle)
	detail, _ := args.Get(0).(*types.CompanyDetail)
	return detail, args.Error(1)
}

func (o *StoreMock) UpdateCompany(ctx context.Context, handle string, patch types.Patch) (*types.Company, error) {
	args := o.Called(ctx, handle, patch)
	return companyArg(args, 0), args.Error(1)
}

func (o *StoreMock) RemoveCompany(ctx context.Context, handle string) error {
	return o.Called(ctx, handle).Error(0)
}

func (o *StoreMock) CreateJob(ctx context.Context, job types.NewJob) (*types.Job, error) {
	args := o.Called(ctx, job)
	return jobArg(args, 0), args.Error(1)
}

func (o *StoreMock) FindJobs(ctx context.Context, filter types.JobFilter) ([]types.Job, error) {
	args := o.Called(ctx, filter)
	jobs, _ := args.Get(0).([]types.Job)
	return jobs, args.Error(1)
}

func (o *StoreMock) GetJob(ctx context.Context, id int64) (*types.Job, error) {
	args := o.Called(ctx, id)
	return jobArg(args, 0), args.Error(1)
}

func (o *StoreMock) UpdateJob(ctx context.Context, id int64, patch types.Patch) (*types.Job, error) {
	args := o.Called(ctx, id, patch)
	return jobArg(args, 0), args.Error(1)
}

func (o *StoreMock) RemoveJob(ctx context.Context, id int64) error {
	return o.Called(ctx, id).Error(0)
}

func (o *StoreMock) Authenticate(ctx context.Context, username string, password string) (*types.User, error) {
	args := o.Called(ctx, username, password)
	return userArg(args, 0), args.Error(1)
}

func (o *StoreMock) CreateUser(ctx context.Context, user types.NewUser) (*types.User, error) {
	args := o.Called(ctx, user)
	return userArg(args, 0), args.Error(1)
}

func (o *StoreMock) FindUsers(ctx context.Context) ([]types.User, error) {
	args := o.Called(ctx)
	users, _ := args.Get(0).([]types.User)
	return users, args.Error(1)
}

func (o *StoreMock) GetUser(ctx context.Context, username string) (*types.UserDetail, error) {
	args := o.Called(ctx, username)
	detail, _ := args.Get(0).(*types.UserDetail)
	return detail, args.Error(1)
}

func (o *StoreMock) UpdateUser(ctx context.Context, username string, patch types.Patch) (*types.User, error) {
	args := o.Called(ctx, username, patch)
	return userArg(args, 0), args.Error(1)
}

func (o *StoreMock) RemoveUser(ctx context.Context, username string) error {
	return o.Called(ctx, username).Error(0)
}

func (o *StoreMock) ApplyToJob(ctx context.Context, username string, jobID int64) error {
	return o.Called(ctx, username, jobID).Error(0)
}

func companyArg(args mock.Arguments, index int) *types.Company {
	company, _ := args.Get(index).(*types.Company)
	return company
}

func jobArg(args mock.Arguments, index int) *types.Job {
	job, _ := args.Get(index).(*types.Job)
	return job
}

func userArg(args mock.Arguments, index int) *types.User {
	user, _ := args.Get(index).(*types.User)
	return user
}
