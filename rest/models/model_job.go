package models

import "github.com/jobly/jobly-api/types"

// JobNew is the payload used to create a job
type JobNew struct {
	Title         string        `json:"title" validate:"required,min=1"`
	Salary        *int64        `json:"salary" validate:"omitempty,min=0,max=2147483647"`
	Equity        types.Decimal `json:"equity" validate:"omitempty,min=0,max=1"`
	CompanyHandle string        `json:"companyHandle" validate:"required,min=1,max=25"`
}

// JobFilter holds the query string filters of the jobs search
type JobFilter struct {
	Title     *string `mapstructure:"title" validate:"omitempty,min=1"`
	MinSalary *int64  `mapstructure:"minSalary" validate:"omitempty,min=0,max=2147483647"`
	HasEquity *bool   `mapstructure:"hasEquity"`
}

type JobResponse struct {
	Job *types.Job `json:"job"`
}

type JobsResponse struct {
	Jobs []types.Job `json:"jobs"`
}
