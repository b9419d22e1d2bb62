package models

import "github.com/jobly/jobly-api/types"

// CompanyNew is the payload used to create a company
type CompanyNew struct {
	Handle       string  `json:"handle" validate:"required,min=1,max=25"`
	Name         string  `json:"name" validate:"required,min=1"`
	Description  string  `json:"description" validate:"required"`
	NumEmployees *int64  `json:"numEmployees" validate:"omitempty,min=0,max=2147483647"`
	LogoURL      *string `json:"logoUrl" validate:"omitempty,url"`
}

// CompanyFilter holds the query string filters of the companies search
type CompanyFilter struct {
	Name         *string `mapstructure:"name" validate:"omitempty,min=1"`
	MinEmployees *int64  `mapstructure:"minEmployees" validate:"omitempty,min=0,max=2147483647"`
	MaxEmployees *int64  `mapstructure:"maxEmployees" validate:"omitempty,min=0,max=2147483647"`
}

type CompanyResponse struct {
	Company interface{} `json:"company"`
}

type CompaniesResponse struct {
	Companies []types.Company `json:"companies"`
}
