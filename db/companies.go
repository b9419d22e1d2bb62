package db

import (
	"context"

	"github.com/jobly/jobly-api/types"
)

// CompanyColumns maps the patchable company fields to their columns
var CompanyColumns = map[string]string{
	"numEmployees": "num_employees",
	"logoUrl":      "logo_url",
}

const companyColumns = "handle, name, description, num_employees, logo_url"

func scanCompany(row interface{ Scan(...interface{}) error }) (*types.Company, error) {
	var c types.Company
	if err := row.Scan(&c.Handle, &c.Name, &c.Description, &c.NumEmployees, &c.LogoURL); err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateCompany inserts company and returns the stored row
func (db *Db) CreateCompany(ctx context.Context, company types.Company) (*types.Company, error) {
	query := "INSERT INTO companies (" + companyColumns + ") VALUES ($1, $2, $3, $4, $5) RETURNING " + companyColumns
	created, err := scanCompany(db.QueryRow(ctx, query,
		company.Handle, company.Name, company.Description, company.NumEmployees, company.LogoURL))
	if IsDuplicateKey(err) {
		return nil, newError(ErrInvalidInput, "Duplicate company: %s", company.Handle)
	}
	return created, err
}

// FindCompanies returns the companies matching filter ordered by name
func (db *Db) FindCompanies(ctx context.Context, filter types.CompanyFilter) ([]types.Company, error) {
	if filter.MinEmployees != nil && filter.MaxEmployees != nil && *filter.MinEmployees > *filter.MaxEmployees {
		return nil, newError(ErrInvalidInput, "minEmployees must be less than maxEmployees")
	}

	var where conditions
	if filter.Name != nil {
		where.add(`LOWER(name) LIKE LOWER($%d) ESCAPE '\'`, containsPattern(*filter.Name))
	}
	if filter.MinEmployees != nil {
		where.add("num_employees >= $%d", *filter.MinEmployees)
	}
	if filter.MaxEmployees != nil {
		where.add("num_employees <= $%d", *filter.MaxEmployees)
	}

	rows, err := db.Query(ctx, "SELECT "+companyColumns+" FROM companies"+where.String()+" ORDER BY name", where.values...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	companies := make([]types.Company, 0)
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, mapError(err)
		}
		companies = append(companies, *c)
	}
	return companies, mapError(rows.Err())
}

// GetCompany returns the company with handle and its jobs
func (db *Db) GetCompany(ctx context.Context, handle string) (*types.CompanyDetail, error) {
	company, err := scanCompany(db.QueryRow(ctx,
		"SELECT "+companyColumns+" FROM companies WHERE handle = $1", handle))
	if IsNotFound(err) {
		return nil, noCompany(handle)
	}
	if err != nil {
		return nil, err
	}

	rows, err := db.Query(ctx,
		"SELECT id, title, salary, equity FROM jobs WHERE company_handle = $1 ORDER BY id", handle)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	detail := &types.CompanyDetail{Company: *company, Jobs: make([]types.CompanyJob, 0)}
	for rows.Next() {
		var j types.CompanyJob
		if err := rows.Scan(&j.ID, &j.Title, &j.Salary, &j.Equity); err != nil {
			return nil, mapError(err)
		}
		detail.Jobs = append(detail.Jobs, j)
	}
	return detail, mapError(rows.Err())
}

// UpdateCompany applies patch to the company with handle
func (db *Db) UpdateCompany(ctx context.Context, handle string, patch types.Patch) (*types.Company, error) {
	setClause, values, err := PartialUpdate(patch, CompanyColumns)
	if err != nil {
		return nil, err
	}

	query := updateStatement("companies", setClause, "handle", len(values)+1, companyColumns)
	company, err := scanCompany(db.QueryRow(ctx, query, append(values, handle)...))
	if IsNotFound(err) {
		return nil, noCompany(handle)
	}
	return company, err
}

// RemoveCompany deletes the company with handle
func (db *Db) RemoveCompany(ctx context.Context, handle string) error {
	var deleted string
	err := db.QueryRow(ctx, "DELETE FROM companies WHERE handle = $1 RETURNING handle", handle).Scan(&deleted)
	if IsNotFound(err) {
		return noCompany(handle)
	}
	return err
}

func noCompany(handle string) error {
	return newError(ErrNotFound, "No company: %s", handle)
}
