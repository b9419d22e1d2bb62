package db

import (
	"context"

	"github.com/jobly/jobly-api/types"
)

// JobColumns maps the patchable job fields to their columns; all of them share the field name
var JobColumns = map[string]string{}

const jobColumns = "id, title, salary, equity, company_handle"

func scanJob(row interface{ Scan(...interface{}) error }) (*types.Job, error) {
	var j types.Job
	if err := row.Scan(&j.ID, &j.Title, &j.Salary, &j.Equity, &j.CompanyHandle); err != nil {
		return nil, err
	}
	return &j, nil
}

// CreateJob inserts job and returns the stored row with its assigned id
func (db *Db) CreateJob(ctx context.Context, job types.NewJob) (*types.Job, error) {
	query := "INSERT INTO jobs (title, salary, equity, company_handle) VALUES ($1, $2, $3, $4) RETURNING " + jobColumns
	created, err := scanJob(db.QueryRow(ctx, query, job.Title, job.Salary, job.Equity, job.CompanyHandle))
	if IsForeignKeyViolation(err) {
		return nil, newError(ErrInvalidInput, "No company: %s", job.CompanyHandle)
	}
	return created, err
}

// FindJobs returns the jobs matching filter ordered by title
func (db *Db) FindJobs(ctx context.Context, filter types.JobFilter) ([]types.Job, error) {
	var where conditions
	if filter.Title != nil {
		where.add(`LOWER(title) LIKE LOWER($%d) ESCAPE '\'`, containsPattern(*filter.Title))
	}
	if filter.MinSalary != nil {
		where.add("salary >= $%d", *filter.MinSalary)
	}
	if filter.HasEquity {
		where.addLiteral("equity > 0")
	}

	rows, err := db.Query(ctx, "SELECT "+jobColumns+" FROM jobs"+where.String()+" ORDER BY title, id", where.values...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := make([]types.Job, 0)
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, mapError(err)
		}
		jobs = append(jobs, *j)
	}
	return jobs, mapError(rows.Err())
}

// GetJob returns the job with id
func (db *Db) GetJob(ctx context.Context, id int64) (*types.Job, error) {
	job, err := scanJob(db.QueryRow(ctx, "SELECT "+jobColumns+" FROM jobs WHERE id = $1", id))
	if IsNotFound(err) {
		return nil, noJob(id)
	}
	return job, err
}

// UpdateJob applies patch to the job with id
func (db *Db) UpdateJob(ctx context.Context, id int64, patch types.Patch) (*types.Job, error) {
	setClause, values, err := PartialUpdate(patch, JobColumns)
	if err != nil {
		return nil, err
	}

	query := updateStatement("jobs", setClause, "id", len(values)+1, jobColumns)
	job, err := scanJob(db.QueryRow(ctx, query, append(values, id)...))
	if IsNotFound(err) {
		return nil, noJob(id)
	}
	return job, err
}

// RemoveJob deletes the job with id
func (db *Db) RemoveJob(ctx context.Context, id int64) error {
	var deleted int64
	err := db.QueryRow(ctx, "DELETE FROM jobs WHERE id = $1 RETURNING id", id).Scan(&deleted)
	if IsNotFound(err) {
		return noJob(id)
	}
	return err
}

func noJob(id int64) error {
	return newError(ErrNotFound, "No job: %d", id)
}
