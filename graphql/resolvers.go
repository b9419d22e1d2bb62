package graphql

import (
	"net/http"

	"github.com/graphql-go/graphql"

	"github.com/jobly/jobly-api/auth"
	e "github.com/jobly/jobly-api/rest/errors"
	"github.com/jobly/jobly-api/types"
)

// row holds the values of a resolved entity keyed by column name
type row map[string]interface{}

// jobsKey holds the jobs loaded together with a company or the job ids of a user
const jobsKey = "$jobs"

func columnResolver(name string) graphql.FieldResolveFn {
	return func(params graphql.ResolveParams) (interface{}, error) {
		if r, ok := params.Source.(row); ok {
			return r[name], nil
		}
		return nil, nil
	}
}

func int64Value(value *int64) interface{} {
	if value == nil {
		return nil
	}
	return *value
}

func stringValue(value *string) interface{} {
	if value == nil {
		return nil
	}
	return *value
}

func companyRow(c types.Company) row {
	return row{
		"handle":        c.Handle,
		"name":          c.Name,
		"description":   c.Description,
		"num_employees": int64Value(c.NumEmployees),
		"logo_url":      stringValue(c.LogoURL),
	}
}

func jobRow(j types.Job) row {
	return row{
		"id":             j.ID,
		"title":          j.Title,
		"salary":         int64Value(j.Salary),
		"equity":         j.Equity,
		"company_handle": j.CompanyHandle,
	}
}

func userRow(u types.User) row {
	return row{
		"username":   u.Username,
		"first_name": u.FirstName,
		"last_name":  u.LastName,
		"email":      u.Email,
		"is_admin":   u.IsAdmin,
	}
}

func companyDetailRow(c *types.CompanyDetail) row {
	r := companyRow(c.Company)
	jobs := make([]row, 0, len(c.Jobs))
	for _, j := range c.Jobs {
		jobs = append(jobs, jobRow(types.Job{
			ID:            j.ID,
			Title:         j.Title,
			Salary:        j.Salary,
			Equity:        j.Equity,
			CompanyHandle: c.Handle,
		}))
	}
	r[jobsKey] = jobs
	return r
}

func optionalString(args map[string]interface{}, name string) *string {
	if value, ok := args[name].(string); ok {
		return &value
	}
	return nil
}

func optionalInt(args map[string]interface{}, name string) *int64 {
	if value, ok := args[name].(int); ok {
		v := int64(value)
		return &v
	}
	return nil
}

// clientError returns err when it describes a problem with the query, and a
// generic error otherwise so driver details are not sent to the caller.
func (sg *SchemaGenerator) clientError(err error) error {
	if e.StatusCode(err) != http.StatusInternalServerError {
		return err
	}
	sg.logger.Error("unexpected error resolving graphql query", "error", err)
	return e.NewInternalError("internal server error")
}

func (sg *SchemaGenerator) companiesResolver() graphql.FieldResolveFn {
	return func(params graphql.ResolveParams) (interface{}, error) {
		companies, err := sg.store.FindCompanies(params.Context, types.CompanyFilter{
			Name:         optionalString(params.Args, sg.naming.ToGraphQLField("name")),
			MinEmployees: optionalInt(params.Args, sg.naming.ToGraphQLFieldPrefix("min", "employees")),
			MaxEmployees: optionalInt(params.Args, sg.naming.ToGraphQLFieldPrefix("max", "employees")),
		})
		if err != nil {
			return nil, sg.clientError(err)
		}

		result := make([]row, 0, len(companies))
		for _, c := range companies {
			result = append(result, companyRow(c))
		}
		return result, nil
	}
}

func (sg *SchemaGenerator) companyResolver() graphql.FieldResolveFn {
	return func(params graphql.ResolveParams) (interface{}, error) {
		handle, _ := params.Args[sg.naming.ToGraphQLField("handle")].(string)
		company, err := sg.store.GetCompany(params.Context, handle)
		if err != nil {
			return nil, sg.clientError(err)
		}
		return companyDetailRow(company), nil
	}
}

// companyJobsResolver returns the jobs loaded with the company, or loads them
// when the company comes from a list
func (sg *SchemaGenerator) companyJobsResolver() graphql.FieldResolveFn {
	return func(params graphql.ResolveParams) (interface{}, error) {
		source, ok := params.Source.(row)
		if !ok {
			return nil, nil
		}
		if jobs, ok := source[jobsKey]; ok {
			return jobs, nil
		}

		handle, _ := source["handle"].(string)
		company, err := sg.store.GetCompany(params.Context, handle)
		if err != nil {
			return nil, sg.clientError(err)
		}
		return companyDetailRow(company)[jobsKey], nil
	}
}

func (sg *SchemaGenerator) jobCompanyResolver() graphql.FieldResolveFn {
	return func(params graphql.ResolveParams) (interface{}, error) {
		source, ok := params.Source.(row)
		if !ok {
			return nil, nil
		}
		handle, _ := source["company_handle"].(string)
		company, err := sg.store.GetCompany(params.Context, handle)
		if err != nil {
			return nil, sg.clientError(err)
		}
		return companyDetailRow(company), nil
	}
}

func (sg *SchemaGenerator) jobsResolver() graphql.FieldResolveFn {
	return func(params graphql.ResolveParams) (interface{}, error) {
		hasEquity, _ := params.Args[sg.naming.ToGraphQLFieldPrefix("has", "equity")].(bool)
		jobs, err := sg.store.FindJobs(params.Context, types.JobFilter{
			Title:     optionalString(params.Args, sg.naming.ToGraphQLField("title")),
			MinSalary: optionalInt(params.Args, sg.naming.ToGraphQLFieldPrefix("min", "salary")),
			HasEquity: hasEquity,
		})
		if err != nil {
			return nil, sg.clientError(err)
		}

		result := make([]row, 0, len(jobs))
		for _, j := range jobs {
			result = append(result, jobRow(j))
		}
		return result, nil
	}
}

func (sg *SchemaGenerator) jobResolver() graphql.FieldResolveFn {
	return func(params graphql.ResolveParams) (interface{}, error) {
		id, _ := params.Args[sg.naming.ToGraphQLField("id")].(int)
		job, err := sg.store.GetJob(params.Context, int64(id))
		if err != nil {
			return nil, sg.clientError(err)
		}
		return jobRow(*job), nil
	}
}

// userResolver only answers to the user itself or to administrators
func (sg *SchemaGenerator) userResolver() graphql.FieldResolveFn {
	return func(params graphql.ResolveParams) (interface{}, error) {
		username, _ := params.Args[sg.naming.ToGraphQLField("username")].(string)
		if !auth.IsUserOrAdmin(params.Context, username) {
			return nil, e.NewUnauthorizedError("Unauthorized")
		}

		user, err := sg.store.GetUser(params.Context, username)
		if err != nil {
			return nil, sg.clientError(err)
		}
		r := userRow(user.User)
		r[jobsKey] = user.Jobs
		return r, nil
	}
}

func (sg *SchemaGenerator) userJobsResolver() graphql.FieldResolveFn {
	return func(params graphql.ResolveParams) (interface{}, error) {
		source, ok := params.Source.(row)
		if !ok {
			return nil, nil
		}
		ids, _ := source[jobsKey].([]int64)

		result := make([]row, 0, len(ids))
		for _, id := range ids {
			job, err := sg.store.GetJob(params.Context, id)
			if err != nil {
				return nil, sg.clientError(err)
			}
			result = append(result, jobRow(*job))
		}
		return result, nil
	}
}
