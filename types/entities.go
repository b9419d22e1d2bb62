package types

// Company is a row of the companies table
type Company struct {
	Handle       string  `json:"handle"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	NumEmployees *int64  `json:"numEmployees"`
	LogoURL      *string `json:"logoUrl"`
}

// CompanyJob is the summary of a job listed under its company
type CompanyJob struct {
	ID     int64   `json:"id"`
	Title  string  `json:"title"`
	Salary *int64  `json:"salary"`
	Equity Decimal `json:"equity"`
}

// CompanyDetail is a company together with its open jobs
type CompanyDetail struct {
	Company
	Jobs []CompanyJob `json:"jobs"`
}

// CompanyFilter narrows FindCompanies. Nil fields are ignored.
type CompanyFilter struct {
	Name         *string
	MinEmployees *int64
	MaxEmployees *int64
}

// Job is a row of the jobs table
type Job struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	Salary        *int64  `json:"salary"`
	Equity        Decimal `json:"equity"`
	CompanyHandle string  `json:"companyHandle"`
}

// NewJob holds the values of a job to be created; the id is assigned by the database
type NewJob struct {
	Title         string
	Salary        *int64
	Equity        Decimal
	CompanyHandle string
}

// JobFilter narrows FindJobs. HasEquity false means no equity filtering.
type JobFilter struct {
	Title     *string
	MinSalary *int64
	HasEquity bool
}

// User is a row of the users table without its password
type User struct {
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	IsAdmin   bool   `json:"isAdmin"`
}

// UserDetail is a user together with the ids of the jobs it applied to
type UserDetail struct {
	User
	Jobs []int64 `json:"jobs"`
}

// NewUser holds the values of a user to be created. Password is the clear text
// password; it is hashed before being stored.
type NewUser struct {
	Username  string
	Password  string
	FirstName string
	LastName  string
	Email     string
	IsAdmin   bool
}
