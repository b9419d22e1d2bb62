package testutil

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/jobly/jobly-api/db"
	"github.com/jobly/jobly-api/log"
	"github.com/jobly/jobly-api/types"
)

func PanicIfError(err error) {
	if err != nil {
		panic(err)
	}
}

func TestLogger() log.Logger {
	if strings.ToUpper(os.Getenv("TEST_TRACE")) == "ON" {
		logger, err := zap.NewDevelopment()
		if err != nil {
			panic(err)
		}
		return log.NewZapLogger(logger)
	}

	return log.NewZapLogger(zap.NewNop())
}

// SQLiteConfig returns the configuration of a sqlite database stored in dir
func SQLiteConfig(dir string) db.Config {
	cfg, err := db.ConfigFromURL("sqlite3://" + filepath.Join(dir, "jobly.db"))
	PanicIfError(err)
	return cfg
}

// Password is the password of the seeded users
const Password = "password1"

// SeedStore inserts companies c1, c2 and c3, three jobs of c1 and the users u1
// and admin. It returns the created jobs.
func SeedStore(store db.Store) []types.Job {
	ctx := context.Background()
	numEmployees := func(n int64) *int64 { return &n }

	for i, handle := range []string{"c1", "c2", "c3"} {
		_, err := store.CreateCompany(ctx, types.Company{
			Handle:       handle,
			Name:         strings.ToUpper(handle),
			Description:  "Desc" + handle[1:],
			NumEmployees: numEmployees(int64(i + 1)),
		})
		PanicIfError(err)
	}

	salary := func(n int64) *int64 { return &n }
	jobs := make([]types.Job, 0, 3)
	for _, job := range []types.NewJob{
		{Title: "J1", Salary: salary(1), Equity: types.MustDecimal("0.1"), CompanyHandle: "c1"},
		{Title: "J2", Salary: salary(2), Equity: types.MustDecimal("0.2"), CompanyHandle: "c1"},
		{Title: "J3", Salary: salary(3), Equity: types.MustDecimal("0"), CompanyHandle: "c1"},
	} {
		created, err := store.CreateJob(ctx, job)
		PanicIfError(err)
		jobs = append(jobs, *created)
	}

	for _, user := range []types.NewUser{
		{Username: "u1", Password: Password, FirstName: "U1F", LastName: "U1L", Email: "user1@user.com"},
		{Username: "admin", Password: Password, FirstName: "AF", LastName: "AL", Email: "admin@user.com", IsAdmin: true},
	} {
		_, err := store.CreateUser(ctx, user)
		PanicIfError(err)
	}

	return jobs
}
