package endpoint

import (
	"fmt"
	"net/http"
	"path"

	"github.com/julienschmidt/httprouter"

	"github.com/jobly/jobly-api/auth"
	"github.com/jobly/jobly-api/config"
	"github.com/jobly/jobly-api/db"
	"github.com/jobly/jobly-api/log"
	"github.com/jobly/jobly-api/types"
)

const (
	AuthTokenPathFormat    = "/auth/token"
	AuthRegisterPathFormat = "/auth/register"
	CompaniesPathFormat    = "/companies"
	CompanyPathFormat      = "/companies/%s"
	JobsPathFormat         = "/jobs"
	JobPathFormat          = "/jobs/%s"
	UsersPathFormat        = "/users"
	UserPathFormat         = "/users/%s"
	UserJobPathFormat      = "/users/%s/jobs/%s"
	HealthPathFormat       = "/health"
)

type routeList struct {
	store  db.Store
	tokens *auth.TokenIssuer
	logger log.Logger
	ready  func() bool
	params func(*http.Request, string) string
}

func httpRouterParam(r *http.Request, name string) string {
	return httprouter.ParamsFromContext(r.Context()).ByName(name)
}

// Routes returns the REST routes of the jobly API mounted under prefix. The health
// route reports the service unavailable while ready returns false; a nil ready is
// always ready.
func Routes(prefix string, cfg config.Config, store db.Store, ready func() bool) []types.Route {
	if ready == nil {
		ready = func() bool { return true }
	}
	s := &routeList{
		store:  store,
		tokens: auth.NewTokenIssuer(cfg.SecretKey(), cfg.TokenTTL()),
		logger: cfg.Logger().With("endpoint", "rest"),
		ready:  ready,
		params: httpRouterParam,
	}

	url := func(format string, params ...interface{}) string {
		return path.Join(prefix, fmt.Sprintf(format, params...))
	}

	public := s.authenticateJWT
	admin := func(h http.HandlerFunc) http.Handler {
		return s.authenticateJWT(s.ensureLoggedIn(s.ensureAdmin(h)))
	}
	self := func(h http.HandlerFunc) http.Handler {
		return s.authenticateJWT(s.ensureLoggedIn(s.ensureCorrectUserOrAdmin(h)))
	}

	return []types.Route{
		{Method: http.MethodPost, Pattern: url(AuthTokenPathFormat), Handler: public(http.HandlerFunc(s.Token))},
		{Method: http.MethodPost, Pattern: url(AuthRegisterPathFormat), Handler: public(http.HandlerFunc(s.Register))},

		{Method: http.MethodPost, Pattern: url(CompaniesPathFormat), Handler: admin(s.CreateCompany)},
		{Method: http.MethodGet, Pattern: url(CompaniesPathFormat), Handler: public(http.HandlerFunc(s.FindCompanies))},
		{Method: http.MethodGet, Pattern: url(CompanyPathFormat, ":handle"), Handler: public(http.HandlerFunc(s.GetCompany))},
		{Method: http.MethodPatch, Pattern: url(CompanyPathFormat, ":handle"), Handler: admin(s.UpdateCompany)},
		{Method: http.MethodDelete, Pattern: url(CompanyPathFormat, ":handle"), Handler: admin(s.RemoveCompany)},

		{Method: http.MethodPost, Pattern: url(JobsPathFormat), Handler: admin(s.CreateJob)},
		{Method: http.MethodGet, Pattern: url(JobsPathFormat), Handler: public(http.HandlerFunc(s.FindJobs))},
		{Method: http.MethodGet, Pattern: url(JobPathFormat, ":id"), Handler: public(http.HandlerFunc(s.GetJob))},
		{Method: http.MethodPatch, Pattern: url(JobPathFormat, ":id"), Handler: admin(s.UpdateJob)},
		{Method: http.MethodDelete, Pattern: url(JobPathFormat, ":id"), Handler: admin(s.RemoveJob)},

		{Method: http.MethodPost, Pattern: url(UsersPathFormat), Handler: admin(s.CreateUser)},
		{Method: http.MethodGet, Pattern: url(UsersPathFormat), Handler: admin(s.FindUsers)},
		{Method: http.MethodGet, Pattern: url(UserPathFormat, ":username"), Handler: self(s.GetUser)},
		{Method: http.MethodPatch, Pattern: url(UserPathFormat, ":username"), Handler: self(s.UpdateUser)},
		{Method: http.MethodDelete, Pattern: url(UserPathFormat, ":username"), Handler: self(s.RemoveUser)},
		{Method: http.MethodPost, Pattern: url(UserJobPathFormat, ":username", ":id"), Handler: self(s.ApplyToJob)},

		{Method: http.MethodGet, Pattern: url(HealthPathFormat), Handler: http.HandlerFunc(s.Health)},
	}
}
