package endpoint

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/jobly/jobly-api/auth"
	e "github.com/jobly/jobly-api/rest/errors"
	m "github.com/jobly/jobly-api/rest/models"
	"github.com/jobly/jobly-api/types"
)

func (s *routeList) Token(w http.ResponseWriter, r *http.Request) {
	var credentials m.Credentials
	if err := parseAndValidatePayload(&credentials, r); err != nil {
		s.respondWithError(w, r, err)
		return
	}

	user, err := s.store.Authenticate(r.Context(), credentials.Username, credentials.Password)
	if err != nil {
		s.respondWithError(w, r, err)
		return
	}

	s.respondWithToken(w, r, http.StatusOK, user)
}

func (s *routeList) Register(w http.ResponseWriter, r *http.Request) {
	var register m.UserRegister
	if err := parseAndValidatePayload(&register, r); err != nil {
		s.respondWithError(w, r, err)
		return
	}

	user, err := s.store.CreateUser(r.Context(), types.NewUser{
		Username:  register.Username,
		Password:  register.Password,
		FirstName: register.FirstName,
		LastName:  register.LastName,
		Email:     register.Email,
	})
	if err != nil {
		s.respondWithError(w, r, err)
		return
	}

	s.respondWithToken(w, r, http.StatusCreated, user)
}

func (s *routeList) respondWithToken(w http.ResponseWriter, r *http.Request, code int, user *types.User) {
	token, err := s.tokens.Sign(auth.Claims{Username: user.Username, IsAdmin: user.IsAdmin})
	if err != nil {
		s.respondWithError(w, r, err)
		return
	}
	RespondJSONObjectWithCode(w, code, m.AuthTokenResponse{Token: token})
}

func (s *routeList) CreateCompany(w http.ResponseWriter, r *http.Request) {
	var company m.CompanyNew
	if err := parseAndValidatePayload(&company, r); err != nil {
		s.respondWithError(w, r, err)
		return
	}

	created, err := s.store.CreateCompany(r.Context(), types.Company{
		Handle:       company.Handle,
		Name:         company.Name,
		Description:  company.Description,
		NumEmployees: company.NumEmployees,
		LogoURL:      company.LogoURL,
	})
	if err != nil {
		s.respondWithError(w, r, err)
		return
	}

	RespondJSONObjectWithCode(w, http.StatusCreated, m.CompanyResponse{Company: created})
}

func (s *routeList) FindCompanies(w http.ResponseWriter, r *http.Request) {
	var filter m.CompanyFilter
	if err := parseFilter(r, &filter); err != nil {
		s.respondWithError(w, r, err)
		return
	}

	companies, err := s.store.FindCompanies(r.Context(), types.CompanyFilter{
		Name:         filter.Name,
		MinEmployees: filter.MinEmployees,
		MaxEmployees: filter.MaxEmployees,
	})
	if err != nil {
		s.respondWithError(w, r, err)
		return
	}

	RespondJSONObjectWithCode(w, http.StatusOK, m.CompaniesResponse{Companies: companies})
}

func (s *routeList) GetCompany(w http.ResponseWriter, r *http.Request) {
	company, err := s.store.GetCompany(r.Context(), s.params(r, "handle"))
	if err != nil {
		s.respondWithError(w, r, err)
		return
	}

	RespondJSONObjectWithCode(w, http.StatusOK, m.CompanyResponse{Company: company})
}

func (s *routeList) UpdateCompany(w http.ResponseWriter, r *http.Request) {
	patch, err := parsePatch(r, companyUpdateSchema)
	if err != nil {
		s.respondWithError(w, r, err)
		return
	}

	handle := s.params(r, "handle")
	s.logger.Debug("updating company", "handle", handle, "fields", patch.Fields())
	company, err := s.store.UpdateCompany(r.Context(), handle, patch)
	if err != nil {
		s.respondWithError(w, r, err)
		return
	}

	RespondJSONObjectWithCode(w, http.StatusOK, m.CompanyResponse{Company: company})
}

func (s *routeList) RemoveCompany(w http.ResponseWriter, r *http.Request) {
	handle := s.params(r, "handle")
	if err := s.store.RemoveCompany(r.Context(), handle); err != nil {
		s.respondWithError(w, r, err)
		return
	}

	RespondJSONObjectWithCode(w, http.StatusOK, m.DeletedResponse{Deleted: handle})
}

func (s *routeList) CreateJob(w http.ResponseWriter, r *http.Request) {
	var job m.JobNew
	if err := parseAndValidatePayload(&job, r); err != nil {
		s.respondWithError(w, r, err)
		return
	}

	created, err := s.store.CreateJob(r.Context(), types.NewJob{
		Title:         job.Title,
		Salary:        job.Salary,
		Equity:        job.Equity,
		CompanyHandle: job.CompanyHandle,
	})
	if err != nil {
		s.respondWithError(w, r, err)
		return
	}

	RespondJSONObjectWithCode(w, http.StatusCreated, m.JobResponse{Job: created})
}

func (s *routeList) FindJobs(w http.ResponseWriter, r *http.Request) {
	var filter m.JobFilter
	if err := parseFilter(r, &filter); err != nil {
		s.respondWithError(w, r, err)
		return
	}

	jobs, err := s.store.FindJobs(r.Context(), types.JobFilter{
		Title:     filter.Title,
		MinSalary: filter.MinSalary,
		HasEquity: filter.HasEquity != nil && *filter.HasEquity,
	})
	if err != nil {
		s.respondWithError(w, r, err)
		return
	}

	RespondJSONObjectWithCode(w, http.StatusOK, m.JobsResponse{Jobs: jobs})
}

func (s *routeList) GetJob(w http.ResponseWriter, r *http.Request) {
	id, err := s.jobID(r)
	if err != nil {
		s.respondWithError(w, r, err)
		return
	}

	job, err := s.store.GetJob(r.Context(), id)
	if err != nil {
		s.respondWithError(w, r, err)
		return
	}

	RespondJSONObjectWithCode(w, http.StatusOK, m.JobResponse{Job: job})
}

func (s *routeList) UpdateJob(w http.ResponseWriter, r *http.Request) {
	id, err := s.jobID(r)
	if err != nil {
		s.respondWithError(w, r, err)
		return
	}

	patch, err := parsePatch(r, jobUpdateSchema)
	if err != nil {
		s.respondWithError(w, r, err)
		return
	}

	s.logger.Debug("updating job", "id", id, "fields", patch.Fields())
	job, err := s.store.UpdateJob(r.Context(), id, patch)
	if err != nil {
		s.respondWithError(w, r, err)
		return
	}

	RespondJSONObjectWithCode(w, http.StatusOK, m.JobResponse{Job: job})
}

func (s *routeList) RemoveJob(w http.ResponseWriter, r *http.Request) {
	id, err := s.jobID(r)
	if err != nil {
		s.respondWithError(w, r, err)
		return
	}

	if err := s.store.RemoveJob(r.Context(), id); err != nil {
		s.respondWithError(w, r, err)
		return
	}

	RespondJSONObjectWithCode(w, http.StatusOK, m.DeletedResponse{Deleted: strconv.FormatInt(id, 10)})
}

func (s *routeList) Health(w http.ResponseWriter, r *http.Request) {
	if !s.ready() {
		RespondJSONObjectWithCode(w, http.StatusServiceUnavailable, m.HealthResponse{Status: "starting"})
		return
	}

	if err := s.store.Ping(r.Context()); err != nil {
		s.logger.Warn("health check failed", "error", err)
		RespondJSONObjectWithCode(w, http.StatusServiceUnavailable, m.HealthResponse{Status: "unavailable"})
		return
	}

	RespondJSONObjectWithCode(w, http.StatusOK, m.HealthResponse{Status: "ok"})
}

// jobID parses the id parameter; ids that are not numbers can not match any job
func (s *routeList) jobID(r *http.Request) (int64, error) {
	raw := s.params(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, e.NewNotFoundError(fmt.Sprintf("No job: %s", raw))
	}
	return id, nil
}
