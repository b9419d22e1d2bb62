package endpoint

import (
	"net/http"
	"strconv"

	"github.com/jobly/jobly-api/auth"
	e "github.com/jobly/jobly-api/rest/errors"
	m "github.com/jobly/jobly-api/rest/models"
	"github.com/jobly/jobly-api/types"
)

func (s *routeList) CreateUser(w http.ResponseWriter, r *http.Request) {
	var user m.UserNew
	if err := parseAndValidatePayload(&user, r); err != nil {
		s.respondWithError(w, r, err)
		return
	}

	created, err := s.store.CreateUser(r.Context(), types.NewUser{
		Username:  user.Username,
		Password:  user.Password,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		IsAdmin:   user.IsAdmin,
	})
	if err != nil {
		s.respondWithError(w, r, err)
		return
	}

	token, err := s.tokens.Sign(auth.Claims{Username: created.Username, IsAdmin: created.IsAdmin})
	if err != nil {
		s.respondWithError(w, r, err)
		return
	}

	RespondJSONObjectWithCode(w, http.StatusCreated, m.UserTokenResponse{User: created, Token: token})
}

func (s *routeList) FindUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.store.FindUsers(r.Context())
	if err != nil {
		s.respondWithError(w, r, err)
		return
	}

	RespondJSONObjectWithCode(w, http.StatusOK, m.UsersResponse{Users: users})
}

func (s *routeList) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.store.GetUser(r.Context(), s.params(r, "username"))
	if err != nil {
		s.respondWithError(w, r, err)
		return
	}

	RespondJSONObjectWithCode(w, http.StatusOK, m.UserResponse{User: user})
}

func (s *routeList) UpdateUser(w http.ResponseWriter, r *http.Request) {
	patch, err := parsePatch(r, userUpdateSchema)
	if err != nil {
		s.respondWithError(w, r, err)
		return
	}

	// Only administrators grant or revoke administrator rights
	if _, ok := patch.Get("isAdmin"); ok && !auth.IsAdmin(r.Context()) {
		s.respondWithError(w, r, e.NewUnauthorizedError("Unauthorized"))
		return
	}

	username := s.params(r, "username")
	s.logger.Debug("updating user", "username", username, "fields", patch.Fields())
	user, err := s.store.UpdateUser(r.Context(), username, patch)
	if err != nil {
		s.respondWithError(w, r, err)
		return
	}

	RespondJSONObjectWithCode(w, http.StatusOK, m.UserResponse{User: user})
}

func (s *routeList) RemoveUser(w http.ResponseWriter, r *http.Request) {
	username := s.params(r, "username")
	if err := s.store.RemoveUser(r.Context(), username); err != nil {
		s.respondWithError(w, r, err)
		return
	}

	RespondJSONObjectWithCode(w, http.StatusOK, m.DeletedResponse{Deleted: username})
}

func (s *routeList) ApplyToJob(w http.ResponseWriter, r *http.Request) {
	id, err := s.jobID(r)
	if err != nil {
		s.respondWithError(w, r, err)
		return
	}

	if err := s.store.ApplyToJob(r.Context(), s.params(r, "username"), id); err != nil {
		s.respondWithError(w, r, err)
		return
	}

	RespondJSONObjectWithCode(w, http.StatusOK, m.AppliedResponse{Applied: strconv.FormatInt(id, 10)})
}
