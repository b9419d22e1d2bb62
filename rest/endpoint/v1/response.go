package endpoint

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/jobly/jobly-api/db"
	e "github.com/jobly/jobly-api/rest/errors"
	m "github.com/jobly/jobly-api/rest/models"
)

// RespondJSONObjectWithCode writes the object and status header to the response. Important to note that if this is being
// used for an error case then an empty return will need to immediately follow the call to this function
func RespondJSONObjectWithCode(w http.ResponseWriter, code int, obj interface{}) {
	setCommonHeaders(w)
	var err error
	var jsonBytes []byte
	if obj != nil {
		jsonBytes, err = json.Marshal(obj)
	}
	writeJSONBytes(w, jsonBytes, err, code)
}

func writeJSONBytes(w http.ResponseWriter, jsonBytes []byte, err error, code int) {
	if err != nil {
		RespondWithError(w, errors.New("unable to marshal response"), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(code)
	if jsonBytes != nil {
		_, _ = w.Write(jsonBytes)
	}
}

func RespondWithError(w http.ResponseWriter, err error, code int) {
	requestError := m.ModelError{
		Description:  err.Error(),
		InternalCode: strconv.Itoa(code),
	}
	RespondJSONObjectWithCode(w, code, requestError)
}

func setCommonHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
}

// respondWithError reports err with the status matching its kind. Unexpected
// errors are logged and answered without their message.
func (s *routeList) respondWithError(w http.ResponseWriter, r *http.Request, err error) {
	code := e.StatusCode(err)
	if code == http.StatusInternalServerError {
		switch {
		case db.IsCheckViolation(err), db.IsInvalidInput(err), errors.Is(err, db.ErrNotNullViolation):
			RespondWithError(w, errors.New("invalid value provided"), http.StatusBadRequest)
			return
		case db.IsDuplicateKey(err):
			RespondWithError(w, errors.New("value already in use"), http.StatusConflict)
			return
		}

		s.logger.Error("unexpected error processing request",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err)
		RespondWithError(w, e.NewInternalError("internal server error"), code)
		return
	}

	RespondWithError(w, err, code)
}
