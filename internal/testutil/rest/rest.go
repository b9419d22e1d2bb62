package rest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path"
	"reflect"
	"regexp"
	"strings"

	"github.com/julienschmidt/httprouter"
	. "github.com/onsi/gomega"

	"github.com/jobly/jobly-api/rest/models"
	"github.com/jobly/jobly-api/types"
)

const Prefix = "/"

// Client executes requests against a set of routes, authenticated with Token when set
type Client struct {
	Routes []types.Route
	Token  string
}

func (c Client) WithToken(token string) Client {
	c.Token = token
	return c
}

func (c Client) ExecuteGet(routeFormat string, responsePtr interface{}, values ...interface{}) int {
	return c.execute(http.MethodGet, routeFormat, "", responsePtr, values...)
}

func (c Client) ExecutePost(routeFormat string, requestBody string, responsePtr interface{}, values ...interface{}) int {
	return c.execute(http.MethodPost, routeFormat, requestBody, responsePtr, values...)
}

func (c Client) ExecutePatch(routeFormat string, requestBody string, responsePtr interface{}, values ...interface{}) int {
	return c.execute(http.MethodPatch, routeFormat, requestBody, responsePtr, values...)
}

func (c Client) ExecuteDelete(routeFormat string, responsePtr interface{}, values ...interface{}) int {
	return c.execute(http.MethodDelete, routeFormat, "", responsePtr, values...)
}

func (c Client) execute(
	method string,
	routeFormat string,
	requestBody string,
	responsePtr interface{},
	values ...interface{},
) int {
	rv := reflect.ValueOf(responsePtr)
	if responsePtr != nil && rv.Kind() != reflect.Ptr {
		panic("Provided value should be a pointer or nil")
	}

	// Query strings are not part of the route pattern
	routePath, query := routeFormat, ""
	if i := strings.Index(routeFormat, "?"); i >= 0 {
		routePath, query = routeFormat[:i], routeFormat[i:]
	}

	pathValues := strings.Count(routePath, "%s")
	target := path.Join(Prefix, fmt.Sprintf(routePath, values[:pathValues]...))
	if query != "" {
		target += fmt.Sprintf(query, values[pathValues:]...)
	}

	var body io.Reader = nil
	if requestBody != "" {
		body = bytes.NewBuffer([]byte(requestBody))
	}

	r := httptest.NewRequest(method, target, body)
	if body != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		r.Header.Set("Authorization", "Bearer "+c.Token)
	}

	w := httptest.NewRecorder()
	route := lookupRoute(c.Routes, method, routePath)

	// Use default router for params to be populated
	router := httprouter.New()
	router.Handler(method, route.Pattern, route.Handler)
	router.ServeHTTP(w, r)

	if w.Code < http.StatusOK || w.Code > http.StatusIMUsed {
		// Not in the 2xx range
		if responsePtr == nil {
			return w.Code
		}
		_, ok := responsePtr.(*models.ModelError)
		if !ok {
			panic(fmt.Sprintf("unexpected http error %d: %s", w.Code, w.Body))
		}
	}

	if responsePtr != nil && w.Code != http.StatusNoContent {
		bodyString := w.Body.String()
		err := json.NewDecoder(bytes.NewBufferString(bodyString)).Decode(responsePtr)
		Expect(err).ToNot(HaveOccurred(),
			fmt.Sprintf("Error decoding response with code %d and body: %s", w.Code, bodyString))
	}

	return w.Code
}

func lookupRoute(routes []types.Route, method, format string) types.Route {
	// Word tokens for parameters
	regexStr := `^` + strings.Replace(regexp.QuoteMeta(path.Join(Prefix, format)), `%s`, `[\w:{}]+`, -1)
	// End of the string
	regexStr += `$`

	re := regexp.MustCompile(regexStr)
	for _, route := range routes {
		if re.MatchString(route.Pattern) && route.Method == method {
			return route
		}
	}

	panic("Route not found")
}
