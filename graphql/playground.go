package graphql

import (
	"fmt"
	"net/http"

	"github.com/julienschmidt/httprouter"
)

const playgroundVersion = "1.7.20"

// GetPlaygroundHandle serves a GraphQL playground page pointing at defaultEndpointUrl
func GetPlaygroundHandle(defaultEndpointUrl string) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "text/html; charset=UTF-8")
		_, _ = fmt.Fprintf(w, playgroundPage, playgroundVersion, playgroundVersion, defaultEndpointUrl)
	}
}

const playgroundPage = `<!DOCTYPE html>
<html>
<head>
  <meta charset=utf-8/>
  <title>Jobly GraphQL</title>
  <link rel="stylesheet" href="//cdn.jsdelivr.net/npm/graphql-playground-react@%[1]s/build/static/css/index.css" />
  <script src="//cdn.jsdelivr.net/npm/graphql-playground-react@%[2]s/build/static/js/middleware.js"></script>
</head>
<body>
  <div id="root"></div>
  <script>
    window.addEventListener('load', function () {
      GraphQLPlayground.init(document.getElementById('root'), {
        endpoint: '%[3]s',
        settings: { 'request.credentials': 'same-origin' }
      })
    })
  </script>
</body>
</html>
`
