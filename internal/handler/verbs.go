package handler

import (
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/sabha-admin-api/pkg/errors"
	"github.com/noah-isme/sabha-admin-api/pkg/response"
)

var routableMethods = []string{
	http.MethodGet,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
}

// Verbs maps HTTP methods to the handler serving them on one path.
type Verbs map[string]gin.HandlerFunc

// Resource registers every verb on path and answers the remaining methods with 405 and an Allow
// header listing what the path supports.
func Resource(r gin.IRoutes, path string, verbs Verbs) {
	allowed := make([]string, 0, len(verbs))
	for method, h := range verbs {
		r.Handle(method, path, h)
		allowed = append(allowed, method)
	}
	sort.Strings(allowed)
	reject := MethodNotAllowed(allowed...)
	for _, method := range routableMethods {
		if _, ok := verbs[method]; !ok {
			r.Handle(method, path, reject)
		}
	}
}

// MethodNotAllowed answers with 405 and the Allow header.
func MethodNotAllowed(allowed ...string) gin.HandlerFunc {
	allow := strings.Join(allowed, ", ")
	return func(c *gin.Context) {
		c.Header("Allow", allow)
		response.Error(c, appErrors.Clone(appErrors.ErrMethodNotAllowed, "Method "+c.Request.Method+" Not Allowed"))
	}
}

// bindJSON decodes the request body, answering 400 on malformed input.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload"))
		return false
	}
	return true
}

// requireQuery reads a mandatory query parameter, answering 400 with message when it is blank.
func requireQuery(c *gin.Context, key, message string) (string, bool) {
	v := strings.TrimSpace(c.Query(key))
	if v == "" {
		response.Error(c, appErrors.Validation(message))
		return "", false
	}
	return v, true
}
