// Package httpx renders results and errors the same way for every handler.
// JSON clients get JSON; browser form posts get redirects, as the pages expect.
package httpx

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/in-nis/matura-back/internal/apperr"
)

const (
	LoginPath     = "/login"
	DashboardPath = "/dashboard"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// WantsJSON reports whether the caller speaks JSON rather than HTML forms.
func WantsJSON(c *gin.Context) bool {
	if c.ContentType() == binding.MIMEJSON {
		return true
	}
	if strings.HasPrefix(c.GetHeader("Authorization"), "Bearer ") {
		return true
	}
	accept := c.GetHeader("Accept")
	return strings.Contains(accept, binding.MIMEJSON) && !strings.Contains(accept, binding.MIMEHTML)
}

// Done answers a successful mutation: JSON payload for JSON clients, a
// redirect to redirectTo for form posts. An empty redirectTo always yields JSON.
func Done(c *gin.Context, status int, payload interface{}, redirectTo string) {
	if redirectTo == "" || WantsJSON(c) {
		c.JSON(status, payload)
		return
	}
	c.Redirect(http.StatusFound, redirectTo)
}

// Fail aborts the request with err.
func Fail(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
			Error:  "Niepoprawne dane",
			Fields: TranslateErrors(verrs),
		})
		return
	}

	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		log.Printf("❌ %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "Wewnętrzny błąd serwera"})
		return
	}

	if !WantsJSON(c) {
		switch {
		case appErr.Kind == apperr.KindUnauthenticated:
			c.Redirect(http.StatusFound, LoginPath)
			c.Abort()
			return
		case appErr.Kind == apperr.KindForbidden && appErr.RoleGate:
			c.Redirect(http.StatusFound, DashboardPath)
			c.Abort()
			return
		}
	}

	body := ErrorResponse{Error: appErr.Error()}
	if len(appErr.Fields) > 0 {
		body.Fields = make(map[string]string, len(appErr.Fields))
		for _, f := range appErr.Fields {
			body.Fields[f.Field] = f.Error
		}
	}
	c.AbortWithStatusJSON(appErr.Status(), body)
}

// BadBinding reports a request body that could not be bound.
func BadBinding(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		Fail(c, err)
		return
	}
	Fail(c, apperr.BadRequest("Niepoprawne dane żądania"))
}
