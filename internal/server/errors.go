package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jonhuth/dsa/internal/algo"
	"github.com/jonhuth/dsa/internal/backend"
	"github.com/jonhuth/dsa/internal/store"
)

// errorResponse is the body of every non-2xx API response.
type errorResponse struct {
	Error  string `json:"error"`
	Status string `json:"status"`
	Field  string `json:"field,omitempty"`
}

// statusCode maps an execution outcome to an HTTP status.
func statusCode(status backend.Status) int {
	switch status {
	case backend.StatusInvalidInput:
		return http.StatusBadRequest
	case backend.StatusUnknown:
		return http.StatusNotFound
	case backend.StatusQuota:
		return http.StatusUnprocessableEntity
	case backend.StatusCanceled:
		// nginx's "client closed request"; the client is gone anyway.
		return 499
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(c *gin.Context, err error) {
	status := backend.Classify(err)
	code := statusCode(status)
	if errors.Is(err, store.ErrNotFound) {
		code, status = http.StatusNotFound, "not_found"
	}

	resp := errorResponse{Error: err.Error(), Status: string(status)}
	var ie *algo.InputError
	if errors.As(err, &ie) {
		resp.Field = ie.Field
	}
	if code >= http.StatusInternalServerError {
		s.log.Error("request failed", "path", c.Request.URL.Path, "error", err)
		resp.Error = "internal error"
	}
	c.AbortWithStatusJSON(code, resp)
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Error: msg, Status: string(backend.StatusInvalidInput)})
}

func notFound(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusNotFound, errorResponse{Error: msg, Status: "not_found"})
}
