package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

type errorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func badRequest(c *gin.Context, msg string, err error) {
	respondError(c, http.StatusBadRequest, msg, err)
}

func notFound(c *gin.Context, msg string) {
	respondError(c, http.StatusNotFound, msg, nil)
}

func internalError(c *gin.Context, msg string, err error) {
	slog.Error(msg, "path", c.FullPath(), "err", err)
	respondError(c, http.StatusInternalServerError, msg, err)
}

func respondError(c *gin.Context, status int, msg string, err error) {
	body := errorBody{Error: msg}
	if err != nil {
		body.Details = err.Error()
	}
	c.AbortWithStatusJSON(status, body)
}

var errNotConfigured = errors.New("not configured")
