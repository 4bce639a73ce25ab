package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"go-reliefdesk/state"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// respondError maps state errors onto status codes.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, state.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, state.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		logrus.WithError(err).Errorf("%s %s failed", c.Request.Method, c.FullPath())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

func intParam(c *gin.Context, name string) (int, bool) {
	n, err := strconv.Atoi(c.Param(name))
	if err != nil {
		badRequest(c, "Invalid "+name)
		return 0, false
	}
	return n, true
}
