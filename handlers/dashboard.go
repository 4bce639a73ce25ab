package handlers

import (
	"net/http"
	"strings"

	"go-reliefdesk/state"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login accepts any non-empty credentials.
func Login(c *gin.Context) {
	var in loginRequest
	if err := c.ShouldBindJSON(&in); err != nil || strings.TrimSpace(in.Username) == "" || in.Password == "" {
		badRequest(c, "Please enter both username and password")
		return
	}
	c.JSON(http.StatusOK, gin.H{"loggedIn": true, "redirect": "/setup"})
}

func GetStats(c *gin.Context, m *state.Manager) {
	c.JSON(http.StatusOK, m.Stats())
}

func GetSnapshot(c *gin.Context, m *state.Manager) {
	c.JSON(http.StatusOK, m.Snapshot())
}
