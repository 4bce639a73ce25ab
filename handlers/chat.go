package handlers

import (
	"errors"
	"net/http"

	"go-reliefdesk/chat"

	"github.com/gin-gonic/gin"
)

type chatRequest struct {
	Text string `json:"text"`
}

func GetChat(c *gin.Context, s *chat.Session) {
	c.JSON(http.StatusOK, gin.H{"messages": s.Messages()})
}

// PostChat answers one message. Assistant failures still come back as a 200
// with the fallback text as the reply.
func PostChat(c *gin.Context, s *chat.Session) {
	var in chatRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "Invalid chat body")
		return
	}

	ex, err := s.Send(c.Request.Context(), in.Text)
	if errors.Is(err, chat.ErrEmptyMessage) {
		badRequest(c, "Message is empty")
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ex)
}

func ClearChat(c *gin.Context, s *chat.Session) {
	c.JSON(http.StatusOK, gin.H{"messages": s.Clear(c.Request.Context())})
}
