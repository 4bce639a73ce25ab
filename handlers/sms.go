package handlers

import (
	"errors"
	"net/http"

	"go-reliefdesk/metrics"
	"go-reliefdesk/sms"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type smsRequest struct {
	To      string `json:"to"`
	Message string `json:"message"`
}

// SendSMS is the relay endpoint. A nil sender means Twilio is not configured.
func SendSMS(c *gin.Context, sender sms.Sender, mt *metrics.Metrics) {
	var in smsRequest
	if err := c.ShouldBindJSON(&in); err != nil || in.To == "" || in.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing to or message"})
		return
	}
	if sender == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Twilio not configured"})
		return
	}

	res, err := sender.Send(c.Request.Context(), in.To, in.Message)
	switch {
	case errors.Is(err, sms.ErrNotConfigured):
		mt.SMS("error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Twilio not configured"})
	case err != nil:
		logrus.WithError(err).Error("Twilio SMS error")
		mt.SMS("error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send SMS"})
	default:
		mt.SMS("sent")
		c.JSON(http.StatusOK, res)
	}
}
