package handlers

import (
	"context"
	"net/http"
	"time"

	"go-reliefdesk/metrics"
	"go-reliefdesk/sms"
	"go-reliefdesk/state"
	"go-reliefdesk/types"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const assignmentSMSTimeout = 15 * time.Second

type notifyRequest struct {
	Message string `json:"message"`
}

func ListVolunteers(c *gin.Context, m *state.Manager) {
	c.JSON(http.StatusOK, gin.H{"volunteers": m.Volunteers()})
}

func CreateVolunteer(c *gin.Context, m *state.Manager) {
	var in types.NewVolunteer
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "Invalid volunteer body")
		return
	}

	v, err := m.AddVolunteer(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, v)
}

func ToggleVolunteer(c *gin.Context, m *state.Manager) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}

	v, err := m.ToggleVolunteerAvailability(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// AssignVolunteer deploys a volunteer. An empty disasterId means the active
// disaster. When the volunteer has a phone and a sender is configured an SMS
// goes out in the background; its outcome never affects the response.
func AssignVolunteer(c *gin.Context, m *state.Manager, sender sms.Sender, mt *metrics.Metrics) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	var a types.Assignment
	if err := c.ShouldBindJSON(&a); err != nil {
		badRequest(c, "Invalid assignment body")
		return
	}
	if a.DisasterID == "" {
		if active, ok := m.ActiveDisaster(); ok {
			a.DisasterID = active.ID
		}
	}

	v, err := m.AssignVolunteer(c.Request.Context(), id, a)
	if err != nil {
		respondError(c, err)
		return
	}

	if v.Phone != "" && sender != nil {
		var target *types.Disaster
		if d, ok := m.DisasterByID(a.DisasterID); ok {
			target = &d
		}
		msg := sms.AssignmentMessage(target, v.AssignedLocation, m.GlobalResources())
		go sendAssignmentSMS(sender, mt, v.Phone, msg)
	}

	c.JSON(http.StatusOK, v)
}

func sendAssignmentSMS(sender sms.Sender, mt *metrics.Metrics, to, msg string) {
	ctx, cancel := context.WithTimeout(context.Background(), assignmentSMSTimeout)
	defer cancel()

	if _, err := sender.Send(ctx, to, msg); err != nil {
		logrus.WithError(err).Warnf("Failed to send assignment SMS to %s", to)
		mt.SMS("error")
		return
	}
	mt.SMS("sent")
}

func NotifyVolunteer(c *gin.Context, m *state.Manager) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	var in notifyRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "Invalid notification body")
		return
	}

	n, err := m.NotifyVolunteer(c.Request.Context(), id, in.Message)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, n)
}
