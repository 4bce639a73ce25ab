package handlers

import (
	"net/http"

	"go-reliefdesk/state"
	"go-reliefdesk/types"

	"github.com/gin-gonic/gin"
)

func ListDisasters(c *gin.Context, m *state.Manager) {
	c.JSON(http.StatusOK, gin.H{"disasters": m.Disasters()})
}

func CreateDisaster(c *gin.Context, m *state.Manager) {
	var in types.NewDisaster
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "Invalid disaster body")
		return
	}

	d, err := m.AddDisaster(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, d)
}

func GetDisaster(c *gin.Context, m *state.Manager) {
	d, ok := m.DisasterByID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Disaster not found"})
		return
	}
	c.JSON(http.StatusOK, d)
}

func GetActiveDisaster(c *gin.Context, m *state.Manager) {
	d, ok := m.ActiveDisaster()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "No active disaster"})
		return
	}
	c.JSON(http.StatusOK, d)
}

func UpdateDisaster(c *gin.Context, m *state.Manager) {
	var u types.DisasterUpdate
	if err := c.ShouldBindJSON(&u); err != nil {
		badRequest(c, "Invalid disaster body")
		return
	}

	d, err := m.UpdateDisaster(c.Request.Context(), c.Param("id"), u)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func DeleteDisaster(c *gin.Context, m *state.Manager) {
	if err := m.DeleteDisaster(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ActivateDisaster makes the disaster the only active one. Unknown ids are a
// 404 and change nothing.
func ActivateDisaster(c *gin.Context, m *state.Manager) {
	id := c.Param("id")
	if !m.SetActiveDisaster(c.Request.Context(), id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Disaster not found"})
		return
	}
	d, _ := m.DisasterByID(id)
	c.JSON(http.StatusOK, d)
}

// SelectDisaster activates the disaster and loads it into the legacy label
// and global resource list.
func SelectDisaster(c *gin.Context, m *state.Manager) {
	d, err := m.SelectDisaster(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"disaster":         d,
		"selectedDisaster": m.SelectedDisaster(),
		"resources":        m.GlobalResources(),
	})
}
