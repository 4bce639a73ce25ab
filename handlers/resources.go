package handlers

import (
	"net/http"

	"go-reliefdesk/state"
	"go-reliefdesk/types"

	"github.com/gin-gonic/gin"
)

type newResourceRequest struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

type quantityRequest struct {
	Quantity *int `json:"quantity"`
}

type selectedRequest struct {
	SelectedDisaster string             `json:"selectedDisaster"`
	Type             types.DisasterType `json:"type"`
}

// ReplaceDisasterResources swaps the whole resource list of a disaster.
func ReplaceDisasterResources(c *gin.Context, m *state.Manager) {
	var rs []types.Resource
	if err := c.ShouldBindJSON(&rs); err != nil {
		badRequest(c, "Invalid resources body")
		return
	}

	d, err := m.UpdateDisasterResources(c.Request.Context(), c.Param("id"), rs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func AddResource(c *gin.Context, m *state.Manager) {
	var in newResourceRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "Invalid resource body")
		return
	}

	r, err := m.AddResource(c.Request.Context(), c.Param("id"), in.Name, in.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, r)
}

func SetResourceQuantity(c *gin.Context, m *state.Manager) {
	resourceID, ok := intParam(c, "resourceId")
	if !ok {
		return
	}
	var in quantityRequest
	if err := c.ShouldBindJSON(&in); err != nil || in.Quantity == nil {
		badRequest(c, "Missing quantity")
		return
	}

	r, err := m.SetResourceQuantity(c.Request.Context(), c.Param("id"), resourceID, *in.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func ReduceResource(c *gin.Context, m *state.Manager) {
	resourceID, ok := intParam(c, "resourceId")
	if !ok {
		return
	}

	r, err := m.ReduceResource(c.Request.Context(), c.Param("id"), resourceID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func DeleteResource(c *gin.Context, m *state.Manager) {
	resourceID, ok := intParam(c, "resourceId")
	if !ok {
		return
	}

	if err := m.DeleteResource(c.Request.Context(), c.Param("id"), resourceID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func GetGlobalResources(c *gin.Context, m *state.Manager) {
	c.JSON(http.StatusOK, gin.H{"resources": m.GlobalResources()})
}

func SetGlobalResources(c *gin.Context, m *state.Manager) {
	var rs []types.Resource
	if err := c.ShouldBindJSON(&rs); err != nil {
		badRequest(c, "Invalid resources body")
		return
	}
	out, err := m.SetGlobalResources(c.Request.Context(), rs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"resources": out})
}

func GetSelectedDisaster(c *gin.Context, m *state.Manager) {
	c.JSON(http.StatusOK, gin.H{"selectedDisaster": m.SelectedDisaster()})
}

// SetSelectedDisaster sets the legacy label. With a type it also loads that
// type's default resources into the global list.
func SetSelectedDisaster(c *gin.Context, m *state.Manager) {
	var in selectedRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "Invalid selection body")
		return
	}

	ctx := c.Request.Context()
	if in.Type != "" {
		if _, err := m.SelectDisasterType(ctx, in.Type); err != nil {
			respondError(c, err)
			return
		}
	} else {
		m.SetSelectedDisaster(ctx, in.SelectedDisaster)
	}

	c.JSON(http.StatusOK, gin.H{
		"selectedDisaster": m.SelectedDisaster(),
		"resources":        m.GlobalResources(),
	})
}
