package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/table-reservation/models"
	"github.com/yeremiapane/table-reservation/services"
	"github.com/yeremiapane/table-reservation/utils"
)

type LayoutController struct {
	Layout *services.LayoutService
}

func NewLayoutController(layout *services.LayoutService) *LayoutController {
	return &LayoutController{Layout: layout}
}

// SaveLayout -> simpan denah meja (snapshot otomatis sebelum disimpan)
func (lc *LayoutController) SaveLayout(c *gin.Context) {
	var req struct {
		Tables []models.LayoutTable `json:"tables" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	res, err := lc.Layout.SaveLayout(c.Request.Context(), req.Tables)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Layout saved", res)
}

func (lc *LayoutController) GetSnapshots(c *gin.Context) {
	snaps, err := lc.Layout.ListSnapshots(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of layout snapshots", snaps)
}

func (lc *LayoutController) CreateSnapshot(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	// body opsional
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
	}

	snap, err := lc.Layout.CreateSnapshot(c.Request.Context(), req.Name)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if snap == nil {
		utils.RespondJSON(c, http.StatusOK, "No tables to snapshot", nil)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Snapshot created", snap)
}

func (lc *LayoutController) RestoreSnapshot(c *gin.Context) {
	id, ok := snapshotID(c)
	if !ok {
		return
	}
	res, err := lc.Layout.RestoreSnapshot(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Layout restored", res)
}

func (lc *LayoutController) DeleteSnapshot(c *gin.Context) {
	id, ok := snapshotID(c)
	if !ok {
		return
	}
	if err := lc.Layout.DeleteSnapshot(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Snapshot deleted", gin.H{"id": id})
}

func snapshotID(c *gin.Context) (uint, bool) {
	raw := c.Param("snapshot_id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid snapshot id %q", raw))
		return 0, false
	}
	return uint(id), true
}
