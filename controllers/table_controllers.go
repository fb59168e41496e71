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

type TableController struct {
	Bookings *services.BookingService
}

func NewTableController(bookings *services.BookingService) *TableController {
	return &TableController{Bookings: bookings}
}

// GetAllTables -> menampilkan seluruh meja, opsional ?status=
func (tc *TableController) GetAllTables(c *gin.Context) {
	tables, err := tc.Bookings.ListTables(c.Request.Context(), models.TableStatus(c.Query("status")))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

func (tc *TableController) GetTableByName(c *gin.Context) {
	table, err := tc.Bookings.GetTable(c.Request.Context(), c.Param("table_name"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table detail", table)
}

// GetTableHistory -> riwayat status meja, terbaru dulu
func (tc *TableController) GetTableHistory(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid limit %q", raw))
			return
		}
		limit = n
	}

	history, err := tc.Bookings.TableHistory(c.Request.Context(), c.Param("table_name"), limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table history", history)
}

// ReleaseTable -> kosongkan meja secara manual
func (tc *TableController) ReleaseTable(c *gin.Context) {
	res, err := tc.Bookings.ReleaseTable(c.Request.Context(), c.Param("table_name"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table released", gin.H{
		"table":              res.Table,
		"old_status":         res.OldStatus,
		"completed_bookings": res.Completed,
	})
}

// ResyncTables -> hitung ulang status semua meja sekarang
func (tc *TableController) ResyncTables(c *gin.Context) {
	changes, err := tc.Bookings.ResyncTables(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	type change struct {
		Table     string             `json:"table"`
		OldStatus models.TableStatus `json:"old_status"`
		NewStatus models.TableStatus `json:"new_status"`
		Applied   bool               `json:"applied"`
		Rejected  string             `json:"rejected,omitempty"`
	}
	out := make([]change, 0, len(changes))
	for _, u := range changes {
		ch := change{Table: u.Table.Name, OldStatus: u.OldStatus, NewStatus: u.NewStatus, Applied: u.Applied}
		if u.Rejected != nil {
			ch.Rejected = u.Rejected.Error()
		}
		out = append(out, ch)
	}
	utils.RespondJSON(c, http.StatusOK, "Tables resynced", out)
}
