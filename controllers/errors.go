package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/table-reservation/models"
	"github.com/yeremiapane/table-reservation/reservation"
	"github.com/yeremiapane/table-reservation/utils"
)

// ConflictView adalah bentuk JSON dari hasil cek bentrok.
type ConflictView struct {
	Table   string          `json:"table"`
	Booking *models.Booking `json:"booking"`
	Start   time.Time       `json:"start"`
	End     time.Time       `json:"end"`
	Message string          `json:"message"`
}

func newConflictView(r reservation.ConflictResult) *ConflictView {
	if !r.Conflict() {
		return nil
	}
	return &ConflictView{
		Table:   r.Table,
		Booking: r.Booking,
		Start:   r.Start,
		End:     r.End,
		Message: r.Message(),
	}
}

// respondServiceError memetakan error domain ke status HTTP.
func respondServiceError(c *gin.Context, err error) {
	var conflict *reservation.ConflictError
	switch {
	case errors.As(err, &conflict):
		utils.RespondErrorData(c, http.StatusConflict, err, newConflictView(conflict.ConflictResult))
	case errors.Is(err, reservation.ErrNotFound):
		utils.RespondError(c, http.StatusNotFound, err)
	case errors.Is(err, reservation.ErrBookingNotActive):
		utils.RespondError(c, http.StatusConflict, err)
	case errors.Is(err, reservation.ErrValidation):
		utils.RespondError(c, http.StatusBadRequest, err)
	default:
		utils.ErrorLogger.Printf("Unexpected error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		utils.RespondError(c, http.StatusInternalServerError, err)
	}
}
