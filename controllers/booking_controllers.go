package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/table-reservation/models"
	"github.com/yeremiapane/table-reservation/reservation"
	"github.com/yeremiapane/table-reservation/services"
	"github.com/yeremiapane/table-reservation/utils"
)

type BookingController struct {
	Bookings *services.BookingService
}

func NewBookingController(bookings *services.BookingService) *BookingController {
	return &BookingController{Bookings: bookings}
}

type bookingRequest struct {
	TableName       string   `json:"table_name" binding:"required"`
	GuestName       string   `json:"guest_name" binding:"required"`
	PartySize       int      `json:"party_size"`
	Date            string   `json:"date" binding:"required"`
	Time            string   `json:"time" binding:"required"`
	DurationMinutes *int     `json:"duration_minutes"`
	DurationHours   *float64 `json:"duration_hours"`
	Notes           string   `json:"notes"`
}

// durationMinutes: duration_minutes menang atas duration_hours.
// duration_hours dicek rentangnya sebelum dikonversi.
func (r bookingRequest) durationMinutes() (*int, error) {
	if r.DurationMinutes != nil {
		return r.DurationMinutes, nil
	}
	if r.DurationHours != nil {
		d, err := reservation.DurationFromHours(*r.DurationHours)
		if err != nil {
			return nil, err
		}
		m := int(d / time.Minute)
		return &m, nil
	}
	return nil, nil
}

type bookingResponse struct {
	Booking        models.Booking     `json:"booking"`
	TableStatus    models.TableStatus `json:"table_status,omitempty"`
	StatusRejected string             `json:"status_rejected,omitempty"`
}

func newBookingResponse(res *reservation.BookingResult) bookingResponse {
	out := bookingResponse{Booking: res.Booking}
	if res.Update != nil {
		out.TableStatus = res.Update.Table.Status
		if res.Update.Rejected != nil {
			out.StatusRejected = res.Update.Rejected.Error()
		}
	}
	return out
}

// CreateBooking -> membuat booking baru setelah cek bentrok
func (bc *BookingController) CreateBooking(c *gin.Context) {
	var req bookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	minutes, err := req.durationMinutes()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	res, err := bc.Bookings.CreateBooking(c.Request.Context(), reservation.BookingInput{
		TableName:       req.TableName,
		GuestName:       req.GuestName,
		PartySize:       req.PartySize,
		Date:            req.Date,
		Time:            req.Time,
		DurationMinutes: minutes,
		Notes:           req.Notes,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Booking created", newBookingResponse(res))
}

// GetAllBookings -> list booking, filter opsional table/date/status
func (bc *BookingController) GetAllBookings(c *gin.Context) {
	bookings, err := bc.Bookings.ListBookings(c.Request.Context(), services.BookingFilter{
		Table:  c.Query("table"),
		Date:   c.Query("date"),
		Status: models.BookingStatus(c.Query("status")),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of bookings", bookings)
}

func (bc *BookingController) GetBookingByID(c *gin.Context) {
	booking, err := bc.Bookings.GetBooking(c.Request.Context(), c.Param("booking_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Booking detail", booking)
}

func (bc *BookingController) CancelBooking(c *gin.Context) {
	res, err := bc.Bookings.CancelBooking(c.Request.Context(), c.Param("booking_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Booking cancelled", newBookingResponse(res))
}

func (bc *BookingController) CompleteBooking(c *gin.Context) {
	res, err := bc.Bookings.CompleteBooking(c.Request.Context(), c.Param("booking_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Booking completed", newBookingResponse(res))
}

// CleanBookings -> hapus booking completed & cancelled
func (bc *BookingController) CleanBookings(c *gin.Context) {
	res, err := bc.Bookings.CleanBookings(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Bookings cleaned", res)
}

// CheckAvailability -> dry run cek bentrok tanpa menyimpan
func (bc *BookingController) CheckAvailability(c *gin.Context) {
	var req struct {
		TableName       string   `json:"table_name" binding:"required"`
		Date            string   `json:"date" binding:"required"`
		Time            string   `json:"time" binding:"required"`
		DurationMinutes *int     `json:"duration_minutes"`
		DurationHours   *float64 `json:"duration_hours"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	duration := bc.Bookings.Engine().DefaultDuration()
	var err error
	switch {
	case req.DurationMinutes != nil:
		duration, err = reservation.DurationFromMinutes(*req.DurationMinutes)
	case req.DurationHours != nil:
		duration, err = reservation.DurationFromHours(*req.DurationHours)
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}

	res, err := bc.Bookings.CheckConflict(c.Request.Context(), reservation.Candidate{
		Table:    req.TableName,
		Date:     req.Date,
		Time:     req.Time,
		Duration: duration,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Availability checked", gin.H{
		"available": !res.Conflict(),
		"conflict":  newConflictView(res),
	})
}
