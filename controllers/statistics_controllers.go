package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/table-reservation/services"
	"github.com/yeremiapane/table-reservation/utils"
)

type StatisticsController struct {
	Bookings *services.BookingService
}

func NewStatisticsController(bookings *services.BookingService) *StatisticsController {
	return &StatisticsController{Bookings: bookings}
}

// GetStatistics -> statistik N hari terakhir (default 7)
func (sc *StatisticsController) GetStatistics(c *gin.Context) {
	days := 7
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > 366 {
			utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("days must be between 1 and 366"))
			return
		}
		days = n
	}

	stats, err := sc.Bookings.Statistics(c.Request.Context(), days)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Statistics", stats)
}
