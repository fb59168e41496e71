package router

import (
	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/table-reservation/controllers"
	"github.com/yeremiapane/table-reservation/middlewares"
	"github.com/yeremiapane/table-reservation/services"
)

type Options struct {
	CORSOrigin     string
	RateLimitRPS   float64
	RateLimitBurst int
}

func SetupRouter(bookings *services.BookingService, layout *services.LayoutService, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// Apply security middlewares
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(opts.CORSOrigin))
	r.Use(middlewares.LoggerMiddleware())

	// Inisialisasi controller
	bookingCtrl := controllers.NewBookingController(bookings)
	tableCtrl := controllers.NewTableController(bookings)
	layoutCtrl := controllers.NewLayoutController(layout)
	statsCtrl := controllers.NewStatisticsController(bookings)

	// rate limit hanya untuk endpoint yang menulis
	limiter := middlewares.NewRateLimiter(opts.RateLimitRPS, opts.RateLimitBurst).RateLimit()

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// ----------------------------------------------------------------
	//                      BOOKINGS
	// ----------------------------------------------------------------
	r.GET("/bookings", bookingCtrl.GetAllBookings)
	r.GET("/bookings/:booking_id", bookingCtrl.GetBookingByID)
	r.POST("/bookings/check", bookingCtrl.CheckAvailability)

	bookingWrites := r.Group("/bookings")
	bookingWrites.Use(limiter)
	{
		bookingWrites.POST("", bookingCtrl.CreateBooking)
		bookingWrites.POST("/clean", bookingCtrl.CleanBookings)
		bookingWrites.POST("/:booking_id/cancel", bookingCtrl.CancelBooking)
		bookingWrites.POST("/:booking_id/complete", bookingCtrl.CompleteBooking)
	}

	// ----------------------------------------------------------------
	//                      TABLES
	// ----------------------------------------------------------------
	r.GET("/tables", tableCtrl.GetAllTables)
	r.GET("/tables/:table_name", tableCtrl.GetTableByName)
	r.GET("/tables/:table_name/history", tableCtrl.GetTableHistory)

	tableWrites := r.Group("/tables")
	tableWrites.Use(limiter)
	{
		tableWrites.POST("/resync", tableCtrl.ResyncTables)
		tableWrites.POST("/:table_name/release", tableCtrl.ReleaseTable)
	}

	// ----------------------------------------------------------------
	//                      LAYOUT
	// ----------------------------------------------------------------
	r.GET("/layout/snapshots", layoutCtrl.GetSnapshots)

	layoutWrites := r.Group("/layout")
	layoutWrites.Use(limiter)
	{
		layoutWrites.PUT("", layoutCtrl.SaveLayout)
		layoutWrites.POST("/snapshots", layoutCtrl.CreateSnapshot)
		layoutWrites.POST("/snapshots/:snapshot_id/restore", layoutCtrl.RestoreSnapshot)
		layoutWrites.DELETE("/snapshots/:snapshot_id", layoutCtrl.DeleteSnapshot)
	}

	r.GET("/statistics", statsCtrl.GetStatistics)

	return r
}
