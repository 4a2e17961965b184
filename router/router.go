package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/sahrati/reservation-backend/controllers"
	"github.com/sahrati/reservation-backend/middlewares"
	"github.com/sahrati/reservation-backend/services"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	// Registered before any route so every handler chain includes it.
	// General limiter: 50 requests per second per IP.
	rateLimiter := middlewares.NewRateLimiter(50, 1)
	r.Use(rateLimiter.RateLimit())

	// Core wiring: resolver and engine are built once and injected.
	availability := services.NewAvailabilityService(db)
	mailer := services.NewMailer(db)
	engine := services.NewReservationService(db, availability, mailer)

	userCtrl := controllers.NewUserController(db)
	tableCtrl := controllers.NewTableController(db)
	customerCtrl := controllers.NewCustomerController(db)
	reservationCtrl := controllers.NewReservationController(db, engine, availability)
	dashboardCtrl := controllers.NewDashboardController(db)
	settingsCtrl := controllers.NewSettingsController(db)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	// ----------------------------------------------------------------
	//                      OPERATOR ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/")
	auth.Use(middlewares.AuthMiddleware())
	{
		auth.GET("/profile", userCtrl.GetProfile)

		// Live updates for dashboard/calendar views
		auth.GET("/events/ws", controllers.EventsHandler)

		// Tables
		auth.GET("/tables", tableCtrl.GetAllTables)
		auth.POST("/tables", tableCtrl.CreateTable)
		auth.GET("/tables/available", reservationCtrl.GetAvailableTables)
		auth.GET("/tables/:table_number", tableCtrl.GetTableByNumber)
		auth.PATCH("/tables/:table_number/status", tableCtrl.UpdateTableStatus)
		auth.DELETE("/tables/:table_number", middlewares.RequireAdmin(), tableCtrl.DeleteTable)

		// Reservations
		auth.POST("/reservations", reservationCtrl.CreateReservation)
		auth.GET("/reservations", reservationCtrl.ListReservations)
		auth.GET("/reservations/:reservation_id", reservationCtrl.GetReservationByID)
		auth.PATCH("/reservations/:reservation_id", reservationCtrl.UpdateReservation)
		auth.POST("/reservations/:reservation_id/approve", reservationCtrl.ApproveReservation)
		auth.POST("/reservations/:reservation_id/cancel", reservationCtrl.CancelReservation)

		// Customers
		auth.GET("/customers", customerCtrl.GetAllCustomers)
		auth.DELETE("/customers/:customer_id", middlewares.RequireAdmin(), customerCtrl.DeleteCustomer)

		// Dashboard
		auth.GET("/dashboard/stats", dashboardCtrl.GetStats)
		auth.GET("/dashboard/table-status", dashboardCtrl.GetTableStatusCounts)
		auth.GET("/dashboard/upcoming", dashboardCtrl.GetUpcomingReservations)
		auth.GET("/dashboard/recent-customers", dashboardCtrl.GetRecentCustomers)

		// Settings
		auth.GET("/settings/email-templates", settingsCtrl.GetEmailTemplates)
		auth.PUT("/settings/email-templates/:type", middlewares.RequireAdmin(), settingsCtrl.UpdateEmailTemplate)
		auth.GET("/settings/email-logs", settingsCtrl.GetEmailLogs)
	}

	return r
}
