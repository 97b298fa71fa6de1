package routes

import (
	"database/sql"

	"github.com/UBISmashers/UBIsmashers-sub000/internal/auth"
	"github.com/UBISmashers/UBIsmashers-sub000/internal/controllers"
	"github.com/UBISmashers/UBIsmashers-sub000/internal/middleware"
	"github.com/UBISmashers/UBIsmashers-sub000/internal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SetupRoutes(r *gin.Engine, db *gorm.DB, sqlDB *sql.DB, iss *auth.Issuer) {
	r.GET("/healthz", controllers.Health(sqlDB))

	api := r.Group("/api")
	api.GET("/public/bills", controllers.PublicBills(db))

	api.POST("/auth/register", controllers.RegisterHandler(db, iss))
	api.POST("/auth/login", controllers.LoginHandler(db, iss))
	api.POST("/auth/refresh", controllers.RefreshHandler(db, iss))

	authorized := api.Group("/")
	authorized.Use(middleware.AuthMiddleware(iss, db))
	admin := middleware.RequireRole(models.RoleAdmin)

	authorized.POST("/auth/logout", controllers.LogoutHandler(db))
	authorized.GET("/auth/me", controllers.MeHandler(db))

	members := authorized.Group("/members")
	members.GET("", controllers.ListMembers(db))
	members.GET("/:id", controllers.GetMember(db))
	members.GET("/:id/statement", controllers.MemberStatement(db))
	members.POST("", admin, controllers.CreateMember(db))
	members.PUT("/:id", admin, controllers.UpdateMember(db))
	members.DELETE("/:id", admin, controllers.DeleteMember(db))
	members.POST("/:id/recalculate", admin, controllers.RecalculateMemberBalance(db))

	bookings := authorized.Group("/bookings")
	bookings.GET("", controllers.ListBookings(db))
	bookings.POST("", admin, controllers.CreateSlot(db))
	bookings.POST("/:id/book", controllers.BookSlot(db))
	bookings.POST("/:id/cancel", controllers.CancelBooking(db))
	bookings.DELETE("/:id", admin, controllers.DeleteBooking(db))

	attendance := authorized.Group("/attendance")
	attendance.GET("", controllers.ListAttendance(db))
	attendance.GET("/member/:id", controllers.MemberAttendance(db))
	attendance.POST("", admin, controllers.RecordAttendance(db))

	expenses := authorized.Group("/expenses")
	expenses.GET("", controllers.ListExpenses(db))
	expenses.GET("/:id", controllers.GetExpense(db))
	expenses.POST("", admin, controllers.CreateExpense(db))
	expenses.PUT("/:id", admin, controllers.UpdateExpense(db))
	expenses.DELETE("/:id", admin, controllers.DeleteExpense(db))

	payments := authorized.Group("/payments")
	payments.GET("", controllers.ListShares(db))
	payments.PATCH("/:id/pay", admin, controllers.MarkSharePaid(db))

	reports := authorized.Group("/reports", admin)
	reports.GET("/summary", controllers.SummaryReport(db))
	reports.GET("/monthly", controllers.MonthlyReport(db))
	reports.GET("/balances", controllers.BalancesReport(db))

	notifications := authorized.Group("/notifications")
	notifications.GET("", controllers.ListNotifications(db))
	notifications.GET("/unread-count", controllers.UnreadCount(db))
	notifications.PATCH("/read-all", controllers.MarkAllNotificationsRead(db))
	notifications.PATCH("/:id/read", controllers.MarkNotificationRead(db))
	notifications.DELETE("/:id", controllers.DeleteNotification(db))
	notifications.POST("", admin, controllers.SendNotification(db))

	equipment := authorized.Group("/equipment")
	equipment.GET("", controllers.ListEquipment(db))
	equipment.GET("/stock", controllers.EquipmentStock(db))
	equipment.POST("", admin, controllers.CreatePurchase(db))
	equipment.PATCH("/:id/usage", admin, controllers.UpdateUsage(db))
	equipment.DELETE("/:id", admin, controllers.DeletePurchase(db))

	fees := authorized.Group("/joiningFees", admin)
	fees.GET("", controllers.ListJoiningFees(db))
	fees.POST("", controllers.CreateJoiningFee(db))
	fees.DELETE("/:id", controllers.DeleteJoiningFee(db))
}
