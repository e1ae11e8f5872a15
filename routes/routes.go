package routes

import (
	"github.com/gin-gonic/gin"

	config "github.com/kamande/community-events-go/config"
	controllers "github.com/kamande/community-events-go/controllers"
	middleware "github.com/kamande/community-events-go/middleware"
)

func SetupRoutes(r *gin.Engine, cfg *config.Config) {
	auth := middleware.Auth(cfg)
	admin := middleware.AdminOnly()

	// user auth
	authGroup := r.Group("/api/auth")
	{
		authGroup.POST("/signup", controllers.Signup(cfg))
		authGroup.POST("/login", controllers.Login(cfg))
		authGroup.GET("/user/:id", auth, controllers.GetUser(cfg))
		authGroup.GET("/users", auth, admin, controllers.ListUsers(cfg))
		authGroup.PATCH("/user/:id/status", auth, admin, controllers.UpdateUserStatus(cfg))
		authGroup.DELETE("/user/:id", auth, admin, controllers.DeleteUser(cfg))
	}

	api := r.Group("/api")

	// admin console
	api.POST("/admin/login", controllers.AdminLogin(cfg))
	api.GET("/admin/events", auth, admin, controllers.AdminListEvents(cfg))
	api.PATCH("/admin/event/:id/disable", auth, admin, controllers.DisableEventByAdmin(cfg))

	// events
	api.POST("/event", auth, controllers.CreateEvent(cfg))
	api.GET("/events", controllers.ListEvents(cfg))
	api.GET("/events/joined", auth, controllers.ListJoinedEvents(cfg))
	api.GET("/events/user/:userid", auth, controllers.ListEventsByUser(cfg))
	api.GET("/events/:id", controllers.GetEvent(cfg))
	api.GET("/event/code/:code", controllers.GetEventByCode(cfg))
	api.PUT("/event/:id", auth, controllers.UpdateEvent(cfg))
	api.PATCH("/event/:id/disable", auth, controllers.DisableEventByUser(cfg))
	api.DELETE("/event/:id", auth, controllers.DeleteEvent(cfg))

	// participation
	api.POST("/event/:id/join", auth, controllers.JoinEvent(cfg))
	api.DELETE("/event/:id/join", auth, controllers.LeaveEvent(cfg))

	// categories
	api.POST("/admin/category", auth, admin, controllers.CreateCategory(cfg))
	api.GET("/admin/categories", auth, admin, controllers.ListCategories(cfg))
	api.PATCH("/admin/category/:id/disable", auth, admin, controllers.ToggleCategory(cfg))
	api.PUT("/admin/category/:id", auth, admin, controllers.RenameCategory(cfg))
	api.GET("/categories", controllers.ListActiveCategories(cfg))

	// donations
	api.POST("/donation", controllers.RecordDonation(cfg))
	api.GET("/donations/history", auth, controllers.DonationHistory(cfg))
	api.GET("/donations/admin", auth, admin, controllers.AdminDonationHistory(cfg))
}
