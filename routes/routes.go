package routes

import (
	"github.com/gin-gonic/gin"

	config "github.com/loveland/klyntfund-go/config"
	controllers "github.com/loveland/klyntfund-go/controllers"
	middleware "github.com/loveland/klyntfund-go/middleware"
)

func SetupRoutes(r *gin.Engine, cfg *config.Config) {
	auth := middleware.AuthMiddleware(cfg)
	adminAuth := middleware.AdminMiddleware(cfg)

	user := r.Group("/api/user")
	{
		// public
		user.POST("/register", controllers.Register(cfg))
		user.POST("/login", controllers.Login(cfg))
		user.POST("/feedback/add", controllers.CreateFeedback(cfg))
		user.GET("/projects", controllers.GetAllProjects(cfg))
		user.GET("/search", controllers.SearchProjects(cfg))
		user.GET("/search/suggestions", controllers.GetSuggestions(cfg))

		// profile
		user.GET("/profile", auth, controllers.GetUserProfile(cfg))
		user.POST("/update-profile", auth, controllers.UpdateProfile(cfg))
		user.GET("/creator/dashboard", auth, controllers.CreatorDashboard(cfg))

		// projects
		user.GET("/my-project", auth, controllers.MyProjects(cfg))
		user.POST("/add-project", auth, controllers.AddProject(cfg))
		user.GET("/projects/:id", auth, controllers.ViewProject(cfg))
		user.GET("/get-project/:id", auth, controllers.GetProjectByID(cfg))
		user.POST("/edit-project/:id", auth, controllers.EditProject(cfg))
	}

	investments := r.Group("/api/investments")
	investments.Use(auth)
	{
		investments.POST("/invest", controllers.VerifyAndAddInvestment(cfg))
		investments.GET("/investor-stats", controllers.GetInvestorStats(cfg))
		investments.GET("/my-investment", controllers.GetMyInvestments(cfg))
		investments.GET("/investment-history", controllers.GetInvestmentHistory(cfg))
	}

	admin := r.Group("/api/admin")
	{
		admin.POST("/login", controllers.AdminLogin(cfg))

		protected := admin.Group("")
		protected.Use(adminAuth)
		{
			protected.GET("/dashboard-analytics", controllers.GetDashboardAnalytics(cfg))

			// project moderation
			protected.GET("/projects/pending", controllers.GetProjectsByStatus(cfg, "pending"))
			protected.GET("/projects/approved", controllers.GetProjectsByStatus(cfg, "approved"))
			protected.GET("/projects/rejected", controllers.GetProjectsByStatus(cfg, "rejected"))
			protected.GET("/projects/completed", controllers.GetProjectsByStatus(cfg, "completed"))
			protected.GET("/project/view/:id", controllers.GetAdminProjectByID(cfg))
			protected.PUT("/project/approve/:id", controllers.ApproveProject(cfg))
			protected.PUT("/project/reject/:id", controllers.RejectProject(cfg))
			protected.DELETE("/project/delete/:id", controllers.DeleteProject(cfg))

			// investment oversight
			protected.GET("/investments/all", controllers.GetAllInvestments(cfg))
			protected.GET("/investments/flagged", controllers.GetFlaggedInvestments(cfg))
			protected.GET("/investments/disputed", controllers.GetDisputedInvestments(cfg))
			protected.GET("/investments/refunded", controllers.GetRefundedInvestments(cfg))
			protected.POST("/investments/refund", controllers.RefundInvestment(cfg))
			protected.POST("/investments/resolve-dispute", controllers.ResolveDispute(cfg))
			protected.GET("/investment/view/:projectId/:paymentRef", controllers.GetSingleInvestment(cfg))
			protected.DELETE("/investment/delete/:paymentRef", controllers.DeleteInvestment(cfg))

			// user management
			protected.GET("/users", controllers.GetUsers(cfg))
			protected.GET("/users/profile/:id", controllers.GetUserByID(cfg))
			protected.DELETE("/users/delete/:id", controllers.DeleteUser(cfg))
			protected.POST("/users/:id/message", controllers.MessageUser(cfg))
			protected.PATCH("/users/:id/suspend", controllers.ToggleSuspendUser(cfg))

			// feedback
			protected.GET("/feedbacks/all", controllers.GetAllFeedbacks(cfg))
			protected.GET("/feedback/:id", controllers.GetFeedbackByID(cfg))
			protected.DELETE("/feedback/:id", controllers.DeleteFeedback(cfg))
		}
	}
}
