package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/matheus/courseplatform/internal/app/controllers"
	"github.com/matheus/courseplatform/internal/app/models"
	"github.com/matheus/courseplatform/internal/app/models/dto"
	"github.com/matheus/courseplatform/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	userController *controllers.UserController,
	courseController *controllers.CourseController,
	questionController *controllers.QuestionController,
	purchaseController *controllers.PurchaseController,
	certificateController *controllers.CertificateController,
	authMiddleware *middleware.AuthMiddleware,
) {
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.POST("/forgot-password", authController.ForgotPassword)
		auth.POST("/reset-password", authController.ResetPassword)
	}

	// --- Public Course catalog ---
	courses := v1.Group("/courses")
	{
		courses.GET("", courseController.GetAll)
		courses.GET("/:id", courseController.GetByID)
		courses.GET("/:id/sub-courses", courseController.GetSubCourses)
		courses.GET("/:id/sub-courses/:subCourseId", courseController.GetSubCourseByID)
	}

	// --- Payment provider webhook (signature-verified, no JWT) ---
	v1.POST("/purchases/webhook", purchaseController.Webhook)

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.POST("/auth/logout", authController.Logout)

		// User profiles
		users := authenticated.Group("/users")
		{
			users.GET("", authMiddleware.RoleRequired(string(models.RoleAdmin)), userController.GetAll)
			users.GET("/me/courses", userController.GetPurchasedCourses)
			users.PUT("/me/password", userController.ChangePassword)
			users.POST("/me/profile-picture", userController.UploadProfilePicture)
			users.DELETE("/me/profile-picture", userController.RemoveProfilePicture)
			users.GET("/:id", userController.GetByID)
			users.PUT("/:id", userController.Update)
			users.DELETE("/:id", userController.Delete)
		}

		// Course management and course-scoped resources
		coursesProtected := authenticated.Group("/courses")
		{
			coursesProtected.GET("/:id/questions", questionController.GetByCourse)
			coursesProtected.GET("/:id/certificate", certificateController.Download)

			coursesAdmin := coursesProtected.Group("")
			coursesAdmin.Use(authMiddleware.RoleRequired(string(models.RoleAdmin)))
			{
				coursesAdmin.POST("", courseController.Create)
				coursesAdmin.PUT("/:id", courseController.Update)
				coursesAdmin.DELETE("/:id", courseController.Delete)
				coursesAdmin.POST("/:id/sub-courses", courseController.AddSubCourse)
				coursesAdmin.POST("/:id/questions", questionController.Create)
			}
		}

		// Question management
		questionsAdmin := authenticated.Group("/questions")
		questionsAdmin.Use(authMiddleware.RoleRequired(string(models.RoleAdmin)))
		{
			questionsAdmin.PUT("/:questionId", questionController.Update)
			questionsAdmin.DELETE("/:questionId", questionController.Delete)
		}

		// Purchases and entitlements
		purchases := authenticated.Group("/purchases")
		{
			purchases.POST("/checkout", purchaseController.Checkout)

			purchasesAdmin := purchases.Group("/grants")
			purchasesAdmin.Use(authMiddleware.RoleRequired(string(models.RoleAdmin)))
			{
				purchasesAdmin.POST("", purchaseController.Grant)
				purchasesAdmin.DELETE("/:userId/:courseId", purchaseController.Revoke)
			}
		}
	}

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, dto.APIResponse{
			Data: gin.H{"status": "ok"},
		})
	})
}
