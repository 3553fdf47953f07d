package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/LuciusWan/BitGain-BackEnd/config"
	"github.com/LuciusWan/BitGain-BackEnd/controllers"
	"github.com/LuciusWan/BitGain-BackEnd/middleware"
	"github.com/LuciusWan/BitGain-BackEnd/services"
)

func RegisterRoutes(r *gin.Engine, conf config.Config, designService *services.DesignService) {
	userController := controllers.NewUserController(services.NewUserService())
	taskController := controllers.NewFixedTaskController(services.NewFixedTaskService())
	goalController := controllers.NewTodayGoalController(services.NewTodayGoalService())
	designController := controllers.NewDesignController(designService)

	auth := middleware.AuthMiddleware(conf.JWTTokenHeader)

	// 公开路由（无需认证）
	user := r.Group("/user")
	{
		user.POST("/register", userController.Register)
		user.POST("/login", userController.Login)
	}

	// 需要认证的用户接口
	userPrivate := r.Group("/user")
	userPrivate.Use(auth)
	{
		userPrivate.GET("/getUser", userController.GetUser)
		userPrivate.GET("/info", userController.GetCurrentUserInfo)
		userPrivate.PUT("/info", userController.UpdateUserInfo)
	}

	// 需要认证的业务接口
	api := r.Group("/api")
	api.Use(auth)
	{
		fixedTask := api.Group("/fixed-task")
		{
			fixedTask.POST("", taskController.Create)
			fixedTask.PUT("", taskController.Update)
			fixedTask.GET("/my", taskController.ListMine)
			fixedTask.GET("/range", taskController.ListByRange)
			fixedTask.GET("/:id", taskController.GetByID)
			fixedTask.DELETE("/:id", taskController.Delete)
		}

		todayGoal := api.Group("/today-goal")
		{
			todayGoal.POST("", goalController.Create)
			todayGoal.GET("/my/all", goalController.ListMine)
			todayGoal.DELETE("/all", goalController.DeleteAllMine)
			todayGoal.GET("/:id", goalController.GetByID)
			todayGoal.PUT("/:id", goalController.Update)
			todayGoal.DELETE("/:id", goalController.Delete)
		}

		design := api.Group("/bitgain-design")
		{
			design.GET("/design", designController.Design)
			design.POST("/recommend-tasks", designController.RecommendTasks)
			design.POST("/confirm-tasks", designController.ConfirmTasks)
		}
	}

	// 测试路由
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
}
