package router

import (
	"path/filepath"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cuentaclara/restaurant-pos/controllers"
	"github.com/cuentaclara/restaurant-pos/middlewares"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())
	// must be registered before the routes: gin freezes each handler chain
	// at registration time
	r.Use(middlewares.NewRateLimiter(50, 1).RateLimit())

	r.Static("/uploads", filepath.Join("public", "uploads"))

	userCtrl := controllers.NewUserController(db)
	dishCtrl := controllers.NewDishController(db)
	tableCtrl := controllers.NewTableController(db)
	accountCtrl := controllers.NewAccountController(db)
	cashierCtrl := controllers.NewCashierController(db)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/")
	auth.Use(middlewares.AuthMiddleware())
	{
		auth.GET("/profile", userCtrl.GetProfile)

		auth.GET("/dishes", dishCtrl.ListActiveDishes)
		auth.GET("/tables", tableCtrl.GetAllTables)

		auth.GET("/accounts", accountCtrl.ListAccounts)
		auth.GET("/accounts/:account_id", accountCtrl.GetAccount)
		auth.POST("/orders", accountCtrl.CreateOrder)
		auth.POST("/accounts/:account_id/close", accountCtrl.CloseAccount)

		auth.GET("/corte", cashierCtrl.GetCorte)
		auth.GET("/expenses", cashierCtrl.ListExpenses)

		auth.GET("/live/ws", controllers.LiveHandler)
	}

	// ----------------------------------------------------------------
	//                      ADMIN ROUTES
	// ----------------------------------------------------------------
	admin := r.Group("/admin")
	admin.Use(middlewares.AuthMiddleware(), middlewares.AdminOnly())
	{
		admin.GET("/users", userCtrl.ListUsers)
		admin.POST("/users", userCtrl.CreateUser)
		admin.PATCH("/users/:user_id", userCtrl.UpdateUser)
		admin.DELETE("/users/:user_id", userCtrl.DeleteUser)

		admin.GET("/dishes", dishCtrl.ListAllDishes)
		admin.POST("/dishes", dishCtrl.CreateDish)
		admin.PATCH("/dishes/:dish_id", dishCtrl.UpdateDish)
		admin.DELETE("/dishes/:dish_id", dishCtrl.DeleteDish)
		admin.POST("/dishes/:dish_id/toggle", dishCtrl.ToggleDishActive)

		admin.POST("/tables", tableCtrl.CreateTable)
		admin.DELETE("/tables/:number", tableCtrl.DeleteTable)

		admin.DELETE("/accounts/:account_id", accountCtrl.DeleteAccount)

		admin.POST("/expenses", cashierCtrl.CreateExpense)
		admin.DELETE("/expenses/:expense_id", cashierCtrl.DeleteExpense)

		admin.POST("/corte/extra", cashierCtrl.AddExtraCash)
		admin.POST("/corte/finalizar", cashierCtrl.FinalizeCorte)
		admin.GET("/corte/exportar", cashierCtrl.ExportCorte)
	}

	return r
}
