package routes

import (
	"github.com/aldairalfaro98/prueba-agent-toteat/configs"
	"github.com/aldairalfaro98/prueba-agent-toteat/controllers"
	"github.com/aldairalfaro98/prueba-agent-toteat/entity"
	"github.com/aldairalfaro98/prueba-agent-toteat/middlewares"
	"github.com/aldairalfaro98/prueba-agent-toteat/repository"
	"github.com/aldairalfaro98/prueba-agent-toteat/services"
	"github.com/aldairalfaro98/prueba-agent-toteat/ws"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, hub *ws.KitchenHub) {
	r.Use(middlewares.CORSMiddleware())
	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	db := configs.DB()

	// Repositories + services
	catalogRepo := repository.NewCatalogRepository(db)
	tableRepo := repository.NewTableRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	locks := services.NewLockRegistry()
	catalogSvc := services.NewCatalogService(db, catalogRepo, orderRepo)
	tableSvc := services.NewTableService(db, tableRepo, orderRepo, locks)
	orderSvc := services.NewOrderService(db, orderRepo, catalogRepo, tableSvc, locks)
	orderSvc.Tickets = hub
	paymentSvc := services.NewPaymentService(db, paymentRepo, orderSvc, nil)

	// Controllers
	authCtrl := controllers.NewAuthController(db)
	catalogCtrl := controllers.NewCatalogController(catalogSvc)
	tableCtrl := controllers.NewTableController(tableSvc)
	orderCtrl := controllers.NewOrderController(orderSvc)
	paymentCtrl := controllers.NewPaymentController(paymentSvc)

	// Auth
	a := r.Group("/auth")
	{
		a.POST("/register", authCtrl.Register)
		a.POST("/login", authCtrl.Login)
	}
	a.GET("/me", middlewares.AuthMiddleware(), authCtrl.Me)

	// Catalog + floor structure: admin/manager only
	admin := r.Group("/", middlewares.AuthMiddleware(entity.RoleAdmin, entity.RoleManager))
	{
		admin.POST("/catalog/categories", catalogCtrl.CreateCategory)
		admin.POST("/catalog/products", catalogCtrl.CreateProduct)
		admin.PATCH("/catalog/products/:id", catalogCtrl.UpdateProduct)
		admin.DELETE("/catalog/products/:id", catalogCtrl.DeleteProduct)
		admin.POST("/catalog/modifiers", catalogCtrl.CreateModifier)
		admin.POST("/catalog/products/:id/modifiers/:modifierId", catalogCtrl.AttachModifier)
		admin.GET("/catalog/export", catalogCtrl.Export)
		admin.POST("/catalog/import", catalogCtrl.Import)

		admin.POST("/areas", tableCtrl.CreateArea)
		admin.DELETE("/areas/:id", tableCtrl.DeleteArea)
		admin.POST("/tables", tableCtrl.CreateTable)
		admin.PATCH("/tables/:id", tableCtrl.UpdateTable)
		admin.DELETE("/tables/:id", tableCtrl.DeleteTable)
	}

	// Floor + orders: any staff role
	staff := r.Group("/", middlewares.AuthMiddleware(entity.RoleAdmin, entity.RoleManager, entity.RoleWaiter))
	{
		staff.GET("/catalog/products", catalogCtrl.ListProducts)
		staff.GET("/catalog/products/:id/price", catalogCtrl.LookupPrice)
		staff.GET("/areas/:id/tables", tableCtrl.ListTables)
		staff.GET("/tables/:id", tableCtrl.GetTable)
		staff.POST("/tables/:id/reserve", tableCtrl.Reserve)
		staff.DELETE("/tables/:id/reserve", tableCtrl.CancelReservation)

		staff.POST("/orders", orderCtrl.Create)
		staff.GET("/orders", orderCtrl.List)
		staff.GET("/orders/:id", orderCtrl.Detail)
		staff.POST("/orders/:id/items", orderCtrl.AddItem)
		staff.PATCH("/orders/:id/items/:cartId", orderCtrl.EditItem)
		staff.DELETE("/orders/:id/items/:cartId", orderCtrl.RemoveItem)
		staff.POST("/orders/:id/discount", orderCtrl.ApplyDiscount)
		staff.POST("/orders/:id/tip", orderCtrl.ApplyTip)
		staff.POST("/orders/:id/send", orderCtrl.SendToKitchen)
		staff.POST("/orders/:id/bill", orderCtrl.BillItems)
		staff.POST("/orders/:id/transfer", orderCtrl.Transfer)
		staff.POST("/orders/:id/merge", orderCtrl.Merge)
		staff.GET("/orders/:id/totals", orderCtrl.Totals)
		staff.POST("/orders/:id/credit-notes", orderCtrl.AddCreditNote)
		staff.GET("/orders/:id/credit-notes", orderCtrl.ListCreditNotes)
		staff.POST("/orders/:id/close", paymentCtrl.Close)
		staff.GET("/orders/:id/payments", paymentCtrl.ListByOrder)
	}

	// Kitchen screens
	r.GET("/ws/kitchen", hub.Serve)
}
