package routes

import (
	"github.com/gorilla/mux"
	"github.com/teleshop-app/teleshop/app/configs"
	"github.com/teleshop-app/teleshop/app/handlers"
	"github.com/teleshop-app/teleshop/app/middlewares"
	"github.com/teleshop-app/teleshop/app/repositories"
	"github.com/teleshop-app/teleshop/app/services"
	"github.com/teleshop-app/teleshop/app/utils/renderer"
	"gorm.io/gorm"
)

func NewRouter(db *gorm.DB) *mux.Router {
	env := configs.LoadENV
	render := renderer.New()

	userRepo := repositories.NewUserRepository(db)
	shopRepo := repositories.NewShopRepository(db)
	memberRepo := repositories.NewShopMemberRepository(db)
	categoryRepo := repositories.NewCategoryRepository(db)
	productRepo := repositories.NewProductRepository(db)
	cartRepo := repositories.NewCartRepository(db)
	cartItemRepo := repositories.NewCartItemRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	orderItemRepo := repositories.NewOrderItemRepository(db)
	imageRepo := repositories.NewImageRepository(db)
	requestRepo := repositories.NewCategoryRequestRepository(db)

	telegram := services.NewTelegramService(env.BOT_TOKEN)
	treeService := services.NewCategoryTreeService(db, categoryRepo, productRepo, env.APP_ENV)
	shopService := services.NewShopService(db, shopRepo, memberRepo)
	cleanupService := services.NewShopCleanupService(
		db, shopRepo, memberRepo, productRepo, cartItemRepo,
		orderRepo, orderItemRepo, imageRepo, requestRepo,
		env.SHOP_RETENTION_DAYS,
	)
	orderService := services.NewOrderService(db, cartItemRepo, productRepo, orderRepo, orderItemRepo, telegram)

	botHandler := handlers.NewBotHandler(render, telegram)
	categoryHandler := handlers.NewCategoryHandler(render, treeService, categoryRepo)
	shopHandler := handlers.NewShopHandler(render, shopService, cleanupService)
	productHandler := handlers.NewProductHandler(render, productRepo, treeService, shopService)
	cartHandler := handlers.NewCartHandler(render, cartRepo, cartItemRepo, productRepo)
	orderHandler := handlers.NewOrderHandler(render, orderService, orderRepo, shopService)
	adminHandler := handlers.NewAdminHandler(render, db, cleanupService, env.APP_ENV)

	router := mux.NewRouter()

	router.HandleFunc("/health", adminHandler.Health).Methods("GET")

	// Public catalog
	public := router.PathPrefix("/api").Subrouter()
	public.HandleFunc("/bot", botHandler.Info).Methods("GET")
	public.HandleFunc("/categories", categoryHandler.GetAll).Methods("GET")
	public.HandleFunc("/shops", shopHandler.List).Methods("GET")
	public.HandleFunc("/shops/{slug}", shopHandler.GetBySlug).Methods("GET")
	public.HandleFunc("/shops/{shopID}/categories", categoryHandler.GetCountsForShop).Methods("GET")
	public.HandleFunc("/shops/{shopID}/products", productHandler.ListByShop).Methods("GET")
	public.HandleFunc("/products/{slug}", productHandler.GetBySlug).Methods("GET")
	public.HandleFunc("/universal/products", productHandler.UniversalFeed).Methods("GET")

	// Authenticated Mini App surface
	auth := router.PathPrefix("/api").Subrouter()
	auth.Use(middlewares.TelegramAuthMiddleware(telegram, userRepo))
	auth.HandleFunc("/shops", shopHandler.Create).Methods("POST")
	auth.HandleFunc("/shops/{id}", shopHandler.Update).Methods("PATCH")
	auth.HandleFunc("/shops/{id}", shopHandler.SoftDelete).Methods("DELETE")
	auth.HandleFunc("/shops/{id}/restore", shopHandler.Restore).Methods("POST")
	auth.HandleFunc("/shops/{shopID}/products", productHandler.Create).Methods("POST")
	auth.HandleFunc("/shops/{shopID}/orders", orderHandler.ListForShop).Methods("GET")
	auth.HandleFunc("/cart", cartHandler.Get).Methods("GET")
	auth.HandleFunc("/cart/items", cartHandler.AddItem).Methods("POST")
	auth.HandleFunc("/cart/items", cartHandler.RemoveItem).Methods("DELETE")
	auth.HandleFunc("/orders", orderHandler.Create).Methods("POST")
	auth.HandleFunc("/orders", orderHandler.ListMine).Methods("GET")

	// Operator endpoints, token gated
	admin := router.PathPrefix("/admin").Subrouter()
	admin.Use(middlewares.AdminTokenMiddleware(env.ADMIN_API_TOKEN))
	admin.HandleFunc("/cleanup/shops", adminHandler.TriggerCleanup).Methods("POST")
	admin.HandleFunc("/categories/sync", adminHandler.SyncCategories).Methods("POST")
	admin.HandleFunc("/categories", categoryHandler.Create).Methods("POST")
	admin.HandleFunc("/categories/{id}/move", categoryHandler.Move).Methods("POST")
	admin.HandleFunc("/categories/{id}", categoryHandler.Delete).Methods("DELETE")

	return router
}
