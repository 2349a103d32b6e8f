package routes

import (
	"net/http"
	"time"

	"jp_storefront/internal/handlers"
	"jp_storefront/internal/handlers/account"
	"jp_storefront/internal/handlers/admin"
	"jp_storefront/internal/handlers/shop"
	"jp_storefront/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
)

// NewRouter builds the engine with every route of the API.
func NewRouter(d *handlers.Deps, store sessions.Store) *gin.Engine {
	switch d.Config.GinMode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
		gin.SetMode(d.Config.GinMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	if d.Config.GinMode == gin.DebugMode {
		r.Use(gin.Logger())
	} else {
		r.Use(middleware.RequestLogger())
	}
	r.Use(cors.New(corsConfig(d.Config.CORSOrigins)))

	RegisterRoutes(r, d, store)
	return r
}

// corsConfig allows credentials so the cart cookie travels with
// cross-origin storefront requests.
func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Disposition", "X-RateLimit-Remaining", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

func RegisterRoutes(r *gin.Engine, d *handlers.Deps, store sessions.Store) {
	shopH := shop.New(d)
	accountH := account.New(d)
	adminH := admin.New(d)

	authRequired := middleware.AuthRequired(d.Auth)

	api := r.Group("/api")
	api.Use(middleware.APIRateLimit(d.Tokens))

	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Storefront
	api.GET("/shop/settings", shopH.GetSettings)
	api.GET("/shop/whatsapp-qr", shopH.WhatsAppQR)
	api.GET("/categories", shopH.ListCategories)
	api.GET("/weights", shopH.Weights)
	api.GET("/products", shopH.ListProducts)
	api.GET("/products/best-sellers", shopH.BestSellers)
	api.GET("/products/offers", shopH.Offers)
	api.GET("/products/search", middleware.SearchRateLimit(d.Tokens), shopH.Search)
	api.GET("/products/:id", shopH.GetProduct)

	// Guest cart and checkout, keyed by the session cookie
	session := api.Group("", middleware.CartSession(store))
	session.GET("/cart", shopH.GetCart)
	session.DELETE("/cart", shopH.ClearCart)
	session.POST("/cart/items", shopH.AddItem)
	session.PATCH("/cart/items", shopH.SetQuantity)
	session.DELETE("/cart/items/:product_id/:weight", shopH.RemoveItem)
	session.POST("/checkout", middleware.CheckoutRateLimit(d.Tokens), middleware.OptionalAuth(d.Auth), shopH.Checkout)

	// Accounts
	authGroup := api.Group("/auth")
	authGroup.POST("/signup", middleware.SignUpRateLimit(d.Tokens), accountH.SignUp)
	authGroup.POST("/signin", accountH.SignIn)
	authGroup.POST("/password/forgot", middleware.ForgotPasswordRateLimit(d.Tokens), accountH.ForgotPassword)
	authGroup.POST("/password/reset", accountH.ResetPassword)
	authGroup.POST("/signout", authRequired, accountH.SignOut)
	authGroup.PUT("/password", authRequired, accountH.UpdatePassword)
	authGroup.GET("/me", authRequired, accountH.Me)
	authGroup.GET("/is-admin", authRequired, accountH.IsAdmin)
	authGroup.GET("/orders", authRequired, accountH.MyOrders)
	authGroup.GET("/orders/:order_id", authRequired, accountH.MyOrder)

	// Back office
	adminGroup := api.Group("/admin", authRequired, middleware.RequireAdmin, middleware.AuditAdminChanges())
	{
		adminGroup.GET("/dashboard", adminH.Dashboard)

		adminGroup.GET("/products", adminH.ListProducts)
		adminGroup.GET("/products/export", adminH.ExportProducts)
		adminGroup.POST("/products", adminH.CreateProduct)
		adminGroup.POST("/products/images", adminH.UploadImage)
		adminGroup.GET("/products/:id", adminH.GetProduct)
		adminGroup.PATCH("/products/:id", adminH.UpdateProduct)
		adminGroup.DELETE("/products/:id", adminH.DeleteProduct)
		adminGroup.POST("/products/:id/toggle-stock", adminH.ToggleStock)

		adminGroup.GET("/categories", adminH.ListCategories)
		adminGroup.POST("/categories", adminH.CreateCategory)
		adminGroup.PATCH("/categories/:id", adminH.UpdateCategory)
		adminGroup.DELETE("/categories/:id", adminH.DeleteCategory)

		adminGroup.GET("/orders", adminH.ListOrders)
		adminGroup.GET("/orders/export", adminH.ExportOrders)
		adminGroup.GET("/orders/feed", adminH.OrderFeed)
		adminGroup.GET("/orders/:order_id", adminH.GetOrder)
		adminGroup.PATCH("/orders/:order_id/status", adminH.UpdateOrderStatus)

		adminGroup.GET("/settings", adminH.GetSettings)
		adminGroup.PUT("/settings", adminH.UpdateSettings)
	}

	functions := api.Group("/functions", authRequired, middleware.RequireAdmin)
	functions.POST("/send-whatsapp", adminH.SendWhatsApp)
	functions.POST("/send-order-email", adminH.SendOrderEmail)
}
