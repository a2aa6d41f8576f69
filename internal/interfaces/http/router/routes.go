package router

import (
	"github.com/gin-gonic/gin"
	"github.com/shop/storefront/internal/interfaces/http/handler"
)

// Handlers are the HTTP handlers mounted under the API prefix
type Handlers struct {
	System     *handler.SystemHandler
	Storefront *handler.StorefrontHandler
	Category   *handler.CategoryHandler
	Cart       *handler.CartHandler
	Order      *handler.OrderHandler
	Auth       *handler.AuthHandler
	Product    *handler.ProductHandler
	Supplier   *handler.SupplierHandler
	Inventory  *handler.InventoryHandler
	Content    *handler.ContentHandler
	User       *handler.UserHandler
	Dashboard  *handler.DashboardHandler
}

// Guards are the access middleware applied per area. A nil guard is skipped.
type Guards struct {
	// CartSession issues and reads the anonymous cart cookie
	CartSession gin.HandlerFunc
	// OptionalAuth reads a bearer token when present
	OptionalAuth gin.HandlerFunc
	// RequireAuth rejects anonymous requests
	RequireAuth gin.HandlerFunc
	// AuthRateLimit throttles credential endpoints
	AuthRateLimit gin.HandlerFunc
	// StoreManager admits Admin and Manager
	StoreManager gin.HandlerFunc
	// Admin admits Admin only
	Admin gin.HandlerFunc
	// Annotate runs after the guards of every area, once identity is known
	Annotate gin.HandlerFunc
}

func chain(handlers ...gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(handlers))
	for _, h := range handlers {
		if h != nil {
			out = append(out, h)
		}
	}
	return out
}

// API builds every route group below /api/{version}
func API(h Handlers, g Guards) []*DomainGroup {
	return []*DomainGroup{
		storefrontRoutes(h, g),
		cartRoutes(h, g),
		orderRoutes(h, g),
		authRoutes(h, g),
		adminRoutes(h, g),
	}
}

func storefrontRoutes(h Handlers, g Guards) *DomainGroup {
	shop := NewDomainGroup("storefront", "").Use(chain(g.OptionalAuth, g.Annotate)...)
	shop.GET("/home", h.Storefront.Home)
	shop.GET("/products", h.Storefront.Catalog)
	shop.GET("/products/:id", h.Storefront.ProductDetails)
	shop.GET("/categories", h.Category.Public)
	shop.GET("/news", h.Storefront.NewsList)
	shop.GET("/news/:id", h.Storefront.NewsDetails)
	shop.POST("/contact", h.Storefront.SubmitContact)
	shop.GET("/system/info", h.System.GetSystemInfo)
	return shop
}

func cartRoutes(h Handlers, g Guards) *DomainGroup {
	cart := NewDomainGroup("cart", "/cart").Use(chain(g.CartSession, g.OptionalAuth, g.Annotate)...)
	cart.GET("", h.Cart.Get)
	cart.DELETE("", h.Cart.Clear)
	cart.POST("/items", h.Cart.Add)
	cart.PUT("/items", h.Cart.Update)
	cart.DELETE("/items/:productId", h.Cart.Remove)
	return cart
}

func orderRoutes(h Handlers, g Guards) *DomainGroup {
	orders := NewDomainGroup("orders", "").Use(chain(g.CartSession, g.RequireAuth, g.Annotate)...)
	orders.GET("/checkout", h.Order.CheckoutForm)
	orders.POST("/checkout", h.Order.PlaceOrder)
	orders.GET("/orders", h.Order.MyOrders)
	orders.GET("/orders/:id", h.Order.Get)
	orders.POST("/orders/:id/cancel", h.Order.Cancel)
	return orders
}

func authRoutes(h Handlers, g Guards) *DomainGroup {
	auth := NewDomainGroup("auth", "/auth")
	auth.POST("/register", chain(g.AuthRateLimit, h.Auth.Register)...)
	auth.POST("/login", chain(g.AuthRateLimit, h.Auth.Login)...)
	auth.POST("/refresh", chain(g.AuthRateLimit, h.Auth.Refresh)...)

	account := auth.Group("account", "").Use(chain(g.RequireAuth, g.Annotate)...)
	account.POST("/logout", h.Auth.Logout)
	account.POST("/logout-all", h.Auth.LogoutAll)
	account.GET("/me", h.Auth.Me)
	account.PUT("/profile", h.Auth.UpdateProfile)
	account.PUT("/password", h.Auth.ChangePassword)
	return auth
}

func adminRoutes(h Handlers, g Guards) *DomainGroup {
	admin := NewDomainGroup("admin", "/admin").Use(chain(g.RequireAuth, g.StoreManager, g.Annotate)...)
	admin.GET("/dashboard", h.Dashboard.Overview)

	categories := admin.Group("categories", "/categories")
	categories.GET("", h.Category.List)
	categories.POST("", h.Category.Create)
	categories.GET("/:id", h.Category.Get)
	categories.PUT("/:id", h.Category.Update)
	categories.DELETE("/:id", h.Category.Delete)
	categories.POST("/:id/activate", h.Category.Activate)
	categories.POST("/:id/deactivate", h.Category.Deactivate)

	suppliers := admin.Group("suppliers", "/suppliers")
	suppliers.GET("", h.Supplier.List)
	suppliers.POST("", h.Supplier.Create)
	suppliers.GET("/options", h.Supplier.Options)
	suppliers.GET("/:id", h.Supplier.Get)
	suppliers.PUT("/:id", h.Supplier.Update)
	suppliers.DELETE("/:id", h.Supplier.Delete)

	products := admin.Group("products", "/products")
	products.GET("", h.Product.List)
	products.POST("", h.Product.Create)
	products.GET("/export", h.Product.ExportCSV)
	products.GET("/:id", h.Product.Get)
	products.PUT("/:id", h.Product.Update)
	products.DELETE("/:id", h.Product.Delete)
	products.POST("/:id/toggle/:flag", h.Product.ToggleFlag)
	products.POST("/:id/toggle-active", h.Product.ToggleActive)

	inventory := admin.Group("inventory", "/inventory")
	inventory.GET("", h.Inventory.List)
	inventory.POST("", h.Inventory.Receive)
	inventory.GET("/:id", h.Inventory.Get)
	inventory.PUT("/:id", h.Inventory.Amend)
	inventory.DELETE("/:id", h.Inventory.Retract)

	orders := admin.Group("orders", "/orders")
	orders.GET("", h.Order.AdminList)
	orders.GET("/:id", h.Order.Get)
	orders.PUT("/:id/status", h.Order.UpdateStatus)

	news := admin.Group("news", "/news")
	news.GET("", h.Content.ListNews)
	news.POST("", h.Content.CreateNews)
	news.GET("/:id", h.Content.GetNews)
	news.PUT("/:id", h.Content.UpdateNews)
	news.DELETE("/:id", h.Content.DeleteNews)

	sliders := admin.Group("sliders", "/sliders")
	sliders.GET("", h.Content.ListSliders)
	sliders.POST("", h.Content.CreateSlider)
	sliders.GET("/:id", h.Content.GetSlider)
	sliders.PUT("/:id", h.Content.UpdateSlider)
	sliders.DELETE("/:id", h.Content.DeleteSlider)
	sliders.POST("/:id/toggle-active", h.Content.ToggleSlider)

	contacts := admin.Group("contacts", "/contacts")
	contacts.GET("", h.Content.ListContacts)
	contacts.GET("/unread-count", h.Content.UnreadContacts)
	contacts.GET("/:id", h.Content.GetContact)
	contacts.DELETE("/:id", h.Content.DeleteContact)
	contacts.POST("/:id/read", h.Content.MarkContactRead)
	contacts.POST("/:id/unread", h.Content.MarkContactUnread)

	users := admin.Group("users", "/users").Use(chain(g.Admin)...)
	users.GET("", h.User.List)
	users.GET("/:id", h.User.Get)
	users.PUT("/:id", h.User.Update)
	users.PUT("/:id/roles", h.User.SetRoles)

	return admin
}
