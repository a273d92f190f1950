package httpx

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/EthanNaitwe/KampalaGrocery/internal/http/handlers"
	"github.com/EthanNaitwe/KampalaGrocery/internal/http/middleware"
)

func BuildRouter(ah *handlers.AuthHandlers, ch *handlers.CatalogHandlers, crh *handlers.CartHandlers, oh *handlers.OrderHandlers, session gin.HandlerFunc, corsOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowCredentials = true
	if len(corsOrigins) > 0 {
		corsCfg.AllowOrigins = corsOrigins
	} else {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	}
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	api := r.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/send-otp", ah.SendOtp)
	auth.POST("/verify-otp", ah.VerifyOtp)

	// Catalog reads are public.
	api.GET("/categories", ch.ListCategories)
	api.GET("/products", ch.ListProducts)
	api.GET("/products/:id", ch.GetProduct)

	v := api.Group("/").Use(session)
	v.GET("/auth/user", ah.User)
	v.POST("/auth/logout", ah.Logout)

	v.GET("/cart", crh.List)
	v.POST("/cart", crh.Add)
	v.DELETE("/cart", crh.Clear)
	v.PUT("/cart/:productId", crh.SetQuantity)
	v.DELETE("/cart/:productId", crh.Remove)

	v.GET("/orders", oh.List)
	v.POST("/orders", oh.Checkout)
	v.GET("/orders/:id", oh.Get)

	adm := api.Group("/").Use(session, middleware.RequireAdmin())
	adm.POST("/categories", ch.CreateCategory)
	adm.POST("/products", ch.CreateProduct)
	adm.PUT("/products/:id", ch.UpdateProduct)
	adm.DELETE("/products/:id", ch.DeleteProduct)
	adm.PUT("/orders/:id/status", oh.UpdateStatus)

	return r
}
