package httpapi

import (
	"market-be/internal/address"
	"market-be/internal/cart"
	"market-be/internal/logger"
	"market-be/internal/metrics"
	"market-be/internal/middleware"
	"market-be/internal/order"
	"market-be/internal/payment"
	"market-be/internal/product"
	"market-be/internal/user"

	"github.com/gin-gonic/gin"
)

type Server struct {
	engine    *gin.Engine
	stats     *metrics.Requests
	users     user.Service
	products  product.Service
	carts     cart.Service
	orders    order.Service
	payments  payment.Service
	addresses address.Service
}

func NewServer(
	users user.Service,
	products product.Service,
	carts cart.Service,
	orders order.Service,
	payments payment.Service,
	addresses address.Service,
) *Server {
	r := gin.New()
	stats := metrics.NewRequests()
	r.Use(
		logger.RequestIDMiddleware(),
		logger.LoggingMiddleware(),
		gin.Recovery(),
		middleware.CORS(),
		middleware.Authenticate(),
		middleware.RateLimit(),
		func(c *gin.Context) {
			c.Next()
			stats.Observe(c.Writer.Status())
		},
	)

	s := &Server{
		engine:    r,
		stats:     stats,
		users:     users,
		products:  products,
		carts:     carts,
		orders:    orders,
		payments:  payments,
		addresses: addresses,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Engine() *gin.Engine { return s.engine }

func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	s.engine.GET("/statz", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"uptime":        s.stats.Uptime().String(),
			"requests":      s.stats.Total.Load(),
			"client_errors": s.stats.ClientErrors.Load(),
			"server_errors": s.stats.ServerErrors.Load(),
		})
	})

	v1 := s.engine.Group("/api/v1")
	{
		users := v1.Group("/users")
		users.POST("/register", s.register)
		users.POST("/login", s.login)
		users.GET("/me", middleware.RequireAuth(), s.me)

		products := v1.Group("/products")
		products.GET("", s.listProducts)
		products.GET(":id", s.getProduct)
		products.POST("", middleware.RequireAdmin(), s.createProduct)
		products.POST(":id/variants", middleware.RequireAdmin(), s.addVariant)

		carts := v1.Group("/cart", middleware.RequireAuth())
		carts.GET("", s.viewCart)
		carts.POST("/add_item", s.addCartItem)
		carts.POST("/update_item", s.updateCartItem)
		carts.POST("/remove_item", s.removeCartItem)
		carts.POST("/clear", s.clearCart)

		orders := v1.Group("/orders", middleware.RequireAuth())
		orders.POST("", s.checkout)
		orders.GET("", s.listOrders)
		orders.GET(":id", s.getOrder)
		orders.POST(":id/cancel", s.cancelOrder)
		orders.POST(":id/update_status", middleware.RequireAdmin(), s.updateOrderStatus)

		payments := v1.Group("/payments", middleware.RequireAuth())
		payments.POST("/process_payment", s.processPayment)
		payments.GET("/orders/:id", s.getOrderPayment)
		payments.GET("/methods", s.listPaymentMethods)
		payments.POST("/methods", s.createPaymentMethod)
		payments.DELETE("/methods/:id", s.deletePaymentMethod)
		payments.POST("/methods/:id/set_default", s.setDefaultPaymentMethod)

		addresses := v1.Group("/addresses", middleware.RequireAuth())
		addresses.GET("", s.listAddresses)
		addresses.GET(":id", s.getAddress)
		addresses.POST("", s.createAddress)
		addresses.PUT(":id", s.updateAddress)
		addresses.DELETE(":id", s.deleteAddress)
		addresses.POST(":id/set_default", s.setDefaultAddress)
	}
}
