package server

import (
	"autobier-api/internal/handler"
	appmiddleware "autobier-api/internal/middleware"
	"autobier-api/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type Server struct {
	echo            *echo.Echo
	jwtSecret       string
	orderHandler    *handler.OrderHandler
	webhookHandler  *handler.WebhookHandler
	productHandler  *handler.ProductHandler
	categoryHandler *handler.CategoryHandler
}

func NewServer(
	jwtSecret string,
	orderService service.OrderService,
	webhookService service.WebhookService,
	productService service.ProductService,
	categoryService service.CategoryService,
) *Server {
	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s := &Server{
		echo:            e,
		jwtSecret:       jwtSecret,
		orderHandler:    handler.NewOrderHandler(orderService),
		webhookHandler:  handler.NewWebhookHandler(webhookService),
		productHandler:  handler.NewProductHandler(productService),
		categoryHandler: handler.NewCategoryHandler(categoryService),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")
	auth := appmiddleware.RequireAuth(s.jwtSecret)

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	// -------- storefront (public) --------
	categories := api.Group("/categories")
	categories.GET("", s.categoryHandler.List)

	products := api.Group("/products")
	products.GET("", s.productHandler.List)

	order := api.Group("/order")
	order.POST("/checkout", s.orderHandler.Checkout)
	order.GET("/status/:id", s.orderHandler.Status)

	// -------- gateway webhook --------
	order.POST("/webhook/asaas", s.webhookHandler.HandleAsaas)

	// -------- admin panel (JWT) --------
	categories.POST("", s.categoryHandler.Create, auth)
	categories.PUT("/:id", s.categoryHandler.Update, auth)
	categories.DELETE("/:id", s.categoryHandler.Delete, auth)

	products.POST("", s.productHandler.Create, auth)
	products.PUT("/:id", s.productHandler.Update, auth)
	products.DELETE("/:id", s.productHandler.Delete, auth)

	order.GET("", s.orderHandler.List, auth)
	order.DELETE("/history", s.orderHandler.ClearHistory, auth)
	order.DELETE("/:id", s.orderHandler.Cancel, auth)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown() error {
	return s.echo.Close()
}
