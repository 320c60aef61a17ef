package server

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"shoestore-backend/internal/config"
	"shoestore-backend/internal/handler"
	"shoestore-backend/internal/middleware"
	"shoestore-backend/internal/repository"
	"shoestore-backend/internal/service"
)

type Server struct {
	echo            *echo.Echo
	paymentHandler  *handler.PaymentHandler
	orderHandler    *handler.OrderHandler
	shippingHandler *handler.ShippingHandler
	webhookHandler  *handler.WebhookHandler
	healthHandler   *handler.HealthHandler
	jwtSecret       string
}

func NewServer(
	cfg *config.Config,
	paymentService service.PaymentService,
	orderService service.OrderService,
	shipmentService service.ShipmentService,
	webhookService service.WebhookService,
	webhookEventRepo repository.WebhookEventRepository,
) *Server {
	e := echo.New()

	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())

	s := &Server{
		echo:            e,
		paymentHandler:  handler.NewPaymentHandler(paymentService),
		orderHandler:    handler.NewOrderHandler(orderService),
		shippingHandler: handler.NewShippingHandler(shipmentService),
		webhookHandler:  handler.NewWebhookHandler(webhookService, cfg.Shiprocket.WebhookSecret),
		healthHandler:   handler.NewHealthHandler(webhookEventRepo),
		jwtSecret:       cfg.Auth.JWTSecret,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	api.GET("/health", s.healthHandler.Health)

	// -------- payment --------
	payment := api.Group("/payment")
	payment.POST("/create-order", s.paymentHandler.CreateOrder)
	payment.POST("/verify", s.paymentHandler.Verify, middleware.OptionalAuth(s.jwtSecret))

	// -------- orders --------
	orders := api.Group("/orders", middleware.Auth(s.jwtSecret))
	orders.GET("", s.orderHandler.ListOrders)
	orders.GET("/:id/track", s.orderHandler.TrackOrder)
	orders.POST("/cancel", s.orderHandler.CancelOrder)
	orders.POST("/return", s.orderHandler.ReturnOrder)

	// -------- shipping --------
	api.POST("/shiprocket/check-serviceability", s.shippingHandler.CheckServiceability)

	// -------- courier webhooks --------
	api.POST("/webhooks/shiprocket", s.webhookHandler.CourierWebhook)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown() error {
	return s.echo.Close()
}
