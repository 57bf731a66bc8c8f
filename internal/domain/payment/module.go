package payment

import (
	"time"

	orderRepo "resto_pay/internal/domain/order/repository"
	"resto_pay/internal/domain/payment/handler"
	"resto_pay/internal/domain/payment/repository"
	"resto_pay/internal/domain/payment/service"
	"resto_pay/internal/domain/payment/strategy"
	"resto_pay/internal/domain/payment/token"
	subRepo "resto_pay/internal/domain/subscription/repository"
	subService "resto_pay/internal/domain/subscription/service"
	"resto_pay/internal/pkg/config"
	"resto_pay/internal/pkg/middleware"
	"resto_pay/internal/pkg/registry"
	"resto_pay/internal/pkg/worker"

	"github.com/gin-gonic/gin"
)

// PaymentModule wires the payment lifecycle and reconciliation core.
type PaymentModule struct{}

func init() {
	registry.Register(&PaymentModule{})
}

func (m *PaymentModule) Name() string {
	return "payment"
}

func (m *PaymentModule) Priority() int {
	return 20
}

func (m *PaymentModule) Init(ctx *registry.ModuleContext) error {
	parser := token.NewParser(config.GlobalConfig.Payment.TransferPrefix)

	oRepo := orderRepo.NewOrderRepository(ctx.DB)
	pRepo := repository.NewPaymentRepository(ctx.DB, oRepo)
	cfgRepo := repository.NewMethodConfigRepository(ctx.DB)
	tokens := repository.NewTokenCache(ctx.Redis)

	sRepo := subRepo.NewSubscriptionRepository(ctx.DB)
	sService := subService.NewSubscriptionService(sRepo)

	pService := service.NewPaymentService(pRepo, cfgRepo, oRepo, tokens, sService, parser)

	pService.RegisterStrategy(strategy.NewCashStrategy())
	pService.RegisterStrategy(strategy.NewBankQRStrategy(parser))
	pService.RegisterStrategy(strategy.NewPayOSStrategy(parser))

	pHandler := handler.NewPaymentHandler(pService)
	setupRoutes(ctx.Router, pHandler)

	// Optional promptness sweep; poll remains the correctness path for expiry.
	if interval := config.GlobalConfig.Payment.SweepIntervalSeconds; interval > 0 {
		sweeper := worker.NewExpirySweeper(pRepo, time.Duration(interval)*time.Second)
		sweeper.Start()
	}

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.PaymentHandler) {
	payments := r.Group("/payments")
	payments.Use(middleware.RateLimitMiddleware())
	{
		// Customer facing, no auth: initiation from the table QR session and
		// the status poll loop.
		payments.POST("/initiate", h.Initiate)
		payments.GET("/:id/poll", h.Poll)

		auth := payments.Group("")
		auth.Use(middleware.AuthMiddleware())
		{
			auth.GET("/:id", h.Get)
			auth.POST("/:id/confirm", middleware.StaffMiddleware(), h.Confirm)
		}
	}

	// Webhooks skip auth; authenticity comes from signature verification.
	webhooks := r.Group("/webhooks")
	{
		webhooks.POST("/payment-aggregator", h.AggregatorWebhook)
		webhooks.POST("/bank-transfer", h.BankTransferWebhook)
	}
}
