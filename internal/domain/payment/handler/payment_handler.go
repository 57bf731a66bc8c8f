package handler

import (
	"errors"
	"io"
	"net/http"
	"time"

	"resto_pay/internal/domain/payment/model"
	"resto_pay/internal/domain/payment/service"
	"resto_pay/internal/pkg/config"
	"resto_pay/pkg/metrics"
	"resto_pay/pkg/response"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	service service.PaymentService
}

func NewPaymentHandler(s service.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: s}
}

type InitiateInput struct {
	OrderID       string             `json:"order_id" binding:"required"`
	PaymentMethod string             `json:"payment_method" binding:"required,oneof=cash bank_qr payos"`
	CustomerInfo  model.CustomerInfo `json:"customer_info"`
}

// Initiate 创建支付
// @Summary Initiate a payment for a placed order
// @Tags Payment
// @Accept json
// @Produce json
// @Param input body InitiateInput true "Order and method"
// @Success 200 {object} response.Response{data=model.Artifact}
// @Router /payments/initiate [post]
func (h *PaymentHandler) Initiate(c *gin.Context) {
	var input InitiateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	artifact, err := h.service.Initiate(input.OrderID, input.PaymentMethod, input.CustomerInfo)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, artifact)
}

// Get 查询支付记录
// @Summary Get a payment record scoped to the caller's store
// @Tags Payment
// @Produce json
// @Param id path string true "Payment ID"
// @Success 200 {object} response.Response{data=model.Payment}
// @Router /payments/{id} [get]
func (h *PaymentHandler) Get(c *gin.Context) {
	storeID := getStringFromContext(c, "storeID")

	p, err := h.service.Get(c.Param("id"), storeID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, p)
}

// Poll 客户端轮询支付状态
// @Summary Poll payment status (customer facing, unauthenticated)
// @Tags Payment
// @Produce json
// @Param id path string true "Payment ID"
// @Success 200 {object} response.Response{data=service.PollResult}
// @Router /payments/{id}/poll [get]
func (h *PaymentHandler) Poll(c *gin.Context) {
	res, err := h.service.Poll(c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, res)
}

// Confirm 员工手动确认支付
// @Summary Manually confirm a pending payment (store staff)
// @Tags Payment
// @Produce json
// @Param id path string true "Payment ID"
// @Success 200 {object} response.Response{data=service.ConfirmResult}
// @Router /payments/{id}/confirm [post]
func (h *PaymentHandler) Confirm(c *gin.Context) {
	staffID := getStringFromContext(c, "userID")
	storeID := getStringFromContext(c, "storeID")

	res, err := h.service.Confirm(c.Param("id"), staffID, storeID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, res)
}

// AggregatorWebhook 支付网关回调
// @Summary Payment aggregator webhook
// @Tags Webhook
// @Router /webhooks/payment-aggregator [post]
func (h *PaymentHandler) AggregatorWebhook(c *gin.Context) {
	start := time.Now()
	defer func() {
		metrics.GetGlobalCollector().RecordWebhook("aggregator", time.Since(start))
	}()

	// Signature covers the raw body bytes, so read before any JSON binding.
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "unreadable body")
		return
	}
	sig := c.GetHeader(config.GlobalConfig.Webhook.SignatureHeader)

	res, err := h.service.HandleAggregatorWebhook(raw, sig)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrInvalidSignature):
			response.Error(c, http.StatusUnauthorized, response.ErrSignatureInvalid, "invalid signature")
		case errors.Is(err, model.ErrMalformedPayload):
			response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		default:
			// Transient failures must stay retryable for the sender.
			response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		}
		return
	}

	h.writeWebhookResult(c, res)
}

// BankTransferWebhook 银行转账回调
// @Summary Free-text bank transfer webhook
// @Tags Webhook
// @Router /webhooks/bank-transfer [post]
func (h *PaymentHandler) BankTransferWebhook(c *gin.Context) {
	start := time.Now()
	defer func() {
		metrics.GetGlobalCollector().RecordWebhook("bank_transfer", time.Since(start))
	}()

	var evt service.BankTransferWebhook
	if err := c.ShouldBindJSON(&evt); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	res, err := h.service.HandleBankTransferWebhook(evt)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
		return
	}

	h.writeWebhookResult(c, res)
}

// writeWebhookResult always answers HTTP 200: senders must only retry on
// transport failures, never on business outcomes.
func (h *PaymentHandler) writeWebhookResult(c *gin.Context, res *service.WebhookResult) {
	switch res.Outcome {
	case service.OutcomePaid, service.OutcomeAlreadyPaid:
		response.Success(c, res)
	case service.OutcomeNotFound:
		response.Fail(c, response.ErrNoMatchingPayment, res.Message)
	case service.OutcomeAmountMismatch:
		response.Fail(c, response.ErrAmountMismatch, res.Message)
	default:
		response.Fail(c, response.ErrWebhookIgnored, res.Message)
	}
}

func (h *PaymentHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrOrderNotFound):
		response.Error(c, http.StatusNotFound, response.ErrOrderNotFound, err.Error())
	case errors.Is(err, model.ErrPaymentNotFound):
		response.Error(c, http.StatusNotFound, response.ErrPaymentNotFound, err.Error())
	case errors.Is(err, model.ErrOrderAlreadyPaid):
		response.Error(c, http.StatusConflict, response.ErrOrderPaid, err.Error())
	case errors.Is(err, model.ErrAlreadyProcessed):
		response.Error(c, http.StatusConflict, response.ErrAlreadyProcessed, err.Error())
	case errors.Is(err, model.ErrMethodUnsupported):
		response.Error(c, http.StatusBadRequest, response.ErrMethodUnsupported, err.Error())
	case errors.Is(err, model.ErrMethodNotConfigured):
		response.Error(c, http.StatusBadRequest, response.ErrMethodNotConfigured, err.Error())
	case errors.Is(err, model.ErrNotStoreStaff):
		response.Error(c, http.StatusForbidden, response.ErrNoPermission, err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, err.Error())
	}
}

func getStringFromContext(c *gin.Context, key string) string {
	val, _ := c.Get(key)
	if str, ok := val.(string); ok {
		return str
	}
	return ""
}
