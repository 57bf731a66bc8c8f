package strategy

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"resto_pay/internal/domain/payment/model"
	"resto_pay/internal/domain/payment/token"
	"resto_pay/internal/pkg/config"
	"resto_pay/pkg/signature"
)

// PayOSStrategy creates a hosted-checkout payment request against the
// gateway. Completion only ever arrives through the aggregator webhook.
type PayOSStrategy struct {
	parser     *token.Parser
	endpoint   string
	returnURL  string
	cancelURL  string
	httpClient *http.Client
}

func NewPayOSStrategy(parser *token.Parser) *PayOSStrategy {
	cfg := config.GlobalConfig.PayOS
	return &PayOSStrategy{
		parser:     parser,
		endpoint:   cfg.Endpoint,
		returnURL:  cfg.ReturnURL,
		cancelURL:  cfg.CancelURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *PayOSStrategy) Method() string {
	return model.MethodPayOS
}

type payosCreateRequest struct {
	OrderCode   int64  `json:"orderCode"`
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
	BuyerName   string `json:"buyerName,omitempty"`
	ReturnURL   string `json:"returnUrl"`
	CancelURL   string `json:"cancelUrl"`
	Signature   string `json:"signature"`
}

type payosCreateResponse struct {
	Code string `json:"code"`
	Desc string `json:"desc"`
	Data struct {
		CheckoutURL string `json:"checkoutUrl"`
	} `json:"data"`
}

func (s *PayOSStrategy) Initiate(p *model.Payment, cfg *model.PaymentMethodConfig, customer model.CustomerInfo) (*model.Artifact, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, model.ErrMethodNotConfigured
	}
	creds, err := cfg.PayOSSettings()
	if err != nil {
		return nil, model.ErrMethodNotConfigured
	}

	tok := token.Generate(p.ID)
	content := s.parser.Content(tok)
	orderCode := time.Now().UnixMilli()
	amount := int64(p.Amount)

	p.MatchToken = tok
	p.TransferContent = content
	p.OrderCode = orderCode

	// The gateway signs the canonical field string with the store's checksum
	// key; it rejects requests whose signature does not match.
	sig := signature.SignFields(map[string]string{
		"amount":      strconv.FormatInt(amount, 10),
		"cancelUrl":   s.cancelURL,
		"description": content,
		"orderCode":   strconv.FormatInt(orderCode, 10),
		"returnUrl":   s.returnURL,
	}, creds.ChecksumKey)

	reqBody, err := json.Marshal(payosCreateRequest{
		OrderCode:   orderCode,
		Amount:      amount,
		Description: content,
		BuyerName:   customer.Name,
		ReturnURL:   s.returnURL,
		CancelURL:   s.cancelURL,
		Signature:   sig,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, s.endpoint+"/v2/payment-requests", bytes.NewReader(reqBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-client-id", creds.ClientID)
	req.Header.Set("x-api-key", creds.APIKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out payosCreateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	if out.Code != "00" {
		return nil, errors.New("gateway rejected payment request: " + out.Desc)
	}
	if out.Data.CheckoutURL == "" {
		return nil, fmt.Errorf("gateway returned no checkout url for order code %d", orderCode)
	}

	return &model.Artifact{
		PaymentID:   p.ID,
		Method:      model.MethodPayOS,
		Amount:      p.Amount,
		CheckoutURL: out.Data.CheckoutURL,
		OrderCode:   orderCode,
	}, nil
}

var _ Strategy = (*PayOSStrategy)(nil)
