package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"autobier-api/internal/apperr"
	"autobier-api/internal/config"

	"github.com/shopspring/decimal"
)

// Counter sales often come without an email; Asaas requires one on customer
// creation, so this placeholder is used.
const fallbackCustomerEmail = "cliente.balcao@autobier.com"

type PixCharge struct {
	ID            string
	QRCodeBase64  string
	CopyPasteCode string
	NetValue      decimal.Decimal
}

type AsaasClient interface {
	// ResolveCustomer looks a customer up by tax id and creates one on miss,
	// returning the remote customer id either way.
	ResolveCustomer(ctx context.Context, name, cpfCnpj, email string) (string, error)

	// CreateCharge creates a Pix charge due today and fetches its QR code.
	// The QR fetch is a mandatory second call; the creation response does not
	// carry the image. A charge without its QR is treated as a failure.
	CreateCharge(ctx context.Context, customerID string, value decimal.Decimal) (*PixCharge, error)

	// CancelCharge removes a charge. Already-removed charges (404) count as
	// success. A settled charge the provider refuses to remove surfaces as
	// apperr.GatewayConflict.
	CancelCharge(ctx context.Context, paymentID string) error
}

type asaasClientImpl struct {
	httpClient *http.Client
	baseApiURL string
	apiKey     string
}

func NewAsaasClient(cfg *config.Asaas) AsaasClient {
	return &asaasClientImpl{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseApiURL: cfg.BaseApiURL,
		apiKey:     cfg.APIKey,
	}
}

// ---- wire types ----

type asaasCustomer struct {
	ID string `json:"id"`
}

type asaasCustomerList struct {
	Data []asaasCustomer `json:"data"`
}

type asaasCreateCustomerRequest struct {
	Name    string `json:"name"`
	CpfCnpj string `json:"cpfCnpj"`
	Email   string `json:"email"`
}

type asaasCreatePaymentRequest struct {
	Customer    string  `json:"customer"`
	BillingType string  `json:"billingType"`
	DueDate     string  `json:"dueDate"`
	Value       float64 `json:"value"`
	Description string  `json:"description"`
}

type asaasPayment struct {
	ID       string          `json:"id"`
	Status   string          `json:"status"`
	NetValue decimal.Decimal `json:"netValue"`
}

type asaasQrCode struct {
	EncodedImage string `json:"encodedImage"`
	Payload      string `json:"payload"`
}

type asaasErrorBody struct {
	Errors []struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"errors"`
}

// providerDetail pulls the human-readable description out of an Asaas error
// body so callers see the provider's own message instead of a generic one.
func providerDetail(body []byte) string {
	var eb asaasErrorBody
	if err := json.Unmarshal(body, &eb); err == nil && len(eb.Errors) > 0 {
		return eb.Errors[0].Description
	}
	return ""
}

func (c *asaasClientImpl) do(ctx context.Context, method, path string, payload any) (int, []byte, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("marshal req payload: %w", err)
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseApiURL+path, reqBody)
	if err != nil {
		return 0, nil, fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("access_token", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response body: %w", err)
	}

	return resp.StatusCode, body, nil
}

// digitsOnly strips formatting from a CPF/CNPJ before it reaches the
// provider, which rejects punctuated ids.
func digitsOnly(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			out = append(out, s[i])
		}
	}
	return string(out)
}

func (c *asaasClientImpl) ResolveCustomer(ctx context.Context, name, cpfCnpj, email string) (string, error) {
	cleanCpf := digitsOnly(cpfCnpj)

	status, body, err := c.do(ctx, http.MethodGet,
		"/customers?cpfCnpj="+url.QueryEscape(cleanCpf), nil)
	if err != nil {
		return "", &apperr.GatewayError{Op: "lookup customer", Err: err}
	}
	if status < 200 || status >= 300 {
		return "", &apperr.GatewayError{Op: "lookup customer", Detail: providerDetail(body)}
	}

	var list asaasCustomerList
	if err := json.Unmarshal(body, &list); err != nil {
		return "", &apperr.GatewayError{Op: "lookup customer", Err: fmt.Errorf("decode response: %w", err)}
	}
	if len(list.Data) > 0 {
		return list.Data[0].ID, nil
	}

	if email == "" {
		email = fallbackCustomerEmail
	}

	status, body, err = c.do(ctx, http.MethodPost, "/customers", &asaasCreateCustomerRequest{
		Name:    name,
		CpfCnpj: cleanCpf,
		Email:   email,
	})
	if err != nil {
		return "", &apperr.GatewayError{Op: "create customer", Err: err}
	}
	if status < 200 || status >= 300 {
		return "", &apperr.GatewayError{Op: "create customer", Detail: providerDetail(body)}
	}

	var created asaasCustomer
	if err := json.Unmarshal(body, &created); err != nil {
		return "", &apperr.GatewayError{Op: "create customer", Err: fmt.Errorf("decode response: %w", err)}
	}

	return created.ID, nil
}

func (c *asaasClientImpl) CreateCharge(ctx context.Context, customerID string, value decimal.Decimal) (*PixCharge, error) {
	status, body, err := c.do(ctx, http.MethodPost, "/payments", &asaasCreatePaymentRequest{
		Customer:    customerID,
		BillingType: "PIX",
		DueDate:     time.Now().Format("2006-01-02"),
		Value:       value.InexactFloat64(),
		Description: "Pedido Autobier - Balcao",
	})
	if err != nil {
		return nil, &apperr.GatewayError{Op: "create charge", Err: err}
	}
	if status < 200 || status >= 300 {
		return nil, &apperr.GatewayError{Op: "create charge", Detail: providerDetail(body)}
	}

	var payment asaasPayment
	if err := json.Unmarshal(body, &payment); err != nil {
		return nil, &apperr.GatewayError{Op: "create charge", Err: fmt.Errorf("decode response: %w", err)}
	}

	// The charge now exists remotely. If the QR fetch below fails the charge
	// is orphaned on the provider side; the caller aborts and the orphan is
	// left for manual reconciliation.
	status, body, err = c.do(ctx, http.MethodGet, "/payments/"+payment.ID+"/pixQrCode", nil)
	if err != nil {
		return nil, &apperr.GatewayError{Op: "fetch pix qr code", Err: err}
	}
	if status < 200 || status >= 300 {
		return nil, &apperr.GatewayError{Op: "fetch pix qr code", Detail: providerDetail(body)}
	}

	var qr asaasQrCode
	if err := json.Unmarshal(body, &qr); err != nil {
		return nil, &apperr.GatewayError{Op: "fetch pix qr code", Err: fmt.Errorf("decode response: %w", err)}
	}

	return &PixCharge{
		ID:            payment.ID,
		QRCodeBase64:  qr.EncodedImage,
		CopyPasteCode: qr.Payload,
		NetValue:      payment.NetValue,
	}, nil
}

func (c *asaasClientImpl) CancelCharge(ctx context.Context, paymentID string) error {
	status, body, err := c.do(ctx, http.MethodDelete, "/payments/"+paymentID, nil)
	if err != nil {
		return &apperr.GatewayError{Op: "cancel charge", Err: err}
	}

	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusNotFound:
		// Already gone remotely; cancellation is idempotent.
		return nil
	case status >= 400 && status < 500:
		// Asaas refuses to delete settled charges with a 4xx error body.
		return &apperr.GatewayConflict{PaymentID: paymentID, Detail: providerDetail(body)}
	default:
		return &apperr.GatewayError{Op: "cancel charge", Detail: providerDetail(body)}
	}
}
