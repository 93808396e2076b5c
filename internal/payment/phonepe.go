// Package payment wraps the PhonePe standard-checkout API. The gateway holds
// the authoritative settlement state for every payment intent; local order
// state is reconciled against it on confirmation.
package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

type State string

const (
	StateCompleted State = "COMPLETED"
	StatePending   State = "PENDING"
	StateFailed    State = "FAILED"
	StateCancelled State = "CANCELLED"
)

const requestTimeout = 10 * time.Second

type Client struct {
	httpc        *resty.Client
	clientID     string
	clientSecret string
}

func NewClient(baseURL, clientID, clientSecret string) *Client {
	return &Client{
		httpc:        resty.New().SetBaseURL(baseURL).SetTimeout(requestTimeout),
		clientID:     clientID,
		clientSecret: clientSecret,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresAt   int64  `json:"expires_at"`
}

type payRequest struct {
	MerchantOrderID string      `json:"merchantOrderId"`
	Amount          int64       `json:"amount"`
	PaymentFlow     paymentFlow `json:"paymentFlow"`
}

type paymentFlow struct {
	Type         string       `json:"type"`
	MerchantURLs merchantURLs `json:"merchantUrls"`
}

type merchantURLs struct {
	RedirectURL string `json:"redirectUrl"`
}

type payResponse struct {
	OrderID     string `json:"orderId"`
	State       string `json:"state"`
	RedirectURL string `json:"redirectUrl"`
}

type statusResponse struct {
	State          string `json:"state"`
	PaymentDetails []struct {
		TransactionID string `json:"transactionId"`
	} `json:"paymentDetails"`
}

// StatusResult is the gateway's answer for one merchant order id.
type StatusResult struct {
	State         State
	TransactionID string
}

func (c *Client) token(ctx context.Context) (string, error) {
	var tok tokenResponse
	resp, err := c.httpc.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"client_id":      c.clientID,
			"client_secret":  c.clientSecret,
			"client_version": "1",
			"grant_type":     "client_credentials",
		}).
		SetResult(&tok).
		Post("/v1/oauth/token")
	if err != nil {
		return "", fmt.Errorf("phonepe auth: %w", err)
	}
	if resp.IsError() || tok.AccessToken == "" {
		return "", fmt.Errorf("phonepe auth: status %d", resp.StatusCode())
	}
	return tok.AccessToken, nil
}

// CreatePage registers a payment intent for amountMinor (paise) keyed by the
// merchant order id and returns the hosted checkout URL the payer is sent to.
func (c *Client) CreatePage(ctx context.Context, merchantOrderID string, amountMinor int64, redirectURL string) (string, error) {
	if amountMinor <= 0 {
		return "", fmt.Errorf("phonepe pay: amount must be positive, got %d", amountMinor)
	}

	tok, err := c.token(ctx)
	if err != nil {
		return "", err
	}

	var out payResponse
	resp, err := c.httpc.R().
		SetContext(ctx).
		SetHeader("Authorization", "O-Bearer "+tok).
		SetBody(payRequest{
			MerchantOrderID: merchantOrderID,
			Amount:          amountMinor,
			PaymentFlow: paymentFlow{
				Type:         "PG_CHECKOUT",
				MerchantURLs: merchantURLs{RedirectURL: redirectURL},
			},
		}).
		SetResult(&out).
		Post("/checkout/v2/pay")
	if err != nil {
		return "", fmt.Errorf("phonepe pay: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("phonepe pay: status %d: %s", resp.StatusCode(), resp.String())
	}
	if out.RedirectURL == "" {
		return "", fmt.Errorf("phonepe pay: no redirect url in response")
	}
	return out.RedirectURL, nil
}

// Status queries the authoritative settlement state for a merchant order id.
func (c *Client) Status(ctx context.Context, merchantOrderID string) (StatusResult, error) {
	tok, err := c.token(ctx)
	if err != nil {
		return StatusResult{}, err
	}

	var out statusResponse
	resp, err := c.httpc.R().
		SetContext(ctx).
		SetHeader("Authorization", "O-Bearer "+tok).
		SetResult(&out).
		Get(fmt.Sprintf("/checkout/v2/order/%s/status", merchantOrderID))
	if err != nil {
		return StatusResult{}, fmt.Errorf("phonepe status: %w", err)
	}
	if resp.IsError() {
		return StatusResult{}, fmt.Errorf("phonepe status: status %d: %s", resp.StatusCode(), resp.String())
	}

	res := StatusResult{State: State(out.State)}
	if len(out.PaymentDetails) > 0 {
		res.TransactionID = out.PaymentDetails[0].TransactionID
	}
	return res, nil
}
