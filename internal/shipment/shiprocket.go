// Package shipment wraps the Shiprocket external API: credential login and
// adhoc order creation. Carrier failures are recoverable; fulfillment can be
// retried later through the standalone shipment endpoint.
package shipment

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

const requestTimeout = 15 * time.Second

type Client struct {
	httpc    *resty.Client
	email    string
	password string
}

func NewClient(baseURL, email, password string) *Client {
	return &Client{
		httpc:    resty.New().SetBaseURL(baseURL).SetTimeout(requestTimeout),
		email:    email,
		password: password,
	}
}

// OrderItem is one line of the carrier payload.
type OrderItem struct {
	Name         string  `json:"name"`
	SKU          string  `json:"sku"`
	Units        int     `json:"units"`
	SellingPrice float64 `json:"selling_price"`
	Discount     float64 `json:"discount"`
	Tax          float64 `json:"tax"`
	HSN          string  `json:"hsn"`
}

// Payload is the adhoc order creation request. Shipping address equals the
// billing address for storefront orders.
type Payload struct {
	OrderID           string      `json:"order_id"`
	OrderDate         string      `json:"order_date"`
	PickupLocation    string      `json:"pickup_location"`
	BillingFirstName  string      `json:"billing_customer_name"`
	BillingLastName   string      `json:"billing_last_name"`
	BillingAddress    string      `json:"billing_address"`
	BillingAddress2   string      `json:"billing_address_2"`
	BillingCity       string      `json:"billing_city"`
	BillingPincode    string      `json:"billing_pincode"`
	BillingState      string      `json:"billing_state"`
	BillingCountry    string      `json:"billing_country"`
	BillingEmail      string      `json:"billing_email"`
	BillingPhone      string      `json:"billing_phone"`
	ShippingIsBilling bool        `json:"shipping_is_billing"`
	OrderItems        []OrderItem `json:"order_items"`
	PaymentMethod     string      `json:"payment_method"`
	SubTotal          float64     `json:"sub_total"`
	Length            float64     `json:"length"`
	Breadth           float64     `json:"breadth"`
	Height            float64     `json:"height"`
	Weight            float64     `json:"weight"`
}

// BookResult is the carrier's answer; Status "NEW" means the shipment order
// was accepted.
type BookResult struct {
	OrderID    int64  `json:"order_id"`
	ShipmentID int64  `json:"shipment_id"`
	Status     string `json:"status"`
}

type authResponse struct {
	Token string `json:"token"`
}

// Authenticate fetches a short-lived token. Tokens are deliberately not
// cached; every booking re-authenticates.
func (c *Client) Authenticate(ctx context.Context) (string, error) {
	var out authResponse
	resp, err := c.httpc.R().
		SetContext(ctx).
		SetBody(map[string]string{"email": c.email, "password": c.password}).
		SetResult(&out).
		Post("/auth/login")
	if err != nil {
		return "", fmt.Errorf("shiprocket auth: %w", err)
	}
	if resp.IsError() || out.Token == "" {
		return "", fmt.Errorf("shiprocket auth: status %d", resp.StatusCode())
	}
	return out.Token, nil
}

// BookShipment authenticates and creates an adhoc carrier order. Callers must
// treat an error as a recoverable, non-fatal outcome.
func (c *Client) BookShipment(ctx context.Context, p Payload) (*BookResult, error) {
	token, err := c.Authenticate(ctx)
	if err != nil {
		return nil, err
	}

	var out BookResult
	resp, err := c.httpc.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetBody(p).
		SetResult(&out).
		Post("/orders/create/adhoc")
	if err != nil {
		return nil, fmt.Errorf("shiprocket create order: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("shiprocket create order: status %d: %s", resp.StatusCode(), resp.String())
	}
	return &out, nil
}
