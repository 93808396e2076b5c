package service

import (
	"context"
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/skdm/shopkart/internal/invoice"
	"github.com/skdm/shopkart/internal/models"
	"github.com/skdm/shopkart/internal/payment"
	"github.com/skdm/shopkart/internal/repository"
	"github.com/skdm/shopkart/internal/shipment"
	"github.com/skdm/shopkart/internal/transport"
)

const (
	testRedirectBase = "https://shop.example.com/payment/redirect"
	testPickup       = "Primary"
	testAdminEmail   = "admin@example.com"
	testPageURL      = "https://pay.example.com/page/abc"
)

type fakeGateway struct {
	createCalls  int
	statusCalls  int
	createErr    error
	statusErr    error
	pageURL      string
	state        payment.State
	txnID        string
	lastOrderID  string
	lastAmount   int64
	lastRedirect string
}

func (f *fakeGateway) CreatePage(_ context.Context, merchantOrderID string, amountMinor int64, redirectURL string) (string, error) {
	f.createCalls++
	f.lastOrderID = merchantOrderID
	f.lastAmount = amountMinor
	f.lastRedirect = redirectURL
	return f.pageURL, f.createErr
}

func (f *fakeGateway) Status(_ context.Context, _ string) (payment.StatusResult, error) {
	f.statusCalls++
	if f.statusErr != nil {
		return payment.StatusResult{}, f.statusErr
	}
	return payment.StatusResult{State: f.state, TransactionID: f.txnID}, nil
}

type fakeCarrier struct {
	bookCalls   int
	err         error
	status      string
	lastPayload shipment.Payload
}

func (f *fakeCarrier) BookShipment(_ context.Context, p shipment.Payload) (*shipment.BookResult, error) {
	f.bookCalls++
	f.lastPayload = p
	if f.err != nil {
		return nil, f.err
	}
	return &shipment.BookResult{OrderID: 9001, ShipmentID: 5001, Status: f.status}, nil
}

type fakeInvoicer struct {
	calls int
	err   error
}

func (f *fakeInvoicer) Generate(order invoice.OrderInfo, _ []invoice.LineItem, _ invoice.Customer, _ invoice.Address) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return "invoices/invoice_" + order.UniqueOrderID + ".pdf", nil
}

type sentMail struct {
	to         string
	subject    string
	attachment string
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (f *fakeMailer) SendInvoice(to, subject, _, attachmentPath string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{to: to, subject: subject, attachment: attachmentPath})
	return nil
}

type fakePublisher struct {
	types []string
}

func (f *fakePublisher) Publish(_ context.Context, eventType, _ string, _ map[string]any) error {
	f.types = append(f.types, eventType)
	return nil
}

type checkoutEnv struct {
	db      *gorm.DB
	svc     *CheckoutService
	gateway *fakeGateway
	carrier *fakeCarrier
	invoice *fakeInvoicer
	mailer  *fakeMailer
	events  *fakePublisher

	user models.User
	addr models.Address
	size models.Size
}

func newCheckoutEnv(t *testing.T) *checkoutEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, repository.AutoMigrate(db))

	env := &checkoutEnv{
		db:      db,
		gateway: &fakeGateway{pageURL: testPageURL, state: payment.StatePending},
		carrier: &fakeCarrier{status: "NEW"},
		invoice: &fakeInvoicer{},
		mailer:  &fakeMailer{},
		events:  &fakePublisher{},
	}

	env.user = models.User{Name: "Asha Verma", Email: "asha@example.com", Mobile: "9876543210", PasswordHash: "x", Role: "user"}
	require.NoError(t, db.Create(&env.user).Error)

	env.addr = models.Address{UserID: env.user.ID, Address1: "14 MG Road", City: "Bengaluru", State: "Karnataka", Pincode: "560001"}
	require.NoError(t, db.Create(&env.addr).Error)

	cat := models.Category{Name: "Apparel", Slug: "apparel"}
	require.NoError(t, db.Create(&cat).Error)

	prod := models.Product{Name: "Linen Kurta", CategoryID: cat.ID, Slug: "linen-kurta", HSN: "6204", TaxRate: 12}
	require.NoError(t, db.Create(&prod).Error)

	env.size = models.Size{
		ProductID:     prod.ID,
		Name:          "M",
		Price:         1699,
		DiscountPrice: 1499.50,
		Stock:         10,
		Length:        30,
		Width:         25,
		Height:        4,
		Weight:        0.5,
	}
	require.NoError(t, db.Create(&env.size).Error)

	env.svc = NewCheckoutService(
		repository.NewOrderRepo(db),
		env.gateway, env.carrier, env.invoice, env.mailer, env.events,
		testRedirectBase, testPickup, testAdminEmail,
	)
	return env
}

func (e *checkoutEnv) orderRequest(qty uint) transport.CreateOrderRequest {
	unit := e.size.DiscountPrice
	subtotal := unit * float64(qty)
	return transport.CreateOrderRequest{
		AddressID:   e.addr.ID,
		PaymentMode: "phonepe",
		Subtotal:    subtotal,
		Tax:         180,
		Shipping:    49,
		Total:       subtotal,
		GrandTotal:  subtotal + 180 + 49,
		Products: []transport.CreateOrderItem{
			{ProductID: e.size.ProductID, SizeID: e.size.ID, Quantity: qty},
		},
	}
}

// placeOrder runs the synchronous checkout leg and returns the merchant order id.
func (e *checkoutEnv) placeOrder(t *testing.T, qty uint) string {
	t.Helper()
	resp, err := e.svc.CreateOrder(context.Background(), e.user.ID, e.orderRequest(qty))
	require.NoError(t, err)
	require.NotEmpty(t, resp.MerchantOrderID)
	return resp.MerchantOrderID
}

func (e *checkoutEnv) loadOrder(t *testing.T, merchantOrderID string) *models.Order {
	t.Helper()
	var o models.Order
	require.NoError(t, e.db.Preload("Items").Where("unique_order_id = ?", merchantOrderID).First(&o).Error)
	return &o
}

func (e *checkoutEnv) stockOf(t *testing.T, sizeID uint) int {
	t.Helper()
	var s models.Size
	require.NoError(t, e.db.First(&s, sizeID).Error)
	return s.Stock
}

func (e *checkoutEnv) countRows(t *testing.T, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(model).Count(&n).Error)
	return n
}

var errBoom = errors.New("boom")
