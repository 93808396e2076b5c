package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skdm/shopkart/internal/models"
	"github.com/skdm/shopkart/internal/payment"
	"github.com/skdm/shopkart/internal/repository"
	"github.com/skdm/shopkart/internal/transport"
)

func TestCreateOrder_RegistersIntentAndPersists(t *testing.T) {
	t.Parallel()
	env := newCheckoutEnv(t)

	resp, err := env.svc.CreateOrder(context.Background(), env.user.ID, env.orderRequest(2))
	require.NoError(t, err)

	assert.True(t, resp.Success)
	assert.Equal(t, testPageURL, resp.RedirectURL)
	require.NotEmpty(t, resp.MerchantOrderID)

	// The gateway sees integer paise derived from the committed row and a
	// redirect keyed by the merchant order id.
	assert.Equal(t, resp.MerchantOrderID, env.gateway.lastOrderID)
	assert.Equal(t, payment.MinorUnits(2*1499.50+180+49), env.gateway.lastAmount)
	assert.Equal(t, testRedirectBase+"/"+resp.MerchantOrderID, env.gateway.lastRedirect)

	ord := env.loadOrder(t, resp.MerchantOrderID)
	assert.Equal(t, models.PaymentStatusUnpaid, ord.PaymentStatus)
	assert.Equal(t, models.OrderStatusPending, ord.Status)
	require.Len(t, ord.Items, 1)
	assert.Equal(t, uint(2), ord.Items[0].Quantity)

	assert.Equal(t, 10, env.stockOf(t, env.size.ID), "stock is untouched at creation")
	assert.Contains(t, env.events.types, "order_created")
}

func TestCreateOrder_GatewayFailureLeavesNoRows(t *testing.T) {
	t.Parallel()
	env := newCheckoutEnv(t)
	env.gateway.createErr = errBoom

	_, err := env.svc.CreateOrder(context.Background(), env.user.ID, env.orderRequest(1))
	require.ErrorIs(t, err, ErrUpstream)

	assert.EqualValues(t, 0, env.countRows(t, &models.Order{}))
	assert.EqualValues(t, 0, env.countRows(t, &models.OrderProduct{}))
	assert.Empty(t, env.events.types)
}

func TestCreateOrder_EmptyRedirectLeavesNoRows(t *testing.T) {
	t.Parallel()
	env := newCheckoutEnv(t)
	env.gateway.pageURL = ""

	_, err := env.svc.CreateOrder(context.Background(), env.user.ID, env.orderRequest(1))
	require.ErrorIs(t, err, ErrUpstream)

	assert.EqualValues(t, 0, env.countRows(t, &models.Order{}))
	assert.EqualValues(t, 0, env.countRows(t, &models.OrderProduct{}))
}

func TestCreateOrder_ValidationRejectsBeforeGateway(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		userID uint
		mutate func(*transport.CreateOrderRequest)
	}{
		{name: "missing user", userID: 0, mutate: func(r *transport.CreateOrderRequest) {}},
		{name: "zero grand total", userID: 1, mutate: func(r *transport.CreateOrderRequest) { r.GrandTotal = 0 }},
		{name: "negative grand total", userID: 1, mutate: func(r *transport.CreateOrderRequest) { r.GrandTotal = -5 }},
		{name: "no items", userID: 1, mutate: func(r *transport.CreateOrderRequest) { r.Products = nil }},
		{name: "zero quantity item", userID: 1, mutate: func(r *transport.CreateOrderRequest) { r.Products[0].Quantity = 0 }},
		{name: "missing address", userID: 1, mutate: func(r *transport.CreateOrderRequest) { r.AddressID = 0 }},
		{name: "missing payment mode", userID: 1, mutate: func(r *transport.CreateOrderRequest) { r.PaymentMode = "" }},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env := newCheckoutEnv(t)

			req := env.orderRequest(1)
			tt.mutate(&req)
			userID := tt.userID
			if userID != 0 {
				userID = env.user.ID
			}

			_, err := env.svc.CreateOrder(context.Background(), userID, req)
			require.ErrorIs(t, err, ErrValidation)
			assert.Zero(t, env.gateway.createCalls, "gateway must not be called for invalid input")
			assert.EqualValues(t, 0, env.countRows(t, &models.Order{}))
		})
	}
}

func TestConfirmPayment_CompletedRunsFulfillment(t *testing.T) {
	t.Parallel()
	env := newCheckoutEnv(t)
	id := env.placeOrder(t, 3)
	env.gateway.state = payment.StateCompleted
	env.gateway.txnID = "TXN-9"

	res, err := env.svc.ConfirmPayment(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "/order-confirmed", res.NavigateTo)

	ord := env.loadOrder(t, id)
	assert.Equal(t, models.PaymentStatusPaid, ord.PaymentStatus)
	assert.Equal(t, models.OrderStatusProcessing, ord.Status)
	assert.Equal(t, "TXN-9", ord.TransactionID)
	assert.True(t, ord.StockAdjusted)
	assert.Equal(t, "NEW", ord.DeliveryStatus)
	assert.Equal(t, "invoice_"+id+".pdf", ord.InvoiceLink)

	assert.Equal(t, 7, env.stockOf(t, env.size.ID))
	assert.Equal(t, 1, env.carrier.bookCalls)
	assert.Equal(t, 1, env.invoice.calls)

	require.Len(t, env.mailer.sent, 2)
	assert.Equal(t, env.user.Email, env.mailer.sent[0].to)
	assert.Contains(t, env.mailer.sent[0].subject, id)
	assert.Equal(t, testAdminEmail, env.mailer.sent[1].to)

	p := env.carrier.lastPayload
	assert.Equal(t, id, p.OrderID)
	assert.Equal(t, "Asha", p.BillingFirstName)
	assert.Equal(t, "Verma", p.BillingLastName)
	assert.Equal(t, testPickup, p.PickupLocation)
	assert.Equal(t, "Prepaid", p.PaymentMethod)
	assert.True(t, p.ShippingIsBilling)
	assert.InDelta(t, 1.5, p.Weight, 1e-9)
	assert.InDelta(t, 30, p.Length, 1e-9)
	assert.InDelta(t, 25, p.Breadth, 1e-9)
	assert.InDelta(t, 4, p.Height, 1e-9)
	assert.InDelta(t, 3*1499.50, p.SubTotal, 1e-9)
	require.Len(t, p.OrderItems, 1)
	assert.Equal(t, "6204", p.OrderItems[0].HSN)

	assert.Contains(t, env.events.types, "shipment_booked")
	assert.Contains(t, env.events.types, "order_paid")
}

func TestConfirmPayment_RepeatIsIdempotent(t *testing.T) {
	t.Parallel()
	env := newCheckoutEnv(t)
	id := env.placeOrder(t, 3)
	env.gateway.state = payment.StateCompleted
	env.gateway.txnID = "TXN-9"

	_, err := env.svc.ConfirmPayment(context.Background(), id)
	require.NoError(t, err)

	res, err := env.svc.ConfirmPayment(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "/order-confirmed", res.NavigateTo)

	// The paid short-circuit answers without another gateway call or any
	// repeated side effect.
	assert.Equal(t, 1, env.gateway.statusCalls)
	assert.Equal(t, 7, env.stockOf(t, env.size.ID))
	assert.Equal(t, 1, env.carrier.bookCalls)
	assert.Equal(t, 1, env.invoice.calls)
	assert.Len(t, env.mailer.sent, 2)
}

func TestConfirmPayment_Pending(t *testing.T) {
	t.Parallel()
	env := newCheckoutEnv(t)
	id := env.placeOrder(t, 1)
	env.gateway.state = payment.StatePending

	res, err := env.svc.ConfirmPayment(context.Background(), id)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "/payment-pending", res.NavigateTo)

	ord := env.loadOrder(t, id)
	assert.Equal(t, models.PaymentStatusUnpaid, ord.PaymentStatus)
	assert.Equal(t, 10, env.stockOf(t, env.size.ID))
	assert.Zero(t, env.carrier.bookCalls)
}

func TestConfirmPayment_FailedState(t *testing.T) {
	t.Parallel()
	env := newCheckoutEnv(t)
	id := env.placeOrder(t, 1)
	env.gateway.state = payment.StateFailed

	res, err := env.svc.ConfirmPayment(context.Background(), id)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "/payment-failed", res.NavigateTo)

	ord := env.loadOrder(t, id)
	assert.Equal(t, models.PaymentStatusUnpaid, ord.PaymentStatus)
	assert.Equal(t, 10, env.stockOf(t, env.size.ID))
}

func TestConfirmPayment_StatusErrorIsUpstream(t *testing.T) {
	t.Parallel()
	env := newCheckoutEnv(t)
	id := env.placeOrder(t, 1)
	env.gateway.statusErr = errBoom

	res, err := env.svc.ConfirmPayment(context.Background(), id)
	require.ErrorIs(t, err, ErrUpstream)
	assert.Nil(t, res)

	ord := env.loadOrder(t, id)
	assert.Equal(t, models.PaymentStatusUnpaid, ord.PaymentStatus)
}

func TestConfirmPayment_UnknownOrder(t *testing.T) {
	t.Parallel()
	env := newCheckoutEnv(t)

	_, err := env.svc.ConfirmPayment(context.Background(), "NOPE-123")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = env.svc.ConfirmPayment(context.Background(), "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestConfirmPayment_CarrierFailureDoesNotBlockConfirmation(t *testing.T) {
	t.Parallel()
	env := newCheckoutEnv(t)
	id := env.placeOrder(t, 2)
	env.gateway.state = payment.StateCompleted
	env.carrier.err = errBoom

	res, err := env.svc.ConfirmPayment(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, res.Success)

	ord := env.loadOrder(t, id)
	assert.Equal(t, models.PaymentStatusPaid, ord.PaymentStatus)
	assert.Empty(t, ord.DeliveryStatus, "failed booking leaves the shipment pending")
	assert.Equal(t, 1, env.invoice.calls, "invoice still generated")
	assert.Len(t, env.mailer.sent, 2)

	// Booking is retried through the standalone endpoint once the carrier
	// recovers.
	env.carrier.err = nil
	require.NoError(t, env.svc.CreateShipment(context.Background(), id))

	ord = env.loadOrder(t, id)
	assert.Equal(t, "NEW", ord.DeliveryStatus)
	assert.Equal(t, 2, env.carrier.bookCalls)
}

func TestConfirmPayment_MailFailureNonFatal(t *testing.T) {
	t.Parallel()
	env := newCheckoutEnv(t)
	id := env.placeOrder(t, 1)
	env.gateway.state = payment.StateCompleted
	env.mailer.err = errBoom

	res, err := env.svc.ConfirmPayment(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, res.Success)

	ord := env.loadOrder(t, id)
	assert.Equal(t, "invoice_"+id+".pdf", ord.InvoiceLink)
}

func TestConfirmPayment_InvoiceFailureAfterSettlement(t *testing.T) {
	t.Parallel()
	env := newCheckoutEnv(t)
	id := env.placeOrder(t, 2)
	env.gateway.state = payment.StateCompleted
	env.invoice.err = errBoom

	res, err := env.svc.ConfirmPayment(context.Background(), id)
	require.ErrorIs(t, err, ErrProcessing)
	require.NotNil(t, res)
	assert.False(t, res.Success)
	assert.Equal(t, "/order-confirmed", res.NavigateTo)
	assert.Contains(t, res.Message, "do not retry payment")

	// Payment state and stock survive the downstream failure.
	ord := env.loadOrder(t, id)
	assert.Equal(t, models.PaymentStatusPaid, ord.PaymentStatus)
	assert.Equal(t, 8, env.stockOf(t, env.size.ID))
}

func TestCreateShipment_RequiresPaidOrder(t *testing.T) {
	t.Parallel()
	env := newCheckoutEnv(t)
	id := env.placeOrder(t, 1)

	err := env.svc.CreateShipment(context.Background(), id)
	assert.ErrorIs(t, err, ErrValidation)

	assert.ErrorIs(t, env.svc.CreateShipment(context.Background(), ""), ErrValidation)
	assert.ErrorIs(t, env.svc.CreateShipment(context.Background(), "NOPE-123"), ErrNotFound)
}

func TestCreateShipment_CarrierRejection(t *testing.T) {
	t.Parallel()
	env := newCheckoutEnv(t)
	id := env.placeOrder(t, 1)
	env.gateway.state = payment.StateCompleted
	env.carrier.err = errBoom
	_, err := env.svc.ConfirmPayment(context.Background(), id)
	require.NoError(t, err)

	env.carrier.err = nil
	env.carrier.status = "ERROR"

	err = env.svc.CreateShipment(context.Background(), id)
	require.ErrorIs(t, err, ErrUpstream)

	ord := env.loadOrder(t, id)
	assert.Empty(t, ord.DeliveryStatus)
}

func TestAdminUpdateOrder(t *testing.T) {
	t.Parallel()
	env := newCheckoutEnv(t)
	id := env.placeOrder(t, 1)
	ord := env.loadOrder(t, id)

	status := "processing"
	require.NoError(t, env.svc.AdminUpdateOrder(context.Background(), ord.ID, repository.OrderPatch{Status: &status}))

	got := env.loadOrder(t, id)
	assert.Equal(t, "processing", got.Status)

	err := env.svc.AdminUpdateOrder(context.Background(), ord.ID, repository.OrderPatch{})
	assert.ErrorIs(t, err, ErrValidation)

	err = env.svc.AdminUpdateOrder(context.Background(), 9999, repository.OrderPatch{Status: &status})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListUserOrders_PaginationMeta(t *testing.T) {
	t.Parallel()
	env := newCheckoutEnv(t)
	for i := 0; i < 3; i++ {
		env.placeOrder(t, 1)
	}

	orders, meta, err := env.svc.ListUserOrders(context.Background(), env.user.ID, 1, 2)
	require.NoError(t, err)
	assert.Len(t, orders, 2)
	assert.EqualValues(t, 3, meta.TotalOrders)
	assert.Equal(t, 2, meta.TotalPages)
	assert.Equal(t, 1, meta.CurrentPage)
	assert.Equal(t, 2, meta.Limit)

	orders, meta, err = env.svc.ListOrders(context.Background(), 2, 2)
	require.NoError(t, err)
	assert.Len(t, orders, 1)
	assert.Equal(t, 2, meta.CurrentPage)
}

func TestGetOrder(t *testing.T) {
	t.Parallel()
	env := newCheckoutEnv(t)
	id := env.placeOrder(t, 1)

	ord, err := env.svc.GetOrder(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, ord.UniqueOrderID)

	_, err = env.svc.GetOrder(context.Background(), "NOPE-123")
	assert.ErrorIs(t, err, ErrNotFound)
}
