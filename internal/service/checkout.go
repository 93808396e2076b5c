package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"github.com/skdm/shopkart/internal/events"
	"github.com/skdm/shopkart/internal/invoice"
	"github.com/skdm/shopkart/internal/models"
	"github.com/skdm/shopkart/internal/payment"
	"github.com/skdm/shopkart/internal/repository"
	"github.com/skdm/shopkart/internal/shipment"
	"github.com/skdm/shopkart/internal/transport"
	"github.com/skdm/shopkart/internal/util"
)

// PaymentGateway is the external checkout API boundary: intent creation and
// authoritative settlement state.
type PaymentGateway interface {
	CreatePage(ctx context.Context, merchantOrderID string, amountMinor int64, redirectURL string) (string, error)
	Status(ctx context.Context, merchantOrderID string) (payment.StatusResult, error)
}

// ShipmentBooker books a carrier order; its errors are recoverable.
type ShipmentBooker interface {
	BookShipment(ctx context.Context, p shipment.Payload) (*shipment.BookResult, error)
}

type InvoiceGenerator interface {
	Generate(order invoice.OrderInfo, items []invoice.LineItem, customer invoice.Customer, addr invoice.Address) (string, error)
}

type Mailer interface {
	SendInvoice(to, subject, htmlBody, attachmentPath string) error
}

type EventPublisher interface {
	Publish(ctx context.Context, eventType, orderID string, data map[string]any) error
}

// CheckoutService coordinates the create -> pay -> confirm -> fulfill
// pipeline. CreateOrder runs synchronously inside the storefront request;
// everything from payment confirmation onward runs inside the gateway
// redirect/poll request and must be idempotent.
type CheckoutService struct {
	Repo    *repository.OrderRepo
	Gateway PaymentGateway
	Carrier ShipmentBooker
	Invoice InvoiceGenerator
	Mail    Mailer
	Events  EventPublisher

	RedirectBase   string
	PickupLocation string
	AdminEmail     string

	validate *validator.Validate
}

func NewCheckoutService(repo *repository.OrderRepo, gw PaymentGateway, carrier ShipmentBooker, inv InvoiceGenerator, mail Mailer, events EventPublisher, redirectBase, pickupLocation, adminEmail string) *CheckoutService {
	return &CheckoutService{
		Repo:           repo,
		Gateway:        gw,
		Carrier:        carrier,
		Invoice:        inv,
		Mail:           mail,
		Events:         events,
		RedirectBase:   redirectBase,
		PickupLocation: pickupLocation,
		AdminEmail:     adminEmail,
		validate:       validator.New(),
	}
}

// CreateOrder inserts the order header and line items, then registers the
// payment intent, all inside one transaction, so a gateway failure leaves no
// trace of the order. Stock is not touched here.
func (s *CheckoutService) CreateOrder(ctx context.Context, userID uint, req transport.CreateOrderRequest) (*transport.CreateOrderResponse, error) {
	if userID == 0 {
		return nil, fmt.Errorf("%w: user required", ErrValidation)
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	items := make([]models.OrderProduct, 0, len(req.Products))
	for _, p := range req.Products {
		items = append(items, models.OrderProduct{
			ProductID: p.ProductID,
			SizeID:    p.SizeID,
			Quantity:  p.Quantity,
			Discount:  p.Discount,
		})
	}

	order := models.Order{
		UserID:        userID,
		AddressID:     req.AddressID,
		Subtotal:      req.Subtotal,
		Tax:           req.Tax,
		Shipping:      req.Shipping,
		Discount:      req.Discount,
		Total:         req.Total,
		GrandTotal:    req.GrandTotal,
		PaymentMode:   req.PaymentMode,
		PaymentStatus: models.PaymentStatusUnpaid,
		Status:        models.OrderStatusPending,
		Items:         items,
	}

	var redirectURL, merchantOrderID string

	txErr := s.Repo.Transaction(ctx, func(tx *repository.OrderRepo) error {
		if err := tx.CreateOrder(ctx, &order); err != nil {
			return err
		}

		// Defensive re-read: the amount sent to the gateway comes from the
		// inserted row, not the request echo.
		committed, err := tx.GetByID(ctx, order.ID)
		if err != nil {
			return err
		}
		merchantOrderID = committed.UniqueOrderID

		url, err := s.Gateway.CreatePage(ctx, merchantOrderID,
			payment.MinorUnits(committed.GrandTotal),
			s.RedirectBase+"/"+merchantOrderID)
		if err != nil {
			return fmt.Errorf("%w: payment intent: %v", ErrUpstream, err)
		}
		if url == "" {
			return fmt.Errorf("%w: payment intent returned no redirect", ErrUpstream)
		}
		redirectURL = url
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.publish(ctx, events.TypeOrderCreated, merchantOrderID, map[string]any{
		"user_id":     userID,
		"grand_total": order.GrandTotal,
	})

	return &transport.CreateOrderResponse{
		Success:         true,
		RedirectURL:     redirectURL,
		MerchantOrderID: merchantOrderID,
	}, nil
}

// ConfirmPayment is the asynchronous re-entry point: invoked by the gateway
// redirect or a later poll, zero or more times per order. An order already in
// the terminal paid state short-circuits to success without repeating any side
// effect.
func (s *CheckoutService) ConfirmPayment(ctx context.Context, merchantOrderID string) (*transport.ConfirmResult, error) {
	if merchantOrderID == "" {
		return nil, fmt.Errorf("%w: order id required", ErrValidation)
	}

	ord, err := s.Repo.GetByUniqueID(ctx, merchantOrderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: order %s", ErrNotFound, merchantOrderID)
	}
	if err != nil {
		return nil, err
	}

	confirmed := &transport.ConfirmResult{
		Success:    true,
		Message:    "payment confirmed",
		NavigateTo: "/order-confirmed",
	}

	if ord.PaymentStatus == models.PaymentStatusPaid {
		return confirmed, nil
	}

	// The gateway, never the client, is authoritative for settlement state.
	st, err := s.Gateway.Status(ctx, merchantOrderID)
	if err != nil {
		return nil, fmt.Errorf("%w: payment status: %v", ErrUpstream, err)
	}

	switch st.State {
	case payment.StateCompleted:
		claimed, err := s.Repo.ClaimPaid(ctx, merchantOrderID, st.TransactionID)
		if err != nil {
			return nil, fmt.Errorf("%w: recording payment: %v", ErrProcessing, err)
		}
		if !claimed {
			// A concurrent confirmation won the transition and owns the
			// fulfillment steps.
			return confirmed, nil
		}
		if err := s.fulfill(ctx, merchantOrderID); err != nil {
			// The money has moved; the response must not suggest retrying
			// the charge.
			return &transport.ConfirmResult{
				Success:    false,
				Message:    "payment received, order processing hit an error; do not retry payment",
				NavigateTo: "/order-confirmed",
			}, fmt.Errorf("%w: %v", ErrProcessing, err)
		}
		return confirmed, nil

	case payment.StatePending:
		return &transport.ConfirmResult{
			Success:    false,
			Message:    "payment pending, check back shortly",
			NavigateTo: "/payment-pending",
		}, nil

	default:
		return &transport.ConfirmResult{
			Success:    false,
			Message:    "payment " + string(st.State),
			NavigateTo: "/payment-failed",
		}, nil
	}
}

// CreateShipment retries carrier booking for an already-paid order,
// independently of the confirmation handler.
func (s *CheckoutService) CreateShipment(ctx context.Context, merchantOrderID string) error {
	if merchantOrderID == "" {
		return fmt.Errorf("%w: order id required", ErrValidation)
	}

	data, err := s.Repo.FulfillmentData(ctx, merchantOrderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: order %s", ErrNotFound, merchantOrderID)
	}
	if err != nil {
		return err
	}
	if data.Order.PaymentStatus != models.PaymentStatusPaid {
		return fmt.Errorf("%w: order is not paid", ErrValidation)
	}

	res, err := s.Carrier.BookShipment(ctx, s.carrierPayload(data))
	if err != nil {
		return fmt.Errorf("%w: shipment booking: %v", ErrUpstream, err)
	}
	if !isShipmentCreated(res.Status) {
		return fmt.Errorf("%w: shipment not created, carrier status %q", ErrUpstream, res.Status)
	}

	if err := s.Repo.SetDeliveryStatus(ctx, data.Order.ID, res.Status); err != nil {
		return err
	}
	s.publish(ctx, events.TypeShipmentBooked, merchantOrderID, map[string]any{
		"carrier_order_id": res.OrderID,
	})
	return nil
}

func (s *CheckoutService) GetOrder(ctx context.Context, uniqueID string) (*models.Order, error) {
	ord, err := s.Repo.GetByUniqueID(ctx, uniqueID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: order %s", ErrNotFound, uniqueID)
	}
	return ord, err
}

func (s *CheckoutService) ListOrders(ctx context.Context, page, limit int) ([]models.Order, transport.Pagination, error) {
	offset, limit := util.Calculate(page, limit)
	orders, total, err := s.Repo.ListOrders(ctx, limit, offset)
	if err != nil {
		return nil, transport.Pagination{}, err
	}
	return orders, paginationMeta(total, page, limit), nil
}

func (s *CheckoutService) ListUserOrders(ctx context.Context, userID uint, page, limit int) ([]models.Order, transport.Pagination, error) {
	offset, limit := util.Calculate(page, limit)
	orders, total, err := s.Repo.ListUserOrders(ctx, userID, limit, offset)
	if err != nil {
		return nil, transport.Pagination{}, err
	}
	return orders, paginationMeta(total, page, limit), nil
}

func (s *CheckoutService) AdminUpdateOrder(ctx context.Context, id uint, patch repository.OrderPatch) error {
	err := s.Repo.UpdateOrder(ctx, id, patch)
	switch {
	case errors.Is(err, repository.ErrEmptyPatch):
		return fmt.Errorf("%w: no fields provided for update", ErrValidation)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: order %d", ErrNotFound, id)
	default:
		return err
	}
}

func paginationMeta(total int64, page, limit int) transport.Pagination {
	if page < 1 {
		page = 1
	}
	return transport.Pagination{
		TotalOrders: total,
		TotalPages:  util.TotalPages(total, limit),
		CurrentPage: page,
		Limit:       limit,
	}
}

func (s *CheckoutService) publish(ctx context.Context, eventType, orderID string, data map[string]any) {
	if s.Events == nil {
		return
	}
	if err := s.Events.Publish(ctx, eventType, orderID, data); err != nil {
		logFrom(ctx).Warn("event publish failed", "type", eventType, "order_id", orderID, "error", err)
	}
}
