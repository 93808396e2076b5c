package service

import (
	"context"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/skdm/shopkart/internal/events"
	"github.com/skdm/shopkart/internal/invoice"
	"github.com/skdm/shopkart/internal/logging"
	"github.com/skdm/shopkart/internal/mail"
	"github.com/skdm/shopkart/internal/repository"
	"github.com/skdm/shopkart/internal/shipment"
)

// fulfill runs the post-payment steps in their required order: stock, then
// shipment, then invoice, then email. No single transaction spans them;
// instead each step is guarded by a persisted marker (stock_adjusted,
// delivery_status, invoice_link) so a rerun completes only what is missing.
func (s *CheckoutService) fulfill(ctx context.Context, merchantOrderID string) error {
	l := logFrom(ctx).With("order_id", merchantOrderID)

	data, err := s.Repo.FulfillmentData(ctx, merchantOrderID)
	if err != nil {
		return err
	}
	ord := data.Order

	if !ord.StockAdjusted {
		for _, item := range ord.Items {
			// Best-effort per item: one failed decrement is logged, not
			// fatal to the rest.
			if err := s.Repo.DecrementStock(ctx, item.SizeID, item.Quantity); err != nil {
				l.Error("stock decrement failed", "size_id", item.SizeID, "qty", item.Quantity, "error", err)
			}
		}
		if err := s.Repo.MarkStockAdjusted(ctx, ord.ID); err != nil {
			return err
		}
	}

	if ord.DeliveryStatus == "" {
		res, err := s.Carrier.BookShipment(ctx, s.carrierPayload(data))
		switch {
		case err != nil:
			l.Warn("shipment booking failed, retry via createShipment", "error", err)
		case isShipmentCreated(res.Status):
			if err := s.Repo.SetDeliveryStatus(ctx, ord.ID, res.Status); err != nil {
				return err
			}
			s.publish(ctx, events.TypeShipmentBooked, merchantOrderID, map[string]any{
				"carrier_order_id": res.OrderID,
			})
		default:
			l.Warn("shipment not created", "carrier_status", res.Status)
		}
	}

	if ord.InvoiceLink == "" {
		path, err := s.generateInvoice(data)
		if err != nil {
			return err
		}
		if err := s.Repo.SetInvoiceLink(ctx, ord.ID, filepath.Base(path)); err != nil {
			return err
		}
		s.sendOrderMail(l, data, path)
	}

	s.publish(ctx, events.TypeOrderPaid, merchantOrderID, map[string]any{
		"transaction_id": ord.TransactionID,
		"grand_total":    ord.GrandTotal,
	})
	return nil
}

func (s *CheckoutService) generateInvoice(data *repository.FulfillmentData) (string, error) {
	ord := data.Order

	items := make([]invoice.LineItem, 0, len(data.Lines))
	for _, line := range data.Lines {
		items = append(items, invoice.LineItem{
			Name:     line.ProductName,
			SizeName: line.SizeName,
			Price:    line.UnitPrice(),
			Discount: line.Discount,
			Quantity: line.Quantity,
		})
	}

	return s.Invoice.Generate(
		invoice.OrderInfo{
			UniqueOrderID: ord.UniqueOrderID,
			Subtotal:      ord.Subtotal,
			Discount:      ord.Discount,
			Shipping:      ord.Shipping,
			Tax:           ord.Tax,
			PaymentStatus: ord.PaymentStatus,
		},
		items,
		invoice.Customer{Name: data.User.Name, Email: data.User.Email, Phone: data.User.Mobile},
		invoice.Address{
			Address1: data.Address.Address1,
			Address2: data.Address.Address2,
			City:     data.Address.City,
			State:    data.Address.State,
			Pincode:  data.Address.Pincode,
		},
	)
}

// sendOrderMail dispatches the customer invoice and the admin alert. Email
// failure never rolls back prior persisted state.
func (s *CheckoutService) sendOrderMail(l *slog.Logger, data *repository.FulfillmentData, invoicePath string) {
	ord := data.Order
	td := mail.TemplateData{
		OrderID:     ord.UniqueOrderID,
		Name:        data.User.Name,
		PaymentMode: ord.PaymentMode,
		GrandTotal:  ord.GrandTotal,
		City:        data.Address.City,
		State:       data.Address.State,
	}

	subject := "Invoice for Order #" + ord.UniqueOrderID
	if err := s.Mail.SendInvoice(data.User.Email, subject, mail.CustomerEmailHTML(td), invoicePath); err != nil {
		l.Warn("invoice email failed", "to", data.User.Email, "error", err)
	}
	if s.AdminEmail != "" {
		if err := s.Mail.SendInvoice(s.AdminEmail, "New paid order #"+ord.UniqueOrderID, mail.AdminEmailHTML(td), invoicePath); err != nil {
			l.Warn("admin alert email failed", "error", err)
		}
	}
}

func (s *CheckoutService) carrierPayload(data *repository.FulfillmentData) shipment.Payload {
	ord := data.Order
	first, last := shipment.SplitName(data.User.Name)

	items := make([]shipment.OrderItem, 0, len(data.Lines))
	pkg := make([]shipment.PackageItem, 0, len(data.Lines))
	for _, line := range data.Lines {
		items = append(items, shipment.OrderItem{
			Name:         line.ProductName,
			SKU:          skuFor(line),
			Units:        line.Quantity,
			SellingPrice: line.UnitPrice(),
			Discount:     line.Discount,
			Tax:          line.TaxRate,
			HSN:          line.HSN,
		})
		pkg = append(pkg, shipment.PackageItem{
			Weight:   line.Weight,
			Length:   line.Length,
			Width:    line.Width,
			Height:   line.Height,
			Price:    line.UnitPrice(),
			Quantity: line.Quantity,
		})
	}
	m := shipment.CalculateMetrics(pkg)

	return shipment.Payload{
		OrderID:           ord.UniqueOrderID,
		OrderDate:         ord.CreatedAt.Format("2006-01-02 15:04"),
		PickupLocation:    s.PickupLocation,
		BillingFirstName:  first,
		BillingLastName:   last,
		BillingAddress:    data.Address.Address1,
		BillingAddress2:   data.Address.Address2,
		BillingCity:       data.Address.City,
		BillingPincode:    data.Address.Pincode,
		BillingState:      data.Address.State,
		BillingCountry:    "India",
		BillingEmail:      data.User.Email,
		BillingPhone:      data.User.Mobile,
		ShippingIsBilling: true,
		OrderItems:        items,
		PaymentMethod:     "Prepaid",
		SubTotal:          m.SubTotal,
		Length:            m.Length,
		Breadth:           m.Breadth,
		Height:            m.Height,
		Weight:            m.TotalWeight,
	}
}

func skuFor(line repository.FulfillmentLine) string {
	return "SKU-" + strconv.FormatUint(uint64(line.SizeID), 10)
}

func isShipmentCreated(status string) bool {
	return strings.EqualFold(status, "NEW")
}

func logFrom(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx)
}
