package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/skdm/shopkart/internal/models"
	"github.com/skdm/shopkart/internal/orderid"
)

var ErrEmptyPatch = errors.New("no fields to update")

// idRetries bounds regeneration attempts when a freshly generated merchant
// order id collides with an existing row.
const idRetries = 3

type OrderRepo struct {
	db *gorm.DB
}

func NewOrderRepo(db *gorm.DB) *OrderRepo {
	return &OrderRepo{db: db}
}

// Transaction runs fn against a repo bound to a single database transaction.
// Returning an error rolls back everything written inside fn.
func (r *OrderRepo) Transaction(ctx context.Context, fn func(tx *OrderRepo) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&OrderRepo{db: tx})
	})
}

// CreateOrder inserts the order header and its line items. The merchant order
// id is generated here; the unique constraint on unique_order_id is the real
// collision guarantee, so a duplicate-key insert regenerates and retries. Each
// attempt runs in its own nested transaction so a failed insert rolls back to
// a savepoint instead of aborting the caller's transaction.
func (r *OrderRepo) CreateOrder(ctx context.Context, order *models.Order) error {
	var err error
	for attempt := 0; attempt <= idRetries; attempt++ {
		order.ID = 0
		order.UniqueOrderID = orderid.New()
		err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return tx.Create(order).Error
		})
		if err == nil {
			return nil
		}
		if !isDuplicate(err) {
			return err
		}
	}
	return err
}

func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint")
}

func (r *OrderRepo) GetByID(ctx context.Context, id uint) (*models.Order, error) {
	var o models.Order
	err := r.db.WithContext(ctx).Preload("Items").First(&o, id).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepo) GetByUniqueID(ctx context.Context, uniqueID string) (*models.Order, error) {
	var o models.Order
	err := r.db.WithContext(ctx).Preload("Items").
		Where("unique_order_id = ?", uniqueID).
		First(&o).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// ClaimPaid flips the order to paid/processing in one conditional statement.
// Only the caller that observes rows-affected == 1 owns the fulfillment steps;
// everyone else sees an order that is already paid.
func (r *OrderRepo) ClaimPaid(ctx context.Context, uniqueID, transactionID string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("unique_order_id = ? AND payment_status <> ?", uniqueID, models.PaymentStatusPaid).
		Updates(map[string]any{
			"payment_status": models.PaymentStatusPaid,
			"status":         models.OrderStatusProcessing,
			"transaction_id": transactionID,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// DecrementStock relies on the database's row-update atomicity; stock may go
// negative under concurrent confirmations, which is reconciled at the business
// level rather than enforced here.
func (r *OrderRepo) DecrementStock(ctx context.Context, sizeID, qty uint) error {
	return r.db.WithContext(ctx).Model(&models.Size{}).
		Where("id = ?", sizeID).
		UpdateColumn("stock", gorm.Expr("stock - ?", qty)).Error
}

func (r *OrderRepo) MarkStockAdjusted(ctx context.Context, orderID uint) error {
	return r.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ?", orderID).
		UpdateColumn("stock_adjusted", true).Error
}

func (r *OrderRepo) SetDeliveryStatus(ctx context.Context, orderID uint, status string) error {
	return r.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ?", orderID).
		UpdateColumn("delivery_status", status).Error
}

func (r *OrderRepo) SetInvoiceLink(ctx context.Context, orderID uint, fileName string) error {
	return r.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ?", orderID).
		UpdateColumn("invoice_link", fileName).Error
}

func (r *OrderRepo) ListOrders(ctx context.Context, limit, offset int) ([]models.Order, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Order{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.Order
	err := r.db.WithContext(ctx).Preload("Items").
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&orders).Error
	return orders, total, err
}

func (r *OrderRepo) ListUserOrders(ctx context.Context, userID uint, limit, offset int) ([]models.Order, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Order{}).Where("user_id = ?", userID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.Order
	err := r.db.WithContext(ctx).Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&orders).Error
	return orders, total, err
}

// OrderPatch enumerates the admin-updatable fields. Each is independently
// optional; nil means untouched. This replaces ad hoc SQL field-list building
// with a fixed set of parameterized columns.
type OrderPatch struct {
	Status         *string `json:"status"`
	PaymentStatus  *string `json:"payment_status"`
	DeliveryStatus *string `json:"delivery_status"`
	TransactionID  *string `json:"transaction_id"`
	InvoiceLink    *string `json:"invoice_link"`
}

func (p OrderPatch) fields() map[string]any {
	out := map[string]any{}
	if p.Status != nil {
		out["status"] = *p.Status
	}
	if p.PaymentStatus != nil {
		out["payment_status"] = *p.PaymentStatus
	}
	if p.DeliveryStatus != nil {
		out["delivery_status"] = *p.DeliveryStatus
	}
	if p.TransactionID != nil {
		out["transaction_id"] = *p.TransactionID
	}
	if p.InvoiceLink != nil {
		out["invoice_link"] = *p.InvoiceLink
	}
	return out
}

func (r *OrderRepo) UpdateOrder(ctx context.Context, id uint, patch OrderPatch) error {
	fields := patch.fields()
	if len(fields) == 0 {
		return ErrEmptyPatch
	}

	res := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FulfillmentLine is one order line joined with its product and size details,
// everything the invoice, email and carrier payload need.
type FulfillmentLine struct {
	ProductName   string
	HSN           string
	TaxRate       float64
	SizeID        uint
	SizeName      string
	Price         float64
	DiscountPrice float64
	Discount      float64
	Quantity      int
	Length        float64
	Width         float64
	Height        float64
	Weight        float64
}

// UnitPrice is the price the customer actually paid for one unit.
func (l FulfillmentLine) UnitPrice() float64 {
	if l.DiscountPrice > 0 {
		return l.DiscountPrice
	}
	return l.Price
}

type FulfillmentData struct {
	Order   models.Order
	User    models.User
	Address models.Address
	Lines   []FulfillmentLine
}

// FulfillmentData re-reads everything the post-payment steps need from the
// committed rows rather than trusting any request echo.
func (r *OrderRepo) FulfillmentData(ctx context.Context, uniqueID string) (*FulfillmentData, error) {
	order, err := r.GetByUniqueID(ctx, uniqueID)
	if err != nil {
		return nil, err
	}

	out := FulfillmentData{Order: *order}

	if err := r.db.WithContext(ctx).First(&out.User, order.UserID).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).First(&out.Address, order.AddressID).Error; err != nil {
		return nil, err
	}

	err = r.db.WithContext(ctx).
		Table("order_products").
		Select(`products.name AS product_name, products.hsn, products.tax_rate,
			sizes.id AS size_id, sizes.name AS size_name, sizes.price, sizes.discount_price,
			sizes.length, sizes.width, sizes.height, sizes.weight,
			order_products.quantity, order_products.discount`).
		Joins("JOIN products ON products.id = order_products.product_id").
		Joins("JOIN sizes ON sizes.id = order_products.size_id").
		Where("order_products.order_id = ?", order.ID).
		Scan(&out.Lines).Error
	if err != nil {
		return nil, err
	}
	return &out, nil
}
