package models

import "time"

const (
	PaymentStatusUnpaid = "unpaid"
	PaymentStatusPaid   = "paid"
	PaymentStatusFailed = "failed"

	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
)

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string `gorm:"not null"                 json:"name"`
	Email        string `gorm:"unique;not null"          json:"email"`
	Mobile       string `json:"mobile"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Role         string `gorm:"not null;default:user"    json:"role"`
}

type Address struct {
	ID       uint   `gorm:"primaryKey"     json:"id"`
	UserID   uint   `gorm:"index;not null" json:"user_id"`
	Address1 string `gorm:"not null"       json:"address1"`
	Address2 string `json:"address2"`
	Landmark string `json:"landmark"`
	City     string `gorm:"not null"       json:"city"`
	State    string `gorm:"not null"       json:"state"`
	Pincode  string `gorm:"not null"       json:"pincode"`
}

type Category struct {
	ID          uint   `gorm:"primaryKey"      json:"id"`
	Name        string `gorm:"unique;not null" json:"name"`
	Slug        string `gorm:"unique;not null" json:"slug"`
	Description string `json:"description"`
}

type Product struct {
	ID          uint    `gorm:"primaryKey"     json:"id"`
	Name        string  `gorm:"not null"       json:"name"`
	Description string  `json:"description"`
	CategoryID  uint    `gorm:"index;not null" json:"category_id"`
	NoOfReviews uint    `gorm:"default:0"      json:"no_of_reviews"`
	Slug        string  `gorm:"unique"         json:"slug"`
	HSN         string  `json:"hsn"`
	TaxRate     float64 `gorm:"default:0"      json:"tax_rate"`
	Sizes       []Size  `gorm:"foreignKey:ProductID" json:"sizes,omitempty"`
	Images      []Image `gorm:"foreignKey:ProductID" json:"images,omitempty"`
}

// Size is a sellable product variant. Stock is decremented at payment
// confirmation, not at order creation. Dimensions are in cm, weight in kg.
type Size struct {
	ID            uint    `gorm:"primaryKey"     json:"id"`
	ProductID     uint    `gorm:"index;not null" json:"product_id"`
	Name          string  `gorm:"not null"       json:"name"`
	Price         float64 `gorm:"not null"       json:"price"`
	DiscountPrice float64 `json:"discount_price"`
	Stock         int     `gorm:"not null;default:0" json:"stock"`
	Length        float64 `json:"length"`
	Width         float64 `json:"width"`
	Height        float64 `json:"height"`
	Weight        float64 `json:"weight"`
}

type Image struct {
	ID        uint   `gorm:"primaryKey"     json:"id"`
	ProductID uint   `gorm:"index;not null" json:"product_id"`
	URL       string `gorm:"not null"       json:"url"`
}

type Coupon struct {
	ID        uint      `gorm:"primaryKey"      json:"id"`
	Code      string    `gorm:"unique;not null" json:"code"`
	Discount  float64   `gorm:"not null"        json:"discount"`
	ExpiresAt time.Time `json:"expires_at"`
}

type Review struct {
	ID        uint   `gorm:"primaryKey"     json:"id"`
	ProductID uint   `gorm:"index;not null" json:"product_id"`
	UserID    uint   `gorm:"index;not null" json:"user_id"`
	Rating    int    `gorm:"not null"       json:"rating"`
	Comment   string `json:"comment"`
}

type Banner struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Title  string `json:"title"`
	URL    string `json:"url"`
	Active bool   `gorm:"default:true" json:"active"`
}

// Activity records where a user currently is in the cart/checkout funnel.
// One row per user, upserted on every step change.
type Activity struct {
	ID          uint      `gorm:"primaryKey"            json:"id"`
	UserID      uint      `gorm:"uniqueIndex;not null"  json:"user_id"`
	ProductIDs  string    `gorm:"type:text"             json:"product_ids"`
	CurrentStep string    `gorm:"not null"              json:"current_step"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Order is the checkout header. UniqueOrderID is the merchant order id shared
// with the payment gateway and the shipment carrier. StockAdjusted, together
// with DeliveryStatus and InvoiceLink, forms the fulfillment cursor that lets
// a repeated confirmation complete only the missing steps.
type Order struct {
	ID            uint    `gorm:"primaryKey"           json:"id"`
	UniqueOrderID string  `gorm:"uniqueIndex;not null" json:"unique_order_id"`
	UserID        uint    `gorm:"index;not null"       json:"user_id"`
	AddressID     uint    `gorm:"not null"             json:"address_id"`
	Subtotal      float64 `gorm:"not null"             json:"subtotal"`
	Tax           float64 `gorm:"not null"             json:"tax"`
	Shipping      float64 `gorm:"not null"             json:"shipping"`
	Discount      float64 `gorm:"not null"             json:"discount"`
	Total         float64 `gorm:"not null"             json:"total"`
	GrandTotal    float64 `gorm:"not null"             json:"grand_total"`
	PaymentMode   string  `gorm:"not null"             json:"payment_mode"`
	PaymentStatus string  `gorm:"not null;default:unpaid" json:"payment_status"`
	Status        string  `gorm:"not null;default:pending" json:"status"`
	DeliveryStatus string `json:"delivery_status"`
	TransactionID string  `json:"transaction_id"`
	InvoiceLink   string  `json:"invoice_link"`
	StockAdjusted bool    `gorm:"default:false"        json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Items []OrderProduct `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"products,omitempty"`
}

type OrderProduct struct {
	ID        uint    `gorm:"primaryKey"     json:"id"`
	OrderID   uint    `gorm:"index;not null" json:"order_id"`
	ProductID uint    `gorm:"not null"       json:"product_id"`
	SizeID    uint    `gorm:"not null"       json:"size_id"`
	Quantity  uint    `gorm:"not null;check:quantity>0" json:"quantity"`
	Discount  float64 `gorm:"default:0"      json:"discount"`
}
