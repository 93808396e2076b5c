package transport

import "github.com/skdm/shopkart/internal/models"

type CreateOrderItem struct {
	ProductID uint    `json:"productId" validate:"required"`
	SizeID    uint    `json:"sizeId"    validate:"required"`
	Quantity  uint    `json:"quantity"  validate:"required,gt=0"`
	Discount  float64 `json:"discount"  validate:"gte=0"`
}

type CreateOrderRequest struct {
	AddressID   uint              `json:"addressId"   validate:"required"`
	PaymentMode string            `json:"paymentMode" validate:"required"`
	Subtotal    float64           `json:"subtotal"    validate:"gte=0"`
	Tax         float64           `json:"tax"         validate:"gte=0"`
	Total       float64           `json:"total"       validate:"gte=0"`
	Shipping    float64           `json:"shipping"    validate:"gte=0"`
	Discount    float64           `json:"discount"    validate:"gte=0"`
	GrandTotal  float64           `json:"grand_total" validate:"required,gt=0"`
	Products    []CreateOrderItem `json:"products"    validate:"required,min=1,dive"`
}

type CreateOrderResponse struct {
	Success         bool   `json:"success"`
	RedirectURL     string `json:"redirectUrl"`
	MerchantOrderID string `json:"merchantOrderId"`
}

// ConfirmResult tells the storefront where to send the payer next.
type ConfirmResult struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	NavigateTo string `json:"navigate_to"`
}

type Pagination struct {
	TotalOrders int64 `json:"totalOrders"`
	TotalPages  int   `json:"totalPages"`
	CurrentPage int   `json:"currentPage"`
	Limit       int   `json:"limit"`
}

type OrderListResponse struct {
	Success    bool           `json:"success"`
	Orders     []models.Order `json:"orders"`
	Pagination Pagination     `json:"pagination"`
}

type TrackActivityRequest struct {
	UserID      uint   `json:"user_id"     validate:"required"`
	ProductIDs  []uint `json:"product_ids" validate:"required,min=1"`
	CurrentStep string `json:"current_step" validate:"required"`
}
