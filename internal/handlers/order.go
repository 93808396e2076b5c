package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/skdm/shopkart/internal/logging"
	"github.com/skdm/shopkart/internal/middleware/auth"
	"github.com/skdm/shopkart/internal/models"
	"github.com/skdm/shopkart/internal/repository"
	"github.com/skdm/shopkart/internal/service"
	"github.com/skdm/shopkart/internal/transport"
	"github.com/skdm/shopkart/internal/util"
)

type OrderHandler struct {
	Svc *service.CheckoutService

	// PublicBaseURL absolutizes persisted invoice filenames in responses.
	PublicBaseURL string
}

func (h *OrderHandler) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create")

	userID, ok := auth.UserID(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "authentication failed: user id not found")
	}

	var req transport.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_order_error", "status", 400, "reason", "invalid body", "error", err)
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	resp, err := h.Svc.CreateOrder(ctx, userID, req)
	if err != nil {
		code := statusFor(err)
		l.Warn("create_order_error", "status", code, "error", err)
		return fail(c, code, "failed to create order")
	}

	l.Info("create_order_success", "merchant_order_id", resp.MerchantOrderID)
	return c.JSON(http.StatusOK, resp)
}

// Status is the gateway redirect/poll target. It is public: the settlement
// state comes from the gateway, never from the caller.
func (h *OrderHandler) Status(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.status")

	orderID := c.Param("orderId")

	res, err := h.Svc.ConfirmPayment(ctx, orderID)
	if err != nil {
		code := statusFor(err)
		l.Error("confirm_payment_error", "status", code, "order_id", orderID, "error", err)
		if res != nil {
			// Payment settled but a later step failed; report without
			// implying the charge should be retried.
			return c.JSON(code, res)
		}
		return fail(c, code, "failed to confirm payment")
	}

	l.Info("confirm_payment_done", "order_id", orderID, "success", res.Success)
	return c.JSON(http.StatusOK, res)
}

func (h *OrderHandler) CreateShipment(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create_shipment")

	var req struct {
		OrderID string `json:"orderId"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	if err := h.Svc.CreateShipment(ctx, req.OrderID); err != nil {
		code := statusFor(err)
		l.Warn("create_shipment_error", "status", code, "order_id", req.OrderID, "error", err)
		return fail(c, code, err.Error())
	}

	l.Info("create_shipment_success", "order_id", req.OrderID)
	return c.JSON(http.StatusOK, map[string]any{"success": true, "message": "shipment created"})
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()

	ord, err := h.Svc.GetOrder(ctx, c.Param("id"))
	if err != nil {
		return fail(c, statusFor(err), "failed to fetch order")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"order":   h.withInvoiceURL(*ord),
	})
}

func (h *OrderHandler) GetUserOrders(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := strconv.Atoi(c.Param("userId"))
	if err != nil || userID <= 0 {
		return fail(c, http.StatusBadRequest, "invalid user id")
	}

	page := parseIntDefault(c.QueryParam("page"), 1)
	limit := parseIntDefault(c.QueryParam("limit"), util.DefaultPageSize)

	orders, meta, err := h.Svc.ListUserOrders(ctx, uint(userID), page, limit)
	if err != nil {
		return fail(c, statusFor(err), "failed to fetch orders")
	}
	return c.JSON(http.StatusOK, h.listResponse(orders, meta))
}

func (h *OrderHandler) GetAllOrders(c echo.Context) error {
	ctx := c.Request().Context()

	page := parseIntDefault(c.QueryParam("page"), 1)
	limit := parseIntDefault(c.QueryParam("limit"), util.DefaultPageSize)

	orders, meta, err := h.Svc.ListOrders(ctx, page, limit)
	if err != nil {
		return fail(c, statusFor(err), "failed to fetch orders")
	}
	return c.JSON(http.StatusOK, h.listResponse(orders, meta))
}

func (h *OrderHandler) UpdateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.update")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return fail(c, http.StatusBadRequest, "invalid order id")
	}

	var patch repository.OrderPatch
	if err := c.Bind(&patch); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	if err := h.Svc.AdminUpdateOrder(ctx, uint(id), patch); err != nil {
		code := statusFor(err)
		if errors.Is(err, service.ErrValidation) {
			return fail(c, code, "no fields provided for update")
		}
		l.Warn("update_order_error", "status", code, "order_id", id, "error", err)
		return fail(c, code, "failed to update order")
	}

	return c.JSON(http.StatusOK, map[string]any{"success": true, "message": "order updated"})
}

func (h *OrderHandler) listResponse(orders []models.Order, meta transport.Pagination) transport.OrderListResponse {
	for i := range orders {
		orders[i] = h.withInvoiceURL(orders[i])
	}
	return transport.OrderListResponse{Success: true, Orders: orders, Pagination: meta}
}

func (h *OrderHandler) withInvoiceURL(ord models.Order) models.Order {
	if ord.InvoiceLink != "" {
		ord.InvoiceLink = h.PublicBaseURL + "/invoices/" + ord.InvoiceLink
	}
	return ord
}
