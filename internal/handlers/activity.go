package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/skdm/shopkart/internal/logging"
	"github.com/skdm/shopkart/internal/service"
	"github.com/skdm/shopkart/internal/transport"
	"github.com/skdm/shopkart/internal/util"
)

type ActivityHandler struct {
	Svc *service.ActivityService
}

func (h *ActivityHandler) Track(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "activity.track")

	var req transport.TrackActivityRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	created, err := h.Svc.Track(ctx, req)
	if err != nil {
		code := statusFor(err)
		l.Warn("track_activity_error", "status", code, "user_id", req.UserID, "error", err)
		return fail(c, code, err.Error())
	}

	code := http.StatusOK
	message := "activity updated"
	if created {
		code = http.StatusCreated
		message = "activity created"
	}
	return c.JSON(code, map[string]any{
		"success": true,
		"message": message,
		"user_id": req.UserID,
	})
}

func (h *ActivityHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	page := parseIntDefault(c.QueryParam("page"), 1)
	limit := parseIntDefault(c.QueryParam("limit"), util.DefaultPageSize)

	rows, meta, err := h.Svc.List(ctx, page, limit)
	if err != nil {
		return fail(c, statusFor(err), "failed to fetch activities")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success":       true,
		"data":          rows,
		"page":          meta.CurrentPage,
		"limit":         meta.Limit,
		"total_pages":   meta.TotalPages,
		"total_records": meta.TotalOrders,
	})
}
