package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vmhuong/dacsan_shop/internal/logging"
	"github.com/vmhuong/dacsan_shop/internal/models"
	"github.com/vmhuong/dacsan_shop/internal/mykafka"
	"github.com/vmhuong/dacsan_shop/internal/orders"
	"github.com/vmhuong/dacsan_shop/internal/util"
)

type OrderHandler struct {
	Engine   *orders.Engine
	Query    *orders.Query
	Producer *mykafka.Producer
}

type createOrderRequest struct {
	Items []struct {
		ProductID uint `json:"product_id"`
		Quantity  int  `json:"quantity"`
	} `json:"items"`
	ShippingAddress models.ShippingAddress `json:"shipping_address"`
	PaymentMethod   string                 `json:"payment_method"`
}

func currentUser(c echo.Context) (uint, string, error) {
	userID, ok := c.Get("userID").(uint)
	if !ok || userID == 0 {
		return 0, "", echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	role, _ := c.Get("role").(string)
	return userID, role, nil
}

// orderError translates the order taxonomy into HTTP responses. Business
// failures carry their own message; unexpected store errors are logged and
// surfaced generically.
func orderError(c echo.Context, err error) error {
	var (
		notFound      *orders.ProductNotFoundError
		noStock       *orders.InsufficientStockError
		badTransition *orders.InvalidTransitionError
	)
	switch {
	case errors.Is(err, orders.ErrValidation):
		return errorResponse(c, http.StatusBadRequest, err.Error())
	case errors.As(err, &notFound):
		return errorResponse(c, http.StatusNotFound, err.Error())
	case errors.As(err, &noStock):
		return errorResponse(c, http.StatusConflict, err.Error())
	case errors.As(err, &badTransition):
		return errorResponse(c, http.StatusConflict, err.Error())
	case errors.Is(err, orders.ErrNotFound):
		return errorResponse(c, http.StatusNotFound, "order not found")
	case errors.Is(err, orders.ErrForbidden):
		return errorResponse(c, http.StatusForbidden, "you do not own this order")
	default:
		logging.FromContext(c.Request().Context()).Error("order_store_error", "error", err)
		return errorResponse(c, http.StatusInternalServerError, "internal error")
	}
}

func (h *OrderHandler) publish(c echo.Context, order *models.Order, eventType string) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	event := map[string]interface{}{
		"type":    eventType,
		"orderID": order.ID,
		"code":    order.Code,
		"userID":  order.UserID,
		"status":  order.Status,
		"total":   order.Total,
	}
	if err := h.Producer.PublishEvent(ctx, mykafka.TopicOrderEvents, order.Code, event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

func (h *OrderHandler) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create_order")

	userID, _, err := currentUser(c)
	if err != nil {
		return err
	}

	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_order_error", "status", 400, "reason", "invalid body", "error", err)
		return errorResponse(c, http.StatusBadRequest, "invalid body")
	}

	cmd := orders.CreateOrderCommand{
		UserID:          userID,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
	}
	for _, it := range req.Items {
		cmd.Items = append(cmd.Items, orders.CreateOrderItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	order, err := h.Engine.CreateOrder(ctx, cmd)
	if err != nil {
		l.Warn("create_order_error", "error", err)
		return orderError(c, err)
	}

	l.Info("create_order_success", "orderID", order.ID, "total", order.Total)
	h.publish(c, order, "order_created")
	return successResponse(c, http.StatusCreated, "Order created successfully", order)
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	userID, role, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, "invalid id")
	}

	order, err := h.Query.GetOrder(c.Request().Context(), uint(id))
	if err != nil {
		return orderError(c, err)
	}
	if order.UserID != userID && role != "admin" {
		return errorResponse(c, http.StatusForbidden, "you do not own this order")
	}
	return successResponse(c, http.StatusOK, "Order retrieved successfully", order)
}

func (h *OrderHandler) GetUserOrders(c echo.Context) error {
	userID, role, err := currentUser(c)
	if err != nil {
		return err
	}
	target, err := strconv.Atoi(c.Param("userId"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, "invalid user id")
	}
	if uint(target) != userID && role != "admin" {
		return errorResponse(c, http.StatusForbidden, "you can only list your own orders")
	}

	filter := orders.ListFilter{UserID: uint(target)}
	if s := c.QueryParam("status"); s != "" {
		status, err := orders.ParseStatus(s)
		if err != nil {
			return orderError(c, err)
		}
		filter.Status = status
	}

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("limit"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	list, total, err := h.Query.ListOrders(c.Request().Context(), filter, offset, limit)
	if err != nil {
		return orderError(c, err)
	}
	return pagedResponse(c, "Orders retrieved successfully", list, Meta{Total: total, Page: page, Limit: limit})
}

func (h *OrderHandler) CancelOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.cancel_order")

	userID, role, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, "invalid id")
	}

	order, err := h.Engine.CancelOrder(ctx, uint(id), userID, role == "admin")
	if err != nil {
		l.Warn("cancel_order_error", "orderID", id, "error", err)
		return orderError(c, err)
	}

	l.Info("cancel_order_success", "orderID", order.ID)
	h.publish(c, order, "order_cancelled")
	return successResponse(c, http.StatusOK, "Order cancelled successfully", order)
}

func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.update_status")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, "invalid id")
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, "invalid body")
	}
	status, err := orders.ParseStatus(req.Status)
	if err != nil {
		return orderError(c, err)
	}

	order, err := h.Engine.UpdateStatus(ctx, uint(id), status)
	if err != nil {
		l.Warn("update_status_error", "orderID", id, "status", status, "error", err)
		return orderError(c, err)
	}

	l.Info("update_status_success", "orderID", order.ID, "status", order.Status)
	h.publish(c, order, "order_status_updated")
	return successResponse(c, http.StatusOK, "Order status updated successfully", order)
}

// ListOrders is the admin view over every order.
func (h *OrderHandler) ListOrders(c echo.Context) error {
	filter := orders.ListFilter{}
	if s := c.QueryParam("status"); s != "" {
		status, err := orders.ParseStatus(s)
		if err != nil {
			return orderError(c, err)
		}
		filter.Status = status
	}

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("limit"), 20)
	offset, limit := util.Calculate(page, size)

	list, total, err := h.Query.ListOrders(c.Request().Context(), filter, offset, limit)
	if err != nil {
		return orderError(c, err)
	}
	return pagedResponse(c, "All orders retrieved successfully", list, Meta{Total: total, Page: page, Limit: limit})
}
