package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ticketing/internal/service"
)

// PaymentHandler handles gateway callbacks and order reads.
type PaymentHandler struct {
	paymentService *service.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// VerifyPaymentRequest carries the gateway's callback parameters, named as
// the gateway names them.
type VerifyPaymentRequest struct {
	PaymentID string `json:"razorpay_payment_id"`
	OrderID   string `json:"razorpay_order_id"`
	Signature string `json:"razorpay_signature"`
}

// VerifyPaymentResponse is the HTTP response for a verified callback.
type VerifyPaymentResponse struct {
	OrderID        string `json:"order_id"`
	PaymentID      string `json:"payment_id"`
	Status         string `json:"status"`
	AlreadySettled bool   `json:"already_settled"`
}

// OrderResponse is the HTTP representation of a payment order.
type OrderResponse struct {
	ID         string  `json:"id"`
	Amount     float64 `json:"amount"`
	Currency   string  `json:"currency"`
	EntityKind string  `json:"entity_kind"`
	EntityID   string  `json:"entity_id"`
	Status     string  `json:"status"`
	PaymentID  string  `json:"payment_id,omitempty"`
}

// VerifyPayment handles POST /v1/payments/verify, the return-URL
// verification call the checkout page makes after payment.
func (h *PaymentHandler) VerifyPayment(c *gin.Context) {
	var req VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	h.handleCallback(c, req.PaymentID, req.OrderID, req.Signature)
}

// PaymentReturn handles GET /v1/payments/return, the same callback delivered
// as return-URL query parameters.
func (h *PaymentHandler) PaymentReturn(c *gin.Context) {
	h.handleCallback(c,
		c.Query("razorpay_payment_id"),
		c.Query("razorpay_order_id"),
		c.Query("razorpay_signature"),
	)
}

func (h *PaymentHandler) handleCallback(c *gin.Context, paymentID, orderID, signature string) {
	result, err := h.paymentService.HandleCallback(c.Request.Context(), paymentID, orderID, signature)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, VerifyPaymentResponse{
		OrderID:        result.Order.ID,
		PaymentID:      result.Order.PaymentID,
		Status:         string(result.Order.Status),
		AlreadySettled: result.AlreadySettled,
	})
}

// GetOrder handles GET /v1/payments/orders/:id
func (h *PaymentHandler) GetOrder(c *gin.Context) {
	order, err := h.paymentService.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, OrderResponse{
		ID:         order.ID,
		Amount:     order.Amount,
		Currency:   order.Currency,
		EntityKind: string(order.EntityKind),
		EntityID:   order.EntityID,
		Status:     string(order.Status),
		PaymentID:  order.PaymentID,
	})
}
