package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ticketing/internal/domain"
	"ticketing/internal/middleware"
	"ticketing/internal/service"
)

// ChallanHandler handles HTTP requests for challans.
type ChallanHandler struct {
	challanService *service.ChallanService
}

// NewChallanHandler creates a new ChallanHandler.
func NewChallanHandler(challanService *service.ChallanService) *ChallanHandler {
	return &ChallanHandler{challanService: challanService}
}

// IssueChallanRequest is the HTTP request body for issuing a challan.
type IssueChallanRequest struct {
	UserID     string  `json:"user_id"`
	Reason     string  `json:"reason"`
	FineAmount float64 `json:"fine_amount"`
	TicketID   string  `json:"ticket_id,omitempty"`
}

// IssueChallanResponse is the HTTP response for issuing a challan.
// NotificationSent is reported independently of issuance: false with a 201
// means the challan exists and is payable but the link was not delivered.
type IssueChallanResponse struct {
	ChallanID        string  `json:"challan_id"`
	OrderID          string  `json:"order_id,omitempty"`
	PaymentLink      string  `json:"payment_link,omitempty"`
	Amount           float64 `json:"amount"`
	Currency         string  `json:"currency"`
	NotificationSent bool    `json:"notification_sent"`
}

// ChallanResponse is the HTTP representation of a challan.
type ChallanResponse struct {
	ID         string  `json:"id"`
	TicketID   string  `json:"ticket_id,omitempty"`
	UserID     string  `json:"user_id"`
	Reason     string  `json:"reason"`
	FineAmount float64 `json:"fine_amount"`
	Status     string  `json:"status"`
	PaymentRef string  `json:"payment_id,omitempty"`
}

// IssueChallan handles POST /v1/challans
func (h *ChallanHandler) IssueChallan(c *gin.Context) {
	var req IssueChallanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	resp, err := h.challanService.Issue(c.Request.Context(), service.IssueChallanRequest{
		UserID:     req.UserID,
		Reason:     req.Reason,
		FineAmount: req.FineAmount,
		TicketID:   req.TicketID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	out := IssueChallanResponse{
		ChallanID:        resp.Challan.ID,
		PaymentLink:      resp.PaymentLink,
		Amount:           resp.Challan.FineAmount,
		Currency:         "INR",
		NotificationSent: resp.NotificationSent,
	}
	if resp.Order != nil {
		out.OrderID = resp.Order.ID
	}

	respondJSON(c, http.StatusCreated, out)
}

// GetChallan handles GET /v1/challans/:id
func (h *ChallanHandler) GetChallan(c *gin.Context) {
	challan, err := h.challanService.GetChallan(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toChallanResponse(challan))
}

// GetChallans handles GET /v1/challans. Scoped like the ticket list: the
// token's phone claim wins over the user_id query parameter.
func (h *ChallanHandler) GetChallans(c *gin.Context) {
	userID := c.GetString(middleware.PhoneClaimKey)
	if userID == "" {
		userID = c.Query("user_id")
	}

	challans, err := h.challanService.ChallansByUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]ChallanResponse, 0, len(challans))
	for _, ch := range challans {
		out = append(out, toChallanResponse(ch))
	}

	respondJSON(c, http.StatusOK, out)
}

func toChallanResponse(challan *domain.Challan) ChallanResponse {
	return ChallanResponse{
		ID:         challan.ID,
		TicketID:   challan.TicketID,
		UserID:     challan.UserID,
		Reason:     challan.Reason,
		FineAmount: challan.FineAmount,
		Status:     string(challan.Status),
		PaymentRef: challan.PaymentRef,
	}
}
