package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"ticketing/internal/domain"
	"ticketing/internal/middleware"
	"ticketing/internal/service"
)

// TicketHandler handles HTTP requests for tickets.
type TicketHandler struct {
	ticketService *service.TicketService
	gatewayKeyID  string
}

// NewTicketHandler creates a new TicketHandler. gatewayKeyID is returned to
// the client so its checkout widget can open against the right account.
func NewTicketHandler(ticketService *service.TicketService, gatewayKeyID string) *TicketHandler {
	return &TicketHandler{
		ticketService: ticketService,
		gatewayKeyID:  gatewayKeyID,
	}
}

// BookTicketRequest is the HTTP request body for booking a ticket.
type BookTicketRequest struct {
	UserID         string `json:"user_id"`
	FromStation    string `json:"from_station"`
	ToStation      string `json:"to_station"`
	JourneyDate    string `json:"journey_date"`
	FareClass      string `json:"class_value"`
	PassengerClass string `json:"adult_child_value"`
	Validity       string `json:"validity"`
}

// BookTicketResponse is the HTTP response for booking a ticket. The order
// fields feed the client-side checkout handoff.
type BookTicketResponse struct {
	TicketID string  `json:"ticket_id"`
	OrderID  string  `json:"order_id"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	KeyID    string  `json:"key_id"`
}

// TicketResponse is the HTTP representation of a ticket.
type TicketResponse struct {
	ID             string  `json:"id"`
	UserID         string  `json:"user_id"`
	FromStation    string  `json:"from_station"`
	ToStation      string  `json:"to_station"`
	JourneyDate    string  `json:"journey_date"`
	FareClass      string  `json:"class_value"`
	PassengerClass string  `json:"adult_child_value"`
	Validity       string  `json:"validity"`
	Fare           float64 `json:"fare_value"`
	Status         string  `json:"status"`
	PaymentRef     string  `json:"payment_id,omitempty"`
	IssuedAt       string  `json:"issued_at,omitempty"`
}

// BookTicket handles POST /v1/tickets
func (h *TicketHandler) BookTicket(c *gin.Context) {
	var req BookTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	resp, err := h.ticketService.Book(c.Request.Context(), service.BookTicketRequest{
		UserID:         req.UserID,
		FromStation:    req.FromStation,
		ToStation:      req.ToStation,
		JourneyDate:    req.JourneyDate,
		FareClass:      domain.FareClass(req.FareClass),
		PassengerClass: domain.PassengerClass(req.PassengerClass),
		Validity:       domain.TripValidity(req.Validity),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, BookTicketResponse{
		TicketID: resp.Ticket.ID,
		OrderID:  resp.Order.ID,
		Amount:   resp.Order.Amount,
		Currency: resp.Order.Currency,
		KeyID:    h.gatewayKeyID,
	})
}

// GetTicket handles GET /v1/tickets/:id
func (h *TicketHandler) GetTicket(c *gin.Context) {
	ticket, err := h.ticketService.GetTicket(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toTicketResponse(ticket))
}

// GetTickets handles GET /v1/tickets. The list is scoped to the token's
// phone claim when the token carries one; only staff tokens without a phone
// claim may list by arbitrary user_id.
func (h *TicketHandler) GetTickets(c *gin.Context) {
	userID := c.GetString(middleware.PhoneClaimKey)
	if userID == "" {
		userID = c.Query("user_id")
	}

	tickets, err := h.ticketService.TicketsByUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]TicketResponse, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, toTicketResponse(t))
	}

	respondJSON(c, http.StatusOK, out)
}

func toTicketResponse(t *domain.Ticket) TicketResponse {
	resp := TicketResponse{
		ID:             t.ID,
		UserID:         t.UserID,
		FromStation:    t.FromStation,
		ToStation:      t.ToStation,
		JourneyDate:    t.JourneyDate,
		FareClass:      string(t.FareClass),
		PassengerClass: string(t.PassengerClass),
		Validity:       string(t.Validity),
		Fare:           t.Fare,
		Status:         string(t.Status),
		PaymentRef:     t.PaymentRef,
	}
	if !t.IssuedAt.IsZero() {
		resp.IssuedAt = t.IssuedAt.Format(time.RFC3339)
	}
	return resp
}
