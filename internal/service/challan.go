package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"ticketing/internal/domain"
	"ticketing/internal/repository"
)

// PaymentLinkNotifier delivers a payment link to a user. Implemented by the
// messaging collaborator.
type PaymentLinkNotifier interface {
	SendPaymentLink(ctx context.Context, phoneNumber, url string, amount float64) error
}

// ChallanService issues penalty notices and requests payment orders for them.
type ChallanService struct {
	challanRepo     repository.ChallanRepository
	paymentService  *PaymentService
	notifier        PaymentLinkNotifier
	checkoutBaseURL string
}

// NewChallanService creates a new ChallanService.
func NewChallanService(
	challanRepo repository.ChallanRepository,
	paymentService *PaymentService,
	notifier PaymentLinkNotifier,
	checkoutBaseURL string,
) *ChallanService {
	return &ChallanService{
		challanRepo:     challanRepo,
		paymentService:  paymentService,
		notifier:        notifier,
		checkoutBaseURL: checkoutBaseURL,
	}
}

// IssueChallanRequest contains the parameters for issuing a challan.
// TicketID is optional: a challan may target unidentified ticket use.
type IssueChallanRequest struct {
	UserID     string
	Reason     string
	FineAmount float64
	TicketID   string
}

// IssueChallanResponse reports issuance and notification outcomes
// independently: a failed dispatch leaves the challan issued and payable.
type IssueChallanResponse struct {
	Challan          *domain.Challan
	Order            *domain.PaymentOrder
	PaymentLink      string
	NotificationSent bool
	NotificationErr  error
}

// Issue creates the challan, mints a payment order for the fine and hands a
// payment link to the messaging collaborator.
func (s *ChallanService) Issue(ctx context.Context, req IssueChallanRequest) (*IssueChallanResponse, error) {
	if req.UserID == "" {
		return nil, ErrInvalidUserID
	}
	if req.Reason == "" {
		return nil, ErrInvalidReason
	}
	if req.FineAmount < 0 {
		return nil, ErrInvalidFineAmount
	}

	challan := &domain.Challan{
		ID:         uuid.New().String(),
		TicketID:   req.TicketID,
		UserID:     req.UserID,
		Reason:     req.Reason,
		FineAmount: req.FineAmount,
		Status:     domain.PaymentStatusPending,
		IssuedAt:   time.Now(),
	}

	if err := s.challanRepo.Create(ctx, challan); err != nil {
		return nil, err
	}

	// A zero fine is a formal notice with nothing to collect.
	if req.FineAmount == 0 {
		return &IssueChallanResponse{Challan: challan}, nil
	}

	order, err := s.paymentService.CreateOrder(ctx, CreateOrderRequest{
		Amount:     req.FineAmount,
		Currency:   "INR",
		EntityKind: domain.EntityChallan,
		EntityID:   challan.ID,
	})
	if err != nil {
		return nil, err
	}

	// A failed checkout-state transition is not fatal: the challan and its
	// order are already persisted, and settlement accepts a CREATED order,
	// so the fine stays payable through the link below.
	if err := s.paymentService.BeginCheckout(ctx, order.ID); err != nil {
		logrus.WithError(err).WithField("order_id", order.ID).
			Warn("challan order not marked awaiting callback")
	} else {
		order.Status = domain.OrderStatusAwaitingCallback
	}

	paymentLink := fmt.Sprintf("%s/pay?order_id=%s", s.checkoutBaseURL, order.ID)

	resp := &IssueChallanResponse{
		Challan:     challan,
		Order:       order,
		PaymentLink: paymentLink,
	}

	// Notification dispatch is independent of issuance: its failure is
	// reported back but the challan stays issued and payable.
	if s.notifier != nil {
		if err := s.notifier.SendPaymentLink(ctx, req.UserID, paymentLink, req.FineAmount); err != nil {
			logrus.WithError(err).WithField("challan_id", challan.ID).
				Warn("challan issued but payment link dispatch failed")
			resp.NotificationErr = fmt.Errorf("%w: %v", ErrNotificationFailed, err)
		} else {
			resp.NotificationSent = true
		}
	}

	logrus.WithFields(logrus.Fields{
		"challan_id": challan.ID,
		"order_id":   order.ID,
		"fine":       req.FineAmount,
	}).Info("challan issued")

	return resp, nil
}

// GetChallan retrieves a challan by ID.
func (s *ChallanService) GetChallan(ctx context.Context, challanID string) (*domain.Challan, error) {
	return s.challanRepo.GetByID(ctx, challanID)
}

// ChallansByUser retrieves the challans issued against a phone number.
func (s *ChallanService) ChallansByUser(ctx context.Context, userID string) ([]*domain.Challan, error) {
	if userID == "" {
		return nil, ErrInvalidUserID
	}
	return s.challanRepo.GetByUser(ctx, userID)
}
