package tests

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"ticketing/internal/domain"
	"ticketing/internal/gateway"
	"ticketing/internal/redis"
	"ticketing/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK TICKET REPOSITORY
// ──────────────────────────────────────────────

// MockTicketRepository is a mock implementation of TicketRepository.
type MockTicketRepository struct {
	mu      sync.RWMutex
	tickets map[string]*domain.Ticket

	// Counters for verification
	CreateCallCount       int32
	UpdateStatusCallCount int32

	// Error injection
	CreateError       error
	UpdateStatusError error
}

// NewMockTicketRepository creates a new mock ticket repository.
func NewMockTicketRepository() *MockTicketRepository {
	return &MockTicketRepository{
		tickets: make(map[string]*domain.Ticket),
	}
}

// AddTicket adds a ticket to the mock repository.
func (m *MockTicketRepository) AddTicket(ticket *domain.Ticket) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tickets[ticket.ID] = ticket
}

func (m *MockTicketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tickets[ticket.ID] = ticket
	return nil
}

func (m *MockTicketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ticket, ok := m.tickets[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	// Return a copy to avoid mutation issues.
	copy := *ticket
	return &copy, nil
}

func (m *MockTicketRepository) GetByUser(ctx context.Context, userID string) ([]*domain.Ticket, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Ticket, 0)
	for _, t := range m.tickets {
		if t.UserID == userID {
			copy := *t
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockTicketRepository) UpdatePaymentStatus(ctx context.Context, id string, status domain.PaymentStatus, paymentRef string) error {
	atomic.AddInt32(&m.UpdateStatusCallCount, 1)
	if m.UpdateStatusError != nil {
		return m.UpdateStatusError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	ticket, ok := m.tickets[id]
	if !ok {
		return repository.ErrNotFound
	}
	ticket.Status = status
	ticket.PaymentRef = paymentRef
	return nil
}

// GetTicket returns ticket for test assertions.
func (m *MockTicketRepository) GetTicket(id string) *domain.Ticket {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tickets[id]
}

// CountTickets returns the number of tickets.
func (m *MockTicketRepository) CountTickets() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.tickets)
}

// ──────────────────────────────────────────────
// MOCK CHALLAN REPOSITORY
// ──────────────────────────────────────────────

// MockChallanRepository is a mock implementation of ChallanRepository.
type MockChallanRepository struct {
	mu       sync.RWMutex
	challans map[string]*domain.Challan

	// Counters
	CreateCallCount       int32
	UpdateStatusCallCount int32

	// Error injection
	CreateError       error
	UpdateStatusError error
}

// NewMockChallanRepository creates a new mock challan repository.
func NewMockChallanRepository() *MockChallanRepository {
	return &MockChallanRepository{
		challans: make(map[string]*domain.Challan),
	}
}

func (m *MockChallanRepository) Create(ctx context.Context, challan *domain.Challan) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.challans[challan.ID] = challan
	return nil
}

func (m *MockChallanRepository) GetByID(ctx context.Context, id string) (*domain.Challan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	challan, ok := m.challans[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *challan
	return &copy, nil
}

func (m *MockChallanRepository) GetByUser(ctx context.Context, userID string) ([]*domain.Challan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Challan, 0)
	for _, c := range m.challans {
		if c.UserID == userID {
			copy := *c
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockChallanRepository) UpdatePaymentStatus(ctx context.Context, id string, status domain.PaymentStatus, paymentRef string) error {
	atomic.AddInt32(&m.UpdateStatusCallCount, 1)
	if m.UpdateStatusError != nil {
		return m.UpdateStatusError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	challan, ok := m.challans[id]
	if !ok {
		return repository.ErrNotFound
	}
	challan.Status = status
	challan.PaymentRef = paymentRef
	return nil
}

// GetChallan returns challan for test assertions.
func (m *MockChallanRepository) GetChallan(id string) *domain.Challan {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.challans[id]
}

// CountChallans returns the number of challans.
func (m *MockChallanRepository) CountChallans() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.challans)
}

// ──────────────────────────────────────────────
// MOCK ORDER REPOSITORY
// ──────────────────────────────────────────────

// MockOrderRepository is a mock implementation of OrderRepository. The
// conditional transitions mirror the SQL: SettleVerified and MarkFailed
// succeed only from a non-terminal state, under one mutex, so they behave
// like the compare-and-set the database provides.
type MockOrderRepository struct {
	mu     sync.Mutex
	orders map[string]*domain.PaymentOrder

	// Counters
	CreateCallCount        int32
	SettleVerifiedCount    int32
	MarkFailedCount        int32
	MarkAwaitingCallbCount int32

	// Error injection
	CreateError         error
	MarkAwaitingError   error
	SettleVerifiedError error
	MarkFailedError     error
}

// NewMockOrderRepository creates a new mock order repository.
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[string]*domain.PaymentOrder),
	}
}

// AddOrder adds an order to the mock repository.
func (m *MockOrderRepository) AddOrder(order *domain.PaymentOrder) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[order.ID] = order
}

func (m *MockOrderRepository) Create(ctx context.Context, order *domain.PaymentOrder) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[order.ID] = order
	return nil
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id string) (*domain.PaymentOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *order
	return &copy, nil
}

func (m *MockOrderRepository) MarkAwaitingCallback(ctx context.Context, id string) error {
	atomic.AddInt32(&m.MarkAwaitingCallbCount, 1)
	if m.MarkAwaitingError != nil {
		return m.MarkAwaitingError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.orders[id]
	if !ok {
		return repository.ErrNotFound
	}
	order.Status = domain.OrderStatusAwaitingCallback
	return nil
}

func (m *MockOrderRepository) SettleVerified(ctx context.Context, id, paymentID string) (bool, error) {
	atomic.AddInt32(&m.SettleVerifiedCount, 1)
	if m.SettleVerifiedError != nil {
		return false, m.SettleVerifiedError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.orders[id]
	if !ok {
		return false, nil
	}
	if order.Status == domain.OrderStatusVerified || order.Status == domain.OrderStatusFailed {
		return false, nil
	}
	order.Status = domain.OrderStatusVerified
	order.PaymentID = paymentID
	return true, nil
}

func (m *MockOrderRepository) MarkFailed(ctx context.Context, id string) (bool, error) {
	atomic.AddInt32(&m.MarkFailedCount, 1)
	if m.MarkFailedError != nil {
		return false, m.MarkFailedError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.orders[id]
	if !ok {
		return false, nil
	}
	if order.Status == domain.OrderStatusVerified || order.Status == domain.OrderStatusFailed {
		return false, nil
	}
	order.Status = domain.OrderStatusFailed
	return true, nil
}

// GetOrder returns order for test assertions.
func (m *MockOrderRepository) GetOrder(id string) *domain.PaymentOrder {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.orders[id]
}

// CountOrders returns the number of orders.
func (m *MockOrderRepository) CountOrders() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.orders)
}

// ──────────────────────────────────────────────
// MOCK SETTLEMENT STORE
// ──────────────────────────────────────────────

// MockSettlementStore applies settlements against the mock repositories the
// way the transactional store applies them against SQL: the conditional
// order transition decides, then the linked entity flips to PAID.
type MockSettlementStore struct {
	Orders   *MockOrderRepository
	Tickets  *MockTicketRepository
	Challans *MockChallanRepository

	// Counters
	SettleCallCount int32

	// Error injection
	SettleError error
}

// NewMockSettlementStore creates a settlement store over mock repositories.
func NewMockSettlementStore(orders *MockOrderRepository, tickets *MockTicketRepository, challans *MockChallanRepository) *MockSettlementStore {
	return &MockSettlementStore{
		Orders:   orders,
		Tickets:  tickets,
		Challans: challans,
	}
}

func (m *MockSettlementStore) Settle(ctx context.Context, order *domain.PaymentOrder, paymentID string) (bool, error) {
	atomic.AddInt32(&m.SettleCallCount, 1)
	if m.SettleError != nil {
		return false, m.SettleError
	}

	updated, err := m.Orders.SettleVerified(ctx, order.ID, paymentID)
	if err != nil || !updated {
		return false, err
	}

	switch order.EntityKind {
	case domain.EntityTicket:
		err = m.Tickets.UpdatePaymentStatus(ctx, order.EntityID, domain.PaymentStatusPaid, paymentID)
	case domain.EntityChallan:
		err = m.Challans.UpdatePaymentStatus(ctx, order.EntityID, domain.PaymentStatusPaid, paymentID)
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ──────────────────────────────────────────────
// MOCK GATEWAY
// ──────────────────────────────────────────────

// MockGateway is a mock payment gateway. It signs and verifies with the same
// HMAC scheme the real client uses, so tests exercise real signature checks.
type MockGateway struct {
	mu     sync.Mutex
	secret string
	seq    int32

	// Counters
	CreateOrderCallCount int32
	VerifyCallCount      int32

	// Error injection
	CreateOrderError error
}

// NewMockGateway creates a mock gateway with a signing secret.
func NewMockGateway(secret string) *MockGateway {
	return &MockGateway{secret: secret}
}

func (m *MockGateway) CreateOrder(ctx context.Context, amount float64, currency, receipt string) (string, error) {
	atomic.AddInt32(&m.CreateOrderCallCount, 1)
	if m.CreateOrderError != nil {
		return "", m.CreateOrderError
	}
	n := atomic.AddInt32(&m.seq, 1)
	return fmt.Sprintf("order_mock_%d", n), nil
}

func (m *MockGateway) VerifySignature(orderID, paymentID, signature string) bool {
	atomic.AddInt32(&m.VerifyCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	return signature == gateway.SignPayload(orderID, paymentID, m.secret)
}

// Sign produces a valid callback signature for an order/payment pair.
func (m *MockGateway) Sign(orderID, paymentID string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return gateway.SignPayload(orderID, paymentID, m.secret)
}

// ──────────────────────────────────────────────
// MOCK LOCK STORE
// ──────────────────────────────────────────────

// MockLockStore is a mock implementation of LockStoreInterface.
type MockLockStore struct {
	mu    sync.Mutex
	locks map[string]time.Time

	// Counters
	AcquireCallCount int32
	ReleaseCallCount int32

	// Error injection
	AcquireError error

	// Force lock failure
	ForceAcquireFailure bool
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{
		locks: make(map[string]time.Time),
	}
}

func (m *MockLockStore) AcquireOrderLock(ctx context.Context, orderID string, ttl time.Duration) (bool, error) {
	atomic.AddInt32(&m.AcquireCallCount, 1)
	if m.AcquireError != nil {
		return false, m.AcquireError
	}
	if m.ForceAcquireFailure {
		return false, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	key := "lock:order:" + orderID
	if expiry, exists := m.locks[key]; exists {
		if time.Now().Before(expiry) {
			return false, nil // Lock still held.
		}
	}

	m.locks[key] = time.Now().Add(ttl)
	return true, nil
}

func (m *MockLockStore) ReleaseOrderLock(ctx context.Context, orderID string) error {
	atomic.AddInt32(&m.ReleaseCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, "lock:order:"+orderID)
	return nil
}

// IsLocked checks if an order is locked (for test assertions).
func (m *MockLockStore) IsLocked(orderID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	expiry, exists := m.locks["lock:order:"+orderID]
	return exists && time.Now().Before(expiry)
}

// ──────────────────────────────────────────────
// MOCK CACHE STORE
// ──────────────────────────────────────────────

// MockCacheStore is a mock implementation of CacheStoreInterface.
type MockCacheStore struct {
	mu      sync.RWMutex
	entries map[string][]redis.CachedTicket

	// Counters
	GetCallCount        int32
	SetCallCount        int32
	InvalidateCallCount int32
}

// NewMockCacheStore creates a new mock cache store.
func NewMockCacheStore() *MockCacheStore {
	return &MockCacheStore{
		entries: make(map[string][]redis.CachedTicket),
	}
}

func (m *MockCacheStore) GetUserTickets(ctx context.Context, userID string) ([]redis.CachedTicket, error) {
	atomic.AddInt32(&m.GetCallCount, 1)
	m.mu.RLock()
	defer m.mu.RUnlock()
	tickets, ok := m.entries[userID]
	if !ok {
		return nil, nil // Cache miss
	}
	return tickets, nil
}

func (m *MockCacheStore) SetUserTickets(ctx context.Context, userID string, tickets []redis.CachedTicket) error {
	atomic.AddInt32(&m.SetCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[userID] = tickets
	return nil
}

func (m *MockCacheStore) InvalidateUserTickets(ctx context.Context, userID string) error {
	atomic.AddInt32(&m.InvalidateCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, userID)
	return nil
}

// HasEntry checks if a user's list is cached (for test assertions).
func (m *MockCacheStore) HasEntry(userID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.entries[userID]
	return ok
}

// ──────────────────────────────────────────────
// MOCK NOTIFIER
// ──────────────────────────────────────────────

// SentLink records one payment-link dispatch.
type SentLink struct {
	Phone  string
	URL    string
	Amount float64
}

// MockNotifier is a mock implementation of PaymentLinkNotifier.
type MockNotifier struct {
	mu   sync.Mutex
	sent []SentLink

	// Counters
	SendCallCount int32

	// Error injection
	SendError error
}

// NewMockNotifier creates a new mock notifier.
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

func (m *MockNotifier) SendPaymentLink(ctx context.Context, phone, url string, amount float64) error {
	atomic.AddInt32(&m.SendCallCount, 1)
	if m.SendError != nil {
		return m.SendError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, SentLink{Phone: phone, URL: url, Amount: amount})
	return nil
}

// Sent returns the recorded dispatches.
func (m *MockNotifier) Sent() []SentLink {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SentLink, len(m.sent))
	copy(out, m.sent)
	return out
}

// ──────────────────────────────────────────────
// HELPER ERRORS
// ──────────────────────────────────────────────

var (
	ErrMockDBConstraint = errors.New("mock: unique constraint violation")
	ErrMockTimeout      = errors.New("mock: operation timeout")
)
