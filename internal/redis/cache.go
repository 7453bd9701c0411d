package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheStore handles entity caching in Redis.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// UserTicketsCacheTTL is short because settlement flips ticket status.
const UserTicketsCacheTTL = 30 * time.Second

const userTicketsPrefix = "cache:tickets:user:"

// CachedTicket is the cached projection of a ticket. It carries every field
// the ticket responses expose, so a cache hit serves the same payload as a
// storage read.
type CachedTicket struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	FromStation    string    `json:"from_station"`
	ToStation      string    `json:"to_station"`
	JourneyDate    string    `json:"journey_date"`
	FareClass      string    `json:"fare_class"`
	PassengerClass string    `json:"passenger_class"`
	Validity       string    `json:"validity"`
	Fare           float64   `json:"fare"`
	Status         string    `json:"status"`
	PaymentRef     string    `json:"payment_ref,omitempty"`
	IssuedAt       time.Time `json:"issued_at"`
}

// GetUserTickets retrieves a user's ticket list from cache. A nil slice with
// nil error is a cache miss.
func (s *CacheStore) GetUserTickets(ctx context.Context, userID string) ([]CachedTicket, error) {
	key := userTicketsPrefix + userID
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var tickets []CachedTicket
	if err := json.Unmarshal(data, &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

// SetUserTickets stores a user's ticket list in cache.
func (s *CacheStore) SetUserTickets(ctx context.Context, userID string, tickets []CachedTicket) error {
	key := userTicketsPrefix + userID
	data, err := json.Marshal(tickets)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, UserTicketsCacheTTL).Err()
}

// InvalidateUserTickets removes a user's ticket list from cache. Called on
// booking; settlement updates are covered by the short TTL instead.
func (s *CacheStore) InvalidateUserTickets(ctx context.Context, userID string) error {
	key := userTicketsPrefix + userID
	return s.client.Del(ctx, key).Err()
}
