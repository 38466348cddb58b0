package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"grievanceportal/backend/internal/models"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	categoryCountsKey = "grievance:counts:category"
	statusCountsKey   = "grievance:counts:status"
	revokedKeyPrefix  = "auth:revoked:"

	// EventsChannel carries complaint change events between server instances.
	EventsChannel = "grievance:events"
)

// CountComplaintsByCategory aggregates in the database and caches the result in Redis.
func (s *Service) CountComplaintsByCategory(ctx context.Context) ([]models.CategoryCount, error) {
	var counts []models.CategoryCount
	if s.readCache(ctx, categoryCountsKey, &counts) {
		return counts, nil
	}

	err := s.DB.WithContext(ctx).
		Model(&models.Complaint{}).
		Select("category_id, COUNT(*) AS count").
		Group("category_id").
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("count complaints by category: %w", err)
	}

	s.writeCache(ctx, categoryCountsKey, counts)
	return counts, nil
}

func (s *Service) CountComplaintsByStatus(ctx context.Context) ([]models.StatusCount, error) {
	var counts []models.StatusCount
	if s.readCache(ctx, statusCountsKey, &counts) {
		return counts, nil
	}

	err := s.DB.WithContext(ctx).
		Model(&models.Complaint{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("count complaints by status: %w", err)
	}

	s.writeCache(ctx, statusCountsKey, counts)
	return counts, nil
}

// InvalidateCounts drops cached aggregates after a complaint write.
func (s *Service) InvalidateCounts(ctx context.Context) error {
	if s.Redis == nil {
		return nil
	}
	return s.Redis.Del(ctx, categoryCountsKey, statusCountsKey).Err()
}

func (s *Service) readCache(ctx context.Context, key string, dst any) bool {
	if s.Redis == nil || s.CountsTTL <= 0 {
		return false
	}
	raw, err := s.Redis.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false
	}
	if err != nil {
		log.Printf("WARNING: Failed to read %s from Redis: %v", key, err)
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		log.Printf("WARNING: Discarding corrupt cache entry %s: %v", key, err)
		return false
	}
	return true
}

func (s *Service) writeCache(ctx context.Context, key string, value any) {
	if s.Redis == nil || s.CountsTTL <= 0 {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.Redis.Set(ctx, key, raw, s.CountsTTL).Err(); err != nil {
		log.Printf("WARNING: Failed to cache %s: %v", key, err)
	}
}

// RevokeToken marks a session token as logged out until its natural expiry.
func (s *Service) RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if s.Redis != nil {
		return s.Redis.Set(ctx, revokedKeyPrefix+tokenID, "1", ttl).Err()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[tokenID] = time.Now().Add(ttl)
	return nil
}

func (s *Service) IsTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	if s.Redis != nil {
		n, err := s.Redis.Exists(ctx, revokedKeyPrefix+tokenID).Result()
		if err != nil {
			return false, err
		}
		return n > 0, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	until, ok := s.revoked[tokenID]
	if !ok {
		return false, nil
	}
	if time.Now().After(until) {
		delete(s.revoked, tokenID)
		return false, nil
	}
	return true, nil
}

// PublishEvent sends an event to every instance subscribed to EventsChannel.
func (s *Service) PublishEvent(ctx context.Context, event models.Event) error {
	if s.Redis == nil {
		return ErrNoBroker
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return s.Redis.Publish(ctx, EventsChannel, payload).Err()
}

// SubscribeEvents streams decoded events from EventsChannel until ctx is cancelled.
func (s *Service) SubscribeEvents(ctx context.Context) (<-chan models.Event, error) {
	if s.Redis == nil {
		return nil, ErrNoBroker
	}
	pubsub := s.Redis.Subscribe(ctx, EventsChannel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("subscribe %s: %w", EventsChannel, err)
	}

	out := make(chan models.Event)
	go func() {
		defer close(out)
		defer pubsub.Close()

		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var event models.Event
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					log.Printf("Error unmarshalling Redis event: %v", err)
					continue
				}
				select {
				case out <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
