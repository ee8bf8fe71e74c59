package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sibstore/storefront/internal/domain/entities"
	"github.com/sibstore/storefront/internal/infrastructure/config"
	"github.com/sibstore/storefront/internal/infrastructure/logger"
)

func newSession(id string, expiresAt time.Time) *entities.Session {
	return &entities.Session{
		ID:        id,
		AdminID:   uuid.New(),
		Username:  "owner",
		IP:        "127.0.0.1",
		CreatedAt: expiresAt.Add(-time.Hour),
		ExpiresAt: expiresAt,
	}
}

func TestMemoryStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	sess := newSession("abc", time.Now().Add(time.Hour))
	if err := store.Create(ctx, sess); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	got, err := store.Get(ctx, "abc")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got.AdminID != sess.AdminID || got.Username != "owner" {
		t.Errorf("Get() = %+v, want %+v", got, sess)
	}

	// Mutating the returned copy must not leak into the store.
	got.Username = "mallory"
	again, _ := store.Get(ctx, "abc")
	if again.Username != "owner" {
		t.Errorf("stored session was mutated through Get() result")
	}

	if err := store.Delete(ctx, "abc"); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, err := store.Get(ctx, "abc"); !errors.Is(err, entities.ErrSessionNotFound) {
		t.Errorf("Get() after Delete() error = %v, want ErrSessionNotFound", err)
	}
	if err := store.Delete(ctx, "abc"); err != nil {
		t.Errorf("Delete() of missing session error: %v", err)
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore()
	store.now = func() time.Time { return now }

	store.Create(ctx, newSession("live", now.Add(time.Minute)))
	store.Create(ctx, newSession("edge", now))
	store.Create(ctx, newSession("dead", now.Add(-time.Minute)))

	if _, err := store.Get(ctx, "live"); err != nil {
		t.Errorf("Get(live) error: %v", err)
	}
	if _, err := store.Get(ctx, "edge"); !errors.Is(err, entities.ErrSessionNotFound) {
		t.Errorf("Get(edge) error = %v, want ErrSessionNotFound", err)
	}
	if store.Len() != 2 {
		t.Errorf("Len() after lazy expiry = %d, want 2", store.Len())
	}

	if removed := store.Sweep(); removed != 1 {
		t.Errorf("Sweep() removed %d, want 1", removed)
	}
	if store.Len() != 1 {
		t.Errorf("Len() after Sweep() = %d, want 1", store.Len())
	}
}

func TestMemoryStoreConcurrent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	expires := time.Now().Add(time.Hour)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("s-%d", i)
			store.Create(ctx, newSession(id, expires))
			if _, err := store.Get(ctx, id); err != nil {
				t.Errorf("Get(%s) error: %v", id, err)
			}
			if i%2 == 0 {
				store.Delete(ctx, id)
			}
		}(i)
	}
	wg.Wait()

	if store.Len() != 25 {
		t.Errorf("Len() = %d, want 25", store.Len())
	}
}

func TestNewFallsBackToMemory(t *testing.T) {
	ctx := context.Background()

	store := New(ctx, config.RedisConfig{}, logger.NewNop())
	if _, ok := store.(*MemoryStore); !ok {
		t.Errorf("New() without host = %T, want *MemoryStore", store)
	}

	// Nothing listens on port 1.
	store = New(ctx, config.RedisConfig{Host: "127.0.0.1", Port: 1}, logger.NewNop())
	if _, ok := store.(*MemoryStore); !ok {
		t.Errorf("New() with unreachable redis = %T, want *MemoryStore", store)
	}
}

func TestRedisStoreKey(t *testing.T) {
	tests := []struct {
		prefix string
		want   string
	}{
		{"storefront:session:", "storefront:session:abc"},
		{"shop:", "shop:abc"},
		{"", "abc"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			store := NewRedisStore(nil, tt.prefix)
			if got := store.key("abc"); got != tt.want {
				t.Errorf("key() = %q, want %q", got, tt.want)
			}
		})
	}
}
