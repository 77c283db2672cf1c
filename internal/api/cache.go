package api

import (
	"context"
	"log"
	"time"

	"github.com/kochwerk/kitchenplan/backend/internal/models"
	"github.com/redis/go-redis/v9"
)

// SheetCache keeps computed production sheets in Redis, keyed by delivery
// date. The engine itself stays pure; caching lives only at this edge.
// Order and menu writes drop the entry for their date; reference-data
// writes flush every entry. A nil client
// disables caching entirely, and cache failures are logged but never fail a
// request.
type SheetCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSheetCache(client *redis.Client, ttl time.Duration) SheetCache {
	return SheetCache{client: client, ttl: ttl}
}

func sheetKey(date time.Time) string {
	return "production-sheet:" + date.Format("2006-01-02")
}

// Get returns the cached sheet payload for a date, if any.
func (c SheetCache) Get(ctx context.Context, date time.Time) ([]byte, bool) {
	if c.client == nil {
		return nil, false
	}
	payload, err := c.client.Get(ctx, sheetKey(date)).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("sheet cache get failed: %v", err)
		}
		return nil, false
	}
	return payload, true
}

// Put stores the sheet payload for a date.
func (c SheetCache) Put(ctx context.Context, date time.Time, payload []byte) {
	if c.client == nil {
		return
	}
	if err := c.client.Set(ctx, sheetKey(date), payload, c.ttl).Err(); err != nil {
		log.Printf("sheet cache put failed: %v", err)
	}
}

// Invalidate drops the cached sheet for a date.
func (c SheetCache) Invalidate(ctx context.Context, date time.Time) {
	if c.client == nil {
		return
	}
	if err := c.client.Del(ctx, sheetKey(date)).Err(); err != nil {
		log.Printf("sheet cache invalidate failed: %v", err)
	}
}

// InvalidateAll drops every cached sheet. Reference-data writes (dish
// attributes, composition edges, portion overrides) can affect any date a
// dish appears on, so the whole cache goes rather than guessing dates.
func (c SheetCache) InvalidateAll(ctx context.Context) {
	if c.client == nil {
		return
	}
	iter := c.client.Scan(ctx, 0, "production-sheet:*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			log.Printf("sheet cache invalidate failed: %v", err)
		}
	}
	if err := iter.Err(); err != nil {
		log.Printf("sheet cache scan failed: %v", err)
	}
}

// InvalidateWeek drops the cached sheet for a (week, day) menu slot, which
// identifies exactly one calendar date.
func (c SheetCache) InvalidateWeek(ctx context.Context, weekID string, dayOfWeek int) {
	if c.client == nil {
		return
	}
	date, err := models.DateOf(weekID, dayOfWeek)
	if err != nil {
		log.Printf("sheet cache invalidate skipped: %v", err)
		return
	}
	c.Invalidate(ctx, date)
}
