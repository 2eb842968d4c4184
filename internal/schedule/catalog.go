package schedule

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/2beens/runcal/internal/telemetry/tracing"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const (
	oneHour             = 60 * 60
	scheduleCacheExpire = oneHour * 6
)

//go:generate mockgen -source=$GOFILE -destination=catalog_mocks_test.go -package=schedule_test

// documentStore persists per-user schedule documents, one per year.
type documentStore interface {
	LoadSchedule(ctx context.Context, userID string, year int) ([]byte, bool, error)
	SaveSchedule(ctx context.Context, userID string, year int, doc []byte) error
}

// Catalog resolves the schedule index of a user: the built-in plan with
// the user's stored year documents layered on top.
type Catalog struct {
	defaults Index
	docs     documentStore
	cache    *freecache.Cache
}

func NewCatalog(defaults Index, docs documentStore) *Catalog {
	megabyte := 1024 * 1024
	cacheSize := 10 * megabyte

	return &Catalog{
		defaults: defaults,
		docs:     docs,
		cache:    freecache.NewCache(cacheSize),
	}
}

// ForUser returns the index the user's calendar is built from.
func (c *Catalog) ForUser(ctx context.Context, userID string, year int) (_ Index, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "schedule.catalog.foruser")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("year", year))

	cacheKey := fmt.Sprintf("schedule::%s::%d", userID, year)
	if docBytes, err := c.cache.Get([]byte(cacheKey)); err == nil {
		var y Year
		if err := json.Unmarshal(docBytes, &y); err == nil {
			return c.defaults.WithYear(year, y), nil
		} else {
			log.Errorf("unmarshal cached schedule for user %s: %s", userID, err)
		}
	}

	docBytes, found, err := c.docs.LoadSchedule(ctx, userID, year)
	if err != nil {
		return nil, fmt.Errorf("load schedule: %w", err)
	}
	if !found {
		return c.defaults, nil
	}

	var y Year
	if err := json.Unmarshal(docBytes, &y); err != nil {
		return nil, fmt.Errorf("unmarshal stored schedule: %w", err)
	}

	if err := c.cache.Set([]byte(cacheKey), docBytes, scheduleCacheExpire); err != nil {
		log.Errorf("failed to cache schedule for user %s: %s", userID, err)
	}

	return c.defaults.WithYear(year, y), nil
}

// Save stores a full year document for the user.
func (c *Catalog) Save(ctx context.Context, userID string, year int, y Year) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "schedule.catalog.save")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("year", year))

	docBytes, err := json.Marshal(y)
	if err != nil {
		return fmt.Errorf("marshal schedule: %w", err)
	}

	if err := c.docs.SaveSchedule(ctx, userID, year, docBytes); err != nil {
		return fmt.Errorf("save schedule: %w", err)
	}

	cacheKey := fmt.Sprintf("schedule::%s::%d", userID, year)
	if err := c.cache.Set([]byte(cacheKey), docBytes, scheduleCacheExpire); err != nil {
		log.Errorf("failed to cache schedule for user %s: %s", userID, err)
	}

	return nil
}
