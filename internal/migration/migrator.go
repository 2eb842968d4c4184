package migration

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/2beens/runcal/internal/overlay"
	"github.com/2beens/runcal/internal/telemetry/metrics"
	"github.com/2beens/runcal/internal/telemetry/tracing"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const legacyKeyPrefix = "runcal-legacy||"

// names of the local-only blobs kept by the old, single device app
const (
	BlobSwaps             = "benrunSwaps"
	BlobCompleted         = "benrunCompleted"
	BlobDistances         = "benrunDistances"
	BlobBlankWeekGoals    = "benrunBlankWeekGoals"
	BlobBlankWeekWorkouts = "benrunBlankWeekWorkouts"
)

var (
	ErrUnknownBlob = errors.New("unknown legacy blob")
	ErrInvalidBlob = errors.New("invalid legacy blob")
)

// blobNames in migration order
var blobNames = []string{
	BlobSwaps,
	BlobCompleted,
	BlobDistances,
	BlobBlankWeekGoals,
	BlobBlankWeekWorkouts,
}

func LegacyKey(userID, name string) string {
	return legacyKeyPrefix + userID + "||" + name
}

// Migrator moves the legacy overlay blobs of a user, kept in redis, to the
// overlay gateway. It is idempotent: once anything was moved the blobs are
// deleted, and saving the same entries again is an upsert.
type Migrator struct {
	redisClient    *redis.Client
	gateway        overlay.Gateway
	metricsManager *metrics.Manager
}

func NewMigrator(redisClient *redis.Client, gateway overlay.Gateway, metricsManager *metrics.Manager) *Migrator {
	return &Migrator{
		redisClient:    redisClient,
		gateway:        gateway,
		metricsManager: metricsManager,
	}
}

// Stash stores raw legacy blobs for the user, to be picked up by Migrate.
func (m *Migrator) Stash(ctx context.Context, userID string, blobs map[string]string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "migration.stash")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	for _, name := range blobNames {
		blob, ok := blobs[name]
		if !ok || blob == "" {
			continue
		}
		if !json.Valid([]byte(blob)) {
			return fmt.Errorf("%w: %s", ErrInvalidBlob, name)
		}
	}
	for name := range blobs {
		if !isKnownBlob(name) {
			return fmt.Errorf("%w: %s", ErrUnknownBlob, name)
		}
	}

	for _, name := range blobNames {
		blob, ok := blobs[name]
		if !ok || blob == "" {
			continue
		}
		if err := m.redisClient.Set(ctx, LegacyKey(userID, name), blob, 0).Err(); err != nil {
			return fmt.Errorf("stash %s: %w", name, err)
		}
	}
	return nil
}

func isKnownBlob(name string) bool {
	for _, n := range blobNames {
		if n == name {
			return true
		}
	}
	return false
}

// Migrate pushes every entry of the user's legacy blobs through the gateway
// and returns the number of migrated entries. Distance keys in the old
// format (without a "m/d" date) are skipped. The blobs are deleted only if
// at least one entry was migrated.
func (m *Migrator) Migrate(ctx context.Context, userID string) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "migration.migrate")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	migrated := 0
	for _, name := range blobNames {
		raw, found, err := m.loadBlob(ctx, userID, name)
		if err != nil {
			return migrated, err
		}
		if !found {
			continue
		}

		count, err := m.migrateBlob(ctx, userID, name, raw)
		migrated += count
		if err != nil {
			return migrated, fmt.Errorf("migrate %s: %w", name, err)
		}
	}
	span.SetAttributes(attribute.Int("migrated", migrated))

	if migrated == 0 {
		return 0, nil
	}

	keys := make([]string, 0, len(blobNames))
	for _, name := range blobNames {
		keys = append(keys, LegacyKey(userID, name))
	}
	if err := m.redisClient.Del(ctx, keys...).Err(); err != nil {
		return migrated, fmt.Errorf("clear legacy blobs: %w", err)
	}

	if m.metricsManager != nil {
		m.metricsManager.CounterMigratedEntries.Add(float64(migrated))
	}
	log.Printf("legacy migration for user %s: %d entries", userID, migrated)

	return migrated, nil
}

func (m *Migrator) loadBlob(ctx context.Context, userID, name string) ([]byte, bool, error) {
	cmd := m.redisClient.Get(ctx, LegacyKey(userID, name))
	if err := cmd.Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("load %s: %w", name, err)
	}
	return []byte(cmd.Val()), true, nil
}

func (m *Migrator) migrateBlob(ctx context.Context, userID, name string, raw []byte) (int, error) {
	var entries map[string]any
	if err := json.Unmarshal(raw, &entries); err != nil {
		return 0, fmt.Errorf("%w: %s", ErrInvalidBlob, err)
	}

	migrated := 0
	for key, value := range entries {
		var err error
		switch name {
		case BlobSwaps:
			workout, ok := value.(string)
			if !ok {
				log.Warnf("legacy migration, skip swap %s: not a string", key)
				continue
			}
			err = m.gateway.SaveSwap(ctx, userID, key, workout)
		case BlobCompleted:
			err = m.gateway.SaveCompletion(ctx, userID, key, legacyCompleted(value))
		case BlobDistances:
			if !strings.Contains(key, "/") {
				continue
			}
			miles, ok := legacyMiles(value)
			if !ok {
				log.Warnf("legacy migration, skip distance %s: not a number", key)
				continue
			}
			err = m.gateway.SaveDistance(ctx, userID, key, miles)
		case BlobBlankWeekGoals:
			miles, ok := legacyMiles(value)
			if !ok {
				log.Warnf("legacy migration, skip goal %s: not a number", key)
				continue
			}
			err = m.gateway.SaveBlankWeekGoal(ctx, userID, key, miles)
		case BlobBlankWeekWorkouts:
			workout, ok := value.(string)
			if !ok {
				log.Warnf("legacy migration, skip blank week workout %s: not a string", key)
				continue
			}
			err = m.gateway.SaveBlankWeekWorkout(ctx, userID, key, workout)
		}
		if err != nil {
			return migrated, err
		}
		migrated++
	}

	return migrated, nil
}

// legacyCompleted reads a completion value. Old builds stored the whole
// workout object instead of a flag.
func legacyCompleted(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case nil:
		return false
	default:
		return true
	}
}

func legacyMiles(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case string:
		miles, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return miles, err == nil
	default:
		return 0, false
	}
}
