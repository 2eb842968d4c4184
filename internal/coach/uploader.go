package coach

import (
	"context"
	"fmt"

	"github.com/2beens/runcal/internal/schedule"
	"github.com/2beens/runcal/internal/telemetry/metrics"
	"github.com/2beens/runcal/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const (
	uploadStatusOK      = "ok"
	uploadStatusInvalid = "invalid"
	uploadStatusFailed  = "failed"
)

//go:generate mockgen -source=$GOFILE -destination=uploader_mocks_test.go -package=coach_test

type scheduleCatalog interface {
	ForUser(ctx context.Context, userID string, year int) (schedule.Index, error)
	Save(ctx context.Context, userID string, year int, y schedule.Year) error
}

type sessionRefresher interface {
	RefreshSchedule(ctx context.Context, subjectID string) error
}

// Uploader applies schedule documents uploaded by coaches to a runner's
// plan. An upload replaces whole months; months it does not mention keep
// their current plan.
type Uploader struct {
	catalog        scheduleCatalog
	sessions       sessionRefresher
	metricsManager *metrics.Manager
}

func NewUploader(catalog scheduleCatalog, sessions sessionRefresher, metricsManager *metrics.Manager) *Uploader {
	return &Uploader{
		catalog:        catalog,
		sessions:       sessions,
		metricsManager: metricsManager,
	}
}

// Upload validates the document, merges its months into the runner's plan
// of that year and stores the result. It is all or nothing: an invalid
// document changes nothing.
func (u *Uploader) Upload(ctx context.Context, runnerID string, year int, raw []byte) (_ schedule.Year, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "coach.uploader.upload")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("year", year))

	uploaded, err := schedule.DecodeYear(raw, year)
	if err != nil {
		u.count(uploadStatusInvalid)
		return nil, err
	}

	current, err := u.catalog.ForUser(ctx, runnerID, year)
	if err != nil {
		u.count(uploadStatusFailed)
		return nil, fmt.Errorf("current schedule of %s: %w", runnerID, err)
	}
	merged := current[year].MergeMonths(uploaded)

	if err := u.catalog.Save(ctx, runnerID, year, merged); err != nil {
		u.count(uploadStatusFailed)
		return nil, fmt.Errorf("save schedule of %s: %w", runnerID, err)
	}
	u.count(uploadStatusOK)

	// open calendars pick the new plan up right away; failing that they
	// get it on the next open
	if err := u.sessions.RefreshSchedule(ctx, runnerID); err != nil {
		log.Errorf("refresh sessions of %s after upload: %s", runnerID, err)
	}

	log.Printf("schedule uploaded for runner %s, year %d, months %v", runnerID, year, uploaded.Months())
	return merged, nil
}

func (u *Uploader) count(status string) {
	if u.metricsManager != nil {
		u.metricsManager.CounterScheduleUploads.WithLabelValues(status).Inc()
	}
}
