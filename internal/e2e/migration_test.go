//go:build integration_test || all_tests

package e2e

import (
	"context"
	"net/http"
	"time"

	"github.com/2beens/runcal/internal/auth"
	"github.com/2beens/runcal/internal/calendar"
	"github.com/2beens/runcal/internal/migration"

	"github.com/brianvoe/gofakeit/v6"
)

func (s *ServiceTestSuite) TestLegacyMigrationOnLogin() {
	email := gofakeit.Email()
	status, body := s.do(http.MethodPost, "/a/signup", "", auth.Credentials{Email: email, Password: "testpass"})
	s.Require().Equal(http.StatusCreated, status, body)
	var signup struct {
		ID string `json:"id"`
	}
	s.decode(body, &signup)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.Require().NoError(s.redisClient.Set(ctx, migration.LegacyKey(signup.ID, migration.BlobCompleted), `{"2026-2/16": true}`, 0).Err())
	s.Require().NoError(s.redisClient.Set(ctx, migration.LegacyKey(signup.ID, migration.BlobDistances), `{"2026-2/17": 5.2, "old-key": 3}`, 0).Err())

	token := s.login(email)

	status, body = s.do(http.MethodGet, "/calendar/week/8", token, nil)
	s.Require().Equal(http.StatusOK, status, body)
	var view calendar.WeekView
	s.decode(body, &view)
	s.True(view.Days[0].Completed)
	s.Require().NotNil(view.Days[1].Distance)
	s.Equal(5.2, *view.Days[1].Distance)

	exists, err := s.redisClient.Exists(ctx, migration.LegacyKey(signup.ID, migration.BlobCompleted)).Result()
	s.Require().NoError(err)
	s.Zero(exists)
}

func (s *ServiceTestSuite) TestLegacyImport() {
	_, token := s.signUpAndLogin(gofakeit.Email())

	// the calendar is already open when the import arrives
	status, body := s.do(http.MethodGet, "/calendar/week/8", token, nil)
	s.Require().Equal(http.StatusOK, status, body)

	status, body = s.do(http.MethodPost, "/migration/legacy", token, map[string]string{
		migration.BlobSwaps:          `{"2026-2-2-0": "OFF", "2026-2-2-2": "4 mi"}`,
		migration.BlobBlankWeekGoals: `{"2026-20": 12}`,
	})
	s.Require().Equal(http.StatusOK, status, body)
	s.JSONEq(`{"migrated": 3}`, body)

	status, _ = s.do(http.MethodPost, "/migration/legacy", token, map[string]string{"somethingElse": "{}"})
	s.Equal(http.StatusBadRequest, status)

	status, body = s.do(http.MethodGet, "/calendar/week/20", token, nil)
	s.Require().Equal(http.StatusOK, status, body)
	var view calendar.WeekView
	s.decode(body, &view)
	s.Require().NotNil(view.Goal)
	s.Equal(12.0, *view.Goal)

	status, body = s.do(http.MethodGet, "/calendar/week/8", token, nil)
	s.Require().Equal(http.StatusOK, status, body)
	s.decode(body, &view)
	s.Equal("OFF", view.Days[0].Workout)
	s.Equal("4 mi", view.Days[2].Workout)
}
