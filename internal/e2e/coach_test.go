//go:build integration_test || all_tests

package e2e

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/2beens/runcal/internal/calendar"

	"github.com/brianvoe/gofakeit/v6"
)

const aprilSchedule = `{"2026": {"4": {"month": "April", "phase": "Build", "weeks": [
	{"weekNum": 15, "startDate": "4/6", "endDate": "4/12", "total": "30 miles", "days": [
		{"date": "4/6", "day": "Mon", "workout": "5 mi"},
		{"date": "4/7", "day": "Tue", "workout": "6 mi"},
		{"date": "4/8", "day": "Wed", "workout": "OFF", "offDay": true},
		{"date": "4/9", "day": "Thu", "workout": "7 mi + 6×20s strides"},
		{"date": "4/10", "day": "Fri", "workout": "OFF", "offDay": true},
		{"date": "4/11", "day": "Sat", "workout": "12 mi"},
		{"date": "4/12", "day": "Sun", "workout": "OFF", "offDay": true}
	]}
]}}}`

func (s *ServiceTestSuite) promoteToCoach(email string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := s.dbPool.Exec(ctx, `UPDATE user_profiles SET role = 'coach' WHERE email = $1`, email)
	s.Require().NoError(err)
}

func (s *ServiceTestSuite) upload(token, runnerID, doc string) (int, string) {
	req, err := http.NewRequest(http.MethodPost, serverEndpoint+"/coach/schedules/2026?runner="+runnerID, strings.NewReader(doc))
	s.Require().NoError(err)
	return s.send(req, token)
}

func (s *ServiceTestSuite) send(req *http.Request, token string) (int, string) {
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("X-RUNCAL-TOKEN", token)
	resp, err := s.httpClient.Do(req)
	s.Require().NoError(err)
	defer func() {
		_ = resp.Body.Close()
	}()
	buf := new(strings.Builder)
	_, err = buf.ReadFrom(resp.Body)
	s.Require().NoError(err)
	return resp.StatusCode, strings.TrimSpace(buf.String())
}

func (s *ServiceTestSuite) TestCoachUpload() {
	coachEmail := gofakeit.Email()
	_, coachToken := s.signUpAndLogin(coachEmail)
	runnerID, runnerToken := s.signUpAndLogin(gofakeit.Email())

	status, _ := s.upload(coachToken, runnerID, aprilSchedule)
	s.Equal(http.StatusForbidden, status)

	s.promoteToCoach(coachEmail)

	status, body := s.do(http.MethodGet, "/role", coachToken, nil)
	s.Require().Equal(http.StatusOK, status)
	s.JSONEq(`{"role": "coach"}`, body)

	status, body = s.do(http.MethodGet, "/coach/runners", coachToken, nil)
	s.Require().Equal(http.StatusOK, status, body)
	s.Contains(body, runnerID)

	status, body = s.upload(coachToken, runnerID, `{"2026": {"4": {"weeks": [{"weekNum": 15, "days": []}]}}}`)
	s.Equal(http.StatusBadRequest, status, body)

	status, body = s.upload(coachToken, runnerID, aprilSchedule)
	s.Require().Equal(http.StatusOK, status, body)
	s.JSONEq(`{"runner": "`+runnerID+`", "year": 2026, "months": [2, 3, 4]}`, body)

	// the runner sees the new week, the built-in weeks are still there
	status, body = s.do(http.MethodGet, "/calendar/week/15", runnerToken, nil)
	s.Require().Equal(http.StatusOK, status, body)
	var view calendar.WeekView
	s.decode(body, &view)
	s.False(view.Blank)
	s.Equal(30.0, view.Stats.Planned)

	status, body = s.do(http.MethodGet, "/calendar/week/8", runnerToken, nil)
	s.Require().Equal(http.StatusOK, status, body)
	s.decode(body, &view)
	s.Equal(20.0, view.Stats.Planned)

	// the coach looks at the runner's calendar
	status, body = s.do(http.MethodGet, "/calendar/week/15?runner="+runnerID, coachToken, nil)
	s.Require().Equal(http.StatusOK, status, body)
	s.decode(body, &view)
	s.Equal(runnerID, view.Subject)
	s.Equal("12 mi", view.Days[5].Workout)
}
