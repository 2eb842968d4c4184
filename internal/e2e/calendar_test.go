//go:build integration_test || all_tests

package e2e

import (
	"net/http"

	"github.com/2beens/runcal/internal/calendar"

	"github.com/brianvoe/gofakeit/v6"
)

type swapResponse struct {
	Result struct {
		Action string `json:"action"`
	} `json:"result"`
	View calendar.WeekView `json:"view"`
}

func (s *ServiceTestSuite) TestAuthRequired() {
	status, body := s.do(http.MethodGet, "/calendar/week/8", "", nil)
	s.Equal(http.StatusUnauthorized, status)
	s.Equal("no can do", body)

	status, _ = s.do(http.MethodGet, "/calendar/week/8", "not-a-token", nil)
	s.Equal(http.StatusUnauthorized, status)

	status, body = s.do(http.MethodGet, "/", "", nil)
	s.Equal(http.StatusOK, status)
	s.Equal("runcal test-version", body)
}

func (s *ServiceTestSuite) TestScheduledWeek() {
	_, token := s.signUpAndLogin(gofakeit.Email())

	status, body := s.do(http.MethodGet, "/calendar/week/8", token, nil)
	s.Require().Equal(http.StatusOK, status, body)
	var view calendar.WeekView
	s.decode(body, &view)
	s.Equal("February 2026 - Week 8", view.Title)
	s.Equal(20.0, view.Stats.Planned)

	// complete Monday and the OFF Wednesday
	status, body = s.do(http.MethodPost, "/calendar/week/8/day/0/complete", token, nil)
	s.Require().Equal(http.StatusOK, status, body)
	status, body = s.do(http.MethodPost, "/calendar/week/8/day/2/complete", token, nil)
	s.Require().Equal(http.StatusOK, status, body)
	s.decode(body, &view)
	s.Equal(4.0, view.Stats.Completed)
	s.Equal(20.0, view.Stats.Planned)

	status, body = s.do(http.MethodPut, "/calendar/week/8/day/1/distance", token, map[string]any{"miles": 5.5})
	s.Require().Equal(http.StatusOK, status, body)
	s.decode(body, &view)
	s.True(view.Days[1].Completed)
	s.Equal("5 mi (5 mi → 5.5 mi)", view.Days[1].Display)

	status, body = s.do(http.MethodPut, "/calendar/week/8/day/1/distance", token, map[string]any{"miles": -1})
	s.Equal(http.StatusBadRequest, status)
	s.Equal("please enter a valid distance", body)
}

func (s *ServiceTestSuite) TestSwap() {
	_, token := s.signUpAndLogin(gofakeit.Email())

	status, body := s.do(http.MethodPost, "/calendar/week/8/day/0/swap", token, nil)
	s.Require().Equal(http.StatusOK, status, body)
	var resp swapResponse
	s.decode(body, &resp)
	s.Equal("Mon selected. Pick another day to complete swap.", resp.View.SwapStatus)

	status, body = s.do(http.MethodPost, "/calendar/week/8/day/2/swap", token, nil)
	s.Require().Equal(http.StatusOK, status, body)
	s.decode(body, &resp)
	s.Equal("OFF", resp.View.Days[0].Workout)
	s.Equal("4 mi", resp.View.Days[2].Workout)
	s.Equal(20.0, resp.View.Stats.Planned)

	status, body = s.do(http.MethodPost, "/calendar/week/20/day/0/swap", token, nil)
	s.Equal(http.StatusConflict, status)
	s.Equal("swap not available for blank weeks", body)
}

func (s *ServiceTestSuite) TestBlankWeek() {
	_, token := s.signUpAndLogin(gofakeit.Email())

	status, body := s.do(http.MethodPut, "/calendar/week/20/day/0/distance", token, map[string]any{"miles": 3, "note": "easy"})
	s.Require().Equal(http.StatusOK, status, body)
	status, body = s.do(http.MethodPut, "/calendar/week/20/day/2/distance", token, map[string]any{"miles": 2.5})
	s.Require().Equal(http.StatusOK, status, body)

	var view calendar.WeekView
	s.decode(body, &view)
	s.True(view.Blank)
	s.Require().NotNil(view.Goal)
	s.Equal(5.5, *view.Goal)
	s.Equal(5.5, view.Stats.Completed)
	s.True(view.Progress.Complete)

	status, body = s.do(http.MethodPut, "/calendar/week/20/goal", token, map[string]any{"miles": 11})
	s.Require().Equal(http.StatusOK, status, body)
	s.decode(body, &view)
	s.Equal(50.0, view.Progress.Percentage)

	status, _ = s.do(http.MethodPut, "/calendar/week/8/goal", token, map[string]any{"miles": 11})
	s.Equal(http.StatusConflict, status)
}

func (s *ServiceTestSuite) TestOverlaysSurviveLogout() {
	email := gofakeit.Email()
	_, token := s.signUpAndLogin(email)

	status, body := s.do(http.MethodPost, "/calendar/week/9/day/3/complete", token, nil)
	s.Require().Equal(http.StatusOK, status, body)

	// logout closes the in-memory session after its saves went through
	status, body = s.do(http.MethodGet, "/a/logout", token, nil)
	s.Require().Equal(http.StatusOK, status, body)
	status, _ = s.do(http.MethodGet, "/calendar/week/9", token, nil)
	s.Equal(http.StatusUnauthorized, status)

	token = s.login(email)
	status, body = s.do(http.MethodGet, "/calendar/week/9", token, nil)
	s.Require().Equal(http.StatusOK, status, body)
	var view calendar.WeekView
	s.decode(body, &view)
	s.True(view.Days[3].Completed)
}
