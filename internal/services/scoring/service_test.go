package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/quizhaus/quizhaus/internal/model"
)

type ServiceSuite struct {
	suite.Suite
	service *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.service = New(DefaultConfig())
}

func (s *ServiceSuite) TestInstantAnswerEarnsFullTimeBonus() {
	s.Equal(160, s.service.Points(0, 60*time.Second, 1))
}

func (s *ServiceSuite) TestTimeBonusIsFloored() {
	// 48s remaining of 60s: 48/60*50 = 40 exactly
	s.Equal(150, s.service.Points(12*time.Second, 60*time.Second, 1))
	// 47.5s remaining: 39.58... floors to 39
	s.Equal(149, s.service.Points(12500*time.Millisecond, 60*time.Second, 1))
}

func (s *ServiceSuite) TestAnswerAfterDeadlineEarnsNoTimeBonus() {
	s.Equal(110, s.service.Points(61*time.Second, 60*time.Second, 1))
	s.Equal(110, s.service.Points(10*time.Minute, 60*time.Second, 1))
}

func (s *ServiceSuite) TestStreakScalesLinearly() {
	base := s.service.Points(30*time.Second, 60*time.Second, 1)
	for streak := 2; streak <= 5; streak++ {
		s.Equal(base+(streak-1)*10, s.service.Points(30*time.Second, 60*time.Second, streak))
	}
}

func (s *ServiceSuite) TestFasterNeverScoresLess() {
	previous := s.service.Points(0, 60*time.Second, 1)
	for taken := time.Second; taken <= 60*time.Second; taken += time.Second {
		points := s.service.Points(taken, 60*time.Second, 1)
		s.LessOrEqual(points, previous, "taken %v", taken)
		previous = points
	}
}

func (s *ServiceSuite) TestZeroTimeLimitSkipsTimeBonus() {
	s.Equal(110, s.service.Points(0, 0, 1))
}

func (s *ServiceSuite) TestFinalStandingsSortDescending() {
	standings := s.service.FinalStandings([]model.LobbyPlayer{
		{ID: "a", Name: "A", Score: 100},
		{ID: "b", Name: "B", Score: 300},
		{ID: "c", Name: "C", Score: 200},
	})

	s.Equal([]model.PlayerID{"b", "c", "a"}, []model.PlayerID{
		standings[0].OriginalID, standings[1].OriginalID, standings[2].OriginalID,
	})
}

func (s *ServiceSuite) TestFinalStandingsTiesKeepJoinOrder() {
	standings := s.service.FinalStandings([]model.LobbyPlayer{
		{ID: "a", Score: 200},
		{ID: "b", Score: 200},
		{ID: "c", Score: 200},
	})

	s.Equal(model.PlayerID("a"), standings[0].OriginalID)
	s.Equal(model.PlayerID("b"), standings[1].OriginalID)
	s.Equal(model.PlayerID("c"), standings[2].OriginalID)
}
