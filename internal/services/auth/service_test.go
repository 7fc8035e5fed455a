package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/quizhaus/quizhaus/internal/dependencies/mocks"
	"github.com/quizhaus/quizhaus/internal/model"
	"github.com/quizhaus/quizhaus/internal/storage/memory"
	"github.com/quizhaus/quizhaus/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	s.service = New(s.storage, s.clock, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ServiceSuite) TestCreateGuest() {
	player, err := s.service.CreateGuest(s.ctx, "Anna")
	s.Require().NoError(err)

	s.NotEmpty(player.ID)
	s.True(player.IsGuest)
	s.Equal("Anna", player.DisplayName)

	stored, err := s.storage.GetPlayer(s.ctx, player.ID)
	s.Require().NoError(err)
	s.Equal(player.ID, stored.ID)
}

func (s *ServiceSuite) TestGuestsGetDistinctIDs() {
	a, err := s.service.CreateGuest(s.ctx, "A")
	s.Require().NoError(err)
	b, err := s.service.CreateGuest(s.ctx, "B")
	s.Require().NoError(err)
	s.NotEqual(a.ID, b.ID)
}

func (s *ServiceSuite) TestRegisterAndLogin() {
	registered, err := s.service.Register(s.ctx, "anna", "secret123", "Anna")
	s.Require().NoError(err)
	s.False(registered.IsGuest)

	player, err := s.service.Login(s.ctx, "anna", "secret123")
	s.Require().NoError(err)
	s.Equal(registered.ID, player.ID)
}

func (s *ServiceSuite) TestRegisterStoresHashNotPassword() {
	_, err := s.service.Register(s.ctx, "anna", "secret123", "Anna")
	s.Require().NoError(err)

	rp, err := s.storage.GetRegisteredPlayerByUsername(s.ctx, "anna")
	s.Require().NoError(err)
	s.NotEqual("secret123", rp.PasswordHash)
	s.NotEmpty(rp.PasswordHash)
}

func (s *ServiceSuite) TestRegisterDuplicateUsername() {
	_, err := s.service.Register(s.ctx, "anna", "secret123", "Anna")
	s.Require().NoError(err)

	_, err = s.service.Register(s.ctx, "anna", "other456", "Other")
	s.ErrorIs(err, model.ErrUsernameTaken)
}

func (s *ServiceSuite) TestLoginWrongPassword() {
	_, err := s.service.Register(s.ctx, "anna", "secret123", "Anna")
	s.Require().NoError(err)

	_, err = s.service.Login(s.ctx, "anna", "wrong")
	s.ErrorIs(err, model.ErrInvalidCredentials)
}

func (s *ServiceSuite) TestLoginUnknownUserLooksLikeWrongPassword() {
	_, err := s.service.Login(s.ctx, "nobody", "whatever")
	s.ErrorIs(err, model.ErrInvalidCredentials)
}
