package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

func (s *StorageSuite) TestSaveAndReadPresence() {
	err := s.storage.SavePresence(s.ctx, []string{"Alice", "Bob"})
	s.Require().NoError(err)

	users, err := s.storage.Presence(s.ctx)
	s.Require().NoError(err)
	s.Equal([]string{"Alice", "Bob"}, users)
}

func (s *StorageSuite) TestPresenceEmptyMirror() {
	users, err := s.storage.Presence(s.ctx)
	s.Require().NoError(err)
	s.Empty(users)
}

func (s *StorageSuite) TestSavePresenceReplacesPriorSnapshot() {
	_ = s.storage.SavePresence(s.ctx, []string{"Alice", "Bob"})
	_ = s.storage.SavePresence(s.ctx, []string{"Bob"})

	users, err := s.storage.Presence(s.ctx)
	s.Require().NoError(err)
	s.Equal([]string{"Bob"}, users)
}

func (s *StorageSuite) TestSavePresenceEmptyListClearsMirror() {
	_ = s.storage.SavePresence(s.ctx, []string{"Alice"})
	_ = s.storage.SavePresence(s.ctx, nil)

	users, err := s.storage.Presence(s.ctx)
	s.Require().NoError(err)
	s.Empty(users)
}

func (s *StorageSuite) TestPresenceReturnsCopy() {
	_ = s.storage.SavePresence(s.ctx, []string{"Alice", "Bob"})

	users, _ := s.storage.Presence(s.ctx)
	users[0] = "Mallory"

	again, _ := s.storage.Presence(s.ctx)
	s.Equal([]string{"Alice", "Bob"}, again)
}
