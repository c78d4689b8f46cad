package species_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/roster-api/internal/entities/pokemon"
	"github.com/KirkDiggler/roster-api/internal/errors"
	redisclient "github.com/KirkDiggler/roster-api/internal/redis"
	"github.com/KirkDiggler/roster-api/internal/repositories/species"
	"github.com/KirkDiggler/roster-api/internal/testutils"
)

type RedisSpeciesTestSuite struct {
	suite.Suite
	client redisclient.Client
	mr     *miniredis.Miniredis
	repo   species.Repository
	ctx    context.Context
}

func TestRedisSpeciesSuite(t *testing.T) {
	suite.Run(t, new(RedisSpeciesTestSuite))
}

func (s *RedisSpeciesTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.client, s.mr = testutils.CreateTestRedisClient(s.T())

	repo, err := species.NewRedis(&species.RedisConfig{Client: s.client, TTL: time.Hour})
	s.Require().NoError(err)
	s.repo = repo
}

func (s *RedisSpeciesTestSuite) TestNewRedis() {
	testCases := []struct {
		name   string
		config *species.RedisConfig
		errMsg string
	}{
		{name: "nil config", config: nil, errMsg: "config cannot be nil"},
		{name: "nil client", config: &species.RedisConfig{}, errMsg: "client cannot be nil"},
		{name: "negative ttl", config: &species.RedisConfig{Client: s.client, TTL: -time.Second}, errMsg: "ttl cannot be negative"},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			repo, err := species.NewRedis(tc.config)
			s.Require().Error(err)
			s.Contains(err.Error(), tc.errMsg)
			s.Nil(repo)
		})
	}
}

func (s *RedisSpeciesTestSuite) TestPutThenGet() {
	record := testutils.PikachuRecord()

	_, err := s.repo.Put(s.ctx, species.PutInput{Record: record})
	s.Require().NoError(err)

	out, err := s.repo.Get(s.ctx, species.GetInput{Name: "pikachu"})
	s.Require().NoError(err)
	s.Equal(record, out.Record)

	s.True(s.mr.Exists(species.GetKey("pikachu")))
	s.Equal(time.Hour, s.mr.TTL(species.GetKey("pikachu")))
}

func (s *RedisSpeciesTestSuite) TestPutUnderQueryKey() {
	_, err := s.repo.Put(s.ctx, species.PutInput{Key: "25", Record: testutils.PikachuRecord()})
	s.Require().NoError(err)

	out, err := s.repo.Get(s.ctx, species.GetInput{Name: "25"})
	s.Require().NoError(err)
	s.Equal("pikachu", out.Record.Name)

	_, err = s.repo.Get(s.ctx, species.GetInput{Name: "pikachu"})
	s.True(errors.IsNotFound(err))
}

func (s *RedisSpeciesTestSuite) TestGetMissAndExpiry() {
	_, err := s.repo.Get(s.ctx, species.GetInput{Name: "pikachu"})
	s.True(errors.IsNotFound(err))

	_, err = s.repo.Put(s.ctx, species.PutInput{Record: testutils.PikachuRecord()})
	s.Require().NoError(err)

	s.mr.FastForward(time.Hour + time.Second)

	_, err = s.repo.Get(s.ctx, species.GetInput{Name: "pikachu"})
	s.True(errors.IsNotFound(err))
}

func (s *RedisSpeciesTestSuite) TestGetCorruptRecord() {
	s.Require().NoError(s.mr.Set(species.GetKey("pikachu"), "{not json"))

	_, err := s.repo.Get(s.ctx, species.GetInput{Name: "pikachu"})
	s.Require().Error(err)
	s.Equal(errors.CodeInternal, errors.GetCode(err))
}

func (s *RedisSpeciesTestSuite) TestValidation() {
	_, err := s.repo.Get(s.ctx, species.GetInput{})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.repo.Put(s.ctx, species.PutInput{})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.repo.Put(s.ctx, species.PutInput{Record: &pokemon.SpeciesRecord{}})
	s.True(errors.IsInvalidArgument(err))
}
