package main

import (
	"context"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/KirkDiggler/roster-api/internal/config"
	"github.com/KirkDiggler/roster-api/internal/errors"
	rosterv1alpha1 "github.com/KirkDiggler/roster-api/internal/handlers/roster/v1alpha1"
)

const testToken = "token-ash"

type AppTestSuite struct {
	suite.Suite
	cfg *config.Config
}

func TestAppTestSuite(t *testing.T) {
	suite.Run(t, new(AppTestSuite))
}

func (s *AppTestSuite) SetupTest() {
	s.cfg = config.New()
	s.cfg.Store.Driver = config.DriverMemory
	s.cfg.Auth.Tokens = map[string]config.TokenIdentity{
		testToken: {UserID: "user-ash", Email: "ash@example.test"},
	}
}

func (s *AppTestSuite) newApp() *app {
	a, err := newApp(context.Background(), s.cfg, zap.NewNop())
	s.Require().NoError(err)
	s.T().Cleanup(a.Close)
	return a
}

func (s *AppTestSuite) TestMemoryDriverSkipsRedis() {
	s.cfg.Redis.Addr = ""
	a := s.newApp()
	s.NotNil(a.orchestrator)
	s.Empty(a.closers)
}

func (s *AppTestSuite) TestSQLiteDriver() {
	s.cfg.Store.Driver = config.DriverSQLite
	s.cfg.Store.SQLitePath = filepath.Join(s.T().TempDir(), "roster.db")

	a := s.newApp()
	s.Len(a.closers, 1)
}

func (s *AppTestSuite) TestRedisDriver() {
	mr := miniredis.RunT(s.T())
	s.cfg.Store.Driver = config.DriverRedis
	s.cfg.Redis.Addr = mr.Addr()

	a := s.newApp()
	s.Len(a.closers, 1)
}

func (s *AppTestSuite) TestRedisUnreachable() {
	mr := miniredis.RunT(s.T())
	addr := mr.Addr()
	mr.Close()

	s.cfg.Store.Driver = config.DriverRedis
	s.cfg.Redis.Addr = addr

	_, err := newApp(context.Background(), s.cfg, zap.NewNop())
	s.Require().Error(err)
	s.Equal(errors.CodeUnavailable, errors.GetCode(err))
}

func (s *AppTestSuite) TestGRPCServer() {
	a := s.newApp()
	srv, err := a.newGRPCServer()
	s.Require().NoError(err)

	lis := bufconn.Listen(1 << 20)
	go func() {
		_ = srv.Serve(lis)
	}()
	s.T().Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	s.Require().NoError(err)
	defer func() { _ = conn.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.Run("health needs no token", func() {
		resp, err := grpc_health_v1.NewHealthClient(conn).Check(ctx, &grpc_health_v1.HealthCheckRequest{
			Service: rosterv1alpha1.ServiceName,
		})
		s.Require().NoError(err)
		s.Equal(grpc_health_v1.HealthCheckResponse_SERVING, resp.GetStatus())
	})

	client := rosterv1alpha1.NewRosterServiceClient(conn)

	s.Run("roster calls need a token", func() {
		_, err := client.ListRoster(ctx, &rosterv1alpha1.ListRosterRequest{})
		s.Equal(codes.Unauthenticated, status.Code(err))
	})

	s.Run("session lifecycle", func() {
		authed := metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+testToken)

		list, err := client.ListRoster(authed, &rosterv1alpha1.ListRosterRequest{})
		s.Require().NoError(err)
		s.Equal(0, list.Count)
		s.Equal(s.cfg.Roster.Capacity, list.Capacity)

		started, err := client.StartSession(authed, &rosterv1alpha1.StartSessionRequest{})
		s.Require().NoError(err)
		s.Equal("user-ash", started.View.UserID)
		s.Equal("ash@example.test", started.View.Email)

		_, err = client.EndSession(authed, &rosterv1alpha1.SessionRequest{SessionID: started.View.SessionID})
		s.Require().NoError(err)

		_, err = client.GetSession(authed, &rosterv1alpha1.SessionRequest{SessionID: started.View.SessionID})
		s.Equal(codes.NotFound, status.Code(err))
	})
}

func (s *AppTestSuite) TestHTTPServer() {
	a := s.newApp()
	srv, err := a.newHTTPServer()
	s.Require().NoError(err)
	s.Equal(s.cfg.HTTPAddr, srv.Addr)
	s.NotNil(srv.Handler)
}
