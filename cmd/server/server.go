package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors"
	grpcauth "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/auth"
	grpc_logging "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	grpc_recovery "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/selector"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"

	"github.com/KirkDiggler/roster-api/internal/config"
	"github.com/KirkDiggler/roster-api/internal/errors"
	rosterv1alpha1 "github.com/KirkDiggler/roster-api/internal/handlers/roster/v1alpha1"
	"github.com/KirkDiggler/roster-api/internal/handlers/web"
	"github.com/KirkDiggler/roster-api/internal/pkg/logging"
)

const shutdownTimeout = 30 * time.Second

var configPath string

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the gRPC and HTTP servers",
	Long:  `Start the roster gRPC service alongside the HTTP listener for health, metrics and websocket session feeds.`,
	RunE:  runServer,
}

func init() {
	serverCmd.Flags().StringVar(&configPath, "config", "", "path to a YAML config file (defaults to $"+config.EnvConfigPath+")")
}

func runServer(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return errors.Wrap(err, "failed to start")
	}
	defer a.Close()

	grpcServer, err := a.newGRPCServer()
	if err != nil {
		return err
	}
	httpServer, err := a.newHTTPServer()
	if err != nil {
		return err
	}

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		return errors.Wrapf(err, "failed to listen on %s", cfg.GRPCAddr)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("gRPC server starting", zap.String("addr", cfg.GRPCAddr))
		return grpcServer.Serve(lis)
	})

	g.Go(func() error {
		logger.Info("HTTP server starting", zap.String("addr", cfg.HTTPAddr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return a.orchestrator.RunSweeper(gctx, cfg.Session.SweepInterval)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		// Ending sessions first closes every watch stream so GracefulStop
		// does not wait on them.
		a.orchestrator.Close()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("HTTP shutdown failed", zap.Error(err))
		}

		stopped := make(chan struct{})
		go func() {
			grpcServer.GracefulStop()
			close(stopped)
		}()

		select {
		case <-shutdownCtx.Done():
			logger.Warn("graceful shutdown timeout exceeded, forcing stop")
			grpcServer.Stop()
		case <-stopped:
			logger.Info("server stopped gracefully")
		}
		return nil
	})

	if err := g.Wait(); err != nil && err != grpc.ErrServerStopped {
		return err
	}
	return nil
}

// newGRPCServer builds the gRPC server. Auth only guards the roster
// service so health checks and reflection stay open.
func (a *app) newGRPCServer() (*grpc.Server, error) {
	handler, err := rosterv1alpha1.NewHandler(&rosterv1alpha1.HandlerConfig{
		RosterService: a.orchestrator,
		Logger:        a.logger,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create roster handler")
	}

	interceptorLogger := logging.InterceptorLogger(a.logger)
	recoveryOpts := []grpc_recovery.Option{
		grpc_recovery.WithRecoveryHandler(func(p any) error {
			a.logger.Error("panic in handler", zap.Any("panic", p), zap.Stack("stack"))
			return status.Error(codes.Internal, "internal error")
		}),
	}
	rosterOnly := selector.MatchFunc(func(_ context.Context, c interceptors.CallMeta) bool {
		return c.Service == rosterv1alpha1.ServiceName
	})

	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			grpc_logging.UnaryServerInterceptor(interceptorLogger),
			grpc_recovery.UnaryServerInterceptor(recoveryOpts...),
			selector.UnaryServerInterceptor(grpcauth.UnaryServerInterceptor(a.authn.AuthFunc), rosterOnly),
		),
		grpc.ChainStreamInterceptor(
			grpc_logging.StreamServerInterceptor(interceptorLogger),
			grpc_recovery.StreamServerInterceptor(recoveryOpts...),
			selector.StreamServerInterceptor(grpcauth.StreamServerInterceptor(a.authn.AuthFunc), rosterOnly),
		),
	)

	rosterv1alpha1.RegisterRosterServiceServer(srv, handler)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(srv, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(rosterv1alpha1.ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	reflection.Register(srv)

	return srv, nil
}

func (a *app) newHTTPServer() (*http.Server, error) {
	h, err := web.NewHandler(&web.HandlerConfig{
		RosterService: a.orchestrator,
		Identities:    a.authn,
		Metrics:       a.metrics.Handler(),
		Logger:        a.logger,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create web handler")
	}

	return &http.Server{
		Addr:              a.cfg.HTTPAddr,
		Handler:           h.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}, nil
}
