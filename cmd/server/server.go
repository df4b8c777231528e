package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	grpc_logging "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	grpc_recovery "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"

	"github.com/KirkDiggler/trenchturn/internal/config"
	"github.com/KirkDiggler/trenchturn/internal/handlers/turn/v1alpha1"
	"github.com/KirkDiggler/trenchturn/internal/orchestrators/session"
	"github.com/KirkDiggler/trenchturn/internal/pkg/clock"
	"github.com/KirkDiggler/trenchturn/internal/pkg/idgen"
	"github.com/KirkDiggler/trenchturn/internal/redis"
	"github.com/KirkDiggler/trenchturn/internal/repositories/eventlog"
)

var (
	grpcPort int
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the gRPC server",
	Long:  `Start the trenchturn gRPC server. Configuration comes from TRENCHTURN_* environment variables.`,
	RunE:  runServer,
}

func init() {
	serverCmd.Flags().IntVar(&grpcPort, "port", 0, "gRPC server port (overrides TRENCHTURN_GRPC_PORT)")
}

func runServer(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if grpcPort != 0 {
		cfg.GRPCPort = grpcPort
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Received shutdown signal, gracefully stopping...")
		cancel()
	}()

	eventLog, err := newEventLog(cfg)
	if err != nil {
		return fmt.Errorf("failed to create event log: %w", err)
	}

	sessionService, err := session.NewOrchestrator(&session.Config{
		EventLog:    eventLog,
		IDGenerator: idgen.NewUUID("session"),
		Defaults:    defaultsFrom(cfg),
	})
	if err != nil {
		return fmt.Errorf("failed to create session service: %w", err)
	}

	turnHandler, err := v1alpha1.NewHandler(&v1alpha1.HandlerConfig{
		SessionService: sessionService,
	})
	if err != nil {
		return fmt.Errorf("failed to create turn handler: %w", err)
	}

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.GRPCPort))
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			grpc_logging.UnaryServerInterceptor(grpc_logging.LoggerFunc(logFunc)),
			grpc_recovery.UnaryServerInterceptor(),
		),
		grpc.ChainStreamInterceptor(
			grpc_logging.StreamServerInterceptor(grpc_logging.LoggerFunc(logFunc)),
			grpc_recovery.StreamServerInterceptor(),
		),
	)

	v1alpha1.RegisterTurnServiceServer(srv, turnHandler)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(srv, healthServer)

	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(v1alpha1.ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	reflection.Register(srv)

	errChan := make(chan error, 1)
	go func() {
		slog.Info("gRPC server starting",
			"port", cfg.GRPCPort,
			"order_policy", cfg.Policy(),
			"turn_budget", cfg.TurnBudget,
			"redis", cfg.RedisAddr != "")
		if err := srv.Serve(lis); err != nil {
			errChan <- fmt.Errorf("failed to serve: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("Shutting down gRPC server...")
		healthServer.Shutdown()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		stopped := make(chan struct{})
		go func() {
			srv.GracefulStop()
			close(stopped)
		}()

		select {
		case <-shutdownCtx.Done():
			slog.Warn("Graceful shutdown timeout exceeded, forcing stop")
			srv.Stop()
		case <-stopped:
			slog.Info("Server stopped gracefully")
		}

		return nil
	case err := <-errChan:
		return err
	}
}

// newEventLog uses Redis when an address is configured and memory otherwise
func newEventLog(cfg *config.Config) (eventlog.Repository, error) {
	if cfg.RedisAddr == "" {
		return eventlog.NewInMemory(&eventlog.InMemoryConfig{Capacity: cfg.EventLogSize}), nil
	}

	client, err := redis.NewClient(cfg.RedisAddr, &redis.Options{UseTLS: cfg.RedisTLS})
	if err != nil {
		return nil, err
	}

	return eventlog.NewRedisRepository(&eventlog.Config{
		Client:   client,
		Clock:    clock.New(),
		Capacity: cfg.EventLogSize,
		TTL:      cfg.EventLogTTL,
	})
}

func defaultsFrom(cfg *config.Config) session.Defaults {
	return session.Defaults{
		OrderPolicy:     cfg.Policy(),
		TurnBudget:      cfg.TurnBudget,
		MaxDebt:         cfg.MaxDebt,
		ProgressPerPass: cfg.ProgressPerPass,
		CheckInvariants: cfg.CheckInvariants,
		Width:           cfg.BattlefieldWidth,
		Height:          cfg.BattlefieldHeight,
	}
}

func logFunc(ctx context.Context, level grpc_logging.Level, msg string, fields ...any) {
	slog.Default().Log(ctx, slog.Level(level), msg, fields...)
}
