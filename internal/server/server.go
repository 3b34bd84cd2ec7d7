package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/fekuna/trimstore-service/pkg/logger"
)

// Worker is a background loop that returns once ctx is cancelled.
type Worker interface {
	Start(ctx context.Context) error
}

type Config struct {
	HTTPPort        string
	GRPCPort        string
	ShutdownTimeout time.Duration
}

type Server struct {
	cfg     Config
	handler http.Handler
	workers []Worker
	logger  logger.ZapLogger
}

func New(cfg Config, handler http.Handler, log logger.ZapLogger, workers ...Worker) *Server {
	return &Server{cfg: cfg, handler: handler, workers: workers, logger: log}
}

// Run serves HTTP and the gRPC health service and runs the workers until ctx
// is cancelled, then shuts everything down within the shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	httpSrv := &http.Server{
		Addr:              withColon(s.cfg.HTTPPort),
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lis, err := net.Listen("tcp", withColon(s.cfg.GRPCPort))
	if err != nil {
		return fmt.Errorf("grpc listen: %w", err)
	}
	grpcSrv := grpc.NewServer()
	healthSrv := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcSrv, healthSrv)
	reflection.Register(grpcSrv)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("Starting HTTP server", zap.String("addr", httpSrv.Addr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		s.logger.Info("Starting gRPC health server", zap.String("addr", lis.Addr().String()))
		healthSrv.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
		if err := grpcSrv.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("grpc server: %w", err)
		}
		return nil
	})

	for _, w := range s.workers {
		w := w
		g.Go(func() error { return w.Start(ctx) })
	}

	g.Go(func() error {
		<-ctx.Done()
		s.logger.Info("Shutting down server...")
		healthSrv.Shutdown()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()

		stopped := make(chan struct{})
		go func() {
			grpcSrv.GracefulStop()
			close(stopped)
		}()

		err := httpSrv.Shutdown(shutdownCtx)
		select {
		case <-stopped:
		case <-shutdownCtx.Done():
			grpcSrv.Stop()
		}
		if err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}

func withColon(port string) string {
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}
