package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/iliyamo/clothing-store/internal/config"
	"github.com/iliyamo/clothing-store/internal/notifier"
	"github.com/iliyamo/clothing-store/internal/queue"
	"github.com/iliyamo/clothing-store/internal/router"
	"github.com/iliyamo/clothing-store/internal/service"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the HTTP API on APP_PORT. When QUEUE_ENABLED is true, committed
orders are published to RabbitMQ and the order consumer runs in the same
process. A consumer failure is logged and leaves the API running. SIGINT
or SIGTERM shuts the server down gracefully.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()

	rdb := config.NewRedisClient(rt.cfg.Redis)
	if rdb == nil && rt.cfg.RateLimit.Enabled {
		rt.log.Warn("redis unavailable, rate limiting disabled", zap.String("addr", rt.cfg.Redis.Addr))
	}
	if rdb != nil {
		defer rdb.Close()
	}

	var publisher service.EventPublisher
	if rt.cfg.Queue.Enabled {
		publisher = queue.NewPublisher(rt.cfg.Queue.URL, rt.cfg.Queue.QueueName, rt.log)
	}

	e := router.New(router.Deps{
		Config:    rt.cfg,
		DB:        rt.db,
		Redis:     rdb,
		Publisher: publisher,
		Log:       rt.log,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		addr := ":" + rt.cfg.Port
		rt.log.Info("listening", zap.String("addr", addr), zap.String("env", rt.cfg.Env))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})
	if rt.cfg.Queue.Enabled {
		// The API keeps serving without the consumer; orders do not depend
		// on the broker.
		g.Go(func() error {
			if err := runConsumer(gctx, rt); err != nil {
				rt.log.Error("order consumer stopped", zap.Error(err))
			}
			return nil
		})
	}
	return g.Wait()
}

// runConsumer feeds order events to the configured notifiers until ctx is
// done.
func runConsumer(ctx context.Context, rt *runtime) error {
	h, err := notifier.New(ctx, rt.cfg.Mail, rt.log)
	if err != nil {
		return err
	}
	return queue.NewConsumer(rt.cfg.Queue.URL, rt.cfg.Queue.QueueName, h, rt.log).Run(ctx)
}
