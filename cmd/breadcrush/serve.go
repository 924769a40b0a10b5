package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/breadcrush/internal/config"
	"github.com/vovakirdan/breadcrush/internal/httpserver"
	"github.com/vovakirdan/breadcrush/internal/hub"
	"github.com/vovakirdan/breadcrush/internal/loyalty"
	"github.com/vovakirdan/breadcrush/internal/platform/tui"
	"github.com/vovakirdan/breadcrush/internal/ranking"
	"github.com/vovakirdan/breadcrush/internal/storage"
)

var flagEnvFile string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API and optional SSH server",
	Long: `Start the Bread Crush servers.

The HTTP JSON API is always started. The SSH server starts when
BREADCRUSH_SSH_ADDR is set; each SSH user plays under their user name.

Settings are read from the environment, after loading --env-file if it exists:
  BREADCRUSH_HTTP_ADDR      HTTP listen address (default :8080)
  BREADCRUSH_SSH_ADDR       SSH listen address (default: disabled)
  BREADCRUSH_SSH_HOST_KEY   SSH host key path, generated if missing
  BREADCRUSH_IDLE_TIMEOUT   Drop idle sessions after this long (default 30m)
  BREADCRUSH_MAX_SESSIONS   Live HTTP session limit (default 1000)
  BREADCRUSH_TICK_RATE      Cascade clock updates per second (default 20)
  REDIS_ADDR                Mirror the leaderboard to Redis
  AMQP_URL                  Publish loyalty credits to RabbitMQ
  AMQP_EXCHANGE             Exchange for loyalty credits

Results, the loyalty ledger and characters are stored in --db.

Examples:
  breadcrush serve
  BREADCRUSH_SSH_ADDR=:23234 breadcrush serve
  breadcrush serve --env-file ./prod.env --log-level debug`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagEnvFile, "env-file", ".env", "Environment file to load if present")
}

// collaborators are the optional remote backends opened for serve.
type collaborators struct {
	store  *storage.Store
	redis  *ranking.Redis
	amqp   *loyalty.AMQPSink
	board  ranking.Board
	sink   loyalty.Sink
	logger *log.Logger
}

func openCollaborators(ctx context.Context, srv config.ServerConfig, logger *log.Logger) (*collaborators, error) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return nil, err
	}
	c := &collaborators{store: store, logger: logger}
	boards := ranking.Multi{store}
	sinks := loyalty.Fanout{store}

	if srv.RedisAddr != "" {
		r, err := ranking.DialRedis(ctx, srv.RedisAddr)
		if err != nil {
			c.close()
			return nil, err
		}
		c.redis = r
		boards = append(boards, r)
		logger.Info("leaderboard mirrored to redis", "addr", srv.RedisAddr)
	}
	if srv.AMQPURL != "" {
		amqpCfg := loyalty.DefaultAMQPConfig(srv.AMQPURL)
		amqpCfg.Exchange = srv.AMQPExchange
		s, err := loyalty.DialAMQP(amqpCfg)
		if err != nil {
			c.close()
			return nil, err
		}
		c.amqp = s
		sinks = append(sinks, s)
		logger.Info("loyalty credits published to amqp", "exchange", amqpCfg.Exchange)
	}

	c.board = boards
	c.sink = sinks
	return c, nil
}

func (c *collaborators) close() {
	if c.amqp != nil {
		if err := c.amqp.Close(); err != nil {
			c.logger.Warn("closing amqp", "error", err)
		}
	}
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			c.logger.Warn("closing redis", "error", err)
		}
	}
	if err := c.store.Close(); err != nil {
		c.logger.Warn("closing database", "error", err)
	}
}

func runServe(_ *cobra.Command, _ []string) {
	if err := godotenv.Load(flagEnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		fail("loading %s: %v", flagEnvFile, err)
	}
	logger, err := newLogger(os.Stderr)
	if err != nil {
		fail("%v", err)
	}
	gameCfg, err := presetGameConfig()
	if err != nil {
		fail("%v", err)
	}
	srvCfg := config.ServerFromEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	collab, err := openCollaborators(ctx, srvCfg, logger)
	if err != nil {
		fail("%v", err)
	}
	defer collab.close()

	dispatcher := loyalty.NewDispatcher(loyalty.DefaultDispatcherConfig(), collab.sink, logger.WithPrefix("loyalty"))
	dispatcher.Start()
	defer func() {
		dispatcher.Stop()
		delivered, dropped, failed := dispatcher.Stats()
		logger.Info("loyalty dispatcher stopped", "delivered", delivered, "dropped", dropped, "failed", failed)
	}()

	recorder := &hub.Recorder{Board: collab.board, Characters: collab.store, Logger: logger.WithPrefix("results")}
	h := hub.New(hub.Config{
		TickRate:    srvCfg.TickRate,
		IdleTimeout: srvCfg.IdleTimeout,
		MaxSessions: srvCfg.MaxSessions,
	}, gameCfg, recorder, dispatcher, logger.WithPrefix("hub"))
	h.Start()
	defer h.Stop()

	api := httpserver.New(h, collab.board, logger)
	errs := make(chan error, 2)
	go func() { errs <- api.ListenAndServe(srvCfg.HTTPAddr) }()

	var sshSrv *tui.SSHServer
	if srvCfg.SSHAddr != "" {
		sshCfg := tui.DefaultSSHServerConfig()
		sshCfg.Address = srvCfg.SSHAddr
		sshCfg.HostKeyPath = srvCfg.SSHHostKey
		sshCfg.IdleTimeout = srvCfg.IdleTimeout
		sshSrv, err = tui.NewSSHServer(sshCfg, tui.Deps{
			Game:     gameCfg,
			Preset:   config.DifficultyNormal,
			Scores:   collab.store,
			Recorder: recorder,
			Credits:  dispatcher,
			Logger:   logger,
		})
		if err != nil {
			fail("%v", err)
		}
		go func() { errs <- sshSrv.ListenAndServe() }()
		fmt.Printf("Connect with: ssh localhost -p %s\n", portOf(srvCfg.SSHAddr))
	}

	select {
	case <-ctx.Done():
		logger.Info("shutting down...")
	case err := <-errs:
		if err != nil {
			logger.Error("server error", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := api.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown", "error", err)
	}
	if sshSrv != nil {
		if err := sshSrv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("ssh shutdown", "error", err)
		}
	}
}

// portOf returns the port part of a listen address.
func portOf(addr string) string {
	if _, port, err := net.SplitHostPort(addr); err == nil {
		return port
	}
	return addr
}
