// Command mazewar-server runs the MazeWar multiplayer maze server: it
// accepts TCP connections, logs each into a dedicated session, and
// shuts down gracefully on SIGHUP.
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

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/FardinIqbal/concurrent-network-game-server/internal/config"
	"github.com/FardinIqbal/concurrent-network-game-server/internal/game"
	"github.com/FardinIqbal/concurrent-network-game-server/internal/logger"
	"github.com/FardinIqbal/concurrent-network-game-server/internal/maze"
	"github.com/FardinIqbal/concurrent-network-game-server/internal/registry"
	"github.com/FardinIqbal/concurrent-network-game-server/internal/session"
)

func main() {
	root := &cobra.Command{
		Use:   "mazewar-server",
		Short: "MazeWar multiplayer maze server",
		RunE:  run,
	}

	root.Flags().IntP("port", "p", 0, "listen port (required)")
	root.Flags().StringP("template", "t", "", "maze template file (default: compiled-in maze)")
	root.Flags().StringP("config", "c", "", "YAML config file overriding defaults")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	port, _ := cmd.Flags().GetInt("port")
	templatePath, _ := cmd.Flags().GetString("template")
	configPath, _ := cmd.Flags().GetString("config")

	fileCfg, err := config.LoadFile(configPath)
	if err != nil {
		return err
	}
	flagCfg := config.Config{Port: port, TemplatePath: templatePath}
	cfg := config.Merge(fileCfg, flagCfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("startup failure: %w", err)
	}

	if err := logger.Init(cfg.LogLevel, cfg.LogFile); err != nil {
		return fmt.Errorf("startup failure: init logger: %w", err)
	}
	log := logger.Log

	lines, err := loadTemplate(cfg.TemplatePath)
	if err != nil {
		return fmt.Errorf("startup failure: %w", err)
	}
	m, err := maze.New(lines, time.Now().UnixNano())
	if err != nil {
		return fmt.Errorf("startup failure: build maze: %w", err)
	}

	reg := registry.New(cfg.RegistryCap)
	g := game.New(m, maze.ViewDepth, log)

	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Port))
	if err != nil {
		return fmt.Errorf("startup failure: listen: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGHUP)
	defer stop()

	serverID := uuid.NewString()
	log.Info("mazewar-server starting", "server_id", serverID, "port", cfg.Port, "registry_capacity", cfg.RegistryCap)

	errCh := make(chan error, 1)
	go func() {
		errCh <- acceptLoop(ctx, listener, reg, g, &cfg, log)
	}()

	select {
	case <-ctx.Done():
		log.Info("received shutdown signal, draining sessions")
		listener.Close()
		reg.ShutdownAll()
		reg.WaitForEmpty()
		log.Info("all sessions drained, exiting")
		<-errCh
		return nil
	case err := <-errCh:
		return err
	}
}

func acceptLoop(ctx context.Context, listener net.Listener, reg *registry.Registry, g *game.Game, cfg *config.Config, log *slog.Logger) error {
	for {
		conn, err := listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				return fmt.Errorf("accept: %w", err)
			}
		}

		var limiter *rate.Limiter
		if cfg.RateLimit > 0 {
			limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)
		}

		go func() {
			connID := uuid.NewString()
			log.Debug("connection accepted", "conn_id", connID, "remote", conn.RemoteAddr())
			s := session.New(conn, reg, g, limiter, cfg.PollInterval, cfg.Purgatory, log.With("conn_id", connID))
			s.Run(ctx)
			log.Debug("connection ended", "conn_id", connID)
		}()
	}
}
