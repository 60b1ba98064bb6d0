package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/collectors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/EgorLis/lobbybot/internal/bot"
	"github.com/EgorLis/lobbybot/internal/config"
	"github.com/EgorLis/lobbybot/internal/web"
)

func newRunCmd(o *options) *cobra.Command {
	var (
		console bool
		refresh time.Duration
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the bot and the web dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.run(cmd.Context(), console, refresh, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().BoolVar(&console, "console", false, "read commands for the first account from stdin")
	cmd.Flags().DurationVar(&refresh, "refresh", 30*time.Minute, "catalog refresh interval")
	return cmd
}

func (o *options) run(parent context.Context, console bool, refresh time.Duration, in io.Reader, out io.Writer) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := o.logger()
	loader, err := o.loader(logger)
	if err != nil {
		return err
	}
	cache, err := o.openCache()
	if err != nil {
		return fmt.Errorf("catalog cache: %w", err)
	}
	defer cache.Close()

	metrics := web.NewMetrics()
	metrics.Registry().MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	b := bot.New(loader, config.NewStore(o.configPath), config.NewStore(o.commandsPath), bot.Options{
		LangDir: o.langDir,
		NewCatalog: func(s *config.Settings) (bot.Catalog, error) {
			u, err := newUpdater(cache, s, logger)
			if err != nil {
				return nil, err
			}
			u.OnRefresh = metrics.ObserveRefresh
			return u, nil
		},
		RefreshInterval: refresh,
	}, logger)

	// сервер появляется после Start, события до него только в логе
	var srv atomic.Pointer[web.Server]
	b.OnEvent = func(e bot.Event) {
		logger.WithFields(log.Fields{"account": e.Account, "event": e.Type}).Debug("bot event")
		if s := srv.Load(); s != nil {
			s.Publish(e)
		}
	}

	startErr := b.Start(ctx)
	defer b.Stop()

	webCfg, webErr := b.WebConfig()
	switch {
	case webErr == nil && webCfg.Enabled:
		if logger.GetLevel() < log.DebugLevel {
			gin.SetMode(gin.ReleaseMode)
		}
		srv.Store(web.New(b, webCfg, metrics, logger))
		if startErr != nil {
			logger.WithError(startErr).Errorf("bot is not started, fix the config at http://%s", webCfg.Addr())
		}
	case startErr != nil:
		return startErr
	}

	if console {
		go readConsole(ctx, b, in, out, logger)
	}

	g, gctx := errgroup.WithContext(ctx)
	if s := srv.Load(); s != nil {
		g.Go(func() error { return s.Run(gctx) })
	}
	logger.Info("running… press Ctrl+C to stop")
	g.Go(func() error {
		<-gctx.Done()
		return nil
	})
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("stopping")
	return nil
}

// readConsole — строки из stdin как команды владельца первого аккаунта.
func readConsole(ctx context.Context, b *bot.LobbyBot, in io.Reader, out io.Writer, logger log.FieldLogger) {
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		replies, err := b.Execute(ctx, 0, line)
		for _, r := range replies {
			fmt.Fprintln(out, r)
		}
		if err != nil {
			fmt.Fprintln(out, "error:", err)
		}
		if ctx.Err() != nil {
			return
		}
	}
	if err := sc.Err(); err != nil {
		logger.WithError(err).Warn("console input closed")
	}
}
