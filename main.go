package main

import (
	"context"
	"errors"
	"flag"
	"io"
	oshttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"catalyst/internal/api"
	"catalyst/internal/auth"
	"catalyst/internal/avatar"
	"catalyst/internal/commands"
	"catalyst/internal/config"
	"catalyst/internal/http"
	"catalyst/internal/limiter"
	"catalyst/internal/logx"
	"catalyst/internal/metrics"
	"catalyst/internal/notify"
	"catalyst/internal/pages"
	"catalyst/internal/session"
	"catalyst/internal/storage"
	"catalyst/internal/stubs"
	"catalyst/internal/web"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

func run(ctx context.Context, args []string, out io.Writer) error {
	flags := flag.NewFlagSet("catalyst", flag.ContinueOnError)
	listRooms := flags.Bool("list-rooms", false, "Print the room directory of a running instance and exit")
	if err := flags.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*listRooms)
	if err != nil {
		return err
	}

	logx.Init(cfg.IsDevelopment())

	if *listRooms {
		return commands.ListRooms(cfg, out)
	}

	bbStorage, err := storage.NewBboltStorage(cfg.DBFile)
	if err != nil {
		return err
	}
	defer func() { _ = bbStorage.Close() }()

	views, err := web.NewViews()
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(registry)

	directory := stubs.NewDirectory()
	loginLimiter := limiter.NewIPRateLimiter(ctx, rate.Limit(cfg.LoginRate), cfg.LoginBurst, 10*time.Minute)

	p := pages.New(ctx, pages.Deps{
		Devices:    bbStorage,
		Sessions:   session.NewProvider(bbStorage),
		Auth:       auth.NewAuthenticator(),
		Rooms:      directory,
		Toasts:     notify.NewQueue(ctx, cfg.PageStateTTL),
		Avatars:    avatar.NewReader(ctx, avatar.Config{MaxBytes: cfg.MaxAvatarBytes, SlotTTL: cfg.PageStateTTL}),
		Views:      views,
		Metrics:    collector,
		LoginLimit: loginLimiter.Middleware,
	}, pages.Config{
		PageStateTTL:   cfg.PageStateTTL,
		MaxAvatarBytes: cfg.MaxAvatarBytes,
		SecureCookies:  cfg.SecureCookies,
	})

	adminServer := http.NewAdminServer(http.NewAdminRouter(api.NewAdminHandler(directory, bbStorage), registry), cfg.AdminAddr)
	webServer := http.NewWebServer(http.NewRouter(p, web.Static(), cfg.TrustProxy), cfg.Addr)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := adminServer.Start()
		if err != nil && err != oshttp.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		err := webServer.Start()
		if err != nil && err != oshttp.ErrServerClosed {
			return err
		}
		return nil
	})

	// Wait for context cancellation (signal)
	g.Go(func() error {
		<-gCtx.Done()
		logx.Info("shutting down servers")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := adminServer.Shutdown(shutdownCtx); err != nil {
			logx.Error(err, "admin server shutdown failed")
		}
		if err := webServer.Shutdown(shutdownCtx); err != nil {
			logx.Error(err, "web server shutdown failed")
		}
		return nil
	})

	return g.Wait()
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, flag.ErrHelp) {
		logx.Error(err, "application error")
		os.Exit(1)
	}
}
