// zhseg — dictionary-driven Chinese word segmentation daemon.
// Entry point: wires all packages and starts the HTTP server, or runs a CLI subcommand.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/Manjussha/zhseg/internal/api"
	"github.com/Manjussha/zhseg/internal/auth"
	"github.com/Manjussha/zhseg/internal/cli"
	"github.com/Manjussha/zhseg/internal/config"
	"github.com/Manjussha/zhseg/internal/db"
	"github.com/Manjussha/zhseg/internal/history"
	"github.com/Manjussha/zhseg/internal/learning"
	"github.com/Manjussha/zhseg/internal/lexicon"
	"github.com/Manjussha/zhseg/internal/metrics"
	"github.com/Manjussha/zhseg/internal/notify"
	"github.com/Manjussha/zhseg/internal/platform"
	"github.com/Manjussha/zhseg/internal/scheduler"
	"github.com/Manjussha/zhseg/internal/segmenter"
	"github.com/Manjussha/zhseg/internal/telegram"
	"github.com/Manjussha/zhseg/internal/ws"
)

// Version is set via -ldflags at build time.
var Version = "dev"

const usage = `usage: zhseg [command]

commands:
  serve             run the HTTP daemon (default)
  segment [text]    segment text, or each line of stdin
  stats             print the dictionary size
  version           print the version`

func main() {
	cmd := "serve"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "serve":
		serve()
	case "segment", "seg", "stats":
		if err := runCLI(os.Args[1:]); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	case "version", "--version", "-v":
		fmt.Println("zhseg", Version)
	case "help", "--help", "-h":
		fmt.Println(usage)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s\n", cmd, usage)
		os.Exit(2)
	}
}

// runCLI segments from the command line. No database or network services are started.
func runCLI(args []string) error {
	cfg := config.Load()
	seg, err := segmenter.Initialize(cfg.DictPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return cli.New(seg, os.Stdin, os.Stdout).Run(ctx, args)
}

func serve() {
	log.Printf("zhseg %s starting…", Version)

	// ── 1. Load configuration ────────────────────────────────────────────────
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}
	log.Printf("Config: port=%s env=%s workDir=%s dict=%s", cfg.Port, cfg.AppEnv, cfg.WorkDir, cfg.DictPath)

	// ── 2. Ensure work directories exist ────────────────────────────────────
	if err := platform.EnsureDir(cfg.WorkDir); err != nil {
		log.Fatalf("EnsureDir %s: %v", cfg.WorkDir, err)
	}
	if err := platform.EnsureParent(cfg.DBPath); err != nil {
		log.Fatalf("EnsureParent %s: %v", cfg.DBPath, err)
	}

	// ── 3. Open database + migrate ───────────────────────────────────────────
	database, err := db.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("db.New: %v", err)
	}
	defer database.Close()

	if err := database.Migrate(); err != nil {
		log.Fatalf("db.Migrate: %v", err)
	}
	log.Printf("Database ready: %s", cfg.DBPath)

	// Root context — cancelled on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── 4. Metrics ───────────────────────────────────────────────────────────
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.MustNewMetrics(registry)

	// ── 5. Learning table ────────────────────────────────────────────────────
	var table *learning.Table
	if cfg.LearningEnabled {
		table = learning.NewTable()
	}

	// ── 6. Segmenter ─────────────────────────────────────────────────────────
	opts := []segmenter.Option{segmenter.WithCache(cfg.SegmentCacheSize)}
	if table != nil {
		opts = append(opts, segmenter.WithObserver(table))
	}
	seg, dictErr := segmenter.Initialize(cfg.DictPath, opts...)
	if dictErr != nil && !errors.Is(dictErr, lexicon.ErrSourceUnavailable) {
		log.Fatalf("segmenter.Initialize: %v", dictErr)
	}
	m.SetLexiconWords(seg.LexiconSize())
	log.Printf("Dictionary loaded: %d words", seg.LexiconSize())

	// ── 7. History store ─────────────────────────────────────────────────────
	hist := history.New(database, cfg.HistoryMaxText)

	// ── 8. WebSocket hub ─────────────────────────────────────────────────────
	hub := ws.NewHub()
	go hub.Run(ctx)

	// ── 9. Telegram bot ──────────────────────────────────────────────────────
	cmdHandler := telegram.NewCommandHandler(seg, hist, table, m)
	bot, err := telegram.New(cfg.TelegramToken, cfg.TelegramChatID, cmdHandler)
	if err != nil {
		log.Printf("Telegram init error (continuing without Telegram): %v", err)
	}
	if bot != nil {
		go bot.Start(ctx)
		log.Printf("Telegram bot started (chatID=%d)", cfg.TelegramChatID)
	}

	// ── 10. Notify dispatcher ────────────────────────────────────────────────
	notifier := notify.New(telegramSender(bot))
	if dictErr != nil {
		notifier.Warn(fmt.Sprintf("dictionary unavailable, segmenting with an empty lexicon: %v", dictErr))
	}

	// ── 11. Cron scheduler ───────────────────────────────────────────────────
	schedEngine := scheduler.New(database, table, hist, m, cfg.HistoryRetentionDays)
	if n, err := schedEngine.RestoreLearning(ctx); err != nil {
		log.Printf("RestoreLearning: %v", err)
	} else if table != nil {
		log.Printf("Learning table restored: %d words", n)
	}
	if err := schedEngine.Start(ctx, cfg.LearningSnapshotCron); err != nil {
		log.Printf("scheduler.Start: %v", err)
		notifier.Warn(fmt.Sprintf("scheduler disabled: %v", err))
	}

	// ── 12. Admin guard ──────────────────────────────────────────────────────
	guard, err := auth.NewGuard(cfg.AdminToken)
	if err != nil {
		log.Fatalf("auth.NewGuard: %v", err)
	}
	if !guard.Enabled() {
		log.Println("ADMIN_TOKEN not set — admin routes are disabled")
	}

	// ── 13. HTTP router ──────────────────────────────────────────────────────
	handler := api.NewRouter(&api.Deps{
		Segmenter: seg,
		History:   hist,
		Learning:  table,
		Metrics:   m,
		Gatherer:  registry,
		Hub:       hub,
		Scheduler: schedEngine,
		Guard:     guard,
		Config:    cfg,
	})

	// ── 14. Start HTTP server ────────────────────────────────────────────────
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("zhseg listening on http://0.0.0.0:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("ListenAndServe: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Printf("Shutting down…")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("HTTP shutdown: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		log.Printf("%v", err)
	}
	stop()

	if _, err := schedEngine.RunSnapshot(context.Background()); err != nil {
		log.Printf("final snapshot: %v", err)
	}
	log.Printf("zhseg stopped.")
}

// telegramSender wraps *telegram.Bot to implement notify.Sender.
// Returns nil if bot is nil (Telegram disabled).
func telegramSender(bot *telegram.Bot) notify.Sender {
	if bot == nil {
		return nil
	}
	return bot
}
