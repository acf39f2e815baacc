// reconcile lists sales that were recorded without their stock ledger entry
// (a ledger write that failed after the sale row committed) and, with -repair,
// appends the missing negative entry for each of them. Sale rows are never changed.
//
// Usage (report only):
//
//	go run ./cmd/reconcile -grace=5m
//
// To append the missing entries:
//
//	go run ./cmd/reconcile -grace=5m -repair
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"stockledger/internal/config"
	"stockledger/internal/infra/db"
	infraRepo "stockledger/internal/infra/repository"
	"stockledger/internal/logger"
	"stockledger/internal/usecase"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type options struct {
	grace   time.Duration
	repair  bool
	limit   int
	timeout time.Duration

	// 明示されたフラグ名
	set map[string]bool
}

// フラグだけを読む（DB設定はまだ見ない）
func parseFlags(args []string) (options, error) {
	fs := flag.NewFlagSet("reconcile", flag.ContinueOnError)
	opts := options{set: map[string]bool{}}
	fs.DurationVar(&opts.grace, "grace", 0, "Only sales older than this are considered (default: RECONCILE_GRACE)")
	fs.BoolVar(&opts.repair, "repair", false, "Append the missing ledger entries (default: RECONCILE_REPAIR)")
	fs.IntVar(&opts.limit, "limit", 500, "Maximum number of sales to inspect")
	fs.DurationVar(&opts.timeout, "timeout", 2*time.Minute, "Overall timeout")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	fs.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })
	return opts, nil
}

// 指定されなかったフラグは環境変数の設定で埋める
func (o options) withDefaults(cfg config.ReconcileConfig) options {
	if !o.set["grace"] {
		o.grace = cfg.Grace
	}
	if !o.set["repair"] {
		o.repair = cfg.Repair
	}
	return o
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		os.Exit(2)
	}

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	opts = opts.withDefaults(cfg.Reconcile)

	appLogger, err := logger.New(cfg.AppEnv, cfg.Logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = appLogger.Sync() }()

	gormDB, err := db.Connect(cfg.Postgres, false)
	if err != nil {
		appLogger.Fatal("could not connect to database", zap.Error(err))
	}

	uc := usecase.NewReconcileUsecase(
		infraRepo.NewSaleGormRepository(gormDB),
		infraRepo.NewLedgerGormRepository(gormDB),
		usecase.UUIDGenerator{},
		usecase.SystemClock{},
		appLogger,
		nil,
	)

	ctx, cancel := context.WithTimeout(context.Background(), opts.timeout)
	defer cancel()

	res, err := uc.RunOnce(ctx, opts.grace, opts.repair, opts.limit)
	if err != nil {
		appLogger.Fatal("reconcile failed", zap.Error(err))
	}

	fmt.Printf("orphans=%d repaired=%d repair=%v\n", res.Orphans, res.Repaired, opts.repair)
	if res.Orphans > res.Repaired && opts.repair {
		os.Exit(2)
	}
}
