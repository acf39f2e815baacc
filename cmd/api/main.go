package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"stockledger/internal/config"
	"stockledger/internal/handler"
	"stockledger/internal/infra/db"
	infraRepo "stockledger/internal/infra/repository"
	"stockledger/internal/logger"
	"stockledger/internal/metrics"
	"stockledger/internal/server"
	"stockledger/internal/usecase"
	"stockledger/internal/validator"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func main() {
	//.envは任意
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	appLogger, err := logger.New(cfg.AppEnv, cfg.Logger)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	//金額・数量はJSONの数値で返す
	decimal.MarshalJSONWithoutQuotes = true

	//DB接続
	gormDB, err := db.Connect(cfg.Postgres, cfg.IsDevelopment())
	if err != nil {
		appLogger.Fatal("could not connect to database", zap.Error(err))
	}
	if cfg.AutoMigrate {
		if err := db.Migrate(gormDB); err != nil {
			appLogger.Fatal("migrate failed", zap.Error(err))
		}
	}
	appLogger.Info("connected to postgres", zap.String("write_mode", cfg.Sales.WriteMode))

	m := metrics.New("stock")

	//Repository（GORM実装）生成
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	sellerRepo := infraRepo.NewSellerGormRepository(gormDB)
	ledgerRepo := infraRepo.NewLedgerGormRepository(gormDB)
	saleRepo := infraRepo.NewSaleGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)
	txm := infraRepo.NewTxManagerGorm(gormDB)

	//usecaseに渡す部品
	idGen := usecase.UUIDGenerator{}
	clock := usecase.SystemClock{}

	//Usecase生成
	recordingUC := usecase.NewRecordingUsecase(
		productRepo, ledgerRepo, saleRepo, txm, validator.New(), idGen, clock,
		usecase.RecordingOptions{WriteMode: cfg.Sales.WriteMode, PreventOversell: cfg.Sales.PreventOversell},
		appLogger, m,
	)
	saleUC := usecase.NewSaleUsecase(saleRepo, auditRepo, txm, recordingUC, clock, appLogger, m)
	ledgerUC := usecase.NewLedgerUsecase(productRepo, ledgerRepo, idGen, clock, appLogger)
	inventoryUC := usecase.NewInventoryUsecase(ledgerRepo, appLogger)
	sellerUC := usecase.NewSellerUsecase(sellerRepo, appLogger)
	catalogUC := usecase.NewCatalogUsecase(productRepo, appLogger)
	reconcileUC := usecase.NewReconcileUsecase(saleRepo, ledgerRepo, idGen, clock, appLogger, m)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//sequential のときだけ台帳の欠けを定期的に探す
	if cfg.Sales.WriteMode == config.SaleWriteSequential {
		go reconcileUC.Run(ctx, cfg.Reconcile.Interval, cfg.Reconcile.Grace, cfg.Reconcile.Repair)
	}

	//Handler生成
	e := server.New(cfg, appLogger, m,
		handler.NewInventoryHandler(inventoryUC, ledgerUC),
		handler.NewRestockHandler(recordingUC),
		handler.NewSaleHandler(saleUC),
		handler.NewSellerHandler(sellerUC),
		handler.NewCatalogHandler(catalogUC),
	)

	//Server起動
	if err := server.Start(ctx, e, cfg.Addr(), appLogger); err != nil {
		appLogger.Fatal("server stopped", zap.Error(err))
	}
	appLogger.Info("server stopped")
}
