package usecase

import (
	"context"
	"errors"
	"strings"

	"stockledger/internal/config"
	"stockledger/internal/domain/model"
	"stockledger/internal/metrics"
	repo "stockledger/internal/repository"
	"stockledger/internal/validator"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type RecordingOptions struct {
	WriteMode       string // config.SaleWriteTransactional / config.SaleWriteSequential
	PreventOversell bool
}

// 入庫・販売の記録（保留 -> 確定）。
// 販売は販売行と台帳行の2つを書く。
type RecordingUsecase struct {
	products  repo.ProductRepository
	ledger    repo.LedgerRepository
	sales     repo.SaleRepository
	tx        repo.TransactionManager
	validator InputValidator
	idGen     IDGenerator
	clock     Clock
	opts      RecordingOptions
	log       *zap.Logger
	metrics   *metrics.Metrics
}

// DI
func NewRecordingUsecase(
	products repo.ProductRepository,
	ledger repo.LedgerRepository,
	sales repo.SaleRepository,
	tx repo.TransactionManager,
	validator InputValidator,
	idGen IDGenerator,
	clock Clock,
	opts RecordingOptions,
	log *zap.Logger,
	m *metrics.Metrics,
) *RecordingUsecase {
	if opts.WriteMode == "" {
		opts.WriteMode = config.SaleWriteTransactional
	}
	return &RecordingUsecase{
		products:  products,
		ledger:    ledger,
		sales:     sales,
		tx:        tx,
		validator: validator,
		idGen:     idGen,
		clock:     clock,
		opts:      opts,
		log:       log,
		metrics:   m,
	}
}

// RecordRestock appends a positive ledger entry for a known product.
func (u *RecordingUsecase) RecordRestock(ctx context.Context, in RestockInput) (model.StockLedgerEntry, error) {
	in.Product = strings.TrimSpace(in.Product)
	if err := u.validator.Struct(in); err != nil {
		return model.StockLedgerEntry{}, u.fail("restock", inputError(err))
	}

	meta := map[string]any{"notes": model.Truncate(in.Notes, model.MaxNotesLen)}
	entry, err := appendEntry(ctx, u.products, u.ledger, u.idGen, u.clock, in.Product, in.Qty.Value, model.LedgerSourceRestock, meta)
	if err != nil {
		return model.StockLedgerEntry{}, u.fail("restock", err)
	}

	u.metrics.RecordRestock()
	u.log.Info("restock recorded",
		zap.String("product", entry.Product),
		zap.String("qty", entry.Delta.String()),
	)
	return entry, nil
}

// RecordSale writes the sale row and its negative ledger entry.
func (u *RecordingUsecase) RecordSale(ctx context.Context, in SaleInput) (model.SaleRecord, error) {
	in.Product = strings.TrimSpace(in.Product)
	if err := u.validator.Struct(in); err != nil {
		return model.SaleRecord{}, u.fail("sale", inputError(err))
	}

	var (
		sale model.SaleRecord
		err  error
	)
	if u.opts.WriteMode == config.SaleWriteSequential {
		sale, err = u.recordSaleSequential(ctx, in)
	} else {
		sale, err = u.recordSaleTx(ctx, in)
	}
	if err != nil {
		return model.SaleRecord{}, u.fail("sale", err)
	}

	u.metrics.RecordSale()
	u.log.Info("sale recorded",
		zap.String("sale_id", sale.ID.String()),
		zap.String("product", sale.Product),
		zap.String("qty", sale.Qty.String()),
		zap.String("total", sale.Total.StringFixed(2)),
	)
	return sale, nil
}

// 2つの書き込みを1つのtxで行う。どちらかが失敗すれば両方ロールバック。
func (u *RecordingUsecase) recordSaleTx(ctx context.Context, in SaleInput) (model.SaleRecord, error) {
	var saved model.SaleRecord

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		sale, entry, err := u.prepareSale(ctx, r.Products(), r.Ledger(), in)
		if err != nil {
			return err
		}

		if saved, err = r.Sales().Create(ctx, sale); err != nil {
			return StorageError(err)
		}
		if _, err := r.Ledger().Append(ctx, entry); err != nil {
			return StorageError(err)
		}
		return nil
	})
	if err != nil {
		return model.SaleRecord{}, err
	}
	return saved, nil
}

// 販売行を確定してから台帳に追記する。
// 台帳だけ失敗したときは戻さず、PartialCommit として返す（reconcilerが補完する）。
func (u *RecordingUsecase) recordSaleSequential(ctx context.Context, in SaleInput) (model.SaleRecord, error) {
	sale, entry, err := u.prepareSale(ctx, u.products, u.ledger, in)
	if err != nil {
		return model.SaleRecord{}, err
	}

	saved, err := u.sales.Create(ctx, sale)
	if err != nil {
		return model.SaleRecord{}, StorageError(err)
	}

	if _, err := u.ledger.Append(ctx, entry); err != nil {
		u.log.Error("ledger append failed after sale commit",
			zap.String("sale_id", saved.ID.String()),
			zap.String("product", saved.Product),
			zap.String("qty", saved.Qty.String()),
			zap.Error(err),
		)
		u.metrics.RecordPartialCommit()
		return model.SaleRecord{}, PartialCommitError(saved.ID, err)
	}
	return saved, nil
}

// カタログ参照 -> 単価決定 -> 販売行と台帳行を組み立てる（まだ書かない）
func (u *RecordingUsecase) prepareSale(ctx context.Context, products repo.ProductRepository, ledger repo.LedgerRepository, in SaleInput) (model.SaleRecord, model.StockLedgerEntry, error) {
	p, err := lookupProduct(ctx, products, in.Product)
	if err != nil {
		return model.SaleRecord{}, model.StockLedgerEntry{}, err
	}

	if u.opts.PreventOversell {
		if err := checkStock(ctx, ledger, p.Name, in.Qty.Value); err != nil {
			return model.SaleRecord{}, model.StockLedgerEntry{}, err
		}
	}

	//明示された数値があればそれ、無ければカタログ価格
	unitPrice := p.Price
	if in.Price.Valid {
		unitPrice = in.Price.Value
	}

	sale, err := model.NewSaleRecord(u.idGen.New(), p.Name, in.Qty.Value, unitPrice, model.Settlement{
		Paid:          bool(in.Paid),
		Deposited:     bool(in.Deposited),
		Person:        in.Person,
		Seller:        in.Seller,
		PaymentMethod: in.PaymentMethod,
		Notes:         in.Notes,
	}, u.clock.Now())
	if err != nil {
		return model.SaleRecord{}, model.StockLedgerEntry{}, ValidationError(err.Error())
	}

	entry, err := saleLedgerEntry(u.idGen, sale)
	if err != nil {
		return model.SaleRecord{}, model.StockLedgerEntry{}, ValidationError(err.Error())
	}
	return sale, entry, nil
}

// 販売に対応する台帳行（-qty, sale_id つき）
func saleLedgerEntry(idGen IDGenerator, sale model.SaleRecord) (model.StockLedgerEntry, error) {
	saleID := sale.ID
	return model.NewLedgerEntry(idGen.New(), sale.Product, sale.Qty.Neg(), model.LedgerSourceSale, sale.LedgerMeta(), &saleID, sale.CreatedAt)
}

func checkStock(ctx context.Context, ledger repo.LedgerRepository, product string, qty decimal.Decimal) error {
	levels, err := ledger.SumByProduct(ctx, &product)
	if err != nil {
		return StorageError(err)
	}

	current := decimal.Zero
	for _, l := range levels {
		if l.Product == product {
			current = l.Qty
		}
	}
	if qty.GreaterThan(current) {
		return ValidationError("insufficient stock")
	}
	return nil
}

// 入力の不備だけ400にする。それ以外（検証器の誤用など）は500。
func inputError(err error) error {
	if errors.Is(err, validator.ErrInvalidInput) {
		return ValidationError(err.Error())
	}
	return err
}

func (u *RecordingUsecase) fail(operation string, err error) error {
	ue := toError(err)
	u.metrics.RecordFailure(operation, string(ue.Kind))
	if ue.Kind == KindStorage {
		u.log.Warn(operation+" failed", zap.Error(ue))
	}
	return ue
}
