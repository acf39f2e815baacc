package usecase_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"stockledger/internal/domain/model"
	"stockledger/internal/metrics"
	repo "stockledger/internal/repository"
	"stockledger/internal/usecase"
	"stockledger/internal/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// =====================
// in-memory store（txはスナップショットで戻す）
// =====================

type memStore struct {
	mu sync.Mutex

	products map[string]model.Product
	sellers  []model.Seller
	ledger   []model.StockLedgerEntry
	sales    []model.SaleRecord
	audits   []model.SaleAuditLog

	failLedgerAppend error
	failSaleCreate   error
}

func newMemStore(products ...model.Product) *memStore {
	s := &memStore{products: map[string]model.Product{}}
	for _, p := range products {
		s.products[p.Name] = p
	}
	return s
}

func (s *memStore) setPrice(name string, price decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.products[name]
	p.Price = price
	s.products[name] = p
}

func (s *memStore) ledgerEntries() []model.StockLedgerEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.StockLedgerEntry(nil), s.ledger...)
}

func (s *memStore) saleRows() []model.SaleRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.SaleRecord(nil), s.sales...)
}

func (s *memStore) auditRows() []model.SaleAuditLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.SaleAuditLog(nil), s.audits...)
}

type memProducts struct{ s *memStore }

func (r memProducts) FindByName(ctx context.Context, name string) (model.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[name]
	if !ok {
		return model.Product{}, repo.ErrNotFound
	}
	return p, nil
}

type memSellers struct{ s *memStore }

func (r memSellers) ListActive(ctx context.Context) ([]model.Seller, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.Seller
	for _, sl := range r.s.sellers {
		if sl.Active {
			out = append(out, sl)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type memLedger struct{ s *memStore }

func (r memLedger) Append(ctx context.Context, e model.StockLedgerEntry) (model.StockLedgerEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failLedgerAppend != nil {
		return model.StockLedgerEntry{}, r.s.failLedgerAppend
	}
	r.s.ledger = append(r.s.ledger, e)
	return e, nil
}

func (r memLedger) sums() map[string]decimal.Decimal {
	sums := map[string]decimal.Decimal{}
	for _, e := range r.s.ledger {
		sums[e.Product] = sums[e.Product].Add(e.Delta)
	}
	return sums
}

func sortedKeys(m map[string]decimal.Decimal) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (r memLedger) SumByProduct(ctx context.Context, product *string) ([]model.StockLevel, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sums := r.sums()
	var out []model.StockLevel
	for _, k := range sortedKeys(sums) {
		if product != nil && *product != k {
			continue
		}
		out = append(out, model.StockLevel{Product: k, Qty: sums[k]})
	}
	return out, nil
}

func (r memLedger) CurrentInventory(ctx context.Context) ([]model.CurrentInventoryRow, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sums := r.sums()
	var out []model.CurrentInventoryRow
	for _, k := range sortedKeys(sums) {
		out = append(out, model.CurrentInventoryRow{Product: k, Qty: sums[k], Price: r.s.products[k].Price})
	}
	return out, nil
}

func (r memLedger) List(ctx context.Context, f repo.LedgerListFilter) ([]model.StockLedgerEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.StockLedgerEntry
	for i := len(r.s.ledger) - 1; i >= 0 && len(out) < f.Limit; i-- {
		e := r.s.ledger[i]
		if f.Product != nil && e.Product != *f.Product {
			continue
		}
		if f.Source != nil && e.Source != *f.Source {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

type memSales struct{ s *memStore }

func (r memSales) Create(ctx context.Context, sale model.SaleRecord) (model.SaleRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failSaleCreate != nil {
		return model.SaleRecord{}, r.s.failSaleCreate
	}
	r.s.sales = append(r.s.sales, sale)
	return sale, nil
}

func (r memSales) FindByID(ctx context.Context, id uuid.UUID) (model.SaleRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, s := range r.s.sales {
		if s.ID == id {
			return s, nil
		}
	}
	return model.SaleRecord{}, repo.ErrNotFound
}

func (r memSales) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) (model.SaleRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.sales {
		if r.s.sales[i].ID != id {
			continue
		}
		s := &r.s.sales[i]
		for col, v := range fields {
			switch col {
			case "paid":
				s.Paid = v.(bool)
			case "deposited":
				s.Deposited = v.(bool)
			case "payment_method":
				s.PaymentMethod = v.(string)
			case "notes":
				s.Notes = v.(string)
			case "person":
				s.Person = v.(string)
			case "seller":
				s.Seller = v.(string)
			default:
				panic("unexpected column " + col)
			}
		}
		return *s, nil
	}
	return model.SaleRecord{}, repo.ErrNotFound
}

func (r memSales) List(ctx context.Context, f repo.SaleListFilter) ([]model.SaleRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.SaleRecord
	for i := len(r.s.sales) - 1; i >= 0 && len(out) < f.Limit; i-- {
		s := r.s.sales[i]
		if f.Seller != nil && s.Seller != *f.Seller {
			continue
		}
		if f.Product != nil && s.Product != *f.Product {
			continue
		}
		if f.Paid != nil && s.Paid != *f.Paid {
			continue
		}
		if f.Deposited != nil && s.Deposited != *f.Deposited {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (r memSales) ListOrphans(ctx context.Context, createdBefore time.Time, limit int) ([]model.SaleRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	linked := map[uuid.UUID]bool{}
	for _, e := range r.s.ledger {
		if e.SaleID != nil {
			linked[*e.SaleID] = true
		}
	}
	var out []model.SaleRecord
	for _, s := range r.s.sales {
		if !linked[s.ID] && s.CreatedAt.Before(createdBefore) && len(out) < limit {
			out = append(out, s)
		}
	}
	return out, nil
}

type memAudits struct{ s *memStore }

func (r memAudits) Create(ctx context.Context, log model.SaleAuditLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	log.ID = int64(len(r.s.audits) + 1)
	r.s.audits = append(r.s.audits, log)
	return nil
}

func (r memAudits) ListBySale(ctx context.Context, saleID uuid.UUID) ([]model.SaleAuditLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.SaleAuditLog
	for i := len(r.s.audits) - 1; i >= 0; i-- {
		if r.s.audits[i].SaleID == saleID {
			out = append(out, r.s.audits[i])
		}
	}
	return out, nil
}

type memTxRepos struct{ s *memStore }

func (r memTxRepos) Products() repo.ProductRepository   { return memProducts{r.s} }
func (r memTxRepos) Ledger() repo.LedgerRepository      { return memLedger{r.s} }
func (r memTxRepos) Sales() repo.SaleRepository         { return memSales{r.s} }
func (r memTxRepos) AuditLogs() repo.AuditLogRepository { return memAudits{r.s} }

type memTx struct{ s *memStore }

func (tm memTx) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	tm.s.mu.Lock()
	ledger := append([]model.StockLedgerEntry(nil), tm.s.ledger...)
	sales := append([]model.SaleRecord(nil), tm.s.sales...)
	audits := append([]model.SaleAuditLog(nil), tm.s.audits...)
	tm.s.mu.Unlock()

	if err := fn(memTxRepos{tm.s}); err != nil {
		//rollback
		tm.s.mu.Lock()
		tm.s.ledger, tm.s.sales, tm.s.audits = ledger, sales, audits
		tm.s.mu.Unlock()
		return err
	}
	return nil
}

// =====================
// 固定の時計
// =====================

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// =====================
// usecase一式
// =====================

type harness struct {
	store   *memStore
	clock   *fakeClock
	metrics *metrics.Metrics

	catalog   *usecase.CatalogUsecase
	ledger    *usecase.LedgerUsecase
	inventory *usecase.InventoryUsecase
	recording *usecase.RecordingUsecase
	sales     *usecase.SaleUsecase
	sellers   *usecase.SellerUsecase
	reconcile *usecase.ReconcileUsecase
}

func newHarness(opts usecase.RecordingOptions, products ...model.Product) *harness {
	store := newMemStore(products...)
	clock := newFakeClock()
	m := metrics.New("test")
	log := zap.NewNop()
	ids := usecase.UUIDGenerator{}

	h := &harness{store: store, clock: clock, metrics: m}
	h.catalog = usecase.NewCatalogUsecase(memProducts{store}, log)
	h.ledger = usecase.NewLedgerUsecase(memProducts{store}, memLedger{store}, ids, clock, log)
	h.inventory = usecase.NewInventoryUsecase(memLedger{store}, log)
	h.recording = usecase.NewRecordingUsecase(
		memProducts{store}, memLedger{store}, memSales{store}, memTx{store},
		validator.New(), ids, clock, opts, log, m,
	)
	h.sales = usecase.NewSaleUsecase(memSales{store}, memAudits{store}, memTx{store}, h.recording, clock, log, m)
	h.sellers = usecase.NewSellerUsecase(memSellers{store}, log)
	h.reconcile = usecase.NewReconcileUsecase(memSales{store}, memLedger{store}, ids, clock, log, m)
	return h
}

func product(name, price string) model.Product {
	return model.Product{Name: name, Price: decimal.RequireFromString(price)}
}

func num(s string) model.Number {
	return model.NewNumber(decimal.RequireFromString(s))
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
