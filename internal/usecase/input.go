package usecase

import "stockledger/internal/domain/model"

// 一覧の件数
const (
	DefaultListLimit = 100
	MaxListLimit     = 500
)

// POST /restock-add の入力
type RestockInput struct {
	Product string       `json:"product" validate:"required"`
	Qty     model.Number `json:"qty" validate:"required,gt=0"`
	Notes   string       `json:"notes"`
}

// POST /sales-add の入力
// price が無い・数値でないときはカタログ価格を使う。
type SaleInput struct {
	Product       string       `json:"product" validate:"required"`
	Qty           model.Number `json:"qty" validate:"required,gt=0"`
	Price         model.Number `json:"price"`
	Paid          model.Flag   `json:"paid"`
	Deposited     model.Flag   `json:"deposited"`
	Person        string       `json:"person"`
	Seller        string       `json:"seller"`
	PaymentMethod string       `json:"paymentMethod"`
	Notes         string       `json:"notes"`
}

// POST/PATCH /sales-update の入力。
// 変更できるのはこの6項目だけ（それ以外のキーはデコード時に捨てる）。
type AmendSaleInput struct {
	ID            string      `json:"id"`
	Paid          *model.Flag `json:"paid"`
	Deposited     *model.Flag `json:"deposited"`
	PaymentMethod *string     `json:"payment_method"`
	Notes         *string     `json:"notes"`
	Person        *string     `json:"person"`
	Seller        *string     `json:"seller"`
}

// 列名 -> 保存する値（文字数は切り詰め済み）
func (in AmendSaleInput) columns() map[string]any {
	cols := map[string]any{}
	if in.Paid != nil {
		cols["paid"] = bool(*in.Paid)
	}
	if in.Deposited != nil {
		cols["deposited"] = bool(*in.Deposited)
	}
	if in.PaymentMethod != nil {
		cols["payment_method"] = model.Truncate(*in.PaymentMethod, model.MaxPaymentMethodLen)
	}
	if in.Notes != nil {
		cols["notes"] = model.Truncate(*in.Notes, model.MaxNotesLen)
	}
	if in.Person != nil {
		cols["person"] = model.Truncate(*in.Person, model.MaxPersonLen)
	}
	if in.Seller != nil {
		cols["seller"] = model.Truncate(*in.Seller, model.MaxSellerLen)
	}
	return cols
}

// GET /sales-list の入力（クエリ文字列のまま）
type SaleListInput struct {
	Limit     int
	Seller    string
	Product   string
	Paid      string
	Deposited string
}

// GET /ledger-list の入力
type LedgerListInput struct {
	Product string
	Source  string
	Limit   int
}

func normalizeLimit(n int) int {
	if n <= 0 {
		return DefaultListLimit
	}
	if n > MaxListLimit {
		return MaxListLimit
	}
	return n
}

// 空文字は「指定なし」。値はそのまま完全一致で使う。
func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
