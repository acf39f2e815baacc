package usecase_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"stockledger/internal/domain/model"
	"stockledger/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedSale(t *testing.T, h *harness, in usecase.SaleInput) model.SaleRecord {
	t.Helper()
	sale, err := h.sales.Create(context.Background(), in)
	require.NoError(t, err)
	return sale
}

func TestSaleUsecase_AmendIgnoresUnknownFields(t *testing.T) {
	h := newHarness(transactional, product("Gushers", "3.00"))
	sale := seedSale(t, h, usecase.SaleInput{Product: "Gushers", Qty: num("4"), Price: num("2.5")})

	var in usecase.AmendSaleInput
	body := `{"id":"` + sale.ID.String() + `","paid":true,"extraField":"x","total":999,"product":"Takis"}`
	require.NoError(t, json.Unmarshal([]byte(body), &in))

	updated, err := h.sales.Amend(context.Background(), in)
	require.NoError(t, err)
	assert.True(t, updated.Paid)

	// 変更不可の項目はそのまま
	assert.Equal(t, "Gushers", updated.Product)
	assertDec(t, "4", updated.Qty)
	assertDec(t, "2.5", updated.Price)
	assertDec(t, "10.00", updated.Total)

	audits := h.store.auditRows()
	require.Len(t, audits, 1)
	assert.Equal(t, sale.ID, audits[0].SaleID)
	assert.Equal(t, model.AuditActionAmendSale, audits[0].Action)
	assert.JSONEq(t, `{"paid":false}`, audits[0].BeforeJSON)
	assert.JSONEq(t, `{"paid":true}`, audits[0].AfterJSON)
}

func TestSaleUsecase_AmendEmptyPatch(t *testing.T) {
	h := newHarness(transactional, product("Gushers", "3.00"))
	sale := seedSale(t, h, usecase.SaleInput{Product: "Gushers", Qty: num("1")})

	_, err := h.sales.Amend(context.Background(), usecase.AmendSaleInput{ID: sale.ID.String()})
	ue := assertKind(t, err, usecase.KindValidation)
	assert.Equal(t, "no allowed fields to update", ue.Message)

	assert.Empty(t, h.store.auditRows())
	assert.Equal(t, sale, h.store.saleRows()[0])
}

func TestSaleUsecase_AmendBadID(t *testing.T) {
	h := newHarness(transactional, product("Gushers", "3.00"))
	paid := model.Flag(true)

	_, err := h.sales.Amend(context.Background(), usecase.AmendSaleInput{ID: "  ", Paid: &paid})
	ue := assertKind(t, err, usecase.KindValidation)
	assert.Equal(t, "missing id", ue.Message)

	// UUIDでないidは一致する行が無いので not found
	_, err = h.sales.Amend(context.Background(), usecase.AmendSaleInput{ID: "42", Paid: &paid})
	ue = assertKind(t, err, usecase.KindNotFound)
	assert.Equal(t, "sale not found", ue.Message)
	assert.Empty(t, h.store.auditRows())
}

func TestSaleUsecase_AmendNotFound(t *testing.T) {
	h := newHarness(transactional, product("Gushers", "3.00"))
	paid := model.Flag(true)

	_, err := h.sales.Amend(context.Background(), usecase.AmendSaleInput{ID: uuid.NewString(), Paid: &paid})
	ue := assertKind(t, err, usecase.KindNotFound)
	assert.Equal(t, 404, ue.HTTPStatus())
	assert.Empty(t, h.store.auditRows())
}

func TestSaleUsecase_AmendTruncatesText(t *testing.T) {
	h := newHarness(transactional, product("Gushers", "3.00"))
	sale := seedSale(t, h, usecase.SaleInput{Product: "Gushers", Qty: num("1")})

	long := strings.Repeat("é", 700)
	in := usecase.AmendSaleInput{
		ID:            sale.ID.String(),
		PaymentMethod: &long,
		Notes:         &long,
		Person:        &long,
		Seller:        &long,
	}

	updated, err := h.sales.Amend(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, model.MaxPaymentMethodLen, len([]rune(updated.PaymentMethod)))
	assert.Equal(t, model.MaxNotesLen, len([]rune(updated.Notes)))
	assert.Equal(t, model.MaxPersonLen, len([]rune(updated.Person)))
	assert.Equal(t, model.MaxSellerLen, len([]rune(updated.Seller)))
}

func TestSaleUsecase_AmendDepositedCoercion(t *testing.T) {
	h := newHarness(transactional, product("Gushers", "3.00"))
	sale := seedSale(t, h, usecase.SaleInput{Product: "Gushers", Qty: num("1"), Paid: true})

	var in usecase.AmendSaleInput
	require.NoError(t, json.Unmarshal([]byte(`{"id":"`+sale.ID.String()+`","paid":false,"deposited":"Yes"}`), &in))

	updated, err := h.sales.Amend(context.Background(), in)
	require.NoError(t, err)
	assert.False(t, updated.Paid)
	assert.True(t, updated.Deposited)

	logs, err := h.sales.History(context.Background(), sale.ID.String())
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.JSONEq(t, `{"paid":true,"deposited":false}`, logs[0].BeforeJSON)
}

func TestSaleUsecase_HistoryBadID(t *testing.T) {
	h := newHarness(transactional)

	_, err := h.sales.History(context.Background(), " ")
	ue := assertKind(t, err, usecase.KindValidation)
	assert.Equal(t, "missing id", ue.Message)

	_, err = h.sales.History(context.Background(), "nope")
	ue = assertKind(t, err, usecase.KindNotFound)
	assert.Equal(t, "sale not found", ue.Message)
}

func TestSaleUsecase_ListFilters(t *testing.T) {
	ctx := context.Background()
	h := newHarness(transactional, product("Gushers", "3.00"), product("Takis", "2.00"))

	seedSale(t, h, usecase.SaleInput{Product: "Gushers", Qty: num("1"), Seller: "Mario", Paid: true})
	seedSale(t, h, usecase.SaleInput{Product: "Takis", Qty: num("1"), Seller: "Mario"})
	last := seedSale(t, h, usecase.SaleInput{Product: "Gushers", Qty: num("1"), Seller: "Luigi", Deposited: true})

	all, err := h.sales.List(ctx, usecase.SaleListInput{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, last.ID, all[0].ID)

	mario, err := h.sales.List(ctx, usecase.SaleListInput{Seller: "Mario"})
	require.NoError(t, err)
	assert.Len(t, mario, 2)

	unpaidGushers, err := h.sales.List(ctx, usecase.SaleListInput{Product: "Gushers", Paid: "No"})
	require.NoError(t, err)
	require.Len(t, unpaidGushers, 1)
	assert.Equal(t, last.ID, unpaidGushers[0].ID)

	// "Yes"/"No" 以外は指定なし
	anyPaid, err := h.sales.List(ctx, usecase.SaleListInput{Paid: "yes", Deposited: "true"})
	require.NoError(t, err)
	assert.Len(t, anyPaid, 3)

	deposited, err := h.sales.List(ctx, usecase.SaleListInput{Deposited: "Yes"})
	require.NoError(t, err)
	assert.Len(t, deposited, 1)

	limited, err := h.sales.List(ctx, usecase.SaleListInput{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}
