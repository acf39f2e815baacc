package handler

import (
	"net/http"
	"strconv"

	"stockledger/internal/domain/model"
	"stockledger/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ItemsResponse[T any] struct {
	Items []T `json:"items"`
}

// 在庫の参照API（現在庫ビュー・台帳）
type InventoryHandler struct {
	inventory *usecase.InventoryUsecase
	ledger    *usecase.LedgerUsecase
}

// DI
func NewInventoryHandler(inventory *usecase.InventoryUsecase, ledger *usecase.LedgerUsecase) *InventoryHandler {
	return &InventoryHandler{inventory: inventory, ledger: ledger}
}

func (h *InventoryHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/inventory-list", h.list)
	e.GET("/stock-current", h.current)
	e.GET("/ledger-list", h.ledgerList)
}

func (h *InventoryHandler) list(c echo.Context) error {
	rows, err := h.inventory.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, ItemsResponse[model.CurrentInventoryRow]{Items: rows})
}

// ?product= で1商品に絞る
func (h *InventoryHandler) current(c echo.Context) error {
	var product *string
	if v := c.QueryParam("product"); v != "" {
		product = &v
	}

	levels, err := h.ledger.CurrentStock(c.Request().Context(), product)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, ItemsResponse[model.StockLevel]{Items: levels})
}

func (h *InventoryHandler) ledgerList(c echo.Context) error {
	entries, err := h.ledger.ListEntries(c.Request().Context(), usecase.LedgerListInput{
		Product: c.QueryParam("product"),
		Source:  c.QueryParam("source"),
		Limit:   queryLimit(c),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, ItemsResponse[model.StockLedgerEntry]{Items: entries})
}

// 数値でなければ 0（usecase側で既定値になる）
func queryLimit(c echo.Context) int {
	n, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil {
		return 0
	}
	return n
}
