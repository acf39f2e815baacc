package handler

import (
	"net/http"

	"stockledger/internal/domain/model"
	"stockledger/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type SaleCreatedResponse struct {
	OK    bool            `json:"ok"`
	Total decimal.Decimal `json:"total"`
	ID    uuid.UUID       `json:"id"`
}

type SaleItemResponse struct {
	Item model.SaleRecord `json:"item"`
}

// 販売の記録・修正・一覧
type SaleHandler struct {
	sales *usecase.SaleUsecase
}

// DI
func NewSaleHandler(sales *usecase.SaleUsecase) *SaleHandler {
	return &SaleHandler{sales: sales}
}

func (h *SaleHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/sales-add", h.add)
	e.Match([]string{http.MethodPost, http.MethodPatch}, "/sales-update", h.update)
	e.GET("/sales-list", h.list)
	e.GET("/sales-history", h.history)
}

func (h *SaleHandler) add(c echo.Context) error {
	var in usecase.SaleInput
	if err := decodeJSON(c, &in); err != nil {
		return writeError(c, err)
	}

	sale, err := h.sales.Create(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SaleCreatedResponse{OK: true, Total: sale.Total, ID: sale.ID})
}

// 未知のキーはデコード時に捨てる
func (h *SaleHandler) update(c echo.Context) error {
	var in usecase.AmendSaleInput
	if err := decodeJSON(c, &in); err != nil {
		return writeError(c, err)
	}

	sale, err := h.sales.Amend(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SaleItemResponse{Item: sale})
}

func (h *SaleHandler) list(c echo.Context) error {
	items, err := h.sales.List(c.Request().Context(), usecase.SaleListInput{
		Limit:     queryLimit(c),
		Seller:    c.QueryParam("seller"),
		Product:   c.QueryParam("product"),
		Paid:      c.QueryParam("paid"),
		Deposited: c.QueryParam("deposited"),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, ItemsResponse[model.SaleRecord]{Items: items})
}

func (h *SaleHandler) history(c echo.Context) error {
	logs, err := h.sales.History(c.Request().Context(), c.QueryParam("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, ItemsResponse[model.SaleAuditLog]{Items: logs})
}
