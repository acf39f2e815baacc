package handler

import (
	"net/http"

	"stockledger/internal/domain/model"
	"stockledger/internal/usecase"

	"github.com/labstack/echo/v4"
)

type CatalogHandler struct {
	catalog *usecase.CatalogUsecase
}

func NewCatalogHandler(catalog *usecase.CatalogUsecase) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

func (h *CatalogHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/product-lookup", h.lookup)
}

// ?product= の完全一致（大文字小文字を区別）
func (h *CatalogHandler) lookup(c echo.Context) error {
	p, err := h.catalog.Lookup(c.Request().Context(), c.QueryParam("product"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, struct {
		Item model.Product `json:"item"`
	}{Item: p})
}
