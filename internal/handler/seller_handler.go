package handler

import (
	"net/http"

	"stockledger/internal/usecase"

	"github.com/labstack/echo/v4"
)

type SellerItem struct {
	Name string `json:"name"`
}

type SellerHandler struct {
	sellers *usecase.SellerUsecase
}

// DI
func NewSellerHandler(sellers *usecase.SellerUsecase) *SellerHandler {
	return &SellerHandler{sellers: sellers}
}

func (h *SellerHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/sellers-list", h.list)
}

func (h *SellerHandler) list(c echo.Context) error {
	sellers, err := h.sellers.ListActive(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}

	items := make([]SellerItem, 0, len(sellers))
	for _, s := range sellers {
		items = append(items, SellerItem{Name: s.Name})
	}
	return c.JSON(http.StatusOK, ItemsResponse[SellerItem]{Items: items})
}
