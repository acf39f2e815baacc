package handler

import (
	"net/http"

	"stockledger/internal/usecase"

	"github.com/labstack/echo/v4"
)

type OKResponse struct {
	OK bool `json:"ok"`
}

type RestockHandler struct {
	recording *usecase.RecordingUsecase
}

// DI
func NewRestockHandler(recording *usecase.RecordingUsecase) *RestockHandler {
	return &RestockHandler{recording: recording}
}

func (h *RestockHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/restock-add", h.add)
}

func (h *RestockHandler) add(c echo.Context) error {
	var in usecase.RestockInput
	if err := decodeJSON(c, &in); err != nil {
		return writeError(c, err)
	}

	if _, err := h.recording.RecordRestock(c.Request().Context(), in); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, OKResponse{OK: true})
}
