package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"stockledger/internal/usecase"

	"github.com/labstack/echo/v4"
)

var errInvalidJSON = errors.New("invalid JSON")

type ErrorResponse struct {
	Error  string `json:"error"`
	Kind   string `json:"kind,omitempty"`
	SaleID string `json:"sale_id,omitempty"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, errInvalidJSON) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: errInvalidJSON.Error()})
	}
	if ue, ok := usecase.AsError(err); ok {
		res := ErrorResponse{Error: ue.Message, Kind: string(ue.Kind)}
		if ue.SaleID != nil {
			res.SaleID = ue.SaleID.String()
		}
		return c.JSON(ue.HTTPStatus(), res)
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

// bodyをJSONとして読む。空のbodyは {} 扱い。
// Content-Type は見ない（フォームから text/plain で来ることがある）。
func decodeJSON(c echo.Context, dst any) error {
	b, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return errInvalidJSON
	}
	if strings.TrimSpace(string(b)) == "" {
		return nil
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return errInvalidJSON
	}
	return nil
}
