package handler

import (
	"net/http"

	"kainpos/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// エラー種別をHTTPステータスに対応付ける。種別は握り潰さずそのまま返す。
func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if ae, ok := usecase.AsAppError(err); ok {
		return c.JSON(statusOf(ae.Kind), ErrorResponse{Error: ae.Message, Kind: string(ae.Kind)})
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

func statusOf(kind usecase.ErrorKind) int {
	switch kind {
	case usecase.KindInvalidInput:
		return http.StatusBadRequest
	case usecase.KindNotFound:
		return http.StatusNotFound
	case usecase.KindInsufficientStock,
		usecase.KindExceedsOriginalQuantity,
		usecase.KindConflict:
		return http.StatusConflict
	default:
		//Internalは詳細を漏らさない
		return http.StatusInternalServerError
	}
}
