package handlers

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
)

// json совместим с encoding/json: decimal.Decimal и time.Time
// сериализуются через свои MarshalJSON
var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Коды ошибок API
const (
	CodeInvalidPage   = "INVALID_PAGE"
	CodeInvalidStatus = "INVALID_STATUS"
	CodeLoginRequired = "LOGIN_REQUIRED"
	CodePageFormat    = "PAGE_FORMAT"
	CodeExchangeError = "EXCHANGE_ERROR"
	CodeTimeout       = "TIMEOUT"
	CodeInternal      = "INTERNAL_ERROR"
	CodeUnauthorized  = "UNAUTHORIZED"
)

// ErrorResponse стандартный формат ответа об ошибке для всех API endpoints
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// respondWithJSON отправляет JSON ответ
func respondWithJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// RespondWithError отправляет JSON ответ с ошибкой
//
// Экспортирована для middleware: ответы 401 и 500 в том же формате.
func RespondWithError(w http.ResponseWriter, statusCode int, code, message, details string) {
	respondWithJSON(w, statusCode, ErrorResponse{
		Error:   message,
		Code:    code,
		Details: details,
	})
}
