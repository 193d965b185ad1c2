package exchange

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"okcoinweb/internal/models"
	"okcoinweb/internal/webpage"
)

// IcebergOrderSource - источник истории айсберг-ордеров одной учётной записи
type IcebergOrderSource interface {
	// GetName возвращает имя биржи (okcoin.cn, okcoin.com)
	GetName() string

	// Login открывает сессию веб-интерфейса
	Login(ctx context.Context) error

	// GetIcebergOrders загружает страницу истории с номером page (с единицы)
	GetIcebergOrders(ctx context.Context, page int) (*models.IcebergOrderHistory, error)

	// Close закрывает соединения
	Close() error
}

// Коды ExchangeError
const (
	CodeLoginRequired = "LOGIN_REQUIRED"
	CodePageFormat    = "PAGE_FORMAT"
	CodeHTTPStatus    = "HTTP_STATUS"
	CodeTransport     = "TRANSPORT"
	CodeCancelled     = "CANCELLED"
	CodeInvalidPage   = "INVALID_PAGE"
)

// ExchangeError представляет ошибку от биржи
type ExchangeError struct {
	Exchange string
	Code     string
	Message  string
	Original error
}

func (e *ExchangeError) Error() string {
	return e.Exchange + ": " + e.Message
}

// Unwrap возвращает оригинальную ошибку для поддержки errors.Is() и errors.As()
func (e *ExchangeError) Unwrap() error {
	return e.Original
}

// StatusError - неуспешный HTTP ответ веб-интерфейса
//
// 5xx и 429 считаются временными, остальные 4xx - постоянными.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected HTTP status %d from %s", e.StatusCode, e.URL)
}

// Retryable сообщает retry.IsRetryable, стоит ли повторять запрос
func (e *StatusError) Retryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}

// classify выбирает код ExchangeError по исходной ошибке
func classify(err error) string {
	var statusErr *StatusError
	var formatErr *webpage.FormatError

	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return CodeCancelled
	case errors.Is(err, webpage.ErrLoginRequired):
		return CodeLoginRequired
	case errors.As(err, &formatErr):
		return CodePageFormat
	case errors.As(err, &statusErr):
		return CodeHTTPStatus
	default:
		return CodeTransport
	}
}

// wrapError оборачивает ошибку в *ExchangeError; nil остаётся nil
func wrapError(exchange string, err error) error {
	if err == nil {
		return nil
	}
	var exErr *ExchangeError
	if errors.As(err, &exErr) {
		return err
	}
	return &ExchangeError{
		Exchange: exchange,
		Code:     classify(err),
		Message:  err.Error(),
		Original: err,
	}
}
