package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"okcoinweb/internal/exchange"
	"okcoinweb/internal/models"
	"okcoinweb/internal/service"
	"okcoinweb/internal/webpage"
)

// IcebergHandler отдаёт историю айсберг-ордеров
//
// Функции:
// - Одна страница истории (GET /api/v1/iceberg-orders?page=N)
// - Вся история с фильтром по статусу (GET /api/v1/iceberg-orders/all?status=S)
type IcebergHandler struct {
	icebergService service.IcebergServiceInterface
}

// NewIcebergHandler создает новый IcebergHandler
func NewIcebergHandler(icebergService service.IcebergServiceInterface) *IcebergHandler {
	return &IcebergHandler{icebergService: icebergService}
}

// PageResponse - ответ с одной страницей истории
type PageResponse struct {
	Exchange    string                `json:"exchange"`
	CurrentPage int                   `json:"current_page"`
	HasNextPage bool                  `json:"has_next_page"`
	NextPage    int                   `json:"next_page,omitempty"`
	Orders      []models.IcebergOrder `json:"orders"`
}

// AllResponse - ответ с полной историей
type AllResponse struct {
	Exchange  string                `json:"exchange"`
	Pages     int                   `json:"pages"`
	Truncated bool                  `json:"truncated"`
	Status    string                `json:"status,omitempty"`
	Count     int                   `json:"count"`
	Orders    []models.IcebergOrder `json:"orders"`
}

// GetPage возвращает страницу истории
// GET /api/v1/iceberg-orders?page=N (по умолчанию 1)
func (h *IcebergHandler) GetPage(w http.ResponseWriter, r *http.Request) {
	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			RespondWithError(w, http.StatusBadRequest, CodeInvalidPage, "page must be a positive integer", raw)
			return
		}
		page = parsed
	}

	history, err := h.icebergService.GetPage(r.Context(), page)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, PageResponse{
		Exchange:    h.icebergService.Exchange(),
		CurrentPage: history.CurrentPage,
		HasNextPage: history.HasNextPage,
		NextPage:    history.NextPage(),
		Orders:      history.Orders,
	})
}

// GetAll возвращает всю историю
// GET /api/v1/iceberg-orders/all?status=unfilled|partially_filled|cancelled
func (h *IcebergHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	status, err := service.ParseStatus(r.URL.Query().Get("status"))
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	all, err := h.icebergService.GetAll(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	orders := service.FilterByStatus(all.Orders, status)
	respondWithJSON(w, http.StatusOK, AllResponse{
		Exchange:  all.Exchange,
		Pages:     all.Pages,
		Truncated: all.Truncated,
		Status:    string(status),
		Count:     len(orders),
		Orders:    orders,
	})
}

// handleServiceError обрабатывает ошибки от сервиса и возвращает соответствующий HTTP статус
func (h *IcebergHandler) handleServiceError(w http.ResponseWriter, err error) {
	var formatErr *webpage.FormatError
	var exErr *exchange.ExchangeError

	switch {
	case errors.Is(err, service.ErrInvalidPage):
		RespondWithError(w, http.StatusBadRequest, CodeInvalidPage, "page must be a positive integer", "")

	case errors.Is(err, service.ErrInvalidStatus):
		RespondWithError(w, http.StatusBadRequest, CodeInvalidStatus, err.Error(), "")

	case errors.Is(err, webpage.ErrLoginRequired):
		RespondWithError(w, http.StatusBadGateway, CodeLoginRequired, "exchange session could not be established", err.Error())

	case errors.As(err, &formatErr):
		RespondWithError(w, http.StatusBadGateway, CodePageFormat, "exchange page has unexpected format", err.Error())

	case errors.Is(err, context.DeadlineExceeded):
		RespondWithError(w, http.StatusGatewayTimeout, CodeTimeout, "exchange did not respond in time", err.Error())

	case errors.As(err, &exErr):
		RespondWithError(w, http.StatusBadGateway, CodeExchangeError, "exchange request failed", err.Error())

	default:
		RespondWithError(w, http.StatusInternalServerError, CodeInternal, "Internal server error", err.Error())
	}
}
