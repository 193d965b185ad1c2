package service

import (
	"context"
	"errors"
	"fmt"

	"okcoinweb/internal/models"
	"okcoinweb/pkg/utils"
)

// Ошибки сервиса айсберг-ордеров
var (
	ErrInvalidPage   = errors.New("page must be >= 1")
	ErrInvalidStatus = errors.New("status must be one of: unfilled, partially_filled, cancelled")
)

// DefaultMaxPages - ограничение обхода истории, если не задано иное
const DefaultMaxPages = 50

// IcebergOrders - вся история, собранная обходом страниц
type IcebergOrders struct {
	Exchange  string                `json:"exchange"`
	Orders    []models.IcebergOrder `json:"orders"`
	Pages     int                   `json:"pages"`     // сколько страниц загружено
	Truncated bool                  `json:"truncated"` // обход остановлен по MaxPages
}

// IcebergService предоставляет доступ к истории айсберг-ордеров.
//
// Отвечает за:
// - Загрузку одной страницы с проверкой номера
// - Обход всех страниц по признаку следующей страницы
// - Фильтрацию по статусу
type IcebergService struct {
	source   IcebergSource
	maxPages int
	logger   *utils.Logger
}

// NewIcebergService создает новый экземпляр IcebergService.
func NewIcebergService(source IcebergSource, maxPages int, logger *utils.Logger) *IcebergService {
	if maxPages < 1 {
		maxPages = DefaultMaxPages
	}
	if logger == nil {
		logger = utils.L()
	}
	return &IcebergService{
		source:   source,
		maxPages: maxPages,
		logger:   logger.WithComponent("iceberg_service").WithExchange(source.GetName()),
	}
}

// Exchange возвращает имя биржи источника
func (s *IcebergService) Exchange() string {
	return s.source.GetName()
}

// GetPage возвращает одну страницу истории.
func (s *IcebergService) GetPage(ctx context.Context, page int) (*models.IcebergOrderHistory, error) {
	if page < 1 {
		return nil, ErrInvalidPage
	}
	return s.source.GetIcebergOrders(ctx, page)
}

// GetAll обходит историю начиная с первой страницы.
//
// Следующая запрашиваемая страница - CurrentPage+1 из ответа, а не счётчик
// цикла: сайт сам сообщает, где мы. Обход заканчивается, когда:
// - на странице нет ссылки на следующую
// - загружено maxPages страниц (Truncated = true)
// - номер страницы не вырос (сайт вернул ту же или более раннюю страницу)
//
// Пока идёт обход, новые ордера сдвигают строки между страницами, поэтому
// повторы по ID отбрасываются; остаётся первое вхождение.
func (s *IcebergService) GetAll(ctx context.Context) (*IcebergOrders, error) {
	result := &IcebergOrders{
		Exchange: s.source.GetName(),
		Orders:   make([]models.IcebergOrder, 0),
	}
	seen := make(map[int64]struct{})

	page, lastPage := 1, 0
	for {
		history, err := s.source.GetIcebergOrders(ctx, page)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", page, err)
		}
		result.Pages++

		for _, order := range history.Orders {
			if _, dup := seen[order.ID]; dup {
				continue
			}
			seen[order.ID] = struct{}{}
			result.Orders = append(result.Orders, order)
		}

		if !history.HasNextPage {
			break
		}
		if history.CurrentPage <= lastPage {
			s.logger.Warn("page number did not advance, stopping",
				utils.Page(history.CurrentPage),
				utils.Int("previous_page", lastPage),
			)
			break
		}
		if result.Pages >= s.maxPages {
			result.Truncated = true
			s.logger.Warn("page limit reached, history truncated", utils.Int("max_pages", s.maxPages))
			break
		}

		lastPage = history.CurrentPage
		page = history.NextPage()
	}

	s.logger.Info("history collected",
		utils.Int("pages", result.Pages),
		utils.OrdersCount(len(result.Orders)),
		utils.Bool("truncated", result.Truncated),
	)
	return result, nil
}

// ParseStatus проверяет строковый статус; пустая строка - без фильтра
func ParseStatus(value string) (models.IcebergStatus, error) {
	if value == "" {
		return "", nil
	}
	status := models.IcebergStatus(value)
	if !status.IsValid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}

// FilterByStatus возвращает ордера с заданным статусом.
//
// Пустой статус возвращает исходный срез без копирования.
func FilterByStatus(orders []models.IcebergOrder, status models.IcebergStatus) []models.IcebergOrder {
	if status == "" {
		return orders
	}
	filtered := make([]models.IcebergOrder, 0, len(orders))
	for _, order := range orders {
		if order.Status == status {
			filtered = append(filtered, order)
		}
	}
	return filtered
}
