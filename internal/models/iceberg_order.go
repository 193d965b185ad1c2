package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Side - направление айсберг-ордера
type Side string

// Направления ордера
const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// IcebergStatus - состояние айсберг-ордера, как его показывает страница истории
type IcebergStatus string

// Статусы айсберг-ордера
//
// Страница различает только открытые ордера (есть кнопка отмены) и
// отменённые. Полностью исполненный ордер отдельно не распознаётся.
const (
	IcebergStatusUnfilled        IcebergStatus = "unfilled"
	IcebergStatusPartiallyFilled IcebergStatus = "partially_filled"
	IcebergStatusCancelled       IcebergStatus = "cancelled"
)

// IsValid проверяет, что статус входит в известный набор
func (s IcebergStatus) IsValid() bool {
	switch s {
	case IcebergStatusUnfilled, IcebergStatusPartiallyFilled, IcebergStatusCancelled:
		return true
	}
	return false
}

// IcebergOrder - одна строка таблицы истории айсберг-ордеров
//
// Значение неизменяемо: создаётся один раз при разборе страницы.
type IcebergOrder struct {
	ID             int64           `json:"id"`
	Date           time.Time       `json:"date"`
	Side           Side            `json:"side"`
	TradeValue     decimal.Decimal `json:"trade_value"`     // общий объём сделки
	AvgPrice       decimal.Decimal `json:"avg_price"`       // средняя цена исполнения
	DepthRange     decimal.Decimal `json:"depth_range"`     // глубина в процентах
	ProtectedPrice decimal.Decimal `json:"protected_price"` // защитная цена
	Filled         decimal.Decimal `json:"filled"`
	Status         IcebergStatus   `json:"status"`
}

// IsOpen сообщает, что ордер ещё работает на бирже
func (o IcebergOrder) IsOpen() bool {
	return o.Status == IcebergStatusUnfilled || o.Status == IcebergStatusPartiallyFilled
}

// IcebergOrderHistory - одна страница истории айсберг-ордеров
type IcebergOrderHistory struct {
	CurrentPage int            `json:"current_page"`
	HasNextPage bool           `json:"has_next_page"`
	Orders      []IcebergOrder `json:"orders"`
}

// NewIcebergOrderHistory собирает страницу; nil-срез заменяется пустым,
// чтобы в JSON всегда был массив
func NewIcebergOrderHistory(currentPage int, hasNextPage bool, orders []IcebergOrder) *IcebergOrderHistory {
	if orders == nil {
		orders = []IcebergOrder{}
	}
	return &IcebergOrderHistory{
		CurrentPage: currentPage,
		HasNextPage: hasNextPage,
		Orders:      orders,
	}
}

// NextPage возвращает номер следующей страницы или 0, если её нет
func (h *IcebergOrderHistory) NextPage() int {
	if h == nil || !h.HasNextPage {
		return 0
	}
	return h.CurrentPage + 1
}
