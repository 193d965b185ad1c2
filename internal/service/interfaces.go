package service

import (
	"context"

	"okcoinweb/internal/models"
)

// IcebergSource - то, что сервису нужно от клиента биржи
//
// Реализуется exchange.OKCoinWeb; в тестах - MockIcebergSource.
type IcebergSource interface {
	GetName() string
	GetIcebergOrders(ctx context.Context, page int) (*models.IcebergOrderHistory, error)
}

// IcebergServiceInterface - интерфейс сервиса для HTTP handlers
type IcebergServiceInterface interface {
	Exchange() string
	GetPage(ctx context.Context, page int) (*models.IcebergOrderHistory, error)
	GetAll(ctx context.Context) (*IcebergOrders, error)
}

var _ IcebergServiceInterface = (*IcebergService)(nil)
