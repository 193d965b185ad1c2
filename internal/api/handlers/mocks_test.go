package handlers

import (
	"context"
	"errors"

	"okcoinweb/internal/models"
	"okcoinweb/internal/service"
)

var ErrMockExchange = errors.New("mock exchange error")

// ============ Mock IcebergService ============

type MockIcebergService struct {
	pages map[int]*models.IcebergOrderHistory
	all   *service.IcebergOrders

	pageErr error
	allErr  error

	lastPage int
}

func NewMockIcebergService() *MockIcebergService {
	return &MockIcebergService{
		pages: make(map[int]*models.IcebergOrderHistory),
		all: &service.IcebergOrders{
			Exchange: "okcoin.com",
			Orders:   []models.IcebergOrder{},
		},
	}
}

func (m *MockIcebergService) Exchange() string {
	return "okcoin.com"
}

func (m *MockIcebergService) GetPage(ctx context.Context, page int) (*models.IcebergOrderHistory, error) {
	m.lastPage = page
	if m.pageErr != nil {
		return nil, m.pageErr
	}
	if page < 1 {
		return nil, service.ErrInvalidPage
	}
	if history, ok := m.pages[page]; ok {
		return history, nil
	}
	return models.NewIcebergOrderHistory(page, false, nil), nil
}

func (m *MockIcebergService) GetAll(ctx context.Context) (*service.IcebergOrders, error) {
	if m.allErr != nil {
		return nil, m.allErr
	}
	return m.all, nil
}
