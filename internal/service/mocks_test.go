package service

import (
	"context"
	"sync"

	"okcoinweb/internal/models"
)

// ============ Mock IcebergSource ============

type MockIcebergSource struct {
	mu sync.Mutex

	name  string
	pages map[int]*models.IcebergOrderHistory
	errAt map[int]error

	requested []int
}

func NewMockIcebergSource() *MockIcebergSource {
	return &MockIcebergSource{
		name:  "okcoin.com",
		pages: make(map[int]*models.IcebergOrderHistory),
		errAt: make(map[int]error),
	}
}

// addPage регистрирует страницу page с заданными ордерами
func (m *MockIcebergSource) addPage(page int, hasNext bool, orders ...models.IcebergOrder) {
	m.pages[page] = models.NewIcebergOrderHistory(page, hasNext, orders)
}

func (m *MockIcebergSource) GetName() string {
	return m.name
}

func (m *MockIcebergSource) GetIcebergOrders(ctx context.Context, page int) (*models.IcebergOrderHistory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requested = append(m.requested, page)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err, ok := m.errAt[page]; ok {
		return nil, err
	}
	if history, ok := m.pages[page]; ok {
		return history, nil
	}
	// Как сайт: за пределами истории - пустая первая страница
	return models.NewIcebergOrderHistory(1, false, nil), nil
}

func (m *MockIcebergSource) Requested() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int(nil), m.requested...)
}
