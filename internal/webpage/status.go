package webpage

import (
	"github.com/shopspring/decimal"

	"okcoinweb/internal/models"
)

// StatusCell - смысловое содержимое ячейки статуса
//
// Разметка передаёт статус не полем, а формой содержимого: у открытого
// ордера в ячейке ссылка "Cancel", у закрытого - текст. Адаптер
// statusCellOf сводит DOM к этой структуре, а InferStatus работает уже
// без DOM.
type StatusCell struct {
	HasControl bool   // первым узлом идёт ссылка-действие
	Text       string // текст, если первым узлом идёт текст
}

// statusVocabulary - известные текстовые статусы
var statusVocabulary = map[string]models.IcebergStatus{
	"Cancelled": models.IcebergStatusCancelled,
}

// InferStatus определяет статус ордера
//
// Неизвестный текст даёт unfilled, а не ошибку: новая подпись на странице
// не должна ломать разбор всей таблицы.
// TODO: исполненный полностью ордер тоже попадает в unfilled, пока не
// известна его подпись на странице.
func InferStatus(cell StatusCell, filled decimal.Decimal) models.IcebergStatus {
	if cell.HasControl {
		if filled.IsZero() {
			return models.IcebergStatusUnfilled
		}
		return models.IcebergStatusPartiallyFilled
	}
	if status, ok := statusVocabulary[cell.Text]; ok {
		return status
	}
	return models.IcebergStatusUnfilled
}
