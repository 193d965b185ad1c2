package webpage

import (
	"errors"
	"fmt"
)

// ErrLoginRequired сообщает, что вместо страницы с данными пришла страница
// без таблицы ордеров. Обычно это значит, что веб-сессия истекла.
var ErrLoginRequired = errors.New("login required")

// ErrColumnCount - строка таблицы не совпадает с ожидаемым набором колонок
var ErrColumnCount = errors.New("unexpected number of cells")

// MissingContentError - в документе нет ожидаемой структуры (таблицы)
//
// Сопоставляется с ErrLoginRequired через errors.Is: вызывающий код
// должен перелогиниться и запросить страницу заново.
type MissingContentError struct {
	Element string
}

func (e *MissingContentError) Error() string {
	return fmt.Sprintf("no HTML %s found", e.Element)
}

// Is позволяет проверять ошибку через errors.Is(err, ErrLoginRequired)
func (e *MissingContentError) Is(target error) bool {
	return target == ErrLoginRequired
}

// FormatError - значение ячейки не соответствует ожидаемому формату
//
// Повторять запрос бессмысленно: изменилась разметка страницы или
// страница повреждена.
type FormatError struct {
	Row    int    // номер строки таблицы (0 - заголовок)
	Column string // имя колонки, пусто если ошибка относится ко всей строке
	Value  string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("row %d: %v", e.Row, e.Err)
	}
	return fmt.Sprintf("row %d, column %s: cannot decode %q: %v", e.Row, e.Column, e.Value, e.Err)
}

// Unwrap возвращает исходную ошибку разбора
func (e *FormatError) Unwrap() error {
	return e.Err
}

// Retryable реализует retry.RetryableError
func (e *FormatError) Retryable() bool {
	return false
}
