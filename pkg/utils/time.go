package utils

import (
	"time"
)

// time.go - утилиты для работы со временем биржи
//
// Назначение:
// Веб-страницы OKCoin показывают время в часовом поясе биржи (Пекин,
// UTC+8, без перехода на летнее время) без указания зоны. Эти функции
// переводят такие строки в абсолютное время.
//
// Функции:
// - ExchangeLocation: часовой пояс биржи
// - ParseExchangeTime: разбор строки "2006-01-02 15:04:05" во времени биржи
// - FormatExchangeTime: обратное преобразование (для тестов и логов)

// ExchangeTimeLayout - формат даты на страницах истории ордеров
const ExchangeTimeLayout = "2006-01-02 15:04:05"

// exchangeTZ - имя зоны в IANA базе
const exchangeTZ = "Asia/Shanghai"

// exchangeLocation вычисляется один раз; *time.Location неизменяем,
// поэтому безопасен для конкурентного использования
var exchangeLocation = loadExchangeLocation()

// loadExchangeLocation загружает Asia/Shanghai из tzdata
// Если базы часовых поясов нет (scratch-образ), используем фиксированный UTC+8
func loadExchangeLocation() *time.Location {
	loc, err := time.LoadLocation(exchangeTZ)
	if err != nil {
		return time.FixedZone("CST", 8*60*60)
	}
	return loc
}

// ExchangeLocation возвращает часовой пояс биржи
func ExchangeLocation() *time.Location {
	return exchangeLocation
}

// ParseExchangeTime разбирает время с веб-страницы биржи
//
// Пример:
//
//	t, _ := ParseExchangeTime("2020-06-01 10:00:00")
//	// t.UTC(): 2020-06-01 02:00:00 UTC
func ParseExchangeTime(value string) (time.Time, error) {
	return ParseInLocation(ExchangeTimeLayout, value, exchangeLocation)
}

// FormatExchangeTime форматирует время так, как его показывает биржа
func FormatExchangeTime(t time.Time) string {
	return t.In(exchangeLocation).Format(ExchangeTimeLayout)
}

// ToUTC конвертирует время в UTC
func ToUTC(t time.Time) time.Time {
	return t.UTC()
}

// ParseInLocation парсит время в указанной timezone
func ParseInLocation(layout, value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	return time.ParseInLocation(layout, value, loc)
}
