package webpage

import (
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"okcoinweb/internal/models"
)

// bidLabel - подпись направления покупки на странице
const bidLabel = "Bid"

// orderIDPrefix - префикс атрибута id у ячейки статуса
const orderIDPrefix = "continuous_"

var (
	errEmptyValue = errors.New("value is empty")
	errNoIDPrefix = errors.New("id has no " + orderIDPrefix + " prefix")
	errNonNumeric = errors.New("id suffix is not numeric")
)

// parseSide: "Bid" - покупка, любая другая подпись - продажа
func parseSide(text string) models.Side {
	if text == bidLabel {
		return models.SideBuy
	}
	return models.SideSell
}

// parsePrefixedDecimal отрезает один символ валюты слева ("¥12.5", "฿0.1")
func parsePrefixedDecimal(text string) (decimal.Decimal, error) {
	if text == "" {
		return decimal.Zero, errEmptyValue
	}
	_, size := utf8.DecodeRuneInString(text)
	return decimal.NewFromString(text[size:])
}

// parseGroupedDecimal - как parsePrefixedDecimal, но дополнительно убирает
// разделители разрядов ("¥1,234.56")
func parseGroupedDecimal(text string) (decimal.Decimal, error) {
	if text == "" {
		return decimal.Zero, errEmptyValue
	}
	_, size := utf8.DecodeRuneInString(text)
	return decimal.NewFromString(strings.ReplaceAll(text[size:], ",", ""))
}

// parsePercent отрезает один символ справа ("12.3%")
func parsePercent(text string) (decimal.Decimal, error) {
	if text == "" {
		return decimal.Zero, errEmptyValue
	}
	_, size := utf8.DecodeLastRuneInString(text)
	return decimal.NewFromString(text[:len(text)-size])
}

// parseOrderID извлекает номер ордера из "continuous_<digits>"
func parseOrderID(id string) (int64, error) {
	suffix, ok := strings.CutPrefix(id, orderIDPrefix)
	if !ok {
		return 0, errNoIDPrefix
	}
	if suffix == "" {
		return 0, errNonNumeric
	}
	for i := 0; i < len(suffix); i++ {
		if suffix[i] < '0' || suffix[i] > '9' {
			return 0, errNonNumeric
		}
	}
	return strconv.ParseInt(suffix, 10, 64)
}
