package webpage

// column - позиция ячейки в строке таблицы айсберг-ордеров
type column int

// Колонки таблицы в порядке следования
const (
	colDate column = iota
	colSide
	colTradeValue
	colAvgPrice
	colDepthRange
	colProtectedPrice
	colFilled
	colStatus

	columnCount
)

var columnNames = [columnCount]string{
	colDate:           "date",
	colSide:           "side",
	colTradeValue:     "trade_value",
	colAvgPrice:       "avg_price",
	colDepthRange:     "depth_range",
	colProtectedPrice: "protected_price",
	colFilled:         "filled",
	colStatus:         "status",
}

func (c column) String() string {
	if c < 0 || c >= columnCount {
		return "unknown"
	}
	return columnNames[c]
}
