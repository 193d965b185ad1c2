// Package webpage разбирает HTML-страницы веб-интерфейса OKCoin.
//
// Пакет не ходит в сеть: на вход - уже разобранное дерево документа,
// на выходе - модели из internal/models.
package webpage

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"okcoinweb/internal/models"
	"okcoinweb/pkg/utils"
)

const (
	currentPageClass = "current_ss"
	nextPageGlyph    = ">"
)

// IcebergOrdersReader разбирает страницу истории айсберг-ордеров
//
// Состояние читателя - только неизменяемый *time.Location, поэтому один
// экземпляр можно использовать из нескольких горутин.
type IcebergOrdersReader struct {
	loc *time.Location
}

// NewIcebergOrdersReader создаёт читатель, трактующий даты во времени биржи
func NewIcebergOrdersReader() *IcebergOrdersReader {
	return &IcebergOrdersReader{loc: utils.ExchangeLocation()}
}

// ReadHTML разбирает HTML из потока и декодирует страницу
func (r *IcebergOrdersReader) ReadHTML(rd io.Reader) (*models.IcebergOrderHistory, error) {
	doc, err := goquery.NewDocumentFromReader(rd)
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}
	return r.Read(doc)
}

// ReadNode декодирует страницу из корня дерева x/net/html
func (r *IcebergOrdersReader) ReadNode(root *html.Node) (*models.IcebergOrderHistory, error) {
	return r.Read(goquery.NewDocumentFromNode(root))
}

// Read декодирует страницу истории
//
// Возвращает:
//   - *MissingContentError, если в документе нет таблицы (сессия истекла)
//   - *FormatError, если ячейка не разбирается
//
// Отсутствие блока пагинации ошибкой не считается: страница 1, следующей нет.
func (r *IcebergOrdersReader) Read(doc *goquery.Document) (*models.IcebergOrderHistory, error) {
	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, &MissingContentError{Element: "table"}
	}

	orders, err := r.readOrders(table)
	if err != nil {
		return nil, err
	}

	currentPage, hasNextPage := readPagination(doc.Selection)
	return models.NewIcebergOrderHistory(currentPage, hasNextPage, orders), nil
}

// tableRows возвращает строки таблицы без строк вложенных таблиц
func tableRows(table *goquery.Selection) *goquery.Selection {
	return table.Find("tr").FilterFunction(func(_ int, row *goquery.Selection) bool {
		return row.Closest("table").IsSelection(table)
	})
}

// readOrders декодирует строки таблицы; строка 0 - заголовок
func (r *IcebergOrdersReader) readOrders(table *goquery.Selection) ([]models.IcebergOrder, error) {
	rows := tableRows(table)
	orders := make([]models.IcebergOrder, 0, max(rows.Length()-1, 0))

	for i := 1; i < rows.Length(); i++ {
		cells := rows.Eq(i).ChildrenFiltered("td, th")

		switch n := cells.Length(); n {
		case 1:
			// "нет ордеров": дальше могут идти служебные строки
			return orders, nil
		case int(columnCount):
		default:
			return nil, &FormatError{
				Row: i,
				Err: fmt.Errorf("%w: got %d, want %d", ErrColumnCount, n, columnCount),
			}
		}

		order, err := r.readOrder(i, cells)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}

	return orders, nil
}

// readOrder декодирует одну строку из восьми ячеек
func (r *IcebergOrdersReader) readOrder(row int, cells *goquery.Selection) (models.IcebergOrder, error) {
	var order models.IcebergOrder

	text := func(c column) string {
		return strings.TrimSpace(cells.Eq(int(c)).Text())
	}
	fail := func(name, value string, err error) error {
		return &FormatError{Row: row, Column: name, Value: value, Err: err}
	}

	dateText := text(colDate)
	date, err := utils.ParseInLocation(utils.ExchangeTimeLayout, dateText, r.loc)
	if err != nil {
		return order, fail(colDate.String(), dateText, err)
	}

	decimals := []struct {
		col   column
		parse func(string) (decimal.Decimal, error)
		dst   *decimal.Decimal
	}{
		{colTradeValue, parsePrefixedDecimal, &order.TradeValue},
		{colAvgPrice, parsePrefixedDecimal, &order.AvgPrice},
		{colDepthRange, parsePercent, &order.DepthRange},
		{colProtectedPrice, parseGroupedDecimal, &order.ProtectedPrice},
		{colFilled, parsePrefixedDecimal, &order.Filled},
	}
	for _, d := range decimals {
		value := text(d.col)
		parsed, err := d.parse(value)
		if err != nil {
			return order, fail(d.col.String(), value, err)
		}
		*d.dst = parsed
	}

	statusCell := cells.Eq(int(colStatus))
	idAttr, _ := statusCell.Attr("id")
	id, err := parseOrderID(idAttr)
	if err != nil {
		return order, fail("id", idAttr, err)
	}

	order.ID = id
	order.Date = date
	order.Side = parseSide(text(colSide))
	order.Status = InferStatus(statusCellOf(statusCell), order.Filled)
	return order, nil
}

// statusCellOf смотрит на первый значимый дочерний узел ячейки статуса
//
// Пробельные текстовые узлы и комментарии пропускаются: форматирование
// разметки не должно менять статус.
func statusCellOf(cell *goquery.Selection) StatusCell {
	if cell.Length() == 0 {
		return StatusCell{}
	}

	for n := cell.Get(0).FirstChild; n != nil; n = n.NextSibling {
		switch n.Type {
		case html.CommentNode:
			continue
		case html.TextNode:
			text := strings.TrimSpace(n.Data)
			if text == "" {
				continue
			}
			return StatusCell{Text: text}
		case html.ElementNode:
			return StatusCell{HasControl: n.DataAtom == atom.A}
		}
		return StatusCell{}
	}
	return StatusCell{}
}

// readPagination ищет блок пагинации в первом <div> документа
func readPagination(doc *goquery.Selection) (currentPage int, hasNextPage bool) {
	currentPage = 1

	doc.Find("div").First().Find("a").Each(func(_ int, a *goquery.Selection) {
		text := strings.TrimSpace(a.Text())
		if a.HasClass(currentPageClass) {
			if page, err := strconv.Atoi(text); err == nil && page > 0 {
				currentPage = page
			}
		}
		if text == nextPageGlyph {
			hasNextPage = true
		}
	})

	return currentPage, hasNextPage
}
