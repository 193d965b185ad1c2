package exchange

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ============================================================
// Prometheus метрики клиента веб-интерфейса
// ============================================================

// PageFetchLatency - время загрузки и разбора одной страницы истории
var PageFetchLatency = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: "okcoinweb",
		Subsystem: "exchange",
		Name:      "page_fetch_latency_ms",
		Help:      "Latency of fetching and decoding one iceberg history page in milliseconds",
		Buckets:   []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000},
	},
	[]string{"exchange"},
)

// PageFetches - итоги загрузки страниц
var PageFetches = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "okcoinweb",
		Subsystem: "exchange",
		Name:      "page_fetches_total",
		Help:      "Number of iceberg history page fetches by result",
	},
	[]string{"exchange", "result"}, // ok, LOGIN_REQUIRED, PAGE_FORMAT, HTTP_STATUS, TRANSPORT, CANCELLED
)

// Logins - попытки входа (первичный вход и повторный после истечения сессии)
var Logins = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "okcoinweb",
		Subsystem: "exchange",
		Name:      "logins_total",
		Help:      "Number of web session logins by result",
	},
	[]string{"exchange", "result"}, // ok, error
)

// FetchRetries - повторные попытки загрузки страницы
var FetchRetries = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "okcoinweb",
		Subsystem: "exchange",
		Name:      "fetch_retries_total",
		Help:      "Number of page fetch retries",
	},
	[]string{"exchange"},
)

// OrdersDecoded - разобранные ордера по статусу
var OrdersDecoded = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "okcoinweb",
		Subsystem: "exchange",
		Name:      "orders_decoded_total",
		Help:      "Number of iceberg orders decoded by status",
	},
	[]string{"exchange", "status"},
)

// ============ Вспомогательные функции ============

// RecordPageFetch записывает итог загрузки страницы
func RecordPageFetch(exchange, result string, latencyMs float64) {
	PageFetches.WithLabelValues(exchange, result).Inc()
	if result == "ok" {
		PageFetchLatency.WithLabelValues(exchange).Observe(latencyMs)
	}
}

// RecordLogin записывает попытку входа
func RecordLogin(exchange string, ok bool) {
	result := "ok"
	if !ok {
		result = "error"
	}
	Logins.WithLabelValues(exchange, result).Inc()
}

// RecordOrdersDecoded считает ордера страницы по статусам
func RecordOrdersDecoded(exchange string, statuses []string) {
	for _, status := range statuses {
		OrdersDecoded.WithLabelValues(exchange, status).Inc()
	}
}
