// Package exchange - клиент веб-интерфейса OKCoin: сессия, загрузка
// страниц истории айсберг-ордеров, повторные попытки и метрики.
package exchange

import (
	"context"
	"crypto/tls"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"golang.org/x/net/publicsuffix"
)

// defaultUserAgent - веб-интерфейс отдаёт упрощённую разметку клиентам без UA
const defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) okcoinweb/1.0"

// HTTPClientConfig содержит настройки HTTP клиента для веб-интерфейса биржи
type HTTPClientConfig struct {
	// Таймауты соединения
	ConnectTimeout time.Duration // таймаут установки TCP соединения (default: 5s)
	ReadTimeout    time.Duration // таймаут ожидания заголовков ответа (default: 10s)
	TotalTimeout   time.Duration // общий таймаут запроса (default: 15s)

	// Connection pooling
	MaxIdleConnsPerHost int           // максимум idle соединений на хост (default: 4)
	IdleConnTimeout     time.Duration // таймаут простоя соединения (default: 90s)

	// TLS
	TLSHandshakeTimeout time.Duration // таймаут TLS handshake (default: 5s)

	KeepAliveInterval time.Duration // интервал Keep-Alive (default: 30s)

	UserAgent string
}

// DefaultHTTPClientConfig возвращает конфигурацию по умолчанию
func DefaultHTTPClientConfig() HTTPClientConfig {
	return HTTPClientConfig{
		ConnectTimeout: 5 * time.Second,
		ReadTimeout:    10 * time.Second,
		TotalTimeout:   15 * time.Second,

		MaxIdleConnsPerHost: 4,
		IdleConnTimeout:     90 * time.Second,

		TLSHandshakeTimeout: 5 * time.Second,
		KeepAliveInterval:   30 * time.Second,

		UserAgent: defaultUserAgent,
	}
}

// HTTPClient - HTTP клиент с хранилищем cookie для сессии веб-интерфейса
//
// Сессия биржи живёт в cookie, поэтому у каждого клиента свой jar:
// один HTTPClient - одна учётная запись.
type HTTPClient struct {
	client *http.Client
	jar    http.CookieJar
	config HTTPClientConfig
}

// NewHTTPClient создаёт новый HTTP клиент с заданной конфигурацией
func NewHTTPClient(config HTTPClientConfig) *HTTPClient {
	dialer := &net.Dialer{
		Timeout:   config.ConnectTimeout,
		KeepAlive: config.KeepAliveInterval,
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			// Короткий deadline контекста важнее ConnectTimeout
			if deadline, ok := ctx.Deadline(); ok {
				if timeout := time.Until(deadline); timeout < config.ConnectTimeout {
					d := &net.Dialer{Timeout: timeout, KeepAlive: config.KeepAliveInterval}
					return d.DialContext(ctx, network, addr)
				}
			}
			return dialer.DialContext(ctx, network, addr)
		},

		MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
		IdleConnTimeout:     config.IdleConnTimeout,

		TLSHandshakeTimeout: config.TLSHandshakeTimeout,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},

		ForceAttemptHTTP2:     true,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: config.ReadTimeout,
	}

	// cookiejar.New возвращает ошибку только для невалидных опций
	jar, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})

	userAgent := config.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	return &HTTPClient{
		client: &http.Client{
			Transport: &userAgentTransport{transport: transport, userAgent: userAgent},
			Jar:       jar,
			Timeout:   config.TotalTimeout,
		},
		jar:    jar,
		config: config,
	}
}

// Do выполняет HTTP запрос; cookie сессии подставляются автоматически
func (hc *HTTPClient) Do(req *http.Request) (*http.Response, error) {
	return hc.client.Do(req)
}

// Cookies возвращает cookie, которые будут отправлены на u
func (hc *HTTPClient) Cookies(u *url.URL) []*http.Cookie {
	return hc.jar.Cookies(u)
}

// GetConfig возвращает текущую конфигурацию клиента
func (hc *HTTPClient) GetConfig() HTTPClientConfig {
	return hc.config
}

// Close закрывает все idle соединения
// Должен вызываться при graceful shutdown
func (hc *HTTPClient) Close() {
	hc.client.CloseIdleConnections()
}

// userAgentTransport подставляет User-Agent, если запрос его не задал
type userAgentTransport struct {
	transport http.RoundTripper
	userAgent string
}

// RoundTrip выполняет HTTP запрос
func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req = req.Clone(req.Context())
		req.Header.Set("User-Agent", t.userAgent)
	}
	return t.transport.RoundTrip(req)
}

// CloseIdleConnections нужен http.Client.CloseIdleConnections
func (t *userAgentTransport) CloseIdleConnections() {
	if closer, ok := t.transport.(interface{ CloseIdleConnections() }); ok {
		closer.CloseIdleConnections()
	}
}
