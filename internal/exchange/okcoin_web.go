package exchange

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/html"

	"okcoinweb/internal/models"
	"okcoinweb/internal/webpage"
	"okcoinweb/pkg/ratelimit"
	"okcoinweb/pkg/retry"
	"okcoinweb/pkg/utils"
)

const (
	okcoinLoginPath   = "/login/index.do"
	okcoinIcebergPath = "/trade/entrustIceberg.do"
	okcoinPageParam   = "currentPage"

	// maxPageSize - страница истории весит десятки килобайт
	maxPageSize = 4 << 20
)

// WebConfig - параметры клиента веб-интерфейса
type WebConfig struct {
	BaseURL   string
	LoginName string
	Password  string // расшифрованный пароль

	HTTP HTTPClientConfig

	RequestsPerSecond int
	RequestBurst      int

	MaxRetries   int
	RetryBackoff time.Duration
}

// OKCoinWeb реализует IcebergOrderSource поверх HTML-страниц сайта
type OKCoinWeb struct {
	name    string
	baseURL *url.URL
	cfg     WebConfig

	httpClient *HTTPClient
	limiter    *ratelimit.RateLimiter
	reader     *webpage.IcebergOrdersReader
	logger     *utils.Logger

	// loginMu сериализует вход: при истёкшей сессии несколько
	// параллельных запросов не должны логиниться одновременно
	loginMu    sync.Mutex
	loggedInAt time.Time
}

// NewOKCoinWeb создаёт клиент для сайта name с адресом cfg.BaseURL
func NewOKCoinWeb(name string, cfg WebConfig, logger *utils.Logger) (*OKCoinWeb, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q", cfg.BaseURL)
	}
	if cfg.LoginName == "" || cfg.Password == "" {
		return nil, errors.New("login name and password are required")
	}
	if logger == nil {
		logger = utils.L()
	}

	return &OKCoinWeb{
		name:       name,
		baseURL:    base,
		cfg:        cfg,
		httpClient: NewHTTPClient(cfg.HTTP),
		limiter:    ratelimit.NewRateLimiter(float64(cfg.RequestsPerSecond), float64(cfg.RequestBurst)),
		reader:     webpage.NewIcebergOrdersReader(),
		logger:     logger.WithExchange(name),
	}, nil
}

// GetName возвращает имя биржи
func (c *OKCoinWeb) GetName() string {
	return c.name
}

// Login отправляет форму входа; cookie сессии сохраняются в jar клиента
func (c *OKCoinWeb) Login(ctx context.Context) error {
	c.loginMu.Lock()
	defer c.loginMu.Unlock()
	return wrapError(c.name, c.login(ctx))
}

// relogin входит заново, если никто не сделал этого после failedAt
func (c *OKCoinWeb) relogin(ctx context.Context, failedAt time.Time) error {
	c.loginMu.Lock()
	defer c.loginMu.Unlock()

	if c.loggedInAt.After(failedAt) {
		return nil
	}
	return c.login(ctx)
}

// login выполняет вход; вызывается под loginMu
func (c *OKCoinWeb) login(ctx context.Context) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	form := url.Values{}
	form.Set("loginName", c.cfg.LoginName)
	form.Set("password", c.cfg.Password)

	loginURL := c.resolve(okcoinLoginPath, nil)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, loginURL, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		RecordLogin(c.name, false)
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxPageSize))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		RecordLogin(c.name, false)
		return &StatusError{StatusCode: resp.StatusCode, URL: loginURL}
	}

	c.loggedInAt = time.Now()
	RecordLogin(c.name, true)
	c.logger.Info("web session opened", utils.URL(loginURL))
	return nil
}

// GetIcebergOrders загружает и разбирает страницу истории
//
// Истёкшая сессия (страница без таблицы) ведёт к повторному входу и новой
// попытке; ошибки формата не повторяются.
func (c *OKCoinWeb) GetIcebergOrders(ctx context.Context, page int) (*models.IcebergOrderHistory, error) {
	if page < 1 {
		return nil, &ExchangeError{
			Exchange: c.name,
			Code:     CodeInvalidPage,
			Message:  fmt.Sprintf("page must be >= 1, got %d", page),
		}
	}

	logger := c.logger.WithPage(page)
	start := time.Now()

	cfg := retry.PageFetchConfig()
	cfg.MaxRetries = c.cfg.MaxRetries
	if c.cfg.RetryBackoff > 0 {
		cfg.InitialDelay = c.cfg.RetryBackoff
	}
	cfg.OnRetry = func(attempt int, err error, delay time.Duration) {
		FetchRetries.WithLabelValues(c.name).Inc()
		logger.Warn("retrying page fetch",
			utils.Attempt(attempt),
			utils.Err(err),
			utils.Duration("delay", delay),
		)
	}

	history, err := retry.DoWithResult(ctx, func() (*models.IcebergOrderHistory, error) {
		requestedAt := time.Now()
		history, err := c.fetchPage(ctx, page)
		if errors.Is(err, webpage.ErrLoginRequired) {
			logger.Info("web session expired, logging in")
			if loginErr := c.relogin(ctx, requestedAt); loginErr != nil {
				return nil, loginErr
			}
		}
		return history, err
	}, cfg)

	latency := time.Since(start)
	if err != nil {
		wrapped := wrapError(c.name, err)
		var exErr *ExchangeError
		errors.As(wrapped, &exErr)
		RecordPageFetch(c.name, exErr.Code, float64(latency.Milliseconds()))
		logger.Error("page fetch failed", utils.Err(err), utils.String("code", exErr.Code))
		return nil, wrapped
	}

	statuses := make([]string, len(history.Orders))
	for i, order := range history.Orders {
		statuses[i] = string(order.Status)
		logger.Debug("order decoded",
			utils.OrderID(order.ID),
			utils.Side(string(order.Side)),
			utils.Status(statuses[i]),
		)
	}
	RecordOrdersDecoded(c.name, statuses)
	RecordPageFetch(c.name, "ok", float64(latency.Milliseconds()))

	logger.Debug("page decoded",
		utils.OrdersCount(len(history.Orders)),
		utils.Bool("has_next_page", history.HasNextPage),
		utils.Latency(latency),
	)
	return history, nil
}

// fetchPage - одна попытка загрузки страницы
func (c *OKCoinWeb) fetchPage(ctx context.Context, page int) (*models.IcebergOrderHistory, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, retry.Permanent(err)
	}

	pageURL := c.resolve(okcoinIcebergPath, url.Values{okcoinPageParam: {strconv.Itoa(page)}})
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, retry.Permanent(err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxPageSize))
		return nil, &StatusError{StatusCode: resp.StatusCode, URL: pageURL}
	}

	root, err := html.Parse(io.LimitReader(resp.Body, maxPageSize))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}
	return c.reader.ReadNode(root)
}

// resolve строит абсолютный адрес пути на сайте биржи
func (c *OKCoinWeb) resolve(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = strings.TrimSuffix(u.Path, "/") + path
	u.RawQuery = query.Encode()
	return u.String()
}

// Close закрывает соединения
func (c *OKCoinWeb) Close() error {
	c.httpClient.Close()
	return nil
}
