package retry

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"
)

// Config конфигурация для retry логики
//
// Экспоненциальный backoff с jitter:
// delay = min(InitialDelay * Multiplier^attempt, MaxDelay) ± jitter
type Config struct {
	// MaxRetries - максимальное количество попыток, включая первую
	// 0 или отрицательное значение приводится к одной попытке
	MaxRetries int

	// InitialDelay - задержка перед второй попыткой (default: 100ms)
	InitialDelay time.Duration

	// MaxDelay - верхняя граница задержки (default: 30s)
	MaxDelay time.Duration

	// Multiplier - множитель экспоненциального роста (default: 2.0)
	Multiplier float64

	// JitterFactor - доля случайной вариации задержки, 0.0 - 1.0
	JitterFactor float64

	// RetryIf решает, стоит ли повторять ошибку (default: IsRetryable)
	RetryIf func(error) bool

	// OnRetry вызывается перед ожиданием очередной попытки
	OnRetry func(attempt int, err error, delay time.Duration)
}

// DefaultConfig - 4 попытки: 100ms, 200ms, 400ms (+ jitter 10%)
func DefaultConfig() Config {
	return Config{
		MaxRetries:   4,
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
		JitterFactor: 0.1,
	}
}

// PageFetchConfig - для загрузки страниц веб-интерфейса
//
// Веб-сервер биржи медленнее API, поэтому задержки длиннее:
// 3 попытки, 500ms, 1s (+ jitter 20%)
func PageFetchConfig() Config {
	return Config{
		MaxRetries:   3,
		InitialDelay: 500 * time.Millisecond,
		MaxDelay:     10 * time.Second,
		Multiplier:   2.0,
		JitterFactor: 0.2,
	}
}

// normalize подставляет значения по умолчанию
func (c *Config) normalize() {
	if c.MaxRetries <= 0 {
		c.MaxRetries = 1
	}
	if c.InitialDelay <= 0 {
		c.InitialDelay = 100 * time.Millisecond
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = 30 * time.Second
	}
	if c.Multiplier <= 0 {
		c.Multiplier = 2.0
	}
	c.JitterFactor = math.Max(0, math.Min(1, c.JitterFactor))
	if c.RetryIf == nil {
		c.RetryIf = IsRetryable
	}
}

// delay вычисляет задержку после попытки с номером attempt (с нуля)
func (c *Config) delay(attempt int) time.Duration {
	d := float64(c.InitialDelay) * math.Pow(c.Multiplier, float64(attempt))
	if d > float64(c.MaxDelay) {
		d = float64(c.MaxDelay)
	}
	if c.JitterFactor > 0 {
		d += d * c.JitterFactor * (rand.Float64()*2 - 1)
	}
	if d < 0 {
		d = 0
	}
	return time.Duration(d)
}

// Do выполняет операцию с повторными попытками
//
// Возвращает nil при успехе, иначе последнюю ошибку операции. Если
// контекст отменён до первой попытки - ctx.Err().
//
// Пример:
//
//	err := retry.Do(ctx, func() error {
//	    return client.Login(ctx)
//	}, retry.PageFetchConfig())
func Do(ctx context.Context, operation func() error, cfg Config) error {
	_, err := DoWithResult(ctx, func() (struct{}, error) {
		return struct{}{}, operation()
	}, cfg)
	return err
}

// DoWithResult выполняет операцию, возвращающую значение, с retry
//
//	history, err := retry.DoWithResult(ctx, func() (*models.IcebergOrderHistory, error) {
//	    return c.fetchPage(ctx, page)
//	}, cfg)
func DoWithResult[T any](ctx context.Context, operation func() (T, error), cfg Config) (T, error) {
	cfg.normalize()

	var zero T
	var lastErr error

	for attempt := 0; attempt < cfg.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			if lastErr != nil {
				return zero, unwrapPermanent(lastErr)
			}
			return zero, err
		}

		result, err := operation()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !cfg.RetryIf(err) || attempt == cfg.MaxRetries-1 {
			break
		}

		wait := cfg.delay(attempt)
		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt+1, err, wait)
		}

		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return zero, unwrapPermanent(lastErr)
		}
	}

	return zero, unwrapPermanent(lastErr)
}

// ============================================================
// Классификация ошибок
// ============================================================

// RetryableError - ошибка, сама сообщающая, можно ли её повторять
type RetryableError interface {
	error
	Retryable() bool
}

// IsRetryable проверяет можно ли retry'ить ошибку
//
// false для nil, отменённого контекста и ошибок с Retryable() == false.
// Остальные ошибки (сеть, таймауты, 5xx) считаются временными: истёкший
// контекст вызывающего проверяет сам цикл попыток.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}

	var retryable RetryableError
	if errors.As(err, &retryable) {
		return retryable.Retryable()
	}
	return true
}

// PermanentError оборачивает ошибку, которую не нужно retry'ить
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }
func (e *PermanentError) Retryable() bool { return false }

// Permanent помечает ошибку как неповторяемую
//
//	if resp.StatusCode == http.StatusForbidden {
//	    return retry.Permanent(err)
//	}
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}

// unwrapPermanent снимает обёртку Permanent, чтобы вызывающий код видел
// исходную ошибку
func unwrapPermanent(err error) error {
	if permanent, ok := err.(*PermanentError); ok {
		return permanent.Err
	}
	return err
}
