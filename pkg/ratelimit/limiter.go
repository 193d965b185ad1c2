package ratelimit

import (
	"context"
	"sync"
	"time"
)

// RateLimiter - token bucket для запросов к веб-интерфейсу биржи
//
// Веб-сервер OKCoin блокирует сессию при частых запросах страниц, поэтому
// загрузка истории идёт не быстрее rate страниц в секунду с допуском
// короткого всплеска до burst.
//
//	limiter := NewRateLimiter(2, 4) // 2 req/sec, burst 4
//	if err := limiter.Wait(ctx); err != nil {
//	    return err
//	}
type RateLimiter struct {
	rate       float64   // токенов в секунду
	burst      float64   // ёмкость ведра
	tokens     float64   // текущее количество токенов
	lastRefill time.Time // время последнего пополнения
	mu         sync.Mutex
	now        func() time.Time
}

// NewRateLimiter создаёт limiter с полным ведром
//
// rate <= 0 заменяется на 1 req/sec, burst меньше rate поднимается до rate.
func NewRateLimiter(rate, burst float64) *RateLimiter {
	if rate <= 0 {
		rate = 1
	}
	if burst < rate {
		burst = rate
	}

	return &RateLimiter{
		rate:       rate,
		burst:      burst,
		tokens:     burst,
		lastRefill: time.Now(),
		now:        time.Now,
	}
}

// refill пополняет токены; вызывается под lock'ом
func (rl *RateLimiter) refill() {
	now := rl.now()
	rl.tokens += now.Sub(rl.lastRefill).Seconds() * rl.rate
	if rl.tokens > rl.burst {
		rl.tokens = rl.burst
	}
	rl.lastRefill = now
}

// take забирает токен или сообщает, сколько ждать следующего
func (rl *RateLimiter) take() (time.Duration, bool) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.refill()
	if rl.tokens >= 1 {
		rl.tokens--
		return 0, true
	}
	return time.Duration((1 - rl.tokens) / rl.rate * float64(time.Second)), false
}

// Wait блокирует до получения токена или отмены контекста
func (rl *RateLimiter) Wait(ctx context.Context) error {
	for {
		wait, ok := rl.take()
		if ok {
			return nil
		}

		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
	}
}

// Allow забирает токен без блокировки
func (rl *RateLimiter) Allow() bool {
	_, ok := rl.take()
	return ok
}

// Tokens возвращает текущее количество токенов (для метрик и тестов)
func (rl *RateLimiter) Tokens() float64 {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.refill()
	return rl.tokens
}
