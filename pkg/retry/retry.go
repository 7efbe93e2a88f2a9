package retry

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"
)

// ErrTimeout operation เกิน deadline ที่กำหนด - retryable เสมอ
var ErrTimeout = errors.New("operation timed out")

// ExhaustedError ครบจำนวน attempt แล้วยังไม่สำเร็จ - ห่อ error ล่าสุดไว้
type ExhaustedError struct {
	Attempts int
	Err      error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("retry exhausted after %d attempts: %v", e.Attempts, e.Err)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Err
}

// IsTimeout ตรวจสอบว่า error มาจาก timeout (ของเราหรือจาก context)
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout) || errors.Is(err, context.DeadlineExceeded)
}

// Config ตัวเลือกสำหรับ Do/DoValue
type Config struct {
	MaxAttempts    int           // default: 3
	Timeout        time.Duration // per-attempt timeout, 0 = ไม่จำกัด
	InitialBackoff time.Duration // default: 500ms
	MaxBackoff     time.Duration // default: 30s
	Jitter         bool          // สุ่ม backoff 50-100% กัน thundering herd

	// ShouldRetry ตัดสินว่า error นี้ลองใหม่ได้ไหม (nil = retry ทุก error)
	// timeout ถือว่า retryable เสมอ ไม่ว่า predicate ว่าอะไร
	ShouldRetry func(err error) bool

	// OnRetry hook ก่อน attempt ถัดไป (attempt ที่เพิ่ง fail, error, delay ที่จะรอ)
	OnRetry func(attempt int, err error, delay time.Duration)
}

func (c Config) withDefaults() Config {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 3
	}
	if c.InitialBackoff <= 0 {
		c.InitialBackoff = 500 * time.Millisecond
	}
	if c.MaxBackoff <= 0 {
		c.MaxBackoff = 30 * time.Second
	}
	return c
}

// backoffFor คำนวณ delay ก่อน attempt ที่ n (1-based): min(initial*2^(n-1), max)
func (c Config) backoffFor(attempt int) time.Duration {
	d := c.InitialBackoff
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= c.MaxBackoff {
			d = c.MaxBackoff
			break
		}
	}
	if c.Jitter {
		// 50-100% ของ delay
		d = d/2 + time.Duration(rand.Int63n(int64(d/2)+1))
	}
	return d
}

// WithTimeout รัน op ภายใต้ deadline - timer ถูกปล่อยเสมอ
// ถ้า op ไม่จบใน d จะได้ ErrTimeout (op ควรเคารพ ctx cancellation)
func WithTimeout(ctx context.Context, d time.Duration, op func(ctx context.Context) error) error {
	if d <= 0 {
		return op(ctx)
	}

	tctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- op(tctx)
	}()

	select {
	case err := <-done:
		if err != nil && errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return err
	case <-tctx.Done():
		if errors.Is(tctx.Err(), context.DeadlineExceeded) {
			return ErrTimeout
		}
		return tctx.Err()
	}
}

// Do รัน op พร้อม retry + exponential backoff ตาม config
// error ที่ไม่ retryable propagate ทันทีโดยไม่ห่อ
func Do(ctx context.Context, cfg Config, op func(ctx context.Context) error) error {
	_, err := DoValue(ctx, cfg, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	})
	return err
}

// DoValue เหมือน Do แต่ op คืนค่าด้วย
func DoValue[T any](ctx context.Context, cfg Config, op func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	cfg = cfg.withDefaults()

	var lastErr error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		var result T
		var err error
		if cfg.Timeout > 0 {
			err = WithTimeout(ctx, cfg.Timeout, func(tctx context.Context) error {
				var opErr error
				result, opErr = op(tctx)
				return opErr
			})
		} else {
			result, err = op(ctx)
		}

		if err == nil {
			return result, nil
		}
		lastErr = err

		// context ของ caller ถูก cancel = เลิกทันที
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}

		if !retryable(cfg, err) {
			return zero, err
		}

		if attempt == cfg.MaxAttempts {
			break
		}

		delay := cfg.backoffFor(attempt)
		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, err, delay)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}

	return zero, &ExhaustedError{Attempts: cfg.MaxAttempts, Err: lastErr}
}

func retryable(cfg Config, err error) bool {
	if IsTimeout(err) {
		return true
	}
	if cfg.ShouldRetry == nil {
		return true
	}
	return cfg.ShouldRetry(err)
}
