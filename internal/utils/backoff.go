package utils

import (
	"context"
	"errors"
	"math/rand"
	"time"
)

// Backoff reintenta con espera exponencial más jitter.
type Backoff struct {
	base       time.Duration
	jitter     time.Duration
	maxRetries int
}

func NewBackoff(base time.Duration, maxRetries int) Backoff {
	return Backoff{base: base, jitter: base + base/2, maxRetries: maxRetries}
}

type permanentError struct{ err error }

func (p permanentError) Error() string { return p.err.Error() }
func (p permanentError) Unwrap() error { return p.err }

// Permanent marca un error que no vale la pena reintentar.
func Permanent(err error) error { return permanentError{err: err} }

// Do llama fn hasta que no devuelva error, se agoten los reintentos o se
// cancele el contexto. fn recibe el número de intento (desde 0).
func (b Backoff) Do(ctx context.Context, fn func(i int) error) error {
	var err error
	for i := 0; i <= b.maxRetries; i++ {
		if err = fn(i); err == nil {
			return nil
		}
		var p permanentError
		if errors.As(err, &p) {
			return p.err
		}
		if i == b.maxRetries {
			break
		}
		wait := time.Duration(1<<i) * b.base
		if b.jitter > 0 {
			wait += time.Duration(rand.Int63n(int64(b.jitter)))
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
	return err
}
