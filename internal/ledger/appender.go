// Package ledger appends booking rows to the external tour ledger.
//
// The Appender owns the shared ledger client. Every AppendRow call goes through
// a single mutex, so clients that are not safe for concurrent use (such as a
// spreadsheet API session) see one writer at a time. Each call is bounded by a
// timeout; timeouts and transient store failures are retried with exponential
// backoff up to a fixed attempt budget, permanent failures are returned at once.
// The Appender never reads rows back from the store.
package ledger

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/Domenick1991/tourledger/internal/domain"
	"github.com/sirupsen/logrus"
)

// Client is the raw append capability of a ledger store. Implementations
// classify failures as domain.TransientStoreError or domain.PermanentStoreError
// and must honour ctx cancellation.
type Client interface {
	AppendRow(ctx context.Context, cells []any, opts AppendOptions) error
}

type AppendOptions struct {
	// ValueInputOption tells spreadsheet stores how to interpret cell values.
	ValueInputOption string
}

const (
	DefaultMaxAttempts = 3
	DefaultBaseBackoff = 200 * time.Millisecond
	DefaultMaxBackoff  = 2 * time.Second
	DefaultCallTimeout = 10 * time.Second
)

type Appender struct {
	client      Client
	mu          sync.Mutex
	options     AppendOptions
	maxAttempts int
	baseBackoff time.Duration
	maxBackoff  time.Duration
	callTimeout time.Duration
	sleep       func(ctx context.Context, d time.Duration) error
	logger      logrus.FieldLogger
}

type Option func(*Appender)

func WithMaxAttempts(n int) Option {
	return func(a *Appender) {
		if n > 0 {
			a.maxAttempts = n
		}
	}
}

func WithBackoff(base, maxDelay time.Duration) Option {
	return func(a *Appender) {
		a.baseBackoff = base
		a.maxBackoff = maxDelay
	}
}

func WithCallTimeout(d time.Duration) Option {
	return func(a *Appender) {
		if d > 0 {
			a.callTimeout = d
		}
	}
}

func WithValueInputOption(option string) Option {
	return func(a *Appender) {
		a.options.ValueInputOption = option
	}
}

func WithLogger(logger logrus.FieldLogger) Option {
	return func(a *Appender) {
		a.logger = logger
	}
}

func NewAppender(client Client, opts ...Option) *Appender {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	a := &Appender{
		client:      client,
		options:     AppendOptions{ValueInputOption: "USER_ENTERED"},
		maxAttempts: DefaultMaxAttempts,
		baseBackoff: DefaultBaseBackoff,
		maxBackoff:  DefaultMaxBackoff,
		callTimeout: DefaultCallTimeout,
		sleep:       sleepContext,
		logger:      discard,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Appender) Append(ctx context.Context, row domain.Row) error {
	cells := row.Cells()

	var lastErr error
	attempts := 0
	for attempts < a.maxAttempts {
		attempts++
		err := a.appendOnce(ctx, cells)
		if err == nil {
			return nil
		}
		if !domain.IsTransientStore(err) {
			return err
		}
		lastErr = err

		if ctx.Err() != nil || attempts == a.maxAttempts {
			break
		}

		delay := a.backoff(attempts)
		a.logger.WithError(err).WithFields(logrus.Fields{
			"attempt":  attempts,
			"retry_in": delay.String(),
		}).Warn("ledger append failed, retrying")
		if err := a.sleep(ctx, delay); err != nil {
			break
		}
	}

	return domain.TransientStoreError{Msg: "ledger append failed", Attempts: attempts, Err: lastErr}
}

func (a *Appender) appendOnce(ctx context.Context, cells []any) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	callCtx, cancel := context.WithTimeout(ctx, a.callTimeout)
	defer cancel()

	return classify(a.client.AppendRow(callCtx, cells, a.options))
}

func (a *Appender) backoff(attempt int) time.Duration {
	delay := a.baseBackoff << (attempt - 1)
	if a.maxBackoff > 0 && (delay > a.maxBackoff || delay <= 0) {
		delay = a.maxBackoff
	}
	return delay
}

func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case domain.IsTransientStore(err), domain.IsPermanentStore(err), domain.IsInternal(err):
		return err
	case errors.Is(err, context.DeadlineExceeded):
		return domain.TransientStoreError{Msg: "ledger call timed out", Err: err}
	case errors.Is(err, context.Canceled):
		return domain.TransientStoreError{Msg: "ledger call canceled", Err: err}
	default:
		return domain.InternalError{Msg: "unclassified ledger error", Err: err}
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
