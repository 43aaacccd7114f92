package service

import (
	"context"
	"errors"
	"time"

	"github.com/conduit/internal/apperr"
	"github.com/conduit/internal/db"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// DefaultQueryTimeout bounds one unit of work when none is configured.
const DefaultQueryTimeout = 5 * time.Second

// FailureRecorder counts infrastructure failures per operation.
type FailureRecorder interface {
	RecordFailure(operation, kind string)
}

// Runner executes each operation as one bounded transaction and turns
// whatever comes back into an apperr kind.
type Runner struct {
	db       *gorm.DB
	timeout  time.Duration
	log      logrus.FieldLogger
	failures FailureRecorder
}

// NewRunner 构造 Runner，log 为空时丢弃日志
func NewRunner(gdb *gorm.DB, timeout time.Duration, log logrus.FieldLogger) *Runner {
	if timeout <= 0 {
		timeout = DefaultQueryTimeout
	}
	if log == nil {
		discard := logrus.New()
		discard.SetLevel(logrus.PanicLevel)
		log = discard
	}
	return &Runner{db: gdb, timeout: timeout, log: log}
}

// WithFailureRecorder attaches a metrics sink.
func (r *Runner) WithFailureRecorder(rec FailureRecorder) *Runner {
	r.failures = rec
	return r
}

func (r *Runner) inTx(ctx context.Context, op string, fn func(tx *gorm.DB) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	err := r.db.WithContext(ctx).Transaction(fn)
	if err == nil {
		return nil
	}
	return r.classify(ctx, op, err)
}

// classify passes business errors through and wraps everything else.
// Storage, server and timeout failures are logged with their cause.
func (r *Runner) classify(ctx context.Context, op string, err error) error {
	typed, ok := apperr.As(err)
	switch {
	case ok:
	case errors.Is(err, context.DeadlineExceeded), errors.Is(ctx.Err(), context.DeadlineExceeded):
		typed = apperr.Timeout("operation timed out", err)
	case errors.Is(err, context.Canceled):
		typed = apperr.Timeout("operation cancelled", err)
	default:
		typed = apperr.Storage(err)
	}

	switch typed.Kind {
	case apperr.KindStorage, apperr.KindServer, apperr.KindTimeout:
		r.log.WithFields(logrus.Fields{
			"operation": op,
			"kind":      typed.Kind.String(),
		}).WithError(typed.Err).Error("operation failed")
		if r.failures != nil {
			r.failures.RecordFailure(op, typed.Kind.String())
		}
	}
	return typed
}

// report classifies failures raised outside a transaction, e.g. hashing.
func (r *Runner) report(op string, err error) error {
	return r.classify(context.Background(), op, err)
}

func conflictOnDuplicate(err error, message string) error {
	if db.IsUniqueViolation(err) {
		return apperr.Conflict(message)
	}
	return err
}

// nullable maps an anonymous viewer (id 0) to a NULL bind value.
func nullable(id int64) any {
	if id <= 0 {
		return nil
	}
	return id
}

func optional(value *string) any {
	if value == nil {
		return nil
	}
	return *value
}
