package notify

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/resumehub/internal/logging"
)

// DefaultSendTimeout bounds a single background send.
const DefaultSendTimeout = 30 * time.Second

// Dispatcher sends notifications in the background after the primary
// operation has committed. Failures are logged and never reach the caller.
type Dispatcher struct {
	notifier Notifier
	logger   logging.Logger
	timeout  time.Duration
	wg       sync.WaitGroup
}

func NewDispatcher(notifier Notifier, logger logging.Logger, timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = DefaultSendTimeout
	}
	return &Dispatcher{
		notifier: notifier,
		logger:   logger.With("module", "dispatcher"),
		timeout:  timeout,
	}
}

// DispatchVerification queues the verification email and returns at once.
// The send outlives ctx cancellation but not the dispatcher timeout.
func (d *Dispatcher) DispatchVerification(ctx context.Context, email, code string) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
		defer cancel()

		defer func() {
			if r := recover(); r != nil {
				d.logger.Error(sendCtx, "verification email panicked", "email", email, "panic", r)
			}
		}()

		if err := d.notifier.SendVerificationEmail(sendCtx, email, code); err != nil {
			d.logger.Error(sendCtx, "verification email failed", "email", email, "error", err)
			return
		}
		d.logger.Debug(sendCtx, "verification email sent", "email", email)
	}()
}

// Wait blocks until every dispatched send has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
