package practice

import (
	"context"
	"time"

	"github.com/ashureev/practice-coach/internal/domain"
	"github.com/ashureev/practice-coach/internal/metrics"
	"github.com/ashureev/practice-coach/internal/persona"
)

// pendingReply is a partner message waiting for its due time.
type pendingReply struct {
	due     time.Time
	opening bool
	input   persona.ReplyInput
}

// dispatcher delivers one session's partner messages in FIFO order.
// pending is guarded by the owning Engine's mutex.
type dispatcher struct {
	ctx     context.Context
	cancel  context.CancelFunc
	wake    chan struct{}
	pending []pendingReply
}

// newDispatcher keeps the values of parent but not its cancellation, so a
// session outlives the request that started it.
func newDispatcher(parent context.Context) *dispatcher {
	ctx, cancel := context.WithCancel(context.WithoutCancel(parent))
	return &dispatcher{
		ctx:    ctx,
		cancel: cancel,
		wake:   make(chan struct{}, 1),
	}
}

func (d *dispatcher) enqueue(p pendingReply) {
	d.pending = append(d.pending, p)
	select {
	case d.wake <- struct{}{}:
	default:
	}
}

func (d *dispatcher) stop() {
	if n := len(d.pending); n > 0 {
		metrics.RepliesDropped.Add(float64(n))
	}
	d.pending = nil
	d.cancel()
}

// dispatch runs until the session ends.
func (e *Engine) dispatch(d *dispatcher, sessionID string) {
	for {
		e.mu.Lock()
		var (
			next pendingReply
			ok   bool
		)
		if len(d.pending) > 0 {
			next, ok = d.pending[0], true
		}
		e.mu.Unlock()

		if !ok {
			select {
			case <-d.ctx.Done():
				return
			case <-d.wake:
				continue
			}
		}

		timer := time.NewTimer(time.Until(next.due))
		select {
		case <-d.ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
		e.deliver(d, sessionID)
	}
}

// deliver appends the head of the queue unless the session has ended since
// the reply was scheduled.
func (e *Engine) deliver(d *dispatcher, sessionID string) {
	e.mu.Lock()
	if d.ctx.Err() != nil || e.dispatcher != d || e.session == nil || e.session.ID != sessionID || len(d.pending) == 0 {
		e.mu.Unlock()
		return
	}
	next := d.pending[0]
	d.pending = d.pending[1:]

	var text string
	if next.opening {
		text = e.generator.Opening(e.session.Scenario, e.session.Persona)
	} else {
		text = e.generator.Reply(next.input)
	}
	msg := e.appendLocked(domain.SenderPartner, text, nil).Clone()
	remaining := len(d.pending)
	e.mu.Unlock()

	e.listener.MessageAppended(e.userID, sessionID, msg)
	if remaining == 0 {
		e.listener.PartnerTyping(e.userID, sessionID, false)
	}
}
