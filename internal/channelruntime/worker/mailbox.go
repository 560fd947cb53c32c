package worker

import (
	"context"
	"sync"
	"time"
)

const defaultMailboxBuffer = 16

type MailboxOptions[J any] struct {
	// Sem bounds concurrent handlers across all keys. Nil means unbounded.
	Sem         chan struct{}
	Buffer      int
	IdleTimeout time.Duration
	Handle      func(context.Context, J)
}

// Mailboxes runs one worker per key. Jobs of a key are handled one at a time
// in enqueue order; different keys run in parallel. A worker exits after
// IdleTimeout without jobs and is restarted by the next Enqueue.
type Mailboxes[K comparable, J any] struct {
	ctx  context.Context
	opts MailboxOptions[J]

	mu    sync.Mutex
	boxes map[K]*mailbox[J]
	wg    sync.WaitGroup
}

type mailbox[J any] struct {
	jobs    chan J
	pending int
}

func NewMailboxes[K comparable, J any](ctx context.Context, opts MailboxOptions[J]) *Mailboxes[K, J] {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Buffer <= 0 {
		opts.Buffer = defaultMailboxBuffer
	}
	return &Mailboxes[K, J]{
		ctx:   ctx,
		opts:  opts,
		boxes: make(map[K]*mailbox[J]),
	}
}

// Enqueue appends job to key's mailbox, blocking while the mailbox is full.
func (m *Mailboxes[K, J]) Enqueue(ctx context.Context, key K, job J) error {
	if err := m.ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	box := m.boxes[key]
	if box == nil {
		box = m.startLocked(key)
	}
	box.pending++
	m.mu.Unlock()

	err := Enqueue(ctx, m.ctx, box.jobs, job)

	m.mu.Lock()
	box.pending--
	m.mu.Unlock()
	return err
}

// Len reports the number of running workers.
func (m *Mailboxes[K, J]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.boxes)
}

// Wait blocks until every worker has returned. Workers return once the
// context passed to NewMailboxes is done or they go idle.
func (m *Mailboxes[K, J]) Wait() {
	m.wg.Wait()
}

func (m *Mailboxes[K, J]) startLocked(key K) *mailbox[J] {
	box := &mailbox[J]{jobs: make(chan J, m.opts.Buffer)}
	m.boxes[key] = box
	m.wg.Add(1)
	Start(StartOptions[J]{
		Ctx:         m.ctx,
		Sem:         m.opts.Sem,
		Jobs:        box.jobs,
		Handle:      m.opts.Handle,
		IdleTimeout: m.opts.IdleTimeout,
		OnIdle: func() bool {
			m.mu.Lock()
			defer m.mu.Unlock()
			if box.pending > 0 || len(box.jobs) > 0 {
				return false
			}
			delete(m.boxes, key)
			return true
		},
		Done: func() {
			m.mu.Lock()
			if m.boxes[key] == box {
				delete(m.boxes, key)
			}
			m.mu.Unlock()
			m.wg.Done()
		},
	})
	return box
}
