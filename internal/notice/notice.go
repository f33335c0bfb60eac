// Package notice carries transient, auto-dismissing user notifications.
// Notices are fire-and-forget and never part of feed state.
package notice

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

type Level int

const (
	Info Level = iota
	Warn
	Error
)

func (l Level) String() string {
	switch l {
	case Warn:
		return "warn"
	case Error:
		return "error"
	default:
		return "info"
	}
}

type Notice struct {
	Level   Level
	Message string
	At      time.Time
}

// Notifier accepts notices. Implementations must not block.
type Notifier interface {
	Notify(n Notice)
}

// Func adapts a plain function to a Notifier.
type Func func(Notice)

func (f Func) Notify(n Notice) { f(n) }

// Discard drops every notice.
var Discard Notifier = Func(func(Notice) {})

// New stamps a notice with the current time.
func New(level Level, msg string) Notice {
	return Notice{Level: level, Message: msg, At: time.Now()}
}

// Queue is a bounded buffer of notices. When full, the oldest notice is
// dropped so producers never block.
type Queue struct {
	mu sync.Mutex
	ch chan Notice
}

func NewQueue(size int) *Queue {
	if size <= 0 {
		size = 16
	}
	return &Queue{ch: make(chan Notice, size)}
}

func (q *Queue) Notify(n Notice) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for {
		select {
		case q.ch <- n:
			return
		default:
		}
		select {
		case <-q.ch:
		default:
		}
	}
}

// C exposes the receive side for consumers.
func (q *Queue) C() <-chan Notice {
	return q.ch
}

// Drain returns every queued notice without blocking.
func (q *Queue) Drain() []Notice {
	var out []Notice
	for {
		select {
		case n := <-q.ch:
			out = append(out, n)
		default:
			return out
		}
	}
}

// Log writes notices to a logger, for non-interactive commands.
type Log struct {
	Logger *log.Logger
}

func (l Log) Notify(n Notice) {
	if l.Logger == nil {
		return
	}
	switch n.Level {
	case Error:
		l.Logger.Error(n.Message)
	case Warn:
		l.Logger.Warn(n.Message)
	default:
		l.Logger.Info(n.Message)
	}
}

// Multi fans a notice out to several notifiers.
func Multi(ns ...Notifier) Notifier {
	return Func(func(n Notice) {
		for _, x := range ns {
			if x != nil {
				x.Notify(n)
			}
		}
	})
}
