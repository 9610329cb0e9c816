package player

import "github.com/desertthunder/pifi/internal/models"

// DefaultQueueSize bounds pending commands.
const DefaultQueueSize = 16

// Queue is the bounded hand-off between command producers and the dispatcher.
type Queue struct {
	ch chan models.Command
}

func NewQueue(size int) *Queue {
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &Queue{ch: make(chan models.Command, size)}
}

// Enqueue adds cmd without blocking. It returns false when the queue is full and cmd was dropped.
func (q *Queue) Enqueue(cmd models.Command) bool {
	select {
	case q.ch <- cmd:
		return true
	default:
		return false
	}
}

// Commands is the consumer side.
func (q *Queue) Commands() <-chan models.Command {
	return q.ch
}

// Len returns the number of pending commands.
func (q *Queue) Len() int {
	return len(q.ch)
}
