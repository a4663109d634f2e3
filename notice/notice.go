package notice

import (
	"sync"
	"time"

	"github.com/eapache/queue"
	"go.uber.org/zap"
)

type Level string

const (
	Info    Level = "info"
	Success Level = "success"
	Error   Level = "error"
)

// Notice is a transient message, the equivalent of a toast or an alert
type Notice struct {
	Level    Level     `json:"level" yaml:"level"`
	Title    string    `json:"title,omitempty" yaml:"title,omitempty"`
	Text     string    `json:"text" yaml:"text"`
	PostedAt time.Time `json:"postedAt" yaml:"postedAt"`
}

// Board is a bounded FIFO of notices. Once full, posting drops the oldest notice.
type Board struct {
	capacity int
	logger   *zap.SugaredLogger

	mu      sync.Mutex
	notices *queue.Queue
}

func NewBoard(capacity int, logger *zap.SugaredLogger) *Board {
	if capacity <= 0 {
		capacity = 1
	}
	return &Board{
		capacity: capacity,
		logger:   logger,
		notices:  queue.New(),
	}
}

func (b *Board) Post(level Level, title, text string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for b.notices.Length() >= b.capacity {
		dropped := b.notices.Remove().(Notice)
		b.logger.Debugw("dropping notice", "text", dropped.Text)
	}
	b.notices.Add(Notice{
		Level:    level,
		Title:    title,
		Text:     text,
		PostedAt: time.Now(),
	})
	b.logger.Infow("notice posted", "level", level, "title", title, "text", text)
}

func (b *Board) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.notices.Length()
}

// Drain removes and returns every queued notice, oldest first
func (b *Board) Drain() []Notice {
	b.mu.Lock()
	defer b.mu.Unlock()

	result := make([]Notice, 0, b.notices.Length())
	for b.notices.Length() > 0 {
		result = append(result, b.notices.Remove().(Notice))
	}
	return result
}
