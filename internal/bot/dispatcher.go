package bot

import (
	"context"
	"log/slog"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const workerQueueSize = 16

// Dispatcher fans updates out to one worker goroutine per chat. Updates for
// the same chat apply in arrival order; different chats run in parallel,
// bounded by a global semaphore so concurrent fetches stay capped.
type Dispatcher struct {
	logger  *slog.Logger
	handler Handler
	sem     chan struct{}

	mu      sync.Mutex
	workers map[int64]chan tgbotapi.Update
	stopped bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewDispatcher builds a dispatcher handing updates to handler with at most
// maxConcurrent updates in flight across all chats.
func NewDispatcher(log *slog.Logger, handler Handler, maxConcurrent int) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		logger:  log.With(slog.String("service", "dispatcher")),
		handler: handler,
		sem:     make(chan struct{}, maxConcurrent),
		workers: make(map[int64]chan tgbotapi.Update),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Enqueue routes an update to its chat worker, spawning the worker on first
// sight of the chat. It never blocks the caller.
func (d *Dispatcher) Enqueue(update tgbotapi.Update) error {
	chatID := chatIDOf(update)
	if chatID == 0 {
		return ErrUnroutable
	}

	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return ErrStopped
	}
	ch, ok := d.workers[chatID]
	if !ok {
		ch = make(chan tgbotapi.Update, workerQueueSize)
		d.workers[chatID] = ch
		d.wg.Add(1)
		go d.run(chatID, ch)
	}
	d.mu.Unlock()

	select {
	case ch <- update:
		return nil
	default:
		d.logger.Warn("queue full, dropping update", slog.Int64("chat_id", chatID))
		return ErrQueueFull
	}
}

func (d *Dispatcher) run(chatID int64, ch <-chan tgbotapi.Update) {
	defer d.wg.Done()
	for {
		select {
		case <-d.ctx.Done():
			return
		case update := <-ch:
			select {
			case d.sem <- struct{}{}:
			case <-d.ctx.Done():
				return
			}
			d.handler.HandleUpdate(d.ctx, update)
			<-d.sem
		}
	}
}

// Shutdown stops accepting updates and releases the workers. In-flight
// handlers observe a cancelled context; queued updates are dropped.
func (d *Dispatcher) Shutdown() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	d.mu.Unlock()

	d.cancel()
	d.wg.Wait()
	d.logger.Info("dispatcher stopped")
}

func chatIDOf(update tgbotapi.Update) int64 {
	switch {
	case update.Message != nil && update.Message.Chat != nil:
		return update.Message.Chat.ID
	case update.CallbackQuery != nil &&
		update.CallbackQuery.Message != nil &&
		update.CallbackQuery.Message.Chat != nil:
		return update.CallbackQuery.Message.Chat.ID
	default:
		return 0
	}
}
