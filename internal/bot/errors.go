package bot

import "errors"

// ErrUnroutable indicates an update that carries no chat identity and so
// cannot be assigned to a conversation worker.
var ErrUnroutable = errors.New("update has no chat id")

// ErrQueueFull indicates the conversation's inbound queue rejected an update.
var ErrQueueFull = errors.New("conversation queue full")

// ErrStopped indicates the dispatcher no longer accepts updates.
var ErrStopped = errors.New("dispatcher stopped")
