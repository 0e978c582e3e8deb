package tg

import (
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"
)

type HandlerFunc func(*Ctx) error

type Middleware func(HandlerFunc) HandlerFunc

func Chain(h HandlerFunc, m ...Middleware) HandlerFunc {
	for i := len(m) - 1; i >= 0; i-- {
		h = m[i](h)
	}
	return h
}

// Recover turns a handler panic into an error.
func Recover() Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(c *Ctx) (err error) {
			defer func() {
				if r := recover(); r != nil {
					c.Log.Error("handler panic", slog.Any("panic", r), slog.String("stack", string(debug.Stack())))
					err = fmt.Errorf("panic: %v", r)
				}
			}()
			return next(c)
		}
	}
}

// NotifyErrors tells the chat that the update failed. The error is still
// returned to the worker for logging.
func NotifyErrors(notice string) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(c *Ctx) error {
			err := next(c)
			if err == nil || c.ChatID() == 0 {
				return err
			}
			if sendErr := c.SendMessage(notice); sendErr != nil {
				c.Log.Warn("failed to send error notice", "err", sendErr)
			}
			return err
		}
	}
}

func LogDuration() Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(c *Ctx) error {
			start := time.Now()
			err := next(c)
			c.Log.Debug("update handled", slog.Duration("took", time.Since(start)), slog.Bool("failed", err != nil))
			return err
		}
	}
}
