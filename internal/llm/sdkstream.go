// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package llm

import (
	"context"
	"io"
	"sync"
)

// eventStream is the iterator shape shared by the OpenAI and Anthropic SDK
// server-sent-event streams.
type eventStream[T any] interface {
	Next() bool
	Current() T
	Err() error
	Close() error
}

// sdkStream adapts an SDK event stream to Stream. text extracts the reply
// fragment from one event; events without text are skipped.
type sdkStream[T any] struct {
	provider string
	events   eventStream[T]
	text     func(T) string
	cancel   context.CancelFunc

	closeOnce sync.Once
}

func newSDKStream[T any](provider string, events eventStream[T], cancel context.CancelFunc, text func(T) string) *sdkStream[T] {
	return &sdkStream[T]{provider: provider, events: events, text: text, cancel: cancel}
}

// Next implements Stream.
func (s *sdkStream[T]) Next(ctx context.Context) (string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", wrapContextErr(s.provider, err)
		}
		if !s.events.Next() {
			if err := s.events.Err(); err != nil {
				return "", providerError(s.provider, "stream failed", err)
			}
			return "", io.EOF
		}
		if frag := s.text(s.events.Current()); frag != "" {
			return frag, nil
		}
	}
}

// Close implements Stream.
func (s *sdkStream[T]) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.cancel()
		err = s.events.Close()
	})
	return err
}
