package main

import (
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"

	"github.com/stewi1014/glmandel/export"
	"github.com/stewi1014/glmandel/renderer"
	"github.com/stewi1014/glmandel/stats"
)

// Messages exchanged between the render and config windows.
type (
	// BackendRequest asks the render window to switch backend.
	BackendRequest struct {
		Kind renderer.Kind
	}

	// BackendChanged reports the active backend. Err is set when a
	// requested switch failed.
	BackendChanged struct {
		Kind renderer.Kind
		Err  string
	}

	StatsMessage struct {
		Sample stats.Sample
	}

	// SaveRequest asks the render window to export the current view.
	SaveRequest struct {
		Path    string
		Options export.Options
	}
)

func init() {
	gob.Register(BackendRequest{})
	gob.Register(BackendChanged{})
	gob.Register(StatsMessage{})
	gob.Register(SaveRequest{})
}

func NewPipeListener() (client net.Conn, listener net.Listener) {
	clientPipe, listenerPipe := net.Pipe()
	return clientPipe, &pipeListener{
		pipe: listenerPipe,
		done: make(chan struct{}),
	}
}

// pipeListener hands out its pipe once, then blocks until closed.
type pipeListener struct {
	mu       sync.Mutex
	pipe     net.Conn
	accepted bool
	done     chan struct{}
	close    sync.Once
}

func (p *pipeListener) Accept() (net.Conn, error) {
	p.mu.Lock()
	if !p.accepted {
		p.accepted = true
		p.mu.Unlock()
		return p.pipe, nil
	}
	p.mu.Unlock()

	<-p.done
	return nil, net.ErrClosed
}

func (p *pipeListener) Close() error {
	var err error
	p.close.Do(func() {
		close(p.done)
		err = p.pipe.Close()
	})
	return err
}

func (p *pipeListener) Addr() net.Addr {
	return p.pipe.LocalAddr()
}

// startSender encodes messages queued on the returned channel until ctx is
// done, then closes conn.
func startSender(ctx context.Context, conn net.Conn, quit func(error)) chan<- any {
	messages := make(chan any, 16)

	go func() {
		enc := gob.NewEncoder(conn)
		defer conn.Close()

		for {
			select {
			case msg := <-messages:
				err := enc.Encode(&msg)
				if err != nil {
					quit(fmt.Errorf("sending %T: %w", msg, err))
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return messages
}

// trySend queues msg unless the queue is full.
func trySend(messages chan<- any, msg any) bool {
	select {
	case messages <- msg:
		return true
	default:
		return false
	}
}

// receive decodes messages from conn and passes them to handle until the
// connection closes.
func receive(conn net.Conn, quit func(error), handle func(any)) {
	dec := gob.NewDecoder(conn)

	for {
		var v any
		err := dec.Decode(&v)
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrClosedPipe) && !errors.Is(err, net.ErrClosed) {
				quit(fmt.Errorf("receiving: %w", err))
			}
			conn.Close()
			return
		}

		handle(v)
	}
}
