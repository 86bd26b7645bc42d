package main

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stewi1014/glmandel/export"
	"github.com/stewi1014/glmandel/renderer"
	"github.com/stewi1014/glmandel/stats"
)

func TestPipeMessages(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client, listener := NewPipeListener()
	defer listener.Close()

	server, err := listener.Accept()
	if err != nil {
		t.Fatal(err)
	}

	quit := func(err error) { t.Errorf("quit: %v", err) }
	send := startSender(ctx, client, quit)

	received := make(chan any, 4)
	go receive(server, quit, func(v any) { received <- v })

	sent := []any{
		BackendRequest{Kind: renderer.KindNative},
		BackendChanged{Kind: renderer.KindCPU, Err: "no GL"},
		StatsMessage{Sample: stats.Sample{FPS: 60, Average: time.Millisecond}},
		SaveRequest{Path: "out.png", Options: export.Options{Width: 10, Height: 20, Supersample: 2}},
	}
	for _, msg := range sent {
		if !trySend(send, msg) {
			t.Fatalf("queue full sending %T", msg)
		}
	}

	for i, want := range sent {
		select {
		case got := <-received:
			if got != want {
				t.Errorf("message %v = %#v, want %#v", i, got, want)
			}
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for message %v", i)
		}
	}
}

func TestPipeListenerAcceptsOnce(t *testing.T) {
	_, listener := NewPipeListener()

	if _, err := listener.Accept(); err != nil {
		t.Fatal(err)
	}

	done := make(chan error)
	go func() {
		_, err := listener.Accept()
		done <- err
	}()

	listener.Close()
	if err := <-done; !errors.Is(err, net.ErrClosed) {
		t.Errorf("second Accept = %v, want net.ErrClosed", err)
	}
}
