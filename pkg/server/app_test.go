package server

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunContextShutsDownInOrder(t *testing.T) {
	var mu sync.Mutex
	var order []string
	record := func(s string) {
		mu.Lock()
		defer mu.Unlock()
		order = append(order, s)
	}

	stopped := make(chan struct{})
	app := New(Deps{
		Background: []Background{func(stop <-chan struct{}) {
			<-stop
			record("background")
			close(stopped)
		}},
		Closers: []Closer{
			{Name: "publisher", Close: func() error { record("publisher"); return nil }},
			{Name: "store", Close: func() error { record("store"); return errors.New("busy") }},
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.RunContext(ctx) }()
	cancel()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.Contains(t, err.Error(), "busy")
	case <-time.After(2 * time.Second):
		t.Fatal("app did not stop")
	}
	<-stopped

	mu.Lock()
	defer mu.Unlock()
	assert.Contains(t, order, "background")
	assert.Equal(t, []string{"publisher", "store"}, without(order, "background"))
}

func without(in []string, drop string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s != drop {
			out = append(out, s)
		}
	}
	return out
}
