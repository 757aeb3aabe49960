package hub

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestHubDeliversBroadcasts(t *testing.T) {
	h := New(zaptest.NewLogger(t))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	srv := httptest.NewServer(h)
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(line, ": connected "))

	require.Eventually(t, func() bool { return h.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	h.Broadcast(map[string]string{"type": "graph_rebuilt"})
	for {
		line, err = reader.ReadString('\n')
		require.NoError(t, err)
		if strings.HasPrefix(line, "data: ") {
			break
		}
	}
	assert.Equal(t, `data: {"type":"graph_rebuilt"}`+"\n", line)
}

func TestHubRunStopsAndDropsClients(t *testing.T) {
	h := New(nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(done)
	}()

	c := &Client{id: "c", events: make(chan []byte, 1)}
	h.register <- c
	require.Eventually(t, func() bool { return h.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	<-done
	assert.Zero(t, h.ClientCount())
	_, open := <-c.events
	assert.False(t, open)
}

func TestBroadcastNeverBlocks(t *testing.T) {
	h := New(nil) // not running
	for i := 0; i < 1000; i++ {
		h.Broadcast(i)
	}
	assert.Len(t, h.broadcast, cap(h.broadcast))
}
