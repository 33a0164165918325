package notifier

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNotifier_SubscribeCancel(t *testing.T) {
	n := New()

	_, cancel := n.Subscribe()
	assert.Equal(t, 1, n.Len())

	cancel()
	cancel() // second call is a no-op
	assert.Equal(t, 0, n.Len())
	assert.Equal(t, 0, n.Broadcast())
}

func TestNotifier_Broadcast(t *testing.T) {
	n := New()
	ch1, cancel1 := n.Subscribe()
	ch2, cancel2 := n.Subscribe()
	defer cancel1()
	defer cancel2()

	assert.Equal(t, 2, n.Broadcast())

	for i, ch := range []<-chan struct{}{ch1, ch2} {
		select {
		case <-ch:
		case <-time.After(100 * time.Millisecond):
			t.Errorf("subscriber %d did not receive broadcast", i)
		}
	}
}

func TestNotifier_PendingPingIsNotDuplicated(t *testing.T) {
	n := New()
	ch, cancel := n.Subscribe()
	defer cancel()

	assert.Equal(t, 1, n.Broadcast())
	assert.Equal(t, 0, n.Broadcast(), "unread ping blocks the next one")

	<-ch
	assert.Equal(t, 1, n.Broadcast())
}

func TestNotifier_Concurrent(t *testing.T) {
	n := New()
	var wg sync.WaitGroup
	for range 20 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, cancel := n.Subscribe()
			cancel()
		}()
		go func() {
			defer wg.Done()
			n.Broadcast()
		}()
	}
	wg.Wait()
	assert.Equal(t, 0, n.Len())
}
