package statuscache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/evgall/ticketline/internal/notify"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestCache_InitAndRead(t *testing.T) {
	c := New()
	c.Init("e1", "demo", 5)

	snap, ok := c.Read("e1")
	assert.True(t, ok)
	assert.Equal(t, "demo", snap.Name)
	assert.Equal(t, 5, snap.AvailableTickets)
	assert.Equal(t, 0, snap.WaitlistCount)

	_, ok = c.Read("missing")
	assert.False(t, ok)
}

func TestCache_InitOverwrites(t *testing.T) {
	c := New()
	c.Init("e1", "demo", 5)
	c.ApplyWait("e1")
	c.Init("e1", "demo", 3)

	snap, _ := c.Read("e1")
	assert.Equal(t, 3, snap.AvailableTickets)
	assert.Equal(t, 0, snap.WaitlistCount)
}

func TestCache_ApplyBooking(t *testing.T) {
	c := New()
	c.Init("e1", "demo", 2)

	c.ApplyBooking("e1", false)
	snap, _ := c.Read("e1")
	assert.Equal(t, 1, snap.AvailableTickets)

	c.ApplyWait("e1")
	c.ApplyBooking("e1", true)
	snap, _ = c.Read("e1")
	assert.Equal(t, 1, snap.AvailableTickets)
	assert.Equal(t, 0, snap.WaitlistCount)
}

func TestCache_ApplyRelease(t *testing.T) {
	c := New()
	c.Init("e1", "demo", 1)
	c.ApplyBooking("e1", false)
	c.ApplyRelease("e1")

	snap, _ := c.Read("e1")
	assert.Equal(t, 1, snap.AvailableTickets)
}

func TestCache_UnknownEventIsNoOp(t *testing.T) {
	c := New()
	c.ApplyBooking("ghost", false)
	c.ApplyWait("ghost")
	c.ApplyRelease("ghost")

	_, ok := c.Read("ghost")
	assert.False(t, ok)
}

func TestCache_ConcurrentDeltas(t *testing.T) {
	c := New()
	c.Init("e1", "demo", 1000)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			c.ApplyBooking("e1", false)
		}()
		go func() {
			defer wg.Done()
			c.ApplyWait("e1")
		}()
	}
	wg.Wait()

	snap, _ := c.Read("e1")
	assert.Equal(t, 900, snap.AvailableTickets)
	assert.Equal(t, 100, snap.WaitlistCount)
}

func TestRun_AppliesMessages(t *testing.T) {
	c := New()
	n := notify.New(16, logrus.New())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go Run(ctx, c, n.Subscribe())

	n.Publish(notify.Message{Kind: notify.KindInit, EventID: "e1", Name: "demo", TotalTickets: 2})
	n.Publish(notify.Message{Kind: notify.KindBooked, EventID: "e1"})
	n.Publish(notify.Message{Kind: notify.KindWaitlisted, EventID: "e1"})

	assert.Eventually(t, func() bool {
		snap, ok := c.Read("e1")
		return ok && snap.AvailableTickets == 1 && snap.WaitlistCount == 1
	}, time.Second, 5*time.Millisecond)
}

func TestRun_StopsOnClose(t *testing.T) {
	c := New()
	n := notify.New(16, logrus.New())

	done := make(chan struct{})
	go func() {
		Run(context.Background(), c, n.Subscribe())
		close(done)
	}()

	n.Close()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("updater did not stop after channel close")
	}
}
