package statuscache

import (
	"context"

	"github.com/evgall/ticketline/internal/notify"
)

// Run consumes the notification channel and applies each delta to the
// cache. It is the single writer consuming the channel and returns when the
// context is cancelled or the channel is closed.
func Run(ctx context.Context, cache *Cache, messages <-chan notify.Message) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}
			switch msg.Kind {
			case notify.KindInit:
				cache.Init(msg.EventID, msg.Name, msg.TotalTickets)
			case notify.KindBooked:
				cache.ApplyBooking(msg.EventID, msg.Replacement)
			case notify.KindWaitlisted:
				cache.ApplyWait(msg.EventID)
			case notify.KindReleased:
				cache.ApplyRelease(msg.EventID)
			}
		}
	}
}
