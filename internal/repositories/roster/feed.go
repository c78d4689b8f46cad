package roster

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/KirkDiggler/roster-api/internal/entities/pokemon"
)

// loadFunc reads the complete roster for one subscriber
type loadFunc func(ctx context.Context) (pokemon.Roster, error)

// subscription runs one subscriber's delivery loop. Every wake-up on trigger
// reloads the roster and hands it to the callback; wake-ups that arrive while
// a delivery is running collapse into one.
type subscription struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
	onStop func()
}

func startSubscription(
	ctx context.Context,
	trigger <-chan struct{},
	load loadFunc,
	onSnapshot SnapshotFunc,
	logger *zap.Logger,
	onStop func(),
) *subscription {
	ctx, cancel := context.WithCancel(ctx)
	s := &subscription{
		cancel: cancel,
		done:   make(chan struct{}),
		onStop: onStop,
	}

	go func() {
		defer close(s.done)
		for {
			roster, err := load(ctx)
			switch {
			case ctx.Err() != nil:
				return
			case err != nil:
				logger.Warn("failed to load roster snapshot", zap.Error(err))
			default:
				onSnapshot(roster)
			}

			select {
			case <-ctx.Done():
				return
			case <-trigger:
			}
		}
	}()

	return s
}

// stop cancels the loop and blocks until it has exited. Concurrent callers
// all wait for the first one to finish.
func (s *subscription) stop() {
	s.once.Do(func() {
		s.cancel()
		if s.onStop != nil {
			s.onStop()
		}
		<-s.done
	})
}

// wake does a non-blocking send on a coalescing trigger
func wake(trigger chan struct{}) {
	select {
	case trigger <- struct{}{}:
	default:
	}
}

// hub fans change notifications out to in-process subscribers
type hub struct {
	mu   sync.Mutex
	subs map[string]map[chan struct{}]struct{}
}

func newHub() *hub {
	return &hub{subs: make(map[string]map[chan struct{}]struct{})}
}

func (h *hub) add(userID string) chan struct{} {
	h.mu.Lock()
	defer h.mu.Unlock()

	trigger := make(chan struct{}, 1)
	if h.subs[userID] == nil {
		h.subs[userID] = make(map[chan struct{}]struct{})
	}
	h.subs[userID][trigger] = struct{}{}
	return trigger
}

func (h *hub) remove(userID string, trigger chan struct{}) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.subs[userID], trigger)
	if len(h.subs[userID]) == 0 {
		delete(h.subs, userID)
	}
}

func (h *hub) publish(userID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for trigger := range h.subs[userID] {
		wake(trigger)
	}
}

// subscribeLocal wires a subscription to the hub
func subscribeLocal(ctx context.Context, h *hub, input *SubscribeInput, load loadFunc, logger *zap.Logger) *SubscribeOutput {
	trigger := h.add(input.UserID)
	sub := startSubscription(context.WithoutCancel(ctx), trigger, load, input.OnSnapshot, logger, func() {
		h.remove(input.UserID, trigger)
	})
	return &SubscribeOutput{Unsubscribe: sub.stop}
}
