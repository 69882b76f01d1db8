package eventbot

import (
	"context"
	"sync"

	"github.com/campusgram/eventbot/flow"

	"github.com/google/uuid"
)

// Router is the routing table between the chat transport and the engine.
// Protected routes are wrapped with the session guard here, in one place, so
// every protected operation shares identical gating semantics. Dispatch is
// serialized per chat: even if the transport delivers updates concurrently,
// a single chat's updates are processed one at a time in arrival order.
// Locks are striped, so distinct chats mostly proceed independently.
type Router struct {
	engine *Engine
	locks  [chatLockStripes]sync.Mutex
}

// chatLockStripes bounds the lock table. A chat always maps to the same
// stripe, so its updates stay serialized; two chats sharing a stripe only
// costs them some contention.
const chatLockStripes = 256

func NewRouter(engine *Engine) *Router {
	return &Router{
		engine: engine,
	}
}

func (r *Router) chatLock(chatID int64) *sync.Mutex {
	return &r.locks[uint64(chatID)%chatLockStripes]
}

// Dispatch routes one inbound update to its handler and returns the reply to
// render. A nil reply means the update matched nothing and was ignored.
func (r *Router) Dispatch(ctx context.Context, upd Update) (*Reply, error) {
	if r == nil || r.engine == nil {
		return nil, ErrEngineNotReady
	}

	lock := r.chatLock(upd.ChatID)
	lock.Lock()
	defer lock.Unlock()

	handler, name := r.route(upd)
	if handler == nil {
		return nil, nil
	}

	updateID := uuid.NewString()
	reply, err := handler(ctx, upd)
	r.engine.emitAudit(ctx, "handler."+name, upd.ChatID, updateID, err)
	return reply, err
}

func (r *Router) route(upd Update) (Handler, string) {
	e := r.engine

	if upd.Choice != "" {
		return e.WithSession(e.eventChoice), "flow_choice"
	}

	if upd.Text == "/start" {
		return e.Start, "start"
	}

	// During login the active step consumes every free text, even text that
	// collides with a menu label. A password may literally be "Profile".
	if f, _, ok := e.flows.Current(upd.ChatID); ok && f == flow.FlowLogin {
		return e.loginInput, "login_input"
	}

	switch upd.Text {
	case LabelLogout:
		return e.Logout, "logout"
	case LabelProfile:
		return e.WithSession(e.Profile), "profile"
	case LabelBrowseEvents:
		return e.WithSession(e.Events), "events"
	case LabelCreateEvent:
		return e.WithSession(e.BeginEventCreation), "event_begin"
	}

	if _, _, ok := e.flows.Current(upd.ChatID); ok {
		return e.WithSession(e.eventInput), "event_input"
	}
	return nil, ""
}
