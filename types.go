package eventbot

import "context"

// TokenPair is the credential pair issued by the university backend: a
// short-lived access token with an embedded expiry claim and a longer-lived
// refresh token.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Profile is the account record behind the backend's profile endpoint.
type Profile struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

// Group is one study group as listed by the backend.
type Group struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Author is the event organizer as reported by the backend.
type Author struct {
	Username string `json:"username"`
}

// EventRecord is one event as listed by the backend.
type EventRecord struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Type        string `json:"type"`
	EventDate   string `json:"event_date"`
	Group       *Group `json:"group,omitempty"`
	Author      Author `json:"author"`
	Attendees   int    `json:"attendees"`
}

// EventDraft is assembled from collected conversation fields at the final
// event-creation step, submitted once, and discarded.
type EventDraft struct {
	Title         string `json:"title"`
	Location      string `json:"location"`
	Type          string `json:"type"`
	GroupID       int    `json:"group"`
	EventDate     string `json:"event_date"`
	CreatorChatID int64  `json:"creator_chat_id"`
}

// Backend is the remote service contract: stateless RPCs against the
// university REST API. Implementations translate transport failures into
// errors; raw failures never reach the chat front end.
type Backend interface {
	Authenticate(ctx context.Context, username, password string) (*TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	LinkChat(ctx context.Context, accessToken string, chatID int64) error
	FetchRole(ctx context.Context, accessToken string, chatID int64) (string, error)
	FetchProfile(ctx context.Context, accessToken string) (*Profile, error)
	FetchGroups(ctx context.Context, accessToken string) ([]Group, error)
	FetchEvents(ctx context.Context, accessToken string) ([]EventRecord, error)
	CreateEvent(ctx context.Context, accessToken string, draft EventDraft) error
}

// Update is one inbound user action delivered by the chat transport. Exactly
// one of Text and Choice is set.
type Update struct {
	ChatID int64
	Text   string // plain message text
	Choice string // callback data of a menu selection
}

// Choice is one entry of a constrained selection menu.
type Choice struct {
	Label string
	Data  string
}

// Menu tells the front end what to do with the persistent keyboard.
type Menu uint8

const (
	// MenuKeep leaves the current keyboard untouched.
	MenuKeep Menu = iota
	// MenuMain shows the main menu.
	MenuMain
	// MenuRemove removes any keyboard.
	MenuRemove
)

// Reply is what a handler asks the chat transport to render.
type Reply struct {
	Messages []string
	Choices  []Choice // inline menu attached to the last message
	Menu     Menu
}

// Handler processes one update for one chat. A nil reply means the update
// was deliberately ignored.
type Handler func(ctx context.Context, upd Update) (*Reply, error)

// ProtectedHandler additionally receives a live access token. The session
// guard guarantees the token's embedded expiry is in the future at
// invocation time.
type ProtectedHandler func(ctx context.Context, upd Update, accessToken string) (*Reply, error)

func textReply(menu Menu, messages ...string) *Reply {
	return &Reply{Messages: messages, Menu: menu}
}

func choiceReply(choices []Choice, messages ...string) *Reply {
	return &Reply{Messages: messages, Choices: choices}
}
