package event_bus

const (
	StoreChanged EventType = "store.changed"
	ChatReplied  EventType = "chat.replied"
)

type ChangeKind string

const (
	ChangeRefreshed ChangeKind = "refreshed"
	ChangeCreated   ChangeKind = "created"
	ChangeUpdated   ChangeKind = "updated"
	ChangeDeleted   ChangeKind = "deleted"
)

// StoreChange is published after the client event store applied a successful mutation.
type StoreChange struct {
	Kind    ChangeKind
	EventID string
	Total   int
}

// AssistantReply is published when the assistant finished handling a chat message.
type AssistantReply struct {
	Text    string
	Action  string
	Success bool
}
