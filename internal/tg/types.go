package tg

// User is the sender of an incoming message.
type User struct {
	ID       int64
	Username string
}

// Message is one incoming chat message.
type Message struct {
	ID     int
	From   User
	ChatID int64
	Text   string
}

// Update is one entry returned by getUpdates. Message is nil for update kinds
// the bot does not process (edited messages, callbacks, service updates).
type Update struct {
	ID      int
	Message *Message
}
