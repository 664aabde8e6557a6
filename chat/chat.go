// Package chat defines the transport capabilities the core needs and
// the message lifecycle discipline built on top of them. The concrete
// Telegram adapter lives in the bot package.
package chat

// Button is one inline control. Action is an opaque tag round-tripped
// through the transport and parsed back by the dispatcher.
type Button struct {
	Label  string
	Action string
}

// Gateway is the outbound side of the chat transport.
type Gateway interface {
	Send(chatID int64, text string, buttons ...Button) (messageID int, err error)
	Edit(chatID int64, messageID int, text string, buttons ...Button) error
	Delete(chatID int64, messageID int) error
}
