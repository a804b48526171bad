package service

import "context"

// Messenger delivers text to chats. Implementations resolve the chat
// themselves and report failures; callers decide whether to fall back.
type Messenger interface {
	// SendToChannel posts to a chat and returns the id of the sent message
	SendToChannel(ctx context.Context, chatID int64, text string) (int, error)
	// SendDirect posts to the user's private chat
	SendDirect(ctx context.Context, userID int64, text string) error
}
