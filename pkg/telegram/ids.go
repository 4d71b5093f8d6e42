package telegram

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Strong identifier types.
type (
	UserID          int64
	MessageID       int
	FileID          string
	PollID          string
	CallbackQueryID string
	InlineMessageID string
)

// ChatID identifies the target of a request: either a numeric chat id or
// the @username of a channel or supergroup.
type ChatID struct {
	id       int64
	username string
}

// ChatIDInt returns a ChatID for a numeric chat id.
func ChatIDInt(id int64) ChatID {
	return ChatID{id: id}
}

// ChatUsername returns a ChatID for a public channel or supergroup username.
// The leading "@" is added when missing.
func ChatUsername(username string) ChatID {
	if username != "" && !strings.HasPrefix(username, "@") {
		username = "@" + username
	}
	return ChatID{username: username}
}

// ParseChatID interprets s as a numeric id when possible and as a username otherwise.
func ParseChatID(s string) ChatID {
	s = strings.TrimSpace(s)
	if id, err := strconv.ParseInt(s, 10, 64); err == nil {
		return ChatIDInt(id)
	}
	return ChatUsername(s)
}

// Int64 returns the numeric id and true, or 0 and false for a username.
func (c ChatID) Int64() (int64, bool) {
	return c.id, c.username == "" && c.id != 0
}

// Username returns the @username, or "" for a numeric id.
func (c ChatID) Username() string { return c.username }

// IsZero reports whether c identifies no chat.
func (c ChatID) IsZero() bool {
	return c.id == 0 && c.username == ""
}

// String returns the form sent to the API.
func (c ChatID) String() string {
	if c.username != "" {
		return c.username
	}
	return strconv.FormatInt(c.id, 10)
}

// MarshalJSON encodes a numeric id as a JSON number and a username as a string.
func (c ChatID) MarshalJSON() ([]byte, error) {
	if c.username != "" {
		return json.Marshal(c.username)
	}
	return []byte(strconv.FormatInt(c.id, 10)), nil
}

// UnmarshalJSON accepts a JSON number or string.
func (c *ChatID) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = ParseChatID(s)
		return nil
	}
	var id int64
	if err := json.Unmarshal(data, &id); err != nil {
		return fmt.Errorf("chat id must be a number or a string: %w", err)
	}
	*c = ChatIDInt(id)
	return nil
}

// ParseMode selects how Telegram parses entities in text and captions.
type ParseMode string

// Supported parse modes.
const (
	ParseModeMarkdown   ParseMode = "Markdown"
	ParseModeMarkdownV2 ParseMode = "MarkdownV2"
	ParseModeHTML       ParseMode = "HTML"
)

// ChatAction is the status shown to users while the bot prepares a reply.
type ChatAction string

// Chat actions accepted by sendChatAction.
const (
	ActionTyping          ChatAction = "typing"
	ActionUploadPhoto     ChatAction = "upload_photo"
	ActionRecordVideo     ChatAction = "record_video"
	ActionUploadVideo     ChatAction = "upload_video"
	ActionRecordAudio     ChatAction = "record_audio"
	ActionUploadAudio     ChatAction = "upload_audio"
	ActionUploadDocument  ChatAction = "upload_document"
	ActionFindLocation    ChatAction = "find_location"
	ActionRecordVideoNote ChatAction = "record_video_note"
	ActionUploadVideoNote ChatAction = "upload_video_note"
)

// PollType is the kind of a poll.
type PollType string

// Poll types.
const (
	PollRegular PollType = "regular"
	PollQuiz    PollType = "quiz"
)

// DiceEmoji is the animation used by sendDice.
type DiceEmoji string

// Dice emojis.
const (
	DiceCube       DiceEmoji = "🎲"
	DiceDart       DiceEmoji = "🎯"
	DiceBasketball DiceEmoji = "🏀"
)
