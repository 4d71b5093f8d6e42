package telegram

import "encoding/json"

// ReplyMarkup is one of InlineKeyboardMarkup, ReplyKeyboardMarkup,
// ReplyKeyboardRemove or ForceReply.
type ReplyMarkup interface {
	replyMarkup()
}

// InlineKeyboardMarkup is an inline keyboard attached to a message.
type InlineKeyboardMarkup struct {
	InlineKeyboard [][]InlineKeyboardButton `json:"inline_keyboard"`
}

// InlineKeyboardButton is one button of an inline keyboard. Exactly one of
// the optional fields must be set.
type InlineKeyboardButton struct {
	Text                         string        `json:"text"`
	URL                          string        `json:"url,omitempty"`
	LoginURL                     *LoginURL     `json:"login_url,omitempty"`
	CallbackData                 string        `json:"callback_data,omitempty"`
	SwitchInlineQuery            *string       `json:"switch_inline_query,omitempty"`
	SwitchInlineQueryCurrentChat *string       `json:"switch_inline_query_current_chat,omitempty"`
	CallbackGame                 *CallbackGame `json:"callback_game,omitempty"`
	Pay                          bool          `json:"pay,omitempty"`
}

// LoginURL authorizes a user through the Telegram Login Widget.
type LoginURL struct {
	URL                string `json:"url"`
	ForwardText        string `json:"forward_text,omitempty"`
	BotUsername        string `json:"bot_username,omitempty"`
	RequestWriteAccess bool   `json:"request_write_access,omitempty"`
}

// ReplyKeyboardMarkup is a custom keyboard with reply options.
type ReplyKeyboardMarkup struct {
	Keyboard        [][]KeyboardButton `json:"keyboard"`
	ResizeKeyboard  bool               `json:"resize_keyboard,omitempty"`
	OneTimeKeyboard bool               `json:"one_time_keyboard,omitempty"`
	Selective       bool               `json:"selective,omitempty"`
}

// KeyboardButton is one button of a reply keyboard.
type KeyboardButton struct {
	Text            string                  `json:"text"`
	RequestContact  bool                    `json:"request_contact,omitempty"`
	RequestLocation bool                    `json:"request_location,omitempty"`
	RequestPoll     *KeyboardButtonPollType `json:"request_poll,omitempty"`
}

// KeyboardButtonPollType restricts the poll a KeyboardButton may create.
type KeyboardButtonPollType struct {
	Type PollType `json:"type,omitempty"`
}

// ReplyKeyboardRemove asks clients to hide the current custom keyboard.
type ReplyKeyboardRemove struct {
	Selective bool `json:"selective,omitempty"`
}

// MarshalJSON always sets remove_keyboard to true.
func (r ReplyKeyboardRemove) MarshalJSON() ([]byte, error) {
	type alias ReplyKeyboardRemove
	return json.Marshal(struct {
		RemoveKeyboard bool `json:"remove_keyboard"`
		alias
	}{true, alias(r)})
}

// ForceReply asks clients to display a reply interface to the user.
type ForceReply struct {
	Selective bool `json:"selective,omitempty"`
}

// MarshalJSON always sets force_reply to true.
func (f ForceReply) MarshalJSON() ([]byte, error) {
	type alias ForceReply
	return json.Marshal(struct {
		ForceReply bool `json:"force_reply"`
		alias
	}{true, alias(f)})
}

func (InlineKeyboardMarkup) replyMarkup() {}
func (ReplyKeyboardMarkup) replyMarkup()  {}
func (ReplyKeyboardRemove) replyMarkup()  {}
func (ForceReply) replyMarkup()           {}

// NewInlineKeyboard builds an inline keyboard from rows of buttons.
func NewInlineKeyboard(rows ...[]InlineKeyboardButton) InlineKeyboardMarkup {
	return InlineKeyboardMarkup{InlineKeyboard: rows}
}

// InlineRow groups buttons into one keyboard row.
func InlineRow(buttons ...InlineKeyboardButton) []InlineKeyboardButton {
	return buttons
}

// CallbackButton returns a button that sends data back to the bot when pressed.
func CallbackButton(text, data string) InlineKeyboardButton {
	return InlineKeyboardButton{Text: text, CallbackData: data}
}

// URLButton returns a button that opens url.
func URLButton(text, url string) InlineKeyboardButton {
	return InlineKeyboardButton{Text: text, URL: url}
}

// SwitchInlineButton returns a button that prompts the user to pick a chat
// and inserts the bot's username and query. An empty query is valid.
func SwitchInlineButton(text, query string) InlineKeyboardButton {
	return InlineKeyboardButton{Text: text, SwitchInlineQuery: &query}
}

// NewReplyKeyboard builds a reply keyboard from rows of buttons.
func NewReplyKeyboard(rows ...[]KeyboardButton) ReplyKeyboardMarkup {
	return ReplyKeyboardMarkup{Keyboard: rows}
}

// KeyboardRow builds a row of plain text buttons.
func KeyboardRow(texts ...string) []KeyboardButton {
	row := make([]KeyboardButton, len(texts))
	for i, t := range texts {
		row[i] = KeyboardButton{Text: t}
	}
	return row
}
