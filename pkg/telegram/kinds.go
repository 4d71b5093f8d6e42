package telegram

// UpdateKind names the payload carried by an Update.
type UpdateKind string

// Update kinds, named after the JSON field that carries the payload.
const (
	UpdateUnknown            UpdateKind = "unknown"
	UpdateMessage            UpdateKind = "message"
	UpdateEditedMessage      UpdateKind = "edited_message"
	UpdateChannelPost        UpdateKind = "channel_post"
	UpdateEditedChannelPost  UpdateKind = "edited_channel_post"
	UpdateInlineQuery        UpdateKind = "inline_query"
	UpdateChosenInlineResult UpdateKind = "chosen_inline_result"
	UpdateCallbackQuery      UpdateKind = "callback_query"
	UpdateShippingQuery      UpdateKind = "shipping_query"
	UpdatePreCheckoutQuery   UpdateKind = "pre_checkout_query"
	UpdatePoll               UpdateKind = "poll"
	UpdatePollAnswer         UpdateKind = "poll_answer"
)

// Kind reports which payload is present. Updates sent by a newer Bot API
// with a payload this package does not know report UpdateUnknown.
func (u *Update) Kind() UpdateKind {
	switch {
	case u.Message != nil:
		return UpdateMessage
	case u.EditedMessage != nil:
		return UpdateEditedMessage
	case u.ChannelPost != nil:
		return UpdateChannelPost
	case u.EditedChannelPost != nil:
		return UpdateEditedChannelPost
	case u.InlineQuery != nil:
		return UpdateInlineQuery
	case u.ChosenInlineResult != nil:
		return UpdateChosenInlineResult
	case u.CallbackQuery != nil:
		return UpdateCallbackQuery
	case u.ShippingQuery != nil:
		return UpdateShippingQuery
	case u.PreCheckoutQuery != nil:
		return UpdatePreCheckoutQuery
	case u.Poll != nil:
		return UpdatePoll
	case u.PollAnswer != nil:
		return UpdatePollAnswer
	default:
		return UpdateUnknown
	}
}

// AnyMessage returns the message carried by a message, edited message,
// channel post or edited channel post update, or nil.
func (u *Update) AnyMessage() *Message {
	switch {
	case u.Message != nil:
		return u.Message
	case u.EditedMessage != nil:
		return u.EditedMessage
	case u.ChannelPost != nil:
		return u.ChannelPost
	default:
		return u.EditedChannelPost
	}
}

// MessageKind names the content of a Message.
type MessageKind string

// Message kinds.
const (
	MessageUnknown               MessageKind = "unknown"
	MessageText                  MessageKind = "text"
	MessageAnimation             MessageKind = "animation"
	MessageAudio                 MessageKind = "audio"
	MessageDocument              MessageKind = "document"
	MessageGame                  MessageKind = "game"
	MessagePhoto                 MessageKind = "photo"
	MessageSticker               MessageKind = "sticker"
	MessageVideo                 MessageKind = "video"
	MessageVoice                 MessageKind = "voice"
	MessageVideoNote             MessageKind = "video_note"
	MessageContact               MessageKind = "contact"
	MessageVenue                 MessageKind = "venue"
	MessageLocation              MessageKind = "location"
	MessagePoll                  MessageKind = "poll"
	MessageDice                  MessageKind = "dice"
	MessageNewChatMembers        MessageKind = "new_chat_members"
	MessageLeftChatMember        MessageKind = "left_chat_member"
	MessageNewChatTitle          MessageKind = "new_chat_title"
	MessageNewChatPhoto          MessageKind = "new_chat_photo"
	MessageDeleteChatPhoto       MessageKind = "delete_chat_photo"
	MessageGroupChatCreated      MessageKind = "group_chat_created"
	MessageSupergroupChatCreated MessageKind = "supergroup_chat_created"
	MessageChannelChatCreated    MessageKind = "channel_chat_created"
	MessageMigrateToChatID       MessageKind = "migrate_to_chat_id"
	MessageMigrateFromChatID     MessageKind = "migrate_from_chat_id"
	MessagePinnedMessage         MessageKind = "pinned_message"
	MessageInvoice               MessageKind = "invoice"
	MessageSuccessfulPayment     MessageKind = "successful_payment"
	MessageConnectedWebsite      MessageKind = "connected_website"
	MessagePassportData          MessageKind = "passport_data"
)

// Kind reports the content type of the message. Telegram sends a document
// alongside every animation and a location alongside every venue, so those
// pairs are resolved to the more specific kind.
func (m *Message) Kind() MessageKind {
	switch {
	case m.Text != "":
		return MessageText
	case m.Animation != nil:
		return MessageAnimation
	case m.Audio != nil:
		return MessageAudio
	case m.Document != nil:
		return MessageDocument
	case m.Game != nil:
		return MessageGame
	case len(m.Photo) > 0:
		return MessagePhoto
	case m.Sticker != nil:
		return MessageSticker
	case m.Video != nil:
		return MessageVideo
	case m.Voice != nil:
		return MessageVoice
	case m.VideoNote != nil:
		return MessageVideoNote
	case m.Contact != nil:
		return MessageContact
	case m.Venue != nil:
		return MessageVenue
	case m.Location != nil:
		return MessageLocation
	case m.Poll != nil:
		return MessagePoll
	case m.Dice != nil:
		return MessageDice
	case len(m.NewChatMembers) > 0:
		return MessageNewChatMembers
	case m.LeftChatMember != nil:
		return MessageLeftChatMember
	case m.NewChatTitle != "":
		return MessageNewChatTitle
	case len(m.NewChatPhoto) > 0:
		return MessageNewChatPhoto
	case m.DeleteChatPhoto:
		return MessageDeleteChatPhoto
	case m.GroupChatCreated:
		return MessageGroupChatCreated
	case m.SupergroupChatCreated:
		return MessageSupergroupChatCreated
	case m.ChannelChatCreated:
		return MessageChannelChatCreated
	case m.MigrateToChatID != 0:
		return MessageMigrateToChatID
	case m.MigrateFromChatID != 0:
		return MessageMigrateFromChatID
	case m.PinnedMessage != nil:
		return MessagePinnedMessage
	case m.Invoice != nil:
		return MessageInvoice
	case m.SuccessfulPayment != nil:
		return MessageSuccessfulPayment
	case m.ConnectedWebsite != "":
		return MessageConnectedWebsite
	case m.PassportData != nil:
		return MessagePassportData
	default:
		return MessageUnknown
	}
}

// IsCommand reports whether the message starts with a bot command entity.
func (m *Message) IsCommand() bool {
	return len(m.Entities) > 0 && m.Entities[0].Type == "bot_command" && m.Entities[0].Offset == 0
}

// Command returns the command name without the leading slash and any
// @botname suffix, or "" when the message is not a command.
func (m *Message) Command() string {
	if !m.IsCommand() {
		return ""
	}
	e := m.Entities[0]
	runes := []rune(m.Text)
	// Entity offsets count UTF-16 code units; commands are ASCII so runes match.
	if e.Length > len(runes) || e.Length < 2 {
		return ""
	}
	cmd := string(runes[1:e.Length])
	for i, r := range cmd {
		if r == '@' {
			return cmd[:i]
		}
	}
	return cmd
}

// CommandArguments returns the text following the command, trimmed of the
// separating space.
func (m *Message) CommandArguments() string {
	if !m.IsCommand() {
		return ""
	}
	runes := []rune(m.Text)
	length := m.Entities[0].Length
	if length >= len(runes) {
		return ""
	}
	rest := runes[length:]
	if len(rest) > 0 && rest[0] == ' ' {
		rest = rest[1:]
	}
	return string(rest)
}
