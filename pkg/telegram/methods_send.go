package telegram

import "context"

// SendOptions holds the delivery parameters shared by the send methods.
type SendOptions struct {
	DisableNotification bool        `json:"disable_notification,omitempty"`
	ReplyToMessageID    MessageID   `json:"reply_to_message_id,omitempty"`
	ReplyMarkup         ReplyMarkup `json:"reply_markup,omitempty"`
}

// SendMessageRequest is the request body for the sendMessage method.
type SendMessageRequest struct {
	ChatID                ChatID          `json:"chat_id" validate:"required,chat"`
	Text                  string          `json:"text" validate:"required,max=4096"`
	ParseMode             ParseMode       `json:"parse_mode,omitempty"`
	Entities              []MessageEntity `json:"entities,omitempty"`
	DisableWebPagePreview bool            `json:"disable_web_page_preview,omitempty"`
	SendOptions
}

// SendMessage sends a text message to the specified chat.
func (b *Bot) SendMessage(ctx context.Context, req SendMessageRequest) (*Message, error) {
	return callRef[Message](ctx, b, "sendMessage", &req)
}

// ForwardMessageRequest is the request body for the forwardMessage method.
type ForwardMessageRequest struct {
	ChatID              ChatID    `json:"chat_id" validate:"required,chat"`
	FromChatID          ChatID    `json:"from_chat_id" validate:"required,chat"`
	MessageID           MessageID `json:"message_id" validate:"required"`
	DisableNotification bool      `json:"disable_notification,omitempty"`
}

// ForwardMessage forwards a message of any kind.
func (b *Bot) ForwardMessage(ctx context.Context, req ForwardMessageRequest) (*Message, error) {
	return callRef[Message](ctx, b, "forwardMessage", &req)
}

// SendPhotoRequest is the request body for the sendPhoto method.
type SendPhotoRequest struct {
	ChatID    ChatID    `json:"chat_id" validate:"required,chat"`
	Photo     InputFile `json:"photo" validate:"required"`
	Caption   string    `json:"caption,omitempty" validate:"max=1024"`
	ParseMode ParseMode `json:"parse_mode,omitempty"`
	SendOptions
}

// SendPhoto sends a photo to the specified chat.
func (b *Bot) SendPhoto(ctx context.Context, req SendPhotoRequest) (*Message, error) {
	return callRef[Message](ctx, b, "sendPhoto", &req)
}

// SendAudioRequest is the request body for the sendAudio method.
type SendAudioRequest struct {
	ChatID    ChatID    `json:"chat_id" validate:"required,chat"`
	Audio     InputFile `json:"audio" validate:"required"`
	Caption   string    `json:"caption,omitempty" validate:"max=1024"`
	ParseMode ParseMode `json:"parse_mode,omitempty"`
	Duration  int       `json:"duration,omitempty"`
	Performer string    `json:"performer,omitempty"`
	Title     string    `json:"title,omitempty"`
	Thumb     InputFile `json:"thumb,omitzero"`
	SendOptions
}

// SendAudio sends an audio file to be displayed in the music player.
func (b *Bot) SendAudio(ctx context.Context, req SendAudioRequest) (*Message, error) {
	return callRef[Message](ctx, b, "sendAudio", &req)
}

// SendDocumentRequest is the request body for the sendDocument method.
type SendDocumentRequest struct {
	ChatID    ChatID    `json:"chat_id" validate:"required,chat"`
	Document  InputFile `json:"document" validate:"required"`
	Thumb     InputFile `json:"thumb,omitzero"`
	Caption   string    `json:"caption,omitempty" validate:"max=1024"`
	ParseMode ParseMode `json:"parse_mode,omitempty"`
	SendOptions
}

// SendDocument sends a general file.
func (b *Bot) SendDocument(ctx context.Context, req SendDocumentRequest) (*Message, error) {
	return callRef[Message](ctx, b, "sendDocument", &req)
}

// SendVideoRequest is the request body for the sendVideo method.
type SendVideoRequest struct {
	ChatID            ChatID    `json:"chat_id" validate:"required,chat"`
	Video             InputFile `json:"video" validate:"required"`
	Duration          int       `json:"duration,omitempty"`
	Width             int       `json:"width,omitempty"`
	Height            int       `json:"height,omitempty"`
	Thumb             InputFile `json:"thumb,omitzero"`
	Caption           string    `json:"caption,omitempty" validate:"max=1024"`
	ParseMode         ParseMode `json:"parse_mode,omitempty"`
	SupportsStreaming bool      `json:"supports_streaming,omitempty"`
	SendOptions
}

// SendVideo sends an MPEG4 video.
func (b *Bot) SendVideo(ctx context.Context, req SendVideoRequest) (*Message, error) {
	return callRef[Message](ctx, b, "sendVideo", &req)
}

// SendAnimationRequest is the request body for the sendAnimation method.
type SendAnimationRequest struct {
	ChatID    ChatID    `json:"chat_id" validate:"required,chat"`
	Animation InputFile `json:"animation" validate:"required"`
	Duration  int       `json:"duration,omitempty"`
	Width     int       `json:"width,omitempty"`
	Height    int       `json:"height,omitempty"`
	Thumb     InputFile `json:"thumb,omitzero"`
	Caption   string    `json:"caption,omitempty" validate:"max=1024"`
	ParseMode ParseMode `json:"parse_mode,omitempty"`
	SendOptions
}

// SendAnimation sends a GIF or a soundless H.264 video.
func (b *Bot) SendAnimation(ctx context.Context, req SendAnimationRequest) (*Message, error) {
	return callRef[Message](ctx, b, "sendAnimation", &req)
}

// SendVoiceRequest is the request body for the sendVoice method.
type SendVoiceRequest struct {
	ChatID    ChatID    `json:"chat_id" validate:"required,chat"`
	Voice     InputFile `json:"voice" validate:"required"`
	Caption   string    `json:"caption,omitempty" validate:"max=1024"`
	ParseMode ParseMode `json:"parse_mode,omitempty"`
	Duration  int       `json:"duration,omitempty"`
	SendOptions
}

// SendVoice sends an OGG/OPUS voice note.
func (b *Bot) SendVoice(ctx context.Context, req SendVoiceRequest) (*Message, error) {
	return callRef[Message](ctx, b, "sendVoice", &req)
}

// SendVideoNoteRequest is the request body for the sendVideoNote method.
type SendVideoNoteRequest struct {
	ChatID    ChatID    `json:"chat_id" validate:"required,chat"`
	VideoNote InputFile `json:"video_note" validate:"required"`
	Duration  int       `json:"duration,omitempty"`
	Length    int       `json:"length,omitempty"`
	Thumb     InputFile `json:"thumb,omitzero"`
	SendOptions
}

// SendVideoNote sends a rounded square video.
func (b *Bot) SendVideoNote(ctx context.Context, req SendVideoNoteRequest) (*Message, error) {
	return callRef[Message](ctx, b, "sendVideoNote", &req)
}

// SendMediaGroupRequest is the request body for the sendMediaGroup method.
type SendMediaGroupRequest struct {
	ChatID              ChatID       `json:"chat_id" validate:"required,chat"`
	Media               []InputMedia `json:"media" validate:"min=2,max=10,dive,required"`
	DisableNotification bool         `json:"disable_notification,omitempty"`
	ReplyToMessageID    MessageID    `json:"reply_to_message_id,omitempty"`
}

// SendMediaGroup sends an album of photos, videos, documents or audio
// files. Uploaded files travel as separate multipart parts referenced
// with attach://.
func (b *Bot) SendMediaGroup(ctx context.Context, req SendMediaGroupRequest) ([]Message, error) {
	var attachments []InputFile
	req.Media, attachments = extractMedias(req.Media)
	return call[[]Message](ctx, b, "sendMediaGroup", &req, attachments...)
}

// SendLocationRequest is the request body for the sendLocation method.
type SendLocationRequest struct {
	ChatID     ChatID  `json:"chat_id" validate:"required,chat"`
	Latitude   float64 `json:"latitude" validate:"min=-90,max=90"`
	Longitude  float64 `json:"longitude" validate:"min=-180,max=180"`
	LivePeriod int     `json:"live_period,omitempty" validate:"omitempty,min=60,max=86400"`
	SendOptions
}

// SendLocation sends a point on the map. A LivePeriod makes it a live
// location that can be edited until it expires.
func (b *Bot) SendLocation(ctx context.Context, req SendLocationRequest) (*Message, error) {
	return callRef[Message](ctx, b, "sendLocation", &req)
}

// EditMessageLiveLocationRequest targets a live location sent by the bot.
type EditMessageLiveLocationRequest struct {
	ChatID      ChatID                `json:"chat_id" validate:"required,chat"`
	MessageID   MessageID             `json:"message_id" validate:"required"`
	Latitude    float64               `json:"latitude" validate:"min=-90,max=90"`
	Longitude   float64               `json:"longitude" validate:"min=-180,max=180"`
	ReplyMarkup *InlineKeyboardMarkup `json:"reply_markup,omitempty"`
}

// EditMessageLiveLocation moves a live location message.
func (b *Bot) EditMessageLiveLocation(ctx context.Context, req EditMessageLiveLocationRequest) (*Message, error) {
	return callRef[Message](ctx, b, "editMessageLiveLocation", &req)
}

// EditInlineMessageLiveLocationRequest targets a live location sent via
// an inline query.
type EditInlineMessageLiveLocationRequest struct {
	InlineMessageID InlineMessageID       `json:"inline_message_id" validate:"required"`
	Latitude        float64               `json:"latitude" validate:"min=-90,max=90"`
	Longitude       float64               `json:"longitude" validate:"min=-180,max=180"`
	ReplyMarkup     *InlineKeyboardMarkup `json:"reply_markup,omitempty"`
}

// EditInlineMessageLiveLocation moves an inline live location message.
func (b *Bot) EditInlineMessageLiveLocation(ctx context.Context, req EditInlineMessageLiveLocationRequest) error {
	return callBool(ctx, b, "editMessageLiveLocation", &req)
}

// StopMessageLiveLocationRequest targets a live location sent by the bot.
type StopMessageLiveLocationRequest struct {
	ChatID      ChatID                `json:"chat_id" validate:"required,chat"`
	MessageID   MessageID             `json:"message_id" validate:"required"`
	ReplyMarkup *InlineKeyboardMarkup `json:"reply_markup,omitempty"`
}

// StopMessageLiveLocation stops updating a live location message.
func (b *Bot) StopMessageLiveLocation(ctx context.Context, req StopMessageLiveLocationRequest) (*Message, error) {
	return callRef[Message](ctx, b, "stopMessageLiveLocation", &req)
}

// StopInlineMessageLiveLocationRequest targets a live location sent via
// an inline query.
type StopInlineMessageLiveLocationRequest struct {
	InlineMessageID InlineMessageID       `json:"inline_message_id" validate:"required"`
	ReplyMarkup     *InlineKeyboardMarkup `json:"reply_markup,omitempty"`
}

// StopInlineMessageLiveLocation stops updating an inline live location message.
func (b *Bot) StopInlineMessageLiveLocation(ctx context.Context, req StopInlineMessageLiveLocationRequest) error {
	return callBool(ctx, b, "stopMessageLiveLocation", &req)
}

// SendVenueRequest is the request body for the sendVenue method.
type SendVenueRequest struct {
	ChatID         ChatID  `json:"chat_id" validate:"required,chat"`
	Latitude       float64 `json:"latitude" validate:"min=-90,max=90"`
	Longitude      float64 `json:"longitude" validate:"min=-180,max=180"`
	Title          string  `json:"title" validate:"required"`
	Address        string  `json:"address" validate:"required"`
	FoursquareID   string  `json:"foursquare_id,omitempty"`
	FoursquareType string  `json:"foursquare_type,omitempty"`
	SendOptions
}

// SendVenue sends information about a venue.
func (b *Bot) SendVenue(ctx context.Context, req SendVenueRequest) (*Message, error) {
	return callRef[Message](ctx, b, "sendVenue", &req)
}

// SendContactRequest is the request body for the sendContact method.
type SendContactRequest struct {
	ChatID      ChatID `json:"chat_id" validate:"required,chat"`
	PhoneNumber string `json:"phone_number" validate:"required"`
	FirstName   string `json:"first_name" validate:"required"`
	LastName    string `json:"last_name,omitempty"`
	VCard       string `json:"vcard,omitempty" validate:"max=2048"`
	SendOptions
}

// SendContact sends a phone contact.
func (b *Bot) SendContact(ctx context.Context, req SendContactRequest) (*Message, error) {
	return callRef[Message](ctx, b, "sendContact", &req)
}

// SendPollRequest is the request body for the sendPoll method.
type SendPollRequest struct {
	ChatID                ChatID    `json:"chat_id" validate:"required,chat"`
	Question              string    `json:"question" validate:"required,max=300"`
	Options               []string  `json:"options" validate:"min=2,max=10,dive,required,max=100"`
	IsAnonymous           *bool     `json:"is_anonymous,omitempty"`
	Type                  PollType  `json:"type,omitempty" validate:"omitempty,oneof=regular quiz"`
	AllowsMultipleAnswers bool      `json:"allows_multiple_answers,omitempty"`
	CorrectOptionID       *int      `json:"correct_option_id,omitempty" validate:"required_if=Type quiz"`
	Explanation           string    `json:"explanation,omitempty" validate:"max=200"`
	ExplanationParseMode  ParseMode `json:"explanation_parse_mode,omitempty"`
	OpenPeriod            int       `json:"open_period,omitempty" validate:"omitempty,min=5,max=600"`
	CloseDate             int64     `json:"close_date,omitempty"`
	IsClosed              bool      `json:"is_closed,omitempty"`
	SendOptions
}

// SendPoll sends a native poll.
func (b *Bot) SendPoll(ctx context.Context, req SendPollRequest) (*Message, error) {
	return callRef[Message](ctx, b, "sendPoll", &req)
}

// StopPollRequest is the request body for the stopPoll method.
type StopPollRequest struct {
	ChatID      ChatID                `json:"chat_id" validate:"required,chat"`
	MessageID   MessageID             `json:"message_id" validate:"required"`
	ReplyMarkup *InlineKeyboardMarkup `json:"reply_markup,omitempty"`
}

// StopPoll closes a poll sent by the bot and returns its final state.
func (b *Bot) StopPoll(ctx context.Context, req StopPollRequest) (*Poll, error) {
	return callRef[Poll](ctx, b, "stopPoll", &req)
}

// SendDiceRequest is the request body for the sendDice method.
type SendDiceRequest struct {
	ChatID ChatID    `json:"chat_id" validate:"required,chat"`
	Emoji  DiceEmoji `json:"emoji,omitempty"`
	SendOptions
}

// SendDice sends an animated emoji with a random value.
func (b *Bot) SendDice(ctx context.Context, req SendDiceRequest) (*Message, error) {
	return callRef[Message](ctx, b, "sendDice", &req)
}

// SendChatActionRequest is the request body for the sendChatAction method.
type SendChatActionRequest struct {
	ChatID ChatID     `json:"chat_id" validate:"required,chat"`
	Action ChatAction `json:"action" validate:"required"`
}

// SendChatAction shows a status such as "typing" for up to five seconds.
func (b *Bot) SendChatAction(ctx context.Context, req SendChatActionRequest) error {
	return callBool(ctx, b, "sendChatAction", &req)
}
