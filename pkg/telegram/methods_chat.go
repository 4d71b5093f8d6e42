package telegram

import "context"

// EditMessageTextRequest is the request body for the editMessageText method.
type EditMessageTextRequest struct {
	ChatID                ChatID                `json:"chat_id" validate:"required,chat"`
	MessageID             MessageID             `json:"message_id" validate:"required"`
	Text                  string                `json:"text" validate:"required,max=4096"`
	ParseMode             ParseMode             `json:"parse_mode,omitempty"`
	DisableWebPagePreview bool                  `json:"disable_web_page_preview,omitempty"`
	ReplyMarkup           *InlineKeyboardMarkup `json:"reply_markup,omitempty"`
}

// EditMessageText edits the text of a previously sent message.
func (b *Bot) EditMessageText(ctx context.Context, req EditMessageTextRequest) (*Message, error) {
	return callRef[Message](ctx, b, "editMessageText", &req)
}

// EditMessageReplyMarkupRequest is the request body for the
// editMessageReplyMarkup method. A nil ReplyMarkup removes the keyboard.
type EditMessageReplyMarkupRequest struct {
	ChatID      ChatID                `json:"chat_id" validate:"required,chat"`
	MessageID   MessageID             `json:"message_id" validate:"required"`
	ReplyMarkup *InlineKeyboardMarkup `json:"reply_markup,omitempty"`
}

// EditMessageReplyMarkup replaces the inline keyboard of a message.
func (b *Bot) EditMessageReplyMarkup(ctx context.Context, req EditMessageReplyMarkupRequest) (*Message, error) {
	return callRef[Message](ctx, b, "editMessageReplyMarkup", &req)
}

// DeleteMessageRequest is the request body for the deleteMessage method.
type DeleteMessageRequest struct {
	ChatID    ChatID    `json:"chat_id" validate:"required,chat"`
	MessageID MessageID `json:"message_id" validate:"required"`
}

// DeleteMessage deletes a message, including service messages.
func (b *Bot) DeleteMessage(ctx context.Context, req DeleteMessageRequest) error {
	return callBool(ctx, b, "deleteMessage", &req)
}

// AnswerCallbackQueryRequest is the request body for the answerCallbackQuery method.
type AnswerCallbackQueryRequest struct {
	CallbackQueryID CallbackQueryID `json:"callback_query_id" validate:"required"`
	Text            string          `json:"text,omitempty" validate:"max=200"`
	ShowAlert       bool            `json:"show_alert,omitempty"`
	URL             string          `json:"url,omitempty" validate:"omitempty,url"`
	CacheTime       int             `json:"cache_time,omitempty" validate:"min=0"`
}

// AnswerCallbackQuery acknowledges a callback query from an inline keyboard.
func (b *Bot) AnswerCallbackQuery(ctx context.Context, req AnswerCallbackQueryRequest) error {
	return callBool(ctx, b, "answerCallbackQuery", &req)
}

// GetChatRequest is the request body for the getChat method.
type GetChatRequest struct {
	ChatID ChatID `json:"chat_id" validate:"required,chat"`
}

// GetChat returns up to date information about a chat.
func (b *Bot) GetChat(ctx context.Context, chatID ChatID) (*Chat, error) {
	return callRef[Chat](ctx, b, "getChat", &GetChatRequest{ChatID: chatID})
}

// GetChatMemberRequest is the request body for the getChatMember method.
type GetChatMemberRequest struct {
	ChatID ChatID `json:"chat_id" validate:"required,chat"`
	UserID UserID `json:"user_id" validate:"required"`
}

// GetChatMember returns a member of a chat.
func (b *Bot) GetChatMember(ctx context.Context, req GetChatMemberRequest) (*ChatMember, error) {
	return callRef[ChatMember](ctx, b, "getChatMember", &req)
}

// KickChatMemberRequest is the request body for the kickChatMember method.
type KickChatMemberRequest struct {
	ChatID    ChatID `json:"chat_id" validate:"required,chat"`
	UserID    UserID `json:"user_id" validate:"required"`
	UntilDate int64  `json:"until_date,omitempty"`
}

// KickChatMember bans a user from a group, supergroup or channel. Without
// UntilDate the ban is permanent.
func (b *Bot) KickChatMember(ctx context.Context, req KickChatMemberRequest) error {
	return callBool(ctx, b, "kickChatMember", &req)
}

// UnbanChatMemberRequest is the request body for the unbanChatMember method.
type UnbanChatMemberRequest struct {
	ChatID ChatID `json:"chat_id" validate:"required,chat"`
	UserID UserID `json:"user_id" validate:"required"`
}

// UnbanChatMember lifts a ban on a user.
func (b *Bot) UnbanChatMember(ctx context.Context, req UnbanChatMemberRequest) error {
	return callBool(ctx, b, "unbanChatMember", &req)
}

// SetChatPermissionsRequest is the request body for the setChatPermissions method.
type SetChatPermissionsRequest struct {
	ChatID      ChatID          `json:"chat_id" validate:"required,chat"`
	Permissions ChatPermissions `json:"permissions"`
}

// SetChatPermissions sets the default permissions of all members.
func (b *Bot) SetChatPermissions(ctx context.Context, req SetChatPermissionsRequest) error {
	return callBool(ctx, b, "setChatPermissions", &req)
}

// GetUserProfilePhotosRequest is the request body for the getUserProfilePhotos method.
type GetUserProfilePhotosRequest struct {
	UserID UserID `json:"user_id" validate:"required"`
	Offset int    `json:"offset,omitempty" validate:"min=0"`
	Limit  int    `json:"limit,omitempty" validate:"omitempty,min=1,max=100"`
}

// GetUserProfilePhotos returns a page of a user's profile pictures.
func (b *Bot) GetUserProfilePhotos(ctx context.Context, req GetUserProfilePhotosRequest) (*UserProfilePhotos, error) {
	return callRef[UserProfilePhotos](ctx, b, "getUserProfilePhotos", &req)
}

// GetFileRequest is the request body for the getFile method.
type GetFileRequest struct {
	FileID FileID `json:"file_id" validate:"required"`
}

// GetFile returns a File whose FilePath can be passed to FileURL or
// DownloadFile. Links are valid for at least one hour.
func (b *Bot) GetFile(ctx context.Context, fileID FileID) (*File, error) {
	return callRef[File](ctx, b, "getFile", &GetFileRequest{FileID: fileID})
}
