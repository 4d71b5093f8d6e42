package telegram

import (
	"context"
	"encoding/json"
)

// callRef is call for methods returning an object, as a pointer.
func callRef[T any](ctx context.Context, b *Bot, method string, params any, attachments ...InputFile) (*T, error) {
	v, err := call[T](ctx, b, method, params, attachments...)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// GetMe returns basic information about the bot.
func (b *Bot) GetMe(ctx context.Context) (*BotUser, error) {
	return callRef[BotUser](ctx, b, "getMe", nil)
}

// GetUpdatesRequest is the request body for the getUpdates method.
type GetUpdatesRequest struct {
	Offset         int64    `json:"offset,omitempty"`
	Limit          int      `json:"limit,omitempty" validate:"omitempty,min=1,max=100"`
	Timeout        int      `json:"timeout,omitempty" validate:"min=0"`
	AllowedUpdates []string `json:"allowed_updates,omitempty"`
}

// GetUpdates fetches incoming updates using long polling. The call blocks
// up to Timeout seconds on the server; the context bounds it locally.
func (b *Bot) GetUpdates(ctx context.Context, req GetUpdatesRequest) ([]Update, error) {
	return call[[]Update](ctx, b, "getUpdates", &req)
}

// getUpdatesRaw is GetUpdates without mapping, so each update can be
// decoded on its own.
func (b *Bot) getUpdatesRaw(ctx context.Context, req GetUpdatesRequest) ([]json.RawMessage, error) {
	return call[[]json.RawMessage](ctx, b, "getUpdates", &req)
}

// SetWebhookRequest is the request body for the setWebhook method.
type SetWebhookRequest struct {
	URL            string    `json:"url" validate:"required,url,startswith=https://"`
	Certificate    InputFile `json:"certificate,omitzero"`
	MaxConnections int       `json:"max_connections,omitempty" validate:"omitempty,min=1,max=100"`
	AllowedUpdates []string  `json:"allowed_updates,omitempty"`
	SecretToken    string    `json:"secret_token,omitempty" validate:"omitempty,max=256,webhooksecret"`
}

// SetWebhook registers an HTTPS URL that will receive updates. A
// self-signed certificate can be uploaded with Certificate.
func (b *Bot) SetWebhook(ctx context.Context, req SetWebhookRequest) error {
	return callBool(ctx, b, "setWebhook", &req)
}

// DeleteWebhookRequest is the request body for the deleteWebhook method.
type DeleteWebhookRequest struct {
	DropPendingUpdates bool `json:"drop_pending_updates,omitempty"`
}

// DeleteWebhook removes the webhook integration so GetUpdates can be used.
func (b *Bot) DeleteWebhook(ctx context.Context, req DeleteWebhookRequest) error {
	if !req.DropPendingUpdates {
		return callBool(ctx, b, "deleteWebhook", nil)
	}
	return callBool(ctx, b, "deleteWebhook", &req)
}

// GetWebhookInfo returns the current webhook status.
func (b *Bot) GetWebhookInfo(ctx context.Context) (*WebhookInfo, error) {
	return callRef[WebhookInfo](ctx, b, "getWebhookInfo", nil)
}

// SetMyCommandsRequest is the request body for the setMyCommands method.
type SetMyCommandsRequest struct {
	Commands []BotCommand `json:"commands" validate:"max=100,dive"`
}

// SetMyCommands replaces the list of the bot's commands. An empty list
// clears it.
func (b *Bot) SetMyCommands(ctx context.Context, req SetMyCommandsRequest) error {
	if req.Commands == nil {
		req.Commands = []BotCommand{}
	}
	return callBool(ctx, b, "setMyCommands", &req)
}

// GetMyCommands returns the current list of the bot's commands.
func (b *Bot) GetMyCommands(ctx context.Context) ([]BotCommand, error) {
	return call[[]BotCommand](ctx, b, "getMyCommands", nil)
}
