// Package telegram is a typed client for the Telegram Bot HTTP API.
//
// A Bot exposes one method per API endpoint. Every call validates its
// parameters locally, sends exactly one HTTP request through a Transport,
// unwraps Telegram's {ok, result, description, error_code} envelope and
// maps the result onto the Go types in this package:
//
//	bot, err := telegram.New(os.Getenv("TELEGRAM_BOT_TOKEN"))
//	if err != nil {
//		return err
//	}
//	defer bot.Close()
//
//	msg, err := bot.SendMessage(ctx, telegram.SendMessageRequest{
//		ChatID: telegram.ChatIDInt(chatID),
//		Text:   "hello",
//	})
//
// Failures are returned as typed errors: *ParamError before any I/O,
// *TransportError for network problems, *DecodeError for a malformed
// envelope, *APIError when Telegram answers ok=false and *MappingError when
// the result does not match the expected type. None are retried.
//
// Updates are consumed with a Poller (getUpdates long polling) or a
// WebhookHandler mounted on an HTTP server.
package telegram
