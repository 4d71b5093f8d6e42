package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/spf13/cobra"

	"github.com/flemzord/botapi/internal/config"
	"github.com/flemzord/botapi/internal/offset"
	"github.com/flemzord/botapi/internal/server"
	"github.com/flemzord/botapi/pkg/telegram"
)

func updatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "updates",
		Short: "Receive updates with long polling and print them as JSON lines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.close()

			store, closeStore, err := openOffsetStore(cmd.Context(), rt.cfg.Storage)
			if err != nil {
				return err
			}
			defer closeStore()

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			maxUpdates, _ := cmd.Flags().GetInt("max")
			printer := newUpdatePrinter(cmd.OutOrStdout(), maxUpdates, cancel)

			poller := telegram.NewPoller(rt.bot, printer,
				telegram.WithOffsetStore(store),
				telegram.WithPollTimeout(rt.cfg.Polling.Timeout),
				telegram.WithPollLimit(rt.cfg.Polling.Limit),
				telegram.WithAllowedUpdates(rt.cfg.Polling.AllowedUpdates...),
			)
			rt.logger.Info("polling for updates", "bot_id", rt.bot.ID(), "timeout", rt.cfg.Polling.Timeout)

			err = poller.Run(ctx)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return describeError(err)
		},
	}
	cmd.Flags().Int("max", 0, "Stop after printing this many updates (0 means no limit)")
	return cmd
}

// openOffsetStore returns the SQLite store when a path is configured and
// an in-memory store otherwise.
func openOffsetStore(ctx context.Context, cfg config.StorageConfig) (telegram.OffsetStore, func(), error) {
	if cfg.OffsetDB == "" {
		return offset.NewMemoryStore(), func() {}, nil
	}
	store, err := offset.OpenSQLite(ctx, cfg.OffsetDB)
	if err != nil {
		return nil, nil, err
	}
	return store, func() { _ = store.Close() }, nil
}

// updatePrinter writes each update as one JSON line and calls stop once
// max updates have been written.
type updatePrinter struct {
	mu    sync.Mutex
	enc   *json.Encoder
	max   int
	count int
	stop  func()
}

func newUpdatePrinter(w io.Writer, maxUpdates int, stop func()) *updatePrinter {
	return &updatePrinter{enc: json.NewEncoder(w), max: maxUpdates, stop: stop}
}

// HandleUpdate implements telegram.Handler.
func (p *updatePrinter) HandleUpdate(_ context.Context, update *telegram.Update) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.max > 0 && p.count >= p.max {
		return nil
	}
	if err := p.enc.Encode(update); err != nil {
		return err
	}
	p.count++
	if p.max > 0 && p.count >= p.max {
		p.stop()
	}
	return nil
}

func webhookCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "webhook",
		Short: "Manage and serve the webhook integration",
	}
	cmd.AddCommand(webhookSetCmd(), webhookDeleteCmd(), webhookInfoCmd(), webhookServeCmd())
	return cmd
}

func webhookSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set [url]",
		Short: "Register the webhook URL (setWebhook)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.close()

			certificate, _ := cmd.Flags().GetString("certificate")
			if err := registerWebhook(cmd.Context(), rt, args, certificate); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Webhook set.")
			return nil
		},
	}
	cmd.Flags().String("certificate", "", "Upload this public key certificate (PEM)")
	return cmd
}

// registerWebhook calls setWebhook with the URL from args or the
// configuration and the configured secret token.
func registerWebhook(ctx context.Context, rt *runtime, args []string, certificate string) error {
	url := rt.cfg.Webhook.URL
	if len(args) > 0 {
		url = args[0]
	}
	if url == "" {
		return errors.New("no webhook URL: pass one or set webhook.url")
	}

	req := telegram.SetWebhookRequest{
		URL:            url,
		MaxConnections: rt.cfg.Webhook.MaxConnections,
		AllowedUpdates: rt.cfg.Polling.AllowedUpdates,
		SecretToken:    rt.cfg.Webhook.SecretToken,
	}
	if certificate != "" {
		req.Certificate = telegram.FileFromPath(certificate)
	}
	return describeError(rt.bot.SetWebhook(ctx, req))
}

func webhookDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Remove the webhook (deleteWebhook)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.close()

			drop, _ := cmd.Flags().GetBool("drop-pending")
			if err := rt.bot.DeleteWebhook(cmd.Context(), telegram.DeleteWebhookRequest{DropPendingUpdates: drop}); err != nil {
				return describeError(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Webhook deleted.")
			return nil
		},
	}
	cmd.Flags().Bool("drop-pending", false, "Drop updates waiting to be delivered")
	return cmd
}

func webhookInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the webhook status (getWebhookInfo)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.close()

			info, err := rt.bot.GetWebhookInfo(cmd.Context())
			if err != nil {
				return describeError(err)
			}
			return printJSON(cmd.OutOrStdout(), info)
		},
	}
}

func webhookServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the webhook endpoint and print received updates as JSON lines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.close()

			if register, _ := cmd.Flags().GetBool("register"); register {
				if err := registerWebhook(cmd.Context(), rt, nil, ""); err != nil {
					return err
				}
				rt.logger.Info("webhook registered", "url", rt.cfg.Webhook.URL)
			}

			hook := telegram.NewWebhookHandler(
				newUpdatePrinter(cmd.OutOrStdout(), 0, func() {}),
				telegram.WithWebhookSecret(rt.cfg.Webhook.SecretToken),
				telegram.WithWebhookLogger(rt.logger),
				telegram.WithWebhookMetrics(rt.metrics),
			)
			srv := server.New(server.Config{
				Listen:      rt.cfg.Webhook.Listen,
				WebhookPath: rt.cfg.Webhook.Path,
			}, hook, rt.registry, rt.logger)
			return srv.Run(cmd.Context())
		},
	}
	cmd.Flags().Bool("register", false, "Call setWebhook with the configured URL before serving")
	return cmd
}
