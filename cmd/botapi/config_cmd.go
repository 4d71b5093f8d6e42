package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/flemzord/botapi/internal/config"
	"github.com/flemzord/botapi/internal/security"
	"github.com/flemzord/botapi/pkg/telegram"
)

// tokenRef is written instead of a literal token unless one is entered.
const tokenRef = "${TELEGRAM_BOT_TOKEN}"

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
	}
	cmd.AddCommand(configCheckCmd(), configInitCmd())
	return cmd
}

func configCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <path>",
		Short: "Validate configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(args[0])
			if err != nil {
				return err
			}
			if err := config.Validate(cfg); err != nil {
				return err
			}

			redactor := security.NewRedactor(cfg.Bot.Token)
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Configuration OK")
			fmt.Fprintf(out, "  bot:      %s via %s\n", redactor.Redact(cfg.Bot.Token), cfg.Bot.APIURL)
			fmt.Fprintf(out, "  polling:  timeout %ds\n", cfg.Polling.Timeout)
			if cfg.Webhook.URL != "" {
				fmt.Fprintf(out, "  webhook:  %s (listen %s%s)\n", cfg.Webhook.URL, cfg.Webhook.Listen, cfg.Webhook.Path)
			}
			if cfg.Storage.OffsetDB != "" {
				fmt.Fprintf(out, "  offsets:  %s\n", cfg.Storage.OffsetDB)
			}
			return nil
		},
	}
}

// initAnswers holds the values collected by config init.
type initAnswers struct {
	token       string
	mode        string
	webhookURL  string
	secretToken string
	offsetDB    string
}

func configInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init <path>",
		Short: "Write a starter configuration file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			force, _ := cmd.Flags().GetBool("force")
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}

			answers := initAnswers{mode: "polling"}
			if interactive, _ := cmd.Flags().GetBool("interactive"); interactive {
				if err := initForm(&answers).Run(); err != nil {
					return err
				}
			}

			data, err := config.Marshal(starterConfig(answers))
			if err != nil {
				return err
			}
			if dir := filepath.Dir(path); dir != "." {
				if err := os.MkdirAll(dir, 0o700); err != nil {
					return err
				}
			}
			if err := os.WriteFile(path, append([]byte("# botapi configuration\n"), data...), 0o600); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolP("interactive", "i", true, "Ask for values instead of writing defaults")
	cmd.Flags().Bool("force", false, "Overwrite an existing file")
	return cmd
}

func initForm(a *initAnswers) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Bot token").
				Description("Leave empty to read it from TELEGRAM_BOT_TOKEN.").
				EchoMode(huh.EchoModePassword).
				Value(&a.token).
				Validate(func(s string) error {
					if s != "" && !telegram.ValidToken(s) {
						return errors.New("expected <bot_id>:<secret>")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("How should the bot receive updates?").
				Options(
					huh.NewOption("Long polling", "polling"),
					huh.NewOption("Webhook", "webhook"),
				).
				Value(&a.mode),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Public webhook URL").
				Placeholder("https://bot.example.com/telegram/webhook").
				Value(&a.webhookURL).
				Validate(func(s string) error {
					if !strings.HasPrefix(s, "https://") {
						return errors.New("webhook URL must use https")
					}
					return nil
				}),
			huh.NewInput().
				Title("Secret token").
				Description("Sent back by Telegram on every webhook call.").
				Value(&a.secretToken).
				Validate(func(s string) error {
					if s != "" && !telegram.ValidWebhookSecret(s) {
						return errors.New("only A-Z, a-z, 0-9, _ and - are allowed")
					}
					return nil
				}),
		).WithHideFunc(func() bool { return a.mode != "webhook" }),
		huh.NewGroup(
			huh.NewInput().
				Title("Offset database").
				Description("SQLite file for the polling offset. Leave empty to keep it in memory.").
				Value(&a.offsetDB),
		).WithHideFunc(func() bool { return a.mode != "polling" }),
	)
}

func starterConfig(a initAnswers) *config.Config {
	cfg := config.Default()
	cfg.Bot.Token = a.token
	if cfg.Bot.Token == "" {
		cfg.Bot.Token = tokenRef
	}
	if a.mode == "webhook" {
		cfg.Webhook.URL = a.webhookURL
		cfg.Webhook.SecretToken = a.secretToken
	}
	cfg.Storage.OffsetDB = a.offsetDB
	return cfg
}
