package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/flemzord/botapi/pkg/telegram"
)

func meCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the bot's own user (getMe)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.close()

			me, err := rt.bot.GetMe(cmd.Context())
			if err != nil {
				return describeError(err)
			}
			return printJSON(cmd.OutOrStdout(), me)
		},
	}
}

func sendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "send <chat> <text>",
		Short: "Send a text message (sendMessage)",
		Long:  "Send a text message. <chat> is a numeric chat id or a public @username.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.close()

			parseMode, _ := cmd.Flags().GetString("parse-mode")
			silent, _ := cmd.Flags().GetBool("silent")
			replyTo, _ := cmd.Flags().GetInt64("reply-to")

			msg, err := rt.bot.SendMessage(cmd.Context(), telegram.SendMessageRequest{
				ChatID:    telegram.ParseChatID(args[0]),
				Text:      args[1],
				ParseMode: telegram.ParseMode(parseMode),
				SendOptions: telegram.SendOptions{
					DisableNotification: silent,
					ReplyToMessageID:    telegram.MessageID(replyTo),
				},
			})
			if err != nil {
				return describeError(err)
			}
			return printJSON(cmd.OutOrStdout(), msg)
		},
	}
	cmd.Flags().String("parse-mode", "", "Markdown, MarkdownV2 or HTML")
	cmd.Flags().Bool("silent", false, "Send without notification")
	cmd.Flags().Int64("reply-to", 0, "Reply to this message id")
	return cmd
}

func fileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "file <file_id>",
		Short: "Show file metadata (getFile) and optionally download it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.close()

			file, err := rt.bot.GetFile(cmd.Context(), telegram.FileID(args[0]))
			if err != nil {
				return describeError(err)
			}

			out, _ := cmd.Flags().GetString("out")
			if out == "" {
				return printJSON(cmd.OutOrStdout(), struct {
					*telegram.File
					URL string `json:"url,omitempty"`
				}{file, downloadURL(rt.bot, file)})
			}

			if file.FilePath == "" {
				return errors.New("file is not available for download")
			}
			w, err := openOutput(cmd, out)
			if err != nil {
				return err
			}
			n, err := rt.bot.DownloadFile(cmd.Context(), file.FilePath, w)
			if cerr := w.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				return err
			}
			if out != "-" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Downloaded %d bytes to %s\n", n, out)
			}
			return nil
		},
	}
	cmd.Flags().StringP("out", "o", "", "Download the file to this path (- for stdout)")
	return cmd
}

func downloadURL(b *telegram.Bot, f *telegram.File) string {
	if f.FilePath == "" {
		return ""
	}
	return b.FileURL(f.FilePath)
}

func commandsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "commands",
		Short: "Manage the bot's command menu",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "List the bot's commands (getMyCommands)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.close()

			commands, err := rt.bot.GetMyCommands(cmd.Context())
			if err != nil {
				return describeError(err)
			}
			out := cmd.OutOrStdout()
			if len(commands) == 0 {
				fmt.Fprintln(out, "No commands set.")
				return nil
			}
			for _, c := range commands {
				fmt.Fprintf(out, "/%s - %s\n", c.Command, c.Description)
			}
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "set [name=description]...",
		Short: "Replace the bot's commands (setMyCommands); no arguments clears them",
		RunE: func(cmd *cobra.Command, args []string) error {
			commands, err := parseCommands(args)
			if err != nil {
				return err
			}

			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}
			defer rt.close()

			if err := rt.bot.SetMyCommands(cmd.Context(), telegram.SetMyCommandsRequest{Commands: commands}); err != nil {
				return describeError(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Set %d commands.\n", len(commands))
			return nil
		},
	})
	return cmd
}

// parseCommands turns "start=Start the bot" arguments into BotCommands.
func parseCommands(args []string) ([]telegram.BotCommand, error) {
	commands := make([]telegram.BotCommand, 0, len(args))
	for _, arg := range args {
		name, desc, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("invalid command %q: want name=description", arg)
		}
		commands = append(commands, telegram.BotCommand{
			Command:     strings.TrimPrefix(strings.TrimSpace(name), "/"),
			Description: strings.TrimSpace(desc),
		})
	}
	return commands, nil
}
