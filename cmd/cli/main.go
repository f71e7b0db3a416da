package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"

	"github.com/marcelsud/botgate/config"
	inboxredis "github.com/marcelsud/botgate/inbox/redis"
	"github.com/marcelsud/botgate/telegram"
	"github.com/marcelsud/botgate/webhook"
	"github.com/spf13/cobra"
)

// operator commands for the same configuration the api binary reads

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "botgate",
		Short:        "Manage the Telegram webhook and inspect the update inbox",
		SilenceUsage: true,
	}
	root.AddCommand(setWebhookCmd(), webhookInfoCmd(), inboxCmd())
	return root
}

func setWebhookCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-webhook <public-url>",
		Short: "Point the bot's webhook at the given public address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.GetConfig()
			if err != nil {
				return err
			}
			origin, err := parseOrigin(args[0])
			if err != nil {
				return err
			}
			configurator := webhook.NewConfigurator(telegram.NewClient(cfg.TelegramAPIURL, nil))
			result, err := configurator.Configure(cmd.Context(), origin, telegram.Token(cfg.TelegramToken))
			if err != nil {
				return err
			}
			return printJSON(cmd, result)
		},
	}
}

func webhookInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "webhook-info",
		Short: "Show the webhook Telegram currently has for the bot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.GetConfig()
			if err != nil {
				return err
			}
			client := telegram.NewClient(cfg.TelegramAPIURL, nil)
			info, err := client.GetWebhookInfo(cmd.Context(), telegram.Token(cfg.TelegramToken))
			if err != nil {
				return err
			}
			return printJSON(cmd, info)
		},
	}
}

func inboxCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inbox [count]",
		Short: "List the newest updates stored in the Redis inbox",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			count := int64(10)
			if len(args) == 1 {
				n, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil || n <= 0 {
					return fmt.Errorf("invalid count %q", args[0])
				}
				count = n
			}
			cfg, err := config.GetConfig()
			if err != nil {
				return err
			}
			if !cfg.RedisEnabled() {
				return errors.New("REDIS_ADDR is not set")
			}
			stream, err := inboxredis.NewStream(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.InboxStream, cfg.InboxMaxLen)
			if err != nil {
				return err
			}
			defer stream.Close(context.Background())

			entries, err := stream.Recent(cmd.Context(), count)
			if err != nil {
				return err
			}
			for _, e := range entries {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%d\t%s\t%s\n",
					e.StreamID, e.EventID, e.UpdateID, e.Kind, e.ReceivedAt.Format("2006-01-02T15:04:05.000Z07:00"))
			}
			return nil
		},
	}
}

// parseOrigin accepts "https://bot.example.com" or a bare host. An explicit port is kept.
func parseOrigin(raw string) (webhook.Origin, error) {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		u, err = url.Parse("https://" + raw)
	}
	if err != nil || u.Hostname() == "" {
		return webhook.Origin{}, fmt.Errorf("invalid public url %q", raw)
	}
	return webhook.Origin{Scheme: u.Scheme, Host: u.Host}, nil
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
