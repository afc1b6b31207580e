package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/registration-relay/internal/form"
	"github.com/noah-isme/registration-relay/pkg/config"
	"github.com/noah-isme/registration-relay/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	var (
		relayURL = cfg.Client.RelayURL
		probeURL string
		timeout  = cfg.Client.Timeout
		verbose  bool
	)

	root := &cobra.Command{
		Use:           "registration-cli",
		Short:         "Terminal client for the registration relay",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&relayURL, "relay-url", relayURL, "Relay submission endpoint (env RELAY_URL)")
	root.PersistentFlags().DurationVar(&timeout, "timeout", timeout, "Request timeout (env RELAY_TIMEOUT)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log client diagnostics to stderr")

	newLogger := func() *zap.Logger {
		if !verbose {
			return zap.NewNop()
		}
		cliCfg := *cfg
		cliCfg.Log.Format = "console"
		cliCfg.Log.Level = "debug"
		l, err := logger.New(&cliCfg)
		if err != nil {
			return zap.NewNop()
		}
		return l
	}

	registerCmd := &cobra.Command{
		Use:   "register",
		Short: "Fill in the registration form and submit it",
		RunE: func(cmd *cobra.Command, args []string) error {
			l := newLogger()
			defer l.Sync() //nolint:errcheck

			ctrl := form.NewController(form.NewHTTPSubmitter(relayURL, timeout, nil), l)
			driver := form.NewSurveyDriver(cmd.OutOrStdout())
			if err := driver.Info(cmd.Context(), "Create Account\nJoin us today! Fill in your details below."); err != nil {
				return err
			}
			return form.RunSession(cmd.Context(), ctrl, driver)
		},
	}

	testWebhookCmd := &cobra.Command{
		Use:   "test-webhook",
		Short: "Ask the relay to send a sample registration to the webhook",
		RunE: func(cmd *cobra.Command, args []string) error {
			target := probeURL
			if target == "" {
				target = probeURLFor(relayURL)
			}
			submitter := form.NewHTTPSubmitter(relayURL, timeout, nil)
			status, result, err := submitter.Probe(cmd.Context(), target)
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			if !result.Success {
				return fmt.Errorf("webhook test failed: status=%d", status)
			}
			return nil
		},
	}
	testWebhookCmd.Flags().StringVar(&probeURL, "probe-url", "", "Webhook test endpoint (defaults to the relay URL's sibling test-webhook path)")

	root.AddCommand(registerCmd, testWebhookCmd)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		if errors.Is(err, form.ErrAborted) {
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func probeURLFor(relayURL string) string {
	const suffix = "/submit-registration"
	if strings.HasSuffix(relayURL, suffix) {
		return strings.TrimSuffix(relayURL, suffix) + "/test-webhook"
	}
	return strings.TrimRight(relayURL, "/") + "/test-webhook"
}
