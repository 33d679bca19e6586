package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"launchthat.app/portal/internal/webhook"
)

type signOptions struct {
	secret    string
	timestamp string
	now       bool
	outbound  bool
}

// NewSignCommand signs a payload the way an inbound webhook sender must.
func NewSignCommand() *cobra.Command {
	opts := &signOptions{}

	cmd := &cobra.Command{
		Use:   "sign <payload-file|->",
		Short: "Print the signature headers for a webhook payload",
		Long: `Print the X-Signature (and X-Timestamp) headers for a payload file, or
stdin when the file is "-". With --outbound the X-Portal-Signature of an
outgoing delivery is printed instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSign(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.secret, "secret", "", "signing secret (required)")
	cmd.Flags().StringVar(&opts.timestamp, "timestamp", "", "unix millisecond timestamp to sign with")
	cmd.Flags().BoolVar(&opts.now, "now", false, "sign with the current time as timestamp")
	cmd.Flags().BoolVar(&opts.outbound, "outbound", false, "sign as an outbound delivery")
	_ = cmd.MarkFlagRequired("secret")
	cmd.MarkFlagsMutuallyExclusive("timestamp", "now")

	return cmd
}

func runSign(cmd *cobra.Command, opts *signOptions, path string) error {
	var (
		payload []byte
		err     error
	)
	if path == "-" {
		payload, err = io.ReadAll(cmd.InOrStdin())
	} else {
		payload, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("reading payload: %w", err)
	}

	out := cmd.OutOrStdout()
	if opts.outbound {
		fmt.Fprintf(out, "%s: %s\n", webhook.HeaderSignature, webhook.Sign(opts.secret, payload))
		return nil
	}

	timestamp := opts.timestamp
	if opts.now {
		timestamp = strconv.FormatInt(time.Now().UnixMilli(), 10)
	}
	if timestamp != "" {
		if _, err := strconv.ParseInt(timestamp, 10, 64); err != nil {
			return fmt.Errorf("timestamp must be unix milliseconds: %w", err)
		}
		fmt.Fprintf(out, "%s: %s\n", webhook.HeaderInboundTimestamp, timestamp)
	}
	fmt.Fprintf(out, "%s: %s\n", webhook.HeaderInboundSignature, webhook.SignInbound(opts.secret, payload, timestamp))
	return nil
}
