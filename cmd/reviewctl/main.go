// Command reviewctl reads and decides statuses on the status service.
package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/andreyxaxa/Access-Gate/internal/infrastructure/apiclient"
	"github.com/spf13/cobra"
)

type options struct {
	apiURL     string
	timeout    time.Duration
	jsonOutput bool

	client *apiclient.Client
	out    io.Writer
}

func defaultAPIURL() string {
	if s := os.Getenv("API_BASE_URL"); s != "" {
		return s
	}
	return "http://localhost:8080"
}

func newRootCmd(out io.Writer) *cobra.Command {
	opts := &options{out: out}

	root := &cobra.Command{
		Use:           "reviewctl <command>",
		Short:         "Review captured pictures on the status service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			opts.client = apiclient.New(opts.apiURL, opts.timeout)
		},
	}

	root.PersistentFlags().StringVar(&opts.apiURL, "api-url", defaultAPIURL(), "status service base URL")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "request timeout")
	root.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "output as JSON")

	root.AddCommand(newStatusCmd(opts))

	return root
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
