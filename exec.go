package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"toydbclient/internal/config"
	"toydbclient/internal/protocol"
	"toydbclient/internal/query"
	"toydbclient/internal/transport"
)

var (
	execPretty   bool
	execFile     string
	execParallel int
)

var execCmd = &cobra.Command{
	Use:   "exec [query|-]",
	Short: "Send one query and print the response",
	Long: `Send a query without the interactive screen.

The query comes from the argument, from stdin when the argument is "-",
or from a batch file given with --file. Queries in a batch file are
separated by lines containing only "` + query.BatchSeparator + `" and run concurrently;
responses are printed in file order.

The exit status is non-zero when a query fails or the reply is a JSON-RPC
envelope carrying an error member; the reply is printed either way.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExec,
}

func init() {
	execCmd.Flags().BoolVarP(&execPretty, "pretty", "p", false, "Indent JSON responses")
	execCmd.Flags().StringVarP(&execFile, "file", "f", "", "Batch file of queries")
	execCmd.Flags().IntVar(&execParallel, "parallel", 4, "Maximum concurrent queries for --file")
	rootCmd.AddCommand(execCmd)
}

func runExec(cmd *cobra.Command, args []string) error {
	if execFile != "" && len(args) > 0 {
		return errors.New("pass either a query or --file, not both")
	}

	cfg, _, err := loadConfig(nil)
	if err != nil {
		return err
	}
	defer setupLogging(cfg)()

	ctx, cancel := signalContext()
	defer cancel()

	svc, client, err := newHeadlessService(cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	out := cmd.OutOrStdout()

	if execFile != "" {
		data, err := os.ReadFile(execFile)
		if err != nil {
			return fmt.Errorf("failed to read batch file: %w", err)
		}
		results, err := svc.ExecuteAll(ctx, query.SplitBatch(string(data)), execParallel)
		if err != nil {
			return err
		}
		return printResults(out, results, execPretty)
	}

	text, err := readQuery(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}
	body, err := svc.Execute(ctx, text)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, formatBody(body, execPretty))
	return rpcFailure(body)
}

// newHeadlessService builds a query service for one-shot commands.
// No bus is needed because nothing submits asynchronously.
func newHeadlessService(cfg *config.Config) (*query.Service, *transport.Client, error) {
	client, err := transport.NewClient(cfg.Endpoint)
	if err != nil {
		return nil, nil, err
	}
	return query.NewStandalone(client, cfg.Timeout()), client, nil
}

// readQuery takes the query from args, or from in when args is empty or "-"
func readQuery(in io.Reader, args []string) (string, error) {
	if len(args) == 1 && args[0] != "-" {
		return args[0], nil
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("failed to read query from stdin: %w", err)
	}
	return string(data), nil
}

// rpcFailure returns the error member of body when body is a JSON-RPC reply
// carrying one. Anything else, including text that is not JSON, is not a failure.
func rpcFailure(body string) error {
	resp, err := protocol.DecodeResponse(body)
	if err != nil || resp.Error == nil {
		return nil
	}
	return resp.Error
}

func formatBody(body string, pretty bool) string {
	if pretty {
		return protocol.Pretty(body)
	}
	return body
}

// printResults writes every batch result and reports failure if any query
// failed or was answered with a JSON-RPC error
func printResults(w io.Writer, results []query.Result, pretty bool) error {
	failed := 0
	for i, r := range results {
		if i > 0 {
			fmt.Fprintln(w, query.BatchSeparator)
		}
		if r.Err != nil {
			failed++
			fmt.Fprintf(w, "error: %v\n", r.Err)
			continue
		}
		fmt.Fprintln(w, strings.TrimRight(formatBody(r.Body, pretty), "\n"))
		if rpcFailure(r.Body) != nil {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d queries failed", failed, len(results))
	}
	return nil
}
