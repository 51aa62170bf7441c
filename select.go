package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"toydbclient/internal/protocol"
)

var (
	selectDB     string
	selectTable  string
	selectFilter string
	selectPrint  bool
	selectPretty bool
)

var selectCmd = &cobra.Command{
	Use:   "select",
	Short: "Build a select request and send it",
	Long: `Build a JSON-RPC select envelope and send it to the server.

The filter is a JSON expression tree, for example:
  {"Eq":[{"Col":"Age"},{"Val":{"Integer":18}}]}`,
	Args: cobra.NoArgs,
	RunE: runSelect,
}

func init() {
	selectCmd.Flags().StringVar(&selectDB, "db", "", "Database name (required)")
	selectCmd.Flags().StringVarP(&selectTable, "table", "t", "", "Table name (required)")
	selectCmd.Flags().StringVar(&selectFilter, "filter", "", "Filter expression as JSON")
	selectCmd.Flags().BoolVar(&selectPrint, "print", false, "Print the request instead of sending it")
	selectCmd.Flags().BoolVarP(&selectPretty, "pretty", "p", false, "Indent JSON responses")
	_ = selectCmd.MarkFlagRequired("db")
	_ = selectCmd.MarkFlagRequired("table")
	rootCmd.AddCommand(selectCmd)
}

// buildSelect encodes a select request from flag values
func buildSelect(db, table, filter string) (string, error) {
	expr, err := protocol.ParseFilter(filter)
	if err != nil {
		return "", err
	}
	req, err := protocol.NewSelect(db, table, expr)
	if err != nil {
		return "", err
	}
	return req.Encode()
}

func runSelect(cmd *cobra.Command, args []string) error {
	body, err := buildSelect(selectDB, selectTable, selectFilter)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if selectPrint {
		fmt.Fprintln(out, protocol.Pretty(body))
		return nil
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

	reply, err := svc.Execute(ctx, body)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, formatBody(reply, selectPretty))
	return rpcFailure(reply)
}
