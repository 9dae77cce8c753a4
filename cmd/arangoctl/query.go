package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/adfharrison1/go-arango/pkg/arango"
)

func newQueryCmd(a *app) *cobra.Command {
	var (
		batchSize int
		binds     []string
		validate  bool
	)
	cmd := &cobra.Command{
		Use:   "query AQL",
		Short: "Run an AQL query and print one JSON result per line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			q := a.db.Query()
			if validate {
				ok, err := q.Valid(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), strconv.FormatBool(ok))
				return nil
			}

			bindVars, err := parseBindVars(binds)
			if err != nil {
				return err
			}
			cursor, err := q.Execute(ctx, args[0], &arango.ExecuteOptions{BindVars: bindVars, BatchSize: batchSize})
			if err != nil {
				return err
			}
			return cursor.EachRaw(ctx, func(raw json.RawMessage) error {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), string(raw))
				return err
			})
		},
	}
	cmd.Flags().IntVar(&batchSize, "batch-size", 0, "Results per round trip")
	cmd.Flags().StringArrayVar(&binds, "bind", nil, "Bind variable as key=value (value parsed as JSON when possible)")
	cmd.Flags().BoolVar(&validate, "validate", false, "Only check the syntax")
	return cmd
}

// parseBindVars turns key=value pairs into bind variables. Values that are
// valid JSON keep their type, anything else is a string.
func parseBindVars(pairs []string) (map[string]interface{}, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	vars := make(map[string]interface{}, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid bind variable %q, expected key=value", pair)
		}
		var decoded interface{}
		if err := json.Unmarshal([]byte(value), &decoded); err == nil {
			vars[key] = decoded
		} else {
			vars[key] = value
		}
	}
	return vars, nil
}
