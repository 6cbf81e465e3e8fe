// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/YahyaDar/querybuilder/db"
)

// Result is what qb run prints.
type Result struct {
	SQL    string      `json:"sql"`
	Result interface{} `json:"result"`
}

func (a *app) runCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute a query definition against the configured database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			def, err := LoadDefinition(file)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			conn, err := db.Open(ctx, a.settings.Database,
				db.WithLogger(a.logger),
				db.WithQueryLogging(a.settings.Builder.LogQueries),
			)
			if err != nil {
				return err
			}
			defer conn.Close()

			qb := conn.Query()
			res, err := def.Run(ctx, qb)
			if err != nil {
				return err
			}

			if a.jsonOutput {
				return a.printJSON(Result{SQL: qb.SQL(), Result: res})
			}
			fmt.Fprintln(a.stdout, qb.SQL())
			return a.printJSON(res)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "query definition file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
