// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/YahyaDar/querybuilder/builder"
	"github.com/YahyaDar/querybuilder/grammar"
)

// Rendered is one definition compiled for one dialect.
type Rendered struct {
	Dialect  string            `json:"dialect"`
	SQL      string            `json:"sql"`
	Bindings []grammar.Binding `json:"bindings"`
}

func (a *app) renderCommand() *cobra.Command {
	var (
		file    string
		dialect string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print the SQL and bindings a query definition compiles to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			def, err := LoadDefinition(file)
			if err != nil {
				return err
			}
			out, err := render(cmd.Context(), def, dialect, a)
			if err != nil {
				return err
			}
			if a.jsonOutput {
				return a.printJSON(out)
			}
			for _, r := range out {
				fmt.Fprintf(a.stdout, "-- %s\n%s\n", r.Dialect, r.SQL)
				if len(r.Bindings) > 0 {
					fmt.Fprintf(a.stdout, "-- bindings: %s\n", formatBindings(r.Bindings))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "query definition file")
	cmd.Flags().StringVar(&dialect, "dialect", grammar.MySQLName, "mysql, postgres, sqlite or all")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// render compiles def once per requested dialect. "all" compiles every
// dialect concurrently, each on its own builder.
func render(ctx context.Context, def *Definition, dialect string, a *app) ([]Rendered, error) {
	names := []string{dialect}
	if strings.EqualFold(dialect, "all") {
		names = grammar.Names()
	}

	dialects := make([]grammar.Dialect, len(names))
	for i, name := range names {
		d, err := grammar.ByName(name)
		if err != nil {
			return nil, err
		}
		dialects[i] = d
	}

	out := make([]Rendered, len(dialects))
	g, ctx := errgroup.WithContext(ctx)
	for i, d := range dialects {
		i, d := i, d
		g.Go(func() error {
			qb := builder.New(nil, builder.WithDialect(d), builder.WithLogger(a.logger))
			if _, err := def.Run(ctx, qb); err != nil {
				return err
			}
			out[i] = Rendered{Dialect: d.Name(), SQL: qb.SQL(), Bindings: qb.LastBindings()}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func formatBindings(bindings []grammar.Binding) string {
	parts := make([]string, len(bindings))
	for i, b := range bindings {
		parts[i] = fmt.Sprintf("%s=%#v", b.Name, b.Value)
	}
	return strings.Join(parts, ", ")
}
