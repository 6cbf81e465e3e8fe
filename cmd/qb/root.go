// Copyright (c) 2025 Yahya Qadeer Dar. All rights reserved.
// Use of this source code is governed by an Apache 2.0 license that can be found in the LICENSE file.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/YahyaDar/querybuilder/config"
	"github.com/YahyaDar/querybuilder/errors"
	"github.com/YahyaDar/querybuilder/log"
)

// app carries state shared by the subcommands.
type app struct {
	stdout io.Writer
	stderr io.Writer

	configPath string
	logLevel   string
	jsonOutput bool

	cfg      *config.Config
	settings *config.Settings
	logger   log.Logger
}

// execute runs the command line and returns the process exit code.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr, logger: log.Nop()}
	root := a.rootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		a.printError(err)
		return 1
	}
	return 0
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "qb",
		Short:         "Render and run SQL built from YAML query definitions",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "configuration file (yaml, json or toml)")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: trace, debug, info, warn, error, silent")
	flags.BoolVar(&a.jsonOutput, "json", false, "print results and errors as JSON")

	root.AddCommand(a.renderCommand(), a.runCommand())
	return root
}

// setup loads the configuration, lets flags override it and builds the
// logger.
func (a *app) setup(cmd *cobra.Command) error {
	var err error
	if a.configPath != "" {
		a.cfg, err = config.Load(a.configPath)
	} else {
		a.cfg = config.New()
	}
	if err != nil {
		return err
	}

	if err := a.cfg.BindFlag("logging.level", cmd.Flags().Lookup("log-level")); err != nil {
		return err
	}

	a.settings, err = a.cfg.Unmarshal()
	if err != nil {
		return err
	}

	logger, err := a.settings.Logging.NewLogger()
	if err != nil {
		return err
	}
	a.logger = logger
	log.SetDefaultLogger(logger)
	return nil
}

func (a *app) printError(err error) {
	if a.jsonOutput {
		out, ferr := errors.JSONFormat(err)
		if ferr == nil {
			fmt.Fprintln(a.stderr, out)
			return
		}
	}
	fmt.Fprintln(a.stderr, errors.PrettyFormat(err))
}

func (a *app) printJSON(v interface{}) error {
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return errors.NewInternalError("cannot encode output", err)
	}
	return nil
}
