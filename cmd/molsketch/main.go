/*
 * main.go, part of molsketch.
 *
 * Copyright 2024 Raul Mera  <rmeraa{at}academicos(dot)uta(dot)cl>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rmera/molsketch/internal/config"
	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"
	commit  = "dev"
)

//options are the settings shared by every subcommand, filled in before
//any of them runs.
type options struct {
	configPath string
	logLevel   string
	cfg        config.Config
	log        *Logger
}

var lookupEnv = os.LookupEnv

//load reads the configuration file, then the environment, then the flags,
//each overriding the previous one.
func (o *options) load(logOut io.Writer) error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	if err := o.override(&cfg); err != nil {
		return err
	}
	o.cfg = cfg
	o.log = NewLogger(cfg.LogLevel, logOut)
	return nil
}

//override applies the environment, and then the command line flags, on
//top of a configuration read from the file.
func (o *options) override(cfg *config.Config) error {
	if err := cfg.ApplyEnv(lookupEnv); err != nil {
		return err
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
		return cfg.Validate()
	}
	return nil
}

func newRootCommand() *cobra.Command {
	opts := &options{}
	rootCmd := &cobra.Command{
		Use:   "molsketch",
		Short: "molsketch - a tiny interactive molecule editor",
		Long: `molsketch builds molecules from atoms and bonds. Click an atom to
select it, click another one to bond the two (or break their bond), and
drag a selected atom to move it. The editor runs in the terminal, or
serves the molecule to websocket clients.`,
		Version:       fmt.Sprintf("%s (commit: %s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", config.DefaultFile, "Configuration file")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(newEditCommand(opts))
	rootCmd.AddCommand(newServeCommand(opts))
	rootCmd.AddCommand(newScriptCommand(opts))
	rootCmd.AddCommand(newDemoCommand(opts))
	rootCmd.AddCommand(newElementsCommand())
	return rootCmd
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
