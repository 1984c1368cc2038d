/*
 * serve.go, part of molsketch.
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
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rmera/molsketch/chemjson"
	"github.com/rmera/molsketch/internal/config"
	"github.com/rmera/molsketch/wsrender"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

func newServeCommand(opts *options) *cobra.Command {
	var addr string
	var watch bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the editor to websocket clients",
		Long: `Serve the molecule over a websocket at /ws. Clients receive a frame
after every change and send pointer input back as JSON messages.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.load(os.Stderr); err != nil {
				return err
			}
			if addr != "" {
				opts.cfg.Serve.Addr = addr
			}
			return runServe(cmd.Context(), opts, watch)
		},
	}
	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Address to listen on (overrides the configuration)")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Reload the configuration file when it changes")
	return cmd
}

func runServe(ctx context.Context, opts *options, watch bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := opts.log
	hub := wsrender.NewHub(log)
	defer hub.Close()
	S, err := newSession(opts.cfg, log, hub)
	if err != nil {
		return err
	}
	defer S.close()

	mux := http.NewServeMux()
	mux.Handle("/ws", hub)
	srv := &http.Server{Addr: opts.cfg.Serve.Addr, Handler: mux}
	errc := make(chan error, 1)
	go func() {
		log.Infof("serving on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
			stop()
		}
		close(errc)
	}()

	reload := make(chan config.Config)
	if watch {
		S.watch(ctx, opts, reload)
	}
	S.redraw()
	err = serveLoop(ctx, S, hub.Events(), reload)

	shutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err2 := srv.Shutdown(shutCtx); err2 != nil {
		log.Warnf("shutting down: %v", err2)
	}
	if err2, ok := <-errc; ok && err == nil {
		err = err2
	}
	return err
}

//serveLoop owns the session: all input, from clients or from the
//configuration watcher, is applied here.
func serveLoop(ctx context.Context, S *session, events <-chan *chemjson.Input, reload <-chan config.Config) error {
	for {
		select {
		case <-ctx.Done():
			S.log.Infof("stopping")
			return nil
		case in := <-events:
			if err := S.input(in); err != nil {
				S.log.Debugf("input %s: %v", in.Type, err)
			}
		case cfg := <-reload:
			S.apply(cfg)
		}
	}
}
