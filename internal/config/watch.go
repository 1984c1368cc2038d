/*
 * watch.go, part of molsketch.
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

package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounceDelay = 100 * time.Millisecond

//Watcher reloads a configuration file when it changes.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
}

//NewWatcher starts watching the directory holding path. Editors often
//replace files instead of writing them, so the directory is watched
//rather than the file.
func NewWatcher(path string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return nil, err
	}
	return &Watcher{path: filepath.Clean(path), watcher: w}, nil
}

//Run calls fn with each new version of the file until ctx is done. Bursts
//of events are collapsed into a single reload. Loading errors are handed
//to fn with the previous configuration left in place by the caller.
//Run closes the watcher when it returns.
func (W *Watcher) Run(ctx context.Context, fn func(Config, error)) error {
	defer W.watcher.Close()
	debounce := time.NewTimer(0)
	<-debounce.C //drain initial timer
	pending := false
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-W.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != W.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			pending = true
			debounce.Reset(debounceDelay)
		case err, ok := <-W.watcher.Errors:
			if !ok {
				return nil
			}
			fn(Config{}, err)
		case <-debounce.C:
			if pending {
				pending = false
				fn(Load(W.path))
			}
		}
	}
}
