package config

import (
	"context"
	"fmt"
	"os"

	"github.com/fsnotify/fsnotify"
)

// Watch re-reads path whenever it is written or replaced and sends each
// successfully parsed config on configs; read and watcher failures go to
// errs. Watching stops when ctx is done.
func Watch(ctx context.Context, path string, configs chan<- *Config, errs chan<- error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("can't create watcher: %w", err)
	}
	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return fmt.Errorf("can't watch %s: %w", path, err)
	}
	go func() {
		defer watcher.Close()
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				// Editors often save by rename, which drops the watch.
				if event.Op&fsnotify.Rename != 0 {
					_ = watcher.Add(path)
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				// Mid-rename the file can be briefly missing; Read would
				// replace it with the default patch.
				if _, err := os.Stat(path); err != nil {
					continue
				}
				c, err := Read(path)
				if err != nil {
					send(ctx, errs, err)
					continue
				}
				send(ctx, configs, c)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				send(ctx, errs, err)
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}

func send[T any](ctx context.Context, ch chan<- T, v T) {
	select {
	case ch <- v:
	case <-ctx.Done():
	}
}
