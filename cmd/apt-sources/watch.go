package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/etnz/apt-sources/sources"
)

// watchConvert converts opts.Input once, then again each time it is written
// or replaced, until ctx is done.
// The parent directory is watched so that editors replacing the file by a
// rename are noticed.
func watchConvert(ctx context.Context, conv *sources.Converter, opts convertOptions, stdout io.Writer) error {
	if opts.Input == "" || opts.Input == "-" {
		return fmt.Errorf("--watch needs an input file")
	}
	path, err := filepath.Abs(opts.Input)
	if err != nil {
		return err
	}
	opts.Input = path

	if err := runConvert(conv, opts, nil, stdout); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(path), err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			abs, _ := filepath.Abs(event.Name)
			if abs != path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if err := runConvert(conv, opts, nil, stdout); err != nil {
				// The file may be half written, the next event retries.
				log.Printf("Warning: %v", err)
				continue
			}
			if opts.Verbose {
				log.Printf("Converted %s", path)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("Warning: watcher: %v", err)
		}
	}
}
