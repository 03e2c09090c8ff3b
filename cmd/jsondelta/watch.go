package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/scott-cotton/cli"

	"github.com/jsondelta/jsondelta"
)

// diffWatch reruns the comparison whenever either input file is written.
// Watches are placed on the parent directories because editors replace files
// by rename, which drops a watch placed on the file itself.
func diffWatch(cfg *DiffConfig, cc *cli.Context, file1, file2 string, rules *jsondelta.Rules) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("unable to create watcher: %w", err)
	}
	defer watcher.Close()

	watched := map[string]bool{}
	for _, f := range []string{file1, file2} {
		abs, err := filepath.Abs(f)
		if err != nil {
			return err
		}
		watched[abs] = true
		dir := filepath.Dir(abs)
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("unable to watch %s: %w", dir, err)
		}
	}

	if _, err := diffFiles(cfg, cc, file1, file2, rules); err != nil {
		fmt.Fprintf(cc.Out, "error: %v\n", err)
	}

	// editors fire several events per save; coalesce them
	var pending <-chan time.Time
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || !watched[abs] {
				continue
			}
			pending = time.After(100 * time.Millisecond)
		case <-pending:
			pending = nil
			when := time.Now().Format(time.RFC3339)
			fmt.Fprintf(cc.Out, "---\n# change detected at %s\n", when)
			if _, err := diffFiles(cfg, cc, file1, file2, rules); err != nil {
				fmt.Fprintf(cc.Out, "error: %v\n", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(cc.Out, "watch error: %v\n", err)
		}
	}
}
