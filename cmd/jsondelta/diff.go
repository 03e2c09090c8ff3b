package main

import (
	"fmt"
	"os"

	"github.com/scott-cotton/cli"

	"github.com/jsondelta/jsondelta"
)

func diff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		cfg.Diff.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: diff requires 2 args, got %d", cli.ErrUsage, len(args))
	}

	var rules *jsondelta.Rules
	if cfg.Rules != "" {
		rules, err = jsondelta.LoadRules(cfg.Rules)
		if err != nil {
			return err
		}
	}

	if cfg.Watch {
		return diffWatch(cfg, cc, args[0], args[1], rules)
	}

	differs, err := diffFiles(cfg, cc, args[0], args[1], rules)
	if err != nil {
		return err
	}
	if differs {
		return cli.ExitCodeErr(1)
	}
	return nil
}

func diffFiles(cfg *DiffConfig, cc *cli.Context, file1, file2 string, rules *jsondelta.Rules) (bool, error) {
	a, err := jsondelta.Load(file1)
	if err != nil {
		return false, fmt.Errorf("error decoding %s: %w", file1, err)
	}
	b, err := jsondelta.Load(file2)
	if err != nil {
		return false, fmt.Errorf("error decoding %s: %w", file2, err)
	}

	d := jsondelta.Compare(a, b,
		jsondelta.WithSources(file1, file2),
		jsondelta.WithRules(rules))

	if err := jsondelta.Report(cc.Out, d, cfg.colorTTY(cc)); err != nil {
		return false, err
	}
	if !cfg.NoExport && cfg.Export != "" {
		if err := exportDiff(cfg.Export, d); err != nil {
			return false, err
		}
	}
	return d.HasDifferences(), nil
}

func exportDiff(path string, d *jsondelta.Diff) error {
	data, err := d.MarshalJSON()
	if err != nil {
		return fmt.Errorf("error encoding diff: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("error writing diff to %s: %w", path, err)
	}
	return nil
}
