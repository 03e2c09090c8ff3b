package main

import (
	"fmt"
	"os"

	"github.com/scott-cotton/cli"

	"github.com/jsondelta/jsondelta"
)

func apply(cfg *ApplyConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Apply.Parse(cc, args)
	if err != nil {
		cfg.Apply.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) < 2 || len(args) > 3 {
		return fmt.Errorf("%w: apply requires 2 or 3 args, got %d", cli.ErrUsage, len(args))
	}

	original, err := jsondelta.Load(args[0])
	if err != nil {
		return fmt.Errorf("error decoding %s: %w", args[0], err)
	}

	diffData, err := os.ReadFile(args[1])
	if err != nil {
		return fmt.Errorf("error reading %s: %w", args[1], err)
	}
	d, warns, err := jsondelta.ParseDiff(diffData)
	if err != nil {
		return fmt.Errorf("error decoding %s: %w", args[1], err)
	}
	printWarnings(warns)

	var opts []jsondelta.ApplyOption
	if cfg.Rules != "" {
		rules, err := jsondelta.LoadRules(cfg.Rules)
		if err != nil {
			return err
		}
		opts = append(opts, jsondelta.WithApplyRules(rules))
	}
	if len(args) == 3 {
		target, err := jsondelta.Load(args[2])
		if err != nil {
			return fmt.Errorf("error decoding %s: %w", args[2], err)
		}
		opts = append(opts, jsondelta.WithTarget(target))
	}

	result, warns, err := jsondelta.Apply(original, d, opts...)
	if err != nil {
		return err
	}
	printWarnings(warns)

	out, err := jsondelta.ToJSON(result)
	if err != nil {
		return err
	}
	_, err = cc.Out.Write(out)
	return err
}

func printWarnings(warns []jsondelta.Warning) {
	for _, w := range warns {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
}
