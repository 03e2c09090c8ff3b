package main

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"
)

type MainConfig struct {
	Color   bool `cli:"name=color desc='force colored output'"`
	NoColor bool `cli:"name=no-color desc='disable colored output'"`

	Out      string
	CloseOut func() error

	Main *cli.Command
}

func (cfg *MainConfig) outOpt(cc *cli.Context, a string) (any, error) {
	cfg.Out = a
	if a == "-" {
		return nil, nil
	}
	f, err := os.OpenFile(cfg.Out, os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0644)
	if err != nil {
		return nil, err
	}
	cc.Out = f
	cfg.CloseOut = f.Close
	return nil, nil
}

// colorTTY decides whether report output gets ANSI colors: forced on or off
// by flag, otherwise on when the output is a terminal
func (cfg *MainConfig) colorTTY(cc *cli.Context) bool {
	if cfg.NoColor {
		return false
	}
	if cfg.Color {
		return true
	}
	f, ok := cc.Out.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd())
}

type DiffConfig struct {
	*MainConfig
	Rules    string `cli:"name=rules desc='TOML exclusion rules file'"`
	Export   string `cli:"name=export desc='file for the diff JSON' default=diff_export.json"`
	NoExport bool   `cli:"name=no-export desc='skip writing the diff JSON file'"`
	Watch    bool   `cli:"name=watch desc='rerun the comparison when either file changes'"`

	Diff *cli.Command
}

type ApplyConfig struct {
	*MainConfig
	Rules string `cli:"name=rules desc='TOML exclusion rules file, applied while reconstructing'"`

	Apply *cli.Command
}
