package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/EgorLis/lobbybot/internal/bot"
	"github.com/EgorLis/lobbybot/internal/config"
)

func newCheckCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate config.json and commands.json, fill in defaults and save",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.check(cmd.OutOrStdout())
		},
	}
}

func (o *options) check(out io.Writer) error {
	logger := o.logger()
	loader, err := o.loader(logger)
	if err != nil {
		return err
	}
	cfg, err := loader.LoadConfig(config.NewStore(o.configPath))
	if err != nil {
		return err
	}
	cmds, err := loader.LoadCommands(config.NewStore(o.commandsPath), bot.CommandNames())
	if err != nil {
		return err
	}

	failed := 0
	for _, d := range []struct {
		name string
		doc  *config.Document
	}{{o.configPath, cfg}, {o.commandsPath, cmds}} {
		if d.doc.OK() {
			fmt.Fprintf(out, "%s: ok\n", d.name)
			continue
		}
		failed++
		fmt.Fprintf(out, "%s: %d error(s)\n", d.name, len(d.doc.Errors()))
		for _, p := range d.doc.Errors() {
			fmt.Fprintf(out, "  %s\n", p)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d document(s) failed validation", failed)
	}
	return nil
}
