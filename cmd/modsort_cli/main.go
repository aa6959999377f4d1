package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"go.uber.org/zap"

	"github.com/sushant-115/modsort/config"
	"github.com/sushant-115/modsort/core/resolution"
	"github.com/sushant-115/modsort/pkg/logger"
	"github.com/sushant-115/modsort/pkg/telemetry"
)

var configPath = flag.String("config", "", "Path to a YAML config file")

func completer() *readline.PrefixCompleter {
	opTypes := []readline.PrefixCompleterInterface{}
	for _, t := range []string{"none", "ref_delete", "truncate_col", "truncate_row", "basic_col", "basic_row", "inmem_col", "inmem_row"} {
		opTypes = append(opTypes, readline.PcItem(t))
	}
	return readline.NewPrefixCompleter(
		readline.PcItem("table"),
		readline.PcItem("tables"),
		readline.PcItem("begin"),
		readline.PcItem("op", opTypes...),
		readline.PcItem("ops"),
		readline.PcItem("sort"),
		readline.PcItem("check"),
		readline.PcItem("prepare"),
		readline.PcItem("commit"),
		readline.PcItem("rollback"),
		readline.PcItem("help"),
		readline.PcItem("exit"),
	)
}

func run() error {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	zlogger, err := logger.New(cfg.Logger)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer zlogger.Sync() //nolint:errcheck

	tel, shutdown, err := telemetry.New(cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("failed to init telemetry: %w", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			zlogger.Warn("telemetry shutdown", zap.Error(err))
		}
	}()

	resolver, err := resolution.NewResolver(resolution.LogApplier{Logger: logger.Named(zlogger, "dry_run")}, zlogger, tel)
	if err != nil {
		return err
	}
	sh := newShell(os.Stdout, zlogger, resolver)

	if args := flag.Args(); len(args) > 0 {
		sh.processCommand(args)
		return nil
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          cfg.CLI.Prompt,
		HistoryFile:     cfg.CLI.HistoryFile,
		AutoComplete:    completer(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("failed to start readline: %w", err)
	}
	defer rl.Close()

	fmt.Println("modsort CLI (interactive mode). Type 'help' for commands, 'exit' or 'quit' to leave.")
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if len(line) == 0 {
				return nil
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("error reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		args := strings.Fields(line)
		if cmd := strings.ToLower(args[0]); cmd == "exit" || cmd == "quit" {
			fmt.Println("Exiting modsort CLI.")
			return nil
		}
		sh.processCommand(args)
	}
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
