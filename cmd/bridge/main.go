// Command bridge is the CLI front door for the memory-introspection
// and input-control system: it dials the emulator channel, resolves a
// symbol table into a schema.Catalog, and dispatches one of a handful
// of subcommands against the resulting state.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog"

	"github.com/fireredbridge/corebridge/log"
)

var version = "dev"

// globalOptions are flags shared by every subcommand.
// The backup/screenshot/benchmark settings mirror the FIRERED_*
// environment variables via go-flags' `env` tag, with an
// explicit flag override taking precedence the way every other option
// here does.
type globalOptions struct {
	Version func()        `short:"V" long:"version" description:"Print version and exit"`
	Addr    string        `long:"addr" description:"host:port of the emulator bridge listener" default:"127.0.0.1:8765"`
	Symbols string        `long:"symbols" description:"path to a <hex-address> <name> symbol file" required:"true"`
	Timeout time.Duration `long:"dial-timeout" description:"TCP dial timeout" default:"5s"`
	Verbose bool          `short:"v" long:"verbose" description:"enable debug logging"`

	Benchmark     bool   `long:"benchmark" env:"FIRERED_BENCHMARK" description:"log per-scope memory-read timings"`
	ScreenshotDir string `long:"screenshot-dir" env:"FIRERED_SCREENSHOT_DIR" description:"directory the emulator writes gba_raw.png into"`

	BackupEnabled  bool   `long:"backup-enabled" env:"FIRERED_SAVESTATE_BACKUP_ENABLED" description:"rate-limit and rotate savestate backups on requestData"`
	BackupInterval int    `long:"backup-interval-s" env:"FIRERED_SAVESTATE_BACKUP_INTERVAL_S" default:"300" description:"minimum seconds between savestate backups"`
	BackupKeep     int    `long:"backup-keep" env:"FIRERED_SAVESTATE_BACKUP_KEEP" default:"50" description:"number of rotated savestate backups to retain"`
	BackupDir      string `long:"backup-dir" env:"FIRERED_SAVESTATE_BACKUP_DIR" default:"./backup_saves" description:"directory savestate backups are rotated into"`
}

func main() {
	var globals globalOptions
	globals.Version = func() {
		fmt.Printf("bridge %s\n", version)
		os.Exit(0)
	}

	zlog := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).With().Timestamp().Logger()

	parser := flags.NewParser(&globals, flags.Default)
	parser.Name = "bridge"
	parser.LongDescription = "Reads and drives a running FireRed/LeafGreen session through its memory-introspection bridge."

	// Flags are only known once Parse has run, so the log level is
	// applied here, just before the chosen subcommand executes.
	parser.CommandHandler = func(command flags.Commander, args []string) error {
		if !globals.Verbose {
			zlog = zlog.Level(zerolog.InfoLevel)
		}
		log.SetLogger(log.NewZerologAdapter(zlog))
		return command.Execute(args)
	}

	addSnapshotCommand(parser, &globals)
	addSendCommand(parser, &globals)
	addRestartCommand(parser, &globals)

	_, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				os.Exit(0)
			}
			if flagsErr.Type == flags.ErrCommandRequired {
				parser.WriteHelp(os.Stderr)
				os.Exit(1)
			}
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
