package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/jessevdk/go-flags"

	"github.com/fireredbridge/corebridge/backupguard"
	"github.com/fireredbridge/corebridge/log"
	"github.com/fireredbridge/corebridge/statebuilder"
)

// snapshotCommand is the CLI analogue of `GET /requestData`: one
// full Snapshot, plus the screenshot/backup side effects when the
// relevant environment variables or flags enable them.
type snapshotCommand struct {
	globals *globalOptions
	limiter *backupguard.Limiter
}

func (c *snapshotCommand) Execute(args []string) error {
	sess, err := newSession(c.globals)
	if err != nil {
		return err
	}
	defer sess.Close()

	start := time.Now()
	snap, err := sess.builder.Build(statebuilder.NewOverlayConfig())
	if err != nil {
		return err
	}
	if c.globals.Benchmark {
		log.GetLogger().Info("snapshot built", log.F("ms", time.Since(start).Milliseconds()))
	}

	if c.globals.ScreenshotDir != "" {
		if err := sess.link.Screenshot(c.globals.ScreenshotDir + "/gba_raw.png"); err != nil {
			log.GetLogger().Warn("screenshot failed", log.F("error", err.Error()))
		}
	}

	if c.globals.BackupEnabled {
		if c.limiter == nil {
			c.limiter = backupguard.NewLimiter(time.Duration(c.globals.BackupInterval) * time.Second)
		}
		if c.limiter.Allow() {
			stamp := time.Now().Format("2006-01-02_15-04-05")
			path := fmt.Sprintf("%s/savestate_%s.ss0", c.globals.BackupDir, stamp)
			if err := sess.link.SaveState(path); err != nil {
				log.GetLogger().Warn("savestate backup failed", log.F("error", err.Error()))
			}
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}

func addSnapshotCommand(parser *flags.Parser, globals *globalOptions) {
	_, err := parser.AddCommand("snapshot",
		"Print one full state snapshot as JSON",
		"Connects to the emulator bridge, resolves the symbol table, and prints one\n"+
			"full Snapshot (player, party, bag, PC, map, minimap, dialog, battle) as JSON,\n"+
			"equivalent to GET /requestData.",
		&snapshotCommand{globals: globals})
	if err != nil {
		panic(err)
	}
}
