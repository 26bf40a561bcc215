package main

import (
	"encoding/json"
	"os"

	"github.com/jessevdk/go-flags"

	"github.com/fireredbridge/corebridge/httpshape"
)

// restartCommand is the CLI analogue of `POST /restartConsole`:
// resets the emulator and reports whether the reset call succeeded.
type restartCommand struct {
	globals *globalOptions
}

func (c *restartCommand) Execute(args []string) error {
	sess, err := newSession(c.globals)
	if err != nil {
		return err
	}
	defer sess.Close()

	resp := httpshape.RestartConsoleResponse{Status: "ok", Message: "console restarted"}
	if err := sess.link.Reset(); err != nil {
		resp.Status = "error"
		resp.Message = err.Error()
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

func addRestartCommand(parser *flags.Parser, globals *globalOptions) {
	_, err := parser.AddCommand("restart",
		"Reset the emulator console",
		"Sends a reset request over the bridge link, equivalent to POST /restartConsole.",
		&restartCommand{globals: globals})
	if err != nil {
		panic(err)
	}
}
