package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jessevdk/go-flags"

	"github.com/fireredbridge/corebridge/input"
	"github.com/fireredbridge/corebridge/statebuilder"
)

// sendCommand is the CLI analogue of `POST /sendCommands`: reads a
// JSON command list from a file or stdin, drives it through the input
// controller, and prints the RunResult as JSON.
type sendCommand struct {
	globals *globalOptions
	Args    struct {
		File string `positional-arg-name:"file" description:"path to a JSON commands file, or \"-\" for stdin"`
	} `positional-args:"yes"`
}

func (c *sendCommand) Execute(args []string) error {
	raw, err := c.readCommandsFile()
	if err != nil {
		return err
	}

	var body struct {
		Commands []json.RawMessage `json:"commands"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return fmt.Errorf("bridge: parse commands file: %w", err)
	}
	commands, err := input.ParseCommands(body.Commands)
	if err != nil {
		return err
	}

	sess, err := newSession(c.globals)
	if err != nil {
		return err
	}
	defer sess.Close()

	controller := input.NewController(sess.client, sess.builder, statebuilder.NewOverlayConfig(), nil)
	result, err := controller.Run(commands)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func (c *sendCommand) readCommandsFile() ([]byte, error) {
	if c.Args.File == "" || c.Args.File == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(c.Args.File)
}

func addSendCommand(parser *flags.Parser, globals *globalOptions) {
	_, err := parser.AddCommand("send",
		"Drive a list of commands against the emulator",
		"Reads a JSON object of the form {\"commands\": [...]} from a file or stdin\n"+
			"and drives it through the input controller, printing the resulting\n"+
			"RunResult as JSON, equivalent to POST /sendCommands.",
		&sendCommand{globals: globals})
	if err != nil {
		panic(err)
	}
}
