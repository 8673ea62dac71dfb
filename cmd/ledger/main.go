package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"
)

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "dev"

func main() {
	app := cli.NewApp()
	app.Name = "ledger"
	app.Usage = "operate Aura and Entity ledgers over local storage"
	app.Version = version

	app.Writer = os.Stdout
	app.ErrWriter = os.Stderr

	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config, c",
			Usage: "ledger configuration `FILE` (in-memory storage if omitted)",
		},
		cli.StringFlag{
			Name:  "caller, a",
			Usage: "`ADDRESS` invocations are made on behalf of",
		},
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: "verbose result",
		},
	}
	app.Before = setup
	app.After = teardown

	app.Commands = []cli.Command{
		auraCommand(),
		entityCommand(),
		{
			Name:      "dump",
			Usage:     "dump storage of both ledgers into the directory",
			ArgsUsage: "DIR",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "label, l",
					Usage: "dump `LABEL` (e.g. node name)",
				},
			},
			Action: runDump,
		},
		{
			Name:      "restore",
			Usage:     "load ledger storage from the dump in the directory",
			ArgsUsage: "DIR",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "label, l",
					Usage: "dump `LABEL` to restore",
				},
			},
			Action: runRestore,
		},
		{
			Name:      "inspect",
			Usage:     "print raw storage items of the ledger",
			ArgsUsage: "aura|entity",
			Action:    runInspect,
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		fmt.Fprintf(app.ErrWriter, "terminated with error: %s\n", err)
		os.Exit(1)
	}
}
