package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/mr-tron/base58"
	"github.com/nspcc-dev/ledger-contract/common"
	"github.com/nspcc-dev/ledger-contract/dump"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/urfave/cli"
)

func runDump(c *cli.Context) error {
	if err := checkArgs(c, 1); err != nil {
		return err
	}

	label := c.String("label")
	if label == "" {
		return errors.New("missing dump label")
	}

	dir := c.Args().Get(0)

	err := os.MkdirAll(dir, 0700)
	if err != nil {
		return fmt.Errorf("create root dir: %w", err)
	}

	m := getMetadata(c)

	err = dump.Save(dir, dump.ID{Label: label, Version: common.Version}, m.env, map[string]util.Uint160{
		"aura":   m.cfg.Contracts.Aura,
		"entity": m.cfg.Contracts.Entity,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(m.w, "ledgers are successfully dumped to '%s/'\n", dir)

	return nil
}

func runRestore(c *cli.Context) error {
	if err := checkArgs(c, 1); err != nil {
		return err
	}

	label := c.String("label")
	if label == "" {
		return errors.New("missing dump label")
	}

	m := getMetadata(c)

	id, err := dump.Restore(c.Args().Get(0), label, m.env)
	if err != nil {
		return err
	}

	if m.verbose {
		fmt.Fprintf(m.w, "restored dump '%s'\n", id)
	}

	fmt.Fprintln(m.w, "OK")

	return nil
}

func runInspect(c *cli.Context) error {
	if err := checkArgs(c, 1); err != nil {
		return err
	}

	m := getMetadata(c)

	var contract util.Uint160
	switch name := c.Args().Get(0); name {
	case "aura":
		contract = m.cfg.Contracts.Aura
	case "entity":
		contract = m.cfg.Contracts.Entity
	default:
		return fmt.Errorf("unknown ledger '%s'", name)
	}

	if m.verbose {
		fmt.Fprintf(m.w, "contract: %s\n", contract.StringLE())
	}

	m.env.View(contract).Find(nil, func(k, v []byte) bool {
		fmt.Fprintf(m.w, "%s: %x\n", base58.Encode(k), v)
		return true
	})

	return nil
}
