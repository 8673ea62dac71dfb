package main

import (
	"fmt"

	"github.com/holiman/uint256"
	entityctr "github.com/nspcc-dev/ledger-contract/entity"
	"github.com/nspcc-dev/ledger-contract/host"
	"github.com/nspcc-dev/ledger-contract/rpc/entity"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/urfave/cli"
)

func entityCommand() cli.Command {
	return cli.Command{
		Name:  "entity",
		Usage: "multi-token ledger",
		Subcommands: []cli.Command{
			{
				Name:   "init",
				Usage:  "deploy the ledger, caller becomes the owner",
				Action: runEntityInit,
			},
			{
				Name:      "balance",
				Usage:     "print balance of the account in the token, or all its tokens",
				ArgsUsage: "ADDRESS [ID]",
				Action:    runEntityBalance,
			},
			{
				Name:      "supply",
				Usage:     "print total supply and URI of the token",
				ArgsUsage: "ID",
				Action:    runEntitySupply,
			},
			{
				Name:      "create",
				Usage:     "create token with metadata URI (owner only)",
				ArgsUsage: "ID URI",
				Action:    runEntityCreate,
			},
			{
				Name:      "transfer",
				Usage:     "transfer tokens as the owner or approved operator",
				ArgsUsage: "FROM TO ID AMOUNT",
				Action:    runEntityTransfer,
			},
			{
				Name:      "mint",
				Usage:     "mint tokens (owner only)",
				ArgsUsage: "TO ID AMOUNT",
				Action:    runEntityMint,
			},
			{
				Name:      "burn",
				Usage:     "burn caller's tokens",
				ArgsUsage: "ID AMOUNT",
				Action:    runEntityBurn,
			},
			{
				Name:      "approve",
				Usage:     "let operator move all caller's tokens",
				ArgsUsage: "OPERATOR",
				Flags: []cli.Flag{
					cli.BoolFlag{
						Name:  "revoke, r",
						Usage: "revoke previously given approval",
					},
				},
				Action: runEntityApprove,
			},
		},
	}
}

// invokeEntity runs a state-changing method of the Entity ledger on behalf
// of the caller and prints emitted transfers.
func invokeEntity(c *cli.Context, method string, f func(ic *host.Context) error) error {
	m := getMetadata(c)

	from, err := caller(c)
	if err != nil {
		return err
	}

	if method != "deploy" {
		err = m.entity.Open(m.env.View(m.cfg.Contracts.Entity))
		if err != nil {
			return fmt.Errorf("open entity ledger: %w", err)
		}
	}

	res := m.env.Invoke(m.cfg.Contracts.Entity, from, method, f)

	return report(m, res, func(res *state.AppExecResult) error {
		singles, err := entity.TransferSingleEventsFromApplicationLog(host.ApplicationLog(res))
		if err != nil {
			return err
		}

		for _, ev := range singles {
			fmt.Fprintf(m.w, "transfer #%s: %s -> %s: %s\n",
				ev.ID, formatAccount(ev.From), formatAccount(ev.To), ev.Amount)
		}

		uris, err := entity.URIEventsFromApplicationLog(host.ApplicationLog(res))
		if err != nil {
			return err
		}

		for _, ev := range uris {
			fmt.Fprintf(m.w, "token #%s: %s\n", ev.ID, ev.Value)
		}

		approvals, err := entity.ApprovalForAllEventsFromApplicationLog(host.ApplicationLog(res))
		if err != nil {
			return err
		}

		for _, ev := range approvals {
			fmt.Fprintf(m.w, "operator %s of %s: %t\n", formatAccount(ev.Operator), formatAccount(ev.Owner), ev.Approved)
		}

		fmt.Fprintln(m.w, "OK")

		return nil
	})
}

func runEntityInit(c *cli.Context) error {
	m := getMetadata(c)

	return invokeEntity(c, "deploy", func(ic *host.Context) error {
		return m.entity.Deploy(ic)
	})
}

func runEntityBalance(c *cli.Context) error {
	if c.NArg() != 1 && c.NArg() != 2 {
		return fmt.Errorf("expected 1 or 2 arguments, usage: %s", c.Command.ArgsUsage)
	}

	m := getMetadata(c)
	v := m.env.View(m.cfg.Contracts.Entity)

	acc, err := parseAccount(c.Args().Get(0))
	if err != nil {
		return err
	}

	if c.NArg() == 1 {
		m.entity.TokensOf(v, acc, func(id entityctr.TokenID, balance *uint256.Int) bool {
			fmt.Fprintf(m.w, "#%d: %s\n", id, balance.ToBig())
			return true
		})
		return nil
	}

	id, err := parseTokenID(c.Args().Get(1))
	if err != nil {
		return err
	}

	fmt.Fprintln(m.w, m.entity.BalanceOf(v, acc, id).ToBig())

	return nil
}

func runEntitySupply(c *cli.Context) error {
	if err := checkArgs(c, 1); err != nil {
		return err
	}

	id, err := parseTokenID(c.Args().Get(0))
	if err != nil {
		return err
	}

	m := getMetadata(c)
	v := m.env.View(m.cfg.Contracts.Entity)

	if !m.entity.Exists(v, id) {
		return fmt.Errorf("%w: %d", entityctr.ErrUnknownToken, id)
	}

	fmt.Fprintln(m.w, m.entity.TotalSupply(v, id).ToBig())
	if uri := m.entity.URI(v, id); uri != "" {
		fmt.Fprintln(m.w, uri)
	}

	return nil
}

func runEntityCreate(c *cli.Context) error {
	if err := checkArgs(c, 2); err != nil {
		return err
	}

	id, err := parseTokenID(c.Args().Get(0))
	if err != nil {
		return err
	}

	m := getMetadata(c)
	uri := c.Args().Get(1)

	return invokeEntity(c, "create", func(ic *host.Context) error {
		return m.entity.Create(ic, id, uri)
	})
}

func runEntityTransfer(c *cli.Context) error {
	if err := checkArgs(c, 4); err != nil {
		return err
	}

	from, err := parseAccount(c.Args().Get(0))
	if err != nil {
		return err
	}

	to, err := parseAccount(c.Args().Get(1))
	if err != nil {
		return err
	}

	id, err := parseTokenID(c.Args().Get(2))
	if err != nil {
		return err
	}

	amount, err := parseAmount(c.Args().Get(3), 0)
	if err != nil {
		return err
	}

	m := getMetadata(c)

	return invokeEntity(c, "safeTransferFrom", func(ic *host.Context) error {
		return m.entity.SafeTransferFrom(ic, from, to, id, amount, nil)
	})
}

func runEntityMint(c *cli.Context) error {
	if err := checkArgs(c, 3); err != nil {
		return err
	}

	to, err := parseAccount(c.Args().Get(0))
	if err != nil {
		return err
	}

	id, err := parseTokenID(c.Args().Get(1))
	if err != nil {
		return err
	}

	amount, err := parseAmount(c.Args().Get(2), 0)
	if err != nil {
		return err
	}

	m := getMetadata(c)

	return invokeEntity(c, "mint", func(ic *host.Context) error {
		return m.entity.Mint(ic, to, id, amount)
	})
}

func runEntityBurn(c *cli.Context) error {
	if err := checkArgs(c, 2); err != nil {
		return err
	}

	id, err := parseTokenID(c.Args().Get(0))
	if err != nil {
		return err
	}

	amount, err := parseAmount(c.Args().Get(1), 0)
	if err != nil {
		return err
	}

	m := getMetadata(c)

	return invokeEntity(c, "burn", func(ic *host.Context) error {
		return m.entity.Burn(ic, id, amount)
	})
}

func runEntityApprove(c *cli.Context) error {
	if err := checkArgs(c, 1); err != nil {
		return err
	}

	operator, err := parseAccount(c.Args().Get(0))
	if err != nil {
		return err
	}

	m := getMetadata(c)
	approved := !c.Bool("revoke")

	return invokeEntity(c, "setApprovalForAll", func(ic *host.Context) error {
		return m.entity.SetApprovalForAll(ic, operator, approved)
	})
}
