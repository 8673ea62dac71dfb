package main

import (
	"fmt"

	"github.com/nspcc-dev/ledger-contract/host"
	"github.com/nspcc-dev/ledger-contract/rpc/aura"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/urfave/cli"
)

func auraCommand() cli.Command {
	return cli.Command{
		Name:  "aura",
		Usage: "fungible token ledger",
		Subcommands: []cli.Command{
			{
				Name:   "init",
				Usage:  "deploy the ledger, caller becomes the owner",
				Action: runAuraInit,
			},
			{
				Name:      "balance",
				Usage:     "print balance of the account",
				ArgsUsage: "ADDRESS",
				Action:    runAuraBalance,
			},
			{
				Name:   "supply",
				Usage:  "print total supply",
				Action: runAuraSupply,
			},
			{
				Name:      "transfer",
				Usage:     "transfer caller's tokens",
				ArgsUsage: "TO AMOUNT",
				Action:    runAuraTransfer,
			},
			{
				Name:      "transfer-from",
				Usage:     "transfer tokens using allowance given to the caller",
				ArgsUsage: "FROM TO AMOUNT",
				Action:    runAuraTransferFrom,
			},
			{
				Name:      "approve",
				Usage:     "set allowance of the spender over caller's tokens",
				ArgsUsage: "SPENDER AMOUNT",
				Action:    runAuraApprove,
			},
			{
				Name:      "mint",
				Usage:     "mint new tokens (owner only)",
				ArgsUsage: "TO AMOUNT",
				Action:    runAuraMint,
			},
			{
				Name:      "burn",
				Usage:     "burn caller's tokens",
				ArgsUsage: "AMOUNT",
				Action:    runAuraBurn,
			},
			{
				Name:   "pause",
				Usage:  "stop value movement (owner only)",
				Action: runAuraPause,
			},
			{
				Name:   "unpause",
				Usage:  "resume value movement (owner only)",
				Action: runAuraUnpause,
			},
		},
	}
}

// invokeAura runs a state-changing method of the Aura ledger on behalf of
// the caller and prints emitted transfers.
func invokeAura(c *cli.Context, method string, f func(ic *host.Context) error) error {
	m := getMetadata(c)

	from, err := caller(c)
	if err != nil {
		return err
	}

	if method != "deploy" {
		err = m.aura.Open(m.env.View(m.cfg.Contracts.Aura))
		if err != nil {
			return fmt.Errorf("open aura ledger: %w", err)
		}
	}

	res := m.env.Invoke(m.cfg.Contracts.Aura, from, method, f)

	return report(m, res, func(res *state.AppExecResult) error {
		transfers, err := aura.TransferEventsFromApplicationLog(host.ApplicationLog(res))
		if err != nil {
			return err
		}

		for _, ev := range transfers {
			fmt.Fprintf(m.w, "transfer: %s -> %s: %s\n",
				formatAccount(ev.From), formatAccount(ev.To), formatInt(ev.Amount, m.aura.Decimals()))
		}

		approvals, err := aura.ApprovalEventsFromApplicationLog(host.ApplicationLog(res))
		if err != nil {
			return err
		}

		for _, ev := range approvals {
			fmt.Fprintf(m.w, "approval: %s -> %s: %s\n",
				formatAccount(ev.Owner), formatAccount(ev.Spender), formatInt(ev.Amount, m.aura.Decimals()))
		}

		fmt.Fprintln(m.w, "OK")

		return nil
	})
}

func runAuraInit(c *cli.Context) error {
	m := getMetadata(c)

	return invokeAura(c, "deploy", func(ic *host.Context) error {
		return m.aura.Deploy(ic)
	})
}

func runAuraBalance(c *cli.Context) error {
	if err := checkArgs(c, 1); err != nil {
		return err
	}

	acc, err := parseAccount(c.Args().Get(0))
	if err != nil {
		return err
	}

	m := getMetadata(c)
	v := m.env.View(m.cfg.Contracts.Aura)

	fmt.Fprintf(m.w, "%s %s\n", formatAmount(m.aura.BalanceOf(v, acc), m.aura.Decimals()), m.aura.Symbol())

	return nil
}

func runAuraSupply(c *cli.Context) error {
	m := getMetadata(c)
	v := m.env.View(m.cfg.Contracts.Aura)

	fmt.Fprintf(m.w, "%s %s\n", formatAmount(m.aura.TotalSupply(v), m.aura.Decimals()), m.aura.Symbol())
	if m.aura.Paused(v) {
		fmt.Fprintln(m.w, "paused")
	}

	return nil
}

func runAuraTransfer(c *cli.Context) error {
	if err := checkArgs(c, 2); err != nil {
		return err
	}

	m := getMetadata(c)

	to, err := parseAccount(c.Args().Get(0))
	if err != nil {
		return err
	}

	amount, err := parseAmount(c.Args().Get(1), m.aura.Decimals())
	if err != nil {
		return err
	}

	return invokeAura(c, "transfer", func(ic *host.Context) error {
		return m.aura.Transfer(ic, to, amount)
	})
}

func runAuraTransferFrom(c *cli.Context) error {
	if err := checkArgs(c, 3); err != nil {
		return err
	}

	m := getMetadata(c)

	from, err := parseAccount(c.Args().Get(0))
	if err != nil {
		return err
	}

	to, err := parseAccount(c.Args().Get(1))
	if err != nil {
		return err
	}

	amount, err := parseAmount(c.Args().Get(2), m.aura.Decimals())
	if err != nil {
		return err
	}

	return invokeAura(c, "transferFrom", func(ic *host.Context) error {
		return m.aura.TransferFrom(ic, from, to, amount)
	})
}

func runAuraApprove(c *cli.Context) error {
	if err := checkArgs(c, 2); err != nil {
		return err
	}

	m := getMetadata(c)

	spender, err := parseAccount(c.Args().Get(0))
	if err != nil {
		return err
	}

	amount, err := parseAmount(c.Args().Get(1), m.aura.Decimals())
	if err != nil {
		return err
	}

	return invokeAura(c, "approve", func(ic *host.Context) error {
		return m.aura.Approve(ic, spender, amount)
	})
}

func runAuraMint(c *cli.Context) error {
	if err := checkArgs(c, 2); err != nil {
		return err
	}

	m := getMetadata(c)

	to, err := parseAccount(c.Args().Get(0))
	if err != nil {
		return err
	}

	amount, err := parseAmount(c.Args().Get(1), m.aura.Decimals())
	if err != nil {
		return err
	}

	return invokeAura(c, "mint", func(ic *host.Context) error {
		return m.aura.Mint(ic, to, amount)
	})
}

func runAuraBurn(c *cli.Context) error {
	if err := checkArgs(c, 1); err != nil {
		return err
	}

	m := getMetadata(c)

	amount, err := parseAmount(c.Args().Get(0), m.aura.Decimals())
	if err != nil {
		return err
	}

	return invokeAura(c, "burn", func(ic *host.Context) error {
		return m.aura.Burn(ic, amount)
	})
}

func runAuraPause(c *cli.Context) error {
	m := getMetadata(c)

	return invokeAura(c, "pause", func(ic *host.Context) error {
		return m.aura.Pause(ic)
	})
}

func runAuraUnpause(c *cli.Context) error {
	m := getMetadata(c)

	return invokeAura(c, "unpause", func(ic *host.Context) error {
		return m.aura.Unpause(ic)
	})
}
