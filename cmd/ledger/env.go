package main

import (
	"errors"
	"fmt"
	"io"
	"math/big"
	"strconv"

	"github.com/holiman/uint256"
	"github.com/nspcc-dev/ledger-contract/aura"
	"github.com/nspcc-dev/ledger-contract/config"
	"github.com/nspcc-dev/ledger-contract/entity"
	"github.com/nspcc-dev/ledger-contract/host"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/core/storage"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/encoding/fixedn"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

const metadataKey = "env"

type metadata struct {
	cfg     config.Config
	log     *zap.Logger
	env     *host.Environment
	aura    *aura.Token
	entity  *entity.Registry
	verbose bool
	w       io.Writer
}

func setup(c *cli.Context) error {
	cfg := config.Default()

	if p := c.GlobalString("config"); p != "" {
		var err error
		cfg, err = config.Load(p)
		if err != nil {
			return err
		}
	}

	log, err := cfg.Logger.NewLogger()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}

	store, err := storage.NewStore(cfg.Storage)
	if err != nil {
		return fmt.Errorf("open %s storage: %w", cfg.Storage.Type, err)
	}

	m := &metadata{
		cfg:     cfg,
		log:     log,
		env:     host.New(store, host.WithLogger(log)),
		aura:    aura.New(cfg.Aura.Symbol, cfg.Aura.Decimals),
		entity:  entity.New(contractReceivers(cfg, log)),
		verbose: c.GlobalBool("verbose"),
		w:       c.App.Writer,
	}

	c.App.Metadata = map[string]any{metadataKey: m}

	return nil
}

// contractReceivers treats deployed ledgers as contract accounts. They have no
// acknowledgment handlers, so entity tokens are never sent to them.
func contractReceivers(cfg config.Config, log *zap.Logger) *host.Receivers {
	return host.NewReceivers(log, cfg.Contracts.Aura, cfg.Contracts.Entity)
}

func teardown(c *cli.Context) error {
	m, ok := c.App.Metadata[metadataKey].(*metadata)
	if !ok {
		return nil
	}

	_ = m.log.Sync()

	return m.env.Close()
}

func getMetadata(c *cli.Context) *metadata {
	return c.App.Metadata[metadataKey].(*metadata)
}

func caller(c *cli.Context) (util.Uint160, error) {
	s := c.GlobalString("caller")
	if s == "" {
		return util.Uint160{}, errors.New("missing caller address, use --caller")
	}

	return parseAccount(s)
}

func parseAccount(s string) (util.Uint160, error) {
	u, err := address.StringToUint160(s)
	if err != nil {
		return u, fmt.Errorf("invalid address '%s': %w", s, err)
	}
	return u, nil
}

func parseAmount(s string, decimals int) (*uint256.Int, error) {
	b, err := fixedn.FromString(s, decimals)
	if err != nil {
		return nil, fmt.Errorf("invalid amount '%s': %w", s, err)
	}
	if b.Sign() < 0 {
		return nil, fmt.Errorf("negative amount '%s'", s)
	}

	v, overflow := uint256.FromBig(b)
	if overflow {
		return nil, fmt.Errorf("amount '%s' is too big", s)
	}

	return v, nil
}

func formatAmount(v *uint256.Int, decimals int) string {
	return fixedn.ToString(v.ToBig(), decimals)
}

func parseTokenID(s string) (entity.TokenID, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid token ID '%s': %w", s, err)
	}
	return entity.TokenID(n), nil
}

func formatAccount(u util.Uint160) string {
	if u.Equals(util.Uint160{}) {
		return "null"
	}
	return address.Uint160ToString(u)
}

func formatInt(b *big.Int, decimals int) string {
	return fixedn.ToString(b, decimals)
}

func checkArgs(c *cli.Context, n int) error {
	if c.NArg() != n {
		return fmt.Errorf("expected %d arguments, got %d, usage: %s", n, c.NArg(), c.Command.ArgsUsage)
	}
	return nil
}

// report prints the invocation result and returns its fault as error.
func report(m *metadata, res *state.AppExecResult, events func(*state.AppExecResult) error) error {
	if res.VMState != vmstate.Halt {
		return fmt.Errorf("invocation failed: %s", res.FaultException)
	}

	if m.verbose {
		fmt.Fprintf(m.w, "invocation: %s\n", res.Container.StringLE())
	}

	return events(res)
}
