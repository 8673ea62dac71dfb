/*
Package ledgertest provides helpers to test ledger contracts running in a
host.Environment over in-memory storage.
*/
package ledgertest

import (
	"testing"

	"github.com/nspcc-dev/ledger-contract/common"
	"github.com/nspcc-dev/ledger-contract/host"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/core/storage"
	"github.com/nspcc-dev/neo-go/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// Executor runs invocations of a single contract.
type Executor struct {
	Env      *host.Environment
	Contract util.Uint160
}

// NewExecutor returns Executor over a fresh in-memory environment with a
// random contract hash. The environment is closed on test cleanup.
func NewExecutor(t testing.TB) *Executor {
	env := host.New(storage.NewMemoryStore(), host.WithLogger(zaptest.NewLogger(t)))
	t.Cleanup(func() { _ = env.Close() })

	return &Executor{
		Env:      env,
		Contract: NewAccount(t),
	}
}

// NewAccount returns a random account.
func NewAccount(t testing.TB) util.Uint160 {
	k, err := keys.NewPrivateKey()
	require.NoError(t, err)

	return k.GetScriptHash()
}

// View returns persisted storage of the contract.
func (e *Executor) View() common.Reader {
	return e.Env.View(e.Contract)
}

// WithSigner returns Invoker making calls on behalf of the account.
func (e *Executor) WithSigner(acc util.Uint160) *Invoker {
	return &Invoker{Executor: e, Signer: acc}
}

// Invoker makes invocations on behalf of a fixed caller.
type Invoker struct {
	*Executor
	Signer util.Uint160
}

// Invoke runs f and checks that the invocation succeeded.
func (c *Invoker) Invoke(t testing.TB, method string, f func(ic *host.Context) error) *state.AppExecResult {
	res := c.Env.Invoke(c.Contract, c.Signer, method, f)
	require.Equal(t, vmstate.Halt, res.VMState, "fault: %s", res.FaultException)

	return res
}

// InvokeFail runs f and checks that the invocation failed with an exception
// containing the given message. Nothing must be notified.
func (c *Invoker) InvokeFail(t testing.TB, msg string, method string, f func(ic *host.Context) error) *state.AppExecResult {
	res := c.Env.Invoke(c.Contract, c.Signer, method, f)
	require.Equal(t, vmstate.Fault, res.VMState)
	require.Contains(t, res.FaultException, msg)
	require.Empty(t, res.Events)

	return res
}

// CheckNotification checks that the result contains exactly one
// notification with the given name and arguments.
func CheckNotification(t testing.TB, res *state.AppExecResult, name string, items ...stackitem.Item) {
	var found []state.NotificationEvent
	for i := range res.Events {
		if res.Events[i].Name == name {
			found = append(found, res.Events[i])
		}
	}

	require.Len(t, found, 1, "notification %s", name)

	expected, err := stackitem.Serialize(stackitem.NewArray(items))
	require.NoError(t, err)
	actual, err := stackitem.Serialize(found[0].Item)
	require.NoError(t, err)
	require.Equal(t, expected, actual, "notification %s", name)
}

// Account returns notification argument of the account.
func Account(u util.Uint160) stackitem.Item {
	return common.AccountItem(u)
}
