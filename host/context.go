package host

import (
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"go.uber.org/zap"
)

// Context is the environment of a single invocation. It implements
// common.Storage over the invoked contract storage scope.
type Context struct {
	writable

	hash   util.Uint160
	caller util.Uint160
	events []state.NotificationEvent
	log    *zap.Logger
}

// Caller returns the authenticated identity the invocation is made on behalf
// of.
func (c *Context) Caller() util.Uint160 {
	return c.caller
}

// ExecutingScriptHash returns the script hash of the invoked contract.
func (c *Context) ExecutingScriptHash() util.Uint160 {
	return c.hash
}

// Notify appends a notification with the given name and arguments to the
// invocation log. Notifications become visible only if the invocation
// succeeds.
func (c *Context) Notify(name string, items ...stackitem.Item) {
	c.events = append(c.events, state.NotificationEvent{
		ScriptHash: c.hash,
		Name:       name,
		Item:       stackitem.NewArray(items),
	})
}

// Log writes a debug message of the invoked contract.
func (c *Context) Log(msg string, fields ...zap.Field) {
	c.log.Debug(msg, fields...)
}
