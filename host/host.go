/*
Package host implements the execution environment ledger contracts run in.

Environment serializes invocations: each one gets a Context with the caller
identity, a storage scope of the invoked contract layered over the persistent
store and a notification log. A successful invocation persists the layer and
publishes the collected notifications, a failed one drops both, so no partial
state of a failed invocation is ever visible.
*/
package host

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/nspcc-dev/ledger-contract/common"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/core/storage"
	"github.com/nspcc-dev/neo-go/pkg/crypto/hash"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/trigger"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// storagePrefix is the first byte of every contract storage key in the
// underlying store, the rest of the scope is the contract script hash.
const storagePrefix = 0x70

// Environment runs contract invocations over a persistent store.
// Environment must be constructed with New.
type Environment struct {
	mu sync.Mutex

	store   storage.Store
	log     *zap.Logger
	metrics *metrics
}

// Option configures Environment.
type Option func(*Environment)

// WithLogger sets the logger. Invocations are logged at debug level, faults
// at info level. Defaults to zap.NewNop.
func WithLogger(l *zap.Logger) Option {
	return func(e *Environment) {
		e.log = l
	}
}

// WithRegisterer registers invocation metrics in r.
func WithRegisterer(r prometheus.Registerer) Option {
	return func(e *Environment) {
		e.metrics.register(r)
	}
}

// New returns Environment working on top of the given store. The store is
// owned by the Environment from now on and is closed by Close.
func New(store storage.Store, opts ...Option) *Environment {
	e := &Environment{
		store:   store,
		log:     zap.NewNop(),
		metrics: newMetrics(),
	}

	for i := range opts {
		opts[i](e)
	}

	return e
}

// Close closes the underlying store.
func (e *Environment) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.store.Close()
}

// Invoke runs f as a single invocation of the named method of the contract on
// behalf of the caller. The caller identity is trusted as is.
//
// The result is HALT if f returns nil: storage changes are persisted and the
// notifications emitted by f are returned in the result. Otherwise (including
// panics inside f) the result is FAULT with the error text as the fault
// exception, storage is untouched and no notifications are returned.
func (e *Environment) Invoke(contract, caller util.Uint160, method string, f func(ic *Context) error) *state.AppExecResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	id := uuid.New()
	log := e.log.With(
		zap.Stringer("invocation", id),
		zap.String("contract", contract.StringLE()),
		zap.String("method", method),
		zap.String("caller", caller.StringLE()),
	)

	layer := storage.NewMemCachedStore(e.store)
	ic := &Context{
		writable: writable{
			scoped: scoped{kv: layer, scope: scope(contract)},
			layer:  layer,
		},
		hash:   contract,
		caller: caller,
		log:    log,
	}

	res := &state.AppExecResult{
		Container: hash.Sha256(id[:]),
		Execution: state.Execution{
			Trigger: trigger.Application,
		},
	}

	err := run(ic, f)
	if err == nil {
		_, err = layer.Persist()
		if err != nil {
			err = fmt.Errorf("persist storage changes: %w", err)
		}
	}

	if err != nil {
		res.VMState = vmstate.Fault
		res.FaultException = err.Error()
		e.metrics.observe(contract, method, res.VMState)
		log.Info("invocation failed", zap.Error(err))
		return res
	}

	res.VMState = vmstate.Halt
	res.Events = ic.events
	e.metrics.observe(contract, method, res.VMState)
	log.Debug("invocation succeeded", zap.Int("notifications", len(ic.events)))

	return res
}

// ApplicationLog wraps the invocation result into the form RPC nodes return
// for transactions, so that notifications can be parsed with the generated
// event bindings.
func ApplicationLog(res *state.AppExecResult) *result.ApplicationLog {
	return &result.ApplicationLog{
		Container:     res.Container,
		IsTransaction: true,
		Executions:    []state.Execution{res.Execution},
	}
}

func run(ic *Context, f func(*Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if rErr, ok := r.(error); ok {
				err = fmt.Errorf("panic: %w", rErr)
				return
			}
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	return f(ic)
}

// View returns read-only access to the persisted storage of the contract.
func (e *Environment) View(contract util.Uint160) common.Reader {
	return scoped{
		kv:    e.store,
		scope: scope(contract),
	}
}

// Load writes raw storage items of the contract bypassing any contract logic,
// it is used to restore dumped state. Items put by load are persisted only if
// load returns nil.
func (e *Environment) Load(contract util.Uint160, load func(s common.Storage) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	layer := storage.NewMemCachedStore(e.store)

	err := load(&writable{
		scoped: scoped{kv: layer, scope: scope(contract)},
		layer:  layer,
	})
	if err != nil {
		return err
	}

	_, err = layer.Persist()
	if err != nil {
		return fmt.Errorf("persist loaded items: %w", err)
	}

	return nil
}

func scope(contract util.Uint160) []byte {
	return append([]byte{storagePrefix}, contract.BytesBE()...)
}

// kv is implemented by both storage.Store and storage.MemCachedStore.
type kv interface {
	Get([]byte) ([]byte, error)
	Seek(storage.SeekRange, func(k, v []byte) bool)
}

// scoped provides common.Reader within single contract scope.
type scoped struct {
	kv    kv
	scope []byte
}

func (s scoped) key(k []byte) []byte {
	return append(bytes.Clone(s.scope), k...)
}

func (s scoped) Get(key []byte) []byte {
	v, err := s.kv.Get(s.key(key))
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return nil
		}
		panic(fmt.Errorf("read storage item: %w", err))
	}

	return v
}

func (s scoped) Find(prefix []byte, f func(key, value []byte) bool) {
	s.kv.Seek(storage.SeekRange{Prefix: s.key(prefix)}, func(k, v []byte) bool {
		return f(bytes.TrimPrefix(k, s.scope), v)
	})
}

// writable extends scoped with writes into the invocation layer.
type writable struct {
	scoped
	layer *storage.MemCachedStore
}

func (w *writable) Put(key, value []byte) {
	w.layer.Put(w.key(key), bytes.Clone(value))
}

func (w *writable) Delete(key []byte) {
	w.layer.Delete(w.key(key))
}
