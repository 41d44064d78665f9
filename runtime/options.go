package runtime

import (
	"github.com/sirupsen/logrus"

	"github.com/evlang/evlang/hostctx"
)

// Option configures a VM at construction time, mirroring the store
// package's StorageSettings functional-options pattern (store/settings.go).
type Option func(*VM)

// WithContext installs the Context consulted by Resolve and Apply. The
// default is hostctx.Empty{}.
func WithContext(ctx hostctx.Context) Option {
	return func(vm *VM) { vm.ctx = ctx }
}

// WithLogger installs a logrus logger for per-opcode trace output. The
// default is a logrus.New() logger at InfoLevel (trace lines are silent
// unless the caller raises the level).
func WithLogger(log *logrus.Logger) Option {
	return func(vm *VM) { vm.log = log }
}
