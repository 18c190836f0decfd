// Package config defines the environment-driven tunables read once at
// process startup and threaded into the compiler and VM constructors.
package config

import "github.com/caarlos0/env/v6"

// Config holds the knobs a deployment can override without a rebuild.
type Config struct {
	// StackSize is the number of Value slots the VM's operand stack
	// reserves. It doubles as the ceiling on live local variables, since
	// locals occupy the bottom of the same stack.
	StackSize int `env:"SIMPL_STACK_SIZE" envDefault:"256"`

	// MaxLocals bounds how many locals may be declared in scope at once,
	// independent of StackSize, matching the one-byte slot operand lang/chunk
	// addresses locals with.
	MaxLocals int `env:"SIMPL_MAX_LOCALS" envDefault:"256"`

	// TraceExecution, when set, makes the VM disassemble each instruction to
	// stderr immediately before executing it.
	TraceExecution bool `env:"SIMPL_TRACE" envDefault:"false"`
}

// Load reads Config from the environment, applying the defaults above for
// any variable that isn't set.
func Load() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, err
	}
	return c, nil
}
