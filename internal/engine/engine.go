// internal/engine/engine.go
package engine

import "qcrules/internal/policy"

// Config carries the policy table the engine evaluates against.
type Config struct {
	Policy policy.Table
}

// Engine is stateless apart from its configuration; every method is pure.
type Engine struct{ cfg Config }

func New(c Config) *Engine { return &Engine{cfg: c} }
