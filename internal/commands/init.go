// Package commands wires every command group into a registry.
package commands

import (
	"errors"

	"github.com/keshon/support-bot/internal/commands/community"
	builtin "github.com/keshon/support-bot/internal/commands/core"
	"github.com/keshon/support-bot/internal/commands/support"
	"github.com/keshon/support-bot/internal/config"
	"github.com/keshon/support-bot/internal/core"
)

// Register adds all commands to reg.
func Register(reg *core.Registry, cfg *config.Config) error {
	return errors.Join(
		builtin.Register(reg, cfg),
		support.Register(reg),
		community.Register(reg),
	)
}

// NewRegistry returns a registry holding every command.
func NewRegistry(cfg *config.Config) (*core.Registry, error) {
	reg := core.NewRegistry()
	if err := Register(reg, cfg); err != nil {
		return nil, err
	}
	return reg, nil
}
