// Package schema describes the command tree and the action registry in
// a machine-readable form so agent frontends can discover the surface.
package schema

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/injhive/injhive/internal/actions"
)

type CommandSchema struct {
	Path        string          `json:"path"`
	Use         string          `json:"use"`
	Short       string          `json:"short"`
	Aliases     []string        `json:"aliases,omitempty"`
	Flags       []FlagSchema    `json:"flags,omitempty"`
	Subcommands []CommandSchema `json:"subcommands,omitempty"`
}

type FlagSchema struct {
	Name      string `json:"name"`
	Shorthand string `json:"shorthand,omitempty"`
	Type      string `json:"type"`
	Usage     string `json:"usage"`
	Default   string `json:"default,omitempty"`
}

// ActionSchema is the discovery record of one registered action.
type ActionSchema struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Similes     []string `json:"similes,omitempty"`
	Examples    []string `json:"examples,omitempty"`
}

// Surface is the full description of the agent: CLI commands plus the
// natural-language actions behind them.
type Surface struct {
	Command CommandSchema  `json:"command"`
	Actions []ActionSchema `json:"actions"`
}

// Build serializes the command at commandPath (the whole tree when
// empty) together with the action registry.
func Build(root *cobra.Command, registry *actions.Registry, commandPath string) (Surface, error) {
	cmd := root
	if strings.TrimSpace(commandPath) != "" {
		for _, part := range strings.Fields(commandPath) {
			found := false
			for _, c := range cmd.Commands() {
				if c.Name() == part || contains(c.Aliases, part) {
					cmd = c
					found = true
					break
				}
			}
			if !found {
				return Surface{}, fmt.Errorf("command not found: %s", commandPath)
			}
		}
	}
	out := Surface{Command: serialize(cmd)}
	for _, a := range registry.Actions() {
		out.Actions = append(out.Actions, ActionSchema{
			Name:        a.Name,
			Description: a.Description,
			Similes:     a.Similes,
			Examples:    a.Examples,
		})
	}
	return out, nil
}

func serialize(cmd *cobra.Command) CommandSchema {
	s := CommandSchema{
		Path:    strings.TrimSpace(cmd.CommandPath()),
		Use:     cmd.Use,
		Short:   cmd.Short,
		Aliases: cmd.Aliases,
		Flags:   collectFlags(cmd),
	}
	for _, sub := range cmd.Commands() {
		if sub.Hidden {
			continue
		}
		s.Subcommands = append(s.Subcommands, serialize(sub))
	}
	return s
}

func collectFlags(cmd *cobra.Command) []FlagSchema {
	items := []FlagSchema{}
	cmd.NonInheritedFlags().VisitAll(func(f *pflag.Flag) {
		items = append(items, FlagSchema{
			Name:      f.Name,
			Shorthand: f.Shorthand,
			Type:      f.Value.Type(),
			Usage:     f.Usage,
			Default:   f.DefValue,
		})
	})
	return items
}

func contains(items []string, target string) bool {
	for _, item := range items {
		if item == target {
			return true
		}
	}
	return false
}
