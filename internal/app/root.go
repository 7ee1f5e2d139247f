// Package app assembles the cobra command tree and the runtime behind it.
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/injhive/injhive/internal/actions"
	"github.com/injhive/injhive/internal/agent"
	"github.com/injhive/injhive/internal/config"
	apierr "github.com/injhive/injhive/internal/errors"
	"github.com/injhive/injhive/internal/out"
	"github.com/injhive/injhive/internal/schema"
	"github.com/injhive/injhive/internal/version"
)

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	flags := &config.GlobalFlags{Retries: -1}

	root := &cobra.Command{
		Use:           version.CLIName,
		Short:         "Conversational agent for the Injective blockchain",
		Long:          "injhive answers questions about Injective (prices, TVL, balances, explorer data) and executes transfers and Helix swaps from natural language.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&flags.ConfigPath, "config", "", "path to config.yaml")
	pf.StringVar(&flags.Network, "network", "", "injective network (mainnet, testnet, devnet, local)")
	pf.BoolVar(&flags.JSON, "json", false, "print the JSON envelope")
	pf.BoolVar(&flags.Plain, "plain", false, "print the conversational reply")
	pf.StringVar(&flags.Timeout, "timeout", "", "per-request timeout, e.g. 10s")
	pf.IntVar(&flags.Retries, "retries", -1, "transient-error retries per request")
	pf.BoolVar(&flags.NoCache, "no-cache", false, "disable response caching")
	pf.StringVar(&flags.LogLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.StringVar(&flags.LogFormat, "log-format", "", "log format (console, json)")
	pf.StringVar(&flags.EnableActions, "enable-actions", "", "comma-separated action allowlist")
	pf.BoolVar(&flags.Simulate, "simulate", false, "simulate chain writes instead of broadcasting")
	pf.StringVar(&flags.Select, "select", "", "select result fields (comma-separated)")
	pf.BoolVar(&flags.ResultsOnly, "results-only", false, "output only the result payload")
	pf.BoolVar(&flags.Strict, "strict", false, "fail on estimated or partial results")

	root.AddCommand(newAskCmd(flags))
	root.AddCommand(newServeCmd(flags))
	root.AddCommand(newActionsCmd())
	root.AddCommand(newVersionCmd())
	root.AddCommand(actionCommands(flags)...)
	root.AddCommand(newSchemaCmd(root))

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return apierr.ExitCode(err)
	}
	return 0
}

func newAskCmd(flags *config.GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <message>",
		Short: "Ask the agent one question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runText(cmd, flags, strings.Join(args, " "))
		},
	}
}

// runText resolves settings, dispatches one message and renders the
// result. Every question-shaped command funnels through here.
func runText(cmd *cobra.Command, flags *config.GlobalFlags, text string) error {
	settings, err := config.Load(*flags)
	if err != nil {
		return apierr.Wrap(apierr.CodeUsage, "load configuration", err)
	}
	rt, err := buildRuntime(settings)
	if err != nil {
		return err
	}
	defer rt.close()

	res := rt.registry.Dispatch(cmd.Context(), rt.deps, text)
	if err := out.Render(cmd.OutOrStdout(), res, settings); err != nil {
		return err
	}
	if !res.Response.Success {
		return apierr.New(tagToCode(res.Response.Error.Code), res.Response.Error.Message)
	}
	if settings.Strict && len(res.Response.Warnings) > 0 {
		return apierr.New(apierr.CodePartialStrict, "estimated or partial results in strict mode")
	}
	return nil
}

func newServeCmd(flags *config.GlobalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the agent as an HTTP and websocket service",
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := config.Load(*flags)
			if err != nil {
				return apierr.Wrap(apierr.CodeUsage, "load configuration", err)
			}
			rt, err := buildRuntime(settings)
			if err != nil {
				return err
			}
			defer rt.close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serveAgent(ctx, rt, settings.Listen)
		},
	}
	cmd.Flags().StringVar(&flags.Listen, "listen", "", "listen address, e.g. :8085")
	return cmd
}

func newActionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "actions",
		Short: "List the actions the agent understands",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := buildRuntime(config.Settings{LogLevel: "error", OutputMode: "plain"})
			if err != nil {
				return err
			}
			defer rt.close()
			for _, a := range rt.registry.Actions() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-24s %s\n", a.Name, a.Description)
				if len(a.Examples) > 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "%-24s e.g. %q\n", "", a.Examples[0])
				}
			}
			return nil
		},
	}
}

func newSchemaCmd(root *cobra.Command) *cobra.Command {
	return &cobra.Command{
		Use:   "schema [command path]",
		Short: "Describe the command tree and actions as JSON",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			surface, err := schema.Build(root, actions.NewRegistry(), strings.Join(args, " "))
			if err != nil {
				return apierr.Wrap(apierr.CodeUsage, "build schema", err)
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(surface)
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", version.CLIName, version.Long())
		},
	}
}

// tagToCode maps an envelope tag back to its numeric code for the exit
// status.
func tagToCode(tag string) apierr.Code {
	for _, c := range []apierr.Code{
		apierr.CodeMissingParameter, apierr.CodeInvalidParameter,
		apierr.CodeProtocolNotFound, apierr.CodeDataNotAvailable,
		apierr.CodeAPIError, apierr.CodeAuth, apierr.CodeRateLimited,
		apierr.CodeBlocked, apierr.CodeUsage,
	} {
		if c.Tag() == tag {
			return c
		}
	}
	return apierr.CodeInternal
}

func serveAgent(ctx context.Context, rt *runtime, addr string) error {
	srv := agent.NewServer(rt.registry, rt.deps, rt.log)
	return srv.ListenAndServe(ctx, addr)
}
