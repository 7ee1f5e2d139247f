package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/injhive/injhive/internal/config"
)

// actionCommands exposes each agent action as a direct subcommand.
// The commands phrase the request the way a user would and funnel it
// through the same dispatch path as ask, so matching, policy and
// rendering stay identical.
func actionCommands(flags *config.GlobalFlags) []*cobra.Command {
	price := &cobra.Command{
		Use:   "price <token>",
		Short: "Current USD price of a token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runText(cmd, flags, fmt.Sprintf("price of %s", args[0]))
		},
	}

	tvl := &cobra.Command{
		Use:   "tvl [protocol|global]",
		Short: "Total value locked for Injective, one protocol, or all chains",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case len(args) == 0:
				return runText(cmd, flags, "injective tvl")
			case args[0] == "global":
				return runText(cmd, flags, "global tvl")
			default:
				return runText(cmd, flags, fmt.Sprintf("tvl of %s", args[0]))
			}
		},
	}

	yields := &cobra.Command{
		Use:   "yields",
		Short: "Yield opportunities on Injective",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runText(cmd, flags, "best yields on injective")
		},
	}

	var balanceToken string
	balance := &cobra.Command{
		Use:   "balance [address]",
		Short: "Token balances of an address, or the configured wallet",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := "balance"
			if balanceToken != "" {
				text = balanceToken + " balance"
			}
			if len(args) == 1 {
				text += " of " + args[0]
			}
			return runText(cmd, flags, text)
		},
	}
	balance.Flags().StringVar(&balanceToken, "token", "", "limit to one token symbol")

	portfolio := &cobra.Command{
		Use:   "portfolio [address]",
		Short: "USD-valued portfolio of an address, or the configured wallet",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := "portfolio"
			if len(args) == 1 {
				text += " of " + args[0]
			}
			return runText(cmd, flags, text)
		},
	}

	walletInfo := &cobra.Command{
		Use:   "wallet <address>",
		Short: "Explorer view of an address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runText(cmd, flags, fmt.Sprintf("wallet info for %s", args[0]))
		},
	}

	stats := &cobra.Command{
		Use:   "stats",
		Short: "Network activity snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runText(cmd, flags, "network stats")
		},
	}

	blocks := &cobra.Command{
		Use:   "blocks",
		Short: "Latest blocks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runText(cmd, flags, "latest blocks")
		},
	}

	txs := &cobra.Command{
		Use:   "txs",
		Short: "Latest transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runText(cmd, flags, "latest transactions")
		},
	}

	transfer := &cobra.Command{
		Use:   "transfer <amount> <token> <address>",
		Short: "Send tokens to an address",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runText(cmd, flags, fmt.Sprintf("send %s %s to %s", args[0], args[1], args[2]))
		},
	}

	var preview bool
	swap := &cobra.Command{
		Use:   "swap <amount> <from> <to>",
		Short: "Swap tokens on Helix",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := fmt.Sprintf("swap %s %s for %s", args[0], args[1], args[2])
			if preview {
				text = "simulate " + text
			}
			return runText(cmd, flags, text)
		},
	}
	swap.Flags().BoolVar(&preview, "preview", false, "plan the route without placing orders")

	return []*cobra.Command{price, tvl, yields, balance, portfolio, walletInfo, stats, blocks, txs, transfer, swap}
}
