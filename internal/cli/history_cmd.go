package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var clearRemote bool

func init() {
	historyClearCmd.Flags().BoolVar(&clearRemote, "remote", false, "also clear the server-side history")
	historyCmd.AddCommand(historyListCmd, historyShowCmd, historyClearCmd, historySyncCmd)
	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse past evaluations",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the most recent evaluations, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withHistory(func(h *localHistory) error {
			items, err := h.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no history yet")
				return nil
			}
			th := newTheme()
			for _, item := range items {
				fmt.Fprintln(cmd.OutOrStdout(), historyLine(th, item))
			}
			return nil
		})
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one evaluation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withHistory(func(h *localHistory) error {
			item, err := h.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), renderResult(newTheme(), item))
			return nil
		})
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the local history",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if clearRemote {
			if err := newClient().ClearHistory(ctx); err != nil {
				return err
			}
		}
		return withHistory(func(h *localHistory) error { return h.Clear(ctx) })
	},
}

var historySyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Replace the local history with the server's",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		items, err := newClient().History(ctx)
		if err != nil {
			return err
		}
		if err := withHistory(func(h *localHistory) error { return h.Replace(ctx, items) }); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "synced %d evaluations\n", len(items))
		return nil
	},
}
