package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newChannelsCommand(ctx *commandContext) *cobra.Command {
	channelsCmd := &cobra.Command{
		Use:   "channels",
		Short: "Manage the source channel allow-list",
	}

	channelsCmd.AddCommand(newChannelsAddCommand(ctx))
	channelsCmd.AddCommand(newChannelsRemoveCommand(ctx))
	channelsCmd.AddCommand(newChannelsListCommand(ctx))

	return channelsCmd
}

func parseChannelArg(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a channel id", arg)
	}
	if id >= 0 {
		return 0, fmt.Errorf("channel ids are negative, got %d", id)
	}
	return id, nil
}

func newChannelsAddCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add -- <channel-id>",
		Short: "Register a channel for ingestion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseChannelArg(args[0])
			if err != nil {
				return err
			}

			store, _, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			added, err := store.AddChannel(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("add channel: %w", err)
			}
			if !added {
				fmt.Fprintf(cmd.OutOrStdout(), "Channel %d is already registered.\n", id)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Channel %d registered.\n", id)
			return nil
		},
	}
}

func newChannelsRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rm -- <channel-id>",
		Short: "Remove a channel from the allow-list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseChannelArg(args[0])
			if err != nil {
				return err
			}

			store, _, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			removed, err := store.RemoveChannel(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("remove channel: %w", err)
			}
			if !removed {
				fmt.Fprintf(cmd.OutOrStdout(), "Channel %d is not registered.\n", id)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Channel %d removed.\n", id)
			return nil
		},
	}
}

func newChannelsListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered channels",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			channels, err := store.Channels(cmd.Context())
			if err != nil {
				return fmt.Errorf("list channels: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(channels) == 0 {
				fmt.Fprintln(out, "No channels registered.")
				return nil
			}
			rows := make([][]string, 0, len(channels))
			for _, id := range channels {
				rows = append(rows, []string{strconv.FormatInt(id, 10)})
			}
			fmt.Fprintln(out, renderTable([]string{"Channel ID"}, rows, []columnAlignment{alignRight}))
			return nil
		},
	}
}
