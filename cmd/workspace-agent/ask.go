//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"trpc.group/trpc-go/trpc-workspace-agent-go/runner"
	"trpc.group/trpc-go/trpc-workspace-agent-go/session"
	"trpc.group/trpc-go/trpc-workspace-agent-go/sink/console"
)

const defaultCLIUser = "users/cli"

func newAskCmd(flags *globalFlags) *cobra.Command {
	var user string
	cmd := &cobra.Command{
		Use:   "ask [flags] message...",
		Short: "Send one message to the agent and print the answer",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			a, err := newApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			sk := console.New(cmd.OutOrStdout(), rendererFactory(cfg.Debug)(false))
			res := a.runner.RunTurn(cmd.Context(), userName(user), strings.Join(args, " "), sk)
			return turnError(res)
		},
	}
	cmd.Flags().StringVarP(&user, "user", "u", defaultCLIUser, "Chat user the session belongs to")
	return cmd
}

func newResetCmd(flags *globalFlags) *cobra.Command {
	var user string
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete the agent session of a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			a, err := newApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.store.Delete(cmd.Context(), userName(user)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "session of %s reset\n", userName(user))
			return nil
		},
	}
	cmd.Flags().StringVarP(&user, "user", "u", defaultCLIUser, "Chat user the session belongs to")
	return cmd
}

// userName accepts both "123" and "users/123".
func userName(user string) string {
	if strings.HasPrefix(user, session.UsersPrefix) {
		return user
	}
	return session.UsersPrefix + user
}

// turnError turns an unsuccessful outcome into a command error.
func turnError(res runner.Result) error {
	switch res.Outcome {
	case runner.OutcomeResponded:
		return nil
	case runner.OutcomeNoResponse:
		return fmt.Errorf("no response from the agent after %d attempts", res.Attempts)
	default:
		return fmt.Errorf("turn failed: %w", res.Err)
	}
}
