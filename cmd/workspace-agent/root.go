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
	"github.com/spf13/cobra"

	"trpc.group/trpc-go/trpc-workspace-agent-go/internal/config"
	"trpc.group/trpc-go/trpc-workspace-agent-go/log"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	debug      bool
}

// load reads the configuration and sets up logging.
func (f *globalFlags) load() (*config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, err
	}
	log.SetFormat(cfg.LogFormat)
	if f.debug {
		cfg.Debug = true
	}
	if cfg.Debug {
		log.SetLevel(log.LevelDebug)
	}
	return cfg, nil
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}
	root := &cobra.Command{
		Use:   "workspace-agent",
		Short: "Google Workspace add-on backed by a remote agent",
		Long: `workspace-agent forwards Google Chat and Workspace add-on messages to a
remote agent and renders its answers as Chat messages or add-on cards.

Configuration is read from the --config YAML file and from environment
variables such as AGENT_URL, SESSION_BACKEND and MAX_AI_AGENT_RETRIES.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Path to the YAML configuration file")
	root.PersistentFlags().BoolVar(&flags.debug, "debug", false, "Enable debug logging and debug-only rendering")

	root.AddCommand(
		newServeCmd(flags),
		newAskCmd(flags),
		newResetCmd(flags),
	)
	return root
}
