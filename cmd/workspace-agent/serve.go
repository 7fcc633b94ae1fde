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
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"trpc.group/trpc-go/trpc-workspace-agent-go/internal/config"
	"trpc.group/trpc-go/trpc-workspace-agent-go/log"
	"trpc.group/trpc-go/trpc-workspace-agent-go/server/addon"
)

const shutdownTimeout = 30 * time.Second

func newServeCmd(flags *globalFlags) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the add-on HTTP endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.ListenAddr = addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address, overrides listen_addr")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config) error {
	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	handler, release, err := newAddonHandler(ctx, a)
	if err != nil {
		return err
	}
	defer release()

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Infof("add-on listening on %s", cfg.ListenAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Infof("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// newAddonHandler builds the add-on server. release waits for queued Chat
// turns.
func newAddonHandler(ctx context.Context, a *app) (http.Handler, func(), error) {
	cfg := a.cfg
	opts := []addon.Option{
		addon.WithRendererFactory(rendererFactory(cfg.Debug)),
		addon.WithBaseURL(cfg.BaseURL),
		addon.WithResetCommandID(cfg.ResetCommandID),
	}

	chatClient, err := newChatClient(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	if chatClient != nil {
		opts = append(opts, addon.WithChatService(chatClient), addon.WithDirectMessageFinder(chatClient))
	} else {
		log.Warnf("no chat credentials configured, Chat messages will be rejected")
	}

	release := func() {}
	if cfg.AsyncWorkers > 0 {
		pool, err := addon.NewPool(cfg.AsyncWorkers)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, addon.WithPool(pool))
		release = func() {
			if err := pool.ReleaseTimeout(shutdownTimeout); err != nil {
				log.Warnf("release turn pool: %v", err)
			}
		}
	}
	return addon.New(a.runner, a.store, opts...).Handler(), release, nil
}
