package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/vinayprograms/resumerag/matcher"
	"github.com/vinayprograms/resumerag/server"
	"github.com/vinayprograms/resumerag/shutdown"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP service",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	f := serveCmd.Flags()
	f.String("listen", "", "address to listen on (default :8000)")
	f.String("provider", "", "embedding provider: openai, google, ollama or static")
	f.String("model", "", "embedding model")
	f.String("base-url", "", "provider endpoint override")
	f.Int("concurrency", 0, "files extracted and embedded in parallel per batch")
	f.Int("rate-limit", 0, "provider calls per minute, 0 for unlimited")

	bindFlag(serveCmd, "listen", "listen")
	bindFlag(serveCmd, "provider", "provider")
	bindFlag(serveCmd, "model", "model")
	bindFlag(serveCmd, "base_url", "base-url")
	bindFlag(serveCmd, "concurrency", "concurrency")
	bindFlag(serveCmd, "rate_limit", "rate-limit")
}

func runServe(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	creds, err := loadCredentials(cfg)
	if err != nil {
		return err
	}
	prov, err := buildProvider(ctx, cfg, creds)
	if err != nil {
		return err
	}

	svc, err := matcher.New(prov.provider,
		matcher.WithConcurrency(cfg.Concurrency),
		matcher.WithLogger(logger),
	)
	if err != nil {
		prov.Close()
		return err
	}

	srv := server.New(svc, server.Config{
		RequestTimeout: cfg.RequestTimeout,
		MaxUploadBytes: cfg.MaxUploadBytes,
		DefaultTopK:    cfg.DefaultTopK,
		Release:        true,
	}, logger)

	coord := shutdown.NewCoordinator(shutdown.Config{
		Timeout:         cfg.RequestTimeout + 5*time.Second,
		ContinueOnError: true,
		Logger:          logger,
	})
	coord.RegisterFunc("http", shutdown.PhaseListener, srv.Shutdown)
	coord.RegisterFunc("catalog", shutdown.PhaseResources, func(context.Context) error { return svc.Close() })
	coord.RegisterFunc("provider", shutdown.PhaseResources, func(context.Context) error { return prov.Close() })
	coord.HandleSignals()

	logger.Info("starting", map[string]interface{}{
		"provider":    cfg.Provider,
		"concurrency": cfg.Concurrency,
		"rate_limit":  cfg.RateLimit,
	})

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe(cfg.Listen) }()

	select {
	case err := <-errc:
		if err != nil {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			coord.Shutdown(sctx)
			return err
		}
		<-coord.Done()
	case <-coord.Done():
		<-errc
	}
	return nil
}
