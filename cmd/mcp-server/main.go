package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nmoran/redmine-mcp/internal/config"
	"github.com/nmoran/redmine-mcp/internal/logging"
	"github.com/nmoran/redmine-mcp/internal/mcp"
)

func main() {
	root := &cobra.Command{
		Use:   "mcp-server",
		Short: "Redmine MCP server",
		Long:  "Exposes a Redmine issue tracker's REST API as MCP tools over stdio or streamable HTTP.",
		RunE:  run,
	}

	root.PersistentFlags().String("transport", "stdio", "Transport to serve on: stdio or http")
	root.PersistentFlags().String("host", "0.0.0.0", "HTTP host (http transport only)")
	root.PersistentFlags().Int("port", 8000, "HTTP port (http transport only)")

	config.Init(root)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func validateTransport(transport string) error {
	switch transport {
	case "stdio", "http":
		return nil
	default:
		return fmt.Errorf("unknown transport %q, valid values are: stdio, http", transport)
	}
}

func run(cmd *cobra.Command, args []string) error {
	log := logging.New(logging.DefaultLogger(config.LogLevel())).WithName("mcp-server")

	cfg, err := mcp.DefaultConfig(log)
	if err != nil {
		log.Error(err, "configuration failed")
		return err
	}
	srv := mcp.New(cfg)

	transport, _ := cmd.Flags().GetString("transport")
	if err := validateTransport(transport); err != nil {
		log.Error(err, "invalid flag")
		return err
	}
	if transport == "stdio" {
		log.Info("serving on stdio")
		return srv.ServeStdio()
	}

	host, _ := cmd.Flags().GetString("host")
	port, _ := cmd.Flags().GetInt("port")
	addr := host + ":" + strconv.Itoa(port)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: srv.Handler,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("MCP server listening", "addr", addr, "path", config.EndpointPath())
		errCh <- httpServer.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(ctx)
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	}
}
