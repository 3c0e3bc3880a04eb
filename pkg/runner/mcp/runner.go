package mcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"tableflip.dev/spool/pkg/app"
)

// Runner serves the inventory to MCP clients over stdio.
type Runner struct {
	Service *app.Service
	Name    string
	Version string
	Log     zerolog.Logger

	// In and Out default to os.Stdin and os.Stdout.
	In  io.Reader
	Out io.Writer
}

// Do serves until ctx is done or the client disconnects.
func (r Runner) Do(ctx context.Context) error {
	if r.Service == nil {
		return errors.New("mcp runner requires an inventory")
	}
	srv := r.Server()

	in, out := r.In, r.Out
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	stdio := server.NewStdioServer(srv)
	stdio.SetErrorLogger(log.New(r.Log, "", 0))
	r.Log.Info().Str("transport", "stdio").Msg("serving mcp")
	err := stdio.Listen(ctx, in, out)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Server builds the MCP server with every tool and resource registered.
func (r Runner) Server() *server.MCPServer {
	name := r.Name
	if name == "" {
		name = "spool"
	}
	version := r.Version
	if version == "" {
		version = "dev"
	}

	srv := server.NewMCPServer(
		fmt.Sprintf("%s MCP", name),
		version,
		server.WithResourceCapabilities(false, false),
		server.WithToolCapabilities(false),
		server.WithInstructions("Track filament rolls: list stock, record usage per project, manage low-stock thresholds and read usage reports."),
		server.WithResourceRecovery(),
		server.WithRecovery(),
	)

	svc := NewService(r.Service)
	registerResources(srv, svc)
	registerTools(srv, svc)
	return srv
}
