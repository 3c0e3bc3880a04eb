package commands

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"tableflip.dev/spool/pkg/app"
	"tableflip.dev/spool/pkg/logging"
	"tableflip.dev/spool/pkg/store"
)

type rootOptions struct {
	Path     string
	LogLevel string

	// logOut is where logs go, os.Stderr when nil.
	logOut io.Writer
}

func addRootArgs(cmd *cobra.Command, o *rootOptions) {
	cmd.PersistentFlags().StringVar(&o.Path, "path", "",
		"Inventory file to use instead of the configured one.")
	cmd.PersistentFlags().StringVar(&o.LogLevel, "log-level", "",
		"Log level: debug, info, warn, error or off.")
}

// session is the configured inventory a command works on.
type session struct {
	Config  *store.FileConfig
	Store   *store.Store
	Service *app.Service
	Log     zerolog.Logger
}

// open loads the configuration, applies the root flags and reads the
// inventory. A corrupt data file starts the inventory empty, the same way a
// missing one does.
func (o *rootOptions) open(ctx context.Context) (*session, error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, err
	}
	if o.Path != "" {
		if cfg.Path, err = store.ExpandPath(o.Path); err != nil {
			return nil, err
		}
	}
	if o.LogLevel != "" {
		cfg.Level = o.LogLevel
	}

	out := o.logOut
	if out == nil {
		out = os.Stderr
	}
	log := logging.To(out, cfg.Level)
	st, err := store.Load(cfg, store.WithLogger(logging.Component(log, "store")))
	if err != nil {
		return nil, err
	}
	svc := &app.Service{
		Persistence: st,
		Log:         logging.Component(log, "app"),
	}
	// Service.Load logs a corrupt file itself.
	if err := svc.Load(ctx); err != nil && !errors.Is(err, store.ErrCorrupt) {
		return nil, err
	}
	log.Debug().Str("path", st.Path()).Str("config", cfg.Source).Msg("inventory loaded")
	return &session{Config: cfg, Store: st, Service: svc, Log: log}, nil
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
