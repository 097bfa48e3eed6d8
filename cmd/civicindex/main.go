// Command civicindex builds request indexes from a record source and
// answers relationship, proximity and priority queries from the shell.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/katalvlaran/civicindex/events"
	"github.com/katalvlaran/civicindex/index"
	"github.com/katalvlaran/civicindex/internal/config"
	"github.com/katalvlaran/civicindex/internal/logging"
	"github.com/katalvlaran/civicindex/request"
	"github.com/katalvlaran/civicindex/source"
	"github.com/katalvlaran/civicindex/source/sqlstore"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// app is the state shared by every subcommand of one invocation.
type app struct {
	v       *viper.Viper
	cfgPath string

	cfg *config.Config
	log *slog.Logger
	src source.Source

	// store is set for sources that accept writes.
	store   store
	closers []func() error
}

// store is the write side used by add and complete.
type store interface {
	Insert(ctx context.Context, r *request.Request) error
	SetStatus(ctx context.Context, id int64, status request.Status) error
}

// memoryStore adapts source.Memory to store.
type memoryStore struct{ m *source.Memory }

func (s memoryStore) Insert(_ context.Context, r *request.Request) error {
	stored, err := s.m.Add(*r)
	if err != nil {
		return err
	}
	*r = *stored
	return nil
}

func (s memoryStore) SetStatus(_ context.Context, id int64, status request.Status) error {
	return s.m.SetStatus(id, status)
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:   "civicindex",
		Short: "Index municipal service requests and discover related work",
		Long: `civicindex streams service requests from a record source (a YAML/JSON/TOML
fixture, SQLite or PostgreSQL) into ordered trees, a priority heap and an
affinity graph, then answers queries against them:

- user/users: per-owner indexes in submission order
- global/top: system-wide indexes and the most urgent open requests
- related:    MST neighbours of a request, ranked by affinity
- nearby:     shortest affinity distance to open requests
- infer:      priority tier and category from free text

Settings come from flags, CIVICINDEX_* environment variables and an optional
civicindex.yaml in the working directory.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgPath, "config", "", "config file (default ./civicindex.yaml if present)")
	pf.Bool("json", false, "output JSON")
	pf.String("source-kind", "", "record source: memory, file, sqlite or postgres")
	pf.String("source-file", "", "fixture file for --source-kind=file")
	pf.String("source-dsn", "", "sqlite path or postgres URL")
	pf.String("nats-url", "", "NATS server for event publishing (empty disables)")
	pf.String("log-level", "", "debug, info, warn or error")
	pf.String("log-format", "", "text or json")
	for key, flag := range map[string]string{
		"json":        "json",
		"source.kind": "source-kind",
		"source.file": "source-file",
		"source.dsn":  "source-dsn",
		"nats.url":    "nats-url",
		"log.level":   "log-level",
		"log.format":  "log-format",
	} {
		_ = a.v.BindPFlag(key, pf.Lookup(flag))
	}

	root.AddCommand(
		userCmd(a),
		usersCmd(a),
		globalCmd(a),
		topCmd(a),
		relatedCmd(a),
		nearbyCmd(a),
		inferCmd(a),
		addCmd(a),
		completeCmd(a),
		watchCmd(a),
	)
	return root
}

// setup loads configuration, builds the logger and opens the source.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.v, a.cfgPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	a.log, err = logging.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	if cmd.Annotations["source"] == "none" {
		return nil
	}
	return a.openSource()
}

func (a *app) openSource() error {
	switch a.cfg.Source.Kind {
	case config.SourceMemory:
		m := source.NewMemory()
		a.src, a.store = m, memoryStore{m}
	case config.SourceFile:
		a.src = source.File{Path: a.cfg.Source.File}
	case config.SourceSQLite, config.SourcePostgres:
		open := sqlstore.OpenSQLite
		if a.cfg.Source.Kind == config.SourcePostgres {
			open = sqlstore.OpenPostgres
		}
		s, err := open(a.cfg.Source.DSN)
		if err != nil {
			return err
		}
		a.src, a.store = s, s
		a.closers = append(a.closers, s.Close)
	default:
		return fmt.Errorf("%w: source.kind %q", config.ErrInvalidConfig, a.cfg.Source.Kind)
	}
	a.log.Debug("source opened", "kind", a.cfg.Source.Kind)
	return nil
}

func (a *app) close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}

// builder returns an index.Builder configured from the loaded settings.
func (a *app) builder() *index.Builder {
	af := a.cfg.Affinity
	return index.New(a.src,
		index.WithLogger(a.log),
		index.WithAffinity(index.Affinity{
			Base:     af.Base,
			Location: af.Location,
			Category: af.Category,
			Status:   af.Status,
			SameDay:  af.SameDay,
			Keyword:  af.Keyword,
		}),
		index.WithRelatedLimit(a.cfg.Related.Limit),
		index.WithConcurrency(a.cfg.Build.Concurrency),
	)
}

// publisher connects to NATS when configured. The caller closes it.
func (a *app) publisher() (events.Publisher, error) {
	return events.New(a.cfg.NATS.URL)
}

func (a *app) json() bool { return a.v.GetBool("json") }

// writable returns the store or an error naming the read-only source kind.
func (a *app) writable() (store, error) {
	if a.store == nil {
		return nil, fmt.Errorf("source kind %q is read-only", a.cfg.Source.Kind)
	}
	return a.store, nil
}

func parseStatuses(in []string) ([]request.Status, error) {
	var out []request.Status
	for _, raw := range in {
		for _, s := range strings.Split(raw, ",") {
			if strings.TrimSpace(s) == "" {
				continue
			}
			st, err := request.ParseStatus(s)
			if err != nil {
				return nil, err
			}
			out = append(out, st)
		}
	}
	return out, nil
}

// openStatuses are the states Related and top consider actionable.
var openStatuses = []request.Status{request.StatusSubmitted, request.StatusInProgress, request.StatusOnHold}

func writeLine(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format+"\n", args...)
}
