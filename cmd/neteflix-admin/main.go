package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/pbflix/neteflix-api/config"
	"github.com/pbflix/neteflix-api/internal/bootstrap"
	"github.com/pbflix/neteflix-api/internal/data"
	"github.com/pbflix/neteflix-api/internal/devseed"
	"github.com/pbflix/neteflix-api/internal/ports"
)

type commandFn func(ctx *commandContext, args []string) error

type command struct {
	name        string
	description string
	run         commandFn
}

type commandContext struct {
	Ctx    context.Context
	Logger *slog.Logger
	Config config.AppConfig
}

const defaultMigrationTimeout = 5 * time.Minute

func main() {
	logger := bootstrap.InitLogger()

	if len(os.Args) < 2 {
		if err := printUsage(); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when no command is provided
	}

	cmdName := os.Args[1]
	cmd, ok := commands()[cmdName]
	if !ok {
		if err := writef(os.Stderr, "unknown command %q\n\n", cmdName); err != nil {
			logger.Error("print unknown command message failed", "error", err)
		}
		if err := printUsage(); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when command is unknown
	}

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		logger.ErrorContext(context.Background(), "load config", "error", err)
		os.Exit(1) //nolint:forbidigo // CLI must signal configuration load failure to shell scripts
	}

	cmdCtx := &commandContext{
		Ctx:    context.Background(),
		Logger: logger,
		Config: cfg,
	}
	if runErr := cmd.run(cmdCtx, os.Args[2:]); runErr != nil {
		logger.ErrorContext(cmdCtx.Ctx, "command failed", "command", cmdName, "error", runErr)
		os.Exit(1) //nolint:forbidigo // CLI must propagate command execution failure to callers
	}
}

func commands() map[string]command {
	return map[string]command{
		"migrate": {
			name:        "migrate",
			description: "Apply pending database migrations",
			run:         runMigrate,
		},
		"db-reset": {
			name:        "db-reset",
			description: "Drop the database schema and re-run migrations",
			run:         runDBReset,
		},
		"docs-ls": {
			name:        "docs-ls",
			description: "List documents under a collection path",
			run:         runDocsList,
		},
		"seed": {
			name:        "seed",
			description: "Load demo wishlist and note documents for development",
			run:         runSeed,
		},
		"cache-flush": {
			name:        "cache-flush",
			description: "Drop the cached catalog home sections",
			run:         runCacheFlush,
		},
	}
}

func runMigrate(ctx *commandContext, _ []string) error {
	runCtx, cancel := context.WithTimeout(ctx.Ctx, defaultMigrationTimeout)
	defer cancel()

	db, err := connectDB(ctx.Logger, &ctx.Config)
	if err != nil {
		return err
	}
	defer closeQuietly(ctx.Logger, db)

	return bootstrap.RunMigrations(runCtx, db, ctx.Logger)
}

func runDBReset(ctx *commandContext, args []string) error {
	fs := flag.NewFlagSet("db-reset", flag.ContinueOnError)
	force := fs.Bool("force", false, "skip the confirmation prompt")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if !*force {
		return errors.New("db-reset is destructive; re-run with -force")
	}

	runCtx, cancel := context.WithTimeout(ctx.Ctx, defaultMigrationTimeout)
	defer cancel()

	db, err := connectDB(ctx.Logger, &ctx.Config)
	if err != nil {
		return err
	}
	defer closeQuietly(ctx.Logger, db)

	if _, err = db.ExecContext(runCtx, "DROP SCHEMA public CASCADE; CREATE SCHEMA public"); err != nil {
		return fmt.Errorf("drop schema: %w", err)
	}
	ctx.Logger.InfoContext(runCtx, "schema dropped")

	return bootstrap.RunMigrations(runCtx, db, ctx.Logger)
}

func runSeed(ctx *commandContext, _ []string) error {
	if !ctx.Config.IsDev {
		return errors.New("seed only runs in dev mode; set DEV=true")
	}

	db, err := connectDB(ctx.Logger, &ctx.Config)
	if err != nil {
		return err
	}
	defer closeQuietly(ctx.Logger, db)

	return devseed.Run(ctx.Ctx, db, ctx.Logger)
}

func runDocsList(ctx *commandContext, args []string) error {
	fs := flag.NewFlagSet("docs-ls", flag.ContinueOnError)
	path := fs.String("path", "notes", "collection path, e.g. notes or wishlists/<user>/items")
	orderBy := fs.String("order-by", "createdAt", "field to order by")
	if err := fs.Parse(args); err != nil {
		return err
	}

	db, err := connectDB(ctx.Logger, &ctx.Config)
	if err != nil {
		return err
	}
	defer closeQuietly(ctx.Logger, db)

	docs, err := data.NewDocumentStore(db).QueryOrdered(ctx.Ctx, *path, *orderBy, ports.Ascending)
	if err != nil {
		return fmt.Errorf("query %q: %w", *path, err)
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	if err = writef(tw, "REF\tCREATED\tFIELDS\n"); err != nil {
		return err
	}
	for _, doc := range docs {
		if err = writef(tw, "%s\t%s\t%v\n", doc.Ref, doc.CreatedAt.Format(time.RFC3339), doc.Fields); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func runCacheFlush(ctx *commandContext, _ []string) error {
	client, err := bootstrap.ConnectRedis(bootstrap.DatabaseConfig{
		RedisConfig: ctx.Config.Redis,
		Logger:      ctx.Logger,
	})
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer closeQuietly(ctx.Logger, client)

	deleted, err := client.Del(ctx.Ctx, "catalog:sections:v1").Result()
	if err != nil {
		return fmt.Errorf("flush section cache: %w", err)
	}
	ctx.Logger.InfoContext(ctx.Ctx, "section cache flushed", "deleted", deleted)
	return nil
}

func printUsage() error {
	cmds := commands()
	names := make([]string, 0, len(cmds))
	for name := range cmds {
		names = append(names, name)
	}
	sort.Strings(names)

	if err := writef(os.Stderr, "usage: neteflix-admin <command> [flags]\n\ncommands:\n"); err != nil {
		return err
	}
	for _, name := range names {
		if err := writef(os.Stderr, "  %-12s %s\n", name, cmds[name].description); err != nil {
			return err
		}
	}
	return nil
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}

func closeQuietly(logger *slog.Logger, c io.Closer) {
	if err := c.Close(); err != nil {
		logger.Error("close failed", "error", err)
	}
}
