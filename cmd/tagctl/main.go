// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command tagctl inspects translated tags attributes from the command line.
//
// It reads the same environment as cmd/api and prints JSON to stdout:
//
//	tagctl data products colors --ids 1,2 --lang de
//	tagctl filter-options products colors --used-only --count
//	tagctl search products colors "r*"
//	tagctl options tag_langcolumn --setting tag_table=color_i18n
//	tagctl migrate up
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/translatedtags/internal/attribute"
	"github.com/taibuivan/translatedtags/internal/attribute/options"
	"github.com/taibuivan/translatedtags/internal/attribute/translatedtags"
	"github.com/taibuivan/translatedtags/internal/metamodel"
	"github.com/taibuivan/translatedtags/internal/platform/config"
	"github.com/taibuivan/translatedtags/internal/platform/constants"
	"github.com/taibuivan/translatedtags/internal/platform/migration"
	pgstore "github.com/taibuivan/translatedtags/internal/platform/postgres"
	"github.com/taibuivan/translatedtags/internal/platform/validate"
)

type cli struct {
	Debug bool `help:"Enable debug logging on stderr."`

	Data          dataCmd          `cmd:"" help:"Print the values of items, completed from the fallback language."`
	FilterOptions filterOptionsCmd `cmd:"" name:"filter-options" help:"Print the filter options of an attribute."`
	Search        searchCmd        `cmd:"" help:"Print the items whose tags match a wildcard pattern."`
	Options       optionsCmd       `cmd:"" help:"Print the admin dropdown choices of an attribute setting."`
	Migrate       migrateCmd       `cmd:"" help:"Apply or roll back database migrations."`
}

// runtime is shared by every command.
type runtime struct {
	cfg    *config.Config
	logger *slog.Logger
}

// attributeArgs addresses one attribute of one metamodel.
type attributeArgs struct {
	Model     string `arg:"" help:"Metamodel name."`
	Attribute string `arg:"" help:"Attribute column name."`
	Lang      string `help:"Active language code (defaults to the fallback language)."`
}

type dataCmd struct {
	attributeArgs
	IDs []int64 `name:"ids" required:"" help:"Item ids."`
}

type filterOptionsCmd struct {
	attributeArgs
	IDs      []int64 `name:"ids" help:"Restrict to tags of these items."`
	UsedOnly bool    `name:"used-only" help:"Only tags assigned to at least one item."`
	Count    bool    `help:"Include usage counts."`
}

type searchCmd struct {
	attributeArgs
	Pattern   string   `arg:"" help:"Pattern where * matches any run and ? matches one character."`
	Languages []string `name:"in" help:"Search these languages instead of the active one."`
}

type optionsCmd struct {
	Property string            `arg:"" help:"Setting name, e.g. tag_langcolumn."`
	Setting  map[string]string `help:"Current form values (key=value)." mapsep:","`
}

type migrateCmd struct {
	Up   migrateUpCmd   `cmd:"" help:"Apply all pending migrations."`
	Down migrateDownCmd `cmd:"" help:"Roll back migrations."`
}

type migrateUpCmd struct{}

// maxRollbackSteps guards against rolling back the whole schema by accident.
const maxRollbackSteps = 10

type migrateDownCmd struct {
	Steps int `default:"1" help:"Number of migrations to roll back."`
}

func main() {
	var root cli
	ctx := kong.Parse(&root,
		kong.Name("tagctl"),
		kong.Description("Command line access to translated tags attributes."),
		kong.UsageOnError(),
	)

	level := slog.LevelWarn
	if root.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})).
		With(slog.String("app", constants.AppName))

	cfg, err := config.Load()
	ctx.FatalIfErrorf(err)

	ctx.BindTo(context.Background(), (*context.Context)(nil))
	ctx.FatalIfErrorf(ctx.Run(&runtime{cfg: cfg, logger: logger}))
}

// # Wiring

func (rt *runtime) pool(ctx context.Context) (*pgxpool.Pool, error) {
	return pgstore.NewPool(ctx, rt.cfg.DatabaseURL, rt.logger)
}

func (rt *runtime) resolve(ctx context.Context, args attributeArgs) (*translatedtags.Attribute, func(), error) {
	models, err := metamodel.LoadRegistry(rt.cfg.MetaModelsFile)
	if err != nil {
		return nil, nil, err
	}

	pool, err := rt.pool(ctx)
	if err != nil {
		return nil, nil, err
	}

	types, err := translatedtags.NewTypeRegistry(translatedtags.NewPostgresRepository(pool), rt.logger)
	if err != nil {
		pool.Close()
		return nil, nil, err
	}

	tags, err := translatedtags.NewResolver(models, types).Resolve(args.Model, args.Attribute, args.Lang)
	if err != nil {
		pool.Close()
		return nil, nil, err
	}
	return tags, pool.Close, nil
}

func printJSON(value any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(value); err != nil {
		return fmt.Errorf("tagctl: encode output: %w", err)
	}
	return nil
}

// # Commands

func (cmd *dataCmd) Run(ctx context.Context, rt *runtime) error {
	tags, release, err := rt.resolve(ctx, cmd.attributeArgs)
	if err != nil {
		return err
	}
	defer release()

	data, err := tags.DataFor(ctx, cmd.IDs)
	if err != nil {
		return err
	}
	return printJSON(data)
}

func (cmd *filterOptionsCmd) Run(ctx context.Context, rt *runtime) error {
	tags, release, err := rt.resolve(ctx, cmd.attributeArgs)
	if err != nil {
		return err
	}
	defer release()

	filterOptions, err := tags.FilterOptions(ctx, cmd.IDs, cmd.UsedOnly, cmd.Count)
	if err != nil {
		return err
	}
	return printJSON(filterOptions)
}

func (cmd *searchCmd) Run(ctx context.Context, rt *runtime) error {
	tags, release, err := rt.resolve(ctx, cmd.attributeArgs)
	if err != nil {
		return err
	}
	defer release()

	var ids []int64
	if len(cmd.Languages) > 0 {
		ids, err = tags.SearchForInLanguages(ctx, cmd.Pattern, cmd.Languages)
	} else {
		ids, err = tags.SearchFor(ctx, cmd.Pattern)
	}
	if err != nil {
		return err
	}
	return printJSON(ids)
}

func (cmd *optionsCmd) Run(ctx context.Context, rt *runtime) error {
	pool, err := rt.pool(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	dispatcher := options.NewDispatcher()
	options.NewSubscriber(options.NewPostgresCatalog(pool), rt.logger).RegisterEvents(dispatcher)

	choices, err := options.NewService(dispatcher).PropertyOptions(ctx,
		constants.AttributeDataDefinition,
		cmd.Property,
		attribute.Settings(cmd.Setting),
	)
	if err != nil {
		return err
	}
	return printJSON(choices)
}

func (cmd *migrateUpCmd) Run(rt *runtime) error {
	return migration.RunUp(rt.cfg.DatabaseURL, rt.cfg.MigrationPath, rt.logger)
}

func (cmd *migrateDownCmd) Run(rt *runtime) error {
	if err := (&validate.Validator{}).Range("steps", cmd.Steps, 1, maxRollbackSteps).Err(); err != nil {
		return err
	}
	return migration.RunDown(rt.cfg.DatabaseURL, rt.cfg.MigrationPath, cmd.Steps, rt.logger)
}
