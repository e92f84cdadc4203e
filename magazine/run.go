package magazine

import (
	"context"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/ByLCY/magor/state"
)

// Run is the "create" command.
func Run(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("create")

	if cmd.Args().Len() > 0 {
		log.Warn("Malformed command line, unexpected arguments", zap.Strings("ignoring", cmd.Args().Slice()))
	}

	p := Params{
		NoInkSaver:          cmd.Bool("no-ink-saver"),
		BlankPageAfterCover: cmd.Bool("blank-page-after-cover"),
		Backend:             cmd.String("backend"),
		DebugJSON:           cmd.String("debug-json"),
	}

	log.Info("Creating magazine", zap.String("input", env.Cfg.Input.Dir), zap.String("pages", env.Cfg.Output.PagesDir))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	_, err := Build(ctx, env.Cfg, log, p)
	return err
}
