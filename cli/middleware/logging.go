package middleware

import (
	"context"
	"log/slog"

	"github.com/bassbeaver/gdispatch/cli/console"
	"github.com/bassbeaver/gdispatch/logger"
	"github.com/bassbeaver/gdispatch/pipeline"
)

// Logging reports every finished command, failures at error level.
type Logging struct {
	logger *slog.Logger
}

func (m *Logging) Process(ctx *ExitedContext, next pipeline.Handler[*ExitedContext, *console.Output]) *console.Output {
	exitCode := console.ExitRuntime
	if nil != ctx.Output {
		exitCode = ctx.Output.ExitCode()
	}

	level := slog.LevelInfo
	if !exitCode.IsSuccess() {
		level = slog.LevelError
	}

	m.logger.LogAttrs(
		context.Background(),
		level,
		"command finished",
		logger.Command(ctx.Input.Name),
		slog.Int("exit_code", int(exitCode)),
		logger.Elapsed(ctx.Started),
	)

	return next.Handle(ctx)
}

//--------------------

func NewLogging(log *slog.Logger) *Logging {
	return &Logging{logger: log}
}
