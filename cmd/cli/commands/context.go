package commands

import (
	"context"

	"go.uber.org/zap"

	"github.com/misterkoko92/asf-benev/internal/config"
	"github.com/misterkoko92/asf-benev/pkg/postgres"
)

// AppContext holds the application dependencies shared across all commands.
// Fields are populated before any command runs; the Google clients are
// built on demand by the commands that need them.
type AppContext struct {
	Cfg      *config.Config
	Database *postgres.DB
	Logger   *zap.Logger
	Ctx      context.Context
}
