package migrate

import (
	"context"

	"gorm.io/gorm"

	"github.com/pawfinder/pawfinder-backend/pkg/logger"
)

// AutoRun applies pending migrations at startup. Intended for local
// development; production deploys run the migrate command explicitly.
func AutoRun(ctx context.Context, conn *gorm.DB, logg *logger.Logger) error {
	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	if err := Up(ctx, sqlDB); err != nil {
		return err
	}
	if logg != nil {
		logg.Info(ctx, "database migrations applied")
	}
	return nil
}
