// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dalemusser/agenseek/internal/app/catalog"
	userstore "github.com/dalemusser/agenseek/internal/app/store/users"
	"github.com/dalemusser/agenseek/internal/app/system/timeouts"
	"github.com/dalemusser/agenseek/internal/app/system/timezones"
	"github.com/dalemusser/agenseek/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Shared state built once in Startup and read by BuildHandler and Shutdown.
var (
	stateMu  sync.Mutex
	guides   *catalog.Catalog
	stopBgFn func()
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{
		Short:  appCfg.TimeoutShort,
		Medium: appCfg.TimeoutMedium,
		Export: appCfg.TimeoutExport,
	})

	cat, err := catalog.Load()
	if err != nil {
		logger.Error("guide catalog failed to load", zap.Error(err))
		return err
	}
	stateMu.Lock()
	guides = cat
	stateMu.Unlock()
	logger.Info("guide catalog loaded",
		zap.Int("guides", cat.Len()),
		zap.Int("total_minutes", cat.TotalMinutes()))

	if err := timezones.Load(); err != nil {
		logger.Error("time zone list failed to load", zap.Error(err))
		return err
	}

	if appCfg.AdminEmail != "" {
		users := userstore.New(deps.MongoDatabase)
		if err := ensureAdmin(ctx, users, appCfg.AdminEmail, appCfg.AdminPassword, logger); err != nil {
			return err
		}
	}
	return nil
}

// ensureAdmin makes sure email belongs to an active admin. A missing account
// is created with password; an existing one is promoted and re-enabled and
// keeps its password.
func ensureAdmin(ctx context.Context, users *userstore.Store, email, password string, logger *zap.Logger) error {
	u, err := users.GetByEmail(ctx, email)
	if errors.Is(err, userstore.ErrNotFound) {
		created, err := users.Create(ctx, models.User{
			FullName: "Administrator",
			Email:    email,
			Role:     models.RoleAdmin,
		}, password)
		if err != nil {
			return fmt.Errorf("create admin %s: %w", email, err)
		}
		logger.Info("admin account created",
			zap.String("email", created.Email),
			zap.String("user_id", created.ID.Hex()))
		return nil
	}
	if err != nil {
		return fmt.Errorf("look up admin %s: %w", email, err)
	}

	if u.Role != models.RoleAdmin {
		if err := users.SetRole(ctx, u.ID, models.RoleAdmin); err != nil {
			return fmt.Errorf("promote admin %s: %w", email, err)
		}
		logger.Info("account promoted to admin",
			zap.String("email", u.Email),
			zap.String("previous_role", u.Role))
	}
	if u.Status != models.StatusActive {
		if err := users.SetStatus(ctx, u.ID, models.StatusActive); err != nil {
			return fmt.Errorf("activate admin %s: %w", email, err)
		}
		logger.Info("admin account re-enabled", zap.String("email", u.Email))
	}
	return nil
}

// loadedCatalog returns the catalog from Startup, loading it on demand when
// BuildHandler runs without Startup (tests).
func loadedCatalog() (*catalog.Catalog, error) {
	stateMu.Lock()
	defer stateMu.Unlock()
	if guides == nil {
		cat, err := catalog.Load()
		if err != nil {
			return nil, err
		}
		guides = cat
	}
	return guides, nil
}

func setStopBackground(stop func()) {
	stateMu.Lock()
	defer stateMu.Unlock()
	if stopBgFn != nil {
		stopBgFn()
	}
	stopBgFn = stop
}

func stopBackground() {
	stateMu.Lock()
	defer stateMu.Unlock()
	if stopBgFn != nil {
		stopBgFn()
		stopBgFn = nil
	}
}
