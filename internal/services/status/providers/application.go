package providers

import (
	"context"

	"bgg/internal/core/version"
	"bgg/internal/services/status/domain"
)

// Application reports build information; it is always OK
type Application struct {
	info func() version.BuildInfo
}

// NewApplication returns a provider over version.Info
func NewApplication() *Application { return &Application{info: version.Info} }

// Status satisfies domain.Provider
func (a *Application) Status(ctx context.Context) domain.Result {
	return contain(ctx, NameApplication, func(context.Context) domain.Result {
		bi := a.info()
		return domain.OK(map[string]any{
			"service":    bi.Service,
			"version":    bi.Version,
			"commit":     bi.Commit,
			"build_date": bi.Date,
			"go_version": bi.GoVersion,
			"os":         bi.OS,
			"arch":       bi.Arch,
		})
	})
}
