package providers

import (
	"fmt"

	"github.com/samber/do/v2"

	"github.com/bookcircleapp/bookcircle-server/internal/config"
	"github.com/bookcircleapp/bookcircle-server/internal/logger"
	"github.com/bookcircleapp/bookcircle-server/internal/media/covers"
)

// ProvideCoverStorage provides the cover image storage.
func ProvideCoverStorage(i do.Injector) (*covers.Storage, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	storage, err := covers.NewStorage(cfg.Data.BasePath)
	if err != nil {
		return nil, fmt.Errorf("cover storage: %w", err)
	}

	log.Info("Cover storage initialized", "path", cfg.Data.BasePath)

	return storage, nil
}
