package providers

import (
	"github.com/samber/do/v2"

	"github.com/bookcircleapp/bookcircle-server/internal/guard"
	"github.com/bookcircleapp/bookcircle-server/internal/logger"
	"github.com/bookcircleapp/bookcircle-server/internal/media/covers"
	"github.com/bookcircleapp/bookcircle-server/internal/service"
)

// ProvideGuard provides the ownership and lending precondition guard.
func ProvideGuard(i do.Injector) (*guard.Guard, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)

	return guard.New(storeHandle.Store), nil
}

// ProvideCatalogService provides the book catalog service.
func ProvideCatalogService(i do.Injector) (*service.CatalogService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	g := do.MustInvoke[*guard.Guard](i)
	coverStorage := do.MustInvoke[*covers.Storage](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewCatalogService(storeHandle.Store, g, coverStorage, log.Logger), nil
}

// ProvideLendingService provides the lending workflow service.
func ProvideLendingService(i do.Injector) (*service.LendingService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	g := do.MustInvoke[*guard.Guard](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewLendingService(storeHandle.Store, g, log.Logger), nil
}

// ProvideFeedbackService provides the feedback service.
func ProvideFeedbackService(i do.Injector) (*service.FeedbackService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	g := do.MustInvoke[*guard.Guard](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewFeedbackService(storeHandle.Store, g, log.Logger), nil
}
