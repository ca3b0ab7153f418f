package api

import (
	"github.com/bookcircleapp/bookcircle-server/internal/service"
)

// Services groups all business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Catalog  *service.CatalogService
	Lending  *service.LendingService
	Feedback *service.FeedbackService
}
