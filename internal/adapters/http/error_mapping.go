package httpadapter

import (
	"net/http"

	"github.com/ymdk/docrenamer/internal/core/domain"
)

// mapErrorToHTTPStatus translates pipeline error kinds into transport
// status codes. Remote-analysis failures never reach this layer for batch
// requests; they degrade to per-file results instead.
func mapErrorToHTTPStatus(err error) int {
	switch {
	case domain.IsKind(err, domain.ErrValidation):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case domain.IsKind(err, domain.ErrConfiguration):
		return http.StatusInternalServerError
	case domain.IsKind(err, domain.ErrTimeout):
		return http.StatusGatewayTimeout
	case domain.IsKind(err, domain.ErrRemoteUpload), domain.IsKind(err, domain.ErrRemoteWorkflow):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
