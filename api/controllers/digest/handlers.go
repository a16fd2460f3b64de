package digest

import (
	"context"
	"net/http"

	"github.com/dcastano/brandpulse-backend/api/middleware"
	"github.com/dcastano/brandpulse-backend/api/responses"
	"github.com/dcastano/brandpulse-backend/api/validators"
	digestsvc "github.com/dcastano/brandpulse-backend/internal/digest"
	pkgerrors "github.com/dcastano/brandpulse-backend/pkg/errors"
	"github.com/dcastano/brandpulse-backend/pkg/logger"
)

type digestRequest struct {
	Preset string   `json:"preset" validate:"omitempty,oneof=yesterday last7 last14 last30 thisMonth lastMonth"`
	Brands []string `json:"brands" validate:"omitempty,dive,required"`
}

// scope applies the same narrowing rule as the query-param brand filter: an
// explicit list must stay inside the caller's resolved scope.
func (req digestRequest) scope(allowed []string) ([]string, bool) {
	if len(req.Brands) == 0 {
		return allowed, true
	}
	permitted := make(map[string]bool, len(allowed))
	for _, b := range allowed {
		permitted[b] = true
	}
	for _, b := range req.Brands {
		if !permitted[b] {
			return nil, false
		}
	}
	return req.Brands, true
}

func Preview(service digestsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return handle(service.Preview, logg)
}

func Publish(service digestsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return handle(service.Publish, logg)
}

func handle(op func(ctx context.Context, brands []string, preset string) (*digestsvc.Event, error), logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req digestRequest
		if r.ContentLength > 0 {
			if err := validators.DecodeJSONBody(r, &req); err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
		}

		brands, ok := req.scope(middleware.BrandsFromContext(ctx))
		if !ok {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "brand outside accessible scope"))
			return
		}

		event, err := op(ctx, brands, req.Preset)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, event)
	}
}
