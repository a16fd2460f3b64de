package dashboard

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dcastano/brandpulse-backend/api/middleware"
	"github.com/dcastano/brandpulse-backend/api/responses"
	"github.com/dcastano/brandpulse-backend/api/validators"
	"github.com/dcastano/brandpulse-backend/internal/insights"
	pkgerrors "github.com/dcastano/brandpulse-backend/pkg/errors"
	"github.com/dcastano/brandpulse-backend/pkg/enums"
	"github.com/dcastano/brandpulse-backend/pkg/logger"
)

const maxLeaderboardLimit = 100

// Overview serves the landing payload: summary, trend, deltas, alerts, brief.
func Overview(service insights.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		result, err := service.Overview(ctx, middleware.BrandsFromContext(ctx), presetParam(r))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func Creators(service insights.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		limit, err := validators.ParseQueryInt(r, "limit", 0, 0, maxLeaderboardLimit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		managedOnly, err := validators.ParseQueryBool(r, "managed", false)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := service.CreatorLeaderboard(ctx, middleware.BrandsFromContext(ctx), presetParam(r), limit, managedOnly)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// CreatorDetail groups one creator across brands. Creator-role callers may
// only read their own record.
func CreatorDetail(service insights.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		name := strings.TrimSpace(chi.URLParam(r, "creatorName"))

		if middleware.RoleFromContext(ctx) == enums.DashboardRoleCreator.String() {
			own := middleware.CreatorNameFromContext(ctx)
			if own == "" || !strings.EqualFold(own, name) {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "creators may only view their own detail"))
				return
			}
		}

		result, err := service.CreatorDetail(ctx, middleware.BrandsFromContext(ctx), presetParam(r), name)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func Products(service insights.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		limit, err := validators.ParseQueryInt(r, "limit", 0, 0, maxLeaderboardLimit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := service.ProductLeaderboard(ctx, middleware.BrandsFromContext(ctx), presetParam(r), limit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func Videos(service insights.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		limit, err := validators.ParseQueryInt(r, "limit", 0, 0, maxLeaderboardLimit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := service.VideoLeaderboard(ctx, middleware.BrandsFromContext(ctx), presetParam(r), limit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// Trend serves only the daily series from the overview computation.
func Trend(service insights.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		overview, err := service.Overview(ctx, middleware.BrandsFromContext(ctx), presetParam(r))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"preset":     overview.Preset,
			"start_date": overview.StartDate,
			"end_date":   overview.EndDate,
			"trend":      overview.Trend,
		})
	}
}

func Alerts(service insights.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		overview, err := service.Overview(ctx, middleware.BrandsFromContext(ctx), presetParam(r))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"preset":     overview.Preset,
			"start_date": overview.StartDate,
			"end_date":   overview.EndDate,
			"alerts":     overview.Alerts,
		})
	}
}

func Brief(service insights.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		overview, err := service.Overview(ctx, middleware.BrandsFromContext(ctx), presetParam(r))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"preset":     overview.Preset,
			"start_date": overview.StartDate,
			"end_date":   overview.EndDate,
			"brief":      overview.Brief,
		})
	}
}

func presetParam(r *http.Request) string {
	return strings.TrimSpace(r.URL.Query().Get("preset"))
}
