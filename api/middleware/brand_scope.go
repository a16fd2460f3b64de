package middleware

import (
	"net/http"
	"strings"

	"github.com/dcastano/brandpulse-backend/api/responses"
	"github.com/dcastano/brandpulse-backend/pkg/config"
	pkgerrors "github.com/dcastano/brandpulse-backend/pkg/errors"
	"github.com/dcastano/brandpulse-backend/pkg/enums"
	"github.com/dcastano/brandpulse-backend/pkg/logger"
)

// BrandScope resolves the brand list a request may read and stores it in the
// context. Admins see every configured brand; other roles see the
// intersection of their claim brands with the configuration. A `brands` query
// parameter narrows the scope; naming a brand outside it is forbidden.
func BrandScope(brands config.BrandsConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			configured := brands.Normalized()
			allowed := configured
			if RoleFromContext(ctx) != enums.DashboardRoleAdmin.String() {
				allowed = intersect(BrandsFromContext(ctx), configured)
			}
			if len(allowed) == 0 {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "no accessible brands"))
				return
			}

			if raw := strings.TrimSpace(r.URL.Query().Get("brands")); raw != "" {
				requested := splitBrandsParam(raw)
				narrowed := intersect(requested, allowed)
				if len(narrowed) != len(requested) {
					responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "brand outside accessible scope"))
					return
				}
				allowed = narrowed
			}

			next.ServeHTTP(w, r.WithContext(WithBrands(ctx, allowed)))
		})
	}
}

// intersect keeps reference order so downstream merges stay deterministic.
func intersect(requested, reference []string) []string {
	want := make(map[string]bool, len(requested))
	for _, b := range requested {
		want[b] = true
	}
	var out []string
	for _, b := range reference {
		if want[b] {
			out = append(out, b)
		}
	}
	return out
}

func splitBrandsParam(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
