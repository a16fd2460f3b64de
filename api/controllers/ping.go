package controllers

import (
	"net/http"

	"github.com/dcastano/brandpulse-backend/api/middleware"
	"github.com/dcastano/brandpulse-backend/api/responses"
)

func PublicPing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"scope": "public", "status": "ok"})
	}
}

func PrivatePing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := map[string]any{"scope": "private", "status": "ok"}
		if brands := middleware.BrandsFromContext(r.Context()); len(brands) > 0 {
			payload["brands"] = brands
		}
		responses.WriteSuccess(w, payload)
	}
}
