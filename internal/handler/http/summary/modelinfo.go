package summary

import (
	"net/http"

	"docsum/internal/handler/http/respond"
	"docsum/internal/infra/generation"
)

// ModelInfoHandler handles GET /model/info. Backends that expose model
// metadata return it in full; others report just the provider name.
type ModelInfoHandler struct{ Provider generation.Provider }

func (h ModelInfoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if describer, ok := h.Provider.(generation.ModelDescriber); ok {
		info, err := describer.ModelInfo(r.Context())
		if err != nil {
			respond.SafeError(w, http.StatusBadGateway, err)
			return
		}
		respond.JSON(w, http.StatusOK, info)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]string{"provider": h.Provider.Name()})
}
