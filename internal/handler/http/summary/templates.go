package summary

import (
	"net/http"

	"docsum/internal/config"
	"docsum/internal/handler/http/respond"
)

// TemplatesHandler handles GET /templates, listing the registered prompt
// templates by key.
type TemplatesHandler struct{ Registry *config.TemplateRegistry }

func (h TemplatesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	templates := h.Registry.List()

	dtos := make([]TemplateDTO, 0, len(templates))
	for _, tmpl := range templates {
		dtos = append(dtos, TemplateDTO{
			Key:         tmpl.Key,
			Name:        tmpl.Name,
			Description: tmpl.Description,
		})
	}

	respond.JSON(w, http.StatusOK, map[string][]TemplateDTO{"templates": dtos})
}
