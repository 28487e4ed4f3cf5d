package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AnshRaj112/mindcare-backend/internal/models"
	"github.com/AnshRaj112/mindcare-backend/pkg/logger"
	"github.com/AnshRaj112/mindcare-backend/pkg/utils"
)

// MedicineCatalog is implemented by services.Catalog.
type MedicineCatalog interface {
	ByCategory(category, name string) ([]models.Medicine, error)
	General() ([]models.Medicine, error)
}

type DrugStoreHandler struct {
	catalog MedicineCatalog
	log     *logger.Logger
}

func NewDrugStoreHandler(catalog MedicineCatalog, log *logger.Logger) *DrugStoreHandler {
	return &DrugStoreHandler{catalog: catalog, log: log.With("handler", "drugstore")}
}

// ByCategory serves /medicines/{category}, optionally filtered by ?name=.
func (h *DrugStoreHandler) ByCategory(w http.ResponseWriter, r *http.Request) {
	medicines, err := h.catalog.ByCategory(chi.URLParam(r, "category"), r.URL.Query().Get("name"))
	if err != nil {
		respondServiceError(w, r, h.log, err, http.StatusInternalServerError)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, medicines)
}

func (h *DrugStoreHandler) All(w http.ResponseWriter, r *http.Request) {
	medicines, err := h.catalog.General()
	if err != nil {
		respondServiceError(w, r, h.log, err, http.StatusInternalServerError)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, medicines)
}
