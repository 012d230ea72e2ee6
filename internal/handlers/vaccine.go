package handlers

import (
	"net/http"

	"github.com/1997daniela/employeeVaccineInventory/internal/models"
	"github.com/1997daniela/employeeVaccineInventory/internal/repository"
)

// VaccineHandler serves /api/vaccines
type VaccineHandler struct {
	ops *crud[models.Vaccine]
}

// NewVaccineHandler creates a new VaccineHandler
func NewVaccineHandler(deps Deps) *VaccineHandler {
	repo := deps.Store.Vaccines()
	return &VaccineHandler{ops: &crud[models.Vaccine]{
		Deps:        deps,
		entity:      "vaccine",
		resource:    "vaccines",
		sortColumns: repository.VaccineSortColumns,
		list:        repo.List,
		get:         repo.Get,
		create:      repo.Create,
		update:      repo.Update,
		remove:      repo.Delete,
		id:          models.Vaccine.EntityID,
		validate:    func(v *models.Vaccine) error { return v.Validate() },
		merge:       (*models.Vaccine).Merge,
	}}
}

// List handles GET /api/vaccines
// @Summary List vaccination records
// @Tags vaccines
// @Produce json
// @Param page query int false "Zero-based page index"
// @Param size query int false "Page size"
// @Param sort query []string false "field,asc|desc" collectionFormat(multi)
// @Success 200 {array} models.Vaccine
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /api/vaccines [get]
func (h *VaccineHandler) List(w http.ResponseWriter, r *http.Request) {
	h.ops.handleList(w, r)
}

// Get handles GET /api/vaccines/{id}
// @Summary Get a vaccination record
// @Tags vaccines
// @Produce json
// @Param id path int true "Vaccine id"
// @Success 200 {object} models.Vaccine
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /api/vaccines/{id} [get]
func (h *VaccineHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.ops.handleGet(w, r)
}

// Create handles POST /api/vaccines
// @Summary Record a vaccination
// @Tags vaccines
// @Accept json
// @Produce json
// @Param payload body models.Vaccine true "Vaccine without id"
// @Success 201 {object} models.Vaccine
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /api/vaccines [post]
func (h *VaccineHandler) Create(w http.ResponseWriter, r *http.Request) {
	h.ops.handleCreate(w, r)
}

// Update handles PUT /api/vaccines/{id}
// @Summary Replace a vaccination record
// @Tags vaccines
// @Accept json
// @Produce json
// @Param id path int true "Vaccine id"
// @Param payload body models.Vaccine true "Full record"
// @Success 200 {object} models.Vaccine
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /api/vaccines/{id} [put]
func (h *VaccineHandler) Update(w http.ResponseWriter, r *http.Request) {
	h.ops.handleUpdate(w, r)
}

// PartialUpdate handles PATCH /api/vaccines/{id}
// @Summary Merge the given fields into a vaccination record
// @Tags vaccines
// @Accept json
// @Produce json
// @Param id path int true "Vaccine id"
// @Param payload body models.Vaccine true "Fields to change, id required"
// @Success 200 {object} models.Vaccine
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /api/vaccines/{id} [patch]
func (h *VaccineHandler) PartialUpdate(w http.ResponseWriter, r *http.Request) {
	h.ops.handlePartialUpdate(w, r)
}

// Delete handles DELETE /api/vaccines/{id}
// @Summary Delete a vaccination record
// @Tags vaccines
// @Produce json
// @Param id path int true "Vaccine id"
// @Success 200 {object} models.Vaccine
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /api/vaccines/{id} [delete]
func (h *VaccineHandler) Delete(w http.ResponseWriter, r *http.Request) {
	h.ops.handleDelete(w, r)
}
