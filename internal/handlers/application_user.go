package handlers

import (
	"net/http"

	"github.com/1997daniela/employeeVaccineInventory/internal/models"
	"github.com/1997daniela/employeeVaccineInventory/internal/repository"
)

// ApplicationUserHandler serves /api/application-users
type ApplicationUserHandler struct {
	ops *crud[models.ApplicationUser]
}

// NewApplicationUserHandler creates a new ApplicationUserHandler
func NewApplicationUserHandler(deps Deps) *ApplicationUserHandler {
	repo := deps.Store.ApplicationUsers()
	return &ApplicationUserHandler{ops: &crud[models.ApplicationUser]{
		Deps:        deps,
		entity:      "applicationUser",
		resource:    "application-users",
		sortColumns: repository.ApplicationUserSortColumns,
		dependents:  []string{"vaccines"},
		list:        repo.List,
		get:         repo.Get,
		create:      repo.Create,
		update:      repo.Update,
		remove:      repo.Delete,
		id:          models.ApplicationUser.EntityID,
		validate:    func(u *models.ApplicationUser) error { return u.Validate() },
		merge:       (*models.ApplicationUser).Merge,
	}}
}

// List handles GET /api/application-users
// @Summary List employee profiles
// @Tags application-users
// @Produce json
// @Param page query int false "Zero-based page index"
// @Param size query int false "Page size"
// @Param sort query []string false "field,asc|desc" collectionFormat(multi)
// @Success 200 {array} models.ApplicationUser
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /api/application-users [get]
func (h *ApplicationUserHandler) List(w http.ResponseWriter, r *http.Request) {
	h.ops.handleList(w, r)
}

// Get handles GET /api/application-users/{id}
// @Summary Get an employee profile with its vaccines
// @Tags application-users
// @Produce json
// @Param id path int true "Profile id"
// @Success 200 {object} models.ApplicationUser
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /api/application-users/{id} [get]
func (h *ApplicationUserHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.ops.handleGet(w, r)
}

// Create handles POST /api/application-users
// @Summary Create an employee profile
// @Tags application-users
// @Accept json
// @Produce json
// @Param payload body models.ApplicationUser true "Profile without id"
// @Success 201 {object} models.ApplicationUser
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /api/application-users [post]
func (h *ApplicationUserHandler) Create(w http.ResponseWriter, r *http.Request) {
	h.ops.handleCreate(w, r)
}

// Update handles PUT /api/application-users/{id}
// @Summary Replace an employee profile
// @Tags application-users
// @Accept json
// @Produce json
// @Param id path int true "Profile id"
// @Param payload body models.ApplicationUser true "Full profile"
// @Success 200 {object} models.ApplicationUser
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /api/application-users/{id} [put]
func (h *ApplicationUserHandler) Update(w http.ResponseWriter, r *http.Request) {
	h.ops.handleUpdate(w, r)
}

// PartialUpdate handles PATCH /api/application-users/{id}
// @Summary Merge the given fields into an employee profile
// @Tags application-users
// @Accept json
// @Produce json
// @Param id path int true "Profile id"
// @Param payload body models.ApplicationUser true "Fields to change, id required"
// @Success 200 {object} models.ApplicationUser
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /api/application-users/{id} [patch]
func (h *ApplicationUserHandler) PartialUpdate(w http.ResponseWriter, r *http.Request) {
	h.ops.handlePartialUpdate(w, r)
}

// Delete handles DELETE /api/application-users/{id}
// @Summary Delete an employee profile
// @Tags application-users
// @Produce json
// @Param id path int true "Profile id"
// @Success 200 {object} models.ApplicationUser
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Profile still owns vaccines"
// @Security BearerAuth
// @Router /api/application-users/{id} [delete]
func (h *ApplicationUserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	h.ops.handleDelete(w, r)
}

