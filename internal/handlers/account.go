package handlers

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/1997daniela/employeeVaccineInventory/internal/dto"
	"github.com/1997daniela/employeeVaccineInventory/internal/middleware"
	"github.com/1997daniela/employeeVaccineInventory/internal/models"
	"github.com/1997daniela/employeeVaccineInventory/internal/repository"
	"github.com/1997daniela/employeeVaccineInventory/internal/utils"
)

// AccountHandler serves the settings screen of the signed-in user.
type AccountHandler struct {
	Deps
}

func NewAccountHandler(deps Deps) *AccountHandler {
	return &AccountHandler{Deps: deps}
}

// Get godoc
// @Summary      Get my account
// @Description  Login account merged with the linked employee profile
// @Tags         account
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  models.Account
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/account [get]
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	login, ok := middleware.LoginFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "missing user in context")
		return
	}
	account, err := h.load(r.Context(), login)
	if errors.Is(err, repository.ErrNotFound) {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "user no longer exists")
		return
	}
	if err != nil {
		writeError(w, r, h.logger(), err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, account)
}

// Save godoc
// @Summary      Save my settings
// @Description  Updates names and email, and creates or updates the linked employee profile
// @Tags         account
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      models.Account  true  "Settings form"
// @Success      200      {object}  models.Account
// @Failure      400      {object}  dto.ErrorResponse
// @Failure      401      {object}  dto.ErrorResponse
// @Failure      409      {object}  dto.ErrorResponse
// @Router       /api/account [post]
func (h *AccountHandler) Save(w http.ResponseWriter, r *http.Request) {
	login, ok := middleware.LoginFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "missing user in context")
		return
	}
	var req models.Account
	if !decode(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, r, h.logger(), err)
		return
	}

	ctx := r.Context()
	user, err := h.Store.Users().FindByLogin(ctx, login)
	if errors.Is(err, repository.ErrNotFound) {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "user no longer exists")
		return
	}
	if err != nil {
		writeError(w, r, h.logger(), err)
		return
	}

	// the login and id always come from the token, never from the body
	req.ID, req.Login = user.ID, user.Login
	profile := req.Profile()
	if err := profile.Validate(); err != nil {
		writeError(w, r, h.logger(), err)
		return
	}
	user.FirstName, user.LastName, user.Email = req.FirstName, req.LastName, req.Email
	if req.LangKey != "" {
		user.LangKey = req.LangKey
	}
	if _, err := h.Store.Users().SaveAccount(ctx, user, profile); err != nil {
		writeError(w, r, h.logger(), err)
		return
	}
	if h.Cache != nil {
		for _, resource := range []string{"application-users", "vaccines"} {
			if err := h.Cache.Invalidate(ctx, resource); err != nil {
				h.logger().Warn("list cache invalidation failed", zap.String("resource", resource), zap.Error(err))
			}
		}
	}

	account, err := h.load(ctx, login)
	if err != nil {
		writeError(w, r, h.logger(), err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, account)
}

func (h *AccountHandler) load(ctx context.Context, login string) (models.Account, error) {
	user, err := h.Store.Users().FindByLogin(ctx, login)
	if err != nil {
		return models.Account{}, err
	}
	account := models.Account{
		ID:          user.ID,
		Login:       user.Login,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Email:       user.Email,
		LangKey:     user.LangKey,
		Authorities: user.Authorities,
	}
	profile, err := h.Store.ApplicationUsers().FindByLogin(ctx, login)
	if errors.Is(err, repository.ErrNotFound) {
		return account, nil
	}
	if err != nil {
		return models.Account{}, err
	}
	account.Identification = profile.Identification
	account.DayOfBirth = profile.Birthday
	account.Address = profile.Address
	account.Mobile = profile.Cellphone
	return account, nil
}

// UsersHandler lists login accounts for the internal-user picker.
type UsersHandler struct {
	Deps
}

func NewUsersHandler(deps Deps) *UsersHandler {
	return &UsersHandler{Deps: deps}
}

// List godoc
// @Summary      List login accounts
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   dto.UserResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/users [get]
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.Store.Users().List(r.Context())
	if err != nil {
		writeError(w, r, h.logger(), err)
		return
	}
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, dto.UserResponse{ID: u.ID, Login: u.Login})
	}
	utils.WriteJSONResponse(w, http.StatusOK, out)
}
