package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/1997daniela/employeeVaccineInventory/internal/config"
	"github.com/1997daniela/employeeVaccineInventory/internal/dto"
	"github.com/1997daniela/employeeVaccineInventory/internal/middleware"
	"github.com/1997daniela/employeeVaccineInventory/internal/models"
	"github.com/1997daniela/employeeVaccineInventory/internal/repository"
	"github.com/1997daniela/employeeVaccineInventory/internal/utils"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	users  repository.UserRepository
	jwt    *config.JWTConfig
	logger *zap.Logger
}

// NewAuthHandler creates a new AuthHandler instance
func NewAuthHandler(deps Deps, jwt *config.JWTConfig) *AuthHandler {
	return &AuthHandler{users: deps.Store.Users(), jwt: jwt, logger: deps.logger()}
}

// Authenticate handles user login
// @Summary Login user
// @Description Exchange a login and password for a bearer token
// @Tags authentication
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.TokenResponse "Login successful"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/authenticate [post]
func (h *AuthHandler) Authenticate(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if err := models.Check(&req); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Missing required fields", err.Error())
		return
	}

	user, err := h.users.FindByLogin(r.Context(), strings.ToLower(req.Username))
	if errors.Is(err, repository.ErrNotFound) {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Invalid credentials", "Login or password is incorrect")
		return
	}
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	// Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Invalid credentials", "Login or password is incorrect")
		return
	}
	if !user.Activated {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Account not activated", "User "+user.Login+" was not activated")
		return
	}

	token, err := middleware.GenerateToken(user, req.RememberMe, h.jwt)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to generate token", err.Error())
		return
	}

	w.Header().Set("Authorization", "Bearer "+token)
	utils.WriteJSONResponse(w, http.StatusOK, dto.TokenResponse{IDToken: token})
}

// SeedAdmin creates the administrator account when no login exists yet.
func SeedAdmin(ctx context.Context, users repository.UserRepository, cfg config.AdminConfig, logger *zap.Logger) error {
	if cfg.Password == "" {
		return nil
	}
	n, err := users.Count(ctx)
	if err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if n > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	admin, err := users.Create(ctx, models.User{
		Login:        strings.ToLower(cfg.Login),
		Email:        cfg.Email,
		PasswordHash: string(hash),
		Activated:    true,
		LangKey:      "en",
		Authorities:  []string{"ROLE_ADMIN", "ROLE_USER"},
	})
	if err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	logger.Info("administrator account created", zap.String("login", admin.Login), zap.Int64("id", admin.ID))
	return nil
}
