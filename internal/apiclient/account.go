package apiclient

import (
	"context"
	"net/http"

	"github.com/1997daniela/employeeVaccineInventory/internal/dto"
	"github.com/1997daniela/employeeVaccineInventory/internal/models"
)

// AccountClient reads and saves the signed-in user's settings.
type AccountClient struct {
	c *Client
}

func NewAccountClient(c *Client) *AccountClient {
	return &AccountClient{c: c}
}

func (a *AccountClient) Get(ctx context.Context) (models.Account, error) {
	var out models.Account
	err := a.c.Do(ctx, http.MethodGet, "/api/account", nil, "", nil, &out)
	return out, err
}

func (a *AccountClient) Save(ctx context.Context, account models.Account) (models.Account, error) {
	var out models.Account
	err := a.c.Do(ctx, http.MethodPost, "/api/account", nil, contentTypeJSON, account, &out)
	return out, err
}

// Users lists the login accounts a profile can be linked to.
func (a *AccountClient) Users(ctx context.Context) ([]dto.UserResponse, error) {
	var out []dto.UserResponse
	err := a.c.Do(ctx, http.MethodGet, "/api/users", nil, "", nil, &out)
	return out, err
}
