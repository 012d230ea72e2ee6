package actions

import (
	"context"

	"go.uber.org/zap"

	"github.com/1997daniela/employeeVaccineInventory/internal/models"
	"github.com/1997daniela/employeeVaccineInventory/internal/apiclient"
	"github.com/1997daniela/employeeVaccineInventory/pkg/entitystore"
)

// SettingsSavedKey is the message key shown after settings are saved.
const SettingsSavedKey = "settings.messages.success"

// AccountActions drives the settings screen. The account lives in the
// "account" container as its entity.
type AccountActions struct {
	client    *apiclient.AccountClient
	container *entitystore.Container[models.Account]
	logger    *zap.Logger
}

func NewAccountActions(store *entitystore.Store, c *apiclient.Client, logger *zap.Logger) (*AccountActions, error) {
	container, err := entitystore.Register[models.Account](store, AccountEntity)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccountActions{
		client:    apiclient.NewAccountClient(c),
		container: container,
		logger:    logger.With(zap.String("entity", AccountEntity)),
	}, nil
}

func (a *AccountActions) State() entitystore.State[models.Account] { return a.container.Snapshot() }

// GetSession loads the signed-in account.
func (a *AccountActions) GetSession(ctx context.Context) (models.Account, error) {
	return a.get(ctx, false)
}

func (a *AccountActions) get(ctx context.Context, afterWrite bool) (models.Account, error) {
	seq := a.container.Begin(entitystore.OpGet, afterWrite)
	account, err := a.client.Get(ctx)
	if err != nil {
		a.container.Dispatch(entitystore.Failed[models.Account](entitystore.OpGet, seq, err))
		return models.Account{}, err
	}
	a.container.Dispatch(entitystore.EntityLoaded(entitystore.OpGet, seq, account))
	return account, nil
}

// SaveSettings validates the form, saves it and reloads the session. It
// returns the message key to show on success.
func (a *AccountActions) SaveSettings(ctx context.Context, account models.Account) (string, error) {
	if err := account.Validate(); err != nil {
		return "", err
	}
	seq := a.container.Begin(entitystore.OpUpdate, false)
	saved, err := a.client.Save(ctx, account)
	if err != nil {
		a.container.Dispatch(entitystore.Failed[models.Account](entitystore.OpUpdate, seq, err))
		return "", err
	}
	a.container.Dispatch(entitystore.EntityLoaded(entitystore.OpUpdate, seq, saved))

	if _, err := a.get(ctx, true); err != nil {
		a.logger.Warn("session refresh after save failed", zap.Error(err))
	}
	return SettingsSavedKey, nil
}
