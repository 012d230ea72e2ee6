package actions_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/1997daniela/employeeVaccineInventory/internal/config"
	"github.com/1997daniela/employeeVaccineInventory/internal/handlers"
	"github.com/1997daniela/employeeVaccineInventory/internal/models"
	"github.com/1997daniela/employeeVaccineInventory/internal/repository"
	"github.com/1997daniela/employeeVaccineInventory/internal/routes"
	"github.com/1997daniela/employeeVaccineInventory/internal/utils"
	"github.com/1997daniela/employeeVaccineInventory/internal/actions"
	"github.com/1997daniela/employeeVaccineInventory/internal/apiclient"
	"github.com/1997daniela/employeeVaccineInventory/pkg/entitystore"
)

// startServer runs the full API over the in-memory store and returns an
// authenticated client.
func startServer(t *testing.T) *apiclient.Client {
	t.Helper()
	cfg := &config.Config{
		Server: config.ServerConfig{AppName: "employeeVaccineInventoryApp"},
		JWT: config.JWTConfig{
			Secret:         "actions-secret",
			Issuer:         "actions-test",
			AccessTokenTTL: time.Hour,
			RememberMeTTL:  time.Hour,
		},
		CORS: config.CORSConfig{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
			AllowedHeaders: []string{"*"},
		},
		Admin: config.AdminConfig{Login: "admin", Password: "admin", Email: "admin@localhost"},
	}
	store := repository.NewMemoryStore()
	if err := handlers.SeedAdmin(context.Background(), store.Users(), cfg.Admin, zap.NewNop()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	deps := handlers.Deps{
		Store:  store,
		Alerts: utils.Alerts{AppName: cfg.Server.AppName},
		Logger: zap.NewNop(),
	}
	srv := httptest.NewServer(routes.SetupRoutes(cfg, deps, nil, prometheus.NewRegistry()))
	t.Cleanup(srv.Close)

	c := apiclient.New(srv.URL)
	if _, err := c.Authenticate(context.Background(), "Admin", "admin", false); err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	return c
}

func TestSettingsAndVaccineLifecycle(t *testing.T) {
	ctx := context.Background()
	c := startServer(t)
	store := entitystore.NewStore()

	account, err := actions.NewAccountActions(store, c, nil)
	if err != nil {
		t.Fatalf("account actions: %v", err)
	}
	users, err := actions.NewApplicationUserActions(store, c)
	if err != nil {
		t.Fatalf("user actions: %v", err)
	}
	vaccines, err := actions.NewVaccineActions(store, c)
	if err != nil {
		t.Fatalf("vaccine actions: %v", err)
	}
	if _, err := actions.NewVaccineActions(store, c); err == nil {
		t.Fatalf("registering the vaccine container twice should fail")
	}

	session, err := account.GetSession(ctx)
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	if session.Login != "admin" || session.Identification != "" {
		t.Fatalf("unexpected session %+v", session)
	}

	// invalid forms never reach the container
	if _, err := account.SaveSettings(ctx, session); err == nil {
		t.Fatalf("expected validation error for an empty profile")
	}
	if account.State().Phase() != entitystore.PhaseLoaded {
		t.Fatalf("validation failure should not dispatch, got %v", account.State().Phase())
	}

	session.FirstName = models.StringPtr("Ada")
	session.LastName = models.StringPtr("Lovelace")
	session.Identification = "1020304050"
	session.DayOfBirth = models.DatePtr("1990-12-10")
	session.Address = models.StringPtr("Calle 1")
	session.Mobile = models.StringPtr("3001234567")
	key, err := account.SaveSettings(ctx, session)
	if err != nil {
		t.Fatalf("save settings: %v", err)
	}
	if key != actions.SettingsSavedKey {
		t.Fatalf("unexpected key %q", key)
	}
	st := account.State()
	if !st.UpdateSuccess() || st.Entity().Identification != "1020304050" {
		t.Fatalf("expected the reloaded session, got %+v success=%v", st.Entity(), st.UpdateSuccess())
	}

	profiles, err := users.List(ctx, &apiclient.QueryParams{Page: 0, Size: 20, Sort: []string{"id,asc"}})
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(profiles) != 1 || profiles[0].InternalUser == nil || profiles[0].InternalUser.Login != "admin" {
		t.Fatalf("expected the admin profile, got %+v", profiles)
	}
	ownerID, _ := profiles[0].EntityID()

	form := actions.VaccineForm{VaccineType: "PFIZER", VaccinationDate: "2021-06-01", Doses: 1, ApplicationUserID: ownerID}
	v, err := form.Resolve(users.State().Entities())
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	created, err := vaccines.Create(ctx, v)
	if err != nil {
		t.Fatalf("create vaccine: %v", err)
	}
	id, ok := created.EntityID()
	if !ok || created.OwnerID() != ownerID {
		t.Fatalf("unexpected created vaccine %+v", created)
	}
	vs := vaccines.State()
	if !vs.UpdateSuccess() || len(vs.Entities()) != 1 {
		t.Fatalf("expected a refreshed list after create, got %+v", vs.Entities())
	}

	// creating with an id is refused by the server and reported in state
	_, err = vaccines.Create(ctx, created)
	var apiErr *apiclient.APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusBadRequest || apiErr.Key != "error.idexists" {
		t.Fatalf("expected idexists, got %v", err)
	}
	if vaccines.State().Phase() != entitystore.PhaseFailed || len(vaccines.State().Entities()) != 1 {
		t.Fatalf("failure should keep the list, got %v", vaccines.State().Phase())
	}

	patched, err := vaccines.PartialUpdate(ctx, models.Vaccine{ID: models.Int64Ptr(id), Doses: models.IntPtr(2)})
	if err != nil {
		t.Fatalf("patch: %v", err)
	}
	if *patched.Doses != 2 || patched.VaccineType != models.VaccinePfizer {
		t.Fatalf("patch should merge onto the stored record, got %+v", patched)
	}
	if vaccines.State().ErrorMessage() != "" {
		t.Fatalf("a new request should clear the error")
	}

	if _, err := vaccines.Get(ctx, id); err != nil {
		t.Fatalf("get: %v", err)
	}
	prior, err := vaccines.Delete(ctx, id)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if pid, _ := prior.EntityID(); pid != id {
		t.Fatalf("expected the deleted record back, got %+v", prior)
	}
	vs = vaccines.State()
	if _, ok := vs.Entity().EntityID(); ok || len(vs.Entities()) != 0 || !vs.UpdateSuccess() {
		t.Fatalf("unexpected state after delete %+v", vs.Entities())
	}

	_, err = vaccines.Get(ctx, id)
	if apiclient.StatusOf(err) != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %v", err)
	}
}
