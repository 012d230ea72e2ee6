package actions

import (
	"errors"
	"fmt"
	"strings"

	"github.com/1997daniela/employeeVaccineInventory/internal/models"
	"github.com/1997daniela/employeeVaccineInventory/internal/apiclient"
	"github.com/1997daniela/employeeVaccineInventory/pkg/entitystore"
)

// Container names in the application store.
const (
	ApplicationUserEntity = "applicationUser"
	VaccineEntity         = "vaccine"
	AccountEntity         = "account"
)

func NewApplicationUserActions(store *entitystore.Store, c *apiclient.Client, opts ...Option[models.ApplicationUser]) (*ActionSet[models.ApplicationUser], error) {
	container, err := entitystore.Register[models.ApplicationUser](store, ApplicationUserEntity)
	if err != nil {
		return nil, err
	}
	client := apiclient.NewEntityClient[models.ApplicationUser](c, "application-users")
	return New(ApplicationUserEntity, client, container, opts...), nil
}

func NewVaccineActions(store *entitystore.Store, c *apiclient.Client, opts ...Option[models.Vaccine]) (*ActionSet[models.Vaccine], error) {
	container, err := entitystore.Register[models.Vaccine](store, VaccineEntity)
	if err != nil {
		return nil, err
	}
	client := apiclient.NewEntityClient[models.Vaccine](c, "vaccines")
	return New(VaccineEntity, client, container, opts...), nil
}

// ErrUnknownUser is returned when a form selects a user that is not in the
// locally cached list.
var ErrUnknownUser = errors.New("selected user is not in the user list")

// VaccineForm is the raw input of the vaccine edit screen.
type VaccineForm struct {
	ID                *int64
	VaccineType       string
	VaccinationDate   string
	Doses             int
	ApplicationUserID int64
}

// Resolve builds the Vaccine to submit. The owner is taken from users,
// typically the applicationUser container's entities.
func (f VaccineForm) Resolve(users []models.ApplicationUser) (models.Vaccine, error) {
	var owner *models.ApplicationUser
	for i := range users {
		if id, ok := users[i].EntityID(); ok && id == f.ApplicationUserID {
			owner = &users[i]
			break
		}
	}
	if f.ApplicationUserID == 0 || owner == nil {
		return models.Vaccine{}, fmt.Errorf("applicationUser %d: %w", f.ApplicationUserID, ErrUnknownUser)
	}

	v := models.Vaccine{
		ID:              f.ID,
		VaccineType:     models.VaccineType(strings.TrimSpace(f.VaccineType)),
		Doses:           models.IntPtr(f.Doses),
		ApplicationUser: owner.Summary(),
	}
	if f.VaccinationDate != "" {
		d, err := models.ParseLocalDate(f.VaccinationDate)
		if err != nil {
			return models.Vaccine{}, &models.ValidationError{Field: "vaccinationDate", Message: err.Error()}
		}
		v.VaccinationDate = &d
	}
	if err := v.Validate(); err != nil {
		return models.Vaccine{}, err
	}
	return v, nil
}

// ApplicationUserForm is the raw input of the employee profile screen.
type ApplicationUserForm struct {
	ID             *int64
	Identification string
	Birthday       string
	Address        string
	Cellphone      string
	InternalUserID int64
}

// Resolve builds the ApplicationUser to submit, selecting the login
// account from users.
func (f ApplicationUserForm) Resolve(users []models.UserRef) (models.ApplicationUser, error) {
	var ref *models.UserRef
	for i := range users {
		if users[i].ID == f.InternalUserID {
			ref = &users[i]
			break
		}
	}
	if f.InternalUserID == 0 || ref == nil {
		return models.ApplicationUser{}, fmt.Errorf("internalUser %d: %w", f.InternalUserID, ErrUnknownUser)
	}

	u := models.ApplicationUser{
		ID:             f.ID,
		Identification: strings.TrimSpace(f.Identification),
		InternalUser:   &models.UserRef{ID: ref.ID, Login: ref.Login},
	}
	if f.Birthday != "" {
		d, err := models.ParseLocalDate(f.Birthday)
		if err != nil {
			return models.ApplicationUser{}, &models.ValidationError{Field: "birthday", Message: err.Error()}
		}
		u.Birthday = &d
	}
	if f.Address != "" {
		u.Address = models.StringPtr(f.Address)
	}
	if f.Cellphone != "" {
		u.Cellphone = models.StringPtr(f.Cellphone)
	}
	if err := u.Validate(); err != nil {
		return models.ApplicationUser{}, err
	}
	return u, nil
}
