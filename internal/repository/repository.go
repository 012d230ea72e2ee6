// Package repository persists login accounts, employee profiles and their
// vaccination records. Two implementations share these contracts: a pgx
// backed Postgres store and an in-memory store for development and tests.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/1997daniela/employeeVaccineInventory/internal/models"
)

var (
	// ErrNotFound is returned when no row matches the requested id or login.
	ErrNotFound = errors.New("entity not found")
	// ErrConflict is returned on unique violations and on deletes blocked by
	// dependent rows.
	ErrConflict = errors.New("entity conflict")
	// ErrInvalidReference is returned when a write points at a missing row.
	ErrInvalidReference = errors.New("referenced entity does not exist")
)

// SortOrder is one "field,dir" term of a list request.
type SortOrder struct {
	Field string
	Desc  bool
}

// ListOptions paginates and orders a collection read. Size 0 returns
// every row.
type ListOptions struct {
	Page int
	Size int
	Sort []SortOrder
}

// ParseSort reads "field,asc" / "field,desc" terms. Fields not in allowed
// are rejected so they can be mapped to columns safely.
func ParseSort(terms []string, allowed map[string]string) ([]SortOrder, error) {
	var out []SortOrder
	for _, term := range terms {
		if term == "" {
			continue
		}
		parts := strings.Split(term, ",")
		field := strings.TrimSpace(parts[0])
		if _, ok := allowed[field]; !ok {
			return nil, fmt.Errorf("cannot sort by %q", field)
		}
		order := SortOrder{Field: field}
		if len(parts) > 1 {
			switch strings.ToLower(strings.TrimSpace(parts[1])) {
			case "asc", "":
			case "desc":
				order.Desc = true
			default:
				return nil, fmt.Errorf("invalid sort direction %q", parts[1])
			}
		}
		out = append(out, order)
	}
	return out, nil
}

// ApplicationUserSortColumns maps sortable JSON fields to columns.
var ApplicationUserSortColumns = map[string]string{
	"id":             "au.id",
	"identification": "au.identification",
	"birthday":       "au.birthday",
	"address":        "au.address",
	"cellphone":      "au.cellphone",
}

// VaccineSortColumns maps sortable JSON fields to columns.
var VaccineSortColumns = map[string]string{
	"id":              "v.id",
	"vaccineType":     "v.vaccine_type",
	"vaccinationDate": "v.vaccination_date",
	"doses":           "v.doses",
}

type UserRepository interface {
	List(ctx context.Context) ([]models.User, error)
	Get(ctx context.Context, id int64) (models.User, error)
	FindByLogin(ctx context.Context, login string) (models.User, error)
	Create(ctx context.Context, u models.User) (models.User, error)
	// SaveAccount changes u's names, email and language and creates or
	// replaces the ApplicationUser linked to u. Either both writes happen or
	// neither does.
	SaveAccount(ctx context.Context, u models.User, profile models.ApplicationUser) (models.ApplicationUser, error)
	Count(ctx context.Context) (int, error)
}

type ApplicationUserRepository interface {
	List(ctx context.Context, opts ListOptions) ([]models.ApplicationUser, error)
	// Get includes the user's vaccines.
	Get(ctx context.Context, id int64) (models.ApplicationUser, error)
	FindByLogin(ctx context.Context, login string) (models.ApplicationUser, error)
	Create(ctx context.Context, u models.ApplicationUser) (models.ApplicationUser, error)
	Update(ctx context.Context, u models.ApplicationUser) (models.ApplicationUser, error)
	Delete(ctx context.Context, id int64) (models.ApplicationUser, error)
}

type VaccineRepository interface {
	List(ctx context.Context, opts ListOptions) ([]models.Vaccine, error)
	Get(ctx context.Context, id int64) (models.Vaccine, error)
	Create(ctx context.Context, v models.Vaccine) (models.Vaccine, error)
	Update(ctx context.Context, v models.Vaccine) (models.Vaccine, error)
	Delete(ctx context.Context, id int64) (models.Vaccine, error)
}

// Store bundles the repositories of one backend.
type Store interface {
	Users() UserRepository
	ApplicationUsers() ApplicationUserRepository
	Vaccines() VaccineRepository
	Ping(ctx context.Context) error
	Close()
}

func offset(opts ListOptions) int {
	if opts.Page < 0 {
		return 0
	}
	return opts.Page * opts.Size
}
