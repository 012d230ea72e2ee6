package repository

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/1997daniela/employeeVaccineInventory/internal/models"
)

// MemoryStore keeps every table in maps guarded by one mutex. Ids come from
// a single sequence, like the database's sequenceGenerator.
type MemoryStore struct {
	mu       sync.RWMutex
	seq      int64
	users    map[int64]models.User
	profiles map[int64]models.ApplicationUser
	vaccines map[int64]models.Vaccine
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[int64]models.User),
		profiles: make(map[int64]models.ApplicationUser),
		vaccines: make(map[int64]models.Vaccine),
	}
}

func (s *MemoryStore) Users() UserRepository                       { return memUsers{s} }
func (s *MemoryStore) ApplicationUsers() ApplicationUserRepository { return memProfiles{s} }
func (s *MemoryStore) Vaccines() VaccineRepository                 { return memVaccines{s} }
func (s *MemoryStore) Ping(context.Context) error                  { return nil }
func (s *MemoryStore) Close()                                      {}

func (s *MemoryStore) next() int64 {
	s.seq++
	return s.seq
}

func page[T any](items []T, opts ListOptions) []T {
	if opts.Size <= 0 {
		return items
	}
	start := offset(opts)
	if start >= len(items) {
		return []T{}
	}
	end := min(start+opts.Size, len(items))
	return items[start:end]
}

func sortBy[T any](items []T, orders []SortOrder, cmpField func(a, b T, field string) int, id func(T) int64) {
	slices.SortStableFunc(items, func(a, b T) int {
		for _, o := range orders {
			c := cmpField(a, b, o.Field)
			if o.Desc {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return cmp.Compare(id(a), id(b))
	})
}

func cmpPtr[T cmp.Ordered](a, b *T) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	return cmp.Compare(*a, *b)
}

func cmpDate(a, b *models.LocalDate) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	return a.Compare(b.Time)
}

// ---------- users ----------

type memUsers struct{ s *MemoryStore }

func (r memUsers) List(context.Context) ([]models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]models.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		out = append(out, u)
	}
	slices.SortFunc(out, func(a, b models.User) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

func (r memUsers) Get(_ context.Context, id int64) (models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return models.User{}, fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	return u, nil
}

func (r memUsers) FindByLogin(_ context.Context, login string) (models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.Login == login {
			return u, nil
		}
	}
	return models.User{}, fmt.Errorf("user %q: %w", login, ErrNotFound)
}

func (r memUsers) Create(_ context.Context, u models.User) (models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.Login == u.Login || existing.Email == u.Email {
			return models.User{}, fmt.Errorf("user %q: %w", u.Login, ErrConflict)
		}
	}
	now := time.Now().UTC()
	u.ID = r.s.next()
	u.CreatedAt, u.UpdatedAt = now, now
	if len(u.Authorities) == 0 {
		u.Authorities = []string{"ROLE_USER"}
	}
	r.s.users[u.ID] = u
	return u, nil
}

func (r memUsers) SaveAccount(_ context.Context, u models.User, profile models.ApplicationUser) (models.ApplicationUser, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.checkProfile(u); err != nil {
		return models.ApplicationUser{}, err
	}
	profiles := memProfiles{r.s}
	profile.ID = nil
	profile.InternalUser = u.Ref()
	for id, existing := range r.s.profiles {
		if existing.InternalUser.ID == u.ID {
			profile.ID = models.Int64Ptr(id)
			break
		}
	}
	if err := profiles.check(profile); err != nil {
		return models.ApplicationUser{}, err
	}

	// every check passed; nothing below can fail
	r.applyProfile(u)
	if profile.ID == nil {
		profile.ID = models.Int64Ptr(r.s.next())
	}
	profile.Vaccines = nil
	r.s.profiles[*profile.ID] = profile
	return profiles.resolve(profile), nil
}

// checkProfile validates the login account part of SaveAccount. Caller holds the lock.
func (r memUsers) checkProfile(u models.User) error {
	if _, ok := r.s.users[u.ID]; !ok {
		return fmt.Errorf("user %d: %w", u.ID, ErrNotFound)
	}
	for id, other := range r.s.users {
		if id != u.ID && other.Email == u.Email {
			return fmt.Errorf("email %q: %w", u.Email, ErrConflict)
		}
	}
	return nil
}

// applyProfile writes a checked login account change. Caller holds the lock.
func (r memUsers) applyProfile(u models.User) {
	existing := r.s.users[u.ID]
	existing.FirstName = u.FirstName
	existing.LastName = u.LastName
	existing.Email = u.Email
	if u.LangKey != "" {
		existing.LangKey = u.LangKey
	}
	existing.UpdatedAt = time.Now().UTC()
	r.s.users[u.ID] = existing
}

func (r memUsers) Count(context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.users), nil
}

// ---------- application users ----------

type memProfiles struct{ s *MemoryStore }

// resolve fills the internal user's login. Caller holds the lock.
func (r memProfiles) resolve(u models.ApplicationUser) models.ApplicationUser {
	if u.InternalUser != nil {
		if owner, ok := r.s.users[u.InternalUser.ID]; ok {
			u.InternalUser = owner.Ref()
		}
	}
	u.Vaccines = nil
	return u
}

func (r memProfiles) List(_ context.Context, opts ListOptions) ([]models.ApplicationUser, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]models.ApplicationUser, 0, len(r.s.profiles))
	for _, u := range r.s.profiles {
		out = append(out, r.resolve(u))
	}
	sortBy(out, opts.Sort, func(a, b models.ApplicationUser, field string) int {
		switch field {
		case "identification":
			return cmp.Compare(a.Identification, b.Identification)
		case "birthday":
			return cmpDate(a.Birthday, b.Birthday)
		case "address":
			return cmpPtr(a.Address, b.Address)
		case "cellphone":
			return cmpPtr(a.Cellphone, b.Cellphone)
		}
		return cmpPtr(a.ID, b.ID)
	}, func(u models.ApplicationUser) int64 { return *u.ID })
	return page(out, opts), nil
}

func (r memProfiles) Get(_ context.Context, id int64) (models.ApplicationUser, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.profiles[id]
	if !ok {
		return models.ApplicationUser{}, fmt.Errorf("application user %d: %w", id, ErrNotFound)
	}
	u = r.resolve(u)
	for _, v := range r.s.vaccines {
		if v.OwnerID() == id {
			v.ApplicationUser = nil
			u.Vaccines = append(u.Vaccines, v)
		}
	}
	slices.SortFunc(u.Vaccines, func(a, b models.Vaccine) int { return cmpPtr(a.ID, b.ID) })
	return u, nil
}

func (r memProfiles) FindByLogin(_ context.Context, login string) (models.ApplicationUser, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.profiles {
		if owner, ok := r.s.users[u.InternalUser.ID]; ok && owner.Login == login {
			return r.resolve(u), nil
		}
	}
	return models.ApplicationUser{}, fmt.Errorf("application user for %q: %w", login, ErrNotFound)
}

// check enforces the unique and foreign keys. Caller holds the lock.
func (r memProfiles) check(u models.ApplicationUser) error {
	if u.InternalUser == nil {
		return fmt.Errorf("internal user: %w", ErrInvalidReference)
	}
	if _, ok := r.s.users[u.InternalUser.ID]; !ok {
		return fmt.Errorf("internal user %d: %w", u.InternalUser.ID, ErrInvalidReference)
	}
	for id, other := range r.s.profiles {
		if u.ID != nil && id == *u.ID {
			continue
		}
		if other.Identification == u.Identification {
			return fmt.Errorf("identification %q: %w", u.Identification, ErrConflict)
		}
		if other.InternalUser.ID == u.InternalUser.ID {
			return fmt.Errorf("internal user %d already linked: %w", u.InternalUser.ID, ErrConflict)
		}
	}
	return nil
}

func (r memProfiles) Create(_ context.Context, u models.ApplicationUser) (models.ApplicationUser, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u.ID = nil
	if err := r.check(u); err != nil {
		return models.ApplicationUser{}, err
	}
	u.ID = models.Int64Ptr(r.s.next())
	u.Vaccines = nil
	r.s.profiles[*u.ID] = u
	return r.resolve(u), nil
}

func (r memProfiles) Update(_ context.Context, u models.ApplicationUser) (models.ApplicationUser, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.profiles[*u.ID]; !ok {
		return models.ApplicationUser{}, fmt.Errorf("application user %d: %w", *u.ID, ErrNotFound)
	}
	if err := r.check(u); err != nil {
		return models.ApplicationUser{}, err
	}
	u.Vaccines = nil
	r.s.profiles[*u.ID] = u
	return r.resolve(u), nil
}

func (r memProfiles) Delete(_ context.Context, id int64) (models.ApplicationUser, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.profiles[id]
	if !ok {
		return models.ApplicationUser{}, fmt.Errorf("application user %d: %w", id, ErrNotFound)
	}
	for _, v := range r.s.vaccines {
		if v.OwnerID() == id {
			return models.ApplicationUser{}, fmt.Errorf("application user %d still has vaccines: %w", id, ErrConflict)
		}
	}
	delete(r.s.profiles, id)
	return r.resolve(u), nil
}

// ---------- vaccines ----------

type memVaccines struct{ s *MemoryStore }

// resolve replaces the owner reference with its summary. Caller holds the lock.
func (r memVaccines) resolve(v models.Vaccine) models.Vaccine {
	if owner, ok := r.s.profiles[v.OwnerID()]; ok {
		v.ApplicationUser = owner.Summary()
	}
	return v
}

func (r memVaccines) List(_ context.Context, opts ListOptions) ([]models.Vaccine, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]models.Vaccine, 0, len(r.s.vaccines))
	for _, v := range r.s.vaccines {
		out = append(out, r.resolve(v))
	}
	sortBy(out, opts.Sort, func(a, b models.Vaccine, field string) int {
		switch field {
		case "vaccineType":
			return cmp.Compare(a.VaccineType, b.VaccineType)
		case "vaccinationDate":
			return cmpDate(a.VaccinationDate, b.VaccinationDate)
		case "doses":
			return cmpPtr(a.Doses, b.Doses)
		}
		return cmpPtr(a.ID, b.ID)
	}, func(v models.Vaccine) int64 { return *v.ID })
	return page(out, opts), nil
}

func (r memVaccines) Get(_ context.Context, id int64) (models.Vaccine, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	v, ok := r.s.vaccines[id]
	if !ok {
		return models.Vaccine{}, fmt.Errorf("vaccine %d: %w", id, ErrNotFound)
	}
	return r.resolve(v), nil
}

func (r memVaccines) Create(_ context.Context, v models.Vaccine) (models.Vaccine, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.profiles[v.OwnerID()]; !ok {
		return models.Vaccine{}, fmt.Errorf("application user %d: %w", v.OwnerID(), ErrInvalidReference)
	}
	v.ID = models.Int64Ptr(r.s.next())
	v.ApplicationUser = &models.ApplicationUser{ID: models.Int64Ptr(v.OwnerID())}
	r.s.vaccines[*v.ID] = v
	return r.resolve(v), nil
}

func (r memVaccines) Update(_ context.Context, v models.Vaccine) (models.Vaccine, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.vaccines[*v.ID]; !ok {
		return models.Vaccine{}, fmt.Errorf("vaccine %d: %w", *v.ID, ErrNotFound)
	}
	if _, ok := r.s.profiles[v.OwnerID()]; !ok {
		return models.Vaccine{}, fmt.Errorf("application user %d: %w", v.OwnerID(), ErrInvalidReference)
	}
	v.ApplicationUser = &models.ApplicationUser{ID: models.Int64Ptr(v.OwnerID())}
	r.s.vaccines[*v.ID] = v
	return r.resolve(v), nil
}

func (r memVaccines) Delete(_ context.Context, id int64) (models.Vaccine, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.vaccines[id]
	if !ok {
		return models.Vaccine{}, fmt.Errorf("vaccine %d: %w", id, ErrNotFound)
	}
	delete(r.s.vaccines, id)
	return r.resolve(v), nil
}
