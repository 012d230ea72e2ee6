package models

// ApplicationUser is the employee profile attached to one login account.
type ApplicationUser struct {
	ID             *int64     `json:"id,omitempty"`
	Identification string     `json:"identification,omitempty" validate:"required,len=10"`
	Birthday       *LocalDate `json:"birthday,omitempty"`
	Address        *string    `json:"address,omitempty"`
	Cellphone      *string    `json:"cellphone,omitempty" validate:"omitempty,len=10"`
	InternalUser   *UserRef   `json:"internalUser,omitempty" validate:"required"`
	Vaccines       []Vaccine  `json:"vaccines,omitempty" validate:"-"`
}

// EntityID reports the server-assigned id, if any.
func (u ApplicationUser) EntityID() (int64, bool) {
	if u.ID == nil {
		return 0, false
	}
	return *u.ID, true
}

// Validate checks the fields a full create or replace must carry.
func (u *ApplicationUser) Validate() error {
	return Check(u)
}

// Merge copies the non-nil fields of patch onto u.
func (u *ApplicationUser) Merge(patch ApplicationUser) {
	if patch.Identification != "" {
		u.Identification = patch.Identification
	}
	if patch.Birthday != nil {
		u.Birthday = patch.Birthday
	}
	if patch.Address != nil {
		u.Address = patch.Address
	}
	if patch.Cellphone != nil {
		u.Cellphone = patch.Cellphone
	}
}

// Summary is the form a user takes when nested inside a Vaccine.
func (u ApplicationUser) Summary() *ApplicationUser {
	return &ApplicationUser{
		ID:             u.ID,
		Identification: u.Identification,
		Birthday:       u.Birthday,
		Address:        u.Address,
		Cellphone:      u.Cellphone,
	}
}
