package models

// Account is what the settings screen reads and writes: the login account
// plus the employee profile linked to it.
type Account struct {
	ID             int64      `json:"id,omitempty"`
	Login          string     `json:"login,omitempty"`
	FirstName      *string    `json:"firstName,omitempty" validate:"required,min=1,max=50"`
	LastName       *string    `json:"lastName,omitempty" validate:"required,min=1,max=50"`
	Email          string     `json:"email,omitempty" validate:"required,min=5,max=254,email"`
	LangKey        string     `json:"langKey,omitempty"`
	Authorities    []string   `json:"authorities,omitempty"`
	Identification string     `json:"identification,omitempty" validate:"required,len=10"`
	DayOfBirth     *LocalDate `json:"dayOfBirth,omitempty" validate:"required"`
	Address        *string    `json:"address,omitempty" validate:"required,min=1"`
	Mobile         *string    `json:"mobile,omitempty" validate:"required,len=10"`
}

// EntityID lets an Account live in the same state container as entities.
func (a Account) EntityID() (int64, bool) {
	return a.ID, a.ID != 0
}

// Validate mirrors the settings form rules.
func (a *Account) Validate() error {
	return Check(a)
}

// Profile returns the ApplicationUser fields carried by the account.
func (a Account) Profile() ApplicationUser {
	return ApplicationUser{
		Identification: a.Identification,
		Birthday:       a.DayOfBirth,
		Address:        a.Address,
		Cellphone:      a.Mobile,
		InternalUser:   &UserRef{ID: a.ID, Login: a.Login},
	}
}
