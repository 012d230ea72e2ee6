package models

import (
	"errors"
	"testing"
)

func validAccount() Account {
	return Account{
		FirstName:      StringPtr("Jane"),
		LastName:       StringPtr("Doe"),
		Email:          "jane@example.com",
		Identification: "1234567890",
		DayOfBirth:     DatePtr("1990-01-31"),
		Address:        StringPtr("Calle 1"),
		Mobile:         StringPtr("3001234567"),
	}
}

func fieldOf(t *testing.T, err error) *ValidationError {
	t.Helper()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T %v", err, err)
	}
	return verr
}

func TestAccountValidate(t *testing.T) {
	a := validAccount()
	if err := a.Validate(); err != nil {
		t.Fatalf("valid account rejected: %v", err)
	}

	cases := []struct {
		name  string
		edit  func(*Account)
		field string
	}{
		{"short identification", func(a *Account) { a.Identification = "12345" }, "identification"},
		{"long identification", func(a *Account) { a.Identification = "12345678901" }, "identification"},
		{"empty first name", func(a *Account) { a.FirstName = StringPtr("") }, "firstName"},
		{"missing last name", func(a *Account) { a.LastName = nil }, "lastName"},
		{"bad email", func(a *Account) { a.Email = "not-an-address" }, "email"},
		{"no birthday", func(a *Account) { a.DayOfBirth = nil }, "dayOfBirth"},
		{"empty address", func(a *Account) { a.Address = StringPtr("") }, "address"},
		{"short mobile", func(a *Account) { a.Mobile = StringPtr("300") }, "mobile"},
	}
	for _, tc := range cases {
		a := validAccount()
		tc.edit(&a)
		verr := fieldOf(t, a.Validate())
		if verr.Field != tc.field {
			t.Fatalf("%s: expected field %q, got %q (%s)", tc.name, tc.field, verr.Field, verr.Message)
		}
	}

	a = validAccount()
	a.Identification = "12345"
	if verr := fieldOf(t, a.Validate()); verr.Message != "must be exactly 10 characters" {
		t.Fatalf("unexpected message %q", verr.Message)
	}
}

func TestApplicationUserValidate(t *testing.T) {
	u := ApplicationUser{Identification: "1234567890", InternalUser: &UserRef{ID: 1}}
	if err := u.Validate(); err != nil {
		t.Fatalf("valid user rejected: %v", err)
	}

	u.Cellphone = StringPtr("12")
	if verr := fieldOf(t, u.Validate()); verr.Field != "cellphone" {
		t.Fatalf("expected cellphone, got %q", verr.Field)
	}

	u = ApplicationUser{Identification: "1234567890", InternalUser: &UserRef{}}
	if verr := fieldOf(t, u.Validate()); verr.Field != "internalUser.id" {
		t.Fatalf("expected internalUser.id, got %q", verr.Field)
	}
	u.InternalUser = nil
	if verr := fieldOf(t, u.Validate()); verr.Field != "internalUser" {
		t.Fatalf("expected internalUser, got %q", verr.Field)
	}
}

func TestVaccineValidate(t *testing.T) {
	v := Vaccine{
		VaccineType:     VaccinePfizer,
		VaccinationDate: DatePtr("2021-06-01"),
		Doses:           IntPtr(1),
		ApplicationUser: &ApplicationUser{ID: Int64Ptr(3)},
	}
	if err := v.Validate(); err != nil {
		t.Fatalf("valid vaccine rejected: %v", err)
	}

	v.VaccineType = "MODERNA"
	if verr := fieldOf(t, v.Validate()); verr.Field != "vaccineType" {
		t.Fatalf("expected vaccineType, got %q", verr.Field)
	}
	v.VaccineType = VaccineSputnik
	v.Doses = IntPtr(0)
	if verr := fieldOf(t, v.Validate()); verr.Field != "doses" || verr.Message != "must be at least 1" {
		t.Fatalf("unexpected doses error %+v", verr)
	}
	v.Doses = IntPtr(2)
	v.ApplicationUser = &ApplicationUser{}
	if verr := fieldOf(t, v.Validate()); verr.Field != "applicationUser" {
		t.Fatalf("expected applicationUser, got %q", verr.Field)
	}
}
