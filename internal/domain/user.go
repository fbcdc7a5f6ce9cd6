package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is the account that owns workouts.
type User struct {
	eventRecorder

	id              uuid.UUID
	username        Username
	email           Email
	password        PasswordHash
	age             *Age
	weight          *BodyWeight
	height          *Height
	isEmailVerified bool
	isAdmin         bool
	deletedAt       *time.Time
	createdAt       time.Time
	updatedAt       time.Time
}

// NewUserParams carries registration input. Password is plaintext and is
// hashed during construction.
type NewUserParams struct {
	Username string
	Email    string
	Password string
	Age      *int
	Weight   *float64
	Height   *float64
}

// UserParams carries a persisted user row.
type UserParams struct {
	Username        string
	Email           string
	PasswordHash    string
	Age             *int
	Weight          *float64
	Height          *float64
	IsEmailVerified bool
	IsAdmin         bool
	DeletedAt       *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// UserUpdate is a partial profile change.
type UserUpdate struct {
	Username Patch[string]
	Age      Patch[int]
	Weight   Patch[float64]
	Height   Patch[float64]
}

// UserDTO is the public projection of a user. The password hash is never
// part of it.
type UserDTO struct {
	ID              uuid.UUID `json:"id"`
	Username        string    `json:"username"`
	Email           string    `json:"email"`
	Age             *int      `json:"age"`
	Weight          *float64  `json:"weight"`
	Height          *float64  `json:"height"`
	IsEmailVerified bool      `json:"is_email_verified"`
	IsAdmin         bool      `json:"is_admin"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NewUser validates a registration and records EventUserCreated.
func NewUser(p NewUserParams) (*User, error) {
	var missing []string
	if p.Username == "" {
		missing = append(missing, "username")
	}
	if p.Email == "" {
		missing = append(missing, "email")
	}
	if p.Password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return nil, missingProps(missing...)
	}

	u := &User{}
	if err := u.mountProfile(p.Username, p.Email, p.Age, p.Weight, p.Height); err != nil {
		return nil, err
	}
	hash, err := HashPassword(p.Password)
	if err != nil {
		return nil, err
	}
	u.password = hash

	u.record(Event{
		Name: EventUserCreated,
		Payload: map[string]any{
			"username": u.username.Value(),
			"email":    u.email.Value(),
		},
	})
	return u, nil
}

// RestoreUser rehydrates a stored user. No events are recorded.
func RestoreUser(id uuid.UUID, p UserParams) (*User, error) {
	var missing []string
	if id == uuid.Nil {
		missing = append(missing, "id")
	}
	if p.Username == "" {
		missing = append(missing, "username")
	}
	if p.Email == "" {
		missing = append(missing, "email")
	}
	if p.PasswordHash == "" {
		missing = append(missing, "passwordHash")
	}
	if len(missing) > 0 {
		return nil, missingProps(missing...)
	}

	u := &User{
		id:              id,
		isEmailVerified: p.IsEmailVerified,
		isAdmin:         p.IsAdmin,
		deletedAt:       p.DeletedAt,
		createdAt:       p.CreatedAt,
		updatedAt:       p.UpdatedAt,
	}
	if err := u.mountProfile(p.Username, p.Email, p.Age, p.Weight, p.Height); err != nil {
		return nil, err
	}
	hash, err := RestorePasswordHash(p.PasswordHash)
	if err != nil {
		return nil, err
	}
	u.password = hash
	return u, nil
}

func (u *User) mountProfile(username, email string, age *int, weight, height *float64) error {
	un, err := NewUsername(username)
	if err != nil {
		return err
	}
	em, err := NewEmail(email)
	if err != nil {
		return err
	}
	a, err := optionalAge(age)
	if err != nil {
		return err
	}
	w, err := optionalWeight(weight)
	if err != nil {
		return err
	}
	h, err := optionalHeight(height)
	if err != nil {
		return err
	}
	u.username, u.email, u.age, u.weight, u.height = un, em, a, w, h
	return nil
}

// Update applies a partial profile change. Nothing is replaced unless every
// supplied field is valid.
func (u *User) Update(p UserUpdate) error {
	username := u.username
	age, weight, height := u.age, u.weight, u.height

	if p.Username.Present() {
		v, ok := p.Username.Value()
		if !ok {
			return missingProps("username")
		}
		un, err := NewUsername(v)
		if err != nil {
			return err
		}
		username = un
	}
	if p.Age.Present() {
		a, err := optionalAge(p.Age.Ptr())
		if err != nil {
			return err
		}
		age = a
	}
	if p.Weight.Present() {
		w, err := optionalWeight(p.Weight.Ptr())
		if err != nil {
			return err
		}
		weight = w
	}
	if p.Height.Present() {
		h, err := optionalHeight(p.Height.Ptr())
		if err != nil {
			return err
		}
		height = h
	}

	u.username, u.age, u.weight, u.height = username, age, weight, height
	return nil
}

// SetPassword replaces the stored hash with one built from plain.
func (u *User) SetPassword(plain string) error {
	hash, err := HashPassword(plain)
	if err != nil {
		return err
	}
	u.password = hash
	return nil
}

// CheckPassword reports whether plain matches the stored hash.
func (u *User) CheckPassword(plain string) bool {
	return u.password.Matches(plain)
}

// VerifyEmail marks the address as confirmed.
func (u *User) VerifyEmail() {
	u.isEmailVerified = true
}

// SoftDelete stamps the deletion time; the row is kept.
func (u *User) SoftDelete(now time.Time) {
	if u.deletedAt != nil {
		return
	}
	t := now.UTC()
	u.deletedAt = &t
}

func (u *User) ID() uuid.UUID { return u.id }
func (u *User) Username() Username { return u.username }
func (u *User) Email() Email { return u.email }
func (u *User) PasswordHash() PasswordHash { return u.password }
func (u *User) IsEmailVerified() bool { return u.isEmailVerified }
func (u *User) IsAdmin() bool { return u.isAdmin }
func (u *User) DeletedAt() *time.Time { return u.deletedAt }
func (u *User) IsDeleted() bool { return u.deletedAt != nil }
func (u *User) CreatedAt() time.Time { return u.createdAt }
func (u *User) UpdatedAt() time.Time { return u.updatedAt }

// Age returns nil when unset.
func (u *User) Age() *int {
	if u.age == nil {
		return nil
	}
	v := u.age.Value()
	return &v
}

// Weight returns nil when unset.
func (u *User) Weight() *float64 {
	if u.weight == nil {
		return nil
	}
	v := u.weight.Value()
	return &v
}

// Height returns nil when unset.
func (u *User) Height() *float64 {
	if u.height == nil {
		return nil
	}
	v := u.height.Value()
	return &v
}

// ToDTO projects the user. It fails with ErrMissingID until persisted.
func (u *User) ToDTO() (UserDTO, error) {
	if u.id == uuid.Nil {
		return UserDTO{}, missingID("user")
	}
	return UserDTO{
		ID:              u.id,
		Username:        u.username.Value(),
		Email:           u.email.Value(),
		Age:             u.Age(),
		Weight:          u.Weight(),
		Height:          u.Height(),
		IsEmailVerified: u.isEmailVerified,
		IsAdmin:         u.isAdmin,
		CreatedAt:       u.createdAt,
		UpdatedAt:       u.updatedAt,
	}, nil
}

func optionalAge(v *int) (*Age, error) {
	if v == nil {
		return nil, nil
	}
	a, err := NewAge(*v)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func optionalWeight(v *float64) (*BodyWeight, error) {
	if v == nil {
		return nil, nil
	}
	w, err := NewBodyWeight(*v)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func optionalHeight(v *float64) (*Height, error) {
	if v == nil {
		return nil, nil
	}
	h, err := NewHeight(*v)
	if err != nil {
		return nil, err
	}
	return &h, nil
}
