package identity

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/taskflow/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Password cost for bcrypt
const bcryptCost = bcrypt.DefaultCost

// MinPasswordLength is the shortest accepted password
const MinPasswordLength = 6

const maxUsernameLength = 100

var (
	emailRegex       = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	usernameRegex    = regexp.MustCompile(`^[a-zA-Z0-9_\-.]+$`)
	usernameStripper = regexp.MustCompile(`[^a-z0-9_\-.]+`)
)

// User represents a person who can sign in, own tasks and belong to teams.
type User struct {
	shared.BaseEntity
	Email        string
	Username     string
	PasswordHash string
	FirstName    string
	LastName     string
	Role         Role
	Avatar       string
}

// NewUser creates a user with a hashed password.
// Email and username are normalized to lowercase.
func NewUser(email, username, password, firstName, lastName string, role Role) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateEmail(email); err != nil {
		return nil, err
	}

	username = strings.ToLower(strings.TrimSpace(username))
	if err := validateUsername(username); err != nil {
		return nil, err
	}

	if role == "" {
		role = RoleMember
	}
	if !role.IsValid() {
		return nil, shared.NewValidationError("Role must be admin or member")
	}

	user := &User{
		BaseEntity: shared.NewBaseEntity(),
		Email:      email,
		Username:   username,
		FirstName:  strings.TrimSpace(firstName),
		LastName:   strings.TrimSpace(lastName),
		Role:       role,
	}
	if err := user.SetPassword(password); err != nil {
		return nil, err
	}

	return user, nil
}

// SetPassword validates and hashes a new password
func (u *User) SetPassword(password string) error {
	if err := validatePassword(password); err != nil {
		return err
	}

	hash, err := hashPassword(password)
	if err != nil {
		return err
	}

	u.PasswordHash = hash
	u.Touch()
	return nil
}

// ChangePassword replaces the password after verifying the current one
func (u *User) ChangePassword(currentPassword, newPassword string) error {
	if !u.VerifyPassword(currentPassword) {
		return shared.NewDomainError(shared.CodeIncorrectPassword, "Current password is incorrect")
	}
	return u.SetPassword(newPassword)
}

// VerifyPassword checks a plaintext password against the stored hash
func (u *User) VerifyPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// UpdateProfile sets the non-empty name fields and the avatar.
// Empty values leave the current value unchanged.
func (u *User) UpdateProfile(firstName, lastName, avatar string) error {
	if len(firstName) > 100 || len(lastName) > 100 {
		return shared.NewValidationError("Name cannot exceed 100 characters")
	}
	if len(avatar) > 500 {
		return shared.NewValidationError("Avatar URL cannot exceed 500 characters")
	}

	if v := strings.TrimSpace(firstName); v != "" {
		u.FirstName = v
	}
	if v := strings.TrimSpace(lastName); v != "" {
		u.LastName = v
	}
	if v := strings.TrimSpace(avatar); v != "" {
		u.Avatar = v
	}
	u.Touch()
	return nil
}

// PromoteToAdmin grants the global admin role
func (u *User) PromoteToAdmin() {
	u.Role = RoleAdmin
	u.Touch()
}

// IsAdmin reports whether the user holds the global admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// FullName returns "First Last", falling back to the username
func (u *User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}

// SuggestUsername derives a username of the form first_last, falling back to the
// local part of the email. The result always passes username validation when the
// email does.
func SuggestUsername(firstName, lastName, email string) string {
	candidate := sanitizeUsername(strings.Join(nonEmpty(firstName, lastName), "_"))
	if len(candidate) < 3 {
		local, _, _ := strings.Cut(email, "@")
		candidate = sanitizeUsername(local)
	}
	for len(candidate) < 3 {
		candidate += "_"
	}
	if len(candidate) > maxUsernameLength {
		candidate = candidate[:maxUsernameLength]
	}
	return candidate
}

// UsernameWithSuffix appends n to base for n > 1, trimming base so the result
// stays within the username length limit.
func UsernameWithSuffix(base string, n int) string {
	if n <= 1 {
		return base
	}
	suffix := strconv.Itoa(n)
	if len(base)+len(suffix) > maxUsernameLength {
		base = base[:maxUsernameLength-len(suffix)]
	}
	return base + suffix
}

func sanitizeUsername(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "_")
	return usernameStripper.ReplaceAllString(s, "")
}

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func toLower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func validateUsername(username string) error {
	if username == "" {
		return shared.NewValidationError("Username cannot be empty")
	}
	if len(username) < 3 {
		return shared.NewValidationError("Username must be at least 3 characters")
	}
	if len(username) > maxUsernameLength {
		return shared.NewValidationError("Username cannot exceed 100 characters")
	}
	if !usernameRegex.MatchString(username) {
		return shared.NewValidationError("Username can only contain letters, numbers, underscores, hyphens, and dots")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return shared.NewValidationError("Password must be at least 6 characters")
	}
	// bcrypt ignores everything past 72 bytes
	if len(password) > 72 {
		return shared.NewValidationError("Password cannot exceed 72 characters")
	}
	return nil
}

func validateEmail(email string) error {
	if len(email) > 200 {
		return shared.NewValidationError("Email cannot exceed 200 characters")
	}
	if !emailRegex.MatchString(email) {
		return shared.NewValidationError("Invalid email format")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
