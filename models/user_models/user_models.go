package user_models

import (
	"golang.org/x/crypto/bcrypt"
)

// User is an account holder: either a renting customer or an admin.
// Admins carry an AdminID in addition to the flag.
type User struct {
	ID          int64  `json:"id"`
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"-"` // bcrypt hash, never serialized
	IsAdmin     bool   `json:"isAdmin"`
	AdminID     string `json:"adminId,omitempty"`
	IsBlocked   bool   `json:"isBlocked"`
}

// HashPassword hashes a plaintext password with bcrypt.
func HashPassword(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword compares a plaintext password against the stored hash.
func (u *User) CheckPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plain)) == nil
}

// PublicView strips fields that must not leave the server.
func (u *User) PublicView() map[string]interface{} {
	view := map[string]interface{}{
		"id":          u.ID,
		"fullName":    u.FullName,
		"email":       u.Email,
		"phoneNumber": u.PhoneNumber,
		"isAdmin":     u.IsAdmin,
		"isBlocked":   u.IsBlocked,
	}
	if u.AdminID != "" {
		view["adminId"] = u.AdminID
	}
	return view
}
