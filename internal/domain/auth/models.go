package auth

import "time"

type AuthUser struct {
	ID           string
	Name         string
	Email        string
	Role         string
	PasswordHash string
	MFAEnabled   bool
	MFASecretEnc []byte
}

type Profile struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Role       string     `json:"role"`
	Department string     `json:"department"`
	Position   string     `json:"position"`
	MFAEnabled bool       `json:"mfaEnabled"`
	LastLogin  *time.Time `json:"lastLogin,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

type ProfileUpdate struct {
	Name       *string
	Department *string
	Position   *string
}

type LoginResult struct {
	Token   string    `json:"token"`
	User    Profile   `json:"user"`
	Expires time.Time `json:"expiresAt"`
}

type MFASetup struct {
	Secret string `json:"secret"`
	URL    string `json:"otpauthUrl"`
}
