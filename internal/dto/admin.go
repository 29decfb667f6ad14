package dto

import "time"

// LoginRequest is the admin sign-in payload.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SessionResponse describes an authenticated admin session. The token is
// only present in the login response; subsequent requests echo the
// session without it.
type SessionResponse struct {
	Token     string    `json:"token,omitempty"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	Role      string    `json:"role"`
	LoginTime time.Time `json:"login_time"`
	ExpiresAt time.Time `json:"expires_at"`
}
