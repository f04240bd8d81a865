package dto

// ChallengeResponse is an arithmetic challenge the client must answer on
// the auth forms.
type ChallengeResponse struct {
	ID       string `json:"id"`
	Question string `json:"question"`
}

// RegisterRequest captures a new account signup.
type RegisterRequest struct {
	Name            string `json:"name" validate:"required,min=2"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	Role            string `json:"role" validate:"required,oneof=TEACHER PRINCIPAL OFFICIAL OTHER"`
	Avatar          string `json:"avatar"`
	ChallengeID     string `json:"challenge_id" validate:"required"`
	ChallengeAnswer string `json:"challenge_answer" validate:"required"`
}

// LoginRequest captures an email/password sign-in. The selected role must
// match the stored profile.
type LoginRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required"`
	Role            string `json:"role" validate:"required,oneof=TEACHER PRINCIPAL OFFICIAL OTHER"`
	ChallengeID     string `json:"challenge_id" validate:"required"`
	ChallengeAnswer string `json:"challenge_answer" validate:"required"`
}

// OAuthLoginRequest captures an identity-provider federated sign-in.
type OAuthLoginRequest struct {
	IDToken string `json:"id_token" validate:"required"`
	Role    string `json:"role" validate:"required,oneof=TEACHER PRINCIPAL OFFICIAL OTHER"`
}

// ResendVerificationRequest asks for a fresh verification email for the
// session the provider issued the token to.
type ResendVerificationRequest struct {
	IDToken string `json:"id_token" validate:"required"`
}

// ForgotPasswordRequest triggers a password-reset email.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// AuthResponse carries the issued API token and the profile it belongs to.
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
