package auth

import (
	"catalyst/internal/models"
)

const (
	fillAllFieldsTitle   = "Error"
	fillAllFieldsMessage = "Please fill in all fields"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	// SignUp only changes the wording of the result.
	SignUp bool `json:"signUp"`
}

type LoginResponse struct {
	User    models.User
	Title   string
	Message string
}

// Authenticator accepts any non-empty email and password pair.
// No credentials are stored or checked.
type Authenticator struct{}

func NewAuthenticator() *Authenticator {
	return &Authenticator{}
}

func (a *Authenticator) Login(req LoginRequest) (LoginResponse, error) {
	if req.Email == "" || req.Password == "" {
		field := "email"
		if req.Email != "" {
			field = "password"
		}
		return LoginResponse{}, models.NewValidationError(field, fillAllFieldsTitle, fillAllFieldsMessage)
	}

	message := "Welcome back!"
	if req.SignUp {
		message = "Account created successfully!"
	}

	return LoginResponse{
		User:    models.User{Email: req.Email},
		Title:   "Success",
		Message: message,
	}, nil
}
