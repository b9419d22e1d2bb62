package models

// Credentials contains the username and password exchanged for a token
type Credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UserRegister is the payload of a self registration
type UserRegister struct {
	Username  string `json:"username" validate:"required,min=1,max=25"`
	Password  string `json:"password" validate:"required,min=5,max=20"`
	FirstName string `json:"firstName" validate:"required,min=1,max=30"`
	LastName  string `json:"lastName" validate:"required,min=1,max=30"`
	Email     string `json:"email" validate:"required,min=6,max=60,email"`
}

// AuthTokenResponse contains the token to be sent as a bearer token on later requests
type AuthTokenResponse struct {
	Token string `json:"token"`
}
