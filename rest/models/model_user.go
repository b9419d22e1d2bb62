package models

import "github.com/jobly/jobly-api/types"

// UserNew is the payload used by administrators to create a user
type UserNew struct {
	UserRegister
	IsAdmin bool `json:"isAdmin"`
}

type UserResponse struct {
	User interface{} `json:"user"`
}

// UserTokenResponse is returned when an administrator creates a user
type UserTokenResponse struct {
	User  *types.User `json:"user"`
	Token string      `json:"token"`
}

type UsersResponse struct {
	Users []types.User `json:"users"`
}

// AppliedResponse reports the id of the job applied to, as a string
type AppliedResponse struct {
	Applied string `json:"applied"`
}

type DeletedResponse struct {
	Deleted string `json:"deleted"`
}
