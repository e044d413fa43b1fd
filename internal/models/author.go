package models

import "strings"

type Author struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (a Author) DisplayName() string {
	name := strings.TrimSpace(a.FirstName + " " + a.LastName)
	switch {
	case name != "":
		return name
	case a.Username != "":
		return a.Username
	default:
		return a.Email
	}
}
