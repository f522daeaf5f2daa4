package model

import "time"

// Engineer is a user directory record carrying the engineer role flag.
// The diary only reads the roster; account management lives elsewhere.
type Engineer struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email,omitempty"`
	IsEngineer bool      `json:"isEngineer"`
	CreatedAt  time.Time `json:"createdAt,omitempty"`
}
