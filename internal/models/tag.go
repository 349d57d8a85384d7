package models

import "time"

// DefaultTagColor is assigned when a tag is created without a color.
const DefaultTagColor = "#3498db"

// Tag is a user-defined label attached to any number of the same user's transactions.
type Tag struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Color       string    `json:"color"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TagWithTransactions is a tag together with every transaction it is attached to.
type TagWithTransactions struct {
	Tag
	Transactions []Transaction `json:"transactions"`
}
