package database

import (
	"time"
)

// ShoppingList is a user's saved list
type ShoppingList struct {
	ID        string    `json:"id"`      // UUID
	UserID    string    `json:"user_id"` // Owner
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// ShoppingListItem is one line of a saved list
type ShoppingListItem struct {
	ProductID  string `json:"product_id"`  // Optional FK to products.id
	CustomName string `json:"custom_name"` // Free text when no catalog product is linked
	Quantity   int    `json:"quantity"`
}
