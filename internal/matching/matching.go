package matching

import "time"

// Rule maps a description fragment to a category for one user.
type Rule struct {
	ID        int64
	UserID    int64
	Pattern   string
	Category  string
	CreatedAt time.Time
}

type LearnParams struct {
	Pattern  string `validate:"required,max=255"`
	Category string `validate:"required,max=64"`
}
