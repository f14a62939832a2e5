package client

import (
	"time"
)

type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Username  *string   `json:"username"`
	FirstName *string   `json:"first_name"`
	LastName  *string   `json:"last_name"`
	Phone     *string   `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}

// DisplayName is the user's first name, username or email, in that order.
func (u *User) DisplayName() string {
	switch {
	case u.FirstName != nil && *u.FirstName != "":
		return *u.FirstName
	case u.Username != nil && *u.Username != "":
		return *u.Username
	}

	return u.Email
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ProfileUpdate struct {
	Username  *string `json:"username,omitempty"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Phone     *string `json:"phone,omitempty"`
}

type Account struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	Institution string    `json:"institution"`
	Number      string    `json:"number"`
	Balance     float64   `json:"balance"`
	LastUpdated time.Time `json:"last_updated"`
	CreatedAt   time.Time `json:"created_at"`
}

type NewAccount struct {
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	Institution string  `json:"institution,omitempty"`
	Number      string  `json:"number,omitempty"`
	Balance     float64 `json:"balance"`
}

type Transaction struct {
	ID          int64     `json:"id"`
	AccountID   int64     `json:"account_id"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	Date        time.Time `json:"date"`
	Category    *string   `json:"category"`
	CreatedAt   time.Time `json:"created_at"`
}

type NewTransaction struct {
	AccountID   int64   `json:"account_id"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	// Date is YYYY-MM-DD or RFC 3339.
	Date     string  `json:"date"`
	Category *string `json:"category,omitempty"`
}

// Filter narrows transaction listings, reports and exports. Zero fields are
// not sent.
type Filter struct {
	Start    time.Time
	End      time.Time
	Category string
}

type Rule struct {
	ID        int64     `json:"id"`
	Pattern   string    `json:"pattern"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
}

type ImportResult struct {
	Imported     int           `json:"imported"`
	Format       string        `json:"format"`
	Charset      string        `json:"charset"`
	Transactions []Transaction `json:"transactions"`
}

type CategoryTotal struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
	Percent  float64 `json:"percent"`
	Count    int     `json:"count"`
}

type MonthTotal struct {
	Month    string  `json:"month"`
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
}

type Summary struct {
	Income      float64         `json:"income"`
	Expenses    float64         `json:"expenses"`
	Net         float64         `json:"net"`
	SavingsRate float64         `json:"savings_rate"`
	Count       int             `json:"count"`
	Categories  []CategoryTotal `json:"categories"`
	Months      []MonthTotal    `json:"months"`
}
