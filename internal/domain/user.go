package domain

// User is the account stub. Username is unique across the store.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Password string `json:"-"`
}

// NewUser holds the caller supplied fields of a User.
type NewUser struct {
	Username string
	Password string
}
