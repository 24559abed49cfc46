package sessions

// Identity is the immutable identity bound to an issued token. It is produced once
// per successful login and copied by value into every registry entry.
type Identity struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Role     string `json:"role"`
}
