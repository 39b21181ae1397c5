package schema

// RefAccountTable represents the 'users.account' table
type RefAccountTable struct {
	Table     string
	ID        string
	Username  string
	Email     string
	Role      string
	FirstName string
	LastName  string
	Bio       string
	CreatedAt string
	UpdatedAt string
}

// RefAccount is the schema definition for users.account
var RefAccount = RefAccountTable{
	Table:     "users.account",
	ID:        "id",
	Username:  "username",
	Email:     "email",
	Role:      "role",
	FirstName: "firstname",
	LastName:  "lastname",
	Bio:       "bio",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

func (t RefAccountTable) Columns() []string {
	return []string{t.ID, t.Username, t.Email, t.Role, t.FirstName, t.LastName, t.Bio, t.CreatedAt, t.UpdatedAt}
}
