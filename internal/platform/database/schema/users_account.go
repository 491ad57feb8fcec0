package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table      string
	ID         string
	Username   string
	Email      string
	Role       string
	CardSerial string
	IsActive   string
	CreatedAt  string
	UpdatedAt  string
	DeletedAt  string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:      "users.account",
	ID:         "id",
	Username:   "username",
	Email:      "email",
	Role:       "role",
	CardSerial: "cardserial",
	IsActive:   "isactive",
	CreatedAt:  "createdat",
	UpdatedAt:  "updatedat",
	DeletedAt:  "deletedat",
}

// Columns returns all standard column names
func (t UserAccountTable) Columns() []string {
	return []string{
		t.ID, t.Username, t.Email, t.Role, t.CardSerial,
		t.IsActive, t.CreatedAt, t.UpdatedAt, t.DeletedAt,
	}
}

// UserProfileTable represents the 'users.profile' table
type UserProfileTable struct {
	Table      string
	ID         string
	UserID     string
	Type       string
	CardSerial string
	CreatedAt  string
}

// UserProfile is the schema definition for users.profile
var UserProfile = UserProfileTable{
	Table:      "users.profile",
	ID:         "id",
	UserID:     "userid",
	Type:       "type",
	CardSerial: "cardserial",
	CreatedAt:  "createdat",
}

// UserAttributeTable represents the 'users.attribute' table
type UserAttributeTable struct {
	Table     string
	UserID    string
	Name      string
	Value     string
	UpdatedAt string
}

// UserAttribute is the schema definition for users.attribute
var UserAttribute = UserAttributeTable{
	Table:     "users.attribute",
	UserID:    "userid",
	Name:      "name",
	Value:     "value",
	UpdatedAt: "updatedat",
}

// UserRoleTable represents the 'users.role' table
type UserRoleTable struct {
	Table  string
	UserID string
	Role   string
}

// UserRole is the schema definition for users.role
var UserRole = UserRoleTable{
	Table:  "users.role",
	UserID: "userid",
	Role:   "role",
}
