package domain

import (
	"time"

	"gorm.io/gorm"

	"github.com/tair/smart-inventory/internal/authz"
)

// User represents a service account. Authentication happens outside
// the service; this table backs role assignment and auditing.
type User struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Username  string         `json:"username" gorm:"uniqueIndex;not null"`
	Email     string         `json:"email" gorm:"uniqueIndex;not null"`
	Password  string         `json:"-" gorm:"not null"` // Never expose password in JSON
	FullName  string         `json:"full_name"`
	Role      string         `json:"role" gorm:"not null;default:'employee'"`
	IsActive  bool           `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"` // Soft delete
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}

// ValidRole reports whether r is a known role.
func ValidRole(r string) bool {
	switch r {
	case authz.RoleEmployee, authz.RoleManager, authz.RoleAdmin:
		return true
	}
	return false
}

// UserRepository defines the contract for user data access
type UserRepository interface {
	Create(user *User) error
	FindByID(id uint) (*User, error)
	FindByUsername(username string) (*User, error)
	FindByEmail(email string) (*User, error)
	FindAll(limit, offset int) ([]User, error)
	Update(user *User) error
	Count() (int64, error)
}
