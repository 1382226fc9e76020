package employee

import (
	"time"

	"rh-management/internal/balance"
	"rh-management/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Employee is the ledger-facing view of a users row. Only roles that own
// balances are ever loaded through it.
type Employee struct {
	ID               uuid.UUID   `gorm:"column:id;type:uuid;primaryKey"`
	FirstName        string      `gorm:"column:first_name"`
	LastName         string      `gorm:"column:last_name"`
	Email            string      `gorm:"column:email"`
	Role             domain.Role `gorm:"column:role"`
	IsActive         bool        `gorm:"column:is_active"`
	HireDate         *time.Time  `gorm:"column:hire_date;type:date"`
	TeamID           *uuid.UUID  `gorm:"column:team_id;type:uuid"`
	LastAccrualMonth *string     `gorm:"column:last_accrual_month"`
	balance.Ledger   `gorm:"embedded"`
	DeletedAt        gorm.DeletedAt `gorm:"column:deleted_at"`
}

func (Employee) TableName() string {
	return "users"
}

func (e Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

func (e Employee) Actor() domain.Actor {
	return domain.Actor{ID: e.ID.String(), Role: e.Role}
}
