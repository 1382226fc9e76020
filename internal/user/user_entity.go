package user

import (
	"time"

	"rh-management/internal/balance"
	"rh-management/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a single row for every kind of account. Role selects which of
// the optional profile bundles is meaningful.
type User struct {
	ID        uuid.UUID   `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	FirstName string      `gorm:"column:first_name;type:varchar(100);not null"`
	LastName  string      `gorm:"column:last_name;type:varchar(100);not null"`
	Cin       string      `gorm:"column:cin;type:varchar(30);not null;uniqueIndex:uq_users_cin"`
	Email     string      `gorm:"column:email;type:text;not null;uniqueIndex:uq_users_email"`
	Password  string      `gorm:"column:password;type:text;not null"`
	Picture   *string     `gorm:"column:picture;type:text"`
	Role      domain.Role `gorm:"column:role;type:varchar(20);not null;index"`
	IsActive  bool        `gorm:"column:is_active;default:true"`

	Admin      AdminProfile   `gorm:"embedded"`
	HR         HRProfile      `gorm:"embedded"`
	Manager    ManagerProfile `gorm:"embedded"`
	Employment Employment     `gorm:"embedded"`

	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

type AdminProfile struct {
	Department  *string `gorm:"column:department;type:varchar(100)"`
	AccessLevel *string `gorm:"column:access_level;type:varchar(50)"`
}

type HRProfile struct {
	Specialization *string `gorm:"column:specialization;type:varchar(100)"`
	Certification  *string `gorm:"column:certification;type:varchar(100)"`
}

type ManagerProfile struct {
	ManagementLevel   *string `gorm:"column:management_level;type:varchar(50)"`
	YearsOfExperience *int    `gorm:"column:years_of_experience"`
}

// Employment is carried by every role that owns a leave ledger.
type Employment struct {
	HireDate         *time.Time `gorm:"column:hire_date;type:date"`
	TeamID           *uuid.UUID `gorm:"column:team_id;type:uuid;index"`
	LastAccrualMonth *string    `gorm:"column:last_accrual_month;type:char(7)"`
	balance.Ledger   `gorm:"embedded"`
}

func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}
