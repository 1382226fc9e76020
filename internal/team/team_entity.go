package team

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Team struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"type:varchar(100);not null;uniqueIndex:uq_teams_name"`
	Specialty string    `gorm:"type:varchar(100)"`
	ManagerID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_teams_manager"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// ManagedBy reports whether userID manages this team.
func (t *Team) ManagedBy(userID string) bool {
	return t != nil && t.ManagerID.String() == userID
}
