package models

// UserModel is the persistence model for a user account. Authentication
// lives in an external identity provider; this row anchors foreign keys and
// carries the claims the token service embeds.
type UserModel struct {
	BaseModel
	Email    string `gorm:"type:varchar(255);not null;uniqueIndex"`
	Name     string `gorm:"type:varchar(100);not null"`
	IsActive bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}
