package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt cost for user passwords
const passwordHashCost = 12

type User struct {
	ID          uint   `gorm:"primaryKey"`
	Username    string `gorm:"size:75;uniqueIndex;not null"`
	Email       string `gorm:"size:75;uniqueIndex"`
	Password    string `gorm:"size:128;not null"` // bcrypt digest, never plaintext
	Name        string `gorm:"size:30"`
	IsSuperuser bool   `gorm:"not null;default:false"`
	IsStaff     bool   `gorm:"not null;default:false"`
	IsActive    bool   `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (User) TableName() string {
	return "users"
}

// SetPassword replaces the stored digest with a bcrypt hash of raw.
func (u *User) SetPassword(raw string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(raw), passwordHashCost)
	if err != nil {
		return err
	}
	u.Password = string(hash)
	return nil
}

// VerifyPassword reports whether raw matches the stored digest.
func (u *User) VerifyPassword(raw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(raw)) == nil
}
