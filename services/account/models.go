package account

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID             uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Name           string     `json:"name" gorm:"size:127;not null"`
	PasswordHash   string     `json:"-" gorm:"size:255;not null"`
	IsActive       bool       `json:"is_active" gorm:"not null;default:true"`
	IsStaff        bool       `json:"is_staff" gorm:"not null;default:false"`
	IsSuperuser    bool       `json:"is_superuser" gorm:"not null;default:false"`
	PrimaryEmailID *uuid.UUID `json:"primary_email_id,omitempty" gorm:"type:uuid;index"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

type Capability string

const (
	CapabilityAdmin     Capability = "admin"
	CapabilitySuperuser Capability = "superuser"
)

// HasCapability reports whether the user holds the capability. Inactive users hold none.
func (u *User) HasCapability(c Capability) bool {
	if u == nil || !u.IsActive {
		return false
	}
	switch c {
	case CapabilityAdmin:
		return u.IsStaff || u.IsSuperuser
	case CapabilitySuperuser:
		return u.IsSuperuser
	default:
		return u.IsSuperuser
	}
}

type Email struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Address    string    `json:"address" gorm:"size:254;uniqueIndex;not null"`
	UserID     uuid.UUID `json:"user_id" gorm:"type:uuid;index;not null"`
	User       *User     `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	IsVerified bool      `json:"is_verified" gorm:"not null;default:false"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Email) TableName() string {
	return "emails"
}

func (e *Email) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

func (e *Email) BeforeSave(tx *gorm.DB) error {
	e.Address = NormalizeAddress(e.Address)
	return nil
}

type EmailVerification struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	EmailID   uuid.UUID `json:"email_id" gorm:"type:uuid;index;not null"`
	Email     *Email    `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Token     string    `json:"-" gorm:"size:128;uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

func (EmailVerification) TableName() string {
	return "email_verifications"
}

func (v *EmailVerification) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

// Models lists every table owned by this package, in migration order.
func Models() []any {
	return []any{&User{}, &Email{}, &EmailVerification{}}
}
