package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Booking joins a user to an event. The (user, event) pair is unique.
type Booking struct {
	ID        uuid.UUID `json:"id" gorm:"type:char(36);primaryKey" swaggertype:"string" format:"uuid"`
	UserID    uuid.UUID `json:"userId" gorm:"type:char(36);not null;uniqueIndex:idx_booking_user_event" swaggertype:"string" format:"uuid"`
	EventID   uuid.UUID `json:"eventId" gorm:"type:char(36);not null;uniqueIndex:idx_booking_user_event;index" swaggertype:"string" format:"uuid"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	User  *User  `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Event *Event `json:"event,omitempty" gorm:"foreignKey:EventID"`
}

// BeforeCreate sets UUID before creating the record.
func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
