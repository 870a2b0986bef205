package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DefaultEventCapacity is used when an event is created without a capacity.
const DefaultEventCapacity = 100

// Event is a capacity-bounded resource that users can book.
type Event struct {
	ID          uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey" swaggertype:"string" format:"uuid"`
	Name        string          `json:"name" gorm:"size:255;not null;index"`
	Date        time.Time       `json:"date" gorm:"not null;index"`
	Description string          `json:"description,omitempty" gorm:"type:text"`
	Category    string          `json:"category,omitempty" gorm:"size:100;index"`
	Location    string          `json:"location,omitempty" gorm:"size:255"`
	Image       string          `json:"image,omitempty" gorm:"size:512"`
	Tags        string          `json:"tags,omitempty" gorm:"size:512"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null;default:0" swaggertype:"string"`
	Capacity    int             `json:"capacity" gorm:"not null;default:100"`
	BookedCount int             `json:"bookedCount" gorm:"not null;default:0"`
	IsActive    bool            `json:"isActive" gorm:"not null;default:true;index"`
	AgentID     uuid.UUID       `json:"agentId" gorm:"type:char(36);not null;index" swaggertype:"string" format:"uuid"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	// Relations
	Agent *User `json:"agent,omitempty" gorm:"foreignKey:AgentID"`
}

// BeforeCreate sets UUID and default capacity before creating the record.
func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.Capacity <= 0 {
		e.Capacity = DefaultEventCapacity
	}
	return nil
}

// Full reports whether no seats are left.
func (e *Event) Full() bool {
	return e.BookedCount >= e.Capacity
}

// OwnedBy reports whether the event was created by the given agent.
func (e *Event) OwnedBy(agentID uuid.UUID) bool {
	return e.AgentID == agentID
}

// EventFilter narrows event listings. Zero values are ignored.
type EventFilter struct {
	Category string
	Search   string
	Location string
	FromDate *time.Time
	ToDate   *time.Time
}
