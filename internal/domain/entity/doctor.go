package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Doctor is a directory record together with its recurring weekly availability
type Doctor struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name           string          `gorm:"type:varchar(255);not null;index" json:"name"`
	Specialty      string          `gorm:"type:varchar(100);not null;index" json:"specialty"`
	Fee            decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"fee"`
	AvailableDays  StringList      `gorm:"type:jsonb;not null;default:'[]'" json:"available_days"`
	AvailableTimes StringList      `gorm:"type:jsonb;not null;default:'[]'" json:"available_times"`
	IsActive       *bool           `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Doctor) TableName() string {
	return "doctors"
}

// Active reports whether the doctor is accepting bookings
func (d *Doctor) Active() bool {
	return d.IsActive == nil || *d.IsActive
}

// StringList is a string slice stored as a JSONB array
type StringList []string

// Value returns json value, implement driver.Valuer interface
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan scan value into StringList, implements sql.Scanner interface
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New(fmt.Sprint("Failed to unmarshal JSONB string list:", value))
	}

	var result []string
	if err := json.Unmarshal(bytes, &result); err != nil {
		return err
	}
	*l = StringList(result)
	return nil
}
