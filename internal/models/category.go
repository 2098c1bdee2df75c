package models

import "time"

// Category kinds.
const (
	CategoryKindStock   = "stock"
	CategoryKindService = "service"
)

// Category is a flat classification label for stocks or services.
// Deleting a category does not reclassify entities already tagged with it.
type Category struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Kind      string    `gorm:"size:10;not null;index:idx_kind_name,unique,priority:1" json:"kind"`
	Name      string    `gorm:"size:60;not null;index:idx_kind_name,unique,priority:2" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
