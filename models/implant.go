package models

import "time"

// Implant is a remote agent identity. Registration happens at first check-in;
// the operator surface only reads and reconfigures implants.
type Implant struct {
	ImplantID string    `json:"implant_id" gorm:"primaryKey;size:255"`
	Profile   JSONMap   `json:"profile" gorm:"type:text"`
	LastSeen  time.Time `json:"last_seen"`
	Killed    bool      `json:"killed" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}
