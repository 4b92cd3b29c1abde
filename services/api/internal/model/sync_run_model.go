package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SyncRunModel struct {
	ID                string                      `gorm:"type:uuid;primary_key" json:"id"`
	Kind              string                      `gorm:"type:varchar(20);not null" json:"kind"`
	Status            string                      `gorm:"type:varchar(20);not null" json:"status"`
	RecordsProcessed  int                         `gorm:"default:0" json:"records_processed"`
	RecordsSuccessful int                         `gorm:"default:0" json:"records_successful"`
	RecordsFailed     int                         `gorm:"default:0" json:"records_failed"`
	Errors            datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"errors"`
	StartedAt         time.Time                   `gorm:"index" json:"started_at"`
	FinishedAt        *time.Time                  `json:"finished_at"`
	DurationMS        int64                       `gorm:"column:duration_ms;default:0" json:"duration_ms"`
}

func (SyncRunModel) TableName() string {
	return "erp_sync_runs"
}

func (r *SyncRunModel) BeforeCreate(tx *gorm.DB) error {
	newID(&r.ID)
	return nil
}
