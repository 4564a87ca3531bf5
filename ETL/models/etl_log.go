package models

import (
	"time"
)

// Статусы запуска ETL
const (
	RunStatusSuccess = "success"
	RunStatusFailed  = "failed"
)

// ETLRunLog представляет запись журнала о запуске ETL процесса.
// Журнал только дополняется: одна строка на запуск, записывается по завершении
type ETLRunLog struct {
	RunID               string    `json:"run_id"`
	SourceFile          string    `json:"source_file"`
	StartTime           time.Time `json:"start_time"`
	EndTime             time.Time `json:"end_time"`
	Status              string    `json:"status"`
	RowsRead            int       `json:"rows_read"`
	NotificationsLoaded int       `json:"notifications_loaded"`
	ErrorMessage        string    `json:"error_message,omitempty"`
}

// ExecutionTimeSeconds возвращает длительность запуска в секундах
func (l ETLRunLog) ExecutionTimeSeconds() float64 {
	return l.EndTime.Sub(l.StartTime).Seconds()
}
