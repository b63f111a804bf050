package entity

import "time"

// Tipos de notificación.
const (
	NotificationTypeSystemAlert = "SYSTEM_ALERT"
)

// Notification aviso para un usuario. Inmutable salvo el flag Read.
type Notification struct {
	ID        string
	UserID    string
	Type      string
	Title     string
	Message   string
	Link      string
	Read      bool
	CreatedAt time.Time
}
