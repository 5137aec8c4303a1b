package models

import (
	"database/sql"
	"time"
)

// Client is a registered mobile device
type Client struct {
	ID        int            `db:"id"`
	PushToken sql.NullString `db:"push_token"`
	CreatedAt time.Time      `db:"created_at"`
}
