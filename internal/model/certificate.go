package model

import (
	"time"
)

// Certificate is one issued certificate: the recipient metadata plus the
// name of the rasterized image stored for it. Records are immutable once
// inserted.
type Certificate struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	USN       string    `db:"usn"`
	College   string    `db:"college"`
	Type      string    `db:"type"`
	Date      string    `db:"date"`
	Hours     int       `db:"hours"`
	Filename  string    `db:"filename"`
	CreatedAt time.Time `db:"created_at"`
}
