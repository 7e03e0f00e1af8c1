package gen

import (
	"database/sql"
	"time"
)

type Identity struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	RoleID       sql.NullString
	Type         string
	Suspended    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Permission struct {
	ID        string
	Name      string
	Label     string
	Module    string
	CreatedAt time.Time
}

type RefreshToken struct {
	ID         int64
	IdentityID string
	Token      string
	ExpiresAt  int64
	CreatedAt  time.Time
}

type Role struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type RolePermission struct {
	RoleID       string
	PermissionID string
}

type Setting struct {
	ID           int64
	SiteName     string
	PrimaryColor string
	UpdatedAt    time.Time
}
