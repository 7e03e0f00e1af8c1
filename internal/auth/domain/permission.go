package domain

// Permission is seed data: created by migration, read everywhere else.
type Permission struct {
	ID     string
	Name   string // e.g. "role_edit"
	Label  string
	Module string
}
