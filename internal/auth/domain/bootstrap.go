package domain

// BootstrapData describes the first elevated identity.
type BootstrapData struct {
	Email    string
	Password string
	Name     string
}
