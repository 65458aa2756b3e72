package domain

import "fmt"

// DatabaseProfile is a named set of PostgreSQL connection settings.
type DatabaseProfile struct {
	Name     string
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// DSN returns the lib/pq connection string for the profile.
func (p DatabaseProfile) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

func (p DatabaseProfile) String() string {
	return fmt.Sprintf("%s:%s@%s:%d/%s", p.Name, p.User, p.Host, p.Port, p.Database)
}
