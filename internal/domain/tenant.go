package domain

import "time"

// Tenant scopes all POS data; every API route is addressed by tenant key.
type Tenant struct {
	ID        string    `json:"id"`
	Key       string    `json:"key"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}
