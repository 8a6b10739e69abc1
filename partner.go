package warehouse

import (
	"fmt"
	"strings"
)

// Role tells whether a partner sends goods to the warehouse, receives them, or both.
type Role string

const (
	Supplier Role = "SUPPLIER"
	Customer Role = "CUSTOMER"
	Both     Role = "BOTH"
)

// ParseRole parses a role name, case-insensitively.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToUpper(strings.TrimSpace(s))); r {
	case Supplier, Customer, Both:
		return r, nil
	}
	return "", fmt.Errorf("unknown partner role %q, want one of SUPPLIER, CUSTOMER, BOTH", s)
}

// Partner is a supplier or a customer of the warehouse.
type Partner struct {
	ID      string `json:"id" validate:"required"`
	Name    string `json:"name" validate:"required"`
	Contact string `json:"contact,omitempty"`
	Role    Role   `json:"type" validate:"role"`
	Address string `json:"address,omitempty"`
	Note    string `json:"note,omitempty"`
}
