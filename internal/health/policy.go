package health

import (
	"fmt"

	"github.com/feral-file/ff-events/internal/domain"
)

// Authority names the layer whose value wins when a field diverges
type Authority string

const (
	AuthorityLedger   Authority = "ledger"
	AuthorityDatabase Authority = "database"
)

// FieldPolicy maps divergent fields to the layer that is authoritative for them
type FieldPolicy map[string]Authority

// DefaultFieldPolicy treats the ledger as the source of truth for financial and ownership facts.
// Presentation fields the ledger does not track stay with the database.
func DefaultFieldPolicy() FieldPolicy {
	return FieldPolicy{
		domain.FieldTicketPrice:        AuthorityLedger,
		domain.FieldMaxCapacity:        AuthorityLedger,
		domain.FieldCreatorID:          AuthorityLedger,
		domain.FieldStatus:             AuthorityLedger,
		domain.FieldExistence:          AuthorityLedger,
		domain.FieldContentMetadataRef: AuthorityLedger,
		"title":                        AuthorityDatabase,
		"description":                  AuthorityDatabase,
		"location":                     AuthorityDatabase,
		"category":                     AuthorityDatabase,
		"tags":                         AuthorityDatabase,
		"view_count":                   AuthorityDatabase,
		"visibility":                   AuthorityDatabase,
	}
}

// ParseFieldPolicy builds a policy from configuration, overriding the defaults
func ParseFieldPolicy(overrides map[string]string) (FieldPolicy, error) {
	policy := DefaultFieldPolicy()
	for field, value := range overrides {
		switch Authority(value) {
		case AuthorityLedger, AuthorityDatabase:
			policy[field] = Authority(value)
		default:
			return nil, fmt.Errorf("invalid authority %q for field %s", value, field)
		}
	}
	return policy, nil
}

// Authority returns the winning layer of a field. Unknown fields are left to the database.
func (p FieldPolicy) Authority(field string) Authority {
	if a, ok := p[field]; ok {
		return a
	}
	return AuthorityDatabase
}
