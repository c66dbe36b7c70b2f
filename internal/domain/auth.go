package domain

// Identity is the authenticated principal reconstructed from a verified token.
// It reflects role assignments at issue time and goes stale if they change later.
type Identity struct {
	UID   int64    `json:"uid"`
	Roles []string `json:"roles"`
}

// NewIdentity builds an identity whose role list is never nil.
func NewIdentity(uid int64, roles []string) Identity {
	normalized := make([]string, 0, len(roles))
	for _, role := range roles {
		if role != "" {
			normalized = append(normalized, role)
		}
	}
	return Identity{UID: uid, Roles: normalized}
}

// ContactType identifies the channel an OTP is delivered over.
type ContactType string

const (
	ContactEmail ContactType = "email"
	ContactPhone ContactType = "phone"
)

// Contact addresses a user by email or phone number.
type Contact struct {
	Type  ContactType
	Value string
}
