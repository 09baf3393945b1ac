package auth

import "strings"

// Policy decides who may use the admin board. Earlier revisions hardcoded
// the owner's email in the client; the allowlist now comes from
// configuration and is evaluated once per request, surfacing as a plain
// boolean capability everywhere else.
type Policy struct {
	admins map[string]struct{}
}

func NewPolicy(adminEmails []string) *Policy {
	admins := make(map[string]struct{}, len(adminEmails))
	for _, e := range adminEmails {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" {
			admins[e] = struct{}{}
		}
	}
	return &Policy{admins: admins}
}

func (p *Policy) IsAdmin(id Identity) bool {
	if id.IsGuest() {
		return false
	}
	_, ok := p.admins[strings.ToLower(id.Email)]
	return ok
}
