package auth

import (
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
)

// DefaultPrincipalHeader is the header set by the hosting platform's
// authentication front end.
const DefaultPrincipalHeader = "X-MS-CLIENT-PRINCIPAL"

// ClientPrincipal is the decoded payload of the principal header.
type ClientPrincipal struct {
	IdentityProvider string   `json:"identityProvider"`
	UserID           string   `json:"userId"`
	UserDetails      string   `json:"userDetails"`
	UserRoles        []string `json:"userRoles"`
}

// PrincipalResolver reads the owner from a base64-encoded JSON principal header.
type PrincipalResolver struct {
	header string
}

// NewPrincipalResolver returns a resolver for the given header name.
// An empty name selects DefaultPrincipalHeader.
func NewPrincipalResolver(header string) *PrincipalResolver {
	if header == "" {
		header = DefaultPrincipalHeader
	}
	return &PrincipalResolver{header: header}
}

// ResolveOwner implements OwnerResolver. The owner is the principal's userId,
// falling back to userDetails.
func (p *PrincipalResolver) ResolveOwner(r *http.Request) (string, bool) {
	raw := strings.TrimSpace(r.Header.Get(p.header))
	if raw == "" {
		return "", false
	}

	principal, err := DecodePrincipal(raw)
	if err != nil {
		slog.Debug("Ignoring undecodable client principal", "error", err)
		return "", false
	}

	if owner := strings.TrimSpace(principal.UserID); owner != "" {
		return owner, true
	}
	if owner := strings.TrimSpace(principal.UserDetails); owner != "" {
		return owner, true
	}
	return "", false
}

// DecodePrincipal decodes a base64 JSON principal.
func DecodePrincipal(raw string) (*ClientPrincipal, error) {
	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		// some proxies strip padding
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(raw, "="))
		if err != nil {
			return nil, err
		}
	}

	var principal ClientPrincipal
	if err := json.Unmarshal(data, &principal); err != nil {
		return nil, err
	}
	return &principal, nil
}

// EncodePrincipal is the inverse of DecodePrincipal.
func EncodePrincipal(principal ClientPrincipal) (string, error) {
	data, err := json.Marshal(principal)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}
