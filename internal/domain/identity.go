package domain

// IdentityKind discriminates the two credential holders. Resolved once at
// the authorization boundary; handlers and services never re-inspect token
// shapes.
type IdentityKind string

const (
	IdentityUser   IdentityKind = "user"
	IdentityVendor IdentityKind = "vendor"
)

type Identity struct {
	Kind IdentityKind `json:"kind"`
	ID   uint64       `json:"id"`
}

func (i Identity) IsUser() bool   { return i.Kind == IdentityUser }
func (i Identity) IsVendor() bool { return i.Kind == IdentityVendor }
