package domain

import "time"

// Well-known permission names consumed by the core operations.
const (
	PermSessionManage  = "session.manage"
	PermSessionConfirm = "session.confirm"
	PermLoanManage     = "loan.manage"
	PermPaymentRecord  = "payment.record"
	PermLedgerManage   = "ledger.manage"
)

// AdminRole grants every permission implicitly.
const AdminRole = "Admin"

// User is the stored identity record. Role and permission CRUD is handled
// elsewhere; the core only reads the resolved permission set.
type User struct {
	UserID       int64     `json:"userID"`
	Username     string    `json:"username"`
	DisplayName  string    `json:"displayName"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Status       string    `json:"status"` // ACTIVE / INACTIVE
	Roles        []string  `json:"roles"`
	Permissions  []string  `json:"permissions"`
	CreatedAt    time.Time `json:"createdAt"`
}

// CallerIdentity is the resolved identity attached to every request after
// credential validation. The permission set is precomputed at login so no
// operation re-walks the role/permission graph.
type CallerIdentity struct {
	UserID      int64    `json:"userID"`
	Username    string   `json:"username"`
	Roles       []string `json:"roles"`
	Permissions []string `json:"permissions"`
}

// IsAdmin reports whether the caller holds the administrative role.
func (c CallerIdentity) IsAdmin() bool {
	for _, r := range c.Roles {
		if r == AdminRole {
			return true
		}
	}
	return false
}

// HasPermission reports whether permission p is granted to the caller,
// either directly or via the administrative override.
func (c CallerIdentity) HasPermission(p string) bool {
	if c.IsAdmin() {
		return true
	}
	for _, granted := range c.Permissions {
		if granted == p {
			return true
		}
	}
	return false
}
