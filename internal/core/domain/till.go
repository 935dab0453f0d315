package domain

// Till is a physical cash point. Created by configuration, referenced by
// register sessions and never deleted while sessions point at it.
type Till struct {
	TillID         int64  `json:"tillID"`
	Description    string `json:"description"`
	ExpeditionCode int    `json:"expeditionCode"` // unique external numbering code
	Status         string `json:"status"`
}

// Branch is the business location a session is opened under.
type Branch struct {
	BranchID int64  `json:"branchID"`
	Name     string `json:"name"`
}
