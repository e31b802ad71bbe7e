package model

// Role of the party performing an operation.
type Role string

const (
	RoleEnterprise Role = "enterprise"
	RoleAdmin      Role = "admin"
	RoleInvestor   Role = "investor"
	RoleSystem     Role = "system" // scheduler-driven transitions
)

// Actor identifies who is performing an operation. Every mutating
// operation takes one explicitly; there is no ambient current user.
type Actor struct {
	Role Role  `json:"role"`
	Id   int64 `json:"id"`
}

// SystemActor is the actor used by scheduled jobs.
var SystemActor = Actor{Role: RoleSystem}
