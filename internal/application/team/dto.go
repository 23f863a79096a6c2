package team

// CreateTeamInput carries the fields of a new team
type CreateTeamInput struct {
	Name string
}
