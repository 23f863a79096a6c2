// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer free
// from ORM concerns.
//
// Structure:
//   - base.go: BaseModel shared by every table
//   - user.go: users
//   - team.go: teams and team_members
//   - task.go: tasks, with creator and assignee associations
//   - invitation.go: invitations
//
// Column layout matches the SQL files under migrations/; All() feeds AutoMigrate
// for SQLite development databases and tests.
package models
