// Package cli implements the taskctl operator commands.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/taskflow/backend/internal/domain/identity"
)

// UserAdmin promotes users to the global admin role
type UserAdmin interface {
	MakeAdmin(ctx context.Context, email string) (*identity.User, error)
}

// InvitationPurger deletes invitations past their expiry
type InvitationPurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// Services are the application services the commands drive
type Services struct {
	Users       UserAdmin
	Invitations InvitationPurger
}

// Opener connects to the backing stores on first use and returns a cleanup func.
// Commands open lazily so that help and usage never touch the database.
type Opener func(ctx context.Context) (Services, func(), error)

// NewRootCommand builds the taskctl command tree
func NewRootCommand(open Opener) *cobra.Command {
	root := &cobra.Command{
		Use:           "taskctl",
		Short:         "TaskFlow operator commands",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newMakeAdminCommand(open))
	root.AddCommand(newInvitationsCommand(open))
	return root
}

func newMakeAdminCommand(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "make-admin <email>",
		Short: "Grant the global admin role to a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			services, closeFn, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			user, err := services.Users.MakeAdmin(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("make-admin %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s) is now an admin\n", user.Email, user.Username)
			return nil
		},
	}
}

func newInvitationsCommand(open Opener) *cobra.Command {
	invitations := &cobra.Command{
		Use:   "invitations",
		Short: "Manage team invitations",
	}

	invitations.AddCommand(&cobra.Command{
		Use:   "purge-expired",
		Short: "Delete invitations whose expiry has passed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			services, closeFn, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			n, err := services.Invitations.PurgeExpired(cmd.Context())
			if err != nil {
				return fmt.Errorf("purge expired invitations: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d expired invitation(s)\n", n)
			return nil
		},
	})
	return invitations
}
