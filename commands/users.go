package commands

import (
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"user-directory/config"
	"user-directory/models"

	"github.com/spf13/cobra"
)

func newListCommand(cfg *config.Config, dbPath *string, logger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored users sorted by name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			application, release, err := openApp(cfg, *dbPath, logger)
			if err != nil {
				return err
			}
			defer release()

			printUsers(cmd.OutOrStdout(), application.UserService.Snapshot())
			return nil
		},
	}
}

func newAddCommand(cfg *config.Config, dbPath *string, logger *slog.Logger) *cobra.Command {
	var req models.AddUserRequest

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a locally created user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			application, release, err := openApp(cfg, *dbPath, logger)
			if err != nil {
				return err
			}
			defer release()

			user, err := application.UserService.AddUser(cmd.Context(), req)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "added %s <%s>\n", user.Name, user.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "display name")
	cmd.Flags().StringVar(&req.Email, "email", "", "email address")
	cmd.Flags().StringVar(&req.City, "city", "", "city (defaults to "+models.DefaultCity+")")
	cmd.Flags().StringVar(&req.Street, "street", "", "street")
	return cmd
}

func newDeleteCommand(cfg *config.Config, dbPath *string, logger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <email>",
		Short: "Delete the user with the given email",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			application, release, err := openApp(cfg, *dbPath, logger)
			if err != nil {
				return err
			}
			defer release()

			if err := application.UserService.DeleteUser(cmd.Context(), models.User{Email: args[0]}); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
}

func newSyncCommand(cfg *config.Config, dbPath *string, logger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Fetch the remote user list once and merge it into the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			application, release, err := openApp(cfg, *dbPath, logger)
			if err != nil {
				return err
			}
			defer release()

			result, err := application.UserService.FetchUsers(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "imported %d users, %d total\n", result.Imported, len(result.Users))
			printUsers(cmd.OutOrStdout(), result.Users)
			return nil
		},
	}
}

func printUsers(out io.Writer, users []models.User) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tEMAIL\tCITY\tORIGIN")
	for _, u := range users {
		city := ""
		if u.Address != nil {
			city = u.Address.City
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", u.Name, u.Email, city, u.Origin)
	}
	w.Flush()
}
