package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	cliadapter "github.com/example/contacts/internal/adapters/cli"
	"github.com/example/contacts/internal/wire"
)

// AddCmd returns the add command
func AddCmd() *cobra.Command {
	var in cliadapter.ContactInput

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a contact",
		Long: `Add a contact to the directory.

The name is required, the phone must be 7-15 digits and the email a plain
address. A photo file is copied into the photo directory.

Examples:
  contacts add --name Ana --paternal Ruiz --maternal Diaz --phone 5551234567 --email ana@x.com
  contacts add --name Bruno --phone 5559876543 --email bruno@x.com --photo ~/bruno.jpg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := wire.Init(); err != nil {
				return err
			}
			_, err := wire.ContactAdapter().Add(cmd.Context(), in)
			return err
		},
	}

	cmd.Flags().StringVar(&in.GivenName, "name", "", "Given name (required)")
	cmd.Flags().StringVar(&in.PaternalSurname, "paternal", "", "Paternal surname")
	cmd.Flags().StringVar(&in.MaternalSurname, "maternal", "", "Maternal surname")
	cmd.Flags().StringVar(&in.Phone, "phone", "", "Phone number, digits only")
	cmd.Flags().StringVar(&in.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&in.Photo, "photo", "", "Photo file to attach")
	cmd.MarkFlagRequired("name")

	return cmd
}

// EditCmd returns the edit command
func EditCmd() *cobra.Command {
	var photo string
	var clearPhoto bool

	cmd := &cobra.Command{
		Use:   "edit [id]",
		Short: "Edit a contact",
		Long: `Change fields of a contact. Only the given flags are changed.

Examples:
  contacts edit 1 --phone 5550000000
  contacts edit 1 --photo ~/ana-new.jpg
  contacts edit 1 --clear-photo`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			edit := cliadapter.ContactEdit{ID: id, Photo: photo, ClearPhoto: clearPhoto}
			flags := map[string]**string{
				"name":     &edit.GivenName,
				"paternal": &edit.PaternalSurname,
				"maternal": &edit.MaternalSurname,
				"phone":    &edit.Phone,
				"email":    &edit.Email,
			}
			for name, field := range flags {
				if cmd.Flags().Changed(name) {
					value, _ := cmd.Flags().GetString(name)
					*field = &value
				}
			}

			if err := wire.Init(); err != nil {
				return err
			}
			_, err = wire.ContactAdapter().Edit(cmd.Context(), edit)
			return err
		},
	}

	cmd.Flags().String("name", "", "Given name")
	cmd.Flags().String("paternal", "", "Paternal surname")
	cmd.Flags().String("maternal", "", "Maternal surname")
	cmd.Flags().String("phone", "", "Phone number, digits only")
	cmd.Flags().String("email", "", "Email address")
	cmd.Flags().StringVar(&photo, "photo", "", "Replace the photo with this file")
	cmd.Flags().BoolVar(&clearPhoto, "clear-photo", false, "Remove the photo")
	cmd.MarkFlagsMutuallyExclusive("photo", "clear-photo")

	return cmd
}

// DeleteCmd returns the delete command
func DeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete [id]",
		Aliases: []string{"rm"},
		Short:   "Delete a contact and its photo",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := wire.Init(); err != nil {
				return err
			}
			return wire.ContactAdapter().Delete(cmd.Context(), id)
		},
	}
}

// ListCmd returns the list command
func ListCmd() *cobra.Command {
	var query string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List contacts",
		Long: `List contacts sorted by given name.

--search matches names ignoring case and phone numbers as typed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := wire.Init(); err != nil {
				return err
			}
			return wire.ContactAdapter().List(cmd.Context(), query)
		},
	}

	cmd.Flags().StringVarP(&query, "search", "s", "", "Only show contacts matching this text")

	return cmd
}

// ShowCmd returns the show command
func ShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [id]",
		Short: "Show contact details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := wire.Init(); err != nil {
				return err
			}
			_, err = wire.ContactAdapter().Show(cmd.Context(), id)
			return err
		},
	}
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid contact id %q", arg)
	}
	return id, nil
}
