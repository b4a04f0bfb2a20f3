// Package cli provides thin CLI adapters that translate between CLI concerns
// and application services. Adapters handle input validation and output
// formatting, but delegate storage to services.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"slices"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/example/contacts/internal/core/contact"
	"github.com/example/contacts/internal/ports/primary"
)

// PhotoFiles is the part of the photo store the CLI needs.
type PhotoFiles interface {
	Import(ctx context.Context, srcPath string) (string, error)
	Remove(ctx context.Context, path string) error
	Exists(ctx context.Context, path string) (bool, error)
}

// ContactInput holds the fields of a new contact. Photo is a file to import.
type ContactInput struct {
	GivenName       string
	PaternalSurname string
	MaternalSurname string
	Phone           string
	Email           string
	Photo           string
}

// ContactEdit holds the changes to an existing contact. Nil fields are kept.
type ContactEdit struct {
	ID              int64
	GivenName       *string
	PaternalSurname *string
	MaternalSurname *string
	Phone           *string
	Email           *string
	Photo           string // file to import as the new photo
	ClearPhoto      bool
}

// ContactAdapter is a thin adapter that translates CLI operations to ContactService calls.
// It depends only on the ContactService interface, enabling easy testing with mocks.
type ContactAdapter struct {
	service primary.ContactService
	photos  PhotoFiles
	out     io.Writer
}

// NewContactAdapter creates a new ContactAdapter with the given service.
func NewContactAdapter(service primary.ContactService, photos PhotoFiles, out io.Writer) *ContactAdapter {
	return &ContactAdapter{
		service: service,
		photos:  photos,
		out:     out,
	}
}

// Add validates and stores a new contact, importing its photo first.
func (a *ContactAdapter) Add(ctx context.Context, in ContactInput) (*primary.Contact, error) {
	c := primary.Contact{
		GivenName:       in.GivenName,
		PaternalSurname: in.PaternalSurname,
		MaternalSurname: in.MaternalSurname,
		Phone:           in.Phone,
		Email:           in.Email,
	}
	if err := validate(c); err != nil {
		return nil, err
	}

	if in.Photo != "" {
		path, err := a.photos.Import(ctx, in.Photo)
		if err != nil {
			return nil, err
		}
		c.PhotoPath = path
	}

	res, err := a.service.InsertContact(ctx, c).Wait(ctx)
	if err != nil {
		a.discardPhoto(ctx, c.PhotoPath)
		return nil, fmt.Errorf("failed to add contact: %w", err)
	}
	c.ID = res.ContactID

	fmt.Fprintf(a.out, "✓ Added contact %d: %s\n", c.ID, c.FullName())
	return &c, nil
}

// Edit applies changes to a stored contact. A replaced or cleared photo
// file is removed once the update has been stored.
func (a *ContactAdapter) Edit(ctx context.Context, edit ContactEdit) (*primary.Contact, error) {
	existing, err := a.service.GetContact(ctx, edit.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}

	c := *existing
	setIf(&c.GivenName, edit.GivenName)
	setIf(&c.PaternalSurname, edit.PaternalSurname)
	setIf(&c.MaternalSurname, edit.MaternalSurname)
	setIf(&c.Phone, edit.Phone)
	setIf(&c.Email, edit.Email)
	if err := validate(c); err != nil {
		return nil, err
	}

	switch {
	case edit.Photo != "":
		path, err := a.photos.Import(ctx, edit.Photo)
		if err != nil {
			return nil, err
		}
		c.PhotoPath = path
	case edit.ClearPhoto:
		c.PhotoPath = ""
	}

	res, err := a.service.UpdateContact(ctx, c).Wait(ctx)
	if err == nil && !res.Applied {
		err = fmt.Errorf("contact %d: %w", c.ID, primary.ErrContactNotFound)
	}
	if err != nil {
		if c.PhotoPath != existing.PhotoPath {
			a.discardPhoto(ctx, c.PhotoPath)
		}
		return nil, fmt.Errorf("failed to update contact: %w", err)
	}

	if existing.PhotoPath != "" && existing.PhotoPath != c.PhotoPath {
		a.discardPhoto(ctx, existing.PhotoPath)
	}

	fmt.Fprintf(a.out, "✓ Updated contact %d: %s\n", c.ID, c.FullName())
	return &c, nil
}

// Delete removes a contact and its photo. Deleting an unknown ID is not an error.
func (a *ContactAdapter) Delete(ctx context.Context, id int64) error {
	c, err := a.service.GetContact(ctx, id)
	if errors.Is(err, primary.ErrContactNotFound) {
		c = &primary.Contact{ID: id}
	} else if err != nil {
		return fmt.Errorf("failed to get contact: %w", err)
	}

	res, err := a.service.DeleteContact(ctx, *c).Wait(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}

	if !res.Applied {
		fmt.Fprintf(a.out, "Contact %d not found, nothing deleted\n", id)
		return nil
	}
	fmt.Fprintf(a.out, "✓ Deleted contact %d: %s\n", id, c.FullName())
	return nil
}

// List prints the contacts matching query, sorted by given name.
func (a *ContactAdapter) List(ctx context.Context, query string) error {
	contacts := Filter(a.service.Snapshot().Contacts, query)

	if len(contacts) == 0 {
		fmt.Fprintln(a.out, "No contacts found")
		return nil
	}

	a.printTable(contacts)
	return nil
}

// Show displays details for a single contact.
func (a *ContactAdapter) Show(ctx context.Context, id int64) (*primary.Contact, error) {
	c, err := a.service.GetContact(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}

	fmt.Fprintf(a.out, "\nContact: %d\n", c.ID)
	fmt.Fprintf(a.out, "Name:    %s\n", c.FullName())
	fmt.Fprintf(a.out, "Phone:   %s\n", c.Phone)
	fmt.Fprintf(a.out, "Email:   %s\n", c.Email)
	if c.PhotoPath != "" {
		status := ""
		if ok, err := a.photos.Exists(ctx, c.PhotoPath); err == nil && !ok {
			status = " " + color.New(color.FgYellow).Sprint("(missing)")
		}
		fmt.Fprintf(a.out, "Photo:   %s%s\n", c.PhotoPath, status)
	}
	fmt.Fprintf(a.out, "Created: %s\n", c.CreatedAt)
	fmt.Fprintf(a.out, "Updated: %s\n", c.UpdatedAt)
	fmt.Fprintln(a.out)

	return c, nil
}

// Watch prints the contact list matching query every time it changes,
// until ctx is done or the service shuts down.
func (a *ContactAdapter) Watch(ctx context.Context, query string) error {
	sub := a.service.AllContacts()
	defer sub.Close()

	for {
		select {
		case <-ctx.Done():
			return nil
		case snap, ok := <-sub.C():
			if !ok {
				return nil
			}
			contacts := Filter(snap.Contacts, query)
			fmt.Fprintf(a.out, "%s %d contacts\n",
				color.New(color.FgCyan).Sprintf("[v%d]", snap.Version), len(contacts))
			if len(contacts) > 0 {
				a.printTable(contacts)
			}
		}
	}
}

// Filter returns the contacts matching query, sorted by given name then ID.
func Filter(contacts []primary.Contact, query string) []primary.Contact {
	var result []primary.Contact
	for _, c := range contacts {
		if contact.MatchesQuery(query, searchFields(c)) {
			result = append(result, c)
		}
	}
	slices.SortFunc(result, func(x, y primary.Contact) int {
		switch {
		case contact.LessByName(x.GivenName, x.ID, y.GivenName, y.ID):
			return -1
		case contact.LessByName(y.GivenName, y.ID, x.GivenName, x.ID):
			return 1
		}
		return 0
	})
	return result
}

func (a *ContactAdapter) printTable(contacts []primary.Contact) {
	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPHONE\tEMAIL\tPHOTO")
	for _, c := range contacts {
		photo := "-"
		if c.PhotoPath != "" {
			photo = "yes"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", c.ID, c.FullName(), c.Phone, c.Email, photo)
	}
	w.Flush()
}

// discardPhoto removes a photo file nobody references. Failures are ignored.
func (a *ContactAdapter) discardPhoto(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if err := a.photos.Remove(ctx, path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(a.out, "%s could not remove photo %s: %v\n", color.New(color.FgYellow).Sprint("⚠"), path, err)
	}
}

func validate(c primary.Contact) error {
	return contact.CanSaveContact(contact.SaveContactContext{
		GivenName: c.GivenName,
		Phone:     c.Phone,
		Email:     c.Email,
	}).Error()
}

func searchFields(c primary.Contact) contact.SearchFields {
	return contact.SearchFields{
		GivenName:       c.GivenName,
		PaternalSurname: c.PaternalSurname,
		MaternalSurname: c.MaternalSurname,
		Phone:           c.Phone,
	}
}

func setIf(field *string, value *string) {
	if value != nil {
		*field = *value
	}
}
