package records

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	pkgdb "github.com/iloveparkjisung/Database-Assesment/pkg/db"
)

type Contact struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

const insertContactStatement = `
	INSERT INTO contacts (name, email)
	VALUES (?, ?)
	`

// AddContact stores a new contact. Both fields are required and the email
// must not already be on file.
func AddContact(ctx context.Context, db *sql.DB, name, email string) (Contact, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" {
		return Contact{}, fmt.Errorf("both name and email are required: %w", ErrInvalidField)
	}

	res, err := db.ExecContext(ctx, insertContactStatement, name, email)
	if err != nil {
		if pkgdb.IsUniqueViolation(err) {
			return Contact{}, fmt.Errorf("the email '%s' %w", email, ErrDuplicate)
		}
		return Contact{}, fmt.Errorf("failed to add contact: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return Contact{}, fmt.Errorf("failed to get last insert ID: %w", err)
	}

	return Contact{ID: id, Name: name, Email: email}, nil
}

var ContactsTracker = &Tracker{
	Name:       "contacts",
	Title:      "Contact Book",
	Plural:     "contacts",
	DBFile:     "contacts.db",
	Component:  pkgdb.ContactsComponent,
	Tables:     "contacts",
	AllFields:  []string{"name", "email"},
	AllOrderBy: "name ASC, id ASC",
	Filters: []Filter{
		{
			Key:    "email",
			Label:  "Find by email",
			Prompt: "Which email would you like to look up?",
			Fields: []string{"name", "email"},
			Where:  "email = ? COLLATE NOCASE",
		},
		{
			Key:    "name",
			Label:  "Find by name",
			Prompt: "Which name would you like to look up?",
			Fields: []string{"name", "email"},
			Where:  "name = ? COLLATE NOCASE ORDER BY email ASC",
		},
	},
	Views: []View{
		{Name: "All contacts", Label: "All contacts"},
	},
	Form: Form{
		Title: "Add Contact",
		Multi: true,
		Fields: []Field{
			{Key: "name", Label: "Name", Kind: FieldText, Required: true},
			{Key: "email", Label: "Email", Kind: FieldText, Required: true},
		},
		Insert: func(ctx context.Context, db *sql.DB, vals Values) (string, error) {
			c, err := AddContact(ctx, db, vals["name"], vals["email"])
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Contact '%s' added successfully!", c.Name), nil
		},
	},
}
