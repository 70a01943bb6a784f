// Package directory answers "who is this operator" from the users table.
// It is a thin lookup with no invariants of its own: faculty addresses
// are recognized by pattern and self-register on first login, guards and
// admins must already be listed.
package directory

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"

	"github.com/skarthik/gatepass/internal/domain"
	"github.com/skarthik/gatepass/internal/rowstore"
)

// Users table layout.
const (
	ucolEmail = iota
	ucolRole
	ucolName
	ucolDept
	userColumns
)

var ErrUnknownUser = errors.New("user not found")

var facultyPattern = regexp.MustCompile(`^[a-zA-Z0-9._]+\.(cse|it|me|sh|ece|eee)@sritcbe\.ac\.in$`)

// deptNames maps the email department code to its display name.
var deptNames = map[string]string{
	"cse": "CSE",
	"it":  "IT",
	"me":  "MECH",
	"ece": "ECE",
	"eee": "EEE",
	"sh":  "Science and Humanities",
	"ce":  "CIVIL",
}

type Directory struct {
	store  rowstore.Store
	logger *slog.Logger
}

func New(store rowstore.Store, logger *slog.Logger) *Directory {
	return &Directory{store: store, logger: logger}
}

// Resolve maps a login to an operator. Faculty emails match by pattern
// and are appended to the users table on first sight (best effort: a
// failed append only means the next login appends again). Everyone else
// must already have a row.
func (d *Directory) Resolve(ctx context.Context, email, name string) (domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return domain.User{}, ErrUnknownUser
	}

	if facultyPattern.MatchString(email) {
		u := domain.User{
			Email:       email,
			Role:        domain.RoleFaculty,
			DisplayName: strings.TrimSpace(name),
			Department:  deptFromEmail(email),
		}
		d.ensureListed(ctx, u)
		return u, nil
	}

	rows, err := d.store.ReadAll(ctx, rowstore.TableUsers)
	if err != nil {
		return domain.User{}, err
	}
	for _, row := range rows {
		if strings.ToLower(strings.TrimSpace(row.Cell(ucolEmail))) != email {
			continue
		}
		u := domain.User{
			Email:       email,
			Role:        domain.Role(strings.TrimSpace(row.Cell(ucolRole))),
			DisplayName: strings.TrimSpace(row.Cell(ucolName)),
			Department:  strings.TrimSpace(row.Cell(ucolDept)),
		}
		if u.DisplayName == "" {
			u.DisplayName = strings.TrimSpace(name)
		}
		switch u.Role {
		case domain.RoleAdmin:
			u.Department = "ADMIN"
		case domain.RoleSecurity:
			u.Department = "SECURITY"
		}
		return u, nil
	}
	return domain.User{}, ErrUnknownUser
}

func (d *Directory) ensureListed(ctx context.Context, u domain.User) {
	rows, err := d.store.ReadAll(ctx, rowstore.TableUsers)
	if err != nil {
		d.logger.Warn("failed to read users table", "error", err)
		return
	}
	for _, row := range rows {
		if strings.ToLower(strings.TrimSpace(row.Cell(ucolEmail))) == u.Email {
			return
		}
	}
	row := make(rowstore.Row, userColumns)
	row[ucolEmail] = u.Email
	row[ucolRole] = string(u.Role)
	row[ucolName] = u.DisplayName
	row[ucolDept] = u.Department
	if _, err := d.store.Append(ctx, rowstore.TableUsers, row); err != nil {
		d.logger.Warn("failed to register faculty user", "email", u.Email, "error", err)
	}
}

// deptFromEmail pulls the department code from the local part, e.g.
// "a.kumar.cse@..." → "CSE". Anything unrecognized is general staff.
func deptFromEmail(email string) string {
	local, _, ok := strings.Cut(email, "@")
	if !ok {
		return "STAFF"
	}
	parts := strings.Split(local, ".")
	code := strings.ToLower(parts[len(parts)-1])
	if name, ok := deptNames[code]; ok {
		return name
	}
	return "STAFF"
}
