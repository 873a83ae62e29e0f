package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/gophadmin/internal/common"
	"github.com/dmitrijs2005/gophadmin/internal/models"
	"github.com/dmitrijs2005/gophadmin/internal/pagination"
)

const userPageSize = 20

// ListUsers prints one page of users, optionally filtered by login.
func (a *App) ListUsers(ctx context.Context, args []string) error {
	page := 0
	var filter models.UserFilter
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return fmt.Errorf("invalid page %q", args[0])
		}
		page = n - 1
	}
	if len(args) > 1 {
		filter.Login = args[1]
	}

	req := pagination.NewPageRequest(page, userPageSize, pagination.OrderBy{"id": pagination.Asc}, filter)
	resp, err := a.users.Search(ctx, req)
	if err != nil {
		return err
	}
	renderUsers(a.out, resp)
	return nil
}

func (a *App) ShowUser(ctx context.Context, args []string) error {
	id, err := parseID(args, "user <id>")
	if err != nil {
		return err
	}
	u, err := a.users.WithPermissions(ctx, id)
	if err != nil {
		return err
	}
	renderUser(a.out, u)
	fmt.Fprintf(a.out, "grants:   %v\n", u.Permissions())
	return nil
}

// CreateUser walks through the sign-up form: login, password, person and
// profile IDs.
func (a *App) CreateUser(ctx context.Context, _ []string) error {
	login, err := getSimpleText(a.reader, "Login (email)", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	if len(password) < 6 {
		return fmt.Errorf("password must have at least 6 characters")
	}

	name, err := getSimpleText(a.reader, "Full name", a.out)
	if err != nil {
		return err
	}
	document, err := getSimpleText(a.reader, "Document (CPF/CNPJ)", a.out)
	if err != nil {
		return err
	}
	rawIDs, err := getSimpleText(a.reader, "Profile IDs (comma separated)", a.out)
	if err != nil {
		return err
	}
	ids, err := parseIDList(rawIDs)
	if err != nil {
		return err
	}

	personType := models.PersonIndividual
	if len(document) > 11 {
		personType = models.PersonCompany
	}
	active := true
	in := models.UserInput{
		Login:    login,
		Password: string(password),
		Active:   &active,
		Person:   &models.Person{Type: personType, Name: name, Email: login, Document: document, Active: true},
	}
	for _, id := range ids {
		in.Profiles = append(in.Profiles, models.Profile{ID: id})
	}

	u, err := a.users.Create(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "User %s created with id %d.\n", u.Login, u.ID)
	return nil
}

func (a *App) SetUserStatus(ctx context.Context, args []string) error {
	const usage = "userstatus <id> on|off"
	id, err := parseID(args, usage)
	if err != nil {
		return err
	}
	if len(args) < 2 {
		return fmt.Errorf("usage: %s", usage)
	}
	var active bool
	switch args[1] {
	case "on":
		active = true
	case "off":
	default:
		return fmt.Errorf("usage: %s", usage)
	}

	u, err := a.users.SetStatus(ctx, id, active)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "User %d active: %s\n", u.ID, yesNo(u.Active))
	return nil
}

func (a *App) ChangePassword(ctx context.Context, args []string) error {
	id, err := parseID(args, "passwd <id>")
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Current password")
	current, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(current)
	fmt.Fprintln(a.out, "New password")
	next, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(next)

	if err := a.users.ChangePassword(ctx, id, string(current), string(next)); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Password changed.")
	return nil
}

func (a *App) DeleteUser(ctx context.Context, args []string) error {
	id, err := parseID(args, "userdel <id>")
	if err != nil {
		return err
	}
	if err := a.users.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "User %d deleted.\n", id)
	return nil
}
