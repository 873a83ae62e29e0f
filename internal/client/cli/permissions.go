package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophadmin/internal/models"
)

// ListPermissions lists every permission, or those matching args[0].
func (a *App) ListPermissions(ctx context.Context, args []string) error {
	var (
		ps  []models.Permission
		err error
	)
	if len(args) > 0 {
		ps, err = a.permissions.SearchByName(ctx, strings.Join(args, " "))
	} else {
		ps, err = a.permissions.List(ctx)
	}
	if err != nil {
		return err
	}
	renderPermissions(a.out, ps)
	return nil
}

func (a *App) CreatePermission(ctx context.Context, _ []string) error {
	name, err := getSimpleText(a.reader, "Permission name", a.out)
	if err != nil {
		return err
	}
	name = strings.ToUpper(strings.TrimSpace(name))
	if name == "" {
		return fmt.Errorf("permission name is required")
	}
	if a.permissions.Exists(ctx, name) {
		return fmt.Errorf("permission %s already exists", name)
	}

	resource, err := getSimpleText(a.reader, "Resource (optional)", a.out)
	if err != nil {
		return err
	}
	action, err := getSimpleText(a.reader, "Action (optional)", a.out)
	if err != nil {
		return err
	}
	description, err := GetMultiline(a.reader, "Description (optional)", a.out)
	if err != nil {
		return err
	}

	p, err := a.permissions.Create(ctx, models.PermissionInput{
		Name:        name,
		Description: description,
		Resource:    resource,
		Action:      action,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Permission %s created with id %d.\n", p.Name, p.ID)
	return nil
}

func (a *App) DeletePermission(ctx context.Context, args []string) error {
	id, err := parseID(args, "permdel <id>")
	if err != nil {
		return err
	}
	if err := a.permissions.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Permission %d deleted.\n", id)
	return nil
}
