package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophadmin/internal/models"
)

func (a *App) ListProfiles(ctx context.Context, _ []string) error {
	ps, err := a.profiles.List(ctx)
	if err != nil {
		return err
	}
	renderProfiles(a.out, ps)
	return nil
}

func (a *App) CreateProfile(ctx context.Context, _ []string) error {
	name, err := getSimpleText(a.reader, "Profile name", a.out)
	if err != nil {
		return err
	}
	raw, err := getSimpleText(a.reader, "Permission IDs (comma separated)", a.out)
	if err != nil {
		return err
	}
	ids, err := parseIDList(raw)
	if err != nil {
		return err
	}

	p, err := a.profiles.Create(ctx, models.ProfileInput{Name: name, PermissionIDs: ids})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Profile %s created with id %d.\n", p.Name, p.ID)
	return nil
}

func (a *App) DeleteProfile(ctx context.Context, args []string) error {
	id, err := parseID(args, "profiledel <id>")
	if err != nil {
		return err
	}
	if err := a.profiles.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Profile %d deleted.\n", id)
	return nil
}
