package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/gophadmin/internal/models"
	"github.com/dmitrijs2005/gophadmin/internal/pagination"
)

func displayName(login string, p *models.Person) string {
	if p != nil && p.Name != "" {
		return p.Name
	}
	return login
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func profileNames(ps []models.Profile) string {
	names := make([]string, 0, len(ps))
	for _, p := range ps {
		names = append(names, p.Name)
	}
	return strings.Join(names, ",")
}

func renderUsers(w io.Writer, page *pagination.PageResponse[models.User]) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tLOGIN\tNAME\tACTIVE\tPROFILES")
	for _, u := range page.Records {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", u.ID, u.Login, displayName("", u.Person), yesNo(u.Active), profileNames(u.Profiles))
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "page %d of %d, %d of %d users\n", page.Page+1, max(page.LastPage, 1), page.Count, page.Total)
}

func renderUser(w io.Writer, u *models.User) {
	fmt.Fprintf(w, "id:       %d\n", u.ID)
	fmt.Fprintf(w, "login:    %s\n", u.Login)
	fmt.Fprintf(w, "active:   %s\n", yesNo(u.Active))
	if p := u.Person; p != nil {
		fmt.Fprintf(w, "name:     %s (%s)\n", p.Name, p.Type)
		fmt.Fprintf(w, "document: %s\n", p.Document)
		if a, ok := p.PrimaryAddress(); ok {
			fmt.Fprintf(w, "address:  %s %s, %s - %s/%s\n", a.Street, a.Number, a.District, a.City, a.State)
		}
	}
	fmt.Fprintf(w, "profiles: %s\n", profileNames(u.Profiles))
}

func renderProfiles(w io.Writer, ps []models.Profile) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tACTIVE\tPERMISSIONS")
	for _, p := range ps {
		names := make([]string, 0, len(p.Permissions))
		for _, perm := range p.Permissions {
			names = append(names, perm.Name)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", p.ID, p.Name, yesNo(p.Active), strings.Join(names, ","))
	}
	_ = tw.Flush()
}

func renderPermissions(w io.Writer, ps []models.Permission) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tRESOURCE\tACTION\tDESCRIPTION")
	for _, p := range ps {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Resource, p.Action, p.Description)
	}
	_ = tw.Flush()
}
