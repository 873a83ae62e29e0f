package cli

import "github.com/dmitrijs2005/gophadmin/internal/common"

func (a *App) commands() []command {
	return []command{
		{name: "login", usage: "login", guest: true, run: a.Login},
		{name: "logout", usage: "logout", auth: true, run: a.Logout},
		{name: "whoami", usage: "whoami", auth: true, run: a.Whoami},

		{name: "users", usage: "users [page] [login]", auth: true, perms: []string{common.PermListUsers}, run: a.ListUsers},
		{name: "user", usage: "user <id>", auth: true, perms: []string{common.PermListUsers}, run: a.ShowUser},
		{name: "useradd", usage: "useradd", auth: true, perms: []string{common.PermCreateUser}, run: a.CreateUser},
		{name: "userstatus", usage: "userstatus <id> on|off", auth: true, perms: []string{common.PermCreateUser}, run: a.SetUserStatus},
		{name: "passwd", usage: "passwd <id>", auth: true, perms: []string{common.PermCreateUser}, run: a.ChangePassword},
		{name: "userdel", usage: "userdel <id>", auth: true, perms: []string{common.PermCreateUser}, run: a.DeleteUser},

		{name: "profiles", usage: "profiles", auth: true, perms: []string{common.PermManageProfiles}, run: a.ListProfiles},
		{name: "profileadd", usage: "profileadd", auth: true, perms: []string{common.PermManageProfiles}, run: a.CreateProfile},
		{name: "profiledel", usage: "profiledel <id>", auth: true, perms: []string{common.PermManageProfiles}, run: a.DeleteProfile},

		{name: "perms", usage: "perms [name]", auth: true, perms: []string{common.PermManagePermissions, common.PermManageProfiles}, run: a.ListPermissions},
		{name: "permadd", usage: "permadd", auth: true, perms: []string{common.PermManagePermissions}, run: a.CreatePermission},
		{name: "permdel", usage: "permdel <id>", auth: true, perms: []string{common.PermManagePermissions}, run: a.DeletePermission},

		{name: "upload", usage: "upload <path>", auth: true, run: a.Upload},
		{name: "download", usage: "download <key> <path>", auth: true, run: a.Download},
	}
}
