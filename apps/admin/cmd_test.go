package main

import (
	"context"
	"database/sql"
	"testing"

	"github.com/mwalimu/ratiba/core/user"
	inmemdb "github.com/mwalimu/ratiba/storage/database/inmem"
)

func setup(t *testing.T) *commandLine {
	t.Helper()

	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("inmemdb.Open() failed: %v", err)
	}
	return &commandLine{
		usrSvc: user.NewService(inmemdb.NewUserRepository(db)),
	}
}

type cliTest struct {
	name    string
	args    []string // without program name
	pwd     string
	wantErr error
}

func Test_commandLine_addUser(t *testing.T) {
	cli := setup(t)

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no args", args: []string{"adduser"}, wantErr: errHelp},
		{name: "username but no email", args: []string{"adduser", "-username", "awe"}, wantErr: errHelp},
		{name: "no password", args: []string{"adduser", "-username", "awe", "-email", "awe@test.cd"}, wantErr: errHelp},
		{name: "create", args: []string{"adduser", "-username", "awe", "-email", "awe@test.cd"}, pwd: "mdr"},
		{name: "update existing", args: []string{"adduser", "-username", "awe", "-email", "awe@test.cd"}, pwd: "lmao"},
		{name: "create admin", args: []string{"adduser", "-username", "boss", "-email", "boss@test.cd", "-admin"}, pwd: "mdr"},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		readPasswordFunc = func(fd int) ([]byte, error) {
			return []byte(tt.pwd), nil
		}

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	ctx := context.Background()

	usr, err := cli.usrSvc.GetByUsernameOrEmail(ctx, "awe")
	if err != nil {
		t.Fatalf("GetByUsernameOrEmail() failed: %v", err)
	}
	if err := usr.CheckPassword("lmao"); err != nil {
		t.Error("password was not updated on the second adduser run")
	}
	if usr.IsActive == nil || !*usr.IsActive {
		t.Error("adduser did not activate the user")
	}
	if usr.IsAdmin() {
		t.Error("adduser granted admin roles without -admin")
	}

	boss, err := cli.usrSvc.GetByUsernameOrEmail(ctx, "boss")
	if err != nil {
		t.Fatalf("GetByUsernameOrEmail() failed: %v", err)
	}
	if !boss.IsAdmin() || !boss.IsTutor() {
		t.Error("adduser -admin did not grant all roles")
	}
}

func Test_commandLine_migrate(t *testing.T) {
	cli := setup(t)

	var migrated bool
	migrateFunc = func(db *sql.DB) error {
		migrated = true
		return nil
	}

	if err := cli.run([]string{"admin", "migrate"}); err != nil {
		t.Fatalf("cli.run() error = %v", err)
	}
	if !migrated {
		t.Error("migrate subcommand did not run the migrations")
	}
}
