package user

import "testing"

func Test_User_password(t *testing.T) {
	var usr User
	if err := usr.SetPassword("LordOfTheRings"); err != nil {
		t.Fatalf("SetPassword() failed: %v", err)
	}
	if len(usr.PasswordHash) == 0 {
		t.Fatal("SetPassword() did not store a hash")
	}
	if err := usr.CheckPassword("LordOfTheRings"); err != nil {
		t.Errorf("CheckPassword() failed: %v", err)
	}
	if err := usr.CheckPassword("lordoftherings"); err == nil {
		t.Error("CheckPassword() accepted a wrong password")
	}
}

func Test_User_roles(t *testing.T) {
	tests := []struct {
		name      string
		roles     []string
		isAdmin   bool
		isTutor   bool
		isStudent bool
		isParent  bool
	}{
		{name: "none"},
		{name: "student", roles: []string{RoleStudent}, isStudent: true},
		{name: "parent", roles: []string{RoleParent}, isParent: true},
		{name: "tutor", roles: []string{RoleTutor}, isTutor: true},
		{name: "admin", roles: []string{RoleAdmin}, isAdmin: true},
		{name: "owner", roles: []string{RoleAdminOwner}, isAdmin: true},
		{name: "tutor+parent", roles: []string{RoleTutor, RoleParent}, isTutor: true, isParent: true},
		{name: "all", roles: AllRoles, isAdmin: true, isTutor: true, isStudent: true, isParent: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			usr := User{Roles: tt.roles}
			if got := usr.IsAdmin(); got != tt.isAdmin {
				t.Errorf("IsAdmin() = %v; want %v", got, tt.isAdmin)
			}
			if got := usr.IsTutor(); got != tt.isTutor {
				t.Errorf("IsTutor() = %v; want %v", got, tt.isTutor)
			}
			if got := usr.IsStudent(); got != tt.isStudent {
				t.Errorf("IsStudent() = %v; want %v", got, tt.isStudent)
			}
			if got := usr.IsParent(); got != tt.isParent {
				t.Errorf("IsParent() = %v; want %v", got, tt.isParent)
			}
		})
	}
}

func Test_MaxRolePriority(t *testing.T) {
	tests := []struct {
		name  string
		roles []string
		want  int
	}{
		{name: "none", want: 0},
		{name: "unknown", roles: []string{"chef:"}, want: 0},
		{name: "student", roles: []string{RoleStudent}, want: 1},
		{name: "student+tutor", roles: []string{RoleStudent, RoleTutor}, want: 11},
		{name: "owner trumps all", roles: AllRoles, want: 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MaxRolePriority(tt.roles); got != tt.want {
				t.Errorf("MaxRolePriority() = %v; want %v", got, tt.want)
			}
		})
	}
}

func Test_User_SetActive(t *testing.T) {
	var usr User
	if usr.IsActive != nil {
		t.Fatal("IsActive should start unset")
	}
	usr.SetActive(true)
	if usr.IsActive == nil || !*usr.IsActive {
		t.Error("SetActive(true) failed")
	}
	usr.SetActive(false)
	if usr.IsActive == nil || *usr.IsActive {
		t.Error("SetActive(false) failed")
	}
}
