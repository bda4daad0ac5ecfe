package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/mwalimu/ratiba/core/user"
	testutil "github.com/mwalimu/ratiba/tests"
)

func login(t *testing.T, username, password string) (*json.Decoder, int) {
	t.Helper()
	body := marchallObj(t, map[string]string{"username": username, "password": password})
	req, rec := newRequest(http.MethodPost, "/v1/users/login", body)
	app.ServeHTTP(rec, req)
	return json.NewDecoder(rec.Body), rec.Code
}

func Test_userApi_login(t *testing.T) {
	usr := testutil.CreateUser(t, usrRepo, "Login User", "login01", "login01@test.cd", "S3cretW0rd!", []string{user.RoleTutor}, true)
	testutil.CreateUser(t, usrRepo, "Inactive", "login02", "login02@test.cd", "S3cretW0rd!", []string{user.RoleTutor}, false)

	t.Run("Valid credentials", func(t *testing.T) {
		dec, code := login(t, usr.Username, "S3cretW0rd!")
		if code != http.StatusOK {
			t.Fatalf("code = %v; want %v", code, http.StatusOK)
		}
		var resp struct {
			Token string `json:"token"`
		}
		if err := dec.Decode(&resp); err != nil {
			t.Fatalf("decoding response: %v", err)
		}
		if resp.Token == "" {
			t.Error("login returned an empty token")
		}
	})

	t.Run("Email works too", func(t *testing.T) {
		if _, code := login(t, usr.Email, "S3cretW0rd!"); code != http.StatusOK {
			t.Errorf("code = %v; want %v", code, http.StatusOK)
		}
	})

	t.Run("Wrong password", func(t *testing.T) {
		if _, code := login(t, usr.Username, "nope"); code != http.StatusBadRequest {
			t.Errorf("code = %v; want %v", code, http.StatusBadRequest)
		}
	})

	t.Run("Unknown user", func(t *testing.T) {
		if _, code := login(t, "ghost", "S3cretW0rd!"); code != http.StatusBadRequest {
			t.Errorf("code = %v; want %v", code, http.StatusBadRequest)
		}
	})

	t.Run("Deactivated account", func(t *testing.T) {
		if _, code := login(t, "login02", "S3cretW0rd!"); code != http.StatusForbidden {
			t.Errorf("code = %v; want %v", code, http.StatusForbidden)
		}
	})

	t.Run("Missing fields", func(t *testing.T) {
		if _, code := login(t, "", ""); code != http.StatusBadRequest {
			t.Errorf("code = %v; want %v", code, http.StatusBadRequest)
		}
	})
}

func Test_userApi_refreshToken(t *testing.T) {
	usr := testutil.CreateUser(t, usrRepo, "Refresh User", "refresh01", "refresh01@test.cd", "", []string{user.RoleTutor}, true)

	t.Run("Auth required", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/users/token-refresh")
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("code = %v; want %v", rec.Code, http.StatusUnauthorized)
		}
	})

	t.Run("Fresh token issued", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/users/token-refresh", getToken(t, usr))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; want %v: %s", rec.Code, http.StatusOK, rec.Body.String())
		}
		var resp struct {
			Token string `json:"token"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decoding response: %v", err)
		}
		if resp.Token == "" {
			t.Error("refresh returned an empty token")
		}
	})
}

func Test_userApi_register(t *testing.T) {
	admin := testutil.CreateUser(t, usrRepo, "Admin", "regadmin", "regadmin@test.cd", "", []string{user.RoleAdmin}, true)
	tutor := testutil.CreateUser(t, usrRepo, "Tutor", "regtutor", "regtutor@test.cd", "", []string{user.RoleTutor}, true)

	payload := marchallObj(t, user.NewUser{
		Name:            "New Student",
		Username:        "student99",
		Email:           "student99@test.cd",
		Password:        "S3cretW0rd!",
		PasswordConfirm: "S3cretW0rd!",
		Roles:           []string{user.RoleStudent},
	})

	tests := []httpTest{
		{
			name: "Auth required", method: http.MethodPost, path: "/v1/users/register", body: payload,
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken),
		},
		{
			name: "Admin required", method: http.MethodPost, path: "/v1/users/register", body: payload,
			token: getToken(t, tutor), wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) { runHTTPTest(t, tt) })
	}

	t.Run("Admin creates a user", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/users/register", getToken(t, admin), payload)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("code = %v; want %v: %s", rec.Code, http.StatusCreated, rec.Body.String())
		}
		var created user.User
		if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
			t.Fatalf("decoding response: %v", err)
		}
		if created.ID == "" || created.Username != "student99" {
			t.Errorf("created = %+v; want a persisted user", created)
		}
	})

	t.Run("Duplicate username rejected", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/users/register", getToken(t, admin), payload)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("code = %v; want %v: %s", rec.Code, http.StatusBadRequest, rec.Body.String())
		}
	})
}

func Test_userApi_queryRoles(t *testing.T) {
	admin := testutil.CreateUser(t, usrRepo, "Admin", "rolesadmin", "rolesadmin@test.cd", "", []string{user.RoleAdmin}, true)
	student := testutil.CreateUser(t, usrRepo, "Student", "rolesstud", "rolesstud@test.cd", "", []string{user.RoleStudent}, true)

	tests := []httpTest{
		{name: "Auth required", path: "/v1/users/roles", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Admin required", path: "/v1/users/roles", token: getToken(t, student),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden),
		},
		{name: "All roles", path: "/v1/users/roles", token: getToken(t, admin), wantData: marchallObj(t, user.Roles)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) { runHTTPTest(t, tt) })
	}
}
