package services

import (
	"errors"
	"strings"
	"testing"

	"storyhub/backend/app/repo"
)

func TestRegisterDuplicateUsernameConflicts(t *testing.T) {
	f := newFixture(t)
	if _, err := f.users.Register("alice", "pw1", nil); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := f.users.Register("alice", "other", nil)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestRegisterUsernameIsCaseSensitive(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice")
	if _, err := f.users.Register("Alice", "pw", nil); err != nil {
		t.Fatalf("expected distinct user, got %v", err)
	}
}

func TestRegisterRequiresUsernameAndPassword(t *testing.T) {
	f := newFixture(t)
	cases := []struct{ user, pass string }{
		{"", "pw"},
		{"   ", "pw"},
		{"bob", ""},
	}
	for _, c := range cases {
		if _, err := f.users.Register(c.user, c.pass, nil); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("register(%q,%q): expected invalid input, got %v", c.user, c.pass, err)
		}
	}
}

func TestRegisterValidatesEmail(t *testing.T) {
	f := newFixture(t)
	bad := "not-an-email"
	if _, err := f.users.Register("bob", "pw", &bad); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	good := "bob@example.com"
	res, err := f.users.Register("bob", "pw", &good)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if res.User.Email == nil || *res.User.Email != good {
		t.Fatalf("email not stored: %+v", res.User.Email)
	}
}

func TestRegisterHashesPassword(t *testing.T) {
	f := newFixture(t)
	res, err := f.users.Register("carol", "secret-pw", nil)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	u, err := repo.NewUserRepository(f.db).FindByUsername("carol")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if u.PasswordHash == "" || strings.Contains(u.PasswordHash, "secret-pw") {
		t.Fatalf("password stored in clear form")
	}
	if res.User.IsAdmin {
		t.Fatalf("new users must not be admins")
	}
}

func TestLoginFailsUniformly(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice")

	_, errUnknown := f.users.Login("nobody", "pw-alice")
	_, errWrong := f.users.Login("alice", "wrong")
	if !errors.Is(errUnknown, ErrUnauthorized) || !errors.Is(errWrong, ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v / %v", errUnknown, errWrong)
	}
	if errUnknown.Error() != errWrong.Error() {
		t.Fatalf("errors reveal which check failed: %q vs %q", errUnknown, errWrong)
	}

	res, err := f.users.Login("alice", "pw-alice")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if res.Token == "" || res.User.Username != "alice" {
		t.Fatalf("unexpected login result %+v", res)
	}
}

func TestVerifyCarriesRole(t *testing.T) {
	f := newFixture(t)
	user := f.register(t, "alice")
	admin := f.admin(t)
	if user.IsAdmin || !admin.IsAdmin {
		t.Fatalf("role flags wrong: user=%v admin=%v", user.IsAdmin, admin.IsAdmin)
	}
	if user.Username != "alice" || user.UserID == "" {
		t.Fatalf("unexpected identity %+v", user)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	f := newFixture(t)
	if _, err := f.users.Verify(t.Context(), "garbage"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	f := newFixture(t)
	res, err := f.users.Register("alice", "pw", nil)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	id := f.identity(t, res.Token)
	if err := f.users.Logout(t.Context(), id); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := f.users.Verify(t.Context(), res.Token); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected revoked token to fail, got %v", err)
	}
}

func TestAdminPasswordRotation(t *testing.T) {
	f := newFixture(t)
	admin := f.admin(t)

	if err := f.users.ChangePassword(admin, "wrong", "n3w"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if err := f.users.ChangePassword(admin, "admin123", ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if err := f.users.ChangePassword(admin, "admin123", "n3w"); err != nil {
		t.Fatalf("change password: %v", err)
	}
	// provisioning again must not reset the rotated password
	if err := f.users.EnsureAdmin("admin", "admin123", ""); err != nil {
		t.Fatalf("ensure admin: %v", err)
	}
	if _, err := f.users.Login("admin", "admin123"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("old password still works: %v", err)
	}
	res, err := f.users.Login("admin", "n3w")
	if err != nil {
		t.Fatalf("login with new password: %v", err)
	}
	if !res.User.IsAdmin {
		t.Fatalf("admin flag lost")
	}
}

func TestMeLoadsCurrentUser(t *testing.T) {
	f := newFixture(t)
	id := f.register(t, "alice")
	u, err := f.users.Me(id)
	if err != nil {
		t.Fatalf("me: %v", err)
	}
	if u.ID != id.UserID || u.Username != "alice" {
		t.Fatalf("unexpected user %+v", u)
	}
	if _, err := f.users.Me(&Identity{UserID: "missing"}); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected unauthorized for unknown user, got %v", err)
	}
}

func TestLoginIsCaseSensitive(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice")
	if _, err := f.users.Login("ALICE", "pw-alice"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected unauthorized for other case, got %v", err)
	}
	if _, err := f.users.Login("", ""); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected unauthorized for empty credentials, got %v", err)
	}
}
