package models

import "testing"

func TestUserIsAdmin(t *testing.T) {
	tests := []struct {
		name string
		role Role
		want bool
	}{
		{name: "admin role", role: RoleAdmin, want: true},
		{name: "viewer role", role: RoleViewer, want: false},
		{name: "empty role", role: Role(""), want: false},
		{name: "uppercase ADMIN", role: Role("ADMIN"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := &User{Role: tt.role}
			if got := u.IsAdmin(); got != tt.want {
				t.Errorf("User{Role: %q}.IsAdmin() = %v, want %v", tt.role, got, tt.want)
			}
		})
	}
}

func TestUserNeeds2FASetup(t *testing.T) {
	if !(&User{}).Needs2FASetup() {
		t.Error("new user should need 2FA setup")
	}
	if (&User{TOTPEnabled: true}).Needs2FASetup() {
		t.Error("enrolled user should not need 2FA setup")
	}
}
