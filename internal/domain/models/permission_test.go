package models

import "testing"

func TestExpandLevel(t *testing.T) {
	tests := []struct {
		name    string
		level   PermissionLevel
		want    Permission
		wantErr bool
	}{
		{
			name:  "view",
			level: PermissionView,
			want:  Permission{CanView: true},
		},
		{
			name:  "edit includes view",
			level: PermissionEdit,
			want:  Permission{CanView: true, CanEdit: true},
		},
		{
			name:  "invite includes edit and view",
			level: PermissionInvite,
			want:  Permission{CanView: true, CanEdit: true, CanInvite: true},
		},
		{
			name:    "unknown level",
			level:   PermissionLevel("admin"),
			wantErr: true,
		},
		{
			name:    "empty level",
			level:   PermissionLevel(""),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpandLevel(tt.level)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ExpandLevel(%q) expected error, got %+v", tt.level, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ExpandLevel(%q) unexpected error: %v", tt.level, err)
			}
			if got != tt.want {
				t.Errorf("ExpandLevel(%q) = %+v, want %+v", tt.level, got, tt.want)
			}
			if got.IsOwner {
				t.Errorf("ExpandLevel(%q) must never produce owner status", tt.level)
			}
		})
	}
}

func TestPermissionLevelRoundTrip(t *testing.T) {
	// Expanding a level and collapsing it back must yield the same label.
	for _, level := range []PermissionLevel{PermissionView, PermissionEdit, PermissionInvite} {
		flags, err := ExpandLevel(level)
		if err != nil {
			t.Fatalf("ExpandLevel(%q): %v", level, err)
		}
		if got := flags.Level(); got != level {
			t.Errorf("Level() after ExpandLevel(%q) = %q", level, got)
		}
	}
}

func TestPermissionLevel_Owner(t *testing.T) {
	if got := OwnerPermission.Level(); got != PermissionInvite {
		t.Errorf("owner collapses to %q, want %q", got, PermissionInvite)
	}
	// Owner status alone is enough even with every flag cleared.
	bare := Permission{IsOwner: true}
	if got := bare.Level(); got != PermissionInvite {
		t.Errorf("bare owner collapses to %q, want %q", got, PermissionInvite)
	}
}

func TestPermissionEffective(t *testing.T) {
	tests := []struct {
		name   string
		grant  Permission
		public PublicAccess
		want   Permission
	}{
		{
			name:   "owner wins regardless of public flags",
			grant:  Permission{IsOwner: true},
			public: PublicAccess{},
			want:   Permission{IsOwner: true, CanView: true, CanEdit: true, CanInvite: true},
		},
		{
			name:   "public view fills in missing view",
			grant:  Permission{},
			public: PublicAccess{CanView: true},
			want:   Permission{CanView: true},
		},
		{
			name:   "public edit fills in missing edit",
			grant:  Permission{CanView: true},
			public: PublicAccess{CanView: true, CanEdit: true},
			want:   Permission{CanView: true, CanEdit: true},
		},
		{
			name:   "grant wins over restrictive public",
			grant:  Permission{CanView: true, CanEdit: true},
			public: PublicAccess{},
			want:   Permission{CanView: true, CanEdit: true},
		},
		{
			name:   "public access never grants invite",
			grant:  Permission{},
			public: PublicAccess{CanView: true, CanEdit: true},
			want:   Permission{CanView: true, CanEdit: true},
		},
		{
			name:   "invite comes solely from the grant",
			grant:  Permission{CanView: true, CanEdit: true, CanInvite: true},
			public: PublicAccess{},
			want:   Permission{CanView: true, CanEdit: true, CanInvite: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.grant.Effective(tt.public); got != tt.want {
				t.Errorf("Effective() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestPermissionLevelValidate(t *testing.T) {
	for _, level := range []PermissionLevel{PermissionView, PermissionEdit, PermissionInvite} {
		if err := level.Validate(); err != nil {
			t.Errorf("Validate(%q) unexpected error: %v", level, err)
		}
	}
	for _, level := range []PermissionLevel{"", "owner", "admin"} {
		if err := level.Validate(); err == nil {
			t.Errorf("Validate(%q) expected error", level)
		}
	}
}

func TestProjectPublicLevel(t *testing.T) {
	p := Project{Public: PublicAccess{CanView: true}}
	if got := p.PublicLevel(); got != PermissionView {
		t.Errorf("PublicLevel() = %q, want %q", got, PermissionView)
	}
	p.Public.CanEdit = true
	if got := p.PublicLevel(); got != PermissionEdit {
		t.Errorf("PublicLevel() = %q, want %q", got, PermissionEdit)
	}
}
