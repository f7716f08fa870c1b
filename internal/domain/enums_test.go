package domain

import "testing"

func TestClientStatus_IsValid(t *testing.T) {
	t.Parallel()

	for _, s := range []ClientStatus{ClientStatusActive, ClientStatusPaused, ClientStatusChurned} {
		if !s.IsValid() {
			t.Errorf("%s should be valid", s)
		}
	}
	if ClientStatus("DELETED").IsValid() {
		t.Error("DELETED should be invalid")
	}
}

func TestSubscriptionStatus_PermitsPublishing(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status SubscriptionStatus
		want   bool
	}{
		{SubscriptionActive, true},
		{SubscriptionTrialing, true},
		{SubscriptionPastDue, false},
		{SubscriptionCanceled, false},
	}

	for _, tt := range tests {
		if got := tt.status.PermitsPublishing(); got != tt.want {
			t.Errorf("%s.PermitsPublishing() = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestContentStatus_IsValid(t *testing.T) {
	t.Parallel()

	valid := []ContentStatus{
		ContentStatusDraft, ContentStatusGenerating, ContentStatusReview,
		ContentStatusFailed, ContentStatusApproved, ContentStatusPublished,
	}
	for _, s := range valid {
		if !s.IsValid() {
			t.Errorf("%s should be valid", s)
		}
	}
	if ContentStatus("PENDING").IsValid() {
		t.Error("PENDING should be invalid")
	}
}

func TestUserRole_IsAdmin(t *testing.T) {
	t.Parallel()

	if !UserRoleAdmin.IsAdmin() {
		t.Error("admin role should be admin")
	}
	if UserRoleUser.IsAdmin() {
		t.Error("user role should not be admin")
	}
}
