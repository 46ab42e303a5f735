package newsletter

import (
	"errors"
	"testing"
	"time"

	"folio/internal/models"
)

var t0 = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func TestTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    models.SubscriberStatus
		to      models.SubscriberStatus
		wantErr bool
	}{
		{"active to unsubscribed", models.SubscriberActive, models.SubscriberUnsubscribed, false},
		{"unsubscribed to active", models.SubscriberUnsubscribed, models.SubscriberActive, false},
		{"active to bounced", models.SubscriberActive, models.SubscriberBounced, false},
		{"active to complained", models.SubscriberActive, models.SubscriberComplained, false},
		{"bounced to unsubscribed", models.SubscriberBounced, models.SubscriberUnsubscribed, false},
		{"same status", models.SubscriberActive, models.SubscriberActive, false},
		{"bounced to active", models.SubscriberBounced, models.SubscriberActive, true},
		{"complained to active", models.SubscriberComplained, models.SubscriberActive, true},
		{"unsubscribed to bounced", models.SubscriberUnsubscribed, models.SubscriberBounced, true},
		{"unknown target", models.SubscriberActive, "paused", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := &models.Subscriber{Status: tt.from}
			err := Transition(sub, tt.to, t0)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidTransition) {
					t.Fatalf("error = %v, want ErrInvalidTransition", err)
				}
				if sub.Status != tt.from {
					t.Error("a rejected transition must not change the status")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if sub.Status != tt.to {
				t.Errorf("status = %s, want %s", sub.Status, tt.to)
			}
			if (sub.UnsubscribedAt != nil) != (sub.Status == models.SubscriberUnsubscribed) {
				t.Errorf("unsubscribed_at = %v with status %s", sub.UnsubscribedAt, sub.Status)
			}
		})
	}
}

func TestTransitionTimestamps(t *testing.T) {
	sub := &models.Subscriber{Status: models.SubscriberActive}

	if err := Transition(sub, models.SubscriberUnsubscribed, t0); err != nil {
		t.Fatal(err)
	}
	if sub.UnsubscribedAt == nil || !sub.UnsubscribedAt.Equal(t0) {
		t.Fatalf("unsubscribed_at = %v, want %v", sub.UnsubscribedAt, t0)
	}

	later := t0.Add(48 * time.Hour)
	if err := Transition(sub, models.SubscriberActive, later); err != nil {
		t.Fatal(err)
	}
	if sub.UnsubscribedAt != nil {
		t.Error("resubscribing must clear unsubscribed_at")
	}
	if sub.ResubscribedAt == nil || !sub.ResubscribedAt.Equal(later) {
		t.Errorf("resubscribed_at = %v, want %v", sub.ResubscribedAt, later)
	}
}

func TestReactivate(t *testing.T) {
	sub := &models.Subscriber{Status: models.SubscriberBounced}
	Reactivate(sub, t0)
	if sub.Status != models.SubscriberActive {
		t.Errorf("status = %s, want active", sub.Status)
	}
	if sub.ResubscribedAt != nil {
		t.Error("reactivating a bounced address is not a resubscription")
	}
}
