// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package newsletter implements subscriber lifecycle rules, unsubscribe
// links and campaign analytics.
package newsletter

import (
	"errors"
	"fmt"
	"time"

	"folio/internal/models"
)

// ErrInvalidTransition is returned when a subscriber cannot move to the
// requested status.
var ErrInvalidTransition = errors.New("invalid subscriber status transition")

// transitions lists, per status, where Transition may go next. Bounced and
// complained addresses only leave that state through Reactivate.
var transitions = map[models.SubscriberStatus][]models.SubscriberStatus{
	models.SubscriberActive:       {models.SubscriberUnsubscribed, models.SubscriberBounced, models.SubscriberComplained},
	models.SubscriberUnsubscribed: {models.SubscriberActive},
	models.SubscriberBounced:      {models.SubscriberUnsubscribed},
	models.SubscriberComplained:   {models.SubscriberUnsubscribed},
}

// Transition moves sub to status to and stamps the lifecycle timestamps:
// entering unsubscribed sets UnsubscribedAt, coming back to active sets
// ResubscribedAt and clears UnsubscribedAt. Moving to the current status is
// a no-op.
func Transition(sub *models.Subscriber, to models.SubscriberStatus, now time.Time) error {
	if !to.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, to)
	}
	if sub.Status == to {
		return nil
	}
	if !allowed(sub.Status, to) {
		return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, sub.Status, to)
	}
	apply(sub, to, now)
	return nil
}

// Reactivate puts any subscriber back to active. It is the admin override
// for bounced and complained addresses.
func Reactivate(sub *models.Subscriber, now time.Time) {
	if sub.Status == models.SubscriberActive {
		return
	}
	apply(sub, models.SubscriberActive, now)
}

func allowed(from, to models.SubscriberStatus) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func apply(sub *models.Subscriber, to models.SubscriberStatus, now time.Time) {
	from := sub.Status
	sub.Status = to
	sub.UpdatedAt = now

	switch {
	case to == models.SubscriberUnsubscribed:
		t := now
		sub.UnsubscribedAt = &t
	case to == models.SubscriberActive && from == models.SubscriberUnsubscribed:
		t := now
		sub.ResubscribedAt = &t
		sub.UnsubscribedAt = nil
	default:
		sub.UnsubscribedAt = nil
	}
}
