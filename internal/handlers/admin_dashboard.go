// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"

	"folio/internal/dashboard"
	"folio/internal/derive"
	"folio/internal/live"
	"folio/internal/middleware"
	"folio/internal/models"
	"folio/internal/poller"
)

// maxReportDays bounds the ?days window of analytics endpoints.
const maxReportDays = 365

func reportDays(r *http.Request) int {
	return min(queryInt(r, "days", dashboard.DefaultDays), maxReportDays)
}

// Dashboard builds the admin overview report.
func (a *Admin) Dashboard(w http.ResponseWriter, r *http.Request) {
	days := reportDays(r)
	now := a.now()
	snap, err := a.Fetcher.Fetch(r.Context(), now, days)
	if err != nil {
		serverError(w, "load dashboard failed", err)
		return
	}
	writeJSON(w, http.StatusOK, dashboard.Build(snap, now, days))
}

// Activity returns the recent activity feed.
func (a *Admin) Activity(w http.ResponseWriter, r *http.Request) {
	snap, err := a.Fetcher.Fetch(r.Context(), a.now(), dashboard.DefaultDays)
	if err != nil {
		serverError(w, "load activity failed", err)
		return
	}
	writeJSON(w, http.StatusOK, dashboard.Feed(snap, queryInt(r, "limit", dashboard.DefaultFeedSize)))
}

type contentViews struct {
	ContentID string         `json:"content_id"`
	Days      int            `json:"days"`
	Series    []derive.Point `json:"series"`
	Current   int            `json:"current"`
	Previous  int            `json:"previous"`
	Growth    int            `json:"growth"`
}

// ContentViews returns the dense daily view series of one project or post
// for the last ?days days, compared with the days before.
func (a *Admin) ContentViews(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	days := reportDays(r)
	now := a.now()
	from := derive.Day(now).AddDate(0, 0, -(2*days - 1))

	rows, err := a.Stores.Views.ForContent(r.Context(), id, from, now)
	if err != nil {
		serverError(w, "load content views failed", err, "id", id)
		return
	}

	series := derive.Densify(viewPoints(rows), from, now)
	current, previous, growth := derive.PeriodOverPeriod(series, days)
	writeJSON(w, http.StatusOK, contentViews{
		ContentID: id.String(),
		Days:      days,
		Series:    series[len(series)-days:],
		Current:   current,
		Previous:  previous,
		Growth:    growth,
	})
}

func viewPoints(rows []models.ViewRow) []derive.Point {
	out := make([]derive.Point, len(rows))
	for i, row := range rows {
		out[i] = derive.Point{Date: derive.DayKey(row.Day), Count: row.Count}
	}
	return out
}

// Refresh asks the poller to run a dashboard feed now instead of waiting
// for its next tick.
func (a *Admin) Refresh(w http.ResponseWriter, r *http.Request) {
	if a.Refresher == nil {
		writeError(w, http.StatusServiceUnavailable, "live refresh is not running")
		return
	}
	err := a.Refresher.Trigger(chi.URLParam(r, "task"))
	if errors.Is(err, poller.ErrUnknownTask) {
		notFound(w)
		return
	}
	if err != nil {
		serverError(w, "trigger refresh failed", err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// Live upgrades to a websocket that receives the dashboard feeds.
func (a *Admin) Live(w http.ResponseWriter, r *http.Request) {
	if a.Hub == nil {
		writeError(w, http.StatusServiceUnavailable, "live updates are not running")
		return
	}
	sess := middleware.SessionFromCtx(r.Context())
	conn, err := a.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}
	live.NewClient(conn, a.Hub, sess.UserID).Serve()
}

// checkOrigin accepts same-origin handshakes and the configured origins.
func (a *Admin) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if strings.EqualFold(u.Host, r.Host) {
		return true
	}
	return slices.ContainsFunc(a.AllowedOrigins, func(o string) bool {
		return strings.EqualFold(strings.TrimRight(o, "/"), origin)
	})
}
