// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import "database/sql"

// Stores bundles one of each store over a shared connection pool.
type Stores struct {
	Users         *UserStore
	Skills        *SkillStore
	Technologies  *TechnologyStore
	Categories    *CategoryStore
	Projects      *ProjectStore
	Posts         *PostStore
	Services      *ServiceStore
	Settings      *SiteSettingStore
	Messages      *MessageStore
	Subscribers   *SubscriberStore
	Campaigns     *CampaignStore
	Views         *ViewStore
	Notifications *NotificationStore
	Media         *MediaStore
}

// New creates every store on db.
func New(db *sql.DB) *Stores {
	return &Stores{
		Users:         NewUserStore(db),
		Skills:        NewSkillStore(db),
		Technologies:  NewTechnologyStore(db),
		Categories:    NewCategoryStore(db),
		Projects:      NewProjectStore(db),
		Posts:         NewPostStore(db),
		Services:      NewServiceStore(db),
		Settings:      NewSiteSettingStore(db),
		Messages:      NewMessageStore(db),
		Subscribers:   NewSubscriberStore(db),
		Campaigns:     NewCampaignStore(db),
		Views:         NewViewStore(db),
		Notifications: NewNotificationStore(db),
		Media:         NewMediaStore(db),
	}
}
