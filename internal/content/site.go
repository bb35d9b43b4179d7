// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package content

import (
	"synctech/internal/events"
	"synctech/internal/notify"
)

// Repositories groups the persistence backends for every entity.
type Repositories struct {
	Settings     SettingsRepository
	Hero         HeroRepository
	BlogHeader   BlogHeaderRepository
	Leads        LeadRepository
	Posts        PostRepository
	Projects     ProjectRepository
	Subscribers  SubscriberRepository
	Testimonials TestimonialRepository
	Services     ServiceRepository
	Plans        PlanRepository
	VisitorLogs  VisitorLogRepository
}

// Site bundles every content service. It is built once at startup and
// handed to the HTTP handlers.
type Site struct {
	Settings     *Settings
	Hero         *Hero
	BlogHeader   *BlogHeader
	Leads        *Leads
	Posts        *Posts
	Projects     *Projects
	Subscribers  *Subscribers
	Testimonials *Testimonials
	Services     *Services
	Plans        *Plans
	VisitorLogs  *VisitorLogs
}

// NewSite wires every service to its repository, the bus and the notifier.
func NewSite(r Repositories, bus *events.Bus, notifier notify.Notifier) *Site {
	return &Site{
		Settings:     NewSettings(r.Settings, bus),
		Hero:         NewHero(r.Hero, bus),
		BlogHeader:   NewBlogHeader(r.BlogHeader, bus),
		Leads:        NewLeads(r.Leads, bus, notifier),
		Posts:        NewPosts(r.Posts, bus, notifier),
		Projects:     NewProjects(r.Projects, bus),
		Subscribers:  NewSubscribers(r.Subscribers, bus),
		Testimonials: NewTestimonials(r.Testimonials, bus),
		Services:     NewServices(r.Services, bus),
		Plans:        NewPlans(r.Plans, bus),
		VisitorLogs:  NewVisitorLogs(r.VisitorLogs, bus),
	}
}
