package notify

import (
	"context"
	"errors"
	"fmt"

	"leadradar/pkg/lead"
)

// LeadLink is one lead surfaced in a notification.
type LeadLink struct {
	Title     string  `json:"title"`
	URL       string  `json:"url"`
	Source    string  `json:"source"`
	LeadScore float64 `json:"lead_score"`
}

// Notification is the data sent to notification destinations when a
// monitoring sweep surfaces hot leads.
type Notification struct {
	ProductName string     `json:"product_name"`
	Title       string     `json:"title"`
	Body        string     `json:"body"`
	Leads       []LeadLink `json:"leads"`
}

// Notifier delivers notifications to a specific destination.
type Notifier interface {
	Name() string
	Send(ctx context.Context, n *Notification) error
}

// Manager broadcasts notifications to all registered notifiers.
type Manager struct {
	notifiers []Notifier
}

// NewManager creates a new notification manager.
func NewManager(notifiers []Notifier) *Manager {
	return &Manager{notifiers: notifiers}
}

// HasNotifiers returns true if at least one notifier is configured.
func (m *Manager) HasNotifiers() bool {
	return len(m.notifiers) > 0
}

// Broadcast sends a notification to all registered notifiers.
func (m *Manager) Broadcast(ctx context.Context, n *Notification) error {
	var errs []error
	for _, notifier := range m.notifiers {
		if err := notifier.Send(ctx, n); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", notifier.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// HotLeads builds the notification for a batch of hot posts found during
// a monitoring sweep.
func HotLeads(productName string, posts []lead.Post) *Notification {
	n := &Notification{
		ProductName: productName,
		Title:       fmt.Sprintf("%d hot leads for %s", len(posts), productName),
		Body:        "New high-value posts from monitored subreddits.",
	}
	for _, p := range posts {
		n.Leads = append(n.Leads, LeadLink{
			Title:     p.Title,
			URL:       p.URL,
			Source:    lead.DisplaySubreddit(p.Subreddit),
			LeadScore: p.Lead,
		})
	}
	return n
}
