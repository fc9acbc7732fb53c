package orchestrators

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/mail"
	"strings"

	emailAdapter "academy/internal/adapters/email"
	domain "academy/internal/domain/course"
)

// ErrInvalidEmail is returned for an unparseable recipient address.
var ErrInvalidEmail = errors.New("a valid email address is required")

// ErrNoFavorites is returned when there is nothing to share.
var ErrNoFavorites = errors.New("no favorite courses to share")

// ShareCategory tags share emails at the provider.
const ShareCategory = "favorites_share"

// ShareCatalog lists catalog courses in display order.
type ShareCatalog interface {
	All() []domain.Course
}

// ShareFavoritesInput carries input for the share orchestrator.
type ShareFavoritesInput struct {
	To      string
	BaseURL string // Absolute site URL used for course links, e.g. "https://academy.example"
}

// ShareFavoritesDeps holds dependencies for ShareFavorites.
type ShareFavoritesDeps struct {
	Favorites interface{ Contains(id string) bool }
	Catalog   ShareCatalog
	Sender    emailAdapter.Sender
	From      string
}

// ShareFavoritesResult reports what was sent.
type ShareFavoritesResult struct {
	MessageID   string
	CourseCount int
}

var shareTemplate = template.Must(template.New("share").Parse(`<h1>My favorite courses</h1>
<ul>
{{- range .Courses}}
  <li><a href="{{$.BaseURL}}/course/{{.ID}}">{{.Name}}</a> ({{.Topic}}, {{.Difficulty}}, {{.Duration}}, ${{printf "%.2f" .Price}})</li>
{{- end}}
</ul>
<p>Sent from HTAgency Academy.</p>
`))

// ExecuteShareFavorites emails the visitor's favorite courses to input.To.
// PRE: To parses as an email address; at least one favorite matches the catalog
// POST: one email is handed to the sender; favorites are unchanged
func ExecuteShareFavorites(ctx context.Context, input ShareFavoritesInput, deps ShareFavoritesDeps) (ShareFavoritesResult, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(input.To))
	if err != nil {
		return ShareFavoritesResult{}, ErrInvalidEmail
	}

	var courses []domain.Course
	for _, c := range deps.Catalog.All() {
		if deps.Favorites.Contains(c.ID) {
			courses = append(courses, c)
		}
	}
	if len(courses) == 0 {
		return ShareFavoritesResult{}, ErrNoFavorites
	}

	var body bytes.Buffer
	err = shareTemplate.Execute(&body, struct {
		BaseURL string
		Courses []domain.Course
	}{strings.TrimRight(input.BaseURL, "/"), courses})
	if err != nil {
		return ShareFavoritesResult{}, fmt.Errorf("render share email: %w", err)
	}

	sent, err := deps.Sender.Send(ctx, emailAdapter.Message{
		To:       []string{addr.Address},
		From:     deps.From,
		Subject:  fmt.Sprintf("Favorite courses from HTAgency Academy (%d)", len(courses)),
		HTML:     body.String(),
		Category: ShareCategory,
	})
	if err != nil {
		return ShareFavoritesResult{}, fmt.Errorf("send share email: %w", err)
	}

	slog.Info("favorites_event", "event", "shared", "course_count", len(courses), "message_id", sent.MessageID)
	return ShareFavoritesResult{MessageID: sent.MessageID, CourseCount: len(courses)}, nil
}
