package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// defaultPageSize is the maximum number of events requested per page.
const defaultPageSize = 250

// GoogleProvider implements Provider against the Google Calendar v3 API
// using authorized-user credentials from a token file.
type GoogleProvider struct {
	svc      *gcal.Service
	pageSize int64
}

// Compile-time check that GoogleProvider implements Provider.
var _ Provider = (*GoogleProvider)(nil)

// NewGoogleProvider builds a calendar service from an OAuth client secrets
// file and a previously stored user token (see the auth command).
func NewGoogleProvider(ctx context.Context, credentialsFile, tokenFile string) (*GoogleProvider, error) {
	cfg, err := OAuthConfig(credentialsFile)
	if err != nil {
		return nil, err
	}

	tok, err := LoadToken(tokenFile)
	if err != nil {
		return nil, err
	}

	svc, err := gcal.NewService(ctx, option.WithHTTPClient(cfg.Client(ctx, tok)))
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}

	return &GoogleProvider{svc: svc, pageSize: defaultPageSize}, nil
}

// ListPage fetches one page of upcoming events. Recurring events are expanded
// into single instances by the source (singleEvents), so the event ID is a
// unique occurrence key.
func (p *GoogleProvider) ListPage(ctx context.Context, calendarID string, timeMin time.Time, pageToken string) (*Page, error) {
	call := p.svc.Events.List(calendarID).
		TimeMin(timeMin.Format(time.RFC3339)).
		MaxResults(p.pageSize).
		SingleEvents(true).
		OrderBy("startTime")
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}

	res, err := call.Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("calendar list: %w", err)
	}

	page := &Page{NextPageToken: res.NextPageToken}
	for _, it := range res.Items {
		item := Item{
			ID:       it.Id,
			Summary:  it.Summary,
			HTMLLink: it.HtmlLink,
		}
		if it.Start != nil {
			item.Start = RawTime{DateTime: it.Start.DateTime, Date: it.Start.Date}
		}
		if it.End != nil {
			item.End = RawTime{DateTime: it.End.DateTime, Date: it.End.Date}
		}
		page.Items = append(page.Items, item)
	}
	return page, nil
}

// OAuthConfig reads an OAuth client secrets file and returns the config
// scoped to read-only calendar access.
func OAuthConfig(credentialsFile string) (*oauth2.Config, error) {
	b, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read credentials file: %w", err)
	}
	cfg, err := google.ConfigFromJSON(b, gcal.CalendarReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("parse credentials file: %w", err)
	}
	return cfg, nil
}

// LoadToken reads a stored OAuth token from disk.
func LoadToken(tokenFile string) (*oauth2.Token, error) {
	b, err := os.ReadFile(tokenFile)
	if err != nil {
		return nil, fmt.Errorf("read token file: %w", err)
	}
	var tok oauth2.Token
	if err := json.Unmarshal(b, &tok); err != nil {
		return nil, fmt.Errorf("parse token file: %w", err)
	}
	return &tok, nil
}

// SaveToken writes an OAuth token to disk with owner-only permissions.
func SaveToken(tokenFile string, tok *oauth2.Token) error {
	b, err := json.Marshal(tok)
	if err != nil {
		return fmt.Errorf("marshal token: %w", err)
	}
	if err := os.WriteFile(tokenFile, b, 0o600); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	return nil
}
