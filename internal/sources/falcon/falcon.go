// Package falcon implements the alerts.Source contract against the
// CrowdStrike Falcon Alerts API: an OAuth2 client-credentials token exchange
// followed by a two-step query (IDs, then details).
package falcon

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/Jarhead00/falcon2jira/internal/transport"
	"github.com/Jarhead00/falcon2jira/pkg/alerts"
	"github.com/Jarhead00/falcon2jira/pkg/logging"
)

// DefaultBaseURL is the US-1 Falcon API region.
const DefaultBaseURL = "https://api.crowdstrike.com"

// tokenSlack is subtracted from a token's lifetime so a token is refreshed
// before it can expire mid-request.
const tokenSlack = 60 * time.Second

// Source fetches closed alerts from the Falcon API.
type Source struct {
	client       *transport.Client
	tokenClient  *transport.Client
	baseURL      string
	clientID     string
	clientSecret string

	token       string
	tokenExpiry time.Time
}

// New creates a Falcon source with the given OAuth2 client credentials.
// baseURL may be empty to use the default region.
func New(baseURL, clientID, clientSecret string) *Source {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	s := &Source{
		baseURL:      strings.TrimRight(baseURL, "/"),
		clientID:     clientID,
		clientSecret: clientSecret,
	}
	s.tokenClient = transport.New("falcon", &transport.NoAuth{})
	s.client = transport.New("falcon", &transport.BearerAuth{TokenFunc: s.accessToken})
	return s
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// accessToken returns a cached OAuth2 access token, fetching a fresh one
// when the cache is empty or near expiry. The sync is single-threaded, so
// no locking is needed here. ctx is the context of the request being
// authenticated, so canceling a run cancels the token fetch too.
func (s *Source) accessToken(ctx context.Context) (string, error) {
	if s.token != "" && time.Now().Before(s.tokenExpiry) {
		return s.token, nil
	}

	form := url.Values{
		"client_id":     {s.clientID},
		"client_secret": {s.clientSecret},
	}
	var resp tokenResponse
	err := s.tokenClient.PostForm(ctx, s.baseURL+"/oauth2/token", form.Encode(), &resp)
	if err != nil {
		return "", err
	}

	s.token = resp.AccessToken
	s.tokenExpiry = time.Now().Add(time.Duration(resp.ExpiresIn)*time.Second - tokenSlack)
	return s.token, nil
}

type queryResponse struct {
	Resources []string `json:"resources"`
}

type detailsRequest struct {
	CompositeIDs []string `json:"composite_ids"`
}

type detailsResponse struct {
	Resources []alertDetail `json:"resources"`
}

type alertDetail struct {
	CompositeID    string          `json:"composite_id"`
	Status         string          `json:"status"`
	AssignedToName string          `json:"assigned_to_name"`
	AssignedToUID  string          `json:"assigned_to_uid"`
	ClosedAt       string          `json:"updated_timestamp"`
	Comments       []commentDetail `json:"comments"`
}

type commentDetail struct {
	FalconUserID string `json:"falcon_user_id"`
	Value        string `json:"value"`
	Timestamp    string `json:"timestamp"`
}

// FetchClosed implements alerts.Source. It queries up to limit closed alert
// IDs, most recently closed first, then fetches their details in one batch.
func (s *Source) FetchClosed(ctx context.Context, limit int) ([]alerts.Alert, error) {
	queryURL := fmt.Sprintf("%s/alerts/queries/alerts/v2?%s", s.baseURL, url.Values{
		"filter": {"status:'closed'"},
		"sort":   {"updated_timestamp.desc"},
		"limit":  {fmt.Sprint(limit)},
	}.Encode())

	var ids queryResponse
	if err := s.client.Get(ctx, queryURL, &ids); err != nil {
		return nil, err
	}
	if len(ids.Resources) == 0 {
		logging.Debug().Msg("No closed alerts reported by Falcon")
		return nil, nil
	}

	var details detailsResponse
	detailsURL := s.baseURL + "/alerts/entities/alerts/v2"
	if err := s.client.Post(ctx, detailsURL, detailsRequest{CompositeIDs: ids.Resources}, &details); err != nil {
		return nil, err
	}

	result := make([]alerts.Alert, 0, len(details.Resources))
	for _, d := range details.Resources {
		result = append(result, toAlert(d))
	}

	// The API sorts by recency already; re-sort with an ID tie-break so a
	// rerun over the same data produces the same batch order.
	sort.SliceStable(result, func(i, j int) bool {
		if !result[i].ClosedAt.Equal(result[j].ClosedAt) {
			return result[i].ClosedAt.After(result[j].ClosedAt)
		}
		return result[i].ID < result[j].ID
	})

	logging.Info().Int("alerts", len(result)).Msg("Fetched closed alerts from Falcon")
	return result, nil
}

// toAlert maps a Falcon alert payload onto the domain type.
func toAlert(d alertDetail) alerts.Alert {
	assignee := d.AssignedToName
	if assignee == "" {
		assignee = d.AssignedToUID
	}

	a := alerts.Alert{
		ID:           d.CompositeID,
		Status:       alerts.Status(d.Status),
		AssigneeName: assignee,
		ClosedAt:     parseTimestamp(d.ClosedAt),
	}
	for _, c := range d.Comments {
		a.Comments = append(a.Comments, alerts.Comment{
			Author:    c.FalconUserID,
			Body:      c.Value,
			CreatedAt: parseTimestamp(c.Timestamp),
		})
	}
	sort.SliceStable(a.Comments, func(i, j int) bool {
		return a.Comments[i].CreatedAt.Before(a.Comments[j].CreatedAt)
	})
	return a
}

// parseTimestamp parses Falcon's RFC3339 timestamps, which may carry
// fractional seconds. Unparseable values map to the zero time.
func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC()
	}
	// Some payloads omit the timezone suffix.
	if t, err := time.Parse("2006-01-02T15:04:05", strings.SplitN(s, ".", 2)[0]); err == nil {
		return t.UTC()
	}
	logging.Warn().Str("timestamp", s).Msg("Unparseable Falcon timestamp")
	return time.Time{}
}
