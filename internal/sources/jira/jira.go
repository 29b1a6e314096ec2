// Package jira implements the issues.Tracker and issues.Directory contracts
// against the Jira Cloud REST API v3. Descriptions and comments travel as
// Atlassian Document Format; the adapter flattens them to plain text at this
// boundary so the reconciler core never sees ADF.
package jira

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/Jarhead00/falcon2jira/internal/transport"
	"github.com/Jarhead00/falcon2jira/pkg/issues"
	"github.com/Jarhead00/falcon2jira/pkg/logging"
)

// searchPageSize caps how many issues one alert search requests. Anything
// beyond a couple of matches is already an anomaly the resolver reports.
const searchPageSize = 10

// updatedTimeFormat is Jira's issue timestamp layout.
const updatedTimeFormat = "2006-01-02T15:04:05.000-0700"

// Client talks to one Jira Cloud site.
type Client struct {
	client  *transport.Client
	baseURL string
}

// New creates a Jira client for the given Atlassian site domain (the
// "<domain>.atlassian.net" prefix), authenticating with an account email and
// API token.
func New(domain, email, apiToken string) *Client {
	return &Client{
		client:  transport.New("jira", &transport.BasicAuth{Username: email, Password: apiToken}),
		baseURL: fmt.Sprintf("https://%s.atlassian.net", domain),
	}
}

type searchResponse struct {
	Issues []issuePayload `json:"issues"`
}

type issuePayload struct {
	Key    string `json:"key"`
	Fields struct {
		Status struct {
			Name string `json:"name"`
		} `json:"status"`
		Assignee    *userPayload `json:"assignee"`
		Description *adfNode     `json:"description"`
		Updated     string       `json:"updated"`
		Comment     struct {
			Comments []commentPayload `json:"comments"`
		} `json:"comment"`
	} `json:"fields"`
}

type commentPayload struct {
	Body    *adfNode     `json:"body"`
	Author  *userPayload `json:"author"`
	Created string       `json:"created"`
}

type userPayload struct {
	AccountID   string `json:"accountId"`
	DisplayName string `json:"displayName"`
}

// Search implements issues.Tracker. The JQL restricts by project, status
// set, and a description text match; ordering is most recently updated
// first so the resolver's tie-break can rely on it even before re-sorting.
func (c *Client) Search(ctx context.Context, query issues.SearchQuery) ([]issues.Issue, error) {
	jql := buildJQL(query)
	searchURL := fmt.Sprintf("%s/rest/api/3/search/jql?%s", c.baseURL, url.Values{
		"jql":        {jql},
		"maxResults": {fmt.Sprint(searchPageSize)},
		"fields":     {"key,status,assignee,description,updated,comment"},
	}.Encode())

	var resp searchResponse
	if err := c.client.Get(ctx, searchURL, &resp); err != nil {
		return nil, err
	}

	result := make([]issues.Issue, 0, len(resp.Issues))
	for _, p := range resp.Issues {
		result = append(result, toIssue(p))
	}
	logging.Debug().Str("jql", jql).Int("issues", len(result)).Msg("Jira search completed")
	return result, nil
}

// buildJQL assembles the search JQL for one alert token.
func buildJQL(query issues.SearchQuery) string {
	statuses := make([]string, len(query.Statuses))
	for i, s := range query.Statuses {
		statuses[i] = fmt.Sprintf("%q", s)
	}
	return fmt.Sprintf(`project = %s AND status IN (%s) AND description ~ "%s" ORDER BY updated DESC`,
		query.ProjectKey, strings.Join(statuses, ", "), escapeJQL(query.DescriptionContains))
}

// escapeJQL escapes quotes and backslashes inside a JQL string literal.
func escapeJQL(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}

// toIssue maps a Jira search payload onto the domain type.
func toIssue(p issuePayload) issues.Issue {
	issue := issues.Issue{
		Key:    p.Key,
		Status: p.Fields.Status.Name,
	}
	if p.Fields.Assignee != nil {
		issue.Assignee = &issues.User{
			AccountID:   p.Fields.Assignee.AccountID,
			DisplayName: p.Fields.Assignee.DisplayName,
		}
	}
	if p.Fields.Description != nil {
		issue.Description = adfToText(*p.Fields.Description)
	}
	if t, err := time.Parse(updatedTimeFormat, p.Fields.Updated); err == nil {
		issue.UpdatedAt = t.UTC()
	}
	for _, cp := range p.Fields.Comment.Comments {
		comment := issues.Comment{}
		if cp.Body != nil {
			comment.Body = adfToText(*cp.Body)
		}
		if cp.Author != nil {
			comment.Author = &issues.User{
				AccountID:   cp.Author.AccountID,
				DisplayName: cp.Author.DisplayName,
			}
		}
		if t, err := time.Parse(updatedTimeFormat, cp.Created); err == nil {
			comment.CreatedAt = t.UTC()
		}
		issue.Comments = append(issue.Comments, comment)
	}
	return issue
}

type transitionsResponse struct {
	Transitions []struct {
		ID string `json:"id"`
		To struct {
			Name string `json:"name"`
		} `json:"to"`
	} `json:"transitions"`
}

// Transitions implements issues.Tracker.
func (c *Client) Transitions(ctx context.Context, issueKey string) ([]issues.Transition, error) {
	var resp transitionsResponse
	endpoint := fmt.Sprintf("%s/rest/api/3/issue/%s/transitions", c.baseURL, url.PathEscape(issueKey))
	if err := c.client.Get(ctx, endpoint, &resp); err != nil {
		return nil, err
	}

	result := make([]issues.Transition, len(resp.Transitions))
	for i, t := range resp.Transitions {
		result[i] = issues.Transition{ID: t.ID, To: t.To.Name}
	}
	return result, nil
}

// Transition implements issues.Tracker.
func (c *Client) Transition(ctx context.Context, issueKey, transitionID string) error {
	endpoint := fmt.Sprintf("%s/rest/api/3/issue/%s/transitions", c.baseURL, url.PathEscape(issueKey))
	body := map[string]any{
		"transition": map[string]string{"id": transitionID},
	}
	return c.client.Post(ctx, endpoint, body, nil)
}

// SetAssignee implements issues.Tracker.
func (c *Client) SetAssignee(ctx context.Context, issueKey, accountID string) error {
	endpoint := fmt.Sprintf("%s/rest/api/3/issue/%s/assignee", c.baseURL, url.PathEscape(issueKey))
	return c.client.Put(ctx, endpoint, map[string]string{"accountId": accountID}, nil)
}

// AddComment implements issues.Tracker. The plain-text body is rendered as
// an ADF document; the provenance marker rides on its own line and survives
// the round-trip through ADF intact.
func (c *Client) AddComment(ctx context.Context, issueKey, body string) error {
	endpoint := fmt.Sprintf("%s/rest/api/3/issue/%s/comment", c.baseURL, url.PathEscape(issueKey))
	return c.client.Post(ctx, endpoint, map[string]any{"body": textToADF(body)}, nil)
}

// ResolveUser implements issues.Directory. A name with no matching account
// resolves to (nil, nil); the reconciler turns that into a field-scoped
// failure.
func (c *Client) ResolveUser(ctx context.Context, name string) (*issues.User, error) {
	endpoint := fmt.Sprintf("%s/rest/api/3/user/search?%s", c.baseURL, url.Values{
		"query": {name},
	}.Encode())

	var found []userPayload
	if err := c.client.Get(ctx, endpoint, &found); err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, nil
	}
	return &issues.User{AccountID: found[0].AccountID, DisplayName: found[0].DisplayName}, nil
}
