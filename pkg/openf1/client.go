package openf1

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const DefaultBaseURL = "https://api.openf1.org"

var errNoData = errors.New("no data")

// Client reads the OpenF1 feeds. Failures never leave this type: every
// method logs them and returns an empty slice.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *logrus.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

func (c *Client) Meetings(ctx context.Context, year int) []Meeting {
	return fetch[Meeting](ctx, c, "/v1/meetings", url.Values{"year": {strconv.Itoa(year)}})
}

func (c *Client) DriverChampionship(ctx context.Context, sessionKey string) []ChampionshipDriver {
	return fetch[ChampionshipDriver](ctx, c, "/v1/championship_drivers", url.Values{"session_key": {sessionKey}})
}

func (c *Client) TeamChampionship(ctx context.Context, sessionKey string) []ChampionshipTeam {
	return fetch[ChampionshipTeam](ctx, c, "/v1/championship_teams", url.Values{"session_key": {sessionKey}})
}

func (c *Client) Drivers(ctx context.Context, sessionKey string) []Driver {
	return fetch[Driver](ctx, c, "/v1/drivers", url.Values{"session_key": {sessionKey}})
}

// Sessions lists the sessions of a meeting. An empty sessionType lists all of them.
func (c *Client) Sessions(ctx context.Context, sessionType, meetingKey string) []Session {
	q := url.Values{}
	if sessionType != "" {
		q.Set("session_type", sessionType)
	}
	if meetingKey != "" {
		q.Set("meeting_key", meetingKey)
	}
	return fetch[Session](ctx, c, "/v1/sessions", q)
}

func (c *Client) SessionResults(ctx context.Context, sessionKey string) []SessionResult {
	return fetch[SessionResult](ctx, c, "/v1/session_result", url.Values{"session_key": {sessionKey}})
}

func fetch[T any](ctx context.Context, c *Client, path string, query url.Values) []T {
	records := []T{}
	err := c.get(ctx, path, query, &records)
	switch {
	case err == nil:
	case errors.Is(err, errNoData):
		c.logger.WithField("path", path).WithField("query", query.Encode()).Debug("openf1 returned no data")
		return []T{}
	default:
		c.logger.WithError(err).WithField("path", path).WithField("query", query.Encode()).Error("openf1 request failed")
		return []T{}
	}
	if records == nil {
		return []T{}
	}
	return records
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return errors.Wrapf(err, "building request for %s", path)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "requesting %s", path)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return errNoData
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.Wrapf(fmt.Errorf("unexpected status %d", resp.StatusCode), "requesting %s", path)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrapf(err, "reading body of %s", path)
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return errNoData
	}

	if err := json.Unmarshal(body, out); err != nil {
		return errors.Wrapf(err, "decoding %s", path)
	}
	return nil
}
