package msgraph

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/talentbridge/talentbridge-backend/internal/logger"
)

// Client wraps the Microsoft identity platform and Graph calendar APIs.
// Tokens are the caller's responsibility; the client is stateless.
type Client interface {
	AuthCodeURL(state string) string
	ExchangeCode(ctx context.Context, code string) (*Token, error)
	RefreshToken(ctx context.Context, refreshToken string) (*Token, error)
	Me(ctx context.Context, accessToken string) (*Profile, error)
	GetSchedule(ctx context.Context, accessToken string, req ScheduleRequest) ([]ScheduleItem, error)
	CreateEvent(ctx context.Context, accessToken string, ev Event) (*Event, error)
	UpdateEvent(ctx context.Context, accessToken string, eventID string, ev Event) (*Event, error)
	DeleteEvent(ctx context.Context, accessToken string, eventID string) error
}

type Config struct {
	ClientID     string
	ClientSecret string
	Tenant       string
	RedirectURL  string
	LoginBaseURL string
	GraphBaseURL string
	Timeout      time.Duration
	MaxRetries   int
}

var graphScopes = []string{
	"offline_access",
	"User.Read",
	"Calendars.ReadWrite",
}

func ConfigFromEnv() Config {
	timeoutSec := 30
	if v := strings.TrimSpace(os.Getenv("MSGRAPH_TIMEOUT_SECONDS")); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			timeoutSec = parsed
		}
	}
	return Config{
		ClientID:     strings.TrimSpace(os.Getenv("MSGRAPH_CLIENT_ID")),
		ClientSecret: strings.TrimSpace(os.Getenv("MSGRAPH_CLIENT_SECRET")),
		Tenant:       strings.TrimSpace(os.Getenv("MSGRAPH_TENANT")),
		RedirectURL:  strings.TrimSpace(os.Getenv("MSGRAPH_REDIRECT_URL")),
		LoginBaseURL: strings.TrimSpace(os.Getenv("MSGRAPH_LOGIN_BASE_URL")),
		GraphBaseURL: strings.TrimSpace(os.Getenv("MSGRAPH_BASE_URL")),
		Timeout:      time.Duration(timeoutSec) * time.Second,
		MaxRetries:   3,
	}
}

func New(log *logger.Logger, cfg Config) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if cfg.ClientID == "" {
		return nil, fmt.Errorf("missing MSGRAPH_CLIENT_ID")
	}
	if cfg.ClientSecret == "" {
		return nil, fmt.Errorf("missing MSGRAPH_CLIENT_SECRET")
	}
	if cfg.RedirectURL == "" {
		return nil, fmt.Errorf("missing MSGRAPH_REDIRECT_URL")
	}
	if cfg.Tenant == "" {
		cfg.Tenant = "common"
	}
	if cfg.LoginBaseURL == "" {
		cfg.LoginBaseURL = "https://login.microsoftonline.com"
	}
	if cfg.GraphBaseURL == "" {
		cfg.GraphBaseURL = "https://graph.microsoft.com/v1.0"
	}
	cfg.LoginBaseURL = strings.TrimRight(cfg.LoginBaseURL, "/")
	cfg.GraphBaseURL = strings.TrimRight(cfg.GraphBaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	return &client{
		log:        log.With("client", "MSGraphClient"),
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

type client struct {
	log        *logger.Logger
	cfg        Config
	httpClient *http.Client
}

type Token struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

type Profile struct {
	ID    string `json:"id"`
	Mail  string `json:"mail"`
	UPN   string `json:"userPrincipalName"`
	Name  string `json:"displayName"`
}

// Email returns the best available address for the account.
func (p *Profile) Email() string {
	if p == nil {
		return ""
	}
	if strings.TrimSpace(p.Mail) != "" {
		return p.Mail
	}
	return p.UPN
}

type ScheduleRequest struct {
	Emails   []string
	Start    time.Time
	End      time.Time
	SlotMins int
}

type ScheduleItem struct {
	Email string
	Busy  []BusyWindow
}

type BusyWindow struct {
	Start time.Time
	End   time.Time
}

type Event struct {
	ID        string
	Subject   string
	Body      string
	Start     time.Time
	End       time.Time
	Attendees []string
	Location  string
	WebLink   string
}

type graphHTTPError struct {
	StatusCode int
	Body       string
}

func (e *graphHTTPError) Error() string {
	return fmt.Sprintf("msgraph http %d: %s", e.StatusCode, e.Body)
}

func (c *client) AuthCodeURL(state string) string {
	q := url.Values{}
	q.Set("client_id", c.cfg.ClientID)
	q.Set("response_type", "code")
	q.Set("redirect_uri", c.cfg.RedirectURL)
	q.Set("response_mode", "query")
	q.Set("scope", strings.Join(graphScopes, " "))
	q.Set("state", state)
	return fmt.Sprintf("%s/%s/oauth2/v2.0/authorize?%s", c.cfg.LoginBaseURL, c.cfg.Tenant, q.Encode())
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	TokenType    string `json:"token_type"`
	Error        string `json:"error"`
	ErrorDesc    string `json:"error_description"`
}

func (c *client) ExchangeCode(ctx context.Context, code string) (*Token, error) {
	if strings.TrimSpace(code) == "" {
		return nil, errors.New("code required")
	}
	form := url.Values{}
	form.Set("client_id", c.cfg.ClientID)
	form.Set("client_secret", c.cfg.ClientSecret)
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", c.cfg.RedirectURL)
	form.Set("scope", strings.Join(graphScopes, " "))
	return c.requestToken(ctx, form)
}

func (c *client) RefreshToken(ctx context.Context, refreshToken string) (*Token, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return nil, errors.New("refreshToken required")
	}
	form := url.Values{}
	form.Set("client_id", c.cfg.ClientID)
	form.Set("client_secret", c.cfg.ClientSecret)
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)
	form.Set("scope", strings.Join(graphScopes, " "))
	return c.requestToken(ctx, form)
}

func (c *client) requestToken(ctx context.Context, form url.Values) (*Token, error) {
	endpoint := fmt.Sprintf("%s/%s/oauth2/v2.0/token", c.cfg.LoginBaseURL, c.cfg.Tenant)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	raw, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()

	var tr tokenResponse
	if uErr := json.Unmarshal(raw, &tr); uErr != nil {
		return nil, fmt.Errorf("msgraph token decode: %w; raw=%s", uErr, string(raw))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 || tr.Error != "" {
		return nil, &graphHTTPError{StatusCode: resp.StatusCode, Body: tr.Error + ": " + tr.ErrorDesc}
	}
	if tr.AccessToken == "" {
		return nil, errors.New("msgraph token response missing access_token")
	}
	return &Token{
		AccessToken:  tr.AccessToken,
		RefreshToken: tr.RefreshToken,
		ExpiresAt:    time.Now().Add(time.Duration(tr.ExpiresIn) * time.Second),
	}, nil
}

func (c *client) do(ctx context.Context, accessToken, method, path string, body any, out any) error {
	var lastErr error
	backoff := 1 * time.Second
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		err := c.doOnce(ctx, accessToken, method, path, body, out)
		if err == nil {
			return nil
		}
		lastErr = err
		var hErr *graphHTTPError
		retryable := errors.As(err, &hErr) && (hErr.StatusCode == 429 || hErr.StatusCode >= 500)
		if !retryable || attempt == c.cfg.MaxRetries {
			return err
		}
		c.log.Warn("Graph request retrying", "path", path, "attempt", attempt+1, "error", err.Error())
		time.Sleep(backoff)
		backoff *= 2
	}
	return lastErr
}

func (c *client) doOnce(ctx context.Context, accessToken, method, path string, body any, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.cfg.GraphBaseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	raw, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &graphHTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if uErr := json.Unmarshal(raw, out); uErr != nil {
		return fmt.Errorf("msgraph decode: %w; raw=%s", uErr, string(raw))
	}
	return nil
}

func (c *client) Me(ctx context.Context, accessToken string) (*Profile, error) {
	var p Profile
	if err := c.do(ctx, accessToken, http.MethodGet, "/me", nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

type graphDateTime struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

func toGraphTime(t time.Time) graphDateTime {
	return graphDateTime{DateTime: t.UTC().Format("2006-01-02T15:04:05"), TimeZone: "UTC"}
}

func fromGraphTime(g graphDateTime) time.Time {
	t, err := time.Parse("2006-01-02T15:04:05", strings.SplitN(g.DateTime, ".", 2)[0])
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}

type getScheduleRequest struct {
	Schedules                []string      `json:"schedules"`
	StartTime                graphDateTime `json:"startTime"`
	EndTime                  graphDateTime `json:"endTime"`
	AvailabilityViewInterval int           `json:"availabilityViewInterval"`
}

type getScheduleResponse struct {
	Value []struct {
		ScheduleID    string `json:"scheduleId"`
		ScheduleItems []struct {
			Status string        `json:"status"`
			Start  graphDateTime `json:"start"`
			End    graphDateTime `json:"end"`
		} `json:"scheduleItems"`
	} `json:"value"`
}

func (c *client) GetSchedule(ctx context.Context, accessToken string, sreq ScheduleRequest) ([]ScheduleItem, error) {
	if len(sreq.Emails) == 0 {
		return nil, errors.New("at least one email required")
	}
	if !sreq.End.After(sreq.Start) {
		return nil, errors.New("end must be after start")
	}
	interval := sreq.SlotMins
	if interval <= 0 {
		interval = 30
	}
	body := getScheduleRequest{
		Schedules:                sreq.Emails,
		StartTime:                toGraphTime(sreq.Start),
		EndTime:                  toGraphTime(sreq.End),
		AvailabilityViewInterval: interval,
	}
	var resp getScheduleResponse
	if err := c.do(ctx, accessToken, http.MethodPost, "/me/calendar/getSchedule", body, &resp); err != nil {
		return nil, err
	}
	out := make([]ScheduleItem, 0, len(resp.Value))
	for _, sched := range resp.Value {
		item := ScheduleItem{Email: sched.ScheduleID}
		for _, si := range sched.ScheduleItems {
			if si.Status == "free" {
				continue
			}
			item.Busy = append(item.Busy, BusyWindow{Start: fromGraphTime(si.Start), End: fromGraphTime(si.End)})
		}
		out = append(out, item)
	}
	return out, nil
}

type graphEvent struct {
	ID      string        `json:"id,omitempty"`
	Subject string        `json:"subject"`
	Body    *graphBody    `json:"body,omitempty"`
	Start   graphDateTime `json:"start"`
	End     graphDateTime `json:"end"`
	Location *struct {
		DisplayName string `json:"displayName"`
	} `json:"location,omitempty"`
	Attendees []graphAttendee `json:"attendees,omitempty"`
	WebLink   string          `json:"webLink,omitempty"`
}

type graphBody struct {
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

type graphAttendee struct {
	EmailAddress struct {
		Address string `json:"address"`
	} `json:"emailAddress"`
	Type string `json:"type"`
}

func toGraphEvent(ev Event) graphEvent {
	ge := graphEvent{
		Subject: ev.Subject,
		Start:   toGraphTime(ev.Start),
		End:     toGraphTime(ev.End),
	}
	if strings.TrimSpace(ev.Body) != "" {
		ge.Body = &graphBody{ContentType: "text", Content: ev.Body}
	}
	if strings.TrimSpace(ev.Location) != "" {
		ge.Location = &struct {
			DisplayName string `json:"displayName"`
		}{DisplayName: ev.Location}
	}
	for _, addr := range ev.Attendees {
		var a graphAttendee
		a.EmailAddress.Address = addr
		a.Type = "required"
		ge.Attendees = append(ge.Attendees, a)
	}
	return ge
}

func fromGraphEvent(ge graphEvent) *Event {
	ev := &Event{
		ID:      ge.ID,
		Subject: ge.Subject,
		Start:   fromGraphTime(ge.Start),
		End:     fromGraphTime(ge.End),
		WebLink: ge.WebLink,
	}
	if ge.Body != nil {
		ev.Body = ge.Body.Content
	}
	if ge.Location != nil {
		ev.Location = ge.Location.DisplayName
	}
	for _, a := range ge.Attendees {
		ev.Attendees = append(ev.Attendees, a.EmailAddress.Address)
	}
	return ev
}

func (c *client) CreateEvent(ctx context.Context, accessToken string, ev Event) (*Event, error) {
	if strings.TrimSpace(ev.Subject) == "" {
		return nil, errors.New("subject required")
	}
	if !ev.End.After(ev.Start) {
		return nil, errors.New("end must be after start")
	}
	var out graphEvent
	if err := c.do(ctx, accessToken, http.MethodPost, "/me/events", toGraphEvent(ev), &out); err != nil {
		return nil, err
	}
	return fromGraphEvent(out), nil
}

func (c *client) UpdateEvent(ctx context.Context, accessToken string, eventID string, ev Event) (*Event, error) {
	if strings.TrimSpace(eventID) == "" {
		return nil, errors.New("eventID required")
	}
	var out graphEvent
	path := "/me/events/" + url.PathEscape(eventID)
	if err := c.do(ctx, accessToken, http.MethodPatch, path, toGraphEvent(ev), &out); err != nil {
		return nil, err
	}
	return fromGraphEvent(out), nil
}

func (c *client) DeleteEvent(ctx context.Context, accessToken string, eventID string) error {
	if strings.TrimSpace(eventID) == "" {
		return errors.New("eventID required")
	}
	return c.do(ctx, accessToken, http.MethodDelete, "/me/events/"+url.PathEscape(eventID), nil, nil)
}
