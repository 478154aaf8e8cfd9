package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/braindumpster/braindumpster-go/internal/client/models"
	"github.com/braindumpster/braindumpster-go/internal/common"
	"github.com/braindumpster/braindumpster-go/internal/logging"
	"github.com/braindumpster/braindumpster-go/internal/netx"
)

// Options configures the HTTP client.
type Options struct {
	BaseURL string

	// Timeout bounds every exchange, the audio upload included. Expiry is
	// reported as NetworkError with kind timeout.
	Timeout time.Duration

	// MaxUploadBytes is the client-side audio ceiling. Zero means the
	// default 100 MB.
	MaxUploadBytes int64

	Logger logging.Logger
}

// HTTPClient talks JSON over HTTP to the analysis backend. It holds the
// session tokens and transparently refreshes an expired access token once
// per request.
type HTTPClient struct {
	baseURL        string
	httpc          *http.Client
	log            logging.Logger
	maxUploadBytes int64

	mu      sync.Mutex
	session *Session
}

var _ Client = (*HTTPClient)(nil)

func NewHTTPClient(opts Options) *HTTPClient {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = common.MaxAudioUploadBytes
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 2 * time.Minute
	}
	if opts.Logger == nil {
		opts.Logger = logging.New()
	}
	return &HTTPClient{
		baseURL:        strings.TrimRight(opts.BaseURL, "/"),
		httpc:          &http.Client{Timeout: opts.Timeout},
		log:            opts.Logger,
		maxUploadBytes: opts.MaxUploadBytes,
	}
}

func (c *HTTPClient) Session() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil
	}
	s := *c.session
	return &s
}

func (c *HTTPClient) Logout() {
	c.mu.Lock()
	c.session = nil
	c.mu.Unlock()
}

func (c *HTTPClient) Register(ctx context.Context, email, password, displayName string) error {
	body := map[string]string{"email": email, "password": password, "displayName": displayName}
	return c.doJSON(ctx, http.MethodPost, "/auth/register", body, nil, false)
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*Session, error) {
	var resp struct {
		UserID       string `json:"userId"`
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.doJSON(ctx, http.MethodPost, "/auth/login", body, &resp, false); err != nil {
		return nil, err
	}

	s := &Session{UserID: resp.UserID, AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken}
	c.mu.Lock()
	c.session = s
	c.mu.Unlock()

	out := *s
	return &out, nil
}

// refreshSession exchanges the refresh token for a new token pair.
func (c *HTTPClient) refreshSession(ctx context.Context) error {
	c.mu.Lock()
	sess := c.session
	c.mu.Unlock()
	if sess == nil || sess.RefreshToken == "" {
		return common.ErrUnauthorized
	}

	var resp struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}
	body := map[string]string{"refreshToken": sess.RefreshToken}
	if err := c.doJSON(ctx, http.MethodPost, "/auth/refresh", body, &resp, false); err != nil {
		return fmt.Errorf("refresh token: %w", err)
	}

	c.mu.Lock()
	if c.session != nil {
		c.session.AccessToken = resp.AccessToken
		c.session.RefreshToken = resp.RefreshToken
	}
	c.mu.Unlock()
	return nil
}

// ensureFreshToken proactively refreshes an access token that is expired or
// about to expire. The audio upload body is a one-shot stream, so the usual
// retry-after-401 path is not available to Analyze.
func (c *HTTPClient) ensureFreshToken(ctx context.Context) error {
	c.mu.Lock()
	sess := c.session
	c.mu.Unlock()
	if sess == nil {
		return nil // not logged in, the server will answer 401
	}

	claims := &jwt.RegisteredClaims{}
	_, _, err := jwt.NewParser().ParseUnverified(sess.AccessToken, claims)
	if err != nil || claims.ExpiresAt == nil {
		return nil // opaque token, let the server decide
	}
	if time.Until(claims.ExpiresAt.Time) > 30*time.Second {
		return nil
	}
	return c.refreshSession(ctx)
}

func (c *HTTPClient) Analyze(ctx context.Context, audio AudioSource, duration float64, onProgress ProgressFunc) (*models.Recording, error) {
	if audio.Size > c.maxUploadBytes {
		return nil, &PayloadTooLargeError{Size: audio.Size, Limit: c.maxUploadBytes}
	}
	if err := c.ensureFreshToken(ctx); err != nil {
		return nil, err
	}

	reader := newProgressReader(audio.Reader, audio.Size, onProgress)

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		var err error
		defer func() { pw.CloseWithError(err) }()

		if err = mw.WriteField("duration", strconv.FormatFloat(duration, 'f', -1, 64)); err != nil {
			return
		}
		if audio.Title != "" {
			if err = mw.WriteField("title", audio.Title); err != nil {
				return
			}
		}
		hdr := make(textproto.MIMEHeader)
		hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name="audio"; filename=%q`, audio.Name))
		hdr.Set("Content-Type", audio.MIME)
		var part io.Writer
		if part, err = mw.CreatePart(hdr); err != nil {
			return
		}
		if _, err = io.Copy(part, reader); err != nil {
			return
		}
		err = mw.Close()
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/analyze", pr)
	if err != nil {
		return nil, fmt.Errorf("build analyze request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	c.authorize(req)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, &NetworkError{Kind: netx.Classify(err), Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Kind: netx.Classify(err), Err: err}
	}

	if resp.StatusCode == http.StatusRequestEntityTooLarge {
		return nil, &PayloadTooLargeError{Size: audio.Size, Limit: c.maxUploadBytes}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &ServerError{Status: resp.StatusCode, Detail: errorDetail(data)}
	}

	rec, err := models.DecodeRecording(data)
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	switch rec.Status {
	case models.StatusProcessing, models.StatusCompleted, models.StatusFailed:
	default:
		return nil, &DecodeError{Err: &models.MalformedRecordError{
			Field:  "status",
			Reason: fmt.Sprintf("%q is not a valid initial status", rec.Status),
		}}
	}
	return rec, nil
}

func (c *HTTPClient) Chat(ctx context.Context, recordingID, message string) (string, error) {
	var resp struct {
		Answer string `json:"answer"`
	}
	body := map[string]string{"recordingId": recordingID, "message": message}
	if err := c.doJSON(ctx, http.MethodPost, "/chat", body, &resp, true); err != nil {
		return "", err
	}
	return resp.Answer, nil
}

func (c *HTTPClient) ListRecordings(ctx context.Context) ([]models.Recording, error) {
	var resp struct {
		Recordings []json.RawMessage `json:"recordings"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/recordings", nil, &resp, true); err != nil {
		return nil, err
	}

	out := make([]models.Recording, 0, len(resp.Recordings))
	for _, raw := range resp.Recordings {
		rec, err := models.DecodeRecording(raw)
		if err != nil {
			// same tolerant policy as the status channel: a bad element
			// must not hide the rest of the library
			c.log.Warn(ctx, "dropping malformed recording in list", "error", err)
			continue
		}
		out = append(out, *rec)
	}
	return out, nil
}

func (c *HTTPClient) GetRecording(ctx context.Context, id string) (*models.Recording, error) {
	var raw json.RawMessage
	if err := c.doJSON(ctx, http.MethodGet, "/recordings/"+id, nil, &raw, true); err != nil {
		return nil, err
	}
	rec, err := models.DecodeRecording(raw)
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	return rec, nil
}

func (c *HTTPClient) DeleteRecording(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/recordings/"+id, nil, nil, true)
}

func (c *HTTPClient) authorize(req *http.Request) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session != nil && c.session.AccessToken != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+c.session.AccessToken)
	}
}

// doJSON runs one JSON exchange. Authorized requests that fail with an
// expired access token are retried exactly once after a refresh.
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, in, out any, authed bool) error {
	var payload []byte
	if in != nil {
		var err error
		if payload, err = json.Marshal(in); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	refreshed := false
	for {
		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
		if err != nil {
			return fmt.Errorf("build request: %w", err)
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if authed {
			c.authorize(req)
		}

		resp, err := c.httpc.Do(req)
		if err != nil {
			return &NetworkError{Kind: netx.Classify(err), Err: err}
		}

		data, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return &NetworkError{Kind: netx.Classify(err), Err: err}
		}

		if resp.StatusCode == http.StatusUnauthorized {
			detail := errorDetail(data)
			if authed && !refreshed && strings.Contains(detail, common.ErrTokenExpired.Error()) {
				if rerr := c.refreshSession(ctx); rerr != nil {
					return rerr
				}
				refreshed = true
				continue
			}
			return fmt.Errorf("%w: %s", common.ErrUnauthorized, detail)
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return &ServerError{Status: resp.StatusCode, Detail: errorDetail(data)}
		}

		if out != nil {
			if err := json.Unmarshal(data, out); err != nil {
				return &DecodeError{Err: err}
			}
		}
		return nil
	}
}

// errorDetail extracts the backend's error message from a response body,
// falling back to the raw body.
func errorDetail(data []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &e); err == nil && e.Error != "" {
		return e.Error
	}
	return strings.TrimSpace(string(data))
}
