// Package client talks to the finboard HTTP API on behalf of the terminal UI.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	cookiejar "github.com/juju/persistent-cookiejar"
)

const defaultTimeout = 30 * time.Second

// ErrUnauthorized matches any 401 response.
var ErrUnauthorized = errors.New("not logged in")

// Error is a non-2xx API response.
type Error struct {
	StatusCode int
	Message    string            `json:"message"`
	Fields     map[string]string `json:"fields"`
}

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
	}

	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}

	return fmt.Sprintf("%s: %s", e.Message, strings.Join(parts, "; "))
}

func (e *Error) Is(target error) bool {
	return target == ErrUnauthorized && e.StatusCode == http.StatusUnauthorized
}

type Client struct {
	baseURL string
	jar     *cookiejar.Jar
	http    *http.Client
}

// New returns a client for the API at baseURL. When cookieFile is set the
// session cookie is loaded from it and written back by Close, so a login
// survives restarts.
func New(baseURL, cookieFile string) (*Client, error) {
	jar, err := cookiejar.New(&cookiejar.Options{
		Filename:  cookieFile,
		NoPersist: cookieFile == "",
	})
	if err != nil {
		return nil, fmt.Errorf("opening cookie jar: %w", err)
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		jar:     jar,
		http:    &http.Client{Jar: jar, Timeout: defaultTimeout},
	}, nil
}

// Close saves the cookie jar.
func (c *Client) Close() error {
	if err := c.jar.Save(); err != nil {
		return fmt.Errorf("saving cookie jar: %w", err)
	}

	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	u := c.baseURL + "/api/v1" + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	return req, nil
}

// doJSON sends in as the JSON body (when not nil) and decodes the response
// into out (when not nil).
func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, in, out any) error {
	var body io.Reader

	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}

		body = bytes.NewReader(raw)
	}

	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return err
	}

	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if err := checkResponse(resp); err != nil {
		return err
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}

func checkResponse(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	apiErr := &Error{StatusCode: resp.StatusCode}
	if err := json.NewDecoder(resp.Body).Decode(apiErr); err != nil || apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}

	return apiErr
}

func (f Filter) values() url.Values {
	q := url.Values{}

	if !f.Start.IsZero() {
		q.Set("start_date", f.Start.Format(time.DateOnly))
	}

	if !f.End.IsZero() {
		q.Set("end_date", f.End.Format(time.DateOnly))
	}

	if f.Category != "" {
		q.Set("category", f.Category)
	}

	return q
}

func accountPath(id int64) string {
	return "/accounts/" + strconv.FormatInt(id, 10)
}

func (c *Client) Register(ctx context.Context, creds Credentials) (*User, error) {
	var u User
	if err := c.doJSON(ctx, http.MethodPost, "/register", nil, creds, &u); err != nil {
		return nil, err
	}

	return &u, nil
}

func (c *Client) Login(ctx context.Context, creds Credentials) (*User, error) {
	var u User
	if err := c.doJSON(ctx, http.MethodPost, "/login", nil, creds, &u); err != nil {
		return nil, err
	}

	return &u, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/logout", nil, nil, nil)
}

// CurrentUser returns the logged in user, or an error matching
// ErrUnauthorized.
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	var u User
	if err := c.doJSON(ctx, http.MethodGet, "/user", nil, nil, &u); err != nil {
		return nil, err
	}

	return &u, nil
}

func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (*User, error) {
	var u User
	if err := c.doJSON(ctx, http.MethodPut, "/profile", nil, update, &u); err != nil {
		return nil, err
	}

	return &u, nil
}

func (c *Client) Accounts(ctx context.Context) ([]Account, error) {
	var accs []Account
	if err := c.doJSON(ctx, http.MethodGet, "/accounts", nil, nil, &accs); err != nil {
		return nil, err
	}

	return accs, nil
}

func (c *Client) Account(ctx context.Context, id int64) (*Account, error) {
	var acc Account
	if err := c.doJSON(ctx, http.MethodGet, accountPath(id), nil, nil, &acc); err != nil {
		return nil, err
	}

	return &acc, nil
}

func (c *Client) CreateAccount(ctx context.Context, params NewAccount) (*Account, error) {
	var acc Account
	if err := c.doJSON(ctx, http.MethodPost, "/accounts", nil, params, &acc); err != nil {
		return nil, err
	}

	return &acc, nil
}

func (c *Client) DeleteAccount(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, accountPath(id), nil, nil, nil)
}

func (c *Client) AccountTransactions(ctx context.Context, id int64) ([]Transaction, error) {
	var txs []Transaction
	if err := c.doJSON(ctx, http.MethodGet, accountPath(id)+"/transactions", nil, nil, &txs); err != nil {
		return nil, err
	}

	return txs, nil
}

func (c *Client) Transactions(ctx context.Context, filter Filter) ([]Transaction, error) {
	var txs []Transaction
	if err := c.doJSON(ctx, http.MethodGet, "/transactions", filter.values(), nil, &txs); err != nil {
		return nil, err
	}

	return txs, nil
}

func (c *Client) CreateTransaction(ctx context.Context, params NewTransaction) (*Transaction, error) {
	var tx Transaction
	if err := c.doJSON(ctx, http.MethodPost, "/transactions", nil, params, &tx); err != nil {
		return nil, err
	}

	return &tx, nil
}

// Import uploads a statement to the account. format may be empty for the
// server default.
func (c *Client) Import(ctx context.Context, accountID int64, format, filename string, r io.Reader) (*ImportResult, error) {
	var body bytes.Buffer

	mw := multipart.NewWriter(&body)

	if format != "" {
		if err := mw.WriteField("format", format); err != nil {
			return nil, fmt.Errorf("writing format field: %w", err)
		}
	}

	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("creating file part: %w", err)
	}

	if _, err := io.Copy(fw, r); err != nil {
		return nil, fmt.Errorf("copying statement: %w", err)
	}

	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("closing multipart body: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, accountPath(accountID)+"/import", nil, &body)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", mw.FormDataContentType())

	var res ImportResult
	if err := c.do(req, &res); err != nil {
		return nil, err
	}

	return &res, nil
}

// Suggest returns the learned category for description, or "".
func (c *Client) Suggest(ctx context.Context, description string) (string, error) {
	var resp struct {
		Category string `json:"category"`
	}

	q := url.Values{"description": {description}}
	if err := c.doJSON(ctx, http.MethodGet, "/matching/suggest", q, nil, &resp); err != nil {
		return "", err
	}

	return resp.Category, nil
}

func (c *Client) Learn(ctx context.Context, pattern, category string) (*Rule, error) {
	in := map[string]string{"pattern": pattern, "category": category}

	var rule Rule
	if err := c.doJSON(ctx, http.MethodPost, "/matching", nil, in, &rule); err != nil {
		return nil, err
	}

	return &rule, nil
}

func (c *Client) Rules(ctx context.Context) ([]Rule, error) {
	var rules []Rule
	if err := c.doJSON(ctx, http.MethodGet, "/matching", nil, nil, &rules); err != nil {
		return nil, err
	}

	return rules, nil
}

func (c *Client) Summary(ctx context.Context, filter Filter) (*Summary, error) {
	var s Summary
	if err := c.doJSON(ctx, http.MethodGet, "/reports/summary", filter.values(), nil, &s); err != nil {
		return nil, err
	}

	return &s, nil
}

// Export streams the CSV export into w and returns the filename suggested by
// the server.
func (c *Client) Export(ctx context.Context, filter Filter, w io.Writer) (string, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/export/transactions", filter.values(), nil)
	if err != nil {
		return "", err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if err := checkResponse(resp); err != nil {
		return "", err
	}

	if _, err := io.Copy(w, resp.Body); err != nil {
		return "", fmt.Errorf("writing export: %w", err)
	}

	filename := "transactions.csv"
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil && params["filename"] != "" {
		filename = params["filename"]
	}

	return filename, nil
}
