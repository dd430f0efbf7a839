package workspace

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const defaultRequestTimeout = 120 * time.Second

// ServerError is an error payload returned by the remote service inside an
// otherwise successful HTTP response.
type ServerError struct {
	Code    int      `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details"`
}

// Error implements the error interface for ServerError.
func (e *ServerError) Error() string {
	if len(e.Details) > 0 {
		return fmt.Sprintf("server error %d: %s (%s)", e.Code, e.Message, strings.Join(e.Details, "; "))
	}
	return fmt.Sprintf("server error %d: %s", e.Code, e.Message)
}

// FilePart describes one file attached to a multipart POST.
type FilePart struct {
	// Field is the multipart field name the server expects, e.g. "file".
	Field string
	// Name is the filename reported to the server.
	Name string
	// Reader supplies the part content.
	Reader io.Reader
}

// Connection issues authenticated requests against a workspace. All JSON
// endpoints are addressed with f=json; the token, when present, is attached
// to every request. A Connection is safe for concurrent use; the underlying
// http.Client pools and reuses transport connections.
type Connection struct {
	BaseURL string
	Token   string
	Client  *http.Client
}

// NewConnection creates a connection rooted at baseURL. The token may be
// empty for anonymous access.
func NewConnection(baseURL, token string) *Connection {
	return &Connection{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		Client:  &http.Client{Timeout: defaultRequestTimeout},
	}
}

// resolve turns a path into an absolute URL. Absolute inputs (status URLs,
// result param URLs) pass through untouched.
func (c *Connection) resolve(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return c.BaseURL + "/" + strings.TrimLeft(path, "/")
}

// withStandardParams copies params and injects f=json plus the token.
func (c *Connection) withStandardParams(params url.Values) url.Values {
	out := url.Values{}
	for k, vs := range params {
		for _, v := range vs {
			out.Add(k, v)
		}
	}
	if out.Get("f") == "" {
		out.Set("f", "json")
	}
	if c.Token != "" && out.Get("token") == "" {
		out.Set("token", c.Token)
	}
	return out
}

// Get issues a GET against path and decodes the JSON response.
func (c *Connection) Get(ctx context.Context, path string, params url.Values) (map[string]interface{}, error) {
	full := c.resolve(path)
	q := c.withStandardParams(params)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, full+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	return c.do(req)
}

// Post issues a form-encoded POST against path and decodes the JSON response.
func (c *Connection) Post(ctx context.Context, path string, params url.Values) (map[string]interface{}, error) {
	full := c.resolve(path)
	body := c.withStandardParams(params).Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, full, strings.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

// PostFiles issues a multipart POST carrying form fields plus file parts.
func (c *Connection) PostFiles(ctx context.Context, path string, params url.Values, files ...FilePart) (map[string]interface{}, error) {
	full := c.resolve(path)

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		var werr error
		defer func() {
			if werr != nil {
				pw.CloseWithError(werr)
				return
			}
			pw.CloseWithError(mw.Close())
		}()
		for k, vs := range c.withStandardParams(params) {
			for _, v := range vs {
				if werr = mw.WriteField(k, v); werr != nil {
					return
				}
			}
		}
		for _, f := range files {
			part, err := mw.CreateFormFile(f.Field, f.Name)
			if err != nil {
				werr = err
				return
			}
			if _, err := io.Copy(part, f.Reader); err != nil {
				werr = err
				return
			}
		}
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, full, pr)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.do(req)
}

// Download fetches url into dir and returns the path of the written file.
// The filename comes from the Content-Disposition header when present, else
// from the last URL path segment.
func (c *Connection) Download(ctx context.Context, rawURL, dir string) (string, error) {
	full := c.resolve(rawURL)
	q := url.Values{}
	if c.Token != "" {
		q.Set("token", c.Token)
	}
	target := full
	if len(q) > 0 {
		sep := "?"
		if strings.Contains(full, "?") {
			sep = "&"
		}
		target = full + sep + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download %s: unexpected status %s", rawURL, resp.Status)
	}

	name := filepath.Base(strings.SplitN(full, "?", 2)[0])
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, p, err := mime.ParseMediaType(cd); err == nil && p["filename"] != "" {
			name = filepath.Base(p["filename"])
		}
	}
	out := filepath.Join(dir, name)
	f, err := os.Create(out)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := io.Copy(f, resp.Body); err != nil {
		return "", err
	}
	return out, nil
}

// do executes the request and decodes the JSON body. A JSON body carrying an
// "error" member is surfaced as a *ServerError.
func (c *Connection) do(req *http.Request) (map[string]interface{}, error) {
	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%s %s: unexpected status %s", req.Method, req.URL.Path, resp.Status)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil, fmt.Errorf("%s %s: decoding response: %w", req.Method, req.URL.Path, err)
	}
	if raw, ok := decoded["error"]; ok {
		serr := &ServerError{}
		if b, err := json.Marshal(raw); err == nil {
			_ = json.Unmarshal(b, serr)
		}
		if serr.Message == "" {
			serr.Message = fmt.Sprintf("%v", raw)
		}
		return nil, serr
	}
	return decoded, nil
}
