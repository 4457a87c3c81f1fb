// Package client implements the Go client of the SecureAuth API with
// the same degradation behavior as the original browser app: when the
// server is unreachable the same operations run against a local
// in-process store, while authenticated rejections always propagate.
package client

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/secureauth/secureauth/web/entity"
	"github.com/secureauth/secureauth/web/service"

	"github.com/goccy/go-json"
)

// ErrTransport marks connectivity failures: connection refused, DNS,
// timeouts, malformed responses. Only these trigger offline fallback.
var ErrTransport = errors.New("service unreachable")

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Message string
	Fields  map[string]string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Unwrap maps the status back onto the service error taxonomy so
// callers can errors.Is against the same sentinels in both modes.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		if e.Message == service.ErrAccountInactive.Error() {
			return service.ErrAccountInactive
		}
		return service.ErrInvalidCredentials
	case http.StatusForbidden:
		return service.ErrForbidden
	case http.StatusNotFound:
		return service.ErrNotFound
	case http.StatusLocked:
		return service.ErrAccountLocked
	default:
		return nil
	}
}

// API is the REST client for the SecureAuth server.
type API struct {
	baseURL string
	http    *http.Client
	token   string
}

func NewAPI(baseURL string) *API {
	return &API{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// SetToken installs the bearer token sent with subsequent requests.
func (a *API) SetToken(token string) {
	a.token = token
}

func (a *API) do(method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, a.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}

	resp, err := a.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	var msg struct {
		Success bool            `json:"success"`
		Msg     string          `json:"msg"`
		Obj     json.RawMessage `json:"obj"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&msg); err != nil {
		return fmt.Errorf("%w: decoding response: %v", ErrTransport, err)
	}

	if resp.StatusCode >= 400 || !msg.Success {
		apiErr := &APIError{Status: resp.StatusCode, Message: msg.Msg}
		if len(msg.Obj) > 0 {
			_ = json.Unmarshal(msg.Obj, &apiErr.Fields)
		}
		return apiErr
	}

	if out != nil && len(msg.Obj) > 0 {
		return json.Unmarshal(msg.Obj, out)
	}
	return nil
}

func (a *API) Register(firstname, lastname, email, password string) (*entity.UserView, error) {
	body := map[string]string{
		"firstname": firstname,
		"lastname":  lastname,
		"email":     email,
		"password":  password,
	}
	user := &entity.UserView{}
	if err := a.do(http.MethodPost, "/api/auth/register", body, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (a *API) Login(email, password string) (*entity.LoginResult, error) {
	body := map[string]string{"email": email, "password": password}
	result := &entity.LoginResult{}
	if err := a.do(http.MethodPost, "/api/auth/login", body, result); err != nil {
		return nil, err
	}
	a.token = result.Token
	return result, nil
}

func (a *API) Verify() (*entity.UserView, error) {
	user := &entity.UserView{}
	if err := a.do(http.MethodGet, "/api/auth/verify", nil, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (a *API) Logout() error {
	err := a.do(http.MethodPost, "/api/auth/logout", nil, nil)
	a.token = ""
	return err
}

func (a *API) UpdateProfile(firstname, lastname string) (*entity.UserView, error) {
	body := map[string]string{"firstname": firstname, "lastname": lastname}
	user := &entity.UserView{}
	if err := a.do(http.MethodPut, "/api/users/profile", body, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (a *API) ChangePassword(current, newPassword string) error {
	body := map[string]string{
		"currentPassword": current,
		"newPassword":     newPassword,
	}
	return a.do(http.MethodPut, "/api/users/change-password", body, nil)
}
