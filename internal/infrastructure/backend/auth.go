package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/viriyakhulung/kosalla-new/internal/core/domain"
	"github.com/viriyakhulung/kosalla-new/internal/core/ports"
)

const (
	loginPath  = "/api/auth/login"
	mePath     = "/api/auth/me"
	logoutPath = "/api/auth/logout"
	csrfPath   = "/sanctum/csrf-cookie"

	xsrfCookie = "XSRF-TOKEN"
	xsrfHeader = "X-XSRF-TOKEN"
	deviceName = "web"
)

// AuthAPI implements ports.AuthBackend over the backend's /api/auth routes.
type AuthAPI struct {
	c *Client
}

func NewAuthAPI(c *Client) *AuthAPI {
	return &AuthAPI{c: c}
}

type loginRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	DeviceName string `json:"device_name"`
}

func (a *AuthAPI) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	var opts []requestOption
	if a.c.authMode == AuthModeSanctum {
		opt, err := a.csrfBootstrap(ctx)
		if err != nil {
			return nil, err
		}
		opts = append(opts, opt)
	}

	res, err := a.c.send(ctx, "", http.MethodPost, loginPath,
		loginRequest{Email: email, Password: password, DeviceName: deviceName}, "Login failed", opts...)
	if err != nil {
		return nil, err
	}

	var body struct {
		Token string          `json:"token"`
		User  json.RawMessage `json:"user"`
	}
	if res.data != nil {
		_ = json.Unmarshal(res.data, &body)
	}
	if body.Token == "" {
		return nil, fmt.Errorf("%w: Login response missing token", domain.ErrMalformedResponse)
	}
	return &ports.LoginResult{Token: body.Token, Role: pickRole(res.data), User: body.User}, nil
}

func (a *AuthAPI) Me(ctx context.Context, token string) (*ports.Identity, error) {
	if token == "" {
		return nil, domain.ErrUnauthenticated
	}
	res, err := a.c.send(ctx, token, http.MethodGet, mePath, nil, "Me failed")
	if err != nil {
		return nil, err
	}
	if res.data == nil {
		return nil, fmt.Errorf("%w: GET %s", domain.ErrMalformedResponse, mePath)
	}
	user, err := parseUser(res.data)
	if err != nil {
		return nil, err
	}
	role := domain.NormalizeRole(pickRole(res.data))
	if role == "" {
		role = user.PrimaryRole()
	}
	return &ports.Identity{User: user, Role: role, Raw: res.data}, nil
}

func (a *AuthAPI) Logout(ctx context.Context, token string) error {
	_, err := a.c.send(ctx, token, http.MethodPost, logoutPath, nil, "Logout failed")
	return err
}

// csrfBootstrap asks Sanctum for an XSRF cookie and returns an option that
// replays the cookies and the decoded token on the next request.
func (a *AuthAPI) csrfBootstrap(ctx context.Context) (requestOption, error) {
	res, err := a.c.send(ctx, "", http.MethodGet, csrfPath, nil, "CSRF bootstrap failed")
	if err != nil {
		return nil, err
	}
	cookies := (&http.Response{Header: res.header}).Cookies()

	var xsrf string
	for _, ck := range cookies {
		if ck.Name == xsrfCookie {
			if v, err := url.QueryUnescape(ck.Value); err == nil {
				xsrf = v
			}
		}
	}
	if xsrf == "" {
		return nil, fmt.Errorf("%w: %s did not set %s", domain.ErrMalformedResponse, csrfPath, xsrfCookie)
	}

	return func(r *http.Request) {
		for _, ck := range cookies {
			r.AddCookie(&http.Cookie{Name: ck.Name, Value: ck.Value})
		}
		r.Header.Set(xsrfHeader, xsrf)
	}, nil
}
