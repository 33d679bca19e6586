package handler

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"launchthat.app/portal/internal/http/dto"
	"launchthat.app/portal/internal/http/middleware"
	"launchthat.app/portal/internal/service"
)

const (
	stateCookieName  = "portal_oauth_state"
	inviteCookieName = "portal_invite"
	sessionMaxAge    = 7 * 24 * 60 * 60
)

type AuthHandler struct {
	authService       service.AuthService
	invitationService service.InvitationService
	orgService        service.OrganizationService
	dashboardURL      string
	isProduction      bool
}

func NewAuthHandler(
	authService service.AuthService,
	invitationService service.InvitationService,
	orgService service.OrganizationService,
	dashboardURL string,
	isProduction bool,
) *AuthHandler {
	return &AuthHandler{
		authService:       authService,
		invitationService: invitationService,
		orgService:        orgService,
		dashboardURL:      dashboardURL,
		isProduction:      isProduction,
	}
}

// Login redirects to WorkOS. An invite query parameter is remembered and
// accepted once the callback signs the user in.
func (h *AuthHandler) Login(c *gin.Context) {
	state, err := generateState()
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "failed to generate state", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to initiate login", "code": "internal"})
		return
	}

	authURL, err := h.authService.GetAuthorizationURL(state)
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "failed to get authorization URL", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to initiate login", "code": "internal"})
		return
	}

	c.SetCookie(stateCookieName, state, 600, "/", "", h.isProduction, true)
	if invite := c.Query("invite"); invite != "" {
		c.SetCookie(inviteCookieName, invite, 600, "/", "", h.isProduction, true)
	}

	c.Redirect(http.StatusTemporaryRedirect, authURL)
}

func (h *AuthHandler) Callback(c *gin.Context) {
	ctx := c.Request.Context()

	code := c.Query("code")
	state := c.Query("state")

	if errorParam := c.Query("error"); errorParam != "" {
		slog.WarnContext(ctx, "OAuth error", "error", errorParam, "description", c.Query("error_description"))
		h.redirectDashboard(c, "", "auth_error", errorParam)
		return
	}

	storedState, err := c.Cookie(stateCookieName)
	if err != nil || state == "" || state != storedState {
		slog.WarnContext(ctx, "state mismatch")
		h.redirectDashboard(c, "", "auth_error", "invalid_state")
		return
	}
	h.clearCookie(c, stateCookieName)

	if code == "" {
		h.redirectDashboard(c, "", "auth_error", "no_code")
		return
	}

	user, session, err := h.authService.HandleCallback(ctx, code)
	if err != nil {
		slog.ErrorContext(ctx, "failed to handle callback", "error", err)
		if errors.Is(err, service.ErrInvalidCode) {
			h.redirectDashboard(c, "", "auth_error", "invalid_code")
			return
		}
		h.redirectDashboard(c, "", "auth_error", "callback_failed")
		return
	}

	middleware.SetSessionCookie(c, session.ID, sessionMaxAge, h.isProduction)
	slog.InfoContext(ctx, "user logged in", "user_id", user.ID)

	if invite, err := c.Cookie(inviteCookieName); err == nil && invite != "" {
		h.clearCookie(c, inviteCookieName)
		inv, err := h.invitationService.Accept(ctx, invite, user)
		if err != nil {
			slog.WarnContext(ctx, "failed to accept invitation on login", "error", err, "user_id", user.ID)
			h.redirectDashboard(c, "", "invite_error", inviteErrorCode(err))
			return
		}
		slog.InfoContext(ctx, "invitation accepted during login",
			"user_id", user.ID,
			"organization_id", inv.OrganizationID)
	}

	h.redirectDashboard(c, "/dashboard", "", "")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	ctx := c.Request.Context()

	sessionID, err := middleware.SessionID(c)
	if err == nil && sessionID > 0 {
		if err := h.authService.Logout(ctx, sessionID); err != nil {
			slog.WarnContext(ctx, "failed to delete session", "error", err, "session_id", sessionID)
		}
	}

	middleware.ClearSessionCookie(c, h.isProduction)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// Me must run behind RequireAuth.
func (h *AuthHandler) Me(c *gin.Context) {
	ctx := c.Request.Context()
	user := middleware.GetUser(ctx)

	orgs, err := h.orgService.ListForUser(ctx, user.ID)
	if err != nil {
		respondError(c, err, "list organizations")
		return
	}

	c.JSON(http.StatusOK, dto.MeResponse{
		User:            dto.ToUserResponse(user),
		Organizations:   dto.ToOrganizationBriefs(orgs),
		HasOrganization: len(orgs) > 0,
	})
}

func (h *AuthHandler) redirectDashboard(c *gin.Context, path, key, value string) {
	target := h.dashboardURL + path
	if key != "" {
		target += "?" + key + "=" + url.QueryEscape(value)
	}
	c.Redirect(http.StatusTemporaryRedirect, target)
}

func (h *AuthHandler) clearCookie(c *gin.Context, name string) {
	c.SetCookie(name, "", -1, "/", "", h.isProduction, true)
}

func inviteErrorCode(err error) string {
	switch {
	case errors.Is(err, service.ErrEmailMismatch):
		return "email_mismatch"
	case errors.Is(err, service.ErrInviteExpired):
		return "invite_expired"
	case errors.Is(err, service.ErrInviteAlreadyUsed):
		return "invite_used"
	case errors.Is(err, service.ErrInviteRevoked):
		return "invite_revoked"
	case errors.Is(err, service.ErrInviteNotFound):
		return "invite_not_found"
	case errors.Is(err, service.ErrAlreadyMember):
		return "already_member"
	default:
		return "invite_failed"
	}
}

func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
