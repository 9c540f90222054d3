package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	googleoauth2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"mail-triage-go/config"
)

const stateCookie = "oauth_state"

// Session represents an authenticated operator session
type Session struct {
	ID        string    `json:"-"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Picture   string    `json:"picture"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Gate owns the Google OAuth flow and the operator sessions. It is
// constructed once at startup and passed in explicitly; redirect
// targets are the caller's navigation concern.
type Gate struct {
	oauthConfig  *oauth2.Config
	cookieName   string
	sessionTTL   time.Duration
	checkTimeout time.Duration

	mu       sync.RWMutex
	sessions map[string]*Session
	states   map[string]time.Time
}

// NewGate creates a new auth gate
func NewGate(googleCfg config.GoogleConfig, sessionCfg config.SessionConfig) *Gate {
	oauthConfig := &oauth2.Config{
		ClientID:     googleCfg.ClientID,
		ClientSecret: googleCfg.ClientSecret,
		RedirectURL:  googleCfg.RedirectURL,
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}

	ttl := sessionCfg.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	checkTimeout := sessionCfg.CheckTimeout
	if checkTimeout <= 0 {
		checkTimeout = 4 * time.Second
	}
	cookieName := sessionCfg.CookieName
	if cookieName == "" {
		cookieName = "triage_session"
	}

	return &Gate{
		oauthConfig:  oauthConfig,
		cookieName:   cookieName,
		sessionTTL:   ttl,
		checkTimeout: checkTimeout,
		sessions:     make(map[string]*Session),
		states:       make(map[string]time.Time),
	}
}

// randomToken creates a random URL-safe token
func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// HandleLogin initiates the Google OAuth flow
func (g *Gate) HandleLogin(c *gin.Context) {
	state, err := randomToken()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate state"})
		return
	}

	g.mu.Lock()
	g.states[state] = time.Now()
	g.mu.Unlock()

	c.SetCookie(stateCookie, state, 300, "/", "", false, true)
	c.Redirect(http.StatusTemporaryRedirect, g.oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOnline))
}

// HandleCallback processes the OAuth callback from Google
func (g *Gate) HandleCallback(c *gin.Context) {
	state := c.Query("state")
	cookieState, err := c.Cookie(stateCookie)
	if err != nil || state == "" || state != cookieState || !g.consumeState(state) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid OAuth state"})
		return
	}

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing authorization code"})
		return
	}

	ctx := c.Request.Context()
	token, err := g.oauthConfig.Exchange(ctx, code)
	if err != nil {
		logrus.WithError(err).Error("OAuth code exchange failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "code exchange failed"})
		return
	}

	userInfo, err := g.fetchUserInfo(ctx, token)
	if err != nil {
		logrus.WithError(err).Error("Failed to fetch Google user info")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch user info"})
		return
	}

	session, err := g.createSession(userInfo)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}

	c.SetCookie(stateCookie, "", -1, "/", "", false, true)
	c.SetCookie(g.cookieName, session.ID, int(g.sessionTTL.Seconds()), "/", "", false, true)

	logrus.WithField("email", session.Email).Info("Operator signed in")
	c.Redirect(http.StatusTemporaryRedirect, "/")
}

// fetchUserInfo loads the signed-in user's profile from Google
func (g *Gate) fetchUserInfo(ctx context.Context, token *oauth2.Token) (*googleoauth2.Userinfo, error) {
	service, err := googleoauth2.NewService(ctx,
		option.WithTokenSource(g.oauthConfig.TokenSource(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("failed to create oauth2 service: %w", err)
	}

	userInfo, err := service.Userinfo.Get().Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get user info: %w", err)
	}
	return userInfo, nil
}

func (g *Gate) createSession(userInfo *googleoauth2.Userinfo) (*Session, error) {
	id, err := randomToken()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	session := &Session{
		ID:        id,
		UserID:    userInfo.Id,
		Email:     userInfo.Email,
		Name:      userInfo.Name,
		Picture:   userInfo.Picture,
		CreatedAt: now,
		ExpiresAt: now.Add(g.sessionTTL),
	}

	g.mu.Lock()
	g.sessions[id] = session
	g.mu.Unlock()

	return session, nil
}

// HandleLogout clears the session. The redirect back to the sign-in
// screen is the client's navigation side effect.
func (g *Gate) HandleLogout(c *gin.Context) {
	if id, err := c.Cookie(g.cookieName); err == nil {
		g.mu.Lock()
		delete(g.sessions, id)
		g.mu.Unlock()
	}
	c.SetCookie(g.cookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// HandleSession reports the current session, or 401 when there is none
func (g *Gate) HandleSession(c *gin.Context) {
	session := g.CurrentSession(c.Request)
	if session == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not signed in"})
		return
	}
	c.JSON(http.StatusOK, session)
}

// CurrentSession returns the session attached to the request, or nil.
// Expired sessions are treated as absent.
func (g *Gate) CurrentSession(r *http.Request) *Session {
	cookie, err := r.Cookie(g.cookieName)
	if err != nil {
		return nil
	}

	g.mu.RLock()
	session, ok := g.sessions[cookie.Value]
	g.mu.RUnlock()

	if !ok || time.Now().After(session.ExpiresAt) {
		return nil
	}
	return session
}

// consumeState removes a pending OAuth state, reporting whether it
// was known.
func (g *Gate) consumeState(state string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.states[state]; !ok {
		return false
	}
	delete(g.states, state)
	return true
}

// ExpireStale drops expired sessions and OAuth states older than five
// minutes. Called periodically by housekeeping.
func (g *Gate) ExpireStale(now time.Time) (sessions, states int) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for id, session := range g.sessions {
		if now.After(session.ExpiresAt) {
			delete(g.sessions, id)
			sessions++
		}
	}
	for state, created := range g.states {
		if now.Sub(created) > 5*time.Minute {
			delete(g.states, state)
			states++
		}
	}
	return sessions, states
}
