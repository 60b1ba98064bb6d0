package web

import (
	"crypto/subtle"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	sessionCookie = "X-SessionId"
	sessionTTL    = 10 * time.Minute
)

// sessions — id → момент истечения. Каждый запрос продлевает срок.
type sessions struct {
	mu      sync.Mutex
	expires map[string]time.Time
	now     func() time.Time
}

func newSessions() *sessions {
	return &sessions{expires: map[string]time.Time{}, now: time.Now}
}

func (s *sessions) create() string {
	id := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expires[id] = s.now().Add(sessionTTL)
	return id
}

// touch продлевает живую сессию. Просроченные удаляются здесь же.
func (s *sessions) touch(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for k, exp := range s.expires {
		if !now.Before(exp) {
			delete(s.expires, k)
		}
	}
	if _, ok := s.expires[id]; !ok {
		return false
	}
	s.expires[id] = now.Add(sessionTTL)
	return true
}

func (s *sessions) remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.expires, id)
}

type loginRequest struct {
	Password string `json:"password" form:"password"`
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if subtle.ConstantTimeCompare([]byte(req.Password), []byte(s.cfg.Password)) != 1 {
		s.log.WithField("ip", c.ClientIP()).Warn("web login failed")
		c.JSON(http.StatusUnauthorized, gin.H{"error": s.l("login_failed")})
		return
	}
	id := s.sessions.create()
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(sessionCookie, id, int(sessionTTL.Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) logout(c *gin.Context) {
	if id, err := c.Cookie(sessionCookie); err == nil {
		s.sessions.remove(id)
	}
	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// requireLogin пропускает всё, если вход не требуется.
func (s *Server) requireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.cfg.LoginRequired {
			c.Next()
			return
		}
		id, err := c.Cookie(sessionCookie)
		if err != nil || !s.sessions.touch(id) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": s.l("login_required")})
			return
		}
		c.SetCookie(sessionCookie, id, int(sessionTTL.Seconds()), "/", "", false, true)
		c.Next()
	}
}
