package web

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ohler55/ojg/oj"
	"github.com/spf13/cast"

	"github.com/EgorLis/lobbybot/internal/bot"
	"github.com/EgorLis/lobbybot/internal/catalog"
	"github.com/EgorLis/lobbybot/internal/schema"
	"github.com/EgorLis/lobbybot/internal/search"
)

const (
	defaultSearchLimit = 50
	maxDocumentSize    = 4 << 20
)

func (s *Server) getDocument(get func() ([]byte, []string)) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, errs := get()
		c.JSON(http.StatusOK, gin.H{
			"data":   json.RawMessage(data),
			"errors": nonNil(errs),
		})
	}
}

func (s *Server) configOptions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"options": s.backend.ConfigOptions()})
}

// putDocument сохраняет присланный документ. Если ошибок нет, бот
// перезапускается с новыми настройками.
func (s *Server) putDocument(name string, replace func(map[string]any) (*schema.Report, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxDocumentSize))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		v, err := oj.Parse(body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		data, ok := v.(map[string]any)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be a JSON object"})
			return
		}

		report, err := replace(data)
		s.metrics.ObserveReport(name, report)
		if err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		resp := gin.H{"errors": nonNil(report.Errors()), "reloaded": false}
		if report.OK() {
			// перезапуск переживает сам запрос
			if err := s.backend.Reload(context.WithoutCancel(c.Request.Context())); err != nil {
				_ = c.Error(err)
				resp["reload_error"] = err.Error()
			} else {
				resp["reloaded"] = true
			}
		}
		c.JSON(http.StatusOK, resp)
	}
}

func searchLimit(c *gin.Context) int {
	n := cast.ToInt(c.Query("limit"))
	if n <= 0 {
		return defaultSearchLimit
	}
	return n
}

func (s *Server) searchItems(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q is required"})
		return
	}
	types := c.Query("types")
	srch := s.backend.Searcher()

	var items []catalog.Item
	if mode := c.DefaultQuery("mode", "name"); mode == "name_id" {
		items = srch.SearchItemNameID(q, types)
	} else {
		m, err := search.ParseMode(mode)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		items = srch.SearchItem(m, q, types)
	}
	total := len(items)
	items = items[:min(total, searchLimit(c))]
	c.JSON(http.StatusOK, gin.H{"count": total, "items": nonNil(items)})
}

func (s *Server) searchPlaylists(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q is required"})
		return
	}
	srch := s.backend.Searcher()

	var pls []catalog.Playlist
	if mode := c.DefaultQuery("mode", "name"); mode == "name_id" {
		pls = srch.SearchPlaylistNameID(q)
	} else {
		m, err := search.ParseMode(mode)
		if err != nil || m == search.ModeSet {
			c.JSON(http.StatusBadRequest, gin.H{"error": "mode must be name, id or name_id"})
			return
		}
		pls = srch.SearchPlaylist(m, q)
	}
	total := len(pls)
	pls = pls[:min(total, searchLimit(c))]
	c.JSON(http.StatusOK, gin.H{"count": total, "playlists": nonNil(pls)})
}

type commandRequest struct {
	Account int    `json:"account"`
	Command string `json:"command" binding:"required"`
}

func (s *Server) command(c *gin.Context) {
	if !s.cfg.CommandWeb {
		c.JSON(http.StatusForbidden, gin.H{"error": "command_web is disabled"})
		return
	}
	var req commandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	replies, err := s.backend.Execute(c.Request.Context(), req.Account, req.Command)
	switch {
	case errors.Is(err, bot.ErrNoSession):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, bot.ErrUnknownCommand):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "replies": nonNil(replies)})
	case err != nil:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "replies": nonNil(replies)})
	default:
		c.JSON(http.StatusOK, gin.H{"replies": nonNil(replies)})
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
