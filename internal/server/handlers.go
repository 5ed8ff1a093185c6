package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/studydesk/internal/llm"
	"github.com/abhisek/studydesk/internal/materials"
	"github.com/abhisek/studydesk/internal/persist"
	"github.com/abhisek/studydesk/internal/practice"
	"github.com/abhisek/studydesk/internal/recommend"
	"github.com/abhisek/studydesk/internal/store"
)

// createSession upserts a session record keyed by its session id.
func (s *Server) createSession(c *gin.Context) {
	var rec persist.Record
	if err := c.ShouldBindJSON(&rec); err != nil {
		badRequest(c, "invalid session", err)
		return
	}
	if err := rec.Validate(); err != nil {
		badRequest(c, "invalid session", err)
		return
	}
	if rec.UserID == "" {
		rec.UserID = persist.LocalUserID
	}
	if err := s.sink.CreateSession(c.Request.Context(), rec); err != nil {
		internalError(c, "failed to save session", err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

func (s *Server) listSessions(c *gin.Context) {
	limit, err := queryInt(c, "limit", 50)
	if err != nil {
		badRequest(c, "invalid limit", err)
		return
	}
	rows, err := s.cfg.Sessions.QuerySessions(c.Request.Context(), store.SessionFilter{
		UserID:        c.Query("userId"),
		Mode:          c.Query("mode"),
		CompletedOnly: c.Query("completed") == "true",
		Limit:         limit,
	})
	if err != nil {
		internalError(c, "failed to list sessions", err)
		return
	}
	out := make([]persist.Record, len(rows))
	for i, r := range rows {
		out[i] = persist.FromStore(r)
	}
	c.JSON(http.StatusOK, gin.H{"sessions": out})
}

func (s *Server) recommendation(c *gin.Context) {
	var in recommend.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid recommendation input", err)
		return
	}
	res, err := s.cfg.Recommender.Recommend(c.Request.Context(), in)
	if err != nil {
		slog.Warn("recommendation failed", "err", err)
		respondError(c, http.StatusBadGateway, "recommendation unavailable", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) listFiles(c *gin.Context) {
	if s.cfg.Materials == nil {
		respondError(c, http.StatusServiceUnavailable, "materials are not available", errNotConfigured)
		return
	}
	files, err := s.cfg.Materials.Files(c.Request.Context(), c.Param("userId"))
	if err != nil {
		internalError(c, "failed to list files", err)
		return
	}
	// Listings omit the file body.
	for i := range files {
		files[i].Content = ""
	}
	c.JSON(http.StatusOK, gin.H{"files": files})
}

func (s *Server) listFolders(c *gin.Context) {
	if s.cfg.Materials == nil {
		respondError(c, http.StatusServiceUnavailable, "materials are not available", errNotConfigured)
		return
	}
	folders, err := s.cfg.Materials.Folders(c.Request.Context(), c.Param("userId"))
	if err != nil {
		internalError(c, "failed to list folders", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"folders": folders})
}

type questionsRequest struct {
	MaterialID string `json:"materialId"`
	Content    string `json:"content"`
	Subject    string `json:"subject"`
	Count      int    `json:"count" binding:"gte=0,lte=20"`
	Type       string `json:"type"`
}

func (s *Server) generateQuestions(c *gin.Context) {
	if s.cfg.Generator == nil {
		respondError(c, http.StatusServiceUnavailable, "question generation is not configured", errNotConfigured)
		return
	}
	var req questionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid question request", err)
		return
	}
	qtype, err := practice.ParseType(req.Type)
	if err != nil {
		badRequest(c, "invalid question type", err)
		return
	}

	ctx := c.Request.Context()
	in := practice.Input{Content: req.Content, Subject: req.Subject, Count: req.Count, Type: qtype}
	if req.MaterialID != "" {
		if s.cfg.Materials == nil {
			respondError(c, http.StatusServiceUnavailable, "materials are not available", errNotConfigured)
			return
		}
		f, err := s.cfg.Materials.Get(ctx, req.MaterialID)
		if errors.Is(err, materials.ErrNotFound) {
			notFound(c, "material not found")
			return
		}
		if err != nil {
			internalError(c, "failed to load material", err)
			return
		}
		in.Content = f.Content
		if in.Subject == "" {
			in.Subject = f.Subject
		}
	}

	questions, err := s.cfg.Generator.Generate(ctx, in)
	var rateLimit *llm.ErrRateLimit
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"questions": questions})
	case errors.Is(err, practice.ErrNoContent):
		badRequest(c, "material has no text content", err)
	case errors.As(err, &rateLimit):
		respondError(c, http.StatusTooManyRequests, "rate limited by the model provider", err)
	default:
		slog.Warn("question generation failed", "err", err)
		respondError(c, http.StatusBadGateway, "question generation failed", err)
	}
}

func (s *Server) listAchievements(c *gin.Context) {
	if s.cfg.Achievements == nil {
		respondError(c, http.StatusServiceUnavailable, "achievements are not available", errNotConfigured)
		return
	}
	limit, err := queryInt(c, "limit", 0)
	if err != nil {
		badRequest(c, "invalid limit", err)
		return
	}
	ctx := c.Request.Context()
	list, err := s.cfg.Achievements.List(ctx, limit)
	if err != nil {
		internalError(c, "failed to list achievements", err)
		return
	}
	counts, total, err := s.cfg.Achievements.Counts(ctx)
	if err != nil {
		internalError(c, "failed to count achievements", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"achievements": list, "counts": counts, "total": total})
}

func (s *Server) stats(c *gin.Context) {
	if s.cfg.Analytics == nil {
		respondError(c, http.StatusServiceUnavailable, "stats are not available", errNotConfigured)
		return
	}
	days, err := queryInt(c, "days", 7)
	if err != nil || days < 1 || days > 366 {
		badRequest(c, "days must be between 1 and 366", err)
		return
	}
	st, err := s.cfg.Analytics.Stats(c.Request.Context(), c.DefaultQuery("userId", persist.LocalUserID), days)
	if err != nil {
		internalError(c, "failed to compute stats", err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func queryInt(c *gin.Context, key string, def int) (int, error) {
	v := c.Query(key)
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}
