package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aretw0/blogadmin/pkg/core"
)

type errorResponse struct {
	Error string    `json:"error"`
	Kind  core.Kind `json:"kind"`
}

// statusFor maps an error kind to an HTTP status.
func statusFor(err error) int {
	switch core.KindOf(err) {
	case core.KindValidation, core.KindMigration:
		return http.StatusBadRequest
	case core.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", c.Request.URL.Path, "error", err)
	}
	msg := err.Error()
	var e *core.Error
	if errors.As(err, &e) && e.Kind == core.KindIO {
		// Do not leak file system details.
		msg = e.Op + ": i/o failure"
	}
	c.JSON(status, errorResponse{Error: msg, Kind: core.KindOf(err)})
}

func (s *Server) badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error(), Kind: core.KindValidation})
}

// mutationContext carries the optional change reason header into the service.
func mutationContext(c *gin.Context) context.Context {
	ctx := c.Request.Context()
	if reason := c.GetHeader(ChangeReasonHeader); reason != "" {
		ctx = context.WithValue(ctx, core.ChangeReasonKey, reason)
	}
	return ctx
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": s.svc.State()})
}

func (s *Server) report(c *gin.Context) {
	c.JSON(http.StatusOK, s.svc.Report(c.Request.Context()))
}

func (s *Server) stats(c *gin.Context) {
	stats, err := s.svc.Stats(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *Server) counts(c *gin.Context) {
	counts, err := s.svc.Counts(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, counts)
}

func (s *Server) snapshot(c *gin.Context) {
	snap, err := s.svc.Snapshot(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (s *Server) addCategory(c *gin.Context) {
	var in core.CategoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		s.badRequest(c, err)
		return
	}
	s.respond(c, http.StatusCreated)(s.svc.AddCategory(mutationContext(c), in))
}

func (s *Server) editCategory(c *gin.Context) {
	var in core.CategoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		s.badRequest(c, err)
		return
	}
	s.respond(c, http.StatusOK)(s.svc.EditCategory(mutationContext(c), c.Param("id"), in))
}

// deleteCategory reads the migration from the query (?mode=&replacement=)
// or, when present, from a JSON body.
func (s *Server) deleteCategory(c *gin.Context) {
	var m core.Migration
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&m); err != nil {
			s.badRequest(c, err)
			return
		}
	} else {
		m.Mode = core.MigrationMode(c.Query("mode"))
		m.Replacement = c.Query("replacement")
	}
	mode, err := core.ParseMigrationMode(string(m.Mode))
	if err != nil {
		s.fail(c, err)
		return
	}
	m.Mode = mode
	s.respond(c, http.StatusOK)(s.svc.DeleteCategory(mutationContext(c), c.Param("id"), m))
}

func (s *Server) addAuthor(c *gin.Context) {
	var in core.AuthorInput
	if err := c.ShouldBindJSON(&in); err != nil {
		s.badRequest(c, err)
		return
	}
	s.respond(c, http.StatusCreated)(s.svc.AddAuthor(mutationContext(c), in))
}

func (s *Server) editAuthor(c *gin.Context) {
	var in core.AuthorInput
	if err := c.ShouldBindJSON(&in); err != nil {
		s.badRequest(c, err)
		return
	}
	s.respond(c, http.StatusOK)(s.svc.EditAuthor(mutationContext(c), c.Param("name"), in))
}

func (s *Server) deleteAuthor(c *gin.Context) {
	s.respond(c, http.StatusOK)(s.svc.DeleteAuthor(mutationContext(c), c.Param("name")))
}

func (s *Server) backup(c *gin.Context) {
	path, err := s.svc.Backup(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"path": path})
}

// respond writes a mutation result or its error.
func (s *Server) respond(c *gin.Context, status int) func(core.Result, error) {
	return func(res core.Result, err error) {
		if err != nil {
			s.fail(c, err)
			return
		}
		c.JSON(status, res)
	}
}
