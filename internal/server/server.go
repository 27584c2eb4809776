// Package server exposes the conversion pipeline over HTTP.
package server

import (
	"bytes"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/labelflat/internal/cache"
	"github.com/hyperifyio/labelflat/internal/pipeline"
	"github.com/hyperifyio/labelflat/internal/schema"
	"github.com/hyperifyio/labelflat/internal/source"
)

// maxBatch caps the number of documents in one batch request.
const maxBatch = 64

// ConvertRequest is one document to convert.
type ConvertRequest struct {
	Format     source.Kind `json:"format" binding:"required"`
	Content    string      `json:"content" binding:"required"`
	SourceName string      `json:"source_name"`
	Product    string      `json:"product"`
}

type BatchRequest struct {
	Documents []ConvertRequest `json:"documents" binding:"required"`
}

// BatchItem holds either a document or the error that prevented it.
type BatchItem struct {
	Document *schema.Document `json:"document,omitempty"`
	Error    string           `json:"error,omitempty"`
}

type BatchResponse struct {
	Results []BatchItem `json:"results"`
}

// Server holds the handler dependencies.
type Server struct {
	// BatchLimit bounds concurrent conversions per batch request.
	BatchLimit int
	// Now supplies the processing date; defaults to time.Now.
	Now func() time.Time
	// Cache, when set, short-circuits repeated single conversions.
	Cache *cache.DocCache
	// Version is reported by /healthz.
	Version string
}

const jsonContentType = "application/json; charset=utf-8"

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())
	r.GET("/healthz", func(c *gin.Context) {
		body := gin.H{"status": "ok"}
		if s.Version != "" {
			body["version"] = s.Version
		}
		c.JSON(http.StatusOK, body)
	})
	v1 := r.Group("/v1")
	v1.POST("/convert", s.convert)
	v1.POST("/convert/batch", s.convertBatch)
	return r
}

func (s *Server) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Server) job(req ConvertRequest) (pipeline.Job, error) {
	fragments, err := source.Parse(req.Format, []byte(req.Content))
	if err != nil {
		return pipeline.Job{}, err
	}
	return pipeline.Job{
		Fragments: fragments,
		Info: schema.RunInfo{
			SourceFile: req.SourceName,
			Product:    req.Product,
			Date:       s.now(),
		},
	}, nil
}

func (s *Server) convert(c *gin.Context) {
	var req ConvertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	job, err := s.job(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	key := cacheKey(req, job.Info)
	if s.Cache != nil {
		if b, ok, err := s.Cache.Get(c.Request.Context(), key); err != nil {
			log.Warn().Err(err).Msg("cache read failed")
		} else if ok {
			c.Header("X-Cache", "hit")
			c.Data(http.StatusOK, jsonContentType, b)
			return
		}
	}

	res, err := pipeline.Convert(job.Fragments, job.Info)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	var buf bytes.Buffer
	if err := schema.Encode(&buf, res.Document); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if s.Cache != nil {
		if err := s.Cache.Save(c.Request.Context(), key, buf.Bytes()); err != nil {
			log.Warn().Err(err).Msg("cache write failed")
		}
		c.Header("X-Cache", "miss")
	}
	c.Data(http.StatusOK, jsonContentType, buf.Bytes())
}

// cacheKey covers every input that shapes the document, including the
// processing date.
func cacheKey(req ConvertRequest, info schema.RunInfo) string {
	return cache.KeyFrom(string(req.Format), req.SourceName, req.Product, info.Date.Format("2006-01-02"), req.Content)
}

func (s *Server) convertBatch(c *gin.Context) {
	var req BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Documents) > maxBatch {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "too many documents"})
		return
	}

	items := make([]BatchItem, len(req.Documents))
	jobs := make([]pipeline.Job, 0, len(req.Documents))
	// index maps jobs back to their request position
	index := make([]int, 0, len(req.Documents))
	for i, d := range req.Documents {
		job, err := s.job(d)
		if err != nil {
			items[i].Error = err.Error()
			continue
		}
		jobs = append(jobs, job)
		index = append(index, i)
	}

	outcomes, err := pipeline.ConvertAll(c.Request.Context(), jobs, s.BatchLimit)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	for k, o := range outcomes {
		i := index[k]
		if o.Err != nil {
			items[i].Error = o.Err.Error()
			continue
		}
		doc := o.Result.Document
		items[i].Document = &doc
	}
	c.JSON(http.StatusOK, BatchResponse{Results: items})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, pipeline.ErrNoTables), errors.Is(err, pipeline.ErrNoSchemas):
		return http.StatusUnprocessableEntity
	case errors.Is(err, source.ErrUnsupportedInput):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Int64("elapsed", time.Since(start).Milliseconds()).
			Msg("request")
	}
}
