package handler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sharanry/legal-assistant/model"
	"github.com/sharanry/legal-assistant/pkg/logger"
	"github.com/sharanry/legal-assistant/service"
)

type AnalyzeHandler struct {
	store          *service.JobStore
	artifacts      service.ArtifactStore
	analyzer       *service.Analyzer
	maxUploadBytes int64
}

func NewAnalyzeHandler(store *service.JobStore, artifacts service.ArtifactStore, analyzer *service.Analyzer, maxUploadBytes int64) *AnalyzeHandler {
	return &AnalyzeHandler{
		store:          store,
		artifacts:      artifacts,
		analyzer:       analyzer,
		maxUploadBytes: maxUploadBytes,
	}
}

// Upload accepts a contract PDF, creates an analysis job, and kicks off
// the pipeline in the background. All upload validation happens here,
// before any job exists.
func (h *AnalyzeHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("pdf")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No PDF file uploaded"})
		return
	}
	defer file.Close()

	if header.Size > h.maxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("File too large (max %d MB)", h.maxUploadBytes/(1024*1024))})
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext != ".pdf" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only PDF files are allowed"})
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, h.maxUploadBytes+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return
	}
	if len(data) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Uploaded file is empty"})
		return
	}
	if int64(len(data)) > h.maxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("File too large (max %d MB)", h.maxUploadBytes/(1024*1024))})
		return
	}

	// Content sniff catches renamed non-PDF files. Some clients send
	// application/octet-stream, so the header alone is not trusted.
	if !strings.HasPrefix(http.DetectContentType(data), "application/pdf") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only PDF files are allowed"})
		return
	}

	jobID := uuid.New().String()
	artifactKey := jobID + ".pdf"

	if err := h.artifacts.Put(c.Request.Context(), artifactKey, data); err != nil {
		logger.Error(c.Request.Context(), "Failed to store upload", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store uploaded file"})
		return
	}

	job := &model.Job{
		ID:          jobID,
		FileName:    header.Filename,
		ArtifactKey: artifactKey,
	}
	h.store.Create(job)

	logger.Info(c.Request.Context(), "Analysis job created",
		"job_id", jobID, "filename", header.Filename, "bytes", len(data))

	// The request context dies when this handler returns, so the
	// pipeline runs against a fresh one.
	go h.analyzer.Run(context.Background(), jobID, artifactKey)

	c.JSON(http.StatusAccepted, gin.H{"jobId": jobID})
}

// JobStatus reports the current state of an analysis job. Unknown and
// expired ids are indistinguishable to the client.
func (h *AnalyzeHandler) JobStatus(c *gin.Context) {
	id := c.Param("jobId")

	job, err := h.store.Get(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		return
	}

	switch job.Status {
	case model.StatusCompleted:
		h.cleanupArtifact(job.ArtifactKey)
		c.JSON(http.StatusOK, gin.H{"status": job.Status, "result": job.Result})
	case model.StatusError:
		h.cleanupArtifact(job.ArtifactKey)
		c.JSON(http.StatusOK, gin.H{"status": job.Status, "error": job.ErrorMsg})
	default:
		c.JSON(http.StatusOK, gin.H{"status": job.Status})
	}
}

// cleanupArtifact removes the uploaded file once a poller has seen a
// terminal status. The pipeline normally deletes it first; deletion is
// idempotent so the double delete is fine.
func (h *AnalyzeHandler) cleanupArtifact(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := h.artifacts.Delete(ctx, key); err != nil {
		logger.Warn(ctx, "Failed to clean up artifact", "key", key, "error", err)
	}
}

// Health is the liveness probe.
func Health(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}
