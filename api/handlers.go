package api

import (
	"bytes"
	"errors"
	"fmt"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pyhub-apps/docpolish-golang/pkg/match"
	"github.com/pyhub-apps/docpolish-golang/pkg/pdf"
	"github.com/pyhub-apps/docpolish-golang/pkg/pipeline"
)

type handler struct {
	config   *Config
	pipeline *pipeline.Pipeline
	cache    *resultCache
}

// errBadRequest marks errors caused by the request itself
var errBadRequest = errors.New("bad request")

func (h *handler) handleClean(c *gin.Context) {
	data, name, ok := h.readUpload(c)
	if !ok {
		return
	}
	cfg, err := parseConfiguration(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.cache.do(cacheKey("clean", data, cfg.Key()), func() (cachedResult, error) {
		out, report, err := h.pipeline.ProcessWithReport(data, cfg)
		return cachedResult{data: out, pages: report.Pages}, err
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "Clean_"+name))
	c.Header("X-Pages-Cleaned", strconv.Itoa(result.pages))
	c.Data(http.StatusOK, "application/pdf", result.data)
}

func (h *handler) handleDetect(c *gin.Context) {
	data, _, ok := h.readUpload(c)
	if !ok {
		return
	}

	result, _ := h.cache.do(cacheKey("detect", data, ""), func() (cachedResult, error) {
		return cachedResult{data: []byte(h.pipeline.Detect(data))}, nil
	})
	c.JSON(http.StatusOK, gin.H{"keywords": string(result.data)})
}

func (h *handler) handlePreview(c *gin.Context) {
	data, _, ok := h.readUpload(c)
	if !ok {
		return
	}
	cfg, err := parseConfiguration(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.cache.do(cacheKey("preview", data, cfg.Key()), func() (cachedResult, error) {
		img, err := h.pipeline.Preview(data, cfg)
		if err != nil {
			return cachedResult{}, err
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return cachedResult{}, fmt.Errorf("failed to encode preview: %w", err)
		}
		return cachedResult{data: buf.Bytes(), pages: 1}, nil
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.Data(http.StatusOK, "image/png", result.data)
}

// readUpload reads the "pdf" form file. It writes the error response
// itself and reports false when the request cannot proceed.
func (h *handler) readUpload(c *gin.Context) ([]byte, string, bool) {
	file, header, err := c.Request.FormFile("pdf")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No PDF file provided"})
		return nil, "", false
	}
	defer file.Close()

	if err := validatePDFFile(file, header, h.config.MaxFileSize); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, "", false
	}

	data, err := io.ReadAll(io.LimitReader(file, h.config.MaxFileSize+1))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read file"})
		return nil, "", false
	}
	if int64(len(data)) > h.config.MaxFileSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("file exceeds maximum allowed %d bytes", h.config.MaxFileSize)})
		return nil, "", false
	}
	return data, sanitizeFilename(header.Filename), true
}

func (h *handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, pdf.ErrInvalidDocument):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid document"})
	case errors.Is(err, pipeline.ErrNoPages):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		h.config.Logger.WithError(err).WithField("path", c.FullPath()).Error("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "processing failed"})
	}
}

// parseConfiguration builds the matching configuration from form fields.
// The footer height defaults to the band offered by the upload form.
func parseConfiguration(c *gin.Context) (match.Configuration, error) {
	var opts []match.Option

	for _, field := range []struct {
		name string
		opt  func(bool) match.Option
	}{
		{"match_case", match.WithMatchCase},
		{"whole_word", match.WithWholeWord},
	} {
		if v := c.PostForm(field.name); v != "" {
			on, err := strconv.ParseBool(v)
			if err != nil {
				return match.Configuration{}, fmt.Errorf("%w: %s must be a boolean", errBadRequest, field.name)
			}
			opts = append(opts, field.opt(on))
		}
	}

	header, err := formFloat(c, "header_height", 0)
	if err != nil {
		return match.Configuration{}, err
	}
	footer, err := formFloat(c, "footer_height", match.DefaultFooterHeight)
	if err != nil {
		return match.Configuration{}, err
	}
	opts = append(opts, match.WithHeaderHeight(header), match.WithFooterHeight(footer))

	if v := c.PostForm("granularity"); v != "" {
		g, err := pdf.ParseGranularity(v)
		if err != nil {
			return match.Configuration{}, fmt.Errorf("%w: %v", errBadRequest, err)
		}
		opts = append(opts, match.WithGranularity(g))
	}

	return match.NewConfiguration(c.PostForm("keywords"), opts...)
}

func formFloat(c *gin.Context, name string, def float64) (float64, error) {
	v, ok := c.GetPostForm(name)
	if !ok || strings.TrimSpace(v) == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a number", errBadRequest, name)
	}
	return f, nil
}

// sanitizeFilename prevents path traversal in download names
func sanitizeFilename(filename string) string {
	filename = strings.ReplaceAll(filename, "..", "")
	filename = strings.ReplaceAll(filename, "/", "_")
	filename = strings.ReplaceAll(filename, "\\", "_")
	filename = strings.TrimSpace(filepath.Base(filename))

	if filename == "" || filename == "." {
		filename = "document.pdf"
	}
	return filename
}

// validatePDFFile checks the upload size and the PDF header
func validatePDFFile(file multipart.File, header *multipart.FileHeader, maxSize int64) error {
	if header.Size > maxSize {
		return fmt.Errorf("file size %d exceeds maximum allowed %d bytes", header.Size, maxSize)
	}

	buffer := make([]byte, 4)
	n, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		return fmt.Errorf("failed to read file header: %w", err)
	}
	if n < 4 || string(buffer[:4]) != "%PDF" {
		return fmt.Errorf("invalid PDF file: header does not match")
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("failed to reset file position: %w", err)
	}
	return nil
}
