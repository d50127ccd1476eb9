package api

import (
	"bytes"
	"encoding/json"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/pyhub-apps/docpolish-golang/internal/testpdf"
	"github.com/pyhub-apps/docpolish-golang/pkg/pdf"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(maxSize int64) *gin.Engine {
	logger, _ := test.NewNullLogger()
	return NewRouter(&Config{MaxFileSize: maxSize, Logger: logger})
}

func watermarkedDoc(pages int) []byte {
	var d testpdf.Doc
	for i := 0; i < pages; i++ {
		d.Pages = append(d.Pages, testpdf.Page{
			Width:  612,
			Height: 792,
			Texts: []testpdf.Text{
				{X: 72, Y: 700, Size: 12, S: []string{"Alpha", "Beta", "Gamma"}[i%3]},
				{X: 72, Y: 40, Size: 12, S: "CONFIDENTIAL DRAFT"},
			},
		})
	}
	return testpdf.Build(d)
}

// upload posts a multipart form with the file in the "pdf" field
func upload(t *testing.T, r http.Handler, path, filename string, data []byte, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if data != nil {
		fw, err := mw.CreateFormFile("pdf", filename)
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		fw.Write(data)
	}
	for k, v := range fields {
		mw.WriteField(k, v)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	r := newTestRouter(0)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "healthy") {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestClean(t *testing.T) {
	r := newTestRouter(0)
	w := upload(t, r, "/api/pdf/clean", "report.pdf", watermarkedDoc(2), map[string]string{
		"keywords":   "confidential",
		"whole_word": "true",
	})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if got := w.Header().Get("Content-Type"); got != "application/pdf" {
		t.Errorf("Content-Type = %q", got)
	}
	if got := w.Header().Get("Content-Disposition"); !strings.Contains(got, `filename="Clean_report.pdf"`) {
		t.Errorf("Content-Disposition = %q", got)
	}
	if got := w.Header().Get("X-Pages-Cleaned"); got != "2" {
		t.Errorf("X-Pages-Cleaned = %q, want 2", got)
	}

	doc, err := pdf.OpenBytes(w.Body.Bytes())
	if err != nil {
		t.Fatalf("OpenBytes: %v", err)
	}
	defer doc.Close()
	for _, p := range doc.GetPages() {
		if text := p.ExtractText(); strings.Contains(text, "CONFIDENTIAL") {
			t.Errorf("page %d still contains the keyword: %q", p.GetPageNumber(), text)
		}
	}
}

func TestDetect(t *testing.T) {
	r := newTestRouter(0)
	w := upload(t, r, "/api/pdf/detect", "report.pdf", watermarkedDoc(3), nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var resp struct {
		Keywords string `json:"keywords"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if resp.Keywords != "CONFIDENTIAL DRAFT" {
		t.Errorf("keywords = %q, want %q", resp.Keywords, "CONFIDENTIAL DRAFT")
	}
}

func TestPreview(t *testing.T) {
	r := newTestRouter(0)
	w := upload(t, r, "/api/pdf/preview", "report.pdf", watermarkedDoc(1), map[string]string{
		"keywords": "draft",
	})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if got := w.Header().Get("Content-Type"); got != "image/png" {
		t.Errorf("Content-Type = %q", got)
	}
	img, err := png.Decode(w.Body)
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 918 || b.Dy() != 1188 {
		t.Errorf("preview size = %v, want 918x1188", b.Size())
	}
}

func TestRequestErrors(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		data    []byte
		fields  map[string]string
		maxSize int64
		status  int
		errText string
	}{
		{"missing file", "/api/pdf/clean", nil, nil, 0, http.StatusBadRequest, "No PDF file provided"},
		{"not a pdf", "/api/pdf/clean", []byte("hello world"), nil, 0, http.StatusBadRequest, "header does not match"},
		{"too large", "/api/pdf/detect", watermarkedDoc(1), nil, 100, http.StatusBadRequest, "exceeds maximum"},
		{"broken pdf", "/api/pdf/clean", []byte("%PDF-1.4 truncated"), nil, 0, http.StatusUnprocessableEntity, "invalid document"},
		{"broken pdf preview", "/api/pdf/preview", []byte("%PDF-1.4 truncated"), nil, 0, http.StatusUnprocessableEntity, "invalid document"},
		{"negative footer", "/api/pdf/clean", watermarkedDoc(1), map[string]string{"footer_height": "-5"}, 0, http.StatusBadRequest, "must not be negative"},
		{"bad boolean", "/api/pdf/clean", watermarkedDoc(1), map[string]string{"match_case": "maybe"}, 0, http.StatusBadRequest, "match_case"},
		{"bad granularity", "/api/pdf/preview", watermarkedDoc(1), map[string]string{"granularity": "page"}, 0, http.StatusBadRequest, "granularity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := upload(t, newTestRouter(tt.maxSize), tt.path, "in.pdf", tt.data, tt.fields)
			if w.Code != tt.status {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.status, w.Body.String())
			}
			if !strings.Contains(w.Body.String(), tt.errText) {
				t.Errorf("body = %s, want it to mention %q", w.Body.String(), tt.errText)
			}
		})
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"report.pdf", "report.pdf"},
		{"../../etc/passwd", "__etc_passwd"},
		{`dir\file.pdf`, "dir_file.pdf"},
		{"  ", "document.pdf"},
		{"", "document.pdf"},
	}
	for _, tt := range tests {
		if got := sanitizeFilename(tt.in); got != tt.want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
