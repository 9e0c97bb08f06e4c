package api

import (
	"errors"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"

	"github.com/insightdelivered/statement-analyzer/internal/analyzer"
	"github.com/insightdelivered/statement-analyzer/internal/extractor"
	"github.com/insightdelivered/statement-analyzer/internal/logger"
	"github.com/insightdelivered/statement-analyzer/internal/models"
	"github.com/insightdelivered/statement-analyzer/internal/parser"
	"github.com/insightdelivered/statement-analyzer/internal/pipeline"
	"github.com/insightdelivered/statement-analyzer/internal/standardizer"
)

// UploadResponse is the JSON response from /api/upload and /api/analyze.
type UploadResponse struct {
	Success      bool                          `json:"success"`
	Error        string                        `json:"error,omitempty"`
	Bank         string                        `json:"bank,omitempty"`
	Source       string                        `json:"source,omitempty"`
	Transactions []models.CanonicalTransaction `json:"transactions"`
	Warnings     []standardizer.Warning        `json:"warnings,omitempty"`
	Summary      *models.Summary               `json:"summary,omitempty"`
	Count        int                           `json:"count"`
	Failures     []FileFailure                 `json:"failures,omitempty"`
	Version      string                        `json:"version,omitempty"`
}

// FileFailure reports an uploaded file that could not be parsed.
type FileFailure struct {
	File  string `json:"file"`
	Error string `json:"error"`
}

// Handler holds the HTTP handlers for the API.
type Handler struct {
	Pipeline  *pipeline.Pipeline
	UploadDir string
	Version   string
	Log       zerolog.Logger
}

// NewApp returns a fiber app with the API routes registered.
func NewApp(h *Handler, bodyLimitMB int) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "statement-analyzer",
		BodyLimit:             bodyLimitMB << 20,
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "POST, GET, OPTIONS",
		AllowHeaders: "Content-Type",
	}))
	app.Use(h.requestLogger)
	h.RegisterRoutes(app)
	return app
}

// requestLogger stores a request-scoped logger on the user context.
func (h *Handler) requestLogger(c *fiber.Ctx) error {
	l := h.Log.With().Str("method", c.Method()).Str("path", c.Path()).Logger()
	c.SetUserContext(logger.WithContext(c.UserContext(), l))
	return c.Next()
}

// RegisterRoutes sets up the HTTP routes.
func (h *Handler) RegisterRoutes(app *fiber.App) {
	app.Get("/api/health", h.HandleHealth)
	app.Post("/api/upload", h.HandleUpload)
	app.Post("/api/analyze", h.HandleAnalyze)
}

// HandleHealth reports liveness.
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"engine":  "fiber",
		"version": h.Version,
	})
}

// HandleUpload parses one statement from the multipart field "file". The
// optional "bank" and "account" fields act as folder hints for detection.
func (h *Handler) HandleUpload(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "No file uploaded. Use form field 'file'.")
	}
	if !supportedUpload(fh.Filename) {
		return writeError(c, fiber.StatusBadRequest, "Only PDF or text statements are supported.")
	}

	workDir, err := h.workDir()
	if err != nil {
		return writeError(c, fiber.StatusInternalServerError, "Failed to prepare upload directory.")
	}
	defer os.RemoveAll(workDir)

	path, err := h.store(c, fh, workDir, "")
	if err != nil {
		return writeError(c, fiber.StatusInternalServerError, "Failed to save uploaded file.")
	}

	res, err := h.Pipeline.ParseFile(path)
	if err != nil {
		log := logger.FromContext(c.UserContext())
		log.Error().Err(err).Str("file", fh.Filename).Msg("upload failed")
		return writeError(c, statusFor(err), err.Error())
	}

	summary := analyzer.Analyze(res.Transactions)
	return c.JSON(UploadResponse{
		Success:      true,
		Bank:         string(res.Bank),
		Source:       res.Metadata.Source,
		Transactions: res.Transactions,
		Warnings:     res.Warnings,
		Summary:      &summary,
		Count:        len(res.Transactions),
		Version:      h.Version,
	})
}

// HandleAnalyze parses every file in the multipart field "files" and returns
// the combined summary. Files that fail are listed, not fatal.
func (h *Handler) HandleAnalyze(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, fmt.Sprintf("Failed to parse form: %v", err))
	}
	files := form.File["files"]
	if len(files) == 0 {
		return writeError(c, fiber.StatusBadRequest, "No files uploaded. Use form field 'files'.")
	}

	workDir, err := h.workDir()
	if err != nil {
		return writeError(c, fiber.StatusInternalServerError, "Failed to prepare upload directory.")
	}
	defer os.RemoveAll(workDir)

	var failures []FileFailure
	var paths []string
	names := make(map[string]string)
	for i, fh := range files {
		if !supportedUpload(fh.Filename) {
			failures = append(failures, FileFailure{File: fh.Filename, Error: "unsupported file type"})
			continue
		}
		path, err := h.store(c, fh, workDir, strconv.Itoa(i))
		if err != nil {
			failures = append(failures, FileFailure{File: fh.Filename, Error: err.Error()})
			continue
		}
		paths = append(paths, path)
		names[path] = fh.Filename
	}

	batch := h.Pipeline.Batch(paths)
	for _, f := range batch.Failures {
		failures = append(failures, FileFailure{File: names[f.Path], Error: f.Err.Error()})
	}

	summary := analyzer.Analyze(batch.Transactions)
	return c.JSON(UploadResponse{
		Success:      len(batch.Files) > 0,
		Transactions: batch.Transactions,
		Summary:      &summary,
		Count:        len(batch.Transactions),
		Failures:     failures,
		Version:      h.Version,
	})
}

func (h *Handler) workDir() (string, error) {
	if err := os.MkdirAll(h.UploadDir, 0o755); err != nil {
		return "", err
	}
	return os.MkdirTemp(h.UploadDir, "upload-")
}

// store saves fh under workDir/slot/<bank>/<account>/ so the hints become
// folder segments seen by detection.
func (h *Handler) store(c *fiber.Ctx, fh *multipart.FileHeader, workDir, slot string) (string, error) {
	dir := filepath.Join(workDir, slot, hint(c.FormValue("bank")), hint(c.FormValue("account")))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, filepath.Base(fh.Filename))
	if err := c.SaveFile(fh, path); err != nil {
		return "", err
	}
	return path, nil
}

var unsafeHint = regexp.MustCompile(`[^a-z0-9 _\-]`)

// hint keeps a form hint usable as a single folder name.
func hint(v string) string {
	return unsafeHint.ReplaceAllString(strings.ToLower(strings.TrimSpace(v)), "")
}

func supportedUpload(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".pdf" || ext == ".txt"
}

func statusFor(err error) int {
	var unrecognized *parser.UnrecognizedStatementError
	var readErr *extractor.StatementReadError
	switch {
	case errors.As(err, &unrecognized), errors.As(err, &readErr):
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}

func writeError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(UploadResponse{
		Success:      false,
		Error:        msg,
		Transactions: []models.CanonicalTransaction{},
	})
}
