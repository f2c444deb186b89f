// Package web serves the server-rendered patient timeline. Every page is a
// projection of the view model; mutations post forms and redirect back.
package web

import (
	"context"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ehr/timeline/internal/platform/httputil"
	"github.com/ehr/timeline/internal/platform/middleware"
	"github.com/ehr/timeline/internal/platform/recordsapi"
	"github.com/ehr/timeline/internal/platform/reporting"
	"github.com/ehr/timeline/internal/viewmodel"
)

// Records is the part of the records API the page forwards to directly.
type Records interface {
	Upload(ctx context.Context, files []recordsapi.UploadFile) (*recordsapi.UploadResult, error)
	TriggerFetch(ctx context.Context) (string, error)
	Download(ctx context.Context, filename string) (*recordsapi.File, error)
}

type Options struct {
	ReloadDelay   time.Duration
	UploadMaxSize string
	RateLimit     middleware.RateLimitConfig
}

type Handler struct {
	vm       *viewmodel.ViewModel
	records  Records
	reporter reporting.Reporter
	opts     Options
	logger   zerolog.Logger
}

func NewHandler(vm *viewmodel.ViewModel, records Records, reporter reporting.Reporter, opts Options, logger zerolog.Logger) *Handler {
	if reporter == nil {
		reporter = reporting.Nop{}
	}
	return &Handler{
		vm:       vm,
		records:  records,
		reporter: reporter,
		opts:     opts,
		logger:   logger.With().Str("component", "web").Logger(),
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	limit := middleware.RateLimit(h.opts.RateLimit)

	e.GET("/", h.Index)
	e.GET("/health", h.Health)
	e.GET("/download/:filename", h.Download)

	e.POST("/medications/toggle", h.ToggleMedication, limit)
	e.POST("/medications/add", h.AddMedication, limit)
	e.POST("/diagnoses/toggle", h.ToggleDiagnosis, limit)
	e.POST("/upload", h.Upload, limit, middleware.BodyLimit(h.opts.UploadMaxSize))
	e.POST("/fetch", h.Fetch, limit)
}

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Index reloads every section from the records API and renders the page.
// Load failures show inline per section.
func (h *Handler) Index(c echo.Context) error {
	_ = h.vm.LoadAll(c.Request().Context())

	page := BuildPage(h.vm.Snapshot(), PageQuery{
		Tab:       c.QueryParam("tab"),
		Encounter: c.QueryParam("encounter"),
		Confirm:   c.QueryParam("confirm"),
		Message:   c.QueryParam("msg"),
	})
	return c.Render(http.StatusOK, "base", page)
}

func redirect(c echo.Context, tab, msg string) error {
	return c.Redirect(http.StatusSeeOther, pageURL(NormalizeTab(tab), "", "", msg))
}

func (h *Handler) report(ctx context.Context, err error, action, subject string) {
	h.reporter.Capture(ctx, err, map[string]string{"action": action, "subject": subject})
}

// requiredName returns the name form value as submitted. Names are keys, so
// surrounding whitespace is kept.
func requiredName(c echo.Context) (string, error) {
	name := c.FormValue("name")
	if strings.TrimSpace(name) == "" {
		return "", echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}
	return name, nil
}

func (h *Handler) ToggleMedication(c echo.Context) error {
	name, err := requiredName(c)
	if err != nil {
		return err
	}
	regular := c.FormValue("regular_use") == "true"
	ctx := c.Request().Context()
	if err := h.vm.SetMedicationRegularUse(ctx, name, regular); err != nil {
		h.report(ctx, err, "medication_toggle", name)
	}
	return redirect(c, TabMedications, "")
}

func (h *Handler) ToggleDiagnosis(c echo.Context) error {
	name, err := requiredName(c)
	if err != nil {
		return err
	}
	active := c.FormValue("active") == "true"
	ctx := c.Request().Context()
	if err := h.vm.SetDiagnosisActive(ctx, name, active); err != nil {
		h.report(ctx, err, "diagnosis_toggle", name)
	}
	return redirect(c, TabDiagnoses, "")
}

// AddMedication answers the "Add to regular use" confirmation. On success
// the medications tab is shown; on failure the user stays where they were.
func (h *Handler) AddMedication(c echo.Context) error {
	name, err := requiredName(c)
	if err != nil {
		return err
	}
	regular := c.FormValue("regular_use") == "true"
	ctx := c.Request().Context()
	if err := h.vm.AddMedication(ctx, name, regular); err != nil {
		h.report(ctx, err, "medication_add", name)
		return redirect(c, c.FormValue("tab"), "")
	}
	return redirect(c, TabMedications, "")
}

// Upload forwards the submitted .med files. Submitting no file is a no-op:
// nothing is sent and no message is shown.
func (h *Handler) Upload(c echo.Context) error {
	headers, err := uploadedFiles(c)
	if err != nil {
		return err
	}
	if len(headers) == 0 {
		return redirect(c, TabTimeline, "")
	}

	files := make([]recordsapi.UploadFile, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			closeAll(files)
			return echo.NewHTTPError(http.StatusBadRequest, "cannot read uploaded file")
		}
		files = append(files, recordsapi.UploadFile{Name: fh.Filename, Reader: f})
	}
	defer closeAll(files)

	ctx := c.Request().Context()
	res, err := h.records.Upload(ctx, files)
	if err != nil {
		h.logger.Error().Err(err).Int("files", len(files)).Msg("error uploading files")
		h.report(ctx, err, "upload", "")
		return redirect(c, TabTimeline, msgUploadError)
	}
	if res.OK {
		_ = h.vm.LoadAll(ctx)
	} else {
		h.logger.Warn().Str("error", res.Error).Msg("upload rejected")
	}
	return redirect(c, TabTimeline, res.Text())
}

func uploadedFiles(c echo.Context) ([]*multipart.FileHeader, error) {
	form, err := c.MultipartForm()
	if err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			return nil, he
		}
		if errors.Is(err, http.ErrNotMultipart) || errors.Is(err, http.ErrMissingBoundary) {
			return nil, nil
		}
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid upload form")
	}
	return form.File["file"], nil
}

func closeAll(files []recordsapi.UploadFile) {
	for _, f := range files {
		if cl, ok := f.Reader.(io.Closer); ok {
			cl.Close()
		}
	}
}

// Fetch asks the records API to ingest new records and reloads every
// section once the configured delay has passed.
func (h *Handler) Fetch(c echo.Context) error {
	tab := c.FormValue("tab")
	ctx := c.Request().Context()
	msg, err := h.records.TriggerFetch(ctx)
	if err != nil {
		h.logger.Error().Err(err).Msg("error fetching from api")
		h.report(ctx, err, "fetch", "")
		return redirect(c, tab, msgFetchError)
	}
	h.vm.ScheduleReload(h.opts.ReloadDelay)
	return redirect(c, tab, msg)
}

// Download streams a raw .med file from the records API.
func (h *Handler) Download(c echo.Context) error {
	filename := httputil.PathParam(c, "filename")
	f, err := h.records.Download(c.Request().Context(), filename)
	if err != nil {
		var se *recordsapi.StatusError
		if errors.As(err, &se) && se.StatusCode == http.StatusNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "file not found")
		}
		h.logger.Error().Err(err).Str("filename", filename).Msg("error downloading file")
		return echo.NewHTTPError(http.StatusBadGateway, "records api unavailable")
	}
	defer f.Body.Close()

	disposition := f.ContentDisposition
	if disposition == "" {
		disposition = mime.FormatMediaType("attachment", map[string]string{"filename": filename})
	}
	contentType := f.ContentType
	if contentType == "" {
		contentType = echo.MIMEOctetStream
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, disposition)
	return c.Stream(http.StatusOK, contentType, f.Body)
}
