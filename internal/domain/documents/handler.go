package documents

import (
	"context"
	"errors"
	"mime"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/ehr/timeline/internal/domain/timeline"
	"github.com/ehr/timeline/internal/platform/httputil"
)

// EncounterSource resolves encounters of the current timeline. Documents
// are generated from that record; nothing is fetched per document.
type EncounterSource interface {
	Encounter(ctx context.Context, filename string) (timeline.EncounterRecord, bool)
}

type Handler struct {
	src EncounterSource
}

func NewHandler(src EncounterSource) *Handler {
	return &Handler{src: src}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/encounters/:filename/documents/:kind/:item")
	g.GET("/print", h.Print)
	g.GET("/download", h.Download)
}

func (h *Handler) Print(c echo.Context) error {
	doc, err := h.resolve(c)
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(http.StatusOK)
	return doc.WriteHTML(c.Response())
}

func (h *Handler) Download(c echo.Context) error {
	doc, err := h.resolve(c)
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentDisposition,
		mime.FormatMediaType("attachment", map[string]string{"filename": doc.Filename()}))
	return c.Blob(http.StatusOK, "text/plain; charset=utf-8", []byte(doc.Text()))
}

func (h *Handler) resolve(c echo.Context) (*Document, error) {
	filename := httputil.PathParam(c, "filename")
	rec, ok := h.src.Encounter(c.Request().Context(), filename)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusNotFound, "encounter not found")
	}
	item, err := strconv.Atoi(c.Param("item"))
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid item")
	}
	kind := c.Param("kind")
	items := rec.Content.MedicalConducts.Items(kind)
	if item < 0 || item >= len(items) {
		return nil, echo.NewHTTPError(http.StatusNotFound, "item not found")
	}
	doc, err := New(kind, items[item], rec.Content)
	if err != nil {
		if errors.Is(err, ErrUnknownKind) {
			return nil, echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return doc, nil
}
