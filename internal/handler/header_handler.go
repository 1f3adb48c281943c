package handler

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/locvowork/headergrid/internal/logger"
	"github.com/locvowork/headergrid/internal/service"
	"github.com/locvowork/headergrid/internal/service/serviceutils"
	"github.com/locvowork/headergrid/pkg/colheader"
)

type HeaderHandler struct {
	layoutService service.LayoutService
}

func NewHeaderHandler(layoutService service.LayoutService) *HeaderHandler {
	return &HeaderHandler{layoutService: layoutService}
}

type buildHeaderRequest struct {
	Columns []colheader.Column `json:"columns"`
}

// Register mounts the handler routes on g.
func (h *HeaderHandler) Register(g *echo.Group) {
	g.POST("/headers", h.BuildHeader)
	g.GET("/layouts", h.ListLayouts)
	g.GET("/layouts/:id/header", h.GetLayoutHeader)
	g.GET("/layouts/:id/leaves", h.GetLayoutLeaves)
	g.POST("/layouts/:id/export", h.ExportLayout)
}

// BuildHeader computes the header grid for an ad hoc column tree.
func (h *HeaderHandler) BuildHeader(c echo.Context) error {
	ctx := c.Request().Context()

	var req buildHeaderRequest
	if err := c.Bind(&req); err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid request body", err)
	}
	header, err := h.layoutService.BuildHeader(ctx, req.Columns)
	if err != nil {
		logger.WarnLog(ctx, "Rejected column tree: %v", err)
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid columns", err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Header built", header)
}

func (h *HeaderHandler) ListLayouts(c echo.Context) error {
	ids := h.layoutService.List(c.Request().Context())
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Layouts retrieved", ids)
}

func (h *HeaderHandler) GetLayoutHeader(c echo.Context) error {
	header, err := h.layoutService.Header(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.serviceError(c, err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Header retrieved", header)
}

func (h *HeaderHandler) GetLayoutLeaves(c echo.Context) error {
	header, err := h.layoutService.Header(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.serviceError(c, err)
	}
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Leaves retrieved", header.Leaves)
}

// ExportLayout renders the posted rows with the layout's grouped header.
func (h *HeaderHandler) ExportLayout(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	format, err := service.ParseFormat(c.QueryParam("format"))
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid format", err)
	}

	var rows []map[string]interface{}
	binder := &echo.DefaultBinder{}
	if err := binder.BindBody(c, &rows); err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid request body", err)
	}

	var buf bytes.Buffer
	if err := h.layoutService.Export(ctx, id, rows, format, &buf); err != nil {
		return h.serviceError(c, err)
	}

	serviceutils.Attachment(c, format.ContentType(), fmt.Sprintf("%s.%s", id, extension(format)))
	c.Response().Header().Set(echo.HeaderContentLength, strconv.Itoa(buf.Len()))
	c.Response().WriteHeader(http.StatusOK)
	_, err = c.Response().Write(buf.Bytes())
	return err
}

func (h *HeaderHandler) serviceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrLayoutNotFound):
		return serviceutils.ResponseError(c, http.StatusNotFound, "Layout not found", err)
	case errors.Is(err, service.ErrTooManyRows), errors.Is(err, service.ErrUnsupportedFormat):
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Export rejected", err)
	}
	logger.ErrorLog(c.Request().Context(), "Layout request failed: %v", err)
	return serviceutils.ResponseError(c, http.StatusInternalServerError, "Failed to process layout", err)
}

func extension(f service.Format) string {
	if f == service.FormatText {
		return "txt"
	}
	return string(f)
}
