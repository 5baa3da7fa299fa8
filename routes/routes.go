// Package routes maps the HTTP API onto the records service.
package routes

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"planner-api/models"
	"planner-api/utils"
	"planner-api/web"
)

// Route is one entry of the handler table.
type Route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
}

// Options configures the router.
type Options struct {
	// StaticDir is served for GET requests that match no route. Empty
	// disables static files.
	StaticDir string
	Logger    zerolog.Logger
}

// NewRouter builds the gin engine with middleware and every route in Table.
func NewRouter(records *utils.Records, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), RequestLogger(opts.Logger), gin.Recovery(), CORS())

	for _, route := range Table(records, opts.Logger) {
		r.Handle(route.Method, route.Path, route.Handler)
	}
	r.NoRoute(StaticFiles(opts.StaticDir))

	return r
}

// Table returns the landing page route followed by the four routes of each
// collection.
func Table(records *utils.Records, log zerolog.Logger) []Route {
	h := &handler{records: records, log: log}

	table := []Route{
		{Method: http.MethodGet, Path: "/", Handler: landingPage},
	}
	for _, coll := range models.Collections {
		base := "/api/" + coll.Name
		table = append(table,
			// GET /api/{collection} - List all records
			Route{Method: http.MethodGet, Path: base, Handler: h.list(coll)},
			// POST /api/{collection} - Add a record
			Route{Method: http.MethodPost, Path: base, Handler: h.create(coll)},
			// PUT /api/{collection}/:id - Merge fields into a record
			Route{Method: http.MethodPut, Path: base + "/:id", Handler: h.update(coll)},
			// DELETE /api/{collection}/:id - Delete a record
			Route{Method: http.MethodDelete, Path: base + "/:id", Handler: h.remove(coll)},
		)
	}
	return table
}

type handler struct {
	records *utils.Records
	log     zerolog.Logger
}

func (h *handler) list(coll models.Collection) gin.HandlerFunc {
	return func(c *gin.Context) {
		records, err := h.records.List(coll)
		if err != nil {
			h.fail(c, coll, err, "Failed to fetch "+coll.Name)
			return
		}
		c.JSON(http.StatusOK, records)
	}
}

func (h *handler) create(coll models.Collection) gin.HandlerFunc {
	return func(c *gin.Context) {
		fields, ok := bindFields(c)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		record, err := h.records.Create(coll, fields)
		if err != nil {
			h.fail(c, coll, err, "Failed to add "+coll.Name)
			return
		}
		c.JSON(http.StatusCreated, record)
	}
}

func (h *handler) update(coll models.Collection) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": coll.Singular + " not found"})
			return
		}

		fields, ok := bindFields(c)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		record, err := h.records.Update(coll, id, fields)
		if err != nil {
			h.fail(c, coll, err, "Failed to update "+coll.Name)
			return
		}
		c.JSON(http.StatusOK, record)
	}
}

func (h *handler) remove(coll models.Collection) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": coll.Singular + " not found"})
			return
		}

		record, err := h.records.Delete(coll, id)
		if err != nil {
			h.fail(c, coll, err, "Failed to delete "+coll.Name)
			return
		}
		c.JSON(http.StatusOK, record)
	}
}

// fail answers 404 for a missing record and 500 for anything else.
func (h *handler) fail(c *gin.Context, coll models.Collection, err error, msg string) {
	var notFound *utils.NotFoundError
	if errors.As(err, &notFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": notFound.Error()})
		return
	}

	h.log.Error().
		Err(err).
		Str("collection", coll.Name).
		Str("request_id", c.GetString(requestIDKey)).
		Msg(msg)
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}

// bindFields reads the request body as a JSON object. An empty or null
// body is an empty field set.
func bindFields(c *gin.Context) (map[string]json.RawMessage, bool) {
	body, err := c.GetRawData()
	if err != nil {
		return nil, false
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return map[string]json.RawMessage{}, true
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, false
	}
	if fields == nil {
		fields = map[string]json.RawMessage{}
	}
	return fields, true
}

func landingPage(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", web.MainHTML)
}
