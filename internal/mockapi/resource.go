package mockapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/smarthealth/pkg/httputil"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// resourceHandler serves CRUD over one collection, optionally narrowed to
// the records matching scope
type resourceHandler struct {
	srv   *Server
	coll  string
	scope Record
}

func (s *Server) resource(coll string, scope Record) *resourceHandler {
	return &resourceHandler{srv: s, coll: coll, scope: scope}
}

// register mounts the routes. write guards the mutating routes.
func (h *resourceHandler) register(rg *gin.RouterGroup, path string, write ...gin.HandlerFunc) {
	g := rg.Group(path)
	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.POST("", append(write, h.create)...)
	g.PUT("/:id", append(write, h.update)...)
	g.DELETE("/:id", append(write, h.delete)...)
}

func (h *resourceHandler) list(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	if page < 1 {
		page = 1
	}
	size, _ := strconv.Atoi(c.Query("size"))
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	filter, err := parseFilter(c.Query("filter"))
	if err != nil {
		httputil.RespondWithError(c, http.StatusBadRequest, "Invalid filter: "+err.Error())
		return
	}

	items, total := h.srv.store.List(h.coll, h.scope, filter, parseSort(c.Query("sort")), page, size)
	httputil.RespondWithPage(c, items, page, size, total)
}

func (h *resourceHandler) get(c *gin.Context) {
	id, ok := h.id(c)
	if !ok {
		return
	}
	r, err := h.srv.store.Get(h.coll, id, h.scope)
	if err != nil {
		respondErr(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, r)
}

func (h *resourceHandler) create(c *gin.Context) {
	var body Record
	if err := c.ShouldBindJSON(&body); err != nil {
		httputil.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.srv.preparePassword(h.coll, body, true); err != nil {
		respondErr(c, err)
		return
	}

	r, err := h.srv.store.Create(h.coll, body, h.scope)
	if err != nil {
		respondErr(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusCreated, r)
}

func (h *resourceHandler) update(c *gin.Context) {
	id, ok := h.id(c)
	if !ok {
		return
	}
	var body Record
	if err := c.ShouldBindJSON(&body); err != nil {
		httputil.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.srv.preparePassword(h.coll, body, false); err != nil {
		respondErr(c, err)
		return
	}

	r, err := h.srv.store.Update(h.coll, id, body, h.scope)
	if err != nil {
		respondErr(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, r)
}

func (h *resourceHandler) delete(c *gin.Context) {
	id, ok := h.id(c)
	if !ok {
		return
	}
	if err := h.srv.store.Delete(h.coll, id, h.scope); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *resourceHandler) id(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		httputil.RespondWithError(c, http.StatusNotFound, h.srv.store.Entity(h.coll)+" not found")
		return 0, false
	}
	return id, true
}

func respondErr(c *gin.Context, err error) {
	if e, ok := err.(*apiError); ok {
		httputil.RespondWithError(c, e.status, e.message)
		return
	}
	_ = c.Error(err)
	httputil.RespondWithError(c, http.StatusInternalServerError, "Internal server error")
}
