// Package server exposes a Site over HTTP.
//
// Every GET path is walked through the content tree. A trailing
// "++namespace++name" segment goes through layout traversal; a trailing
// view name selects one of the editing endpoints:
//
//	@@contentmenu          content menu as JSON
//	select_default_view    display layout menu as JSON
//	selectViewTemplate     ?templateId=... selects a layout, then redirects
//	select_default_page    ?id=... selects a folder's default page, then redirects
//	folder_contents        child listing as JSON (a contents page)
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/Bitlatte/mosaic/internal/errors"
	"github.com/Bitlatte/mosaic/internal/logging"
	"github.com/Bitlatte/mosaic/internal/menu"
	"github.com/Bitlatte/mosaic/internal/model"
	"github.com/Bitlatte/mosaic/internal/site"
	"github.com/Bitlatte/mosaic/internal/traverse"
)

// RequestIDHeader carries the id assigned to each request.
const RequestIDHeader = "X-Request-Id"

// Server serves the current Site. The site can be swapped while serving.
type Server struct {
	site   atomic.Pointer[site.Site]
	logger *log.Logger
	router chi.Router
}

// New returns a server for st.
func New(st *site.Site, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{logger: logger}
	s.site.Store(st)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestContext)
	r.Get("/*", s.handle)
	s.router = r
	return s
}

// Swap replaces the served site.
func (s *Server) Swap(next *site.Site) {
	s.site.Store(next)
}

// Site returns the served site.
func (s *Server) Site() *site.Site {
	return s.site.Load()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run listens on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s, ReadHeaderTimeout: 10 * time.Second}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// requestContext assigns a request id and logs the request at debug level.
func (s *Server) requestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)

		l := s.logger.With("request_id", id)
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r.WithContext(logging.WithLogger(r.Context(), l)))
		l.Debug("request", "method", r.Method, "path", r.URL.Path, "status", ww.Status(),
			"duration", time.Since(start).Round(time.Microsecond))
	})
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	st := s.Site()
	ctx := r.Context()
	req := traverse.NewRequest(st.Config.SiteURL() + r.URL.Path)

	c, rest := st.Publisher.Locate(traverse.Segments(r.URL.Path))
	if len(rest) == 1 {
		switch rest[0] {
		case "selectViewTemplate":
			s.selectViewTemplate(w, r, st, c)
			return
		case "select_default_page":
			s.selectDefaultPage(w, r, st, c)
			return
		}
	}

	var (
		body        []byte
		contentType string
		err         error
	)
	st.Read(func() {
		body, contentType, err = s.read(ctx, st, c, rest, req)
	})
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}
	if req.URL != st.Config.SiteURL()+r.URL.Path {
		w.Header().Set("Content-Location", req.URL)
	}
	w.Header().Set("Content-Type", contentType)
	w.Write(body)
}

func (s *Server) read(ctx context.Context, st *site.Site, c *model.Content, rest []string, req *traverse.Request) ([]byte, string, error) {
	if len(rest) == 1 {
		switch rest[0] {
		case "@@contentmenu":
			return menuJSON(st, menu.ContentMenuID, c, req)
		case "select_default_view":
			return menuJSON(st, menu.LayoutMenuID, c, req)
		case "folder_contents":
			req.ContentsPage = true
			return folderContents(st, c, req)
		}
	}
	v, err := st.Publisher.PublishFrom(ctx, c, rest, req)
	if err != nil {
		return nil, "", err
	}
	out, err := v.Render(ctx)
	if err != nil {
		return nil, "", err
	}
	return out, "text/html; charset=utf-8", nil
}

func menuJSON(st *site.Site, id string, c *model.Content, req *traverse.Request) ([]byte, string, error) {
	items, err := st.Menu(id, c, req)
	if err != nil {
		return nil, "", err
	}
	return encode(items)
}

type listing struct {
	Path  string        `json:"path"`
	Title string        `json:"title"`
	Items []listingItem `json:"items"`
	Menu  []menu.Item   `json:"menu"`
}

type listingItem struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Type  string `json:"type"`
	URL   string `json:"url"`
}

func folderContents(st *site.Site, c *model.Content, req *traverse.Request) ([]byte, string, error) {
	if !c.Folderish {
		return nil, "", errors.NotFound("%s is not a folder", c.Path)
	}
	out := listing{Path: c.Path, Title: c.Title, Items: []listingItem{}}
	for _, id := range c.ChildIDs() {
		child, _ := c.Child(id)
		out.Items = append(out.Items, listingItem{ID: child.ID, Title: child.Title, Type: child.Type, URL: child.URL})
	}
	items, err := st.Menu(menu.ContentMenuID, c, req)
	if err != nil {
		return nil, "", err
	}
	out.Menu = items
	return encode(out)
}

func encode(v any) ([]byte, string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrCodeInternal, err, "encode response")
	}
	return data, "application/json", nil
}

func (s *Server) selectViewTemplate(w http.ResponseWriter, r *http.Request, st *site.Site, c *model.Content) {
	id := r.URL.Query().Get("templateId")
	if id == "" {
		s.writeError(r.Context(), w, errors.New(errors.ErrCodeInvalidInput, "templateId is required"))
		return
	}
	if err := st.SelectLayout(r.Context(), c, id); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	http.Redirect(w, r, c.URL, http.StatusSeeOther)
}

func (s *Server) selectDefaultPage(w http.ResponseWriter, r *http.Request, st *site.Site, c *model.Content) {
	id := r.URL.Query().Get("id")
	if id == "" {
		s.writeError(r.Context(), w, errors.New(errors.ErrCodeInvalidInput, "id is required"))
		return
	}
	if err := st.SelectDefaultPage(r.Context(), c, id); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}
	http.Redirect(w, r, c.URL, http.StatusSeeOther)
}

func (s *Server) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.ErrCodeNotFound:
		status = http.StatusNotFound
	case errors.ErrCodeInvalidInput:
		status = http.StatusBadRequest
	default:
		logging.FromContext(ctx).Error("request failed", "err", err)
	}
	http.Error(w, err.Error(), status)
}
