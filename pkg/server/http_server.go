package server

import (
	"net/http"

	"github.com/NYTimes/gziphandler"
	"github.com/gorilla/mux"

	"github.com/iota-uz/atlas/pkg/application"
)

// HTTPServer mounts the application's controllers behind its middleware
// chain and serves gzip-compressed JSON.
type HTTPServer struct {
	controllers []application.Controller
	middlewares []mux.MiddlewareFunc
	notFound    http.Handler
	notAllowed  http.Handler
}

func NewHTTPServer(app application.Application) *HTTPServer {
	return &HTTPServer{
		controllers: app.Controllers(),
		middlewares: app.Middleware(),
		notFound:    JSONErrorHandler(http.StatusNotFound, "NOT_FOUND", "resource not found"),
		notAllowed:  JSONErrorHandler(http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed"),
	}
}

// JSONErrorHandler writes a fixed coded error body. The API speaks JSON
// end to end, so the router fallbacks do too.
func JSONErrorHandler(status int, code, message string) http.Handler {
	body := []byte(`{"code":"` + code + `","message":"` + message + `"}`)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write(body)
	})
}

func (s *HTTPServer) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.middlewares...)
	for _, controller := range s.controllers {
		controller.Register(r)
	}

	// Fallback handlers bypass r.Use, wrap them by hand.
	notFound := s.notFound
	notAllowed := s.notAllowed
	for i := len(s.middlewares) - 1; i >= 0; i-- {
		notFound = s.middlewares[i](notFound)
		notAllowed = s.middlewares[i](notAllowed)
	}
	r.NotFoundHandler = notFound
	r.MethodNotAllowedHandler = notAllowed
	return r
}

func (s *HTTPServer) Handler() http.Handler {
	return gziphandler.GzipHandler(s.Router())
}

func (s *HTTPServer) Start(socketAddress string) error {
	return http.ListenAndServe(socketAddress, s.Handler())
}
