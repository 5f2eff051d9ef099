package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	appimages "github.com/bryanwahyu/image-lens/internal/application/images"
	domain "github.com/bryanwahyu/image-lens/internal/domain/images"
	"github.com/bryanwahyu/image-lens/internal/domain/ingestfailures"
	"github.com/bryanwahyu/image-lens/internal/infra/events"
	"github.com/bryanwahyu/image-lens/internal/middleware"
)

// ImageService is what the HTTP surface needs from the application layer.
type ImageService interface {
	IssueUploadGrant(ctx context.Context, userID, filename string) (domain.UploadGrant, error)
	Get(ctx context.Context, id string) (*domain.ImageWithURL, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Summary, error)
	Search(ctx context.Context, query, ownerID string) ([]domain.SearchResult, error)
	ListFailures(ctx context.Context, bucket, key string, limit int) ([]*ingestfailures.Failure, error)
	events.Ingester
}

type Options struct {
	AllowedOrigins []string
	// SearchLimiter is optional; nil leaves /search unlimited.
	SearchLimiter *middleware.RateLimiter
	WebhookToken  string
	Checkers      map[string]middleware.HealthChecker
}

type Router struct {
	svc ImageService
	log zerolog.Logger
}

func NewRouter(svc ImageService, logger zerolog.Logger, opts Options) http.Handler {
	r := &Router{svc: svc, log: logger}

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	mux := chi.NewRouter()
	if len(origins) == 1 && origins[0] == "*" {
		mux.Use(anyOrigin)
	}
	mux.Use(middleware.RequestID)
	mux.Use(middleware.Logging(logger))
	mux.Use(middleware.Metrics)
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         300,
	}))

	mux.Get("/health", middleware.LivenessHandler)
	mux.Get("/health/live", middleware.LivenessHandler)
	mux.Get("/health/ready", middleware.ReadinessHandler(opts.Checkers))
	mux.Handle("/metrics", middleware.MetricsHandler())

	mux.Get("/upload-url", r.wrap(r.handleUploadURL))
	mux.Get("/images", r.wrap(r.handleList))
	mux.Get("/images/", r.wrap(r.handleGet))
	mux.Get("/images/{imageId}", r.wrap(r.handleGet))
	mux.With(middleware.RateLimit(opts.SearchLimiter)).Get("/search", r.wrap(r.handleSearch))
	mux.With(middleware.BearerToken(opts.WebhookToken)).Post("/events/storage", r.wrap(r.handleStorageEvent))
	mux.Get("/ingest/failures", r.wrap(r.handleFailures))

	mux.NotFound(func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Message: "Not found"})
	})
	mux.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Message: "Method not allowed"})
	})

	return mux
}

// anyOrigin sets the wildcard header on every response, not only on
// requests that carry an Origin header. A configured origin list replaces
// it and cors then only answers listed origins.
func anyOrigin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		next.ServeHTTP(w, req)
	})
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// failure carries the public message for an unexpected error.
type failure struct {
	msg string
	err error
}

func (f *failure) Error() string { return f.msg + ": " + f.err.Error() }
func (f *failure) Unwrap() error { return f.err }

func fail(msg string, err error) error {
	if err == nil {
		return nil
	}
	return &failure{msg: msg, err: err}
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}

		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusBadRequest, errorBody{Message: verr.Msg})
			return
		}
		if errors.Is(err, domain.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody{Message: "Image not found"})
			return
		}
		if errors.Is(err, appimages.ErrLedgerDisabled) {
			writeJSON(w, http.StatusNotFound, errorBody{Message: "Ingest failure ledger is disabled"})
			return
		}

		msg := "Internal server error"
		var f *failure
		if errors.As(err, &f) {
			msg = f.msg
		}
		r.log.Error().Err(err).
			Str("path", req.URL.Path).
			Str("request_id", middleware.GetRequestID(req.Context())).
			Msg(msg)
		writeJSON(w, http.StatusInternalServerError, errorBody{Message: msg, Error: err.Error()})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// GET /upload-url?userId=&filename=
func (r *Router) handleUploadURL(w http.ResponseWriter, req *http.Request) error {
	q := req.URL.Query()
	userID := middleware.SanitizeString(q.Get("userId"))
	filename := middleware.SanitizeString(q.Get("filename"))
	if userID != "" && filename != "" {
		if err := middleware.ValidateUserID(userID); err != nil {
			return domain.Invalid("userId", "Invalid userId parameter")
		}
		if err := middleware.ValidateFilename(filename); err != nil {
			return domain.Invalid("filename", "Invalid filename parameter")
		}
	}

	grant, err := r.svc.IssueUploadGrant(req.Context(), userID, filename)
	if err != nil {
		return fail("Error generating upload URL", err)
	}
	writeJSON(w, http.StatusOK, grant)
	return nil
}

// GET /images/{imageId}
func (r *Router) handleGet(w http.ResponseWriter, req *http.Request) error {
	id := middleware.SanitizeString(chi.URLParam(req, "imageId"))
	if id == "" {
		return domain.Invalid("imageId", "Missing imageId parameter")
	}
	if middleware.ValidateImageID(id) != nil {
		// no record can carry a malformed id
		return domain.ErrNotFound
	}

	img, err := r.svc.Get(req.Context(), id)
	if err != nil {
		return fail("Error getting image", err)
	}
	writeJSON(w, http.StatusOK, img)
	return nil
}

// GET /images?userId=
func (r *Router) handleList(w http.ResponseWriter, req *http.Request) error {
	userID := middleware.SanitizeString(req.URL.Query().Get("userId"))

	list, err := r.svc.ListByOwner(req.Context(), userID)
	if err != nil {
		return fail("Error listing images", err)
	}
	writeJSON(w, http.StatusOK, list)
	return nil
}

// GET /search?query=&userId=
func (r *Router) handleSearch(w http.ResponseWriter, req *http.Request) error {
	q := req.URL.Query()

	res, err := r.svc.Search(req.Context(),
		// whitespace is part of the substring match
		middleware.StripControl(q.Get("query")),
		middleware.SanitizeString(q.Get("userId")),
	)
	if err != nil {
		return fail("Error searching images", err)
	}
	writeJSON(w, http.StatusOK, res)
	return nil
}

// POST /events/storage
// Body: MinIO/S3 event document {"EventName", "Key", "Records": [...]}
func (r *Router) handleStorageEvent(w http.ResponseWriter, req *http.Request) error {
	doc, err := events.Decode(http.MaxBytesReader(w, req.Body, 1<<20))
	if err != nil {
		return domain.Invalid("body", "Invalid event document")
	}

	ids, err := events.IngestAll(req.Context(), r.svc, events.Created(doc.Records))
	if err != nil {
		return fail("Error processing image", err)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":  "Image processed successfully",
		"imageIds": ids,
	})
	return nil
}

// GET /ingest/failures?key=&bucket=&limit=
func (r *Router) handleFailures(w http.ResponseWriter, req *http.Request) error {
	q := req.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))

	list, err := r.svc.ListFailures(req.Context(),
		middleware.SanitizeString(q.Get("bucket")),
		middleware.SanitizeString(q.Get("key")),
		middleware.ValidateLimit(limit),
	)
	if err != nil {
		return fail("Error listing ingest failures", err)
	}
	writeJSON(w, http.StatusOK, list)
	return nil
}
