package api

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"propertyhub/server/internal/auth"
	"propertyhub/server/internal/database"
	"propertyhub/server/internal/metrics"
	"propertyhub/server/internal/models"
	"propertyhub/server/internal/upload"
)

// LeadNotifier is told about every visitor who leaves contact details.
type LeadNotifier interface {
	NotifyLead(ctx context.Context, user *models.User) error
}

type Handler struct {
	store    database.Store
	uploader *upload.Uploader
	gate     *auth.Gate
	sessions *auth.SessionManager
	notifier LeadNotifier
	metrics  *metrics.Metrics
	logger   *logrus.Logger
	iconsDir string
}

func NewHandler(store database.Store, uploader *upload.Uploader, gate *auth.Gate, sessions *auth.SessionManager, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}

	h := &Handler{
		store:    store,
		uploader: uploader,
		gate:     gate,
		sessions: sessions,
		metrics:  metrics.New(),
		logger:   logger,
		iconsDir: "icons",
	}
	if uploader != nil {
		uploader.OnStored(func(string) { h.metrics.Upload("stored") })
	}
	return h
}

func (h *Handler) SetNotifier(n LeadNotifier) {
	h.notifier = n
}

func (h *Handler) SetMetrics(m *metrics.Metrics) {
	h.metrics = m
}

func (h *Handler) SetIconsDir(dir string) {
	h.iconsDir = dir
}

func (h *Handler) Metrics() *metrics.Metrics {
	return h.metrics
}

// fail maps an error to the plain-text status the site answers with. Anything
// unrecognized is logged and reported as a generic 500.
func (h *Handler) fail(c *gin.Context, err error, msg string) {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.Is(err, upload.ErrFileTooLarge), errors.As(err, &maxBytes):
		h.metrics.Upload("rejected")
		c.String(http.StatusRequestEntityTooLarge, "File too large")
	case errors.Is(err, database.ErrNotFound):
		c.String(http.StatusNotFound, msg)
	case errors.Is(err, models.ErrNameRequired),
		errors.Is(err, models.ErrMissingFields),
		errors.Is(err, models.ErrTooManyItems):
		c.String(http.StatusBadRequest, err.Error())
	default:
		h.logger.WithError(err).WithField("path", c.FullPath()).Error(msg)
		c.String(http.StatusInternalServerError, "Server Error")
	}
}

func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().UTC()})
}
