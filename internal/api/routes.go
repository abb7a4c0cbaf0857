package api

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type RouterConfig struct {
	CORSOrigins     []string
	MaxBodyBytes    int64
	VerifyRateLimit int

	PublicDir string
	ImagesDir string
	IconsDir  string
	RerasDir  string
}

// NewRouter wires every route of the site. ctx bounds the background cleanup of the
// code submission rate limiter.
func NewRouter(ctx context.Context, h *Handler, cfg RouterConfig) (*gin.Engine, error) {
	tmpl, err := loadTemplates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	router := gin.New()
	router.SetHTMLTemplate(tmpl)
	router.Use(gin.Recovery(), RequestID(), RequestLogger(h.logger), h.metrics.Middleware())

	if len(cfg.CORSOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", requestIDHeader},
			ExposeHeaders:    []string{"Content-Length", requestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	if cfg.MaxBodyBytes > 0 {
		router.Use(BodyLimit(cfg.MaxBodyBytes))
	}

	// Static assets
	if cfg.ImagesDir != "" {
		router.Static("/images", cfg.ImagesDir)
	}
	if cfg.IconsDir != "" {
		router.Static("/icons", cfg.IconsDir)
		h.SetIconsDir(cfg.IconsDir)
	}
	if cfg.RerasDir != "" {
		router.Static("/reras", cfg.RerasDir)
	}
	if cfg.PublicDir != "" {
		router.Static("/static", cfg.PublicDir)
	}
	router.GET("/uploads/*filepath", h.ServeUpload)
	router.GET("/files/*filepath", h.ServeUpload)

	router.GET("/healthz", h.Healthz)
	router.GET("/metrics", gin.WrapH(h.metrics.Handler()))

	site := router.Group("/")
	site.Use(h.sessions.Middleware())
	{
		site.GET("/", h.Index)
		site.GET("/property/:id", h.PropertyDetail)
		site.GET("/developers", h.Developers)
		site.GET("/developer/:id", h.DeveloperDetail)
		site.GET("/search", h.Search)
		site.GET("/list-icons", h.ListIcons)
		site.GET("/about", h.Page("about.html"))
		site.GET("/contact", h.Page("contact.html"))
		site.GET("/developerD", h.Page("developer_details.html"))

		site.GET("/addDev", h.AddDeveloperForm)
		site.GET("/addTest", h.AddTestForm)

		site.POST("/add-user", h.AddUser)
		site.POST("/upload", h.UploadFile)
		site.GET("/logout", h.Logout)

		if cfg.VerifyRateLimit > 0 {
			limiter := NewRateLimiter(cfg.VerifyRateLimit, time.Minute)
			go limiter.Run(ctx)
			site.POST("/verify-code", RateLimit(limiter), h.VerifyCode)
		} else {
			site.POST("/verify-code", h.VerifyCode)
		}
	}

	admin := site.Group("/")
	admin.Use(h.RequireAdmin())
	{
		admin.GET("/admin", h.Dashboard)

		admin.GET("/add", h.AddPropertyForm)
		admin.POST("/add", h.CreateProperty)
		admin.GET("/add-developer", h.AddDeveloperForm)
		admin.POST("/add-developer", h.CreateDeveloper)
		admin.POST("/addTest", h.CreateTest)

		admin.GET("/admin/edit/property/:id", h.EditPropertyForm)
		admin.GET("/admin/edit/developer/:id", h.EditDeveloperForm)
		admin.GET("/admin/edit/test/:id", h.EditTestForm)

		admin.POST("/admin/update/property/:id", h.UpdateProperty)
		admin.POST("/admin/update/developer/:id", h.UpdateDeveloper)
		admin.POST("/admin/update/test/:id", h.UpdateTest)

		admin.POST("/admin/delete/:id", h.DeleteAny)
		admin.POST("/admin/remove/:kind/:id", h.Remove)
	}

	return router, nil
}
