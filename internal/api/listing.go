package api

import (
	"errors"
	"mime"
	"net/http"
	"os"
	"path"
	"strconv"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"propertyhub/server/config"
	"propertyhub/server/internal/catalog"
	"propertyhub/server/internal/models"
	"propertyhub/server/internal/upload"
)

// Index renders the listing page. The filtered result is always bucketed.
func (h *Handler) Index(c *gin.Context) {
	filter := catalog.ParseFilter(c.Query("categories"), c.Query("search"))
	// Bucket keys ("trending", "ultra", ...) are accepted as aliases of their tags
	for i, key := range filter.Categories {
		if category := config.GetCategoryByKey(key); category != nil {
			filter.Categories[i] = category.Tag
		}
	}

	var (
		properties []models.Property
		developers []models.Developer
		tests      []models.Test
	)
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() (err error) {
		properties, err = h.store.ListProperties(ctx, filter)
		return err
	})
	g.Go(func() (err error) {
		developers, err = h.store.ListDevelopers(ctx)
		return err
	})
	g.Go(func() (err error) {
		tests, err = h.store.ListTests(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		h.fail(c, err, "Failed to load listing")
		return
	}

	h.render(c, http.StatusOK, "index.html", gin.H{
		"Properties":         catalog.Bucket(properties),
		"Developers":         developers,
		"Tests":              tests,
		"SearchQuery":        filter.Search,
		"SelectedCategories": filter.Categories,
		"Categories":         config.ListingCategories,
	})
}

func (h *Handler) PropertyDetail(c *gin.Context) {
	id, err := models.ParseID(c.Param("id"))
	if err != nil {
		c.String(http.StatusBadRequest, "Invalid property ID")
		return
	}

	property, err := h.store.GetProperty(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "Property not found")
		return
	}

	h.render(c, http.StatusOK, "property.html", gin.H{
		"Property":   property,
		"Categories": catalog.Bucket([]models.Property{*property}),
	})
}

func (h *Handler) Developers(c *gin.Context) {
	developers, err := h.store.ListDevelopers(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to list developers")
		return
	}
	h.render(c, http.StatusOK, "developers.html", gin.H{"Developers": developers})
}

func (h *Handler) DeveloperDetail(c *gin.Context) {
	id, err := models.ParseID(c.Param("id"))
	if err != nil {
		c.String(http.StatusNotFound, "Developer not found")
		return
	}

	developer, err := h.store.GetDeveloper(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "Developer not found")
		return
	}

	tasks, err := h.store.ListTasksByDeveloper(c.Request.Context(), developer.ID.Hex())
	if err != nil {
		h.fail(c, err, "Failed to load developer details")
		return
	}

	h.render(c, http.StatusOK, "developer.html", gin.H{
		"Developer": developer,
		"Tasks":     tasks,
	})
}

// Search answers property name lookups as JSON.
func (h *Handler) Search(c *gin.Context) {
	properties, err := h.store.ListProperties(c.Request.Context(), catalog.Filter{})
	if err != nil {
		h.logger.WithError(err).Error("Failed to search properties")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search properties"})
		return
	}
	c.JSON(http.StatusOK, catalog.SearchByName(properties, c.Query("query")))
}

func (h *Handler) ListIcons(c *gin.Context) {
	entries, err := os.ReadDir(h.iconsDir)
	if err != nil {
		h.logger.WithError(err).Error("Failed to read icons directory")
		c.String(http.StatusInternalServerError, "Error reading directory.")
		return
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	c.JSON(http.StatusOK, names)
}

// ServeUpload streams a stored upload from whichever backend holds it.
func (h *Handler) ServeUpload(c *gin.Context) {
	key := path.Base(c.Param("filepath"))

	rc, size, err := h.uploader.Storage().Open(c.Request.Context(), key)
	if errors.Is(err, upload.ErrNotExist) || errors.Is(err, upload.ErrInvalidKey) {
		c.Status(http.StatusNotFound)
		return
	}
	if err != nil {
		h.fail(c, err, "Failed to open upload")
		return
	}
	defer rc.Close()

	contentType := mime.TypeByExtension(path.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.DataFromReader(http.StatusOK, size, contentType, rc, map[string]string{
		"Cache-Control": "public, max-age=" + strconv.Itoa(86400),
	})
}

// Page renders a template without data.
func (h *Handler) Page(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h.render(c, http.StatusOK, name, nil)
	}
}
