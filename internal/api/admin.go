package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"propertyhub/server/config"
	"propertyhub/server/internal/catalog"
	"propertyhub/server/internal/database"
	"propertyhub/server/internal/models"
)

func (h *Handler) Dashboard(c *gin.Context) {
	var (
		properties []models.Property
		developers []models.Developer
		tasks      []models.Task
		users      []models.User
		tests      []models.Test
	)
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() (err error) {
		properties, err = h.store.ListProperties(ctx, catalog.Filter{})
		return err
	})
	g.Go(func() (err error) {
		developers, err = h.store.ListDevelopers(ctx)
		return err
	})
	g.Go(func() (err error) {
		tasks, err = h.store.ListTasks(ctx)
		return err
	})
	g.Go(func() (err error) {
		users, err = h.store.ListUsers(ctx)
		return err
	})
	g.Go(func() (err error) {
		tests, err = h.store.ListTests(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		h.fail(c, err, "Failed to load dashboard")
		return
	}

	h.render(c, http.StatusOK, "admin_dashboard.html", gin.H{
		"Properties": properties,
		"Developers": developers,
		"Tasks":      tasks,
		"Users":      users,
		"Tests":      tests,
	})
}

func (h *Handler) AddPropertyForm(c *gin.Context) {
	developers, err := h.store.ListDevelopers(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Error fetching developers")
		return
	}
	properties, err := h.store.ListProperties(c.Request.Context(), catalog.Filter{})
	if err != nil {
		h.fail(c, err, "Error fetching properties")
		return
	}

	h.render(c, http.StatusOK, "add_property.html", gin.H{
		"Property":     &models.Property{},
		"Developers":   developers,
		"Properties":   properties,
		"CategoryTags": config.GetCategoryTags(),
		"Slots":        propertySlots,
	})
}

func (h *Handler) CreateProperty(c *gin.Context) {
	form, err := multipartForm(c)
	if err != nil {
		h.fail(c, err, "Failed to read property form")
		return
	}

	developerID, err := models.ParseID(c.PostForm("developerId"))
	if err != nil {
		c.String(http.StatusNotFound, "Unknown Developer")
		return
	}
	if _, err := h.store.GetDeveloper(c.Request.Context(), developerID); err != nil {
		h.fail(c, err, "Unknown Developer")
		return
	}

	property := &models.Property{By: developerID.Hex()}
	applyPropertyForm(c, property)
	if err := property.Validate(); err != nil {
		h.fail(c, err, "Invalid property")
		return
	}

	uploaded, err := h.uploader.Collect(c.Request.Context(), form, propertyFileFields())
	if err != nil {
		h.fail(c, err, "Failed to store property files")
		return
	}
	applyPropertyFiles(c, property, uploaded)

	if err := h.store.CreateProperty(c.Request.Context(), property); err != nil {
		h.uploader.DiscardAll(c.Request.Context(), uploaded)
		h.fail(c, err, "Failed to create property")
		return
	}

	h.logger.WithField("property_id", property.ID.Hex()).Info("Property created")
	c.Redirect(http.StatusFound, "/")
}

func (h *Handler) AddDeveloperForm(c *gin.Context) {
	h.render(c, http.StatusOK, "add_developer.html", gin.H{"Developer": &models.Developer{}})
}

func (h *Handler) CreateDeveloper(c *gin.Context) {
	form, err := multipartForm(c)
	if err != nil {
		h.fail(c, err, "Failed to read developer form")
		return
	}

	developer := &models.Developer{}
	applyDeveloperForm(c, developer)
	if err := developer.Validate(); err != nil {
		h.fail(c, err, "Invalid developer")
		return
	}

	developer.Logo, err = h.uploader.Optional(c.Request.Context(), form, logoField, "")
	if err != nil {
		h.fail(c, err, "Failed to store developer logo")
		return
	}

	if err := h.store.CreateDeveloper(c.Request.Context(), developer); err != nil {
		h.uploader.Discard(c.Request.Context(), developer.Logo)
		h.fail(c, err, "Failed to create developer")
		return
	}

	h.logger.WithField("developer_id", developer.ID.Hex()).Info("Developer created")
	c.Redirect(http.StatusFound, "/")
}

func (h *Handler) AddTestForm(c *gin.Context) {
	h.render(c, http.StatusOK, "add_test.html", gin.H{"Test": &models.Test{}})
}

func (h *Handler) CreateTest(c *gin.Context) {
	form, err := multipartForm(c)
	if err != nil {
		h.fail(c, err, "Failed to read test form")
		return
	}

	test := &models.Test{}
	applyTestForm(c, test)

	test.Logo, err = h.uploader.Optional(c.Request.Context(), form, logoField, "")
	if err != nil {
		h.fail(c, err, "Failed to store test logo")
		return
	}

	if err := h.store.CreateTest(c.Request.Context(), test); err != nil {
		h.uploader.Discard(c.Request.Context(), test.Logo)
		h.fail(c, err, "Failed to create test")
		return
	}
	c.Redirect(http.StatusFound, "/admin")
}

func (h *Handler) EditPropertyForm(c *gin.Context) {
	id, err := models.ParseID(c.Param("id"))
	if err != nil {
		c.String(http.StatusNotFound, "Property not found")
		return
	}

	property, err := h.store.GetProperty(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "Property not found")
		return
	}
	developers, err := h.store.ListDevelopers(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Error fetching developers")
		return
	}

	h.render(c, http.StatusOK, "edit_property.html", gin.H{
		"Property":     property,
		"Developers":   developers,
		"CategoryTags": config.GetCategoryTags(),
		"Slots":        propertySlots,
	})
}

func (h *Handler) EditDeveloperForm(c *gin.Context) {
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
	h.render(c, http.StatusOK, "edit_developer.html", gin.H{"Developer": developer})
}

func (h *Handler) EditTestForm(c *gin.Context) {
	id, err := models.ParseID(c.Param("id"))
	if err != nil {
		c.String(http.StatusNotFound, "Test not found")
		return
	}

	test, err := h.store.GetTest(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "Test not found")
		return
	}
	h.render(c, http.StatusOK, "edit_test.html", gin.H{"Test": test})
}

// UpdateProperty merges the submitted fields into the stored property. File slots
// without a new upload keep their stored path.
func (h *Handler) UpdateProperty(c *gin.Context) {
	id, err := models.ParseID(c.Param("id"))
	if err != nil {
		c.String(http.StatusNotFound, "Property not found")
		return
	}
	form, err := multipartForm(c)
	if err != nil {
		h.fail(c, err, "Failed to read property form")
		return
	}

	property, err := h.store.GetProperty(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "Property not found")
		return
	}

	applyPropertyForm(c, property)
	if err := property.Validate(); err != nil {
		h.fail(c, err, "Invalid property")
		return
	}

	uploaded, err := h.uploader.Collect(c.Request.Context(), form, propertyFileFields())
	if err != nil {
		h.fail(c, err, "Failed to store property files")
		return
	}
	applyPropertyFiles(c, property, uploaded)

	if err := h.store.UpdateProperty(c.Request.Context(), property); err != nil {
		h.uploader.DiscardAll(c.Request.Context(), uploaded)
		h.fail(c, err, "Property not found")
		return
	}
	c.Redirect(http.StatusFound, "/admin")
}

func (h *Handler) UpdateDeveloper(c *gin.Context) {
	id, err := models.ParseID(c.Param("id"))
	if err != nil {
		c.String(http.StatusNotFound, "Developer not found")
		return
	}
	form, err := multipartForm(c)
	if err != nil {
		h.fail(c, err, "Failed to read developer form")
		return
	}

	developer, err := h.store.GetDeveloper(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "Developer not found")
		return
	}

	applyDeveloperForm(c, developer)
	if err := developer.Validate(); err != nil {
		h.fail(c, err, "Invalid developer")
		return
	}

	previous := developer.Logo
	developer.Logo, err = h.uploader.Optional(c.Request.Context(), form, logoField, previous)
	if err != nil {
		h.fail(c, err, "Failed to store developer logo")
		return
	}

	if err := h.store.UpdateDeveloper(c.Request.Context(), developer); err != nil {
		if developer.Logo != previous {
			h.uploader.Discard(c.Request.Context(), developer.Logo)
		}
		h.fail(c, err, "Developer not found")
		return
	}
	c.Redirect(http.StatusFound, "/admin")
}

func (h *Handler) UpdateTest(c *gin.Context) {
	id, err := models.ParseID(c.Param("id"))
	if err != nil {
		c.String(http.StatusNotFound, "Test not found")
		return
	}
	form, err := multipartForm(c)
	if err != nil {
		h.fail(c, err, "Failed to read test form")
		return
	}

	test, err := h.store.GetTest(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "Test not found")
		return
	}

	applyTestForm(c, test)
	previous := test.Logo
	test.Logo, err = h.uploader.Optional(c.Request.Context(), form, logoField, previous)
	if err != nil {
		h.fail(c, err, "Failed to store test logo")
		return
	}

	if err := h.store.UpdateTest(c.Request.Context(), test); err != nil {
		if test.Logo != previous {
			h.uploader.Discard(c.Request.Context(), test.Logo)
		}
		h.fail(c, err, "Test not found")
		return
	}
	c.Redirect(http.StatusFound, "/admin")
}

// DeleteAny removes the id from every collection that might hold it and always
// returns to the dashboard, whether or not anything matched. A malformed id
// matches nothing.
func (h *Handler) DeleteAny(c *gin.Context) {
	id, err := models.ParseID(c.Param("id"))
	if err != nil {
		h.logger.WithField("id", c.Param("id")).Warn("Delete of malformed id ignored")
		c.Redirect(http.StatusFound, "/admin")
		return
	}

	kinds, err := database.DeleteAny(c.Request.Context(), h.store, id)
	if err != nil {
		h.fail(c, err, "Failed to delete record")
		return
	}

	h.logger.WithField("id", id.Hex()).WithField("kinds", kinds).Info("Delete processed")
	c.Redirect(http.StatusFound, "/admin")
}

// Remove deletes from exactly the named collection.
func (h *Handler) Remove(c *gin.Context) {
	kind, err := database.ParseKind(c.Param("kind"))
	if err != nil {
		c.String(http.StatusNotFound, "Unknown record kind")
		return
	}
	id, err := models.ParseID(c.Param("id"))
	if err != nil {
		c.String(http.StatusBadRequest, "Invalid id")
		return
	}

	deleted, err := h.store.Delete(c.Request.Context(), kind, id)
	if err != nil {
		h.fail(c, err, "Failed to delete record")
		return
	}
	if !deleted {
		h.fail(c, database.ErrNotFound, "Record not found")
		return
	}
	c.Redirect(http.StatusFound, "/admin")
}
