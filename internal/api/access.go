package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"propertyhub/server/internal/auth"
	"propertyhub/server/internal/models"
	"propertyhub/server/internal/upload"
)

func (h *Handler) VerifyCode(c *gin.Context) {
	granted, err := h.gate.Grant(c.Request.Context(), auth.FromContext(c), c.PostForm("code"))
	if err != nil {
		h.fail(c, err, "Failed to verify code")
		return
	}
	h.metrics.CodeAttempt(granted)

	if !granted {
		h.logger.WithField("client_ip", c.ClientIP()).Warn("Rejected admin code")
		c.String(http.StatusUnauthorized, "Unauthorized")
		return
	}
	c.Redirect(http.StatusFound, "/admin")
}

func (h *Handler) Logout(c *gin.Context) {
	if err := h.sessions.Destroy(c); err != nil {
		h.logger.WithError(err).Error("Failed to destroy session")
	}
	c.Redirect(http.StatusFound, "/")
}

// AddUser records a visitor enquiry and forwards it to the lead notifier, if any.
func (h *Handler) AddUser(c *gin.Context) {
	user := &models.User{
		Name:   c.PostForm("name"),
		Email:  c.PostForm("email"),
		Number: c.PostForm("number"),
	}
	if err := user.Validate(); err != nil {
		c.String(http.StatusBadRequest, "All fields are required")
		return
	}

	if err := h.store.CreateUser(c.Request.Context(), user); err != nil {
		h.logger.WithError(err).Error("Error saving user")
		c.String(http.StatusInternalServerError, "Internal Server Error")
		return
	}

	if h.notifier != nil {
		lead := *user
		go h.notifyLead(context.WithoutCancel(c.Request.Context()), &lead)
	}
	c.Redirect(http.StatusFound, "/")
}

func (h *Handler) notifyLead(ctx context.Context, user *models.User) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	if err := h.notifier.NotifyLead(ctx, user); err != nil {
		h.logger.WithError(err).Error("Failed to send lead notification")
	}
}

// UploadFile stores a single "file" field and echoes where it went.
func (h *Handler) UploadFile(c *gin.Context) {
	form, err := multipartForm(c)
	if err != nil {
		h.fail(c, err, "Failed to read upload")
		return
	}
	if form == nil || len(form.File["file"]) == 0 {
		c.String(http.StatusBadRequest, "No file uploaded")
		return
	}

	p, err := h.uploader.Store(c.Request.Context(), form.File["file"][0], "file")
	if err != nil {
		h.fail(c, err, "Failed to store upload")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "File uploaded successfully",
		"path":    p,
		"url":     upload.AbsoluteURL(requestScheme(c), c.Request.Host, p),
	})
}
