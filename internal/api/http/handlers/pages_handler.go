package handlers

import (
	"path/filepath"

	"github.com/gofiber/fiber/v2"
)

// PagesHandler serves the static admin pages.
type PagesHandler struct {
	root string
}

// NewPagesHandler serves files below root.
func NewPagesHandler(root string) *PagesHandler {
	return &PagesHandler{root: root}
}

func (h *PagesHandler) Login(c *fiber.Ctx) error {
	return h.send(c, "login.html")
}

func (h *PagesHandler) VerifyOTP(c *fiber.Ctx) error {
	return h.send(c, "verify-otp.html")
}

func (h *PagesHandler) Inquiries(c *fiber.Ctx) error {
	return h.send(c, "inquiries.html")
}

func (h *PagesHandler) send(c *fiber.Ctx, name string) error {
	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.SendFile(filepath.Join(h.root, "admin", name))
}
