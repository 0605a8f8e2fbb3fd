package api

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"

	"github.com/resumia/extracto-converter/internal/engine"
	"github.com/resumia/extracto-converter/internal/extractor"
	"github.com/resumia/extracto-converter/internal/models"
	"github.com/resumia/extracto-converter/internal/render"
)

// Version reported by the health endpoint.
const Version = "1.0.0"

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Handler holds the HTTP handlers for the API.
type Handler struct {
	logger *log.Logger
}

func New(logger *log.Logger) *Handler {
	return &Handler{logger: logger}
}

// Register sets up the API routes on the fiber app.
func (h *Handler) Register(app *fiber.App) {
	app.Get("/api/health", h.Health)
	app.Get("/api/banks", h.Banks)
	app.Post("/api/process", h.Process)
}

func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": Version,
		"engine":  "fiber",
	})
}

// Banks lists the registered bank profiles.
func (h *Handler) Banks(c *fiber.Ctx) error {
	type bank struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	banks := make([]bank, 0)
	for _, p := range engine.Banks() {
		banks = append(banks, bank{ID: string(p.Bank), Name: p.Name})
	}
	return c.JSON(banks)
}

// Process converts an uploaded statement PDF into the rendered workbook.
// The response is binary: either a complete reconciled report or a JSON
// error, never a partial file.
func (h *Handler) Process(c *fiber.Ctx) error {
	bankParam := c.Query("bank", c.FormValue("bank"))

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return h.fail(c, fiber.StatusBadRequest, "no file uploaded; use form field 'file'", err)
	}
	if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".pdf") {
		return h.fail(c, fiber.StatusBadRequest, "only PDF files are supported", nil)
	}

	tmp, err := os.CreateTemp("", "extracto-*.pdf")
	if err != nil {
		return h.fail(c, fiber.StatusInternalServerError, "failed to store upload", err)
	}
	defer os.Remove(tmp.Name())
	tmp.Close()
	if err := c.SaveFile(fileHeader, tmp.Name()); err != nil {
		return h.fail(c, fiber.StatusInternalServerError, "failed to store upload", err)
	}

	pages, err := extractor.ExtractText(tmp.Name())
	if err != nil {
		return h.fail(c, fiber.StatusUnprocessableEntity, fmt.Sprintf("extraction failed: %v", err), err)
	}

	var bankType models.BankType
	if bankParam != "" {
		found := false
		for _, p := range engine.Banks() {
			if strings.EqualFold(bankParam, string(p.Bank)) || strings.EqualFold(bankParam, p.Name) {
				bankType = p.Bank
				found = true
				break
			}
		}
		if !found {
			return h.fail(c, fiber.StatusBadRequest, fmt.Sprintf("unsupported bank: %q", bankParam), nil)
		}
	} else {
		detected, err := engine.AutoDetect(pages)
		if err != nil {
			return h.fail(c, fiber.StatusUnprocessableEntity, err.Error(), err)
		}
		bankType = detected
	}

	eng, err := engine.New(bankType, h.logger)
	if err != nil {
		return h.fail(c, fiber.StatusInternalServerError, err.Error(), err)
	}

	st, err := eng.Parse(pages)
	if err != nil {
		return h.fail(c, fiber.StatusUnprocessableEntity, err.Error(), err)
	}

	renderer := &render.Renderer{}
	data, err := renderer.Render(st)
	if err != nil {
		return h.fail(c, fiber.StatusInternalServerError, fmt.Sprintf("report generation failed: %v", err), err)
	}

	filename := strings.ReplaceAll(eng.BankName(), " ", "_") + "_procesado.xlsx"
	h.logger.Info("statement processed",
		"bank", bankType, "file", fileHeader.Filename,
		"accounts", len(st.Accounts), "bytes", len(data),
	)

	c.Set(fiber.HeaderContentType, xlsxMIME)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s", filename))
	return c.Send(data)
}

func (h *Handler) fail(c *fiber.Ctx, status int, msg string, err error) error {
	if err != nil {
		h.logger.Warn("request failed", "status", status, "msg", msg, "err", err)
	} else {
		h.logger.Warn("request failed", "status", status, "msg", msg)
	}
	return c.Status(status).JSON(fiber.Map{
		"status": "error",
		"error":  msg,
	})
}
