package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/nasreldeenmohamed/sera-pro-server/internal/adapter/repository"
	"github.com/nasreldeenmohamed/sera-pro-server/internal/domain"
	"github.com/nasreldeenmohamed/sera-pro-server/internal/model"
	"github.com/nasreldeenmohamed/sera-pro-server/internal/usecase"
	"github.com/nasreldeenmohamed/sera-pro-server/pkg/ai"
	"github.com/nasreldeenmohamed/sera-pro-server/pkg/config"
	"github.com/nasreldeenmohamed/sera-pro-server/pkg/kashier"
	"github.com/nasreldeenmohamed/sera-pro-server/pkg/linkedin"
)

// CVRepo is the slice of the CVs repository the handlers use.
type CVRepo interface {
	Save(ctx context.Context, cv *domain.CV) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.CV, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.CV, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// PaymentFlows is the payment usecase surface.
type PaymentFlows interface {
	CreateCheckout(ctx context.Context, userID uuid.UUID, planID string) (*usecase.CheckoutSession, error)
	Reconcile(ctx context.Context, orderID, providerStatus, providerTxID string) (status string, activated bool, err error)
}

// Enhancer is the AI surface.
type Enhancer interface {
	Enabled() bool
	Enhance(ctx context.Context, section, content, lang string, extra map[string]interface{}) (enhanced, source string, err error)
	ExtractDocument(ctx context.Context, text, lang string) (map[string]interface{}, error)
}

// Exporter renders a stored CV to PDF bytes.
type Exporter interface {
	Export(ctx context.Context, cv *domain.CV) ([]byte, error)
}

type Handler struct {
	cvs      CVRepo
	payments PaymentFlows
	enhancer Enhancer
	exporter Exporter
	cfg      config.Config
	dbPing   func(ctx context.Context) error
}

func NewHandler(cvs CVRepo, payments PaymentFlows, enhancer Enhancer, exporter Exporter, cfg config.Config, dbPing func(ctx context.Context) error) *Handler {
	return &Handler{cvs: cvs, payments: payments, enhancer: enhancer, exporter: exporter, cfg: cfg, dbPing: dbPing}
}

// Register wires all routes onto the app.
func (h *Handler) Register(app *fiber.App) {
	app.Get("/health", h.Health)

	api := app.Group("/api")
	api.Post("/cvs", h.CreateCV)
	api.Get("/cvs", h.ListCVs)
	api.Get("/cvs/:id", h.GetCV)
	api.Put("/cvs/:id", h.UpdateCV)
	api.Delete("/cvs/:id", h.DeleteCV)
	api.Post("/cvs/:id/export", h.ExportCV)

	api.Post("/ai/enhance", h.Enhance)

	api.Post("/import/linkedin", h.ImportLinkedIn)
	api.Post("/import/file", h.ImportFile)

	api.Get("/plans", h.ListPlans)
	api.Post("/payments/checkout", h.CreateCheckout)
	api.Post("/kashier/webhook", h.KashierWebhook)
	api.Get("/kashier/process-success", h.ProcessSuccess)
}

func (h *Handler) Health(c *fiber.Ctx) error {
	db := "down"
	if h.dbPing != nil && h.dbPing(c.Context()) == nil {
		db = "up"
	}
	return c.JSON(fiber.Map{"status": "ok", "db": db})
}

// --- CV store ---

type cvReq struct {
	UserID   string                 `json:"userId"`
	Title    string                 `json:"title,omitempty"`
	Document map[string]interface{} `json:"document"`
}

func (h *Handler) CreateCV(c *fiber.Ctx) error {
	if h.cvs == nil {
		return dbUnavailable(c)
	}
	var req cvReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	uid, err := uuid.Parse(req.UserID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid userId"})
	}
	if err := model.ValidateMap(req.Document); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	now := time.Now()
	cv := &domain.CV{
		ID:        uuid.New(),
		UserID:    uid,
		Title:     cvTitle(req.Title, req.Document),
		Lang:      docLang(req.Document),
		Document:  req.Document,
		Tier:      domain.TierFree,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.cvs.Save(c.Context(), cv); err != nil {
		slog.Error("failed to save cv", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to save cv"})
	}
	return c.Status(fiber.StatusCreated).JSON(cv)
}

func (h *Handler) GetCV(c *fiber.Ctx) error {
	if h.cvs == nil {
		return dbUnavailable(c)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid id"})
	}
	cv, err := h.cvs.GetByID(c.Context(), id)
	if err != nil {
		return notFoundOr500(c, err, "cv")
	}
	return c.JSON(cv)
}

func (h *Handler) ListCVs(c *fiber.Ctx) error {
	if h.cvs == nil {
		return dbUnavailable(c)
	}
	uid, err := uuid.Parse(c.Query("userId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid userId"})
	}
	cvs, err := h.cvs.ListByUser(c.Context(), uid)
	if err != nil {
		slog.Error("failed to list cvs", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list cvs"})
	}
	if cvs == nil {
		cvs = []*domain.CV{}
	}
	return c.JSON(fiber.Map{"cvs": cvs})
}

func (h *Handler) UpdateCV(c *fiber.Ctx) error {
	if h.cvs == nil {
		return dbUnavailable(c)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid id"})
	}
	var req cvReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	if err := model.ValidateMap(req.Document); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	cv, err := h.cvs.GetByID(c.Context(), id)
	if err != nil {
		return notFoundOr500(c, err, "cv")
	}
	cv.Document = req.Document
	cv.Title = cvTitle(req.Title, req.Document)
	cv.Lang = docLang(req.Document)
	cv.UpdatedAt = time.Now()
	if err := h.cvs.Save(c.Context(), cv); err != nil {
		slog.Error("failed to update cv", "error", err, "id", id)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update cv"})
	}
	return c.JSON(cv)
}

func (h *Handler) DeleteCV(c *fiber.Ctx) error {
	if h.cvs == nil {
		return dbUnavailable(c)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid id"})
	}
	if err := h.cvs.Delete(c.Context(), id); err != nil {
		return notFoundOr500(c, err, "cv")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) ExportCV(c *fiber.Ctx) error {
	if h.cvs == nil {
		return dbUnavailable(c)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid id"})
	}
	cv, err := h.cvs.GetByID(c.Context(), id)
	if err != nil {
		return notFoundOr500(c, err, "cv")
	}
	pdf, err := h.exporter.Export(c.Context(), cv)
	if err != nil {
		slog.Error("cv export failed", "error", err, "id", id)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "export failed"})
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="cv.pdf"`)
	return c.Send(pdf)
}

// --- AI enhancement ---

type enhanceReq struct {
	Section string                 `json:"section"`
	Content string                 `json:"content"`
	Lang    string                 `json:"lang"`
	Context map[string]interface{} `json:"context,omitempty"`
}

func (h *Handler) Enhance(c *fiber.Ctx) error {
	var req enhanceReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	if req.Lang != "ar" {
		req.Lang = "en"
	}
	enhanced, source, err := h.enhancer.Enhance(c.Context(), req.Section, req.Content, req.Lang, req.Context)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"enhanced": enhanced, "source": source})
}

// --- Import ---

func (h *Handler) ImportLinkedIn(c *fiber.Ctx) error {
	var req struct {
		URL string `json:"url"`
	}
	if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.URL) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "url is required"})
	}
	if err := linkedin.ValidateProfileURL(req.URL); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "not a valid LinkedIn profile URL"})
	}
	// Scraping LinkedIn requires authenticated browser sessions we don't
	// have server-side; steer the user to the upload path instead.
	return c.Status(fiber.StatusNotImplemented).JSON(fiber.Map{
		"error": "LinkedIn profile scraping is not available. Export your LinkedIn data as JSON, or upload your CV as a PDF, via /api/import/file.",
	})
}

func (h *Handler) ImportFile(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file is required"})
	}
	lang := c.FormValue("lang")
	if lang != "ar" {
		lang = "en"
	}

	f, err := fh.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unreadable file"})
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(fh.Filename)) {
	case ".json":
		var export linkedin.Export
		if err := json.NewDecoder(f).Decode(&export); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file is not valid JSON"})
		}
		doc, err := export.ToDocument(lang)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		m, err := model.ToMap(doc)
		if err != nil {
			slog.Error("failed to convert imported document", "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "import failed"})
		}
		if err := model.ValidateMap(m); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(fiber.Map{"document": m})

	case ".pdf":
		buf := new(bytes.Buffer)
		if _, err := buf.ReadFrom(f); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unreadable file"})
		}
		text, err := linkedin.ExtractPDFText(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "could not extract text from PDF"})
		}
		if !h.enhancer.Enabled() {
			// best effort without a model: hand the raw text back for manual entry
			return c.JSON(fiber.Map{"text": text, "note": "AI extraction unavailable; fill the CV manually from this text"})
		}
		doc, err := h.enhancer.ExtractDocument(c.Context(), text, lang)
		if err != nil {
			slog.Warn("ai extraction failed, returning raw text", "error", err)
			return c.JSON(fiber.Map{"text": text, "note": "AI extraction failed; fill the CV manually from this text"})
		}
		if err := model.ValidateMap(doc); err != nil {
			return c.JSON(fiber.Map{"text": text, "note": "AI extraction produced an incomplete CV; fill it manually from this text"})
		}
		return c.JSON(fiber.Map{"document": doc})

	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unsupported file type; upload .json or .pdf"})
	}
}

// --- Payments ---

func (h *Handler) ListPlans(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"plans": domain.Plans()})
}

func (h *Handler) CreateCheckout(c *fiber.Ctx) error {
	if h.payments == nil {
		return dbUnavailable(c)
	}
	var req struct {
		UserID string `json:"userId"`
		PlanID string `json:"planId"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	uid, err := uuid.Parse(req.UserID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid userId"})
	}
	session, err := h.payments.CreateCheckout(c.Context(), uid, req.PlanID)
	if err != nil {
		if errors.Is(err, usecase.ErrUnknownPlan) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown plan"})
		}
		slog.Error("checkout creation failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "checkout failed"})
	}
	return c.Status(fiber.StatusCreated).JSON(session)
}

func (h *Handler) KashierWebhook(c *fiber.Ctx) error {
	if h.payments == nil {
		return dbUnavailable(c)
	}
	var body struct {
		Event string                 `json:"event"`
		Data  map[string]interface{} `json:"data"`
	}
	// UseNumber keeps amounts in their wire form; the signature is computed
	// over the exact text Kashier sent.
	dec := json.NewDecoder(bytes.NewReader(c.Body()))
	dec.UseNumber()
	if err := dec.Decode(&body); err != nil || body.Data == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}

	flat := kashier.FlattenWebhookData(body.Data)
	secret := h.cfg.SecretForMode(flat["mode"])
	if !kashier.VerifySignature(flat, secret) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid signature"})
	}

	orderID := flat["merchantOrderId"]
	if orderID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing merchantOrderId"})
	}

	status, activated, err := h.payments.Reconcile(c.Context(), orderID, flat["status"], flat["transactionId"])
	if err != nil {
		if errors.Is(err, usecase.ErrUnknownOrder) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "unknown order"})
		}
		slog.Error("webhook reconciliation failed", "error", err, "order_id", orderID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "reconciliation failed"})
	}
	return c.JSON(fiber.Map{"status": status, "activated": activated})
}

func (h *Handler) ProcessSuccess(c *fiber.Ctx) error {
	if h.payments == nil {
		return dbUnavailable(c)
	}
	params := c.Queries()
	secret := h.cfg.SecretForMode(params["mode"])
	if !kashier.VerifySignature(params, secret) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid signature"})
	}
	if !strings.EqualFold(params["paymentStatus"], "SUCCESS") {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "payment not successful"})
	}
	orderID := params["merchantOrderId"]
	if orderID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing merchantOrderId"})
	}

	status, activated, err := h.payments.Reconcile(c.Context(), orderID, params["paymentStatus"], params["transactionId"])
	if err != nil {
		if errors.Is(err, usecase.ErrUnknownOrder) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "unknown order"})
		}
		slog.Error("process-success reconciliation failed", "error", err, "order_id", orderID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "reconciliation failed"})
	}
	return c.JSON(fiber.Map{"orderId": orderID, "status": status, "activated": activated})
}

// --- helpers ---

func dbUnavailable(c *fiber.Ctx) error {
	return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "database unavailable"})
}

func notFoundOr500(c *fiber.Ctx, err error, what string) error {
	if isNotFound(err) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": what + " not found"})
	}
	slog.Error("repository error", "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
}

func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}

func cvTitle(title string, doc map[string]interface{}) string {
	if title != "" {
		return title
	}
	if p, ok := doc["personal"].(map[string]interface{}); ok {
		if name, ok := p["name"].(string); ok && name != "" {
			return name
		}
	}
	return "CV"
}

func docLang(doc map[string]interface{}) string {
	if l, ok := doc["lang"].(string); ok && l == "ar" {
		return "ar"
	}
	return "en"
}

// compile-time guard: the real AI client satisfies the handler interface.
var _ Enhancer = (*ai.Client)(nil)
