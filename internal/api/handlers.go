package api

import (
	"bufio"
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/khabarhub/newsdesk/internal/cache"
	"github.com/khabarhub/newsdesk/internal/config"
	"github.com/khabarhub/newsdesk/internal/logger"
	"github.com/khabarhub/newsdesk/internal/middleware"
	"github.com/khabarhub/newsdesk/internal/models"
	"github.com/khabarhub/newsdesk/internal/newsstore"
	"github.com/khabarhub/newsdesk/internal/stream"
)

type Handlers struct {
	config    *config.Config
	cache     cache.Cache
	store     *newsstore.Store
	query     *newsstore.Query
	producer  *stream.Producer
	validator *middleware.Validator
}

func NewHandlers(cfg *config.Config, c cache.Cache, repo newsstore.Repository, images newsstore.ImageResolver) *Handlers {
	return &Handlers{
		config:    cfg,
		cache:     c,
		store:     newsstore.NewStore(repo, images),
		query:     newsstore.NewQuery(repo),
		producer:  stream.NewProducer(repo, cfg.StreamBatchSize),
		validator: middleware.NewValidator(),
	}
}

// HealthCheck handles the /health endpoint
func (h *Handlers) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": "1.0.0",
		"time":    time.Now().Format(time.RFC3339),
	})
}

// GetAllNews handles GET /news/getallnews
func (h *Handlers) GetAllNews(c *fiber.Ctx) error {
	if data, ok, _ := h.cache.Get(c.Context(), "all"); ok {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Send(data)
	}

	sections, err := h.query.ListAll(c.Context())
	if err != nil {
		return err
	}

	body, err := json.Marshal(fiber.Map{
		"success": true,
		"news":    sections,
	})
	if err != nil {
		return err
	}
	if err := h.cache.Set(c.Context(), "all", body, h.config.CacheTTL); err != nil {
		logger.Get().Warn().Err(err).Msg("Failed to cache all-news projection")
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(body)
}

// GetNewsBySection handles GET /news/getnewsbysection/:section with
// optional page/limit query params for incremental consumers.
func (h *Handlers) GetNewsBySection(c *fiber.Ctx) error {
	section := c.Params("section")

	if c.Query("page") != "" {
		page, _ := strconv.Atoi(c.Query("page", "1"))
		if page < 1 {
			page = 1
		}
		limit, _ := strconv.Atoi(c.Query("limit", strconv.Itoa(h.config.PageLimit)))
		switch {
		case limit > 100:
			limit = 100
		case limit <= 0:
			limit = h.config.PageLimit
		}

		items, err := h.query.Page(c.Context(), section, page, limit)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"success": true,
			"page":    page,
			"limit":   limit,
			"news":    items,
		})
	}

	cacheKey := "section:" + section
	if data, ok, _ := h.cache.Get(c.Context(), cacheKey); ok {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Send(data)
	}

	items, err := h.query.ListBySection(c.Context(), section)
	if err != nil {
		return err
	}

	body, err := json.Marshal(fiber.Map{
		"success": true,
		"news":    items,
	})
	if err != nil {
		return err
	}
	if err := h.cache.Set(c.Context(), cacheKey, body, h.config.CacheTTL); err != nil {
		logger.Get().Warn().Err(err).Str("section", section).Msg("Failed to cache section projection")
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(body)
}

// GetNewsBySlug handles GET /news/getnewsbyslug/:section/:slug
func (h *Handlers) GetNewsBySlug(c *fiber.Ctx) error {
	article, err := h.query.GetBySlug(c.Context(), c.Params("section"), c.Params("slug"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"news":    article,
	})
}

// addNewsRequest is the POST /news/addnews body.
type addNewsRequest struct {
	Title          string   `json:"title" validate:"required"`
	Slug           string   `json:"slug" validate:"required"`
	Category       string   `json:"category" validate:"required"`
	SubCategory    string   `json:"subCategory"`
	Summary        string   `json:"summary"`
	Content        string   `json:"content" validate:"required"`
	Image          string   `json:"image"`
	Tags           []string `json:"tags"`
	Section        string   `json:"section" validate:"required"`
	Author         string   `json:"author"`
	TargetLink     string   `json:"targetLink"`
	NominationLink string   `json:"nominationLink"`
}

// AddNews handles POST /news/addnews
func (h *Handlers) AddNews(c *fiber.Ctx) error {
	var req addNewsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"msg":     "invalid request body: " + err.Error(),
		})
	}
	if err := h.validator.Validate(req); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"success": false,
			"msg":     "validation failed",
			"fields":  middleware.FieldErrors(err),
		})
	}

	article := models.Article{
		Title:          req.Title,
		Slug:           req.Slug,
		Category:       req.Category,
		SubCategory:    req.SubCategory,
		Summary:        req.Summary,
		Content:        req.Content,
		Image:          req.Image,
		Tags:           req.Tags,
		Author:         req.Author,
		TargetLink:     req.TargetLink,
		NominationLink: req.NominationLink,
	}

	stored, err := h.store.Insert(c.Context(), req.Section, article)
	if err != nil {
		return err
	}
	h.invalidate(c.Context())

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"news":    stored,
	})
}

// UpdateNews handles PUT /news/updatenews/:section/:slug
func (h *Handlers) UpdateNews(c *fiber.Ctx) error {
	var patch models.ArticlePatch
	if err := c.BodyParser(&patch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"msg":     "invalid request body: " + err.Error(),
		})
	}

	updated, err := h.store.Update(c.Context(), c.Params("section"), c.Params("slug"), patch)
	if err != nil {
		return err
	}
	h.invalidate(c.Context())

	return c.JSON(fiber.Map{
		"success": true,
		"news":    updated,
	})
}

// DeleteNews handles DELETE /news/deletenews/:section/:slug
func (h *Handlers) DeleteNews(c *fiber.Ctx) error {
	removed, err := h.store.Remove(c.Context(), c.Params("section"), c.Params("slug"))
	if err != nil {
		return err
	}
	h.invalidate(c.Context())

	return c.JSON(fiber.Map{
		"success": true,
		"removed": removed,
	})
}

// SetFlags handles PATCH /news/flags/:section/:slug
func (h *Handlers) SetFlags(c *fiber.Ctx) error {
	var flags models.FlagPatch
	if err := c.BodyParser(&flags); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"msg":     "invalid request body: " + err.Error(),
		})
	}

	updated, err := h.store.SetFlags(c.Context(), c.Params("section"), c.Params("slug"), flags)
	if err != nil {
		return err
	}
	h.invalidate(c.Context())

	return c.JSON(fiber.Map{
		"success": true,
		"news":    updated,
	})
}

// StreamNews handles GET /news/stream. Batches are written as NDJSON and
// flushed one by one; the connection closing cancels the producer. There
// is no mid-stream resume: a reconnecting client starts from empty.
func (h *Handlers) StreamNews(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "application/x-ndjson")

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		batches, errc := h.producer.Stream(ctx)
		enc := json.NewEncoder(w)

		for batch := range batches {
			if err := enc.Encode(batch); err != nil {
				return
			}
			if err := w.Flush(); err != nil {
				// Client went away; stop the producer.
				return
			}
		}

		if err := <-errc; err != nil {
			_ = enc.Encode(fiber.Map{"success": false, "msg": err.Error()})
			_ = w.Flush()
			return
		}
		_ = enc.Encode(fiber.Map{"success": true, "done": true})
		_ = w.Flush()
	})

	return nil
}

// invalidate drops every cached projection after a mutation.
func (h *Handlers) invalidate(ctx context.Context) {
	if err := h.cache.Invalidate(ctx); err != nil {
		logger.Get().Warn().Err(err).Msg("Failed to invalidate projection cache")
	}
}
