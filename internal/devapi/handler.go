package devapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/fauzanebd/yaro-wora-admin-sub001/internal/form"
	"github.com/fauzanebd/yaro-wora-admin-sub001/internal/infrastructure/storage"
	"github.com/fauzanebd/yaro-wora-admin-sub001/internal/resource"
	"github.com/fauzanebd/yaro-wora-admin-sub001/internal/shared/response"
	"github.com/fauzanebd/yaro-wora-admin-sub001/pkg/cache"
	"github.com/fauzanebd/yaro-wora-admin-sub001/pkg/jwt"
	"github.com/fauzanebd/yaro-wora-admin-sub001/pkg/logger"
)

const (
	defaultPerPage = 10
	maxPerPage     = 100

	adminUserID = 1
	adminRole   = "admin"
)

// Config wires a Handler. Cache and Storage are required.
type Config struct {
	Registry *resource.Registry
	Store    Store
	Cache    cache.Cache
	CacheTTL time.Duration
	Storage  storage.Storage
	Images   *storage.ImageProcessor
	Tokens   *jwt.Manager

	AdminUsername string
	AdminPassword string
	BcryptCost    int // 0 = bcrypt.DefaultCost

	MaxUploadBytes int64
	CORSOrigins    []string
	LoginPerMin    int // 0 = unlimited
	Logger         *zerolog.Logger
}

// Handler serves the CMS API for every resource in the registry.
type Handler struct {
	registry  *resource.Registry
	store     Store
	cache     cache.Cache
	cacheTTL  time.Duration
	storage   storage.Storage
	images    *storage.ImageProcessor
	tokens    *jwt.Manager
	adminUser string
	adminHash []byte
	maxUpload int64
	origins   []string
	loginRate int
	log       zerolog.Logger
}

func NewHandler(cfg Config) (*Handler, error) {
	if cfg.Registry == nil || cfg.Store == nil || cfg.Cache == nil || cfg.Storage == nil || cfg.Tokens == nil {
		return nil, errors.New("devapi: registry, store, cache, storage and tokens are required")
	}
	cost := cfg.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), cost)
	if err != nil {
		return nil, fmt.Errorf("devapi: hash admin password: %w", err)
	}

	h := &Handler{
		registry:  cfg.Registry,
		store:     cfg.Store,
		cache:     cfg.Cache,
		cacheTTL:  cfg.CacheTTL,
		storage:   cfg.Storage,
		images:    cfg.Images,
		tokens:    cfg.Tokens,
		adminUser: cfg.AdminUsername,
		adminHash: hash,
		maxUpload: cfg.MaxUploadBytes,
		origins:   cfg.CORSOrigins,
		loginRate: cfg.LoginPerMin,
		log:       logger.Component("devapi"),
	}
	if h.images == nil {
		h.images = storage.NewImageProcessor()
	}
	if h.maxUpload <= 0 {
		h.maxUpload = 10 << 20
	}
	if cfg.Logger != nil {
		h.log = *cfg.Logger
	}
	return h, nil
}

// ========================================
// AUTH
// ========================================

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login godoc
// POST /auth/login
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "username and password are required")
		return
	}

	if req.Username != h.adminUser || bcrypt.CompareHashAndPassword(h.adminHash, []byte(req.Password)) != nil {
		h.log.Warn().Str("username", req.Username).Msg("login failed")
		response.Unauthorized(c, "invalid username or password")
		return
	}

	token, err := h.tokens.GenerateAccessToken(adminUserID, h.adminUser, adminRole)
	if err != nil {
		h.log.Error().Err(err).Msg("sign token")
		response.InternalServerError(c, "could not issue token")
		return
	}

	c.JSON(http.StatusOK, response.LoginResponse{
		Success: true,
		Token:   token,
		User:    response.LoginUser{ID: adminUserID, Username: h.adminUser, Role: adminRole},
	})
}

// ========================================
// RESOURCES
// ========================================

type listPayload struct {
	Items []Record      `json:"items"`
	Meta  *response.Meta `json:"meta,omitempty"`
}

// List godoc
// GET /{resource}?page=&per_page=&{field}=
func (h *Handler) List(desc resource.Descriptor) gin.HandlerFunc {
	return func(c *gin.Context) {
		q, page, perPage, err := parseListQuery(c, desc)
		if err != nil {
			response.BadRequest(c, err.Error())
			return
		}

		ctx := c.Request.Context()
		key := listCacheKey(desc.Path, c.Request.URL.Query().Encode())

		var cached listPayload
		if found, err := h.cache.Get(ctx, key, &cached); err != nil {
			h.log.Warn().Err(err).Str("key", key).Msg("cache read failed")
		} else if found {
			respondList(c, cached)
			return
		}

		items, total, err := h.store.List(ctx, desc.Path, q)
		if err != nil {
			h.internalError(c, "list "+desc.Path, err)
			return
		}

		payload := listPayload{Items: items}
		if page > 0 {
			payload.Meta = response.NewMeta(page, perPage, total)
		}
		if err := h.cache.Set(ctx, key, payload, h.cacheTTL); err != nil {
			h.log.Warn().Err(err).Str("key", key).Msg("cache write failed")
		}
		respondList(c, payload)
	}
}

func respondList(c *gin.Context, p listPayload) {
	if p.Items == nil {
		p.Items = []Record{}
	}
	if p.Meta != nil {
		response.SuccessWithMeta(c, http.StatusOK, p.Items, p.Meta)
		return
	}
	response.Success(c, http.StatusOK, p.Items)
}

// parseListQuery accepts page, per_page and exact-match filters on schema keys.
func parseListQuery(c *gin.Context, desc resource.Descriptor) (ListQuery, int, int, error) {
	q := ListQuery{Filters: map[string]string{}}
	page, perPage := 0, 0

	for k, vs := range c.Request.URL.Query() {
		v := ""
		if len(vs) > 0 {
			v = vs[0]
		}
		switch k {
		case "page":
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 {
				return q, 0, 0, fmt.Errorf("invalid page %q", v)
			}
			page = n
		case "per_page":
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 {
				return q, 0, 0, fmt.Errorf("invalid per_page %q", v)
			}
			perPage = n
		default:
			if _, ok := desc.Schema.Field(k); !ok {
				return q, 0, 0, fmt.Errorf("unknown filter %q", k)
			}
			q.Filters[k] = v
		}
	}

	if perPage > 0 && page == 0 {
		page = 1
	}
	if page > 0 {
		if perPage == 0 {
			perPage = defaultPerPage
		}
		if perPage > maxPerPage {
			perPage = maxPerPage
		}
		q.Offset = (page - 1) * perPage
		q.Limit = perPage
	}
	return q, page, perPage, nil
}

// Get godoc
// GET /{resource}/{id}
func (h *Handler) Get(desc resource.Descriptor) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		rec, err := h.store.Get(c.Request.Context(), desc.Path, id)
		if err != nil {
			h.storeError(c, desc, err)
			return
		}
		response.Success(c, http.StatusOK, rec)
	}
}

// Create godoc
// POST /{resource}
func (h *Handler) Create(desc resource.Descriptor) gin.HandlerFunc {
	return func(c *gin.Context) {
		values, ok := h.validate(c, desc)
		if !ok {
			return
		}
		ctx := c.Request.Context()
		rec, err := h.store.Create(ctx, desc.Path, values, parentRefs(desc, values))
		if err != nil {
			h.storeError(c, desc, err)
			return
		}
		h.invalidate(ctx, desc)
		h.log.Info().Str("resource", desc.Path).Interface("id", rec["id"]).Msg("record created")
		response.Success(c, http.StatusCreated, rec)
	}
}

// Update godoc
// PUT /{resource}/{id}
func (h *Handler) Update(desc resource.Descriptor) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		values, ok := h.validate(c, desc)
		if !ok {
			return
		}
		ctx := c.Request.Context()
		rec, err := h.store.Update(ctx, desc.Path, id, values, parentRefs(desc, values))
		if err != nil {
			h.storeError(c, desc, err)
			return
		}
		h.invalidate(ctx, desc)
		h.log.Info().Str("resource", desc.Path).Int64("id", id).Msg("record updated")
		response.Success(c, http.StatusOK, rec)
	}
}

// Delete godoc
// DELETE /{resource}/{id}
func (h *Handler) Delete(desc resource.Descriptor) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		ctx := c.Request.Context()
		if err := h.store.Delete(ctx, desc.Path, id, h.registry.Children(desc.Path)); err != nil {
			h.storeError(c, desc, err)
			return
		}
		h.invalidate(ctx, desc)
		h.log.Info().Str("resource", desc.Path).Int64("id", id).Msg("record deleted")
		response.SuccessMessage(c, http.StatusOK, desc.Name+" deleted")
	}
}

// ========================================
// PAGE CONTENT
// ========================================

// GetContent godoc
// GET /content/{page}
func (h *Handler) GetContent(desc resource.Descriptor, page string) gin.HandlerFunc {
	return func(c *gin.Context) {
		rec, err := h.store.GetContent(c.Request.Context(), page)
		if err != nil {
			h.internalError(c, "get "+desc.Path, err)
			return
		}
		if rec == nil {
			rec = Record{"page": page}
		}
		response.Success(c, http.StatusOK, rec)
	}
}

// UpdateContent godoc
// PUT /content/{page}
func (h *Handler) UpdateContent(desc resource.Descriptor, page string) gin.HandlerFunc {
	return func(c *gin.Context) {
		values, ok := h.validate(c, desc)
		if !ok {
			return
		}
		ctx := c.Request.Context()
		rec, err := h.store.PutContent(ctx, page, values)
		if err != nil {
			h.internalError(c, "update "+desc.Path, err)
			return
		}
		h.invalidate(ctx, desc)
		response.Success(c, http.StatusOK, rec)
	}
}

// ========================================
// HELPERS
// ========================================

// validate runs the resource's form schema over the JSON body. Unknown keys
// are dropped; missing keys take the field default.
func (h *Handler) validate(c *gin.Context, desc resource.Descriptor) (form.Values, bool) {
	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.BadRequest(c, "request body must be a JSON object")
		return nil, false
	}

	draft := desc.Schema.Defaults()
	for _, k := range desc.Schema.Keys() {
		if v, ok := payload[k]; ok && v != nil {
			draft[k] = v
		}
	}

	refs, err := h.references(c.Request.Context(), desc)
	if err != nil {
		h.internalError(c, "load references", err)
		return nil, false
	}

	values, err := desc.Schema.Validate(draft, refs)
	var verrs *form.Errors
	if errors.As(err, &verrs) {
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", verrs.Error(), verrs.Fields)
		return nil, false
	}
	if err != nil {
		h.internalError(c, "validate "+desc.Path, err)
		return nil, false
	}
	return values, true
}

func (h *Handler) references(ctx context.Context, desc resource.Descriptor) (form.References, error) {
	refs := form.NewReferences()
	for _, lookup := range desc.Schema.Lookups() {
		ids, err := h.store.IDs(ctx, lookup)
		if err != nil {
			return nil, err
		}
		refs.Add(lookup, ids...)
	}
	return refs, nil
}

// invalidate drops the cached lists of desc and of every resource that
// embeds it.
func (h *Handler) invalidate(ctx context.Context, desc resource.Descriptor) {
	paths := append([]string{desc.Path}, desc.Related...)
	for _, p := range paths {
		pattern := cachePrefix(p) + "*"
		if err := h.cache.DeletePattern(ctx, pattern); err != nil {
			h.log.Warn().Err(err).Str("pattern", pattern).Msg("cache invalidation failed")
		}
	}
}

func cachePrefix(path string) string {
	return "cms:" + strings.ReplaceAll(path, "/", ":") + ":"
}

func listCacheKey(path, rawQuery string) string {
	return cachePrefix(path) + "list:" + rawQuery
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		response.BadRequest(c, "invalid id")
		return 0, false
	}
	return id, true
}

// parentRefs lists the foreign keys set on values. The reference check in
// validate runs before the write; the store re-checks atomically.
func parentRefs(desc resource.Descriptor, values form.Values) []ParentRef {
	var refs []ParentRef
	for _, f := range desc.Schema.Fields {
		if f.Kind != form.KindForeignKey {
			continue
		}
		if id, ok := values[f.Name].(int64); ok {
			refs = append(refs, ParentRef{Field: f.Name, Resource: f.Lookup, ID: id})
		}
	}
	return refs
}

func (h *Handler) storeError(c *gin.Context, desc resource.Descriptor, err error) {
	var missing *MissingParentError
	switch {
	case errors.As(err, &missing):
		msg := fmt.Sprintf("references an unknown %s entry", missing.Ref.Resource)
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", msg,
			map[string][]string{missing.Ref.Field: {msg}})
	case errors.Is(err, ErrRecordNotFound):
		response.NotFound(c, desc.Name+" not found")
	case errors.Is(err, ErrReferenced):
		response.Conflict(c, fmt.Sprintf("%s is in use: %v", desc.Name, err))
	default:
		h.internalError(c, desc.Path, err)
	}
}

func (h *Handler) internalError(c *gin.Context, op string, err error) {
	h.log.Error().Err(err).Str("op", op).Str("request_id", c.GetString("request_id")).Msg("request failed")
	response.InternalServerError(c, "internal server error")
}
