package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hammamikhairi/ottopantry/internal/domain"
	"github.com/hammamikhairi/ottopantry/internal/engine"
	"github.com/hammamikhairi/ottopantry/internal/freshness"
)

// maxRecipesPerRequest caps the count accepted by /recipes/generate.
const maxRecipesPerRequest = 5

func (s *Server) health(c *gin.Context) {
	respondOK(c, gin.H{"status": "ok"})
}

// ── restaurant ─────────────────────────────────────────────────────

func (s *Server) getProfile(c *gin.Context) {
	p, ok := s.engine.Profile(c.Request.Context())
	if !ok {
		respondError(c, http.StatusNotFound, "unconfigured", domain.ErrUnconfigured)
		return
	}
	respondOK(c, p)
}

func (s *Server) setupProfile(c *gin.Context) {
	var in engine.ProfileInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	p, err := s.engine.SetupProfile(c.Request.Context(), in)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (s *Server) updateProfile(c *gin.Context) {
	var patch engine.ProfilePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	p, err := s.engine.UpdateProfile(c.Request.Context(), patch)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, p)
}

// ── ingredients ────────────────────────────────────────────────────

// ingredientView is an inventory row with its display badge.
type ingredientView struct {
	domain.Ingredient
	Label string             `json:"label"`
	Badge freshness.Severity `json:"badge"`
}

type inventoryResponse struct {
	Tab         freshness.Tab    `json:"tab"`
	Query       string           `json:"query,omitempty"`
	Ingredients []ingredientView `json:"ingredients"`
	Total       int              `json:"total"`
}

func inventoryView(items []domain.Ingredient) []ingredientView {
	out := make([]ingredientView, 0, len(items))
	for _, it := range items {
		out = append(out, ingredientView{
			Ingredient: it,
			Label:      freshness.Label(it.Expiration),
			Badge:      freshness.BadgeSeverity(it.Expiration),
		})
	}
	return out
}

func (s *Server) listIngredients(c *gin.Context) {
	tab, err := freshness.ParseTab(c.Query("tab"))
	if err != nil {
		respondErr(c, err)
		return
	}
	ctx := c.Request.Context()
	q := c.Query("q")
	items := s.engine.Inventory().Filter(ctx, tab, q)
	respondOK(c, inventoryResponse{
		Tab:         tab,
		Query:       q,
		Ingredients: inventoryView(items),
		Total:       len(s.engine.Inventory().List(ctx)),
	})
}

func (s *Server) addIngredient(c *gin.Context) {
	var in domain.Ingredient
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	items, err := s.engine.Inventory().Add(c.Request.Context(), in)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ingredients": inventoryView(items)})
}

type scanResponse struct {
	Result    domain.DetectResult `json:"result"`
	Inventory []ingredientView    `json:"inventory"`
}

func (s *Server) scanImage(c *gin.Context) {
	limit := s.engine.MaxImageBytes()
	bodyLimit := limit + 1<<20
	if c.Request.ContentLength > bodyLimit {
		respondErr(c, tooLarge(c.Request.ContentLength, limit))
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, bodyLimit)

	fh, err := c.FormFile("image")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respondErr(c, tooLarge(maxErr.Limit, limit))
			return
		}
		respondError(c, http.StatusBadRequest, "missing_image", fmt.Errorf("%w: multipart field \"image\" is required", domain.ErrInvalidInput))
		return
	}
	if fh.Size > limit {
		respondErr(c, tooLarge(fh.Size, limit))
		return
	}
	f, err := fh.Open()
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	defer f.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, io.LimitReader(f, limit+1)); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	img := domain.Image{
		Data:     buf.Bytes(),
		MimeType: fh.Header.Get("Content-Type"),
		Filename: fh.Filename,
	}
	res, merged, err := s.engine.ScanImage(c.Request.Context(), img)
	if err != nil {
		respondErr(c, err)
		return
	}
	status := http.StatusOK
	if !res.Success {
		status = http.StatusBadGateway
	}
	c.JSON(status, scanResponse{Result: res, Inventory: inventoryView(merged)})
}

func tooLarge(size, limit int64) error {
	return fmt.Errorf("%w: %w (%d > %d bytes)", domain.ErrInvalidInput, domain.ErrTooLarge, size, limit)
}

func (s *Server) updateIngredient(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var in domain.Ingredient
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	items, err := s.engine.Inventory().Update(c.Request.Context(), id, in)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, gin.H{"ingredients": inventoryView(items)})
}

func (s *Server) incrementIngredient(c *gin.Context) {
	s.mutateIngredient(c, s.engine.Inventory().Increment)
}

func (s *Server) decrementIngredient(c *gin.Context) {
	s.mutateIngredient(c, s.engine.Inventory().Decrement)
}

func (s *Server) removeIngredient(c *gin.Context) {
	s.mutateIngredient(c, s.engine.Inventory().Remove)
}

func (s *Server) mutateIngredient(c *gin.Context, fn func(context.Context, int) ([]domain.Ingredient, error)) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	items, err := fn(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, gin.H{"ingredients": inventoryView(items)})
}

func (s *Server) spoilageReport(c *gin.Context) {
	respondOK(c, s.engine.SpoilageReport(c.Request.Context()))
}

// ── recipes ────────────────────────────────────────────────────────

func (s *Server) listRecipes(c *gin.Context) {
	ctx := c.Request.Context()
	var recipes []domain.Recipe
	if q := c.Query("q"); q != "" {
		recipes = s.engine.Recipes().Search(ctx, q)
	} else {
		recipes = s.engine.Recipes().List(ctx)
	}
	respondOK(c, gin.H{"recipes": recipes})
}

func (s *Server) getRecipe(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	r, err := s.engine.Recipes().Get(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	respondOK(c, gin.H{"recipe": r, "greeting": engine.Greeting(*r)})
}

type generateRequest struct {
	Ingredients []string `json:"ingredients"`
	Count       int      `json:"count"`
}

func (s *Server) generateRecipes(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if req.Count < 0 || req.Count > maxRecipesPerRequest {
		respondErr(c, fmt.Errorf("%w: count must be between 1 and %d", domain.ErrInvalidInput, maxRecipesPerRequest))
		return
	}
	res, err := s.engine.GenerateRecipes(c.Request.Context(), req.Ingredients, req.Count)
	if err != nil {
		respondErr(c, err)
		return
	}
	status := http.StatusOK
	if !res.Success {
		status = http.StatusBadGateway
	}
	c.JSON(status, res)
}

type chatRequest struct {
	History []domain.ChatMessage `json:"history"`
	Message string               `json:"message"`
}

func (s *Server) chat(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	res, err := s.engine.Chat(c.Request.Context(), id, req.History, req.Message)
	if err != nil {
		respondErr(c, err)
		return
	}
	status := http.StatusOK
	if !res.Success {
		status = http.StatusBadGateway
	}
	c.JSON(status, res)
}

func idParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "invalid_id", fmt.Errorf("%w: invalid id %q", domain.ErrInvalidInput, c.Param("id")))
		return 0, false
	}
	return id, true
}
