package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/hammamikhairi/ottopantry/internal/domain"
	"github.com/hammamikhairi/ottopantry/internal/engine"
	"github.com/hammamikhairi/ottopantry/internal/inventory"
	"github.com/hammamikhairi/ottopantry/internal/logger"
	"github.com/hammamikhairi/ottopantry/internal/recipe"
	"github.com/hammamikhairi/ottopantry/internal/storage"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

type stubGateway struct {
	detected  []domain.Ingredient
	detectErr error
	recipe    *domain.Recipe
	reply     string
	replyErr  error
}

func (g *stubGateway) DetectIngredients(ctx context.Context, img domain.Image, p domain.RestaurantProfile) ([]domain.Ingredient, error) {
	return g.detected, g.detectErr
}

func (g *stubGateway) GenerateRecipe(ctx context.Context, names []string, p domain.RestaurantProfile) (*domain.Recipe, error) {
	if g.recipe == nil {
		return nil, errors.New("failed to parse recipe from API response")
	}
	cp := *g.recipe
	return &cp, nil
}

func (g *stubGateway) AskAboutRecipe(ctx context.Context, r domain.Recipe, p *domain.RestaurantProfile, q string) (string, error) {
	return g.reply, g.replyErr
}

type fixture struct {
	srv    *Server
	pantry *storage.Pantry
	gw     *stubGateway
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logger.New(logger.LevelOff, nil)
	pantry := storage.NewPantry(storage.NewMemoryStore(log), log)
	gw := &stubGateway{}
	eng := engine.New(pantry,
		inventory.NewService(pantry, log),
		recipe.NewBook(pantry, log),
		gw, log,
		engine.WithMaxImageBytes(1024),
	)
	return &fixture{srv: New(eng, log), pantry: pantry, gw: gw}
}

func (f *fixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	f.srv.Handler().ServeHTTP(w, req)
	return w
}

func (f *fixture) seedProfile(t *testing.T) {
	t.Helper()
	if err := f.pantry.SaveProfile(context.Background(), domain.SampleProfile()); err != nil {
		t.Fatalf("seed profile: %v", err)
	}
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return v
}

func TestHealthSetsRequestID(t *testing.T) {
	f := newFixture(t)
	w := f.do(t, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Header().Get(HeaderRequestID) == "" {
		t.Fatal("expected a request id header")
	}

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(HeaderRequestID, "trace-me")
	w = httptest.NewRecorder()
	f.srv.Handler().ServeHTTP(w, req)
	if got := w.Header().Get(HeaderRequestID); got != "trace-me" {
		t.Fatalf("expected caller's id echoed, got %q", got)
	}
}

func TestRestaurantLifecycle(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/api/restaurant", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 before setup, got %d", w.Code)
	}
	env := decode[ErrorEnvelope](t, w)
	if env.Error.Code != "unconfigured" {
		t.Fatalf("expected unconfigured code, got %+v", env)
	}

	w = f.do(t, http.MethodPatch, "/api/restaurant", `{"cuisine":"Thai"}`)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 patching missing profile, got %d", w.Code)
	}

	w = f.do(t, http.MethodPost, "/api/restaurant", `{"name":""}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty name, got %d", w.Code)
	}

	w = f.do(t, http.MethodPost, "/api/restaurant", `{"name":"Chez Otto","specialties":"soup, ,bread"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	p := decode[domain.RestaurantProfile](t, w)
	if p.Cuisine != engine.DefaultCuisine || len(p.Specialties) != 2 {
		t.Fatalf("unexpected profile: %+v", p)
	}

	w = f.do(t, http.MethodPatch, "/api/restaurant", `{"cuisine":"Thai"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if p = decode[domain.RestaurantProfile](t, w); p.Cuisine != "Thai" || p.Name != "Chez Otto" {
		t.Fatalf("patch not merged: %+v", p)
	}
}

func TestIngredientCRUD(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPost, "/api/ingredients", `{"name":"Tomato","quantity":2,"expiration":2}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	f.do(t, http.MethodPost, "/api/ingredients", `{"name":"Rice","quantity":1,"expiration":40}`)
	f.do(t, http.MethodPost, "/api/ingredients", `{"name":"tomato","quantity":1,"expiration":5}`)

	w = f.do(t, http.MethodGet, "/api/ingredients", "")
	inv := decode[inventoryResponse](t, w)
	if inv.Total != 2 || len(inv.Ingredients) != 2 {
		t.Fatalf("expected merged inventory of 2, got %+v", inv)
	}
	tomato := inv.Ingredients[0]
	if tomato.Quantity != 3 || tomato.Expiration != 2 || tomato.Badge != "red" || tomato.Label != "2 days" {
		t.Fatalf("unexpected tomato row: %+v", tomato)
	}

	w = f.do(t, http.MethodGet, "/api/ingredients?tab=expiring", "")
	if inv = decode[inventoryResponse](t, w); len(inv.Ingredients) != 1 || inv.Total != 2 {
		t.Fatalf("expiring tab wrong: %+v", inv)
	}
	w = f.do(t, http.MethodGet, "/api/ingredients?tab=stale", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad tab, got %d", w.Code)
	}

	w = f.do(t, http.MethodPost, "/api/ingredients/1/decrement", "")
	if w.Code != http.StatusOK {
		t.Fatalf("decrement: %d", w.Code)
	}
	w = f.do(t, http.MethodPut, "/api/ingredients/1", `{"name":"Rice","quantity":1,"expiration":1}`)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 renaming onto existing item, got %d", w.Code)
	}
	w = f.do(t, http.MethodDelete, "/api/ingredients/2", "")
	if w.Code != http.StatusOK {
		t.Fatalf("delete: %d", w.Code)
	}
	w = f.do(t, http.MethodDelete, "/api/ingredients/2", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 deleting twice, got %d", w.Code)
	}
	w = f.do(t, http.MethodPost, "/api/ingredients/abc/increment", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad id, got %d", w.Code)
	}
}

func scanRequest(t *testing.T, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("image", "shelf.png")
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	part.Write(data)
	mw.Close()
	req := httptest.NewRequest(http.MethodPost, "/api/ingredients/scan", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestScanImage(t *testing.T) {
	f := newFixture(t)

	w := httptest.NewRecorder()
	f.srv.Handler().ServeHTTP(w, scanRequest(t, pngHeader))
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 without profile, got %d", w.Code)
	}

	f.seedProfile(t)
	f.gw.detected = []domain.Ingredient{{Name: "Basil", Quantity: 2, Expiration: 3}}
	w = httptest.NewRecorder()
	f.srv.Handler().ServeHTTP(w, scanRequest(t, pngHeader))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	res := decode[scanResponse](t, w)
	if !res.Result.Success || len(res.Inventory) != 1 || res.Inventory[0].Name != "Basil" {
		t.Fatalf("unexpected scan response: %+v", res)
	}

	f.gw.detected, f.gw.detectErr = nil, errors.New("no ingredients found")
	w = httptest.NewRecorder()
	f.srv.Handler().ServeHTTP(w, scanRequest(t, pngHeader))
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502 on model failure, got %d", w.Code)
	}
	if res = decode[scanResponse](t, w); res.Result.Success || len(res.Inventory) != 1 {
		t.Fatalf("failed scan should leave inventory alone: %+v", res)
	}

	w = httptest.NewRecorder()
	f.srv.Handler().ServeHTTP(w, scanRequest(t, []byte("just some text")))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-image, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	f.srv.Handler().ServeHTTP(w, scanRequest(t, append(pngHeader, make([]byte, 2048)...)))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for oversized image, got %d", w.Code)
	}
	if env := decode[ErrorEnvelope](t, w); env.Error.Code != "too_large" {
		t.Fatalf("expected too_large, got %+v", env)
	}
}

func TestScanRejectsOversizedBody(t *testing.T) {
	f := newFixture(t)
	f.seedProfile(t)
	big := append(append([]byte{}, pngHeader...), make([]byte, 2<<20)...)

	req := scanRequest(t, big)
	w := httptest.NewRecorder()
	f.srv.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if env := decode[ErrorEnvelope](t, w); env.Error.Code != "too_large" {
		t.Fatalf("expected too_large for declared length, got %+v", env)
	}

	// Same body without a declared length trips the body limit while parsing.
	req = scanRequest(t, big)
	req.ContentLength = -1
	w = httptest.NewRecorder()
	f.srv.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if env := decode[ErrorEnvelope](t, w); env.Error.Code != "too_large" {
		t.Fatalf("expected too_large for streamed body, got %+v", env)
	}
	if got := f.pantry.Ingredients(context.Background()); len(got) != 0 {
		t.Fatalf("oversized upload changed inventory: %+v", got)
	}
}

func TestRecipesGenerateAndChat(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPost, "/api/recipes/generate", `{"ingredients":[]}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 with no ingredients, got %d", w.Code)
	}
	w = f.do(t, http.MethodPost, "/api/recipes/generate", `{"ingredients":["egg"],"count":9}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for count 9, got %d", w.Code)
	}

	w = f.do(t, http.MethodPost, "/api/recipes/generate", `{"ingredients":["egg"]}`)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502 when every generation fails, got %d", w.Code)
	}

	f.gw.recipe = &domain.Recipe{Title: "Shakshuka", Ingredients: []string{"egg", "tomato"}}
	w = f.do(t, http.MethodPost, "/api/recipes/generate", `{"ingredients":["egg","tomato"],"count":1}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	gen := decode[domain.GenerateResult](t, w)
	if len(gen.Recipes) != 1 || gen.Recipes[0].ID != 1 {
		t.Fatalf("unexpected generation: %+v", gen)
	}

	w = f.do(t, http.MethodGet, "/api/recipes?q=shak", "")
	list := decode[struct {
		Recipes []domain.Recipe `json:"recipes"`
	}](t, w)
	if len(list.Recipes) != 1 {
		t.Fatalf("search should find the recipe, got %+v", list)
	}
	if w = f.do(t, http.MethodGet, "/api/recipes/7", ""); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown recipe, got %d", w.Code)
	}

	f.gw.reply = "Use a cast iron pan."
	w = f.do(t, http.MethodPost, "/api/recipes/1/chat", `{"message":"Which pan?"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("chat: %d %s", w.Code, w.Body.String())
	}
	chat := decode[domain.ChatResult](t, w)
	if chat.Reply != "Use a cast iron pan." || len(chat.Messages) != 2 {
		t.Fatalf("unexpected chat: %+v", chat)
	}

	f.gw.replyErr = errors.New("API error: 503")
	w = f.do(t, http.MethodPost, "/api/recipes/1/chat", `{"message":"Again?"}`)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502 on chat failure, got %d", w.Code)
	}
	if chat = decode[domain.ChatResult](t, w); chat.Reply != engine.ChatApology {
		t.Fatalf("expected apology, got %q", chat.Reply)
	}
}

func TestSpoilageReport(t *testing.T) {
	f := newFixture(t)
	f.do(t, http.MethodPost, "/api/ingredients", `{"name":"Milk","quantity":1,"expiration":1}`)
	w := f.do(t, http.MethodGet, "/api/spoilage", "")
	if w.Code != http.StatusOK {
		t.Fatalf("spoilage: %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, `"tier":"critical"`) || !strings.Contains(body, `"label":"1 day"`) {
		t.Fatalf("unexpected report: %s", body)
	}
}
