package server

import (
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func newTestHandler() http.Handler {
	return NewHandler(Options{Dir: "..", Segments: 32})
}

func TestHealthz(t *testing.T) {
	w := get(t, newTestHandler(), "/healthz")
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestPresets(t *testing.T) {
	w := get(t, newTestHandler(), "/presets")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var got []presetJSON
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 3)
	assert.Equal(t, "euro2", got[0].Name)
	assert.Equal(t, presetJSON{Name: "steinie", RU: 13, RL: 17.5, HT: 13, NoLogo: true}, got[2])
}

func TestClipSCAD(t *testing.T) {
	h := newTestHandler()

	w := get(t, h, "/clip.scad?name=Ada&gap=120")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := w.Body.String()
	assert.Contains(t, body, "$fn = 32;")
	assert.Contains(t, body, `// bottle clip "Ada"`)
	assert.Contains(t, body, `color("white")`)
	assert.Contains(t, body, `color("black")`)
	assert.NotContains(t, body, "import(")

	w = get(t, h, "/clip.scad?name=Ada&color=white")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `color("white")`)
	assert.NotContains(t, w.Body.String(), `color("black")`)
}

func TestClipSCADPreset(t *testing.T) {
	w := get(t, newTestHandler(), "/clip.scad?name=Ada&preset=steinie&rl=99")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "r1 = 20,")
	assert.NotContains(t, w.Body.String(), "r1 = 101.5")
}

func TestClipRejectsBadQueries(t *testing.T) {
	h := newTestHandler()
	tests := []struct {
		name   string
		target string
		status int
	}{
		{"unknown preset", "/clip.scad?preset=magnum", http.StatusBadRequest},
		{"bad number", "/clip.scad?gap=wide", http.StatusBadRequest},
		{"logo outside dir", "/clip.scad?logo=../secret.svg", http.StatusBadRequest},
		{"absolute font", "/clip.scad?name=A&font=/etc/fonts/x.ttf", http.StatusBadRequest},
		{"missing logo", "/clip.scad?logo=logos/missing.svg", http.StatusInternalServerError},
		{"tiny pixels", "/clip.png?px=0.001", http.StatusBadRequest},
		{"bad z", "/clip.png?z=top", http.StatusBadRequest},
		{"wrong method", "/clip.scad", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.status == 0 {
				req := httptest.NewRequest(http.MethodPost, tt.target, nil)
				w := httptest.NewRecorder()
				h.ServeHTTP(w, req)
				assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
				return
			}
			w := get(t, h, tt.target)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}
}

func TestClipPNG(t *testing.T) {
	w := get(t, newTestHandler(), "/clip.png?name=Ada&px=0.5&logo=")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))

	img, err := png.Decode(w.Body)
	require.NoError(t, err)
	b := img.Bounds()
	// Outer diameter at mid height is about 2*(14+2.5) mm plus inscription.
	assert.GreaterOrEqual(t, b.Dx(), 60)
	assert.GreaterOrEqual(t, b.Dy(), 60)

	var filled int
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a != 0 {
				filled++
			}
		}
	}
	assert.Positive(t, filled)
	assert.Less(t, filled, b.Dx()*b.Dy()/2, "cross-section is a ring, not a disc")
}

func TestClipResponsesAreCached(t *testing.T) {
	h := newTestHandler()

	first := get(t, h, "/clip.scad?name=Ada&gap=100")
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "miss", first.Header().Get("X-Cache"))

	// Same query in another order.
	second := get(t, h, "/clip.scad?gap=100&name=Ada")
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "hit", second.Header().Get("X-Cache"))
	assert.Equal(t, first.Body.String(), second.Body.String())

	bad := get(t, h, "/clip.scad?gap=wide")
	assert.Equal(t, http.StatusBadRequest, bad.Code)
	bad = get(t, h, "/clip.scad?gap=wide")
	assert.Equal(t, http.StatusBadRequest, bad.Code, "errors are not cached")
}

func TestCacheDisabled(t *testing.T) {
	h := NewHandler(Options{Dir: "..", CacheSize: -1})
	for range 2 {
		w := get(t, h, "/clip.scad?name=Ada&logo=")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "miss", w.Header().Get("X-Cache"))
	}
}
