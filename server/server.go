// Package server exposes clip generation over HTTP.
//
// Routes:
//
//	GET /presets     preset dimensions as JSON
//	GET /clip.scad   OpenSCAD source of one clip
//	GET /clip.png    cross-section preview of one clip
//	GET /healthz     liveness
//
// Clip routes take the parameters as query values: name, preset, ru, rl,
// ht, width, gap, logo, font, bg_color, text_color and logo_color, plus
// color to select a single material pass.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/gogpu/bottleclip"
	"github.com/gogpu/bottleclip/cache"
	"github.com/gogpu/bottleclip/csg"
	"github.com/gogpu/bottleclip/resolve"
	"github.com/gogpu/bottleclip/scad"
	"github.com/gogpu/bottleclip/solid"
	"github.com/gogpu/bottleclip/text"
)

// Preview limits.
const (
	DefaultPixelSize = 0.25
	MinPixelSize     = 0.05
)

// ErrBadQuery wraps every query parsing failure.
var ErrBadQuery = errors.New("server: bad query")

// Options configures NewHandler.
type Options struct {
	// Dir is the base for font and logo paths. Clients may only name
	// files below it.
	Dir string

	// Defaults are the parameters before query values apply. Nil means
	// bottleclip.DefaultParams.
	Defaults *bottleclip.Params

	// Segments is the $fn written into OpenSCAD output.
	Segments int

	// Fonts caches opened fonts. Nil creates a cache for the handler.
	Fonts *text.Sources

	// CacheSize is the number of responses kept per cache shard. Zero uses
	// cache.DefaultCapacity; a negative size disables caching. Cached
	// responses are not invalidated when font or logo files change.
	CacheSize int
}

type server struct {
	opts     Options
	defaults bottleclip.Params
	cache    *cache.Sharded[string, []byte]
}

// NewHandler returns the HTTP handler of the clip service.
func NewHandler(opts Options) http.Handler {
	s := &server{opts: opts, defaults: bottleclip.DefaultParams()}
	if opts.Defaults != nil {
		s.defaults = *opts.Defaults
	}
	if s.opts.Fonts == nil {
		s.opts.Fonts = text.NewSources(0)
	}
	if opts.CacheSize >= 0 {
		s.cache = cache.New[string, []byte](opts.CacheSize, cache.StringHasher)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.Get("/presets", s.presets)
	r.Get("/clip.scad", s.clipSCAD)
	r.Get("/clip.png", s.clipPNG)
	return r
}

type presetJSON struct {
	Name   string  `json:"name"`
	RU     float64 `json:"ru"`
	RL     float64 `json:"rl"`
	HT     float64 `json:"ht"`
	NoLogo bool    `json:"no_logo,omitempty"`
}

func (s *server) presets(w http.ResponseWriter, r *http.Request) {
	var out []presetJSON
	for _, p := range bottleclip.Presets() {
		out = append(out, presetJSON{Name: p.Name, RU: p.RU, RL: p.RL, HT: p.HT, NoLogo: p.NoLogo})
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(out); err != nil {
		bottleclip.Logger().Error("presets response encode failed", "err", err)
	}
}

func (s *server) clipSCAD(w http.ResponseWriter, r *http.Request) {
	s.serveCached(w, r, "text/plain; charset=utf-8", func() ([]byte, error) {
		tree, p, err := s.lowered(r)
		if err != nil {
			return nil, err
		}
		return scad.Marshal(tree,
			scad.WithHeader(fmt.Sprintf("bottle clip %q", p.Name)),
			scad.WithSegments(s.opts.Segments),
		)
	})
}

func (s *server) clipPNG(w http.ResponseWriter, r *http.Request) {
	s.serveCached(w, r, "image/png", func() ([]byte, error) {
		tree, p, err := s.lowered(r)
		if err != nil {
			return nil, err
		}
		q := r.URL.Query()
		z, err := queryFloat(q, "z", p.HT/2)
		if err != nil {
			return nil, err
		}
		px, err := queryFloat(q, "px", DefaultPixelSize)
		if err != nil {
			return nil, err
		}
		if px < MinPixelSize {
			return nil, fmt.Errorf("%w: px must be at least %g", ErrBadQuery, MinPixelSize)
		}

		sol, err := solid.Compile(tree)
		if err != nil {
			return nil, err
		}
		img, err := solid.Slice(sol, z, px)
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if err := solid.WritePNG(&buf, img); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	})
}

// serveCached answers r with the cached body for its canonical URL, calling
// render on a miss.
func (s *server) serveCached(w http.ResponseWriter, r *http.Request, contentType string, render func() ([]byte, error)) {
	key := r.URL.Path + "?" + r.URL.Query().Encode()
	var (
		body []byte
		hit  bool
		err  error
	)
	if s.cache != nil {
		body, hit, err = s.cache.GetOrCreate(key, render)
	} else {
		body, err = render()
	}
	if err != nil {
		s.fail(w, statusOf(err), err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	if hit {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
	_, _ = w.Write(body)
}

// lowered builds and lowers the clip described by the request.
func (s *server) lowered(r *http.Request) (csg.Node, bottleclip.Params, error) {
	p, build, active, err := s.parse(r.URL.Query())
	if err != nil {
		return nil, p, err
	}
	tree, err := resolve.Lower(r.Context(), build(p, bottleclip.WithActiveColor(active)), resolve.Options{
		Dir:   s.opts.Dir,
		Fonts: s.opts.Fonts,
	})
	if err != nil {
		return nil, p, err
	}
	bottleclip.Logger().Debug("clip built", "path", r.URL.Path, "name", p.Name, "active", active)
	return tree, p, nil
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, ErrBadQuery):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (s *server) fail(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		bottleclip.Logger().Error("request failed", "status", status, "err", err)
	} else {
		bottleclip.Logger().Debug("request rejected", "status", status, "err", err)
	}
	http.Error(w, err.Error(), status)
}

type buildFunc func(bottleclip.Params, ...bottleclip.Option) csg.Node

// parse reads the clip parameters, the preset builder and the active color
// from q.
func (s *server) parse(q url.Values) (bottleclip.Params, buildFunc, string, error) {
	p := s.defaults
	var build buildFunc = bottleclip.Build
	if name := q.Get("preset"); name != "" {
		preset, err := bottleclip.LookupPreset(name)
		if err != nil {
			return p, nil, "", fmt.Errorf("%w: %w", ErrBadQuery, err)
		}
		build = preset.Build
	}

	for _, f := range []struct {
		key string
		dst *float64
	}{
		{"ru", &p.RU}, {"rl", &p.RL}, {"ht", &p.HT}, {"width", &p.Width}, {"gap", &p.Gap},
	} {
		v, err := queryFloat(q, f.key, *f.dst)
		if err != nil {
			return p, nil, "", err
		}
		*f.dst = v
	}

	for _, f := range []struct {
		key string
		dst *string
	}{
		{"name", &p.Name}, {"bg_color", &p.BgColor}, {"text_color", &p.TextColor}, {"logo_color", &p.LogoColor},
	} {
		if q.Has(f.key) {
			*f.dst = q.Get(f.key)
		}
	}

	if q.Has("logo") {
		logo := q.Get("logo")
		if logo != "" && !filepath.IsLocal(logo) {
			return p, nil, "", fmt.Errorf("%w: logo %q is outside the served directory", ErrBadQuery, logo)
		}
		p.Logo = logo
	}
	if q.Has("font") {
		font := q.Get("font")
		if !strings.HasPrefix(font, text.BuiltinPrefix) && !filepath.IsLocal(font) {
			return p, nil, "", fmt.Errorf("%w: font %q is outside the served directory", ErrBadQuery, font)
		}
		p.Font = font
	}
	return p, build, q.Get("color"), nil
}

func queryFloat(q url.Values, key string, def float64) (float64, error) {
	s := q.Get(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q is not a number", ErrBadQuery, key, s)
	}
	return v, nil
}
