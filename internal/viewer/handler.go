package viewer

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/colonyops/bitext/internal/core/entry"
	"github.com/colonyops/bitext/internal/core/logging"
	"github.com/colonyops/bitext/internal/core/styles"
	"github.com/colonyops/bitext/pkg/iojson"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(
	template.New("").
		Funcs(template.FuncMap{
			"groupColor": func(group int) string {
				if group < 0 {
					return styles.HexOf(styles.ColorMuted)
				}
				return styles.GroupHex(group)
			},
			"short": entry.ShortID,
		}).
		ParseFS(templateFS, "templates/*.html"),
)

// Entries is the read side of the entry service.
type Entries interface {
	Get(ctx context.Context, id string) (entry.Entry, error)
	Resolve(ctx context.Context, ref string) (string, error)
	List(ctx context.Context) ([]entry.Summary, error)
}

// Handler serves the viewer routes.
type Handler struct {
	entries Entries
	log     zerolog.Logger
	mux     *http.ServeMux
}

// NewHandler creates the viewer handler.
func NewHandler(entries Entries) *Handler {
	h := &Handler{
		entries: entries,
		log:     logging.Component("viewer"),
		mux:     http.NewServeMux(),
	}
	h.mux.HandleFunc("GET /{$}", h.index)
	h.mux.HandleFunc("GET /entries/{id}/{lang}", h.entry)
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// View is one target language of an entry with its tagged token streams.
type View struct {
	ID         string              `json:"id"`
	SourceLang string              `json:"source_lang"`
	Lang       string              `json:"lang"`
	Source     []entry.TaggedToken `json:"source"`
	Target     []entry.TaggedToken `json:"target"`
	Groups     int                 `json:"groups"`
}

// BuildView tags the streams of one target language of e.
func BuildView(id string, e entry.Entry, lang string) (View, bool) {
	target, ok := e.Target(lang)
	if !ok {
		return View{}, false
	}
	src, tgt := entry.Tag(id, e.Source.Tokens, target)
	return View{
		ID:         id,
		SourceLang: e.SourceLang,
		Lang:       lang,
		Source:     src,
		Target:     tgt,
		Groups:     len(target.Mapping),
	}, true
}

func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.entries.List(r.Context())
	if err != nil {
		h.fail(w, r, false, http.StatusInternalServerError, err)
		return
	}
	h.render(w, "index.html", summaries)
}

func (h *Handler) entry(w http.ResponseWriter, r *http.Request) {
	lang, asJSON := strings.CutSuffix(r.PathValue("lang"), ".json")
	ctx := logging.WithLang(r.Context(), lang)

	id, err := h.entries.Resolve(ctx, r.PathValue("id"))
	if err != nil {
		h.fail(w, r, asJSON, statusFor(err), err)
		return
	}
	ctx = logging.WithEntryID(ctx, id)

	e, err := h.entries.Get(ctx, id)
	if err != nil {
		h.fail(w, r, asJSON, statusFor(err), err)
		return
	}

	view, ok := BuildView(id, e, lang)
	if !ok {
		h.fail(w, r, asJSON, http.StatusNotFound, errors.New("no target for language "+lang))
		return
	}

	if asJSON {
		w.Header().Set("Content-Type", "application/json")
		_ = iojson.WriteWith(w, io.Discard, view)
		return
	}
	h.render(w, "entry.html", view)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, entry.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, entry.ErrAmbiguous):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.ExecuteTemplate(w, name, data); err != nil {
		h.log.Error().Err(err).Str("template", name).Msg("render failed")
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, asJSON bool, status int, err error) {
	ev := h.log.Warn()
	if status >= http.StatusInternalServerError {
		ev = h.log.Error()
	}
	ev.Err(err).Ctx(r.Context()).Str("path", r.URL.Path).Int("status", status).Msg("request failed")

	if asJSON {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, iojson.MarshalError(err.Error(), map[string]any{"status": status}))
		return
	}
	http.Error(w, err.Error(), status)
}
