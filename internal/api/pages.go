package api

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/zapponejosh/lifecal/internal/calendar"
)

//go:embed templates/*.html
var templateFS embed.FS

// Form messages shown on the pages.
const (
	invalidDateMessage  = "Enter a valid date."
	invalidEventMessage = "Give the event a name and a valid date."
)

func parsePages() (*template.Template, error) {
	funcs := template.FuncMap{
		"hasEvents": func(c calendar.Cell) bool {
			return len(c.Events) > 0
		},
	}
	return template.New("pages").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
}

// homePage is the data behind home.html.
type homePage struct {
	DOB   string
	Error string
	Max   string
	Min   string
}

// gridPage is the data behind grid.html.
type gridPage struct {
	DOB     string
	Grid    *calendar.Grid
	Rows    []calendar.Row
	Summary string

	// Event is set when the URL names an event that fits on the grid.
	Event *calendar.PlacedEvent

	EventName  string
	EventDate  string
	EventError string
}

func (h *Handlers) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	var buf strings.Builder
	if err := h.pages.ExecuteTemplate(&buf, name, data); err != nil {
		h.logger.Error("template execution failed",
			slog.String("template", name),
			slog.String("path", r.URL.Path),
			slog.Any("error", err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(buf.String()))
}

func (h *Handlers) newHomePage(dob, errMsg string) homePage {
	today := h.today()
	return homePage{
		DOB:   dob,
		Error: errMsg,
		Max:   today.AddDays(-1).String(),
		Min:   calendar.EarliestBirthDate(today).String(),
	}
}

// HomePage handles GET /
func (h *Handlers) HomePage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "home.html", h.newHomePage("", ""))
}

// SubmitBirthDate handles POST /
func (h *Handlers) SubmitBirthDate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, r, http.StatusBadRequest, "home.html", h.newHomePage("", invalidDateMessage))
		return
	}

	dobStr := strings.TrimSpace(r.PostForm.Get("dob"))
	dob, err := calendar.ParseDate(dobStr)
	if err != nil {
		h.render(w, r, http.StatusOK, "home.html", h.newHomePage(dobStr, invalidDateMessage))
		return
	}
	if err := calendar.ValidateBirthDate(dob, h.today()); err != nil {
		h.render(w, r, http.StatusOK, "home.html", h.newHomePage(dobStr, err.Error()))
		return
	}

	http.Redirect(w, r, gridPath(dob), http.StatusFound)
}

// birthDateParam reads and validates the {dob} segment. When it is not
// usable it redirects home and returns false.
func (h *Handlers) birthDateParam(w http.ResponseWriter, r *http.Request) (calendar.Date, bool) {
	dob, err := calendar.ParseDate(chi.URLParam(r, "dob"))
	if err == nil {
		err = calendar.ValidateBirthDate(dob, h.today())
	}
	if err != nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return calendar.Date{}, false
	}
	return dob, true
}

func (h *Handlers) newGridPage(dob calendar.Date, events []calendar.Event) gridPage {
	g := calendar.NewGrid(dob, h.today(), events)
	page := gridPage{
		DOB:     dob.String(),
		Grid:    g,
		Rows:    g.Rows(),
		Summary: g.Summary(h.printer),
	}
	if len(g.Events) > 0 {
		page.Event = &g.Events[0]
	}
	return page
}

// GridPage handles GET /grid/{dob}
func (h *Handlers) GridPage(w http.ResponseWriter, r *http.Request) {
	dob, ok := h.birthDateParam(w, r)
	if !ok {
		return
	}
	h.render(w, r, http.StatusOK, "grid.html", h.newGridPage(dob, nil))
}

// GridEventPage handles GET /grid/{dob}/{event}, where event is
// "name=YYYY-MM-DD".
func (h *Handlers) GridEventPage(w http.ResponseWriter, r *http.Request) {
	dob, ok := h.birthDateParam(w, r)
	if !ok {
		return
	}

	segment := chi.URLParam(r, "event")
	if r.URL.RawPath != "" {
		if unescaped, err := url.PathUnescape(segment); err == nil {
			segment = unescaped
		}
	}

	name, date, err := calendar.ParseEventSegment(segment)
	if err != nil {
		http.Redirect(w, r, gridPath(dob), http.StatusFound)
		return
	}

	if err := calendar.ValidateEventDate(dob, date); err != nil {
		page := h.newGridPage(dob, nil)
		page.EventName = name
		page.EventDate = date.String()
		page.EventError = err.Error()
		h.render(w, r, http.StatusOK, "grid.html", page)
		return
	}

	page := h.newGridPage(dob, []calendar.Event{{Title: name, Date: date}})
	page.EventName = name
	page.EventDate = date.String()
	h.render(w, r, http.StatusOK, "grid.html", page)
}

// SubmitEvent handles POST /grid/{dob}. A valid event redirects to its
// own grid URL; anything else re-renders the grid with the form error.
func (h *Handlers) SubmitEvent(w http.ResponseWriter, r *http.Request) {
	dob, ok := h.birthDateParam(w, r)
	if !ok {
		return
	}

	page := h.newGridPage(dob, nil)
	if err := r.ParseForm(); err != nil {
		page.EventError = invalidEventMessage
		h.render(w, r, http.StatusBadRequest, "grid.html", page)
		return
	}

	page.EventName = strings.TrimSpace(r.PostForm.Get("event_name"))
	page.EventDate = strings.TrimSpace(r.PostForm.Get("event_date"))

	date, err := calendar.ParseDate(page.EventDate)
	if err != nil || page.EventName == "" {
		page.EventError = invalidEventMessage
		h.render(w, r, http.StatusOK, "grid.html", page)
		return
	}
	if err := calendar.ValidateEventDate(dob, date); err != nil {
		page.EventError = err.Error()
		h.render(w, r, http.StatusOK, "grid.html", page)
		return
	}

	http.Redirect(w, r, eventPath(dob, page.EventName, date), http.StatusSeeOther)
}

func gridPath(dob calendar.Date) string {
	return "/grid/" + dob.String()
}

func eventPath(dob calendar.Date, name string, date calendar.Date) string {
	return gridPath(dob) + "/" + url.PathEscape(calendar.FormatEventSegment(name, date))
}
