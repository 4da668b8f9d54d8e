package handlers

import (
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"time"

	"finance-tracker/internal/models"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// csrfContextKey is where echo's CSRF middleware leaves the token.
const csrfContextKey = "csrf"

// View is the data handed to a page template.
type View map[string]interface{}

var pageTemplates = []string{
	"index",
	"register",
	"login",
	"spending",
	"account",
	"dashboard",
	"transactions",
	"transaction_form",
	"delete_confirm",
	"categories",
	errorTemplate,
}

// TemplateRenderer implements echo.Renderer over the embedded templates.
// Every page is parsed together with base.html and executed through its
// "base" layout.
type TemplateRenderer struct {
	templates map[string]*template.Template
}

func NewTemplateRenderer(fsys fs.FS) (*TemplateRenderer, error) {
	funcs := template.FuncMap{
		"money": formatMoney,
		"date":  formatDate,
	}

	templates := make(map[string]*template.Template, len(pageTemplates))
	for _, page := range pageTemplates {
		t, err := template.New(page).Funcs(funcs).ParseFS(fsys, "templates/base.html", "templates/"+page+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", page, err)
		}
		templates[page] = t
	}

	return &TemplateRenderer{templates: templates}, nil
}

func (r *TemplateRenderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	t, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}
	return t.ExecuteTemplate(w, "base", data)
}

func formatMoney(amount decimal.Decimal) string {
	return amount.StringFixed(models.MaxAmountDecimalPlaces)
}

func formatDate(t time.Time) string {
	return t.Format(models.DateLayout)
}

// baseView adds what the layout needs on every page.
func baseView(c echo.Context, view View) View {
	if view == nil {
		view = View{}
	}
	view["User"] = getUsernameFromContext(c)
	view["IsAdmin"] = getIsAdminFromContext(c)
	if token, ok := c.Get(csrfContextKey).(string); ok {
		view["CSRFToken"] = token
	}
	return view
}

// Pages renders HTML views and carries flash messages across redirects.
type Pages struct {
	flashes *FlashStore
}

func NewPages(flashes *FlashStore) *Pages {
	return &Pages{flashes: flashes}
}

// Render shows a page with the pending flash messages, consuming them.
func (p *Pages) Render(c echo.Context, status int, name string, view View) error {
	view = baseView(c, view)
	view["Flashes"] = p.flashes.Pop(c)
	return c.Render(status, name, view)
}

func (p *Pages) Flash(c echo.Context, level, message string) {
	p.flashes.Add(c, level, message)
}

// Redirect flashes message and sends the browser to location.
func (p *Pages) Redirect(c echo.Context, level, message, location string) error {
	p.flashes.Add(c, level, message)
	return c.Redirect(http.StatusFound, location)
}
