package landing

import (
	"strconv"
	"strings"

	"github.com/atgs/landing/internal/domain/theme"
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

type feature struct {
	Title, Desc string
}

var features = []feature{
	{"Custom Development", "Web, mobile, and API platforms tailored to your workflows."},
	{"Cloud & DevOps", "CI/CD, containers, and scalable infrastructure on AWS, Azure, or GCP."},
	{"Quality & Support", "Automated testing, monitoring, and SLA-backed maintenance."},
}

type plan struct {
	Name, Price string
	Perks       []string
}

var plans = []plan{
	{"Discovery", "From $2k", []string{"1–2 week sprint", "Architecture & plan", "Roadmap + estimate"}},
	{"Build", "From $15k", []string{"Agile delivery", "Weekly demos", "Testing & QA"}},
	{"Scale", "Custom", []string{"Cloud optimization", "Security & compliance", "Dedicated support"}},
}

// Page is the whole document for d.
func Page(d PageData) g.Node {
	t := d.Theme
	return g.Group([]g.Node{
		g.Raw("<!DOCTYPE html>"),
		HTML(
			Lang("en"),
			Head(
				Meta(Charset("utf-8")),
				Meta(Name("viewport"), Content("width=device-width, initial-scale=1")),
				TitleEl(g.Text(t.Name)),
				Meta(Name("description"), Content(t.Tagline)),
				Meta(Name("theme-color"), Content(t.Background)),
				Link(Rel("icon"), Type("image/svg+xml"), Href(d.Icon)),
				Link(Rel("stylesheet"), Href(d.Stylesheet)),
			),
			Body(
				g.Attr("style", bodyStyle(t)),
				navBar(d),
				Main(
					hero(d),
					featureGrid(t),
					g.If(d.ShowPricing, pricing(t)),
					contactSection(d),
				),
				footer(d),
			),
		),
	})
}

// bodyStyle exposes the palette to site.css as custom properties and paints
// the two radial glows over the background colour.
func bodyStyle(t theme.Theme) string {
	vars := []string{
		"--primary:" + t.Primary,
		"--primary-dark:" + t.PrimaryDark,
		"--foreground:" + t.Foreground,
		"--background:" + t.Background,
		"--surface:" + t.Surface,
		"--text:" + t.Text,
		"--accent:" + t.Accent,
		"background:radial-gradient(1200px 600px at 10% -10%, " + theme.Tint(t.Primary, "22") + ", transparent), " +
			"radial-gradient(800px 400px at 90% -20%, " + theme.Tint(t.Accent, "22") + ", transparent), " + t.Background,
	}
	return strings.Join(vars, ";")
}

func logo(class string) g.Node {
	return g.El("svg",
		g.Attr("class", class),
		g.Attr("viewBox", "0 0 64 64"),
		g.Attr("fill", "none"),
		g.Attr("aria-hidden", "true"),
		g.El("rect",
			g.Attr("x", "4"), g.Attr("y", "4"), g.Attr("width", "56"), g.Attr("height", "56"), g.Attr("rx", "14"),
			g.Attr("fill", "currentColor"), g.Attr("opacity", ".12"),
		),
		g.El("path",
			g.Attr("d", "M18 40 L32 16 L46 40"),
			g.Attr("stroke", "currentColor"), g.Attr("stroke-width", "6"),
			g.Attr("stroke-linecap", "round"), g.Attr("stroke-linejoin", "round"),
		),
		g.El("circle", g.Attr("cx", "32"), g.Attr("cy", "42"), g.Attr("r", "4"), g.Attr("fill", "currentColor")),
	)
}

func navBar(d PageData) g.Node {
	return Nav(Class("site-nav"),
		Div(Class("container"),
			A(Class("brand"), Href("/"),
				logo("logo"),
				Span(g.Text(d.Theme.Name)),
			),
			Div(Class("nav-links"),
				A(Href("#features"), g.Text("Features")),
				g.If(d.ShowPricing, A(Href("#pricing"), g.Text("Pricing"))),
				A(Href("#contact"), g.Text("Contact")),
				A(Class("btn"), Href("#cta"), g.Text("Get started")),
			),
		),
	)
}

func hero(d PageData) g.Node {
	t := d.Theme
	return Section(Class("hero"),
		Div(Class("container"),
			Div(
				H1(
					g.Text("Build a modern website for "),
					Span(Class("accent"), g.Text("real results")),
				),
				P(Class("lede"),
					g.Text(t.Tagline+" This starter gives you a polished base: sections, animations, and a simple theme system."),
				),
				Form(ID("cta"), Class("waitlist"), Method("post"), Action("/waitlist"), g.Attr("novalidate"),
					Label(For("waitlist-email"), Class("sr-only"), g.Text("Work email")),
					Input(
						ID("waitlist-email"), Class("field"), Type("email"), Name("email"),
						Placeholder("Work email"), AutoComplete("email"), Value(d.Waitlist),
						g.If(d.WaitlistNotice != "", g.Attr("aria-invalid", "true")),
					),
					Button(Class("btn"), Type("submit"), g.Text("Join waitlist")),
				),
				g.If(d.WaitlistNotice != "", P(Class("notice"), Role("alert"), g.Text(d.WaitlistNotice))),
				P(Class("fine-print"), g.Text("No spam. Unsubscribe anytime.")),
			),
			Div(Class("window"),
				Div(Class("window-bar"),
					dot("#ef4444"), dot("#f59e0b"), dot("#10b981"),
				),
				g.If(d.DemoImage != "", Img(Src(d.DemoImage), Alt("Demo animation"), g.Attr("loading", "lazy"))),
			),
		),
	)
}

func dot(colour string) g.Node {
	return Span(g.Attr("style", "background:"+colour))
}

func featureGrid(t theme.Theme) g.Node {
	return Section(ID("features"), Class("band"),
		Div(Class("container"),
			H2(g.Text("What we do")),
			P(Class("section-lede"), g.Text("From first sketch to production, one team end to end.")),
			Div(Class("grid three"),
				g.Group(g.Map(features, func(f feature) g.Node {
					return Div(Class("card"),
						Div(Class("icon"), g.Attr("style", "background:"+theme.Tint(t.Primary, "33"))),
						H3(g.Text(f.Title)),
						P(g.Text(f.Desc)),
					)
				})),
			),
		),
	)
}

func pricing(t theme.Theme) g.Node {
	return Section(ID("pricing"), Class("band"),
		Div(Class("container"),
			H2(g.Text("Pricing")),
			P(Class("section-lede"), g.Text("Start small and grow with us.")),
			Div(Class("grid three"),
				g.Group(g.Map(plans, func(p plan) g.Node {
					return Div(Class("card plan"),
						H3(g.Text(p.Name)),
						P(Class("price"), g.Text(p.Price)),
						Ul(g.Group(g.Map(p.Perks, func(s string) g.Node { return Li(g.Text(s)) }))),
						Button(Class("btn"), Type("button"), Disabled(), g.Text("Choose "+p.Name)),
					)
				})),
			),
		),
	)
}

func contactSection(d PageData) g.Node {
	f := d.Contact
	return Section(ID("contact"), Class("band contact"),
		Div(Class("container"),
			Div(
				H2(g.Text("Let’s talk")),
				P(Class("section-lede"), g.Text("Tell us about your project and goals. We typically reply within one business day.")),
				Div(Class("contact-meta"),
					g.If(d.SupportEmail != "", A(Href("mailto:"+d.SupportEmail), g.Text(d.SupportEmail))),
					g.If(d.SupportPhone != "", A(Href("tel:"+dialable(d.SupportPhone)), g.Text(d.SupportPhone))),
				),
			),
			Form(Class("contact-form"), Method("post"), Action("/contact"), g.Attr("novalidate"),
				g.If(d.ContactNotice != "", P(Class("notice"), Role("alert"), g.Text(d.ContactNotice))),
				Div(Class("row"),
					field(d, "name", "text", "Name", f.Name, "name"),
					field(d, "email", "email", "Email", f.Email, "email"),
				),
				field(d, "company", "text", "Company", f.Company, "organization"),
				Label(For("contact-message"), Class("sr-only"), g.Text("Message")),
				Textarea(
					ID("contact-message"), Class("field"), Name("message"), Rows("5"),
					Placeholder("Tell us a bit about your needs"),
					g.If(d.invalid("message"), g.Attr("aria-invalid", "true")),
					g.Text(f.Message),
				),
				Div(Class("actions"),
					Button(Class("btn"), Type("submit"), g.Text("Send message")),
					g.If(d.EnableEML,
						Button(Class("btn btn-ghost"), Type("submit"), Name("format"), Value("eml"), g.Text("Download .eml")),
					),
				),
			),
		),
	)
}

func field(d PageData, name, kind, label, value, autocomplete string) g.Node {
	id := "contact-" + name
	return Div(
		Label(For(id), Class("sr-only"), g.Text(label)),
		Input(
			ID(id), Class("field"), Type(kind), Name(name), Placeholder(label),
			AutoComplete(autocomplete), Value(value),
			g.If(d.invalid(name), g.Attr("aria-invalid", "true")),
		),
	)
}

func footer(d PageData) g.Node {
	return Footer(Class("site-footer"),
		Div(Class("container"),
			Div(Class("brand"),
				logo("logo"),
				Span(g.Text("© "+strconv.Itoa(d.Year)+" "+d.Theme.Name+". All rights reserved.")),
			),
			Div(Class("links"),
				A(Href("#"), g.Text("Privacy")),
				A(Href("#"), g.Text("Terms")),
				A(Href("#contact"), g.Text("Contact")),
			),
		),
	)
}

// dialable keeps the characters a tel: URI can carry.
func dialable(phone string) string {
	return strings.Map(func(r rune) rune {
		if r == '+' || (r >= '0' && r <= '9') {
			return r
		}
		return -1
	}, phone)
}
