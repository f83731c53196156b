package ui

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	. "maragu.dev/gomponents"
	data "maragu.dev/gomponents-datastar"
	. "maragu.dev/gomponents/html"
)

const datastar = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0-RC.6/bundles/datastar.js"

type view struct {
	Name    string
	Sheet   *sheet
	Values  []string
	Error   string
	Info    string
	Success string
	CSRF    func() Node
}

func page(title string, body ...Node) Node {
	return HTML(
		Lang("en"),
		Head(
			Meta(Charset("utf-8")),
			Meta(Name("viewport"), Content("width=device-width, initial-scale=1")),
			TitleEl(Text(title)),
			Link(Rel("icon"), Href("data:,")),
			Link(Rel("stylesheet"), Href("/static/app.css")),
			Script(Type("module"), Src(datastar)),
		),
		Body(
			Main(Class("layout"), Group(body)),
		),
	)
}

func errorPage(title, message string) Node {
	return page(title,
		H1(Class("page-title"), Text(title)),
		P(Text(message)),
		P(A(Href("/"), Text("Back to the spreadsheet"))),
	)
}

func sheetPage(v view) Node {
	body := []Node{
		H1(Class("page-title"), Text(v.Name)),
	}

	for _, f := range []struct{ tone, message string }{
		{"error", v.Error},
		{"info", v.Info},
		{"success", v.Success},
	} {
		if f.message != "" {
			body = append(body, flash(f.tone, f.message))
		}
	}

	s := v.Sheet
	if s != nil && len(s.Worksheets) > 1 {
		body = append(body, worksheetTabs(s.Worksheets, s.Worksheet))
	}

	if s == nil || s.Snapshot == nil {
		body = append(body, P(A(Href(link("/", worksheetOf(s))), Text("Refresh"))))
		return page(v.Name, body...)
	}

	body = append(body,
		summaryCard(s),
		quickFilterCard("Filter rows"),
		tableCard(s),
		appendCard(s, v.Values, v.CSRF),
	)

	return page(v.Name, body...)
}

func flash(tone, message string) Node {
	return Div(Class("flash flash-"+tone), Attr("role", "status"), Text(message))
}

func worksheetTabs(titles []string, active string) Node {
	tabs := make([]Node, 0, len(titles))
	for _, title := range titles {
		className := ""
		if title == active {
			className = "active"
		}

		tabs = append(tabs, A(Href(link("/", title)), Class(className), Text(title)))
	}

	return Nav(Class("card tabs"), Group(tabs))
}

func summaryCard(s *sheet) Node {
	return Div(
		Class("card toolbar"),
		Span(Class("muted"), Text(fmt.Sprintf("%d rows, %d columns", s.Snapshot.Len(), s.Snapshot.Width()))),
		A(Href(link("/", s.Worksheet)), Class("btn"), Text("Refresh")),
		A(Href(link("/export.csv", s.Worksheet)), Class("btn"), Text("Download CSV")),
	)
}

func quickFilterCard(placeholder string) Node {
	return Div(
		Class("card toolbar"),
		data.Signals(map[string]any{"q": ""}),
		Label(Class("muted"), Text("Quick filter")),
		Input(Type("search"), Placeholder(placeholder), data.Bind("q"), AutoComplete("off")),
	)
}

func tableCard(s *sheet) Node {
	header := s.Snapshot.Header()
	records := s.Snapshot.Records()

	columns := make([]Node, 0, len(header))
	for _, h := range header {
		columns = append(columns, Th(Text(h)))
	}

	if len(records) == 0 {
		return Div(
			Class("card table-wrap"),
			Table(Class("data-table"), THead(Tr(Group(columns)))),
			P(Class("muted"), Text("No rows yet.")),
		)
	}

	rows := make([]Node, 0, len(records))
	for _, record := range records {
		cells := make([]Node, 0, len(record))
		for _, cell := range record {
			cells = append(cells, Td(Text(cell)))
		}

		rows = append(rows, Tr(data.Show(containsExpr(strings.Join(record, " "))), Group(cells)))
	}

	return Div(
		Class("card table-wrap"),
		Table(Class("data-table"), THead(Tr(Group(columns))), TBody(Group(rows))),
	)
}

func appendCard(s *sheet, values []string, csrf func() Node) Node {
	header := s.Snapshot.Header()
	serial := s.Snapshot.Serial()

	fields := make([]Node, 0, 2*len(header))
	for i, h := range header {
		value := ""
		if i < len(values) {
			value = values[i]
		}

		input := Input(ID(column(i)), Name(column(i)), Type("text"), Value(value), Required())
		if i == serial {
			input = Input(ID(column(i)), Name(column(i)), Type("text"), Value(value), Placeholder("auto: "+s.Snapshot.NextSerial()))
		}

		fields = append(fields, Label(For(column(i)), Text(h)), input)
	}

	return Div(
		Class("card"),
		H2(Text("Add a row")),
		Form(
			Method("post"),
			Action("/rows"),
			csrf(),
			Input(Type("hidden"), Name("worksheet"), Value(s.Worksheet)),
			If(serial >= 0, Input(Type("hidden"), Name("serial"), Value(strconv.Itoa(serial)))),
			Div(Class("append-form"), Group(fields)),
			Div(StyleAttr("margin-top: 12px"), Button(Type("submit"), Class("btn btn-primary"), Text("Add row"))),
		),
	)
}

func containsExpr(value string) string {
	lower := strings.ToLower(value)
	return "$q === '' || " + strconv.Quote(lower) + ".includes($q.toLowerCase())"
}

func link(path, worksheet string) string {
	if worksheet == "" {
		return path
	}

	return path + "?" + url.Values{"worksheet": {worksheet}}.Encode()
}

func worksheetOf(s *sheet) string {
	if s == nil {
		return ""
	}

	return s.Worksheet
}
