package branch

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// CollectionPath é o caminho da coleção de filialen.
const CollectionPath = "/filialen"

// Relações de link expostas nas representações.
const (
	RelSelf      = "self"
	RelEmployees = "werknemers"
)

// LinkBuilder monta as URIs canônicas de filialen a partir de uma URL base.
type LinkBuilder struct {
	base string
}

// NewLinkBuilder cria um LinkBuilder; barras finais da base são descartadas.
func NewLinkBuilder(baseURL string) LinkBuilder {
	return LinkBuilder{base: strings.TrimRight(baseURL, "/")}
}

// Collection devolve a URI da coleção.
func (b LinkBuilder) Collection() string {
	return b.base + CollectionPath
}

// Item devolve a URI de um filiaal.
func (b LinkBuilder) Item(id int64) string {
	return b.Collection() + "/" + strconv.FormatInt(id, 10)
}

// Employees devolve a URI da sub-coleção de werknemers de um filiaal.
func (b LinkBuilder) Employees(id int64) string {
	return b.Item(id) + "/" + RelEmployees
}

// BaseURLFromRequest deriva scheme://host da requisição, respeitando X-Forwarded-Proto.
func BaseURLFromRequest(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
	}
	return scheme + "://" + r.Host
}

// Link é um hyperlink de uma representação.
type Link struct {
	Rel  string `xml:"rel,attr"`
	Href string `xml:"href,attr"`
}

// Links serializa em JSON no formato HAL: {"rel": {"href": "..."}}.
// Em XML cada link vira um elemento <link rel="..." href="..."/>.
type Links []Link

func (l Links) MarshalJSON() ([]byte, error) {
	out := make(map[string]map[string]string, len(l))
	for _, link := range l {
		out[link.Rel] = map[string]string{"href": link.Href}
	}
	return json.Marshal(out)
}

// Href devolve o href da relação dada, ou "" se ausente.
func (l Links) Href(rel string) string {
	for _, link := range l {
		if link.Rel == rel {
			return link.Href
		}
	}
	return ""
}
