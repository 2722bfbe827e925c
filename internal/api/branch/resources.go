package branch

import (
	"encoding/xml"

	"github.com/goccy/go-json"

	"filialen/internal/domain"
)

// branchResource é um filiaal com links para si mesmo e para os werknemers.
type branchResource struct {
	domain.Branch
	Links Links `json:"_links" xml:"link"`
}

func newBranchResource(b domain.Branch, links LinkBuilder) branchResource {
	return branchResource{
		Branch: b,
		Links: Links{
			{Rel: RelSelf, Href: links.Item(b.ID)},
			{Rel: RelEmployees, Href: links.Employees(b.ID)},
		},
	}
}

// summaryResource é a projeção {id, naam} com o link do item.
type summaryResource struct {
	XMLName xml.Name `json:"-" xml:"filiaal"`
	domain.BranchSummary
	Links Links `json:"_links" xml:"link"`
}

// collectionResource é a coleção de projeções com o link da própria coleção.
type collectionResource struct {
	XMLName xml.Name          `json:"-" xml:"filialen"`
	Links   Links             `json:"-" xml:"link"`
	Items   []summaryResource `json:"-" xml:"filiaal"`
}

func newCollectionResource(branches []domain.Branch, links LinkBuilder) collectionResource {
	items := make([]summaryResource, 0, len(branches))
	for _, b := range branches {
		items = append(items, summaryResource{
			BranchSummary: b.Summary(),
			Links:         Links{{Rel: RelSelf, Href: links.Item(b.ID)}},
		})
	}
	return collectionResource{
		Links: Links{{Rel: RelSelf, Href: links.Collection()}},
		Items: items,
	}
}

// MarshalJSON produz {"_embedded": {"filialen": [...]}, "_links": {...}}.
func (c collectionResource) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Embedded map[string][]summaryResource `json:"_embedded"`
		Links    Links                        `json:"_links"`
	}{
		Embedded: map[string][]summaryResource{"filialen": c.Items},
		Links:    c.Links,
	})
}
