package domain

import (
	"encoding/xml"
	"sort"
)

// ErrorResponse é a estrutura padronizada para respostas de erro na API.
// @Description Estrutura padronizada para respostas de erro na API.
type ErrorResponse struct {
	XMLName  xml.Name `json:"-" xml:"error" swaggerignore:"true"`
	Code     int      `json:"code" xml:"code" example:"400"`
	Category string   `json:"category" xml:"category" example:"VALIDATION_ERROR"`
	Message  string   `json:"message" xml:"message" example:"Payload inválido. Verifique o formato JSON/XML."`
}

// FieldErrors mapeia cada campo inválido para a sua mensagem.
// @Description Erros de validação por campo, e.g. {"omzet": "must be greater than or equal to 0"}.
type FieldErrors map[string]string

// MarshalXML escreve <errors><error field="...">mensagem</error></errors>, ordenado por campo.
func (f FieldErrors) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "errors"}
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	fields := make([]string, 0, len(f))
	for field := range f {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	for _, field := range fields {
		el := xml.StartElement{
			Name: xml.Name{Local: "error"},
			Attr: []xml.Attr{{Name: xml.Name{Local: "field"}, Value: field}},
		}
		if err := e.EncodeElement(f[field], el); err != nil {
			return err
		}
	}

	return e.EncodeToken(start.End())
}
