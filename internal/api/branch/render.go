package branch

import (
	"encoding/xml"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
)

// Tipos de mídia suportados.
const (
	MediaHALJSON = "application/hal+json"
	MediaJSON    = "application/json"
	MediaXML     = "application/xml"
)

// maxBodyBytes limita o tamanho do payload de entrada.
const maxBodyBytes = 1 << 20

// wantsXML decide a representação da resposta a partir do Accept.
// Sem preferência explícita por XML, a resposta é HAL+JSON.
func wantsXML(r *http.Request) bool {
	for _, part := range strings.Split(r.Header.Get("Accept"), ",") {
		mediaType, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		switch mediaType {
		case MediaXML, "text/xml":
			return true
		case MediaHALJSON, MediaJSON, "application/*", "*/*":
			return false
		}
	}
	return false
}

// isXMLBody informa se o corpo da requisição foi enviado em XML.
func isXMLBody(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mediaType == MediaXML || mediaType == "text/xml"
}

// decodeBody lê o payload em JSON ou XML, conforme o Content-Type.
func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if isXMLBody(r) {
		return xml.NewDecoder(body).Decode(dst)
	}
	return json.NewDecoder(body).Decode(dst)
}

// writeBody serializa data na representação negociada.
func writeBody(w http.ResponseWriter, r *http.Request, status int, data interface{}) error {
	if wantsXML(r) {
		w.Header().Set("Content-Type", MediaXML+"; charset=utf-8")
		w.WriteHeader(status)
		if _, err := io.WriteString(w, xml.Header); err != nil {
			return err
		}
		return xml.NewEncoder(w).Encode(data)
	}

	w.Header().Set("Content-Type", MediaHALJSON)
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}
