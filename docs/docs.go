// Package docs registra o documento OpenAPI servido em /swagger.
// Gerado a partir das anotações swag de internal/api/branch.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/filialen": {
            "get": {
                "description": "Retorna a projeção {id, naam} de cada filiaal, com links.",
                "produces": ["application/json", "application/xml"],
                "tags": ["filialen"],
                "summary": "Lista todos os filialen",
                "responses": {
                    "200": {
                        "description": "Lista de filialen",
                        "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.BranchSummary"}}
                    },
                    "500": {
                        "description": "Erro interno do servidor",
                        "schema": {"$ref": "#/definitions/domain.ErrorResponse"}
                    }
                }
            },
            "post": {
                "description": "Cria o filiaal e devolve a URI no header Location.",
                "consumes": ["application/json", "application/xml"],
                "tags": ["filialen"],
                "summary": "Cria um novo filiaal",
                "parameters": [
                    {
                        "description": "Dados do filiaal",
                        "name": "filiaal",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/branch.BranchRequest"}
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Filiaal criado",
                        "headers": {"Location": {"type": "string", "description": "URI do filiaal criado"}}
                    },
                    "400": {
                        "description": "Campos inválidos",
                        "schema": {"$ref": "#/definitions/domain.FieldErrors"}
                    },
                    "500": {
                        "description": "Erro interno do servidor",
                        "schema": {"$ref": "#/definitions/domain.ErrorResponse"}
                    }
                }
            }
        },
        "/filialen/{id}": {
            "get": {
                "description": "Retorna o filiaal com links para si mesmo e para os werknemers.",
                "produces": ["application/json", "application/xml"],
                "tags": ["filialen"],
                "summary": "Obtém um filiaal por ID",
                "parameters": [
                    {"type": "integer", "description": "ID do filiaal", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {
                        "description": "Filiaal encontrado",
                        "schema": {"$ref": "#/definitions/domain.Branch"}
                    },
                    "400": {
                        "description": "ID inválido",
                        "schema": {"$ref": "#/definitions/domain.ErrorResponse"}
                    },
                    "404": {"description": "Filiaal não encontrado"},
                    "500": {
                        "description": "Erro interno do servidor",
                        "schema": {"$ref": "#/definitions/domain.ErrorResponse"}
                    }
                }
            },
            "put": {
                "description": "Substitui nome, gemeente e omzet do filiaal com o ID do caminho.",
                "consumes": ["application/json", "application/xml"],
                "tags": ["filialen"],
                "summary": "Substitui um filiaal",
                "parameters": [
                    {"type": "integer", "description": "ID do filiaal", "name": "id", "in": "path", "required": true},
                    {
                        "description": "Novos dados do filiaal",
                        "name": "filiaal",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/branch.BranchRequest"}
                    }
                ],
                "responses": {
                    "204": {"description": "Filiaal atualizado"},
                    "400": {
                        "description": "Campos inválidos",
                        "schema": {"$ref": "#/definitions/domain.FieldErrors"}
                    },
                    "404": {"description": "Filiaal não encontrado"},
                    "500": {
                        "description": "Erro interno do servidor",
                        "schema": {"$ref": "#/definitions/domain.ErrorResponse"}
                    }
                }
            },
            "delete": {
                "tags": ["filialen"],
                "summary": "Remove um filiaal",
                "parameters": [
                    {"type": "integer", "description": "ID do filiaal", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "Nenhum conteúdo"},
                    "404": {"description": "Filiaal não encontrado"},
                    "500": {
                        "description": "Erro interno do servidor",
                        "schema": {"$ref": "#/definitions/domain.ErrorResponse"}
                    }
                }
            }
        }
    },
    "definitions": {
        "branch.BranchRequest": {
            "type": "object",
            "required": ["gemeente", "naam", "omzet"],
            "properties": {
                "gemeente": {"type": "string", "example": "Leuven"},
                "naam": {"type": "string", "example": "Centrum"},
                "omzet": {"type": "number", "minimum": 0, "maximum": 99999999.99, "multipleOf": 0.01, "example": 1000}
            }
        },
        "domain.Branch": {
            "type": "object",
            "properties": {
                "gemeente": {"type": "string"},
                "id": {"type": "integer"},
                "naam": {"type": "string"},
                "omzet": {"type": "number"}
            }
        },
        "domain.BranchSummary": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "naam": {"type": "string"}
            }
        },
        "domain.ErrorResponse": {
            "description": "Estrutura padronizada para respostas de erro na API.",
            "type": "object",
            "properties": {
                "category": {"type": "string", "example": "VALIDATION_ERROR"},
                "code": {"type": "integer", "example": 400},
                "message": {"type": "string", "example": "Payload inválido. Verifique o formato JSON/XML."}
            }
        },
        "domain.FieldErrors": {
            "description": "Erros de validação por campo, e.g. {\"omzet\": \"must be greater than or equal to 0\"}.",
            "type": "object",
            "additionalProperties": {"type": "string"}
        }
    }
}`

// SwaggerInfo contém as informações exportadas do documento.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Filialen",
	Description:      "Toegang tot onze filialen",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
