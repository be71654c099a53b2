// Package docs registers the Swagger document served under /swagger.
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
        "/exports/{domain}": {
            "post": {
                "description": "Asks the question and downloads the projected table",
                "consumes": ["application/json"],
                "produces": ["application/octet-stream"],
                "tags": ["Query"],
                "summary": "Export a query result",
                "parameters": [
                    {"type": "string", "description": "Domain (consommation, reception)", "name": "domain", "in": "path"},
                    {"type": "string", "description": "File format (csv, xlsx, pdf)", "name": "format", "in": "query", "required": true},
                    {"description": "Question", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.QueryRequest"}}
                ],
                "responses": {}
            }
        },
        "/health": {
            "get": {
                "description": "Checks if the API is running and reports the last analytics backend probe",
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Health Check",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/query/{domain}": {
            "post": {
                "description": "Forwards a free-text question to the analytics backend and returns the projected table",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Query"],
                "summary": "Ask a question",
                "parameters": [
                    {"type": "string", "description": "Domain (consommation, reception)", "name": "domain", "in": "path"},
                    {"description": "Question", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.QueryRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/services.QueryResult"}}
                }
            }
        }
    },
    "definitions": {
        "handlers.QueryRequest": {
            "type": "object",
            "required": ["question"],
            "properties": {
                "question": {"type": "string"}
            }
        },
        "models.TableDescriptor": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "headers": {"type": "array", "items": {"type": "string"}},
                "rows": {"type": "array", "items": {"type": "array", "items": {"type": "string"}}}
            }
        },
        "services.QueryResult": {
            "type": "object",
            "properties": {
                "question": {"type": "string"},
                "domain": {"type": "string"},
                "domain_label": {"type": "string"},
                "error": {"type": "string"},
                "response": {"type": "string"},
                "execution_time": {"type": "string"},
                "shape": {"type": "string"},
                "table": {"$ref": "#/definitions/models.TableDescriptor"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{"http"},
	Title:            "Consulta API",
	Description:      "Natural-language questions over consumption and reception records, answered as French display tables",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
