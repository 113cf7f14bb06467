// Package docs registers the OpenAPI document served under /v1/swagger.
// It is maintained by hand to match the routes in internal/delivery/http/v1.
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
        "/form/options": {
            "get": {
                "description": "Field order and the selectable values for location, gender, employment and skills",
                "produces": ["application/json"],
                "tags": ["forms"],
                "summary": "Form options",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/forms": {
            "post": {
                "description": "Opens an empty application form session",
                "produces": ["application/json"],
                "tags": ["forms"],
                "summary": "Start an application",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/response.Response"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/forms/{id}": {
            "get": {
                "description": "Current values and the errors from the last validation",
                "produces": ["application/json"],
                "tags": ["forms"],
                "summary": "Get an application",
                "parameters": [{"type": "string", "description": "Form ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            },
            "delete": {
                "tags": ["forms"],
                "summary": "Discard an application",
                "parameters": [{"type": "string", "description": "Form ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/forms/{id}/fields": {
            "patch": {
                "description": "Applies field-change events in order. Does not validate.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["forms"],
                "summary": "Update fields",
                "parameters": [
                    {"type": "string", "description": "Form ID", "name": "id", "in": "path", "required": true},
                    {"description": "Field updates", "name": "updates", "in": "body", "required": true, "schema": {"$ref": "#/definitions/v1.UpdateFieldsRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/forms/{id}/validate": {
            "post": {
                "description": "Recomputes every field error and replaces the stored set",
                "produces": ["application/json"],
                "tags": ["forms"],
                "summary": "Validate an application",
                "parameters": [{"type": "string", "description": "Form ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/forms/{id}/submit": {
            "post": {
                "description": "Validates the form and, when valid, hands the record to the configured sink",
                "produces": ["application/json"],
                "tags": ["forms"],
                "summary": "Submit an application",
                "parameters": [{"type": "string", "description": "Form ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/response.Response"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/forms/{id}/reset": {
            "post": {
                "description": "Clears every value and error",
                "produces": ["application/json"],
                "tags": ["forms"],
                "summary": "Reset an application",
                "parameters": [{"type": "string", "description": "Form ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        }
    },
    "definitions": {
        "domain.FieldUpdate": {
            "type": "object",
            "required": ["name"],
            "properties": {
                "kind": {"type": "string", "enum": ["scalar", "checked", "unchecked"]},
                "name": {"type": "string"},
                "value": {"type": "string"}
            }
        },
        "response.Response": {
            "type": "object",
            "properties": {
                "data": {},
                "error": {},
                "message": {"type": "string"},
                "request_id": {"type": "string"},
                "success": {"type": "boolean"}
            }
        },
        "v1.UpdateFieldsRequest": {
            "type": "object",
            "required": ["updates"],
            "properties": {
                "updates": {"type": "array", "minItems": 1, "items": {"$ref": "#/definitions/domain.FieldUpdate"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/v1",
	Schemes:          []string{},
	Title:            "Job Application Form API",
	Description:      "Server-side controller for the job application form: field updates, validation and submission.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
