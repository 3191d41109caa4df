// Package docs registers the generated OpenAPI document with the
// swagger UI handler. Regenerate with `swag init`.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/healthz": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Liveness probe",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/api/readyz": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Readiness probe, pings Postgres and Redis",
                "responses": {
                    "200": {"description": "OK"},
                    "500": {"description": "Internal Server Error"}
                }
            }
        },
        "/api/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Authenticate admin user",
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/api/public/category/tree": {
            "get": {
                "produces": ["application/json"],
                "tags": ["category"],
                "summary": "Catalog navigation tree",
                "parameters": [
                    {"type": "string", "name": "lang", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/api/public/product/get/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["product"],
                "summary": "Product detail with gallery and categories",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/api/public/product/search": {
            "get": {
                "produces": ["application/json"],
                "tags": ["product"],
                "summary": "Public product label search",
                "parameters": [
                    {"type": "string", "name": "query", "in": "query", "required": true},
                    {"type": "string", "name": "lang", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"}
                }
            }
        },
        "/api/public/faq": {
            "get": {
                "produces": ["application/json"],
                "tags": ["faq"],
                "summary": "Public FAQ list",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/api/public/contact": {
            "get": {
                "produces": ["application/json"],
                "tags": ["contact"],
                "summary": "Public contact list",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/api/private/search/{entity}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["search"],
                "summary": "Admin label search over one entity",
                "parameters": [
                    {"type": "string", "name": "entity", "in": "path", "required": true},
                    {"type": "string", "name": "query", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"}
                }
            }
        },
        "/api/private/image/upload": {
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["image"],
                "summary": "Upload an entity image",
                "responses": {
                    "201": {"description": "Created"},
                    "422": {"description": "Unprocessable Entity"}
                }
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "shop-manager API",
	Description:      "Collectibles shop backend: public catalog and admin panel.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
