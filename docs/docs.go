// Package docs registers the OpenAPI document served under /swagger.
// Regenerate with: swag init -g cmd/main.go
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
        "/api/authenticate": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["authentication"],
                "summary": "Login user",
                "parameters": [
                    {"description": "Login credentials", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "Login successful", "schema": {"$ref": "#/definitions/dto.TokenResponse"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/api/account": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["account"],
                "summary": "Get my account",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Account"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["account"],
                "summary": "Save my settings",
                "parameters": [
                    {"description": "Settings form", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.Account"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Account"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/api/users": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "List login accounts",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/dto.UserResponse"}}}
                }
            }
        },
        "/api/application-users": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["application-users"],
                "summary": "List employee profiles",
                "parameters": [
                    {"type": "integer", "description": "Zero-based page index", "name": "page", "in": "query"},
                    {"type": "integer", "description": "Page size", "name": "size", "in": "query"},
                    {"type": "array", "items": {"type": "string"}, "collectionFormat": "multi", "description": "field,asc|desc", "name": "sort", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.ApplicationUser"}}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["application-users"],
                "summary": "Create an employee profile",
                "parameters": [
                    {"description": "Profile without id", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.ApplicationUser"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.ApplicationUser"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/api/application-users/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["application-users"],
                "summary": "Get an employee profile with its vaccines",
                "parameters": [{"type": "integer", "description": "Profile id", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.ApplicationUser"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["application-users"],
                "summary": "Replace an employee profile",
                "parameters": [
                    {"type": "integer", "description": "Profile id", "name": "id", "in": "path", "required": true},
                    {"description": "Full profile", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.ApplicationUser"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.ApplicationUser"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            },
            "patch": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["application-users"],
                "summary": "Merge the given fields into an employee profile",
                "parameters": [
                    {"type": "integer", "description": "Profile id", "name": "id", "in": "path", "required": true},
                    {"description": "Fields to change, id required", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.ApplicationUser"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.ApplicationUser"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["application-users"],
                "summary": "Delete an employee profile",
                "parameters": [{"type": "integer", "description": "Profile id", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.ApplicationUser"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "409": {"description": "Profile still owns vaccines", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/api/vaccines": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["vaccines"],
                "summary": "List vaccination records",
                "parameters": [
                    {"type": "integer", "description": "Zero-based page index", "name": "page", "in": "query"},
                    {"type": "integer", "description": "Page size", "name": "size", "in": "query"},
                    {"type": "array", "items": {"type": "string"}, "collectionFormat": "multi", "description": "field,asc|desc", "name": "sort", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Vaccine"}}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["vaccines"],
                "summary": "Record a vaccination",
                "parameters": [
                    {"description": "Vaccine without id", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.Vaccine"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.Vaccine"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/api/vaccines/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["vaccines"],
                "summary": "Get a vaccination record",
                "parameters": [{"type": "integer", "description": "Vaccine id", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Vaccine"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["vaccines"],
                "summary": "Replace a vaccination record",
                "parameters": [
                    {"type": "integer", "description": "Vaccine id", "name": "id", "in": "path", "required": true},
                    {"description": "Full record", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.Vaccine"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Vaccine"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            },
            "patch": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["vaccines"],
                "summary": "Merge the given fields into a vaccination record",
                "parameters": [
                    {"type": "integer", "description": "Vaccine id", "name": "id", "in": "path", "required": true},
                    {"description": "Fields to change, id required", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.Vaccine"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Vaccine"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["vaccines"],
                "summary": "Delete a vaccination record",
                "parameters": [{"type": "integer", "description": "Vaccine id", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Vaccine"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "dto.ErrorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}, "message": {"type": "string"}}
        },
        "dto.LoginRequest": {
            "type": "object",
            "properties": {"username": {"type": "string"}, "password": {"type": "string"}, "rememberMe": {"type": "boolean"}}
        },
        "dto.TokenResponse": {
            "type": "object",
            "properties": {"id_token": {"type": "string"}}
        },
        "dto.UserResponse": {
            "type": "object",
            "properties": {"id": {"type": "integer"}, "login": {"type": "string"}}
        },
        "models.UserRef": {
            "type": "object",
            "properties": {"id": {"type": "integer"}, "login": {"type": "string"}}
        },
        "models.Account": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "login": {"type": "string"},
                "firstName": {"type": "string"},
                "lastName": {"type": "string"},
                "email": {"type": "string"},
                "langKey": {"type": "string"},
                "authorities": {"type": "array", "items": {"type": "string"}},
                "identification": {"type": "string"},
                "dayOfBirth": {"type": "string", "format": "date"},
                "address": {"type": "string"},
                "mobile": {"type": "string"}
            }
        },
        "models.ApplicationUser": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "identification": {"type": "string"},
                "birthday": {"type": "string", "format": "date"},
                "address": {"type": "string"},
                "cellphone": {"type": "string"},
                "internalUser": {"$ref": "#/definitions/models.UserRef"},
                "vaccines": {"type": "array", "items": {"$ref": "#/definitions/models.Vaccine"}}
            }
        },
        "models.Vaccine": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "vaccineType": {"type": "string", "enum": ["SPUTNIK", "AZTRAZENECA", "PFIZER", "JHONSON_AND_JHONSON"]},
                "vaccinationDate": {"type": "string", "format": "date"},
                "doses": {"type": "integer"},
                "applicationUser": {"$ref": "#/definitions/models.ApplicationUser"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Employee Vaccine Inventory API",
	Description:      "Employee profiles and their vaccination records",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
