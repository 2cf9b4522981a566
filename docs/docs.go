// Package docs holds the OpenAPI description served at /swagger/*.
// Regenerate with: swag init -g cmd/auth-service/main.go
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
        "/api/auth/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register a new user",
                "parameters": [
                    {"description": "User registration details", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.registerRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.authResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/api/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Login",
                "parameters": [
                    {"description": "Login credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.loginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.authResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/api/auth/me": {
            "get": {
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Current user",
                "security": [{"CookieAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.meResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/api/auth/logout": {
            "get": {
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Logout",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.messageResponse"}}
                }
            }
        },
        "/api/auth/users/me/addresses": {
            "get": {
                "produces": ["application/json"],
                "tags": ["addresses"],
                "summary": "List my addresses",
                "security": [{"CookieAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.addressListResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["addresses"],
                "summary": "Add an address",
                "security": [{"CookieAuth": []}],
                "parameters": [
                    {"description": "Address", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.addressRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.addressResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/api/auth/users/me/addresses/{addressId}": {
            "delete": {
                "produces": ["application/json"],
                "tags": ["addresses"],
                "summary": "Delete an address",
                "security": [{"CookieAuth": []}],
                "parameters": [
                    {"type": "string", "description": "Address ID", "name": "addressId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.addressDeleteResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/api/products": {
            "get": {
                "produces": ["application/json"],
                "tags": ["products"],
                "summary": "List products",
                "parameters": [
                    {"type": "integer", "description": "Page (1-based)", "name": "page", "in": "query"},
                    {"type": "integer", "description": "Page size (max 100)", "name": "limit", "in": "query"},
                    {"type": "string", "description": "Only this seller's products", "name": "sellerId", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.productListResponse"}}
                }
            },
            "post": {
                "consumes": ["application/json", "multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["products"],
                "summary": "Create a product",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"description": "Product", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.createProductRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.productResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/api/products/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["products"],
                "summary": "Get a product",
                "parameters": [
                    {"type": "string", "description": "Product ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.productResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["products"],
                "summary": "Delete a product",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"type": "string", "description": "Product ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.messageResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "domain.Address": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "street": {"type": "string"},
                "city": {"type": "string"},
                "state": {"type": "string"},
                "zip": {"type": "string"},
                "country": {"type": "string"},
                "isDefault": {"type": "boolean"}
            }
        },
        "domain.FullName": {
            "type": "object",
            "properties": {
                "firstName": {"type": "string"},
                "lastName": {"type": "string"}
            }
        },
        "domain.Price": {
            "type": "object",
            "properties": {
                "amount": {"type": "number"},
                "currency": {"type": "string", "enum": ["INR", "USD"]}
            }
        },
        "domain.Product": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "price": {"$ref": "#/definitions/domain.Price"},
                "seller": {"type": "string"},
                "createdAt": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        },
        "handler.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "errors": {"type": "array", "items": {"type": "string"}}
            }
        },
        "handler.messageResponse": {
            "type": "object",
            "properties": {"message": {"type": "string"}}
        },
        "handler.registerRequest": {
            "type": "object",
            "required": ["username", "email", "password", "fullName"],
            "properties": {
                "username": {"type": "string", "minLength": 3, "maxLength": 32},
                "email": {"type": "string"},
                "password": {"type": "string", "maxLength": 72},
                "fullName": {"$ref": "#/definitions/domain.FullName"}
            }
        },
        "handler.loginRequest": {
            "type": "object",
            "required": ["password"],
            "properties": {
                "username": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "handler.userResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "username": {"type": "string"},
                "email": {"type": "string"},
                "fullName": {"$ref": "#/definitions/domain.FullName"},
                "role": {"type": "string"},
                "addresses": {"type": "array", "items": {"$ref": "#/definitions/domain.Address"}}
            }
        },
        "handler.authResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "user": {"$ref": "#/definitions/handler.userResponse"}
            }
        },
        "handler.claimsResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "username": {"type": "string"},
                "email": {"type": "string"},
                "role": {"type": "string"},
                "iat": {"type": "integer"},
                "exp": {"type": "integer"}
            }
        },
        "handler.meResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "user": {"$ref": "#/definitions/handler.claimsResponse"}
            }
        },
        "handler.addressRequest": {
            "type": "object",
            "required": ["street", "city", "state", "zip", "country"],
            "properties": {
                "street": {"type": "string"},
                "city": {"type": "string"},
                "state": {"type": "string"},
                "zip": {"type": "string"},
                "country": {"type": "string"},
                "isDefault": {"type": "boolean"}
            }
        },
        "handler.addressListResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "addresses": {"type": "array", "items": {"$ref": "#/definitions/domain.Address"}},
                "defaultAddressId": {"type": "string"}
            }
        },
        "handler.addressResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "address": {"$ref": "#/definitions/domain.Address"}
            }
        },
        "handler.addressDeleteResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "addresses": {"type": "array", "items": {"$ref": "#/definitions/domain.Address"}}
            }
        },
        "handler.createProductRequest": {
            "type": "object",
            "required": ["title", "priceAmount"],
            "properties": {
                "title": {"type": "string"},
                "description": {"type": "string"},
                "priceAmount": {"type": "number"},
                "priceCurrency": {"type": "string", "enum": ["INR", "USD"]}
            }
        },
        "handler.productResponse": {
            "type": "object",
            "properties": {"data": {"$ref": "#/definitions/domain.Product"}}
        },
        "handler.productListResponse": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/domain.Product"}},
                "total": {"type": "integer"},
                "page": {"type": "integer"},
                "limit": {"type": "integer"},
                "totalPages": {"type": "integer"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"},
        "CookieAuth": {"type": "apiKey", "name": "token", "in": "cookie"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Storefront API",
	Description:      "Auth, address book and product catalog services.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
