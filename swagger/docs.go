// Package swagger registers the ledger API document served under /swagger.
package swagger

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
    "securityDefinitions": {
        "Bearer": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/login": {
            "post": {
                "summary": "Login with CPF and password",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}],
                "responses": {"200": {"description": "token"}, "401": {"description": "CPF ou senha incorretos"}}
            }
        },
        "/register": {
            "post": {
                "summary": "Register a reader",
                "responses": {"201": {"description": "created"}, "409": {"description": "CPF ou matrícula já cadastrados"}}
            }
        },
        "/books/": {
            "get": {"summary": "List books", "responses": {"200": {"description": "books"}}},
            "post": {"summary": "Create a book", "security": [{"Bearer": []}], "responses": {"201": {"description": "created"}}}
        },
        "/books/{id}": {
            "put": {
                "summary": "Update a book",
                "security": [{"Bearer": []}],
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "updated"}, "400": {"description": "invalid copies"}}
            },
            "delete": {
                "summary": "Delete a book",
                "security": [{"Bearer": []}],
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "deleted"}, "409": {"description": "copies out"}}
            }
        },
        "/usuarios": {
            "get": {"summary": "List readers", "security": [{"Bearer": []}], "responses": {"200": {"description": "readers"}}}
        },
        "/usuarios/{cpf}": {
            "delete": {
                "summary": "Delete a reader",
                "security": [{"Bearer": []}],
                "parameters": [{"type": "string", "name": "cpf", "in": "path", "required": true}],
                "responses": {"200": {"description": "deleted"}}
            }
        },
        "/emprestimos/emprestar": {
            "post": {
                "summary": "Lend a copy on behalf of a reader",
                "security": [{"Bearer": []}],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/LoanRequest"}}],
                "responses": {"201": {"description": "loan"}, "400": {"description": "rule violation"}}
            }
        },
        "/emprestimos/emprestar-direto": {
            "post": {"summary": "Borrow a copy", "security": [{"Bearer": []}], "responses": {"201": {"description": "loan"}}}
        },
        "/emprestimos/reservar": {
            "post": {"summary": "Join the reservation queue", "security": [{"Bearer": []}], "responses": {"201": {"description": "position"}}}
        },
        "/emprestimos/cancelar-reserva": {
            "post": {"summary": "Leave the reservation queue", "security": [{"Bearer": []}], "responses": {"200": {"description": "ok"}}}
        },
        "/emprestimos/devolver": {
            "post": {"summary": "Return a copy", "security": [{"Bearer": []}], "responses": {"200": {"description": "debt and promotion"}}}
        },
        "/emprestimos/retirar-debito": {
            "post": {"summary": "Settle pending debt", "security": [{"Bearer": []}], "responses": {"200": {"description": "paid"}}}
        },
        "/emprestimos/renovar": {
            "post": {"summary": "Renew a loan", "security": [{"Bearer": []}], "responses": {"200": {"description": "new due date"}}}
        },
        "/emprestimos/debito/{cpf}": {
            "get": {
                "summary": "Reader debt",
                "security": [{"Bearer": []}],
                "parameters": [{"type": "string", "name": "cpf", "in": "path", "required": true}],
                "responses": {"200": {"description": "debt"}}
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {"cpf": {"type": "string"}, "senha": {"type": "string"}}
        },
        "LoanRequest": {
            "type": "object",
            "properties": {"cpf_leitor": {"type": "string"}, "livro_id": {"type": "integer"}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Library ledger API",
	Description:      "Loans, reservations and debts of the library.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
