// Package docs holds the Swagger 2.0 description served under /swagger.
// It follows the @Router annotations on the credit handlers; keep the two in
// step or rebuild it with go generate ./cmd/credit_backend when swag is installed.
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
        "/credit": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["credit"],
                "summary": "List credit profiles",
                "parameters": [
                    {"enum": ["ACTIVE", "SUSPENDED", "PENDING", "EXPIRED"], "type": "string", "name": "status", "in": "query"},
                    {"type": "integer", "default": 20, "name": "limit", "in": "query"},
                    {"type": "integer", "default": 0, "name": "offset", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Invalid query parameters"}, "403": {"description": "Forbidden"}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["credit"],
                "summary": "Create a credit profile",
                "parameters": [{"name": "profile", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.CreateCreditProfileRequest"}}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Validation error"}, "404": {"description": "Client not found"}, "409": {"description": "Credit profile already exists"}}
            }
        },
        "/credit/{clientId}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["credit"],
                "summary": "Get a credit profile",
                "parameters": [{"type": "string", "name": "clientId", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Credit profile not found"}}
            }
        },
        "/credit/{clientId}/summary": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["credit"],
                "summary": "Get a credit summary",
                "parameters": [{"type": "string", "name": "clientId", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Credit profile not found"}}
            }
        },
        "/credit/{clientId}/transactions": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["credit"],
                "summary": "List credit transactions",
                "parameters": [
                    {"type": "string", "name": "clientId", "in": "path", "required": true},
                    {"type": "integer", "name": "limit", "in": "query"},
                    {"type": "integer", "name": "offset", "in": "query"},
                    {"type": "string", "name": "type", "in": "query"},
                    {"type": "string", "name": "nextToken", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Invalid query parameters"}}
            }
        },
        "/credit/{clientId}/statement": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/pdf", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "tags": ["credit"],
                "summary": "Export a credit statement",
                "parameters": [
                    {"type": "string", "name": "clientId", "in": "path", "required": true},
                    {"enum": ["pdf", "xlsx"], "type": "string", "default": "pdf", "name": "format", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"type": "file"}}, "400": {"description": "Unsupported format"}}
            }
        },
        "/credit/{clientId}/verify": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["credit"],
                "summary": "Verify a credit ledger",
                "parameters": [{"type": "string", "name": "clientId", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/credit/{clientId}/payment": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["credit"],
                "summary": "Record a payment",
                "parameters": [
                    {"type": "string", "name": "clientId", "in": "path", "required": true},
                    {"name": "payment", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.RecordPaymentRequest"}}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Invalid amount"}, "409": {"description": "Concurrent modification"}}
            }
        },
        "/credit/{clientId}/purchase": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["credit"],
                "summary": "Record a purchase",
                "parameters": [
                    {"type": "string", "name": "clientId", "in": "path", "required": true},
                    {"name": "purchase", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.RecordPurchaseRequest"}}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Invalid amount, insufficient credit or inactive account"}}
            }
        },
        "/credit/{clientId}/adjust": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["credit"],
                "summary": "Apply a manual adjustment",
                "parameters": [
                    {"type": "string", "name": "clientId", "in": "path", "required": true},
                    {"name": "adjustment", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.ApplyAdjustmentRequest"}}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Invalid type, missing reason or negative balance"}}
            }
        },
        "/credit/{clientId}/interest": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["credit"],
                "summary": "Accrue interest",
                "parameters": [
                    {"type": "string", "name": "clientId", "in": "path", "required": true},
                    {"name": "interest", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.AccrueInterestRequest"}}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Invalid period or nothing to accrue"}}
            }
        },
        "/credit/{clientId}/status": {
            "patch": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["credit"],
                "summary": "Update credit status",
                "parameters": [
                    {"type": "string", "name": "clientId", "in": "path", "required": true},
                    {"name": "status", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.UpdateCreditStatusRequest"}}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Invalid status or transition"}}
            }
        }
    },
    "definitions": {
        "dto.CreateCreditProfileRequest": {
            "type": "object",
            "required": ["clientId"],
            "properties": {
                "clientId": {"type": "string"},
                "creditLimit": {"type": "number"},
                "paymentTerms": {"type": "string", "enum": ["NET15", "NET30", "NET45", "NET60", "NET90", "COD", "PREPAID", "CUSTOM"]},
                "paymentTermDays": {"type": "integer"},
                "interestRate": {"type": "number"}
            }
        },
        "dto.RecordPaymentRequest": {
            "type": "object",
            "properties": {
                "amount": {"type": "number"},
                "paymentMethod": {"type": "string", "enum": ["BANK_TRANSFER", "CREDIT_CARD", "DEBIT_CARD", "CHECK", "CASH", "WIRE"]},
                "reference": {"type": "string"},
                "notes": {"type": "string"}
            }
        },
        "dto.RecordPurchaseRequest": {
            "type": "object",
            "properties": {
                "amount": {"type": "number"},
                "description": {"type": "string"},
                "reference": {"type": "string"}
            }
        },
        "dto.ApplyAdjustmentRequest": {
            "type": "object",
            "properties": {
                "type": {"type": "string", "enum": ["CREDIT", "DEBIT", "WRITE_OFF", "FEE", "REFUND"]},
                "amount": {"type": "number"},
                "reason": {"type": "string"}
            }
        },
        "dto.AccrueInterestRequest": {
            "type": "object",
            "required": ["days"],
            "properties": {
                "days": {"type": "integer", "minimum": 1, "maximum": 366}
            }
        },
        "dto.UpdateCreditStatusRequest": {
            "type": "object",
            "required": ["status"],
            "properties": {
                "status": {"type": "string", "enum": ["ACTIVE", "SUSPENDED", "PENDING", "EXPIRED"]},
                "reason": {"type": "string"}
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

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Credit Ledger API",
	Description:      "Per-client revolving credit lines backed by an append-only ledger.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
