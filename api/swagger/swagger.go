package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Kids Academy API",
        "description": "Class enrollment backend: catalog, selections, payments",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Authentication", "description": "Access token issuance"},
        {"name": "Users", "description": "User records and roles"},
        {"name": "Classes", "description": "Class catalog and approval workflow"},
        {"name": "Selections", "description": "Pending class selections"},
        {"name": "Payments", "description": "Payment intents, enrollment, history"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "Database unavailable"}
                }
            }
        },
        "/jwt": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Issue access token",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/TokenRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/TokenResponse"}},
                    "400": {"description": "Invalid payload", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/users": {
            "get": {
                "tags": ["Users"],
                "security": [{"BearerAuth": []}],
                "summary": "List users (admin)",
                "parameters": [
                    {"name": "role", "in": "query", "type": "string"},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "sort", "in": "query", "type": "string"},
                    {"name": "order", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            },
            "post": {
                "tags": ["Users"],
                "summary": "Register user (idempotent per email)",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterUserRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/users/instructors": {
            "get": {
                "tags": ["Users"],
                "summary": "List instructors",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/users/admin/{email}": {
            "get": {
                "tags": ["Users"],
                "security": [{"BearerAuth": []}],
                "summary": "Check caller admin status",
                "parameters": [
                    {"name": "email", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/users/instructor/{email}": {
            "get": {
                "tags": ["Users"],
                "security": [{"BearerAuth": []}],
                "summary": "Check caller instructor status",
                "parameters": [
                    {"name": "email", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/users/admin/{id}": {
            "patch": {
                "tags": ["Users"],
                "security": [{"BearerAuth": []}],
                "summary": "Grant admin role (admin)",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Updated"},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            },
            "delete": {
                "tags": ["Users"],
                "security": [{"BearerAuth": []}],
                "summary": "Delete user (admin)",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/users/instructor/{id}": {
            "patch": {
                "tags": ["Users"],
                "security": [{"BearerAuth": []}],
                "summary": "Grant instructor role (admin)",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Updated"},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/popularClass": {
            "get": {
                "tags": ["Classes"],
                "summary": "List popular classes",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/allClass": {
            "get": {
                "tags": ["Classes"],
                "summary": "List all classes",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/allClass/instructor": {
            "get": {
                "tags": ["Classes"],
                "security": [{"BearerAuth": []}],
                "summary": "List caller's classes (instructor)",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/classes": {
            "post": {
                "tags": ["Classes"],
                "security": [{"BearerAuth": []}],
                "summary": "Create class (instructor)",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateClassRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid payload", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/classes/status/{id}": {
            "patch": {
                "tags": ["Classes"],
                "security": [{"BearerAuth": []}],
                "summary": "Set class status (admin)",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SetStatusRequest"}}
                ],
                "responses": {
                    "204": {"description": "Updated"},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/classes/feedback/{id}": {
            "patch": {
                "tags": ["Classes"],
                "security": [{"BearerAuth": []}],
                "summary": "Set class feedback (admin)",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SetFeedbackRequest"}}
                ],
                "responses": {
                    "204": {"description": "Updated"},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/selectedClass": {
            "get": {
                "tags": ["Selections"],
                "security": [{"BearerAuth": []}],
                "summary": "List caller's selections",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Selections"],
                "security": [{"BearerAuth": []}],
                "summary": "Select a class",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AddSelectionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Class not found", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/selectedClass/{id}": {
            "get": {
                "tags": ["Selections"],
                "security": [{"BearerAuth": []}],
                "summary": "Get one selection",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Owned by another user", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            },
            "delete": {
                "tags": ["Selections"],
                "security": [{"BearerAuth": []}],
                "summary": "Remove a selection",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "403": {"description": "Owned by another user", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/create-payment-intent": {
            "post": {
                "tags": ["Payments"],
                "security": [{"BearerAuth": []}],
                "summary": "Create payment intent",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateIntentRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/IntentResponse"}},
                    "502": {"description": "Gateway failure", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/payments": {
            "post": {
                "tags": ["Payments"],
                "security": [{"BearerAuth": []}],
                "summary": "Finalize enrollment",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/EnrollRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Class not found", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "409": {"description": "No seats available", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/enrollClass": {
            "get": {
                "tags": ["Payments"],
                "security": [{"BearerAuth": []}],
                "summary": "Caller's enrollments (payment history)",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/paymentHistory": {
            "get": {
                "tags": ["Payments"],
                "security": [{"BearerAuth": []}],
                "summary": "Caller's payment history",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/paymentHistory/export": {
            "get": {
                "tags": ["Payments"],
                "security": [{"BearerAuth": []}],
                "summary": "Download payment statement",
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"], "default": "csv"}
                ],
                "responses": {
                    "200": {"description": "Statement file"},
                    "400": {"description": "Unsupported format", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "TokenRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"}
            },
            "required": ["email"]
        },
        "TokenResponse": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "expires_in": {"type": "integer"}
            }
        },
        "RegisterUserRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "name": {"type": "string"},
                "photo_url": {"type": "string"}
            },
            "required": ["email", "name"]
        },
        "CreateClassRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "image_url": {"type": "string"},
                "price": {"type": "number"},
                "available_seats": {"type": "integer"},
                "instructor_name": {"type": "string"}
            },
            "required": ["title", "available_seats", "instructor_name"]
        },
        "SetStatusRequest": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "enum": ["approved", "rejected"]}
            },
            "required": ["status"]
        },
        "SetFeedbackRequest": {
            "type": "object",
            "properties": {
                "feedback": {"type": "string"}
            },
            "required": ["feedback"]
        },
        "AddSelectionRequest": {
            "type": "object",
            "properties": {
                "class_id": {"type": "string"}
            },
            "required": ["class_id"]
        },
        "CreateIntentRequest": {
            "type": "object",
            "properties": {
                "price": {"type": "number"}
            },
            "required": ["price"]
        },
        "IntentResponse": {
            "type": "object",
            "properties": {
                "client_secret": {"type": "string"}
            }
        },
        "EnrollRequest": {
            "type": "object",
            "properties": {
                "selected_class_id": {"type": "string"},
                "class_id": {"type": "string"},
                "class_title": {"type": "string"},
                "amount": {"type": "number"},
                "transaction_ref": {"type": "string"}
            },
            "required": ["class_id", "class_title", "transaction_ref"]
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "boolean"},
                "code": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"type": "boolean"},
                "pagination": {"$ref": "#/definitions/Pagination"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
