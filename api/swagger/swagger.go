package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "TeachNotes API",
        "description": "Subjects and notes service for teachers with cookie sessions",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Registration, login, and logout"},
        {"name": "Subjects", "description": "Subject reads and form actions"},
        {"name": "Notes", "description": "Note reads and form actions"},
        {"name": "Dashboard", "description": "Per-teacher overview"}
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
                    "503": {"description": "Unavailable"}
                }
            }
        },
        "/auth/register": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Register a teacher account",
                "consumes": ["application/x-www-form-urlencoded"],
                "parameters": [
                    {"name": "name", "in": "formData", "type": "string", "required": true},
                    {"name": "email", "in": "formData", "type": "string", "required": true},
                    {"name": "password", "in": "formData", "type": "string", "required": true}
                ],
                "responses": {
                    "303": {"description": "Redirect to /dashboard"},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "409": {"description": "Email already registered", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate by email and password",
                "consumes": ["application/x-www-form-urlencoded"],
                "parameters": [
                    {"name": "email", "in": "formData", "type": "string", "required": true},
                    {"name": "password", "in": "formData", "type": "string", "required": true}
                ],
                "responses": {
                    "303": {"description": "Redirect to /dashboard"},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Clear the current session",
                "responses": {
                    "303": {"description": "Redirect to /login"}
                }
            }
        },
        "/api/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Describe the authenticated user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/UserInfo"}},
                    "401": {"description": "Unauthenticated", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/api/dashboard": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Current user's subjects with note counts plus recent notes",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/DashboardOverview"}},
                    "401": {"description": "Unauthenticated", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/api/subjects": {
            "get": {
                "tags": ["Subjects"],
                "summary": "List the current user's subjects",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/SubjectRef"}}},
                    "401": {"description": "Unauthenticated", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/api/subjects/all": {
            "get": {
                "tags": ["Subjects"],
                "summary": "List all subjects with teacher names and note counts",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/SubjectOverview"}}},
                    "401": {"description": "Unauthenticated", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/api/subjects/{id}": {
            "get": {
                "tags": ["Subjects"],
                "summary": "Fetch one subject with its notes (owner only)",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/SubjectDetail"}},
                    "401": {"description": "Unauthenticated", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/api/notes/{id}": {
            "get": {
                "tags": ["Notes"],
                "summary": "Fetch one note with its subject (owner only)",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/NoteDetail"}},
                    "401": {"description": "Unauthenticated", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/subjects": {
            "post": {
                "tags": ["Subjects"],
                "summary": "Create a subject owned by the current user",
                "consumes": ["application/x-www-form-urlencoded"],
                "parameters": [
                    {"name": "name", "in": "formData", "type": "string", "required": true},
                    {"name": "description", "in": "formData", "type": "string"}
                ],
                "responses": {
                    "303": {"description": "Redirect to /subjects"},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "401": {"description": "Unauthenticated", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/subjects/{id}": {
            "post": {
                "tags": ["Subjects"],
                "summary": "Update a subject (owner only)",
                "consumes": ["application/x-www-form-urlencoded"],
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "name", "in": "formData", "type": "string", "required": true},
                    {"name": "description", "in": "formData", "type": "string"}
                ],
                "responses": {
                    "303": {"description": "Redirect to the subject"},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "401": {"description": "Unauthenticated", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/subjects/{id}/delete": {
            "post": {
                "tags": ["Subjects"],
                "summary": "Delete a subject (owner only)",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "303": {"description": "Redirect to /subjects"},
                    "401": {"description": "Unauthenticated", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/notes": {
            "post": {
                "tags": ["Notes"],
                "summary": "Create a note on a subject the current user owns",
                "consumes": ["application/x-www-form-urlencoded"],
                "parameters": [
                    {"name": "title", "in": "formData", "type": "string", "required": true},
                    {"name": "content", "in": "formData", "type": "string", "required": true},
                    {"name": "topic", "in": "formData", "type": "string", "required": true},
                    {"name": "subject", "in": "formData", "type": "string", "required": true}
                ],
                "responses": {
                    "303": {"description": "Redirect to the subject"},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "401": {"description": "Unauthenticated", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "404": {"description": "Subject not found", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/notes/{id}": {
            "post": {
                "tags": ["Notes"],
                "summary": "Update a note (owner only)",
                "consumes": ["application/x-www-form-urlencoded"],
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "title", "in": "formData", "type": "string", "required": true},
                    {"name": "content", "in": "formData", "type": "string", "required": true},
                    {"name": "topic", "in": "formData", "type": "string", "required": true},
                    {"name": "subject", "in": "formData", "type": "string", "required": true}
                ],
                "responses": {
                    "303": {"description": "Redirect to the note"},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "401": {"description": "Unauthenticated", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/notes/{id}/delete": {
            "post": {
                "tags": ["Notes"],
                "summary": "Delete a note (owner only)",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "303": {"description": "Redirect to the subject"},
                    "401": {"description": "Unauthenticated", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        }
    },
    "definitions": {
        "ErrorBody": {
            "type": "object",
            "properties": {
                "error": {"type": "string"}
            }
        },
        "UserInfo": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "email": {"type": "string"},
                "full_name": {"type": "string"},
                "role": {"type": "string"}
            }
        },
        "SubjectRef": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"}
            }
        },
        "Subject": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "teacher_id": {"type": "string"},
                "name": {"type": "string"},
                "description": {"type": "string"},
                "created_at": {"type": "string", "format": "date-time"},
                "updated_at": {"type": "string", "format": "date-time"}
            }
        },
        "SubjectOverview": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "teacher_id": {"type": "string"},
                "name": {"type": "string"},
                "description": {"type": "string"},
                "teacher_name": {"type": "string"},
                "note_count": {"type": "integer"},
                "created_at": {"type": "string", "format": "date-time"},
                "updated_at": {"type": "string", "format": "date-time"}
            }
        },
        "Note": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "teacher_id": {"type": "string"},
                "subject_id": {"type": "string"},
                "title": {"type": "string"},
                "topic": {"type": "string"},
                "content": {"type": "string"},
                "created_at": {"type": "string", "format": "date-time"},
                "updated_at": {"type": "string", "format": "date-time"}
            }
        },
        "NoteDetail": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "teacher_id": {"type": "string"},
                "subject_id": {"type": "string"},
                "title": {"type": "string"},
                "topic": {"type": "string"},
                "content": {"type": "string"},
                "subject": {"$ref": "#/definitions/SubjectRef"},
                "created_at": {"type": "string", "format": "date-time"},
                "updated_at": {"type": "string", "format": "date-time"}
            }
        },
        "SubjectDetail": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "teacher_id": {"type": "string"},
                "name": {"type": "string"},
                "description": {"type": "string"},
                "notes": {"type": "array", "items": {"$ref": "#/definitions/Note"}},
                "created_at": {"type": "string", "format": "date-time"},
                "updated_at": {"type": "string", "format": "date-time"}
            }
        },
        "DashboardOverview": {
            "type": "object",
            "properties": {
                "subjects": {"type": "array", "items": {"$ref": "#/definitions/SubjectOverview"}},
                "recent_notes": {"type": "array", "items": {"$ref": "#/definitions/NoteDetail"}}
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
