// Package docs registers the OpenAPI description served at /swagger.
// Regenerate with `swag init -g cmd/main.go` after changing handler annotations.
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
        "/student/exam/start": {
            "post": {
                "tags": ["Student - Exam"],
                "summary": "(Student) Start or resume an exam attempt",
                "parameters": [
                    {"type": "string", "name": "X-User-UID", "in": "header", "required": true},
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.StartExamRequest"}}
                ],
                "responses": {
                    "200": {"description": "Resumed attempt"},
                    "201": {"description": "New attempt"},
                    "404": {"description": "Exam not found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "422": {"description": "Exam not active", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/student/exam/answer": {
            "post": {
                "tags": ["Student - Exam"],
                "summary": "(Student) Save the answer to one question",
                "parameters": [
                    {"type": "string", "name": "X-User-UID", "in": "header", "required": true},
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.SubmitAnswerRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "422": {"description": "Attempt already finished", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/student/exam/finish": {
            "post": {
                "tags": ["Student - Exam"],
                "summary": "(Student) Finish an attempt and compute its SAW score",
                "parameters": [
                    {"type": "string", "name": "X-User-UID", "in": "header", "required": true},
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.FinishExamRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "409": {"description": "Attempt already finalized", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "503": {"description": "Store unavailable, retry later", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/student/exam/{exam_id}/questions": {
            "get": {
                "tags": ["Student - Exam"],
                "summary": "(Student) List the questions of an exam",
                "parameters": [{"type": "integer", "name": "exam_id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/student/exam/{exam_id}/status": {
            "get": {
                "tags": ["Student - Exam"],
                "summary": "(Student) Attempt status of the caller for an exam",
                "parameters": [
                    {"type": "string", "name": "X-User-UID", "in": "header", "required": true},
                    {"type": "integer", "name": "exam_id", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/student/exam/{exam_id}/ranking": {
            "get": {
                "tags": ["Student - Exam"],
                "summary": "Ranking of an exam",
                "parameters": [{"type": "integer", "name": "exam_id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "503": {"description": "Service Unavailable"}}
            }
        },
        "/exam/result/{attempt_id}": {
            "get": {
                "tags": ["Student - Exam"],
                "summary": "Detailed result of one attempt",
                "parameters": [
                    {"type": "string", "name": "X-User-UID", "in": "header", "required": true},
                    {"type": "string", "name": "X-User-Role", "in": "header"},
                    {"type": "integer", "name": "attempt_id", "in": "path", "required": true},
                    {"type": "boolean", "name": "with_feedback", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}
            }
        },
        "/admin/scoring/config": {
            "get": {
                "tags": ["Admin - Scoring"],
                "summary": "(Admin) Active SAW weights and threshold tables",
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "definitions": {
        "dto.ErrorResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "kind": {"type": "string"},
                "retryable": {"type": "boolean"},
                "details": {"type": "array", "items": {"type": "string"}}
            }
        },
        "dto.StartExamRequest": {
            "type": "object",
            "required": ["exam_id"],
            "properties": {"exam_id": {"type": "integer"}}
        },
        "dto.SubmitAnswerRequest": {
            "type": "object",
            "required": ["attempt_id", "question_id"],
            "properties": {
                "attempt_id": {"type": "integer"},
                "question_id": {"type": "integer"},
                "selected_option_id": {"type": "integer"},
                "answer_text": {"type": "string"}
            }
        },
        "dto.FinishExamRequest": {
            "type": "object",
            "required": ["attempt_id", "exam_id"],
            "properties": {
                "attempt_id": {"type": "integer"},
                "exam_id": {"type": "integer"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{"http", "https"},
	Title:            "CBT Scoring & Ranking API",
	Description:      "Computer based test sessions scored with Simple Additive Weighting and ranked per exam.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
