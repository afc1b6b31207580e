package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Registration Relay API",
        "description": "Validates registration form submissions and relays them to the workflow webhook",
        "version": "0.1.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Registration", "description": "Registration relay"}
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
                    "200": {"description": "Ready"}
                }
            }
        },
        "/api/submit-registration": {
            "post": {
                "tags": ["Registration"],
                "summary": "Submit a registration",
                "description": "Validates the registration and forwards it to the workflow webhook",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {
                        "in": "body",
                        "name": "payload",
                        "required": true,
                        "schema": {"$ref": "#/definitions/RegistrationPayload"}
                    }
                ],
                "responses": {
                    "200": {"description": "Forwarded", "schema": {"$ref": "#/definitions/SuccessBody"}},
                    "400": {"description": "Missing fields or rejected by the webhook", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "405": {"description": "Method not allowed", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "408": {"description": "Webhook timeout", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "500": {"description": "Uncategorised failure", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "502": {"description": "Webhook missing or failing", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "503": {"description": "Webhook unreachable", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/api/test-webhook": {
            "get": {
                "tags": ["Registration"],
                "summary": "Probe the workflow webhook",
                "description": "Sends a fixed sample registration to the webhook. Enabled with ENABLE_WEBHOOK_TEST.",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "Webhook answered", "schema": {"$ref": "#/definitions/WebhookProbeResult"}},
                    "405": {"description": "Method not allowed", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "500": {"description": "Webhook test failed", "schema": {"$ref": "#/definitions/WebhookProbeResult"}}
                }
            }
        },
        "/metrics": {
            "get": {
                "summary": "Prometheus metrics",
                "produces": ["text/plain"],
                "responses": {
                    "200": {"description": "Metrics exposition"}
                }
            }
        }
    },
    "definitions": {
        "RegistrationPayload": {
            "type": "object",
            "required": ["fullName", "guardianName", "classGrade", "language", "location", "emailAddress", "password"],
            "properties": {
                "fullName": {"type": "string"},
                "guardianName": {"type": "string"},
                "classGrade": {"type": "string", "enum": ["1st Grade", "2nd Grade", "3rd Grade", "4th Grade", "5th Grade", "6th Grade", "7th Grade", "8th Grade", "9th Grade", "10th Grade", "11th Grade", "12th Grade"]},
                "language": {"type": "string", "enum": ["English", "Hindi", "Spanish", "French", "German", "Chinese", "Japanese", "Other"]},
                "location": {"type": "string"},
                "emailAddress": {"type": "string", "format": "email"},
                "password": {"type": "string", "format": "password", "minLength": 6}
            }
        },
        "SuccessBody": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "data": {"type": "object"}
            }
        },
        "ErrorBody": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "missingFields": {"type": "array", "items": {"type": "string"}}
            }
        },
        "WebhookProbeResult": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
                "error": {"type": "string"},
                "webhookStatus": {"type": "integer"},
                "webhookData": {"type": "object"},
                "details": {
                    "type": "object",
                    "properties": {
                        "code": {"type": "string"},
                        "message": {"type": "string"},
                        "status": {"type": "integer"},
                        "statusText": {"type": "string"},
                        "data": {"type": "object"}
                    }
                }
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
