// Package docs registers the OpenAPI document served under /swagger/.
// Regenerate with: swag init -g internal/transport/http/http.go
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
        "/": {
            "get": {
                "description": "Returns the capability document when JSON is requested, otherwise the HTML form.",
                "produces": ["application/json", "text/html"],
                "tags": ["synthesis"],
                "summary": "API info or HTML form",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/message.Info"}
                    }
                }
            },
            "post": {
                "description": "Clones the selected speaker's voice. Form and query values take precedence over JSON body fields.\nresponse_type=url returns a link, base64 embeds the audio, file streams the WAV bytes.",
                "consumes": ["application/json", "application/x-www-form-urlencoded", "multipart/form-data"],
                "produces": ["application/json", "audio/wav", "text/html"],
                "tags": ["synthesis"],
                "summary": "Synthesize speech",
                "parameters": [
                    {
                        "description": "Synthesis request (JSON)",
                        "name": "request",
                        "in": "body",
                        "schema": {"$ref": "#/definitions/message.Request"}
                    },
                    {"type": "string", "description": "Text to convert to speech", "name": "text", "in": "formData"},
                    {"type": "string", "description": "Language code", "name": "language", "in": "formData"},
                    {"type": "string", "description": "Speaker display name or file key", "name": "speaker", "in": "formData"},
                    {
                        "enum": ["url", "base64", "file"],
                        "type": "string",
                        "description": "url, base64 or file",
                        "name": "response_type",
                        "in": "formData"
                    },
                    {"type": "string", "description": "Echoed back in the response", "name": "trackingid", "in": "formData"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/message.Response"}},
                    "400": {"description": "Invalid request", "schema": {"$ref": "#/definitions/message.Error"}},
                    "404": {"description": "Unknown speaker or language", "schema": {"$ref": "#/definitions/message.Error"}},
                    "413": {"description": "Request body too large", "schema": {"$ref": "#/definitions/message.Error"}},
                    "500": {"description": "Synthesis failed", "schema": {"$ref": "#/definitions/message.Error"}}
                }
            }
        },
        "/speakers": {
            "get": {
                "produces": ["application/json"],
                "tags": ["speakers"],
                "summary": "List all speakers",
                "responses": {
                    "200": {
                        "description": "Language code to speaker display names",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {"type": "array", "items": {"type": "string"}}
                        }
                    },
                    "404": {"description": "Speakers directory not found", "schema": {"$ref": "#/definitions/message.Error"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/message.Error"}}
                }
            }
        },
        "/speakers/{language}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["speakers"],
                "summary": "List speakers of a language",
                "parameters": [
                    {"type": "string", "description": "Language code", "name": "language", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/message.LanguageSpeakers"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/message.LanguageNotFound"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/message.Error"}}
                }
            }
        },
        "/static/audio/{name}": {
            "get": {
                "produces": ["audio/wav"],
                "tags": ["synthesis"],
                "summary": "Download generated audio",
                "parameters": [
                    {"type": "string", "description": "Artifact file name", "name": "name", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            }
        }
    },
    "definitions": {
        "message.Error": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        },
        "message.LanguageNotFound": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "available_languages": {"type": "array", "items": {"type": "string"}}
            }
        },
        "message.LanguageSpeakers": {
            "type": "object",
            "properties": {
                "language": {"type": "string"},
                "speakers": {"type": "array", "items": {"type": "string"}}
            }
        },
        "message.Info": {
            "type": "object",
            "properties": {
                "info": {"type": "string"},
                "methods": {"type": "object"}
            }
        },
        "message.Request": {
            "type": "object",
            "properties": {
                "text": {"type": "string"},
                "language": {"type": "string"},
                "speaker": {"type": "string"},
                "response_type": {"type": "string", "enum": ["url", "base64", "file"]},
                "trackingid": {"type": "string"}
            }
        },
        "message.Response": {
            "type": "object",
            "properties": {
                "text": {"type": "string"},
                "format": {"type": "string"},
                "url": {"type": "string"},
                "audio_data": {"type": "string"},
                "encoding": {"type": "string"},
                "trackingid": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "FlexTTS API",
	Description:      "Voice-cloning text-to-speech over HTTP.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
