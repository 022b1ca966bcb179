// Package docs holds the OpenAPI document served at /api/v1/swagger/doc.json.
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
        "/samples": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["samples"],
                "summary": "Ingest one sample",
                "parameters": [
                    {"in": "body", "name": "sample", "required": true, "schema": {"$ref": "#/definitions/resources.SampleRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.IngestResult"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.APIError"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/errors.APIError"}}
                }
            }
        },
        "/incubators/{id}/readings": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["samples"],
                "summary": "Ingest paired sensor readings",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "readings", "required": true, "schema": {"$ref": "#/definitions/resources.ReadingsRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.IngestResult"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.APIError"}}
                }
            }
        },
        "/incubators/{id}/thresholds": {
            "get": {
                "produces": ["application/json"],
                "tags": ["thresholds"],
                "summary": "Get the threshold config of an incubator",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.ThresholdConfig"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errors.APIError"}}
                }
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["thresholds"],
                "summary": "Replace the threshold config of an incubator",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "thresholds", "required": true, "schema": {"$ref": "#/definitions/resources.ThresholdRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.ThresholdConfig"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.APIError"}}
                }
            }
        },
        "/components/{id}/state": {
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["components"],
                "summary": "Set an actuator state",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "state", "required": true, "schema": {"$ref": "#/definitions/resources.StateRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.ActuatorAck"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.APIError"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errors.APIError"}}
                }
            }
        },
        "/components": {
            "get": {
                "produces": ["application/json"],
                "tags": ["components"],
                "summary": "List components",
                "parameters": [{"type": "integer", "name": "incubatorId", "in": "query"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.ComponentList"}}}
            }
        },
        "/incubators/{id}/status": {
            "get": {
                "produces": ["application/json"],
                "tags": ["incubators"],
                "summary": "Incubator status",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.IncubatorStatus"}}}
            }
        },
        "/incubators/{id}/actuators": {
            "get": {
                "produces": ["application/json"],
                "tags": ["incubators"],
                "summary": "Actuator states",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.ActuatorStates"}}}
            }
        },
        "/incubators/{id}/aggregate": {
            "get": {
                "produces": ["application/json"],
                "tags": ["incubators"],
                "summary": "Bucketed averages",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"type": "string", "name": "kind", "in": "query", "required": true},
                    {"type": "string", "name": "windowStart", "in": "query", "required": true},
                    {"type": "string", "name": "windowEnd", "in": "query", "required": true},
                    {"type": "integer", "name": "bucketMinutes", "in": "query", "required": true},
                    {"type": "integer", "name": "componentId", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.AggregateBucket"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.APIError"}}
                }
            }
        },
        "/incubators/{id}/alerts": {
            "get": {
                "produces": ["application/json"],
                "tags": ["incubators"],
                "summary": "Alert history",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"type": "string", "name": "windowStart", "in": "query"},
                    {"type": "string", "name": "windowEnd", "in": "query"},
                    {"type": "string", "name": "date", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.AlertHistory"}}}
            }
        },
        "/incubators/{id}/export.xlsx": {
            "get": {
                "produces": ["application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "tags": ["incubators"],
                "summary": "Export history as xlsx",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"type": "string", "name": "windowStart", "in": "query"},
                    {"type": "string", "name": "windowEnd", "in": "query"},
                    {"type": "string", "name": "date", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"type": "file"}}}
            }
        }
    },
    "definitions": {
        "errors.APIError": {
            "type": "object",
            "properties": {
                "type": {"type": "string"},
                "message": {"type": "string"},
                "code": {"type": "integer"},
                "retryable": {"type": "boolean"},
                "request_id": {"type": "string"},
                "details": {}
            }
        },
        "resources.SampleRequest": {
            "type": "object",
            "properties": {
                "incubator_id": {"type": "integer"},
                "component_id": {"type": "integer"},
                "kind": {"type": "string", "enum": ["temperature", "humidity"]},
                "value": {"type": "number"},
                "timestamp": {"type": "string", "format": "date-time"}
            }
        },
        "resources.ReadingsRequest": {
            "type": "object",
            "properties": {
                "timestamp": {"type": "string", "format": "date-time"},
                "sensors": {"type": "array", "items": {"$ref": "#/definitions/models.SensorPair"}}
            }
        },
        "resources.ThresholdRequest": {
            "type": "object",
            "properties": {
                "temp_min": {"type": "number"},
                "temp_max": {"type": "number"},
                "humidity_min": {"type": "number"},
                "humidity_max": {"type": "number"}
            }
        },
        "resources.StateRequest": {
            "type": "object",
            "properties": {
                "state": {"type": "boolean"},
                "incubator_id": {"type": "integer"},
                "occurred_at": {"type": "string", "format": "date-time"}
            }
        },
        "models.SensorPair": {
            "type": "object",
            "properties": {
                "component_id": {"type": "integer"},
                "temperature": {"type": "number"},
                "humidity": {"type": "number"}
            }
        },
        "models.Sample": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "incubator_id": {"type": "integer"},
                "component_id": {"type": "integer"},
                "kind": {"type": "string"},
                "value": {"type": "number"},
                "timestamp": {"type": "string", "format": "date-time"}
            }
        },
        "models.AlertRecord": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "incubator_id": {"type": "integer"},
                "component_id": {"type": "integer"},
                "kind": {"type": "string"},
                "value": {"type": "number"},
                "threshold": {"type": "number"},
                "direction": {"type": "string", "enum": ["exceeds", "below"]},
                "timestamp": {"type": "string", "format": "date-time"}
            }
        },
        "models.ActivationRecord": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "incubator_id": {"type": "integer"},
                "component_id": {"type": "integer"},
                "timestamp": {"type": "string", "format": "date-time"}
            }
        },
        "models.IngestResult": {
            "type": "object",
            "properties": {
                "sample": {"$ref": "#/definitions/models.Sample"},
                "alert": {"$ref": "#/definitions/models.AlertRecord"},
                "evaluation_error": {"type": "string"}
            }
        },
        "models.ThresholdConfig": {
            "type": "object",
            "properties": {
                "incubator_id": {"type": "integer"},
                "temp_min": {"type": "number"},
                "temp_max": {"type": "number"},
                "humidity_min": {"type": "number"},
                "humidity_max": {"type": "number"},
                "updated_at": {"type": "string", "format": "date-time"}
            }
        },
        "models.Component": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "incubator_id": {"type": "integer"},
                "name": {"type": "string"},
                "kind": {"type": "string", "enum": ["sensor", "actuator"]},
                "state": {"type": "boolean"},
                "updated_at": {"type": "string", "format": "date-time"}
            }
        },
        "models.ComponentList": {
            "type": "object",
            "properties": {
                "components": {"type": "array", "items": {"$ref": "#/definitions/models.Component"}},
                "degraded": {"type": "boolean"}
            }
        },
        "models.ActuatorAck": {
            "type": "object",
            "properties": {
                "component_id": {"type": "integer"},
                "incubator_id": {"type": "integer"},
                "state": {"type": "boolean"},
                "previous": {"type": "boolean"},
                "activation": {"$ref": "#/definitions/models.ActivationRecord"}
            }
        },
        "models.ActuatorStates": {
            "type": "object",
            "properties": {
                "incubator_id": {"type": "integer"},
                "fan": {"type": "boolean"},
                "heater": {"type": "boolean"},
                "humidifier": {"type": "boolean"}
            }
        },
        "models.SensorReading": {
            "type": "object",
            "properties": {
                "component_id": {"type": "integer"},
                "value": {"type": "number"},
                "timestamp": {"type": "string", "format": "date-time"}
            }
        },
        "models.ReadingSummary": {
            "type": "object",
            "properties": {
                "kind": {"type": "string"},
                "sensors": {"type": "array", "items": {"$ref": "#/definitions/models.SensorReading"}},
                "average": {"type": "number"}
            }
        },
        "models.IncubatorStatus": {
            "type": "object",
            "properties": {
                "incubator_id": {"type": "integer"},
                "temperature": {"$ref": "#/definitions/models.ReadingSummary"},
                "humidity": {"$ref": "#/definitions/models.ReadingSummary"},
                "actuators": {"type": "array", "items": {"$ref": "#/definitions/models.Component"}},
                "degraded": {"type": "boolean"},
                "updated_at": {"type": "string", "format": "date-time"}
            }
        },
        "models.AggregateBucket": {
            "type": "object",
            "properties": {
                "start": {"type": "string", "format": "date-time"},
                "average": {"type": "number"},
                "count": {"type": "integer"}
            }
        },
        "models.AlertHistory": {
            "type": "object",
            "properties": {
                "incubator_id": {"type": "integer"},
                "window_start": {"type": "string", "format": "date-time"},
                "window_end": {"type": "string", "format": "date-time"},
                "alerts": {"type": "array", "items": {"$ref": "#/definitions/models.AlertRecord"}},
                "activations": {"type": "array", "items": {"$ref": "#/definitions/models.ActivationRecord"}},
                "totals": {
                    "type": "object",
                    "properties": {
                        "alerts": {"type": "integer"},
                        "activations": {"type": "integer"}
                    }
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Mosca Hub API",
	Description:      "Incubator monitoring: sample ingest, threshold alerts, actuator control and history.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
