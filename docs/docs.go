// Package docs registers the railbook OpenAPI document with swag
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
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"},
        "SessionID": {"type": "apiKey", "name": "X-Session-ID", "in": "header"}
    },
    "security": [{"SessionID": []}],
    "paths": {
        "/search": {
            "post": {
                "tags": ["search"],
                "summary": "Validate a journey search",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/search.SubmitSearchRequest"}}],
                "responses": {"200": {"description": "Search accepted, next step train_list"}, "400": {"description": "Missing field, same station or date too early"}}
            }
        },
        "/search/swap": {
            "post": {"tags": ["search"], "summary": "Swap origin and destination", "responses": {"200": {"description": "Swapped stations"}}}
        },
        "/search/defaults": {
            "get": {"tags": ["search"], "summary": "Minimum and default travel date", "responses": {"200": {"description": "Defaults"}}}
        },
        "/trains": {
            "get": {
                "tags": ["trains"],
                "summary": "Trains on a route",
                "parameters": [
                    {"in": "query", "name": "from", "type": "string"},
                    {"in": "query", "name": "to", "type": "string"},
                    {"in": "query", "name": "date", "type": "string", "format": "date"}
                ],
                "responses": {"200": {"description": "Offerings with fares"}}
            }
        },
        "/trains/{id}": {
            "get": {
                "tags": ["trains"],
                "summary": "Train details",
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {"200": {"description": "Offering"}, "404": {"description": "Unknown train"}}
            }
        },
        "/trains/{id}/select": {
            "post": {
                "tags": ["trains"],
                "summary": "Store the session's train selection",
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {"200": {"description": "Selected, next step booking"}, "404": {"description": "Unknown train"}}
            }
        },
        "/booking/form/passengers": {
            "post": {
                "tags": ["bookings"],
                "summary": "Append a passenger to the form",
                "parameters": [{"in": "body", "name": "body", "schema": {"$ref": "#/definitions/bookings.PassengerInput"}}],
                "responses": {"201": {"description": "Form with the new passenger"}}
            }
        },
        "/bookings": {
            "get": {"tags": ["bookings"], "summary": "Bookings of this session", "responses": {"200": {"description": "Bookings in creation order"}}},
            "post": {
                "tags": ["bookings"],
                "summary": "Submit the passenger form",
                "responses": {"201": {"description": "Booking record, next step payment"}, "404": {"description": "No train selected"}, "422": {"description": "Passenger validation failed"}}
            }
        },
        "/bookings/{pnr}/ticket": {
            "get": {
                "tags": ["bookings"],
                "summary": "PDF e-ticket",
                "produces": ["application/pdf"],
                "parameters": [{"in": "path", "name": "pnr", "type": "string", "required": true}],
                "responses": {"200": {"description": "Ticket"}, "404": {"description": "Unknown PNR"}}
            }
        },
        "/payments": {
            "post": {
                "tags": ["payments"],
                "summary": "Pay for the pending booking",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/payments.PayRequest"}}],
                "responses": {"200": {"description": "Payment completed, next step user_dashboard"}, "400": {"description": "Unknown method"}, "404": {"description": "No pending booking"}}
            }
        },
        "/auth/captcha": {
            "get": {"tags": ["auth"], "summary": "Issue a captcha", "responses": {"200": {"description": "Captcha"}}}
        },
        "/auth/login": {
            "post": {"tags": ["auth"], "summary": "Demo login", "responses": {"200": {"description": "Tokens"}, "401": {"description": "Bad credentials or captcha"}}}
        },
        "/auth/register": {
            "post": {"tags": ["auth"], "summary": "Validate a registration", "responses": {"200": {"description": "Next step login"}, "400": {"description": "First failing rule"}}}
        },
        "/dashboard/summary": {
            "get": {"tags": ["dashboard"], "security": [{"BearerAuth": []}], "summary": "Session booking summary", "responses": {"200": {"description": "Summary"}}}
        },
        "/admin/overview": {
            "get": {"tags": ["admin"], "security": [{"BearerAuth": []}], "summary": "Catalog overview", "responses": {"200": {"description": "Overview"}, "403": {"description": "Not an admin"}}}
        }
    },
    "definitions": {
        "search.SubmitSearchRequest": {
            "type": "object",
            "properties": {"from": {"type": "string"}, "to": {"type": "string"}, "date": {"type": "string", "format": "date"}}
        },
        "bookings.PassengerInput": {
            "type": "object",
            "properties": {
                "firstName": {"type": "string"},
                "lastName": {"type": "string"},
                "age": {"type": "integer", "minimum": 1, "maximum": 120},
                "mobile": {"type": "string", "pattern": "^[0-9]{10}$"},
                "berth": {"type": "string", "enum": ["side-lower", "side-upper", "lower", "middle", "upper", "side-middle"]}
            }
        },
        "payments.PayRequest": {
            "type": "object",
            "required": ["payment_method"],
            "properties": {"payment_method": {"type": "string", "enum": ["card", "upi", "netbanking", "wallet"]}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "railbook API",
	Description:      "Railway ticket booking: search, train selection, passenger form, payment stub and dashboards.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
