package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Sabha Admin API",
        "description": "Attendance, follow-up calls, grocery stock and birthdays for a weekly sabha.",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": ["http", "https"],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Auth", "description": "Admin login"},
        {"name": "Attendance", "description": "Assembly attendance"},
        {"name": "Students", "description": "Sabha roster"},
        {"name": "CallLogs", "description": "Follow-up calls"},
        {"name": "Dashboard", "description": "Home page counters"},
        {"name": "Grocery", "description": "Kitchen stock and sabha menus"},
        {"name": "Notifications", "description": "Birthday reminders"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Exchange admin credentials for a bearer token",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/LoginResponse"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/attendance": {
            "get": {
                "tags": ["Attendance"],
                "summary": "List attendance records",
                "parameters": [
                    {"name": "assemblyDate", "in": "query", "type": "string"},
                    {"name": "startDate", "in": "query", "type": "string"},
                    {"name": "endDate", "in": "query", "type": "string"},
                    {"name": "studentId", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad request", "schema": {"$ref": "#/definitions/Error"}}}
            },
            "post": {
                "tags": ["Attendance"],
                "summary": "Record one attendance or bulk save a day",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AttendanceWrite"}}
                ],
                "responses": {
                    "200": {"description": "Bulk save result"},
                    "201": {"description": "Created"},
                    "400": {"description": "Bad request", "schema": {"$ref": "#/definitions/Error"}},
                    "409": {"description": "Already recorded", "schema": {"$ref": "#/definitions/Error"}}
                }
            },
            "put": {
                "tags": ["Attendance"],
                "summary": "Update an attendance record",
                "parameters": [
                    {"name": "id", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/Error"}}}
            },
            "delete": {
                "tags": ["Attendance"],
                "summary": "Delete by id, student and date, date, or everything",
                "parameters": [
                    {"name": "id", "in": "query", "type": "string"},
                    {"name": "studentId", "in": "query", "type": "string"},
                    {"name": "date", "in": "query", "type": "string"}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad request", "schema": {"$ref": "#/definitions/Error"}}}
            }
        },
        "/attendance/dates": {
            "get": {"tags": ["Attendance"], "summary": "Attendance grouped by assembly date", "responses": {"200": {"description": "OK"}}}
        },
        "/attendance/roster": {
            "get": {
                "tags": ["Attendance"],
                "summary": "One day reconciled against the active roster",
                "parameters": [{"name": "date", "in": "query", "type": "string"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/attendance/percentages": {
            "get": {"tags": ["Attendance"], "summary": "Friday attendance percentage per student", "responses": {"200": {"description": "OK"}}}
        },
        "/attendance/history": {
            "get": {
                "tags": ["Attendance"],
                "summary": "A student's attendance history",
                "parameters": [{"name": "studentId", "in": "query", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/attendance/scan": {
            "post": {"tags": ["Attendance"], "summary": "Mark the student in a scanned QR code present", "responses": {"200": {"description": "OK"}}}
        },
        "/students": {
            "get": {
                "tags": ["Students"],
                "summary": "List students",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "movedOut", "in": "query", "type": "boolean"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {"tags": ["Students"], "summary": "Create student", "responses": {"201": {"description": "Created"}}}
        },
        "/students/{id}": {
            "get": {
                "tags": ["Students"],
                "summary": "Get student",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found", "schema": {"$ref": "#/definitions/Error"}}}
            },
            "put": {
                "tags": ["Students"],
                "summary": "Replace student",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}}
            },
            "delete": {
                "tags": ["Students"],
                "summary": "Delete student with their attendance and call logs",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/students/{id}/qrcode": {
            "get": {
                "tags": ["Students"],
                "summary": "QR code used for attendance scanning",
                "produces": ["image/png"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "size", "in": "query", "type": "integer"}
                ],
                "responses": {"200": {"description": "PNG image"}}
            }
        },
        "/call-logs": {
            "get": {
                "tags": ["CallLogs"],
                "summary": "List call logs, newest first",
                "parameters": [
                    {"name": "studentId", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {"tags": ["CallLogs"], "summary": "Record a call", "responses": {"201": {"description": "Created"}}}
        },
        "/dashboard-stats": {
            "get": {"tags": ["Dashboard"], "summary": "Home page counters", "responses": {"200": {"description": "OK"}}}
        },
        "/grocery": {
            "get": {"tags": ["Grocery"], "summary": "List grocery items", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Grocery"], "summary": "Create grocery item", "responses": {"201": {"description": "Created"}}},
            "put": {
                "tags": ["Grocery"],
                "summary": "Update grocery item",
                "parameters": [{"name": "id", "in": "query", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}}
            },
            "delete": {
                "tags": ["Grocery"],
                "summary": "Delete grocery item",
                "parameters": [{"name": "id", "in": "query", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/grocery/shopping-list": {
            "get": {"tags": ["Grocery"], "summary": "Items to buy or below minimum stock", "responses": {"200": {"description": "OK"}}}
        },
        "/sabha-grocery": {
            "get": {"tags": ["Grocery"], "summary": "List sabha menu records", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["Grocery"], "summary": "Record a menu and deduct the groceries it used", "responses": {"201": {"description": "Created"}}},
            "delete": {
                "tags": ["Grocery"],
                "summary": "Delete sabha menu record",
                "parameters": [{"name": "id", "in": "query", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/notifications/birthdays": {
            "get": {"tags": ["Notifications"], "summary": "Students whose birthday is today", "responses": {"200": {"description": "OK"}}}
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["username", "password"],
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "LoginResponse": {
            "type": "object",
            "properties": {
                "access_token": {"type": "string"},
                "token_type": {"type": "string"},
                "expires_in": {"type": "integer"}
            }
        },
        "AttendanceWrite": {
            "type": "object",
            "properties": {
                "student": {"type": "string"},
                "assemblyDate": {"type": "string", "example": "2024-03-01"},
                "attended": {"type": "boolean"},
                "updates": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "student": {"type": "string"},
                            "assemblyDate": {"type": "string"},
                            "attended": {"type": "boolean"}
                        }
                    }
                }
            }
        },
        "Error": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "code": {"type": "string"}
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
