// Package api holds the swagger document served under /swagger.
//
// Regenerate with: swag init -g cmd/portal/main.go -o api --parseInternal
package api

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
    "tags": [
        {"name": "booking", "description": "Booking state machine and checkout"},
        {"name": "flights", "description": "Flight search, filtering and selection"},
        {"name": "hotels", "description": "Hotel room pricing panel"},
        {"name": "admin", "description": "Back-office catalogue screens"},
        {"name": "schedules", "description": "Flight schedule form"},
        {"name": "notifications", "description": "Per-session notification feed"},
        {"name": "auth", "description": "Login page context"},
        {"name": "oauth2", "description": "Social login and portal sessions"}
    ],
    "paths": {}
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Travel Portal API",
	Description:      "Backend-for-frontend of the travel booking portal and its admin back office.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
