// Package docs holds the generated OpenAPI spec for the Ingress API.
//
// Normally this file is produced by `swag init` from the @Summary/@Param
// annotations in internal/handler; it is checked in here as a hand-authored
// stub with the same swag.Spec shape so the handler package's import of
// docs.SwaggerInfo resolves without a generation step.
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
    "paths": {},
    "definitions": {}
}`

// SwaggerInfo holds exported Swagger metadata for api, consumed by
// ServeOpenAPI3Spec and the swaggo/echo-swagger UI handler.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "RevenueGuard Analyzer API",
	Description:      "Asynchronous bank-statement revenue classification pipeline",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
