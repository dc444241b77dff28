// Package docs holds the OpenAPI description served under /swagger.
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
        "/tournaments": {
            "post": {"tags": ["tournaments"], "summary": "Create a tournament", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}
        },
        "/tournaments/{tournamentID}": {
            "get": {"tags": ["tournaments"], "summary": "Tournament overview", "parameters": [{"$ref": "#/parameters/tournamentID"}], "responses": {"200": {"description": "OK"}}}
        },
        "/tournaments/{tournamentID}/teams": {
            "get": {"tags": ["teams"], "summary": "List registered teams", "parameters": [{"$ref": "#/parameters/tournamentID"}], "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["teams"], "summary": "Register a team", "parameters": [{"$ref": "#/parameters/tournamentID"}], "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}, "409": {"description": "Name taken or league running"}}}
        },
        "/tournaments/{tournamentID}/teams/{teamID}": {
            "delete": {"tags": ["teams"], "summary": "Remove a team and its fixtures", "parameters": [{"$ref": "#/parameters/tournamentID"}, {"name": "teamID", "in": "path", "required": true, "type": "integer"}], "security": [{"BearerAuth": []}], "responses": {"204": {"description": "No Content"}}}
        },
        "/tournaments/{tournamentID}/league/start": {
            "post": {"tags": ["league"], "summary": "Generate and store the round-robin schedule", "parameters": [{"$ref": "#/parameters/tournamentID"}], "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}, "422": {"description": "Fewer than two teams"}}}
        },
        "/tournaments/{tournamentID}/league/schedule": {
            "get": {"tags": ["league"], "summary": "Full schedule with results so far", "parameters": [{"$ref": "#/parameters/tournamentID"}], "responses": {"200": {"description": "OK"}}}
        },
        "/tournaments/{tournamentID}/league/current": {
            "get": {"tags": ["league"], "summary": "Fixture waiting for a result", "parameters": [{"$ref": "#/parameters/tournamentID"}], "responses": {"200": {"description": "OK"}}}
        },
        "/tournaments/{tournamentID}/league/results": {
            "post": {"tags": ["league"], "summary": "Record the score of the current fixture", "parameters": [{"$ref": "#/parameters/tournamentID"}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "409": {"description": "Out of sequence or league complete"}, "422": {"description": "Negative score or rest fixture"}}}
        },
        "/tournaments/{tournamentID}/league/standings": {
            "get": {"tags": ["league"], "summary": "Ranked league table", "parameters": [{"$ref": "#/parameters/tournamentID"}], "responses": {"200": {"description": "OK"}}}
        },
        "/tournaments/{tournamentID}/qualifiers": {
            "get": {"tags": ["knockout"], "summary": "Top teams of the stored league table", "parameters": [{"$ref": "#/parameters/tournamentID"}, {"name": "count", "in": "query", "required": true, "type": "integer"}], "responses": {"200": {"description": "OK"}, "422": {"description": "Invalid count"}}}
        },
        "/tournaments/{tournamentID}/bracket": {
            "get": {"tags": ["knockout"], "summary": "Current bracket state", "parameters": [{"$ref": "#/parameters/tournamentID"}], "responses": {"200": {"description": "OK"}}}
        },
        "/tournaments/{tournamentID}/bracket/manual": {
            "post": {"tags": ["knockout"], "summary": "Seed from chosen teams, shuffled and padded with byes", "parameters": [{"$ref": "#/parameters/tournamentID"}], "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}
        },
        "/tournaments/{tournamentID}/bracket/ranked": {
            "post": {"tags": ["knockout"], "summary": "Seed from the league qualifiers, 1 vs N", "parameters": [{"$ref": "#/parameters/tournamentID"}], "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}
        },
        "/tournaments/{tournamentID}/bracket/winner": {
            "post": {"tags": ["knockout"], "summary": "Report the winner of a pairing", "parameters": [{"$ref": "#/parameters/tournamentID"}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "409": {"description": "Invalid pairing"}}}
        },
        "/tournaments/{tournamentID}/bracket/reset": {
            "post": {"tags": ["knockout"], "summary": "Clear the knockout bracket", "parameters": [{"$ref": "#/parameters/tournamentID"}], "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}
        }
    },
    "parameters": {
        "tournamentID": {"name": "tournamentID", "in": "path", "required": true, "type": "string", "format": "uuid"}
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Tournament Manager API",
	Description:      "Round-robin league with a single-elimination knockout.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
