package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "CLC Registry API",
        "description": "Community learning college registry: sites, staff, assets, programs and the activity audit trail",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Login, token refresh and session management"},
        {"name": "Sites", "description": "College site register"},
        {"name": "Staff", "description": "Staff register"},
        {"name": "Assets", "description": "Asset inventory"},
        {"name": "Programs", "description": "Educational program register"},
        {"name": "Activities", "description": "Audit trail and recommendations"},
        {"name": "Dashboard", "description": "Aggregated summaries"},
        {"name": "Exports", "description": "CSV/PDF register exports"},
        {"name": "Users", "description": "Account management"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "Tokens issued"},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Refresh access token",
                "responses": {
                    "200": {"description": "Tokens rotated"},
                    "401": {"description": "Refresh token expired or revoked"}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Current user profile",
                "responses": {
                    "200": {"description": "Profile"},
                    "401": {"description": "Missing or invalid token"}
                }
            }
        },
        "/sites": {
            "get": {
                "tags": ["Sites"],
                "summary": "List sites",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "district", "in": "query", "type": "string"},
                    {"name": "type", "in": "query", "type": "string"},
                    {"name": "operational_status", "in": "query", "type": "string"},
                    {"name": "assessment_status", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "Site page", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Sites"],
                "summary": "Register site",
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Site id already used"}
                }
            }
        },
        "/sites/{id}": {
            "get": {
                "tags": ["Sites"],
                "summary": "Get site",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {
                    "200": {"description": "Site"},
                    "404": {"description": "Not found"}
                }
            },
            "put": {
                "tags": ["Sites"],
                "summary": "Update site (partial)",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {
                    "200": {"description": "Updated site"},
                    "404": {"description": "Not found"}
                }
            },
            "delete": {
                "tags": ["Sites"],
                "summary": "Delete site",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/sites/{id}/visit": {
            "post": {
                "tags": ["Sites"],
                "summary": "Record a site visit",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {
                    "200": {"description": "Visit recorded"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/sites/{id}/staff": {
            "get": {
                "tags": ["Sites"],
                "summary": "Staff assigned to a site",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "Staff list"}}
            }
        },
        "/sites/{id}/assets": {
            "get": {
                "tags": ["Sites"],
                "summary": "Assets assigned to a site",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "Asset list"}}
            }
        },
        "/sites/{id}/programs": {
            "get": {
                "tags": ["Sites"],
                "summary": "Programs hosted at a site",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "Program list"}}
            }
        },
        "/sites/{id}/activities": {
            "get": {
                "tags": ["Sites"],
                "summary": "Activities referencing a site",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "Activity list"}}
            }
        },
        "/staff": {
            "get": {
                "tags": ["Staff"],
                "summary": "List staff",
                "responses": {"200": {"description": "Staff page"}}
            },
            "post": {
                "tags": ["Staff"],
                "summary": "Register staff member",
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Staff id already used"}
                }
            }
        },
        "/assets": {
            "get": {
                "tags": ["Assets"],
                "summary": "List assets",
                "responses": {"200": {"description": "Asset page"}}
            },
            "post": {
                "tags": ["Assets"],
                "summary": "Register asset",
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Asset id already used"}
                }
            }
        },
        "/programs": {
            "get": {
                "tags": ["Programs"],
                "summary": "List programs",
                "responses": {"200": {"description": "Program page"}}
            },
            "post": {
                "tags": ["Programs"],
                "summary": "Register program",
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Program id already used"}
                }
            }
        },
        "/activities": {
            "get": {
                "tags": ["Activities"],
                "summary": "List activities, newest first",
                "responses": {"200": {"description": "Activity page"}}
            },
            "post": {
                "tags": ["Activities"],
                "summary": "Record an activity",
                "responses": {"201": {"description": "Created"}}
            }
        },
        "/activities/{id}/status": {
            "put": {
                "tags": ["Activities"],
                "summary": "Update recommendation status",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {
                    "200": {"description": "Updated"},
                    "409": {"description": "Not a recommendation"}
                }
            }
        },
        "/dashboard/summary": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Aggregated registry summary",
                "responses": {"200": {"description": "Summary"}}
            }
        },
        "/exports/{entity}": {
            "get": {
                "tags": ["Exports"],
                "summary": "Export a register as CSV or PDF",
                "parameters": [
                    {"name": "entity", "in": "path", "required": true, "type": "string", "enum": ["site", "staff", "asset", "program"]},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {"200": {"description": "Signed download link"}}
            }
        },
        "/exports/download/{token}": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download a generated export",
                "parameters": [{"name": "token", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "File stream"},
                    "403": {"description": "Invalid or expired token"}
                }
            }
        },
        "/users": {
            "get": {
                "tags": ["Users"],
                "summary": "List users",
                "responses": {"200": {"description": "User page"}}
            },
            "post": {
                "tags": ["Users"],
                "summary": "Provision user account",
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Username taken"}
                }
            }
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
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
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
