package openapi

import (
	"encoding/json"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
)

// Handler serves the OpenAPI 3.1 document for the admin console API. The
// surface is fixed, so the document is built once and reused.
type Handler struct {
	doc *openapi3.T
}

// NewHandler creates a Handler with the document pre-built.
func NewHandler() *Handler {
	return &Handler{doc: BuildSpec()}
}

// ServeSpec writes the OpenAPI document as JSON.
// GET /openapi.json
func (h *Handler) ServeSpec(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(h.doc)
}

// BuildSpec assembles the OpenAPI 3.1 description of the admin console API.
func BuildSpec() *openapi3.T {
	doc := &openapi3.T{
		OpenAPI: "3.1.0",
		Info: &openapi3.Info{
			Title:       "EventSathi Admin API",
			Description: "Session management, sub-admin accounts, and vendor/customer moderation for the EventSathi marketplace.",
			Version:     "1.0.0",
		},
		Servers: openapi3.Servers{
			{URL: "/api/v1/admin"},
		},
	}

	components := openapi3.NewComponents()
	components.Schemas = openapi3.Schemas{}
	components.SecuritySchemes = openapi3.SecuritySchemes{}
	doc.Components = &components

	// Sessions authenticate with `Authorization: AdminToken <token>`, which
	// OpenAPI models as an apiKey in the Authorization header.
	doc.Components.SecuritySchemes["adminToken"] = &openapi3.SecuritySchemeRef{
		Value: &openapi3.SecurityScheme{
			Type:        "apiKey",
			In:          "header",
			Name:        "Authorization",
			Description: "AdminToken <session token>",
		},
	}
	doc.Security = openapi3.SecurityRequirements{{"adminToken": {}}}

	doc.Components.Schemas["ErrorResponse"] = &openapi3.SchemaRef{
		Value: &openapi3.Schema{
			Type: &openapi3.Types{"object"},
			Properties: openapi3.Schemas{
				"error": objectSchema(openapi3.Schemas{
					"code":    typeSchema("integer"),
					"message": typeSchema("string"),
					"context": typeSchema("object"),
				}),
			},
		},
	}
	doc.Components.Schemas["SubAdmin"] = objectSchema(openapi3.Schemas{
		"id":            typeSchema("integer"),
		"email":         typeSchema("string"),
		"admin_type":    typeSchema("string"),
		"is_active":     typeSchema("boolean"),
		"created_by":    typeSchema("integer"),
		"last_login_at": typeSchema("string"),
		"created_at":    typeSchema("string"),
	})
	doc.Components.Schemas["LoginResponse"] = objectSchema(openapi3.Schemas{
		"token":      typeSchema("string"),
		"admin_type": typeSchema("string"),
		"email":      typeSchema("string"),
		"expires_at": typeSchema("string"),
	})
	doc.Components.Schemas["ActionResult"] = objectSchema(openapi3.Schemas{
		"success":   typeSchema("boolean"),
		"message":   typeSchema("string"),
		"action_id": typeSchema("integer"),
	})

	doc.Paths = openapi3.NewPaths()

	doc.Paths.Set("/session", &openapi3.PathItem{
		Post: &openapi3.Operation{
			OperationID: "login",
			Summary:     "Log in and open an admin session",
			Security:    &openapi3.SecurityRequirements{},
			RequestBody: jsonBody(objectSchema(openapi3.Schemas{
				"email":    typeSchema("string"),
				"password": typeSchema("string"),
			})),
			Responses: responses(map[int]string{
				200: "Session opened",
				400: "Missing email or password",
				401: "Invalid credentials",
			}),
		},
		Delete: &openapi3.Operation{
			OperationID: "logout",
			Summary:     "Deactivate the presented session",
			Responses: responses(map[int]string{
				200: "Logged out",
				400: "Unknown session token",
				401: "Authentication required",
			}),
		},
	})

	doc.Paths.Set("/sub-admins", &openapi3.PathItem{
		Get: &openapi3.Operation{
			OperationID: "listSubAdmins",
			Summary:     "List subordinate admin accounts (top admin only)",
			Responses: responses(map[int]string{
				200: "Sub-admin list",
				401: "Authentication required",
				403: "Top admin access required",
			}),
		},
		Post: &openapi3.Operation{
			OperationID: "createSubAdmin",
			Summary:     "Create a subordinate admin account (top admin only)",
			RequestBody: jsonBody(objectSchema(openapi3.Schemas{
				"email":    typeSchema("string"),
				"password": typeSchema("string"),
			})),
			Responses: responses(map[int]string{
				201: "Sub-admin created",
				400: "Validation failure or duplicate email",
				401: "Authentication required",
				403: "Top admin access required",
			}),
		},
		Delete: &openapi3.Operation{
			OperationID: "removeSubAdmin",
			Summary:     "Remove a subordinate admin account (top admin only)",
			RequestBody: jsonBody(objectSchema(openapi3.Schemas{
				"email": typeSchema("string"),
			})),
			Responses: responses(map[int]string{
				200: "Sub-admin removed",
				401: "Authentication required",
				403: "Top admin access required",
				404: "No subordinate with that email",
			}),
		},
	})

	doc.Paths.Set("/vendors", &openapi3.PathItem{
		Get: &openapi3.Operation{
			OperationID: "listVendors",
			Summary:     "List vendors with booking aggregates and moderation flags",
			Parameters: openapi3.Parameters{
				queryParam("search", "Free-text match on business name, vendor name, and email"),
				queryParam("subscription_plan", "Restrict to vendors on this plan"),
			},
			Responses: responses(map[int]string{
				200: "Vendor list",
				401: "Authentication required",
			}),
		},
	})
	doc.Paths.Set("/vendors/action", &openapi3.PathItem{
		Post: &openapi3.Operation{
			OperationID: "vendorAction",
			Summary:     "Block, unblock, or remove a vendor",
			RequestBody: jsonBody(objectSchema(openapi3.Schemas{
				"vendor_id":   typeSchema("string"),
				"action_type": typeSchema("string"),
				"reason":      typeSchema("string"),
			})),
			Responses: responses(map[int]string{
				200: "Action recorded and applied",
				400: "Missing fields or invalid action type",
				401: "Authentication required",
				404: "Vendor not found",
			}),
		},
	})

	doc.Paths.Set("/customers", &openapi3.PathItem{
		Get: &openapi3.Operation{
			OperationID: "listCustomers",
			Summary:     "List customers with booking aggregates and moderation flags",
			Parameters: openapi3.Parameters{
				queryParam("search", "Free-text match on first name, last name, and email"),
			},
			Responses: responses(map[int]string{
				200: "Customer list",
				401: "Authentication required",
			}),
		},
	})
	doc.Paths.Set("/customers/action", &openapi3.PathItem{
		Post: &openapi3.Operation{
			OperationID: "customerAction",
			Summary:     "Block, unblock, or remove a customer",
			RequestBody: jsonBody(objectSchema(openapi3.Schemas{
				"customer_id": typeSchema("string"),
				"action_type": typeSchema("string"),
				"reason":      typeSchema("string"),
			})),
			Responses: responses(map[int]string{
				200: "Action recorded and applied",
				400: "Missing fields or invalid action type",
				401: "Authentication required",
				404: "Customer not found",
			}),
		},
	})

	doc.Paths.Set("/dashboard-stats", &openapi3.PathItem{
		Get: &openapi3.Operation{
			OperationID: "dashboardStats",
			Summary:     "Aggregate counts plus the most recent moderation actions",
			Responses: responses(map[int]string{
				200: "Dashboard data",
				401: "Authentication required",
			}),
		},
	})

	return doc
}

func typeSchema(t string) *openapi3.SchemaRef {
	return &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{t}}}
}

func objectSchema(props openapi3.Schemas) *openapi3.SchemaRef {
	return &openapi3.SchemaRef{Value: &openapi3.Schema{
		Type:       &openapi3.Types{"object"},
		Properties: props,
	}}
}

func jsonBody(schema *openapi3.SchemaRef) *openapi3.RequestBodyRef {
	return &openapi3.RequestBodyRef{
		Value: openapi3.NewRequestBody().
			WithRequired(true).
			WithContent(openapi3.NewContentWithJSONSchemaRef(schema)),
	}
}

func queryParam(name, description string) *openapi3.ParameterRef {
	p := openapi3.NewQueryParameter(name)
	p.Description = description
	p.Schema = typeSchema("string")
	return &openapi3.ParameterRef{Value: p}
}

func responses(byStatus map[int]string) *openapi3.Responses {
	out := openapi3.NewResponses()
	for status, desc := range byStatus {
		d := desc
		out.Set(statusString(status), &openapi3.ResponseRef{
			Value: &openapi3.Response{Description: &d},
		})
	}
	return out
}

func statusString(code int) string {
	switch code {
	case 200:
		return "200"
	case 201:
		return "201"
	case 400:
		return "400"
	case 401:
		return "401"
	case 403:
		return "403"
	case 404:
		return "404"
	default:
		return "500"
	}
}
