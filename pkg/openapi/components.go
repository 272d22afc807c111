package openapi

import "maps"

func errorContent() map[string]*MediaType {
	return map[string]*MediaType{
		"application/json": {Schema: SchemaRef("Error")},
	}
}

// NewComponents creates Components with shared schemas, error responses,
// and the bearer token security scheme.
func NewComponents() *Components {
	return &Components{
		Schemas: map[string]*Schema{
			"Error": {
				Type: "object",
				Properties: map[string]*Schema{
					"error": {Type: "string", Description: "Error message"},
				},
			},
			"PageRequest": {
				Type: "object",
				Properties: map[string]*Schema{
					"page":      {Type: "integer", Description: "Page number (1-indexed)", Example: 1},
					"page_size": {Type: "integer", Description: "Results per page", Example: 6},
					"search":    {Type: "string", Description: "Case-insensitive match against title or description"},
				},
			},
		},
		Responses: map[string]*Response{
			"BadRequest": {
				Description: "Invalid request",
				Content:     errorContent(),
			},
			"Unauthorized": {
				Description: "Missing or invalid token",
				Content:     errorContent(),
			},
			"NotFound": {
				Description: "Resource not found",
				Content:     errorContent(),
			},
			"TooManyRequests": {
				Description: "Rate limit exceeded",
				Content:     errorContent(),
			},
			"InternalError": {
				Description: "Internal server error",
				Content:     errorContent(),
			},
		},
		SecuritySchemes: map[string]*SecurityScheme{
			"bearerAuth": {
				Type:        "http",
				Scheme:      "bearer",
				Description: "Static admin token returned by the login endpoint",
			},
		},
	}
}

// AddSchemas merges the given schemas into the component schemas.
func (c *Components) AddSchemas(schemas map[string]*Schema) {
	maps.Copy(c.Schemas, schemas)
}

// AddResponses merges the given responses into the component responses.
func (c *Components) AddResponses(responses map[string]*Response) {
	maps.Copy(c.Responses, responses)
}
