package api

import (
	"github.com/JaimeStill/gallery/internal/config"
	"github.com/JaimeStill/gallery/pkg/openapi"
)

// NewSpec describes the API module's endpoints as an OpenAPI 3.1 document.
func NewSpec(cfg *config.Config) *openapi.Spec {
	spec := openapi.NewSpec(cfg.API.OpenAPI, cfg.Version)
	spec.AddServer(cfg.API.BasePath)
	spec.AddTag("Prompts", "Prompt records")
	spec.AddTag("Auth", "Static-token admin login")
	spec.AddTag("Media", "Image upload relay")
	spec.Components.AddSchemas(schemas())

	var writeSecurity []openapi.Requirement
	if cfg.Auth.ProtectWrites {
		writeSecurity = openapi.BearerAuth()
	}

	idParam := openapi.PathParam("id", "Prompt identifier")

	spec.Paths["/prompts"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary: "List all prompts, newest first",
			Tags:    []string{"Prompts"},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseArrayJSON("All prompts", "Prompt"),
				500: openapi.ResponseRef("InternalError"),
			},
		},
		Post: &openapi.Operation{
			Summary:     "Create a prompt",
			Tags:        []string{"Prompts"},
			RequestBody: openapi.RequestBodyJSON("PromptCommand", true),
			Security:    writeSecurity,
			Responses: map[int]*openapi.Response{
				201: openapi.ResponseJSON("Created prompt", "Prompt"),
				400: openapi.ResponseRef("BadRequest"),
				500: openapi.ResponseRef("InternalError"),
			},
		},
	}

	spec.Paths["/prompts/search"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Search and paginate prompts",
			Description: "Case-insensitive match on title or description. Pages outside the result are clamped.",
			Tags:        []string{"Prompts"},
			RequestBody: openapi.RequestBodyJSON("PageRequest", true),
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Page of prompts", "PromptPage"),
				400: openapi.ResponseRef("BadRequest"),
				500: openapi.ResponseRef("InternalError"),
			},
		},
	}

	spec.Paths["/prompts/{id}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:    "Get a prompt",
			Tags:       []string{"Prompts"},
			Parameters: []*openapi.Parameter{idParam},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Prompt", "Prompt"),
				404: openapi.ResponseRef("NotFound"),
				500: openapi.ResponseRef("InternalError"),
			},
		},
		Put: &openapi.Operation{
			Summary:     "Update a prompt",
			Tags:        []string{"Prompts"},
			Parameters:  []*openapi.Parameter{idParam},
			RequestBody: openapi.RequestBodyJSON("PromptCommand", true),
			Security:    writeSecurity,
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Updated prompt", "Prompt"),
				400: openapi.ResponseRef("BadRequest"),
				404: openapi.ResponseRef("NotFound"),
				500: openapi.ResponseRef("InternalError"),
			},
		},
		Delete: &openapi.Operation{
			Summary:    "Delete a prompt",
			Tags:       []string{"Prompts"},
			Parameters: []*openapi.Parameter{idParam},
			Security:   writeSecurity,
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Deletion confirmed", "Message"),
				404: openapi.ResponseRef("NotFound"),
				500: openapi.ResponseRef("InternalError"),
			},
		},
	}

	spec.Paths["/login"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Exchange admin credentials for the static token",
			Tags:        []string{"Auth"},
			RequestBody: openapi.RequestBodyJSON("Credentials", true),
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Login succeeded", "AuthResponse"),
				401: openapi.ResponseJSON("Invalid credentials", "AuthResponse"),
				429: openapi.ResponseRef("TooManyRequests"),
			},
		},
	}

	spec.Paths["/login/verify"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:  "Check a stored token",
			Tags:     []string{"Auth"},
			Security: openapi.BearerAuth(),
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Token valid", "AuthResponse"),
				401: openapi.ResponseJSON("Token invalid", "AuthResponse"),
			},
		},
	}

	spec.Paths["/upload"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Upload an image to the media host",
			Tags:        []string{"Media"},
			RequestBody: openapi.RequestBodyMultipart("image", "Image file up to "+cfg.Media.MaxUploadSize),
			Security:    writeSecurity,
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Hosted image", "UploadResponse"),
				400: openapi.ResponseRef("BadRequest"),
				500: openapi.ResponseRef("InternalError"),
			},
		},
	}

	if cfg.UsesBlobStorage() {
		spec.Paths["/media/{key}"] = &openapi.PathItem{
			Get: &openapi.Operation{
				Summary:    "Fetch a blob-hosted image",
				Tags:       []string{"Media"},
				Parameters: []*openapi.Parameter{openapi.PathParam("key", "Blob key, may contain slashes")},
				Responses: map[int]*openapi.Response{
					200: {Description: "Image bytes"},
					404: openapi.ResponseRef("NotFound"),
				},
			},
		}
	}

	return spec
}

func schemas() map[string]*openapi.Schema {
	str := func(desc string) *openapi.Schema {
		return &openapi.Schema{Type: "string", Description: desc}
	}

	return map[string]*openapi.Schema{
		"Prompt": {
			Type:     "object",
			Required: []string{"id", "title", "image", "description", "prompt", "createdAt"},
			Properties: map[string]*openapi.Schema{
				"id":          str("Server-generated identifier"),
				"title":       str("Display title"),
				"image":       {Type: "string", Format: "uri", Description: "Hosted image URL, may be empty"},
				"description": str("Optional description"),
				"prompt":      str("Prompt text"),
				"createdAt":   {Type: "string", Format: "date-time"},
				"updatedAt":   {Type: "string", Format: "date-time", Description: "Omitted until the first update"},
			},
		},
		"PromptCommand": {
			Type:     "object",
			Required: []string{"title", "prompt"},
			Properties: map[string]*openapi.Schema{
				"title":       str("Non-blank title"),
				"image":       str("Image URL"),
				"description": str("Description"),
				"prompt":      str("Non-blank prompt text"),
			},
		},
		"PromptPage": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"data":        {Type: "array", Items: openapi.SchemaRef("Prompt")},
				"total":       {Type: "integer"},
				"page":        {Type: "integer"},
				"page_size":   {Type: "integer"},
				"total_pages": {Type: "integer"},
				"has_prev":    {Type: "boolean"},
				"has_next":    {Type: "boolean"},
			},
		},
		"Message": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"message": str("Confirmation message"),
			},
		},
		"Credentials": {
			Type:     "object",
			Required: []string{"username", "password"},
			Properties: map[string]*openapi.Schema{
				"username": str("Admin username"),
				"password": {Type: "string", Format: "password"},
			},
		},
		"AuthResponse": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"success": {Type: "boolean"},
				"token":   str("Static token, present on login success"),
				"error":   str("Failure reason"),
			},
		},
		"UploadResponse": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"success":   {Type: "boolean"},
				"url":       {Type: "string", Format: "uri"},
				"public_id": str("Host-specific image identifier"),
				"width":     {Type: "integer"},
				"height":    {Type: "integer"},
			},
		},
	}
}
