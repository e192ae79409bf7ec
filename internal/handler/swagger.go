package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dafibh/prolink/prolink-backend/docs"
	"github.com/labstack/echo/v4"
	"github.com/swaggo/swag"
)

// OpenAPI3Spec represents an OpenAPI 3.0 spec structure
type OpenAPI3Spec struct {
	OpenAPI    string                 `json:"openapi"`
	Info       map[string]interface{} `json:"info"`
	Servers    []Server               `json:"servers"`
	Paths      map[string]interface{} `json:"paths"`
	Components map[string]interface{} `json:"components,omitempty"`
}

// Server represents an OpenAPI 3.0 server
type Server struct {
	URL         string `json:"url"`
	Description string `json:"description"`
}

// transformRefs rewrites $ref from #/definitions/ to #/components/schemas/
// and converts Swagger 2.0 parameters to OpenAPI 3.0 format
func transformRefs(data interface{}) interface{} {
	switch v := data.(type) {
	case map[string]interface{}:
		if _, hasIn := v["in"]; hasIn {
			if _, hasName := v["name"]; hasName {
				return transformParameter(v)
			}
		}

		result := make(map[string]interface{}, len(v))
		for key, value := range v {
			if ref, ok := value.(string); ok && key == "$ref" {
				result[key] = strings.Replace(ref, "#/definitions/", "#/components/schemas/", 1)
				continue
			}
			result[key] = transformRefs(value)
		}
		return result
	case []interface{}:
		result := make([]interface{}, len(v))
		for i, item := range v {
			result[i] = transformRefs(item)
		}
		return result
	default:
		return data
	}
}

// transformParameter converts a non-body Swagger 2.0 parameter
func transformParameter(param map[string]interface{}) map[string]interface{} {
	result := make(map[string]interface{})
	for _, field := range []string{"name", "in", "description", "required"} {
		if val, ok := param[field]; ok {
			result[field] = val
		}
	}

	schema := make(map[string]interface{})
	for _, field := range []string{"type", "format", "enum", "default", "minimum", "maximum", "items"} {
		if val, ok := param[field]; ok {
			schema[field] = transformRefs(val)
		}
	}
	if len(schema) > 0 {
		result["schema"] = schema
	}
	return result
}

// transformOperation moves body and formData parameters into requestBody
func transformOperation(op map[string]interface{}) map[string]interface{} {
	params, _ := op["parameters"].([]interface{})
	if len(params) == 0 {
		return transformRefs(op).(map[string]interface{})
	}

	var kept []interface{}
	var requestBody map[string]interface{}
	formProps := map[string]interface{}{}
	var formRequired []interface{}

	for _, raw := range params {
		param, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		switch param["in"] {
		case "body":
			requestBody = map[string]interface{}{
				"description": param["description"],
				"required":    param["required"],
				"content": map[string]interface{}{
					"application/json": map[string]interface{}{"schema": transformRefs(param["schema"])},
				},
			}
		case "formData":
			name, _ := param["name"].(string)
			prop := map[string]interface{}{"type": param["type"], "description": param["description"]}
			if param["type"] == "file" {
				prop = map[string]interface{}{"type": "string", "format": "binary", "description": param["description"]}
			}
			formProps[name] = prop
			if required, _ := param["required"].(bool); required {
				formRequired = append(formRequired, name)
			}
		default:
			kept = append(kept, transformParameter(param))
		}
	}

	if len(formProps) > 0 {
		schema := map[string]interface{}{"type": "object", "properties": formProps}
		if len(formRequired) > 0 {
			schema["required"] = formRequired
		}
		requestBody = map[string]interface{}{
			"required": len(formRequired) > 0,
			"content": map[string]interface{}{
				"multipart/form-data": map[string]interface{}{"schema": schema},
			},
		}
	}

	rest := make(map[string]interface{}, len(op))
	for k, v := range op {
		if k != "parameters" && k != "consumes" {
			rest[k] = v
		}
	}
	result := transformRefs(rest).(map[string]interface{})
	if len(kept) > 0 {
		result["parameters"] = kept
	}
	if requestBody != nil {
		result["requestBody"] = requestBody
	}
	return result
}

func transformPaths(paths map[string]interface{}) map[string]interface{} {
	result := make(map[string]interface{}, len(paths))
	for path, rawItem := range paths {
		item, ok := rawItem.(map[string]interface{})
		if !ok {
			continue
		}
		ops := make(map[string]interface{}, len(item))
		for method, rawOp := range item {
			if op, ok := rawOp.(map[string]interface{}); ok {
				ops[method] = transformOperation(op)
			}
		}
		result[path] = ops
	}
	return result
}

// ConvertToOpenAPI3 turns a Swagger 2.0 document into an OpenAPI 3.0 spec
func ConvertToOpenAPI3(doc []byte, servers []Server) (*OpenAPI3Spec, error) {
	var swagger2 map[string]interface{}
	if err := json.Unmarshal(doc, &swagger2); err != nil {
		return nil, err
	}

	info, _ := swagger2["info"].(map[string]interface{})
	paths, _ := swagger2["paths"].(map[string]interface{})

	components := make(map[string]interface{})
	if secDefs, ok := swagger2["securityDefinitions"].(map[string]interface{}); ok {
		components["securitySchemes"] = secDefs
	}
	if definitions, ok := swagger2["definitions"].(map[string]interface{}); ok {
		components["schemas"] = transformRefs(definitions)
	}

	return &OpenAPI3Spec{
		OpenAPI:    "3.0.3",
		Info:       info,
		Servers:    servers,
		Paths:      transformPaths(paths),
		Components: components,
	}, nil
}

// OpenAPI3Handler serves the generated swagger doc as OpenAPI 3.0
func OpenAPI3Handler(servers []Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		doc, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
		if err != nil {
			return NewInternalError(c, "Failed to read swagger doc")
		}

		spec, err := ConvertToOpenAPI3([]byte(doc), servers)
		if err != nil {
			return NewInternalError(c, "Failed to parse swagger doc")
		}
		return c.JSON(http.StatusOK, spec)
	}
}
