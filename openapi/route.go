package openapi

import (
	"net/http"
	"strconv"

	"github.com/getkin/kin-openapi/openapi3"
)

type RouteBuilder struct {
	doc       *Document
	method    string
	path      string
	operation *openapi3.Operation
}

func (rb *RouteBuilder) Summary(summary string) *RouteBuilder {
	rb.operation.Summary = summary
	return rb
}

func (rb *RouteBuilder) Description(description string) *RouteBuilder {
	rb.operation.Description = description
	return rb
}

func (rb *RouteBuilder) OperationID(id string) *RouteBuilder {
	rb.operation.OperationID = id
	return rb
}

func (rb *RouteBuilder) Tags(tags ...string) *RouteBuilder {
	rb.operation.Tags = append(rb.operation.Tags, tags...)
	return rb
}

func (rb *RouteBuilder) Body(example any, description string) *RouteBuilder {
	rb.operation.RequestBody = &openapi3.RequestBodyRef{
		Value: openapi3.NewRequestBody().
			WithDescription(description).
			WithRequired(true).
			WithJSONSchemaRef(rb.doc.schemaFor(example)),
	}
	return rb
}

// Response documents a status code. A nil example documents an empty body.
func (rb *RouteBuilder) Response(statusCode int, example any, description string) *RouteBuilder {
	response := openapi3.NewResponse().WithDescription(description)
	if example != nil {
		response.WithJSONSchemaRef(rb.doc.schemaFor(example))
	}
	rb.operation.Responses.Set(strconv.Itoa(statusCode), &openapi3.ResponseRef{Value: response})
	return rb
}

func (rb *RouteBuilder) Security(schemes ...string) *RouteBuilder {
	if rb.operation.Security == nil {
		rb.operation.Security = openapi3.NewSecurityRequirements()
	}
	for _, scheme := range schemes {
		rb.operation.Security.With(openapi3.NewSecurityRequirement().Authenticate(scheme))
	}
	return rb
}

func (rb *RouteBuilder) Build() {
	if rb.operation.Responses.Len() == 0 {
		rb.Response(http.StatusOK, nil, http.StatusText(http.StatusOK))
	}
	rb.doc.addOperation(rb.method, rb.path, rb.operation)
}
