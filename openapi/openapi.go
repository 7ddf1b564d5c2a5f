package openapi

import (
	"context"
	"encoding/json"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gopkg.in/yaml.v3"
)

var uuidType = reflect.TypeOf(uuid.UUID{})

// Document collects the operations served by the accounts API and renders
// them as an OpenAPI 3 description.
type Document struct {
	spec *openapi3.T
	mu   sync.RWMutex
	// schema names keyed by package-qualified Go type
	schemas map[string]string
}

func New(title, version string) *Document {
	return &Document{
		spec: &openapi3.T{
			OpenAPI: "3.0.3",
			Info: &openapi3.Info{
				Title:   title,
				Version: version,
			},
			Paths: openapi3.NewPaths(),
			Components: &openapi3.Components{
				Schemas:         make(openapi3.Schemas),
				SecuritySchemes: make(openapi3.SecuritySchemes),
			},
		},
		schemas: make(map[string]string),
	}
}

func (d *Document) Description(desc string) *Document {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.spec.Info.Description = desc
	return d
}

func (d *Document) Server(url, description string) *Document {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.spec.Servers = append(d.spec.Servers, &openapi3.Server{
		URL:         url,
		Description: description,
	})
	return d
}

func (d *Document) Tag(name, description string) *Document {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.spec.Tags = append(d.spec.Tags, &openapi3.Tag{
		Name:        name,
		Description: description,
	})
	return d
}

func (d *Document) BearerAuth(name, description string) *Document {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.spec.Components.SecuritySchemes[name] = &openapi3.SecuritySchemeRef{
		Value: &openapi3.SecurityScheme{
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "JWT",
			Description:  description,
		},
	}
	return d
}

func (d *Document) Spec() *openapi3.T {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.spec
}

// Validate checks the generated document against the OpenAPI 3 rules.
func (d *Document) Validate(ctx context.Context) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.spec.Validate(ctx)
}

func (d *Document) JSON() ([]byte, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return json.MarshalIndent(d.spec, "", "  ")
}

func (d *Document) YAML() ([]byte, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	intermediate, err := d.spec.MarshalYAML()
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(intermediate)
}

func (d *Document) JSONHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		data, err := d.JSON()
		if err != nil {
			return err
		}
		return c.JSONBlob(http.StatusOK, data)
	}
}

func (d *Document) YAMLHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		data, err := d.YAML()
		if err != nil {
			return err
		}
		return c.Blob(http.StatusOK, "application/yaml", data)
	}
}

func (d *Document) Route(method, path string) *RouteBuilder {
	return &RouteBuilder{
		doc:       d,
		method:    method,
		path:      path,
		operation: &openapi3.Operation{Responses: openapi3.NewResponses()},
	}
}

func (d *Document) addOperation(method, path string, op *openapi3.Operation) {
	d.mu.Lock()
	defer d.mu.Unlock()

	openAPIPath := echoPathToOpenAPI(path)
	item := d.spec.Paths.Find(openAPIPath)
	if item == nil {
		item = &openapi3.PathItem{}
		d.spec.Paths.Set(openAPIPath, item)
	}
	item.SetOperation(strings.ToUpper(method), op)
}

func echoPathToOpenAPI(path string) string {
	parts := strings.Split(path, "/")
	for i, part := range parts {
		if strings.HasPrefix(part, ":") {
			parts[i] = "{" + strings.TrimPrefix(part, ":") + "}"
		}
	}
	return strings.Join(parts, "/")
}

func (d *Document) schemaFor(example any) *openapi3.SchemaRef {
	d.mu.Lock()
	defer d.mu.Unlock()

	if example == nil {
		return openapi3.NewObjectSchema().NewRef()
	}
	return d.schemaFromType(reflect.TypeOf(example))
}

func (d *Document) schemaFromType(t reflect.Type) *openapi3.SchemaRef {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == uuidType {
		return openapi3.NewUUIDSchema().NewRef()
	}

	switch t.Kind() {
	case reflect.String:
		return openapi3.NewStringSchema().NewRef()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return openapi3.NewIntegerSchema().NewRef()
	case reflect.Float32, reflect.Float64:
		return openapi3.NewFloat64Schema().NewRef()
	case reflect.Bool:
		return openapi3.NewBoolSchema().NewRef()
	case reflect.Slice, reflect.Array:
		schema := openapi3.NewArraySchema()
		schema.Items = d.schemaFromType(t.Elem())
		return schema.NewRef()
	case reflect.Map:
		schema := openapi3.NewObjectSchema()
		schema.AdditionalProperties = openapi3.AdditionalProperties{Schema: d.schemaFromType(t.Elem())}
		return schema.NewRef()
	case reflect.Struct:
		return d.structSchema(t)
	default:
		return openapi3.NewObjectSchema().NewRef()
	}
}

// structSchema registers named structs under components/schemas and returns
// a reference to them. Anonymous structs are inlined.
func (d *Document) structSchema(t reflect.Type) *openapi3.SchemaRef {
	if t.PkgPath() == "time" && t.Name() == "Time" {
		return openapi3.NewDateTimeSchema().NewRef()
	}
	if t.Name() == "" {
		return d.buildStructSchema(t).NewRef()
	}

	key := t.PkgPath() + "." + t.Name()
	if name, ok := d.schemas[key]; ok {
		return openapi3.NewSchemaRef("#/components/schemas/"+name, nil)
	}

	name := t.Name()
	for i := 2; d.spec.Components.Schemas[name] != nil; i++ {
		name = t.Name() + strconv.Itoa(i)
	}
	d.schemas[key] = name
	d.spec.Components.Schemas[name] = d.buildStructSchema(t).NewRef()
	return openapi3.NewSchemaRef("#/components/schemas/"+name, nil)
}

func (d *Document) buildStructSchema(t reflect.Type) *openapi3.Schema {
	schema := openapi3.NewObjectSchema()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		name, omitempty, skip := jsonName(field)
		if skip {
			continue
		}

		if field.Anonymous && field.Tag.Get("json") == "" {
			embedded := field.Type
			if embedded.Kind() == reflect.Pointer {
				embedded = embedded.Elem()
			}
			if embedded.Kind() == reflect.Struct {
				for prop, ref := range d.buildStructSchema(embedded).Properties {
					schema.WithPropertyRef(prop, ref)
				}
				continue
			}
		}

		ref := d.schemaFromType(field.Type)
		if desc := field.Tag.Get("description"); desc != "" && ref.Value != nil {
			ref.Value.Description = desc
		}
		schema.WithPropertyRef(name, ref)

		if !omitempty && field.Type.Kind() != reflect.Pointer {
			schema.Required = append(schema.Required, name)
		}
	}
	return schema
}

func jsonName(field reflect.StructField) (name string, omitempty, skip bool) {
	tag := field.Tag.Get("json")
	if tag == "-" {
		return "", false, true
	}
	parts := strings.Split(tag, ",")
	name = parts[0]
	if name == "" {
		name = field.Name
	}
	for _, opt := range parts[1:] {
		if opt == "omitempty" {
			omitempty = true
		}
	}
	return name, omitempty, false
}
