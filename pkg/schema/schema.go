// Package schema describes persisted check-in blobs and the HTTP API as
// OpenAPI 3 documents and validates blobs against them.
package schema

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formwalk/pkg/question"
)

// Component names used in Document.
const (
	AnswerSetName       = "AnswerSet"
	InitialResponseName = "InitialResponse"
	StepName            = "Step"
	ErrorName           = "Error"
)

// AnswerSetSchema describes the answer blob a walk over questions persists:
// one required property per question and an optional string per extra key.
func AnswerSetSchema(questions []question.Question) *openapi3.Schema {
	s := openapi3.NewObjectSchema().WithoutAdditionalProperties()
	s.Description = "Answers keyed by question id."
	for _, q := range questions {
		s.WithProperty(q.ID, questionSchema(q))
		s.Required = append(s.Required, q.ID)
		if q.AllowExtra {
			extra := openapi3.NewStringSchema().WithMinLength(1)
			extra.Description = "Optional additional information for " + q.ID + "."
			s.WithProperty(q.ExtraKey(), extra)
		}
	}
	return s
}

func questionSchema(q question.Question) *openapi3.Schema {
	var s *openapi3.Schema
	switch q.Type {
	case question.TypeEmoji:
		values := make([]any, len(q.Choices))
		for i, c := range q.Choices {
			values[i] = c
		}
		s = openapi3.NewStringSchema().WithEnum(values...)
	case question.TypeScale:
		s = openapi3.NewIntegerSchema().WithMin(float64(q.Min)).WithMax(float64(q.Max))
		if len(q.Labels) > 0 {
			labels := make([]string, 0, len(q.Labels))
			for _, n := range q.ScaleValues() {
				labels = append(labels, q.ScaleLabel(n))
			}
			s.Description = strings.Join(labels, ", ")
		}
	default:
		s = openapi3.NewStringSchema()
	}
	s.Title = q.Prompt
	return s
}

// InitialResponseSchema describes the greeting blob.
func InitialResponseSchema() *openapi3.Schema {
	s := openapi3.NewObjectSchema().
		WithProperty("dayMood", openapi3.NewStringSchema().WithMinLength(1)).
		WithProperty("timestamp", openapi3.NewDateTimeSchema())
	s.Required = []string{"dayMood", "timestamp"}
	return s
}

// ValidateAnswers checks a persisted answer blob against AnswerSetSchema.
// All violations are reported together.
func ValidateAnswers(questions []question.Question, blob []byte) error {
	return validate(AnswerSetSchema(questions), blob)
}

// ValidateInitial checks a persisted greeting blob.
func ValidateInitial(blob []byte) error {
	return validate(InitialResponseSchema(), blob)
}

func validate(s *openapi3.Schema, blob []byte) error {
	var value any
	if err := json.Unmarshal(blob, &value); err != nil {
		return fmt.Errorf("schema: decode blob: %w", err)
	}
	if err := s.VisitJSON(value, openapi3.MultiErrors()); err != nil {
		return fmt.Errorf("schema: %w", err)
	}
	return nil
}

// Document builds the OpenAPI 3.0.3 description of the web API and
// validates it.
func Document(ctx context.Context, questions []question.Question) (*openapi3.T, error) {
	ref := func(name string) *openapi3.SchemaRef {
		return openapi3.NewSchemaRef("#/components/schemas/"+name, nil)
	}
	components := openapi3.Schemas{
		AnswerSetName:       openapi3.NewSchemaRef("", AnswerSetSchema(questions)),
		InitialResponseName: openapi3.NewSchemaRef("", InitialResponseSchema()),
		StepName:            openapi3.NewSchemaRef("", stepSchema(questions)),
		ErrorName:           openapi3.NewSchemaRef("", errorSchema()),
	}
	resolve := func(name string) *openapi3.SchemaRef {
		r := ref(name)
		r.Value = components[name].Value
		return r
	}

	stepResponse := func(description string) *openapi3.ResponseRef {
		return &openapi3.ResponseRef{Value: openapi3.NewResponse().
			WithDescription(description).
			WithJSONSchemaRef(resolve(StepName))}
	}
	errorResponse := func(description string) *openapi3.ResponseRef {
		return &openapi3.ResponseRef{Value: openapi3.NewResponse().
			WithDescription(description).
			WithJSONSchemaRef(resolve(ErrorName))}
	}
	form := func(s *openapi3.Schema) *openapi3.RequestBodyRef {
		return &openapi3.RequestBodyRef{Value: openapi3.NewRequestBody().
			WithRequired(true).
			WithContent(openapi3.NewContentWithFormDataSchema(s))}
	}

	format := openapi3.NewQueryParameter("format").
		WithSchema(openapi3.NewStringSchema().WithEnum("json", "html", "tui"))
	format.Description = "Explicit renderer; overrides the Accept header."

	startBody := openapi3.NewObjectSchema().WithProperty("dayMood", openapi3.NewStringSchema())
	startBody.Required = []string{"dayMood"}
	answerBody := openapi3.NewObjectSchema().
		WithProperty("value", openapi3.NewStringSchema()).
		WithProperty("extra", openapi3.NewStringSchema()).
		WithProperty("question", openapi3.NewStringSchema())
	answerBody.Required = []string{"value"}

	paths := openapi3.NewPaths(
		openapi3.WithPath("/", &openapi3.PathItem{Get: &openapi3.Operation{
			OperationID: "currentStep",
			Summary:     "Render the current step of the session.",
			Parameters:  openapi3.Parameters{{Value: format}},
			Responses:   openapi3.NewResponses(openapi3.WithStatus(200, stepResponse("Current step."))),
		}}),
		openapi3.WithPath("/start", &openapi3.PathItem{Post: &openapi3.Operation{
			OperationID: "submitGreeting",
			Summary:     "Answer the greeting and move on to the questions.",
			RequestBody: form(startBody),
			Responses: openapi3.NewResponses(
				openapi3.WithStatus(200, stepResponse("Next step.")),
				openapi3.WithStatus(409, errorResponse("The session is past the greeting.")),
				openapi3.WithStatus(422, stepResponse("Empty response; step re-rendered with errors.")),
			),
		}}),
		openapi3.WithPath("/answer", &openapi3.PathItem{Post: &openapi3.Operation{
			OperationID: "submitAnswer",
			Summary:     "Record and confirm the answer to the current question.",
			RequestBody: form(answerBody),
			Responses: openapi3.NewResponses(
				openapi3.WithStatus(200, stepResponse("Next step.")),
				openapi3.WithStatus(409, errorResponse("The session is not on a question.")),
				openapi3.WithStatus(422, stepResponse("Missing or invalid answer.")),
			),
		}}),
		openapi3.WithPath("/answers", &openapi3.PathItem{Get: &openapi3.Operation{
			OperationID: "answers",
			Summary:     "Persisted answer set of a completed session.",
			Responses: openapi3.NewResponses(
				openapi3.WithStatus(200, &openapi3.ResponseRef{Value: openapi3.NewResponse().
					WithDescription("Answer set.").
					WithJSONSchemaRef(resolve(AnswerSetName))}),
				openapi3.WithStatus(404, errorResponse("The session has not finished.")),
			),
		}}),
	)

	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       "formwalk",
			Description: "Daily check-in: a greeting followed by a fixed sequence of questions.",
			Version:     "1.0.0",
		},
		Paths:      paths,
		Components: &openapi3.Components{Schemas: components},
	}
	if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("schema: validate document: %w", err)
	}
	return doc, nil
}

func stepSchema(questions []question.Question) *openapi3.Schema {
	ids := make([]any, 0, len(questions))
	for _, q := range questions {
		ids = append(ids, q.ID)
	}
	choice := openapi3.NewObjectSchema().
		WithProperty("value", openapi3.NewStringSchema()).
		WithProperty("label", openapi3.NewStringSchema()).
		WithProperty("selected", openapi3.NewBoolSchema())
	view := openapi3.NewObjectSchema().
		WithProperty("id", openapi3.NewStringSchema().WithEnum(ids...)).
		WithProperty("prompt", openapi3.NewStringSchema()).
		WithProperty("type", openapi3.NewStringSchema().WithEnum(
			string(question.TypeEmoji), string(question.TypeScale), string(question.TypeText))).
		WithProperty("choices", openapi3.NewArraySchema().WithItems(choice)).
		WithProperty("answer", openapi3.NewStringSchema()).
		WithProperty("allowExtra", openapi3.NewBoolSchema()).
		WithProperty("extraKey", openapi3.NewStringSchema()).
		WithProperty("extra", openapi3.NewStringSchema())

	s := openapi3.NewObjectSchema().
		WithProperty("stage", openapi3.NewStringSchema().WithEnum("greeting", "questions", "finished")).
		WithProperty("title", openapi3.NewStringSchema()).
		WithProperty("prompt", openapi3.NewStringSchema()).
		WithProperty("index", openapi3.NewIntegerSchema().WithMin(0)).
		WithProperty("total", openapi3.NewIntegerSchema().WithMin(1)).
		WithProperty("position", openapi3.NewStringSchema()).
		WithProperty("question", view).
		WithProperty("canSubmit", openapi3.NewBoolSchema()).
		WithProperty("isLast", openapi3.NewBoolSchema()).
		WithProperty("submitLabel", openapi3.NewStringSchema()).
		WithProperty("errors", openapi3.NewArraySchema().WithItems(openapi3.NewStringSchema())).
		WithProperty("answers", openapi3.NewObjectSchema())
	s.Required = []string{"stage", "index", "total", "canSubmit", "isLast"}
	return s
}

func errorSchema() *openapi3.Schema {
	s := openapi3.NewObjectSchema().
		WithProperty("error", openapi3.NewStringSchema()).
		WithProperty("status", openapi3.NewIntegerSchema())
	s.Required = []string{"error"}
	return s
}

// PropertyNames lists the schema's properties in sorted order.
func PropertyNames(s *openapi3.Schema) []string {
	names := make([]string, 0, len(s.Properties))
	for name := range s.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// StatusCodes lists the documented status codes of an operation, sorted.
func StatusCodes(op *openapi3.Operation) []int {
	if op == nil || op.Responses == nil {
		return nil
	}
	var codes []int
	for key := range op.Responses.Map() {
		if n, err := strconv.Atoi(key); err == nil {
			codes = append(codes, n)
		}
	}
	sort.Ints(codes)
	return codes
}
