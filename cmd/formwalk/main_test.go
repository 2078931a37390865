package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formwalk/internal/logging"
	"github.com/goliatone/go-formwalk/pkg/renderers/tui"
)

type scriptedDriver struct {
	inputs    []string
	selects   []int
	textAreas []string
}

func (d *scriptedDriver) Input(context.Context, tui.InputConfig) (string, error) {
	if len(d.inputs) == 0 {
		return "", errors.New("no input scripted")
	}
	v := d.inputs[0]
	d.inputs = d.inputs[1:]
	return v, nil
}

func (d *scriptedDriver) Select(context.Context, tui.SelectConfig) (int, error) {
	if len(d.selects) == 0 {
		return -1, errors.New("no select scripted")
	}
	v := d.selects[0]
	d.selects = d.selects[1:]
	return v, nil
}

func (d *scriptedDriver) TextArea(context.Context, tui.TextAreaConfig) (string, error) {
	if len(d.textAreas) == 0 {
		return "", errors.New("no textarea scripted")
	}
	v := d.textAreas[0]
	d.textAreas = d.textAreas[1:]
	return v, nil
}

func (d *scriptedDriver) Info(context.Context, string) error {
	return nil
}

// execute runs the CLI in a scratch directory so the default file store and
// config lookup stay inside it.
func execute(t *testing.T, dir string, driver tui.PromptDriver, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	a := newApp(&out)
	a.driver = driver
	a.logOptions = []logging.Option{logging.WithConsole(nil)}

	root := newRootCmd(a)
	root.SetArgs(args)
	t.Chdir(dir)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRunThenShow(t *testing.T) {
	dir := t.TempDir()
	driver := &scriptedDriver{
		textAreas: []string{"Feliz"},
		selects:   []int{0, 2},
		inputs:    []string{"", "ok"},
	}
	_, err := execute(t, dir, driver, "run", "--no-color")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "formwalk-data.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "dynamicFormData")
	assert.Contains(t, string(data), "emotionsData")

	out, err := execute(t, dir, nil, "show", "--check", "--no-color")
	require.NoError(t, err)
	assert.Contains(t, out, "emotionsData")
	assert.Contains(t, out, `"dayMood": "Feliz"`)
	assert.Contains(t, out, `"sleep": 3`)
	assert.Contains(t, out, `"notes": "ok"`)
	assert.Contains(t, out, "schema check passed")
}

func TestShow_CheckFailsOnInvalidBlob(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "formwalk-data.json"),
		[]byte(`{"dynamicFormData":"{\"mood\":\"🤖\",\"sleep\":2,\"notes\":\"ok\"}"}`), 0o600))

	out, err := execute(t, dir, nil, "show", "--check", "--no-color")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema check failed")
	assert.Contains(t, out, "dynamicFormData.mood:")
	assert.Contains(t, out, "(not stored)")
}

func TestShow_NothingStored(t *testing.T) {
	out, err := execute(t, t.TempDir(), nil, "show", "--session", "abc", "--store", "memory")
	require.NoError(t, err)
	assert.Contains(t, out, "(not stored)")
}

func TestSchemaCommand(t *testing.T) {
	out, err := execute(t, t.TempDir(), nil, "schema")
	require.NoError(t, err)
	assert.Contains(t, out, `"openapi": "3.0.3"`)
	assert.Contains(t, out, `"/answer"`)

	out, err = execute(t, t.TempDir(), nil, "schema", "--yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "openapi: 3.0.3")
}

func TestQuestionsCommand(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "questions.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`questions:
  - id: energy
    prompt: "¿Cuánta energía tienes?"
    type: choice-scale
    min: 1
    max: 5
`), 0o600))

	out, err := execute(t, dir, nil, "questions", "--questions", file)
	require.NoError(t, err)
	assert.Contains(t, out, "id: energy")
	assert.NotContains(t, out, "id: mood")

	out, err = execute(t, t.TempDir(), nil, "questions")
	require.NoError(t, err)
	assert.Contains(t, out, "id: mood")
}

func TestBotRequiresToken(t *testing.T) {
	_, err := execute(t, t.TempDir(), nil, "bot")
	assert.ErrorContains(t, err, "telegram token is required")
}

func TestInvalidStoreFlag(t *testing.T) {
	_, err := execute(t, t.TempDir(), nil, "show", "--store", "redis")
	assert.ErrorContains(t, err, `unknown store backend "redis"`)
}
