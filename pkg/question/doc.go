// Package question defines the static descriptors a check-in walks through.
// A descriptor carries an identifier, the prompt, a type tag (choice-emoji,
// choice-scale or free-text) and the type-specific settings: the emoji
// choices, the integer range and its labels, and whether a secondary
// free-text answer is collected under "<id>_extra". Sets are loaded from JSON
// or YAML documents shaped as {questions: [...]} and validated before use.
package question
